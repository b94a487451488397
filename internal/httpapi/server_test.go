package httpapi

import (
	"context"
	"crypto/tls"
	"net"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/Veraticus/loan-payoff/internal/certs"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/payoff"
	"github.com/Veraticus/loan-payoff/internal/planner"
	"github.com/Veraticus/loan-payoff/internal/testutil"
)

func newTestServer() *Server {
	return New(planner.NewWithConfig(nil, nil, planner.Config{MaxLoans: 4}), Config{})
}

func do(t *testing.T, s *Server, method, path string, body any) *fasthttp.RequestCtx {
	t.Helper()

	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(path)
	switch b := body.(type) {
	case nil:
	case string:
		ctx.Request.SetBodyString(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(t, err)
		ctx.Request.SetBody(data)
	}

	s.Handler(&ctx)
	return &ctx
}

func decodeError(t *testing.T, ctx *fasthttp.RequestCtx) ErrorResponse {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, ctx.Response.StatusCode(), resp.Status)
	return resp
}

func TestHealth(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodGet, "/healthz", nil)
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(ctx.Response.Body()))
	assert.Equal(t, "application/json", string(ctx.Response.Header.ContentType()))
}

func TestOptimize(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodPost, "/v1/optimize", OptimizeRequest{
		Loans: testutil.HouseholdLoans(),
		Extra: 100,
	})
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var report planner.Report
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &report))
	assert.Equal(t, model.Ordering{1, 0}, report.Payoff.Ordering)
	assert.Equal(t, []string{"personal", "car"}, report.Names)
	assert.Equal(t, 686.87, report.Payoff.Savings)
	assert.Equal(t, 32.37, report.Payoff.SavingsOverDebtSnowball)
	assert.False(t, report.Payoff.IsDebtSnowball)
}

func TestEvaluate(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodPost, "/v1/evaluate", EvaluateRequest{
		Loans:    testutil.HouseholdLoans(),
		Ordering: model.Ordering{0, 1},
		Extra:    100,
	})
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode(), string(ctx.Response.Body()))

	var eval payoff.Evaluation
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &eval))
	assert.True(t, eval.IsDebtSnowball)
	assert.Equal(t, 654.50, eval.SavingsTotal)
}

func TestPayment(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodPost, "/v1/payment", testutil.CarLoan)
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var resp PaymentResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &resp))
	assert.Equal(t, 241.79, resp.Calculated)
	assert.True(t, resp.Matches)
	assert.Equal(t, "car", resp.Loan.Name)

	ctx = do(t, newTestServer(), fasthttp.MethodPost, "/v1/payment", `{"initial_value": 100}`)
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, "invalid_input", decodeError(t, ctx).Code)
}

func TestErrors(t *testing.T) {
	badLoan := model.Loan{Name: "bad", InitialValue: 5000, Rate: 0.01, NumberOfPayments: 24, PaymentAmount: 200}

	tests := []struct {
		body       any
		name       string
		method     string
		path       string
		wantCode   string
		wantStatus int
	}{
		{
			name:       "unknown path",
			method:     fasthttp.MethodGet,
			path:       "/v2/optimize",
			wantStatus: fasthttp.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "wrong method",
			method:     fasthttp.MethodGet,
			path:       "/v1/optimize",
			wantStatus: fasthttp.StatusMethodNotAllowed,
			wantCode:   "method_not_allowed",
		},
		{
			name:       "empty body",
			method:     fasthttp.MethodPost,
			path:       "/v1/optimize",
			wantStatus: fasthttp.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "malformed json",
			method:     fasthttp.MethodPost,
			path:       "/v1/optimize",
			body:       `{"loans": [`,
			wantStatus: fasthttp.StatusBadRequest,
			wantCode:   "bad_request",
		},
		{
			name:       "no loans",
			method:     fasthttp.MethodPost,
			path:       "/v1/optimize",
			body:       OptimizeRequest{Extra: 100},
			wantStatus: fasthttp.StatusBadRequest,
			wantCode:   "no_loans",
		},
		{
			name:       "negative extra",
			method:     fasthttp.MethodPost,
			path:       "/v1/optimize",
			body:       OptimizeRequest{Loans: testutil.HouseholdLoans(), Extra: -5},
			wantStatus: fasthttp.StatusBadRequest,
			wantCode:   "invalid_input",
		},
		{
			name:   "too many loans",
			method: fasthttp.MethodPost,
			path:   "/v1/optimize",
			body: OptimizeRequest{Loans: []model.Loan{
				testutil.CarLoan, testutil.CarLoan, testutil.CarLoan, testutil.CarLoan, testutil.CarLoan,
			}},
			wantStatus: fasthttp.StatusBadRequest,
			wantCode:   "too_many_loans",
		},
		{
			name:       "invalid loan",
			method:     fasthttp.MethodPost,
			path:       "/v1/optimize",
			body:       OptimizeRequest{Loans: []model.Loan{testutil.CarLoan, badLoan}, Extra: 100},
			wantStatus: fasthttp.StatusUnprocessableEntity,
			wantCode:   "invalid_loan",
		},
		{
			name:       "never pays off",
			method:     fasthttp.MethodPost,
			path:       "/v1/optimize",
			body:       OptimizeRequest{Loans: []model.Loan{testutil.UnderwaterLoan}},
			wantStatus: fasthttp.StatusUnprocessableEntity,
			wantCode:   "loan_goes_to_inf",
		},
		{
			name:   "invalid ordering",
			method: fasthttp.MethodPost,
			path:   "/v1/evaluate",
			body: EvaluateRequest{
				Loans:    testutil.HouseholdLoans(),
				Ordering: model.Ordering{1, 1},
			},
			wantStatus: fasthttp.StatusBadRequest,
			wantCode:   "invalid_ordering",
		},
	}

	s := newTestServer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := do(t, s, tt.method, tt.path, tt.body)
			assert.Equal(t, tt.wantStatus, ctx.Response.StatusCode(), string(ctx.Response.Body()))
			resp := decodeError(t, ctx)
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestWrongMethodSetsAllow(t *testing.T) {
	ctx := do(t, newTestServer(), fasthttp.MethodPost, "/healthz", nil)
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
	assert.Equal(t, fasthttp.MethodGet, string(ctx.Response.Header.Peek("Allow")))
}

func TestServe(t *testing.T) {
	ln := fasthttputil.NewInmemoryListener()
	s := newTestServer()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	client := &fasthttp.Client{
		Dial: func(string) (net.Conn, error) { return ln.Dial() },
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	body, err := json.Marshal(OptimizeRequest{Loans: testutil.HouseholdLoans(), Extra: 100})
	require.NoError(t, err)

	req.SetRequestURI("http://payoff.test/v1/optimize")
	req.Header.SetMethod(fasthttp.MethodPost)
	req.Header.SetContentType("application/json")
	req.SetBody(body)
	req.SetConnectionClose()

	require.NoError(t, client.DoTimeout(req, resp, 5*time.Second))
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.Contains(t, string(resp.Body()), `"savings":686.87`)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServeTLS(t *testing.T) {
	tlsConfig, err := certs.NewStore(t.TempDir()).TLSConfig()
	require.NoError(t, err)

	inner := fasthttputil.NewInmemoryListener()
	ln := tls.NewListener(inner, tlsConfig)
	s := newTestServer()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Serve(ctx, ln)
	}()

	client := &fasthttp.Client{
		Dial:      func(string) (net.Conn, error) { return inner.Dial() },
		TLSConfig: &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // self-signed test certificate
	}

	req := fasthttp.AcquireRequest()
	defer fasthttp.ReleaseRequest(req)
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI("https://localhost/healthz")
	req.SetConnectionClose()

	require.NoError(t, client.DoTimeout(req, resp, 5*time.Second))
	assert.Equal(t, fasthttp.StatusOK, resp.StatusCode())
	assert.JSONEq(t, `{"status":"ok"}`, string(resp.Body()))

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}
