package httpapi

import (
	"context"
	"errors"
	"log/slog"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/payoff"
	"github.com/Veraticus/loan-payoff/internal/planner"
)

// OptimizeRequest is the body of POST /v1/optimize.
type OptimizeRequest struct {
	Portfolio string       `json:"portfolio,omitempty"`
	Loans     []model.Loan `json:"loans"`
	Extra     float64      `json:"extra"`
	Verbose   bool         `json:"verbose,omitempty"`
}

// EvaluateRequest is the body of POST /v1/evaluate.
type EvaluateRequest struct {
	Loans    []model.Loan   `json:"loans"`
	Ordering model.Ordering `json:"ordering"`
	Extra    float64        `json:"extra"`
}

// PaymentResponse is the body returned by POST /v1/payment.
type PaymentResponse struct {
	Loan model.Loan `json:"loan"`
	planner.PaymentCheck
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Status  int    `json:"status"`
}

func (s *Server) health(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) optimize(ctx *fasthttp.RequestCtx) {
	var req OptimizeRequest
	if !decode(ctx, &req) {
		return
	}

	reqCtx, cancel := s.requestContext()
	defer cancel()

	report, err := s.planner.Optimize(reqCtx, planner.Request{
		PortfolioName: req.Portfolio,
		Loans:         req.Loans,
		Extra:         req.Extra,
		Verbose:       req.Verbose,
	})
	if err != nil {
		writePlannerError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, report)
}

func (s *Server) evaluate(ctx *fasthttp.RequestCtx) {
	var req EvaluateRequest
	if !decode(ctx, &req) {
		return
	}

	reqCtx, cancel := s.requestContext()
	defer cancel()

	eval, err := s.planner.Evaluate(reqCtx, req.Loans, req.Extra, req.Ordering)
	if err != nil {
		writePlannerError(ctx, err)
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, eval)
}

func (s *Server) payment(ctx *fasthttp.RequestCtx) {
	var loan model.Loan
	if !decode(ctx, &loan) {
		return
	}
	if loan.NumberOfPayments <= 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "invalid_input", "number_of_payments must be positive")
		return
	}

	writeJSON(ctx, fasthttp.StatusOK, PaymentResponse{
		Loan:         loan,
		PaymentCheck: planner.PaymentSchedule(loan),
	})
}

func decode(ctx *fasthttp.RequestCtx, v any) bool {
	body := ctx.PostBody()
	if len(body) == 0 {
		writeError(ctx, fasthttp.StatusBadRequest, "bad_request", "request body is empty")
		return false
	}
	if err := json.Unmarshal(body, v); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, "bad_request", "invalid request body: "+err.Error())
		return false
	}
	return true
}

// writePlannerError maps planner errors onto status codes. Loans that fail
// validation or never pay off are well-formed requests the planner cannot
// satisfy, hence 422.
func writePlannerError(ctx *fasthttp.RequestCtx, err error) {
	code := common.ErrorCode(err)

	status := fasthttp.StatusInternalServerError
	switch {
	case errors.Is(err, payoff.ErrInvalidLoan), errors.Is(err, payoff.ErrLoanGoesToInf):
		status = fasthttp.StatusUnprocessableEntity
	case errors.Is(err, payoff.ErrNoLoans),
		errors.Is(err, payoff.ErrInvalidOrdering),
		errors.Is(err, common.ErrTooManyLoans),
		errors.Is(err, common.ErrInvalidInput):
		status = fasthttp.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		status = fasthttp.StatusServiceUnavailable
		code = "timeout"
	}

	message := err.Error()
	var userErr *common.UserError
	if errors.As(common.Explain(err), &userErr) {
		message = userErr.UserMessage
	}

	if status == fasthttp.StatusInternalServerError {
		slog.Error("Request failed", "path", string(ctx.Path()), "error", err)
	}
	writeError(ctx, status, code, message)
}

func writeError(ctx *fasthttp.RequestCtx, status int, code, message string) {
	writeJSON(ctx, status, ErrorResponse{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

func writeJSON(ctx *fasthttp.RequestCtx, status int, v any) {
	body, err := json.Marshal(v)
	if err != nil {
		slog.Error("Failed to encode response", "error", err)
		ctx.Error(`{"status":500,"code":"internal","message":"failed to encode response"}`, fasthttp.StatusInternalServerError)
		ctx.SetContentType("application/json")
		return
	}
	ctx.SetStatusCode(status)
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}
