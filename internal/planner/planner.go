// Package planner runs payoff searches for the CLI, the HTTP API and the
// interactive editor, with caching and run history around the core.
package planner

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/Veraticus/loan-payoff/internal/cache"
	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/money"
	"github.com/Veraticus/loan-payoff/internal/payoff"
	"github.com/Veraticus/loan-payoff/internal/service"
)

// Planner orchestrates optimizations.
type Planner struct {
	cache    service.Cache
	recorder service.RunRecorder
	now      func() time.Time
	maxLoans int
}

// Config holds configuration options for the planner.
type Config struct {
	MaxLoans int
}

// DefaultConfig returns the default configuration. Eight loans is 40320
// orderings, which still finishes in well under a second.
func DefaultConfig() Config {
	return Config{
		MaxLoans: 8,
	}
}

// New creates a planner. Either dependency may be nil.
func New(c service.Cache, recorder service.RunRecorder) *Planner {
	return NewWithConfig(c, recorder, DefaultConfig())
}

// NewWithConfig creates a planner with custom configuration.
func NewWithConfig(c service.Cache, recorder service.RunRecorder, config Config) *Planner {
	if c == nil {
		c = cache.Nop{}
	}
	if config.MaxLoans <= 0 {
		config.MaxLoans = DefaultConfig().MaxLoans
	}
	return &Planner{
		cache:    c,
		recorder: recorder,
		now:      time.Now,
		maxLoans: config.MaxLoans,
	}
}

// MaxLoans reports the largest loan count Optimize accepts.
func (p *Planner) MaxLoans() int {
	return p.maxLoans
}

// Request describes one optimization.
type Request struct {
	// Progress, when set, is called after each ordering is considered.
	Progress func(done, total int) `json:"-"`

	PortfolioName string       `json:"portfolio,omitempty"`
	Loans         []model.Loan `json:"loans"`
	Extra         float64      `json:"extra"`

	// Verbose keeps every evaluation and skipped ordering in the report. It
	// bypasses the cache.
	Verbose bool `json:"verbose,omitempty"`
}

// Report is the outcome of Optimize.
type Report struct {
	Snowball      *payoff.Evaluation  `json:"snowball,omitempty"`
	RunID         string              `json:"run_id,omitempty"`
	Names         []string            `json:"names"`
	SnowballNames []string            `json:"snowball_names,omitempty"`
	Evaluations   []payoff.Evaluation `json:"evaluations,omitempty"`
	Skipped       []model.Ordering    `json:"skipped,omitempty"`
	Best          payoff.Evaluation   `json:"best"`
	Payoff        model.OptimalPayoff `json:"payoff"`
	Extra         float64             `json:"extra"`
	Duration      time.Duration       `json:"duration_ns"`
	Evaluated     int                 `json:"evaluated"`
	SkippedCount  int                 `json:"skipped_count"`
	Total         int                 `json:"total"`
	CacheHit      bool                `json:"cache_hit"`
}

// cachedResult is what the cache keeps. Evaluations are recomputed on a hit
// so that loan names come from the current request.
type cachedResult struct {
	SnowballOrdering model.Ordering      `json:"snowball_ordering,omitempty"`
	Payoff           model.OptimalPayoff `json:"payoff"`
	Evaluated        int                 `json:"evaluated"`
	Skipped          int                 `json:"skipped"`
}

// Optimize finds the ordering of req.Loans with the greatest savings.
func (p *Planner) Optimize(ctx context.Context, req Request) (Report, error) {
	start := p.now()

	extra, err := p.validate(req.Loans, req.Extra)
	if err != nil {
		return Report{}, err
	}

	report := Report{
		Extra: extra,
		Total: payoff.Count(len(req.Loans)),
	}

	key, err := cache.Key(req.Loans, extra)
	if err != nil {
		return Report{}, err
	}

	var result cachedResult
	hit := false
	if !req.Verbose {
		hit = p.lookup(ctx, key, &result)
	}

	if !hit {
		result, err = p.search(ctx, req, extra, &report)
		if err != nil {
			return Report{}, err
		}
		p.store(ctx, key, result)
	}

	report.CacheHit = hit
	report.Payoff = result.Payoff
	report.Evaluated = result.Evaluated
	report.SkippedCount = result.Skipped
	report.Names = result.Payoff.Ordering.Names(req.Loans)

	report.Best, err = payoff.PayLoans(req.Loans, extra, result.Payoff.Ordering)
	if err != nil {
		return Report{}, fmt.Errorf("failed to re-evaluate best ordering: %w", err)
	}
	if result.Payoff.HasDebtSnowball && result.SnowballOrdering != nil {
		snowball, err := payoff.PayLoans(req.Loans, extra, result.SnowballOrdering)
		if err != nil {
			return Report{}, fmt.Errorf("failed to re-evaluate debt snowball ordering: %w", err)
		}
		report.Snowball = &snowball
		report.SnowballNames = result.SnowballOrdering.Names(req.Loans)
	}

	report.Duration = p.now().Sub(start)

	if p.recorder != nil {
		run := &model.Run{
			ID:                      uuid.NewString(),
			CreatedAt:               p.now().UTC(),
			PortfolioName:           req.PortfolioName,
			Ordering:                report.Names,
			ExtraAmount:             extra,
			Savings:                 report.Payoff.Savings,
			SavingsOverDebtSnowball: report.Payoff.SavingsOverDebtSnowball,
			IsDebtSnowball:          report.Payoff.IsDebtSnowball,
			Duration:                report.Duration,
			LoanCount:               len(req.Loans),
		}
		if err := p.recorder.SaveRun(ctx, run); err != nil {
			return Report{}, fmt.Errorf("failed to record run: %w", err)
		}
		report.RunID = run.ID
	}

	slog.Info("Optimized loan ordering",
		"loans", len(req.Loans),
		"extra", extra,
		"ordering", report.Names,
		"savings", report.Payoff.Savings,
		"savings_over_debt_snowball", report.Payoff.SavingsOverDebtSnowball,
		"evaluated", report.Evaluated,
		"skipped", report.SkippedCount,
		"cache_hit", hit,
		"duration", report.Duration)

	return report, nil
}

func (p *Planner) search(ctx context.Context, req Request, extra float64, report *Report) (cachedResult, error) {
	var (
		result           cachedResult
		snowballOrdering model.Ordering
		done             int
	)
	bestSnowball := math.Inf(-1)

	progress := func() {
		done++
		if req.Progress != nil {
			req.Progress(done, report.Total)
		}
	}

	observe := func(eval payoff.Evaluation) {
		result.Evaluated++
		if eval.IsDebtSnowball && eval.SavingsTotal > bestSnowball {
			bestSnowball = eval.SavingsTotal
			snowballOrdering = eval.Ordering.Clone()
		}
		if req.Verbose {
			report.Evaluations = append(report.Evaluations, eval)
		}
		slog.Debug("Evaluated ordering",
			"ordering", eval.Ordering,
			"savings", eval.SavingsTotal,
			"periods", eval.Periods,
			"debt_snowball", eval.IsDebtSnowball)
		progress()
	}

	skip := func(ordering model.Ordering, err error) {
		result.Skipped++
		if req.Verbose {
			report.Skipped = append(report.Skipped, ordering)
		}
		slog.Debug("Skipped ordering", "ordering", ordering, "reason", err)
		progress()
	}

	best, err := payoff.PayLoansAllOrderings(req.Loans, extra,
		payoff.WithObserver(observe),
		payoff.WithSkipObserver(skip),
		payoff.WithStop(ctx.Err),
	)
	if err != nil {
		return cachedResult{}, err
	}

	result.Payoff = best
	result.SnowballOrdering = snowballOrdering
	return result, nil
}

func (p *Planner) lookup(ctx context.Context, key string, out *cachedResult) bool {
	data, ok, err := p.cache.Get(ctx, key)
	if err != nil {
		slog.Warn("Cache lookup failed", "key", key, "error", err)
		return false
	}
	if !ok {
		return false
	}
	if err := json.Unmarshal(data, out); err != nil {
		slog.Warn("Discarding unreadable cache entry", "key", key, "error", err)
		return false
	}
	return true
}

func (p *Planner) store(ctx context.Context, key string, result cachedResult) {
	data, err := json.Marshal(result)
	if err != nil {
		slog.Warn("Failed to encode cache entry", "key", key, "error", err)
		return
	}
	if err := p.cache.Set(ctx, key, data); err != nil {
		slog.Warn("Failed to store cache entry", "key", key, "error", err)
	}
}

// validate checks the inputs every operation shares and returns the extra
// amount rounded to cents.
func (p *Planner) validate(loans []model.Loan, extra float64) (float64, error) {
	if len(loans) == 0 {
		return 0, payoff.ErrNoLoans
	}
	if len(loans) > p.maxLoans {
		return 0, fmt.Errorf("%w: %d loans means %d orderings; the limit is %d loans",
			common.ErrTooManyLoans, len(loans), payoff.Count(len(loans)), p.maxLoans)
	}
	if math.IsNaN(extra) || math.IsInf(extra, 0) || extra < 0 {
		return 0, fmt.Errorf("%w: extra amount must be a non-negative number, got %v", common.ErrInvalidInput, extra)
	}
	for i, loan := range loans {
		if !(loan.InitialValue > 0) || math.IsInf(loan.InitialValue, 0) {
			return 0, fmt.Errorf("%w: loan %d (%q) needs a positive principal, got %v",
				common.ErrInvalidInput, i, loan.Name, loan.InitialValue)
		}
		if loan.NumberOfPayments <= 0 {
			return 0, fmt.Errorf("%w: loan %d (%q) needs a positive number of payments",
				common.ErrInvalidInput, i, loan.Name)
		}
	}
	return money.Round(extra), nil
}

// Evaluate simulates a single ordering.
func (p *Planner) Evaluate(ctx context.Context, loans []model.Loan, extra float64, ordering model.Ordering) (payoff.Evaluation, error) {
	if err := ctx.Err(); err != nil {
		return payoff.Evaluation{}, err
	}

	extra, err := p.validate(loans, extra)
	if err != nil {
		return payoff.Evaluation{}, err
	}
	if !ordering.IsPermutation(len(loans)) {
		return payoff.Evaluation{}, fmt.Errorf("%w: %v for %d loans", payoff.ErrInvalidOrdering, ordering, len(loans))
	}

	return payoff.PayLoans(loans, extra, ordering)
}
