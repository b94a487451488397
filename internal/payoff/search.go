package payoff

import (
	"errors"
	"math"

	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/money"
)

// SearchOption configures PayLoansAllOrderings.
type SearchOption func(*searchConfig)

type searchConfig struct {
	observe func(Evaluation)
	skip    func(model.Ordering, error)
	stop    func() error
}

// WithObserver receives every ordering that converged, in search order.
func WithObserver(fn func(Evaluation)) SearchOption {
	return func(c *searchConfig) {
		c.observe = fn
	}
}

// WithSkipObserver receives every ordering excluded for not converging.
func WithSkipObserver(fn func(model.Ordering, error)) SearchOption {
	return func(c *searchConfig) {
		c.skip = fn
	}
}

// WithStop is polled before each ordering; a non-nil error ends the search
// with that error. Callers use it to impose a deadline.
func WithStop(fn func() error) SearchOption {
	return func(c *searchConfig) {
		c.stop = fn
	}
}

// PayLoansAllOrderings evaluates every ordering of loans and returns the one
// with the greatest savings, compared against the best debt-snowball ordering.
//
// Orderings that do not converge are left out. An invalid loan ends the search
// at once. If no ordering converges the result is ErrLoanGoesToInf.
func PayLoansAllOrderings(loans []model.Loan, extra float64, opts ...SearchOption) (model.OptimalPayoff, error) {
	if len(loans) == 0 {
		return model.OptimalPayoff{}, ErrNoLoans
	}

	cfg := searchConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}

	agg := newAggregator()
	perms := NewPermutations(len(loans))

	for perms.Next() {
		if cfg.stop != nil {
			if err := cfg.stop(); err != nil {
				return model.OptimalPayoff{}, err
			}
		}

		ordering := perms.Ordering()
		eval, err := PayLoans(loans, extra, ordering)
		if errors.Is(err, ErrLoanGoesToInf) {
			if cfg.skip != nil {
				cfg.skip(ordering, err)
			}
			continue
		}
		if err != nil {
			return model.OptimalPayoff{}, err
		}

		if cfg.observe != nil {
			cfg.observe(eval)
		}
		agg.add(eval)
	}

	return agg.result()
}

// aggregator keeps the running best orderings of a search.
type aggregator struct {
	bestOrdering        model.Ordering
	bestSavings         float64
	bestSnowballSavings float64
	evaluated           int
	bestIsDebtSnowball  bool
	sawDebtSnowball     bool
}

func newAggregator() *aggregator {
	return &aggregator{
		bestSavings:         math.Inf(-1),
		bestSnowballSavings: math.Inf(-1),
	}
}

func (a *aggregator) add(eval Evaluation) {
	a.evaluated++

	// Strictly greater: on ties the first ordering found is kept.
	if eval.SavingsTotal > a.bestSavings {
		a.bestSavings = eval.SavingsTotal
		a.bestOrdering = eval.Ordering.Clone()
		a.bestIsDebtSnowball = eval.IsDebtSnowball
	}

	if eval.IsDebtSnowball {
		a.sawDebtSnowball = true
		if eval.SavingsTotal > a.bestSnowballSavings {
			a.bestSnowballSavings = eval.SavingsTotal
		}
	}
}

func (a *aggregator) result() (model.OptimalPayoff, error) {
	if a.evaluated == 0 {
		return model.OptimalPayoff{}, ErrLoanGoesToInf
	}

	payoff := model.OptimalPayoff{
		Ordering:        a.bestOrdering,
		Savings:         a.bestSavings,
		IsDebtSnowball:  a.bestIsDebtSnowball,
		HasDebtSnowball: a.sawDebtSnowball,
	}
	if a.sawDebtSnowball {
		payoff.SavingsOverDebtSnowball = money.Round(a.bestSavings - a.bestSnowballSavings)
	}

	return payoff, nil
}
