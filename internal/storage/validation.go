package storage

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/Veraticus/loan-payoff/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrEmptySlice       = errors.New("slice cannot be empty")
	ErrInvalidPortfolio = errors.New("invalid portfolio")
	ErrInvalidLoan      = errors.New("invalid loan")
	ErrInvalidRun       = errors.New("invalid run")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

func validatePortfolio(p *model.Portfolio) error {
	if p == nil {
		return fmt.Errorf("%w: portfolio", ErrNilParameter)
	}
	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidPortfolio)
	}
	if len(p.Loans) == 0 {
		return fmt.Errorf("%w: loans", ErrEmptySlice)
	}
	if p.ExtraAmount < 0 || !finite(p.ExtraAmount) {
		return fmt.Errorf("%w: extra amount must be a non-negative number", ErrInvalidPortfolio)
	}

	for i := range p.Loans {
		if err := validateLoan(&p.Loans[i]); err != nil {
			return fmt.Errorf("loan at index %d: %w", i, err)
		}
	}
	return nil
}

// validateLoan checks that the loan can be stored. Whether its payment
// matches its terms is the planner's concern.
func validateLoan(loan *model.Loan) error {
	if strings.TrimSpace(loan.Name) == "" {
		return fmt.Errorf("%w: missing name", ErrInvalidLoan)
	}
	if loan.NumberOfPayments <= 0 {
		return fmt.Errorf("%w: number of payments must be positive", ErrInvalidLoan)
	}
	for _, v := range []float64{loan.InitialValue, loan.Rate, loan.PaymentAmount} {
		if !finite(v) {
			return fmt.Errorf("%w: amounts must be finite", ErrInvalidLoan)
		}
	}
	return nil
}

func validateRun(run *model.Run) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if len(run.Ordering) == 0 {
		return fmt.Errorf("%w: missing ordering", ErrInvalidRun)
	}
	if run.LoanCount != len(run.Ordering) {
		return fmt.Errorf("%w: loan count %d does not match ordering length %d",
			ErrInvalidRun, run.LoanCount, len(run.Ordering))
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
