// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"

	"github.com/Veraticus/loan-payoff/internal/payoff"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")

	// Input errors.
	ErrTooManyLoans = errors.New("too many loans")
	ErrInvalidInput = errors.New("invalid input")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

// Explain wraps the errors a borrower can act on with a message saying what
// to do about them. Other errors are returned unchanged.
func Explain(err error) error {
	if err == nil {
		return nil
	}

	var userErr *UserError
	if errors.As(err, &userErr) {
		return err
	}

	var invalid *payoff.InvalidLoanError
	switch {
	case errors.As(err, &invalid):
		return NewUserError(fmt.Sprintf(
			"loan %q has a payment of %.2f but its principal, rate and term give %.2f; check the loan's terms",
			invalid.Name, invalid.Stated, invalid.Calculated), err)
	case errors.Is(err, payoff.ErrLoanGoesToInf):
		return NewUserError(
			"no repayment ordering pays these loans off within their longest term plus a short grace period; check the payment amounts", err)
	case errors.Is(err, payoff.ErrNoLoans):
		return NewUserError("add at least one loan first", err)
	case errors.Is(err, ErrTooManyLoans):
		return NewUserError("too many loans to try every ordering; remove some or raise search.max_loans", err)
	case errors.Is(err, ErrNotFound):
		return NewUserError("nothing by that name was found", err)
	}

	return err
}

// ErrorCode returns a short machine-readable code for err.
func ErrorCode(err error) string {
	switch {
	case errors.Is(err, payoff.ErrInvalidLoan):
		return "invalid_loan"
	case errors.Is(err, payoff.ErrLoanGoesToInf):
		return "loan_goes_to_inf"
	case errors.Is(err, payoff.ErrNoLoans):
		return "no_loans"
	case errors.Is(err, payoff.ErrInvalidOrdering):
		return "invalid_ordering"
	case errors.Is(err, ErrTooManyLoans):
		return "too_many_loans"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
