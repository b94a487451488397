package payoff

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidLoan means a loan's stated payment disagrees with its
	// amortization formula. It is a property of the input, so a search stops.
	ErrInvalidLoan = errors.New("invalid loan")
	// ErrLoanGoesToInf means an ordering did not pay every loan off within the
	// longest contractual term among them plus the grace periods a payment
	// inside the tolerance may need.
	ErrLoanGoesToInf = errors.New("loan balance does not converge")
	// ErrNoLoans is returned when there is nothing to order.
	ErrNoLoans = errors.New("no loans")
	// ErrInvalidOrdering is returned when an ordering is not a permutation of the loan indices.
	ErrInvalidOrdering = errors.New("ordering is not a permutation of the loans")
)

// InvalidLoanError identifies the offending loan by its index in the input.
type InvalidLoanError struct {
	Name       string
	Stated     float64
	Calculated float64
	Index      int
}

func (e *InvalidLoanError) Error() string {
	return fmt.Sprintf("%s: loan %d (%q) states payment %.2f but its terms give %.2f",
		ErrInvalidLoan, e.Index, e.Name, e.Stated, e.Calculated)
}

func (e *InvalidLoanError) Unwrap() error {
	return ErrInvalidLoan
}
