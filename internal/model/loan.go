package model

import (
	"math"

	"github.com/Veraticus/loan-payoff/internal/money"
)

// PaymentTolerance is how far a loan's stated payment may drift from the
// amortization formula before the loan is rejected.
const PaymentTolerance = 0.05

// Loan describes a fixed-rate amortizing loan. Loans are never mutated by the
// simulator; balances are tracked by the caller.
type Loan struct {
	Name             string  `json:"name" yaml:"name"`
	InitialValue     float64 `json:"initial_value" yaml:"initial_value"`
	Rate             float64 `json:"rate" yaml:"rate"`
	PaymentAmount    float64 `json:"payment_amount" yaml:"payment_amount"`
	NumberOfPayments int     `json:"number_of_payments" yaml:"number_of_payments"`
}

// CalculatePaymentAmount returns the standard amortizing payment for the
// loan's principal, periodic rate and term.
func (l Loan) CalculatePaymentAmount() float64 {
	growth := math.Pow(1+l.Rate, float64(l.NumberOfPayments))
	return l.InitialValue * (l.Rate * growth) / (growth - 1)
}

// PaymentMatches reports whether the stated payment is within PaymentTolerance
// of the calculated one.
func (l Loan) PaymentMatches() bool {
	return math.Abs(l.CalculatePaymentAmount()-l.PaymentAmount) <= PaymentTolerance
}

// ExpectedCost is the contractual total: every scheduled payment made in full.
func (l Loan) ExpectedCost() float64 {
	return money.Round(l.PaymentAmount * float64(l.NumberOfPayments))
}

// Ordering is a permutation of loan indices. Earlier positions have priority
// for the extra-payment pool.
type Ordering []int

// Names maps the ordering onto loan names.
func (o Ordering) Names(loans []Loan) []string {
	names := make([]string, 0, len(o))
	for _, idx := range o {
		if idx >= 0 && idx < len(loans) {
			names = append(names, loans[idx].Name)
		}
	}
	return names
}

// IsPermutation reports whether o contains each index 0..n-1 exactly once.
func (o Ordering) IsPermutation(n int) bool {
	if len(o) != n {
		return false
	}
	seen := make([]bool, n)
	for _, idx := range o {
		if idx < 0 || idx >= n || seen[idx] {
			return false
		}
		seen[idx] = true
	}
	return true
}

// Clone returns an independent copy.
func (o Ordering) Clone() Ordering {
	if o == nil {
		return nil
	}
	out := make(Ordering, len(o))
	copy(out, o)
	return out
}
