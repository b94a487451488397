package planner

import (
	"math"

	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/money"
)

// PaymentCheck compares a loan's stated payment with the one its terms imply.
type PaymentCheck struct {
	Calculated float64 `json:"calculated"`
	Stated     float64 `json:"stated"`
	Difference float64 `json:"difference"`
	Matches    bool    `json:"matches"`
}

// PaymentSchedule computes the level payment for loan and checks it against
// the stated one. Terms with no defined payment, such as a zero rate, leave
// Calculated at zero and never match.
func PaymentSchedule(loan model.Loan) PaymentCheck {
	calculated := loan.CalculatePaymentAmount()
	if math.IsNaN(calculated) || math.IsInf(calculated, 0) {
		return PaymentCheck{Stated: loan.PaymentAmount}
	}

	return PaymentCheck{
		Calculated: money.Round(calculated),
		Stated:     loan.PaymentAmount,
		Difference: money.Round(loan.PaymentAmount - calculated),
		Matches:    loan.PaymentMatches(),
	}
}
