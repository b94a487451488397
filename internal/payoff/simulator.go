package payoff

import (
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/money"
)

// PayLoan runs one period for a single loan: interest accrues on balance, then
// up to offered is paid. It returns the amount actually paid, which is less
// than offered when the loan is retired, and the new balance.
//
// An offer that is zero to 4 decimal places pays nothing and reports a zero
// balance. Callers treat that as degenerate input rather than progress.
func PayLoan(loan model.Loan, balance, offered float64) (paid, newBalance float64) {
	if money.IsZero(offered) {
		return 0, 0
	}

	interest := money.Round(balance * loan.Rate)
	balance = money.Round(balance + interest)

	paid = offered
	if paid > balance {
		paid = balance
	}

	return paid, money.Round(balance - paid)
}
