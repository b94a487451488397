package testutil

import "github.com/Veraticus/loan-payoff/internal/model"

// Loans whose payments match their terms. Results quoted below are for an
// extra amount of 100.
var (
	// CarLoan is 10000 at 7.5% a year over 48 months.
	CarLoan = model.Loan{
		Name:             "car",
		InitialValue:     10000,
		Rate:             0.00625,
		NumberOfPayments: 48,
		PaymentAmount:    241.79,
	}
	// PersonalLoan is 12000 at 8% a year over 48 months.
	PersonalLoan = model.Loan{
		Name:             "personal",
		InitialValue:     12000,
		Rate:             8.0 / 12.0 / 100.0,
		NumberOfPayments: 48,
		PaymentAmount:    292.96,
	}
	// CardLoan is 12000 at 25% a year over 36 months.
	CardLoan = model.Loan{
		Name:             "card",
		InitialValue:     12000,
		Rate:             0.02083,
		NumberOfPayments: 36,
		PaymentAmount:    477.12,
	}
	// UnderwaterLoan's payment is within the tolerance but below its first
	// period's interest: without extra it is never retired.
	UnderwaterLoan = model.Loan{
		Name:             "underwater",
		InitialValue:     100,
		Rate:             0.02,
		NumberOfPayments: 360,
		PaymentAmount:    1.96,
	}
)

// HouseholdLoans are CarLoan and PersonalLoan. Paying the personal loan
// first saves 686.87, which beats the debt snowball (car first, 654.50) by
// 32.37.
func HouseholdLoans() []model.Loan {
	return []model.Loan{CarLoan, PersonalLoan}
}

// Household is a portfolio of HouseholdLoans with an extra 100 a period.
func Household() model.Portfolio {
	return model.Portfolio{
		Name:        "household",
		ExtraAmount: 100,
		Loans:       HouseholdLoans(),
	}
}
