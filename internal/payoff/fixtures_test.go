package payoff

import "github.com/Veraticus/loan-payoff/internal/model"

// Loans shared by the payoff tests.
var (
	carLoan = model.Loan{
		Name:             "l1",
		InitialValue:     10000,
		Rate:             0.00625, // 7.5% annual
		NumberOfPayments: 48,
		PaymentAmount:    241.79,
	}
	cardLoan = model.Loan{
		Name:             "l2",
		InitialValue:     12000,
		Rate:             0.02083, // 25% annual
		NumberOfPayments: 36,
		PaymentAmount:    477.12,
	}
	personalLoan = model.Loan{
		Name:             "l2",
		InitialValue:     12000,
		Rate:             8.0 / 12.0 / 100.0, // 8% annual
		NumberOfPayments: 48,
		PaymentAmount:    292.96,
	}
	// shortPaidLoan states a payment 3.9 cents under its formula value, inside
	// the tolerance; it needs one period past its term.
	shortPaidLoan = model.Loan{
		Name:             "short",
		InitialValue:     10000,
		Rate:             0.00625,
		NumberOfPayments: 48,
		PaymentAmount:    241.75,
	}
	// underwaterLoan's stated payment is within the tolerance but below the
	// first period's interest, so its balance only grows.
	underwaterLoan = model.Loan{
		Name:             "underwater",
		InitialValue:     100,
		Rate:             0.02,
		NumberOfPayments: 360,
		PaymentAmount:    1.96,
	}
)

func threeLoans() []model.Loan {
	return []model.Loan{
		{Name: "num1", InitialValue: 12000, Rate: 0.006, NumberOfPayments: 48, PaymentAmount: 288.47},
		{Name: "num2", InitialValue: 11000, Rate: 0.00625, NumberOfPayments: 48, PaymentAmount: 265.97},
		{Name: "num3", InitialValue: 10000, Rate: 0.014, NumberOfPayments: 48, PaymentAmount: 287.52},
	}
}
