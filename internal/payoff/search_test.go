package payoff

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loan-payoff/internal/model"
)

func TestPayLoansAllOrderings_OutperformDebtSnowball(t *testing.T) {
	loans := []model.Loan{carLoan, personalLoan}

	result, err := PayLoansAllOrderings(loans, 100)
	require.NoError(t, err)

	assert.Equal(t, model.Ordering{1, 0}, result.Ordering)
	assert.False(t, result.IsDebtSnowball)
	assert.True(t, result.HasDebtSnowball)
	assert.Equal(t, 686.87, result.Savings)
	assert.Equal(t, 32.37, result.SavingsOverDebtSnowball)
}

func TestPayLoansAllOrderings_DebtSnowballIsOptimal(t *testing.T) {
	result, err := PayLoansAllOrderings(threeLoans(), 100)
	require.NoError(t, err)

	assert.Equal(t, model.Ordering{2, 1, 0}, result.Ordering)
	assert.True(t, result.IsDebtSnowball)
	assert.Equal(t, 1480.36, result.Savings)
	assert.Zero(t, result.SavingsOverDebtSnowball)
}

func TestPayLoansAllOrderings_TiesKeepFirstOrdering(t *testing.T) {
	twin := model.Loan{Name: "twin", InitialValue: 5000, Rate: 0.01, NumberOfPayments: 24, PaymentAmount: 235.37}

	result, err := PayLoansAllOrderings([]model.Loan{twin, twin}, 50)
	require.NoError(t, err)

	assert.Equal(t, model.Ordering{0, 1}, result.Ordering)
	assert.Equal(t, 137.65, result.Savings)
}

func TestPayLoansAllOrderings_IgnoresNames(t *testing.T) {
	loans := []model.Loan{carLoan, personalLoan}
	renamed := []model.Loan{carLoan, personalLoan}
	renamed[0].Name = "mortgage"
	renamed[1].Name = "mortgage"

	want, err := PayLoansAllOrderings(loans, 100)
	require.NoError(t, err)
	got, err := PayLoansAllOrderings(renamed, 100)
	require.NoError(t, err)

	assert.Equal(t, want, got)
}

func TestPayLoansAllOrderings_Observers(t *testing.T) {
	var seen []model.Ordering
	result, err := PayLoansAllOrderings(threeLoans(), 100, WithObserver(func(e Evaluation) {
		seen = append(seen, e.Ordering)
	}))
	require.NoError(t, err)

	assert.Len(t, seen, 6)
	assert.Contains(t, seen, result.Ordering)

	var skipped []model.Ordering
	_, err = PayLoansAllOrderings([]model.Loan{underwaterLoan}, 0, WithSkipObserver(func(o model.Ordering, err error) {
		assert.ErrorIs(t, err, ErrLoanGoesToInf)
		skipped = append(skipped, o)
	}))
	assert.ErrorIs(t, err, ErrLoanGoesToInf)
	assert.Equal(t, []model.Ordering{{0}}, skipped)
}

func TestPayLoansAllOrderings_InvalidLoanAborts(t *testing.T) {
	bad := personalLoan
	bad.PaymentAmount = 300

	calls := 0
	_, err := PayLoansAllOrderings([]model.Loan{carLoan, bad}, 100, WithObserver(func(Evaluation) {
		calls++
	}))

	var invalid *InvalidLoanError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, 1, invalid.Index)
	assert.Zero(t, calls)
}

func TestPayLoansAllOrderings_Stop(t *testing.T) {
	errBudget := errors.New("budget exhausted")
	calls := 0

	_, err := PayLoansAllOrderings(threeLoans(), 100, WithStop(func() error {
		calls++
		if calls > 2 {
			return errBudget
		}
		return nil
	}))

	assert.ErrorIs(t, err, errBudget)
	assert.Equal(t, 3, calls)
}

func TestPayLoansAllOrderings_NoLoans(t *testing.T) {
	_, err := PayLoansAllOrderings(nil, 100)
	assert.ErrorIs(t, err, ErrNoLoans)
}

func TestPayLoansAllOrderings_ShortPaidLoanConverges(t *testing.T) {
	result, err := PayLoansAllOrderings([]model.Loan{shortPaidLoan, cardLoan}, 0)
	require.NoError(t, err)

	assert.Equal(t, model.Ordering{1, 0}, result.Ordering)
	assert.Equal(t, 70.68, result.Savings)
	assert.Equal(t, 0.03, result.SavingsOverDebtSnowball)
}

func TestPayLoansAllOrderings_SkipsDivergentOrdering(t *testing.T) {
	// With the cheap loan first it takes 378 periods to clear both, past the
	// bound; the other way round they are paid off in 222.
	loans := []model.Loan{
		{Name: "cheap", InitialValue: 100, Rate: 0.01, NumberOfPayments: 240, PaymentAmount: 1.06},
		{Name: "dear", InitialValue: 100, Rate: 0.02, NumberOfPayments: 240, PaymentAmount: 1.99},
	}

	var skipped, seen []model.Ordering
	result, err := PayLoansAllOrderings(loans, 0.05,
		WithSkipObserver(func(o model.Ordering, err error) {
			assert.ErrorIs(t, err, ErrLoanGoesToInf)
			skipped = append(skipped, o)
		}),
		WithObserver(func(e Evaluation) {
			seen = append(seen, e.Ordering)
			assert.Equal(t, 222, e.Periods)
		}),
	)
	require.NoError(t, err)

	assert.Equal(t, []model.Ordering{{0, 1}}, skipped)
	assert.Equal(t, []model.Ordering{{1, 0}}, seen)
	assert.Equal(t, model.Ordering{1, 0}, result.Ordering)
	assert.Equal(t, 45.2, result.Savings)
	assert.True(t, result.HasDebtSnowball)
	assert.Zero(t, result.SavingsOverDebtSnowball)
}
