package payoff

import (
	"math"

	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/money"
)

// LoanCost is the per-loan diagnostic detail of one evaluated ordering.
type LoanCost struct {
	Name          string  `json:"name"`
	Index         int     `json:"index"`
	Expected      float64 `json:"expected"`
	Actual        float64 `json:"actual"`
	PaidOffPeriod int     `json:"paid_off_period"`
}

// Evaluation is the result of simulating one ordering to payoff.
type Evaluation struct {
	Ordering           model.Ordering `json:"ordering"`
	Loans              []LoanCost     `json:"loans"`
	ExpectedCostsTotal float64        `json:"expected_costs_total"`
	ActualCostsTotal   float64        `json:"actual_costs_total"`
	SavingsTotal       float64        `json:"savings_total"`
	Periods            int            `json:"periods"`
	IsDebtSnowball     bool           `json:"is_debt_snowball"`
}

// PayLoans simulates paying off loans with extra available every period,
// directing the extra-payment pool according to ordering.
//
// Each period the pool is offered on top of the contractual payment of the
// highest-priority loan still owing; whatever that loan cannot absorb moves to
// the next loan in the ordering. A loan retired in a period adds its
// contractual payment to the pool from the following period on.
//
// It fails with an *InvalidLoanError if a loan's stated payment is off by more
// than model.PaymentTolerance, and with ErrLoanGoesToInf if the loans are not
// paid off within the longest period bound among them (see periodBound).
func PayLoans(loans []model.Loan, extra float64, ordering model.Ordering) (Evaluation, error) {
	if len(loans) == 0 {
		return Evaluation{}, ErrNoLoans
	}
	if !ordering.IsPermutation(len(loans)) {
		return Evaluation{}, ErrInvalidOrdering
	}

	isDebtSnowball, maxPeriods, err := inspect(loans, ordering)
	if err != nil {
		return Evaluation{}, err
	}

	remaining := make([]float64, len(loans))
	actual := make([]float64, len(loans))
	paidOff := make([]int, len(loans))
	for i, loan := range loans {
		remaining[i] = loan.InitialValue
	}

	carried := money.Round(extra)
	periods := 0

	for anyOwing(remaining, ordering) {
		periods++
		if periods > maxPeriods {
			return Evaluation{}, ErrLoanGoesToInf
		}

		pool := carried
		freed := 0.0
		for _, idx := range ordering {
			if money.IsZero(remaining[idx]) {
				continue
			}
			loan := loans[idx]

			offered := money.Round(loan.PaymentAmount + pool)
			paid, balance := PayLoan(loan, remaining[idx], offered)

			actual[idx] = money.Round(actual[idx] + paid)
			remaining[idx] = balance
			pool = money.Round(offered - paid)

			if money.IsZero(balance) {
				freed = money.Round(freed + loan.PaymentAmount)
				paidOff[idx] = periods
			}
		}

		// Freed capacity only becomes available next period.
		carried = money.Round(carried + freed)
	}

	eval := Evaluation{
		Ordering:       ordering.Clone(),
		Loans:          make([]LoanCost, 0, len(ordering)),
		Periods:        periods,
		IsDebtSnowball: isDebtSnowball,
	}

	expectedTotal, actualTotal := 0.0, 0.0
	for _, idx := range ordering {
		expected := loans[idx].ExpectedCost()
		expectedTotal += expected
		actualTotal += actual[idx]

		eval.Loans = append(eval.Loans, LoanCost{
			Name:          loans[idx].Name,
			Index:         idx,
			Expected:      expected,
			Actual:        actual[idx],
			PaidOffPeriod: paidOff[idx],
		})
	}

	eval.ExpectedCostsTotal = money.Round(expectedTotal)
	eval.ActualCostsTotal = money.Round(actualTotal)
	eval.SavingsTotal = money.Round(eval.ExpectedCostsTotal - eval.ActualCostsTotal)

	return eval, nil
}

// inspect validates every loan in priority order, classifies the ordering and
// returns the period bound.
func inspect(loans []model.Loan, ordering model.Ordering) (isDebtSnowball bool, maxPeriods int, err error) {
	isDebtSnowball = true
	previous := 0.0

	for pos, idx := range ordering {
		loan := loans[idx]
		if !loan.PaymentMatches() {
			return false, 0, &InvalidLoanError{
				Index:      idx,
				Name:       loan.Name,
				Stated:     loan.PaymentAmount,
				Calculated: loan.CalculatePaymentAmount(),
			}
		}

		if pos > 0 && loan.InitialValue < previous {
			isDebtSnowball = false
		}
		previous = loan.InitialValue

		maxPeriods = max(maxPeriods, periodBound(loan))
	}

	return isDebtSnowball, maxPeriods, nil
}

// periodBound is the contractual term plus enough periods to clear what a
// stated payment inside the tolerance, and a cent of rounding per period, can
// leave owing at the end of the term. A loan whose payment cannot outrun the
// interest on that residual gets a single extra period.
func periodBound(loan model.Loan) int {
	n := loan.NumberOfPayments
	shortfall := math.Max(0, loan.CalculatePaymentAmount()-loan.PaymentAmount) + 0.01

	growth := float64(n)
	if loan.Rate != 0 {
		growth = (math.Pow(1+loan.Rate, float64(n)) - 1) / loan.Rate
	}
	residual := shortfall * growth

	effective := loan.PaymentAmount - residual*loan.Rate
	if effective <= 0 {
		return n + 1
	}
	return n + 1 + int(math.Ceil(residual/effective))
}

func anyOwing(remaining []float64, ordering model.Ordering) bool {
	for _, idx := range ordering {
		if !money.IsZero(remaining[idx]) {
			return true
		}
	}
	return false
}
