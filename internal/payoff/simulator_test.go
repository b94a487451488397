package payoff

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPayLoan(t *testing.T) {
	tests := []struct {
		name        string
		balance     float64
		offered     float64
		wantPaid    float64
		wantBalance float64
	}{
		{
			name:        "regular period accrues then pays",
			balance:     10000,
			offered:     341.79,
			wantPaid:    341.79,
			wantBalance: 9720.71,
		},
		{
			name:        "final period is clamped to the balance",
			balance:     140.27,
			offered:     341.79,
			wantPaid:    141.15,
			wantBalance: 0,
		},
		{
			name:        "exact payoff",
			balance:     100,
			offered:     100.63,
			wantPaid:    100.63,
			wantBalance: 0,
		},
		{
			name:        "zero offer is degenerate",
			balance:     500,
			offered:     0,
			wantPaid:    0,
			wantBalance: 0,
		},
		{
			name:        "offer below 4 decimal places is degenerate",
			balance:     500,
			offered:     0.00004,
			wantPaid:    0,
			wantBalance: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			paid, balance := PayLoan(carLoan, tt.balance, tt.offered)
			assert.Equal(t, tt.wantPaid, paid)
			assert.Equal(t, tt.wantBalance, balance)
		})
	}
}

func TestPayLoan_DoesNotMutateLoan(t *testing.T) {
	loan := carLoan
	PayLoan(loan, 10000, 500)
	assert.Equal(t, carLoan, loan)
}
