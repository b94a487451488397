package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/model"
)

func TestSQLStorage_SaveAndGetPortfolio(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	p := testPortfolio("household")
	require.NoError(t, store.SavePortfolio(ctx, p))
	assert.NotZero(t, p.ID)
	assert.False(t, p.CreatedAt.IsZero())

	got, err := store.GetPortfolio(ctx, "household")
	require.NoError(t, err)
	assert.Equal(t, p.ID, got.ID)
	assert.Equal(t, "household", got.Name)
	assert.InDelta(t, 100.0, got.ExtraAmount, 1e-9)
	assert.Equal(t, p.Loans, got.Loans)
	assert.WithinDuration(t, p.CreatedAt, got.CreatedAt, 0)
}

func TestSQLStorage_SavePortfolioReplaces(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	p := testPortfolio("household")
	require.NoError(t, store.SavePortfolio(ctx, p))
	firstID := p.ID
	created := p.CreatedAt

	updated := &model.Portfolio{
		Name:        "household",
		ExtraAmount: 250,
		Loans: []model.Loan{
			{Name: "card", InitialValue: 7500, Rate: 0.015, NumberOfPayments: 36, PaymentAmount: 271.14},
		},
	}
	require.NoError(t, store.SavePortfolio(ctx, updated))
	assert.Equal(t, firstID, updated.ID)

	got, err := store.GetPortfolio(ctx, "household")
	require.NoError(t, err)
	assert.InDelta(t, 250.0, got.ExtraAmount, 1e-9)
	require.Len(t, got.Loans, 1)
	assert.Equal(t, "card", got.Loans[0].Name)
	assert.WithinDuration(t, created, got.CreatedAt, 0)
	assert.False(t, got.UpdatedAt.Before(got.CreatedAt))
}

func TestSQLStorage_GetPortfolioNotFound(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	_, err := store.GetPortfolio(context.Background(), "missing")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLStorage_ListPortfolios(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	portfolios, err := store.ListPortfolios(ctx)
	require.NoError(t, err)
	assert.Empty(t, portfolios)

	for _, name := range []string{"zeta", "alpha", "mid"} {
		require.NoError(t, store.SavePortfolio(ctx, testPortfolio(name)))
	}

	portfolios, err = store.ListPortfolios(ctx)
	require.NoError(t, err)
	require.Len(t, portfolios, 3)
	assert.Equal(t, "alpha", portfolios[0].Name)
	assert.Equal(t, "mid", portfolios[1].Name)
	assert.Equal(t, "zeta", portfolios[2].Name)
	for _, p := range portfolios {
		assert.Len(t, p.Loans, 2)
	}
}

func TestSQLStorage_DeletePortfolio(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	require.NoError(t, store.SavePortfolio(ctx, testPortfolio("household")))
	require.NoError(t, store.DeletePortfolio(ctx, "household"))

	_, err := store.GetPortfolio(ctx, "household")
	assert.ErrorIs(t, err, common.ErrNotFound)

	var loans int
	require.NoError(t, store.db.QueryRow(`SELECT COUNT(*) FROM loans`).Scan(&loans))
	assert.Zero(t, loans)

	err = store.DeletePortfolio(ctx, "household")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSQLStorage_SavePortfolioValidation(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	tests := []struct {
		portfolio *model.Portfolio
		wantErr   error
		name      string
	}{
		{
			name:      "nil portfolio",
			portfolio: nil,
			wantErr:   ErrNilParameter,
		},
		{
			name:      "missing name",
			portfolio: &model.Portfolio{Loans: testPortfolio("x").Loans},
			wantErr:   ErrInvalidPortfolio,
		},
		{
			name:      "no loans",
			portfolio: &model.Portfolio{Name: "empty"},
			wantErr:   ErrEmptySlice,
		},
		{
			name: "negative extra",
			portfolio: &model.Portfolio{
				Name:        "neg",
				ExtraAmount: -1,
				Loans:       testPortfolio("x").Loans,
			},
			wantErr: ErrInvalidPortfolio,
		},
		{
			name: "loan without term",
			portfolio: &model.Portfolio{
				Name:  "term",
				Loans: []model.Loan{{Name: "a", InitialValue: 100, PaymentAmount: 10}},
			},
			wantErr: ErrInvalidLoan,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := store.SavePortfolio(ctx, tt.portfolio)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
