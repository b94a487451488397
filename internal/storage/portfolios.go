package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/model"
)

// SavePortfolio creates the portfolio or replaces the one with the same name.
// Loans keep the order they are given in.
func (s *SQLStorage) SavePortfolio(ctx context.Context, portfolio *model.Portfolio) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validatePortfolio(portfolio); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC()
	if portfolio.CreatedAt.IsZero() {
		portfolio.CreatedAt = now
	}
	portfolio.UpdatedAt = now

	var id int64
	err = tx.QueryRowContext(ctx, s.dialect.rebind(`
		INSERT INTO portfolios (name, extra_amount, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (name) DO UPDATE SET
			extra_amount = excluded.extra_amount,
			updated_at = excluded.updated_at
		RETURNING id
	`), portfolio.Name, portfolio.ExtraAmount, portfolio.CreatedAt, portfolio.UpdatedAt).Scan(&id)
	if err != nil {
		return fmt.Errorf("failed to save portfolio: %w", err)
	}

	if _, err := tx.ExecContext(ctx, s.dialect.rebind(`DELETE FROM loans WHERE portfolio_id = ?`), id); err != nil {
		return fmt.Errorf("failed to clear loans: %w", err)
	}

	insert := s.dialect.rebind(`
		INSERT INTO loans (portfolio_id, position, name, initial_value, rate, number_of_payments, payment_amount)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	for i, loan := range portfolio.Loans {
		_, err := tx.ExecContext(ctx, insert,
			id, i, loan.Name, loan.InitialValue, loan.Rate, loan.NumberOfPayments, loan.PaymentAmount)
		if err != nil {
			return fmt.Errorf("failed to save loan %q: %w", loan.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit portfolio: %w", err)
	}

	portfolio.ID = id
	return nil
}

// GetPortfolio retrieves a portfolio and its loans by name.
func (s *SQLStorage) GetPortfolio(ctx context.Context, name string) (*model.Portfolio, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	var p model.Portfolio
	err := s.db.QueryRowContext(ctx, s.dialect.rebind(`
		SELECT id, name, extra_amount, created_at, updated_at
		FROM portfolios
		WHERE name = ?
	`), name).Scan(&p.ID, &p.Name, &p.ExtraAmount, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("portfolio %q: %w", name, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio: %w", err)
	}

	loans, err := s.getLoans(ctx, s.db, p.ID)
	if err != nil {
		return nil, err
	}
	p.Loans = loans

	return &p, nil
}

func (s *SQLStorage) getLoans(ctx context.Context, q queryable, portfolioID int64) ([]model.Loan, error) {
	rows, err := q.QueryContext(ctx, s.dialect.rebind(`
		SELECT name, initial_value, rate, number_of_payments, payment_amount
		FROM loans
		WHERE portfolio_id = ?
		ORDER BY position
	`), portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query loans: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var loans []model.Loan
	for rows.Next() {
		var loan model.Loan
		if err := rows.Scan(&loan.Name, &loan.InitialValue, &loan.Rate, &loan.NumberOfPayments, &loan.PaymentAmount); err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, loan)
	}

	return loans, rows.Err()
}

// ListPortfolios returns every portfolio, ordered by name, with its loans.
func (s *SQLStorage) ListPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, extra_amount, created_at, updated_at
		FROM portfolios
		ORDER BY name
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolios: %w", err)
	}

	var portfolios []model.Portfolio
	for rows.Next() {
		var p model.Portfolio
		if err := rows.Scan(&p.ID, &p.Name, &p.ExtraAmount, &p.CreatedAt, &p.UpdatedAt); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("failed to scan portfolio: %w", err)
		}
		portfolios = append(portfolios, p)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("failed to iterate portfolios: %w", err)
	}
	// SQLite runs on a single connection, so the cursor must be closed
	// before the loans can be read.
	_ = rows.Close()

	for i := range portfolios {
		loans, err := s.getLoans(ctx, s.db, portfolios[i].ID)
		if err != nil {
			return nil, err
		}
		portfolios[i].Loans = loans
	}

	return portfolios, nil
}

// DeletePortfolio removes a portfolio and its loans. Run history is kept.
func (s *SQLStorage) DeletePortfolio(ctx context.Context, name string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, s.dialect.rebind(`
		DELETE FROM loans WHERE portfolio_id IN (SELECT id FROM portfolios WHERE name = ?)
	`), name); err != nil {
		return fmt.Errorf("failed to delete loans: %w", err)
	}

	result, err := tx.ExecContext(ctx, s.dialect.rebind(`DELETE FROM portfolios WHERE name = ?`), name)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check deleted rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("portfolio %q: %w", name, common.ErrNotFound)
	}

	return tx.Commit()
}
