package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/service"
)

// SaveRun records an optimization. A missing ID or timestamp is filled in.
func (s *SQLStorage) SaveRun(ctx context.Context, run *model.Run) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}

	ordering, err := json.Marshal(run.Ordering)
	if err != nil {
		return fmt.Errorf("failed to encode ordering: %w", err)
	}

	_, err = s.db.ExecContext(ctx, s.dialect.rebind(`
		INSERT INTO runs (
			id, portfolio_name, ordering, extra_amount, savings,
			savings_over_debt_snowball, is_debt_snowball, loan_count, duration_ns, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`),
		run.ID,
		run.PortfolioName,
		string(ordering),
		run.ExtraAmount,
		run.Savings,
		run.SavingsOverDebtSnowball,
		run.IsDebtSnowball,
		run.LoanCount,
		run.Duration.Nanoseconds(),
		run.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save run: %w", err)
	}

	return nil
}

// ListRuns returns recorded runs, newest first.
func (s *SQLStorage) ListRuns(ctx context.Context, filter service.RunFilter) ([]model.Run, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var (
		query strings.Builder
		args  []any
	)
	query.WriteString(`
		SELECT id, portfolio_name, ordering, extra_amount, savings,
			savings_over_debt_snowball, is_debt_snowball, loan_count, duration_ns, created_at
		FROM runs`)
	if filter.PortfolioName != "" {
		query.WriteString(` WHERE portfolio_name = ?`)
		args = append(args, filter.PortfolioName)
	}
	query.WriteString(` ORDER BY created_at DESC, id`)
	if filter.Limit > 0 {
		query.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.dialect.rebind(query.String()), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.Run
	for rows.Next() {
		var (
			run      model.Run
			ordering string
			duration int64
		)
		err := rows.Scan(
			&run.ID,
			&run.PortfolioName,
			&ordering,
			&run.ExtraAmount,
			&run.Savings,
			&run.SavingsOverDebtSnowball,
			&run.IsDebtSnowball,
			&run.LoanCount,
			&duration,
			&run.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal([]byte(ordering), &run.Ordering); err != nil {
			return nil, fmt.Errorf("failed to decode ordering for run %s: %w", run.ID, err)
		}
		run.Duration = time.Duration(duration)
		runs = append(runs, run)
	}

	return runs, rows.Err()
}
