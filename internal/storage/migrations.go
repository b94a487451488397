package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(context.Context, *sql.Tx, dialect) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(ctx context.Context, tx *sql.Tx, d dialect) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS portfolios (
					id ` + d.serialPrimaryKey() + `,
					name TEXT UNIQUE NOT NULL,
					extra_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
					created_at TIMESTAMP NOT NULL,
					updated_at TIMESTAMP NOT NULL
				)`,

				`CREATE TABLE IF NOT EXISTS loans (
					portfolio_id BIGINT NOT NULL REFERENCES portfolios(id) ON DELETE CASCADE,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					initial_value DOUBLE PRECISION NOT NULL,
					rate DOUBLE PRECISION NOT NULL,
					number_of_payments INTEGER NOT NULL,
					payment_amount DOUBLE PRECISION NOT NULL,
					PRIMARY KEY (portfolio_id, position)
				)`,
			}

			return execAll(ctx, tx, queries)
		},
	},
	{
		Version:     2,
		Description: "Add optimization run history",
		Up: func(ctx context.Context, tx *sql.Tx, _ dialect) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS runs (
					id TEXT PRIMARY KEY,
					portfolio_name TEXT NOT NULL DEFAULT '',
					ordering TEXT NOT NULL,
					extra_amount DOUBLE PRECISION NOT NULL,
					savings DOUBLE PRECISION NOT NULL,
					savings_over_debt_snowball DOUBLE PRECISION NOT NULL,
					is_debt_snowball BOOLEAN NOT NULL,
					loan_count INTEGER NOT NULL,
					duration_ns BIGINT NOT NULL,
					created_at TIMESTAMP NOT NULL
				)`,
			}

			return execAll(ctx, tx, queries)
		},
	},
	{
		Version:     3,
		Description: "Index run history lookups",
		Up: func(ctx context.Context, tx *sql.Tx, _ dialect) error {
			queries := []string{
				`CREATE INDEX IF NOT EXISTS idx_runs_portfolio ON runs(portfolio_name)`,
				`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
			}

			return execAll(ctx, tx, queries)
		},
	},
}

func execAll(ctx context.Context, tx *sql.Tx, queries []string) error {
	for _, query := range queries {
		if _, err := tx.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query '%s': %w", query, err)
		}
	}
	return nil
}

// Migrate applies all pending database migrations.
func (s *SQLStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.dialect.schemaVersion(ctx, s.db)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(ctx, tx, s.dialect); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if execErr := s.dialect.setSchemaVersion(ctx, tx, migration.Version); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"driver", s.dialect.name(),
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// SchemaVersion reports the schema version currently applied.
func (s *SQLStorage) SchemaVersion(ctx context.Context) (int, error) {
	return s.dialect.schemaVersion(ctx, s.db)
}
