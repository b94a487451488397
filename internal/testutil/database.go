// Package testutil provides shared fixtures and a throwaway database for
// tests of the packages built on top of storage.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/service"
	"github.com/Veraticus/loan-payoff/internal/storage"
)

// TestDB represents a test database with the portfolios it was seeded with.
type TestDB struct {
	Storage    service.Storage
	t          *testing.T
	Portfolios []model.Portfolio
}

// SetupTestDB creates a new in-memory test database seeded with portfolios.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t, testutil.Household())
func SetupTestDB(t *testing.T, portfolios ...model.Portfolio) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{Portfolios: portfolios})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, service.Storage) error
	Portfolios     []model.Portfolio
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	// Create in-memory SQLite storage
	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	ctx := context.Background()

	// Register cleanup
	t.Cleanup(func() {
		_ = store.Close()
	})

	// Run migrations unless skipped
	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	// Seed portfolios
	for i := range opts.Portfolios {
		if err := store.SavePortfolio(ctx, &opts.Portfolios[i]); err != nil {
			t.Fatalf("failed to seed portfolio %q: %v", opts.Portfolios[i].Name, err)
		}
	}

	// Run custom setup
	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return &TestDB{
		Storage:    store,
		Portfolios: opts.Portfolios,
		t:          t,
	}
}

// MustGetPortfolio returns the stored portfolio with the given name or fails the test.
func (db *TestDB) MustGetPortfolio(name string) *model.Portfolio {
	db.t.Helper()
	p, err := db.Storage.GetPortfolio(context.Background(), name)
	if err != nil {
		db.t.Fatalf("portfolio %q: %v", name, err)
	}
	return p
}
