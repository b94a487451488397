// Package service defines the interfaces shared by the planner, its storage
// and its cache.
package service

import (
	"context"
	"time"

	"github.com/Veraticus/loan-payoff/internal/model"
)

// PortfolioStore persists named loan portfolios.
type PortfolioStore interface {
	SavePortfolio(ctx context.Context, portfolio *model.Portfolio) error
	GetPortfolio(ctx context.Context, name string) (*model.Portfolio, error)
	ListPortfolios(ctx context.Context) ([]model.Portfolio, error)
	DeletePortfolio(ctx context.Context, name string) error
}

// RunRecorder keeps a history of optimizations.
type RunRecorder interface {
	SaveRun(ctx context.Context, run *model.Run) error
	ListRuns(ctx context.Context, filter RunFilter) ([]model.Run, error)
}

// Storage is the full persistence layer.
type Storage interface {
	PortfolioStore
	RunRecorder

	Migrate(ctx context.Context) error
	Close() error
}

// RunFilter narrows a history query.
type RunFilter struct {
	PortfolioName string
	Limit         int
}

// Cache stores serialized optimization results keyed by their inputs.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte) error
	Close() error
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
