// Package cache stores optimization results so repeated requests for the
// same loans skip the search.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/goccy/go-json"

	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/config"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/service"
)

// keyVersion changes whenever the cached value's shape or meaning changes.
const keyVersion = "v1"

type keyLoan struct {
	InitialValue     float64 `json:"v"`
	Rate             float64 `json:"r"`
	PaymentAmount    float64 `json:"p"`
	NumberOfPayments int     `json:"n"`
}

type keyInput struct {
	Loans []keyLoan `json:"l"`
	Extra float64   `json:"e"`
}

// Key derives a cache key from the loan terms, in order, and the extra
// amount. Loan names do not take part: results refer to loans by position.
func Key(loans []model.Loan, extra float64) (string, error) {
	in := keyInput{Loans: make([]keyLoan, len(loans)), Extra: extra}
	for i, l := range loans {
		in.Loans[i] = keyLoan{
			InitialValue:     l.InitialValue,
			Rate:             l.Rate,
			PaymentAmount:    l.PaymentAmount,
			NumberOfPayments: l.NumberOfPayments,
		}
	}

	data, err := json.Marshal(in)
	if err != nil {
		return "", fmt.Errorf("failed to encode cache key: %w", err)
	}

	return fmt.Sprintf("payoff:%s:%016x", keyVersion, xxhash.Sum64(data)), nil
}

// New builds the cache selected by settings. The "none" driver yields a
// cache that never hits.
func New(ctx context.Context, settings config.CacheSettings) (service.Cache, error) {
	switch settings.Driver {
	case "memory", "":
		return NewMemory(settings.TTL), nil
	case "redis":
		return NewRedis(ctx, settings.RedisAddr, settings.TTL)
	case "none":
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("%w: unsupported cache driver %q", common.ErrInvalidConfig, settings.Driver)
	}
}

// Nop never stores anything.
type Nop struct{}

// Get always misses.
func (Nop) Get(context.Context, string) ([]byte, bool, error) { return nil, false, nil }

// Set discards the value.
func (Nop) Set(context.Context, string, []byte) error { return nil }

// Close does nothing.
func (Nop) Close() error { return nil }

// clock is swapped out in tests.
type clock func() time.Time
