package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/loan-payoff/internal/common"
)

func newViper() *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	return v
}

func TestLoadSettings_Defaults(t *testing.T) {
	s, err := LoadSettings(newViper())
	require.NoError(t, err)

	assert.Equal(t, "sqlite3", s.Database.Driver)
	assert.NotEmpty(t, s.Database.Path)
	assert.Equal(t, s.Database.Path, s.Database.DataSource())
	assert.Equal(t, "memory", s.Cache.Driver)
	assert.Equal(t, 24*time.Hour, s.Cache.TTL)
	assert.Equal(t, ":8080", s.Server.Addr)
	assert.Equal(t, "certs", filepath.Base(s.Server.CertDir))
	assert.Equal(t, 8, s.Search.MaxLoans)
}

func TestLoadSettings_Overrides(t *testing.T) {
	t.Setenv("PAYOFF_TEST_DIR", "/var/lib/payoff")

	v := newViper()
	v.Set("database.path", "$PAYOFF_TEST_DIR/loans.db")
	v.Set("cache.driver", "redis")
	v.Set("cache.redis_addr", "cache:6379")
	v.Set("cache.ttl", "1h")

	s, err := LoadSettings(v)
	require.NoError(t, err)

	assert.Equal(t, "/var/lib/payoff/loans.db", s.Database.Path)
	assert.Equal(t, "redis", s.Cache.Driver)
	assert.Equal(t, "cache:6379", s.Cache.RedisAddr)
	assert.Equal(t, time.Hour, s.Cache.TTL)
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		mutate  func(*viper.Viper)
		wantErr error
		name    string
	}{
		{
			name:    "unknown database driver",
			mutate:  func(v *viper.Viper) { v.Set("database.driver", "mysql") },
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "postgres without dsn",
			mutate:  func(v *viper.Viper) { v.Set("database.driver", "postgres") },
			wantErr: common.ErrMissingConfig,
		},
		{
			name:    "unknown cache driver",
			mutate:  func(v *viper.Viper) { v.Set("cache.driver", "memcached") },
			wantErr: common.ErrInvalidConfig,
		},
		{
			name:    "zero max loans",
			mutate:  func(v *viper.Viper) { v.Set("search.max_loans", 0) },
			wantErr: common.ErrInvalidConfig,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newViper()
			tt.mutate(v)
			_, err := LoadSettings(v)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	v := newViper()
	v.Set("database.driver", "postgres")
	v.Set("database.dsn", "postgres://localhost/payoff?sslmode=disable")
	s, err := LoadSettings(v)
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/payoff?sslmode=disable", s.Database.DataSource())
}
