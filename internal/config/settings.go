// Package config reads the settings shared by every command.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/loan-payoff/internal/common"
)

// Settings holds everything the commands need beyond their own flags.
type Settings struct {
	Database DatabaseSettings
	Cache    CacheSettings
	Server   ServerSettings
	Search   SearchSettings
}

// DatabaseSettings selects the storage backend.
type DatabaseSettings struct {
	Driver string
	Path   string
	DSN    string
}

// CacheSettings selects where optimization results are cached.
type CacheSettings struct {
	Driver    string
	RedisAddr string
	TTL       time.Duration
}

// ServerSettings configures the HTTP API.
type ServerSettings struct {
	Addr    string
	CertDir string
}

// SearchSettings bounds the exhaustive search.
type SearchSettings struct {
	MaxLoans int
}

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("database.driver", "sqlite3")
	v.SetDefault("database.path", defaultDataPath("payoff.db"))
	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.redis_addr", "localhost:6379")
	v.SetDefault("cache.ttl", "24h")
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.cert_dir", defaultDataPath("certs"))
	v.SetDefault("search.max_loans", 8)
}

// LoadSettings reads Settings from v. Defaults must already be registered.
// Values come from the config file or PAYOFF_ env vars.
func LoadSettings(v *viper.Viper) (*Settings, error) {
	s := &Settings{
		Database: DatabaseSettings{
			Driver: v.GetString("database.driver"),
			Path:   ExpandPath(v.GetString("database.path")),
			DSN:    v.GetString("database.dsn"),
		},
		Cache: CacheSettings{
			Driver:    v.GetString("cache.driver"),
			RedisAddr: v.GetString("cache.redis_addr"),
			TTL:       v.GetDuration("cache.ttl"),
		},
		Server: ServerSettings{
			Addr:    v.GetString("server.addr"),
			CertDir: ExpandPath(v.GetString("server.cert_dir")),
		},
		Search: SearchSettings{
			MaxLoans: v.GetInt("search.max_loans"),
		},
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}

	return s, nil
}

// Validate checks that the settings name known backends.
func (s *Settings) Validate() error {
	switch s.Database.Driver {
	case "sqlite3":
		if s.Database.Path == "" {
			return fmt.Errorf("%w: database.path", common.ErrMissingConfig)
		}
	case "postgres":
		if s.Database.DSN == "" {
			return fmt.Errorf("%w: database.dsn is required for postgres", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: database.driver %q", common.ErrInvalidConfig, s.Database.Driver)
	}

	switch s.Cache.Driver {
	case "memory", "none":
	case "redis":
		if s.Cache.RedisAddr == "" {
			return fmt.Errorf("%w: cache.redis_addr", common.ErrMissingConfig)
		}
	default:
		return fmt.Errorf("%w: cache.driver %q", common.ErrInvalidConfig, s.Cache.Driver)
	}

	if s.Search.MaxLoans < 1 {
		return fmt.Errorf("%w: search.max_loans must be at least 1", common.ErrInvalidConfig)
	}

	return nil
}

// DataSource returns the driver-specific connection string.
func (d DatabaseSettings) DataSource() string {
	if d.Driver == "postgres" {
		return d.DSN
	}
	return d.Path
}

// defaultDataPath places name under ~/.local/share/payoff.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".", name)
	}
	return filepath.Join(home, ".local", "share", "payoff", name)
}
