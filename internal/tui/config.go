package tui

import (
	"io"

	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/planner"
	"github.com/Veraticus/loan-payoff/internal/service"
	"github.com/Veraticus/loan-payoff/internal/tui/themes"
)

// Config holds TUI configuration.
type Config struct {
	Input     io.Reader
	Output    io.Writer
	Theme     themes.Theme
	Planner   *planner.Planner
	Store     service.PortfolioStore
	Portfolio model.Portfolio
	Width     int
	Height    int
	AltScreen bool
}

// Option is a functional option for configuring the TUI.
type Option func(*Config)

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Theme:     themes.Default,
		Width:     80,
		Height:    24,
		AltScreen: true,
	}
}

// WithPlanner sets the planner used by the optimize action.
func WithPlanner(p *planner.Planner) Option {
	return func(c *Config) {
		c.Planner = p
	}
}

// WithStore enables saving the portfolio.
func WithStore(store service.PortfolioStore) Option {
	return func(c *Config) {
		c.Store = store
	}
}

// WithPortfolio seeds the editor with an existing portfolio.
func WithPortfolio(portfolio model.Portfolio) Option {
	return func(c *Config) {
		c.Portfolio = portfolio
	}
}

// WithTheme sets the visual theme.
func WithTheme(theme themes.Theme) Option {
	return func(c *Config) {
		c.Theme = theme
	}
}

// WithSize sets the initial terminal size.
func WithSize(width, height int) Option {
	return func(c *Config) {
		c.Width = width
		c.Height = height
	}
}

// WithAltScreen controls whether the editor takes over the whole terminal.
func WithAltScreen(enabled bool) Option {
	return func(c *Config) {
		c.AltScreen = enabled
	}
}

// WithIO replaces the terminal with the given streams.
func WithIO(in io.Reader, out io.Writer) Option {
	return func(c *Config) {
		c.Input = in
		c.Output = out
	}
}
