package tui

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/planner"
	"github.com/Veraticus/loan-payoff/internal/service"
)

// optimizeTimeout bounds a single search started from the editor.
const optimizeTimeout = 2 * time.Minute

// optimize runs the planner off the UI goroutine.
func optimize(ctx context.Context, p *planner.Planner, req planner.Request) tea.Cmd {
	return func() tea.Msg {
		if p == nil {
			return optimizedMsg{err: fmt.Errorf("planner not configured")}
		}

		ctx, cancel := context.WithTimeout(ctx, optimizeTimeout)
		defer cancel()

		report, err := p.Optimize(ctx, req)
		return optimizedMsg{report: report, err: err}
	}
}

// save persists the portfolio.
func save(ctx context.Context, store service.PortfolioStore, portfolio model.Portfolio) tea.Cmd {
	return func() tea.Msg {
		if store == nil {
			return savedMsg{name: portfolio.Name, err: fmt.Errorf("storage not configured")}
		}

		ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		if err := store.SavePortfolio(ctx, &portfolio); err != nil {
			return savedMsg{name: portfolio.Name, err: err}
		}
		return savedMsg{name: portfolio.Name}
	}
}
