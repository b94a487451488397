package tui

import "github.com/Veraticus/loan-payoff/internal/planner"

// Async operation messages.
type optimizedMsg struct {
	err    error
	report planner.Report
}

type savedMsg struct {
	err  error
	name string
}

// statusLevel picks the style of the status line.
type statusLevel int

const (
	statusInfo statusLevel = iota
	statusSuccess
	statusWarning
	statusError
)
