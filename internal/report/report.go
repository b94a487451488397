// Package report renders planner results for people and for programs.
package report

import (
	"fmt"
	"io"

	"github.com/Veraticus/loan-payoff/internal/common"
	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/payoff"
	"github.com/Veraticus/loan-payoff/internal/planner"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// Renderer writes results in one output format.
type Renderer interface {
	Optimization(w io.Writer, r planner.Report) error
	Evaluation(w io.Writer, eval payoff.Evaluation) error
	Payment(w io.Writer, loan model.Loan, check planner.PaymentCheck) error
	Portfolio(w io.Writer, portfolio model.Portfolio) error
	Portfolios(w io.Writer, portfolios []model.Portfolio) error
	Runs(w io.Writer, runs []model.Run) error
}

// New returns the renderer for format.
func New(format string, verbose bool) (Renderer, error) {
	switch format {
	case FormatText, "":
		return &Text{Verbose: verbose}, nil
	case FormatJSON:
		return JSON{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown output format %q (want text or json)", common.ErrInvalidInput, format)
	}
}
