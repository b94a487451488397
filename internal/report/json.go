package report

import (
	"io"

	"github.com/goccy/go-json"

	"github.com/Veraticus/loan-payoff/internal/model"
	"github.com/Veraticus/loan-payoff/internal/payoff"
	"github.com/Veraticus/loan-payoff/internal/planner"
)

// JSON renders results as indented JSON documents.
type JSON struct{}

// Optimization writes the full report.
func (JSON) Optimization(w io.Writer, r planner.Report) error {
	return writeJSON(w, r)
}

// Evaluation writes one evaluated ordering.
func (JSON) Evaluation(w io.Writer, eval payoff.Evaluation) error {
	return writeJSON(w, eval)
}

// Payment writes the payment check alongside the loan it was made for.
func (JSON) Payment(w io.Writer, loan model.Loan, check planner.PaymentCheck) error {
	return writeJSON(w, struct {
		Loan model.Loan `json:"loan"`
		planner.PaymentCheck
	}{Loan: loan, PaymentCheck: check})
}

// Portfolio writes one portfolio with its loans.
func (JSON) Portfolio(w io.Writer, portfolio model.Portfolio) error {
	if portfolio.Loans == nil {
		portfolio.Loans = []model.Loan{}
	}
	return writeJSON(w, portfolio)
}

// Portfolios writes the portfolio list.
func (JSON) Portfolios(w io.Writer, portfolios []model.Portfolio) error {
	if portfolios == nil {
		portfolios = []model.Portfolio{}
	}
	return writeJSON(w, portfolios)
}

// Runs writes run history.
func (JSON) Runs(w io.Writer, runs []model.Run) error {
	if runs == nil {
		runs = []model.Run{}
	}
	return writeJSON(w, runs)
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}
