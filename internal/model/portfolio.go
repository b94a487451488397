package model

import "time"

// Portfolio is a named, persisted set of loans plus the extra amount the
// borrower can put toward them each period.
type Portfolio struct {
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
	Name        string    `json:"name"`
	Loans       []Loan    `json:"loans"`
	ExtraAmount float64   `json:"extra_amount"`
	ID          int64     `json:"id"`
}

// Run records one optimization for later review.
type Run struct {
	CreatedAt               time.Time     `json:"created_at"`
	ID                      string        `json:"id"`
	PortfolioName           string        `json:"portfolio_name,omitempty"`
	Ordering                []string      `json:"ordering"`
	ExtraAmount             float64       `json:"extra_amount"`
	Savings                 float64       `json:"savings"`
	SavingsOverDebtSnowball float64       `json:"savings_over_debt_snowball"`
	Duration                time.Duration `json:"duration"`
	LoanCount               int           `json:"loan_count"`
	IsDebtSnowball          bool          `json:"is_debt_snowball"`
}
