package model

// OptimalPayoff is the outcome of searching every ordering of a loan set.
type OptimalPayoff struct {
	Ordering Ordering `json:"ordering"`
	// Savings is the contractual total minus what the winning ordering pays.
	Savings float64 `json:"savings"`
	// SavingsOverDebtSnowball is Savings minus the best debt-snowball savings.
	SavingsOverDebtSnowball float64 `json:"savings_over_debt_snowball"`
	IsDebtSnowball          bool    `json:"is_debt_snowball"`
	// HasDebtSnowball is false when every debt-snowball ordering diverged.
	HasDebtSnowball bool `json:"has_debt_snowball"`
}
