package domain

import (
	"time"
)

// FundingYear bounds for the analysis window. Projects funded outside this
// range are excluded during cleaning.
const (
	MinFundingYear = 2021
	MaxFundingYear = 2023
)

// Project represents a single flood-control project after cleaning.
// Every field is fully typed; rows that cannot be coerced never become a
// Project (they are rejected at load time, not zeroed).
type Project struct {
	ProjectID  string `json:"project_id,omitempty"`
	ContractID string `json:"contract_id,omitempty"`

	Region     string `json:"region" validate:"required"`
	MainIsland string `json:"main_island"`
	Province   string `json:"province" validate:"required"`
	Contractor string `json:"contractor" validate:"required"`
	TypeOfWork string `json:"type_of_work" validate:"required"`

	FundingYear int `json:"funding_year" validate:"min=2021,max=2023"`

	ApprovedBudgetForContract float64 `json:"approved_budget_for_contract" validate:"min=0"`
	ContractCost              float64 `json:"contract_cost" validate:"min=0"`

	StartDate            time.Time `json:"start_date"`
	ActualCompletionDate time.Time `json:"actual_completion_date"`

	Latitude      float64 `json:"latitude"`
	Longitude     float64 `json:"longitude"`
	CoordsImputed bool    `json:"coords_imputed"`

	// Derived fields, computed by the cleaner after coercion and filtering.
	CostSavings         float64 `json:"cost_savings"`
	CompletionDelayDays int64   `json:"completion_delay_days"`
}

// HasCoordinates reports whether the row carried its own geocoordinates
// (as opposed to province-mean imputed ones).
func (p Project) HasCoordinates() bool {
	return !p.CoordsImputed
}

// IsValid checks the post-cleaning invariants for a project record.
func (p Project) IsValid() bool {
	return p.Region != "" && p.Province != "" && p.Contractor != "" &&
		p.FundingYear >= MinFundingYear && p.FundingYear <= MaxFundingYear &&
		p.ApprovedBudgetForContract >= 0 && p.ContractCost >= 0 &&
		!p.StartDate.IsZero() && !p.ActualCompletionDate.IsZero()
}
