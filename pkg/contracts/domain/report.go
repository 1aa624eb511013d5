package domain

// RiskLabel values for contractor performance rows.
const (
	RiskLabelHigh   = "High Risk"
	RiskLabelNormal = "Normal"
)

// RegionalEfficiencyRow is one row of the Regional Flood Mitigation
// Efficiency Summary (Report 1). Rows are constructed once per run and are
// immutable after the builder returns them.
type RegionalEfficiencyRow struct {
	Region          string  `json:"region"`
	MainIsland      string  `json:"main_island"`
	NumProjects     int     `json:"num_projects"`
	TotalBudget     float64 `json:"total_budget"`
	MedianSavings   float64 `json:"median_savings"`
	AvgDelay        float64 `json:"avg_delay"`
	HighDelayPct    float64 `json:"high_delay_pct"`
	EfficiencyScore float64 `json:"efficiency_score"` // normalized to [0,100]
}

// ContractorPerformanceRow is one row of the Top Contractors Performance
// Ranking (Report 2).
type ContractorPerformanceRow struct {
	Rank             int     `json:"rank"`
	Contractor       string  `json:"contractor"`
	NumProjects      int     `json:"num_projects"`
	TotalCost        float64 `json:"total_cost"`
	AvgDelay         float64 `json:"avg_delay"`
	TotalSavings     float64 `json:"total_savings"`
	ReliabilityIndex float64 `json:"reliability_index"` // capped at 100, no floor
	RiskLabel        string  `json:"risk_label"`
}

// AnnualTrendRow is one row of the Annual Project Type Cost Overrun Trends
// report (Report 3). YoYChange is nil for baseline-year rows and whenever no
// usable 2021 baseline exists for the work type.
type AnnualTrendRow struct {
	FundingYear   int      `json:"funding_year"`
	TypeOfWork    string   `json:"type_of_work"`
	TotalProjects int      `json:"total_projects"`
	AvgSavings    float64  `json:"avg_savings"`
	OverrunRate   float64  `json:"overrun_rate"`
	YoYChange     *float64 `json:"yoy_change"`
}

// SummaryDigest is the single cross-report rollup computed from the cleaned
// record set, independent of any per-report filtering.
type SummaryDigest struct {
	TotalProjects      int     `json:"totalProjects"`
	TotalContractors   int     `json:"totalContractors"`
	TotalProvinces     int     `json:"totalProvinces"`
	GlobalAvgDelay     float64 `json:"globalAvgDelay"`
	GlobalTotalSavings float64 `json:"globalTotalSavings"`
}
