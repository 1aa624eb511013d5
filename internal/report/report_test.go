package report

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "floodctl/internal/errors"
	"floodctl/pkg/contracts/domain"
)

// project builds a cleaned record with the fields the reports care about.
func project(region, island, province, contractor, workType string, year int, budget, cost float64, delayDays int64) domain.Project {
	return domain.Project{
		Region:                    region,
		MainIsland:                island,
		Province:                  province,
		Contractor:                contractor,
		TypeOfWork:                workType,
		FundingYear:               year,
		ApprovedBudgetForContract: budget,
		ContractCost:              cost,
		StartDate:                 time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC),
		ActualCompletionDate:      time.Date(year, 1, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 0, int(delayDays)),
		Latitude:                  14.6,
		Longitude:                 121.0,
		CostSavings:               budget - cost,
		CompletionDelayDays:       delayDays,
	}
}

func newTestBuilder() (*Builder, *apperrors.RunLog) {
	runLog := apperrors.NewRunLog()
	return NewBuilder(nil, runLog), runLog
}

func TestRegionalEfficiencyAggregates(t *testing.T) {
	builder, _ := newTestBuilder()
	projects := []domain.Project{
		project("R1", "Luzon", "P1", "C1", "Dike", 2021, 100, 80, 31),
	}

	rows := builder.RegionalEfficiency(projects)

	require.Len(t, rows, 1)
	assert.Equal(t, "R1", rows[0].Region)
	assert.Equal(t, "Luzon", rows[0].MainIsland)
	assert.Equal(t, 1, rows[0].NumProjects)
	assert.InDelta(t, 100.0, rows[0].TotalBudget, 1e-9)
	assert.InDelta(t, 20.0, rows[0].MedianSavings, 1e-9)
	assert.InDelta(t, 31.0, rows[0].AvgDelay, 1e-9)
	assert.InDelta(t, 100.0, rows[0].HighDelayPct, 1e-9)
	// Single group: degenerate spread maps to 0.
	assert.Equal(t, 0.0, rows[0].EfficiencyScore)
}

func TestRegionalEfficiencyNormalizationAnchors(t *testing.T) {
	builder, _ := newTestBuilder()
	// Three groups with distinct raw scores: savings/delay ratios 20/10,
	// 50/10, 80/10 → raw 200, 500, 800.
	var projects []domain.Project
	for i, savings := range []float64{20, 50, 80} {
		projects = append(projects,
			project(fmt.Sprintf("R%d", i+1), "Luzon", "P", "C", "Dike", 2021, 100+savings, 100, 10))
	}

	rows := builder.RegionalEfficiency(projects)
	require.Len(t, rows, 3)

	// Ordered descending by normalized score: max first.
	assert.Equal(t, "R3", rows[0].Region)
	assert.Equal(t, 100.0, rows[0].EfficiencyScore, "highest raw score maps to exactly 100")
	assert.Equal(t, "R2", rows[1].Region)
	assert.InDelta(t, 50.0, rows[1].EfficiencyScore, 1e-9)
	assert.Equal(t, "R1", rows[2].Region)
	assert.Equal(t, 0.0, rows[2].EfficiencyScore, "lowest raw score maps to exactly 0")

	for _, row := range rows {
		assert.GreaterOrEqual(t, row.EfficiencyScore, 0.0)
		assert.LessOrEqual(t, row.EfficiencyScore, 100.0)
	}
}

func TestRegionalEfficiencyZeroDelayFallback(t *testing.T) {
	builder, runLog := newTestBuilder()
	projects := []domain.Project{
		// Raw score 200.
		project("R1", "Luzon", "P", "C", "Dike", 2021, 120, 100, 10),
		// Raw score 500, the maximum finite score.
		project("R2", "Luzon", "P", "C", "Dike", 2021, 150, 100, 10),
		// Zero average delay: raw score substituted with 500, not infinity.
		project("R3", "Visayas", "P", "C", "Dike", 2021, 130, 100, 0),
	}

	rows := builder.RegionalEfficiency(projects)
	require.Len(t, rows, 3)

	// R2 and R3 share the top raw score 500 → both normalize to 100; tie
	// broken by total budget descending (R2: 150, R3: 130).
	assert.Equal(t, "R2", rows[0].Region)
	assert.Equal(t, 100.0, rows[0].EfficiencyScore)
	assert.Equal(t, "R3", rows[1].Region)
	assert.Equal(t, 100.0, rows[1].EfficiencyScore)
	assert.Equal(t, "R1", rows[2].Region)
	assert.Equal(t, 0.0, rows[2].EfficiencyScore)

	require.Len(t, runLog.Notes, 1)
	assert.Contains(t, runLog.Notes[0], "zero average delay")
}

func TestRegionalEfficiencyTieBreaks(t *testing.T) {
	builder, _ := newTestBuilder()
	// Two groups with identical savings/delay (same raw score) and equal
	// budgets: the Region name ascending decides.
	projects := []domain.Project{
		project("Zeta", "Luzon", "P", "C", "Dike", 2021, 150, 100, 10),
		project("Alpha", "Luzon", "P", "C", "Dike", 2021, 150, 100, 10),
		// A third distinct group so the spread is non-degenerate.
		project("Mid", "Luzon", "P", "C", "Dike", 2021, 120, 100, 10),
	}

	rows := builder.RegionalEfficiency(projects)
	require.Len(t, rows, 3)
	assert.Equal(t, "Alpha", rows[0].Region)
	assert.Equal(t, "Zeta", rows[1].Region)
	assert.Equal(t, "Mid", rows[2].Region)
}

func TestTopContractorPerformanceThreshold(t *testing.T) {
	builder, _ := newTestBuilder()
	var projects []domain.Project
	// "Big" has 5 projects, "Small" has 4.
	for i := 0; i < 5; i++ {
		projects = append(projects, project("R", "Luzon", "P", "Big", "Dike", 2021, 100, 90, 10))
	}
	for i := 0; i < 4; i++ {
		projects = append(projects, project("R", "Luzon", "P", "Small", "Dike", 2021, 100, 90, 10))
	}

	rows := builder.TopContractorPerformance(projects)

	require.Len(t, rows, 1)
	assert.Equal(t, "Big", rows[0].Contractor)
	assert.Equal(t, 5, rows[0].NumProjects)
	assert.Equal(t, 1, rows[0].Rank)
}

func TestTopContractorReliabilityIndex(t *testing.T) {
	builder, _ := newTestBuilder()
	// 5 projects, avgDelay 45, totalCost 500, totalSavings 250:
	// (1 - 45/90) * (250/500) * 100 = 25 → High Risk.
	var projects []domain.Project
	for i := 0; i < 5; i++ {
		projects = append(projects, project("R", "Luzon", "P", "C", "Dike", 2021, 150, 100, 45))
	}

	rows := builder.TopContractorPerformance(projects)

	require.Len(t, rows, 1)
	assert.InDelta(t, 25.0, rows[0].ReliabilityIndex, 1e-9)
	assert.Equal(t, domain.RiskLabelHigh, rows[0].RiskLabel)
	assert.InDelta(t, 45.0, rows[0].AvgDelay, 1e-9)
	assert.InDelta(t, 500.0, rows[0].TotalCost, 1e-9)
	assert.InDelta(t, 250.0, rows[0].TotalSavings, 1e-9)
}

func TestTopContractorIndexCappedNoFloor(t *testing.T) {
	builder, _ := newTestBuilder()

	t.Run("capped at 100", func(t *testing.T) {
		// avgDelay 0, savings ratio 4: (1-0) * 4 * 100 = 400 → capped.
		var projects []domain.Project
		for i := 0; i < 5; i++ {
			projects = append(projects, project("R", "Luzon", "P", "Cap", "Dike", 2021, 500, 100, 0))
		}
		rows := builder.TopContractorPerformance(projects)
		require.Len(t, rows, 1)
		assert.Equal(t, 100.0, rows[0].ReliabilityIndex)
		assert.Equal(t, domain.RiskLabelNormal, rows[0].RiskLabel)
	})

	t.Run("negative index preserved", func(t *testing.T) {
		// Overruns: savings ratio negative → negative index, still ranked.
		var projects []domain.Project
		for i := 0; i < 5; i++ {
			projects = append(projects, project("R", "Luzon", "P", "Neg", "Dike", 2021, 50, 100, 10))
		}
		rows := builder.TopContractorPerformance(projects)
		require.Len(t, rows, 1)
		assert.Less(t, rows[0].ReliabilityIndex, 0.0)
		assert.Equal(t, domain.RiskLabelHigh, rows[0].RiskLabel)
	})
}

func TestTopContractorRankingAndCutoff(t *testing.T) {
	builder, _ := newTestBuilder()
	var projects []domain.Project
	// 17 contractors, each with 5 projects; contractor k has cost 1000-10k
	// so the order is strictly known.
	for k := 0; k < 17; k++ {
		cost := float64(1000 - 10*k)
		for i := 0; i < 5; i++ {
			projects = append(projects,
				project("R", "Luzon", "P", fmt.Sprintf("C%02d", k), "Dike", 2021, cost+10, cost, 10))
		}
	}

	rows := builder.TopContractorPerformance(projects)

	require.Len(t, rows, TopContractors)
	assert.Equal(t, "C00", rows[0].Contractor)
	assert.Equal(t, 1, rows[0].Rank)
	assert.Equal(t, "C14", rows[14].Contractor)
	assert.Equal(t, 15, rows[14].Rank)
	for i := 1; i < len(rows); i++ {
		assert.GreaterOrEqual(t, rows[i-1].TotalCost, rows[i].TotalCost,
			"rows must be sorted descending by total cost")
	}
}

func TestTopContractorTieBreakByName(t *testing.T) {
	builder, _ := newTestBuilder()
	var projects []domain.Project
	for _, name := range []string{"Zeta Builders", "Alpha Builders"} {
		for i := 0; i < 5; i++ {
			projects = append(projects, project("R", "Luzon", "P", name, "Dike", 2021, 110, 100, 10))
		}
	}

	rows := builder.TopContractorPerformance(projects)

	require.Len(t, rows, 2)
	assert.Equal(t, "Alpha Builders", rows[0].Contractor)
	assert.Equal(t, "Zeta Builders", rows[1].Contractor)
}

func TestAnnualTrendsYoYChange(t *testing.T) {
	builder, _ := newTestBuilder()
	projects := []domain.Project{
		// Dike: 2021 mean savings 20, 2022 mean 30 (+50%), 2023 mean 10 (-50%).
		project("R", "Luzon", "P", "C", "Dike", 2021, 120, 100, 10),
		project("R", "Luzon", "P", "C", "Dike", 2022, 130, 100, 10),
		project("R", "Luzon", "P", "C", "Dike", 2023, 110, 100, 10),
	}

	rows := builder.AnnualTrends(projects)
	require.Len(t, rows, 3)

	assert.Equal(t, 2021, rows[0].FundingYear)
	assert.Nil(t, rows[0].YoYChange, "baseline year has no prior baseline")

	assert.Equal(t, 2022, rows[1].FundingYear)
	require.NotNil(t, rows[1].YoYChange)
	assert.InDelta(t, 50.0, *rows[1].YoYChange, 1e-9)

	assert.Equal(t, 2023, rows[2].FundingYear)
	require.NotNil(t, rows[2].YoYChange)
	assert.InDelta(t, -50.0, *rows[2].YoYChange, 1e-9)
}

func TestAnnualTrendsMissingBaseline(t *testing.T) {
	builder, _ := newTestBuilder()
	// Work type first appears in 2022: no 2021 row to anchor the change.
	projects := []domain.Project{
		project("R", "Luzon", "P", "C", "Revetment", 2022, 120, 100, 10),
	}

	rows := builder.AnnualTrends(projects)
	require.Len(t, rows, 1)
	assert.Nil(t, rows[0].YoYChange)
}

func TestAnnualTrendsZeroBaseline(t *testing.T) {
	builder, runLog := newTestBuilder()
	projects := []domain.Project{
		project("R", "Luzon", "P", "C", "Drainage", 2021, 100, 100, 10), // mean savings 0
		project("R", "Luzon", "P", "C", "Drainage", 2022, 150, 100, 10),
	}

	rows := builder.AnnualTrends(projects)
	require.Len(t, rows, 2)
	assert.Nil(t, rows[1].YoYChange, "zero baseline yields null, not infinity")
	require.Len(t, runLog.Notes, 1)
	assert.Contains(t, runLog.Notes[0], "zero 2021 baseline")
}

func TestAnnualTrendsOverrunRateAndOrdering(t *testing.T) {
	builder, _ := newTestBuilder()
	projects := []domain.Project{
		// 2022 Dike: savings +20 and -10 → overrun rate 50, mean 5.
		project("R", "Luzon", "P", "C", "Dike", 2022, 120, 100, 10),
		project("R", "Luzon", "P", "C", "Dike", 2022, 90, 100, 10),
		// 2022 Drainage: mean savings 30.
		project("R", "Luzon", "P", "C", "Drainage", 2022, 130, 100, 10),
		// 2021 Dike baseline.
		project("R", "Luzon", "P", "C", "Dike", 2021, 110, 100, 10),
	}

	rows := builder.AnnualTrends(projects)
	require.Len(t, rows, 3)

	// Ascending by year, then descending by mean savings within year.
	assert.Equal(t, 2021, rows[0].FundingYear)
	assert.Equal(t, 2022, rows[1].FundingYear)
	assert.Equal(t, "Drainage", rows[1].TypeOfWork)
	assert.Equal(t, 2022, rows[2].FundingYear)
	assert.Equal(t, "Dike", rows[2].TypeOfWork)
	assert.InDelta(t, 50.0, rows[2].OverrunRate, 1e-9)
	assert.InDelta(t, 5.0, rows[2].AvgSavings, 1e-9)
}

func TestSummaryDigest(t *testing.T) {
	builder, _ := newTestBuilder()
	projects := []domain.Project{
		project("R", "Luzon", "Bulacan", "Acme Builders", "Dike", 2021, 100, 80, 10),
		project("R", "Luzon", "bulacan ", "ACME BUILDERS", "Dike", 2022, 100, 90, 20),
		project("R", "Luzon", "Cebu", "Other Corp", "Dike", 2023, 100, 120, 30),
	}

	digest := builder.Summary(projects)

	assert.Equal(t, 3, digest.TotalProjects)
	// Case- and whitespace-insensitive distinct counting.
	assert.Equal(t, 2, digest.TotalContractors)
	assert.Equal(t, 2, digest.TotalProvinces)
	assert.InDelta(t, 20.0, digest.GlobalAvgDelay, 1e-9)
	assert.InDelta(t, 10.0, digest.GlobalTotalSavings, 1e-9)
}

func TestSummaryExcludesPlaceholderContractors(t *testing.T) {
	builder, _ := newTestBuilder()
	projects := []domain.Project{
		project("R", "Luzon", "P", "Real Builders", "Dike", 2021, 100, 80, 10),
		project("R", "Luzon", "P", "CLUSTERED WITH CONTRACT ID 12345", "Dike", 2021, 100, 80, 10),
	}

	digest := builder.Summary(projects)
	assert.Equal(t, 1, digest.TotalContractors)
	assert.Equal(t, 2, digest.TotalProjects, "placeholder rows still count as projects")
}

func TestSummaryIgnoresReportFilters(t *testing.T) {
	builder, _ := newTestBuilder()
	// Every contractor has fewer than 5 projects: Report 2 would be empty,
	// the summary still counts them all.
	var projects []domain.Project
	for i := 0; i < 10; i++ {
		projects = append(projects,
			project("R", "Luzon", "P", fmt.Sprintf("Solo-%d", i), "Dike", 2021, 100, 80, 10))
	}

	assert.Empty(t, builder.TopContractorPerformance(projects))
	digest := builder.Summary(projects)
	assert.Equal(t, 10, digest.TotalContractors)
}
