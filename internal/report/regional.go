package report

import (
	"fmt"
	"math"
	"sort"

	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

// regionalAggregate is the pass-1 intermediate for one (Region, MainIsland)
// group, carrying the raw efficiency score before normalization.
type regionalAggregate struct {
	row          domain.RegionalEfficiencyRow
	rawScore     float64
	zeroDelay    bool
	scorePending bool
}

// RegionalEfficiency builds Report 1. Scores are computed in two passes:
// pass 1 aggregates each (Region, MainIsland) group and computes its raw
// score, pass 2 min-max rescales the raw scores to [0,100] across the whole
// report.
func (b *Builder) RegionalEfficiency(projects []domain.Project) []domain.RegionalEfficiencyRow {
	groups := stats.GroupBy(projects, func(p domain.Project) string {
		return p.Region + "|" + p.MainIsland
	})

	// Pass 1: per-group aggregates and raw scores.
	aggregates := make([]regionalAggregate, 0, len(groups))
	for _, g := range groups {
		savings := stats.Collect(g.Records, func(p domain.Project) float64 { return p.CostSavings })
		delays := stats.Collect(g.Records, func(p domain.Project) float64 { return float64(p.CompletionDelayDays) })

		medianSavings := stats.Median(savings)
		avgDelay, _ := stats.Mean(delays) // groups are never empty

		agg := regionalAggregate{
			row: domain.RegionalEfficiencyRow{
				Region:        g.Records[0].Region,
				MainIsland:    g.Records[0].MainIsland,
				NumProjects:   len(g.Records),
				TotalBudget:   stats.Sum(stats.Collect(g.Records, func(p domain.Project) float64 { return p.ApprovedBudgetForContract })),
				MedianSavings: medianSavings,
				AvgDelay:      avgDelay,
				HighDelayPct:  stats.Percentage(delays, func(d float64) bool { return d > HighDelayThresholdDays }),
			},
		}
		if avgDelay == 0 {
			// Raw score is median/avgDelay*100; a zero average delay gets
			// the maximum finite raw score observed elsewhere instead of a
			// fabricated large number. Resolved after the first pass.
			agg.zeroDelay = true
			agg.scorePending = true
		} else {
			agg.rawScore = (medianSavings / avgDelay) * 100
		}
		aggregates = append(aggregates, agg)
	}

	// Resolve zero-delay groups to the maximum finite raw score among the
	// others (0 when no other finite score exists).
	maxFinite := math.Inf(-1)
	for _, agg := range aggregates {
		if !agg.scorePending && !math.IsInf(agg.rawScore, 0) && !math.IsNaN(agg.rawScore) {
			maxFinite = math.Max(maxFinite, agg.rawScore)
		}
	}
	if math.IsInf(maxFinite, -1) {
		maxFinite = 0
	}
	for i := range aggregates {
		if aggregates[i].scorePending {
			aggregates[i].rawScore = maxFinite
			aggregates[i].scorePending = false
			b.runLog.AddNote(fmt.Sprintf(
				"report1: zero average delay for (%s, %s); raw efficiency score substituted with max finite %g",
				aggregates[i].row.Region, aggregates[i].row.MainIsland, maxFinite))
		}
	}

	// Pass 2: min-max normalization over the whole report. A degenerate
	// spread (all raw scores equal) maps every group to 0.
	minRaw, maxRaw := math.Inf(1), math.Inf(-1)
	for _, agg := range aggregates {
		minRaw = math.Min(minRaw, agg.rawScore)
		maxRaw = math.Max(maxRaw, agg.rawScore)
	}
	spread := maxRaw - minRaw

	rows := make([]domain.RegionalEfficiencyRow, 0, len(aggregates))
	for _, agg := range aggregates {
		row := agg.row
		if spread > 0 {
			row.EfficiencyScore = (agg.rawScore - minRaw) / spread * 100
		} else {
			row.EfficiencyScore = 0
		}
		rows = append(rows, row)
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].EfficiencyScore != rows[j].EfficiencyScore {
			return rows[i].EfficiencyScore > rows[j].EfficiencyScore
		}
		if rows[i].TotalBudget != rows[j].TotalBudget {
			return rows[i].TotalBudget > rows[j].TotalBudget
		}
		if rows[i].Region != rows[j].Region {
			return rows[i].Region < rows[j].Region
		}
		return rows[i].MainIsland < rows[j].MainIsland
	})

	b.logger.Info("built regional efficiency report", "groups", len(rows))
	return rows
}
