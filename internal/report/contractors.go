package report

import (
	"fmt"
	"math"
	"sort"

	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

// Report 2 parameters.
const (
	// MinContractorProjects is the raw project count below which a
	// contractor is excluded from the ranking.
	MinContractorProjects = 5
	// TopContractors is the ranking cutoff.
	TopContractors = 15
	// reliabilityDelayScale is the delay horizon in the reliability formula.
	reliabilityDelayScale = 90.0
	// reliabilityCap bounds the index from above; there is no floor, a
	// negative index is meaningful and signals poor reliability.
	reliabilityCap = 100.0
)

// TopContractorPerformance builds Report 2: contractors with at least
// MinContractorProjects projects, ranked by total contract cost, top
// TopContractors kept.
func (b *Builder) TopContractorPerformance(projects []domain.Project) []domain.ContractorPerformanceRow {
	groups := stats.GroupBy(projects, func(p domain.Project) string { return p.Contractor })

	rows := make([]domain.ContractorPerformanceRow, 0, len(groups))
	for _, g := range groups {
		// Threshold applies to the raw project count, before any other
		// filtering.
		if len(g.Records) < MinContractorProjects {
			continue
		}

		delays := stats.Collect(g.Records, func(p domain.Project) float64 { return float64(p.CompletionDelayDays) })
		avgDelay, _ := stats.Mean(delays)
		totalCost := stats.Sum(stats.Collect(g.Records, func(p domain.Project) float64 { return p.ContractCost }))
		totalSavings := stats.Sum(stats.Collect(g.Records, func(p domain.Project) float64 { return p.CostSavings }))

		var index float64
		if totalCost == 0 {
			// Division policy: the savings ratio is undefined, never a
			// crash. The index degrades to zero with a run log note.
			b.runLog.AddNote(fmt.Sprintf("report2: zero total cost for contractor %q; reliability index set to 0", g.Key))
		} else {
			index = (1 - avgDelay/reliabilityDelayScale) * (totalSavings / totalCost) * 100
			index = stats.CappedRatio(index, math.Inf(-1), reliabilityCap)
		}

		label := domain.RiskLabelNormal
		if index < 50 {
			label = domain.RiskLabelHigh
		}

		rows = append(rows, domain.ContractorPerformanceRow{
			Contractor:       g.Key,
			NumProjects:      len(g.Records),
			TotalCost:        totalCost,
			AvgDelay:         avgDelay,
			TotalSavings:     totalSavings,
			ReliabilityIndex: index,
			RiskLabel:        label,
		})
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].TotalCost != rows[j].TotalCost {
			return rows[i].TotalCost > rows[j].TotalCost
		}
		if rows[i].ReliabilityIndex != rows[j].ReliabilityIndex {
			return rows[i].ReliabilityIndex > rows[j].ReliabilityIndex
		}
		return rows[i].Contractor < rows[j].Contractor
	})

	if len(rows) > TopContractors {
		rows = rows[:TopContractors]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}

	b.logger.Info("built contractor performance report", "ranked", len(rows))
	return rows
}
