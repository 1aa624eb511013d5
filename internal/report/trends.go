package report

import (
	"fmt"
	"sort"

	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

// BaselineYear anchors the year-over-year change in Report 3.
const BaselineYear = domain.MinFundingYear

// AnnualTrends builds Report 3. Pass 1 aggregates each (FundingYear,
// TypeOfWork) group; pass 2 joins every row back to its work type's
// baseline-year mean savings to compute the year-over-year change. Baseline
// rows and rows without a usable baseline carry a nil YoYChange, never zero.
func (b *Builder) AnnualTrends(projects []domain.Project) []domain.AnnualTrendRow {
	groups := stats.GroupBy(projects, func(p domain.Project) string {
		return fmt.Sprintf("%d|%s", p.FundingYear, p.TypeOfWork)
	})

	// Pass 1: group aggregates.
	rows := make([]domain.AnnualTrendRow, 0, len(groups))
	for _, g := range groups {
		savings := stats.Collect(g.Records, func(p domain.Project) float64 { return p.CostSavings })
		avgSavings, _ := stats.Mean(savings) // groups are never empty

		rows = append(rows, domain.AnnualTrendRow{
			FundingYear:   g.Records[0].FundingYear,
			TypeOfWork:    g.Records[0].TypeOfWork,
			TotalProjects: len(g.Records),
			AvgSavings:    avgSavings,
			OverrunRate:   stats.Percentage(savings, func(s float64) bool { return s < 0 }),
		})
	}

	// Pass 2: join each row to its work type's baseline-year mean.
	baselines := make(map[string]float64, len(rows))
	for _, row := range rows {
		if row.FundingYear == BaselineYear {
			baselines[row.TypeOfWork] = row.AvgSavings
		}
	}
	for i := range rows {
		if rows[i].FundingYear == BaselineYear {
			continue // no prior baseline by definition
		}
		baseline, ok := baselines[rows[i].TypeOfWork]
		if !ok {
			continue // work type absent in the baseline year
		}
		if change, ok := stats.PercentChange(rows[i].AvgSavings, baseline); ok {
			v := change
			rows[i].YoYChange = &v
		} else {
			b.runLog.AddNote(fmt.Sprintf(
				"report3: zero %d baseline for %q; year-over-year change undefined for %d",
				BaselineYear, rows[i].TypeOfWork, rows[i].FundingYear))
		}
	}

	sort.Slice(rows, func(i, j int) bool {
		if rows[i].FundingYear != rows[j].FundingYear {
			return rows[i].FundingYear < rows[j].FundingYear
		}
		if rows[i].AvgSavings != rows[j].AvgSavings {
			return rows[i].AvgSavings > rows[j].AvgSavings
		}
		return rows[i].TypeOfWork < rows[j].TypeOfWork
	})

	b.logger.Info("built annual trend report", "groups", len(rows))
	return rows
}
