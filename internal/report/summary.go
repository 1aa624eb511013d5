package report

import (
	"strings"

	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

// placeholder substrings found in the contractor column of the source
// dataset; names containing them identify cross-references, not
// contractors, and are excluded from the distinct count.
var contractorPlaceholders = []string{
	"clustered with contract id",
	"myca with project id",
}

// Summary builds the cross-report digest directly from the cleaned record
// set. It is computed independently of every per-report filter: the
// contractor count here includes contractors Report 2 drops for having
// fewer than five projects.
func (b *Builder) Summary(projects []domain.Project) domain.SummaryDigest {
	contractors := make(map[string]struct{})
	provinces := make(map[string]struct{})
	for _, p := range projects {
		if name, ok := cleanContractorName(p.Contractor); ok {
			contractors[name] = struct{}{}
		}
		if name, ok := cleanProvinceName(p.Province); ok {
			provinces[name] = struct{}{}
		}
	}

	delays := stats.Collect(projects, func(p domain.Project) float64 { return float64(p.CompletionDelayDays) })
	avgDelay, _ := stats.Mean(delays) // 0 when the cleaned set is empty

	digest := domain.SummaryDigest{
		TotalProjects:      len(projects),
		TotalContractors:   len(contractors),
		TotalProvinces:     len(provinces),
		GlobalAvgDelay:     avgDelay,
		GlobalTotalSavings: stats.Sum(stats.Collect(projects, func(p domain.Project) float64 { return p.CostSavings })),
	}

	b.logger.Info("built summary digest",
		"projects", digest.TotalProjects,
		"contractors", digest.TotalContractors,
		"provinces", digest.TotalProvinces)
	return digest
}

// cleanContractorName normalizes a contractor name for distinct counting:
// trimmed, uppercased, placeholder cross-references rejected.
func cleanContractorName(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}
	lower := strings.ToLower(trimmed)
	for _, placeholder := range contractorPlaceholders {
		if strings.Contains(lower, placeholder) {
			return "", false
		}
	}
	return strings.ToUpper(trimmed), true
}

// cleanProvinceName normalizes a province name for distinct counting.
func cleanProvinceName(name string) (string, bool) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", false
	}
	return strings.ToUpper(trimmed), true
}
