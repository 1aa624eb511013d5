package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"floodctl/pkg/contracts/domain"
)

// Canonical output file names.
const (
	Report1File = "Report1.csv"
	Report2File = "Report2.csv"
	Report3File = "Report3.csv"
	SummaryFile = "summary.json"
	RunLogFile  = "run_log.json"
	ExcelFile   = "floodctl_report.xlsx"
)

// Report column headers, matching the report definitions.
var (
	report1Headers = []string{"Region", "MainIsland", "TotalBudget", "MedianSavings", "AvgDelay", "HighDelayPct", "EfficiencyScore"}
	report2Headers = []string{"Rank", "Contractor", "NumProjects", "TotalCost", "AvgDelay", "TotalSavings", "ReliabilityIndex", "RiskLabel"}
	report3Headers = []string{"FundingYear", "TypeOfWork", "TotalProjects", "AvgSavings", "OverrunRate", "YoYChange"}
)

// CSVWriter writes the canonical report CSVs into the output directory.
type CSVWriter struct {
	outputDir string
	logger    *slog.Logger
}

// NewCSVWriter creates a CSV writer rooted at outputDir.
func NewCSVWriter(outputDir string, logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{outputDir: outputDir, logger: logger}
}

// WriteRegionalEfficiency writes Report 1.
func (w *CSVWriter) WriteRegionalEfficiency(rows []domain.RegionalEfficiencyRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			r.Region,
			r.MainIsland,
			formatFloat(r.TotalBudget),
			formatFloat(r.MedianSavings),
			formatFloat(r.AvgDelay),
			formatFloat(r.HighDelayPct),
			formatFloat(r.EfficiencyScore),
		})
	}
	return w.writeCSV(Report1File, report1Headers, records)
}

// WriteContractorPerformance writes Report 2.
func (w *CSVWriter) WriteContractorPerformance(rows []domain.ContractorPerformanceRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatInt(r.Rank),
			r.Contractor,
			formatInt(r.NumProjects),
			formatFloat(r.TotalCost),
			formatFloat(r.AvgDelay),
			formatFloat(r.TotalSavings),
			formatFloat(r.ReliabilityIndex),
			r.RiskLabel,
		})
	}
	return w.writeCSV(Report2File, report2Headers, records)
}

// WriteAnnualTrends writes Report 3. A nil YoYChange serializes as an empty
// cell.
func (w *CSVWriter) WriteAnnualTrends(rows []domain.AnnualTrendRow) error {
	records := make([][]string, 0, len(rows))
	for _, r := range rows {
		records = append(records, []string{
			formatInt(r.FundingYear),
			r.TypeOfWork,
			formatInt(r.TotalProjects),
			formatFloat(r.AvgSavings),
			formatFloat(r.OverrunRate),
			formatOptionalFloat(r.YoYChange),
		})
	}
	return w.writeCSV(Report3File, report3Headers, records)
}

// writeCSV writes one canonical CSV: header row plus records, truncating
// any previous file. No BOM; the canonical files must be byte-comparable
// across runs.
func (w *CSVWriter) writeCSV(name string, headers []string, records [][]string) error {
	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	path := filepath.Join(w.outputDir, name)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	if err := writer.Write(headers); err != nil {
		return fmt.Errorf("write headers: %w", err)
	}
	for i, record := range records {
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record %d: %w", i, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush %s: %w", name, err)
	}

	w.logger.Info("wrote canonical report",
		slog.String("path", path),
		slog.Int("rows", len(records)))
	return nil
}
