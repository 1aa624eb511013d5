package exporter

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"floodctl/internal/stats"
	"floodctl/pkg/contracts/domain"
)

// ExcelWriter writes the human-readable presentation workbook. This is the
// only output with thousands separators; the canonical CSVs stay plain.
type ExcelWriter struct {
	outputDir string
	logger    *slog.Logger
}

// NewExcelWriter creates an Excel writer rooted at outputDir.
func NewExcelWriter(outputDir string, logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{outputDir: outputDir, logger: logger}
}

// WriteWorkbook writes one sheet per report plus the summary digest.
func (w *ExcelWriter) WriteWorkbook(
	regional []domain.RegionalEfficiencyRow,
	contractors []domain.ContractorPerformanceRow,
	trends []domain.AnnualTrendRow,
	digest domain.SummaryDigest,
) error {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	// Builtin format 4 is "#,##0.00".
	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: 4})
	if err != nil {
		return fmt.Errorf("create number style: %w", err)
	}

	if err := f.SetSheetName("Sheet1", "Regional Efficiency"); err != nil {
		return fmt.Errorf("rename first sheet: %w", err)
	}

	if err := w.writeRegionalSheet(f, "Regional Efficiency", regional, headerStyle, numberStyle); err != nil {
		return err
	}
	if err := w.writeContractorSheet(f, "Top Contractors", contractors, headerStyle, numberStyle); err != nil {
		return err
	}
	if err := w.writeTrendSheet(f, "Annual Trends", trends, headerStyle, numberStyle); err != nil {
		return err
	}
	if err := w.writeSummarySheet(f, "Summary", digest, headerStyle, numberStyle); err != nil {
		return err
	}

	if err := os.MkdirAll(w.outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	path := filepath.Join(w.outputDir, ExcelFile)
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	w.logger.Info("wrote presentation workbook", slog.String("path", path))
	return nil
}

func (w *ExcelWriter) writeRegionalSheet(f *excelize.File, sheet string, rows []domain.RegionalEfficiencyRow, headerStyle, numberStyle int) error {
	if err := writeHeaderRow(f, sheet, report1Headers, headerStyle); err != nil {
		return err
	}
	for i, r := range rows {
		rowNum := i + 2
		cells := []any{
			r.Region,
			r.MainIsland,
			stats.Round2(r.TotalBudget),
			stats.Round2(r.MedianSavings),
			stats.Round2(r.AvgDelay),
			stats.Round2(r.HighDelayPct),
			stats.Round2(r.EfficiencyScore),
		}
		if err := writeDataRow(f, sheet, rowNum, cells); err != nil {
			return err
		}
	}
	return styleNumericRange(f, sheet, "C", "G", len(rows), numberStyle)
}

func (w *ExcelWriter) writeContractorSheet(f *excelize.File, sheet string, rows []domain.ContractorPerformanceRow, headerStyle, numberStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := writeHeaderRow(f, sheet, report2Headers, headerStyle); err != nil {
		return err
	}
	for i, r := range rows {
		cells := []any{
			r.Rank,
			r.Contractor,
			r.NumProjects,
			stats.Round2(r.TotalCost),
			stats.Round2(r.AvgDelay),
			stats.Round2(r.TotalSavings),
			stats.Round2(r.ReliabilityIndex),
			r.RiskLabel,
		}
		if err := writeDataRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return styleNumericRange(f, sheet, "D", "G", len(rows), numberStyle)
}

func (w *ExcelWriter) writeTrendSheet(f *excelize.File, sheet string, rows []domain.AnnualTrendRow, headerStyle, numberStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if err := writeHeaderRow(f, sheet, report3Headers, headerStyle); err != nil {
		return err
	}
	for i, r := range rows {
		cells := []any{
			r.FundingYear,
			r.TypeOfWork,
			r.TotalProjects,
			stats.Round2(r.AvgSavings),
			stats.Round2(r.OverrunRate),
		}
		if r.YoYChange != nil {
			cells = append(cells, stats.Round2(*r.YoYChange))
		} else {
			cells = append(cells, "")
		}
		if err := writeDataRow(f, sheet, i+2, cells); err != nil {
			return err
		}
	}
	return styleNumericRange(f, sheet, "D", "F", len(rows), numberStyle)
}

func (w *ExcelWriter) writeSummarySheet(f *excelize.File, sheet string, digest domain.SummaryDigest, headerStyle, numberStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	entries := []struct {
		label string
		value any
	}{
		{"Total Projects", digest.TotalProjects},
		{"Total Contractors", digest.TotalContractors},
		{"Total Provinces", digest.TotalProvinces},
		{"Global Avg Delay (days)", stats.Round2(digest.GlobalAvgDelay)},
		{"Global Total Savings", stats.Round2(digest.GlobalTotalSavings)},
	}
	for i, e := range entries {
		labelCell := fmt.Sprintf("A%d", i+1)
		valueCell := fmt.Sprintf("B%d", i+1)
		if err := f.SetCellValue(sheet, labelCell, e.label); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, labelCell, err)
		}
		if err := f.SetCellValue(sheet, valueCell, e.value); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, valueCell, err)
		}
		if err := f.SetCellStyle(sheet, labelCell, labelCell, headerStyle); err != nil {
			return fmt.Errorf("style %s!%s: %w", sheet, labelCell, err)
		}
	}
	if err := f.SetCellStyle(sheet, "B4", "B5", numberStyle); err != nil {
		return fmt.Errorf("style %s numbers: %w", sheet, err)
	}
	return f.SetColWidth(sheet, "A", "B", 24)
}

func writeHeaderRow(f *excelize.File, sheet string, headers []string, style int) error {
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return fmt.Errorf("header cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
		if err := f.SetCellStyle(sheet, cell, cell, style); err != nil {
			return fmt.Errorf("style %s!%s: %w", sheet, cell, err)
		}
		if err := f.SetColWidth(sheet, cell[:1], cell[:1], 20); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	return nil
}

func writeDataRow(f *excelize.File, sheet string, rowNum int, cells []any) error {
	for i, v := range cells {
		cell, err := excelize.CoordinatesToCellName(i+1, rowNum)
		if err != nil {
			return fmt.Errorf("data cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}

func styleNumericRange(f *excelize.File, sheet, firstCol, lastCol string, rowCount, style int) error {
	if rowCount == 0 {
		return nil
	}
	top := fmt.Sprintf("%s2", firstCol)
	bottom := fmt.Sprintf("%s%d", lastCol, rowCount+1)
	if err := f.SetCellStyle(sheet, top, bottom, style); err != nil {
		return fmt.Errorf("style %s numeric range: %w", sheet, err)
	}
	return nil
}
