package exporter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "floodctl/internal/errors"
	"floodctl/pkg/contracts/domain"
)

func float64Ptr(v float64) *float64 { return &v }

func TestFormatFloat(t *testing.T) {
	tests := []struct {
		in       float64
		expected string
	}{
		{13.4, "13.40"},
		{0, "0.00"},
		{1234567.891, "1234567.89"},
		{-20.5, "-20.50"},
		{0.005, "0.01"},
		{-0.005, "-0.01"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, formatFloat(tt.in), "formatFloat(%v)", tt.in)
	}
}

func TestFormatOptionalFloat(t *testing.T) {
	assert.Equal(t, "", formatOptionalFloat(nil), "nil must serialize as empty, not 0.00")
	assert.Equal(t, "50.00", formatOptionalFloat(float64Ptr(50)))
}

func TestWriteRegionalEfficiencyCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	rows := []domain.RegionalEfficiencyRow{
		{Region: "Region III", MainIsland: "Luzon", TotalBudget: 1500000.5, MedianSavings: 20, AvgDelay: 31, HighDelayPct: 100, EfficiencyScore: 100},
		{Region: "Region VII", MainIsland: "Visayas", TotalBudget: 800000, MedianSavings: -5.125, AvgDelay: 12.5, HighDelayPct: 0, EfficiencyScore: 0},
	}
	require.NoError(t, w.WriteRegionalEfficiency(rows))

	data, err := os.ReadFile(filepath.Join(dir, Report1File))
	require.NoError(t, err)

	expected := "Region,MainIsland,TotalBudget,MedianSavings,AvgDelay,HighDelayPct,EfficiencyScore\n" +
		"Region III,Luzon,1500000.50,20.00,31.00,100.00,100.00\n" +
		"Region VII,Visayas,800000.00,-5.13,12.50,0.00,0.00\n"
	assert.Equal(t, expected, string(data), "canonical CSV: plain decimals, no separators, no BOM")
}

func TestWriteContractorPerformanceCSV(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	rows := []domain.ContractorPerformanceRow{
		{Rank: 1, Contractor: "ACME BUILDERS, INC.", NumProjects: 8, TotalCost: 5000000, AvgDelay: 40, TotalSavings: -100000, ReliabilityIndex: -11.11, RiskLabel: domain.RiskLabelHigh},
	}
	require.NoError(t, w.WriteContractorPerformance(rows))

	data, err := os.ReadFile(filepath.Join(dir, Report2File))
	require.NoError(t, err)

	expected := "Rank,Contractor,NumProjects,TotalCost,AvgDelay,TotalSavings,ReliabilityIndex,RiskLabel\n" +
		"1,\"ACME BUILDERS, INC.\",8,5000000.00,40.00,-100000.00,-11.11,High Risk\n"
	assert.Equal(t, expected, string(data))
}

func TestWriteAnnualTrendsCSVNullYoY(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)

	rows := []domain.AnnualTrendRow{
		{FundingYear: 2021, TypeOfWork: "Dike", TotalProjects: 3, AvgSavings: 20, OverrunRate: 0, YoYChange: nil},
		{FundingYear: 2022, TypeOfWork: "Dike", TotalProjects: 2, AvgSavings: 30, OverrunRate: 50, YoYChange: float64Ptr(50)},
	}
	require.NoError(t, w.WriteAnnualTrends(rows))

	data, err := os.ReadFile(filepath.Join(dir, Report3File))
	require.NoError(t, err)

	expected := "FundingYear,TypeOfWork,TotalProjects,AvgSavings,OverrunRate,YoYChange\n" +
		"2021,Dike,3,20.00,0.00,\n" +
		"2022,Dike,2,30.00,50.00,50.00\n"
	assert.Equal(t, expected, string(data))
}

func TestWriteCSVIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	w := NewCSVWriter(dir, nil)
	rows := []domain.RegionalEfficiencyRow{
		{Region: "R1", MainIsland: "Luzon", TotalBudget: 100, MedianSavings: 20, AvgDelay: 31, HighDelayPct: 100, EfficiencyScore: 0},
	}

	require.NoError(t, w.WriteRegionalEfficiency(rows))
	first, err := os.ReadFile(filepath.Join(dir, Report1File))
	require.NoError(t, err)

	require.NoError(t, w.WriteRegionalEfficiency(rows))
	second, err := os.ReadFile(filepath.Join(dir, Report1File))
	require.NoError(t, err)

	assert.Equal(t, first, second, "two writes of the same rows must be byte-identical")
}

func TestWriteSummaryJSON(t *testing.T) {
	dir := t.TempDir()
	digest := domain.SummaryDigest{
		TotalProjects:      9855,
		TotalContractors:   2163,
		TotalProvinces:     81,
		GlobalAvgDelay:     187.3456,
		GlobalTotalSavings: 12345678.9012,
	}
	require.NoError(t, WriteSummary(dir, digest, nil))

	data, err := os.ReadFile(filepath.Join(dir, SummaryFile))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, float64(9855), decoded["totalProjects"])
	assert.Equal(t, float64(2163), decoded["totalContractors"])
	assert.Equal(t, float64(81), decoded["totalProvinces"])
	assert.Equal(t, 187.35, decoded["globalAvgDelay"])
	assert.Equal(t, 12345678.90, decoded["globalTotalSavings"])
	assert.Len(t, decoded, 5, "summary.json is a single flat object")
}

func TestWriteRunLog(t *testing.T) {
	dir := t.TempDir()
	runLog := apperrors.NewRunLog()
	runLog.RowsSeen = 10
	runLog.AddReject(3, apperrors.RejectMalformedDate, "StartDate: \"n/a\"")
	runLog.AddNote("report2: zero total cost for contractor \"X\"; reliability index set to 0")
	runLog.Finish()

	require.NoError(t, WriteRunLog(dir, runLog, nil))

	data, err := os.ReadFile(filepath.Join(dir, RunLogFile))
	require.NoError(t, err)

	var decoded struct {
		RunID   string             `json:"run_id"`
		Rejects []apperrors.Reject `json:"rejects"`
		Notes   []string           `json:"notes"`
	}
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.NotEmpty(t, decoded.RunID)
	require.Len(t, decoded.Rejects, 1)
	assert.Equal(t, apperrors.RejectMalformedDate, decoded.Rejects[0].Reason)
	assert.Len(t, decoded.Notes, 1)
}

func TestWriteWorkbook(t *testing.T) {
	dir := t.TempDir()
	w := NewExcelWriter(dir, nil)

	regional := []domain.RegionalEfficiencyRow{
		{Region: "R1", MainIsland: "Luzon", TotalBudget: 1500000.5, MedianSavings: 20, AvgDelay: 31, HighDelayPct: 100, EfficiencyScore: 100},
	}
	contractors := []domain.ContractorPerformanceRow{
		{Rank: 1, Contractor: "ACME", NumProjects: 5, TotalCost: 500, AvgDelay: 45, TotalSavings: 250, ReliabilityIndex: 25, RiskLabel: domain.RiskLabelHigh},
	}
	trends := []domain.AnnualTrendRow{
		{FundingYear: 2021, TypeOfWork: "Dike", TotalProjects: 3, AvgSavings: 20, OverrunRate: 0},
	}
	digest := domain.SummaryDigest{TotalProjects: 5, TotalContractors: 2, TotalProvinces: 1, GlobalAvgDelay: 30.5, GlobalTotalSavings: 270}

	require.NoError(t, w.WriteWorkbook(regional, contractors, trends, digest))

	f, err := excelize.OpenFile(filepath.Join(dir, ExcelFile))
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, "Regional Efficiency")
	assert.Contains(t, sheets, "Top Contractors")
	assert.Contains(t, sheets, "Annual Trends")
	assert.Contains(t, sheets, "Summary")

	region, err := f.GetCellValue("Regional Efficiency", "A2")
	require.NoError(t, err)
	assert.Equal(t, "R1", region)

	contractor, err := f.GetCellValue("Top Contractors", "B2")
	require.NoError(t, err)
	assert.Equal(t, "ACME", contractor)
}
