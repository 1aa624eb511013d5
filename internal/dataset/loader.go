// Package dataset loads and cleans the flood-control project dataset.
//
// The loader parses raw CSV rows into typed records, rejecting bad rows one
// at a time (never failing the run for a single row). The cleaner applies
// the fixed pipeline order: year filter, two-pass province coordinate
// imputation, then derived fields. Surviving rows keep their input order so
// every downstream aggregation accumulates in a stable, reproducible order.
package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "floodctl/internal/errors"
	"floodctl/pkg/contracts/domain"
)

// Canonical column names of the input schema. Header matching is
// case-insensitive.
const (
	ColProjectID      = "ProjectID"
	ColContractID     = "ContractID"
	ColRegion         = "Region"
	ColMainIsland     = "MainIsland"
	ColProvince       = "Province"
	ColContractor     = "Contractor"
	ColTypeOfWork     = "TypeOfWork"
	ColFundingYear    = "FundingYear"
	ColApprovedBudget = "ApprovedBudgetForContract"
	ColContractCost   = "ContractCost"
	ColStartDate      = "StartDate"
	ColCompletionDate = "ActualCompletionDate"
	ColLatitude       = "Latitude"
	ColLongitude      = "Longitude"
)

// requiredColumns must all be present in the header row; a missing one is a
// fatal header mismatch, not a row-level problem.
var requiredColumns = []string{
	ColRegion, ColProvince, ColContractor, ColTypeOfWork,
	ColFundingYear, ColApprovedBudget, ColContractCost,
	ColStartDate, ColCompletionDate,
}

// dateFormats is the accepted date format list, tried in priority order.
var dateFormats = []string{
	"02/01/2006",
	"2006-01-02",
	"01/02/2006",
	"2-Jan-06",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Row is one successfully parsed input row before cleaning. HasLat/HasLon
// track whether the row carried its own coordinates; missing ones are
// candidates for province-mean imputation.
type Row struct {
	Num     int // 1-based data row number, header excluded
	Project domain.Project
	HasLat  bool
	HasLon  bool
}

// Loader parses the raw input CSV into typed rows.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader. A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// Load reads the CSV at path. It fails only for fatal conditions (file
// unreadable, header missing required columns); each malformed data row is
// rejected into the run log and skipped.
func (l *Loader) Load(path string, runLog *apperrors.RunLog) ([]Row, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInputNotFound.Code, fmt.Sprintf("open %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1 // tolerate short rows, missing cells read as empty

	header, err := reader.Read()
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrHeaderMismatch.Code, "read header row", err)
	}

	cols, err := mapHeader(header)
	if err != nil {
		return nil, err
	}

	var rows []Row
	rowNum := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			// A structurally broken line is a row-level problem, not fatal.
			rowNum++
			runLog.RowsSeen++
			runLog.AddReject(rowNum, apperrors.RejectMissingRequired, fmt.Sprintf("unreadable row: %v", err))
			continue
		}
		rowNum++
		runLog.RowsSeen++

		row, reason, detail := l.parseRow(rowNum, record, cols)
		if reason != "" {
			runLog.AddReject(rowNum, reason, detail)
			continue
		}
		rows = append(rows, row)
	}

	l.logger.Info("dataset loaded",
		"path", path,
		"rows_seen", runLog.RowsSeen,
		"rows_parsed", len(rows),
		"rows_rejected", runLog.RejectCount())

	return rows, nil
}

// mapHeader builds a case-insensitive column index and verifies every
// required column is present.
func mapHeader(header []string) (map[string]int, error) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[strings.ToLower(name)]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.Wrap(apperrors.ErrHeaderMismatch.Code,
			fmt.Sprintf("missing required columns: %s", strings.Join(missing, ", ")), nil)
	}
	return cols, nil
}

// parseRow coerces one record into a typed Row. reason is empty on success.
func (l *Loader) parseRow(num int, record []string, cols map[string]int) (Row, apperrors.RejectReason, string) {
	get := func(name string) string {
		i, ok := cols[strings.ToLower(name)]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	for _, name := range requiredColumns {
		if get(name) == "" {
			return Row{}, apperrors.RejectMissingRequired, name
		}
	}

	year, err := strconv.Atoi(get(ColFundingYear))
	if err != nil {
		return Row{}, apperrors.RejectMissingRequired, fmt.Sprintf("%s: %q", ColFundingYear, get(ColFundingYear))
	}

	budget, err := parseCurrency(get(ColApprovedBudget))
	if err != nil {
		return Row{}, apperrors.RejectNonNumericCurrency, fmt.Sprintf("%s: %q", ColApprovedBudget, get(ColApprovedBudget))
	}
	cost, err := parseCurrency(get(ColContractCost))
	if err != nil {
		return Row{}, apperrors.RejectNonNumericCurrency, fmt.Sprintf("%s: %q", ColContractCost, get(ColContractCost))
	}

	start, err := parseDate(get(ColStartDate))
	if err != nil {
		return Row{}, apperrors.RejectMalformedDate, fmt.Sprintf("%s: %q", ColStartDate, get(ColStartDate))
	}
	completion, err := parseDate(get(ColCompletionDate))
	if err != nil {
		return Row{}, apperrors.RejectMalformedDate, fmt.Sprintf("%s: %q", ColCompletionDate, get(ColCompletionDate))
	}

	row := Row{
		Num: num,
		Project: domain.Project{
			ProjectID:                 get(ColProjectID),
			ContractID:                get(ColContractID),
			Region:                    get(ColRegion),
			MainIsland:                get(ColMainIsland),
			Province:                  get(ColProvince),
			Contractor:                get(ColContractor),
			TypeOfWork:                get(ColTypeOfWork),
			FundingYear:               year,
			ApprovedBudgetForContract: budget,
			ContractCost:              cost,
			StartDate:                 start,
			ActualCompletionDate:      completion,
		},
	}

	// Coordinates are optional at load time; an unparseable value is treated
	// as missing and left to the imputation pass.
	if lat, err := strconv.ParseFloat(strings.ReplaceAll(get(ColLatitude), ",", ""), 64); err == nil {
		row.Project.Latitude = lat
		row.HasLat = true
	}
	if lon, err := strconv.ParseFloat(strings.ReplaceAll(get(ColLongitude), ",", ""), 64); err == nil {
		row.Project.Longitude = lon
		row.HasLon = true
	}

	return row, "", ""
}

// parseCurrency parses a currency amount, stripping thousands separators.
// Negative amounts are invalid for budget and cost fields.
func parseCurrency(s string) (float64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	v, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("parse currency %q: %w", s, err)
	}
	if v < 0 {
		return 0, fmt.Errorf("negative currency amount %q", s)
	}
	return v, nil
}

// parseDate tries each accepted date format in priority order.
func parseDate(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	for _, format := range dateFormats {
		if d, err := time.Parse(format, trimmed); err == nil {
			return d, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
