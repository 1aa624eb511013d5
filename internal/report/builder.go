// Package report builds the three statistical reports and the summary
// digest from the cleaned project set.
//
// Each builder is a pure pass over the cleaned slice: it never mutates the
// input, accumulates in the slice's stable order, and defers all rounding to
// the exporter. Two-pass computations (score normalization, year-over-year
// deltas) materialize their intermediate group aggregates explicitly so each
// pass can be tested on its own.
package report

import (
	"log/slog"

	apperrors "floodctl/internal/errors"
)

// Builder constructs report rows from cleaned projects. Computation-level
// notes (degenerate divisions resolved by policy) go to the run log.
type Builder struct {
	logger *slog.Logger
	runLog *apperrors.RunLog
}

// NewBuilder creates a report builder. A nil logger falls back to
// slog.Default().
func NewBuilder(logger *slog.Logger, runLog *apperrors.RunLog) *Builder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Builder{logger: logger, runLog: runLog}
}

// HighDelayThresholdDays is the delay above which a project counts toward a
// group's high-delay percentage.
const HighDelayThresholdDays = 30.0
