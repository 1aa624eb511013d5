// Package errors defines the error taxonomy for a pipeline run.
//
// FATAL errors abort the run before any output file is written. Row-level
// rejects and computation notes never abort: they are accumulated into a
// RunLog that is surfaced alongside the output files.
package errors

import (
	"fmt"
)

// RunError represents a fatal, run-aborting error with a stable code.
type RunError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

// Error implements the error interface.
func (e *RunError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *RunError) Unwrap() error {
	return e.Err
}

// New creates a fatal RunError with the given code and message.
func New(code, message string) *RunError {
	return &RunError{Code: code, Message: message}
}

// Wrap creates a fatal RunError wrapping an underlying cause.
func Wrap(code, message string, err error) *RunError {
	return &RunError{Code: code, Message: message, Err: err}
}

// Predefined fatal conditions. Everything else is row-level.
var (
	ErrInputNotFound  = New("INPUT_NOT_FOUND", "input dataset file not found or unreadable")
	ErrHeaderMismatch = New("HEADER_MISMATCH", "input header row missing required columns")
	ErrEmptyDataset   = New("EMPTY_DATASET", "no usable rows survived cleaning")
)

// RejectReason is the stable code attached to a dropped row.
type RejectReason string

const (
	RejectMalformedDate      RejectReason = "MALFORMED_DATE"
	RejectMissingRequired    RejectReason = "MISSING_REQUIRED_FIELD"
	RejectNonNumericCurrency RejectReason = "NON_NUMERIC_CURRENCY"
	RejectYearOutOfRange     RejectReason = "YEAR_OUT_OF_RANGE"
	RejectNoCoordinateBasis  RejectReason = "NO_COORDINATE_BASIS"
)

// Reject records one dropped row: its 1-based data row number (header row
// excluded), the reason code, and a short human-readable detail.
type Reject struct {
	Row    int          `json:"row"`
	Reason RejectReason `json:"reason"`
	Detail string       `json:"detail,omitempty"`
}
