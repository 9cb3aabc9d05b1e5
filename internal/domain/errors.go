package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrMarkerNotFound means the unit-of-measurement marker is missing from a report.
	ErrMarkerNotFound = errors.New("marker row not found")
	// ErrLayoutMismatch means the header band does not have the expected columns.
	ErrLayoutMismatch = errors.New("unexpected report layout")
)

// ParseError is a per-file normalization failure caused by an upstream layout change.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RecordError rejects a row that cannot become a TradingResult.
type RecordError struct {
	ID     int64
	Field  string
	Reason string
}

func (e *RecordError) Error() string {
	if e.ID > 0 {
		return fmt.Sprintf("row %d: %s %s", e.ID, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// ValidationError rejects caller-supplied query parameters before any I/O.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err carries a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}
