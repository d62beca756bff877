package mediaplan

import (
	"fmt"

	"github.com/rotisserie/eris"
)

// ErrNoRegions indicates a sheet in which no data region was detected.
var ErrNoRegions = eris.New("no data regions found")

// ErrPanic wraps a recovered panic inside a region or sheet.
var ErrPanic = eris.New("recovered panic")

// ErrNoRFRows indicates a reach & frequency table whose reshape produced
// no rows; the table is kept as extracted.
var ErrNoRFRows = eris.New("reach & frequency reshape produced no rows")

// ErrUnmappedHeaders indicates region headers that matched no canonical
// field; their columns are kept with an _UNMAPPED suffix.
var ErrUnmappedHeaders = eris.New("headers matched no canonical field")

// ErrorKind classifies a ProcessingError.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindDetection     ErrorKind = "detection"
	KindExtraction    ErrorKind = "extraction"
	KindMapping       ErrorKind = "mapping"
	KindNormalization ErrorKind = "normalization"
	KindValidation    ErrorKind = "validation"
	KindFatal         ErrorKind = "fatal"
)

// ProcessingError is a failure confined to one workbook, sheet or region.
type ProcessingError struct {
	File      string
	Sheet     string
	Component string // "workbook", "sheet", "region", "dedup", "config"
	// Region is the region index, or -1 when the error is not region-bound.
	Region int
	Kind   ErrorKind
	Err    error
}

func (e *ProcessingError) Error() string {
	where := e.File
	if e.Sheet != "" {
		where += fmt.Sprintf(" sheet %q", e.Sheet)
	}
	if e.Region >= 0 {
		where += fmt.Sprintf(" region %d", e.Region)
	}
	return fmt.Sprintf("%s error in %s (%s): %v", e.Kind, where, e.Component, e.Err)
}

func (e *ProcessingError) Unwrap() error {
	return e.Err
}

// NewProcessingError creates a new ProcessingError not bound to a region.
func NewProcessingError(file, sheet, component string, kind ErrorKind, err error) *ProcessingError {
	return &ProcessingError{
		File:      file,
		Sheet:     sheet,
		Component: component,
		Region:    -1,
		Kind:      kind,
		Err:       err,
	}
}

// ValidationError reports a broken row-count invariant. It is recorded,
// never raised.
type ValidationError struct {
	Sheet  string
	Check  string
	Before int
	After  int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s check failed for sheet %q: %d rows before, %d after", e.Check, e.Sheet, e.Before, e.After)
}
