package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	ErrNotFound         = errors.New("resource not found")
	ErrRegionNotFound   = fmt.Errorf("%w: region", ErrNotFound)
	ErrHubNotFound      = fmt.Errorf("%w: hub", ErrNotFound)
	ErrSheetNotFound    = fmt.Errorf("%w: sheet", ErrNotFound)
	ErrColumnNotFound   = fmt.Errorf("%w: column", ErrNotFound)
	ErrSourceNotFound   = fmt.Errorf("%w: source file", ErrNotFound)
	ErrMissingReference = errors.New("missing hierarchy reference")
	ErrEmptyTable       = errors.New("table has no data rows")
	ErrUnsupportedType  = errors.New("unsupported file type")
	ErrPathOutsideRoot  = errors.New("path escapes data directory")
)

// MissingReferenceError is a row whose GRE, Polo or Escola could not be
// resolved. It matches ErrMissingReference with errors.Is.
type MissingReferenceError struct {
	Row    int
	Reason string
}

func (e *MissingReferenceError) Error() string {
	return fmt.Sprintf("%s: row %d: %s", ErrMissingReference, e.Row, e.Reason)
}

func (e *MissingReferenceError) Unwrap() error {
	return ErrMissingReference
}

// NewMissingReferenceError describes a row whose parent could not be resolved
func NewMissingReferenceError(row int, reason string) error {
	return &MissingReferenceError{Row: row, Reason: reason}
}

// NewColumnNotFoundError names the column a table lacks
func NewColumnNotFoundError(column string, source string) error {
	return fmt.Errorf("%w: %q in %s", ErrColumnNotFound, column, source)
}
