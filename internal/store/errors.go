package store

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel errors for errors.Is checks against the typed errors below.
var (
	ErrRead   = errors.New("log store read failed")
	ErrWrite  = errors.New("log store write failed")
	ErrSchema = errors.New("worksheet schema mismatch")

	// ErrWorksheetNotFound is wrapped by a *ReadError when a worksheet does
	// not exist in the backing store.
	ErrWorksheetNotFound = errors.New("worksheet not found")
)

// ReadError is a failure to read a worksheet: connectivity, missing
// worksheet or an unreadable payload.
type ReadError struct {
	Worksheet string
	Err       error
}

// Error implements the error interface
func (e *ReadError) Error() string {
	return fmt.Sprintf("read worksheet %q: %v", e.Worksheet, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *ReadError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *ReadError) Is(target error) bool {
	return target == ErrRead
}

// WriteError is a failed append. Row is the row that was not written.
type WriteError struct {
	Worksheet string
	Row       []string
	Err       error
}

// Error implements the error interface
func (e *WriteError) Error() string {
	return fmt.Sprintf("append to worksheet %q failed for row [%s]: %v", e.Worksheet, strings.Join(e.Row, ", "), e.Err)
}

// Unwrap implements errors.Unwrap
func (e *WriteError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *WriteError) Is(target error) bool {
	return target == ErrWrite
}

// SchemaError reports a worksheet header that does not match expectations.
type SchemaError struct {
	Worksheet string
	Expected  []string
	Found     []string
	Missing   []string
}

// Error implements the error interface
func (e *SchemaError) Error() string {
	if len(e.Missing) > 0 {
		return fmt.Sprintf("worksheet %q is missing columns [%s]; expected [%s], found [%s]",
			e.Worksheet, strings.Join(e.Missing, ", "), strings.Join(e.Expected, ", "), strings.Join(e.Found, ", "))
	}
	return fmt.Sprintf("worksheet %q header mismatch; expected [%s], found [%s]",
		e.Worksheet, strings.Join(e.Expected, ", "), strings.Join(e.Found, ", "))
}

// Is implements errors.Is support
func (e *SchemaError) Is(target error) bool {
	return target == ErrSchema
}

func readErr(ws Worksheet, err error) error {
	var schema *SchemaError
	if errors.As(err, &schema) {
		return err
	}
	return &ReadError{Worksheet: ws.Title, Err: err}
}

func writeErr(ws Worksheet, row []string, err error) error {
	var we *WriteError
	if errors.As(err, &we) {
		return err
	}
	return &WriteError{Worksheet: ws.Title, Row: row, Err: err}
}
