package measurement

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRecord reports a line that does not follow the grammar.
	ErrMalformedRecord = errors.New("malformed record")
	// ErrZeroID reports a record using the reserved id 0.
	ErrZeroID = errors.New("measurement id 0 is reserved")
	// ErrSelfDependency reports a record that lists its own id as a dependency.
	ErrSelfDependency = errors.New("measurement cannot depend on itself")
	// ErrInvalidHostCounts reports host class, bandwidth and connection lists of different lengths.
	ErrInvalidHostCounts = errors.New("host class, bandwidth and connection lists differ in length")
	// ErrInvalidBackgroundHost reports a background host with a forbidden configuration.
	ErrInvalidBackgroundHost = errors.New("invalid background host")
)

// RecordError ties a record-level failure to its position in the source.
type RecordError struct {
	// Line is the 1-based source line, or 0 when the record has no line.
	Line int
	Err  error
}

func (e *RecordError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return e.Err.Error()
}

func (e *RecordError) Unwrap() error {
	return e.Err
}
