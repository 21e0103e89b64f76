package common

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// SimpleTimeFormat a common, but non-implemented time format in golang
const SimpleTimeFormat = "2006-01-02 15:04:05"

// Vars for common.go operations
var (
	// ErrNilPointer defines an error for a nil pointer
	ErrNilPointer = errors.New("nil pointer")
	// ErrDateUnset is an error for start end check calculations
	ErrDateUnset = errors.New("date unset")
	// ErrStartAfterEnd is returned when the start time is after the end time
	ErrStartAfterEnd = errors.New("start date after end date")
	// ErrStartEqualsEnd is returned when the start time equals the end time
	ErrStartEqualsEnd = errors.New("start date equals end date")
	// ErrNotYetImplemented defines a common error across the code base that
	// alerts of a function that has not been completed or tied into main code
	ErrNotYetImplemented = errors.New("not yet implemented")
)

// Errors defines multiple errors
type Errors []error

// Error implements error interface
func (e Errors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var r strings.Builder
	for x := range e {
		r.WriteString(e[x].Error())
		if x < len(e)-1 {
			r.WriteString(", ")
		}
	}
	return r.String()
}

// Unwrap implements interface behaviour for errors.Is() matching
func (e Errors) Unwrap() []error {
	return e
}

// AppendError appends error in a more idiomatic way. This can start out as a
// standard error e.g. err := errors.New("random error")
// err = AppendError(err, errors.New("another random error"))
func AppendError(original, incoming error) error {
	if incoming == nil {
		return original
	}
	if original == nil {
		return incoming
	}
	var errs Errors
	if errors.As(original, &errs) {
		return append(errs, incoming)
	}
	return Errors{original, incoming}
}

// StartEndTimeCheck provides some basic checks which occur frequently in the
// codebase
func StartEndTimeCheck(start, end time.Time) error {
	if start.IsZero() {
		return fmt.Errorf("start %w", ErrDateUnset)
	}
	if end.IsZero() {
		return fmt.Errorf("end %w", ErrDateUnset)
	}
	if start.After(end) {
		return ErrStartAfterEnd
	}
	if start.Equal(end) {
		return ErrStartEqualsEnd
	}
	return nil
}
