// Package animerr defines the two error kinds reported by the timeline engine.
package animerr

import (
	"errors"
	"fmt"
)

var (
	// ErrState reports an operation that is invalid for the model's lifecycle phase.
	ErrState = errors.New("invalid state")
	// ErrValidation reports bad input: unknown kinds, duplicate names, temporal conflicts.
	ErrValidation = errors.New("validation failed")
)

// RangeError reports a numeric field outside its permitted range.
type RangeError struct {
	Field string
	Value int
	Min   int
	Max   int // zero means unbounded
}

func (e *RangeError) Error() string {
	if e.Max == 0 {
		return fmt.Sprintf("%s must be %d or greater, got %d", e.Field, e.Min, e.Value)
	}
	return fmt.Sprintf("%s out of range [%d,%d], got %d", e.Field, e.Min, e.Max, e.Value)
}

// Unwrap lets errors.Is(err, ErrValidation) match range failures.
func (e *RangeError) Unwrap() error {
	return ErrValidation
}

// Statef builds an ErrState with a formatted message.
func Statef(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrState, fmt.Sprintf(format, args...))
}

// Invalidf builds an ErrValidation with a formatted message.
func Invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
