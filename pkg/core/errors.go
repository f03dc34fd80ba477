package core

import (
	"errors"
	"fmt"
)

// Common errors.
var (
	ErrInvalidName       = errors.New("meal name cannot be empty")
	ErrInvalidRating     = errors.New("meal rating must be between 0 and 5")
	ErrInvalidMeal       = errors.New("meal was not built with NewMeal")
	ErrIndexOutOfRange   = errors.New("index out of range")
	ErrNoSavedState      = errors.New("no saved meals")
	ErrReadOnly          = errors.New("repository is in read-only mode")
	ErrUnsupportedFormat = errors.New("unsupported format")
)

// ValidationError reports which field rejected a Meal construction.
// It unwraps to ErrInvalidName or ErrInvalidRating.
type ValidationError struct {
	Field string
	Value any
	Err   error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %#v: %v", e.Field, e.Value, e.Err)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IndexError reports an index that does not address an existing meal.
// It unwraps to ErrIndexOutOfRange.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%v: %d (len %d)", ErrIndexOutOfRange, e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }
