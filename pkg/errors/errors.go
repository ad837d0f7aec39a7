// Package errors defines the sentinel errors shared across the engine and a
// wrapper type that attaches a human-readable message to a sentinel.
package errors

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidArgument marks caller mistakes: empty document ids, missing
	// content, non-sensical search options.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrInvalidConfig marks configuration that cannot be repaired by
	// normalization, such as scorer weights outside [0,1].
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrDocumentNotFound is returned when an operation references an id
	// that is not in the index.
	ErrDocumentNotFound = errors.New("document not found")
)

type AppError struct {
	Err     error
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Err.Error(), e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(sentinel error, message string) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: message,
	}
}

func Newf(sentinel error, format string, args ...any) *AppError {
	return &AppError{
		Err:     sentinel,
		Message: fmt.Sprintf(format, args...),
	}
}
