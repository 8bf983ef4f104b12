// Package common provides error values shared across the pipeline.
package common

import (
	"errors"
	"fmt"
)

// Pipeline errors.
var (
	// ErrMissingSource is returned when the sales input file does not exist.
	// It is the only error that aborts a run.
	ErrMissingSource = errors.New("sales input file not found")

	// ErrCatalogUnavailable wraps every catalog fetch failure. Callers
	// degrade to an empty catalog when they see it.
	ErrCatalogUnavailable = errors.New("product catalog unavailable")

	// ErrInvalidConfig is returned when the configuration fails validation.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
	Hint        string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error with an optional hint.
func NewUserError(userMessage, hint string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Hint:        hint,
		Err:         err,
	}
}

// HintFor returns the hint attached to err, if any.
func HintFor(err error) string {
	var userErr *UserError
	if errors.As(err, &userErr) {
		return userErr.Hint
	}
	return ""
}
