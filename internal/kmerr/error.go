package kmerr

import (
	"errors"
	"fmt"
)

// Category represents the subsystem an error belongs to.
type Category string

const (
	CategoryAuth    Category = "auth"
	CategoryStorage Category = "storage"
	CategoryFeed    Category = "feed"
	CategoryAPI     Category = "api"
	CategoryConfig  Category = "config"
)

// Error is a structured error with a stable code, detail, and suggestion.
type Error struct {
	// Code is a unique error identifier (e.g., "KM1002").
	Code string

	// Category is the subsystem the error belongs to.
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Code != "" {
		if e.Wrapped != nil {
			return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Wrapped)
		}
		return fmt.Sprintf("%s: %s", e.Code, e.Message)
	}
	return e.Message
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same code. It lets sentinel
// instances created by New match wrapped copies of themselves.
func (e *Error) Is(target error) bool {
	var ke *Error
	if errors.As(target, &ke) {
		return ke.Code != "" && ke.Code == e.Code
	}
	return false
}

// WithSuggestion adds a fix suggestion to the error.
func (e *Error) WithSuggestion(s string) *Error {
	e.Suggestion = s
	return e
}

// WithDetail adds a detailed explanation to the error.
func (e *Error) WithDetail(d string) *Error {
	e.Detail = d
	return e
}

// Wrap wraps another error.
func (e *Error) Wrap(err error) *Error {
	e.Wrapped = err
	return e
}

// New creates an Error from a registered error code.
func New(code string) *Error {
	template, ok := registry[code]
	if !ok {
		return &Error{
			Code:    code,
			Message: "Unknown error",
		}
	}
	return &Error{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates a new Error with a formatted message (no code).
func Newf(category Category, format string, args ...any) *Error {
	return &Error{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError wraps a standard error under a registered code.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	var ke *Error
	if errors.As(err, &ke) {
		return ke
	}
	return New(code).Wrap(err)
}
