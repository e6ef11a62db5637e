package errors

import (
	"fmt"
	"strings"
)

// Category represents the type of error.
type Category string

const (
	CategoryState      Category = "state"
	CategoryStructural Category = "structural"
	CategoryShape      Category = "shape"
	CategoryInternal   Category = "internal"
	CategoryTemplate   Category = "template"
	CategoryConfig     Category = "config"
	CategoryFixture    Category = "fixture"
	CategoryCLI        Category = "cli"
)

// Location is a position in scanned markup.
type Location struct {
	// Marker is the 1-based ordinal of the marker comment in scan order.
	Marker int `json:"marker"`

	// Path is the element path from the container to the marker's parent,
	// e.g. "div/ul/li".
	Path string `json:"path,omitempty"`
}

// String returns the location as a formatted string.
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Path != "" {
		return fmt.Sprintf("marker #%d (%s)", l.Marker, l.Path)
	}
	return fmt.Sprintf("marker #%d", l.Marker)
}

// Error is a structured error with a code, a markup location and a hint.
type Error struct {
	// Code is a unique error identifier (e.g., "E020").
	Code string

	// Category is the error type (structural, shape, etc.).
	Category Category

	// Message is a short description of the error.
	Message string

	// Detail is a longer explanation of the error.
	Detail string

	// Location is where in the markup the error was detected.
	Location *Location

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error, if any.
	Wrapped error
}

// Error implements the error interface.
func (e *Error) Error() string {
	var b strings.Builder
	if e.Code != "" {
		b.WriteString(e.Code)
		b.WriteString(": ")
	}
	b.WriteString(e.Message)
	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}
	if e.Wrapped != nil {
		b.WriteString(": ")
		b.WriteString(e.Wrapped.Error())
	}
	return b.String()
}

// Unwrap returns the wrapped error for errors.Is/As support.
func (e *Error) Unwrap() error {
	return e.Wrapped
}

// Is reports whether target carries the same code.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok || t.Code == "" {
		return false
	}
	return t.Code == e.Code
}

// WithLocation records where in the markup the error was detected.
func (e *Error) WithLocation(marker int, path string) *Error {
	e.Location = &Location{Marker: marker, Path: path}
	return e
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

// WithDetailf adds a formatted detail line to the error.
func (e *Error) WithDetailf(format string, args ...any) *Error {
	e.Detail = fmt.Sprintf(format, args...)
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

// FromError wraps a standard error in an Error.
func FromError(err error, code string) *Error {
	if err == nil {
		return nil
	}
	if he, ok := err.(*Error); ok {
		return he
	}
	return New(code).Wrap(err)
}

// CodeOf returns the code of the first Error in err's chain, or "".
func CodeOf(err error) string {
	for err != nil {
		if he, ok := err.(*Error); ok && he.Code != "" {
			return he.Code
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return ""
		}
		err = u.Unwrap()
	}
	return ""
}
