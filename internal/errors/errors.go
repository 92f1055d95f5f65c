// Package errors provides a lightweight structured error type (DistError)
// for category-based classification across the build pipeline and CLI.
package errors

import (
	"fmt"
)

// ErrorCategory represents the category of a distbuilder error for classification
type ErrorCategory string

const (
	// User-facing configuration and input errors
	CategoryConfig     ErrorCategory = "config"
	CategoryValidation ErrorCategory = "validation"

	// Build and processing errors
	CategoryParse      ErrorCategory = "parse"
	CategoryBuild      ErrorCategory = "build"
	CategoryFileSystem ErrorCategory = "filesystem"

	// External system integration errors
	CategoryNetwork ErrorCategory = "network"

	// Runtime and infrastructure errors
	CategoryInternal ErrorCategory = "internal"
)

// ErrorSeverity indicates how critical an error is
type ErrorSeverity string

const (
	SeverityFatal   ErrorSeverity = "fatal"   // Aborts the affected product's build
	SeverityError   ErrorSeverity = "error"   // Error, but not fatal
	SeverityWarning ErrorSeverity = "warning" // Continues with degraded output
)

// DistError is a structured error with category, severity, and context
type DistError struct {
	Category ErrorCategory `json:"category"`
	Severity ErrorSeverity `json:"severity"`
	Message  string        `json:"message"`
	Cause    error         `json:"cause,omitempty"`
	Context  ContextFields `json:"context,omitempty"`
}

// ContextFields carries structured context for DistError
type ContextFields map[string]any

// Error implements the error interface
func (e *DistError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s (%s): %s: %v", e.Category, e.Severity, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s (%s): %s", e.Category, e.Severity, e.Message)
}

// Unwrap implements error unwrapping for Go 1.13+ error handling
func (e *DistError) Unwrap() error {
	return e.Cause
}

// WithContext adds context information to the error
func (e *DistError) WithContext(key string, value any) *DistError {
	if e.Context == nil {
		e.Context = make(ContextFields)
	}
	e.Context[key] = value
	return e
}

// New creates a new DistError
func New(category ErrorCategory, severity ErrorSeverity, message string) *DistError {
	return &DistError{
		Category: category,
		Severity: severity,
		Message:  message,
	}
}

// Wrap creates a new DistError that wraps an existing error
func Wrap(err error, category ErrorCategory, severity ErrorSeverity, message string) *DistError {
	return &DistError{
		Category: category,
		Severity: severity,
		Message:  message,
		Cause:    err,
	}
}

// IsCategory checks if an error belongs to a specific category
func IsCategory(err error, category ErrorCategory) bool {
	if de, ok := err.(*DistError); ok {
		return de.Category == category
	}
	return false
}

// IsFatal reports whether an error should abort the affected product's build.
// Unclassified errors are treated as fatal.
func IsFatal(err error) bool {
	if de, ok := err.(*DistError); ok {
		return de.Severity == SeverityFatal
	}
	return true
}

// GetCategory extracts the category from an error, or returns CategoryInternal if not a DistError
func GetCategory(err error) ErrorCategory {
	if de, ok := err.(*DistError); ok {
		return de.Category
	}
	return CategoryInternal
}
