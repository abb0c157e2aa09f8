// Package sferrors provides structured error handling for seriesflow with rich
// context, stack traces, and error categorization. It enables consistent error
// handling patterns across the entire codebase.
//
// # Overview
//
// The sferrors package extends Go's standard error handling with:
//   - Error categorization through ErrorType
//   - Domain error kinds through Kind (e.g. KindFrequencyMismatch)
//   - Structured context with key-value details
//   - Automatic stack trace capture
//   - Error wrapping with cause preservation
//
// # Basic Usage
//
//	// Create a new error
//	err := sferrors.New(sferrors.ErrorTypeData, "irregular timestamps")
//
//	// Add context
//	err = err.WithKind(sferrors.KindIrregularTimestamps).
//	    WithDetail("series", "A").
//	    WithDetail("row", 17)
//
//	// Wrap existing errors
//	if err := loadTable(path); err != nil {
//	    return sferrors.Wrap(err, sferrors.ErrorTypeConfig, "failed to load table").
//	        WithDetail("path", path)
//	}
//
// # Error Types and Kinds
//
// ErrorType separates the three failure tiers of the adaptation layer:
// configuration errors (fail fast at construction), data-quality errors
// (raised while normalizing a specific series), and structural errors
// (duplicate keys, empty sources). Kind identifies the precise domain
// condition so callers can branch with IsKind without string matching.
//
// # Thread Safety
//
// Error instances are not thread-safe for modification. Create new
// instances or use WithDetail before sharing across goroutines.
package sferrors

import (
	"errors"
	"fmt"
	"runtime"
)

// ErrorType represents the category of error, used for error handling
// strategies, monitoring, and reporting.
type ErrorType string

const (
	// ErrorTypeInternal represents internal system errors
	ErrorTypeInternal ErrorType = "internal"
	// ErrorTypeConfig represents configuration errors (missing or misnamed
	// columns, ambiguous identifiers); surfaced at adapter construction
	ErrorTypeConfig ErrorType = "config"
	// ErrorTypeData represents data-quality errors raised while normalizing
	// a specific series
	ErrorTypeData ErrorType = "data"
	// ErrorTypeStructural represents structural errors of the source as a
	// whole (duplicate keys, empty sources)
	ErrorTypeStructural ErrorType = "structural"
	// ErrorTypeFile represents file operation errors
	ErrorTypeFile ErrorType = "file"
)

// Kind identifies a precise domain error condition. Kinds are orthogonal to
// ErrorType: every Kind implies one ErrorType, but generic errors carry no
// Kind at all.
type Kind string

const (
	// KindMissingTargetColumn indicates the configured target column is
	// absent from a raw table
	KindMissingTargetColumn Kind = "missing_target_column"
	// KindUnsortedTimestamps indicates the timestamp column is not
	// monotonically increasing
	KindUnsortedTimestamps Kind = "unsorted_timestamps"
	// KindIrregularTimestamps indicates timestamps that do not land exactly
	// on the resolved frequency grid (duplicates or gaps)
	KindIrregularTimestamps Kind = "irregular_timestamps"
	// KindNonConstantStaticFeature indicates a static feature column whose
	// value varies within one series
	KindNonConstantStaticFeature Kind = "non_constant_static_feature"
	// KindFrequencyMismatch indicates regularly spaced timestamps that are
	// inconsistent with an explicitly configured frequency
	KindFrequencyMismatch Kind = "frequency_mismatch"
	// KindFrequencyInference indicates the frequency could not be inferred
	// from the timestamp spacing
	KindFrequencyInference Kind = "frequency_inference"
	// KindDuplicateSeriesKey indicates two groups or elements of a source
	// resolved to the same series key
	KindDuplicateSeriesKey Kind = "duplicate_series_key"
	// KindEmptySource indicates a source containing zero series
	KindEmptySource Kind = "empty_source"
	// KindEmptySeries indicates a series backed by a zero-row table
	KindEmptySeries Kind = "empty_series"
	// KindAmbiguousIdentifier indicates an identifier column with multiple
	// values on a path that requires a single series
	KindAmbiguousIdentifier Kind = "ambiguous_identifier"
	// KindLengthMismatch indicates a dynamic feature column whose length
	// differs from the target length
	KindLengthMismatch Kind = "length_mismatch"
)

// Error represents a structured error with context, providing rich debugging
// information and enabling precise error handling.
//
// Fields:
//   - Type: Categorizes the error for handling strategies
//   - Kind: Identifies the precise domain condition, if any
//   - Message: Human-readable error description
//   - Cause: The underlying error that caused this error
//   - Details: Key-value pairs providing additional context
//   - Stack: Call stack at the point of error creation
type Error struct {
	Type    ErrorType
	Kind    Kind
	Message string
	Cause   error
	Details map[string]interface{}
	Stack   []StackFrame
}

// StackFrame represents a single frame in the call stack, capturing
// the function name, file path, and line number for debugging.
type StackFrame struct {
	Function string // Fully qualified function name
	File     string // Source file path
	Line     int    // Line number in source file
}

// Error implements the error interface, returning a formatted error message
// that includes the error type, kind, message, and cause (if present).
func (e *Error) Error() string {
	prefix := string(e.Type)
	if e.Kind != "" {
		prefix = fmt.Sprintf("%s/%s", e.Type, e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.Message)
}

// Unwrap returns the underlying error, enabling compatibility with errors.Is
// and errors.As for error chain inspection.
func (e *Error) Unwrap() error {
	return e.Cause
}

// WithKind tags the error with a precise domain kind. This method can be
// chained with WithDetail.
func (e *Error) WithKind(kind Kind) *Error {
	e.Kind = kind
	return e
}

// WithDetail adds a key-value detail to the error, providing additional
// context for debugging. This method can be chained for adding multiple
// details.
//
// Example:
//
//	err := sferrors.New(sferrors.ErrorTypeData, "static feature varies").
//	    WithKind(sferrors.KindNonConstantStaticFeature).
//	    WithDetail("column", "store_id").
//	    WithDetail("series", key)
func (e *Error) WithDetail(key string, value interface{}) *Error {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// New creates a new error with the given type and message, automatically
// capturing the call stack at the point of creation.
func New(errType ErrorType, message string) *Error {
	return &Error{
		Type:    errType,
		Message: message,
		Stack:   captureStack(2),
	}
}

// Newf creates a new error with a formatted message.
func Newf(errType ErrorType, format string, args ...interface{}) *Error {
	return &Error{
		Type:    errType,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(2),
	}
}

// Wrap wraps an existing error with additional context, preserving the
// original error as the cause. If the error is already a structured Error,
// its stack trace and kind are preserved. Returns nil if the input error is
// nil.
func Wrap(err error, errType ErrorType, message string) *Error {
	if err == nil {
		return nil
	}

	// If already our error type, preserve the stack and kind
	var existingErr *Error
	if errors.As(err, &existingErr) {
		return &Error{
			Type:    errType,
			Kind:    existingErr.Kind,
			Message: message,
			Cause:   err,
			Stack:   existingErr.Stack,
		}
	}

	return &Error{
		Type:    errType,
		Message: message,
		Cause:   err,
		Stack:   captureStack(2),
	}
}

// IsType checks if the error is of the given type, useful for separating
// configuration failures from data-quality failures.
func IsType(err error, errType ErrorType) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Type == errType
}

// IsKind checks if the error carries the given domain kind anywhere in its
// chain.
//
// Example:
//
//	if sferrors.IsKind(err, sferrors.KindFrequencyMismatch) {
//	    // the configured frequency disagrees with the observed spacing
//	}
func IsKind(err error, kind Kind) bool {
	var e *Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Kind == kind
}

// GetDetail returns a detail value from the error chain, or nil if absent.
func GetDetail(err error, key string) interface{} {
	var e *Error
	if !errors.As(err, &e) {
		return nil
	}
	if e.Details == nil {
		return nil
	}
	return e.Details[key]
}

// captureStack captures the current call stack up to maxFrames deep,
// skipping the specified number of frames from the top. This is used
// internally to record the call stack at error creation points.
func captureStack(skip int) []StackFrame {
	const maxFrames = 32
	frames := make([]StackFrame, 0, maxFrames)

	for i := skip; i < maxFrames+skip; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}

		fn := runtime.FuncForPC(pc)
		if fn == nil {
			continue
		}

		frames = append(frames, StackFrame{
			Function: fn.Name(),
			File:     file,
			Line:     line,
		})
	}

	return frames
}
