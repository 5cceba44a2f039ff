package errors

import (
	stderrors "errors"
	"fmt"
	"runtime"
	"sort"
	"strings"
)

// ErrorType represents the category of error
type ErrorType int

const (
	// Configuration errors - missing or invalid configuration
	ErrorTypeConfig ErrorType = iota
	// Validation errors - invalid command input
	ErrorTypeValidation
	// Dataset errors - a layer file exists but cannot be decoded
	ErrorTypeDataset
	// Network errors - network connectivity issues
	ErrorTypeNetwork
	// FileSystem errors - file I/O failures
	ErrorTypeFileSystem
	// External errors - GitHub API or broker failures
	ErrorTypeExternal
	// Internal errors - unexpected internal state
	ErrorTypeInternal
)

// Severity represents how critical an error is
type Severity int

const (
	// SeverityLow - can continue with degraded output
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	// SeverityCritical - stops the run
	SeverityCritical
)

// Error is a categorized error carrying the layer, file or repo it concerns
type Error struct {
	Type       ErrorType
	Severity   Severity
	Message    string
	Cause      error
	Context    map[string]interface{}
	StackTrace string
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// WithContext adds context to the error
func (e *Error) WithContext(key string, value interface{}) *Error {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// Is matches any *Error of the same type
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// IsFatal returns true if this error should stop the run
func (e *Error) IsFatal() bool {
	return e.Severity == SeverityCritical
}

// DetailedString renders the error with its context, sorted by key
func (e *Error) DetailedString() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "[%s] [%s] %s\n", e.Severity, e.Type, e.Message)
	if e.Cause != nil {
		fmt.Fprintf(&sb, "Caused by: %v\n", e.Cause)
	}

	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		sb.WriteString("Context:\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "  %s: %v\n", k, e.Context[k])
		}
	}

	if e.StackTrace != "" {
		fmt.Fprintf(&sb, "Stack trace:\n%s\n", e.StackTrace)
	}
	return sb.String()
}

func (t ErrorType) String() string {
	switch t {
	case ErrorTypeConfig:
		return "CONFIG"
	case ErrorTypeValidation:
		return "VALIDATION"
	case ErrorTypeDataset:
		return "DATASET"
	case ErrorTypeNetwork:
		return "NETWORK"
	case ErrorTypeFileSystem:
		return "FILESYSTEM"
	case ErrorTypeExternal:
		return "EXTERNAL"
	case ErrorTypeInternal:
		return "INTERNAL"
	default:
		return "UNKNOWN"
	}
}

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "LOW"
	case SeverityMedium:
		return "MEDIUM"
	case SeverityHigh:
		return "HIGH"
	case SeverityCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

func captureStackTrace(skip int) string {
	var sb strings.Builder
	for i := skip; i < skip+8; i++ {
		pc, file, line, ok := runtime.Caller(i)
		if !ok {
			break
		}
		fn := runtime.FuncForPC(pc)
		if fn == nil {
			break
		}
		fmt.Fprintf(&sb, "  %s:%d %s\n", file, line, fn.Name())
	}
	return sb.String()
}

// New creates a new error with the given type, severity, and message
func New(errType ErrorType, severity Severity, message string) *Error {
	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		StackTrace: captureStackTrace(3),
	}
}

// Wrap wraps err; a nil err yields nil
func Wrap(err error, errType ErrorType, severity Severity, message string) *Error {
	if err == nil {
		return nil
	}
	return &Error{
		Type:       errType,
		Severity:   severity,
		Message:    message,
		Cause:      err,
		StackTrace: captureStackTrace(3),
	}
}

// ConfigErrorf creates a configuration error with formatting
func ConfigErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeConfig, SeverityCritical, fmt.Sprintf(format, args...))
}

// ValidationErrorf creates a validation error with formatting
func ValidationErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeValidation, SeverityHigh, fmt.Sprintf(format, args...))
}

// DatasetErrorf wraps a decode failure of a layer file
func DatasetErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeDataset, SeverityHigh, fmt.Sprintf(format, args...))
}

// NetworkErrorf wraps a network error with formatting
func NetworkErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeNetwork, SeverityHigh, fmt.Sprintf(format, args...))
}

// FileSystemErrorf wraps a filesystem error with formatting
func FileSystemErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeFileSystem, SeverityHigh, fmt.Sprintf(format, args...))
}

// ExternalErrorf wraps a GitHub or broker error. Medium: extraction degrades
// to partial results instead of stopping.
func ExternalErrorf(err error, format string, args ...interface{}) *Error {
	return Wrap(err, ErrorTypeExternal, SeverityMedium, fmt.Sprintf(format, args...))
}

// InternalErrorf creates an internal error with formatting
func InternalErrorf(format string, args ...interface{}) *Error {
	return New(ErrorTypeInternal, SeverityCritical, fmt.Sprintf(format, args...))
}

// IsFatal checks if an error is fatal anywhere in its chain
func IsFatal(err error) bool {
	var e *Error
	if stderrors.As(err, &e) {
		return e.IsFatal()
	}
	return false
}

// GetType returns the type of the first *Error in the chain
func GetType(err error) ErrorType {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Type
	}
	return ErrorTypeInternal
}
