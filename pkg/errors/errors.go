package errors

import (
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"strings"
	"time"
)

// ErrorCode represents a unique error code for categorizing errors
type ErrorCode string

const (
	// Network errors (1xxx)
	ErrCodeRequestFailed  ErrorCode = "CN1001"
	ErrCodeResponseStatus ErrorCode = "CN1003"

	// Configuration errors (2xxx)
	ErrCodeConfigNotFound ErrorCode = "CN2001"
	ErrCodeConfigInvalid  ErrorCode = "CN2002"

	// Response data errors (3xxx)
	ErrCodeMissingField  ErrorCode = "CN3001"
	ErrCodeResultParsing ErrorCode = "CN3002"

	// File system errors (5xxx)
	ErrCodeFileOperation  ErrorCode = "CN5001"
	ErrCodeFilePermission ErrorCode = "CN5002"

	// Git errors (6xxx)
	ErrCodeGit ErrorCode = "CN6001"

	// System errors (9xxx)
	ErrCodeInternal  ErrorCode = "CN9001"
	ErrCodeUserInput ErrorCode = "CN9002"
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity string

const (
	SeverityCritical ErrorSeverity = "CRITICAL"
	SeverityError    ErrorSeverity = "ERROR"
	SeverityWarning  ErrorSeverity = "WARNING"
)

// AppError represents a structured application error with context
type AppError struct {
	Code        ErrorCode
	Message     string
	Severity    ErrorSeverity
	Context     map[string]interface{}
	Cause       error
	Stack       string
	Timestamp   time.Time
	Suggestions []string
}

// Error implements the error interface
func (e *AppError) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("[%s] %s: %s", e.Code, e.Severity, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf("\nCaused by: %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\nSuggestions:")
		for i, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  %d. %s", i+1, suggestion))
		}
	}

	return b.String()
}

// Unwrap returns the cause of the error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an AppError with the same code
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:      code,
		Message:   message,
		Severity:  SeverityError,
		Context:   make(map[string]interface{}),
		Stack:     captureStack(),
		Timestamp: time.Now(),
	}
}

// Wrap wraps an existing error with AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}

	appErr := New(code, message)
	appErr.Cause = err

	var inner *AppError
	if errors.As(err, &inner) {
		for k, v := range inner.Context {
			appErr.Context[k] = v
		}
	}

	return appErr
}

// WithContext adds context to the error
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

// WithSeverity sets the error severity
func (e *AppError) WithSeverity(severity ErrorSeverity) *AppError {
	e.Severity = severity
	return e
}

// WithSuggestions adds recovery suggestions
func (e *AppError) WithSuggestions(suggestions ...string) *AppError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

func captureStack() string {
	const depth = 32
	var pcs [depth]uintptr
	n := runtime.Callers(3, pcs[:])

	var b strings.Builder
	frames := runtime.CallersFrames(pcs[:n])

	for {
		frame, more := frames.Next()
		if !strings.Contains(frame.File, "runtime/") {
			b.WriteString(fmt.Sprintf("%s:%d %s\n", frame.File, frame.Line, frame.Function))
		}
		if !more {
			break
		}
	}

	return b.String()
}

// Common error constructors

// NetworkError creates an error for a request that never produced a response
func NetworkError(message string, cause error) *AppError {
	err := Wrap(cause, ErrCodeRequestFailed, message)
	if err == nil {
		err = New(ErrCodeRequestFailed, message)
	}
	return err.WithSuggestions(
		"Check your network connection",
		"Verify the GitHub API URL is reachable",
	)
}

// StatusError creates an error for a non-2xx HTTP response
func StatusError(url string, status int, body string) *AppError {
	err := New(ErrCodeResponseStatus, fmt.Sprintf("GET %s returned HTTP %d", url, status)).
		WithContext("url", url).
		WithContext("status", status)
	if body != "" {
		_ = err.WithContext("body", truncateString(body, 200))
	}

	switch status {
	case 403, 429:
		_ = err.WithSuggestions(
			"The unauthenticated GitHub rate limit may be exhausted",
			"Wait for the rate limit window to reset and run again",
		)
	case 404:
		_ = err.WithSuggestions(
			"Check the 'github.org' and 'github.repo' configuration values",
		)
	}
	return err
}

// MissingFieldError reports a commit entry lacking an expected field
func MissingFieldError(field string, index int) *AppError {
	return New(ErrCodeMissingField, fmt.Sprintf("commit entry %d is missing field %q", index, field)).
		WithContext("field", field).
		WithContext("index", index)
}

// ParseError reports a response body that could not be decoded
func ParseError(message string, cause error) *AppError {
	err := Wrap(cause, ErrCodeResultParsing, message)
	if err == nil {
		err = New(ErrCodeResultParsing, message)
	}
	return err
}

// FilesystemError reports a failed file operation on path
func FilesystemError(op, path string, cause error) *AppError {
	code := ErrCodeFileOperation
	if errors.Is(cause, fs.ErrPermission) {
		code = ErrCodeFilePermission
	}
	err := Wrap(cause, code, fmt.Sprintf("failed to %s %s", op, path))
	if err == nil {
		err = New(code, fmt.Sprintf("failed to %s %s", op, path))
	}
	return err.
		WithContext("op", op).
		WithContext("path", path)
}

// ConfigError creates a configuration-related error
func ConfigError(message string, field string) *AppError {
	return New(ErrCodeConfigInvalid, message).
		WithContext("field", field).
		WithSuggestions(
			fmt.Sprintf("Check the '%s' configuration value", field),
			"Run 'commitnotes init' to write a fresh configuration",
		)
}

// GetErrorCode extracts the error code from an error
func GetErrorCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrCodeInternal
}

func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
