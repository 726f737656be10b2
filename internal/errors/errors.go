package errors

import (
	"errors"
	"fmt"
)

// Standard application errors
var (
	ErrEmptyInput      = errors.New("input is empty or contains only whitespace")
	ErrFileNotFound    = errors.New("file not found")
	ErrInvalidFilePath = errors.New("invalid file path")
	ErrInvalidToken    = errors.New("invalid JSON token")
	ErrUnexpectedToken = errors.New("unexpected token")
	ErrUnexpectedEOF   = errors.New("unexpected end of input")
	ErrDuplicateKey    = errors.New("duplicate key in object")
	ErrTrailingData    = errors.New("trailing data after the root JSON value, only one is allowed")
	ErrMaxDepth        = errors.New("maximum nesting depth exceeded")
)

// ErrorType categorizes errors
type ErrorType string

const (
	ErrorTypeInput   ErrorType = "input"
	ErrorTypeLexical ErrorType = "lexical"
	ErrorTypeGrammar ErrorType = "grammar"
	ErrorTypeConfig  ErrorType = "config"
	ErrorTypeOutput  ErrorType = "output"
	ErrorTypeUnknown ErrorType = "unknown"
)

// AppError is an application-specific error with context
type AppError struct {
	Type    ErrorType
	Message string
	Err     error
}

// Error implements error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Type, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *AppError of the same type.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Type == t.Type
}

// NewInputError creates a new error related to reading input
func NewInputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeInput,
		Message: message,
		Err:     err,
	}
}

// NewLexicalError creates a new error for byte sequences that are not valid JSON tokens
func NewLexicalError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeLexical,
		Message: message,
		Err:     err,
	}
}

// NewGrammarError creates a new error for token sequences that are not valid JSON
func NewGrammarError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeGrammar,
		Message: message,
		Err:     err,
	}
}

// NewConfigError creates a new error related to loading configuration
func NewConfigError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeConfig,
		Message: message,
		Err:     err,
	}
}

// NewOutputError creates a new error related to output processing
func NewOutputError(message string, err error) *AppError {
	return &AppError{
		Type:    ErrorTypeOutput,
		Message: message,
		Err:     err,
	}
}

// UserFriendlyError returns a single-line message suitable for stderr
func UserFriendlyError(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		switch appErr.Type {
		case ErrorTypeInput:
			return fmt.Sprintf("Input error: %s", withCause(appErr))
		case ErrorTypeLexical:
			return fmt.Sprintf("JSON lexical error: %s", withCause(appErr))
		case ErrorTypeGrammar:
			return fmt.Sprintf("JSON grammar error: %s", withCause(appErr))
		case ErrorTypeConfig:
			return fmt.Sprintf("Configuration error: %s", withCause(appErr))
		case ErrorTypeOutput:
			return fmt.Sprintf("Output error: %s", withCause(appErr))
		default:
			return fmt.Sprintf("Error: %s", appErr.Message)
		}
	}

	if errors.Is(err, ErrEmptyInput) {
		return "Error: The input is empty. Please provide a JSON document."
	}
	if errors.Is(err, ErrFileNotFound) {
		return "Error: The specified file could not be found. Please check the file path."
	}

	return fmt.Sprintf("Error: %v", err)
}

// withCause appends the wrapped error, the I/O cause of a failed open or the
// offending position of a syntax error, to the message.
func withCause(e *AppError) string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s (%v)", e.Message, e.Err)
}
