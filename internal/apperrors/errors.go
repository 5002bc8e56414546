// Package apperrors provides the error taxonomy shared by the feedback service
// and its client: every failure is an AppError carrying a stable code and a
// human-readable message that can be shown to the user verbatim.
package apperrors

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a class of failure.
type ErrorCode string

const (
	// ErrorCodeValidation indicates malformed or missing input
	ErrorCodeValidation ErrorCode = "VALIDATION_ERROR"
	// ErrorCodeAuth indicates a missing, expired or invalid token
	ErrorCodeAuth ErrorCode = "AUTH_ERROR"
	// ErrorCodeNotFound indicates an unknown id
	ErrorCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrorCodeNetwork indicates the request never reached or returned from the server
	ErrorCodeNetwork ErrorCode = "NETWORK_ERROR"
	// ErrorCodeImageLoad indicates the report logo could not be loaded
	ErrorCodeImageLoad ErrorCode = "IMAGE_LOAD_ERROR"
	// ErrorCodeConflict indicates a uniqueness violation
	ErrorCodeConflict ErrorCode = "CONFLICT"
	// ErrorCodeCancelled indicates the user declined a confirmation or prompt
	ErrorCodeCancelled ErrorCode = "CANCELLED"
	// ErrorCodeInternal indicates an unexpected server-side failure
	ErrorCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// AppError is a coded error with an optional cause.
type AppError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause error
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches any AppError with the same code.
func (e *AppError) Is(target error) bool {
	if appErr, ok := target.(*AppError); ok {
		return e.Code == appErr.Code
	}
	return false
}

// Sentinels for errors.Is comparisons.
var (
	ErrValidation = &AppError{Code: ErrorCodeValidation, Message: "Invalid input"}
	ErrAuth       = &AppError{Code: ErrorCodeAuth, Message: "Authentication required"}
	ErrNotFound   = &AppError{Code: ErrorCodeNotFound, Message: "Record not found"}
	ErrNetwork    = &AppError{Code: ErrorCodeNetwork, Message: "Server unreachable"}
	ErrImageLoad  = &AppError{Code: ErrorCodeImageLoad, Message: "Image could not be loaded"}
	ErrConflict   = &AppError{Code: ErrorCodeConflict, Message: "Already exists"}
	ErrCancelled  = &AppError{Code: ErrorCodeCancelled, Message: "Cancelled"}
	ErrInternal   = &AppError{Code: ErrorCodeInternal, Message: "Internal server error"}
)

// New creates an AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// Newf creates an AppError with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to an underlying error.
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{Code: code, Message: message, Cause: cause}
}

// Validation is shorthand for a validation error with a message.
func Validation(message string) *AppError {
	return New(ErrorCodeValidation, message)
}

// NotFound is shorthand for a not-found error with a message.
func NotFound(message string) *AppError {
	return New(ErrorCodeNotFound, message)
}

// CodeOf returns the code of the first AppError in err's chain, or
// ErrorCodeInternal when there is none.
func CodeOf(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ErrorCodeInternal
}

// UserMessage returns the message meant for display.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var appErr *AppError
	if errors.As(err, &appErr) && appErr.Message != "" {
		return appErr.Message
	}
	return err.Error()
}
