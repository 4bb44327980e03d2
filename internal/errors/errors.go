package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a category of application error.
type ErrorCode string

const (
	// ErrCodeConfigMissing indicates required IdP credentials are not configured.
	ErrCodeConfigMissing ErrorCode = "config_missing"
	// ErrCodeExchangeRejected indicates the IdP answered but issued no usable token.
	ErrCodeExchangeRejected ErrorCode = "exchange_rejected"
	// ErrCodeExchangeTransport indicates the token endpoint could not be reached in time.
	ErrCodeExchangeTransport ErrorCode = "exchange_transport"
	// ErrCodeExchangeDecode indicates the identity claims could not be decoded or verified.
	ErrCodeExchangeDecode ErrorCode = "exchange_decode"
	// ErrCodeCodeReplayed indicates an authorization code was presented a second time.
	ErrCodeCodeReplayed ErrorCode = "code_replayed"
	// ErrCodeSessionCorrupt indicates persisted session data could not be restored.
	ErrCodeSessionCorrupt ErrorCode = "session_corrupt"
	// ErrCodeUnauthorized indicates the caller is not authenticated.
	ErrCodeUnauthorized ErrorCode = "unauthorized"
	// ErrCodeForbidden indicates the caller lacks a required role or permission.
	ErrCodeForbidden ErrorCode = "forbidden"
	// ErrCodeValidation indicates invalid input data.
	ErrCodeValidation ErrorCode = "validation"
	// ErrCodeInternal indicates an internal server error.
	ErrCodeInternal ErrorCode = "internal"
)

// User-facing texts. Provider and network detail never reaches the visitor.
const (
	MsgAuthFailed   = "Authentication failed. Please try again or contact support."
	MsgAuthError    = "An error occurred during authentication. Please try again later."
	MsgInternal     = "An error occurred. Please try again."
	MsgLoginNeeded  = "You must be logged in to access this page."
	MsgAccessDenied = "Access Denied"
)

// AppError represents a structured application error with a code, message, and optional cause.
// It supports error wrapping and unwrapping for use with errors.Is and errors.As.
type AppError struct {
	// Code categorizes the error type
	Code ErrorCode
	// Message is a server-side description; it may carry provider detail and is logged, not rendered
	Message string
	// Cause is the underlying error that caused this error (optional)
	Cause error
	// Field is the specific field that caused the error (optional, for validation errors)
	Field string
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is and errors.As.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// UserMessage returns the fixed, visitor-safe text for the error code.
func (e *AppError) UserMessage() string {
	return UserMessage(e.Code)
}

// UserMessage maps an ErrorCode to text that is safe to render.
func UserMessage(code ErrorCode) string {
	switch code {
	case ErrCodeExchangeRejected, ErrCodeExchangeDecode, ErrCodeCodeReplayed:
		return MsgAuthFailed
	case ErrCodeExchangeTransport:
		return MsgAuthError
	case ErrCodeUnauthorized:
		return MsgLoginNeeded
	case ErrCodeForbidden:
		return MsgAccessDenied
	default:
		return MsgInternal
	}
}

// New creates an AppError without a cause.
func New(code ErrorCode, message string) *AppError {
	return &AppError{Code: code, Message: message}
}

// ConfigMissing reports the configuration keys that are not set.
func ConfigMissing(keys []string) *AppError {
	return &AppError{
		Code:    ErrCodeConfigMissing,
		Message: fmt.Sprintf("missing configuration: %v", keys),
	}
}

// Validation creates a new Validation error.
func Validation(message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
	}
}

// ValidationField creates a new Validation error for a specific field.
func ValidationField(field, message string) *AppError {
	return &AppError{
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	}
}

// Wrap wraps an existing error with an AppError, preserving the cause.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an existing error with an AppError and formatted message.
func Wrapf(err error, code ErrorCode, format string, args ...any) *AppError {
	return Wrap(err, code, fmt.Sprintf(format, args...))
}

// isCode checks if an error has a specific error code.
func isCode(err error, code ErrorCode) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// IsExchangeFailure reports whether err came from a failed code exchange.
func IsExchangeFailure(err error) bool {
	return isCode(err, ErrCodeExchangeRejected) ||
		isCode(err, ErrCodeExchangeTransport) ||
		isCode(err, ErrCodeExchangeDecode)
}

// IsCodeReplayed checks if an error is a CodeReplayed error.
func IsCodeReplayed(err error) bool {
	return isCode(err, ErrCodeCodeReplayed)
}

// IsSessionCorrupt checks if an error is a SessionCorrupt error.
func IsSessionCorrupt(err error) bool {
	return isCode(err, ErrCodeSessionCorrupt)
}

// IsValidation checks if an error is a Validation error.
func IsValidation(err error) bool {
	return isCode(err, ErrCodeValidation)
}

// GetCode returns the ErrorCode from an error, or empty string if not an AppError.
func GetCode(err error) ErrorCode {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}

// GetField returns the Field from an error, or empty string if not an AppError or no field set.
func GetField(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Field
	}
	return ""
}
