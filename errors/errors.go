package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

type ErrorType string

const (
	ValidationError       ErrorType = "VALIDATION_ERROR"
	NotFoundError         ErrorType = "NOT_FOUND"
	ServerError           ErrorType = "SERVER_ERROR"
	RateLimitError        ErrorType = "RATE_LIMIT_EXCEEDED"
	ServiceUnavailable    ErrorType = "SERVICE_UNAVAILABLE"
	DatabaseError         ErrorType = "DATABASE_ERROR"
	UpstreamError         ErrorType = "UPSTREAM_ERROR"
	TimeoutError          ErrorType = "TIMEOUT_ERROR"
	SanitizationError     ErrorType = "SANITIZATION_ERROR"
	DecodeError           ErrorType = "DECODE_ERROR"
	SchemaValidationError ErrorType = "SCHEMA_VALIDATION_ERROR"
	RetriesExhaustedError ErrorType = "RETRIES_EXHAUSTED"
	UnknownError          ErrorType = "UNKNOWN_ERROR"
)

// AppError represents a structured application error
type AppError struct {
	Type       ErrorType `json:"type"`
	Code       string    `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	RunID      string    `json:"runId,omitempty"`
	HTTPStatus int       `json:"-"`
	Raw        error     `json:"-"`
}

func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Type, e.Message, e.Detail)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Raw
}

// GetHTTPStatus returns the status the error should be rendered with.
func (e *AppError) GetHTTPStatus() int {
	if e.HTTPStatus != 0 {
		return e.HTTPStatus
	}
	return getHTTPStatus(e.Type)
}

// New creates a new AppError
func New(errType ErrorType, message string, detail string) *AppError {
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     detail,
		HTTPStatus: getHTTPStatus(errType),
	}
}

// Wrap wraps a raw error with AppError context
func Wrap(err error, errType ErrorType, message string) *AppError {
	if err == nil {
		return nil
	}
	return &AppError{
		Type:       errType,
		Message:    message,
		Detail:     err.Error(),
		HTTPStatus: getHTTPStatus(errType),
		Raw:        err,
	}
}

// KindOf returns the ErrorType of the first AppError in err's chain, or UnknownError.
func KindOf(err error) ErrorType {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Type
	}
	return UnknownError
}

// Helper functions for common errors
func NotFound(entity string, id interface{}) *AppError {
	return &AppError{
		Type:       NotFoundError,
		Message:    fmt.Sprintf("%s not found", entity),
		Detail:     fmt.Sprintf("ID: %v", id),
		HTTPStatus: http.StatusNotFound,
	}
}

func ValidationFailed(message string, details string) *AppError {
	return &AppError{
		Type:       ValidationError,
		Message:    message,
		Detail:     details,
		HTTPStatus: http.StatusBadRequest,
	}
}

func InternalServerError(message string) *AppError {
	return &AppError{
		Type:       ServerError,
		Message:    message,
		HTTPStatus: http.StatusInternalServerError,
	}
}

func RateLimitExceeded(message string, retryAfterSeconds int) *AppError {
	return &AppError{
		Type:       RateLimitError,
		Message:    message,
		Detail:     fmt.Sprintf("retry after %d seconds", retryAfterSeconds),
		HTTPStatus: http.StatusTooManyRequests,
	}
}

func NewDatabaseError(err error) *AppError {
	return &AppError{
		Type:       DatabaseError,
		Message:    "Database operation failed",
		Detail:     "Please try again later",
		HTTPStatus: http.StatusInternalServerError,
		Raw:        err,
	}
}

// Upstream reports a non-success response from an external API.
func Upstream(service string, status int, body string) *AppError {
	return &AppError{
		Type:       UpstreamError,
		Code:       fmt.Sprintf("%d", status),
		Message:    fmt.Sprintf("%s returned a non-success status", service),
		Detail:     fmt.Sprintf("status %d: %s", status, body),
		HTTPStatus: http.StatusBadGateway,
	}
}

// UpstreamFailure reports a transport-level failure talking to an external API.
func UpstreamFailure(service string, err error) *AppError {
	return &AppError{
		Type:       UpstreamError,
		Message:    fmt.Sprintf("%s request failed", service),
		Detail:     errDetail(err),
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
}

// Timeout reports that an external API did not answer within its bound.
func Timeout(service string, err error) *AppError {
	return &AppError{
		Type:       TimeoutError,
		Message:    fmt.Sprintf("%s did not respond in time", service),
		Detail:     errDetail(err),
		HTTPStatus: http.StatusGatewayTimeout,
		Raw:        err,
	}
}

// NoJSONArray reports model output without any bracket-delimited span.
func NoJSONArray(detail string) *AppError {
	return &AppError{
		Type:       SanitizationError,
		Message:    "no array found",
		Detail:     detail,
		HTTPStatus: http.StatusBadGateway,
	}
}

// Decode reports a bracket span that is not valid JSON after repair.
func Decode(err error) *AppError {
	return &AppError{
		Type:       DecodeError,
		Message:    "model output is not valid JSON",
		Detail:     errDetail(err),
		HTTPStatus: http.StatusBadGateway,
		Raw:        err,
	}
}

// SchemaInvalid reports a decoded value that does not match the required shape.
// The violations are kept in Raw for diagnostics.
func SchemaInvalid(violations error) *AppError {
	return &AppError{
		Type:       SchemaValidationError,
		Message:    "model output failed schema validation",
		Detail:     errDetail(violations),
		HTTPStatus: http.StatusBadGateway,
		Raw:        violations,
	}
}

// RetriesExhausted reports a generation run that failed every attempt. The
// message is safe for clients; attempt errors stay in Raw.
func RetriesExhausted(runID string, err error) *AppError {
	return &AppError{
		Type:       RetriesExhaustedError,
		Message:    "We could not generate recommendations right now. Please try again in a moment.",
		RunID:      runID,
		HTTPStatus: http.StatusServiceUnavailable,
		Raw:        err,
	}
}

func errDetail(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

func getHTTPStatus(errType ErrorType) int {
	switch errType {
	case ValidationError:
		return http.StatusBadRequest
	case NotFoundError:
		return http.StatusNotFound
	case RateLimitError:
		return http.StatusTooManyRequests
	case ServiceUnavailable, RetriesExhaustedError:
		return http.StatusServiceUnavailable
	case UpstreamError, SanitizationError, DecodeError, SchemaValidationError:
		return http.StatusBadGateway
	case TimeoutError:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

func NewError(errType ErrorType, code string, message string, status int) error {
	return &AppError{
		Type:       errType,
		Code:       code,
		Message:    message,
		HTTPStatus: status,
	}
}
