package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/felixgeelhaar/codementor/internal/api/middleware"
	"github.com/felixgeelhaar/codementor/internal/domain"
)

// APIError represents a structured API error
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *APIError) Error() string {
	return e.Message
}

func (e *APIError) Unwrap() error {
	return e.cause
}

// NewAPIError creates a new API error
func NewAPIError(code string, message string) *APIError {
	return &APIError{Code: code, Message: message}
}

// WithDetails adds details to the error
func (e *APIError) WithDetails(details any) *APIError {
	e.Details = details
	return e
}

// WithCause wraps an underlying error
func (e *APIError) WithCause(err error) *APIError {
	e.cause = err
	return e
}

// Common error constructors
func ErrBadRequestWith(message string) *APIError {
	return NewAPIError("BAD_REQUEST", message)
}

func ErrNotFoundWith(resource string) *APIError {
	return NewAPIError("NOT_FOUND", resource+" not found")
}

func ErrUnauthorizedWith(message string) *APIError {
	return NewAPIError("UNAUTHORIZED", message)
}

func ErrConflictWith(message string) *APIError {
	return NewAPIError("CONFLICT", message)
}

func ErrUnprocessableWith(message string) *APIError {
	return NewAPIError("UNPROCESSABLE", message)
}

func ErrInternalWith(message string, cause error) *APIError {
	return NewAPIError("INTERNAL_ERROR", message).WithCause(cause)
}

// ErrorResponse is the JSON structure for error responses
type ErrorResponse struct {
	Error *APIError `json:"error"`
}

// FromError maps service errors to a status code and API error
func FromError(err error) (int, *APIError) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return http.StatusBadRequest, apiErr
	}

	switch {
	case errors.Is(err, domain.ErrUserNotFound):
		return http.StatusNotFound, ErrNotFoundWith("user")
	case errors.Is(err, domain.ErrSessionNotFound):
		return http.StatusNotFound, ErrNotFoundWith("session")
	case errors.Is(err, domain.ErrTopicNotFound):
		return http.StatusNotFound, ErrNotFoundWith("topic")
	case errors.Is(err, domain.ErrPathNotFound):
		return http.StatusNotFound, ErrNotFoundWith("learning path")
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, ErrNotFoundWith("resource")
	case errors.Is(err, domain.ErrUserAlreadyExists):
		return http.StatusConflict, ErrConflictWith("username or email already registered").WithCause(err)
	case errors.Is(err, domain.ErrEmptyPath):
		return http.StatusUnprocessableEntity, ErrUnprocessableWith("learning path has no topics").WithCause(err)
	case errors.Is(err, domain.ErrInvalidSkillLevel),
		errors.Is(err, domain.ErrInvalidUsername),
		errors.Is(err, domain.ErrInvalidEmail),
		errors.Is(err, domain.ErrInvalidSessionType),
		errors.Is(err, domain.ErrEmptyCode),
		errors.Is(err, domain.ErrMissingLanguage),
		errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, ErrBadRequestWith(err.Error()).WithCause(err)
	}
	return http.StatusInternalServerError, ErrInternalWith("internal server error", err)
}

// WriteError writes an error response and logs it with request context
func WriteError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, statusCode int, apiErr *APIError) {
	if logger == nil {
		logger = slog.Default()
	}
	logAttrs := []any{
		"code", apiErr.Code,
		"message", apiErr.Message,
		"status", statusCode,
		"method", r.Method,
		"path", r.URL.Path,
	}
	if apiErr.cause != nil {
		logAttrs = append(logAttrs, "cause", apiErr.cause.Error())
	}
	if requestID := middleware.GetRequestID(r.Context()); requestID != "" {
		logAttrs = append(logAttrs, "request_id", requestID)
	}

	if statusCode >= 500 {
		logger.Error("api error", logAttrs...)
	} else {
		logger.Warn("api error", logAttrs...)
	}

	WriteJSON(w, statusCode, ErrorResponse{Error: apiErr})
}

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}
