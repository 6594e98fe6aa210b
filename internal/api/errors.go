// errors.go - Structured error handling for API responses
package api

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/studyassist/backend/internal/goals"
	"github.com/studyassist/backend/internal/progress"
	"github.com/studyassist/backend/internal/quiz"
	"github.com/studyassist/backend/internal/summary"
	"github.com/studyassist/backend/internal/validate"
)

// APIError represents a structured API error response
type APIError struct {
	Status  int               `json:"-"`
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Details string            `json:"details,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BAD_REQUEST",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// NewValidationError creates a 400 validation error with per-field messages
func NewValidationError(message string, fields map[string]string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "VALIDATION_ERROR",
		Message: message,
		Fields:  fields,
	}
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(resource string, id string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NOT_FOUND",
		Message: fmt.Sprintf("%s not found: %s", resource, id),
	}
}

// NewConflictError creates a 409 Conflict error
func NewConflictError(message string) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "CONFLICT",
		Message: message,
	}
}

// NewInternalError creates a 500 Internal Server Error
func NewInternalError(message string, cause error) *APIError {
	err := &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "INTERNAL_ERROR",
		Message: message,
	}
	if cause != nil {
		err.Details = cause.Error()
	}
	return err
}

// serviceError maps a domain error onto an APIError. resource and id name
// the thing being addressed for 404 messages.
func serviceError(err error, resource, id string) *APIError {
	switch {
	case errors.Is(err, goals.ErrNotFound),
		errors.Is(err, quiz.ErrNotFound),
		errors.Is(err, summary.ErrNotFound),
		errors.Is(err, progress.ErrNotFound):
		return NewNotFoundError(resource, id)
	case errors.Is(err, goals.ErrInvalid),
		errors.Is(err, quiz.ErrInvalid),
		errors.Is(err, summary.ErrInvalid),
		errors.Is(err, progress.ErrInvalid):
		return &APIError{
			Status:  http.StatusBadRequest,
			Code:    "VALIDATION_ERROR",
			Message: err.Error(),
		}
	case errors.Is(err, quiz.ErrNotAnswered), errors.Is(err, quiz.ErrFinished):
		return NewConflictError(err.Error())
	default:
		return NewInternalError("request failed", err)
	}
}

// NewErrorHandler returns the echo HTTPErrorHandler. Validator errors are
// translated into field messages; anything unrecognised is logged and
// reported as INTERNAL_ERROR.
func NewErrorHandler(v *validate.Validator, logger *slog.Logger) echo.HTTPErrorHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		var (
			apiErr  *APIError
			httpErr *echo.HTTPError
			verrs   validator.ValidationErrors
		)
		switch {
		case errors.As(err, &apiErr):
		case errors.As(err, &verrs):
			var fields map[string]string
			if v != nil {
				fields = v.Fields(verrs)
			}
			apiErr = NewValidationError("request validation failed", fields)
		case errors.As(err, &httpErr):
			apiErr = &APIError{
				Status:  httpErr.Code,
				Code:    httpCode(httpErr.Code),
				Message: fmt.Sprintf("%v", httpErr.Message),
			}
		default:
			apiErr = NewInternalError("an unexpected error occurred", err)
		}

		if apiErr.Status >= http.StatusInternalServerError {
			logger.Error("request failed",
				"method", c.Request().Method,
				"path", c.Path(),
				"error", err,
			)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(apiErr.Status)
			return
		}
		_ = c.JSON(apiErr.Status, apiErr)
	}
}

func httpCode(status int) string {
	switch status {
	case http.StatusBadRequest:
		return "BAD_REQUEST"
	case http.StatusNotFound:
		return "NOT_FOUND"
	case http.StatusConflict:
		return "CONFLICT"
	case http.StatusRequestEntityTooLarge:
		return "PAYLOAD_TOO_LARGE"
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	}
	if status >= http.StatusInternalServerError {
		return "INTERNAL_ERROR"
	}
	return "HTTP_ERROR"
}
