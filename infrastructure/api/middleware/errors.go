package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gdp-poc/gdp/application/service"
	"github.com/gdp-poc/gdp/domain/menu"
	"github.com/gdp-poc/gdp/infrastructure/api/v1/dto"
)

// Error codes carried in the error field of a failed response.
const (
	CodeMissingUserID = "MISSING_USER_ID"
	CodeValidation    = "VALIDATION_ERROR"
	CodeInvalidBody   = "INVALID_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodeNotNavigable  = "NOT_NAVIGABLE"
)

// APIError is an error with an explicit HTTP status.
type APIError struct {
	code    int
	message string
	cause   error
}

// NewAPIError creates a new APIError.
func NewAPIError(code int, message string, cause error) *APIError {
	return &APIError{
		code:    code,
		message: message,
		cause:   cause,
	}
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("api error %d: %s: %v", e.code, e.message, e.cause)
	}
	return fmt.Sprintf("api error %d: %s", e.code, e.message)
}

// Unwrap returns the underlying cause.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Code returns the HTTP status.
func (e *APIError) Code() int {
	return e.code
}

// Message returns the error message.
func (e *APIError) Message() string {
	return e.message
}

// WriteError writes the failure envelope for err and logs it.
func WriteError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	status := http.StatusInternalServerError
	resp := dto.StatusResponse{
		Success: false,
		Message: "system error",
		Error:   err.Error(),
	}

	var verr *menu.ValidationError
	var apiErr *APIError
	switch {
	case errors.As(err, &verr):
		status = http.StatusBadRequest
		resp.Message = validationMessage(verr.Violations)
		resp.Error = CodeValidation
		resp.Violations = dto.FromViolations(verr.Violations)
	case errors.As(err, &apiErr):
		status = apiErr.Code()
		resp.Message = apiErr.Message()
		resp.Error = CodeInvalidBody
	case errors.Is(err, service.ErrMissingUser):
		status = http.StatusBadRequest
		resp.Message = "missing user identity"
		resp.Error = CodeMissingUserID
	case errors.Is(err, menu.ErrNotFound):
		status = http.StatusNotFound
		resp.Message = err.Error()
		resp.Error = CodeNotFound
	case errors.Is(err, service.ErrNotNavigable):
		status = http.StatusConflict
		resp.Message = err.Error()
		resp.Error = CodeNotNavigable
	}

	if logger != nil {
		level := slog.LevelWarn
		if status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(r.Context(), level, "request error",
			"correlation_id", GetCorrelationID(r.Context()),
			"status", status,
			"error", err.Error(),
			"path", r.URL.Path,
		)
	}

	WriteJSON(w, status, resp)
}

// validationMessage names the first violation so clients that only show the
// message still tell the user which field failed.
func validationMessage(violations []menu.Violation) string {
	switch len(violations) {
	case 0:
		return "validation failed"
	case 1:
		return violations[0].String()
	default:
		return fmt.Sprintf("%s (and %d more)", violations[0], len(violations)-1)
	}
}

// WriteJSON writes a JSON response.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}
