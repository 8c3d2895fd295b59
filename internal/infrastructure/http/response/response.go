// Package response writes JSON success and error bodies.
//
// Errors share one envelope:
//
//	{"error":{"code":"NOT_FOUND","message":"task not found","details":[]}}
package response

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/rezkam/taskdesk/internal/domain"
)

// internalErrorJSON is written when a body cannot be encoded.
const internalErrorJSON = `{"error":{"code":"INTERNAL_ERROR","message":"failed to encode response","details":[]}}`

// ErrorDetail describes one invalid field.
type ErrorDetail struct {
	Field string `json:"field"`
	Issue string `json:"issue"`
}

// ErrorBody is the error envelope payload.
type ErrorBody struct {
	Code    string        `json:"code"`
	Message string        `json:"message"`
	Details []ErrorDetail `json:"details"`
}

// ErrorResponse wraps ErrorBody under "error".
type ErrorResponse struct {
	Error ErrorBody `json:"error"`
}

// JSON marshals data and writes it with the status. Encoding happens before the
// header is written so a failure still yields a 500.
func JSON(w http.ResponseWriter, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("failed to encode response", "error", err)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(internalErrorJSON))
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if _, err := w.Write(body); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}

// OK writes a 200 response.
func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

// Created writes a 201 response.
func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

// NoContent writes a 204 response.
func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

// Error writes the error envelope.
func Error(w http.ResponseWriter, code, message string, status int, details ...ErrorDetail) {
	if details == nil {
		details = []ErrorDetail{}
	}
	JSON(w, status, ErrorResponse{Error: ErrorBody{Code: code, Message: message, Details: details}})
}

// ValidationError writes a 400 naming a single invalid field.
func ValidationError(w http.ResponseWriter, field, issue string) {
	Error(w, "VALIDATION_ERROR", "validation failed", http.StatusBadRequest, ErrorDetail{Field: field, Issue: issue})
}

// BadRequest writes a 400 INVALID_ARGUMENT.
func BadRequest(w http.ResponseWriter, message string) {
	Error(w, "INVALID_ARGUMENT", message, http.StatusBadRequest)
}

// Unauthorized writes a 401.
func Unauthorized(w http.ResponseWriter, message string) {
	Error(w, "UNAUTHORIZED", message, http.StatusUnauthorized)
}

// Forbidden writes a 403.
func Forbidden(w http.ResponseWriter, message string) {
	Error(w, "FORBIDDEN", message, http.StatusForbidden)
}

// NotFound writes a 404.
func NotFound(w http.ResponseWriter, message string) {
	Error(w, "NOT_FOUND", message, http.StatusNotFound)
}

// Conflict writes a 409.
func Conflict(w http.ResponseWriter, message string) {
	Error(w, "ALREADY_EXISTS", message, http.StatusConflict)
}

// InternalError writes a 500 without leaking the cause.
func InternalError(w http.ResponseWriter) {
	Error(w, "INTERNAL_ERROR", "an internal error occurred", http.StatusInternalServerError)
}

// validationErrors are reported as 400 with the error text as the issue.
var validationErrors = []error{
	domain.ErrNameRequired,
	domain.ErrNameTooLong,
	domain.ErrDescriptionTooLong,
	domain.ErrDeadlineRequired,
	domain.ErrTaskTypeRequired,
	domain.ErrInvalidTaskStatus,
	domain.ErrInvalidTaskPriority,
	domain.ErrEmptyUpdateMask,
	domain.ErrUnknownField,
	domain.ErrUsernameRequired,
	domain.ErrUsernameTooLong,
	domain.ErrInvalidEmail,
	domain.ErrPersonNameRequired,
	domain.ErrInvalidReference,
	domain.ErrInvalidID,
}

// FromDomainError maps a service error onto an HTTP status.
// Unknown errors are logged and reported as 500.
func FromDomainError(w http.ResponseWriter, r *http.Request, err error) {
	FromDomainFieldError(w, r, "", err)
}

// FromDomainFieldError is FromDomainError with the field to blame on validation failures.
func FromDomainFieldError(w http.ResponseWriter, r *http.Request, field string, err error) {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			if field == "" {
				BadRequest(w, err.Error())
				return
			}
			ValidationError(w, field, err.Error())
			return
		}
	}

	switch {
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, domain.ErrUnauthorized):
		Unauthorized(w, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		Forbidden(w, err.Error())
	case errors.Is(err, domain.ErrTaskNotFound),
		errors.Is(err, domain.ErrTaskTypeNotFound),
		errors.Is(err, domain.ErrWorkerNotFound),
		errors.Is(err, domain.ErrPositionNotFound),
		errors.Is(err, domain.ErrNotFound):
		NotFound(w, notFoundMessage(err))
	case errors.Is(err, domain.ErrDuplicate):
		Conflict(w, "a record with that name already exists")
	default:
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method,
			"path", r.URL.Path,
			"error", err)
		InternalError(w)
	}
}

func notFoundMessage(err error) string {
	for _, target := range []error{domain.ErrTaskNotFound, domain.ErrTaskTypeNotFound, domain.ErrWorkerNotFound, domain.ErrPositionNotFound} {
		if errors.Is(err, target) {
			return target.Error()
		}
	}
	return domain.ErrNotFound.Error()
}
