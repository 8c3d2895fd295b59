package response_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rezkam/taskdesk/internal/domain"
	"github.com/rezkam/taskdesk/internal/infrastructure/http/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unencodableType fails during JSON encoding.
type unencodableType struct{}

func (unencodableType) MarshalJSON() ([]byte, error) {
	return nil, errors.New("cannot encode")
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) response.ErrorBody {
	t.Helper()
	var resp response.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp), "body: %s", w.Body.String())
	return resp.Error
}

func TestOK_EncodingFailure_Returns500WithErrorJSON(t *testing.T) {
	for name, write := range map[string]func(http.ResponseWriter, any){
		"ok":      response.OK,
		"created": response.Created,
	} {
		t.Run(name, func(t *testing.T) {
			w := httptest.NewRecorder()
			write(w, unencodableType{})

			assert.Equal(t, http.StatusInternalServerError, w.Code)
			assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
			body := decodeError(t, w)
			assert.Equal(t, "INTERNAL_ERROR", body.Code)
			assert.Equal(t, "failed to encode response", body.Message)
		})
	}
}

func TestOK_Success(t *testing.T) {
	w := httptest.NewRecorder()
	response.OK(w, map[string]any{"id": 123, "items": []string{"a", "b"}})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":123,"items":["a","b"]}`, w.Body.String())
}

func TestValidationError(t *testing.T) {
	w := httptest.NewRecorder()
	response.ValidationError(w, "status", "invalid task status")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, []response.ErrorDetail{{Field: "status", Issue: "invalid task status"}}, body.Details)
}

func TestError_EmptyDetailsIsArray(t *testing.T) {
	w := httptest.NewRecorder()
	response.NotFound(w, "task not found")

	assert.JSONEq(t, `{"error":{"code":"NOT_FOUND","message":"task not found","details":[]}}`, w.Body.String())
}

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{fmt.Errorf("wrap: %w", domain.ErrInvalidTaskStatus), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{fmt.Errorf("%w: task type 9", domain.ErrInvalidReference), http.StatusBadRequest, "INVALID_ARGUMENT"},
		{domain.ErrUnauthenticated, http.StatusUnauthorized, "UNAUTHORIZED"},
		{domain.ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
		{fmt.Errorf("%w: 42", domain.ErrTaskNotFound), http.StatusNotFound, "NOT_FOUND"},
		{domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{fmt.Errorf("%w: pg", domain.ErrDuplicate), http.StatusConflict, "ALREADY_EXISTS"},
		{errors.New("connection reset"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/v1/tasks", nil)
			response.FromDomainError(w, r, tt.err)

			assert.Equal(t, tt.status, w.Code)
			assert.Equal(t, tt.code, decodeError(t, w).Code)
		})
	}
}

func TestFromDomainError_HidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	response.FromDomainError(w, r, errors.New("password authentication failed for user taskdesk"))

	assert.NotContains(t, w.Body.String(), "password")
}

func TestFromDomainFieldError(t *testing.T) {
	w := httptest.NewRecorder()
	r := httptest.NewRequest(http.MethodPost, "/", nil)
	response.FromDomainFieldError(w, r, "name", domain.ErrNameRequired)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, "VALIDATION_ERROR", body.Code)
	assert.Equal(t, "name", body.Details[0].Field)
}
