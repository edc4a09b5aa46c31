package errors

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name:     "without underlying error",
			appErr:   &AppError{Code: CodeNotFound, Message: "resource not found"},
			expected: "NOT_FOUND: resource not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("database connection failed"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: database connection failed)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.appErr.Error())
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	assert.Same(t, originalErr, errors.Unwrap(appErr))
	assert.ErrorIs(t, appErr, originalErr)
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name   string
		err    *AppError
		code   string
		status int
	}{
		{"not found", NotFound("Host"), CodeNotFound, http.StatusNotFound},
		{"not found with id", NotFoundWithID("Host", "h1"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad"), CodeInvalidInput, http.StatusBadRequest},
		{"unauthorized", Unauthorized("no"), CodeUnauthorized, http.StatusUnauthorized},
		{"forbidden", Forbidden("no"), CodeForbidden, http.StatusForbidden},
		{"conflict", Conflict("taken"), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", nil), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Kafka"), CodeUnavailable, http.StatusServiceUnavailable},
		{"rate limited", RateLimited("slow down"), CodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.StatusCode())
		})
	}
}

func TestNotFoundWithID_Details(t *testing.T) {
	err := NotFoundWithID("Host", "12345")

	assert.Equal(t, "Host not found", err.Message)
	assert.Equal(t, "12345", err.Details["id"])
	assert.Equal(t, "Host", err.Details["resource"])
}

func TestAsAppError(t *testing.T) {
	appErr := Forbidden("host is not verified")
	regularErr := errors.New("regular error")

	assert.Same(t, appErr, AsAppError(appErr))
	assert.Same(t, appErr, AsAppError(fmt.Errorf("wrapped: %w", appErr)))

	result := AsAppError(regularErr)
	assert.Equal(t, CodeInternal, result.Code)
	assert.Same(t, regularErr, result.Err)
}

func TestHasCode(t *testing.T) {
	assert.True(t, HasCode(Conflict("x"), CodeConflict))
	assert.False(t, HasCode(Conflict("x"), CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeConflict))
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	w := httptest.NewRecorder()

	err := WriteError(w, Internal("Failed to create booking", errors.New("mongo: write concern timeout on shard-3")))
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
	assert.NotContains(t, w.Body.String(), "shard-3")

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, CodeInternal, resp.Code)
	assert.Equal(t, "Failed to create booking", resp.Message)
}

func TestWriteError_PlainErrorIsOpaque(t *testing.T) {
	w := httptest.NewRecorder()

	require.NoError(t, WriteError(w, errors.New("dial tcp 10.0.0.4:27017: connection refused")))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "10.0.0.4")
}

func TestAppError_ToJSON(t *testing.T) {
	data := InvalidInput("price mismatch").WithDetails(map[string]any{"field": "price"}).ToJSON()

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(data, &resp))
	assert.Equal(t, CodeInvalidInput, resp.Code)
	assert.Equal(t, "price", resp.Details["field"])
}
