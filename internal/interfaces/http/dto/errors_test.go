package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/erp/suite/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{ErrCodeInternal, http.StatusInternalServerError},
		{ErrCodeValidation, http.StatusBadRequest},
		{ErrCodeUnauthorized, http.StatusUnauthorized},
		{ErrCodeInvalidCredentials, http.StatusUnauthorized},
		{ErrCodeTokenMaxRefresh, http.StatusUnauthorized},
		{ErrCodeForbidden, http.StatusForbidden},
		{ErrCodeAccountLocked, http.StatusForbidden},
		{ErrCodeTenantSuspended, http.StatusForbidden},
		{ErrCodeNotFound, http.StatusNotFound},
		{ErrCodeAlreadyExists, http.StatusConflict},
		{ErrCodeConcurrencyConflict, http.StatusConflict},
		{ErrCodeInvalidState, http.StatusUnprocessableEntity},
		{ErrCodeFeatureDisabled, http.StatusServiceUnavailable},
		{ErrCodeInvalidInput, http.StatusBadRequest},
		{"ERR_INVALID_EMAIL", http.StatusBadRequest},
		{"ERR_INVALID_PROGRESS", http.StatusBadRequest},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestNormalizeErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"NOT_FOUND", ErrCodeNotFound},
		{"ALREADY_EXISTS", ErrCodeAlreadyExists},
		{"INVALID_STATE", ErrCodeInvalidState},
		{"CONCURRENCY_CONFLICT", ErrCodeConcurrencyConflict},
		{"FEATURE_DISABLED", ErrCodeFeatureDisabled},
		{"ACCOUNT_LOCKED", ErrCodeAccountLocked},
		{"EMPTY_ORDER", ErrCodeInvalidInput},
		{"PASSWORD_HASH_ERROR", ErrCodeInternal},
		{ErrCodeNotFound, ErrCodeNotFound},
		{"", ErrCodeUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizeErrorCode(tt.input))
		})
	}
}

// Every sentinel the services return must land on a non-500 status.
func TestSharedSentinelsAreMapped(t *testing.T) {
	for _, err := range []*shared.DomainError{
		shared.ErrNotFound,
		shared.ErrAlreadyExists,
		shared.ErrInvalidInput,
		shared.ErrConcurrencyConflict,
		shared.ErrUnauthorized,
		shared.ErrForbidden,
		shared.ErrInvalidState,
		shared.ErrTenantRequired,
		shared.ErrFeatureDisabled,
	} {
		t.Run(err.Code, func(t *testing.T) {
			assert.Less(t, GetHTTPStatus(NormalizeErrorCode(err.Code)), 500)
		})
	}
}

func TestNewErrorResponseWithRequestID(t *testing.T) {
	resp := NewErrorResponseWithRequestID("NOT_FOUND", "Resource not found", "req-123")

	assert.False(t, resp.Success)
	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeNotFound, resp.Error.Code)
	assert.Equal(t, "req-123", resp.Error.RequestID)
	assert.NotZero(t, resp.Error.Timestamp)
}

func TestNewValidationErrorResponse(t *testing.T) {
	resp := NewValidationErrorResponse("Validation failed", "req-789", []ValidationDetail{
		{Field: "email", Message: "Invalid email format"},
		{Field: "password", Message: "Must be at least 8 characters"},
	})

	require.NotNil(t, resp.Error)
	assert.Equal(t, ErrCodeValidation, resp.Error.Code)
	assert.Len(t, resp.Error.Details, 2)
	assert.Equal(t, "email", resp.Error.Details[0].Field)
}

func TestNewPaginatedResponse(t *testing.T) {
	resp := NewPaginatedResponse(shared.NewPaginated([]string(nil), 41, 2, 20))

	assert.True(t, resp.Success)
	assert.Equal(t, []string{}, resp.Data)
	require.NotNil(t, resp.Meta)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	data, err := json.Marshal(resp)
	require.NoError(t, err)
	assert.JSONEq(t, `{"success":true,"data":[],"meta":{"total":41,"page":2,"page_size":20,"total_pages":3}}`, string(data))
}
