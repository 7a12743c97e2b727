package dto

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/storefront/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{shared.CodeValidation, http.StatusBadRequest},
		{shared.CodeOutOfStock, http.StatusBadRequest},
		{shared.CodeInsufficientStock, http.StatusBadRequest},
		{shared.CodeCouponInvalid, http.StatusBadRequest},
		{shared.CodeNotFound, http.StatusNotFound},
		{shared.CodeAlreadyExists, http.StatusConflict},
		{shared.CodeConcurrency, http.StatusConflict},
		{shared.CodeUnauthorized, http.StatusUnauthorized},
		{shared.CodeForbidden, http.StatusForbidden},
		{shared.CodeNotificationFailed, http.StatusInternalServerError},
		{ErrCodeRateLimited, http.StatusTooManyRequests},
		{ErrCodeTooLarge, http.StatusRequestEntityTooLarge},
		{"UNKNOWN_CODE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestErrorInfoFrom(t *testing.T) {
	t.Run("domain error keeps code, message and details", func(t *testing.T) {
		err := fmt.Errorf("add item: %w", shared.ErrOutOfStock.WithDetail("available", 2))

		status, info := ErrorInfoFrom(err)
		assert.Equal(t, http.StatusBadRequest, status)
		assert.Equal(t, shared.CodeOutOfStock, info.Code)
		assert.Equal(t, shared.ErrOutOfStock.Message, info.Message)
		assert.Equal(t, 2, info.Details["available"])
	})

	t.Run("unexpected error is generic", func(t *testing.T) {
		status, info := ErrorInfoFrom(errors.New("pq: connection refused"))
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, ErrCodeInternal, info.Code)
		assert.Equal(t, InternalErrorMessage, info.Message)
	})

	t.Run("notification failure does not leak transport detail", func(t *testing.T) {
		err := shared.NewDomainError(shared.CodeNotificationFailed, "smtp 554 rejected")
		status, info := ErrorInfoFrom(err)
		assert.Equal(t, http.StatusInternalServerError, status)
		assert.Equal(t, InternalErrorMessage, info.Message)
		assert.Nil(t, info.Details)
	})
}

func TestResponse_JSON(t *testing.T) {
	body, err := json.Marshal(NewValidationErrorResponse("Request validation failed", "req-1", []ValidationDetail{
		{Field: "rating", Message: "Must be at most 5"},
	}))
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.Equal(t, "req-1", decoded["request_id"])
	errInfo := decoded["error"].(map[string]any)
	assert.Equal(t, shared.CodeValidation, errInfo["code"])
	assert.Len(t, errInfo["fields"], 1)
	assert.NotContains(t, decoded, "data")
}
