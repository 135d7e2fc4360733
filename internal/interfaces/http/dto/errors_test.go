package dto

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"VALIDATION_ERROR", http.StatusBadRequest},
		{"INVALID_SAMPLE", http.StatusBadRequest},
		{"INVALID_DATE", http.StatusBadRequest},
		{"DUPLICATE_DAY", http.StatusBadRequest},
		{"TOO_MANY_ATTACHMENTS", http.StatusBadRequest},
		{"NOT_FOUND", http.StatusNotFound},
		{"CUSTOMER_NOT_FOUND", http.StatusNotFound},
		{"FORBIDDEN", http.StatusForbidden},
		{"UNAUTHORIZED", http.StatusUnauthorized},
		{"INSUFFICIENT_STOCK", http.StatusConflict},
		{"STOCK_CHANGED", http.StatusConflict},
		{"REP_BUSY", http.StatusConflict},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"RECONCILIATION_FAILED", http.StatusInternalServerError},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestRetryable(t *testing.T) {
	assert.True(t, Retryable("STOCK_CHANGED"))
	assert.True(t, Retryable("REP_BUSY"))
	assert.False(t, Retryable("INSUFFICIENT_STOCK"))
}

func TestErrorResponse_JSON(t *testing.T) {
	details := []map[string]any{{"productId": "p1", "available": 2, "required": 5}}
	resp := NewErrorResponseWithDetails("INSUFFICIENT_STOCK", "Insufficient stock available", "req-1", details)

	raw, err := json.Marshal(resp)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, false, decoded["success"])
	assert.NotContains(t, decoded, "data")

	errObj := decoded["error"].(map[string]any)
	assert.Equal(t, "INSUFFICIENT_STOCK", errObj["code"])
	assert.Equal(t, "req-1", errObj["request_id"])
	assert.Len(t, errObj["details"], 1)
	assert.NotContains(t, errObj, "retryable")
}

func TestErrorResponse_Retryable(t *testing.T) {
	resp := NewErrorResponseWithRequestID("STOCK_CHANGED", "retry", "")
	assert.True(t, resp.Error.Retryable)
}

func TestNewSuccessResponseWithMeta(t *testing.T) {
	resp := NewSuccessResponseWithMeta([]string{"a"}, 41, 2, 20)
	require.NotNil(t, resp.Meta)
	assert.True(t, resp.Success)
	assert.Equal(t, int64(41), resp.Meta.Total)
	assert.Equal(t, 3, resp.Meta.TotalPages)

	empty := NewSuccessResponseWithMeta(nil, 0, 1, 0)
	assert.Equal(t, 0, empty.Meta.TotalPages)
}
