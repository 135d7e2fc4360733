package dto

import (
	"net/http"
	"strings"
)

// Error codes produced outside the domain layer
const (
	ErrCodeInternal     = "INTERNAL_ERROR"
	ErrCodeBadRequest   = "BAD_REQUEST"
	ErrCodeValidation   = "VALIDATION_ERROR"
	ErrCodeUnauthorized = "UNAUTHORIZED"
	ErrCodeForbidden    = "FORBIDDEN"
	ErrCodeNotFound     = "NOT_FOUND"
	ErrCodeTooLarge     = "REQUEST_TOO_LARGE"
)

// Domain codes with a fixed status. Codes not listed here fall back to the
// prefix and suffix rules in GetHTTPStatus.
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeInternal:     http.StatusInternalServerError,
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeValidation:   http.StatusBadRequest,
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeNotFound:     http.StatusNotFound,
	ErrCodeTooLarge:     http.StatusRequestEntityTooLarge,

	"TOKEN_EXPIRED":        http.StatusUnauthorized,
	"INVALID_TOKEN":        http.StatusUnauthorized,
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,

	"INSUFFICIENT_STOCK":        http.StatusConflict,
	"STOCK_CHANGED":             http.StatusConflict,
	"REP_BUSY":                  http.StatusConflict,
	"BALANCE_WOULD_GO_NEGATIVE": http.StatusConflict,
	"RECONCILIATION_FAILED":     http.StatusInternalServerError,
	"UPLOAD_URL_FAILED":         http.StatusBadGateway,
}

// Retryable reports whether a client may resend the same request unchanged
func Retryable(code string) bool {
	return code == "STOCK_CHANGED" || code == "REP_BUSY"
}

// GetHTTPStatus returns the HTTP status for an error code. Unknown codes are
// treated as internal errors.
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	switch {
	case strings.HasPrefix(code, "INVALID_"),
		strings.HasPrefix(code, "DUPLICATE_"),
		strings.HasPrefix(code, "TOO_MANY_"),
		strings.HasPrefix(code, "VALIDATION_"):
		return http.StatusBadRequest
	case strings.HasSuffix(code, "_NOT_FOUND"):
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}
