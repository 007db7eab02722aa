package dto

import (
	"net/http"
	"strings"
)

// Transport-level error codes. Domain errors keep their own codes and are
// mapped to HTTP statuses below.
const (
	ErrCodeBadRequest = "BAD_REQUEST"
	ErrCodeNotFound   = "NOT_FOUND"
	ErrCodeInternal   = "INTERNAL_ERROR"
	ErrCodeTooLarge   = "REQUEST_TOO_LARGE"
)

// errorCodeHTTPStatus maps domain error codes to HTTP status codes.
var errorCodeHTTPStatus = map[string]int{
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeNotFound:   http.StatusNotFound,
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeTooLarge:   http.StatusRequestEntityTooLarge,

	// Conflicts with existing state -> 409
	"ALREADY_EXISTS":       http.StatusConflict,
	"CONCURRENCY_CONFLICT": http.StatusConflict,
	"ALREADY_ISSUED":       http.StatusConflict,
	"DUPLICATE_PAYMENT":    http.StatusConflict,
	"ALREADY_CLOSED":       http.StatusConflict,
	"MONTH_CLOSED":         http.StatusConflict,

	// Business rule violations -> 422
	"INVALID_STATE":       http.StatusUnprocessableEntity,
	"PRIOR_MONTH_OPEN":    http.StatusUnprocessableEntity,
	"BEFORE_SYSTEM_START": http.StatusUnprocessableEntity,
	"NO_APARTMENTS":       http.StatusUnprocessableEntity,
	"ZERO_WEIGHTS":        http.StatusUnprocessableEntity,
	"WEIGHT_OVERFLOW":     http.StatusUnprocessableEntity,
	"BALANCE_DRIFT":       http.StatusUnprocessableEntity,
}

// GetHTTPStatus returns the HTTP status for a domain error code. Validation
// codes share the INVALID_ prefix and map to 400; anything unknown is a 500.
func GetHTTPStatus(code string) int {
	if status, ok := errorCodeHTTPStatus[code]; ok {
		return status
	}
	if strings.HasPrefix(code, "INVALID_") {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
