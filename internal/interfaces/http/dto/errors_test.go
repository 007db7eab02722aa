package dto

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetHTTPStatus(t *testing.T) {
	tests := []struct {
		code     string
		expected int
	}{
		{"NOT_FOUND", http.StatusNotFound},
		{"ALREADY_EXISTS", http.StatusConflict},
		{"CONCURRENCY_CONFLICT", http.StatusConflict},
		{"ALREADY_ISSUED", http.StatusConflict},
		{"DUPLICATE_PAYMENT", http.StatusConflict},
		{"ALREADY_CLOSED", http.StatusConflict},
		{"MONTH_CLOSED", http.StatusConflict},
		{"PRIOR_MONTH_OPEN", http.StatusUnprocessableEntity},
		{"BEFORE_SYSTEM_START", http.StatusUnprocessableEntity},
		{"NO_APARTMENTS", http.StatusUnprocessableEntity},
		{"WEIGHT_OVERFLOW", http.StatusUnprocessableEntity},
		{"INVALID_AMOUNT", http.StatusBadRequest},
		{"INVALID_STRATEGY", http.StatusBadRequest},
		{"INVALID_WEIGHT", http.StatusBadRequest},
		{"BAD_REQUEST", http.StatusBadRequest},
		{"SOMETHING_ELSE", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetHTTPStatus(tt.code))
		})
	}
}

func TestResponseEnvelope(t *testing.T) {
	ok := NewSuccessResponse(map[string]string{"id": "x"})
	assert.True(t, ok.Success)
	assert.Nil(t, ok.Error)

	paged := NewSuccessResponseWithMeta([]int{1, 2, 3}, 45, 2, 20)
	assert.True(t, paged.Success)
	assert.Equal(t, 3, paged.Meta.TotalPages)

	fail := NewErrorResponseWithRequestID("NOT_FOUND", "Resource not found", "req-1")
	assert.False(t, fail.Success)
	assert.Equal(t, "req-1", fail.Error.RequestID)
}

func TestListRequestNormalize(t *testing.T) {
	var r ListRequest
	r.Normalize()
	assert.Equal(t, 1, r.Page)
	assert.Equal(t, 20, r.PageSize)
	assert.Equal(t, "created_at", r.OrderBy)
	assert.Equal(t, "desc", r.OrderDir)

	r = ListRequest{Page: 3, PageSize: 50, OrderBy: "date", OrderDir: "asc"}
	r.Normalize()
	assert.Equal(t, 3, r.Page)
	assert.Equal(t, "date", r.OrderBy)
}
