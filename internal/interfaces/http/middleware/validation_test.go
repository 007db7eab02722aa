package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestSetupValidator(t *testing.T) {
	SetupValidator()

	type payload struct {
		Category string `json:"category" binding:"required,expense_category"`
		Method   string `json:"method" binding:"omitempty,payment_method"`
	}

	r := gin.New()
	r.POST("/", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			c.String(http.StatusBadRequest, err.Error())
			return
		}
		c.Status(http.StatusOK)
	})

	bind := func(body string) *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("valid enums pass", func(t *testing.T) {
		w := bind(`{"category":"WATER","method":"CASH"}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("unknown category fails", func(t *testing.T) {
		w := bind(`{"category":"GARDENING"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		// Errors name the JSON field, not the Go field
		assert.Contains(t, w.Body.String(), "category")
	})

	t.Run("unknown method fails", func(t *testing.T) {
		w := bind(`{"category":"WATER","method":"BARTER"}`)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}
