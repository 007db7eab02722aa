package handler

import (
	"time"

	appledger "github.com/condoledger/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
)

// PeriodRequest names a calendar month
type PeriodRequest struct {
	Year  int `json:"year" binding:"required,min=2000,max=2200"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// ClosingHandler serves month-end closing endpoints
type ClosingHandler struct {
	BaseHandler
	service *appledger.ClosingService
}

// NewClosingHandler creates a new ClosingHandler
func NewClosingHandler(service *appledger.ClosingService) *ClosingHandler {
	return &ClosingHandler{service: service}
}

// CloseMonth handles POST /buildings/:id/close-month
func (h *ClosingHandler) CloseMonth(c *gin.Context) {
	buildingID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	closed, err := h.service.CloseMonth(c.Request.Context(), buildingID, req.Year, time.Month(req.Month))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, closed)
}

// ListMonthlyBalances handles GET /buildings/:id/monthly-balances
func (h *ClosingHandler) ListMonthlyBalances(c *gin.Context) {
	buildingID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	balances, err := h.service.ListMonthlyBalances(c.Request.Context(), buildingID)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, balances)
}

// RecurringHandler serves the monthly recurring charge run
type RecurringHandler struct {
	BaseHandler
	service *appledger.RecurringService
}

// NewRecurringHandler creates a new RecurringHandler
func NewRecurringHandler(service *appledger.RecurringService) *RecurringHandler {
	return &RecurringHandler{service: service}
}

// ApplyMonth handles POST /buildings/:id/recurring-charges
func (h *RecurringHandler) ApplyMonth(c *gin.Context) {
	buildingID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req PeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.ApplyMonth(c.Request.Context(), buildingID, req.Year, time.Month(req.Month))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
