package handler

import (
	"time"

	appledger "github.com/condoledger/backend/internal/application/ledger"
	"github.com/condoledger/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentHandler serves payment registration and recording endpoints
type PaymentHandler struct {
	BaseHandler
	service *appledger.PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service *appledger.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// CreatePaymentRequest is the payload to register a received payment
type CreatePaymentRequest struct {
	Amount    decimal.Decimal `json:"amount" binding:"required"`
	Date      string          `json:"date" binding:"required"`
	Method    string          `json:"method" binding:"required,payment_method"`
	Reference string          `json:"reference"`
}

// CreatePayment handles POST /apartments/:id/payments
func (h *PaymentHandler) CreatePayment(c *gin.Context) {
	apartmentID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	date, ok := h.parseDate(c, "date", req.Date)
	if !ok {
		return
	}

	p, err := h.service.CreatePayment(c.Request.Context(), appledger.CreatePaymentRequest{
		ApartmentID: apartmentID,
		Amount:      req.Amount,
		Date:        date,
		Method:      ledger.PaymentMethod(req.Method),
		Reference:   req.Reference,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, p)
}

// RecordPayment handles POST /payments/:id/record
func (h *PaymentHandler) RecordPayment(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	credit, err := h.service.RecordPayment(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, credit)
}

// ListPayments handles GET /apartments/:id/payments
func (h *PaymentHandler) ListPayments(c *gin.Context) {
	apartmentID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListPayments(c.Request.Context(), apartmentID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// BalanceHandler serves apartment balance and ledger endpoints
type BalanceHandler struct {
	BaseHandler
	service *appledger.BalanceService
}

// NewBalanceHandler creates a new BalanceHandler
func NewBalanceHandler(service *appledger.BalanceService) *BalanceHandler {
	return &BalanceHandler{service: service}
}

// GetBalance handles GET /apartments/:id/balance. An as_of query parameter
// replays the ledger up to that date instead of reading the cache.
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	apartmentID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	var asOf *time.Time
	if raw := c.Query("as_of"); raw != "" {
		t, ok := h.parseDate(c, "as_of", raw)
		if !ok {
			return
		}
		asOf = &t
	}

	result, err := h.service.GetBalance(c.Request.Context(), apartmentID, asOf)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// ListTransactions handles GET /apartments/:id/transactions
func (h *BalanceHandler) ListTransactions(c *gin.Context) {
	apartmentID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListTransactions(c.Request.Context(), apartmentID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}
