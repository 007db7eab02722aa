package handler

import (
	appledger "github.com/condoledger/backend/internal/application/ledger"
	"github.com/condoledger/backend/internal/domain/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ExpenseHandler serves expense recording and allocation endpoints
type ExpenseHandler struct {
	BaseHandler
	service *appledger.ExpenseService
}

// NewExpenseHandler creates a new ExpenseHandler
func NewExpenseHandler(service *appledger.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{service: service}
}

// CreateExpenseRequest is the payload to record an expense
type CreateExpenseRequest struct {
	Amount       decimal.Decimal `json:"amount" binding:"required"`
	Date         string          `json:"date" binding:"required"`
	Category     string          `json:"category" binding:"required,expense_category"`
	Strategy     string          `json:"distribution_strategy" binding:"required,distribution_strategy"`
	ApartmentIDs []uuid.UUID     `json:"apartment_ids"`
	Description  string          `json:"description"`
}

// CreateExpense handles POST /buildings/:id/expenses
func (h *ExpenseHandler) CreateExpense(c *gin.Context) {
	buildingID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req CreateExpenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	date, ok := h.parseDate(c, "date", req.Date)
	if !ok {
		return
	}

	e, err := h.service.CreateExpense(c.Request.Context(), appledger.CreateExpenseRequest{
		BuildingID:   buildingID,
		Amount:       req.Amount,
		Date:         date,
		Category:     ledger.ExpenseCategory(req.Category),
		Strategy:     ledger.DistributionStrategy(req.Strategy),
		ApartmentIDs: ledger.UUIDList(req.ApartmentIDs),
		Description:  req.Description,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, e)
}

// ListExpenses handles GET /buildings/:id/expenses
func (h *ExpenseHandler) ListExpenses(c *gin.Context) {
	buildingID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListExpenses(c.Request.Context(), buildingID, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetExpense handles GET /expenses/:id
func (h *ExpenseHandler) GetExpense(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	e, err := h.service.GetExpense(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, e)
}

// AllocateExpense handles POST /expenses/:id/allocate
func (h *ExpenseHandler) AllocateExpense(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	result, err := h.service.AllocateExpense(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}
