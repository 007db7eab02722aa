package handler

import (
	appledger "github.com/condoledger/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ReconciliationHandler serves ledger audit endpoints
type ReconciliationHandler struct {
	BaseHandler
	service *appledger.ReconciliationService
}

// NewReconciliationHandler creates a new ReconciliationHandler
func NewReconciliationHandler(service *appledger.ReconciliationService) *ReconciliationHandler {
	return &ReconciliationHandler{service: service}
}

// ReconcileBuilding handles POST /buildings/:id/reconcile. With fix=true,
// drifted balance caches are overwritten from the ledger replay.
func (h *ReconciliationHandler) ReconcileBuilding(c *gin.Context) {
	buildingID, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	fix := c.Query("fix") == "true"

	report, err := h.service.ReconcileBuilding(c.Request.Context(), buildingID, fix)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, report)
}

// RemoveDuplicatesRequest names the confirmed duplicates to delete
type RemoveDuplicatesRequest struct {
	TransactionIDs []uuid.UUID `json:"transaction_ids" binding:"required,min=1"`
}

// RemoveDuplicates handles POST /buildings/:id/reconcile/duplicates
func (h *ReconciliationHandler) RemoveDuplicates(c *gin.Context) {
	if _, ok := h.parseUUIDParam(c, "id"); !ok {
		return
	}
	var req RemoveDuplicatesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	result, err := h.service.RemoveDuplicates(c.Request.Context(), req.TransactionIDs)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, result)
}

// RemoveTransaction handles DELETE /transactions/:id
func (h *ReconciliationHandler) RemoveTransaction(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.service.RemoveTransaction(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
