package handler

import (
	appledger "github.com/condoledger/backend/internal/application/ledger"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BuildingHandler serves building and apartment management endpoints
type BuildingHandler struct {
	BaseHandler
	service *appledger.BuildingService
}

// NewBuildingHandler creates a new BuildingHandler
func NewBuildingHandler(service *appledger.BuildingService) *BuildingHandler {
	return &BuildingHandler{service: service}
}

// CreateBuildingRequest is the payload to register a building
type CreateBuildingRequest struct {
	Name                     string          `json:"name" binding:"required"`
	Address                  string          `json:"address"`
	ManagementFee            decimal.Decimal `json:"management_fee" binding:"required"`
	FinancialSystemStartDate string          `json:"financial_system_start_date" binding:"required"`
}

// CreateBuilding handles POST /buildings
func (h *BuildingHandler) CreateBuilding(c *gin.Context) {
	var req CreateBuildingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	startDate, ok := h.parseDate(c, "financial_system_start_date", req.FinancialSystemStartDate)
	if !ok {
		return
	}

	b, err := h.service.CreateBuilding(c.Request.Context(), appledger.CreateBuildingRequest{
		Name:                     req.Name,
		Address:                  req.Address,
		ManagementFee:            req.ManagementFee,
		FinancialSystemStartDate: startDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, b)
}

// ListBuildings handles GET /buildings
func (h *BuildingHandler) ListBuildings(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}

	page, err := h.service.ListBuildings(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetBuilding handles GET /buildings/:id
func (h *BuildingHandler) GetBuilding(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	b, err := h.service.GetBuilding(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// ConfigureReserveFundRequest is the payload to set a reserve fund plan
type ConfigureReserveFundRequest struct {
	Goal           decimal.Decimal `json:"goal" binding:"required"`
	DurationMonths int             `json:"duration_months" binding:"required,min=1"`
	StartDate      string          `json:"start_date" binding:"required"`
}

// ConfigureReserveFund handles PUT /buildings/:id/reserve-fund
func (h *BuildingHandler) ConfigureReserveFund(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req ConfigureReserveFundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}
	startDate, ok := h.parseDate(c, "start_date", req.StartDate)
	if !ok {
		return
	}

	b, err := h.service.ConfigureReserveFund(c.Request.Context(), appledger.ConfigureReserveFundRequest{
		BuildingID:     id,
		Goal:           req.Goal,
		DurationMonths: req.DurationMonths,
		StartDate:      startDate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, b)
}

// AddApartmentRequest is the payload to register an apartment
type AddApartmentRequest struct {
	Number             string `json:"number" binding:"required"`
	OwnerName          string `json:"owner_name" binding:"required"`
	ParticipationMills int    `json:"participation_mills" binding:"min=0,max=1000"`
	HeatingMills       int    `json:"heating_mills" binding:"min=0,max=1000"`
}

// AddApartment handles POST /buildings/:id/apartments
func (h *BuildingHandler) AddApartment(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}
	var req AddApartmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	a, err := h.service.AddApartment(c.Request.Context(), appledger.AddApartmentRequest{
		BuildingID:         id,
		Number:             req.Number,
		OwnerName:          req.OwnerName,
		ParticipationMills: req.ParticipationMills,
		HeatingMills:       req.HeatingMills,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, a)
}

// ListApartments handles GET /buildings/:id/apartments
func (h *BuildingHandler) ListApartments(c *gin.Context) {
	id, ok := h.parseUUIDParam(c, "id")
	if !ok {
		return
	}

	apartments, err := h.service.ListApartments(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, apartments)
}
