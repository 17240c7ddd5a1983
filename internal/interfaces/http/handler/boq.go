package handler

import (
	appprojects "github.com/erp/suite/internal/application/projects"
	"github.com/erp/suite/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// BOQHandler handles bill-of-quantities item endpoints
type BOQHandler struct {
	BaseHandler
	boqService *appprojects.BOQService
}

// NewBOQHandler creates a new BOQHandler
func NewBOQHandler(boqService *appprojects.BOQService) *BOQHandler {
	return &BOQHandler{boqService: boqService}
}

// CreateBOQItemRequest adds a measured item to a project
type CreateBOQItemRequest struct {
	ProjectCode string          `json:"project_code" binding:"required,max=50" example:"PRJ-2026-01"`
	Code        string          `json:"code" binding:"required,max=50" example:"1.1"`
	Description string          `json:"description" binding:"required,max=500" example:"Excavation to reduced level"`
	Unit        string          `json:"unit" binding:"required,max=20" example:"m3"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string" example:"120"`
	UnitRate    decimal.Decimal `json:"unit_rate" swaggertype:"string" example:"18.50"`
}

// UpdateBOQItemRequest edits an item's measured values
type UpdateBOQItemRequest struct {
	Description string          `json:"description" binding:"required,max=500"`
	Unit        string          `json:"unit" binding:"required,max=20"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string"`
	UnitRate    decimal.Decimal `json:"unit_rate" swaggertype:"string"`
}

// ProgressRequest sets or advances progress. Exactly one field is expected.
type ProgressRequest struct {
	Percent *decimal.Decimal `json:"percent" swaggertype:"string" example:"40"`
	Delta   *decimal.Decimal `json:"delta" swaggertype:"string" example:"10"`
}

// BOQListQuery narrows a BOQ listing
type BOQListQuery struct {
	dto.ListRequest
	ProjectCode string `form:"project_code"`
}

// List godoc
// @ID           listBOQItems
// @Summary      List BOQ items
// @Tags         boq-items
// @Produce      json
// @Param        page         query int    false "Page number"
// @Param        page_size    query int    false "Page size"
// @Param        search       query string false "Search by code or description"
// @Param        project_code query string false "Filter by project"
// @Param        completed    query bool   false "Filter by completion"
// @Success      200 {object} APIResponse[[]appprojects.BOQItemDTO]
// @Security     BearerAuth
// @Router       /boq-items [get]
func (h *BOQHandler) List(c *gin.Context) {
	var q BOQListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.boqService.List(c.Request.Context(), appprojects.BOQItemListFilter{
		Filter:      q.Filter(),
		ProjectCode: q.ProjectCode,
		Completed:   parseBool(c, "completed"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createBOQItem
// @Summary      Create a BOQ item
// @Tags         boq-items
// @Accept       json
// @Produce      json
// @Param        request body CreateBOQItemRequest true "Item details"
// @Success      201 {object} APIResponse[appprojects.BOQItemDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boq-items [post]
func (h *BOQHandler) Create(c *gin.Context) {
	var req CreateBOQItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.boqService.Create(c.Request.Context(), appprojects.CreateBOQItemInput{
		ProjectCode: req.ProjectCode,
		Code:        req.Code,
		Description: req.Description,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		UnitRate:    req.UnitRate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, item)
}

// Get godoc
// @ID           getBOQItem
// @Summary      Get a BOQ item
// @Tags         boq-items
// @Produce      json
// @Param        id path string true "Item ID"
// @Success      200 {object} APIResponse[appprojects.BOQItemDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boq-items/{id} [get]
func (h *BOQHandler) Get(c *gin.Context) {
	item, err := h.boqService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Update godoc
// @ID           updateBOQItem
// @Summary      Update a BOQ item
// @Tags         boq-items
// @Accept       json
// @Produce      json
// @Param        id      path string               true "Item ID"
// @Param        request body UpdateBOQItemRequest true "Item changes"
// @Success      200 {object} APIResponse[appprojects.BOQItemDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boq-items/{id} [put]
func (h *BOQHandler) Update(c *gin.Context) {
	var req UpdateBOQItemRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.boqService.Update(c.Request.Context(), c.Param("id"), appprojects.UpdateBOQItemInput{
		Description: req.Description,
		Unit:        req.Unit,
		Quantity:    req.Quantity,
		UnitRate:    req.UnitRate,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}

// Delete godoc
// @ID           deleteBOQItem
// @Summary      Delete a BOQ item
// @Tags         boq-items
// @Param        id path string true "Item ID"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boq-items/{id} [delete]
func (h *BOQHandler) Delete(c *gin.Context) {
	if err := h.boqService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Progress godoc
// @ID           progressBOQItem
// @Summary      Record progress
// @Description  Reaching 100 percent completes the item and awards points to its creator
// @Tags         boq-items
// @Accept       json
// @Produce      json
// @Param        id      path string          true "Item ID"
// @Param        request body ProgressRequest true "Percent or delta"
// @Success      200 {object} APIResponse[appprojects.BOQItemDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /boq-items/{id}/progress [post]
func (h *BOQHandler) Progress(c *gin.Context) {
	var req ProgressRequest
	if !h.BindJSON(c, &req) {
		return
	}
	item, err := h.boqService.Progress(c.Request.Context(), c.Param("id"), appprojects.ProgressInput{
		Percent: req.Percent,
		Delta:   req.Delta,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, item)
}
