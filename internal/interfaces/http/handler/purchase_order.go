package handler

import (
	"context"

	appprocurement "github.com/erp/suite/internal/application/procurement"
	"github.com/erp/suite/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PurchaseOrderHandler handles purchase order endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *appprocurement.PurchaseOrderService
}

// NewPurchaseOrderHandler creates a new PurchaseOrderHandler
func NewPurchaseOrderHandler(orderService *appprocurement.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// PurchaseOrderLineRequest is one ordered item
type PurchaseOrderLineRequest struct {
	Description string          `json:"description" binding:"required,max=500" example:"Ready-mix concrete C30"`
	Quantity    decimal.Decimal `json:"quantity" swaggertype:"string" example:"12"`
	UnitCost    decimal.Decimal `json:"unit_cost" swaggertype:"string" example:"95.00"`
}

// CreatePurchaseOrderRequest drafts a purchase order
type CreatePurchaseOrderRequest struct {
	Supplier string                     `json:"supplier" binding:"required,max=200" example:"Northern Aggregates"`
	Lines    []PurchaseOrderLineRequest `json:"lines" binding:"omitempty,dive"`
}

// CancelPurchaseOrderRequest carries the cancellation reason
type CancelPurchaseOrderRequest struct {
	Reason string `json:"reason" binding:"required,max=500" example:"Supplier cannot deliver"`
}

// PurchaseOrderListQuery narrows a purchase order listing
type PurchaseOrderListQuery struct {
	dto.ListRequest
	Status string `form:"status"`
}

// List godoc
// @ID           listPurchaseOrders
// @Summary      List purchase orders
// @Tags         purchase-orders
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Search by number or supplier"
// @Param        status    query string false "DRAFT, APPROVED, RECEIVED or CANCELLED"
// @Success      200 {object} APIResponse[[]appprocurement.PurchaseOrderDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders [get]
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	var q PurchaseOrderListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.orderService.List(c.Request.Context(), appprocurement.PurchaseOrderListFilter{
		Filter: q.Filter(),
		Status: q.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createPurchaseOrder
// @Summary      Draft a purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        request body CreatePurchaseOrderRequest true "Order details"
// @Success      201 {object} APIResponse[appprocurement.PurchaseOrderDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders [post]
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	var req CreatePurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Create(c.Request.Context(), appprocurement.CreatePurchaseOrderInput{
		Supplier: req.Supplier,
		Lines: lo.Map(req.Lines, func(l PurchaseOrderLineRequest, _ int) appprocurement.PurchaseOrderLineInput {
			return appprocurement.PurchaseOrderLineInput{
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitCost:    l.UnitCost,
			}
		}),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, order)
}

// Get godoc
// @ID           getPurchaseOrder
// @Summary      Get a purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[appprocurement.PurchaseOrderDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [get]
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
	h.respond(c, h.orderService.Get)
}

// Delete godoc
// @ID           deletePurchaseOrder
// @Summary      Delete a draft purchase order
// @Tags         purchase-orders
// @Param        id path string true "Order ID"
// @Success      204
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id} [delete]
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	if err := h.orderService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Approve godoc
// @ID           approvePurchaseOrder
// @Summary      Approve a draft purchase order
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[appprocurement.PurchaseOrderDTO]
// @Failure      403 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/approve [post]
func (h *PurchaseOrderHandler) Approve(c *gin.Context) {
	h.respond(c, h.orderService.Approve)
}

// Receive godoc
// @ID           receivePurchaseOrder
// @Summary      Mark an approved purchase order received
// @Tags         purchase-orders
// @Produce      json
// @Param        id path string true "Order ID"
// @Success      200 {object} APIResponse[appprocurement.PurchaseOrderDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/receive [post]
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	h.respond(c, h.orderService.Receive)
}

// Cancel godoc
// @ID           cancelPurchaseOrder
// @Summary      Cancel a purchase order
// @Tags         purchase-orders
// @Accept       json
// @Produce      json
// @Param        id      path string                     true "Order ID"
// @Param        request body CancelPurchaseOrderRequest true "Reason"
// @Success      200 {object} APIResponse[appprocurement.PurchaseOrderDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /purchase-orders/{id}/cancel [post]
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	var req CancelPurchaseOrderRequest
	if !h.BindJSON(c, &req) {
		return
	}
	order, err := h.orderService.Cancel(c.Request.Context(), c.Param("id"), req.Reason)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}

func (h *PurchaseOrderHandler) respond(c *gin.Context, op func(context.Context, string) (*appprocurement.PurchaseOrderDTO, error)) {
	order, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, order)
}
