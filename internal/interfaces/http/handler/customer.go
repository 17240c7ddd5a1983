package handler

import (
	"context"

	appsales "github.com/erp/suite/internal/application/sales"
	"github.com/erp/suite/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// CustomerHandler handles customer-related API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *appsales.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *appsales.CustomerService) *CustomerHandler {
	return &CustomerHandler{customerService: customerService}
}

// CustomerRequest represents the body for creating or updating a customer
// @Description Request body for customer create and update
type CustomerRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=200" example:"Acme Corp"`
	Email string `json:"email" binding:"omitempty,email,max=200" example:"contact@acme.example"`
	Phone string `json:"phone" binding:"max=50" example:"+44 20 7946 0000"`
	Notes string `json:"notes" binding:"max=2000" example:"Prefers email"`
}

// CustomerListQuery narrows a customer listing
type CustomerListQuery struct {
	dto.ListRequest
	Status string `form:"status" binding:"omitempty,oneof=lead active inactive"`
}

// List godoc
// @ID           listCustomers
// @Summary      List customers
// @Description  Sales users with own scope only see customers they created
// @Tags         customers
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Search by name, code or email"
// @Param        status    query string false "Filter by status"
// @Success      200 {object} APIResponse[[]appsales.CustomerDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [get]
func (h *CustomerHandler) List(c *gin.Context) {
	var q CustomerListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.customerService.List(c.Request.Context(), appsales.CustomerListFilter{
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
// @ID           createCustomer
// @Summary      Create a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        request body CustomerRequest true "Customer details"
// @Success      201 {object} APIResponse[appsales.CustomerDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers [post]
func (h *CustomerHandler) Create(c *gin.Context) {
	var req CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Create(c.Request.Context(), appsales.CreateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, customer)
}

// Get godoc
// @ID           getCustomer
// @Summary      Get a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} APIResponse[appsales.CustomerDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [get]
func (h *CustomerHandler) Get(c *gin.Context) {
	h.respond(c, h.customerService.Get)
}

// Update godoc
// @ID           updateCustomer
// @Summary      Update a customer
// @Tags         customers
// @Accept       json
// @Produce      json
// @Param        id      path string          true "Customer ID"
// @Param        request body CustomerRequest true "Customer details"
// @Success      200 {object} APIResponse[appsales.CustomerDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [put]
func (h *CustomerHandler) Update(c *gin.Context) {
	var req CustomerRequest
	if !h.BindJSON(c, &req) {
		return
	}
	customer, err := h.customerService.Update(c.Request.Context(), c.Param("id"), appsales.UpdateCustomerInput{
		Name:  req.Name,
		Email: req.Email,
		Phone: req.Phone,
		Notes: req.Notes,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}

// Delete godoc
// @ID           deleteCustomer
// @Summary      Delete a customer
// @Tags         customers
// @Param        id path string true "Customer ID"
// @Success      204
// @Failure      403 {object} ErrorResponse
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id} [delete]
func (h *CustomerHandler) Delete(c *gin.Context) {
	if err := h.customerService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Activate godoc
// @ID           activateCustomer
// @Summary      Activate a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} APIResponse[appsales.CustomerDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/activate [post]
func (h *CustomerHandler) Activate(c *gin.Context) {
	h.respond(c, h.customerService.Activate)
}

// Deactivate godoc
// @ID           deactivateCustomer
// @Summary      Deactivate a customer
// @Tags         customers
// @Produce      json
// @Param        id path string true "Customer ID"
// @Success      200 {object} APIResponse[appsales.CustomerDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /customers/{id}/deactivate [post]
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	h.respond(c, h.customerService.Deactivate)
}

func (h *CustomerHandler) respond(c *gin.Context, op func(context.Context, string) (*appsales.CustomerDTO, error)) {
	customer, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, customer)
}
