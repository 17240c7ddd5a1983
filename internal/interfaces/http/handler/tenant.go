package handler

import (
	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// TenantHandler exposes the caller's own tenant
type TenantHandler struct {
	BaseHandler
	tenantService *appidentity.TenantService
}

// NewTenantHandler creates a new TenantHandler
func NewTenantHandler(tenantService *appidentity.TenantService) *TenantHandler {
	return &TenantHandler{tenantService: tenantService}
}

// UpdateTenantRequest contains the editable tenant fields
type UpdateTenantRequest struct {
	Name         string `json:"name" binding:"required,min=1,max=200" example:"Acme Construction Ltd"`
	ContactEmail string `json:"contact_email" binding:"omitempty,email,max=200" example:"ops@acme.example"`
}

// Get godoc
// @ID           getTenant
// @Summary      Get current tenant
// @Tags         tenant
// @Produce      json
// @Success      200 {object} APIResponse[appidentity.TenantDTO]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant [get]
func (h *TenantHandler) Get(c *gin.Context) {
	tenant, err := h.tenantService.Get(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}

// Update godoc
// @ID           updateTenant
// @Summary      Update current tenant
// @Tags         tenant
// @Accept       json
// @Produce      json
// @Param        request body UpdateTenantRequest true "Tenant fields"
// @Success      200 {object} APIResponse[appidentity.TenantDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /tenant [put]
func (h *TenantHandler) Update(c *gin.Context) {
	var req UpdateTenantRequest
	if !h.BindJSON(c, &req) {
		return
	}
	tenant, err := h.tenantService.Update(c.Request.Context(), appidentity.UpdateTenantInput{
		Name:         req.Name,
		ContactEmail: req.ContactEmail,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tenant)
}
