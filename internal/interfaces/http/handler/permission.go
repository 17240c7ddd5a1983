package handler

import (
	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/gin-gonic/gin"
)

// PermissionHandler exposes the tenant's effective permission matrix
type PermissionHandler struct {
	BaseHandler
	permissionService *appidentity.PermissionService
}

// NewPermissionHandler creates a new PermissionHandler
func NewPermissionHandler(permissionService *appidentity.PermissionService) *PermissionHandler {
	return &PermissionHandler{permissionService: permissionService}
}

// SetOverrideRequest changes one cell of the matrix for this tenant
type SetOverrideRequest struct {
	Role     string `json:"role" binding:"required" example:"sales"`
	Resource string `json:"resource" binding:"required" example:"invoice"`
	Action   string `json:"action" binding:"required" example:"delete"`
	Allowed  bool   `json:"allowed" example:"true"`
	Scope    string `json:"scope" binding:"omitempty,oneof=own all" example:"own"`
}

// DeleteOverrideQuery addresses the cell to reset to the default policy
type DeleteOverrideQuery struct {
	Role     string `form:"role" binding:"required"`
	Resource string `form:"resource" binding:"required"`
	Action   string `form:"action" binding:"required"`
}

// Matrix godoc
// @ID           getPermissionMatrix
// @Summary      Effective permission matrix
// @Description  Default policy merged with this tenant's overrides
// @Tags         permissions
// @Produce      json
// @Success      200 {object} APIResponse[[]identity.MatrixEntry]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /permissions/matrix [get]
func (h *PermissionHandler) Matrix(c *gin.Context) {
	matrix, err := h.permissionService.Matrix(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, matrix)
}

// SetOverride godoc
// @ID           setPermissionOverride
// @Summary      Override a permission
// @Tags         permissions
// @Accept       json
// @Produce      json
// @Param        request body SetOverrideRequest true "Matrix cell and grant"
// @Success      200 {object} APIResponse[identity.MatrixEntry]
// @Failure      400 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /permissions/overrides [put]
func (h *PermissionHandler) SetOverride(c *gin.Context) {
	var req SetOverrideRequest
	if !h.BindJSON(c, &req) {
		return
	}
	entry, err := h.permissionService.SetOverride(c.Request.Context(), appidentity.SetOverrideInput{
		Role:     req.Role,
		Resource: req.Resource,
		Action:   req.Action,
		Allowed:  req.Allowed,
		Scope:    req.Scope,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, entry)
}

// DeleteOverride godoc
// @ID           deletePermissionOverride
// @Summary      Reset a permission to the default
// @Tags         permissions
// @Param        role     query string true "Role"
// @Param        resource query string true "Resource"
// @Param        action   query string true "Action"
// @Success      204
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /permissions/overrides [delete]
func (h *PermissionHandler) DeleteOverride(c *gin.Context) {
	var q DeleteOverrideQuery
	if !h.BindQuery(c, &q) {
		return
	}
	err := h.permissionService.DeleteOverride(c.Request.Context(), appidentity.DeleteOverrideInput{
		Role:     q.Role,
		Resource: q.Resource,
		Action:   q.Action,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
