package handler

import (
	"context"

	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
)

// UserHandler handles user administration within a tenant
type UserHandler struct {
	BaseHandler
	userService *appidentity.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(userService *appidentity.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// CreateUserRequest represents a request to add a user to the tenant
type CreateUserRequest struct {
	Username    string `json:"username" binding:"required,min=3,max=100" example:"jdoe"`
	Password    string `json:"password" binding:"required,min=8,max=128" example:"s3cret-pass"`
	Email       string `json:"email" binding:"omitempty,email,max=200" example:"jdoe@acme.example"`
	DisplayName string `json:"display_name" binding:"max=200" example:"Jane Doe"`
	Role        string `json:"role" binding:"required,role" example:"sales"`
}

// ChangeRoleRequest assigns a new role
type ChangeRoleRequest struct {
	Role string `json:"role" binding:"required,role" example:"accountant"`
}

// UserListQuery narrows a user listing
type UserListQuery struct {
	dto.ListRequest
	Role   string `form:"role"`
	Status string `form:"status"`
}

// List godoc
// @ID           listUsers
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        page      query int    false "Page number"
// @Param        page_size query int    false "Page size"
// @Param        search    query string false "Search by username or email"
// @Param        role      query string false "Filter by role"
// @Param        status    query string false "Filter by status"
// @Success      200 {object} APIResponse[[]appidentity.UserDTO]
// @Failure      403 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [get]
func (h *UserHandler) List(c *gin.Context) {
	var q UserListQuery
	if !h.BindQuery(c, &q) {
		return
	}
	page, err := h.userService.List(c.Request.Context(), appidentity.UserListFilter{
		Filter: q.Filter(),
		Role:   q.Role,
		Status: q.Status,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	respondPage(c, page)
}

// Create godoc
// @ID           createUser
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "User details"
// @Success      201 {object} APIResponse[appidentity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req CreateUserRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.userService.Create(c.Request.Context(), appidentity.CreateUserInput{
		Username:    req.Username,
		Password:    req.Password,
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Role:        req.Role,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, user)
}

// Get godoc
// @ID           getUser
// @Summary      Get a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Failure      404 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	h.respond(c, h.userService.Get)
}

// ChangeRole godoc
// @ID           changeUserRole
// @Summary      Change a user's role
// @Description  Existing tokens of the user are invalidated
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id      path string            true "User ID"
// @Param        request body ChangeRoleRequest true "New role"
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Failure      400 {object} ErrorResponse
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/role [put]
func (h *UserHandler) ChangeRole(c *gin.Context) {
	var req ChangeRoleRequest
	if !h.BindJSON(c, &req) {
		return
	}
	user, err := h.userService.ChangeRole(c.Request.Context(), c.Param("id"), req.Role)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}

// Deactivate godoc
// @ID           deactivateUser
// @Summary      Deactivate a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Failure      422 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /users/{id}/deactivate [post]
func (h *UserHandler) Deactivate(c *gin.Context) {
	h.respond(c, h.userService.Deactivate)
}

// Activate godoc
// @ID           activateUser
// @Summary      Activate a user
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Security     BearerAuth
// @Router       /users/{id}/activate [post]
func (h *UserHandler) Activate(c *gin.Context) {
	h.respond(c, h.userService.Activate)
}

// Unlock godoc
// @ID           unlockUser
// @Summary      Clear a login lockout
// @Tags         users
// @Produce      json
// @Param        id path string true "User ID"
// @Success      200 {object} APIResponse[appidentity.UserDTO]
// @Security     BearerAuth
// @Router       /users/{id}/unlock [post]
func (h *UserHandler) Unlock(c *gin.Context) {
	h.respond(c, h.userService.Unlock)
}

func (h *UserHandler) respond(c *gin.Context, op func(context.Context, string) (*appidentity.UserDTO, error)) {
	user, err := op(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, user)
}
