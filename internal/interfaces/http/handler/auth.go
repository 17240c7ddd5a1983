package handler

import (
	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	BaseHandler
	authService *appidentity.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *appidentity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRequest creates a tenant together with its first admin
// @Description Self-service tenant signup
type RegisterRequest struct {
	TenantCode string `json:"tenant_code" binding:"required,min=2,max=50" example:"acme"`
	TenantName string `json:"tenant_name" binding:"required,min=1,max=200" example:"Acme Construction"`
	Username   string `json:"username" binding:"required,min=3,max=100" example:"admin"`
	Password   string `json:"password" binding:"required,min=8,max=128" example:"s3cret-pass"`
	Email      string `json:"email" binding:"omitempty,email,max=200" example:"admin@acme.example"`
}

// LoginRequest represents login credentials
// @Description Login credentials scoped to a tenant code
type LoginRequest struct {
	TenantCode string `json:"tenant_code" binding:"required" example:"acme"`
	Username   string `json:"username" binding:"required" example:"admin"`
	Password   string `json:"password" binding:"required" example:"s3cret-pass"`
}

// RefreshRequest carries the refresh token to rotate
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest optionally carries the refresh token to revoke too
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is returned by register, login and me
type AuthResponse struct {
	Tenant      *appidentity.TenantDTO   `json:"tenant,omitempty"`
	User        appidentity.UserDTO      `json:"user"`
	Tokens      *appidentity.TokenResult `json:"tokens,omitempty"`
	Permissions []string                 `json:"permissions,omitempty"`
}

// Register godoc
// @ID           registerTenant
// @Summary      Register a tenant
// @Description  Create a tenant and its admin user, returning tokens for the admin
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RegisterRequest true "Signup details"
// @Success      201 {object} APIResponse[AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      409 {object} ErrorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.RegisterTenant(c.Request.Context(), appidentity.RegisterTenantInput{
		Code:          req.TenantCode,
		Name:          req.TenantName,
		AdminUsername: req.Username,
		AdminPassword: req.Password,
		Email:         req.Email,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, AuthResponse{Tenant: &result.Tenant, User: result.User, Tokens: &result.Tokens})
}

// Login godoc
// @ID           login
// @Summary      User login
// @Description  Authenticate a user within a tenant
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login credentials"
// @Success      200 {object} APIResponse[AuthResponse]
// @Failure      400 {object} ErrorResponse
// @Failure      401 {object} ErrorResponse
// @Failure      403 {object} ErrorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !h.BindJSON(c, &req) {
		return
	}

	result, err := h.authService.Login(c.Request.Context(), appidentity.LoginInput{
		TenantCode: req.TenantCode,
		Username:   req.Username,
		Password:   req.Password,
		IP:         c.ClientIP(),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, AuthResponse{User: result.User, Tokens: &result.Tokens, Permissions: result.Permissions})
}

// Refresh godoc
// @ID           refreshToken
// @Summary      Refresh tokens
// @Description  Exchange a refresh token for a new token pair
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request body RefreshRequest true "Refresh token"
// @Success      200 {object} APIResponse[appidentity.TokenResult]
// @Failure      401 {object} ErrorResponse
// @Router       /auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if !h.BindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, tokens)
}

// Logout godoc
// @ID           logout
// @Summary      Logout
// @Description  Revoke the current access token and optionally the refresh token
// @Tags         auth
// @Accept       json
// @Param        request body LogoutRequest false "Refresh token to revoke"
// @Success      204
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	// the body is optional
	_ = c.ShouldBindJSON(&req)

	input := appidentity.LogoutInput{RefreshToken: req.RefreshToken}
	if claims := middleware.GetJWTClaims(c); claims != nil {
		input.AccessJTI = claims.ID
		input.AccessTTL = claims.GetRemainingTTL()
	}

	if err := h.authService.Logout(c.Request.Context(), input); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Me godoc
// @ID           getCurrentUser
// @Summary      Current user
// @Description  Return the authenticated user, tenant and effective permissions
// @Tags         auth
// @Produce      json
// @Success      200 {object} APIResponse[AuthResponse]
// @Failure      401 {object} ErrorResponse
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	result, err := h.authService.Me(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, AuthResponse{Tenant: &result.Tenant, User: result.User, Permissions: result.Permissions})
}
