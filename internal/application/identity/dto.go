package identity

import (
	"time"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/auth"
)

// RegisterTenantInput contains the input for self-service tenant signup
type RegisterTenantInput struct {
	Code          string
	Name          string
	AdminUsername string
	AdminPassword string
	Email         string
}

// RegisterTenantResult is returned after signup; the admin is logged in
type RegisterTenantResult struct {
	Tenant TenantDTO
	User   UserDTO
	Tokens TokenResult
}

// LoginInput contains the input for user login
type LoginInput struct {
	TenantCode string
	Username   string
	Password   string
	IP         string // Client IP for login tracking
}

// LoginResult contains the result of a successful login
type LoginResult struct {
	Tokens      TokenResult
	User        UserDTO
	Permissions []string
}

// TokenResult carries an issued token pair
type TokenResult struct {
	AccessToken           string    `json:"access_token"`
	RefreshToken          string    `json:"refresh_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
	TokenType             string    `json:"token_type"`
}

func toTokenResult(p *auth.TokenPair) TokenResult {
	return TokenResult{
		AccessToken:           p.AccessToken,
		RefreshToken:          p.RefreshToken,
		AccessTokenExpiresAt:  p.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: p.RefreshTokenExpiresAt,
		TokenType:             p.TokenType,
	}
}

// LogoutInput identifies the tokens to revoke
type LogoutInput struct {
	AccessJTI    string
	AccessTTL    time.Duration
	RefreshToken string // optional
}

// CurrentUserResult contains the current user's information
type CurrentUserResult struct {
	User        UserDTO
	Tenant      TenantDTO
	Permissions []string
}

// UserDTO represents user data transfer object
type UserDTO struct {
	ID             string     `json:"id"`
	TenantID       string     `json:"tenant_id"`
	Username       string     `json:"username"`
	Email          string     `json:"email,omitempty"`
	DisplayName    string     `json:"display_name"`
	Role           string     `json:"role"`
	Status         string     `json:"status"`
	FailedAttempts int        `json:"failed_attempts"`
	LockedUntil    *time.Time `json:"locked_until,omitempty"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// ToUserDTO converts a domain user
func ToUserDTO(u *identity.User) UserDTO {
	return UserDTO{
		ID:             u.ID,
		TenantID:       u.TenantID,
		Username:       u.Username,
		Email:          u.Email,
		DisplayName:    u.DisplayNameOrUsername(),
		Role:           string(u.Role),
		Status:         string(u.Status),
		FailedAttempts: u.FailedAttempts,
		LockedUntil:    u.LockedUntil,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

// TenantDTO represents tenant data transfer object
type TenantDTO struct {
	ID           string    `json:"id"`
	Code         string    `json:"code"`
	Name         string    `json:"name"`
	Status       string    `json:"status"`
	ContactEmail string    `json:"contact_email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ToTenantDTO converts a domain tenant
func ToTenantDTO(t *identity.Tenant) TenantDTO {
	return TenantDTO{
		ID:           t.ID,
		Code:         t.Code,
		Name:         t.Name,
		Status:       string(t.Status),
		ContactEmail: t.ContactEmail,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
	}
}

// UpdateTenantInput contains the editable tenant fields
type UpdateTenantInput struct {
	Name         string
	ContactEmail string
}

// CreateUserInput contains input for creating a user
type CreateUserInput struct {
	Username    string
	Password    string
	Email       string
	DisplayName string
	Role        string
}

// UserListFilter narrows user listings
type UserListFilter struct {
	shared.Filter
	Role   string
	Status string
}

// SetOverrideInput addresses one matrix cell and its new grant
type SetOverrideInput struct {
	Role     string
	Resource string
	Action   string
	Allowed  bool
	Scope    string
}

// DeleteOverrideInput addresses one matrix cell
type DeleteOverrideInput struct {
	Role     string
	Resource string
	Action   string
}
