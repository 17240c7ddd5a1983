package identity

import (
	"context"
	"errors"
	"time"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/auth"
	"github.com/erp/suite/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// AuthServiceConfig contains configuration for the auth service
type AuthServiceConfig struct {
	MaxLoginAttempts int           // Maximum failed login attempts before lock
	LockDuration     time.Duration // How long to lock account after max attempts
}

// DefaultAuthServiceConfig returns default configuration
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		MaxLoginAttempts: 5,
		LockDuration:     15 * time.Minute,
	}
}

var (
	errInvalidCredentials = shared.NewDomainError("INVALID_CREDENTIALS", "Invalid tenant, username or password")
	errTokenInvalid       = shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
)

// AuthService handles registration, authentication and token lifecycle
type AuthService struct {
	tenants   identity.TenantRepository
	users     identity.UserRepository
	policies  PolicyProvider
	jwt       *auth.JWTService
	blacklist auth.TokenBlacklist
	events    shared.EventPublisher
	metrics   *telemetry.BusinessMetrics
	config    AuthServiceConfig
	logger    *zap.Logger
}

// AuthServiceDeps bundles the collaborators of AuthService
type AuthServiceDeps struct {
	Tenants   identity.TenantRepository
	Users     identity.UserRepository
	Policies  PolicyProvider
	JWT       *auth.JWTService
	Blacklist auth.TokenBlacklist
	Events    shared.EventPublisher
	Metrics   *telemetry.BusinessMetrics
}

// NewAuthService creates a new authentication service
func NewAuthService(deps AuthServiceDeps, config AuthServiceConfig, logger *zap.Logger) *AuthService {
	return &AuthService{
		tenants:   deps.Tenants,
		users:     deps.Users,
		policies:  deps.Policies,
		jwt:       deps.JWT,
		blacklist: deps.Blacklist,
		events:    deps.Events,
		metrics:   deps.Metrics,
		config:    config,
		logger:    logger,
	}
}

// RegisterTenant creates a tenant with its first admin and logs the admin in
func (s *AuthService) RegisterTenant(ctx context.Context, input RegisterTenantInput) (*RegisterTenantResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "register_tenant", "tenant_code", input.Code)
	defer span.End()

	tenant, err := identity.NewTenant(input.Code, input.Name)
	if err != nil {
		return nil, err
	}
	if input.Email != "" {
		if err := tenant.SetContactEmail(input.Email); err != nil {
			return nil, err
		}
	}

	// build the admin before touching storage so validation cannot leave an orphan tenant
	admin, err := identity.NewUser(tenant.ID, input.AdminUsername, input.AdminPassword, identity.RoleAdmin)
	if err != nil {
		return nil, err
	}
	if input.Email != "" {
		if err := admin.SetEmail(input.Email); err != nil {
			return nil, err
		}
	}

	exists, err := s.tenants.ExistsByCode(ctx, tenant.Code)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError(shared.ErrAlreadyExists.Code, "Tenant code is already taken")
	}

	if err := s.tenants.CreateWithAdmin(ctx, tenant, admin); err != nil {
		telemetry.RecordError(span, err)
		s.logger.Error("Failed to register tenant", zap.String("tenant_code", tenant.Code), zap.Error(err))
		return nil, err
	}

	s.publish(ctx, tenant)
	s.publish(ctx, admin)

	pair, err := s.issue(admin)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Tenant registered",
		zap.String("tenant_id", tenant.ID),
		zap.String("tenant_code", tenant.Code),
		zap.String("admin_id", admin.ID))

	return &RegisterTenantResult{
		Tenant: ToTenantDTO(tenant),
		User:   ToUserDTO(admin),
		Tokens: toTokenResult(pair),
	}, nil
}

// Login authenticates a user within a tenant and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "login", "tenant_code", input.TenantCode)
	defer span.End()

	tenant, err := s.tenants.FindByCode(ctx, input.TenantCode)
	if err != nil {
		if shared.IsNotFound(err) {
			s.metrics.LoginFailed(ctx, "unknown_tenant")
			return nil, errInvalidCredentials
		}
		return nil, err
	}
	if !tenant.IsActive() {
		s.metrics.LoginFailed(ctx, "tenant_suspended")
		return nil, shared.NewDomainError("TENANT_SUSPENDED", "Tenant is suspended")
	}

	user, err := s.users.FindByUsername(ctx, tenant.ID, input.Username)
	if err != nil {
		if shared.IsNotFound(err) {
			s.logger.Warn("User not found during login",
				zap.String("tenant_id", tenant.ID),
				zap.String("username", input.Username))
			s.metrics.LoginFailed(ctx, "unknown_user")
			return nil, errInvalidCredentials
		}
		return nil, err
	}

	if !user.CanLogin() {
		if user.IsDeactivated() {
			s.metrics.LoginFailed(ctx, "deactivated")
			return nil, shared.NewDomainError("ACCOUNT_DEACTIVATED", "Account has been deactivated")
		}
		s.metrics.LoginFailed(ctx, "locked")
		return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Account is locked. Please try again later or contact an administrator")
	}

	if !user.VerifyPassword(input.Password) {
		locked := user.RecordLoginFailure(s.config.MaxLoginAttempts, s.config.LockDuration)
		if err := s.users.Save(ctx, user); err != nil {
			s.logger.Error("Failed to update user after login failure", zap.Error(err))
		}
		s.metrics.LoginFailed(ctx, "bad_password")

		if locked {
			s.logger.Warn("Account locked after too many failed attempts",
				zap.String("user_id", user.ID),
				zap.Int("attempts", user.FailedAttempts))
			return nil, shared.NewDomainError("ACCOUNT_LOCKED", "Too many failed login attempts. Account has been locked")
		}
		return nil, errInvalidCredentials
	}

	user.RecordLoginSuccess(input.IP)
	if err := s.users.Save(ctx, user); err != nil {
		// login still succeeds
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	pair, err := s.issue(user)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	permissions, err := s.permissionsFor(ctx, user)
	if err != nil {
		return nil, err
	}

	s.logger.Info("User logged in",
		zap.String("tenant_id", tenant.ID),
		zap.String("user_id", user.ID))

	return &LoginResult{
		Tokens:      toTokenResult(pair),
		User:        ToUserDTO(user),
		Permissions: permissions,
	}, nil
}

// Refresh rotates a refresh token. The old refresh token is revoked and the
// new access token carries the user's current role.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenResult, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "auth", "refresh")
	defer span.End()

	claims, err := s.jwt.ValidateRefreshToken(refreshToken)
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.checkRevoked(ctx, claims); err != nil {
		return nil, err
	}

	tenant, err := s.tenants.FindByID(ctx, claims.TenantID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, errTokenInvalid
		}
		return nil, err
	}
	if !tenant.IsActive() {
		return nil, shared.NewDomainError("TENANT_SUSPENDED", "Tenant is suspended")
	}

	user, err := s.users.FindByID(ctx, claims.TenantID, claims.UserID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, errTokenInvalid
		}
		return nil, err
	}
	if !user.CanLogin() {
		return nil, shared.NewDomainError("ACCOUNT_INACTIVE", "Account is no longer active")
	}

	pair, old, err := s.jwt.RefreshTokenPair(refreshToken, subjectOf(user))
	if err != nil {
		return nil, mapTokenError(err)
	}
	if err := s.blacklist.AddToBlacklist(ctx, old.ID, old.GetRemainingTTL()); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	s.logger.Debug("Token refreshed",
		zap.String("user_id", user.ID),
		zap.Int("refresh_count", old.RefreshCount+1))

	result := toTokenResult(pair)
	return &result, nil
}

// Logout revokes the presented access token and, if given, the refresh token
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	if input.AccessJTI != "" {
		if err := s.blacklist.AddToBlacklist(ctx, input.AccessJTI, input.AccessTTL); err != nil {
			return err
		}
	}
	if input.RefreshToken != "" {
		claims, err := s.jwt.ValidateRefreshToken(input.RefreshToken)
		if err != nil {
			// an unusable refresh token needs no revocation
			s.logger.Debug("Ignoring invalid refresh token on logout", zap.Error(err))
			return nil
		}
		if err := s.blacklist.AddToBlacklist(ctx, claims.ID, claims.GetRemainingTTL()); err != nil {
			return err
		}
	}
	return nil
}

// Me returns the current user, tenant and effective permissions
func (s *AuthService) Me(ctx context.Context) (*CurrentUserResult, error) {
	actor, err := identity.ActorFromContext(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.users.FindByID(ctx, actor.TenantID, actor.UserID)
	if err != nil {
		return nil, err
	}
	tenant, err := s.tenants.FindByID(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	permissions, err := s.permissionsFor(ctx, user)
	if err != nil {
		return nil, err
	}
	return &CurrentUserResult{
		User:        ToUserDTO(user),
		Tenant:      ToTenantDTO(tenant),
		Permissions: permissions,
	}, nil
}

func (s *AuthService) checkRevoked(ctx context.Context, claims *auth.Claims) error {
	revoked, err := s.blacklist.IsBlacklisted(ctx, claims.ID)
	if err != nil {
		return err
	}
	if revoked {
		return errTokenInvalid
	}
	invalidated, err := s.blacklist.IsUserTokenInvalidated(ctx, claims.UserID, claims.GetIssuedAtTime())
	if err != nil {
		return err
	}
	if invalidated {
		return errTokenInvalid
	}
	return nil
}

func (s *AuthService) issue(u *identity.User) (*auth.TokenPair, error) {
	pair, err := s.jwt.GenerateTokenPair(subjectOf(u))
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}
	return pair, nil
}

func (s *AuthService) permissionsFor(ctx context.Context, u *identity.User) ([]string, error) {
	policy, err := s.policies.PolicyFor(ctx, u.TenantID)
	if err != nil {
		return nil, err
	}
	return policy.PermissionCodes(u.Role), nil
}

func (s *AuthService) publish(ctx context.Context, agg shared.AggregateRoot) {
	if err := shared.PublishAndClear(ctx, s.events, agg); err != nil {
		s.logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}

func subjectOf(u *identity.User) auth.Subject {
	return auth.Subject{
		TenantID: u.TenantID,
		UserID:   u.ID,
		Username: u.Username,
		Role:     string(u.Role),
	}
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	default:
		return errTokenInvalid
	}
}
