package identity

import (
	"context"
	"time"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const defaultPolicyCacheTTL = 5 * time.Minute

// PermissionService manages tenant overrides of the permission matrix and
// serves the effective policy from a per-tenant cache.
type PermissionService struct {
	overrides identity.PermissionOverrideRepository
	base      *identity.Policy
	cache     *cache.Cache
	logger    *zap.Logger
	auth      *Authorizer
}

// NewPermissionService creates a PermissionService. A non-positive ttl uses
// five minutes.
func NewPermissionService(overrides identity.PermissionOverrideRepository, ttl time.Duration, logger *zap.Logger) *PermissionService {
	if ttl <= 0 {
		ttl = defaultPolicyCacheTTL
	}
	s := &PermissionService{
		overrides: overrides,
		base:      identity.DefaultPolicy(),
		cache:     cache.New(ttl, 2*ttl),
		logger:    logger,
	}
	s.auth = NewAuthorizer(s)
	return s
}

// PolicyFor returns the default matrix with the tenant's overrides applied
func (s *PermissionService) PolicyFor(ctx context.Context, tenantID string) (*identity.Policy, error) {
	if tenantID == "" {
		return nil, shared.ErrTenantRequired
	}
	if cached, ok := s.cache.Get(tenantID); ok {
		return cached.(*identity.Policy), nil
	}

	overrides, err := s.overrides.FindAll(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	policy := s.base.WithOverrides(overrides)
	s.cache.SetDefault(tenantID, policy)
	return policy, nil
}

// Invalidate drops the cached policy of a tenant
func (s *PermissionService) Invalidate(tenantID string) {
	s.cache.Delete(tenantID)
}

// Matrix returns the effective matrix of the actor's tenant
func (s *PermissionService) Matrix(ctx context.Context) ([]identity.MatrixEntry, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourcePermission, identity.ActionRead)
	if err != nil {
		return nil, err
	}
	policy, err := s.PolicyFor(ctx, actor.TenantID)
	if err != nil {
		return nil, err
	}
	return policy.Matrix(), nil
}

// PermissionsFor lists the permission codes role holds in tenantID
func (s *PermissionService) PermissionsFor(ctx context.Context, tenantID string, role identity.RoleCode) ([]string, error) {
	policy, err := s.PolicyFor(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	return policy.PermissionCodes(role), nil
}

// SetOverride creates or replaces one matrix cell for the actor's tenant
func (s *PermissionService) SetOverride(ctx context.Context, input SetOverrideInput) (*identity.MatrixEntry, error) {
	actor, _, err := s.auth.Check(ctx, identity.ResourcePermission, identity.ActionUpdate)
	if err != nil {
		return nil, err
	}

	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return nil, err
	}
	if role == identity.RoleAdmin {
		return nil, shared.NewDomainError(shared.ErrInvalidInput.Code, "Admin permissions cannot be overridden")
	}
	grant := identity.Grant{Allowed: input.Allowed, Scope: identity.Scope(input.Scope)}
	key := identity.PermissionKey{Role: role, Resource: input.Resource, Action: input.Action}

	existing, err := s.overrides.Find(ctx, actor.TenantID, key)
	switch {
	case err == nil:
		if err := existing.Replace(grant); err != nil {
			return nil, err
		}
	case shared.IsNotFound(err):
		existing, err = identity.NewPermissionOverride(actor.TenantID, actor.UserID, role, input.Resource, input.Action, grant)
		if err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	if err := s.overrides.Save(ctx, existing); err != nil {
		return nil, err
	}
	s.Invalidate(actor.TenantID)

	s.logger.Info("Permission override set",
		zap.String("tenant_id", actor.TenantID),
		zap.String("permission", key.Code()),
		zap.String("role", string(role)),
		zap.Bool("allowed", existing.Allowed),
		zap.String("scope", string(existing.Scope)))

	return &identity.MatrixEntry{
		Role:     role,
		Resource: existing.Resource,
		Action:   existing.Action,
		Grant:    existing.Grant(),
	}, nil
}

// DeleteOverride restores a cell to its default
func (s *PermissionService) DeleteOverride(ctx context.Context, input DeleteOverrideInput) error {
	actor, _, err := s.auth.Check(ctx, identity.ResourcePermission, identity.ActionUpdate)
	if err != nil {
		return err
	}
	role, err := identity.ParseRole(input.Role)
	if err != nil {
		return err
	}
	key := identity.PermissionKey{Role: role, Resource: input.Resource, Action: input.Action}

	if err := s.overrides.Delete(ctx, actor.TenantID, key); err != nil {
		return err
	}
	s.Invalidate(actor.TenantID)

	s.logger.Info("Permission override removed",
		zap.String("tenant_id", actor.TenantID),
		zap.String("permission", key.Code()),
		zap.String("role", string(role)))
	return nil
}
