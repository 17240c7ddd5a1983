package identity

import (
	"github.com/erp/suite/internal/domain/shared"
)

// PermissionOverride replaces one cell of the default matrix for a tenant
type PermissionOverride struct {
	shared.TenantAggregateRoot
	Role     RoleCode
	Resource string
	Action   string
	Allowed  bool
	Scope    Scope
}

// NewPermissionOverride validates and builds an override
func NewPermissionOverride(tenantID, createdBy string, role RoleCode, resource, action string, grant Grant) (*PermissionOverride, error) {
	if !role.IsValid() {
		return nil, shared.NewDomainError("INVALID_ROLE", "Unknown role: "+string(role))
	}
	if role == RoleAdmin {
		return nil, shared.NewDomainError("INVALID_INPUT", "Admin permissions cannot be overridden")
	}
	if !IsKnownPermission(resource, action) {
		return nil, shared.NewDomainError("INVALID_PERMISSION", "Unknown permission "+resource+":"+action)
	}
	if grant.Allowed && !grant.Scope.IsValid() {
		return nil, shared.NewDomainError("INVALID_SCOPE", "Scope must be 'own' or 'all'")
	}
	if !grant.Allowed {
		grant.Scope = ScopeNone
	}

	return &PermissionOverride{
		TenantAggregateRoot: shared.NewOwnedAggregateRoot(tenantID, createdBy),
		Role:                role,
		Resource:            resource,
		Action:              action,
		Allowed:             grant.Allowed,
		Scope:               grant.Scope,
	}, nil
}

// Key returns the matrix cell this override addresses
func (o *PermissionOverride) Key() PermissionKey {
	return PermissionKey{Role: o.Role, Resource: o.Resource, Action: o.Action}
}

// Grant returns the overriding grant
func (o *PermissionOverride) Grant() Grant {
	return Grant{Allowed: o.Allowed, Scope: o.Scope}
}

// Replace updates the grant in place
func (o *PermissionOverride) Replace(grant Grant) error {
	if grant.Allowed && !grant.Scope.IsValid() {
		return shared.NewDomainError("INVALID_SCOPE", "Scope must be 'own' or 'all'")
	}
	if !grant.Allowed {
		grant.Scope = ScopeNone
	}
	o.Allowed = grant.Allowed
	o.Scope = grant.Scope
	o.Touch()
	o.IncrementVersion()
	return nil
}
