package identity

import (
	"context"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
)

// PolicyProvider returns the effective permission matrix of a tenant
type PolicyProvider interface {
	PolicyFor(ctx context.Context, tenantID string) (*identity.Policy, error)
}

// StaticPolicy serves the same policy to every tenant
type StaticPolicy struct {
	Policy *identity.Policy
}

// PolicyFor implements PolicyProvider
func (s StaticPolicy) PolicyFor(context.Context, string) (*identity.Policy, error) {
	return s.Policy, nil
}

// Authorizer evaluates the actor on the context against the tenant policy.
// Route middleware only checks that a role holds some grant on a resource;
// the services call the Authorizer for the specific action and record.
type Authorizer struct {
	policies PolicyProvider
}

// NewAuthorizer creates an Authorizer
func NewAuthorizer(policies PolicyProvider) *Authorizer {
	return &Authorizer{policies: policies}
}

// Check authorizes an action that has no target record yet (create, list).
func (a *Authorizer) Check(ctx context.Context, resource, action string) (identity.Actor, identity.Decision, error) {
	actor, err := identity.ActorFromContext(ctx)
	if err != nil {
		return identity.Actor{}, identity.Decision{}, err
	}
	policy, err := a.policies.PolicyFor(ctx, actor.TenantID)
	if err != nil {
		return actor, identity.Decision{}, err
	}

	decision := policy.Decide(actor.Role, resource, action, true)
	if !decision.Allowed {
		return actor, decision, forbidden(decision)
	}
	return actor, decision, nil
}

// CheckRecord authorizes an action on a record created by ownerID. A read
// the actor is not entitled to looks like a missing record.
func (a *Authorizer) CheckRecord(ctx context.Context, actor identity.Actor, resource, action, ownerID string) error {
	policy, err := a.policies.PolicyFor(ctx, actor.TenantID)
	if err != nil {
		return err
	}

	decision := policy.Decide(actor.Role, resource, action, actor.Owns(ownerID))
	if decision.Allowed {
		return nil
	}
	if action == identity.ActionRead {
		return shared.ErrNotFound
	}
	return forbidden(decision)
}

// CheckOwned combines Check and CheckRecord for actions on an existing record
func (a *Authorizer) CheckOwned(ctx context.Context, resource, action, ownerID string) (identity.Actor, error) {
	actor, _, err := a.Check(ctx, resource, action)
	if err != nil {
		return actor, err
	}
	return actor, a.CheckRecord(ctx, actor, resource, action, ownerID)
}

// HasAnyAction reports whether role holds any grant on resource in tenantID
func (a *Authorizer) HasAnyAction(ctx context.Context, tenantID string, role identity.RoleCode, resource string) (bool, error) {
	policy, err := a.policies.PolicyFor(ctx, tenantID)
	if err != nil {
		return false, err
	}
	return policy.HasAnyAction(role, resource), nil
}

// ListOwner returns the created_by restriction a list query must apply, or
// "" when the decision covers every record.
func ListOwner(actor identity.Actor, decision identity.Decision) string {
	if decision.RequiresOwnership() {
		return actor.UserID
	}
	return ""
}

func forbidden(d identity.Decision) error {
	msg := "Permission denied"
	if d.Reason != "" {
		msg += ": " + d.Reason
	}
	return shared.NewDomainError(shared.ErrForbidden.Code, msg)
}
