package identity

import (
	"context"

	"github.com/erp/suite/internal/domain/shared"
)

// Actor is the authenticated principal of a request
type Actor struct {
	TenantID string
	UserID   string
	Username string
	Role     RoleCode
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// Owns reports whether the actor created a record with the given owner
func (a Actor) Owns(createdBy string) bool {
	return a.UserID != "" && a.UserID == createdBy
}

type actorKey struct{}

// WithActor stores the actor on the context
func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFromContext returns the actor, failing when no tenant-bound actor is present
func ActorFromContext(ctx context.Context) (Actor, error) {
	a, ok := ctx.Value(actorKey{}).(Actor)
	if !ok || a.UserID == "" {
		return Actor{}, shared.ErrUnauthorized
	}
	if a.TenantID == "" {
		return Actor{}, shared.ErrTenantRequired
	}
	return a, nil
}
