package identity

import (
	"github.com/erp/suite/internal/domain/shared"
)

// Aggregate types
const (
	AggregateTypeTenant = "Tenant"
	AggregateTypeUser   = "User"
)

// Identity domain event types
const (
	EventTypeTenantCreated   = "TenantCreated"
	EventTypeUserCreated     = "UserCreated"
	EventTypeUserRoleChanged = "UserRoleChanged"
	EventTypeUserDeactivated = "UserDeactivated"
)

// TenantCreatedEvent is published when a tenant is registered
type TenantCreatedEvent struct {
	shared.EventMeta
	Code string `json:"code"`
	Name string `json:"name"`
}

// NewTenantCreatedEvent creates a new TenantCreatedEvent
func NewTenantCreatedEvent(t *Tenant) *TenantCreatedEvent {
	return &TenantCreatedEvent{
		EventMeta: shared.NewEventMeta(EventTypeTenantCreated, AggregateTypeTenant, t.ID, t.ID),
		Code:      t.Code,
		Name:      t.Name,
	}
}

// UserCreatedEvent is published when a user is created
type UserCreatedEvent struct {
	shared.EventMeta
	Username string   `json:"username"`
	Role     RoleCode `json:"role"`
}

// NewUserCreatedEvent creates a new UserCreatedEvent
func NewUserCreatedEvent(u *User) *UserCreatedEvent {
	return &UserCreatedEvent{
		EventMeta: shared.NewEventMeta(EventTypeUserCreated, AggregateTypeUser, u.ID, u.TenantID),
		Username:  u.Username,
		Role:      u.Role,
	}
}

// UserRoleChangedEvent is published when a user's role changes
type UserRoleChangedEvent struct {
	shared.EventMeta
	OldRole RoleCode `json:"old_role"`
	NewRole RoleCode `json:"new_role"`
}

// NewUserRoleChangedEvent creates a new UserRoleChangedEvent
func NewUserRoleChangedEvent(u *User, old RoleCode) *UserRoleChangedEvent {
	return &UserRoleChangedEvent{
		EventMeta: shared.NewEventMeta(EventTypeUserRoleChanged, AggregateTypeUser, u.ID, u.TenantID),
		OldRole:   old,
		NewRole:   u.Role,
	}
}

// UserDeactivatedEvent is published when a user is deactivated
type UserDeactivatedEvent struct {
	shared.EventMeta
	Username string `json:"username"`
}

// NewUserDeactivatedEvent creates a new UserDeactivatedEvent
func NewUserDeactivatedEvent(u *User) *UserDeactivatedEvent {
	return &UserDeactivatedEvent{
		EventMeta: shared.NewEventMeta(EventTypeUserDeactivated, AggregateTypeUser, u.ID, u.TenantID),
		Username:  u.Username,
	}
}
