package identity

import (
	"context"

	"github.com/erp/suite/internal/domain/shared"
)

// TenantRepository persists tenants
type TenantRepository interface {
	Create(ctx context.Context, tenant *Tenant) error
	// CreateWithAdmin stores a new tenant and its first user atomically
	CreateWithAdmin(ctx context.Context, tenant *Tenant, admin *User) error
	Save(ctx context.Context, tenant *Tenant) error
	FindByID(ctx context.Context, id string) (*Tenant, error)
	FindByCode(ctx context.Context, code string) (*Tenant, error)
	ExistsByCode(ctx context.Context, code string) (bool, error)
}

// UserRepository persists users within a tenant
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	Save(ctx context.Context, user *User) error
	FindByID(ctx context.Context, tenantID, id string) (*User, error)
	FindByUsername(ctx context.Context, tenantID, username string) (*User, error)
	FindAll(ctx context.Context, tenantID string, filter UserFilter) ([]*User, int64, error)
	ExistsByUsername(ctx context.Context, tenantID, username string) (bool, error)
}

// UserFilter contains filter options for querying users
type UserFilter struct {
	shared.Filter
	Role   *RoleCode
	Status *UserStatus
}

// PermissionOverrideRepository persists tenant matrix overrides
type PermissionOverrideRepository interface {
	FindAll(ctx context.Context, tenantID string) ([]*PermissionOverride, error)
	Find(ctx context.Context, tenantID string, key PermissionKey) (*PermissionOverride, error)
	Save(ctx context.Context, override *PermissionOverride) error
	Delete(ctx context.Context, tenantID string, key PermissionKey) error
}
