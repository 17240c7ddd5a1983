package persistence

import (
	"context"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/persistence/models"
	"github.com/erp/suite/internal/infrastructure/persistence/tenant"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormPermissionOverrideRepository implements identity.PermissionOverrideRepository
type GormPermissionOverrideRepository struct {
	db *gorm.DB
}

// NewGormPermissionOverrideRepository creates a new GormPermissionOverrideRepository
func NewGormPermissionOverrideRepository(db *gorm.DB) *GormPermissionOverrideRepository {
	return &GormPermissionOverrideRepository{db: db}
}

// FindAll returns every override of a tenant
func (r *GormPermissionOverrideRepository) FindAll(ctx context.Context, tenantID string) ([]*identity.PermissionOverride, error) {
	var rows []models.PermissionOverrideModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Order("role, resource, action").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return lo.Map(rows, func(m models.PermissionOverrideModel, _ int) *identity.PermissionOverride {
		return m.ToDomain()
	}), nil
}

// Find returns the override for one matrix cell
func (r *GormPermissionOverrideRepository) Find(ctx context.Context, tenantID string, key identity.PermissionKey) (*identity.PermissionOverride, error) {
	var model models.PermissionOverrideModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("role = ? AND resource = ? AND action = ?", key.Role, key.Resource, key.Action).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// Save inserts or updates an override
func (r *GormPermissionOverrideRepository) Save(ctx context.Context, o *identity.PermissionOverride) error {
	return saveVersioned(r.db.WithContext(ctx), o, models.PermissionOverrideModelFromDomain(o), o.TenantID, o.ID)
}

// Delete removes the override for one matrix cell
func (r *GormPermissionOverrideRepository) Delete(ctx context.Context, tenantID string, key identity.PermissionKey) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("role = ? AND resource = ? AND action = ?", key.Role, key.Resource, key.Action).
		Delete(&models.PermissionOverrideModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ identity.PermissionOverrideRepository = (*GormPermissionOverrideRepository)(nil)
