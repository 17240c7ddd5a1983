package persistence

import (
	"context"
	"strings"

	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormTenantRepository implements identity.TenantRepository using GORM
type GormTenantRepository struct {
	db *gorm.DB
}

// NewGormTenantRepository creates a new GormTenantRepository
func NewGormTenantRepository(db *gorm.DB) *GormTenantRepository {
	return &GormTenantRepository{db: db}
}

// Create inserts a new tenant
func (r *GormTenantRepository) Create(ctx context.Context, t *identity.Tenant) error {
	return r.Save(ctx, t)
}

// CreateWithAdmin inserts the tenant and its admin user in one transaction.
// A failed user insert rolls the tenant back.
func (r *GormTenantRepository) CreateWithAdmin(ctx context.Context, t *identity.Tenant, admin *identity.User) error {
	if admin == nil || admin.TenantID != t.ID {
		return shared.NewDomainError(shared.ErrInvalidInput.Code, "Admin user must belong to the new tenant")
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveVersioned(tx, t, models.TenantModelFromDomain(t), "", t.ID); err != nil {
			return err
		}
		return saveVersioned(tx, admin, models.UserModelFromDomain(admin), admin.TenantID, admin.ID)
	})
}

// Save inserts or updates a tenant with a version check
func (r *GormTenantRepository) Save(ctx context.Context, t *identity.Tenant) error {
	return saveVersioned(r.db.WithContext(ctx), t, models.TenantModelFromDomain(t), "", t.ID)
}

// FindByID finds a tenant by ID
func (r *GormTenantRepository) FindByID(ctx context.Context, id string) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByCode finds a tenant by its unique code
func (r *GormTenantRepository) FindByCode(ctx context.Context, code string) (*identity.Tenant, error) {
	var model models.TenantModel
	if err := r.db.WithContext(ctx).
		Where("code = ?", strings.ToLower(strings.TrimSpace(code))).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsByCode checks if a tenant code is taken
func (r *GormTenantRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.TenantModel{}).
		Where("code = ?", strings.ToLower(strings.TrimSpace(code))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

var _ identity.TenantRepository = (*GormTenantRepository)(nil)
