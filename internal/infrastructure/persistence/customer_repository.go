package persistence

import (
	"context"

	"github.com/erp/suite/internal/domain/sales"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/persistence/datascope"
	"github.com/erp/suite/internal/infrastructure/persistence/models"
	"github.com/erp/suite/internal/infrastructure/persistence/tenant"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormCustomerRepository implements sales.CustomerRepository using GORM
type GormCustomerRepository struct {
	db *gorm.DB
}

// NewGormCustomerRepository creates a new GormCustomerRepository
func NewGormCustomerRepository(db *gorm.DB) *GormCustomerRepository {
	return &GormCustomerRepository{db: db}
}

// FindByID finds a customer by ID within a tenant
func (r *GormCustomerRepository) FindByID(ctx context.Context, tenantID, id string) (*sales.Customer, error) {
	var model models.CustomerModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists customers matching the filter
func (r *GormCustomerRepository) FindAll(ctx context.Context, tenantID string, filter sales.CustomerFilter) ([]*sales.Customer, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.CustomerModel{}).
			Scopes(tenant.Scope(tenantID), datascope.OwnedBy(filter.OwnerID))
		if filter.Search != "" {
			p := searchPattern(filter.Search)
			q = q.Where("(LOWER(name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(email) LIKE ?)", p, p, p)
		}
		if filter.Status != nil {
			q = q.Where("status = ?", *filter.Status)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.CustomerModel
	if err := base().Scopes(paginate(filter.Filter, CustomerSortFields, "created_at")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return lo.Map(rows, func(m models.CustomerModel, _ int) *sales.Customer {
		return m.ToDomain()
	}), total, nil
}

// Exists reports whether the customer exists in the tenant
func (r *GormCustomerRepository) Exists(ctx context.Context, tenantID, id string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.CustomerModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts or updates a customer with a version check
func (r *GormCustomerRepository) Save(ctx context.Context, c *sales.Customer) error {
	return saveVersioned(r.db.WithContext(ctx), c, models.CustomerModelFromDomain(c), c.TenantID, c.ID)
}

// Delete deletes a customer within a tenant
func (r *GormCustomerRepository) Delete(ctx context.Context, tenantID, id string) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		Delete(&models.CustomerModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GenerateCode returns the next CUS-yyyymm-NNNNN code
func (r *GormCustomerRepository) GenerateCode(ctx context.Context, tenantID string) (string, error) {
	return nextNumber(ctx, r.db, &models.CustomerModel{}, "code", tenantID, "CUS")
}

var _ sales.CustomerRepository = (*GormCustomerRepository)(nil)
