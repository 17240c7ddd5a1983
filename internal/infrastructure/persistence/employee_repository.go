package persistence

import (
	"context"

	"github.com/erp/suite/internal/domain/hr"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/persistence/models"
	"github.com/erp/suite/internal/infrastructure/persistence/tenant"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements hr.EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByID finds an employee by ID within a tenant
func (r *GormEmployeeRepository) FindByID(ctx context.Context, tenantID, id string) (*hr.Employee, error) {
	var model models.EmployeeModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists employees matching the filter
func (r *GormEmployeeRepository) FindAll(ctx context.Context, tenantID string, filter hr.EmployeeFilter) ([]*hr.Employee, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.EmployeeModel{}).Scopes(tenant.Scope(tenantID))
		if filter.Search != "" {
			p := searchPattern(filter.Search)
			q = q.Where("(LOWER(full_name) LIKE ? OR LOWER(code) LIKE ? OR LOWER(email) LIKE ?)", p, p, p)
		}
		if filter.Department != "" {
			q = q.Where("department = ?", filter.Department)
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

	var rows []models.EmployeeModel
	if err := base().Scopes(paginate(filter.Filter, EmployeeSortFields, "created_at")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return lo.Map(rows, func(m models.EmployeeModel, _ int) *hr.Employee {
		return m.ToDomain()
	}), total, nil
}

// Save inserts or updates an employee with a version check
func (r *GormEmployeeRepository) Save(ctx context.Context, e *hr.Employee) error {
	return saveVersioned(r.db.WithContext(ctx), e, models.EmployeeModelFromDomain(e), e.TenantID, e.ID)
}

// Delete deletes an employee within a tenant
func (r *GormEmployeeRepository) Delete(ctx context.Context, tenantID, id string) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		Delete(&models.EmployeeModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// GenerateCode returns the next EMP-yyyymm-NNNNN code
func (r *GormEmployeeRepository) GenerateCode(ctx context.Context, tenantID string) (string, error) {
	return nextNumber(ctx, r.db, &models.EmployeeModel{}, "code", tenantID, "EMP")
}

var _ hr.EmployeeRepository = (*GormEmployeeRepository)(nil)
