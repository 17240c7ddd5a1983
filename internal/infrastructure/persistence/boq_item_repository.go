package persistence

import (
	"context"

	"github.com/erp/suite/internal/domain/projects"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/persistence/datascope"
	"github.com/erp/suite/internal/infrastructure/persistence/models"
	"github.com/erp/suite/internal/infrastructure/persistence/tenant"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormBOQItemRepository implements projects.BOQItemRepository using GORM
type GormBOQItemRepository struct {
	db *gorm.DB
}

// NewGormBOQItemRepository creates a new GormBOQItemRepository
func NewGormBOQItemRepository(db *gorm.DB) *GormBOQItemRepository {
	return &GormBOQItemRepository{db: db}
}

// FindByID finds a BOQ item by ID within a tenant
func (r *GormBOQItemRepository) FindByID(ctx context.Context, tenantID, id string) (*projects.BOQItem, error) {
	var model models.BOQItemModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists BOQ items matching the filter
func (r *GormBOQItemRepository) FindAll(ctx context.Context, tenantID string, filter projects.BOQItemFilter) ([]*projects.BOQItem, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.BOQItemModel{}).
			Scopes(tenant.Scope(tenantID), datascope.OwnedBy(filter.OwnerID))
		if filter.ProjectCode != "" {
			q = q.Where("project_code = ?", filter.ProjectCode)
		}
		if filter.Search != "" {
			p := searchPattern(filter.Search)
			q = q.Where("(LOWER(code) LIKE ? OR LOWER(description) LIKE ?)", p, p)
		}
		if filter.Completed != nil {
			if *filter.Completed {
				q = q.Where("completed_at IS NOT NULL")
			} else {
				q = q.Where("completed_at IS NULL")
			}
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.BOQItemModel
	if err := base().Scopes(paginate(filter.Filter, BOQItemSortFields, "created_at")).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return lo.Map(rows, func(m models.BOQItemModel, _ int) *projects.BOQItem {
		return m.ToDomain()
	}), total, nil
}

// ExistsByCode checks whether a project already has an item with code
func (r *GormBOQItemRepository) ExistsByCode(ctx context.Context, tenantID, projectCode, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.BOQItemModel{}).
		Scopes(tenant.Scope(tenantID)).
		Where("project_code = ? AND code = ?", projectCode, code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts or updates a BOQ item with a version check
func (r *GormBOQItemRepository) Save(ctx context.Context, b *projects.BOQItem) error {
	return saveVersioned(r.db.WithContext(ctx), b, models.BOQItemModelFromDomain(b), b.TenantID, b.ID)
}

// Delete deletes a BOQ item within a tenant
func (r *GormBOQItemRepository) Delete(ctx context.Context, tenantID, id string) error {
	result := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID)).
		Where("id = ?", id).
		Delete(&models.BOQItemModel{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

var _ projects.BOQItemRepository = (*GormBOQItemRepository)(nil)
