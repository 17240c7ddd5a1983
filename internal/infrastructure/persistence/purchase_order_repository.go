package persistence

import (
	"context"

	"github.com/erp/suite/internal/domain/procurement"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/persistence/datascope"
	"github.com/erp/suite/internal/infrastructure/persistence/models"
	"github.com/erp/suite/internal/infrastructure/persistence/tenant"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormPurchaseOrderRepository implements procurement.PurchaseOrderRepository using GORM
type GormPurchaseOrderRepository struct {
	db *gorm.DB
}

// NewGormPurchaseOrderRepository creates a new GormPurchaseOrderRepository
func NewGormPurchaseOrderRepository(db *gorm.DB) *GormPurchaseOrderRepository {
	return &GormPurchaseOrderRepository{db: db}
}

func preloadOrderLines(tenantID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload("Lines", func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(tenant.Scope(tenantID)).Order("position ASC")
		})
	}
}

// FindByID loads a purchase order with its lines
func (r *GormPurchaseOrderRepository) FindByID(ctx context.Context, tenantID, id string) (*procurement.PurchaseOrder, error) {
	var model models.PurchaseOrderModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), preloadOrderLines(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists purchase orders visible to filter.ViewerID
func (r *GormPurchaseOrderRepository) FindAll(ctx context.Context, tenantID string, filter procurement.PurchaseOrderFilter) ([]*procurement.PurchaseOrder, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.PurchaseOrderModel{}).Scopes(
			tenant.Scope(tenantID),
			datascope.PrivateDrafts(string(procurement.PurchaseOrderStatusDraft), filter.ViewerID),
			datascope.OwnedBy(filter.OwnerID),
		)
		if filter.Search != "" {
			p := searchPattern(filter.Search)
			q = q.Where("(LOWER(number) LIKE ? OR LOWER(supplier) LIKE ?)", p, p)
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

	var rows []models.PurchaseOrderModel
	if err := base().
		Scopes(paginate(filter.Filter, PurchaseOrderSortFields, "created_at"), preloadOrderLines(tenantID)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return lo.Map(rows, func(m models.PurchaseOrderModel, _ int) *procurement.PurchaseOrder {
		return m.ToDomain()
	}), total, nil
}

// SaveWithLock inserts a new order with its lines, or updates the header of an
// existing one guarded by version. Lines are fixed once the order exists.
func (r *GormPurchaseOrderRepository) SaveWithLock(ctx context.Context, po *procurement.PurchaseOrder) error {
	model := models.PurchaseOrderModelFromDomain(po)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		isNew := po.IsNew()
		if err := saveVersioned(tx, po, model, po.TenantID, po.ID); err != nil {
			return err
		}
		if !isNew || len(model.Lines) == 0 {
			return nil
		}
		return tx.Create(&model.Lines).Error
	})
}

// Delete removes a purchase order and its lines
func (r *GormPurchaseOrderRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenant.Scope(tenantID)).
			Where("purchase_order_id = ?", id).
			Delete(&models.PurchaseOrderLineModel{}).Error; err != nil {
			return err
		}
		result := tx.Scopes(tenant.Scope(tenantID)).
			Where("id = ?", id).
			Delete(&models.PurchaseOrderModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// GenerateNumber returns the next PO-yyyymm-NNNNN number
func (r *GormPurchaseOrderRepository) GenerateNumber(ctx context.Context, tenantID string) (string, error) {
	return nextNumber(ctx, r.db, &models.PurchaseOrderModel{}, "number", tenantID, "PO")
}

var _ procurement.PurchaseOrderRepository = (*GormPurchaseOrderRepository)(nil)
