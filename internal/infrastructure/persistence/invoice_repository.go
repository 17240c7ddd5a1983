package persistence

import (
	"context"

	"github.com/erp/suite/internal/domain/accounts"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/persistence/datascope"
	"github.com/erp/suite/internal/infrastructure/persistence/models"
	"github.com/erp/suite/internal/infrastructure/persistence/tenant"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements accounts.InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

func preloadInvoiceLines(tenantID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Preload("Lines", func(tx *gorm.DB) *gorm.DB {
			return tx.Scopes(tenant.Scope(tenantID)).Order("position ASC")
		})
	}
}

// FindByID loads an invoice with its lines. Visibility of drafts is the
// caller's decision.
func (r *GormInvoiceRepository) FindByID(ctx context.Context, tenantID, id string) (*accounts.Invoice, error) {
	var model models.InvoiceModel
	if err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(tenantID), preloadInvoiceLines(tenantID)).
		Where("id = ?", id).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindAll lists invoices visible to filter.ViewerID
func (r *GormInvoiceRepository) FindAll(ctx context.Context, tenantID string, filter accounts.InvoiceFilter) ([]*accounts.Invoice, int64, error) {
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&models.InvoiceModel{}).Scopes(
			tenant.Scope(tenantID),
			datascope.PrivateDrafts(string(accounts.InvoiceStatusDraft), filter.ViewerID),
			datascope.OwnedBy(filter.OwnerID),
		)
		if filter.Search != "" {
			q = q.Where("LOWER(number) LIKE ?", searchPattern(filter.Search))
		}
		if filter.Status != nil {
			q = q.Where("status = ?", *filter.Status)
		}
		if filter.CustomerID != "" {
			q = q.Where("customer_id = ?", filter.CustomerID)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var rows []models.InvoiceModel
	if err := base().
		Scopes(paginate(filter.Filter, InvoiceSortFields, "created_at"), preloadInvoiceLines(tenantID)).
		Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	return lo.Map(rows, func(m models.InvoiceModel, _ int) *accounts.Invoice {
		return m.ToDomain()
	}), total, nil
}

// SaveWithLock writes the header guarded by version and replaces the lines
// in the same transaction
func (r *GormInvoiceRepository) SaveWithLock(ctx context.Context, inv *accounts.Invoice) error {
	model := models.InvoiceModelFromDomain(inv)
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		isNew := inv.IsNew()
		if err := saveVersioned(tx, inv, model, inv.TenantID, inv.ID); err != nil {
			return err
		}
		if !isNew {
			if err := tx.Scopes(tenant.Scope(inv.TenantID)).
				Where("invoice_id = ?", inv.ID).
				Delete(&models.InvoiceLineModel{}).Error; err != nil {
				return err
			}
		}
		if len(model.Lines) == 0 {
			return nil
		}
		return tx.Create(&model.Lines).Error
	})
}

// Delete removes an invoice and its lines
func (r *GormInvoiceRepository) Delete(ctx context.Context, tenantID, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Scopes(tenant.Scope(tenantID)).
			Where("invoice_id = ?", id).
			Delete(&models.InvoiceLineModel{}).Error; err != nil {
			return err
		}
		result := tx.Scopes(tenant.Scope(tenantID)).
			Where("id = ?", id).
			Delete(&models.InvoiceModel{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// GenerateNumber returns the next INV-yyyymm-NNNNN number
func (r *GormInvoiceRepository) GenerateNumber(ctx context.Context, tenantID string) (string, error) {
	return nextNumber(ctx, r.db, &models.InvoiceModel{}, "number", tenantID, "INV")
}

var _ accounts.InvoiceRepository = (*GormInvoiceRepository)(nil)
