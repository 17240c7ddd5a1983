package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/persistence/tenant"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// versioned is the persistence view of an aggregate root
type versioned interface {
	IsNew() bool
	PersistedVersion() int
	MarkPersisted()
}

// saveVersioned inserts a new aggregate or updates an existing one guarded by
// the version it was loaded with. Associations are left to the caller.
func saveVersioned(tx *gorm.DB, agg versioned, model any, tenantID, id string) error {
	if agg.IsNew() {
		if err := tx.Omit(clause.Associations).Create(model).Error; err != nil {
			return translateError(err)
		}
		agg.MarkPersisted()
		return nil
	}

	result := tx.Model(model).
		Scopes(tenantScopeFor(tenantID)).
		Where("id = ? AND version = ?", id, agg.PersistedVersion()).
		Select("*").
		Omit("id", "tenant_id", "created_by", "created_at", clause.Associations).
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	agg.MarkPersisted()
	return nil
}

// tenantScopeFor is tenant.Scope, except global tables pass an empty tenant
// and stay unscoped
func tenantScopeFor(tenantID string) func(*gorm.DB) *gorm.DB {
	if tenantID == "" {
		return func(db *gorm.DB) *gorm.DB { return db }
	}
	return tenant.Scope(tenantID)
}

// translateError maps driver errors onto domain errors
func translateError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return shared.ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return shared.ErrAlreadyExists
	}
	return err
}

// paginate applies the normalized filter's ordering and paging
func paginate(filter shared.Filter, allowed map[string]bool, defaultField string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		f := filter.Normalize()
		field := ValidateSortField(f.OrderBy, allowed, defaultField)
		dir := ValidateSortOrder(f.OrderDir)
		// id breaks ties; ULIDs follow creation order
		return db.Order(field + " " + dir).Order("id " + dir).Offset(f.Offset()).Limit(f.PageSize)
	}
}

// searchPattern lowercases s and wraps it for a LIKE comparison
func searchPattern(s string) string {
	return "%" + strings.ToLower(strings.TrimSpace(s)) + "%"
}

// nextNumber returns PREFIX-yyyymm-NNNNN, continuing from the highest number
// already issued this month for the tenant
func nextNumber(ctx context.Context, db *gorm.DB, model any, column, tenantID, prefix string) (string, error) {
	period := fmt.Sprintf("%s-%s-", prefix, time.Now().UTC().Format("200601"))

	var numbers []string
	err := db.WithContext(ctx).
		Model(model).
		Scopes(tenant.Scope(tenantID)).
		Where(column+" LIKE ?", period+"%").
		Order(column+" DESC").
		Limit(1).
		Pluck(column, &numbers).Error
	if err != nil {
		return "", err
	}

	next := 1
	if len(numbers) > 0 {
		var n int
		if _, scanErr := fmt.Sscanf(strings.TrimPrefix(numbers[0], period), "%d", &n); scanErr == nil {
			next = n + 1
		}
	}
	return fmt.Sprintf("%s%05d", period, next), nil
}
