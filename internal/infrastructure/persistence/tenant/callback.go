package tenant

import (
	"strings"

	"github.com/erp/suite/internal/infrastructure/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TenantCallback provides GORM callback hooks for automatic tenant filtering
type TenantCallback struct {
	tenantColumn string
	required     bool
}

// NewTenantCallback creates a new tenant callback handler
func NewTenantCallback(tenantColumn string, required bool) *TenantCallback {
	if tenantColumn == "" {
		tenantColumn = Column
	}
	return &TenantCallback{
		tenantColumn: tenantColumn,
		required:     required,
	}
}

// RegisterCallbacks registers tenant callbacks with GORM.
// Creates are not filtered; repositories set tenant_id on the model.
func (tc *TenantCallback) RegisterCallbacks(db *gorm.DB) error {
	if err := db.Callback().Query().Before("gorm:query").Register("tenant:before_query", tc.addTenantFilter); err != nil {
		return err
	}
	if err := db.Callback().Update().Before("gorm:update").Register("tenant:before_update", tc.addTenantFilter); err != nil {
		return err
	}
	if err := db.Callback().Delete().Before("gorm:delete").Register("tenant:before_delete", tc.addTenantFilter); err != nil {
		return err
	}
	return db.Callback().Row().Before("gorm:row").Register("tenant:before_row", tc.addTenantFilter)
}

// addTenantFilter adds tenant filtering to the statement
func (tc *TenantCallback) addTenantFilter(db *gorm.DB) {
	if db.Error != nil || db.Statement.Context == nil || db.Statement.Unscoped {
		return
	}

	// tables without a tenant column (tenants itself) are global
	if sch := db.Statement.Schema; sch != nil && sch.LookUpField(tc.tenantColumn) == nil {
		return
	}

	if tc.hasTenantCondition(db) {
		return
	}

	tenantID := logger.GetTenantID(db.Statement.Context)
	if tenantID == "" {
		if tc.required {
			_ = db.AddError(ErrTenantIDRequired)
		}
		return
	}

	db.Statement.AddClause(clause.Where{
		Exprs: []clause.Expression{
			clause.Eq{
				Column: clause.Column{Table: clause.CurrentTable, Name: tc.tenantColumn},
				Value:  tenantID,
			},
		},
	})
}

// hasTenantCondition checks if a tenant condition is already present
func (tc *TenantCallback) hasTenantCondition(db *gorm.DB) bool {
	if whereClause, ok := db.Statement.Clauses["WHERE"]; ok {
		if where, ok := whereClause.Expression.(clause.Where); ok {
			for _, expr := range where.Exprs {
				if tc.exprContainsTenant(expr) {
					return true
				}
			}
		}
	}

	// raw SQL statements are checked textually
	sql := db.Statement.SQL.String()
	return sql != "" && strings.Contains(sql, tc.tenantColumn)
}

// exprContainsTenant checks if an expression references the tenant column
func (tc *TenantCallback) exprContainsTenant(expr clause.Expression) bool {
	switch e := expr.(type) {
	case clause.Eq:
		return tc.isTenantColumn(e.Column)
	case clause.IN:
		return tc.isTenantColumn(e.Column)
	case clause.Expr:
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.NamedExpr:
		return strings.Contains(e.SQL, tc.tenantColumn)
	case clause.AndConditions:
		for _, cond := range e.Exprs {
			if tc.exprContainsTenant(cond) {
				return true
			}
		}
	}
	// an OR branch does not constrain the whole statement
	return false
}

func (tc *TenantCallback) isTenantColumn(col any) bool {
	switch c := col.(type) {
	case clause.Column:
		return c.Name == tc.tenantColumn
	case string:
		return c == tc.tenantColumn || strings.HasSuffix(c, "."+tc.tenantColumn)
	}
	return false
}

// EnableAutoTenantFilter registers the tenant callbacks on db
func EnableAutoTenantFilter(db *gorm.DB, required bool) error {
	return NewTenantCallback(Column, required).RegisterCallbacks(db)
}

// DisableAutoTenantFilter removes the tenant callbacks. Used by tests.
func DisableAutoTenantFilter(db *gorm.DB) {
	_ = db.Callback().Query().Remove("tenant:before_query")
	_ = db.Callback().Update().Remove("tenant:before_update")
	_ = db.Callback().Delete().Remove("tenant:before_delete")
	_ = db.Callback().Row().Remove("tenant:before_row")
}
