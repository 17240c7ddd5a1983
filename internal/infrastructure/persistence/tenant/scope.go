// Package tenant provides multi-tenant database scoping for GORM.
//
// Repositories scope every statement explicitly with Scope(tenantID). The
// callbacks registered by EnableAutoTenantFilter act as a second line: a
// statement against a tenant-owned table that carries no tenant condition is
// filtered by the tenant found in the request context, or fails when none is
// present.
package tenant

import (
	"github.com/erp/suite/internal/domain/shared"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Column is the tenant discriminator column shared by all tenant-owned tables
const Column = "tenant_id"

// ErrTenantIDRequired is returned when a tenant-owned table is queried without a tenant
var ErrTenantIDRequired = shared.ErrTenantRequired

// Scope restricts a statement to one tenant. An empty tenantID fails the
// statement instead of returning unscoped rows.
func Scope(tenantID string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if tenantID == "" {
			_ = db.AddError(ErrTenantIDRequired)
			return db
		}
		return db.Where(clause.Eq{
			Column: clause.Column{Table: clause.CurrentTable, Name: Column},
			Value:  tenantID,
		})
	}
}
