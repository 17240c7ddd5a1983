package accounts

import (
	"context"

	"github.com/erp/suite/internal/domain/shared"
)

// InvoiceFilter narrows invoice listings
type InvoiceFilter struct {
	shared.Filter
	Status     *InvoiceStatus
	CustomerID string
	// ViewerID hides other users' drafts; required
	ViewerID string
	// OwnerID restricts the listing to one creator (own-scope grants)
	OwnerID string
}

// InvoiceRepository persists invoices
type InvoiceRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*Invoice, error)
	FindAll(ctx context.Context, tenantID string, filter InvoiceFilter) ([]*Invoice, int64, error)
	// SaveWithLock inserts a new invoice or updates one guarded by its
	// loaded version, replacing its lines
	SaveWithLock(ctx context.Context, invoice *Invoice) error
	Delete(ctx context.Context, tenantID, id string) error
	GenerateNumber(ctx context.Context, tenantID string) (string, error)
}
