package procurement

import (
	"context"

	"github.com/erp/suite/internal/domain/shared"
)

// PurchaseOrderFilter narrows purchase order listings
type PurchaseOrderFilter struct {
	shared.Filter
	Status   *PurchaseOrderStatus
	ViewerID string
	OwnerID  string
}

// PurchaseOrderRepository persists purchase orders
type PurchaseOrderRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*PurchaseOrder, error)
	FindAll(ctx context.Context, tenantID string, filter PurchaseOrderFilter) ([]*PurchaseOrder, int64, error)
	SaveWithLock(ctx context.Context, order *PurchaseOrder) error
	Delete(ctx context.Context, tenantID, id string) error
	GenerateNumber(ctx context.Context, tenantID string) (string, error)
}
