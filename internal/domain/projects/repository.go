package projects

import (
	"context"

	"github.com/erp/suite/internal/domain/shared"
)

// BOQItemFilter narrows BOQ listings
type BOQItemFilter struct {
	shared.Filter
	ProjectCode string
	Completed   *bool
	OwnerID     string
}

// BOQItemRepository persists BOQ items
type BOQItemRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*BOQItem, error)
	FindAll(ctx context.Context, tenantID string, filter BOQItemFilter) ([]*BOQItem, int64, error)
	ExistsByCode(ctx context.Context, tenantID, projectCode, code string) (bool, error)
	Save(ctx context.Context, item *BOQItem) error
	Delete(ctx context.Context, tenantID, id string) error
}
