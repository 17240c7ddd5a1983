package sales

import (
	"context"

	"github.com/erp/suite/internal/domain/shared"
)

// CustomerFilter narrows customer listings
type CustomerFilter struct {
	shared.Filter
	Status  *CustomerStatus
	OwnerID string
}

// CustomerRepository persists customers
type CustomerRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*Customer, error)
	FindAll(ctx context.Context, tenantID string, filter CustomerFilter) ([]*Customer, int64, error)
	Exists(ctx context.Context, tenantID, id string) (bool, error)
	Save(ctx context.Context, customer *Customer) error
	Delete(ctx context.Context, tenantID, id string) error
	GenerateCode(ctx context.Context, tenantID string) (string, error)
}
