package hr

import (
	"context"

	"github.com/erp/suite/internal/domain/shared"
)

// EmployeeFilter narrows employee listings
type EmployeeFilter struct {
	shared.Filter
	Department string
	Status     *EmployeeStatus
}

// EmployeeRepository persists employees
type EmployeeRepository interface {
	FindByID(ctx context.Context, tenantID, id string) (*Employee, error)
	FindAll(ctx context.Context, tenantID string, filter EmployeeFilter) ([]*Employee, int64, error)
	Save(ctx context.Context, employee *Employee) error
	Delete(ctx context.Context, tenantID, id string) error
	GenerateCode(ctx context.Context, tenantID string) (string, error)
}
