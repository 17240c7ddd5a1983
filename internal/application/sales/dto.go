package sales

import (
	"time"

	"github.com/erp/suite/internal/domain/sales"
	"github.com/erp/suite/internal/domain/shared"
)

// CreateCustomerInput contains the fields for a new customer
type CreateCustomerInput struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// UpdateCustomerInput contains the editable customer fields
type UpdateCustomerInput struct {
	Name  string
	Email string
	Phone string
	Notes string
}

// CustomerListFilter narrows customer listings
type CustomerListFilter struct {
	shared.Filter
	Status string
}

// CustomerDTO represents a customer in API responses
type CustomerDTO struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes,omitempty"`
	CreatedBy string    `json:"created_by"`
	Version   int       `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToCustomerDTO converts a domain customer
func ToCustomerDTO(c *sales.Customer) CustomerDTO {
	return CustomerDTO{
		ID:        c.ID,
		Code:      c.Code,
		Name:      c.Name,
		Email:     c.Email,
		Phone:     c.Phone,
		Status:    string(c.Status),
		Notes:     c.Notes,
		CreatedBy: c.CreatedBy,
		Version:   c.GetVersion(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
