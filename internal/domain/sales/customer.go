package sales

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/erp/suite/internal/domain/shared"
)

// CustomerStatus represents where a customer sits in the sales funnel
type CustomerStatus string

const (
	CustomerStatusLead     CustomerStatus = "lead"
	CustomerStatusActive   CustomerStatus = "active"
	CustomerStatusInactive CustomerStatus = "inactive"
)

// IsValid checks if the status is known
func (s CustomerStatus) IsValid() bool {
	switch s {
	case CustomerStatusLead, CustomerStatusActive, CustomerStatusInactive:
		return true
	}
	return false
}

// Customer is a tenant's customer or prospective customer
type Customer struct {
	shared.TenantAggregateRoot
	Code   string
	Name   string
	Email  string
	Phone  string
	Status CustomerStatus
	Notes  string
}

var customerEmailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// NewCustomer creates a new lead owned by createdBy
func NewCustomer(tenantID, createdBy, code, name string) (*Customer, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Customer code cannot be empty")
	}
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}

	c := &Customer{
		TenantAggregateRoot: shared.NewOwnedAggregateRoot(tenantID, createdBy),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		Name:                strings.TrimSpace(name),
		Status:              CustomerStatusLead,
	}
	c.AddDomainEvent(NewCustomerCreatedEvent(c))
	return c, nil
}

// Update changes the contact details
func (c *Customer) Update(name, email, phone, notes string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	email = strings.ToLower(strings.TrimSpace(email))
	if email != "" && !customerEmailRegex.MatchString(email) {
		return shared.NewDomainError("INVALID_EMAIL", "Invalid email format")
	}
	if len(phone) > 50 {
		return shared.NewDomainError("INVALID_PHONE", "Phone cannot exceed 50 characters")
	}
	c.Name = strings.TrimSpace(name)
	c.Email = email
	c.Phone = strings.TrimSpace(phone)
	c.Notes = strings.TrimSpace(notes)
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Activate converts a lead, or reactivates an inactive customer
func (c *Customer) Activate() error {
	if c.Status == CustomerStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Customer is already active")
	}
	c.Status = CustomerStatusActive
	c.Touch()
	c.IncrementVersion()
	return nil
}

// Deactivate marks the customer inactive
func (c *Customer) Deactivate() error {
	if c.Status != CustomerStatusActive {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot deactivate customer in %s status", c.Status))
	}
	c.Status = CustomerStatusInactive
	c.Touch()
	c.IncrementVersion()
	return nil
}

func validateCustomerName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Customer name cannot exceed 200 characters")
	}
	return nil
}
