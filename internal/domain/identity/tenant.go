package identity

import (
	"regexp"
	"strings"

	"github.com/erp/suite/internal/domain/shared"
)

// TenantStatus represents the status of a tenant
type TenantStatus string

const (
	TenantStatusActive    TenantStatus = "active"
	TenantStatusSuspended TenantStatus = "suspended"
)

// Tenant is the isolation boundary for all business records
type Tenant struct {
	shared.BaseAggregateRoot
	Code         string
	Name         string
	Status       TenantStatus
	ContactEmail string
}

var tenantCodeRegex = regexp.MustCompile(`^[a-z][a-z0-9-]{1,49}$`)

// NewTenant creates a new active tenant
func NewTenant(code, name string) (*Tenant, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if !tenantCodeRegex.MatchString(code) {
		return nil, shared.NewDomainError("INVALID_TENANT_CODE", "Tenant code must be 2-50 lowercase letters, digits or hyphens and start with a letter")
	}
	if err := validateTenantName(name); err != nil {
		return nil, err
	}

	t := &Tenant{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Code:              code,
		Name:              strings.TrimSpace(name),
		Status:            TenantStatusActive,
	}
	t.AddDomainEvent(NewTenantCreatedEvent(t))
	return t, nil
}

// Rename updates the display name
func (t *Tenant) Rename(name string) error {
	if err := validateTenantName(name); err != nil {
		return err
	}
	t.Name = strings.TrimSpace(name)
	t.Touch()
	t.IncrementVersion()
	return nil
}

// SetContactEmail sets the tenant's contact address
func (t *Tenant) SetContactEmail(email string) error {
	if email != "" {
		if err := validateEmail(email); err != nil {
			return err
		}
	}
	t.ContactEmail = strings.ToLower(strings.TrimSpace(email))
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Suspend blocks all logins for the tenant
func (t *Tenant) Suspend() error {
	if t.Status == TenantStatusSuspended {
		return shared.NewDomainError("INVALID_STATE", "Tenant is already suspended")
	}
	t.Status = TenantStatusSuspended
	t.Touch()
	t.IncrementVersion()
	return nil
}

// Activate lifts a suspension
func (t *Tenant) Activate() error {
	if t.Status == TenantStatusActive {
		return shared.NewDomainError("INVALID_STATE", "Tenant is already active")
	}
	t.Status = TenantStatusActive
	t.Touch()
	t.IncrementVersion()
	return nil
}

// IsActive returns true if users of this tenant may sign in
func (t *Tenant) IsActive() bool {
	return t.Status == TenantStatusActive
}

func validateTenantName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_TENANT_NAME", "Tenant name cannot exceed 200 characters")
	}
	return nil
}
