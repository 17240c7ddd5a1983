package hr

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/suite/internal/domain/shared"
)

// EmployeeStatus represents employment state
type EmployeeStatus string

const (
	EmployeeStatusActive     EmployeeStatus = "active"
	EmployeeStatusTerminated EmployeeStatus = "terminated"
)

// Employee is a member of a tenant's staff
type Employee struct {
	shared.TenantAggregateRoot
	Code         string
	FullName     string
	Email        string
	Department   string
	Position     string
	HireDate     time.Time
	TerminatedAt *time.Time
	Status       EmployeeStatus
	LinkedUserID string
}

// NewEmployee creates an active employee
func NewEmployee(tenantID, createdBy, code, fullName string, hireDate time.Time) (*Employee, error) {
	if strings.TrimSpace(code) == "" {
		return nil, shared.NewDomainError("INVALID_CODE", "Employee code cannot be empty")
	}
	if err := validateFullName(fullName); err != nil {
		return nil, err
	}
	if hireDate.IsZero() {
		return nil, shared.NewDomainError("INVALID_HIRE_DATE", "Hire date is required")
	}

	return &Employee{
		TenantAggregateRoot: shared.NewOwnedAggregateRoot(tenantID, createdBy),
		Code:                strings.ToUpper(strings.TrimSpace(code)),
		FullName:            strings.TrimSpace(fullName),
		HireDate:            hireDate,
		Status:              EmployeeStatusActive,
	}, nil
}

// Update changes placement and contact details
func (e *Employee) Update(fullName, email, department, position string) error {
	if e.Status == EmployeeStatusTerminated {
		return shared.NewDomainError("INVALID_STATE", "Cannot update a terminated employee")
	}
	if err := validateFullName(fullName); err != nil {
		return err
	}
	e.FullName = strings.TrimSpace(fullName)
	e.Email = strings.ToLower(strings.TrimSpace(email))
	e.Department = strings.TrimSpace(department)
	e.Position = strings.TrimSpace(position)
	e.Touch()
	e.IncrementVersion()
	return nil
}

// LinkUser associates a login with this employee
func (e *Employee) LinkUser(userID string) {
	e.LinkedUserID = userID
	e.Touch()
	e.IncrementVersion()
}

// Terminate ends employment; it cannot be undone
func (e *Employee) Terminate(at time.Time) error {
	if e.Status == EmployeeStatusTerminated {
		return shared.NewDomainError("INVALID_STATE", "Employee is already terminated")
	}
	if at.Before(e.HireDate) {
		return shared.NewDomainError("INVALID_DATE", fmt.Sprintf("Termination date cannot precede hire date %s", e.HireDate.Format("2006-01-02")))
	}
	e.Status = EmployeeStatusTerminated
	e.TerminatedAt = &at
	e.Touch()
	e.IncrementVersion()
	return nil
}

func validateFullName(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("INVALID_NAME", "Full name cannot exceed 200 characters")
	}
	return nil
}
