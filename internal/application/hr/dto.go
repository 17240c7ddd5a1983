package hr

import (
	"time"

	"github.com/erp/suite/internal/domain/hr"
	"github.com/erp/suite/internal/domain/shared"
)

// CreateEmployeeInput contains the fields for a new employee
type CreateEmployeeInput struct {
	FullName   string
	Email      string
	Department string
	Position   string
	HireDate   time.Time
}

// UpdateEmployeeInput contains the editable employee fields.
// A non-nil LinkedUserID links (or with "" unlinks) a login.
type UpdateEmployeeInput struct {
	FullName     string
	Email        string
	Department   string
	Position     string
	LinkedUserID *string
}

// EmployeeListFilter narrows employee listings
type EmployeeListFilter struct {
	shared.Filter
	Department string
	Status     string
}

// EmployeeDTO represents an employee in API responses
type EmployeeDTO struct {
	ID           string     `json:"id"`
	Code         string     `json:"code"`
	FullName     string     `json:"full_name"`
	Email        string     `json:"email,omitempty"`
	Department   string     `json:"department,omitempty"`
	Position     string     `json:"position,omitempty"`
	HireDate     time.Time  `json:"hire_date"`
	TerminatedAt *time.Time `json:"terminated_at,omitempty"`
	Status       string     `json:"status"`
	LinkedUserID string     `json:"linked_user_id,omitempty"`
	Version      int        `json:"version"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// ToEmployeeDTO converts a domain employee
func ToEmployeeDTO(e *hr.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:           e.ID,
		Code:         e.Code,
		FullName:     e.FullName,
		Email:        e.Email,
		Department:   e.Department,
		Position:     e.Position,
		HireDate:     e.HireDate,
		TerminatedAt: e.TerminatedAt,
		Status:       string(e.Status),
		LinkedUserID: e.LinkedUserID,
		Version:      e.GetVersion(),
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
