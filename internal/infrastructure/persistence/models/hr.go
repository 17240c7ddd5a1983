package models

import (
	"time"

	"github.com/erp/suite/internal/domain/hr"
)

// EmployeeModel is the persistence model for Employee
type EmployeeModel struct {
	TenantAggregateModel
	Code         string    `gorm:"type:varchar(50);not null;index"`
	FullName     string    `gorm:"type:varchar(200);not null"`
	Email        string    `gorm:"type:varchar(200)"`
	Department   string    `gorm:"type:varchar(100);index"`
	Position     string    `gorm:"type:varchar(100)"`
	HireDate     time.Time `gorm:"type:date;not null"`
	TerminatedAt *time.Time
	Status       hr.EmployeeStatus `gorm:"type:varchar(20);not null;index"`
	LinkedUserID string            `gorm:"type:varchar(26)"`
}

// TableName returns the table name for GORM
func (EmployeeModel) TableName() string {
	return "employees"
}

// ToDomain converts the persistence model to a domain Employee
func (m *EmployeeModel) ToDomain() *hr.Employee {
	e := &hr.Employee{
		Code:         m.Code,
		FullName:     m.FullName,
		Email:        m.Email,
		Department:   m.Department,
		Position:     m.Position,
		HireDate:     m.HireDate,
		TerminatedAt: m.TerminatedAt,
		Status:       m.Status,
		LinkedUserID: m.LinkedUserID,
	}
	m.PopulateTenantAggregateRoot(&e.TenantAggregateRoot)
	return e
}

// EmployeeModelFromDomain creates a persistence model from a domain Employee
func EmployeeModelFromDomain(e *hr.Employee) *EmployeeModel {
	m := &EmployeeModel{
		Code:         e.Code,
		FullName:     e.FullName,
		Email:        e.Email,
		Department:   e.Department,
		Position:     e.Position,
		HireDate:     e.HireDate,
		TerminatedAt: e.TerminatedAt,
		Status:       e.Status,
		LinkedUserID: e.LinkedUserID,
	}
	m.FromDomainTenantAggregateRoot(e.TenantAggregateRoot)
	return m
}
