package models

import (
	"github.com/erp/suite/internal/domain/sales"
)

// CustomerModel is the persistence model for Customer
type CustomerModel struct {
	TenantAggregateModel
	Code   string               `gorm:"type:varchar(50);not null;index"`
	Name   string               `gorm:"type:varchar(200);not null"`
	Email  string               `gorm:"type:varchar(200)"`
	Phone  string               `gorm:"type:varchar(50)"`
	Status sales.CustomerStatus `gorm:"type:varchar(20);not null;index"`
	Notes  string               `gorm:"type:text"`
}

// TableName returns the table name for GORM
func (CustomerModel) TableName() string {
	return "customers"
}

// ToDomain converts the persistence model to a domain Customer
func (m *CustomerModel) ToDomain() *sales.Customer {
	c := &sales.Customer{
		Code:   m.Code,
		Name:   m.Name,
		Email:  m.Email,
		Phone:  m.Phone,
		Status: m.Status,
		Notes:  m.Notes,
	}
	m.PopulateTenantAggregateRoot(&c.TenantAggregateRoot)
	return c
}

// CustomerModelFromDomain creates a persistence model from a domain Customer
func CustomerModelFromDomain(c *sales.Customer) *CustomerModel {
	m := &CustomerModel{
		Code:   c.Code,
		Name:   c.Name,
		Email:  c.Email,
		Phone:  c.Phone,
		Status: c.Status,
		Notes:  c.Notes,
	}
	m.FromDomainTenantAggregateRoot(c.TenantAggregateRoot)
	return m
}
