package models

import (
	"time"

	"github.com/erp/suite/internal/domain/projects"
	"github.com/shopspring/decimal"
)

// BOQItemModel is the persistence model for a bill-of-quantities line
type BOQItemModel struct {
	TenantAggregateModel
	ProjectCode string          `gorm:"type:varchar(50);not null;index"`
	Code        string          `gorm:"type:varchar(50);not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	Unit        string          `gorm:"type:varchar(20);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitRate    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
	Progress    decimal.Decimal `gorm:"type:decimal(5,2);not null"`
	CompletedAt *time.Time      `gorm:"index"`
}

// TableName returns the table name for GORM
func (BOQItemModel) TableName() string {
	return "boq_items"
}

// ToDomain converts the persistence model to a domain BOQItem
func (m *BOQItemModel) ToDomain() *projects.BOQItem {
	b := &projects.BOQItem{
		ProjectCode: m.ProjectCode,
		Code:        m.Code,
		Description: m.Description,
		Unit:        m.Unit,
		Quantity:    m.Quantity,
		UnitRate:    m.UnitRate,
		Amount:      m.Amount,
		Progress:    m.Progress,
		CompletedAt: m.CompletedAt,
	}
	m.PopulateTenantAggregateRoot(&b.TenantAggregateRoot)
	return b
}

// BOQItemModelFromDomain creates a persistence model from a domain BOQItem
func BOQItemModelFromDomain(b *projects.BOQItem) *BOQItemModel {
	m := &BOQItemModel{
		ProjectCode: b.ProjectCode,
		Code:        b.Code,
		Description: b.Description,
		Unit:        b.Unit,
		Quantity:    b.Quantity,
		UnitRate:    b.UnitRate,
		Amount:      b.Amount,
		Progress:    b.Progress,
		CompletedAt: b.CompletedAt,
	}
	m.FromDomainTenantAggregateRoot(b.TenantAggregateRoot)
	return m
}
