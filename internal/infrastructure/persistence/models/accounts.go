package models

import (
	"time"

	"github.com/erp/suite/internal/domain/accounts"
	"github.com/shopspring/decimal"
)

// InvoiceModel is the persistence model for the Invoice aggregate root
type InvoiceModel struct {
	TenantAggregateModel
	Number      string                 `gorm:"type:varchar(50);not null;index"`
	CustomerID  string                 `gorm:"type:varchar(26);not null;index"`
	Currency    string                 `gorm:"type:varchar(3);not null"`
	TaxRate     decimal.Decimal        `gorm:"type:decimal(6,4);not null"`
	Subtotal    decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	TaxAmount   decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	Total       decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	PaidAmount  decimal.Decimal        `gorm:"type:decimal(18,2);not null"`
	DueDate     *time.Time             `gorm:"index"`
	Notes       string                 `gorm:"type:text"`
	Status      accounts.InvoiceStatus `gorm:"type:varchar(10);not null;index"`
	SentAt      *time.Time
	PaidAt      *time.Time
	DocumentKey string             `gorm:"type:varchar(300)"`
	Lines       []InvoiceLineModel `gorm:"foreignKey:InvoiceID"`
}

// TableName returns the table name for GORM
func (InvoiceModel) TableName() string {
	return "invoices"
}

// InvoiceLineModel is the persistence model for an invoice line
type InvoiceLineModel struct {
	ID          string          `gorm:"type:varchar(26);primaryKey"`
	TenantID    string          `gorm:"type:varchar(26);not null;index"`
	InvoiceID   string          `gorm:"type:varchar(26);not null;index"`
	Position    int             `gorm:"not null"`
	Description string          `gorm:"type:varchar(500);not null"`
	Quantity    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount      decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (InvoiceLineModel) TableName() string {
	return "invoice_lines"
}

// ToDomain converts the persistence model to a domain Invoice
func (m *InvoiceModel) ToDomain() *accounts.Invoice {
	inv := &accounts.Invoice{
		Number:      m.Number,
		CustomerID:  m.CustomerID,
		Currency:    m.Currency,
		Lines:       make([]accounts.InvoiceLine, 0, len(m.Lines)),
		TaxRate:     m.TaxRate,
		Subtotal:    m.Subtotal,
		TaxAmount:   m.TaxAmount,
		Total:       m.Total,
		DueDate:     m.DueDate,
		Notes:       m.Notes,
		Status:      m.Status,
		SentAt:      m.SentAt,
		PaidAt:      m.PaidAt,
		PaidAmount:  m.PaidAmount,
		DocumentKey: m.DocumentKey,
	}
	for _, l := range m.Lines {
		inv.Lines = append(inv.Lines, accounts.InvoiceLine{
			ID:          l.ID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		})
	}
	m.PopulateTenantAggregateRoot(&inv.TenantAggregateRoot)
	return inv
}

// InvoiceModelFromDomain creates a persistence model, lines included
func InvoiceModelFromDomain(inv *accounts.Invoice) *InvoiceModel {
	m := &InvoiceModel{
		Number:      inv.Number,
		CustomerID:  inv.CustomerID,
		Currency:    inv.Currency,
		TaxRate:     inv.TaxRate,
		Subtotal:    inv.Subtotal,
		TaxAmount:   inv.TaxAmount,
		Total:       inv.Total,
		PaidAmount:  inv.PaidAmount,
		DueDate:     inv.DueDate,
		Notes:       inv.Notes,
		Status:      inv.Status,
		SentAt:      inv.SentAt,
		PaidAt:      inv.PaidAt,
		DocumentKey: inv.DocumentKey,
		Lines:       make([]InvoiceLineModel, 0, len(inv.Lines)),
	}
	m.FromDomainTenantAggregateRoot(inv.TenantAggregateRoot)
	for idx, l := range inv.Lines {
		m.Lines = append(m.Lines, InvoiceLineModel{
			ID:          l.ID,
			TenantID:    inv.TenantID,
			InvoiceID:   inv.ID,
			Position:    idx,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitPrice:   l.UnitPrice,
			Amount:      l.Amount,
		})
	}
	return m
}
