package models

import (
	"time"

	"github.com/erp/suite/internal/domain/procurement"
	"github.com/shopspring/decimal"
)

// PurchaseOrderModel is the persistence model for the PurchaseOrder aggregate root
type PurchaseOrderModel struct {
	TenantAggregateModel
	Number       string                          `gorm:"type:varchar(50);not null;index"`
	Supplier     string                          `gorm:"type:varchar(200);not null"`
	Total        decimal.Decimal                 `gorm:"type:decimal(18,2);not null"`
	Status       procurement.PurchaseOrderStatus `gorm:"type:varchar(20);not null;index"`
	ApprovedBy   string                          `gorm:"type:varchar(26)"`
	ApprovedAt   *time.Time
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string                   `gorm:"type:varchar(500)"`
	Lines        []PurchaseOrderLineModel `gorm:"foreignKey:PurchaseOrderID"`
}

// TableName returns the table name for GORM
func (PurchaseOrderModel) TableName() string {
	return "purchase_orders"
}

// PurchaseOrderLineModel is the persistence model for a purchase order line
type PurchaseOrderLineModel struct {
	ID              string          `gorm:"type:varchar(26);primaryKey"`
	TenantID        string          `gorm:"type:varchar(26);not null;index"`
	PurchaseOrderID string          `gorm:"type:varchar(26);not null;index"`
	Position        int             `gorm:"not null"`
	Description     string          `gorm:"type:varchar(500);not null"`
	Quantity        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	UnitCost        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Amount          decimal.Decimal `gorm:"type:decimal(18,2);not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderLineModel) TableName() string {
	return "purchase_order_lines"
}

// ToDomain converts the persistence model to a domain PurchaseOrder
func (m *PurchaseOrderModel) ToDomain() *procurement.PurchaseOrder {
	po := &procurement.PurchaseOrder{
		Number:       m.Number,
		Supplier:     m.Supplier,
		Lines:        make([]procurement.PurchaseOrderLine, 0, len(m.Lines)),
		Total:        m.Total,
		Status:       m.Status,
		ApprovedBy:   m.ApprovedBy,
		ApprovedAt:   m.ApprovedAt,
		ReceivedAt:   m.ReceivedAt,
		CancelledAt:  m.CancelledAt,
		CancelReason: m.CancelReason,
	}
	for _, l := range m.Lines {
		po.Lines = append(po.Lines, procurement.PurchaseOrderLine{
			ID:          l.ID,
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
			Amount:      l.Amount,
		})
	}
	m.PopulateTenantAggregateRoot(&po.TenantAggregateRoot)
	return po
}

// PurchaseOrderModelFromDomain creates a persistence model, lines included
func PurchaseOrderModelFromDomain(po *procurement.PurchaseOrder) *PurchaseOrderModel {
	m := &PurchaseOrderModel{
		Number:       po.Number,
		Supplier:     po.Supplier,
		Total:        po.Total,
		Status:       po.Status,
		ApprovedBy:   po.ApprovedBy,
		ApprovedAt:   po.ApprovedAt,
		ReceivedAt:   po.ReceivedAt,
		CancelledAt:  po.CancelledAt,
		CancelReason: po.CancelReason,
		Lines:        make([]PurchaseOrderLineModel, 0, len(po.Lines)),
	}
	m.FromDomainTenantAggregateRoot(po.TenantAggregateRoot)
	for idx, l := range po.Lines {
		m.Lines = append(m.Lines, PurchaseOrderLineModel{
			ID:              l.ID,
			TenantID:        po.TenantID,
			PurchaseOrderID: po.ID,
			Position:        idx,
			Description:     l.Description,
			Quantity:        l.Quantity,
			UnitCost:        l.UnitCost,
			Amount:          l.Amount,
		})
	}
	return m
}
