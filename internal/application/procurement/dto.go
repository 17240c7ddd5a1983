package procurement

import (
	"time"

	"github.com/erp/suite/internal/domain/procurement"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

// PurchaseOrderLineInput is one ordered item of a create request
type PurchaseOrderLineInput struct {
	Description string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
}

// CreatePurchaseOrderInput contains the fields for a new draft order
type CreatePurchaseOrderInput struct {
	Supplier string
	Lines    []PurchaseOrderLineInput
}

// PurchaseOrderListFilter narrows purchase order listings
type PurchaseOrderListFilter struct {
	shared.Filter
	Status string
}

// PurchaseOrderLineDTO represents one order line
type PurchaseOrderLineDTO struct {
	ID          string          `json:"id"`
	Description string          `json:"description"`
	Quantity    decimal.Decimal `json:"quantity"`
	UnitCost    decimal.Decimal `json:"unit_cost"`
	Amount      decimal.Decimal `json:"amount"`
}

// PurchaseOrderDTO represents a purchase order in API responses
type PurchaseOrderDTO struct {
	ID           string                 `json:"id"`
	Number       string                 `json:"number"`
	Supplier     string                 `json:"supplier"`
	Lines        []PurchaseOrderLineDTO `json:"lines"`
	Total        decimal.Decimal        `json:"total"`
	Status       string                 `json:"status"`
	ApprovedBy   string                 `json:"approved_by,omitempty"`
	ApprovedAt   *time.Time             `json:"approved_at,omitempty"`
	ReceivedAt   *time.Time             `json:"received_at,omitempty"`
	CancelledAt  *time.Time             `json:"cancelled_at,omitempty"`
	CancelReason string                 `json:"cancel_reason,omitempty"`
	CreatedBy    string                 `json:"created_by"`
	Version      int                    `json:"version"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
}

// ToPurchaseOrderDTO converts a domain purchase order
func ToPurchaseOrderDTO(p *procurement.PurchaseOrder) PurchaseOrderDTO {
	return PurchaseOrderDTO{
		ID:       p.ID,
		Number:   p.Number,
		Supplier: p.Supplier,
		Lines: lo.Map(p.Lines, func(l procurement.PurchaseOrderLine, _ int) PurchaseOrderLineDTO {
			return PurchaseOrderLineDTO{
				ID:          l.ID,
				Description: l.Description,
				Quantity:    l.Quantity,
				UnitCost:    l.UnitCost,
				Amount:      l.Amount,
			}
		}),
		Total:        p.Total,
		Status:       string(p.Status),
		ApprovedBy:   p.ApprovedBy,
		ApprovedAt:   p.ApprovedAt,
		ReceivedAt:   p.ReceivedAt,
		CancelledAt:  p.CancelledAt,
		CancelReason: p.CancelReason,
		CreatedBy:    p.CreatedBy,
		Version:      p.Version,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
	}
}

func toDomainLines(lines []PurchaseOrderLineInput) []procurement.PurchaseOrderLine {
	return lo.Map(lines, func(l PurchaseOrderLineInput, _ int) procurement.PurchaseOrderLine {
		return procurement.PurchaseOrderLine{
			Description: l.Description,
			Quantity:    l.Quantity,
			UnitCost:    l.UnitCost,
		}
	})
}
