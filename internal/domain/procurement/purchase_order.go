package procurement

import (
	"fmt"
	"strings"
	"time"

	"github.com/erp/suite/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusDraft     PurchaseOrderStatus = "DRAFT"
	PurchaseOrderStatusApproved  PurchaseOrderStatus = "APPROVED"
	PurchaseOrderStatusReceived  PurchaseOrderStatus = "RECEIVED"
	PurchaseOrderStatusCancelled PurchaseOrderStatus = "CANCELLED"
)

// IsValid checks if the status is known
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusDraft, PurchaseOrderStatusApproved, PurchaseOrderStatusReceived, PurchaseOrderStatusCancelled:
		return true
	}
	return false
}

// CanApprove returns true if the order can be approved
func (s PurchaseOrderStatus) CanApprove() bool {
	return s == PurchaseOrderStatusDraft
}

// CanReceive returns true if goods can be received against the order
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusApproved
}

// CanCancel returns true if the order can still be cancelled
func (s PurchaseOrderStatus) CanCancel() bool {
	return s == PurchaseOrderStatusDraft || s == PurchaseOrderStatusApproved
}

// IsTerminal returns true for final states
func (s PurchaseOrderStatus) IsTerminal() bool {
	return s == PurchaseOrderStatusReceived || s == PurchaseOrderStatusCancelled
}

// PurchaseOrderLine is one ordered item
type PurchaseOrderLine struct {
	ID          string
	Description string
	Quantity    decimal.Decimal
	UnitCost    decimal.Decimal
	Amount      decimal.Decimal
}

// PurchaseOrder is an order placed with a supplier
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	Number       string
	Supplier     string
	Lines        []PurchaseOrderLine
	Total        decimal.Decimal
	Status       PurchaseOrderStatus
	ApprovedBy   string
	ApprovedAt   *time.Time
	ReceivedAt   *time.Time
	CancelledAt  *time.Time
	CancelReason string
}

// NewPurchaseOrder creates a draft order with at least one line
func NewPurchaseOrder(tenantID, createdBy, number, supplier string, lines []PurchaseOrderLine) (*PurchaseOrder, error) {
	if strings.TrimSpace(number) == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number cannot be empty")
	}
	if strings.TrimSpace(supplier) == "" {
		return nil, shared.NewDomainError("INVALID_SUPPLIER", "Supplier cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Purchase order needs at least one line")
	}

	po := &PurchaseOrder{
		TenantAggregateRoot: shared.NewOwnedAggregateRoot(tenantID, createdBy),
		Number:              number,
		Supplier:            strings.TrimSpace(supplier),
		Status:              PurchaseOrderStatusDraft,
	}
	total := decimal.Zero
	for idx, l := range lines {
		if strings.TrimSpace(l.Description) == "" || !l.Quantity.IsPositive() || l.UnitCost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_LINE", fmt.Sprintf("Line %d is invalid", idx+1))
		}
		l.ID = shared.NewID()
		l.Amount = l.Quantity.Mul(l.UnitCost).Round(2)
		total = total.Add(l.Amount)
		po.Lines = append(po.Lines, l)
	}
	po.Total = total
	return po, nil
}

// IsVisibleTo reports whether userID may see the order; drafts are private
func (p *PurchaseOrder) IsVisibleTo(userID string) bool {
	if p.Status == PurchaseOrderStatusDraft {
		return p.IsOwnedBy(userID)
	}
	return true
}

// Approve moves DRAFT -> APPROVED
func (p *PurchaseOrder) Approve(approvedBy string) error {
	if !p.Status.CanApprove() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot approve purchase order in %s status", p.Status))
	}
	now := time.Now()
	p.Status = PurchaseOrderStatusApproved
	p.ApprovedBy = approvedBy
	p.ApprovedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Receive moves APPROVED -> RECEIVED
func (p *PurchaseOrder) Receive() error {
	if !p.Status.CanReceive() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot receive purchase order in %s status", p.Status))
	}
	now := time.Now()
	p.Status = PurchaseOrderStatusReceived
	p.ReceivedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// Cancel abandons the order from DRAFT or APPROVED
func (p *PurchaseOrder) Cancel(reason string) error {
	if !p.Status.CanCancel() {
		return shared.NewDomainError("INVALID_STATE", fmt.Sprintf("Cannot cancel purchase order in %s status", p.Status))
	}
	if strings.TrimSpace(reason) == "" {
		return shared.NewDomainError("INVALID_REASON", "Cancel reason is required")
	}
	now := time.Now()
	p.Status = PurchaseOrderStatusCancelled
	p.CancelledAt = &now
	p.CancelReason = strings.TrimSpace(reason)
	p.UpdatedAt = now
	p.IncrementVersion()
	return nil
}

// CanDelete reports whether the order may be removed
func (p *PurchaseOrder) CanDelete() bool {
	return p.Status == PurchaseOrderStatusDraft
}
