package projects

import (
	"github.com/erp/suite/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeBOQItem is the aggregate type for BOQ items
const AggregateTypeBOQItem = "BOQItem"

// EventTypeBOQItemCompleted is published when progress first reaches 100%
const EventTypeBOQItemCompleted = "BOQItemCompleted"

// BOQItemCompletedEvent is published when an item is completed
type BOQItemCompletedEvent struct {
	shared.EventMeta
	ProjectCode string          `json:"project_code"`
	Code        string          `json:"code"`
	OwnerID     string          `json:"owner_id"`
	Amount      decimal.Decimal `json:"amount"`
}

// NewBOQItemCompletedEvent creates a new BOQItemCompletedEvent
func NewBOQItemCompletedEvent(b *BOQItem) *BOQItemCompletedEvent {
	return &BOQItemCompletedEvent{
		EventMeta:   shared.NewEventMeta(EventTypeBOQItemCompleted, AggregateTypeBOQItem, b.ID, b.TenantID),
		ProjectCode: b.ProjectCode,
		Code:        b.Code,
		OwnerID:     b.CreatedBy,
		Amount:      b.Amount,
	}
}
