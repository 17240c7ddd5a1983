package accounts

import (
	"github.com/erp/suite/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// AggregateTypeInvoice is the aggregate type for invoices
const AggregateTypeInvoice = "Invoice"

// Invoice event types
const (
	EventTypeInvoiceCreated = "InvoiceCreated"
	EventTypeInvoiceSent    = "InvoiceSent"
	EventTypeInvoicePaid    = "InvoicePaid"
)

// InvoiceCreatedEvent is published when a draft invoice is created
type InvoiceCreatedEvent struct {
	shared.EventMeta
	Number     string `json:"number"`
	CustomerID string `json:"customer_id"`
	OwnerID    string `json:"owner_id"`
}

// NewInvoiceCreatedEvent creates a new InvoiceCreatedEvent
func NewInvoiceCreatedEvent(i *Invoice) *InvoiceCreatedEvent {
	return &InvoiceCreatedEvent{
		EventMeta:  shared.NewEventMeta(EventTypeInvoiceCreated, AggregateTypeInvoice, i.ID, i.TenantID),
		Number:     i.Number,
		CustomerID: i.CustomerID,
		OwnerID:    i.CreatedBy,
	}
}

// InvoiceSentEvent is published when an invoice leaves DRAFT
type InvoiceSentEvent struct {
	shared.EventMeta
	Number  string          `json:"number"`
	OwnerID string          `json:"owner_id"`
	Total   decimal.Decimal `json:"total"`
}

// NewInvoiceSentEvent creates a new InvoiceSentEvent
func NewInvoiceSentEvent(i *Invoice) *InvoiceSentEvent {
	return &InvoiceSentEvent{
		EventMeta: shared.NewEventMeta(EventTypeInvoiceSent, AggregateTypeInvoice, i.ID, i.TenantID),
		Number:    i.Number,
		OwnerID:   i.CreatedBy,
		Total:     i.Total,
	}
}

// InvoicePaidEvent is published when an invoice is settled
type InvoicePaidEvent struct {
	shared.EventMeta
	Number  string          `json:"number"`
	OwnerID string          `json:"owner_id"`
	Total   decimal.Decimal `json:"total"`
}

// NewInvoicePaidEvent creates a new InvoicePaidEvent
func NewInvoicePaidEvent(i *Invoice) *InvoicePaidEvent {
	return &InvoicePaidEvent{
		EventMeta: shared.NewEventMeta(EventTypeInvoicePaid, AggregateTypeInvoice, i.ID, i.TenantID),
		Number:    i.Number,
		OwnerID:   i.CreatedBy,
		Total:     i.Total,
	}
}
