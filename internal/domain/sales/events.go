package sales

import "github.com/erp/suite/internal/domain/shared"

// AggregateTypeCustomer is the aggregate type for customers
const AggregateTypeCustomer = "Customer"

// EventTypeCustomerCreated is published when a customer is created
const EventTypeCustomerCreated = "CustomerCreated"

// CustomerCreatedEvent is published when a customer is created
type CustomerCreatedEvent struct {
	shared.EventMeta
	Code    string `json:"code"`
	Name    string `json:"name"`
	OwnerID string `json:"owner_id"`
}

// NewCustomerCreatedEvent creates a new CustomerCreatedEvent
func NewCustomerCreatedEvent(c *Customer) *CustomerCreatedEvent {
	return &CustomerCreatedEvent{
		EventMeta: shared.NewEventMeta(EventTypeCustomerCreated, AggregateTypeCustomer, c.ID, c.TenantID),
		Code:      c.Code,
		Name:      c.Name,
		OwnerID:   c.CreatedBy,
	}
}
