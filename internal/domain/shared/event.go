package shared

import "time"

// DomainEvent is a fact recorded by an aggregate. Events are routed by
// EventType and always carry the tenant they happened in.
type DomainEvent interface {
	EventID() string
	EventType() string
	OccurredAt() time.Time
	AggregateID() string
	AggregateType() string
	TenantID() string
}

// EventMeta is embedded by concrete events. The ID is a ULID, so events
// from one process sort in the order they were raised.
type EventMeta struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	At        time.Time `json:"occurred_at"`
	Aggregate string    `json:"aggregate_type"`
	Subject   string    `json:"aggregate_id"`
	Tenant    string    `json:"tenant_id"`
}

// NewEventMeta records an event of eventType raised by the aggregate
// aggType/aggID inside tenantID
func NewEventMeta(eventType, aggType, aggID, tenantID string) EventMeta {
	now := time.Now()
	return EventMeta{
		ID:        NewIDAt(now),
		Type:      eventType,
		At:        now,
		Aggregate: aggType,
		Subject:   aggID,
		Tenant:    tenantID,
	}
}

func (e *EventMeta) EventID() string       { return e.ID }
func (e *EventMeta) EventType() string     { return e.Type }
func (e *EventMeta) OccurredAt() time.Time { return e.At }
func (e *EventMeta) AggregateID() string   { return e.Subject }
func (e *EventMeta) AggregateType() string { return e.Aggregate }
func (e *EventMeta) TenantID() string      { return e.Tenant }
