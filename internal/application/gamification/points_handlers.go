package gamification

import (
	"context"
	"fmt"

	"github.com/erp/suite/internal/domain/accounts"
	"github.com/erp/suite/internal/domain/gamification"
	"github.com/erp/suite/internal/domain/projects"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/event"
	"github.com/erp/suite/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// awarder credits ledger entries. The repository skips an entry that
// repeats (tenant, user, source type, source id).
type awarder struct {
	points  gamification.PointsRepository
	metrics *telemetry.BusinessMetrics
	logger  *zap.Logger
}

func (a *awarder) award(ctx context.Context, tenantID, userID string, points int, reason, sourceType, sourceID string) error {
	entry, err := gamification.NewPointsEntry(tenantID, userID, points, reason, sourceType, sourceID)
	if err != nil {
		// events without an owner cannot earn points; retrying will not help
		a.logger.Warn("skipping points award",
			zap.String("tenant_id", tenantID),
			zap.String("source_type", sourceType),
			zap.String("source_id", sourceID),
			zap.Error(err),
		)
		return nil
	}

	inserted, err := a.points.Award(ctx, entry)
	if err != nil {
		return fmt.Errorf("failed to award points: %w", err)
	}
	if !inserted {
		a.logger.Debug("points already awarded, skipping",
			zap.String("source_type", sourceType),
			zap.String("source_id", sourceID),
			zap.String("user_id", userID),
		)
		return nil
	}

	a.metrics.PointsAwarded(ctx, tenantID, sourceType, points)
	a.logger.Info("points awarded",
		zap.String("tenant_id", tenantID),
		zap.String("user_id", userID),
		zap.Int("points", points),
		zap.String("source_type", sourceType),
		zap.String("source_id", sourceID),
	)
	return nil
}

// InvoicePaidHandler rewards the owner of a settled invoice
type InvoicePaidHandler struct {
	awarder
}

// NewInvoicePaidHandler creates a new handler for invoice paid events
func NewInvoicePaidHandler(points gamification.PointsRepository, metrics *telemetry.BusinessMetrics, logger *zap.Logger) *InvoicePaidHandler {
	return &InvoicePaidHandler{awarder{points: points, metrics: metrics, logger: logger}}
}

// EventTypes returns the event types this handler is interested in
func (h *InvoicePaidHandler) EventTypes() []string {
	return []string{accounts.EventTypeInvoicePaid}
}

// Handle awards 10 points plus one per 100 of the invoice total
func (h *InvoicePaidHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	paid, ok := e.(*accounts.InvoicePaidEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			accounts.EventTypeInvoicePaid, e.EventType())
	}
	return h.award(ctx, paid.TenantID(), paid.OwnerID,
		gamification.PointsForInvoice(paid.Total),
		"Invoice "+paid.Number+" paid",
		gamification.SourceInvoice, paid.AggregateID())
}

// BOQItemCompletedHandler rewards the owner of a completed BOQ item
type BOQItemCompletedHandler struct {
	awarder
}

// NewBOQItemCompletedHandler creates a new handler for BOQ item completed events
func NewBOQItemCompletedHandler(points gamification.PointsRepository, metrics *telemetry.BusinessMetrics, logger *zap.Logger) *BOQItemCompletedHandler {
	return &BOQItemCompletedHandler{awarder{points: points, metrics: metrics, logger: logger}}
}

// EventTypes returns the event types this handler is interested in
func (h *BOQItemCompletedHandler) EventTypes() []string {
	return []string{projects.EventTypeBOQItemCompleted}
}

// Handle awards a flat amount per completed item
func (h *BOQItemCompletedHandler) Handle(ctx context.Context, e shared.DomainEvent) error {
	completed, ok := e.(*projects.BOQItemCompletedEvent)
	if !ok {
		return fmt.Errorf("unexpected event type: expected %s, got %s",
			projects.EventTypeBOQItemCompleted, e.EventType())
	}
	return h.award(ctx, completed.TenantID(), completed.OwnerID,
		gamification.BOQItemCompletedPoints,
		"BOQ item "+completed.Code+" completed",
		gamification.SourceBOQItem, completed.AggregateID())
}

// RegisterHandlers subscribes the points handlers to the bus. Each is
// wrapped so a redelivered event ID is dropped before reaching the ledger.
func RegisterHandlers(
	bus shared.EventBus,
	store shared.IdempotencyStore,
	points gamification.PointsRepository,
	metrics *telemetry.BusinessMetrics,
	logger *zap.Logger,
) {
	bus.Subscribe(event.NewIdempotentHandler(
		NewInvoicePaidHandler(points, metrics, logger), store, logger,
		event.WithHandlerName("points.invoice_paid"),
	))
	bus.Subscribe(event.NewIdempotentHandler(
		NewBOQItemCompletedHandler(points, metrics, logger), store, logger,
		event.WithHandlerName("points.boq_item_completed"),
	))
}
