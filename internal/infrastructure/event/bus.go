package event

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/telemetry"
	"go.uber.org/zap"
)

// InMemoryEventBus dispatches events synchronously to subscribed handlers.
// A failing handler is logged and does not stop the others.
type InMemoryEventBus struct {
	registry *HandlerRegistry
	logger   *zap.Logger
	running  atomic.Bool
	// lifecycle holds handlers that own background work
	lifecycle []Lifecycle
	mu        sync.Mutex
}

// Lifecycle is implemented by handlers that need Start/Stop with the bus
type Lifecycle interface {
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// NewInMemoryEventBus creates a new in-memory event bus
func NewInMemoryEventBus(logger *zap.Logger) *InMemoryEventBus {
	return &InMemoryEventBus{
		registry: NewHandlerRegistry(),
		logger:   logger,
	}
}

// Publish delivers each event to its handlers in registration order
func (b *InMemoryEventBus) Publish(ctx context.Context, events ...shared.DomainEvent) error {
	for _, event := range events {
		for _, handler := range b.registry.GetHandlers(event.EventType()) {
			if err := b.dispatch(ctx, handler, event); err != nil {
				b.logger.Error("Event handler failed",
					zap.String("event_type", event.EventType()),
					zap.String("event_id", event.EventID()),
					zap.String("tenant_id", event.TenantID()),
					zap.String("handler", fmt.Sprintf("%T", handler)),
					zap.Error(err),
				)
			}
		}
	}
	return nil
}

// Subscribe registers a handler; without explicit types the handler's own are used
func (b *InMemoryEventBus) Subscribe(handler shared.EventHandler, eventTypes ...string) {
	if len(eventTypes) == 0 {
		eventTypes = handler.EventTypes()
	}
	b.registry.Register(handler, eventTypes...)

	if lc, ok := handler.(Lifecycle); ok {
		b.mu.Lock()
		b.lifecycle = append(b.lifecycle, lc)
		b.mu.Unlock()
	}

	b.logger.Debug("Handler subscribed",
		zap.String("handler", fmt.Sprintf("%T", handler)),
		zap.Strings("event_types", eventTypes),
	)
}

// Unsubscribe removes a handler
func (b *InMemoryEventBus) Unsubscribe(handler shared.EventHandler) {
	b.registry.Unregister(handler)
}

// Start starts handlers that run background work
func (b *InMemoryEventBus) Start(ctx context.Context) error {
	if !b.running.CompareAndSwap(false, true) {
		return nil
	}
	for _, lc := range b.lifecycleHandlers() {
		if err := lc.Start(ctx); err != nil {
			return fmt.Errorf("failed to start event handler %T: %w", lc, err)
		}
	}
	b.logger.Info("Event bus started")
	return nil
}

// Stop stops background handlers in reverse start order
func (b *InMemoryEventBus) Stop(ctx context.Context) error {
	if !b.running.CompareAndSwap(true, false) {
		return nil
	}
	handlers := b.lifecycleHandlers()
	var firstErr error
	for i := len(handlers) - 1; i >= 0; i-- {
		if err := handlers[i].Stop(ctx); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to stop event handler %T: %w", handlers[i], err)
		}
	}
	b.logger.Info("Event bus stopped")
	return firstErr
}

func (b *InMemoryEventBus) lifecycleHandlers() []Lifecycle {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]Lifecycle(nil), b.lifecycle...)
}

// dispatch runs one handler, turning a panic into an error
func (b *InMemoryEventBus) dispatch(ctx context.Context, handler shared.EventHandler, event shared.DomainEvent) (err error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "event", event.EventType(),
		"event.id", event.EventID(),
		"event.aggregate_id", event.AggregateID(),
		telemetry.AttrTenantID, event.TenantID(),
	)
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("handler panicked: %v", r)
		}
		telemetry.RecordError(span, err)
		span.End()
	}()

	return handler.Handle(ctx, event)
}

var _ shared.EventBus = (*InMemoryEventBus)(nil)
