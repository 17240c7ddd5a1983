package event

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ErrForwarderStopped is returned when events arrive after Stop
var ErrForwarderStopped = errors.New("kafka forwarder is stopped")

// MessageWriter is the part of *kafka.Writer the forwarder uses
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaForwarder copies every domain event to a Kafka topic.
// Handle only enqueues; a background worker batches and writes, so a slow
// broker never blocks the request that produced the event.
type KafkaForwarder struct {
	writer    MessageWriter
	logger    *zap.Logger
	queue     chan kafka.Message
	batchSize int
	flushIn   time.Duration

	mu      sync.RWMutex
	started bool
	stopped bool
	done    chan struct{}
	wg      sync.WaitGroup
}

// KafkaForwarderOption configures a KafkaForwarder
type KafkaForwarderOption func(*KafkaForwarder)

// WithQueueSize sets how many messages may wait for the worker
func WithQueueSize(n int) KafkaForwarderOption {
	return func(f *KafkaForwarder) {
		if n > 0 {
			f.queue = make(chan kafka.Message, n)
		}
	}
}

// WithBatch sets the largest batch and the longest wait before a partial batch is written
func WithBatch(size int, flushIn time.Duration) KafkaForwarderOption {
	return func(f *KafkaForwarder) {
		if size > 0 {
			f.batchSize = size
		}
		if flushIn > 0 {
			f.flushIn = flushIn
		}
	}
}

// NewKafkaWriter builds a writer for the configured brokers and topic
func NewKafkaWriter(cfg config.KafkaConfig) *kafka.Writer {
	return &kafka.Writer{
		Addr:         kafka.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafka.Hash{},
		BatchTimeout: cfg.BatchTimeout,
		RequiredAcks: kafka.RequireOne,
	}
}

// NewKafkaForwarder creates a forwarder writing through writer
func NewKafkaForwarder(writer MessageWriter, logger *zap.Logger, opts ...KafkaForwarderOption) *KafkaForwarder {
	f := &KafkaForwarder{
		writer:    writer,
		logger:    logger.Named("kafka_forwarder"),
		queue:     make(chan kafka.Message, 1024),
		batchSize: 100,
		flushIn:   time.Second,
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// EventTypes returns nil so the forwarder receives every event
func (f *KafkaForwarder) EventTypes() []string {
	return nil
}

// Handle enqueues the event keyed by aggregate ID, keeping per-aggregate order
func (f *KafkaForwarder) Handle(_ context.Context, event shared.DomainEvent) error {
	env, err := NewEnvelope(event)
	if err != nil {
		return err
	}
	value, err := env.Marshal()
	if err != nil {
		return fmt.Errorf("failed to encode event envelope: %w", err)
	}
	msg := kafka.Message{
		Key:   []byte(event.TenantID() + "/" + event.AggregateID()),
		Value: value,
		Headers: []kafka.Header{
			{Key: "event_type", Value: []byte(event.EventType())},
			{Key: "tenant_id", Value: []byte(event.TenantID())},
		},
		Time: event.OccurredAt(),
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.stopped {
		return ErrForwarderStopped
	}

	select {
	case f.queue <- msg:
		return nil
	default:
		f.logger.Warn("Kafka queue full, dropping event",
			zap.String("event_id", env.ID),
			zap.String("event_type", env.Type),
		)
		return fmt.Errorf("kafka queue full, dropped event %s", env.ID)
	}
}

// Start launches the background writer
func (f *KafkaForwarder) Start(_ context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.started {
		return nil
	}
	if f.stopped {
		return ErrForwarderStopped
	}
	f.started = true

	f.wg.Add(1)
	go f.run()
	return nil
}

// Stop drains queued messages and closes the writer.
// If ctx expires first the remaining messages are dropped.
func (f *KafkaForwarder) Stop(ctx context.Context) error {
	f.mu.Lock()
	if f.stopped {
		f.mu.Unlock()
		return nil
	}
	f.stopped = true
	started := f.started
	close(f.queue)
	f.mu.Unlock()

	if started {
		finished := make(chan struct{})
		go func() {
			f.wg.Wait()
			close(finished)
		}()
		select {
		case <-finished:
		case <-ctx.Done():
			close(f.done)
			<-finished
			return errors.Join(ctx.Err(), f.writer.Close())
		}
	}
	return f.writer.Close()
}

func (f *KafkaForwarder) run() {
	defer f.wg.Done()

	ticker := time.NewTicker(f.flushIn)
	defer ticker.Stop()

	batch := make([]kafka.Message, 0, f.batchSize)
	for {
		select {
		case msg, ok := <-f.queue:
			if !ok {
				f.flush(batch)
				return
			}
			batch = append(batch, msg)
			if len(batch) >= f.batchSize {
				f.flush(batch)
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				f.flush(batch)
				batch = batch[:0]
			}
		case <-f.done:
			return
		}
	}
}

func (f *KafkaForwarder) flush(batch []kafka.Message) {
	if len(batch) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := f.writer.WriteMessages(ctx, batch...); err != nil {
		f.logger.Error("Failed to forward events to Kafka",
			zap.Int("count", len(batch)),
			zap.Error(err),
		)
		return
	}
	f.logger.Debug("Forwarded events to Kafka", zap.Int("count", len(batch)))
}

var (
	_ shared.EventHandler = (*KafkaForwarder)(nil)
	_ Lifecycle           = (*KafkaForwarder)(nil)
)
