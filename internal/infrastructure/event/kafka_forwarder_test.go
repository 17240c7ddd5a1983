package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/config"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeWriter struct {
	mu      sync.Mutex
	batches [][]kafka.Message
	err     error
	closed  bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.err != nil {
		return w.err
	}
	w.batches = append(w.batches, append([]kafka.Message(nil), msgs...))
	return nil
}

func (w *fakeWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

func (w *fakeWriter) messages() []kafka.Message {
	w.mu.Lock()
	defer w.mu.Unlock()
	var all []kafka.Message
	for _, b := range w.batches {
		all = append(all, b...)
	}
	return all
}

func TestKafkaForwarder_ForwardsEnvelopes(t *testing.T) {
	w := &fakeWriter{}
	f := NewKafkaForwarder(w, zap.NewNop(), WithBatch(10, 5*time.Millisecond))
	ctx := context.Background()
	require.NoError(t, f.Start(ctx))

	tenant := shared.NewID()
	event := newTestEvent("InvoicePaid", tenant)
	require.NoError(t, f.Handle(ctx, event))

	require.Eventually(t, func() bool { return len(w.messages()) == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, f.Stop(ctx))

	msg := w.messages()[0]
	assert.Equal(t, tenant+"/"+event.AggregateID(), string(msg.Key))
	assert.Contains(t, msg.Headers, kafka.Header{Key: "event_type", Value: []byte("InvoicePaid")})

	env, err := DecodeEnvelope(msg.Value)
	require.NoError(t, err)
	assert.Equal(t, event.EventID(), env.ID)
	assert.Equal(t, "InvoicePaid", env.Type)
	assert.Equal(t, tenant, env.TenantID)
	assert.Contains(t, string(env.Payload), `"data":"test data"`)
	assert.True(t, w.closed)
}

func TestKafkaForwarder_StopDrainsQueue(t *testing.T) {
	w := &fakeWriter{}
	f := NewKafkaForwarder(w, zap.NewNop(), WithBatch(3, time.Hour))
	ctx := context.Background()
	require.NoError(t, f.Start(ctx))

	tenant := shared.NewID()
	for i := 0; i < 7; i++ {
		require.NoError(t, f.Handle(ctx, newTestEvent("InvoiceSent", tenant)))
	}
	require.NoError(t, f.Stop(ctx))

	assert.Len(t, w.messages(), 7)
	assert.ErrorIs(t, f.Handle(ctx, newTestEvent("InvoiceSent", tenant)), ErrForwarderStopped)
}

func TestKafkaForwarder_QueueFull(t *testing.T) {
	w := &fakeWriter{}
	f := NewKafkaForwarder(w, zap.NewNop(), WithQueueSize(1))
	ctx := context.Background()

	tenant := shared.NewID()
	require.NoError(t, f.Handle(ctx, newTestEvent("InvoiceSent", tenant)))
	assert.Error(t, f.Handle(ctx, newTestEvent("InvoiceSent", tenant)))

	// never started: Stop only closes the writer
	require.NoError(t, f.Stop(ctx))
	assert.Empty(t, w.messages())
	assert.True(t, w.closed)
}

func TestKafkaForwarder_WriteErrorsAreLogged(t *testing.T) {
	w := &fakeWriter{err: errors.New("broker down")}
	f := NewKafkaForwarder(w, zap.NewNop(), WithBatch(1, time.Millisecond))
	ctx := context.Background()
	require.NoError(t, f.Start(ctx))

	require.NoError(t, f.Handle(ctx, newTestEvent("InvoiceSent", shared.NewID())))
	require.NoError(t, f.Stop(ctx))
	assert.Empty(t, w.messages())
}

func TestKafkaForwarder_OnBus(t *testing.T) {
	w := &fakeWriter{}
	f := NewKafkaForwarder(w, zap.NewNop(), WithBatch(1, time.Millisecond))
	bus := NewInMemoryEventBus(zap.NewNop())
	bus.Subscribe(f)

	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))
	require.NoError(t, bus.Publish(ctx, newTestEvent("CustomerCreated", shared.NewID())))
	require.NoError(t, bus.Stop(ctx))

	assert.Len(t, w.messages(), 1)
}

func TestNewKafkaWriter(t *testing.T) {
	w := NewKafkaWriter(config.KafkaConfig{
		Brokers:      []string{"localhost:9092"},
		Topic:        "erp.events",
		BatchTimeout: 50 * time.Millisecond,
	})
	assert.Equal(t, "erp.events", w.Topic)
	assert.Equal(t, kafka.RequireOne, w.RequiredAcks)
	assert.NoError(t, w.Close())
}
