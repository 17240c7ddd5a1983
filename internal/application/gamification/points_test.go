package gamification

import (
	"context"
	"sort"
	"sync"
	"testing"

	appidentity "github.com/erp/suite/internal/application/identity"
	"github.com/erp/suite/internal/domain/accounts"
	"github.com/erp/suite/internal/domain/gamification"
	"github.com/erp/suite/internal/domain/identity"
	"github.com/erp/suite/internal/domain/projects"
	"github.com/erp/suite/internal/domain/shared"
	"github.com/erp/suite/internal/infrastructure/cache"
	"github.com/erp/suite/internal/infrastructure/event"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// memoryLedger is an in-process PointsRepository with the same
// dedup key as the database unique index.
type memoryLedger struct {
	mu      sync.Mutex
	entries []*gamification.PointsEntry
}

func (l *memoryLedger) Award(_ context.Context, entry *gamification.PointsEntry) (bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		if e.TenantID == entry.TenantID && e.UserID == entry.UserID &&
			e.SourceType == entry.SourceType && e.SourceID == entry.SourceID {
			return false, nil
		}
	}
	l.entries = append(l.entries, entry)
	return true, nil
}

func (l *memoryLedger) Leaderboard(_ context.Context, tenantID string, limit int) ([]gamification.LeaderboardRow, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	totals := map[string]int64{}
	for _, e := range l.entries {
		if e.TenantID == tenantID {
			totals[e.UserID] += int64(e.Points)
		}
	}
	rows := make([]gamification.LeaderboardRow, 0, len(totals))
	for user, pts := range totals {
		rows = append(rows, gamification.LeaderboardRow{UserID: user, Points: pts})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].Points > rows[j].Points })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	for i := range rows {
		rows[i].Rank = i + 1
	}
	return rows, nil
}

func (l *memoryLedger) TotalForUser(ctx context.Context, tenantID, userID string) (int64, error) {
	var total int64
	for _, e := range l.forUser(tenantID, userID) {
		total += int64(e.Points)
	}
	return total, nil
}

func (l *memoryLedger) History(_ context.Context, tenantID, userID string, limit int) ([]*gamification.PointsEntry, error) {
	out := l.forUser(tenantID, userID)
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (l *memoryLedger) forUser(tenantID, userID string) []*gamification.PointsEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	var out []*gamification.PointsEntry
	for _, e := range l.entries {
		if e.TenantID == tenantID && e.UserID == userID {
			out = append(out, e)
		}
	}
	return out
}

func newBus(t *testing.T, ledger *memoryLedger) *event.InMemoryEventBus {
	t.Helper()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })
	bus := event.NewInMemoryEventBus(zap.NewNop())
	RegisterHandlers(bus, store, ledger, nil, zap.NewNop())
	return bus
}

func paidInvoice(t *testing.T, owner, total string) *accounts.InvoicePaidEvent {
	t.Helper()
	inv, err := accounts.NewInvoice("T1", owner, "INV-202601-00001", "C1", "USD")
	require.NoError(t, err)
	require.NoError(t, inv.SetLines([]accounts.InvoiceLineInput{
		{Description: "Work", Quantity: decimal.NewFromInt(1), UnitPrice: decimal.RequireFromString(total)},
	}))
	return accounts.NewInvoicePaidEvent(inv)
}

func TestInvoicePaidAwardsOwner(t *testing.T) {
	ledger := &memoryLedger{}
	bus := newBus(t, ledger)

	require.NoError(t, bus.Publish(context.Background(), paidInvoice(t, "S1", "384.99")))

	require.Len(t, ledger.entries, 1)
	e := ledger.entries[0]
	assert.Equal(t, "S1", e.UserID)
	assert.Equal(t, 13, e.Points)
	assert.Equal(t, gamification.SourceInvoice, e.SourceType)
}

func TestRedeliveredEventAwardsOnce(t *testing.T) {
	ledger := &memoryLedger{}
	bus := newBus(t, ledger)
	evt := paidInvoice(t, "S1", "100")

	require.NoError(t, bus.Publish(context.Background(), evt))
	require.NoError(t, bus.Publish(context.Background(), evt))

	assert.Len(t, ledger.entries, 1)
}

func TestSameSourceDifferentEventAwardsOnce(t *testing.T) {
	ledger := &memoryLedger{}
	h := NewInvoicePaidHandler(ledger, nil, zap.NewNop())
	first := paidInvoice(t, "S1", "100")
	// a second event for the same invoice carries a fresh event ID
	second := *first
	second.EventMeta = shared.NewEventMeta(accounts.EventTypeInvoicePaid, accounts.AggregateTypeInvoice, first.AggregateID(), "T1")

	require.NoError(t, h.Handle(context.Background(), first))
	require.NoError(t, h.Handle(context.Background(), &second))

	assert.Len(t, ledger.entries, 1)
}

func TestBOQItemCompletedAwardsFlatPoints(t *testing.T) {
	ledger := &memoryLedger{}
	bus := newBus(t, ledger)
	item, err := projects.NewBOQItem("T1", "S2", "PRJ-1", "1.1", "Excavation", "m3", decimal.NewFromInt(10), decimal.NewFromInt(5))
	require.NoError(t, err)

	require.NoError(t, bus.Publish(context.Background(), projects.NewBOQItemCompletedEvent(item)))

	require.Len(t, ledger.entries, 1)
	assert.Equal(t, "S2", ledger.entries[0].UserID)
	assert.Equal(t, gamification.BOQItemCompletedPoints, ledger.entries[0].Points)
}

func TestHandlerRejectsForeignEvent(t *testing.T) {
	h := NewBOQItemCompletedHandler(&memoryLedger{}, nil, zap.NewNop())
	err := h.Handle(context.Background(), paidInvoice(t, "S1", "10"))
	assert.Error(t, err)
}

func TestPointsService(t *testing.T) {
	ledger := &memoryLedger{}
	bus := newBus(t, ledger)
	require.NoError(t, bus.Publish(context.Background(),
		paidInvoice(t, "S1", "100"),
		paidInvoice(t, "S2", "1000"),
		paidInvoice(t, "S1", "50"),
	))
	svc := NewPointsService(ledger, appidentity.NewAuthorizer(appidentity.StaticPolicy{Policy: identity.DefaultPolicy()}), zap.NewNop())
	guest := identity.WithActor(context.Background(), identity.Actor{TenantID: "T1", UserID: "G1", Role: identity.RoleGuest})

	rows, err := svc.Leaderboard(guest, 0)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	// S1: 11 + 10, S2: 20
	assert.Equal(t, "S1", rows[0].UserID)
	assert.Equal(t, int64(21), rows[0].Points)
	assert.Equal(t, "S2", rows[1].UserID)
	assert.Equal(t, int64(20), rows[1].Points)
	assert.Equal(t, 2, rows[1].Rank)

	sales := identity.WithActor(context.Background(), identity.Actor{TenantID: "T1", UserID: "S1", Role: identity.RoleSales})
	me, err := svc.Me(sales)
	require.NoError(t, err)
	assert.Equal(t, int64(21), me.Total)
	assert.Len(t, me.History, 2)
}

func TestPointsService_RequiresActor(t *testing.T) {
	svc := NewPointsService(&memoryLedger{}, appidentity.NewAuthorizer(appidentity.StaticPolicy{Policy: identity.DefaultPolicy()}), zap.NewNop())
	_, err := svc.Leaderboard(context.Background(), 5)
	assert.Error(t, err)
}
