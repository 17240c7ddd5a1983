package shared

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	events []DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

func TestTenantAggregateRoot(t *testing.T) {
	root := NewOwnedAggregateRoot("tenant-a", "user-1")

	assert.True(t, IsValidID(root.ID))
	assert.Equal(t, 1, root.Version)
	assert.True(t, root.BelongsTo("tenant-a"))
	assert.False(t, root.BelongsTo("tenant-b"))
	assert.False(t, root.BelongsTo(""))
	assert.True(t, root.IsOwnedBy("user-1"))
	assert.False(t, root.IsOwnedBy("user-2"))

	unowned := NewTenantAggregateRoot("tenant-a")
	assert.False(t, unowned.IsOwnedBy(""))
}

func TestPublishAndClear(t *testing.T) {
	root := NewTenantAggregateRoot("tenant-a")
	evt := NewEventMeta("Something", "Thing", root.ID, root.TenantID)
	root.AddDomainEvent(&evt)

	pub := &recordingPublisher{}
	require.NoError(t, PublishAndClear(context.Background(), pub, &root))
	assert.Len(t, pub.events, 1)
	assert.Empty(t, root.GetDomainEvents())

	// nil publisher drops events silently
	root.AddDomainEvent(&evt)
	require.NoError(t, PublishAndClear(context.Background(), nil, &root))
	assert.Empty(t, root.GetDomainEvents())
}

func TestDomainError_Is(t *testing.T) {
	err := fmt.Errorf("loading invoice: %w", NewDomainError("NOT_FOUND", "Invoice not found"))
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.True(t, IsNotFound(err))
	assert.False(t, errors.Is(err, ErrForbidden))
}

func TestFilter_Normalize(t *testing.T) {
	f := Filter{Page: 0, PageSize: 500, OrderDir: "sideways"}.Normalize()
	assert.Equal(t, 1, f.Page)
	assert.Equal(t, 100, f.PageSize)
	assert.Equal(t, "desc", f.OrderDir)
	assert.NotNil(t, f.Filters)
	assert.Equal(t, 0, f.Offset())

	p := NewPaginated([]int{1, 2}, 41, 1, 20)
	assert.Equal(t, 3, p.TotalPages)
}

func TestBaseAggregateRoot_PersistedVersion(t *testing.T) {
	root := NewBaseAggregateRoot()
	assert.True(t, root.IsNew())

	root.MarkPersisted()
	assert.False(t, root.IsNew())
	assert.Equal(t, 1, root.PersistedVersion())

	root.IncrementVersion()
	root.IncrementVersion()
	assert.Equal(t, 3, root.GetVersion())
	assert.Equal(t, 1, root.PersistedVersion())
}
