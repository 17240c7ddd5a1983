package cache

import (
	"context"
	"sync"
	"time"

	"github.com/erp/suite/internal/domain/shared"
	gocache "github.com/patrickmn/go-cache"
)

// InMemoryIdempotencyStore implements IdempotencyStore on a process-local cache.
// Suitable for single-instance deployments and tests.
type InMemoryIdempotencyStore struct {
	entries   *gocache.Cache
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewInMemoryIdempotencyStore creates the store and starts its cleanup loop.
// Call Close to stop it.
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return newInMemoryIdempotencyStore(5 * time.Minute)
}

func newInMemoryIdempotencyStore(cleanupEvery time.Duration) *InMemoryIdempotencyStore {
	store := &InMemoryIdempotencyStore{
		// no janitor: cleanupLoop owns expiry so Close can stop it
		entries:  gocache.New(gocache.NoExpiration, 0),
		stopChan: make(chan struct{}),
	}

	store.wg.Add(1)
	go store.cleanupLoop(cleanupEvery)

	return store
}

// MarkProcessed records eventID unless an unexpired record exists
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	if err := s.entries.Add(eventID, struct{}{}, ttl); err != nil {
		return false, nil
	}
	return true, nil
}

// IsProcessed checks if an event has already been processed
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	_, found := s.entries.Get(eventID)
	return found, nil
}

// Close stops the cleanup goroutine. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.closeOnce.Do(func() {
		close(s.stopChan)
		s.wg.Wait()
	})
	return nil
}

func (s *InMemoryIdempotencyStore) cleanupLoop(every time.Duration) {
	defer s.wg.Done()

	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.entries.DeleteExpired()
		}
	}
}

// Size returns the number of stored IDs, expired ones included until the next sweep
func (s *InMemoryIdempotencyStore) Size() int {
	return s.entries.ItemCount()
}

var _ shared.IdempotencyStore = (*InMemoryIdempotencyStore)(nil)
