package cache

import (
	"context"
	"time"

	"github.com/storefront/backend/internal/domain/shared"
)

// InMemoryIdempotencyStore keeps processed event ids in process memory.
// Suitable for single-instance deployments and tests.
type InMemoryIdempotencyStore struct {
	marks *ttlMap[struct{}]
}

// NewInMemoryIdempotencyStore creates the store and starts its sweeper
func NewInMemoryIdempotencyStore() *InMemoryIdempotencyStore {
	return &InMemoryIdempotencyStore{marks: newTTLMap[struct{}](5 * time.Minute)}
}

// MarkProcessed returns true when eventID was not marked yet
func (s *InMemoryIdempotencyStore) MarkProcessed(_ context.Context, eventID string, ttl time.Duration) (bool, error) {
	return s.marks.setIfAbsent(eventID, struct{}{}, ttl), nil
}

// IsProcessed reports whether eventID holds a live mark
func (s *InMemoryIdempotencyStore) IsProcessed(_ context.Context, eventID string) (bool, error) {
	_, ok := s.marks.get(eventID)
	return ok, nil
}

// Release forgets the mark of eventID
func (s *InMemoryIdempotencyStore) Release(_ context.Context, eventID string) error {
	s.marks.delete(eventID)
	return nil
}

// Close stops the sweeper. Safe to call multiple times.
func (s *InMemoryIdempotencyStore) Close() error {
	s.marks.close()
	return nil
}

// Size returns the number of stored marks, expired ones included until swept
func (s *InMemoryIdempotencyStore) Size() int {
	return s.marks.size()
}

var (
	_ shared.IdempotencyStore    = (*InMemoryIdempotencyStore)(nil)
	_ shared.IdempotencyReleaser = (*InMemoryIdempotencyStore)(nil)
)
