package store

import (
	"context"
	"sync"
	"time"

	"github.com/rshade/carbonlens/internal/carbon"
)

// Compile-time interface check.
var _ Store = (*MemoryStore)(nil)

// MemoryStore keeps records in process memory. Safe for concurrent access.
type MemoryStore struct {
	mu  sync.RWMutex
	st  state
	now func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{st: newState(), now: time.Now}
}

// CreateUser registers a user.
func (s *MemoryStore) CreateUser(_ context.Context, name, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.createUser(name, email, s.now())
}

// GetUser returns a user by ID.
func (s *MemoryStore) GetUser(_ context.Context, id string) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.getUser(id)
}

// SaveFootprint stores a footprint for an existing user.
func (s *MemoryStore) SaveFootprint(_ context.Context, userID string, input carbon.FootprintInput, breakdown carbon.EmissionBreakdown) (FootprintRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.saveFootprint(userID, input, breakdown, s.now())
}

// ListFootprints returns a user's records, oldest first.
func (s *MemoryStore) ListFootprints(_ context.Context, userID string) ([]FootprintRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.st.listFootprints(userID)
}

// Close is a no-op.
func (s *MemoryStore) Close() error { return nil }
