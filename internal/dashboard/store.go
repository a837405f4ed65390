package dashboard

import (
	"context"
	"github.com/myrjola/reelcheck/internal/models"
	"sync"
)

// StateStore persists one dashboard state per key.
type StateStore interface {
	// Load returns the stored state or the zero state when there is none.
	Load(ctx context.Context, key string) (models.DashboardState, error)
	// Put stores st unconditionally.
	Put(ctx context.Context, key string, st models.DashboardState) error
	// CompareAndPut stores st only if the stored generation equals generation. A missing state has generation 0.
	CompareAndPut(ctx context.Context, key string, st models.DashboardState, generation int64) (bool, error)
	Delete(ctx context.Context, key string) error
}

// KeySource names the dashboard state belonging to the current request.
type KeySource interface {
	StateKey(ctx context.Context) (string, error)
}

// MemoryStateStore keeps states in a map.
type MemoryStateStore struct {
	mu     sync.Mutex
	states map[string]models.DashboardState
}

func NewMemoryStateStore() *MemoryStateStore {
	return &MemoryStateStore{
		mu:     sync.Mutex{},
		states: make(map[string]models.DashboardState),
	}
}

func (s *MemoryStateStore) Load(_ context.Context, key string) (models.DashboardState, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.states[key], nil
}

func (s *MemoryStateStore) Put(_ context.Context, key string, st models.DashboardState) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.states[key] = st
	return nil
}

func (s *MemoryStateStore) CompareAndPut(
	_ context.Context,
	key string,
	st models.DashboardState,
	generation int64,
) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.states[key].Generation != generation {
		return false, nil
	}
	s.states[key] = st
	return true, nil
}

func (s *MemoryStateStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.states, key)
	return nil
}
