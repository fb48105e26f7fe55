package store

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"fleetlens/domain/fleet"
)

// Snapshot is one aggregation pass over one upload. It is never mutated
// after it has been published.
type Snapshot struct {
	ID         string           `json:"id"`
	CreatedAt  time.Time        `json:"createdAt"`
	Sources    fleet.Sources    `json:"-"`
	Dashboard  fleet.Dashboard  `json:"dashboard"`
	AskContext fleet.AskContext `json:"askContext"`
}

// MemoryStore holds the current snapshot for the web server.
type MemoryStore struct {
	current *Snapshot
	mu      sync.RWMutex
}

// NewMemoryStore starts from an empty upload, which shows the
// demonstration dashboard.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{current: Build(fleet.Sources{})}
}

// Build runs the aggregation engine over src.
func Build(src fleet.Sources) *Snapshot {
	return &Snapshot{
		ID:         uuid.New().String(),
		CreatedAt:  time.Now().UTC(),
		Sources:    src,
		Dashboard:  fleet.BuildDashboard(src.Cost, src.Vehicles, src.Freight),
		AskContext: fleet.BuildAskContext(src),
	}
}

// Replace aggregates src and publishes the result. Aggregation runs outside
// the lock, so readers keep seeing the previous snapshot until the swap.
func (s *MemoryStore) Replace(src fleet.Sources) *Snapshot {
	next := Build(src)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = next
	return next
}

// Current returns the published snapshot.
func (s *MemoryStore) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}
