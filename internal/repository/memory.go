package repository

import (
	"sync"

	"MarketScout/internal/model"
)

// MemoryRepository keeps the full log in memory. Used in tests and when no
// database path is configured; same ordering and recent-view semantics as the
// SQLite implementation.
type MemoryRepository struct {
	mu      sync.Mutex
	signals []model.Signal // append order
	recent  *recentRing
}

func NewMemoryRepository(recentCap int) *MemoryRepository {
	return &MemoryRepository{recent: newRecentRing(recentCap)}
}

func (r *MemoryRepository) Append(sig model.Signal) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.signals = append(r.signals, sig)
	r.recent.push(sig)
	return nil
}

func (r *MemoryRepository) Recent(limit int) []model.Signal {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.recent.view(limit)
}

func (r *MemoryRepository) All() ([]model.Signal, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]model.Signal, 0, len(r.signals))
	for i := len(r.signals) - 1; i >= 0; i-- {
		out = append(out, r.signals[i])
	}
	return out, nil
}

func (r *MemoryRepository) Close() error { return nil }
