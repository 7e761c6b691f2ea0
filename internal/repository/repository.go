package repository

import "MarketScout/internal/model"

// Repository is the append-only signal log. Append never rewrites or deletes
// a prior record. Recent serves a bounded in-memory view of the newest
// signals; All reads the full durable log. Both return most-recent-first.
type Repository interface {
	Append(sig model.Signal) error
	Recent(limit int) []model.Signal
	All() ([]model.Signal, error)
	Close() error
}

// recentRing is the bounded most-recent-signals view shared by the repository
// implementations. Not safe for concurrent use on its own; callers hold their
// own lock.
type recentRing struct {
	cap     int
	signals []model.Signal // append order, oldest first
}

func newRecentRing(capacity int) *recentRing {
	if capacity <= 0 {
		capacity = 50
	}
	return &recentRing{cap: capacity}
}

func (r *recentRing) push(sig model.Signal) {
	r.signals = append(r.signals, sig)
	if len(r.signals) > r.cap {
		r.signals = r.signals[len(r.signals)-r.cap:]
	}
}

func (r *recentRing) view(limit int) []model.Signal {
	n := len(r.signals)
	if limit <= 0 || limit > n {
		limit = n
	}
	out := make([]model.Signal, 0, limit)
	for i := n - 1; i >= n-limit; i-- {
		out = append(out, r.signals[i])
	}
	return out
}
