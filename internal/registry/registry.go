package registry

import (
	"context"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/inflamstack/inflamstack/internal/report"
)

// Entry is a study report together with the time it was last refreshed.
type Entry struct {
	Report    *report.StudyReport
	UpdatedAt time.Time
}

// Registry is a thread-safe in-memory report store, keyed by dataset path.
// A background goroutine (Run) periodically evicts entries that have not
// been refreshed within the configured TTL.
type Registry struct {
	mu   sync.RWMutex
	data map[string]*Entry
	ttl  time.Duration
	now  func() time.Time // injectable for deterministic tests
}

// New creates a Registry with the given TTL.
func New(ttl time.Duration) *Registry {
	return &Registry{
		data: make(map[string]*Entry),
		ttl:  ttl,
		now:  time.Now,
	}
}

// Put stores or replaces the report for rep.Dataset.
// Callers must not modify rep after calling Put.
func (r *Registry) Put(rep *report.StudyReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[rep.Dataset] = &Entry{
		Report:    rep,
		UpdatedAt: r.now(),
	}
}

// Get returns the Entry for the given dataset path and whether one was
// found. The entry may be stale if the TTL has elapsed.
func (r *Registry) Get(dataset string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.data[dataset]
	return e, ok
}

// Delete removes the entry for the given dataset path, if present.
// Used when a dataset file disappears from the watched directory.
func (r *Registry) Delete(dataset string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.data, dataset)
}

// List returns all entries whose UpdatedAt is within the TTL, sorted by
// dataset path for stable iteration. Stale entries that have not yet been
// evicted are excluded.
func (r *Registry) List() []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cutoff := r.now().Add(-r.ttl)
	out := make([]*Entry, 0, len(r.data))
	for _, e := range r.data {
		if e.UpdatedAt.After(cutoff) {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Report.Dataset < out[j].Report.Dataset
	})
	return out
}

// Count returns the total number of entries currently held, including
// stale ones.
func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.data)
}

// TTL returns the configured entry lifetime.
func (r *Registry) TTL() time.Duration {
	return r.ttl
}

// Evict removes entries whose UpdatedAt is older than now minus TTL.
// It returns the number of entries removed.
func (r *Registry) Evict(now time.Time) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := now.Add(-r.ttl)
	removed := 0
	for dataset, e := range r.data {
		if !e.UpdatedAt.After(cutoff) {
			delete(r.data, dataset)
			removed++
		}
	}
	return removed
}

// Run starts the background TTL eviction loop. It ticks at half the TTL
// interval (minimum 1 second) so entries are evicted promptly. Run blocks
// until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	interval := r.ttl / 2
	if interval < time.Second {
		interval = time.Second
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-t.C:
			if n := r.Evict(now); n > 0 {
				slog.Debug("registry: evicted stale reports", "count", n)
			}
		}
	}
}
