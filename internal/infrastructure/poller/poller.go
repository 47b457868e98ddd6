// Package poller implements the periodic snapshot refresh behind the live
// dashboard views. Each poller re-fetches a full collection on a fixed
// interval and atomically replaces its in-memory snapshot, so reads never
// observe a partially refreshed list.
package poller

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/carthage-creance/recovery-api/internal/api/metrics"
)

// DefaultInterval matches the refresh cadence of the dashboard clients.
const DefaultInterval = 30 * time.Second

// FetchFunc loads the full current collection.
type FetchFunc[T any] func(ctx context.Context) ([]T, error)

// Poller refreshes a snapshot of T on a fixed interval. A failed refresh
// keeps the previous snapshot; there is no backoff, the next tick simply
// tries again.
type Poller[T any] struct {
	collection string
	interval   time.Duration
	fetch      FetchFunc[T]
	log        zerolog.Logger

	mu          sync.RWMutex
	snapshot    []T
	lastRefresh time.Time

	subsMu sync.Mutex
	subs   []func([]T)
}

// New creates a poller for the named collection. If interval <= 0,
// DefaultInterval is used.
func New[T any](collection string, interval time.Duration, fetch FetchFunc[T], log zerolog.Logger) *Poller[T] {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Poller[T]{
		collection: collection,
		interval:   interval,
		fetch:      fetch,
		log:        log,
	}
}

// Start refreshes once immediately, then launches the refresh loop. The loop
// stops when ctx is cancelled.
func (p *Poller[T]) Start(ctx context.Context) {
	p.refresh(ctx)
	go p.run(ctx)
}

// Subscribe registers a callback invoked with every successful snapshot.
// Callbacks run on the poller goroutine and must not block.
func (p *Poller[T]) Subscribe(fn func([]T)) {
	p.subsMu.Lock()
	defer p.subsMu.Unlock()
	p.subs = append(p.subs, fn)
}

// Snapshot returns the last successful snapshot and its refresh time. The
// returned slice is shared; callers must not mutate it.
func (p *Poller[T]) Snapshot() ([]T, time.Time) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snapshot, p.lastRefresh
}

func (p *Poller[T]) run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.log.Info().Str("collection", p.collection).Msg("poller stopped")
			return
		case <-ticker.C:
			p.refresh(ctx)
		}
	}
}

func (p *Poller[T]) refresh(ctx context.Context) {
	items, err := p.fetch(ctx)
	if err != nil {
		metrics.PollCyclesTotal.WithLabelValues(p.collection, "error").Inc()
		p.log.Error().Err(err).Str("collection", p.collection).Msg("snapshot refresh failed, keeping previous snapshot")
		return
	}

	p.mu.Lock()
	p.snapshot = items
	p.lastRefresh = time.Now().UTC()
	p.mu.Unlock()

	metrics.PollCyclesTotal.WithLabelValues(p.collection, "ok").Inc()
	metrics.PollSnapshotSize.WithLabelValues(p.collection).Set(float64(len(items)))

	p.subsMu.Lock()
	subs := make([]func([]T), len(p.subs))
	copy(subs, p.subs)
	p.subsMu.Unlock()

	for _, fn := range subs {
		fn(items)
	}
}
