package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Defaults for the admission window.
const (
	DefaultWindow      = time.Minute
	DefaultMaxRequests = 20
	DefaultMaxClients  = 10000
	DefaultSweepEvery  = 5 * time.Minute
)

// Config defines the fixed-window admission gate.
type Config struct {
	Window      time.Duration `mapstructure:"window"`
	MaxRequests int           `mapstructure:"max_requests"`

	// MaxClients bounds the tracked-client map: once exceeded, expired
	// records are evicted lazily on access.
	MaxClients int           `mapstructure:"max_clients"`
	SweepEvery time.Duration `mapstructure:"sweep_every"`
}

// record is the per-client window state. Owned exclusively by the Limiter.
type record struct {
	count       int
	windowStart time.Time
}

// Limiter is a process-local fixed-window admission gate keyed by client
// identifier. State is intentionally not persisted across restarts:
// best-effort, single-instance protection only.
//
// The record map is the one piece of mutable state shared across concurrent
// requests; it is only reachable through Allow, under the mutex.
type Limiter struct {
	mu      sync.Mutex
	records map[string]*record

	window      time.Duration
	maxRequests int
	maxClients  int
	sweepEvery  time.Duration

	// Clock is injectable for tests.
	Clock func() time.Time
}

// New returns a limiter with defaults applied for zero config values.
func New(cfg Config) *Limiter {
	if cfg.Window <= 0 {
		cfg.Window = DefaultWindow
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = DefaultMaxRequests
	}
	if cfg.MaxClients <= 0 {
		cfg.MaxClients = DefaultMaxClients
	}
	if cfg.SweepEvery <= 0 {
		cfg.SweepEvery = DefaultSweepEvery
	}

	return &Limiter{
		records:     make(map[string]*record),
		window:      cfg.Window,
		maxRequests: cfg.MaxRequests,
		maxClients:  cfg.MaxClients,
		sweepEvery:  cfg.SweepEvery,
	}
}

// Allow admits or rejects one request for the client. A record is created
// on first sight; the count resets whenever the window has elapsed. A
// rejected request does not increment the count.
func (l *Limiter) Allow(clientID string) bool {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()

	rec, ok := l.records[clientID]
	if !ok {
		if len(l.records) >= l.maxClients {
			l.evictExpiredLocked(now)
		}
		rec = &record{windowStart: now}
		l.records[clientID] = rec
	}

	if now.Sub(rec.windowStart) > l.window {
		rec.count = 0
		rec.windowStart = now
	}

	if rec.count >= l.maxRequests {
		return false
	}

	rec.count++
	return true
}

// Sweep drops records whose window has expired. Safe to call concurrently
// with Allow.
func (l *Limiter) Sweep() {
	now := l.now()

	l.mu.Lock()
	defer l.mu.Unlock()
	l.evictExpiredLocked(now)
}

// TrackedClients returns the number of client records currently held.
func (l *Limiter) TrackedClients() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.records)
}

// StartJanitor sweeps expired records periodically until the context is
// cancelled.
func (l *Limiter) StartJanitor(ctx context.Context) {
	t := time.NewTicker(l.sweepEvery)
	go func() {
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				l.Sweep()
			}
		}
	}()
}

func (l *Limiter) evictExpiredLocked(now time.Time) {
	for id, rec := range l.records {
		if now.Sub(rec.windowStart) > l.window {
			delete(l.records, id)
		}
	}
}

func (l *Limiter) now() time.Time {
	if l.Clock != nil {
		return l.Clock()
	}
	return time.Now()
}
