package ratelimit

import (
	"context"
	"sync"
	"time"
)

// Event is one admission decision worth recording.
type Event struct {
	Key     string
	Allowed bool
	Method  string
	Path    string
	At      time.Time
}

// Recorder records admission decisions. Recording is observational only:
// admission state itself always lives in the Limiter.
type Recorder interface {
	Record(ctx context.Context, ev Event) error
}

// Counters pairs allow/deny totals.
type Counters struct {
	Allowed int64
	Denied  int64
}

// MemoryRecorder is a simple in-memory recorder, the default backend.
type MemoryRecorder struct {
	mu      sync.Mutex
	total   Counters
	byRoute map[string]Counters
}

// NewMemoryRecorder returns an empty in-memory recorder.
func NewMemoryRecorder() *MemoryRecorder {
	return &MemoryRecorder{byRoute: make(map[string]Counters)}
}

// Record implements Recorder.
func (s *MemoryRecorder) Record(_ context.Context, ev Event) error {
	route := ev.Method + " " + ev.Path

	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.byRoute[route]
	if ev.Allowed {
		s.total.Allowed++
		c.Allowed++
	} else {
		s.total.Denied++
		c.Denied++
	}
	s.byRoute[route] = c
	return nil
}

// Total returns the aggregate counters.
func (s *MemoryRecorder) Total() Counters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

// ByRoute returns a copy of the per-route counters.
func (s *MemoryRecorder) ByRoute() map[string]Counters {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make(map[string]Counters, len(s.byRoute))
	for route, c := range s.byRoute {
		out[route] = c
	}
	return out
}
