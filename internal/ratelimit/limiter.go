// Package ratelimit bounds repeated attempts against sensitive endpoints
// with a fixed-window counter per (action, key) pair. The counter store sits
// behind the Store interface so a shared backend can replace the in-memory
// map without touching callers; policy (budget and window) lives with the
// caller.
package ratelimit

import (
	"sync"
	"time"
)

// Policy is one endpoint's attempt budget.
type Policy struct {
	MaxAttempts int
	Window      time.Duration
}

// Store counts attempts per key within a fixed window.
type Store interface {
	// Incr increments the counter for key and returns the new count. When
	// window has elapsed since the counter's window began, the counter is
	// reset before incrementing.
	Incr(key string, window time.Duration) int
}

// Limiter applies a Policy per action on top of a Store.
type Limiter struct {
	store Store
}

func New(store Store) *Limiter {
	return &Limiter{store: store}
}

// Allow records one attempt for (action, key) and reports whether it is
// within p's budget. The increment happens before the comparison, so two
// concurrent requests at the boundary cannot both slip through.
func (l *Limiter) Allow(action, key string, p Policy) bool {
	if p.MaxAttempts <= 0 {
		return true
	}
	count := l.store.Incr(action+":"+key, p.Window)
	return count <= p.MaxAttempts
}

type window struct {
	start time.Time
	count int
}

// MemoryStore is the in-process Store: a mutex-guarded map of windows with a
// background sweep that drops stale entries.
type MemoryStore struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time
	stopC   chan struct{}
	stopped sync.Once
}

func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		windows: make(map[string]*window),
		now:     time.Now,
		stopC:   make(chan struct{}),
	}
	go s.sweep()
	return s
}

func (s *MemoryStore) Incr(key string, windowSize time.Duration) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	w, ok := s.windows[key]
	if !ok || now.Sub(w.start) >= windowSize {
		w = &window{start: now}
		s.windows[key] = w
	}
	w.count++
	return w.count
}

// Stop terminates the sweep goroutine.
func (s *MemoryStore) Stop() {
	s.stopped.Do(func() { close(s.stopC) })
}

func (s *MemoryStore) sweep() {
	ticker := time.NewTicker(10 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			s.dropStale(time.Hour)
		case <-s.stopC:
			return
		}
	}
}

func (s *MemoryStore) dropStale(maxAge time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	for key, w := range s.windows {
		if now.Sub(w.start) >= maxAge {
			delete(s.windows, key)
		}
	}
}
