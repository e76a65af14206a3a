package ratelimit

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestStore() (*MemoryStore, *time.Time) {
	current := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	s := &MemoryStore{
		windows: make(map[string]*window),
		now:     func() time.Time { return current },
		stopC:   make(chan struct{}),
	}
	return s, &current
}

func TestLimiter_FixedWindow(t *testing.T) {
	store, now := newTestStore()
	limiter := New(store)
	policy := Policy{MaxAttempts: 5, Window: 600 * time.Second}

	for i := 0; i < 5; i++ {
		assert.True(t, limiter.Allow("login", "10.0.0.1", policy), "attempt %d should be allowed", i+1)
	}
	assert.False(t, limiter.Allow("login", "10.0.0.1", policy), "6th attempt should be denied")

	// Once the window elapses the counter starts over.
	*now = now.Add(601 * time.Second)
	assert.True(t, limiter.Allow("login", "10.0.0.1", policy))
}

func TestLimiter_KeysAreIndependent(t *testing.T) {
	store, _ := newTestStore()
	limiter := New(store)
	policy := Policy{MaxAttempts: 1, Window: time.Minute}

	assert.True(t, limiter.Allow("login", "10.0.0.1", policy))
	assert.False(t, limiter.Allow("login", "10.0.0.1", policy))

	// A different IP and a different action keep their own budgets.
	assert.True(t, limiter.Allow("login", "10.0.0.2", policy))
	assert.True(t, limiter.Allow("signup", "10.0.0.1", policy))
}

func TestLimiter_ZeroBudgetDisablesLimiting(t *testing.T) {
	store, _ := newTestStore()
	limiter := New(store)

	for i := 0; i < 100; i++ {
		assert.True(t, limiter.Allow("login", "10.0.0.1", Policy{MaxAttempts: 0, Window: time.Minute}))
	}
}

func TestMemoryStore_ConcurrentIncr(t *testing.T) {
	store := NewMemoryStore()
	defer store.Stop()

	const goroutines = 50
	var wg sync.WaitGroup
	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			store.Incr("login:10.0.0.1", time.Minute)
		}()
	}
	wg.Wait()

	// The next increment observes every prior attempt: no undercounting.
	assert.Equal(t, goroutines+1, store.Incr("login:10.0.0.1", time.Minute))
}

func TestMemoryStore_DropStale(t *testing.T) {
	store, now := newTestStore()

	store.Incr("login:10.0.0.1", time.Minute)
	store.Incr("login:10.0.0.2", time.Minute)

	*now = now.Add(2 * time.Hour)
	store.dropStale(time.Hour)

	store.mu.Lock()
	defer store.mu.Unlock()
	assert.Empty(t, store.windows)
}
