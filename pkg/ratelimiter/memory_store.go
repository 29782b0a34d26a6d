package ratelimiter

import (
	"context"
	"sync"
	"time"
)

type bucket struct {
	tokens     int
	lastRefill time.Time
	lastAccess time.Time
}

// MemoryStore implements Store in process memory. Idle buckets are dropped
// by a background sweep so the map tracks only active clients.
type MemoryStore struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	now             func() time.Time
	cleanupInterval time.Duration
	staleAfter      time.Duration
	stop            chan struct{}
	closeOnce       sync.Once
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithCleanupInterval sets how often idle buckets are swept. Zero disables
// the sweep.
func WithCleanupInterval(interval time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		ms.cleanupInterval = interval
	}
}

// WithStaleAfter sets how long a bucket may stay idle before the sweep drops it.
func WithStaleAfter(d time.Duration) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if d > 0 {
			ms.staleAfter = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) MemoryStoreOption {
	return func(ms *MemoryStore) {
		if now != nil {
			ms.now = now
		}
	}
}

func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	ms := &MemoryStore{
		buckets:         make(map[string]*bucket),
		now:             time.Now,
		cleanupInterval: 5 * time.Minute,
		staleAfter:      time.Hour,
		stop:            make(chan struct{}),
	}
	for _, opt := range opts {
		opt(ms)
	}
	if ms.cleanupInterval > 0 {
		go ms.cleanup()
	}
	return ms
}

// ConsumeTokens refills the bucket for the whole intervals that passed and
// then takes tokens from it.
func (ms *MemoryStore) ConsumeTokens(ctx context.Context, key string, tokens int, config Config) (int, time.Time, error) {
	if err := ctx.Err(); err != nil {
		return 0, time.Time{}, err
	}

	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	b, ok := ms.buckets[key]
	if !ok {
		b = &bucket{tokens: config.Capacity, lastRefill: now}
		ms.buckets[key] = b
	}

	// Capped so huge idle gaps cannot overflow.
	maxIntervals := int64(config.Capacity/config.RefillRate + 1)
	intervals := int(min(int64(now.Sub(b.lastRefill)/config.RefillInterval), maxIntervals))
	if intervals > 0 {
		b.tokens = min(b.tokens+intervals*config.RefillRate, config.Capacity)
		b.lastRefill = now
	}

	b.tokens -= tokens
	b.lastAccess = now
	return b.tokens, b.lastRefill.Add(config.RefillInterval), nil
}

func (ms *MemoryStore) Reset(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.mu.Lock()
	delete(ms.buckets, key)
	ms.mu.Unlock()
	return nil
}

// Len returns the number of tracked buckets.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.buckets)
}

// RemoveStale drops buckets idle for longer than the stale threshold.
func (ms *MemoryStore) RemoveStale() {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	now := ms.now()
	for key, b := range ms.buckets {
		if now.Sub(b.lastAccess) > ms.staleAfter {
			delete(ms.buckets, key)
		}
	}
}

func (ms *MemoryStore) cleanup() {
	ticker := time.NewTicker(ms.cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ms.RemoveStale()
		case <-ms.stop:
			return
		}
	}
}

// Close stops the sweep. Safe to call multiple times.
func (ms *MemoryStore) Close() error {
	ms.closeOnce.Do(func() { close(ms.stop) })
	return nil
}
