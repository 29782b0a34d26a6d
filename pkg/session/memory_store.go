package session

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"
	"sync/atomic"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

const (
	defaultShards = 32
	meterName     = "github.com/dmitrymomot/statekit/pkg/session"
)

type shard struct {
	mu     sync.RWMutex
	states map[string]*State
}

// MemoryStore implements Store with a sharded in-memory map.
// Identities on different shards never contend; operations on the same
// identity serialize on the entry's own lock.
type MemoryStore struct {
	shards   []*shard
	mask     uint32
	closed   atomic.Bool
	created  metric.Int64Counter
	replaced metric.Int64Counter
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*memoryStoreConfig)

type memoryStoreConfig struct {
	shards int
	meter  metric.Meter
}

// WithShards sets the shard count. It is rounded up to a power of two;
// values below one fall back to the default.
func WithShards(n int) MemoryStoreOption {
	return func(c *memoryStoreConfig) {
		c.shards = n
	}
}

// WithMeter records store counters on the given meter instead of the global provider.
func WithMeter(m metric.Meter) MemoryStoreOption {
	return func(c *memoryStoreConfig) {
		if m != nil {
			c.meter = m
		}
	}
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	cfg := memoryStoreConfig{shards: defaultShards}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.meter == nil {
		cfg.meter = otel.Meter(meterName)
	}

	n := nextPowerOfTwo(cfg.shards)
	store := &MemoryStore{
		shards: make([]*shard, n),
		mask:   uint32(n - 1),
	}
	for i := range store.shards {
		store.shards[i] = &shard{states: make(map[string]*State)}
	}

	store.created = counter(cfg.meter, "statekit.session.created", "Session states created on first access")
	store.replaced = counter(cfg.meter, "statekit.session.replaced", "Session states replaced in place")

	return store
}

// Get returns the state for id, creating it on first access.
func (m *MemoryStore) Get(ctx context.Context, id string) (*State, error) {
	if err := m.check(ctx, id); err != nil {
		return nil, err
	}

	sh := m.shardFor(id)

	sh.mu.RLock()
	state, ok := sh.states[id]
	sh.mu.RUnlock()
	if ok {
		return state, nil
	}

	sh.mu.Lock()
	state, ok = sh.states[id]
	if !ok {
		state = &State{id: id, data: make(map[string]string)}
		sh.states[id] = state
	}
	sh.mu.Unlock()

	if !ok {
		m.created.Add(ctx, 1)
	}
	return state, nil
}

// Put replaces the stored contents for id with next's data.
// It fails with ErrSessionNotFound when id was never materialized by Get.
func (m *MemoryStore) Put(ctx context.Context, id string, next *State) error {
	if err := m.check(ctx, id); err != nil {
		return err
	}
	if next == nil {
		return fmt.Errorf("%w: nil state", ErrSerialization)
	}

	sh := m.shardFor(id)
	sh.mu.RLock()
	stored, ok := sh.states[id]
	sh.mu.RUnlock()
	if !ok {
		return ErrSessionNotFound
	}

	next.setID(id)
	if next == stored {
		return nil
	}

	// next and stored are never locked at the same time.
	stored.replace(next.Snapshot())
	m.replaced.Add(ctx, 1)
	return nil
}

// Len returns the number of stored identities.
func (m *MemoryStore) Len() int {
	total := 0
	for _, sh := range m.shards {
		sh.mu.RLock()
		total += len(sh.states)
		sh.mu.RUnlock()
	}
	return total
}

// Close marks the store closed. Stored states are kept so existing holders
// can still read them.
func (m *MemoryStore) Close() error {
	m.closed.Store(true)
	return nil
}

// Ping reports whether the store accepts operations. It matches the
// readiness check signature used by the HTTP server.
func (m *MemoryStore) Ping(ctx context.Context) error {
	if m.closed.Load() {
		return ErrStoreClosed
	}
	return ctx.Err()
}

func (m *MemoryStore) check(ctx context.Context, id string) error {
	if m.closed.Load() {
		return ErrStoreClosed
	}
	if id == "" {
		return ErrInvalidIdentity
	}
	return ctx.Err()
}

func (m *MemoryStore) shardFor(id string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id))
	return m.shards[h.Sum32()&m.mask]
}

func counter(meter metric.Meter, name, desc string) metric.Int64Counter {
	c, err := meter.Int64Counter(name, metric.WithDescription(desc), metric.WithUnit("{session}"))
	if err != nil {
		otel.Handle(err)
		return noop.Int64Counter{}
	}
	return c
}

func nextPowerOfTwo(n int) int {
	if n < 1 {
		n = defaultShards
	}
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}
