package session_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/statekit/pkg/session"
)

func TestMemoryStore_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("creates empty state for unseen identity", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()

		st, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", st.ID())
		assert.Equal(t, 0, st.Len())
		assert.Equal(t, 1, store.Len())
	})

	t.Run("returns the same entry on repeated calls", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()

		first, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		second, err := store.Get(ctx, "abc")
		require.NoError(t, err)

		assert.Same(t, first, second)
		assert.True(t, first.Equal(second))
		assert.Equal(t, 1, store.Len())
	})

	t.Run("empty identity", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()

		_, err := store.Get(ctx, "")
		assert.ErrorIs(t, err, session.ErrInvalidIdentity)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("cancelled context", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()

		cctx, cancel := context.WithCancel(ctx)
		cancel()
		_, err := store.Get(cctx, "abc")
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 0, store.Len())
	})
}

func TestMemoryStore_Put(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("replaces contents and forces identity", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()

		st, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		st.Set("stale", "x")

		var next session.State
		require.NoError(t, next.UnmarshalJSON([]byte(`{"__sessionId":"someone-else","color":"blue"}`)))
		require.NoError(t, store.Put(ctx, "abc", &next))

		assert.Equal(t, "abc", next.ID())

		got, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Equal(t, "abc", got.ID())
		assert.Equal(t, map[string]string{"color": "blue"}, got.Snapshot())
	})

	t.Run("existing holders observe the update", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()

		held, err := store.Get(ctx, "abc")
		require.NoError(t, err)

		require.NoError(t, store.Put(ctx, "abc", session.NewState(map[string]string{"color": "green"})))

		v, ok := held.Get("color")
		assert.True(t, ok)
		assert.Equal(t, "green", v)

		after, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.Same(t, held, after)
	})

	t.Run("stored state is detached from the argument", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()

		_, err := store.Get(ctx, "abc")
		require.NoError(t, err)

		next := session.NewState(map[string]string{"k": "v"})
		require.NoError(t, store.Put(ctx, "abc", next))
		next.Set("k", "mutated")

		got, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		v, _ := got.Get("k")
		assert.Equal(t, "v", v)
	})

	t.Run("putting the stored entry back is a no-op", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()

		st, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		st.Set("k", "v")
		require.NoError(t, store.Put(ctx, "abc", st))

		v, _ := st.Get("k")
		assert.Equal(t, "v", v)
	})

	t.Run("unmaterialized identity", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()

		err := store.Put(ctx, "never-seen", session.NewState(map[string]string{"k": "v"}))
		assert.ErrorIs(t, err, session.ErrSessionNotFound)
		assert.Equal(t, 0, store.Len())
	})

	t.Run("nil state", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore()

		_, err := store.Get(ctx, "abc")
		require.NoError(t, err)
		assert.ErrorIs(t, store.Put(ctx, "abc", nil), session.ErrSerialization)
	})
}

func TestMemoryStore_Scenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore()

	st, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	out, err := st.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"__sessionId":"abc"}`, string(out))

	require.NoError(t, store.Put(ctx, "abc", session.NewState(map[string]string{"color": "blue"})))

	st, err = store.Get(ctx, "abc")
	require.NoError(t, err)
	out, err = st.MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"__sessionId":"abc","color":"blue"}`, string(out))
}

func TestMemoryStore_Close(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore()

	held, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	held.Set("k", "v")
	require.NoError(t, store.Ping(ctx))

	require.NoError(t, store.Close())

	_, err = store.Get(ctx, "abc")
	assert.ErrorIs(t, err, session.ErrStoreClosed)
	assert.ErrorIs(t, store.Put(ctx, "abc", session.NewState(nil)), session.ErrStoreClosed)
	assert.ErrorIs(t, store.Ping(ctx), session.ErrStoreClosed)

	v, _ := held.Get("k")
	assert.Equal(t, "v", v)
}

func TestMemoryStore_Shards(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	for _, n := range []int{-1, 0, 1, 3, 64} {
		store := session.NewMemoryStore(session.WithShards(n))
		for i := range 100 {
			_, err := store.Get(ctx, fmt.Sprintf("id-%d", i))
			require.NoError(t, err)
		}
		assert.Equal(t, 100, store.Len(), "shards=%d", n)
	}
}

func TestMemoryStore_ConcurrentGet(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore()

	const workers = 64
	results := make([]*session.State, workers)

	var wg sync.WaitGroup
	start := make(chan struct{})
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			st, err := store.Get(ctx, "shared")
			assert.NoError(t, err)
			results[i] = st
		}(i)
	}
	close(start)
	wg.Wait()

	for _, st := range results {
		assert.Same(t, results[0], st)
	}
	assert.Equal(t, 1, store.Len())

	results[1].Set("visible", "yes")
	v, ok := results[0].Get("visible")
	assert.True(t, ok)
	assert.Equal(t, "yes", v)
}

func TestMemoryStore_ConcurrentPutNeverExposesPartialState(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore()

	full := func(tag string) map[string]string {
		m := make(map[string]string, 20)
		for i := range 20 {
			m[fmt.Sprintf("k%02d", i)] = tag
		}
		return m
	}

	st, err := store.Get(ctx, "abc")
	require.NoError(t, err)
	require.NoError(t, store.Put(ctx, "abc", session.NewState(full("a"))))

	var wg sync.WaitGroup
	for w := range 4 {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			tag := fmt.Sprintf("w%d", w)
			for range 200 {
				assert.NoError(t, store.Put(ctx, "abc", session.NewState(full(tag))))
			}
		}(w)
	}

	for range 4 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 200 {
				snap := st.Snapshot()
				if !assert.Len(t, snap, 20) {
					return
				}
				first := snap["k00"]
				for _, v := range snap {
					if !assert.Equal(t, first, v, "mixed contents observed") {
						return
					}
				}
			}
		}()
	}
	wg.Wait()
}

func TestMemoryStore_ConcurrentIdentities(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := session.NewMemoryStore(session.WithShards(8))

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("client-%d", i)
			_, err := store.Get(ctx, id)
			assert.NoError(t, err)
			assert.NoError(t, store.Put(ctx, id, session.NewState(map[string]string{"owner": id})))
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 50, store.Len())
	for i := range 50 {
		id := fmt.Sprintf("client-%d", i)
		st, err := store.Get(ctx, id)
		require.NoError(t, err)
		owner, _ := st.Get("owner")
		assert.Equal(t, id, owner)
		assert.Equal(t, id, st.ID())
	}
}
