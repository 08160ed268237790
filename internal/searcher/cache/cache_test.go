package cache

import (
	"context"
	"errors"
	"path"
	"sync"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/indexer/index"
	"github.com/Adithya-Monish-Kumar-K/Boolean-Retrieval-Engine/internal/searcher/query"
)

type memStore struct {
	mu   sync.Mutex
	data map[string]string
	fail bool
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string]string)}
}

func (m *memStore) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", errors.New("connection refused")
	}
	v, ok := m.data[key]
	if !ok {
		return "", goredis.Nil
	}
	return v, nil
}

func (m *memStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = string(value.([]byte))
	return nil
}

func (m *memStore) FlushByPattern(_ context.Context, pattern string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var n int64
	for k := range m.data {
		if ok, _ := path.Match(pattern, k); ok {
			delete(m.data, k)
			n++
		}
	}
	return n, nil
}

func sampleResult(q string) *query.Result {
	return &query.Result{Query: q, Mode: query.ModeBoolean, Docs: index.NewDocSet("1", "3"), Cost: 4}
}

func TestGetOrComputeCachesResult(t *testing.T) {
	c := New(newMemStore(), time.Minute, "v1", nil)
	ctx := context.Background()
	calls := 0
	compute := func() (*query.Result, error) {
		calls++
		return sampleResult("a OR b"), nil
	}

	res, hit, err := c.GetOrCompute(ctx, "a OR b", compute)
	require.NoError(t, err)
	assert.False(t, hit)

	res2, hit, err := c.GetOrCompute(ctx, "  a OR b ", compute)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, calls)
	assert.True(t, res.Docs.Equal(res2.Docs))
	assert.Equal(t, 4, res2.Cost)

	hits, misses := c.Stats()
	assert.Equal(t, int64(1), hits)
	assert.Equal(t, int64(1), misses)
}

func TestGetOrComputeDoesNotCacheErrors(t *testing.T) {
	c := New(newMemStore(), time.Minute, "v1", nil)
	boom := errors.New("too complex")
	_, _, err := c.GetOrCompute(context.Background(), "q", func() (*query.Result, error) {
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)
	_, ok := c.Get(context.Background(), "q")
	assert.False(t, ok)
}

func TestOperandOrderIsPartOfKey(t *testing.T) {
	c := New(newMemStore(), time.Minute, "v1", nil)
	c.Set(context.Background(), "a OR b AND c", sampleResult("a OR b AND c"))
	_, ok := c.Get(context.Background(), "b AND c OR a")
	assert.False(t, ok)
}

func TestNamespaceSeparatesIndexes(t *testing.T) {
	store := newMemStore()
	New(store, time.Minute, "old", nil).Set(context.Background(), "q", sampleResult("q"))
	_, ok := New(store, time.Minute, "new", nil).Get(context.Background(), "q")
	assert.False(t, ok)
}

func TestNamespaceSeparatesTermLimits(t *testing.T) {
	assert.NotEqual(t, Namespace("snowball-abc", 3), Namespace("snowball-abc", 5))
	assert.NotEqual(t, Namespace("snowball-abc", 3), Namespace("snowball-abd", 3))

	store := newMemStore()
	q := "a AND b AND c AND d"
	New(store, time.Minute, Namespace("idx", 5), nil).Set(context.Background(), q, sampleResult(q))
	_, ok := New(store, time.Minute, Namespace("idx", 3), nil).Get(context.Background(), q)
	assert.False(t, ok)
}

func TestStoreFailureIsAMiss(t *testing.T) {
	store := newMemStore()
	store.fail = true
	c := New(store, time.Minute, "v1", nil)
	res, hit, err := c.GetOrCompute(context.Background(), "q", func() (*query.Result, error) {
		return sampleResult("q"), nil
	})
	require.NoError(t, err)
	assert.False(t, hit)
	assert.NotNil(t, res)
}

func TestInvalidate(t *testing.T) {
	store := newMemStore()
	c := New(store, time.Minute, "v1", nil)
	c.Set(context.Background(), "a", sampleResult("a"))
	c.Set(context.Background(), "b", sampleResult("b"))

	n, err := c.Invalidate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
	_, ok := c.Get(context.Background(), "a")
	assert.False(t, ok)
}
