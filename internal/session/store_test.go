package session

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/oiwatch/internal/ranking"
	"github.com/wonny/oiwatch/pkg/config"
	"github.com/wonny/oiwatch/pkg/logger"
	"github.com/wonny/oiwatch/pkg/redis"
)

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	_, found, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Save(ctx, "a", ranking.ViewState{Page: 3}))
	state, found, err := store.Load(ctx, "a")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, state.Page)

	require.NoError(t, store.Delete(ctx, "a"))
	_, found, _ = store.Load(ctx, "a")
	assert.False(t, found)
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "a", ranking.ViewState{Page: 2}))
	require.NoError(t, store.Save(ctx, "b", ranking.ViewState{Page: 5}))

	now = now.Add(50 * time.Second)
	_, found, _ := store.Load(ctx, "a") // slides a's expiry
	assert.True(t, found)

	now = now.Add(30 * time.Second)
	assert.Equal(t, 1, store.Sweep())
	assert.Equal(t, 1, store.Len())

	_, found, _ = store.Load(ctx, "b")
	assert.False(t, found)
	_, found, _ = store.Load(ctx, "a")
	assert.True(t, found)
}

func TestMemoryStore_Concurrent(t *testing.T) {
	store := NewMemoryStore(time.Hour)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			id := NewID()
			_ = store.Save(ctx, id, ranking.ViewState{Page: page})
			state, found, _ := store.Load(ctx, id)
			assert.True(t, found)
			assert.Equal(t, page, state.Page)
		}(i + 1)
	}
	wg.Wait()
	assert.Equal(t, 20, store.Len())
}

func TestNew_FallsBackToMemory(t *testing.T) {
	cfg := &config.Config{Session: config.SessionConfig{TTL: time.Hour}}
	client, err := redis.New(cfg)
	require.NoError(t, err)

	store := New(cfg, client, logger.Nop())
	_, ok := store.(*MemoryStore)
	assert.True(t, ok)

	store = New(cfg, nil, logger.Nop())
	_, ok = store.(*MemoryStore)
	assert.True(t, ok)
}

func TestNewID(t *testing.T) {
	a, b := NewID(), NewID()
	assert.NotEqual(t, a, b)
	assert.True(t, ValidID(a))
	assert.False(t, ValidID("not-a-session"))
	assert.False(t, ValidID(""))
}

func TestSweepJob(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, store.Save(ctx, "a", ranking.ViewState{Page: 2}))
	now = now.Add(2 * time.Minute)
	require.NoError(t, store.Save(ctx, "b", ranking.ViewState{Page: 1}))

	job := NewSweepJob(store, logger.Nop())
	assert.Equal(t, "session_sweep", job.Name())
	assert.NotEmpty(t, job.Schedule())

	require.NoError(t, job.Run(ctx))
	assert.Equal(t, 1, store.Len())
}

type fakeCache struct {
	states   map[string]ranking.ViewState
	touchErr error
	touched  int
}

func (c *fakeCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	state, ok := c.states[key]
	if ok {
		*dest.(*ranking.ViewState) = state
	}
	return ok, nil
}

func (c *fakeCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	c.states[key] = value.(ranking.ViewState)
	return nil
}

func (c *fakeCache) Delete(ctx context.Context, key string) error {
	delete(c.states, key)
	return nil
}

func (c *fakeCache) Touch(ctx context.Context, key string, ttl time.Duration) error {
	c.touched++
	return c.touchErr
}

func TestRedisStore_TouchFailureIsLogged(t *testing.T) {
	var buf bytes.Buffer
	log := logger.NewWithWriter(&config.Config{Env: "test", LogLevel: "debug"}, &buf)

	cache := &fakeCache{
		states:   map[string]ranking.ViewState{},
		touchErr: errors.New("connection reset"),
	}
	store := &RedisStore{cache: cache, ttl: time.Hour, logger: log}
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, "abc", ranking.ViewState{Page: 4}))

	state, found, err := store.Load(ctx, "abc")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 4, state.Page)
	assert.Equal(t, 1, cache.touched)

	assert.Contains(t, buf.String(), "Failed to refresh session ttl")
	assert.Contains(t, buf.String(), "connection reset")
}

func TestRedisStore_MissDoesNotTouch(t *testing.T) {
	cache := &fakeCache{states: map[string]ranking.ViewState{}}
	store := &RedisStore{cache: cache, ttl: time.Hour, logger: logger.Nop()}

	_, found, err := store.Load(context.Background(), "missing")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Equal(t, 0, cache.touched)
}
