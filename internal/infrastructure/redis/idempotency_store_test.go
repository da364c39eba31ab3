package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/urbano-pos-api/internal/application/ports"
)

func newStore(t *testing.T) (*IdempotencyStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewIdempotencyStore(rdb, time.Minute), mr
}

func TestIdempotencyStore_Ciclo(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	reserved, prev, err := store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.True(t, reserved)
	assert.Nil(t, prev)

	reserved, prev, err = store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, reserved, "en curso")
	assert.Nil(t, prev)

	require.NoError(t, store.Complete(ctx, "k1", ports.StoredResponse{Status: 201, ContentType: "application/json", Body: []byte(`{"id":"s1"}`)}))

	reserved, prev, err = store.Reserve(ctx, "k1")
	require.NoError(t, err)
	assert.False(t, reserved)
	require.NotNil(t, prev)
	assert.Equal(t, 201, prev.Status)
	assert.JSONEq(t, `{"id":"s1"}`, string(prev.Body))
}

func TestIdempotencyStore_ReleaseLiberaLaClave(t *testing.T) {
	store, _ := newStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "k2")
	require.NoError(t, err)
	require.NoError(t, store.Release(ctx, "k2"))

	reserved, _, err := store.Reserve(ctx, "k2")
	require.NoError(t, err)
	assert.True(t, reserved)
}

func TestIdempotencyStore_TTL(t *testing.T) {
	store, mr := newStore(t)
	ctx := context.Background()

	_, _, err := store.Reserve(ctx, "k3")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, mr.TTL(keyPrefix+"k3"))

	mr.FastForward(2 * time.Minute)
	reserved, _, err := store.Reserve(ctx, "k3")
	require.NoError(t, err)
	assert.True(t, reserved)
}
