package store

import (
	"context"
	"testing"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wolfman30/smart-hospital/pkg/logging"
)

func TestRedisBackend_RoundTrip(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	backend := NewRedisBackend(client, "hospital:doc:")

	_, err := backend.Read(ctx, Inventory)
	assert.ErrorIs(t, err, ErrNotFound)

	exists, err := backend.Exists(ctx, Inventory)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, backend.Write(ctx, Inventory, []byte(`[10,10]`)))
	got, err := mr.Get("hospital:doc:inventory")
	require.NoError(t, err)
	assert.Equal(t, `[10,10]`, got)

	exists, err = backend.Exists(ctx, Inventory)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestRedisBackend_EnsureDocumentsThroughStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(NewRedisBackend(client, "h:"), logging.Discard())

	require.NoError(t, mr.Set("h:staff", `[{"pid":100}]`))
	require.NoError(t, s.EnsureDocuments(ctx))

	for _, name := range []string{Patients, Inventory, Appointments} {
		v, err := mr.Get("h:" + name)
		require.NoError(t, err)
		assert.Equal(t, "[]", v)
	}
	assert.Len(t, s.Load(ctx, Staff), 1)
}

func TestRedisBackend_ReadErrorDegradesToEmpty(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := New(NewRedisBackend(client, ""), logging.Discard())
	mr.Close()

	assert.Empty(t, s.Load(context.Background(), Patients))
	assert.False(t, s.Save(context.Background(), Patients, []int{1}))
}
