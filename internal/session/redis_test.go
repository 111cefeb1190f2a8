package session

import (
	"context"
	"os"
	"testing"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisRoundTrip(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		t.Skip("REDIS_ADDR not set")
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	require.NoError(t, client.Ping(ctx).Err())

	r := NewRedis(client, "test-"+uuid.NewString())
	t.Cleanup(func() { r.Clear(context.Background()) })

	rec, err := r.Load(ctx)
	require.NoError(t, err)
	assert.True(t, rec.Empty())

	want := Record{Token: "jwt-1", User: `{"id":"d1","role":"DOCTOR"}`}
	require.NoError(t, r.Save(ctx, want))

	got, err := r.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)

	require.NoError(t, r.Clear(ctx))
	rec, err = r.Load(ctx)
	require.NoError(t, err)
	assert.True(t, rec.Empty())
}
