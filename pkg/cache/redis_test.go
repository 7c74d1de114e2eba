package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestRedis creates a test Redis client using miniredis
func setupTestRedis(t *testing.T) (*Client, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := New(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestClient_SetGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "k1", "v1", time.Hour))

	val, err := client.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", val)
	assert.True(t, mr.Exists("aura:k1"))
}

func TestClient_JSON(t *testing.T) {
	client, mr := setupTestRedis(t)
	ctx := context.Background()

	type payload struct {
		Area  string  `json:"area"`
		Price float64 `json:"price"`
	}

	var out payload
	assert.ErrorIs(t, client.GetJSON(ctx, "market", &out), ErrMiss)

	require.NoError(t, client.SetJSON(ctx, "market", payload{"Marina", 1.5e6}, 5*time.Minute))
	require.NoError(t, client.GetJSON(ctx, "market", &out))
	assert.Equal(t, payload{"Marina", 1.5e6}, out)

	mr.FastForward(6 * time.Minute)
	assert.ErrorIs(t, client.GetJSON(ctx, "market", &out), ErrMiss)
}

func TestClient_DeletePattern(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	for _, k := range []string{"analytics:market:all", "analytics:market:marina", "analytics:performance", "other"} {
		require.NoError(t, client.Set(ctx, k, "x", time.Hour))
	}

	n, err := client.DeletePattern(ctx, "analytics:*")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = client.Get(ctx, "other")
	assert.NoError(t, err)

	require.NoError(t, client.Delete(ctx, "other"))
	_, err = client.Get(ctx, "other")
	assert.ErrorIs(t, err, redis.Nil)
}

func TestNewClientBadURL(t *testing.T) {
	_, err := NewClient(context.Background(), "not-a-url")
	assert.Error(t, err)
}

func TestNewClientMiniredis(t *testing.T) {
	mr := miniredis.RunT(t)
	client, err := NewClient(context.Background(), "redis://"+mr.Addr())
	require.NoError(t, err)
	defer client.Close()

	ttlSet := client.Set(context.Background(), "x", "1", time.Minute)
	require.NoError(t, ttlSet)
	ttl, err := client.TTL(context.Background(), "x")
	require.NoError(t, err)
	assert.Equal(t, time.Minute, ttl)
}
