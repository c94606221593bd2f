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

func newTestRedis(t *testing.T) (*RedisClient, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := NewRedisClientFrom(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = client.Close() })
	return client, mr
}

func TestNewRedisClientParsesURL(t *testing.T) {
	mr := miniredis.RunT(t)

	client, err := NewRedisClient(context.Background(), "redis://"+mr.Addr()+"/0")
	require.NoError(t, err)
	defer client.Close()

	_, err = NewRedisClient(context.Background(), "not a url")
	assert.Error(t, err)
}

func TestArtifactRoundTripAndExpiry(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestRedis(t)

	_, ok, err := client.GetArtifact(ctx, "gs://models/global.json")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, client.SetArtifact(ctx, "gs://models/global.json", []byte(`{"probs":[]}`), time.Minute))
	assert.True(t, mr.Exists("artifact:gs://models/global.json"))

	data, ok, err := client.GetArtifact(ctx, "gs://models/global.json")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, `{"probs":[]}`, string(data))

	mr.FastForward(2 * time.Minute)
	_, ok, err = client.GetArtifact(ctx, "gs://models/global.json")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestLockIsExclusiveUntilOwnerUnlocks(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestRedis(t)

	ok, err := client.TryLock(ctx, "global-training", "replica-a", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = client.TryLock(ctx, "global-training", "replica-b", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	// a non-owner cannot release someone else's lock
	require.NoError(t, client.Unlock(ctx, "global-training", "replica-b"))
	owner, err := mr.Get("lock:global-training")
	require.NoError(t, err)
	assert.Equal(t, "replica-a", owner)

	require.NoError(t, client.Unlock(ctx, "global-training", "replica-a"))
	assert.False(t, mr.Exists("lock:global-training"))

	ok, err = client.TryLock(ctx, "global-training", "replica-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestLockExpires(t *testing.T) {
	ctx := context.Background()
	client, mr := newTestRedis(t)

	ok, err := client.TryLock(ctx, "global-training", "replica-a", time.Second)
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(2 * time.Second)
	ok, err = client.TryLock(ctx, "global-training", "replica-b", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestGetStatus(t *testing.T) {
	client, mr := newTestRedis(t)

	status, err := client.GetStatus(context.Background())
	require.NoError(t, err)
	assert.Equal(t, true, status["connected"])

	mr.Close()
	_, err = client.GetStatus(context.Background())
	assert.Error(t, err)
}
