package cache

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (SessionCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewSessionCache(client), mr
}

func TestSessionCache_SaveLoadRoundtrip(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SaveSession(ctx, "tok-1", `{"id":"user-1"}`))

	token, userJSON, found, err := c.LoadSession(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok-1", token)
	assert.Equal(t, `{"id":"user-1"}`, userJSON)
}

func TestSessionCache_LoadAbsent(t *testing.T) {
	c, _ := newTestCache(t)

	_, _, found, err := c.LoadSession(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionCache_LoadHalfWritten(t *testing.T) {
	c, mr := newTestCache(t)

	// Only the token key present; the pair counts as absent.
	require.NoError(t, mr.Set(SessionTokenKey, "tok-1"))
	mr.Del(SessionUserKey)

	_, _, found, err := c.LoadSession(context.Background())
	require.NoError(t, err)
	assert.False(t, found)
}

func TestSessionCache_Clear(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SaveSession(ctx, "tok-1", `{"id":"user-1"}`))
	require.NoError(t, c.ClearSession(ctx))

	assert.False(t, mr.Exists(SessionTokenKey))
	assert.False(t, mr.Exists(SessionUserKey))

	_, _, found, err := c.LoadSession(ctx)
	require.NoError(t, err)
	assert.False(t, found)

	// Clearing again is not an error.
	require.NoError(t, c.ClearSession(ctx))
}

func TestSessionCache_SaveOverwrites(t *testing.T) {
	c, _ := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.SaveSession(ctx, "tok-1", `{"id":"user-1"}`))
	require.NoError(t, c.SaveSession(ctx, "tok-2", `{"id":"user-1","bio":"updated"}`))

	token, userJSON, found, err := c.LoadSession(ctx)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "tok-2", token)
	assert.Contains(t, userJSON, "updated")
}
