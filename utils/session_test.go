package utils

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return mr, client
}

func TestRevokeAndCheckSession(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	assert.False(t, IsSessionRevoked(ctx, client, "uid-1"))

	require.NoError(t, RevokeSession(ctx, client, "uid-1"))
	assert.True(t, IsSessionRevoked(ctx, client, "uid-1"))
	assert.False(t, IsSessionRevoked(ctx, client, "uid-2"))

	// The entry only needs to outlive an ID token's one hour lifetime.
	ttl := mr.TTL("logout:uid-1")
	assert.Greater(t, ttl, time.Hour)

	mr.FastForward(2 * time.Hour)
	assert.False(t, IsSessionRevoked(ctx, client, "uid-1"))
}

func TestSessionWithoutRedis(t *testing.T) {
	ctx := context.Background()
	assert.Error(t, RevokeSession(ctx, nil, "uid-1"))
	assert.False(t, IsSessionRevoked(ctx, nil, "uid-1"))
}

func TestValidateLoginAttempts(t *testing.T) {
	mr, client := newTestRedis(t)
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		assert.NoError(t, ValidateLoginAttempts(ctx, client, "Owner@Zahab.shop"))
	}
	assert.ErrorIs(t, ValidateLoginAttempts(ctx, client, "owner@zahab.shop"), ErrTooManyAttempts)

	// A successful sign-in resets the counter.
	ClearLoginAttempts(ctx, client, "OWNER@zahab.shop")
	assert.NoError(t, ValidateLoginAttempts(ctx, client, "owner@zahab.shop"))

	// The window expires on its own as well.
	mr.FastForward(16 * time.Minute)
	assert.NoError(t, ValidateLoginAttempts(ctx, client, "owner@zahab.shop"))
}

func TestValidateLoginAttemptsWithoutRedis(t *testing.T) {
	assert.NoError(t, ValidateLoginAttempts(context.Background(), nil, "owner@zahab.shop"))
}
