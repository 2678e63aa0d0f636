// utils/session.go
package utils

import (
	"context"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Outstanding ID tokens live at most an hour, so the denylist entry only has
// to outlive them.
const sessionRevokeTTL = time.Hour + 5*time.Minute

func sessionRevokeKey(uid string) string {
	return fmt.Sprintf("logout:%s", uid)
}

// RevokeSession records a logged-out uid so the auth middleware rejects its
// still-unexpired ID tokens immediately instead of waiting for the identity
// provider's revocation to propagate.
func RevokeSession(ctx context.Context, redisClient *redis.Client, uid string) error {
	if redisClient == nil {
		return fmt.Errorf("redis client not available")
	}
	return redisClient.Set(ctx, sessionRevokeKey(uid), time.Now().Format(time.RFC3339), sessionRevokeTTL).Err()
}

// IsSessionRevoked reports whether the uid logged out recently. Without Redis
// the check is skipped; the provider-side revocation still applies.
func IsSessionRevoked(ctx context.Context, redisClient *redis.Client, uid string) bool {
	if redisClient == nil {
		return false
	}
	exists, err := redisClient.Exists(ctx, sessionRevokeKey(uid)).Result()
	if err != nil {
		return false
	}
	return exists > 0
}
