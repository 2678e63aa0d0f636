// utils/login_attempts.go
package utils

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
)

const (
	maxLoginAttempts   = 5
	loginAttemptWindow = 15 * time.Minute
)

// ErrTooManyAttempts signals the caller should answer 429.
var ErrTooManyAttempts = errors.New("too many login attempts")

// ValidateLoginAttempts counts failed-or-pending sign-ins per email within a
// rolling window. With no Redis available the throttle is disabled.
func ValidateLoginAttempts(ctx context.Context, redisClient *redis.Client, email string) error {
	if redisClient == nil {
		return nil
	}

	key := "login_attempts:" + strings.ToLower(email)
	attempts, err := redisClient.Incr(ctx, key).Result()
	if err != nil {
		return nil
	}

	if attempts == 1 {
		redisClient.Expire(ctx, key, loginAttemptWindow)
	}

	if attempts > maxLoginAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

// ClearLoginAttempts resets the counter after a successful sign-in.
func ClearLoginAttempts(ctx context.Context, redisClient *redis.Client, email string) {
	if redisClient == nil {
		return
	}
	redisClient.Del(ctx, "login_attempts:"+strings.ToLower(email))
}
