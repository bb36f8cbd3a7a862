package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const loginKeyPrefix = "login:fail:"

// incrWindow atomically bumps the counter and starts the window on the first
// failure so a crash between INCR and PEXPIRE cannot leave a key without TTL.
var incrWindow = redis.NewScript(`
local c = redis.call("INCR", KEYS[1])
if c == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return c
`)

// LoginLimiter counts failed logins per key in a fixed window.
// Key format: login:fail:<normalized email>
type LoginLimiter struct {
	client      *redis.Client
	maxFailures int
	window      time.Duration
}

// NewLoginLimiter blocks a key once maxFailures failures land inside window.
func NewLoginLimiter(client *redis.Client, maxFailures int, window time.Duration) *LoginLimiter {
	if window <= 0 {
		window = 15 * time.Minute
	}
	return &LoginLimiter{client: client, maxFailures: maxFailures, window: window}
}

// Blocked reports whether key has reached the failure threshold.
func (l *LoginLimiter) Blocked(ctx context.Context, key string) (bool, error) {
	if l.maxFailures <= 0 {
		return false, nil
	}
	n, err := l.client.Get(ctx, l.key(key)).Int()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("login limiter get: %w", err)
	}
	return n >= l.maxFailures, nil
}

// RecordFailure adds one failure to the current window.
func (l *LoginLimiter) RecordFailure(ctx context.Context, key string) error {
	if err := incrWindow.Run(ctx, l.client, []string{l.key(key)}, l.window.Milliseconds()).Err(); err != nil {
		return fmt.Errorf("login limiter incr: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, key string) error {
	if err := l.client.Del(ctx, l.key(key)).Err(); err != nil {
		return fmt.Errorf("login limiter reset: %w", err)
	}
	return nil
}

func (l *LoginLimiter) key(k string) string {
	return loginKeyPrefix + k
}
