package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 10
	defaultAttemptTTL  = 15 * time.Minute
)

// LoginLimiter counts failed login attempts per email in Redis.
// Key format: login_attempts:<email>, expiring after the attempt window.
type LoginLimiter struct {
	client      *redis.Client
	maxAttempts int
	ttl         time.Duration
}

// NewLoginLimiter creates a LoginLimiter wrapping the given Redis client.
// Non-positive maxAttempts or ttl fall back to defaults.
func NewLoginLimiter(client *redis.Client, maxAttempts int, ttl time.Duration) *LoginLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if ttl <= 0 {
		ttl = defaultAttemptTTL
	}
	return &LoginLimiter{client: client, maxAttempts: maxAttempts, ttl: ttl}
}

// TooMany reports whether the email has exhausted its allowed failed attempts
// within the current window.
func (l *LoginLimiter) TooMany(ctx context.Context, email string) (bool, error) {
	n, err := l.client.Get(ctx, l.key(email)).Int()
	if err != nil {
		if err == redis.Nil {
			return false, nil
		}
		return false, fmt.Errorf("attempt check: %w", err)
	}
	return n >= l.maxAttempts, nil
}

// RecordFailure increments the failed-attempt counter and refreshes its TTL.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	key := l.key(email)
	pipe := l.client.TxPipeline()
	pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, l.ttl)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("attempt record: %w", err)
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	return l.client.Del(ctx, l.key(email)).Err()
}

func (l *LoginLimiter) key(email string) string {
	return "login_attempts:" + email
}
