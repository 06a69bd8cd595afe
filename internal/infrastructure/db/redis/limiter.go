package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultMaxAttempts = 10
	defaultWindow      = 5 * time.Minute
)

// AttemptLimiter throttles login attempts per username with a Redis
// fixed-window counter. Key format: login_attempts:<username>, expiring after
// the window. The counter is incremented on every Allow call, so a sustained
// attack stays blocked until the window elapses.
type AttemptLimiter struct {
	client      *redis.Client
	maxAttempts int64
	window      time.Duration
}

// NewAttemptLimiter creates an AttemptLimiter wrapping the given Redis
// client. Non-positive parameters fall back to the defaults.
func NewAttemptLimiter(client *redis.Client, maxAttempts int, window time.Duration) *AttemptLimiter {
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}
	if window <= 0 {
		window = defaultWindow
	}
	return &AttemptLimiter{client: client, maxAttempts: int64(maxAttempts), window: window}
}

// Allow records one attempt for the username and reports whether it is still
// within the window budget.
func (l *AttemptLimiter) Allow(ctx context.Context, username string) (bool, error) {
	key := l.key(username)

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("attempt incr: %w", err)
	}
	// First attempt in the window starts the clock.
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("attempt expire: %w", err)
		}
	}
	return n <= l.maxAttempts, nil
}

// Reset clears the attempt counter after a successful login.
func (l *AttemptLimiter) Reset(ctx context.Context, username string) error {
	return l.client.Del(ctx, l.key(username)).Err()
}

func (l *AttemptLimiter) key(username string) string {
	return "login_attempts:" + username
}
