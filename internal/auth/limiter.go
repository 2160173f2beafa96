package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// LoginLimiter counts failed logins per email in fixed windows. Unknown and
// registered emails are counted the same way. A nil limiter never throttles.
type LoginLimiter struct {
	redis       *redis.Client
	maxAttempts int
	window      time.Duration
}

// NewLoginLimiter returns nil when client is nil or throttling is disabled.
func NewLoginLimiter(client *redis.Client, maxAttempts int, window time.Duration) *LoginLimiter {
	if client == nil || maxAttempts <= 0 || window <= 0 {
		return nil
	}
	return &LoginLimiter{redis: client, maxAttempts: maxAttempts, window: window}
}

// Check fails with ErrTooManyAttempts once the window's budget is spent.
func (l *LoginLimiter) Check(ctx context.Context, email string) error {
	if l == nil {
		return nil
	}
	count, err := l.redis.Get(ctx, loginKey(email)).Int()
	if err != nil && err != redis.Nil {
		return fmt.Errorf("login limiter: %w", err)
	}
	if count >= l.maxAttempts {
		return ErrTooManyAttempts
	}
	return nil
}

// RecordFailure counts one failed attempt. The window starts whenever the
// counter has no expiry, which also repairs a key left without one by an
// earlier failed Expire.
func (l *LoginLimiter) RecordFailure(ctx context.Context, email string) error {
	if l == nil {
		return nil
	}
	key := loginKey(email)
	pipe := l.redis.TxPipeline()
	pipe.Incr(ctx, key)
	ttl := pipe.TTL(ctx, key)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("login limiter: %w", err)
	}
	if ttl.Val() < 0 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return fmt.Errorf("login limiter: %w", err)
		}
	}
	return nil
}

// Reset clears the counter after a successful login.
func (l *LoginLimiter) Reset(ctx context.Context, email string) error {
	if l == nil {
		return nil
	}
	if err := l.redis.Del(ctx, loginKey(email)).Err(); err != nil {
		return fmt.Errorf("login limiter: %w", err)
	}
	return nil
}

// loginKey hashes the normalised email so addresses do not appear in Redis.
func loginKey(email string) string {
	sum := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "login_fail:" + hex.EncodeToString(sum[:])
}
