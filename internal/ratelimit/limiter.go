// Package ratelimit throttles clients with fixed-window counters kept in Redis.
package ratelimit

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
)

const (
	// Redis key prefix
	rateLimitPrefix = "ratelimit:"

	// Upper bound for one Redis round trip
	storeTimeout = 500 * time.Millisecond

	// TTL reply for a key that exists without an expiry
	noExpiry = time.Duration(-1)
)

// Counter is the subset of the Redis client the limiter needs
type Counter interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
}

// Limiter allows at most limit requests per identifier within each window.
// It implements echo's middleware.RateLimiterStore.
type Limiter struct {
	redis  Counter
	limit  int
	window time.Duration
}

// NewLimiter creates a new limiter
func NewLimiter(redis Counter, limit int, window time.Duration) *Limiter {
	return &Limiter{
		redis:  redis,
		limit:  limit,
		window: window,
	}
}

// Check increments the identifier's counter and reports whether it is still
// within the limit
func (l *Limiter) Check(ctx context.Context, identifier string) (bool, error) {
	key := rateLimitPrefix + identifier
	count, err := l.redis.Incr(ctx, key).Result()
	if err != nil {
		return false, fmt.Errorf("failed to increment rate limit: %w", err)
	}

	if count == 1 {
		if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
			return false, fmt.Errorf("failed to set rate limit expiry: %w", err)
		}
	}

	allowed := count <= int64(l.limit)
	if !allowed {
		// A failed Expire on the first hit leaves the key without a TTL.
		if err := l.ensureExpiry(ctx, key); err != nil {
			return false, err
		}
	}
	return allowed, nil
}

// ensureExpiry gives key a TTL of one window when it has none
func (l *Limiter) ensureExpiry(ctx context.Context, key string) error {
	ttl, err := l.redis.TTL(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("failed to read rate limit expiry: %w", err)
	}
	if ttl != noExpiry {
		return nil
	}
	if err := l.redis.Expire(ctx, key, l.window).Err(); err != nil {
		return fmt.Errorf("failed to set rate limit expiry: %w", err)
	}
	return nil
}

// Allow implements middleware.RateLimiterStore. Requests are let through when
// Redis cannot be reached.
func (l *Limiter) Allow(identifier string) (bool, error) {
	ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
	defer cancel()

	allowed, err := l.Check(ctx, identifier)
	if err != nil {
		log.Warn().Err(err).Str("identifier", identifier).Msg("Rate limiter unavailable, allowing request")
		return true, nil
	}
	return allowed, nil
}

// Middleware throttles requests per client IP. The health check is never throttled.
func Middleware(l *Limiter) echo.MiddlewareFunc {
	return middleware.RateLimiterWithConfig(middleware.RateLimiterConfig{
		Skipper: func(c echo.Context) bool {
			return c.Path() == "/health"
		},
		Store: l,
		IdentifierExtractor: func(c echo.Context) (string, error) {
			return c.RealIP(), nil
		},
		DenyHandler: func(c echo.Context, identifier string, err error) error {
			return echo.NewHTTPError(http.StatusTooManyRequests)
		},
	})
}
