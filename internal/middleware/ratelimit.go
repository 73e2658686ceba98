package middleware

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

// ErrNoLimiterStore is returned when limiting is enabled but Redis is missing.
var ErrNoLimiterStore = errors.New("rate limit store unavailable")

// RateLimiter counts attempts per endpoint and client in fixed Redis windows.
// A disabled limiter lets everything through.
type RateLimiter struct {
	rdb     *redis.Client
	enabled bool
	// FailClosed answers 503 instead of letting requests through when Redis
	// cannot be reached.
	FailClosed bool
}

// NewRateLimiter returns a limiter backed by rdb. Pass enabled=false for
// local development and tests.
func NewRateLimiter(rdb *redis.Client, enabled bool) *RateLimiter {
	return &RateLimiter{rdb: rdb, enabled: enabled}
}

// Allow increments the counter for name/clientID and reports whether it is
// still within limit, plus the time left in the current window.
func (l *RateLimiter) Allow(ctx context.Context, name, clientID string, limit int, window time.Duration) (bool, time.Duration, error) {
	if !l.enabled {
		return true, 0, nil
	}
	if l.rdb == nil {
		return false, 0, ErrNoLimiterStore
	}

	key := fmt.Sprintf("rl:%s:%s", name, clientID)
	var incr *redis.IntCmd
	var ttl *redis.DurationCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		pipe.ExpireNX(ctx, key, window)
		ttl = pipe.TTL(ctx, key)
		return nil
	})
	if err != nil {
		return false, 0, err
	}
	return incr.Val() <= int64(limit), ttl.Val(), nil
}

// Limit returns a handler allowing limit requests per window for the named
// endpoint, keyed by the logged-in user when there is one and by IP otherwise.
func (l *RateLimiter) Limit(name string, limit int, window time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		clientID := "ip:" + c.IP()
		if user := CurrentUser(c.UserContext()); user != nil {
			clientID = fmt.Sprintf("user:%d", user.ID)
		}

		allowed, retryAfter, err := l.Allow(c.UserContext(), name, clientID, limit, window)
		if err != nil {
			Logger.WarnContext(c.UserContext(), "rate limit check failed",
				"endpoint", name, "fail_closed", l.FailClosed, "error", err)
			if l.FailClosed {
				return fiber.NewError(fiber.StatusServiceUnavailable, "Service temporarily unavailable.")
			}
			return c.Next()
		}
		if !allowed {
			if retryAfter > 0 {
				c.Set(fiber.HeaderRetryAfter, strconv.Itoa(int(retryAfter.Round(time.Second).Seconds())))
			}
			return fiber.NewError(fiber.StatusTooManyRequests, "Too many attempts, please try again later.")
		}
		return c.Next()
	}
}
