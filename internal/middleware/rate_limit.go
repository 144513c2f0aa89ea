package middleware

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	apperrors "github.com/pageza/alchemorsel-insights/backend/pkg/errors"
)

// RateLimitConfig defines configuration for rate limiting
type RateLimitConfig struct {
	// Window is the time window for rate limiting
	Window time.Duration
	// Limit is the maximum number of requests allowed in the window
	Limit int
	// Key prefix for Redis keys
	KeyPrefix string
}

// RateLimiter counts requests per client IP in fixed Redis windows. Without
// Redis it falls back to an in-process token bucket per client.
type RateLimiter struct {
	redis  *redis.Client
	config RateLimitConfig
	logger *zap.Logger

	mu        sync.Mutex
	local     map[string]*localBucket
	lastSweep time.Time
	now       func() time.Time
}

// localBucket is an in-process limiter and the last time its client was seen.
type localBucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter instance; redisClient may be nil.
func NewRateLimiter(redisClient *redis.Client, config RateLimitConfig, logger *zap.Logger) *RateLimiter {
	if config.KeyPrefix == "" {
		config.KeyPrefix = "rate_limit:insights"
	}
	return &RateLimiter{
		redis:  redisClient,
		config: config,
		logger: logger,
		local:  map[string]*localBucket{},
		now:    time.Now,
	}
}

// RateLimitMiddleware returns a Gin middleware that enforces rate limiting
func (rl *RateLimiter) RateLimitMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl.config.Limit <= 0 {
			c.Next()
			return
		}

		client := c.ClientIP()
		allowed, remaining, resetTime, err := rl.IsAllowed(c.Request.Context(), client)
		if err != nil {
			// A broken limiter must not take the API down with it
			rl.logger.Warn("rate limit check failed", zap.String("client", client), zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(rl.config.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(resetTime.Unix(), 10))

		if !allowed {
			retryAfter := int(time.Until(resetTime).Seconds()) + 1
			c.Header("Retry-After", strconv.Itoa(retryAfter))
			appErr := apperrors.NewAppError(
				apperrors.CodeTooManyRequests,
				"rate limit exceeded",
				fmt.Sprintf("You have exceeded the rate limit of %d requests per %v", rl.config.Limit, rl.config.Window),
			).WithMetadata("retry_after", retryAfter)
			c.AbortWithStatusJSON(appErr.StatusCode(), ErrorResponse{Error: appErr})
			return
		}

		c.Next()
	}
}

// IsAllowed checks if a request from the given client is allowed
// Returns: allowed, remaining requests, reset time, error
func (rl *RateLimiter) IsAllowed(ctx context.Context, client string) (bool, int, time.Time, error) {
	if rl.redis == nil {
		allowed, remaining, reset := rl.allowLocal(client)
		return allowed, remaining, reset, nil
	}

	now := time.Now()
	windowStart := now.Truncate(rl.config.Window)
	key := fmt.Sprintf("%s:%s:%d", rl.config.KeyPrefix, client, windowStart.Unix())

	pipe := rl.redis.Pipeline()
	incrCmd := pipe.Incr(ctx, key)
	pipe.Expire(ctx, key, rl.config.Window)

	if _, err := pipe.Exec(ctx); err != nil {
		return false, 0, time.Time{}, err
	}

	count := int(incrCmd.Val())
	remaining := rl.config.Limit - count
	if remaining < 0 {
		remaining = 0
	}

	return count <= rl.config.Limit, remaining, windowStart.Add(rl.config.Window), nil
}

// allowLocal refills Limit tokens per Window with a burst of Limit.
func (rl *RateLimiter) allowLocal(client string) (bool, int, time.Time) {
	now := rl.now()

	rl.mu.Lock()
	rl.sweepLocked(now)
	bucket, ok := rl.local[client]
	if !ok {
		every := rate.Every(rl.config.Window / time.Duration(rl.config.Limit))
		bucket = &localBucket{limiter: rate.NewLimiter(every, rl.config.Limit)}
		rl.local[client] = bucket
	}
	bucket.lastSeen = now
	limiter := bucket.limiter
	rl.mu.Unlock()

	allowed := limiter.AllowN(now, 1)
	remaining := int(limiter.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	reset := now.Add(rl.config.Window / time.Duration(rl.config.Limit))
	return allowed, remaining, reset
}

// sweepLocked drops buckets idle for a full window, at most once per window.
// A bucket idle that long has refilled, so dropping it loses no state.
func (rl *RateLimiter) sweepLocked(now time.Time) {
	if now.Sub(rl.lastSweep) < rl.config.Window {
		return
	}
	for client, bucket := range rl.local {
		if now.Sub(bucket.lastSeen) >= rl.config.Window {
			delete(rl.local, client)
		}
	}
	rl.lastSweep = now
}
