package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-insights/backend/internal/testhelpers"
)

func limitedRouter(rl *RateLimiter) *gin.Engine {
	router := gin.New()
	router.Use(rl.RateLimitMiddleware())
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
	return router
}

func hit(router *gin.Engine, ip string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = ip + ":1234"
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func TestLocalRateLimit(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{Window: time.Hour, Limit: 3}, zap.NewNop())
	router := limitedRouter(rl)

	for i := 0; i < 3; i++ {
		rr := hit(router, "10.0.0.1")
		require.Equal(t, http.StatusOK, rr.Code, "request %d", i)
		assert.Equal(t, "3", rr.Header().Get("X-RateLimit-Limit"))
	}

	rr := hit(router, "10.0.0.1")
	assert.Equal(t, http.StatusTooManyRequests, rr.Code)
	assert.Contains(t, rr.Body.String(), "TOO_MANY_REQUESTS")
	assert.NotEmpty(t, rr.Header().Get("Retry-After"))

	assert.Equal(t, http.StatusOK, hit(router, "10.0.0.2").Code, "clients are limited independently")
}

func TestRateLimitDisabled(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{Window: time.Minute, Limit: 0}, zap.NewNop())
	router := limitedRouter(rl)

	for i := 0; i < 10; i++ {
		rr := hit(router, "10.0.0.1")
		assert.Equal(t, http.StatusOK, rr.Code)
		assert.Empty(t, rr.Header().Get("X-RateLimit-Limit"))
	}
}

func TestRateLimitFailsOpen(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 100 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = client.Close() })
	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Minute, Limit: 1}, zap.NewNop())
	router := limitedRouter(rl)

	assert.Equal(t, http.StatusOK, hit(router, "10.0.0.1").Code)
	assert.Equal(t, http.StatusOK, hit(router, "10.0.0.1").Code)
}

func TestRedisRateLimit(t *testing.T) {
	client := redis.NewClient(&redis.Options{Addr: testhelpers.StartRedis(t)})
	t.Cleanup(func() { _ = client.Close() })
	rl := NewRateLimiter(client, RateLimitConfig{Window: time.Hour, Limit: 2}, zap.NewNop())

	ctx := context.Background()
	allowed, remaining, reset, err := rl.IsAllowed(ctx, "10.0.0.9")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 1, remaining)
	assert.True(t, reset.After(time.Now()))

	allowed, remaining, _, err = rl.IsAllowed(ctx, "10.0.0.9")
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, remaining)

	allowed, _, _, err = rl.IsAllowed(ctx, "10.0.0.9")
	require.NoError(t, err)
	assert.False(t, allowed)
}

func TestLocalRateLimitEvictsIdleClients(t *testing.T) {
	rl := NewRateLimiter(nil, RateLimitConfig{Window: time.Minute, Limit: 2}, zap.NewNop())
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	rl.now = func() time.Time { return now }

	for _, ip := range []string{"10.0.0.1", "10.0.0.1", "10.0.0.2"} {
		allowed, _, _ := rl.allowLocal(ip)
		require.True(t, allowed)
	}
	allowed, _, _ := rl.allowLocal("10.0.0.1")
	assert.False(t, allowed, "first client used its burst")
	assert.Len(t, rl.local, 2)

	now = now.Add(30 * time.Second)
	rl.allowLocal("10.0.0.3")
	assert.Len(t, rl.local, 3, "buckets inside the window are kept")

	now = now.Add(2 * time.Minute)
	rl.allowLocal("10.0.0.4")
	assert.Len(t, rl.local, 1, "idle buckets are dropped")
	assert.Contains(t, rl.local, "10.0.0.4")

	allowed, _, _ = rl.allowLocal("10.0.0.1")
	assert.True(t, allowed, "an evicted client starts with a full bucket")
}
