package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollector(t *testing.T) {
	c := New()
	c.ObserveQuery("timeline", 20*time.Millisecond)
	c.QueryFailed("timeline")
	c.QueryFailed("timeline")
	c.CacheHit("categories")

	assert.Equal(t, 2.0, testutil.ToFloat64(c.queryErrors.WithLabelValues("timeline")))
	assert.Equal(t, 1.0, testutil.ToFloat64(c.cacheHits.WithLabelValues("categories")))
	assert.Equal(t, 1, testutil.CollectAndCount(c.queryDuration))
}

func TestNilCollector(t *testing.T) {
	var c *Collector
	assert.NotPanics(t, func() {
		c.ObserveQuery("x", time.Second)
		c.QueryFailed("x")
		c.CacheHit("x")
	})
}

func TestHandler(t *testing.T) {
	c := New()
	c.QueryFailed("search")

	rec := httptest.NewRecorder()
	c.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `insights_query_errors_total{operation="search"} 1`)
	assert.Contains(t, rec.Body.String(), "go_goroutines")
}
