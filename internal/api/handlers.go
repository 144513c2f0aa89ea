package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-insights/backend/internal/service"
)

// HealthCheck returns the health status of the API and its document store
func HealthCheck(insights service.IInsightsService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := insights.Health(c.Request.Context()); err != nil {
			_ = c.Error(err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"message": "Recipe insights API is running",
		})
	}
}

// RegisterRoutes registers all API routes. metrics may be nil. apiMiddleware
// applies to /api/v1 only so probes and scrapes are never throttled.
func RegisterRoutes(router *gin.Engine, insights service.IInsightsService, metrics http.Handler, apiMiddleware ...gin.HandlerFunc) {
	router.GET("/health", HealthCheck(insights))
	if metrics != nil {
		router.GET("/metrics", gin.WrapH(metrics))
	}

	v1 := router.Group("/api/v1", apiMiddleware...)
	v1.GET("/health", HealthCheck(insights))
	NewInsightsHandler(insights).RegisterRoutes(v1)
}
