package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pageza/alchemorsel-insights/backend/config"
	"github.com/pageza/alchemorsel-insights/backend/internal/api"
	"github.com/pageza/alchemorsel-insights/backend/internal/middleware"
	"github.com/pageza/alchemorsel-insights/backend/internal/service"
)

// Dependencies holds what the router needs. Redis and Metrics may be nil.
type Dependencies struct {
	Config   *config.Config
	Logger   *zap.Logger
	Insights service.IInsightsService
	Redis    *redis.Client
	Metrics  http.Handler
}

// SetupRouter configures the application routes
func SetupRouter(deps Dependencies) *gin.Engine {
	if deps.Config.Environment == config.Production {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	limiter := middleware.NewRateLimiter(deps.Redis, middleware.RateLimitConfig{
		Window: deps.Config.RateWindow,
		Limit:  deps.Config.RateLimit,
	}, deps.Logger)

	router.Use(
		middleware.RequestID(),
		middleware.Recovery(deps.Logger),
		middleware.Logger(deps.Logger, "/health", "/metrics"),
		middleware.CORS(deps.Config.CORSOrigins),
		middleware.ErrorHandler(),
	)

	api.RegisterRoutes(router, deps.Insights, deps.Metrics, limiter.RateLimitMiddleware())

	return router
}
