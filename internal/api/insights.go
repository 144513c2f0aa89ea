package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/alchemorsel-insights/backend/internal/model"
	"github.com/pageza/alchemorsel-insights/backend/internal/service"
	apperrors "github.com/pageza/alchemorsel-insights/backend/pkg/errors"
)

// InsightsHandler exposes the recipe questions over HTTP. Errors are attached
// to the context and rendered by middleware.ErrorHandler.
type InsightsHandler struct {
	insights service.IInsightsService
}

func NewInsightsHandler(insights service.IInsightsService) *InsightsHandler {
	return &InsightsHandler{insights: insights}
}

func (h *InsightsHandler) RegisterRoutes(router *gin.RouterGroup) {
	insights := router.Group("/insights")
	{
		insights.GET("/macros", h.Macros)
		insights.GET("/ingredients/count", h.IngredientCount)
		insights.GET("/ingredients/search", h.SearchIngredient)
		insights.GET("/tags/:tag/average", h.AverageTag)
		insights.GET("/tags/:tag/distinct", h.DistinctTag)
		insights.GET("/tags/:tag/pairs", h.TagPairs)
		insights.GET("/categories/top", h.TopCategories)
		insights.GET("/categories/ratings", h.TopRatedCategories)
		insights.GET("/timeline", h.Timeline)
		insights.GET("/directions/fewest", h.FewestDirections)
	}
}

// bind binds query parameters, attaching a validation error on failure.
func bind(c *gin.Context, dest any) bool {
	if err := c.ShouldBindQuery(dest); err != nil {
		_ = c.Error(apperrors.NewValidationError(err.Error()).WithCause(err))
		return false
	}
	return true
}

func (h *InsightsHandler) Macros(c *gin.Context) {
	var q MacrosQuery
	if !bind(c, &q) {
		return
	}
	recipes, err := h.insights.MealsWithMacros(c.Request.Context(), q.Thresholds(), q.Num)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listing(recipes))
}

func (h *InsightsHandler) IngredientCount(c *gin.Context) {
	var q IngredientCountQuery
	if !bind(c, &q) {
		return
	}
	recipes, err := h.insights.RecipesWithMaxIngredients(c.Request.Context(), q.Max, q.Num)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listing(recipes))
}

func (h *InsightsHandler) SearchIngredient(c *gin.Context) {
	var q SearchQuery
	if !bind(c, &q) {
		return
	}
	recipes, err := h.insights.SearchIngredient(c.Request.Context(), q.Pattern, q.Num)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listing(recipes))
}

func (h *InsightsHandler) AverageTag(c *gin.Context) {
	avg, err := h.insights.AverageTag(c.Request.Context(), c.Param("tag"))
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, avg)
}

func (h *InsightsHandler) DistinctTag(c *gin.Context) {
	tag := c.Param("tag")
	n, err := h.insights.DistinctTag(c.Request.Context(), tag)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, DistinctResponse{Tag: tag, Distinct: n})
}

func (h *InsightsHandler) TagPairs(c *gin.Context) {
	var q PairsQuery
	if !bind(c, &q) {
		return
	}
	tag := c.Param("tag")
	points, err := h.insights.TagPairs(c.Request.Context(), tag, q.With)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, PairsResponse{X: tag, Y: q.With, Points: points})
}

func (h *InsightsHandler) TopCategories(c *gin.Context) {
	var q LimitQuery
	if !bind(c, &q) {
		return
	}
	rows, err := h.insights.TopCategories(c.Request.Context(), q.Num)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, CategoriesResponse[model.CategoryCount]{Categories: rows})
}

func (h *InsightsHandler) TopRatedCategories(c *gin.Context) {
	var q LimitQuery
	if !bind(c, &q) {
		return
	}
	rows, err := h.insights.TopRatedCategories(c.Request.Context(), q.Num)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, CategoriesResponse[model.CategoryRating]{Categories: rows})
}

func (h *InsightsHandler) Timeline(c *gin.Context) {
	years, err := h.insights.Timeline(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, TimelineResponse{Years: years})
}

func (h *InsightsHandler) FewestDirections(c *gin.Context) {
	var q LimitQuery
	if !bind(c, &q) {
		return
	}
	rows, err := h.insights.FewestDirections(c.Request.Context(), q.Num)
	if err != nil {
		_ = c.Error(err)
		return
	}
	c.JSON(http.StatusOK, listing(rows))
}

func listing[T any](rows []T) RecipesResponse[T] {
	return RecipesResponse[T]{Count: len(rows), Recipes: rows}
}
