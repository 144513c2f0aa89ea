package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/pageza/alchemorsel-insights/backend/internal/middleware"
	"github.com/pageza/alchemorsel-insights/backend/internal/service"
)

// setupTestRouter wires insights behind the error middleware.
func setupTestRouter(insights service.IInsightsService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(middleware.ErrorHandler())
	RegisterRoutes(router, insights, nil)
	return router
}

// get performs a GET request and decodes the JSON body into out when non-nil.
func get(t *testing.T, router http.Handler, path string, out any) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	if out != nil {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
	}
	return w
}
