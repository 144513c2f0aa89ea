package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/pageza/alchemorsel-insights/backend/pkg/errors"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error *apperrors.AppError `json:"error"`
}

// ErrorHandler renders the last error a handler attached with c.Error as
// JSON, unless the handler already wrote a response.
func ErrorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := apperrors.AsAppError(c.Errors.Last().Err)
		c.JSON(appErr.StatusCode(), ErrorResponse{Error: appErr})
	}
}

// Recovery turns a panic into a JSON internal error.
func Recovery(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				logger.Error("panic recovered",
					zap.String("request_id", c.GetString("request_id")),
					zap.Any("error", err),
					zap.Stack("stack"))
				c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
					Error: apperrors.NewInternalError("Internal Server Error"),
				})
			}
		}()

		c.Next()
	}
}
