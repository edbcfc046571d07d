package middleware

import (
	"net/http"

	"github.com/ahmed8601/kahramana-site/pkg/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ErrorMiddleware provides centralized error handling
func ErrorMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last()

		statusCode := http.StatusInternalServerError
		if code, ok := err.Meta.(int); ok && code != 0 {
			statusCode = code
		}

		message := err.Error()
		if statusCode >= http.StatusInternalServerError {
			log.Error("request failed",
				zap.String("path", c.FullPath()),
				zap.String("session", c.GetString(contextSessionID)),
				zap.Error(err.Err))
			message = "Internal server error"
		} else {
			log.Debug("request rejected",
				zap.String("path", c.FullPath()),
				zap.String("session", c.GetString(contextSessionID)),
				zap.Int("status", statusCode),
				zap.Error(err.Err))
		}

		utils.ErrorResponse(c, statusCode, message)
	}
}

// RecoveryMiddleware handles panics and prevents server crashes
func RecoveryMiddleware(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error("panic recovered",
					zap.Any("panic", r),
					zap.String("path", c.Request.URL.Path),
					zap.String("session", c.GetString(contextSessionID)))
				utils.InternalServerErrorResponse(c, "Internal server error")
				c.Abort()
			}
		}()
		c.Next()
	}
}

// NotFoundHandler handles 404 errors
func NotFoundHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		utils.NotFoundResponse(c, "Route not found")
	}
}
