package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"go-product-catalog/internal/transport/http/response"
)

// Recovery converts panics into the legacy internal-error body. Nothing is
// allowed to kill the process on a per-request basis.
func Recovery(l *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				l.Error("panic recovered",
					zap.Any("panic", rec),
					zap.String("path", c.Request.URL.Path),
					zap.Stack("stack"),
				)
				abortError(c, http.StatusInternalServerError, response.InternalMessage)
			}
		}()
		c.Next()
	}
}
