package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/Saifullah3711/cac-multi-docs-mvp/pkg/logger"
	"github.com/gin-gonic/gin"
)

// Recovery turns a panic into a plain 500 page that quotes the request id.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				requestID := GetRequestID(c)

				logger.Error(c.Request.Context(), "panic recovered",
					"error", err,
					"method", c.Request.Method,
					"path", c.Request.URL.Path,
					"stack", string(debug.Stack()),
				)

				c.Header("Content-Type", "text/plain; charset=utf-8")
				c.AbortWithStatus(http.StatusInternalServerError)
				fmt.Fprintf(c.Writer, "Internal server error (request id %s)\n", requestID)
			}
		}()

		c.Next()
	}
}
