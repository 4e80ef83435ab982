package middleware

import (
	"fmt"
	"time"

	"bookutu/internal/utils"

	"github.com/gin-gonic/gin"
)

// Logger prints a minimal request log line including request_id.
func Logger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		latency := time.Since(start)

		utils.LogEvent(GetRequestID(c), "http", c.Request.Method,
			fmt.Sprintf("path=%s status=%d latency_ms=%.3f ip=%s",
				c.Request.URL.Path,
				c.Writer.Status(),
				float64(latency.Microseconds())/1000.0,
				c.ClientIP(),
			))
	}
}
