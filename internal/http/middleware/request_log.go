package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-progress/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

// RequestLogger writes one line per request at a level chosen by status.
// Requests to quiet paths are only logged when they fail.
func RequestLogger(log *logger.Logger, quiet ...string) gin.HandlerFunc {
	if log == nil {
		return func(c *gin.Context) { c.Next() }
	}
	skip := make(map[string]struct{}, len(quiet))
	for _, p := range quiet {
		skip[p] = struct{}{}
	}
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		route := routeOf(c)
		if _, ok := skip[route]; ok && status < 400 {
			return
		}

		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"bytes", c.Writer.Size(),
			"duration_ms", time.Since(start).Milliseconds(),
			"client_ip", c.ClientIP(),
		}
		fields = append(fields, ctxutil.LogFields(c.Request.Context())...)
		if len(c.Errors) > 0 {
			fields = append(fields, "errors", c.Errors.String())
		}

		switch {
		case status >= 500:
			log.Error("request failed", fields...)
		case status >= 400:
			log.Warn("request rejected", fields...)
		default:
			log.Info("request served", fields...)
		}
	}
}

// routeOf prefers the registered pattern so ids do not explode cardinality.
func routeOf(c *gin.Context) string {
	if r := c.FullPath(); r != "" {
		return r
	}
	return "unmatched"
}
