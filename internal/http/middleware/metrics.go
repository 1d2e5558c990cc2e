package middleware

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-progress/internal/observability"
)

// Metrics records per-route request counts, latency and in-flight requests.
// Paths in skip (typically the scrape endpoint itself) are not recorded.
func Metrics(m *observability.Metrics, skip ...string) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	ignored := make(map[string]bool, len(skip))
	for _, p := range skip {
		ignored[p] = true
	}
	return func(c *gin.Context) {
		route := routeOf(c)
		if ignored[route] {
			c.Next()
			return
		}
		m.ApiInflightInc()
		defer m.ApiInflightDec()
		start := time.Now()
		c.Next()
		m.ObserveAPI(c.Request.Method, route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}
