package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/neurobridge-progress/internal/platform/ctxutil"
)

const (
	HeaderTraceID   = "X-Trace-Id"
	HeaderRequestID = "X-Request-Id"

	// Gin keys; response.RespondError reads KeyRequestID.
	KeyTraceID   = "trace_id"
	KeyRequestID = "request_id"
)

// AttachTraceContext gives every request a request id and a trace id. The
// trace id comes from the header, then the active otel span, then falls back
// to the request id so log lines for one call always share it.
func AttachTraceContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		td := &ctxutil.TraceData{
			RequestID: headerOr(c, HeaderRequestID, uuid.NewString),
			TraceID:   strings.TrimSpace(c.GetHeader(HeaderTraceID)),
		}
		if td.TraceID == "" {
			if sc := trace.SpanContextFromContext(c.Request.Context()); sc.HasTraceID() {
				td.TraceID = sc.TraceID().String()
			}
		}
		if td.TraceID == "" {
			td.TraceID = td.RequestID
		}

		c.Request = c.Request.WithContext(ctxutil.WithTraceData(c.Request.Context(), td))
		c.Set(KeyTraceID, td.TraceID)
		c.Set(KeyRequestID, td.RequestID)
		c.Header(HeaderTraceID, td.TraceID)
		c.Header(HeaderRequestID, td.RequestID)
		c.Next()
	}
}

func headerOr(c *gin.Context, name string, fallback func() string) string {
	if v := strings.TrimSpace(c.GetHeader(name)); v != "" {
		return v
	}
	return fallback()
}
