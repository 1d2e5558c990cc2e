package middleware

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-progress/internal/http/response"
	"github.com/yungbote/neurobridge-progress/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

// Recover turns a handler panic into a 500 envelope.
func Recover(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			if log != nil {
				fields := append([]interface{}{"path", c.Request.URL.Path, "panic", fmt.Sprint(r)}, ctxutil.LogFields(c.Request.Context())...)
				log.Error("handler panic", fields...)
			}
			response.RespondError(c, http.StatusInternalServerError, "internal", errors.New(http.StatusText(http.StatusInternalServerError)))
		}()
		c.Next()
	}
}
