package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type APIError struct {
	Message   string `json:"message"`
	Code      string `json:"code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError aborts with an error envelope. The request id set by the
// trace middleware is echoed so clients can quote it.
func RespondError(c *gin.Context, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	c.AbortWithStatusJSON(status, ErrorEnvelope{
		Error: APIError{
			Message:   msg,
			Code:      code,
			RequestID: c.GetString("request_id"),
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}

// RespondCreatedOrOK answers 201 for a write that created its row and 200 for
// an idempotent replay.
func RespondCreatedOrOK(c *gin.Context, created bool, payload any) {
	if created {
		RespondCreated(c, payload)
		return
	}
	RespondOK(c, payload)
}

// RespondAttachment sends body as a download named filename.
func RespondAttachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, body)
}

// RespondCacheable sends body with a public max-age. Used for content that
// never changes once produced, such as issued certificates.
func RespondCacheable(c *gin.Context, contentType string, maxAgeSeconds int, body []byte) {
	c.Header("Cache-Control", "public, max-age="+strconv.Itoa(maxAgeSeconds))
	c.Data(http.StatusOK, contentType, body)
}
