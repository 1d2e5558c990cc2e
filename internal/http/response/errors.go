package response

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
)

// StatusForCode maps an aggregate error code to its HTTP status.
func StatusForCode(code domainagg.ErrorCode) int {
	switch code {
	case domainagg.CodeValidation:
		return http.StatusBadRequest
	case domainagg.CodeNotFound:
		return http.StatusNotFound
	case domainagg.CodeNotCompleted, domainagg.CodeConflict:
		return http.StatusConflict
	case domainagg.CodeNoQuestions:
		return http.StatusUnprocessableEntity
	case domainagg.CodeRetryable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// RespondDomainError writes err using its aggregate code. Storage and internal
// failures never leak their cause to the client.
func RespondDomainError(c *gin.Context, err error) {
	code := domainagg.CodeOf(err)
	if code == "" {
		code = domainagg.CodeInternal
	}
	status := StatusForCode(code)
	if status >= http.StatusInternalServerError {
		RespondError(c, status, string(code), errors.New(http.StatusText(status)))
		return
	}
	var aggErr *domainagg.Error
	msg := err.Error()
	if errors.As(err, &aggErr) && aggErr.Message != "" {
		msg = aggErr.Message
	}
	RespondError(c, status, string(code), errors.New(msg))
}
