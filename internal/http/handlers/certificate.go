package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/http/response"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
	"github.com/yungbote/neurobridge-progress/internal/services"
)

type CertificateIssuer interface {
	IssueFor(ctx context.Context, studentID, courseID uuid.UUID) (*types.Certificate, error)
}

type CertificateHandler struct {
	log    *logger.Logger
	issuer CertificateIssuer
	images services.CertificateImageService
}

func NewCertificateHandler(log *logger.Logger, issuer CertificateIssuer, images services.CertificateImageService) *CertificateHandler {
	return &CertificateHandler{log: log.With("handler", "CertificateHandler"), issuer: issuer, images: images}
}

// POST /certificates/issue
func (h *CertificateHandler) Issue(c *gin.Context) {
	var req studentCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	studentID, courseID := req.ids()
	cert, err := h.issuer.IssueFor(c.Request.Context(), studentID, courseID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"certificate": cert})
}

// GET /certificates/:id/image.png
func (h *CertificateHandler) Image(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	if h.images == nil {
		response.RespondError(c, http.StatusNotImplemented, "unavailable", nil)
		return
	}
	raw, err := h.images.Render(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCacheable(c, "image/png", 86400, raw)
}
