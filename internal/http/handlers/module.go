package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/http/response"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type ProgressTracker interface {
	MarkModuleViewed(ctx context.Context, studentID, moduleID uuid.UUID) (*types.Enrollment, error)
	Recompute(ctx context.Context, studentID, courseID uuid.UUID) (*types.Enrollment, error)
}

type ProgressHandler struct {
	log      *logger.Logger
	progress ProgressTracker
}

func NewProgressHandler(log *logger.Logger, progress ProgressTracker) *ProgressHandler {
	return &ProgressHandler{log: log.With("handler", "ProgressHandler"), progress: progress}
}

// POST /modules/:id/view
// body: { "student_id": "..." }
func (h *ProgressHandler) MarkModuleViewed(c *gin.Context) {
	moduleID, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	var req struct {
		StudentID string `json:"student_id" binding:"required,uuid"`
	}
	if !bindJSON(c, &req) {
		return
	}
	enr, err := h.progress.MarkModuleViewed(c.Request.Context(), uuid.MustParse(req.StudentID), moduleID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollment": enr})
}

// POST /enrollments/recompute
func (h *ProgressHandler) Recompute(c *gin.Context) {
	var req studentCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	studentID, courseID := req.ids()
	enr, err := h.progress.Recompute(c.Request.Context(), studentID, courseID)
	if err != nil {
		h.log.Warn("Recompute failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"enrollment": enr})
}
