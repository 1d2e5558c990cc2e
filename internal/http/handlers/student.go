package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/yungbote/neurobridge-progress/internal/http/response"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
	"github.com/yungbote/neurobridge-progress/internal/services"
)

type StudentHandler struct {
	log      *logger.Logger
	students services.StudentService
}

func NewStudentHandler(log *logger.Logger, students services.StudentService) *StudentHandler {
	return &StudentHandler{log: log.With("handler", "StudentHandler"), students: students}
}

// GET /students/:id/courses
func (h *StudentHandler) Courses(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rows, err := h.students.Courses(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": rows})
}

// GET /students/:id/stats
func (h *StudentHandler) Stats(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	stats, err := h.students.Stats(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"stats": stats})
}

// GET /students/:id/certificates
func (h *StudentHandler) Certificates(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	rows, err := h.students.Certificates(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"certificates": rows})
}
