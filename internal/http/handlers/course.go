package handlers

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-progress/internal/http/response"
	"github.com/yungbote/neurobridge-progress/internal/modules/coursework"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
	"github.com/yungbote/neurobridge-progress/internal/services"
)

type Enroller interface {
	Enroll(ctx context.Context, studentID, courseID uuid.UUID) (coursework.EnrollResult, error)
}

type CourseHandler struct {
	log      *logger.Logger
	catalog  services.CatalogService
	enroller Enroller
}

func NewCourseHandler(log *logger.Logger, catalog services.CatalogService, enroller Enroller) *CourseHandler {
	return &CourseHandler{
		log:      log.With("handler", "CourseHandler"),
		catalog:  catalog,
		enroller: enroller,
	}
}

// GET /courses
func (h *CourseHandler) ListCourses(c *gin.Context) {
	courses, err := h.catalog.ListCourses(c.Request.Context())
	if err != nil {
		h.log.Error("ListCourses failed", "error", err)
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"courses": courses})
}

// GET /courses/:id
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, ok := pathUUID(c, "id")
	if !ok {
		return
	}
	course, err := h.catalog.GetCourse(c.Request.Context(), id)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"course": course})
}

// POST /courses/enroll
// body: { "student_id": "...", "course_id": "..." }
func (h *CourseHandler) Enroll(c *gin.Context) {
	var req studentCourseRequest
	if !bindJSON(c, &req) {
		return
	}
	studentID, courseID := req.ids()
	res, err := h.enroller.Enroll(c.Request.Context(), studentID, courseID)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	response.RespondCreatedOrOK(c, !res.AlreadyEnrolled, res)
}
