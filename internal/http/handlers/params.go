package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-progress/internal/http/response"
)

func respondValidation(c *gin.Context, msg string) {
	response.RespondError(c, http.StatusBadRequest, "validation", errors.New(msg))
}

// pathUUID parses the named path param and writes a validation error when it
// is not a UUID.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(strings.TrimSpace(c.Param(name)))
	if err != nil || id == uuid.Nil {
		respondValidation(c, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

// bindJSON decodes and validates the body; binding tags are checked by gin's
// validator.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondValidation(c, "invalid request body: "+err.Error())
		return false
	}
	return true
}

type studentCourseRequest struct {
	StudentID string `json:"student_id" binding:"required,uuid"`
	CourseID  string `json:"course_id" binding:"required,uuid"`
}

func (r studentCourseRequest) ids() (uuid.UUID, uuid.UUID) {
	return uuid.MustParse(r.StudentID), uuid.MustParse(r.CourseID)
}
