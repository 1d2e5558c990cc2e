package services

import (
	"context"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-progress/internal/data/repos"
	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type CatalogService interface {
	ListCourses(ctx context.Context) ([]*types.Course, error)
	// GetCourse returns the course with its modules ordered by order_num.
	GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error)
}

type catalogService struct {
	log        *logger.Logger
	courseRepo repos.CourseRepo
	moduleRepo repos.CourseModuleRepo
}

func NewCatalogService(baseLog *logger.Logger, courseRepo repos.CourseRepo, moduleRepo repos.CourseModuleRepo) CatalogService {
	return &catalogService{
		log:        baseLog.With("service", "CatalogService"),
		courseRepo: courseRepo,
		moduleRepo: moduleRepo,
	}
}

func (s *catalogService) ListCourses(ctx context.Context) ([]*types.Course, error) {
	rows, err := s.courseRepo.List(dbctx.Context{Ctx: ctx})
	if err != nil {
		return nil, storageFailure("Catalog.ListCourses", err)
	}
	return rows, nil
}

func (s *catalogService) GetCourse(ctx context.Context, courseID uuid.UUID) (*types.Course, error) {
	const op = "Catalog.GetCourse"
	if courseID == uuid.Nil {
		return nil, domainagg.NewError(domainagg.CodeValidation, op, "course_id is required", nil)
	}
	dbc := dbctx.Context{Ctx: ctx}
	course, err := s.courseRepo.GetByID(dbc, courseID)
	if err != nil {
		return nil, storageFailure(op, err)
	}
	if course == nil {
		return nil, domainagg.NewError(domainagg.CodeNotFound, op, "course not found", nil)
	}
	modules, err := s.moduleRepo.ListByCourseID(dbc, courseID)
	if err != nil {
		return nil, storageFailure(op, err)
	}
	course.Modules = modules
	return course, nil
}

// storageFailure keeps coded errors and hides everything else behind the
// storage code.
func storageFailure(op string, err error) error {
	if err == nil {
		return nil
	}
	if domainagg.CodeOf(err) != "" {
		return err
	}
	return domainagg.NewError(domainagg.CodeStorage, op, "storage failure", err)
}
