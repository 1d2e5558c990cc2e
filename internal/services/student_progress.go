package services

import (
	"context"
	"math"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/yungbote/neurobridge-progress/internal/data/repos"
	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

// StudentService serves the read models behind a student's dashboard.
type StudentService interface {
	Courses(ctx context.Context, studentID uuid.UUID) ([]*types.StudentCourse, error)
	Stats(ctx context.Context, studentID uuid.UUID) (*types.DashboardStats, error)
	Certificates(ctx context.Context, studentID uuid.UUID) ([]*types.CertificateView, error)
}

type StudentServiceDeps struct {
	Students     repos.StudentRepo
	Courses      repos.CourseRepo
	Enrollments  repos.EnrollmentRepo
	Attempts     repos.QuizAttemptRepo
	Certificates repos.CertificateRepo
}

type studentService struct {
	log  *logger.Logger
	deps StudentServiceDeps
}

func NewStudentService(baseLog *logger.Logger, deps StudentServiceDeps) StudentService {
	return &studentService{log: baseLog.With("service", "StudentService"), deps: deps}
}

func (s *studentService) requireStudent(ctx context.Context, op string, studentID uuid.UUID) error {
	if studentID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "student_id is required", nil)
	}
	st, err := s.deps.Students.GetByID(dbctx.Context{Ctx: ctx}, studentID)
	if err != nil {
		return storageFailure(op, err)
	}
	if st == nil {
		return domainagg.NewError(domainagg.CodeNotFound, op, "student not found", nil)
	}
	return nil
}

// Courses lists enrolled courses, newest enrollment first.
func (s *studentService) Courses(ctx context.Context, studentID uuid.UUID) ([]*types.StudentCourse, error) {
	const op = "Student.Courses"
	if err := s.requireStudent(ctx, op, studentID); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	enrollments, err := s.deps.Enrollments.ListByStudentID(dbc, studentID)
	if err != nil {
		return nil, storageFailure(op, err)
	}
	ids := make([]uuid.UUID, 0, len(enrollments))
	for _, e := range enrollments {
		ids = append(ids, e.CourseID)
	}
	courses, err := s.deps.Courses.GetByIDs(dbc, ids)
	if err != nil {
		return nil, storageFailure(op, err)
	}
	byID := make(map[uuid.UUID]*types.Course, len(courses))
	for _, c := range courses {
		byID[c.ID] = c
	}

	out := make([]*types.StudentCourse, 0, len(enrollments))
	for _, e := range enrollments {
		c := byID[e.CourseID]
		if c == nil {
			s.log.Warn("enrollment references missing course", "enrollment_id", e.ID, "course_id", e.CourseID)
			continue
		}
		out = append(out, &types.StudentCourse{
			CourseID:           c.ID,
			Title:              c.Title,
			Instructor:         c.Instructor,
			DurationHours:      c.DurationHours,
			Description:        c.Description,
			ProgressPercentage: e.ProgressPercentage,
			Completed:          e.IsCompleted(),
			EnrolledAt:         e.EnrolledAt,
			CompletedAt:        e.CompletedAt,
		})
	}
	return out, nil
}

func (s *studentService) Stats(ctx context.Context, studentID uuid.UUID) (*types.DashboardStats, error) {
	const op = "Student.Stats"
	if err := s.requireStudent(ctx, op, studentID); err != nil {
		return nil, err
	}
	dbc := dbctx.Context{Ctx: ctx}
	var out types.DashboardStats
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		out.EnrolledCourses, out.CompletedCourses, err = s.deps.Enrollments.CountByStudentID(dbc, studentID)
		return err
	})
	g.Go(func() error {
		avg, err := s.deps.Attempts.AvgScoreByStudentID(dbc, studentID)
		out.AvgScore = math.Round(avg*100) / 100
		return err
	})
	g.Go(func() error {
		var err error
		out.Certificates, err = s.deps.Certificates.CountByStudentID(dbc, studentID)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, storageFailure(op, err)
	}
	return &out, nil
}

func (s *studentService) Certificates(ctx context.Context, studentID uuid.UUID) ([]*types.CertificateView, error) {
	const op = "Student.Certificates"
	if err := s.requireStudent(ctx, op, studentID); err != nil {
		return nil, err
	}
	rows, err := s.deps.Certificates.ListViewsByStudentID(dbctx.Context{Ctx: ctx}, studentID)
	if err != nil {
		return nil, storageFailure(op, err)
	}
	return rows, nil
}
