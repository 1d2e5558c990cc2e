package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/neurobridge-progress/internal/data/repos"
	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
)

type CourseworkStoreDeps struct {
	Base BaseDeps

	Students     repos.StudentRepo
	Courses      repos.CourseRepo
	Modules      repos.CourseModuleRepo
	Questions    repos.QuizQuestionRepo
	Enrollments  repos.EnrollmentRepo
	ModuleViews  repos.ModuleViewRepo
	Attempts     repos.QuizAttemptRepo
	Certificates repos.CertificateRepo
}

type courseworkStore struct {
	deps CourseworkStoreDeps
}

func NewCourseworkStore(deps CourseworkStoreDeps) domainagg.CourseworkStore {
	deps.Base = deps.Base.withDefaults()
	return &courseworkStore{deps: deps}
}

func (s *courseworkStore) Contract() domainagg.Contract {
	return domainagg.CourseworkContract
}

func (s *courseworkStore) read(ctx context.Context) dbctx.Context {
	return dbctx.Context{Ctx: ctx}
}

func (s *courseworkStore) GetStudent(ctx context.Context, id uuid.UUID) (*types.Student, error) {
	row, err := s.deps.Students.GetByID(s.read(ctx), id)
	return row, MapError("Coursework.GetStudent", err)
}

func (s *courseworkStore) GetCourse(ctx context.Context, id uuid.UUID) (*types.Course, error) {
	row, err := s.deps.Courses.GetByID(s.read(ctx), id)
	return row, MapError("Coursework.GetCourse", err)
}

func (s *courseworkStore) GetModules(ctx context.Context, courseID uuid.UUID) ([]*types.CourseModule, error) {
	rows, err := s.deps.Modules.ListByCourseID(s.read(ctx), courseID)
	return rows, MapError("Coursework.GetModules", err)
}

func (s *courseworkStore) GetModule(ctx context.Context, id uuid.UUID) (*types.CourseModule, error) {
	row, err := s.deps.Modules.GetByID(s.read(ctx), id)
	return row, MapError("Coursework.GetModule", err)
}

func (s *courseworkStore) GetQuestions(ctx context.Context, courseID uuid.UUID) ([]*types.QuizQuestion, error) {
	rows, err := s.deps.Questions.ListByCourseID(s.read(ctx), courseID)
	return rows, MapError("Coursework.GetQuestions", err)
}

func (s *courseworkStore) GetQuestionsByIDs(ctx context.Context, ids []uuid.UUID) ([]*types.QuizQuestion, error) {
	rows, err := s.deps.Questions.GetByIDs(s.read(ctx), ids)
	return rows, MapError("Coursework.GetQuestionsByIDs", err)
}

func (s *courseworkStore) GetEnrollment(ctx context.Context, studentID, courseID uuid.UUID) (*types.Enrollment, error) {
	row, err := s.deps.Enrollments.GetByStudentAndCourse(s.read(ctx), studentID, courseID)
	return row, MapError("Coursework.GetEnrollment", err)
}

func (s *courseworkStore) GetCertificate(ctx context.Context, enrollmentID uuid.UUID) (*types.Certificate, error) {
	row, err := s.deps.Certificates.GetByEnrollmentID(s.read(ctx), enrollmentID)
	return row, MapError("Coursework.GetCertificate", err)
}

func (s *courseworkStore) ListAttempts(ctx context.Context, studentID, courseID uuid.UUID) ([]*types.QuizAttempt, error) {
	rows, err := s.deps.Attempts.ListByStudentAndCourse(s.read(ctx), studentID, courseID)
	return rows, MapError("Coursework.ListAttempts", err)
}

func (s *courseworkStore) CountViewedModules(ctx context.Context, studentID, courseID uuid.UUID) (int, error) {
	n, err := s.deps.ModuleViews.CountByStudentAndCourse(s.read(ctx), studentID, courseID)
	return int(n), MapError("Coursework.CountViewedModules", err)
}

func (s *courseworkStore) AllStudents(ctx context.Context) ([]*types.Student, error) {
	rows, err := s.deps.Students.List(s.read(ctx))
	return rows, MapError("Coursework.AllStudents", err)
}

func (s *courseworkStore) AllEnrollments(ctx context.Context) ([]*types.Enrollment, error) {
	rows, err := s.deps.Enrollments.ListAll(s.read(ctx))
	return rows, MapError("Coursework.AllEnrollments", err)
}

func (s *courseworkStore) AllAttempts(ctx context.Context) ([]*types.QuizAttempt, error) {
	rows, err := s.deps.Attempts.ListAll(s.read(ctx))
	return rows, MapError("Coursework.AllAttempts", err)
}

func (s *courseworkStore) UpsertEnrollmentIfAbsent(ctx context.Context, e *types.Enrollment) (*types.Enrollment, bool, error) {
	const op = "Coursework.UpsertEnrollmentIfAbsent"
	if e == nil || e.StudentID == uuid.Nil || e.CourseID == uuid.Nil {
		return nil, false, domainagg.NewError(domainagg.CodeValidation, op, "student_id and course_id are required", nil)
	}
	var (
		out     *types.Enrollment
		created bool
	)
	err := executeWrite(ctx, s.deps.Base, op, func(dbc dbctx.Context) error {
		ok, err := s.deps.Enrollments.InsertIfAbsent(dbc, e)
		if err != nil {
			return err
		}
		row, err := s.deps.Enrollments.GetByStudentAndCourse(dbc, e.StudentID, e.CourseID)
		if err != nil {
			return err
		}
		if row == nil {
			return ConflictError("enrollment not visible after insert")
		}
		out, created = row, ok
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

func (s *courseworkStore) UpdateEnrollmentProgress(ctx context.Context, upd domainagg.ProgressUpdate) (domainagg.ProgressResult, error) {
	const op = "Coursework.UpdateEnrollmentProgress"
	var out domainagg.ProgressResult
	if upd.EnrollmentID == uuid.Nil {
		return out, domainagg.NewError(domainagg.CodeValidation, op, "missing enrollment_id", nil)
	}
	at := upd.At.UTC()
	if at.IsZero() {
		at = time.Now().UTC()
	}
	err := executeWrite(ctx, s.deps.Base, op, func(dbc dbctx.Context) error {
		cur, err := s.deps.Enrollments.GetByID(dbc, upd.EnrollmentID)
		if err != nil {
			return err
		}
		if cur == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "enrollment not found", nil)
		}
		if upd.Progress > cur.ProgressPercentage {
			if _, err := s.deps.Base.CASGuard.UpdateIfBelow(dbc, "enrollment", cur.ID, "progress_percentage", upd.Progress, map[string]any{
				"progress_percentage": upd.Progress,
				"updated_at":          at,
			}); err != nil {
				return err
			}
		}
		completed := false
		if upd.CompletedAt != nil && cur.CompletedAt == nil {
			completed, err = s.deps.Base.CASGuard.UpdateIfNull(dbc, "enrollment", cur.ID, "completed_at", map[string]any{
				"completed_at": upd.CompletedAt.UTC(),
				"updated_at":   at,
			})
			if err != nil {
				return err
			}
		}
		row, err := s.deps.Enrollments.GetByID(dbc, cur.ID)
		if err != nil {
			return err
		}
		out = domainagg.ProgressResult{Enrollment: row, Completed: completed}
		return nil
	})
	if err != nil {
		return domainagg.ProgressResult{}, err
	}
	return out, nil
}

func (s *courseworkStore) InsertQuizAttempt(ctx context.Context, a *types.QuizAttempt) error {
	const op = "Coursework.InsertQuizAttempt"
	if a == nil || a.StudentID == uuid.Nil || a.CourseID == uuid.Nil {
		return domainagg.NewError(domainagg.CodeValidation, op, "student_id and course_id are required", nil)
	}
	return executeWrite(ctx, s.deps.Base, op, func(dbc dbctx.Context) error {
		return s.deps.Attempts.Create(dbc, a)
	})
}

func (s *courseworkStore) InsertCertificateIfAbsent(ctx context.Context, c *types.Certificate) (*types.Certificate, bool, error) {
	const op = "Coursework.InsertCertificateIfAbsent"
	if c == nil || c.EnrollmentID == uuid.Nil {
		return nil, false, domainagg.NewError(domainagg.CodeValidation, op, "missing enrollment_id", nil)
	}
	var (
		out     *types.Certificate
		created bool
	)
	err := executeWrite(ctx, s.deps.Base, op, func(dbc dbctx.Context) error {
		enr, err := s.deps.Enrollments.GetByID(dbc, c.EnrollmentID)
		if err != nil {
			return err
		}
		if enr == nil {
			return domainagg.NewError(domainagg.CodeNotFound, op, "enrollment not found", nil)
		}
		if enr.CompletedAt == nil {
			return domainagg.NewError(domainagg.CodeNotCompleted, op, "enrollment is not completed", nil)
		}
		c.StudentID, c.CourseID = enr.StudentID, enr.CourseID
		ok, err := s.deps.Certificates.InsertIfAbsent(dbc, c)
		if err != nil {
			return err
		}
		row, err := s.deps.Certificates.GetByEnrollmentID(dbc, c.EnrollmentID)
		if err != nil {
			return err
		}
		if row == nil {
			return ConflictError("certificate not visible after insert")
		}
		out, created = row, ok
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return out, created, nil
}

func (s *courseworkStore) InsertModuleViewIfAbsent(ctx context.Context, v *types.ModuleView) (bool, error) {
	const op = "Coursework.InsertModuleViewIfAbsent"
	if v == nil || v.StudentID == uuid.Nil || v.ModuleID == uuid.Nil {
		return false, domainagg.NewError(domainagg.CodeValidation, op, "student_id and module_id are required", nil)
	}
	var created bool
	err := executeWrite(ctx, s.deps.Base, op, func(dbc dbctx.Context) error {
		ok, err := s.deps.ModuleViews.InsertIfAbsent(dbc, v)
		created = ok
		return err
	})
	return created, err
}
