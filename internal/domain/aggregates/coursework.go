package aggregates

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/yungbote/neurobridge-progress/internal/domain/learning"
	"github.com/yungbote/neurobridge-progress/internal/domain/user"
)

var CourseworkContract = Contract{
	Name:           "Learning.Coursework",
	AtomicWrites:   true,
	InsertIfAbsent: true,
	Notes:          "progress is raised monotonically and completed_at is set only while null",
}

// ProgressUpdate raises an enrollment's progress. CompletedAt, when set, is
// applied only if the stored completed_at is still null.
type ProgressUpdate struct {
	EnrollmentID uuid.UUID
	Progress     float64
	CompletedAt  *time.Time
	At           time.Time
}

// ProgressResult is the enrollment as committed. Completed is true only for
// the call whose write set completed_at.
type ProgressResult struct {
	Enrollment *learning.Enrollment
	Completed  bool
}

// CourseworkStore is the persistence boundary of the coursework engine.
// Get* methods return (nil, nil) when the row does not exist. Every write is
// one atomic commit.
type CourseworkStore interface {
	Aggregate

	GetStudent(ctx context.Context, id uuid.UUID) (*user.Student, error)
	GetCourse(ctx context.Context, id uuid.UUID) (*learning.Course, error)
	GetModules(ctx context.Context, courseID uuid.UUID) ([]*learning.CourseModule, error)
	GetModule(ctx context.Context, id uuid.UUID) (*learning.CourseModule, error)
	GetQuestions(ctx context.Context, courseID uuid.UUID) ([]*learning.QuizQuestion, error)
	GetQuestionsByIDs(ctx context.Context, ids []uuid.UUID) ([]*learning.QuizQuestion, error)
	GetEnrollment(ctx context.Context, studentID, courseID uuid.UUID) (*learning.Enrollment, error)
	GetCertificate(ctx context.Context, enrollmentID uuid.UUID) (*learning.Certificate, error)
	ListAttempts(ctx context.Context, studentID, courseID uuid.UUID) ([]*learning.QuizAttempt, error)
	CountViewedModules(ctx context.Context, studentID, courseID uuid.UUID) (int, error)

	// UpsertEnrollmentIfAbsent returns the stored row and whether this call created it.
	UpsertEnrollmentIfAbsent(ctx context.Context, e *learning.Enrollment) (*learning.Enrollment, bool, error)
	UpdateEnrollmentProgress(ctx context.Context, upd ProgressUpdate) (ProgressResult, error)
	InsertQuizAttempt(ctx context.Context, a *learning.QuizAttempt) error
	InsertCertificateIfAbsent(ctx context.Context, c *learning.Certificate) (*learning.Certificate, bool, error)
	InsertModuleViewIfAbsent(ctx context.Context, v *learning.ModuleView) (bool, error)

	AllStudents(ctx context.Context) ([]*user.Student, error)
	AllEnrollments(ctx context.Context) ([]*learning.Enrollment, error)
	AllAttempts(ctx context.Context) ([]*learning.QuizAttempt, error)
}
