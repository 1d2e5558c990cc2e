package coursework

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
)

type EnrollmentManager struct {
	*core
}

// EnrollResult carries the stored enrollment. AlreadyEnrolled is an outcome,
// not a failure.
type EnrollResult struct {
	Enrollment      *types.Enrollment `json:"enrollment"`
	AlreadyEnrolled bool              `json:"already_enrolled"`
}

// Enroll creates the (student, course) enrollment once. Repeated and
// concurrent calls converge on the same row.
func (m *EnrollmentManager) Enroll(ctx context.Context, studentID, courseID uuid.UUID) (res EnrollResult, err error) {
	const op = "coursework.Enroll"
	ctx, span := m.startSpan(ctx, op,
		attribute.String("student_id", studentID.String()),
		attribute.String("course_id", courseID.String()),
	)
	defer func() { endSpan(span, err) }()

	if studentID == uuid.Nil || courseID == uuid.Nil {
		return EnrollResult{}, validationError(op, "student_id and course_id are required")
	}
	student, err := m.store.GetStudent(ctx, studentID)
	if err != nil {
		return EnrollResult{}, storageError(op, err)
	}
	if student == nil {
		return EnrollResult{}, notFound(op, "student")
	}
	course, err := m.store.GetCourse(ctx, courseID)
	if err != nil {
		return EnrollResult{}, storageError(op, err)
	}
	if course == nil {
		return EnrollResult{}, notFound(op, "course")
	}

	var (
		row     *types.Enrollment
		created bool
	)
	err = m.withConflictRetry(ctx, op, func() error {
		now := m.clock.Now()
		r, ok, werr := m.store.UpsertEnrollmentIfAbsent(ctx, &types.Enrollment{
			ID:         uuid.New(),
			StudentID:  studentID,
			CourseID:   courseID,
			EnrolledAt: now,
			UpdatedAt:  now,
		})
		if werr == nil {
			row, created = r, ok
			return nil
		}
		if !isConflict(werr) {
			return werr
		}
		existing, gerr := m.store.GetEnrollment(ctx, studentID, courseID)
		if gerr != nil {
			return gerr
		}
		if existing == nil {
			return werr
		}
		row, created = existing, false
		return nil
	})
	if err != nil {
		return EnrollResult{}, storageError(op, err)
	}

	if created {
		m.log.Info("student enrolled", "student_id", studentID, "course_id", courseID, "enrollment_id", row.ID)
		m.emit(ctx, Event{
			Type:         EventEnrollmentCreated,
			StudentID:    studentID,
			CourseID:     courseID,
			EnrollmentID: ptrUUID(row.ID),
			At:           row.EnrolledAt,
		})
	}
	return EnrollResult{Enrollment: row, AlreadyEnrolled: !created}, nil
}
