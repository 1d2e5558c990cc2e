package coursework

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
)

type CertificateIssuer struct {
	*core
}

// IssueIfAbsent returns the enrollment's certificate, creating it on the first
// call. Concurrent callers all receive the same row.
func (c *CertificateIssuer) IssueIfAbsent(ctx context.Context, enrollment *types.Enrollment) (cert *types.Certificate, err error) {
	const op = "coursework.IssueIfAbsent"
	if enrollment == nil || enrollment.ID == uuid.Nil {
		return nil, validationError(op, "enrollment is required")
	}
	ctx, span := c.startSpan(ctx, op, attribute.String("enrollment_id", enrollment.ID.String()))
	defer func() { endSpan(span, err) }()

	if !enrollment.IsCompleted() {
		return nil, notCompleted(op)
	}

	var created bool
	err = c.withConflictRetry(ctx, op, func() error {
		row, ok, werr := c.store.InsertCertificateIfAbsent(ctx, &types.Certificate{
			ID:           uuid.New(),
			EnrollmentID: enrollment.ID,
			StudentID:    enrollment.StudentID,
			CourseID:     enrollment.CourseID,
			IssuedAt:     c.clock.Now(),
		})
		if werr == nil {
			cert, created = row, ok
			return nil
		}
		if !isConflict(werr) {
			return werr
		}
		existing, gerr := c.store.GetCertificate(ctx, enrollment.ID)
		if gerr != nil {
			return gerr
		}
		if existing == nil {
			return werr
		}
		cert, created = existing, false
		return nil
	})
	if err != nil {
		return nil, storageError(op, err)
	}
	if created {
		c.log.Info("certificate issued", "certificate_id", cert.ID, "enrollment_id", enrollment.ID, "student_id", cert.StudentID)
		c.emit(ctx, Event{
			Type:          EventCertificateIssued,
			StudentID:     cert.StudentID,
			CourseID:      cert.CourseID,
			EnrollmentID:  ptrUUID(enrollment.ID),
			CertificateID: ptrUUID(cert.ID),
			At:            cert.IssuedAt,
		})
	}
	return cert, nil
}

// IssueFor resolves the (student, course) enrollment and issues its certificate.
func (c *CertificateIssuer) IssueFor(ctx context.Context, studentID, courseID uuid.UUID) (*types.Certificate, error) {
	const op = "coursework.IssueFor"
	if studentID == uuid.Nil || courseID == uuid.Nil {
		return nil, validationError(op, "student_id and course_id are required")
	}
	enr, err := c.store.GetEnrollment(ctx, studentID, courseID)
	if err != nil {
		return nil, storageError(op, err)
	}
	if enr == nil {
		return nil, notFound(op, "enrollment")
	}
	return c.IssueIfAbsent(ctx, enr)
}
