package coursework

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type EventType string

const (
	EventEnrollmentCreated   EventType = "enrollment.created"
	EventModuleViewed        EventType = "module.viewed"
	EventAttemptRecorded     EventType = "attempt.recorded"
	EventEnrollmentCompleted EventType = "enrollment.completed"
	EventCertificateIssued   EventType = "certificate.issued"
)

// Event is emitted after a transition has committed.
type Event struct {
	Type          EventType  `json:"type"`
	StudentID     uuid.UUID  `json:"student_id"`
	CourseID      uuid.UUID  `json:"course_id"`
	EnrollmentID  *uuid.UUID `json:"enrollment_id,omitempty"`
	ModuleID      *uuid.UUID `json:"module_id,omitempty"`
	AttemptID     *uuid.UUID `json:"attempt_id,omitempty"`
	CertificateID *uuid.UUID `json:"certificate_id,omitempty"`
	Score         *float64   `json:"score,omitempty"`
	Progress      *float64   `json:"progress,omitempty"`
	At            time.Time  `json:"at"`
}

// Publisher receives committed events. Failures are logged by the engine and
// never fail the operation that produced the event.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

type PublisherFunc func(ctx context.Context, evt Event) error

func (f PublisherFunc) Publish(ctx context.Context, evt Event) error { return f(ctx, evt) }

func ptrUUID(id uuid.UUID) *uuid.UUID { return &id }

func ptrFloat(v float64) *float64 { return &v }
