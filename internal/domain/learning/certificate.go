package learning

import (
	"time"

	"github.com/google/uuid"
)

// Certificate is issued at most once per completed enrollment.
type Certificate struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	EnrollmentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"enrollment_id"`
	StudentID    uuid.UUID `gorm:"type:uuid;not null;index" json:"student_id"`
	CourseID     uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	IssuedAt     time.Time `gorm:"column:issued_at;not null" json:"issued_at"`
}

func (Certificate) TableName() string { return "certificate" }
