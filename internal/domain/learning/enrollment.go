package learning

import (
	"time"

	"github.com/google/uuid"
)

// Enrollment is unique per (student, course). ProgressPercentage never
// decreases and CompletedAt is written at most once.
type Enrollment struct {
	ID                 uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID          uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_course,priority:1" json:"student_id"`
	CourseID           uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_enrollment_student_course,priority:2;index" json:"course_id"`
	ProgressPercentage float64    `gorm:"column:progress_percentage;type:decimal(5,2);not null;default:0" json:"progress_percentage"`
	EnrolledAt         time.Time  `gorm:"column:enrolled_at;not null" json:"enrolled_at"`
	CompletedAt        *time.Time `gorm:"column:completed_at;index" json:"completed_at,omitempty"`
	UpdatedAt          time.Time  `gorm:"not null" json:"updated_at"`
}

func (Enrollment) TableName() string { return "enrollment" }

func (e *Enrollment) IsCompleted() bool {
	return e != nil && e.CompletedAt != nil
}

// ModuleView records the first time a student opened a module.
type ModuleView struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_module_view_student_module,priority:1;index:idx_module_view_student_course,priority:1" json:"student_id"`
	ModuleID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_module_view_student_module,priority:2" json:"module_id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;index:idx_module_view_student_course,priority:2" json:"course_id"`
	ViewedAt  time.Time `gorm:"column:viewed_at;not null" json:"viewed_at"`
}

func (ModuleView) TableName() string { return "module_view" }
