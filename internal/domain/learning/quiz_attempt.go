package learning

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// QuizAttempt is append-only.
type QuizAttempt struct {
	ID             uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	StudentID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_quiz_attempt_student_course,priority:1" json:"student_id"`
	CourseID       uuid.UUID      `gorm:"type:uuid;not null;index:idx_quiz_attempt_student_course,priority:2" json:"course_id"`
	Score          float64        `gorm:"column:score;type:decimal(5,2);not null" json:"score"`
	CorrectCount   int            `gorm:"column:correct_count;not null" json:"correct"`
	TotalQuestions int            `gorm:"column:total_questions;not null" json:"total_questions"`
	Answers        datatypes.JSON `gorm:"column:answers" json:"answers,omitempty"`
	TakenAt        time.Time      `gorm:"column:taken_at;not null;index" json:"taken_at"`
}

func (QuizAttempt) TableName() string { return "quiz_attempt" }

// Passed is informational only; it never gates progress.
func (a *QuizAttempt) Passed(threshold float64) bool {
	return a != nil && a.Score >= threshold
}
