package learning

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	OptionA = "A"
	OptionB = "B"
	OptionC = "C"
	OptionD = "D"
)

// NormalizeOption upper-cases and trims a chosen option; unknown values return "".
func NormalizeOption(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	switch s {
	case OptionA, OptionB, OptionC, OptionD:
		return s
	default:
		return ""
	}
}

type QuizQuestion struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CourseID      uuid.UUID `gorm:"type:uuid;not null;index" json:"course_id"`
	QuestionText  string    `gorm:"column:question_text;type:text;not null" json:"question_text"`
	OptionA       string    `gorm:"column:option_a;not null" json:"option_a"`
	OptionB       string    `gorm:"column:option_b;not null" json:"option_b"`
	OptionC       string    `gorm:"column:option_c;not null" json:"option_c"`
	OptionD       string    `gorm:"column:option_d;not null" json:"option_d"`
	CorrectAnswer string    `gorm:"column:correct_answer;size:1;not null" json:"correct_answer"`

	CreatedAt time.Time `gorm:"not null" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null" json:"updated_at"`
}

func (QuizQuestion) TableName() string { return "quiz_question" }

func (q *QuizQuestion) IsCorrect(choice string) bool {
	if q == nil {
		return false
	}
	c := NormalizeOption(choice)
	return c != "" && c == NormalizeOption(q.CorrectAnswer)
}
