package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"gorm.io/gorm"
)

func SeedStudent(tb testing.TB, ctx context.Context, tx *gorm.DB, username string) *types.Student {
	tb.Helper()
	s := &types.Student{
		ID:           uuid.New(),
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: "x",
		FullName:     "Student " + username,
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed student: %v", err)
	}
	return s
}

func SeedCourse(tb testing.TB, ctx context.Context, tx *gorm.DB, title string) *types.Course {
	tb.Helper()
	c := &types.Course{
		ID:            uuid.New(),
		Title:         title,
		Instructor:    "Dr. Ada",
		DurationHours: 10,
		Description:   title + " description",
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed course: %v", err)
	}
	return c
}

func SeedCourseModule(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, orderNum int) *types.CourseModule {
	tb.Helper()
	m := &types.CourseModule{
		ID:       uuid.New(),
		CourseID: courseID,
		OrderNum: orderNum,
		Title:    fmt.Sprintf("Module %d", orderNum),
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed course module: %v", err)
	}
	return m
}

// SeedQuizQuestion creates a question whose correct option is answer.
func SeedQuizQuestion(tb testing.TB, ctx context.Context, tx *gorm.DB, courseID uuid.UUID, answer string) *types.QuizQuestion {
	tb.Helper()
	q := &types.QuizQuestion{
		ID:            uuid.New(),
		CourseID:      courseID,
		QuestionText:  "question?",
		OptionA:       "a",
		OptionB:       "b",
		OptionC:       "c",
		OptionD:       "d",
		CorrectAnswer: answer,
	}
	if err := tx.WithContext(ctx).Create(q).Error; err != nil {
		tb.Fatalf("seed quiz question: %v", err)
	}
	return q
}

func SeedEnrollment(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID, at time.Time) *types.Enrollment {
	tb.Helper()
	e := &types.Enrollment{
		ID:         uuid.New(),
		StudentID:  studentID,
		CourseID:   courseID,
		EnrolledAt: at,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed enrollment: %v", err)
	}
	return e
}

func SeedQuizAttempt(tb testing.TB, ctx context.Context, tx *gorm.DB, studentID, courseID uuid.UUID, score float64, at time.Time) *types.QuizAttempt {
	tb.Helper()
	a := &types.QuizAttempt{
		ID:             uuid.New(),
		StudentID:      studentID,
		CourseID:       courseID,
		Score:          score,
		CorrectCount:   int(score / 25),
		TotalQuestions: 4,
		TakenAt:        at,
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed quiz attempt: %v", err)
	}
	return a
}
