package learning

import (
	"time"

	"github.com/google/uuid"
)

// LeaderboardEntry is derived on demand and never persisted.
type LeaderboardEntry struct {
	StudentID        uuid.UUID `json:"student_id"`
	Username         string    `json:"username"`
	FullName         string    `json:"full_name"`
	RankPosition     int       `json:"rank_position"`
	CoursesCompleted int       `json:"courses_completed"`
	AvgScore         float64   `json:"avg_score"`
}

type StudentCourse struct {
	CourseID           uuid.UUID  `json:"course_id"`
	Title              string     `json:"title"`
	Instructor         string     `json:"instructor"`
	DurationHours      int        `json:"duration_hours"`
	Description        string     `json:"description"`
	ProgressPercentage float64    `json:"progress_percentage"`
	Completed          bool       `json:"completed"`
	EnrolledAt         time.Time  `json:"enrolled_at"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
}

type CertificateView struct {
	ID           uuid.UUID `json:"id"`
	EnrollmentID uuid.UUID `json:"enrollment_id"`
	CourseID     uuid.UUID `json:"course_id"`
	CourseTitle  string    `json:"course_title"`
	Instructor   string    `json:"instructor"`
	IssuedAt     time.Time `json:"issued_at"`
}

type DashboardStats struct {
	EnrolledCourses  int64   `json:"enrolled_courses"`
	CompletedCourses int64   `json:"completed_courses"`
	AvgScore         float64 `json:"avg_score"`
	Certificates     int64   `json:"certificates"`
}
