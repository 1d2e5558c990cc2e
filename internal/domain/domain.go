package domain

import (
	"github.com/yungbote/neurobridge-progress/internal/domain/learning"
	"github.com/yungbote/neurobridge-progress/internal/domain/user"
)

type Student = user.Student

type Course = learning.Course
type CourseModule = learning.CourseModule
type QuizQuestion = learning.QuizQuestion
type Enrollment = learning.Enrollment
type ModuleView = learning.ModuleView
type QuizAttempt = learning.QuizAttempt
type Certificate = learning.Certificate

type LeaderboardEntry = learning.LeaderboardEntry
type StudentCourse = learning.StudentCourse
type CertificateView = learning.CertificateView
type DashboardStats = learning.DashboardStats

const (
	OptionA = learning.OptionA
	OptionB = learning.OptionB
	OptionC = learning.OptionC
	OptionD = learning.OptionD
)

var NormalizeOption = learning.NormalizeOption
