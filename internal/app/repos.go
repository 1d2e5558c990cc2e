package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/neurobridge-progress/internal/data/repos"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type Repos struct {
	Student      repos.StudentRepo
	Course       repos.CourseRepo
	CourseModule repos.CourseModuleRepo
	QuizQuestion repos.QuizQuestionRepo
	Enrollment   repos.EnrollmentRepo
	ModuleView   repos.ModuleViewRepo
	QuizAttempt  repos.QuizAttemptRepo
	Certificate  repos.CertificateRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Student:      repos.NewStudentRepo(db, log),
		Course:       repos.NewCourseRepo(db, log),
		CourseModule: repos.NewCourseModuleRepo(db, log),
		QuizQuestion: repos.NewQuizQuestionRepo(db, log),
		Enrollment:   repos.NewEnrollmentRepo(db, log),
		ModuleView:   repos.NewModuleViewRepo(db, log),
		QuizAttempt:  repos.NewQuizAttemptRepo(db, log),
		Certificate:  repos.NewCertificateRepo(db, log),
	}
}
