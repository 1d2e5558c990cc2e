package repos

import (
	"github.com/yungbote/neurobridge-progress/internal/data/repos/learning"
	"github.com/yungbote/neurobridge-progress/internal/data/repos/user"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
	"gorm.io/gorm"
)

type StudentRepo = user.StudentRepo

type CourseRepo = learning.CourseRepo
type CourseModuleRepo = learning.CourseModuleRepo
type QuizQuestionRepo = learning.QuizQuestionRepo

type EnrollmentRepo = learning.EnrollmentRepo
type ModuleViewRepo = learning.ModuleViewRepo
type QuizAttemptRepo = learning.QuizAttemptRepo
type CertificateRepo = learning.CertificateRepo

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return user.NewStudentRepo(db, baseLog)
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return learning.NewCourseRepo(db, baseLog)
}

func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	return learning.NewCourseModuleRepo(db, baseLog)
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return learning.NewQuizQuestionRepo(db, baseLog)
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return learning.NewEnrollmentRepo(db, baseLog)
}

func NewModuleViewRepo(db *gorm.DB, baseLog *logger.Logger) ModuleViewRepo {
	return learning.NewModuleViewRepo(db, baseLog)
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return learning.NewQuizAttemptRepo(db, baseLog)
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return learning.NewCertificateRepo(db, baseLog)
}
