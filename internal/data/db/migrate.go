package db

import (
	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"gorm.io/gorm"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		&types.Student{},

		&types.Course{},
		&types.CourseModule{},
		&types.QuizQuestion{},

		&types.Enrollment{},
		&types.ModuleView{},
		&types.QuizAttempt{},
		&types.Certificate{},
	)
}
