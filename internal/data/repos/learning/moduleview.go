package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type ModuleViewRepo interface {
	InsertIfAbsent(dbc dbctx.Context, v *types.ModuleView) (bool, error)
	CountByStudentAndCourse(dbc dbctx.Context, studentID, courseID uuid.UUID) (int64, error)
}

type moduleViewRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleViewRepo(db *gorm.DB, baseLog *logger.Logger) ModuleViewRepo {
	return &moduleViewRepo{db: db, log: baseLog.With("repo", "ModuleViewRepo")}
}

func (r *moduleViewRepo) InsertIfAbsent(dbc dbctx.Context, v *types.ModuleView) (bool, error) {
	if v == nil {
		return false, nil
	}
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	res := dbc.DB(r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(v)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// CountByStudentAndCourse counts distinct viewed modules that still belong to the course.
func (r *moduleViewRepo) CountByStudentAndCourse(dbc dbctx.Context, studentID, courseID uuid.UUID) (int64, error) {
	var n int64
	if studentID == uuid.Nil || courseID == uuid.Nil {
		return 0, nil
	}
	err := dbc.DB(r.db).Model(&types.ModuleView{}).
		Joins("JOIN course_module ON course_module.id = module_view.module_id AND course_module.course_id = module_view.course_id").
		Where("module_view.student_id = ? AND module_view.course_id = ?", studentID, courseID).
		Count(&n).Error
	if err != nil {
		return 0, err
	}
	return n, nil
}
