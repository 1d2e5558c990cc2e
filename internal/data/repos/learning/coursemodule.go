package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type CourseModuleRepo interface {
	Upsert(dbc dbctx.Context, modules []*types.CourseModule) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseModule, error)
	ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.CourseModule, error)
}

type courseModuleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseModuleRepo(db *gorm.DB, baseLog *logger.Logger) CourseModuleRepo {
	return &courseModuleRepo{db: db, log: baseLog.With("repo", "CourseModuleRepo")}
}

func (r *courseModuleRepo) Upsert(dbc dbctx.Context, modules []*types.CourseModule) error {
	if len(modules) == 0 {
		return nil
	}
	for _, m := range modules {
		if m.ID == uuid.Nil {
			m.ID = uuid.New()
		}
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "course_id"}, {Name: "order_num"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "content", "updated_at"}),
		}).
		Create(&modules).Error
}

func (r *courseModuleRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.CourseModule, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.CourseModule
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *courseModuleRepo) ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.CourseModule, error) {
	var out []*types.CourseModule
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("course_id = ?", courseID).
		Order("order_num ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
