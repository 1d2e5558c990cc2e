package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type CourseRepo interface {
	Upsert(dbc dbctx.Context, courses []*types.Course) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error)
	List(dbc dbctx.Context) ([]*types.Course, error)
}

type courseRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCourseRepo(db *gorm.DB, baseLog *logger.Logger) CourseRepo {
	return &courseRepo{db: db, log: baseLog.With("repo", "CourseRepo")}
}

func (r *courseRepo) Upsert(dbc dbctx.Context, courses []*types.Course) error {
	if len(courses) == 0 {
		return nil
	}
	for _, c := range courses {
		if c.ID == uuid.Nil {
			c.ID = uuid.New()
		}
	}
	return dbc.DB(r.db).
		Omit(clause.Associations).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"title", "instructor", "duration_hours", "description", "updated_at"}),
		}).
		Create(&courses).Error
}

func (r *courseRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Course, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Course
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *courseRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Course, error) {
	var out []*types.Course
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// List returns the catalog, newest first.
func (r *courseRepo) List(dbc dbctx.Context) ([]*types.Course, error) {
	var out []*types.Course
	if err := dbc.DB(r.db).Order("created_at DESC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
