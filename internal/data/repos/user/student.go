package user

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type StudentRepo interface {
	Upsert(dbc dbctx.Context, students []*types.Student) error
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Student, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Student, error)
	GetByUsername(dbc dbctx.Context, username string) (*types.Student, error)
	List(dbc dbctx.Context) ([]*types.Student, error)
}

type studentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStudentRepo(db *gorm.DB, baseLog *logger.Logger) StudentRepo {
	return &studentRepo{
		db:  db,
		log: baseLog.With("repo", "StudentRepo"),
	}
}

// Upsert keys on username so fixtures can be re-applied; the id of an
// existing row is kept.
func (r *studentRepo) Upsert(dbc dbctx.Context, students []*types.Student) error {
	if len(students) == 0 {
		return nil
	}
	for _, s := range students {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "username"}},
			DoUpdates: clause.AssignmentColumns([]string{"email", "password_hash", "full_name", "updated_at"}),
		}).
		Create(&students).Error
}

func (r *studentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Student, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Student
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *studentRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.Student, error) {
	var out []*types.Student
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *studentRepo) GetByUsername(dbc dbctx.Context, username string) (*types.Student, error) {
	if username == "" {
		return nil, nil
	}
	var row types.Student
	if err := dbc.DB(r.db).Where("username = ?", username).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *studentRepo) List(dbc dbctx.Context) ([]*types.Student, error) {
	var out []*types.Student
	if err := dbc.DB(r.db).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
