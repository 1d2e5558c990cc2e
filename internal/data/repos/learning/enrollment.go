package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type EnrollmentRepo interface {
	// InsertIfAbsent relies on the (student_id, course_id) unique index and
	// reports whether a row was written.
	InsertIfAbsent(dbc dbctx.Context, e *types.Enrollment) (bool, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Enrollment, error)
	GetByStudentAndCourse(dbc dbctx.Context, studentID, courseID uuid.UUID) (*types.Enrollment, error)
	ListByStudentID(dbc dbctx.Context, studentID uuid.UUID) ([]*types.Enrollment, error)
	ListAll(dbc dbctx.Context) ([]*types.Enrollment, error)
	CountByStudentID(dbc dbctx.Context, studentID uuid.UUID) (total int64, completed int64, err error)
}

type enrollmentRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEnrollmentRepo(db *gorm.DB, baseLog *logger.Logger) EnrollmentRepo {
	return &enrollmentRepo{db: db, log: baseLog.With("repo", "EnrollmentRepo")}
}

func (r *enrollmentRepo) InsertIfAbsent(dbc dbctx.Context, e *types.Enrollment) (bool, error) {
	if e == nil {
		return false, nil
	}
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	res := dbc.DB(r.db).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(e)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *enrollmentRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Enrollment, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Enrollment
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *enrollmentRepo) GetByStudentAndCourse(dbc dbctx.Context, studentID, courseID uuid.UUID) (*types.Enrollment, error) {
	if studentID == uuid.Nil || courseID == uuid.Nil {
		return nil, nil
	}
	var row types.Enrollment
	if err := dbc.DB(r.db).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Limit(1).
		Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// ListByStudentID returns the student's enrollments, most recent first.
func (r *enrollmentRepo) ListByStudentID(dbc dbctx.Context, studentID uuid.UUID) ([]*types.Enrollment, error) {
	var out []*types.Enrollment
	if studentID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("student_id = ?", studentID).
		Order("enrolled_at DESC, id ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) ListAll(dbc dbctx.Context) ([]*types.Enrollment, error) {
	var out []*types.Enrollment
	if err := dbc.DB(r.db).Order("enrolled_at ASC, id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *enrollmentRepo) CountByStudentID(dbc dbctx.Context, studentID uuid.UUID) (int64, int64, error) {
	var total, completed int64
	if studentID == uuid.Nil {
		return 0, 0, nil
	}
	if err := dbc.DB(r.db).Model(&types.Enrollment{}).
		Where("student_id = ?", studentID).
		Count(&total).Error; err != nil {
		return 0, 0, err
	}
	if err := dbc.DB(r.db).Model(&types.Enrollment{}).
		Where("student_id = ? AND completed_at IS NOT NULL", studentID).
		Count(&completed).Error; err != nil {
		return 0, 0, err
	}
	return total, completed, nil
}
