package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type CertificateRepo interface {
	// InsertIfAbsent relies on the enrollment_id unique index.
	InsertIfAbsent(dbc dbctx.Context, c *types.Certificate) (bool, error)
	GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Certificate, error)
	GetByEnrollmentID(dbc dbctx.Context, enrollmentID uuid.UUID) (*types.Certificate, error)
	ListViewsByStudentID(dbc dbctx.Context, studentID uuid.UUID) ([]*types.CertificateView, error)
	CountByStudentID(dbc dbctx.Context, studentID uuid.UUID) (int64, error)
}

type certificateRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCertificateRepo(db *gorm.DB, baseLog *logger.Logger) CertificateRepo {
	return &certificateRepo{db: db, log: baseLog.With("repo", "CertificateRepo")}
}

func (r *certificateRepo) InsertIfAbsent(dbc dbctx.Context, c *types.Certificate) (bool, error) {
	if c == nil {
		return false, nil
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	res := dbc.DB(r.db).Clauses(clause.OnConflict{DoNothing: true}).Create(c)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *certificateRepo) GetByID(dbc dbctx.Context, id uuid.UUID) (*types.Certificate, error) {
	if id == uuid.Nil {
		return nil, nil
	}
	var row types.Certificate
	if err := dbc.DB(r.db).Where("id = ?", id).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

func (r *certificateRepo) GetByEnrollmentID(dbc dbctx.Context, enrollmentID uuid.UUID) (*types.Certificate, error) {
	if enrollmentID == uuid.Nil {
		return nil, nil
	}
	var row types.Certificate
	if err := dbc.DB(r.db).Where("enrollment_id = ?", enrollmentID).Limit(1).Find(&row).Error; err != nil {
		return nil, err
	}
	if row.ID == uuid.Nil {
		return nil, nil
	}
	return &row, nil
}

// ListViewsByStudentID joins course title and instructor, newest certificate first.
func (r *certificateRepo) ListViewsByStudentID(dbc dbctx.Context, studentID uuid.UUID) ([]*types.CertificateView, error) {
	var out []*types.CertificateView
	if studentID == uuid.Nil {
		return out, nil
	}
	err := dbc.DB(r.db).
		Table("certificate").
		Select("certificate.id, certificate.enrollment_id, certificate.course_id, course.title AS course_title, course.instructor, certificate.issued_at").
		Joins("JOIN course ON course.id = certificate.course_id").
		Where("certificate.student_id = ?", studentID).
		Order("certificate.issued_at DESC").
		Scan(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *certificateRepo) CountByStudentID(dbc dbctx.Context, studentID uuid.UUID) (int64, error) {
	var n int64
	if studentID == uuid.Nil {
		return 0, nil
	}
	if err := dbc.DB(r.db).Model(&types.Certificate{}).Where("student_id = ?", studentID).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}
