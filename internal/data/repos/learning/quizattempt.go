package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type QuizAttemptRepo interface {
	Create(dbc dbctx.Context, attempt *types.QuizAttempt) error
	ListByStudentAndCourse(dbc dbctx.Context, studentID, courseID uuid.UUID) ([]*types.QuizAttempt, error)
	ListAll(dbc dbctx.Context) ([]*types.QuizAttempt, error)
	AvgScoreByStudentID(dbc dbctx.Context, studentID uuid.UUID) (float64, error)
}

type quizAttemptRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizAttemptRepo(db *gorm.DB, baseLog *logger.Logger) QuizAttemptRepo {
	return &quizAttemptRepo{db: db, log: baseLog.With("repo", "QuizAttemptRepo")}
}

func (r *quizAttemptRepo) Create(dbc dbctx.Context, attempt *types.QuizAttempt) error {
	if attempt == nil {
		return nil
	}
	if attempt.ID == uuid.Nil {
		attempt.ID = uuid.New()
	}
	return dbc.DB(r.db).Create(attempt).Error
}

// ListByStudentAndCourse returns attempts oldest first.
func (r *quizAttemptRepo) ListByStudentAndCourse(dbc dbctx.Context, studentID, courseID uuid.UUID) ([]*types.QuizAttempt, error) {
	var out []*types.QuizAttempt
	if studentID == uuid.Nil || courseID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).
		Where("student_id = ? AND course_id = ?", studentID, courseID).
		Order("taken_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizAttemptRepo) ListAll(dbc dbctx.Context) ([]*types.QuizAttempt, error) {
	var out []*types.QuizAttempt
	if err := dbc.DB(r.db).Order("taken_at ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// AvgScoreByStudentID averages every attempt; 0 when the student has none.
func (r *quizAttemptRepo) AvgScoreByStudentID(dbc dbctx.Context, studentID uuid.UUID) (float64, error) {
	var avg float64
	if studentID == uuid.Nil {
		return 0, nil
	}
	row := dbc.DB(r.db).Model(&types.QuizAttempt{}).
		Select("COALESCE(AVG(score), 0)").
		Where("student_id = ?", studentID).
		Row()
	if err := row.Scan(&avg); err != nil {
		return 0, err
	}
	return avg, nil
}
