package learning

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/platform/dbctx"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type QuizQuestionRepo interface {
	Upsert(dbc dbctx.Context, questions []*types.QuizQuestion) error
	ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.QuizQuestion, error)
	GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.QuizQuestion, error)
}

type quizQuestionRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewQuizQuestionRepo(db *gorm.DB, baseLog *logger.Logger) QuizQuestionRepo {
	return &quizQuestionRepo{db: db, log: baseLog.With("repo", "QuizQuestionRepo")}
}

func (r *quizQuestionRepo) Upsert(dbc dbctx.Context, questions []*types.QuizQuestion) error {
	if len(questions) == 0 {
		return nil
	}
	for _, q := range questions {
		if q.ID == uuid.Nil {
			q.ID = uuid.New()
		}
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"question_text", "option_a", "option_b", "option_c", "option_d", "correct_answer", "updated_at",
			}),
		}).
		Create(&questions).Error
}

func (r *quizQuestionRepo) ListByCourseID(dbc dbctx.Context, courseID uuid.UUID) ([]*types.QuizQuestion, error) {
	var out []*types.QuizQuestion
	if courseID == uuid.Nil {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("course_id = ?", courseID).Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *quizQuestionRepo) GetByIDs(dbc dbctx.Context, ids []uuid.UUID) ([]*types.QuizQuestion, error) {
	var out []*types.QuizQuestion
	if len(ids) == 0 {
		return out, nil
	}
	if err := dbc.DB(r.db).Where("id IN ?", ids).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
