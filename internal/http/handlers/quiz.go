package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	"github.com/yungbote/neurobridge-progress/internal/http/response"
	"github.com/yungbote/neurobridge-progress/internal/modules/coursework"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type QuizEngine interface {
	SelectQuestions(ctx context.Context, courseID uuid.UUID, count int) ([]*types.QuizQuestion, error)
	Score(ctx context.Context, studentID, courseID uuid.UUID, answers map[uuid.UUID]string) (coursework.ScoreResult, error)
}

type QuizHandler struct {
	log  *logger.Logger
	quiz QuizEngine
}

func NewQuizHandler(log *logger.Logger, quiz QuizEngine) *QuizHandler {
	return &QuizHandler{log: log.With("handler", "QuizHandler"), quiz: quiz}
}

// questionView is what a student sees; the correct answer stays server-side.
type questionView struct {
	ID           uuid.UUID `json:"id"`
	QuestionText string    `json:"question_text"`
	OptionA      string    `json:"option_a"`
	OptionB      string    `json:"option_b"`
	OptionC      string    `json:"option_c"`
	OptionD      string    `json:"option_d"`
}

// GET /quiz/:courseId/questions?count=N
func (h *QuizHandler) Questions(c *gin.Context) {
	courseID, ok := pathUUID(c, "courseId")
	if !ok {
		return
	}
	count := 0
	if raw := strings.TrimSpace(c.Query("count")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondValidation(c, "count must be an integer")
			return
		}
		count = n
	}
	questions, err := h.quiz.SelectQuestions(c.Request.Context(), courseID, count)
	if err != nil {
		response.RespondDomainError(c, err)
		return
	}
	out := make([]questionView, 0, len(questions))
	for _, q := range questions {
		out = append(out, questionView{
			ID:           q.ID,
			QuestionText: q.QuestionText,
			OptionA:      q.OptionA,
			OptionB:      q.OptionB,
			OptionC:      q.OptionC,
			OptionD:      q.OptionD,
		})
	}
	response.RespondOK(c, gin.H{"questions": out})
}

// POST /quiz/submit
// body: { "student_id": "...", "course_id": "...", "answers": { "<question_id>": "A" } }
// Answer keys that are not UUIDs are dropped like unknown question ids.
func (h *QuizHandler) Submit(c *gin.Context) {
	var req struct {
		studentCourseRequest
		Answers map[string]string `json:"answers"`
	}
	if !bindJSON(c, &req) {
		return
	}
	answers := make(map[uuid.UUID]string, len(req.Answers))
	for k, v := range req.Answers {
		id, err := uuid.Parse(strings.TrimSpace(k))
		if err != nil {
			continue
		}
		answers[id] = v
	}
	studentID, courseID := req.ids()
	res, err := h.quiz.Score(c.Request.Context(), studentID, courseID, answers)
	if err != nil {
		if res.Attempt != nil {
			// The attempt was stored; only the follow-up recompute failed.
			h.log.Warn("quiz scored but recompute failed", "attempt_id", res.Attempt.ID, "error", err)
		}
		response.RespondDomainError(c, err)
		return
	}
	response.RespondOK(c, res)
}
