package coursework

import (
	"context"
	"encoding/json"
	"math/rand/v2"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"gorm.io/datatypes"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
)

type QuizEngine struct {
	*core
	progress *ProgressTracker
}

// ScoreResult is the outcome of one graded submission. Passed is reported
// against the policy threshold and never affects progress.
type ScoreResult struct {
	Attempt    *types.QuizAttempt `json:"attempt"`
	Correct    int                `json:"correct"`
	Total      int                `json:"total"`
	Passed     bool               `json:"passed"`
	Enrollment *types.Enrollment  `json:"enrollment,omitempty"`
}

type answerRecord struct {
	Chosen  string `json:"chosen"`
	Correct bool   `json:"correct"`
}

// SelectQuestions draws up to count distinct questions of the course in random
// order. A pool smaller than count is returned whole. count <= 0 means the
// policy default.
func (q *QuizEngine) SelectQuestions(ctx context.Context, courseID uuid.UUID, count int) (out []*types.QuizQuestion, err error) {
	const op = "coursework.SelectQuestions"
	ctx, span := q.startSpan(ctx, op, attribute.String("course_id", courseID.String()), attribute.Int("count", count))
	defer func() { endSpan(span, err) }()

	if courseID == uuid.Nil {
		return nil, validationError(op, "course_id is required")
	}
	if count <= 0 {
		count = q.policy.DefaultQuestionCount
	}
	course, err := q.store.GetCourse(ctx, courseID)
	if err != nil {
		return nil, storageError(op, err)
	}
	if course == nil {
		return nil, notFound(op, "course")
	}
	pool, err := q.store.GetQuestions(ctx, courseID)
	if err != nil {
		return nil, storageError(op, err)
	}
	if len(pool) == 0 {
		return nil, noQuestions(op, "course has no quiz questions")
	}
	return drawQuestions(pool, count), nil
}

func drawQuestions(pool []*types.QuizQuestion, count int) []*types.QuizQuestion {
	shuffled := make([]*types.QuizQuestion, len(pool))
	copy(shuffled, pool)
	rand.Shuffle(len(shuffled), func(i, j int) {
		shuffled[i], shuffled[j] = shuffled[j], shuffled[i]
	})
	if count < len(shuffled) {
		shuffled = shuffled[:count]
	}
	return shuffled
}

// Score grades answers against the course's questions, records the attempt
// and recomputes the enrollment. Answers for unknown questions, or questions
// of another course, are ignored.
func (q *QuizEngine) Score(ctx context.Context, studentID, courseID uuid.UUID, answers map[uuid.UUID]string) (res ScoreResult, err error) {
	const op = "coursework.Score"
	ctx, span := q.startSpan(ctx, op,
		attribute.String("student_id", studentID.String()),
		attribute.String("course_id", courseID.String()),
		attribute.Int("answers", len(answers)),
	)
	defer func() { endSpan(span, err) }()

	if studentID == uuid.Nil || courseID == uuid.Nil {
		return ScoreResult{}, validationError(op, "student_id and course_id are required")
	}
	if len(answers) == 0 {
		return ScoreResult{}, noQuestions(op, "no answers submitted")
	}
	enr, err := q.store.GetEnrollment(ctx, studentID, courseID)
	if err != nil {
		return ScoreResult{}, storageError(op, err)
	}
	if enr == nil {
		return ScoreResult{}, notFound(op, "enrollment")
	}

	ids := make([]uuid.UUID, 0, len(answers))
	for id := range answers {
		if id != uuid.Nil {
			ids = append(ids, id)
		}
	}
	questions, err := q.store.GetQuestionsByIDs(ctx, ids)
	if err != nil {
		return ScoreResult{}, storageError(op, err)
	}

	snapshot := make(map[string]answerRecord, len(questions))
	correct, total := 0, 0
	for _, question := range questions {
		if question == nil || question.CourseID != courseID {
			continue
		}
		if _, seen := snapshot[question.ID.String()]; seen {
			continue
		}
		chosen := answers[question.ID]
		ok := question.IsCorrect(chosen)
		snapshot[question.ID.String()] = answerRecord{Chosen: types.NormalizeOption(chosen), Correct: ok}
		total++
		if ok {
			correct++
		}
	}
	if total == 0 {
		return ScoreResult{}, noQuestions(op, "no submitted answer matches a question of this course")
	}
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return ScoreResult{}, internalError(op, err)
	}

	attempt := &types.QuizAttempt{
		ID:             uuid.New(),
		StudentID:      studentID,
		CourseID:       courseID,
		Score:          round2(100 * float64(correct) / float64(total)),
		CorrectCount:   correct,
		TotalQuestions: total,
		Answers:        datatypes.JSON(raw),
		TakenAt:        q.clock.Now(),
	}
	if err = q.store.InsertQuizAttempt(ctx, attempt); err != nil {
		return ScoreResult{}, storageError(op, err)
	}
	q.metrics.ObserveQuizScore(attempt.Score)
	q.log.Info("quiz attempt recorded", "student_id", studentID, "course_id", courseID, "score", attempt.Score, "correct", correct, "total", total)
	q.emit(ctx, Event{
		Type:         EventAttemptRecorded,
		StudentID:    studentID,
		CourseID:     courseID,
		EnrollmentID: ptrUUID(enr.ID),
		AttemptID:    ptrUUID(attempt.ID),
		Score:        ptrFloat(attempt.Score),
		At:           attempt.TakenAt,
	})

	res = ScoreResult{
		Attempt: attempt,
		Correct: correct,
		Total:   total,
		Passed:  attempt.Passed(q.policy.PassThreshold),
	}
	res.Enrollment, err = q.progress.Recompute(ctx, studentID, courseID)
	return res, err
}
