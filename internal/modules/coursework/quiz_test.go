package coursework

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
)

func TestSelectQuestions_SmallPoolReturnsAll(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	c := f.store.AddCourse("C")
	want := map[uuid.UUID]bool{}
	for i := 0; i < 3; i++ {
		want[f.store.AddQuestion(c.ID, types.OptionA).ID] = true
	}

	got, err := f.eng.Quiz.SelectQuestions(context.Background(), c.ID, 5)
	require.NoError(t, err)
	require.Len(t, got, 3)
	for _, q := range got {
		assert.True(t, want[q.ID])
	}
}

func TestSelectQuestions_DistinctAndBounded(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	c := f.store.AddCourse("C")
	for i := 0; i < 12; i++ {
		f.store.AddQuestion(c.ID, types.OptionB)
	}

	for round := 0; round < 20; round++ {
		got, err := f.eng.Quiz.SelectQuestions(context.Background(), c.ID, 5)
		require.NoError(t, err)
		require.Len(t, got, 5)
		seen := map[uuid.UUID]bool{}
		for _, q := range got {
			assert.False(t, seen[q.ID], "question drawn twice")
			seen[q.ID] = true
			assert.Equal(t, c.ID, q.CourseID)
		}
	}
}

func TestSelectQuestions_DefaultCount(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	c := f.store.AddCourse("C")
	for i := 0; i < 9; i++ {
		f.store.AddQuestion(c.ID, types.OptionB)
	}
	got, err := f.eng.Quiz.SelectQuestions(context.Background(), c.ID, 0)
	require.NoError(t, err)
	assert.Len(t, got, DefaultQuestionCount)
}

func TestSelectQuestions_Reshuffles(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	c := f.store.AddCourse("C")
	for i := 0; i < 10; i++ {
		f.store.AddQuestion(c.ID, types.OptionB)
	}
	first, err := f.eng.Quiz.SelectQuestions(context.Background(), c.ID, 10)
	require.NoError(t, err)

	differs := false
	for i := 0; i < 50 && !differs; i++ {
		next, err := f.eng.Quiz.SelectQuestions(context.Background(), c.ID, 10)
		require.NoError(t, err)
		for j := range next {
			if next[j].ID != first[j].ID {
				differs = true
				break
			}
		}
	}
	assert.True(t, differs, "fifty draws all produced the same order")
}

func TestSelectQuestions_EmptyPool(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	c := f.store.AddCourse("C")
	_, err := f.eng.Quiz.SelectQuestions(context.Background(), c.ID, 5)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNoQuestions), "got %v", err)

	_, err = f.eng.Quiz.SelectQuestions(context.Background(), uuid.New(), 5)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "got %v", err)
}

func TestScore_EmptyAnswers(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	s := f.store.AddStudent("s")
	c := f.store.AddCourse("C")
	_, err := f.eng.Quiz.Score(context.Background(), s.ID, c.ID, map[uuid.UUID]string{})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNoQuestions), "got %v", err)
	assert.Equal(t, 0, f.store.Calls("InsertQuizAttempt"))
}

func TestScore_AllCorrectOnFiveQuestions(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	s := f.store.AddStudent("s")
	c := f.store.AddCourse("C")
	var qs []*types.QuizQuestion
	for _, ans := range []string{"A", "B", "C", "D", "A"} {
		qs = append(qs, f.store.AddQuestion(c.ID, ans))
	}
	_, err := f.eng.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)

	answers := answersFor(qs, 5)
	answers[qs[0].ID] = "a"
	res, err := f.eng.Quiz.Score(ctx, s.ID, c.ID, answers)
	require.NoError(t, err)
	assert.Equal(t, 100.0, res.Attempt.Score)
	assert.Equal(t, 5, res.Attempt.TotalQuestions)
	assert.Equal(t, 5, res.Attempt.CorrectCount)
	assert.True(t, res.Passed)

	var snapshot map[string]answerRecord
	require.NoError(t, json.Unmarshal(res.Attempt.Answers, &snapshot))
	assert.Len(t, snapshot, 5)
	assert.Equal(t, answerRecord{Chosen: "A", Correct: true}, snapshot[qs[0].ID.String()])
}

func TestScore_IgnoresUnknownAndForeignQuestions(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	s := f.store.AddStudent("s")
	c := f.store.AddCourse("C")
	other := f.store.AddCourse("Other")
	q1 := f.store.AddQuestion(c.ID, types.OptionA)
	q2 := f.store.AddQuestion(c.ID, types.OptionB)
	q3 := f.store.AddQuestion(c.ID, types.OptionC)
	foreign := f.store.AddQuestion(other.ID, types.OptionD)
	_, err := f.eng.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)

	res, err := f.eng.Quiz.Score(ctx, s.ID, c.ID, map[uuid.UUID]string{
		q1.ID:      types.OptionA,
		q2.ID:      types.OptionA,
		q3.ID:      types.OptionC,
		foreign.ID: types.OptionD,
		uuid.New(): types.OptionA,
	})
	require.NoError(t, err)
	assert.Equal(t, 3, res.Total)
	assert.Equal(t, 2, res.Correct)
	assert.Equal(t, 66.67, res.Attempt.Score)
	assert.False(t, res.Passed)
}

func TestScore_OnlyUnknownQuestions(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	s := f.store.AddStudent("s")
	c := f.store.AddCourse("C")
	f.store.AddQuestion(c.ID, types.OptionA)
	_, err := f.eng.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)

	_, err = f.eng.Quiz.Score(ctx, s.ID, c.ID, map[uuid.UUID]string{uuid.New(): types.OptionA})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNoQuestions), "got %v", err)
	assert.Equal(t, 0, f.store.Calls("InsertQuizAttempt"))
}

func TestScore_RequiresEnrollment(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	s := f.store.AddStudent("s")
	c := f.store.AddCourse("C")
	q := f.store.AddQuestion(c.ID, types.OptionA)
	_, err := f.eng.Quiz.Score(context.Background(), s.ID, c.ID, map[uuid.UUID]string{q.ID: types.OptionA})
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "got %v", err)
}
