package coursework

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
)

func TestComputeProgress(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		name string
		in   ProgressInputs
		want float64
	}{
		{"nothing yet", ProgressInputs{TotalModules: 2, TotalQuestions: 4}, 0},
		{"modules only", ProgressInputs{ViewedModules: 1, TotalModules: 2, TotalQuestions: 4}, 25},
		{"modules and quiz", ProgressInputs{ViewedModules: 2, TotalModules: 2, TotalQuestions: 4, QuizScore: 75, HasAttempt: true}, 87.5},
		{"all done", ProgressInputs{ViewedModules: 2, TotalModules: 2, TotalQuestions: 4, QuizScore: 100, HasAttempt: true}, 100},
		{"no modules renormalizes", ProgressInputs{TotalQuestions: 4, QuizScore: 60, HasAttempt: true}, 60},
		{"no questions renormalizes", ProgressInputs{ViewedModules: 1, TotalModules: 3}, 33.33},
		{"empty course", ProgressInputs{}, 0},
		{"viewed capped", ProgressInputs{ViewedModules: 5, TotalModules: 2}, 100},
		{"thirds round", ProgressInputs{ViewedModules: 1, TotalModules: 3, TotalQuestions: 3, QuizScore: 66.67, HasAttempt: true}, 50},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.want, ComputeProgress(p, tc.in), 1e-9)
		})
	}
}

func TestComputeProgress_CustomWeights(t *testing.T) {
	p := DefaultPolicy()
	p.ModuleWeight, p.QuizWeight = 0.25, 0.75
	got := ComputeProgress(p, ProgressInputs{ViewedModules: 2, TotalModules: 2, TotalQuestions: 1, QuizScore: 50, HasAttempt: true})
	assert.InDelta(t, 62.5, got, 1e-9)
}

func TestSelectAttemptScore(t *testing.T) {
	at := func(min int) time.Time { return testStart.Add(time.Duration(min) * time.Minute) }
	attempts := []*types.QuizAttempt{
		{Score: 70, TakenAt: at(1)},
		{Score: 95, TakenAt: at(2)},
		{Score: 40, TakenAt: at(3)},
		{Score: 55, TakenAt: at(3)},
	}

	best, ok := SelectAttemptScore(AttemptBest, attempts)
	require.True(t, ok)
	assert.Equal(t, 95.0, best)

	latest, ok := SelectAttemptScore(AttemptLatest, attempts)
	require.True(t, ok)
	assert.Equal(t, 55.0, latest)

	_, ok = SelectAttemptScore(AttemptBest, nil)
	assert.False(t, ok)
}

func TestRecompute_LatestPolicyStillMonotonic(t *testing.T) {
	p := DefaultPolicy()
	p.AttemptPolicy = AttemptLatest
	f := newFixture(t, p)
	ctx := context.Background()
	s := f.store.AddStudent("s")
	c := f.store.AddCourse("C")
	f.store.AddModule(c.ID, 1)
	qs := []*types.QuizQuestion{f.store.AddQuestion(c.ID, types.OptionA), f.store.AddQuestion(c.ID, types.OptionA)}
	_, err := f.eng.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)

	good, err := f.eng.Quiz.Score(ctx, s.ID, c.ID, answersFor(qs, 2))
	require.NoError(t, err)
	assert.Equal(t, 50.0, good.Enrollment.ProgressPercentage)

	f.clk.Advance(time.Minute)
	worse, err := f.eng.Quiz.Score(ctx, s.ID, c.ID, answersFor(qs, 0))
	require.NoError(t, err)
	assert.Equal(t, 50.0, worse.Enrollment.ProgressPercentage)
}

func TestRecompute_NotEnrolled(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	s := f.store.AddStudent("s")
	c := f.store.AddCourse("C")
	_, err := f.eng.Progress.Recompute(context.Background(), s.ID, c.ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "got %v", err)
}

func TestRecompute_IssuesMissingCertificateForCompletedEnrollment(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	s := f.store.AddStudent("s")
	c := f.store.AddCourse("C")
	done := testStart
	f.store.PutEnrollment(&types.Enrollment{
		ID:                 uuid.New(),
		StudentID:          s.ID,
		CourseID:           c.ID,
		ProgressPercentage: 100,
		EnrolledAt:         testStart,
		CompletedAt:        &done,
	})

	enr, err := f.eng.Progress.Recompute(context.Background(), s.ID, c.ID)
	require.NoError(t, err)
	assert.Equal(t, 100.0, enr.ProgressPercentage)
	assert.True(t, enr.CompletedAt.Equal(done))
	assert.Len(t, f.store.Certificates(), 1)
	assert.Equal(t, 0, f.store.Calls("UpdateEnrollmentProgress"))
}

func TestMarkModuleViewed(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	s := f.store.AddStudent("s")
	c := f.store.AddCourse("C")
	m := f.store.AddModule(c.ID, 1)
	f.store.AddModule(c.ID, 2)

	_, err := f.eng.Progress.MarkModuleViewed(ctx, s.ID, m.ID)
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "not enrolled: %v", err)

	_, err = f.eng.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)

	enr, err := f.eng.Progress.MarkModuleViewed(ctx, s.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, enr.ProgressPercentage)

	enr, err = f.eng.Progress.MarkModuleViewed(ctx, s.ID, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, enr.ProgressPercentage)
	assert.Equal(t, 1, f.pub.count(EventModuleViewed))

	_, err = f.eng.Progress.MarkModuleViewed(ctx, s.ID, uuid.New())
	assert.True(t, domainagg.IsCode(err, domainagg.CodeNotFound), "unknown module: %v", err)
}
