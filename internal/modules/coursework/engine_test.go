package coursework

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/modules/coursework/courseworktest"
	"github.com/yungbote/neurobridge-progress/internal/platform/clock"
)

var testStart = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

type recordingPublisher struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, evt Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, evt)
	return p.err
}

func (p *recordingPublisher) count(t EventType) int {
	p.mu.Lock()
	defer p.mu.Unlock()
	n := 0
	for _, e := range p.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

type fixture struct {
	store *courseworktest.MemStore
	clk   *clock.Manual
	pub   *recordingPublisher
	eng   *Engine
}

func newFixture(t *testing.T, policy Policy) *fixture {
	t.Helper()
	f := &fixture{
		store: courseworktest.NewMemStore(),
		clk:   clock.NewManual(testStart),
		pub:   &recordingPublisher{},
	}
	eng, err := New(Deps{Store: f.store, Clock: f.clk, Policy: policy, Publisher: f.pub})
	require.NoError(t, err)
	f.eng = eng
	return f
}

// answersFor answers every question, getting the first `right` of them correct.
func answersFor(questions []*types.QuizQuestion, right int) map[uuid.UUID]string {
	out := make(map[uuid.UUID]string, len(questions))
	for i, q := range questions {
		if i < right {
			out[q.ID] = q.CorrectAnswer
			continue
		}
		wrong := types.OptionA
		if q.CorrectAnswer == types.OptionA {
			wrong = types.OptionB
		}
		out[q.ID] = wrong
	}
	return out
}

func TestNew_RequiresStore(t *testing.T) {
	_, err := New(Deps{})
	require.Error(t, err)
}

type looseStore struct {
	*courseworktest.MemStore
}

func (looseStore) Contract() domainagg.Contract {
	return domainagg.Contract{Name: "loose", AtomicWrites: true}
}

func TestNew_RejectsStoreWithoutInsertIfAbsent(t *testing.T) {
	_, err := New(Deps{Store: looseStore{courseworktest.NewMemStore()}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "insert-if-absent")
}

func TestNew_RejectsInvalidPolicy(t *testing.T) {
	p := DefaultPolicy()
	p.ModuleWeight = 0.9
	_, err := New(Deps{Store: courseworktest.NewMemStore(), Policy: p})
	require.Error(t, err)
}

func TestCourseLifecycle_RetakesNeverRegress(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()

	s1 := f.store.AddStudent("s1")
	c1 := f.store.AddCourse("C1")
	m1 := f.store.AddModule(c1.ID, 1)
	m2 := f.store.AddModule(c1.ID, 2)
	questions := []*types.QuizQuestion{
		f.store.AddQuestion(c1.ID, types.OptionA),
		f.store.AddQuestion(c1.ID, types.OptionB),
		f.store.AddQuestion(c1.ID, types.OptionC),
		f.store.AddQuestion(c1.ID, types.OptionD),
	}

	res, err := f.eng.Enrollments.Enroll(ctx, s1.ID, c1.ID)
	require.NoError(t, err)
	assert.False(t, res.AlreadyEnrolled)
	assert.Equal(t, 0.0, res.Enrollment.ProgressPercentage)

	_, err = f.eng.Progress.MarkModuleViewed(ctx, s1.ID, m1.ID)
	require.NoError(t, err)
	enr, err := f.eng.Progress.MarkModuleViewed(ctx, s1.ID, m2.ID)
	require.NoError(t, err)
	assert.Equal(t, 50.0, enr.ProgressPercentage)

	f.clk.Advance(time.Minute)
	first, err := f.eng.Quiz.Score(ctx, s1.ID, c1.ID, answersFor(questions, 3))
	require.NoError(t, err)
	assert.Equal(t, 75.0, first.Attempt.Score)
	assert.Equal(t, 3, first.Correct)
	assert.Equal(t, 4, first.Total)
	assert.False(t, first.Passed)
	assert.Equal(t, 87.5, first.Enrollment.ProgressPercentage)
	assert.Nil(t, first.Enrollment.CompletedAt)
	assert.Empty(t, f.store.Certificates())

	f.clk.Advance(time.Minute)
	completedAt := f.clk.Now()
	second, err := f.eng.Quiz.Score(ctx, s1.ID, c1.ID, answersFor(questions, 4))
	require.NoError(t, err)
	assert.Equal(t, 100.0, second.Attempt.Score)
	assert.True(t, second.Passed)
	assert.Equal(t, 100.0, second.Enrollment.ProgressPercentage)
	require.NotNil(t, second.Enrollment.CompletedAt)
	assert.True(t, second.Enrollment.CompletedAt.Equal(completedAt))
	certs := f.store.Certificates()
	require.Len(t, certs, 1)
	cert := certs[0]

	f.clk.Advance(time.Minute)
	third, err := f.eng.Quiz.Score(ctx, s1.ID, c1.ID, map[uuid.UUID]string{
		questions[0].ID: questions[0].CorrectAnswer,
		questions[1].ID: questions[1].CorrectAnswer,
		questions[2].ID: questions[2].CorrectAnswer,
		questions[3].ID: "Z",
		uuid.New():      types.OptionA,
	})
	require.NoError(t, err)
	assert.Equal(t, 4, third.Total)
	assert.Equal(t, 75.0, third.Attempt.Score)
	assert.Equal(t, 100.0, third.Enrollment.ProgressPercentage)
	require.NotNil(t, third.Enrollment.CompletedAt)
	assert.True(t, third.Enrollment.CompletedAt.Equal(completedAt))
	certs = f.store.Certificates()
	require.Len(t, certs, 1)
	assert.Equal(t, cert.ID, certs[0].ID)
	assert.True(t, certs[0].IssuedAt.Equal(cert.IssuedAt))

	assert.Equal(t, 1, f.pub.count(EventEnrollmentCreated))
	assert.Equal(t, 2, f.pub.count(EventModuleViewed))
	assert.Equal(t, 3, f.pub.count(EventAttemptRecorded))
	assert.Equal(t, 1, f.pub.count(EventEnrollmentCompleted))
	assert.Equal(t, 1, f.pub.count(EventCertificateIssued))
}

func TestCourseLifecycle_SixtyPercentRetakeKeepsCompletion(t *testing.T) {
	f := newFixture(t, DefaultPolicy())
	ctx := context.Background()
	s := f.store.AddStudent("s")
	c := f.store.AddCourse("C")
	var qs []*types.QuizQuestion
	for i := 0; i < 5; i++ {
		qs = append(qs, f.store.AddQuestion(c.ID, types.OptionC))
	}
	_, err := f.eng.Enrollments.Enroll(ctx, s.ID, c.ID)
	require.NoError(t, err)

	done, err := f.eng.Quiz.Score(ctx, s.ID, c.ID, answersFor(qs, 5))
	require.NoError(t, err)
	require.True(t, done.Enrollment.IsCompleted())

	retake, err := f.eng.Quiz.Score(ctx, s.ID, c.ID, answersFor(qs, 3))
	require.NoError(t, err)
	assert.Equal(t, 60.0, retake.Attempt.Score)
	assert.Equal(t, 100.0, retake.Enrollment.ProgressPercentage)
	assert.Equal(t, done.Enrollment.CompletedAt, retake.Enrollment.CompletedAt)
	assert.Len(t, f.store.Certificates(), 1)
}
