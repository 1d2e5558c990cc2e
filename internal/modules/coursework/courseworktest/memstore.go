// Package courseworktest provides an in-memory coursework store for tests.
package courseworktest

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
)

// MemStore implements domainagg.CourseworkStore over maps guarded by one mutex.
// Each write is applied atomically. Faults queued with Inject are returned by
// the named method before it does any work.
type MemStore struct {
	mu sync.Mutex

	students     map[uuid.UUID]*types.Student
	courses      map[uuid.UUID]*types.Course
	modules      map[uuid.UUID]*types.CourseModule
	questions    map[uuid.UUID]*types.QuizQuestion
	enrollments  map[uuid.UUID]*types.Enrollment
	views        map[[2]uuid.UUID]*types.ModuleView
	attempts     []*types.QuizAttempt
	certificates map[uuid.UUID]*types.Certificate

	faults map[string][]error
	calls  map[string]int
}

var _ domainagg.CourseworkStore = (*MemStore)(nil)

func NewMemStore() *MemStore {
	return &MemStore{
		students:     map[uuid.UUID]*types.Student{},
		courses:      map[uuid.UUID]*types.Course{},
		modules:      map[uuid.UUID]*types.CourseModule{},
		questions:    map[uuid.UUID]*types.QuizQuestion{},
		enrollments:  map[uuid.UUID]*types.Enrollment{},
		views:        map[[2]uuid.UUID]*types.ModuleView{},
		certificates: map[uuid.UUID]*types.Certificate{},
		faults:       map[string][]error{},
		calls:        map[string]int{},
	}
}

func (s *MemStore) Contract() domainagg.Contract { return domainagg.CourseworkContract }

// Inject queues err to be returned by the next call of method.
func (s *MemStore) Inject(method string, errs ...error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.faults[method] = append(s.faults[method], errs...)
}

// Calls reports how many times method was invoked.
func (s *MemStore) Calls(method string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[method]
}

// enter must be called with mu held.
func (s *MemStore) enter(method string) error {
	s.calls[method]++
	q := s.faults[method]
	if len(q) == 0 {
		return nil
	}
	s.faults[method] = q[1:]
	return q[0]
}

// Seeding helpers.

func (s *MemStore) AddStudent(username string) *types.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &types.Student{ID: uuid.New(), Username: username, Email: username + "@example.com", FullName: username}
	s.students[st.ID] = st
	return st
}

// AddStudentWithID registers a student with a caller-chosen id.
func (s *MemStore) AddStudentWithID(id uuid.UUID, username string) *types.Student {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := &types.Student{ID: id, Username: username, Email: username + "@example.com", FullName: username}
	s.students[st.ID] = st
	return st
}

func (s *MemStore) AddCourse(title string) *types.Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := &types.Course{ID: uuid.New(), Title: title, Instructor: "Instructor", DurationHours: 1}
	s.courses[c.ID] = c
	return c
}

func (s *MemStore) AddModule(courseID uuid.UUID, orderNum int) *types.CourseModule {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := &types.CourseModule{ID: uuid.New(), CourseID: courseID, OrderNum: orderNum, Title: "Module"}
	s.modules[m.ID] = m
	return m
}

func (s *MemStore) AddQuestion(courseID uuid.UUID, correct string) *types.QuizQuestion {
	s.mu.Lock()
	defer s.mu.Unlock()
	q := &types.QuizQuestion{
		ID:            uuid.New(),
		CourseID:      courseID,
		QuestionText:  "Question",
		OptionA:       "a",
		OptionB:       "b",
		OptionC:       "c",
		OptionD:       "d",
		CorrectAnswer: correct,
	}
	s.questions[q.ID] = q
	return q
}

// PutEnrollment stores e as-is, replacing any row with the same id.
func (s *MemStore) PutEnrollment(e *types.Enrollment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *e
	s.enrollments[e.ID] = &cp
}

// PutAttempt appends a pre-built attempt.
func (s *MemStore) PutAttempt(a *types.QuizAttempt) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *a
	s.attempts = append(s.attempts, &cp)
}

// Certificates returns every stored certificate.
func (s *MemStore) Certificates() []*types.Certificate {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Certificate, 0, len(s.certificates))
	for _, c := range s.certificates {
		cp := *c
		out = append(out, &cp)
	}
	return out
}

// Enrollments returns every stored enrollment.
func (s *MemStore) Enrollments() []*types.Enrollment {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*types.Enrollment, 0, len(s.enrollments))
	for _, e := range s.enrollments {
		cp := *e
		out = append(out, &cp)
	}
	return out
}

// Reads.

func (s *MemStore) GetStudent(_ context.Context, id uuid.UUID) (*types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetStudent"); err != nil {
		return nil, err
	}
	if st, ok := s.students[id]; ok {
		cp := *st
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) GetCourse(_ context.Context, id uuid.UUID) (*types.Course, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetCourse"); err != nil {
		return nil, err
	}
	if c, ok := s.courses[id]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) GetModules(_ context.Context, courseID uuid.UUID) ([]*types.CourseModule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetModules"); err != nil {
		return nil, err
	}
	var out []*types.CourseModule
	for _, m := range s.modules {
		if m.CourseID == courseID {
			cp := *m
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].OrderNum < out[j].OrderNum })
	return out, nil
}

func (s *MemStore) GetModule(_ context.Context, id uuid.UUID) (*types.CourseModule, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetModule"); err != nil {
		return nil, err
	}
	if m, ok := s.modules[id]; ok {
		cp := *m
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) GetQuestions(_ context.Context, courseID uuid.UUID) ([]*types.QuizQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetQuestions"); err != nil {
		return nil, err
	}
	var out []*types.QuizQuestion
	for _, q := range s.questions {
		if q.CourseID == courseID {
			cp := *q
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID.String() < out[j].ID.String() })
	return out, nil
}

func (s *MemStore) GetQuestionsByIDs(_ context.Context, ids []uuid.UUID) ([]*types.QuizQuestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetQuestionsByIDs"); err != nil {
		return nil, err
	}
	var out []*types.QuizQuestion
	for _, id := range ids {
		if q, ok := s.questions[id]; ok {
			cp := *q
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *MemStore) findEnrollment(studentID, courseID uuid.UUID) *types.Enrollment {
	for _, e := range s.enrollments {
		if e.StudentID == studentID && e.CourseID == courseID {
			return e
		}
	}
	return nil
}

func (s *MemStore) GetEnrollment(_ context.Context, studentID, courseID uuid.UUID) (*types.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetEnrollment"); err != nil {
		return nil, err
	}
	if e := s.findEnrollment(studentID, courseID); e != nil {
		cp := *e
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) GetCertificate(_ context.Context, enrollmentID uuid.UUID) (*types.Certificate, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("GetCertificate"); err != nil {
		return nil, err
	}
	if c, ok := s.certificates[enrollmentID]; ok {
		cp := *c
		return &cp, nil
	}
	return nil, nil
}

func (s *MemStore) ListAttempts(_ context.Context, studentID, courseID uuid.UUID) ([]*types.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("ListAttempts"); err != nil {
		return nil, err
	}
	var out []*types.QuizAttempt
	for _, a := range s.attempts {
		if a.StudentID == studentID && a.CourseID == courseID {
			cp := *a
			out = append(out, &cp)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].TakenAt.Before(out[j].TakenAt) })
	return out, nil
}

func (s *MemStore) CountViewedModules(_ context.Context, studentID, courseID uuid.UUID) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("CountViewedModules"); err != nil {
		return 0, err
	}
	n := 0
	for _, v := range s.views {
		if v.StudentID != studentID {
			continue
		}
		if m, ok := s.modules[v.ModuleID]; ok && m.CourseID == courseID {
			n++
		}
	}
	return n, nil
}

func (s *MemStore) AllStudents(_ context.Context) ([]*types.Student, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("AllStudents"); err != nil {
		return nil, err
	}
	out := make([]*types.Student, 0, len(s.students))
	for _, st := range s.students {
		cp := *st
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemStore) AllEnrollments(_ context.Context) ([]*types.Enrollment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("AllEnrollments"); err != nil {
		return nil, err
	}
	out := make([]*types.Enrollment, 0, len(s.enrollments))
	for _, e := range s.enrollments {
		cp := *e
		out = append(out, &cp)
	}
	return out, nil
}

func (s *MemStore) AllAttempts(_ context.Context) ([]*types.QuizAttempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("AllAttempts"); err != nil {
		return nil, err
	}
	out := make([]*types.QuizAttempt, 0, len(s.attempts))
	for _, a := range s.attempts {
		cp := *a
		out = append(out, &cp)
	}
	return out, nil
}

// Writes.

func (s *MemStore) UpsertEnrollmentIfAbsent(_ context.Context, e *types.Enrollment) (*types.Enrollment, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpsertEnrollmentIfAbsent"); err != nil {
		return nil, false, err
	}
	if cur := s.findEnrollment(e.StudentID, e.CourseID); cur != nil {
		cp := *cur
		return &cp, false, nil
	}
	row := *e
	s.enrollments[row.ID] = &row
	cp := row
	return &cp, true, nil
}

func (s *MemStore) UpdateEnrollmentProgress(_ context.Context, upd domainagg.ProgressUpdate) (domainagg.ProgressResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("UpdateEnrollmentProgress"); err != nil {
		return domainagg.ProgressResult{}, err
	}
	cur, ok := s.enrollments[upd.EnrollmentID]
	if !ok {
		return domainagg.ProgressResult{}, domainagg.NewError(domainagg.CodeNotFound, "MemStore.UpdateEnrollmentProgress", "enrollment not found", nil)
	}
	if upd.Progress > cur.ProgressPercentage {
		cur.ProgressPercentage = upd.Progress
		cur.UpdatedAt = upd.At
	}
	completed := false
	if upd.CompletedAt != nil && cur.CompletedAt == nil {
		at := *upd.CompletedAt
		cur.CompletedAt = &at
		cur.UpdatedAt = upd.At
		completed = true
	}
	cp := *cur
	return domainagg.ProgressResult{Enrollment: &cp, Completed: completed}, nil
}

func (s *MemStore) InsertQuizAttempt(_ context.Context, a *types.QuizAttempt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertQuizAttempt"); err != nil {
		return err
	}
	cp := *a
	s.attempts = append(s.attempts, &cp)
	return nil
}

func (s *MemStore) InsertCertificateIfAbsent(_ context.Context, c *types.Certificate) (*types.Certificate, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertCertificateIfAbsent"); err != nil {
		return nil, false, err
	}
	enr, ok := s.enrollments[c.EnrollmentID]
	if !ok {
		return nil, false, domainagg.NewError(domainagg.CodeNotFound, "MemStore.InsertCertificateIfAbsent", "enrollment not found", nil)
	}
	if enr.CompletedAt == nil {
		return nil, false, domainagg.NewError(domainagg.CodeNotCompleted, "MemStore.InsertCertificateIfAbsent", "enrollment is not completed", nil)
	}
	if cur, ok := s.certificates[c.EnrollmentID]; ok {
		cp := *cur
		return &cp, false, nil
	}
	row := *c
	row.StudentID, row.CourseID = enr.StudentID, enr.CourseID
	if row.IssuedAt.IsZero() {
		row.IssuedAt = time.Now().UTC()
	}
	s.certificates[row.EnrollmentID] = &row
	cp := row
	return &cp, true, nil
}

func (s *MemStore) InsertModuleViewIfAbsent(_ context.Context, v *types.ModuleView) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enter("InsertModuleViewIfAbsent"); err != nil {
		return false, err
	}
	key := [2]uuid.UUID{v.StudentID, v.ModuleID}
	if _, ok := s.views[key]; ok {
		return false, nil
	}
	cp := *v
	s.views[key] = &cp
	return true, nil
}
