package coursework

import (
	"context"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
)

type ProgressTracker struct {
	*core
	certificates *CertificateIssuer
}

// ProgressInputs are the facts a progress value is derived from.
type ProgressInputs struct {
	ViewedModules  int
	TotalModules   int
	TotalQuestions int
	QuizScore      float64
	HasAttempt     bool
}

// ComputeProgress blends module coverage and quiz score by the policy weights.
// A course without modules (or without questions) drops that component and
// renormalizes the remaining weight. The result is rounded to 2 decimals and
// clamped to [0,100].
func ComputeProgress(p Policy, in ProgressInputs) float64 {
	wm, wq := p.ModuleWeight, p.QuizWeight
	if in.TotalModules <= 0 {
		wm = 0
	}
	if in.TotalQuestions <= 0 {
		wq = 0
	}
	sum := wm + wq
	if sum <= 0 {
		return 0
	}
	moduleRatio := 0.0
	if in.TotalModules > 0 {
		viewed := in.ViewedModules
		if viewed > in.TotalModules {
			viewed = in.TotalModules
		}
		if viewed < 0 {
			viewed = 0
		}
		moduleRatio = float64(viewed) / float64(in.TotalModules)
	}
	quizRatio := 0.0
	if in.HasAttempt {
		quizRatio = clampPercent(in.QuizScore) / 100
	}
	return clampPercent(round2(100 * (wm*moduleRatio + wq*quizRatio) / sum))
}

// SelectAttemptScore returns the score that drives the quiz component.
// "best" takes the maximum; "latest" takes the greatest taken_at, and among
// equal timestamps the attempt listed last.
func SelectAttemptScore(policy AttemptPolicy, attempts []*types.QuizAttempt) (float64, bool) {
	var (
		pick  *types.QuizAttempt
		found bool
	)
	for _, a := range attempts {
		if a == nil {
			continue
		}
		if !found {
			pick, found = a, true
			continue
		}
		switch policy {
		case AttemptLatest:
			if !a.TakenAt.Before(pick.TakenAt) {
				pick = a
			}
		default:
			if a.Score > pick.Score {
				pick = a
			}
		}
	}
	if !found {
		return 0, false
	}
	return pick.Score, true
}

// Recompute derives the enrollment's progress from its module views and quiz
// attempts. Stored progress never decreases. Reaching 100 sets completed_at
// once and issues the certificate; an already-completed enrollment without a
// certificate gets one here too.
func (t *ProgressTracker) Recompute(ctx context.Context, studentID, courseID uuid.UUID) (enr *types.Enrollment, err error) {
	const op = "coursework.Recompute"
	ctx, span := t.startSpan(ctx, op,
		attribute.String("student_id", studentID.String()),
		attribute.String("course_id", courseID.String()),
	)
	defer func() { endSpan(span, err) }()

	if studentID == uuid.Nil || courseID == uuid.Nil {
		return nil, validationError(op, "student_id and course_id are required")
	}
	enr, err = t.store.GetEnrollment(ctx, studentID, courseID)
	if err != nil {
		return nil, storageError(op, err)
	}
	if enr == nil {
		return nil, notFound(op, "enrollment")
	}
	in, err := t.inputs(ctx, studentID, courseID)
	if err != nil {
		return nil, storageError(op, err)
	}
	computed := ComputeProgress(t.policy, in)
	progress := enr.ProgressPercentage
	if computed > progress {
		progress = computed
	}

	if progress > enr.ProgressPercentage || (progress >= CompletionProgress && enr.CompletedAt == nil) {
		now := t.clock.Now()
		upd := domainagg.ProgressUpdate{EnrollmentID: enr.ID, Progress: progress, At: now}
		if progress >= CompletionProgress {
			upd.CompletedAt = &now
		}
		var res domainagg.ProgressResult
		err = t.withConflictRetry(ctx, op, func() error {
			var werr error
			res, werr = t.store.UpdateEnrollmentProgress(ctx, upd)
			return werr
		})
		if err != nil {
			return nil, storageError(op, err)
		}
		if res.Enrollment != nil {
			enr = res.Enrollment
		}
		t.log.Debug("progress recomputed", "enrollment_id", enr.ID, "computed", computed, "progress", enr.ProgressPercentage)
		if res.Completed {
			t.log.Info("enrollment completed", "enrollment_id", enr.ID, "student_id", studentID, "course_id", courseID)
			t.emit(ctx, Event{
				Type:         EventEnrollmentCompleted,
				StudentID:    studentID,
				CourseID:     courseID,
				EnrollmentID: ptrUUID(enr.ID),
				Progress:     ptrFloat(enr.ProgressPercentage),
				At:           now,
			})
		}
	}

	if enr.IsCompleted() {
		if _, err = t.certificates.IssueIfAbsent(ctx, enr); err != nil {
			return enr, err
		}
	}
	return enr, nil
}

func (t *ProgressTracker) inputs(ctx context.Context, studentID, courseID uuid.UUID) (ProgressInputs, error) {
	modules, err := t.store.GetModules(ctx, courseID)
	if err != nil {
		return ProgressInputs{}, err
	}
	questions, err := t.store.GetQuestions(ctx, courseID)
	if err != nil {
		return ProgressInputs{}, err
	}
	viewed := 0
	if len(modules) > 0 {
		if viewed, err = t.store.CountViewedModules(ctx, studentID, courseID); err != nil {
			return ProgressInputs{}, err
		}
	}
	attempts, err := t.store.ListAttempts(ctx, studentID, courseID)
	if err != nil {
		return ProgressInputs{}, err
	}
	score, ok := SelectAttemptScore(t.policy.AttemptPolicy, attempts)
	return ProgressInputs{
		ViewedModules:  viewed,
		TotalModules:   len(modules),
		TotalQuestions: len(questions),
		QuizScore:      score,
		HasAttempt:     ok,
	}, nil
}

// MarkModuleViewed records the first view of a module by an enrolled student
// and recomputes that enrollment.
func (t *ProgressTracker) MarkModuleViewed(ctx context.Context, studentID, moduleID uuid.UUID) (enr *types.Enrollment, err error) {
	const op = "coursework.MarkModuleViewed"
	ctx, span := t.startSpan(ctx, op,
		attribute.String("student_id", studentID.String()),
		attribute.String("module_id", moduleID.String()),
	)
	defer func() { endSpan(span, err) }()

	if studentID == uuid.Nil || moduleID == uuid.Nil {
		return nil, validationError(op, "student_id and module_id are required")
	}
	module, err := t.store.GetModule(ctx, moduleID)
	if err != nil {
		return nil, storageError(op, err)
	}
	if module == nil {
		return nil, notFound(op, "module")
	}
	cur, err := t.store.GetEnrollment(ctx, studentID, module.CourseID)
	if err != nil {
		return nil, storageError(op, err)
	}
	if cur == nil {
		return nil, notFound(op, "enrollment")
	}

	now := t.clock.Now()
	created, err := t.store.InsertModuleViewIfAbsent(ctx, &types.ModuleView{
		ID:        uuid.New(),
		StudentID: studentID,
		ModuleID:  moduleID,
		CourseID:  module.CourseID,
		ViewedAt:  now,
	})
	if err != nil && !isConflict(err) {
		return nil, storageError(op, err)
	}
	if created {
		t.emit(ctx, Event{
			Type:         EventModuleViewed,
			StudentID:    studentID,
			CourseID:     module.CourseID,
			EnrollmentID: ptrUUID(cur.ID),
			ModuleID:     ptrUUID(moduleID),
			At:           now,
		})
	}
	return t.Recompute(ctx, studentID, module.CourseID)
}
