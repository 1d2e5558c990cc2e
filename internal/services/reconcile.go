package services

import (
	"context"
	"time"

	"github.com/google/uuid"

	types "github.com/yungbote/neurobridge-progress/internal/domain"
	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type EnrollmentLister interface {
	AllEnrollments(ctx context.Context) ([]*types.Enrollment, error)
}

type ProgressRecomputer interface {
	Recompute(ctx context.Context, studentID, courseID uuid.UUID) (*types.Enrollment, error)
}

type ReconcileReport struct {
	Scanned   int           `json:"scanned"`
	Completed int           `json:"completed"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// ReconcileService re-runs Recompute over every enrollment so that stragglers
// are completed and missing certificates are issued.
type ReconcileService interface {
	Run(ctx context.Context) (ReconcileReport, error)
}

type reconcileService struct {
	log      *logger.Logger
	lister   EnrollmentLister
	progress ProgressRecomputer
}

func NewReconcileService(baseLog *logger.Logger, lister EnrollmentLister, progress ProgressRecomputer) ReconcileService {
	return &reconcileService{
		log:      baseLog.With("service", "ReconcileService"),
		lister:   lister,
		progress: progress,
	}
}

func (s *reconcileService) Run(ctx context.Context) (ReconcileReport, error) {
	started := time.Now()
	var rep ReconcileReport

	rows, err := s.lister.AllEnrollments(ctx)
	if err != nil {
		return rep, storageFailure("Reconcile.Run", err)
	}
	for _, row := range rows {
		if err := ctx.Err(); err != nil {
			rep.Duration = time.Since(started)
			return rep, err
		}
		rep.Scanned++
		enr, err := s.progress.Recompute(ctx, row.StudentID, row.CourseID)
		if err != nil {
			rep.Failed++
			s.log.Warn("reconcile recompute failed",
				"enrollment_id", row.ID,
				"code", domainagg.CodeOf(err),
				"error", err,
			)
			continue
		}
		if enr.IsCompleted() {
			rep.Completed++
		}
	}
	rep.Duration = time.Since(started)
	s.log.Info("reconcile finished",
		"scanned", rep.Scanned,
		"completed", rep.Completed,
		"failed", rep.Failed,
		"duration", rep.Duration.String(),
	)
	return rep, nil
}
