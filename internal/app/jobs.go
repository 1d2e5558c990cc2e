package app

import (
	"context"

	"github.com/yungbote/neurobridge-progress/internal/jobs"
)

const reconcileJob = "reconcile"

func registerJobs(s *jobs.Scheduler, cfg Config, svc Services) error {
	return s.Register(reconcileJob, cfg.ReconcileCron, func(ctx context.Context) error {
		_, err := svc.Reconcile.Run(ctx)
		return err
	})
}
