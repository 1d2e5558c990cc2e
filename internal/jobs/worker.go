package jobs

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

// Handler is one unit of scheduled work.
type Handler func(ctx context.Context) error

// Scheduler runs registered handlers on cron schedules. A run that is still going
// when its next tick fires is skipped.
type Scheduler struct {
	log  *logger.Logger
	cron *cron.Cron

	mu      sync.Mutex
	ctx     context.Context
	cancel  context.CancelFunc
	entries map[string]cron.EntryID
	timeout time.Duration
}

func NewScheduler(baseLog *logger.Logger, loc *time.Location, runTimeout time.Duration) *Scheduler {
	if loc == nil {
		loc = time.UTC
	}
	log := baseLog.With("component", "JobScheduler")
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		log: log,
		cron: cron.New(
			cron.WithLocation(loc),
			cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
		),
		ctx:     ctx,
		cancel:  cancel,
		entries: map[string]cron.EntryID{},
		timeout: runTimeout,
	}
}

// Register adds h under name. An empty schedule leaves the job disabled.
func (s *Scheduler) Register(name, schedule string, h Handler) error {
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		s.log.Info("job disabled (no schedule)", "job", name)
		return nil
	}
	if h == nil {
		return fmt.Errorf("job %q: nil handler", name)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, dup := s.entries[name]; dup {
		return fmt.Errorf("job %q already registered", name)
	}
	id, err := s.cron.AddFunc(schedule, func() { s.RunNow(name, h) })
	if err != nil {
		return fmt.Errorf("job %q: invalid schedule %q: %w", name, schedule, err)
	}
	s.entries[name] = id
	s.log.Info("job registered", "job", name, "schedule", schedule)
	return nil
}

// RunNow executes h synchronously with the scheduler's context. Panics are
// recovered and logged.
func (s *Scheduler) RunNow(name string, h Handler) (err error) {
	ctx := s.ctx
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}
	started := time.Now()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("job %q panicked: %v", name, r)
		}
		if err != nil {
			s.log.Error("job failed", "job", name, "duration", time.Since(started).String(), "error", err)
			return
		}
		s.log.Info("job finished", "job", name, "duration", time.Since(started).String())
	}()
	return h(ctx)
}

func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.entries))
	for name := range s.entries {
		out = append(out, name)
	}
	return out
}

func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop cancels running handlers and waits for them to return.
func (s *Scheduler) Stop() {
	s.cancel()
	<-s.cron.Stop().Done()
}
