package coursework

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	domainagg "github.com/yungbote/neurobridge-progress/internal/domain/aggregates"
	"github.com/yungbote/neurobridge-progress/internal/observability"
	"github.com/yungbote/neurobridge-progress/internal/platform/clock"
	"github.com/yungbote/neurobridge-progress/internal/platform/ctxutil"
	"github.com/yungbote/neurobridge-progress/internal/platform/logger"
)

type Store = domainagg.CourseworkStore

type Deps struct {
	Store     Store
	Clock     clock.Clock
	Policy    Policy
	Log       *logger.Logger
	Publisher Publisher
	Metrics   *observability.Metrics
}

// Engine bundles the coursework components around one store and clock.
type Engine struct {
	Enrollments  *EnrollmentManager
	Progress     *ProgressTracker
	Quiz         *QuizEngine
	Certificates *CertificateIssuer
	Leaderboard  *LeaderboardRanker

	policy Policy
}

type core struct {
	store     Store
	clock     clock.Clock
	policy    Policy
	log       *logger.Logger
	publisher Publisher
	metrics   *observability.Metrics
	tracer    trace.Tracer
}

func New(deps Deps) (*Engine, error) {
	if deps.Store == nil {
		return nil, fmt.Errorf("coursework: missing store")
	}
	if err := deps.Store.Contract().Satisfies(domainagg.CourseworkContract); err != nil {
		return nil, fmt.Errorf("coursework: %w", err)
	}
	if deps.Clock == nil {
		deps.Clock = clock.System()
	}
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	if deps.Policy == (Policy{}) {
		deps.Policy = DefaultPolicy()
	}
	if err := deps.Policy.Validate(); err != nil {
		return nil, fmt.Errorf("coursework: %w", err)
	}
	c := &core{
		store:     deps.Store,
		clock:     deps.Clock,
		policy:    deps.Policy,
		log:       deps.Log.With("module", "coursework"),
		publisher: deps.Publisher,
		metrics:   deps.Metrics,
		tracer:    otel.Tracer("github.com/yungbote/neurobridge-progress/internal/modules/coursework"),
	}
	certs := &CertificateIssuer{core: c}
	progress := &ProgressTracker{core: c, certificates: certs}
	return &Engine{
		Enrollments:  &EnrollmentManager{core: c},
		Progress:     progress,
		Quiz:         &QuizEngine{core: c, progress: progress},
		Certificates: certs,
		Leaderboard:  &LeaderboardRanker{core: c},
		policy:       deps.Policy,
	}, nil
}

func (e *Engine) Policy() Policy { return e.policy }

func (c *core) startSpan(ctx context.Context, op string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return c.tracer.Start(ctx, op, trace.WithAttributes(attrs...))
}

func endSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, string(domainagg.CodeOf(err)))
	}
	span.End()
}

// withConflictRetry runs fn again while it fails with a conflict, up to the
// policy's retry limit. Exhausting it surfaces a storage error.
func (c *core) withConflictRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= c.policy.ConflictRetries; attempt++ {
		if err = fn(); err == nil || !isConflict(err) {
			return err
		}
		c.log.Debug("coursework write conflicted, retrying", "op", op, "attempt", attempt)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return storageError(op, ctxErr)
		}
	}
	return domainagg.NewError(domainagg.CodeStorage, op, "conflict retries exhausted", err)
}

// emit hands a committed event to the publisher. Publisher failures are logged.
func (c *core) emit(ctx context.Context, evt Event) {
	c.metrics.IncCourseworkEvent(string(evt.Type))
	if evt.At.IsZero() {
		evt.At = c.clock.Now()
	}
	if c.publisher == nil {
		return
	}
	if err := c.publisher.Publish(context.WithoutCancel(ctx), evt); err != nil {
		fields := append([]interface{}{"type", evt.Type, "error", err}, ctxutil.LogFields(ctx)...)
		c.log.Warn("coursework event publish failed", fields...)
	}
}
