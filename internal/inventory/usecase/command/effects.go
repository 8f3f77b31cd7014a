package command

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/tair/material-ledger/internal/inventory/domain"
	"github.com/tair/material-ledger/pkg/logger"
)

// Recorder observes the outcome of ledger commands
type Recorder interface {
	ObserveCommand(operation string, err error, lines int, elapsed time.Duration)
}

type noopRecorder struct{}

func (noopRecorder) ObserveCommand(string, error, int, time.Duration) {}

// Effects carries the work done after a ledger transaction commits
type Effects struct {
	publisher domain.EventPublisher
	cache     domain.AllocationReportCache
	recorder  Recorder
}

// NewEffects creates the post-commit side effects. Nil collaborators are replaced by no-ops.
func NewEffects(publisher domain.EventPublisher, cache domain.AllocationReportCache, recorder Recorder) *Effects {
	if publisher == nil {
		publisher = domain.NoopPublisher{}
	}
	if cache == nil {
		cache = domain.NoopCache{}
	}
	if recorder == nil {
		recorder = noopRecorder{}
	}
	return &Effects{publisher: publisher, cache: cache, recorder: recorder}
}

func (e *Effects) publish(ctx context.Context, event domain.MovementEvent) {
	event.EventID = uuid.New().String()
	event.Timestamp = time.Now().UTC()

	// The ledger write is already committed, a lost event is only logged.
	if err := e.publisher.PublishMovement(ctx, event); err != nil {
		logger.Error(ctx).Err(err).
			Str("event_type", event.EventType).
			Str("code", event.Code).
			Msg("Failed to publish movement event")
	}
}

func (e *Effects) invalidate(ctx context.Context, projectIDs ...uint) {
	e.cache.Invalidate(ctx, projectIDs...)
}

// finish records metrics and logs rejections of a command
func (e *Effects) finish(ctx context.Context, operation string, start time.Time, lines int, err error) {
	e.recorder.ObserveCommand(operation, err, lines, time.Since(start))
	if err == nil {
		return
	}

	if domain.KindOf(err) == domain.KindInternal {
		logger.Error(ctx).Err(err).Str("operation", operation).Msg("Ledger command failed")
		return
	}
	logger.Warn(ctx).Err(err).Str("operation", operation).Msg("Ledger command rejected")
}
