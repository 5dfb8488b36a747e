package bulk

import (
	"context"

	"github.com/farmerp/backend/internal/domain/bulk"
	"github.com/farmerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// OutcomeRecorder records the result of one bulk removal
type OutcomeRecorder interface {
	RecordBulkOutcome(ctx context.Context, aggregateType string, outcome *bulk.Outcome)
}

// Remover runs batch removals for one aggregate type.
// Each id is removed through its own call to removeOne, so every item
// commits or rolls back on its own.
type Remover struct {
	aggregateType string
	recorder      OutcomeRecorder
	logger        *zap.Logger
}

// NewRemover creates a Remover for aggregateType
func NewRemover(aggregateType string) *Remover {
	return &Remover{
		aggregateType: aggregateType,
		logger:        zap.NewNop(),
	}
}

// SetRecorder sets the outcome recorder
func (r *Remover) SetRecorder(recorder OutcomeRecorder) {
	r.recorder = recorder
}

// SetLogger sets the logger
func (r *Remover) SetLogger(logger *zap.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// RemoveAll removes every id with removeOne and reports the outcome.
// It never fails; item errors end up in the outcome.
func (r *Remover) RemoveAll(ctx context.Context, ids []uuid.UUID, removeOne bulk.RemoveFunc) *bulk.Outcome {
	ctx, span := telemetry.StartServiceSpan(ctx, "bulk", "remove_all")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAggregateType, r.aggregateType,
		telemetry.SpanAttrBatchSize, len(ids),
	)

	outcome := bulk.RemoveAll(ctx, ids, removeOne)
	status := outcome.Status()

	for _, f := range outcome.Failed {
		r.logger.Warn("bulk removal item failed",
			zap.String("aggregate_type", r.aggregateType),
			zap.String("id", f.ID.String()),
			zap.String("error", f.Error),
		)
	}
	r.logger.Info("bulk removal finished",
		zap.String("aggregate_type", r.aggregateType),
		zap.String("status", string(status)),
		zap.Int("succeeded", len(outcome.Success)),
		zap.Int("failed", len(outcome.Failed)),
	)
	telemetry.AddEvent(span, "bulk.outcome", "status", string(status))

	if r.recorder != nil {
		r.recorder.RecordBulkOutcome(ctx, r.aggregateType, outcome)
	}
	return outcome
}
