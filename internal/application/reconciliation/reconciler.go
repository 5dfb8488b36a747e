package reconciliation

import (
	"context"
	"errors"

	"github.com/farmerp/backend/internal/domain/reconciliation"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/farmerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Flow is the direction in which an aggregate's lines move stock
type Flow string

const (
	// FlowInbound lines add stock (harvests, supplies purchases)
	FlowInbound Flow = "INBOUND"
	// FlowOutbound lines remove stock (sales)
	FlowOutbound Flow = "OUTBOUND"
)

func (f Flow) applyDirection() stock.Direction {
	if f == FlowOutbound {
		return stock.DirectionDecrement
	}
	return stock.DirectionIncrement
}

// Reconciler keeps the stock ledger consistent with an aggregate's detail lines.
//
// Every Apply method must run inside the caller's TransactionScope, with a
// ledger built from the same transaction, so that a failure rolls back the
// ledger writes together with the line writes. The reconciler itself never
// writes aggregates or lines.
type Reconciler struct {
	flow     Flow
	refType  stock.ReferenceType
	recorder stock.AdjustmentRecorder
	logger   *zap.Logger
}

// NewReconciler creates a reconciler for one aggregate type
func NewReconciler(flow Flow, refType stock.ReferenceType) *Reconciler {
	return &Reconciler{
		flow:    flow,
		refType: refType,
		logger:  zap.NewNop(),
	}
}

// SetRecorder sets the recorder attached to every ledger built by Ledger
func (r *Reconciler) SetRecorder(recorder stock.AdjustmentRecorder) {
	r.recorder = recorder
}

// SetLogger sets the logger
func (r *Reconciler) SetLogger(logger *zap.Logger) {
	if logger != nil {
		r.logger = logger
	}
}

// Ledger builds a ledger bound to the transaction of repos
func (r *Reconciler) Ledger(repos TransactionalRepositories) *stock.Ledger {
	var opts []stock.LedgerOption
	if r.recorder != nil {
		opts = append(opts, stock.WithRecorder(r.recorder))
	}
	return stock.NewLedger(repos.ResourceRepo(), repos.MovementRepo(), opts...)
}

// ApplyCreate applies every line of a new aggregate to the ledger
func (r *Reconciler) ApplyCreate(ctx context.Context, ledger *stock.Ledger, aggregateID uuid.UUID, lines []reconciliation.LedgerLine) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "apply_create")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAggregateID, aggregateID.String(),
		telemetry.SpanAttrFlow, string(r.flow),
		telemetry.SpanAttrLineCount, len(lines),
	)

	for _, line := range lines {
		if err := r.apply(ctx, ledger, aggregateID, line); err != nil {
			telemetry.RecordError(span, err)
			return err
		}
	}
	return nil
}

// ApplyUpdate reconciles the ledger with an edit that replaces oldLines by newLines.
//
// Every locked line in the plan is checked before the first ledger write, so
// a conflict never leaves adjustments behind even without a rollback.
// Adjustments then run toDelete, toUpdate, toCreate. An updated line whose
// stock fields changed is reversed and re-applied as two adjustments, the
// stock-increasing one first, so that moving quantity between units of the
// same resource does not fail for lack of stock.
func (r *Reconciler) ApplyUpdate(ctx context.Context, ledger *stock.Ledger, aggregateID uuid.UUID, oldLines, newLines []reconciliation.LedgerLine) (reconciliation.Plan, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "apply_update")
	defer span.End()

	plan, err := reconciliation.Diff(reconciliation.LineIDs(newLines), reconciliation.LineIDs(oldLines))
	if err != nil {
		telemetry.RecordError(span, err)
		return plan, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAggregateID, aggregateID.String(),
		telemetry.SpanAttrFlow, string(r.flow),
		telemetry.SpanAttrToCreate, len(plan.ToCreate),
		telemetry.SpanAttrToUpdate, len(plan.ToUpdate),
		telemetry.SpanAttrToDelete, len(plan.ToDelete),
	)

	before := reconciliation.IndexLines(oldLines)
	after := reconciliation.IndexLines(newLines)

	if err := checkLocks(plan, before, after); err != nil {
		telemetry.RecordError(span, err)
		return plan, err
	}

	for _, id := range plan.ToDelete {
		if err := r.reverse(ctx, ledger, aggregateID, before[id]); err != nil {
			telemetry.RecordError(span, err)
			return plan, err
		}
	}

	for _, id := range plan.ToUpdate {
		prev, next := before[id], after[id]
		if !prev.StockChanged(next) {
			continue
		}
		if err := r.replace(ctx, ledger, aggregateID, prev, next); err != nil {
			telemetry.RecordError(span, err)
			return plan, err
		}
	}

	for _, id := range plan.ToCreate {
		if err := r.apply(ctx, ledger, aggregateID, after[id]); err != nil {
			telemetry.RecordError(span, err)
			return plan, err
		}
	}

	return plan, nil
}

// ApplyDelete reverses every line of an aggregate that is being removed.
// Lines whose resource has itself been removed have no ledger effect.
func (r *Reconciler) ApplyDelete(ctx context.Context, ledger *stock.Ledger, aggregateID uuid.UUID, lines []reconciliation.LedgerLine) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "reconciliation", "apply_delete")
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrAggregateID, aggregateID.String(),
		telemetry.SpanAttrFlow, string(r.flow),
		telemetry.SpanAttrLineCount, len(lines),
	)

	for _, line := range lines {
		if line.Locked {
			err := &reconciliation.LinkedRecordConflictError{LineID: line.ID}
			telemetry.RecordError(span, err)
			return err
		}
	}
	for _, line := range lines {
		if err := r.reverse(ctx, ledger, aggregateID, line); err != nil {
			telemetry.RecordError(span, err)
			return err
		}
	}
	return nil
}

func checkLocks(plan reconciliation.Plan, before, after map[uuid.UUID]reconciliation.LedgerLine) error {
	for _, id := range plan.ToDelete {
		if before[id].Locked {
			return &reconciliation.LinkedRecordConflictError{LineID: id}
		}
	}
	for _, id := range plan.ToUpdate {
		prev := before[id]
		if prev.Locked && prev.Mutated(after[id]) {
			return &reconciliation.LinkedRecordConflictError{LineID: id}
		}
	}
	return nil
}

// replace moves a changed line from prev to next. The stock-increasing side
// runs first, so only the final balance has to be non-negative.
func (r *Reconciler) replace(ctx context.Context, ledger *stock.Ledger, aggregateID uuid.UUID, prev, next reconciliation.LedgerLine) error {
	if r.flow == FlowInbound {
		if err := r.apply(ctx, ledger, aggregateID, next); err != nil {
			return err
		}
		return r.reverse(ctx, ledger, aggregateID, prev)
	}
	if err := r.reverse(ctx, ledger, aggregateID, prev); err != nil {
		return err
	}
	return r.apply(ctx, ledger, aggregateID, next)
}

func (r *Reconciler) apply(ctx context.Context, ledger *stock.Ledger, aggregateID uuid.UUID, line reconciliation.LedgerLine) error {
	_, err := ledger.Adjust(ctx, r.request(aggregateID, line, r.flow.applyDirection()))
	return err
}

func (r *Reconciler) reverse(ctx context.Context, ledger *stock.Ledger, aggregateID uuid.UUID, line reconciliation.LedgerLine) error {
	_, err := ledger.Adjust(ctx, r.request(aggregateID, line, r.flow.applyDirection().Opposite()))
	var removed *stock.ResourceRemovedError
	if errors.As(err, &removed) {
		r.logger.Debug("skipping reversal against removed stock resource",
			zap.String("resource_id", removed.ResourceID.String()),
			zap.String("line_id", line.ID.String()),
		)
		return nil
	}
	return err
}

func (r *Reconciler) request(aggregateID uuid.UUID, line reconciliation.LedgerLine, direction stock.Direction) stock.AdjustRequest {
	return stock.AdjustRequest{
		ResourceID: line.ResourceID,
		Kind:       r.refType.ResourceKind(),
		Quantity:   line.Quantity,
		Unit:       line.Unit,
		Direction:  direction,
		Reference: stock.Reference{
			Type:        r.refType,
			AggregateID: aggregateID,
			LineID:      line.ID,
		},
	}
}
