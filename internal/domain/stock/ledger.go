package stock

import (
	"context"
	"fmt"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/service"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// AdjustRequest describes one guarded change to a stock resource.
// Quantity is expressed in Unit, which must belong to the resource's family.
// Kind, when set, must match the resource's kind.
type AdjustRequest struct {
	ResourceID uuid.UUID
	Kind       ResourceKind
	Quantity   decimal.Decimal
	Unit       valueobject.MeasureUnit
	Direction  Direction
	Reference  Reference
}

// Validate checks the request before any repository access
func (r AdjustRequest) Validate() error {
	if r.ResourceID == uuid.Nil {
		return shared.NewDomainError(shared.CodeInvalidInput, "Stock resource ID cannot be empty")
	}
	if !r.Direction.IsValid() {
		return shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Invalid adjustment direction %q", r.Direction))
	}
	if r.Quantity.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Adjustment quantity cannot be negative")
	}
	return nil
}

// AdjustmentRecorder observes ledger adjustments, successful or not
type AdjustmentRecorder interface {
	RecordAdjustment(ctx context.Context, kind ResourceKind, direction Direction, canonical decimal.Decimal, err error)
}

// Ledger applies guarded increments and decrements to stock resources.
//
// A Ledger is bound to the repositories it was built with. Build it from
// transaction-scoped repositories so the resource read, the resource write
// and the movement row all belong to the caller's transaction.
type Ledger struct {
	resources ResourceRepository
	movements MovementRepository
	converter *service.UnitConverter
	recorder  AdjustmentRecorder
}

// LedgerOption configures a Ledger
type LedgerOption func(*Ledger)

// WithRecorder attaches an adjustment recorder
func WithRecorder(recorder AdjustmentRecorder) LedgerOption {
	return func(l *Ledger) {
		l.recorder = recorder
	}
}

// NewLedger creates a ledger over the given repositories
func NewLedger(resources ResourceRepository, movements MovementRepository, opts ...LedgerOption) *Ledger {
	l := &Ledger{
		resources: resources,
		movements: movements,
		converter: service.NewUnitConverter(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Adjust applies req and returns the resource's new canonical quantity.
//
// The resource row is read with a row lock, so concurrent adjustments of the
// same resource are serialized by the store. A decrement that exceeds the
// available quantity fails with InsufficientStockError and writes nothing.
// Adjusting a soft-deleted resource fails with ResourceRemovedError.
func (l *Ledger) Adjust(ctx context.Context, req AdjustRequest) (decimal.Decimal, error) {
	if err := req.Validate(); err != nil {
		return decimal.Zero, err
	}

	resource, err := l.resources.FindByIDForUpdate(ctx, req.ResourceID)
	if err != nil {
		return decimal.Zero, err
	}
	if req.Kind != "" && resource.Kind != req.Kind {
		return decimal.Zero, shared.NotFoundError(req.Kind.Label(), req.ResourceID)
	}
	if resource.IsDeleted() {
		return decimal.Zero, &ResourceRemovedError{ResourceID: resource.ID}
	}

	canonical, err := l.converter.ToCanonicalIn(resource.Family, req.Unit, req.Quantity)
	if err != nil {
		l.record(ctx, resource.Kind, req.Direction, canonical, err)
		return decimal.Zero, err
	}
	if canonical.IsZero() {
		return resource.Quantity, nil
	}

	before := resource.Quantity
	if req.Direction == DirectionIncrement {
		err = resource.Increase(canonical)
	} else {
		err = resource.Decrease(canonical)
	}
	if err != nil {
		l.record(ctx, resource.Kind, req.Direction, canonical, err)
		return decimal.Zero, err
	}

	if err := l.resources.Save(ctx, resource); err != nil {
		return decimal.Zero, fmt.Errorf("failed to save stock resource %s: %w", resource.ID, err)
	}
	if err := l.movements.Append(ctx, NewStockMovement(resource, req, canonical, before)); err != nil {
		return decimal.Zero, fmt.Errorf("failed to record stock movement: %w", err)
	}

	l.record(ctx, resource.Kind, req.Direction, canonical, nil)
	return resource.Quantity, nil
}

// Resource loads a live resource through the ledger's repositories
func (l *Ledger) Resource(ctx context.Context, id uuid.UUID) (*StockResource, error) {
	return l.resources.FindByID(ctx, id)
}

func (l *Ledger) record(ctx context.Context, kind ResourceKind, direction Direction, canonical decimal.Decimal, err error) {
	if l.recorder != nil {
		l.recorder.RecordAdjustment(ctx, kind, direction, canonical, err)
	}
}
