package stock

import (
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction is the sign of a ledger adjustment
type Direction string

const (
	DirectionIncrement Direction = "INCREMENT"
	DirectionDecrement Direction = "DECREMENT"
)

// IsValid returns true if the direction is valid
func (d Direction) IsValid() bool {
	return d == DirectionIncrement || d == DirectionDecrement
}

// Opposite returns the direction that undoes d
func (d Direction) Opposite() Direction {
	if d == DirectionIncrement {
		return DirectionDecrement
	}
	return DirectionIncrement
}

// String returns the string representation of Direction
func (d Direction) String() string {
	return string(d)
}

// ReferenceType names the kind of record that caused a movement
type ReferenceType string

const (
	ReferenceHarvest          ReferenceType = "HARVEST"
	ReferenceSale             ReferenceType = "SALE"
	ReferenceSuppliesPurchase ReferenceType = "SUPPLIES_PURCHASE"
	ReferenceManual           ReferenceType = "MANUAL"
)

// ResourceKind is the kind of resource lines of this reference type move,
// empty when any kind is allowed
func (t ReferenceType) ResourceKind() ResourceKind {
	switch t {
	case ReferenceHarvest, ReferenceSale:
		return ResourceKindCrop
	case ReferenceSuppliesPurchase:
		return ResourceKindSupply
	}
	return ""
}

// Reference points at the detail line that caused a movement
type Reference struct {
	Type        ReferenceType
	AggregateID uuid.UUID
	LineID      uuid.UUID
}

// StockMovement is an immutable record of one ledger adjustment.
// Movements are never updated; a reversal is recorded as a new movement.
type StockMovement struct {
	shared.BaseEntity
	ResourceID     uuid.UUID
	Direction      Direction
	Amount         decimal.Decimal         // canonical, always positive
	RecordedAmount decimal.Decimal         // as supplied by the caller
	RecordedUnit   valueobject.MeasureUnit // as supplied by the caller
	BalanceBefore  decimal.Decimal
	BalanceAfter   decimal.Decimal
	Reference      Reference
}

// NewStockMovement records an adjustment that has already been applied to resource
func NewStockMovement(resource *StockResource, req AdjustRequest, canonical, before decimal.Decimal) *StockMovement {
	return &StockMovement{
		BaseEntity:     shared.NewBaseEntity(),
		ResourceID:     resource.ID,
		Direction:      req.Direction,
		Amount:         canonical,
		RecordedAmount: req.Quantity,
		RecordedUnit:   req.Unit,
		BalanceBefore:  before,
		BalanceAfter:   resource.Quantity,
		Reference:      req.Reference,
	}
}
