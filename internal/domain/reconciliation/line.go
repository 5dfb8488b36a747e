package reconciliation

import (
	"fmt"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LedgerLine is the view of a detail line the reconciler works on.
// Harvest, sale and purchase details all project themselves onto it.
type LedgerLine struct {
	ID         uuid.UUID
	ResourceID uuid.UUID
	Quantity   decimal.Decimal
	Unit       valueobject.MeasureUnit
	Value      decimal.Decimal
	Locked     bool
}

// StockChanged reports whether moving from l to next needs ledger work
func (l LedgerLine) StockChanged(next LedgerLine) bool {
	return l.ResourceID != next.ResourceID ||
		l.Unit != next.Unit ||
		!l.Quantity.Equal(next.Quantity)
}

// Mutated reports whether next changes any field a locked line must keep
func (l LedgerLine) Mutated(next LedgerLine) bool {
	return l.StockChanged(next) || !l.Value.Equal(next.Value)
}

// LineIDs returns the identifiers of lines in order
func LineIDs(lines []LedgerLine) []uuid.UUID {
	ids := make([]uuid.UUID, len(lines))
	for i, l := range lines {
		ids[i] = l.ID
	}
	return ids
}

// IndexLines maps lines by identifier
func IndexLines(lines []LedgerLine) map[uuid.UUID]LedgerLine {
	index := make(map[uuid.UUID]LedgerLine, len(lines))
	for _, l := range lines {
		index[l.ID] = l
	}
	return index
}

// LinkedRecordConflictError is returned when a locked detail line would be
// deleted or have its quantity, unit, value or resource changed
type LinkedRecordConflictError struct {
	LineID uuid.UUID
}

// Error implements the error interface
func (e *LinkedRecordConflictError) Error() string {
	return fmt.Sprintf("detail line %s is linked to other records and cannot be changed or removed", e.LineID)
}

// Unwrap exposes the error as a DomainError
func (e *LinkedRecordConflictError) Unwrap() error {
	return shared.NewDomainError(shared.CodeLinkedRecordConflict, e.Error())
}
