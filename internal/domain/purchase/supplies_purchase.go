package purchase

import (
	"fmt"
	"time"

	"github.com/farmerp/backend/internal/domain/reconciliation"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	fieldTotal = "total"
	refSupply  = "supply_id"
)

// TotalsRules is the totals contract of a supplies purchase: detail totals
// add up to the purchase total and each supply is bought on one line only.
// Amounts are not summed, since one purchase mixes supplies measured in
// different families.
var TotalsRules = reconciliation.RuleSet{
	Sums:    []reconciliation.SumRule{{Total: fieldTotal, LineField: fieldTotal}},
	Uniques: []reconciliation.UniqueRule{{LineRef: refSupply}},
}

// Detail is one supply bought from one supplier
type Detail struct {
	shared.BaseEntity
	PurchaseID uuid.UUID
	SupplyID   uuid.UUID
	SupplierID uuid.UUID
	Amount     decimal.Decimal
	Unit       valueobject.MeasureUnit
	Total      decimal.Decimal
	PaymentID  *uuid.UUID
}

// IsLocked reports whether a payment references the detail
func (d *Detail) IsLocked() bool {
	return d.PaymentID != nil
}

// SuppliesPurchase records supplies entering the farm's inventory
type SuppliesPurchase struct {
	shared.BaseAggregateRoot
	Date    time.Time
	Total   decimal.Decimal
	Details []Detail
}

// DetailDraft is the requested state of one detail; a nil ID asks for a new one
type DetailDraft struct {
	ID         uuid.UUID
	SupplyID   uuid.UUID
	SupplierID uuid.UUID
	Amount     decimal.Decimal
	Unit       valueobject.MeasureUnit
	Total      decimal.Decimal
}

// Draft is the requested state of a supplies purchase
type Draft struct {
	Date    time.Time
	Total   decimal.Decimal
	Details []DetailDraft
}

// Validate checks field rules and the totals contract
func (d Draft) Validate() error {
	verr := shared.NewValidationError()
	if d.Date.IsZero() {
		verr.Add("date is required")
	}
	if d.Total.IsNegative() {
		verr.Add("total cannot be negative")
	}
	if len(d.Details) == 0 {
		verr.Add("details must contain at least one line")
	}

	ids := make(map[uuid.UUID]bool, len(d.Details))
	for i, det := range d.Details {
		if det.ID != uuid.Nil {
			if ids[det.ID] {
				verr.Add(fmt.Sprintf("details[%d].id %s is repeated", i, det.ID))
			}
			ids[det.ID] = true
		}
		if det.SupplyID == uuid.Nil {
			verr.Add(fmt.Sprintf("details[%d].supply_id is required", i))
		}
		if det.SupplierID == uuid.Nil {
			verr.Add(fmt.Sprintf("details[%d].supplier_id is required", i))
		}
		if !det.Amount.IsPositive() {
			verr.Add(fmt.Sprintf("details[%d].amount must be greater than 0", i))
		}
		if !det.Unit.IsValid() {
			verr.Add(fmt.Sprintf("details[%d]: unknown unit of measure %q", i, det.Unit))
		}
		if det.Total.IsNegative() {
			verr.Add(fmt.Sprintf("details[%d].total cannot be negative", i))
		}
	}
	verr.Merge(TotalsRules.Validate(d.Document()))
	return verr.OrNil()
}

// Document flattens the draft for the totals validator
func (d Draft) Document() reconciliation.Document {
	doc := reconciliation.Document{
		Totals: map[string]decimal.Decimal{fieldTotal: d.Total},
		Lines:  make([]reconciliation.DocumentLine, len(d.Details)),
	}
	for i, det := range d.Details {
		doc.Lines[i] = reconciliation.DocumentLine{
			Values: map[string]decimal.Decimal{fieldTotal: det.Total},
			Refs:   map[string]uuid.UUID{refSupply: det.SupplyID},
		}
	}
	return doc
}

// SupplierIDs returns the suppliers referenced by the draft
func (d Draft) SupplierIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(d.Details))
	for i, det := range d.Details {
		ids[i] = det.SupplierID
	}
	return ids
}

// DetailIDs returns the detail identifiers of the draft, nil for new lines
func (d Draft) DetailIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(d.Details))
	for i, det := range d.Details {
		ids[i] = det.ID
	}
	return ids
}

// New creates a supplies purchase from a validated draft
func New(d Draft) (*SuppliesPurchase, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := reconciliation.RequireOwnedIDs(d.DetailIDs(), nil); err != nil {
		return nil, err
	}
	p := &SuppliesPurchase{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	p.apply(d, nil)
	return p, nil
}

// Revise replaces the purchase's state with d, keeping identity and payment
// locks of details d refers to by ID
func (p *SuppliesPurchase) Revise(d Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	existing := make(map[uuid.UUID]Detail, len(p.Details))
	owned := make([]uuid.UUID, 0, len(p.Details))
	for _, det := range p.Details {
		existing[det.ID] = det
		owned = append(owned, det.ID)
	}
	if err := reconciliation.RequireOwnedIDs(d.DetailIDs(), owned); err != nil {
		return err
	}
	p.apply(d, existing)
	p.IncrementVersion()
	return nil
}

func (p *SuppliesPurchase) apply(d Draft, existing map[uuid.UUID]Detail) {
	p.Date = d.Date
	p.Total = d.Total

	details := make([]Detail, len(d.Details))
	for i, dd := range d.Details {
		det := Detail{BaseEntity: shared.NewBaseEntity()}
		if dd.ID != uuid.Nil {
			det.ID = dd.ID
		}
		if prev, ok := existing[dd.ID]; ok {
			det.CreatedAt = prev.CreatedAt
			det.PaymentID = prev.PaymentID
		}
		det.PurchaseID = p.ID
		det.SupplyID = dd.SupplyID
		det.SupplierID = dd.SupplierID
		det.Amount = dd.Amount
		det.Unit = dd.Unit
		det.Total = dd.Total
		details[i] = det
	}
	p.Details = details
}

// LedgerLines projects the details onto the stock of the supplies bought
func (p *SuppliesPurchase) LedgerLines() []reconciliation.LedgerLine {
	lines := make([]reconciliation.LedgerLine, len(p.Details))
	for i, det := range p.Details {
		lines[i] = reconciliation.LedgerLine{
			ID:         det.ID,
			ResourceID: det.SupplyID,
			Quantity:   det.Amount,
			Unit:       det.Unit,
			Value:      det.Total,
			Locked:     det.IsLocked(),
		}
	}
	return lines
}
