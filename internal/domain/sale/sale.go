package sale

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
	fieldQuantity = "quantity"
	fieldTotal    = "total"
)

// TotalsRules is the totals contract of a sale: the converted detail
// quantities add up to the sale quantity and the detail totals add up to
// the sale total. A client may buy several crops in one sale, so no
// reference has to be unique.
var TotalsRules = reconciliation.RuleSet{
	Sums: []reconciliation.SumRule{
		{Total: fieldQuantity, LineField: fieldQuantity, Convert: true},
		{Total: fieldTotal, LineField: fieldTotal},
	},
}

// Detail is one crop sold to one client
type Detail struct {
	shared.BaseEntity
	SaleID    uuid.UUID
	ClientID  uuid.UUID
	CropID    uuid.UUID
	Quantity  decimal.Decimal
	Unit      valueobject.MeasureUnit
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
	PaymentID *uuid.UUID
}

// IsLocked reports whether a payment references the detail
func (d *Detail) IsLocked() bool {
	return d.PaymentID != nil
}

// Sale records crop stock leaving the farm
type Sale struct {
	shared.BaseAggregateRoot
	Date     time.Time
	Quantity decimal.Decimal
	Unit     valueobject.MeasureUnit
	Total    decimal.Decimal
	Details  []Detail
}

// DetailDraft is the requested state of one detail; a nil ID asks for a new one
type DetailDraft struct {
	ID        uuid.UUID
	ClientID  uuid.UUID
	CropID    uuid.UUID
	Quantity  decimal.Decimal
	Unit      valueobject.MeasureUnit
	UnitPrice decimal.Decimal
	Total     decimal.Decimal
}

// Draft is the requested state of a sale
type Draft struct {
	Date     time.Time
	Quantity decimal.Decimal
	Unit     valueobject.MeasureUnit
	Total    decimal.Decimal
	Details  []DetailDraft
}

// Validate checks field rules, line pricing and the totals contract
func (d Draft) Validate() error {
	verr := shared.NewValidationError()
	if d.Date.IsZero() {
		verr.Add("date is required")
	}
	if !d.Quantity.IsPositive() {
		verr.Add("quantity must be greater than 0")
	}
	if d.Total.IsNegative() {
		verr.Add("total cannot be negative")
	}
	if !d.Unit.IsValid() {
		verr.Add(fmt.Sprintf("unit: unknown unit of measure %q", d.Unit))
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
		if det.ClientID == uuid.Nil {
			verr.Add(fmt.Sprintf("details[%d].client_id is required", i))
		}
		if det.CropID == uuid.Nil {
			verr.Add(fmt.Sprintf("details[%d].crop_id is required", i))
		}
		if !det.Quantity.IsPositive() {
			verr.Add(fmt.Sprintf("details[%d].quantity must be greater than 0", i))
		}
		if det.UnitPrice.IsNegative() {
			verr.Add(fmt.Sprintf("details[%d].unit_price cannot be negative", i))
		}
		if expected := det.Quantity.Mul(det.UnitPrice); !expected.Equal(det.Total) {
			verr.Add(fmt.Sprintf("details[%d].total (%s) must equal quantity x unit_price (%s)", i, det.Total, expected))
		}
	}
	verr.Merge(TotalsRules.Validate(d.Document()))
	return verr.OrNil()
}

// Document flattens the draft for the totals validator
func (d Draft) Document() reconciliation.Document {
	doc := reconciliation.Document{
		Totals:     map[string]decimal.Decimal{fieldQuantity: d.Quantity, fieldTotal: d.Total},
		TotalUnits: map[string]valueobject.MeasureUnit{fieldQuantity: d.Unit},
		Lines:      make([]reconciliation.DocumentLine, len(d.Details)),
	}
	for i, det := range d.Details {
		doc.Lines[i] = reconciliation.DocumentLine{
			Values: map[string]decimal.Decimal{fieldQuantity: det.Quantity, fieldTotal: det.Total},
			Units:  map[string]valueobject.MeasureUnit{fieldQuantity: det.Unit},
		}
	}
	return doc
}

// ClientIDs returns the clients referenced by the draft
func (d Draft) ClientIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(d.Details))
	for i, det := range d.Details {
		ids[i] = det.ClientID
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

// New creates a sale from a validated draft
func New(d Draft) (*Sale, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := reconciliation.RequireOwnedIDs(d.DetailIDs(), nil); err != nil {
		return nil, err
	}
	s := &Sale{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	s.apply(d, nil)
	return s, nil
}

// Revise replaces the sale's state with d, keeping identity and payment
// locks of details d refers to by ID
func (s *Sale) Revise(d Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	existing := make(map[uuid.UUID]Detail, len(s.Details))
	owned := make([]uuid.UUID, 0, len(s.Details))
	for _, det := range s.Details {
		existing[det.ID] = det
		owned = append(owned, det.ID)
	}
	if err := reconciliation.RequireOwnedIDs(d.DetailIDs(), owned); err != nil {
		return err
	}
	s.apply(d, existing)
	s.IncrementVersion()
	return nil
}

func (s *Sale) apply(d Draft, existing map[uuid.UUID]Detail) {
	s.Date = d.Date
	s.Quantity = d.Quantity
	s.Unit = d.Unit
	s.Total = d.Total

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
		det.SaleID = s.ID
		det.ClientID = dd.ClientID
		det.CropID = dd.CropID
		det.Quantity = dd.Quantity
		det.Unit = dd.Unit
		det.UnitPrice = dd.UnitPrice
		det.Total = dd.Total
		details[i] = det
	}
	s.Details = details
}

// LedgerLines projects the details onto the stock of the crops sold
func (s *Sale) LedgerLines() []reconciliation.LedgerLine {
	lines := make([]reconciliation.LedgerLine, len(s.Details))
	for i, det := range s.Details {
		lines[i] = reconciliation.LedgerLine{
			ID:         det.ID,
			ResourceID: det.CropID,
			Quantity:   det.Quantity,
			Unit:       det.Unit,
			Value:      det.Total,
			Locked:     det.IsLocked(),
		}
	}
	return lines
}
