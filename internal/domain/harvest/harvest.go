package harvest

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
	fieldAmount   = "amount"
	fieldValuePay = "value_pay"
	refEmployee   = "employee_id"
)

// TotalsRules is the totals contract of a harvest: the converted detail
// amounts add up to the harvest amount, the detail payments add up to the
// harvest payment, and each employee appears at most once.
var TotalsRules = reconciliation.RuleSet{
	Sums: []reconciliation.SumRule{
		{Total: fieldAmount, LineField: fieldAmount, Convert: true},
		{Total: fieldValuePay, LineField: fieldValuePay},
	},
	Uniques: []reconciliation.UniqueRule{{LineRef: refEmployee}},
}

// Detail is the share of a harvest gathered and paid to one employee
type Detail struct {
	shared.BaseEntity
	HarvestID  uuid.UUID
	EmployeeID uuid.UUID
	Amount     decimal.Decimal
	Unit       valueobject.MeasureUnit
	ValuePay   decimal.Decimal
	PaymentID  *uuid.UUID
}

// IsLocked reports whether a payment references the detail
func (d *Detail) IsLocked() bool {
	return d.PaymentID != nil
}

// Harvest records an amount of a crop gathered on one day.
// Every detail adds its amount to the crop's stock.
type Harvest struct {
	shared.BaseAggregateRoot
	CropID      uuid.UUID
	Date        time.Time
	Amount      decimal.Decimal
	Unit        valueobject.MeasureUnit
	ValuePay    decimal.Decimal
	Observation string
	Details     []Detail
}

// DetailDraft is the requested state of one detail.
// A nil ID asks for a new detail.
type DetailDraft struct {
	ID         uuid.UUID
	EmployeeID uuid.UUID
	Amount     decimal.Decimal
	Unit       valueobject.MeasureUnit
	ValuePay   decimal.Decimal
}

// Draft is the requested state of a harvest on create or update
type Draft struct {
	CropID      uuid.UUID
	Date        time.Time
	Amount      decimal.Decimal
	Unit        valueobject.MeasureUnit
	ValuePay    decimal.Decimal
	Observation string
	Details     []DetailDraft
}

// Validate checks field rules and the totals contract, reporting every violation
func (d Draft) Validate() error {
	verr := shared.NewValidationError()
	if d.CropID == uuid.Nil {
		verr.Add("crop_id is required")
	}
	if d.Date.IsZero() {
		verr.Add("date is required")
	}
	if !d.Amount.IsPositive() {
		verr.Add("amount must be greater than 0")
	}
	if d.ValuePay.IsNegative() {
		verr.Add("value_pay cannot be negative")
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
		if det.EmployeeID == uuid.Nil {
			verr.Add(fmt.Sprintf("details[%d].employee_id is required", i))
		}
		if !det.Amount.IsPositive() {
			verr.Add(fmt.Sprintf("details[%d].amount must be greater than 0", i))
		}
		if det.ValuePay.IsNegative() {
			verr.Add(fmt.Sprintf("details[%d].value_pay cannot be negative", i))
		}
	}
	verr.Merge(TotalsRules.Validate(d.Document()))
	return verr.OrNil()
}

// Document flattens the draft for the totals validator
func (d Draft) Document() reconciliation.Document {
	doc := reconciliation.Document{
		Totals:     map[string]decimal.Decimal{fieldAmount: d.Amount, fieldValuePay: d.ValuePay},
		TotalUnits: map[string]valueobject.MeasureUnit{fieldAmount: d.Unit},
		Lines:      make([]reconciliation.DocumentLine, len(d.Details)),
	}
	for i, det := range d.Details {
		doc.Lines[i] = reconciliation.DocumentLine{
			Values: map[string]decimal.Decimal{fieldAmount: det.Amount, fieldValuePay: det.ValuePay},
			Units:  map[string]valueobject.MeasureUnit{fieldAmount: det.Unit},
			Refs:   map[string]uuid.UUID{refEmployee: det.EmployeeID},
		}
	}
	return doc
}

// EmployeeIDs returns the employees referenced by the draft
func (d Draft) EmployeeIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(d.Details))
	for i, det := range d.Details {
		ids[i] = det.EmployeeID
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

// New creates a harvest from a validated draft
func New(d Draft) (*Harvest, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	if err := reconciliation.RequireOwnedIDs(d.DetailIDs(), nil); err != nil {
		return nil, err
	}
	h := &Harvest{BaseAggregateRoot: shared.NewBaseAggregateRoot()}
	h.apply(d, nil)
	return h, nil
}

// Revise replaces the harvest's state with d.
// Details keep their identity, creation time and payment lock when d refers
// to them by ID; details missing from d are dropped. Whether the change is
// allowed against locked details is decided by the reconciler, not here.
func (h *Harvest) Revise(d Draft) error {
	if err := d.Validate(); err != nil {
		return err
	}
	existing := make(map[uuid.UUID]Detail, len(h.Details))
	owned := make([]uuid.UUID, 0, len(h.Details))
	for _, det := range h.Details {
		existing[det.ID] = det
		owned = append(owned, det.ID)
	}
	if err := reconciliation.RequireOwnedIDs(d.DetailIDs(), owned); err != nil {
		return err
	}
	h.apply(d, existing)
	h.IncrementVersion()
	return nil
}

func (h *Harvest) apply(d Draft, existing map[uuid.UUID]Detail) {
	h.CropID = d.CropID
	h.Date = d.Date
	h.Amount = d.Amount
	h.Unit = d.Unit
	h.ValuePay = d.ValuePay
	h.Observation = d.Observation

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
		det.HarvestID = h.ID
		det.EmployeeID = dd.EmployeeID
		det.Amount = dd.Amount
		det.Unit = dd.Unit
		det.ValuePay = dd.ValuePay
		details[i] = det
	}
	h.Details = details
}

// LedgerLines projects the details onto the crop's stock
func (h *Harvest) LedgerLines() []reconciliation.LedgerLine {
	lines := make([]reconciliation.LedgerLine, len(h.Details))
	for i, det := range h.Details {
		lines[i] = reconciliation.LedgerLine{
			ID:         det.ID,
			ResourceID: h.CropID,
			Quantity:   det.Amount,
			Unit:       det.Unit,
			Value:      det.ValuePay,
			Locked:     det.IsLocked(),
		}
	}
	return lines
}

// HasLockedDetails reports whether any detail is referenced by a payment
func (h *Harvest) HasLockedDetails() bool {
	for i := range h.Details {
		if h.Details[i].IsLocked() {
			return true
		}
	}
	return false
}
