package payment

import (
	"fmt"
	"time"

	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/reconciliation"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind names the detail lines a payment settles
type Kind string

const (
	// KindHarvest pays an employee for harvest details
	KindHarvest Kind = "HARVEST"
	// KindSale collects from a client for sale details
	KindSale Kind = "SALE"
	// KindPurchase pays a supplier for supplies purchase details
	KindPurchase Kind = "PURCHASE"
)

// IsValid returns true if the kind is valid
func (k Kind) IsValid() bool {
	switch k {
	case KindHarvest, KindSale, KindPurchase:
		return true
	}
	return false
}

// PartnerKind returns the role of the counterparty paid or collected from
func (k Kind) PartnerKind() partner.Kind {
	switch k {
	case KindHarvest:
		return partner.KindEmployee
	case KindSale:
		return partner.KindClient
	default:
		return partner.KindSupplier
	}
}

// String returns the string representation of Kind
func (k Kind) String() string {
	return string(k)
}

const (
	fieldTotal = "total"
	fieldValue = "value"
)

// TotalsRules requires the payment total to equal the value of the lines it settles
var TotalsRules = reconciliation.RuleSet{
	Sums: []reconciliation.SumRule{{Total: fieldTotal, LineField: fieldValue}},
}

// Line is a detail line as seen by the payment that settles it
type Line struct {
	ID        uuid.UUID
	PartnerID uuid.UUID
	Value     decimal.Decimal
	PaymentID *uuid.UUID
}

// Payment settles detail lines with one partner. While it exists, the lines
// it settles are locked against deletion and mutation.
type Payment struct {
	shared.BaseAggregateRoot
	Kind      Kind
	PartnerID uuid.UUID
	Date      time.Time
	Total     decimal.Decimal
	Method    string
	LineIDs   []uuid.UUID
}

// New creates a payment over lines, as loaded from the store.
// Every line must belong to partnerID and be unsettled, and the line values
// must add up to total.
func New(kind Kind, partnerID uuid.UUID, date time.Time, total decimal.Decimal, method string, requested []uuid.UUID, lines []Line) (*Payment, error) {
	verr := shared.NewValidationError()
	if !kind.IsValid() {
		verr.Add(fmt.Sprintf("kind: invalid payment kind %q", kind))
	}
	if partnerID == uuid.Nil {
		verr.Add("partner_id is required")
	}
	if date.IsZero() {
		verr.Add("date is required")
	}
	if len(requested) == 0 {
		verr.Add("line_ids must contain at least one line")
	}
	if verr.HasViolations() {
		return nil, verr
	}

	byID := make(map[uuid.UUID]Line, len(lines))
	for _, l := range lines {
		byID[l.ID] = l
	}

	doc := reconciliation.Document{
		Totals: map[string]decimal.Decimal{fieldTotal: total},
		Lines:  make([]reconciliation.DocumentLine, 0, len(requested)),
	}
	seen := make(map[uuid.UUID]bool, len(requested))
	for _, id := range requested {
		if seen[id] {
			verr.Add(fmt.Sprintf("line %s is listed more than once", id))
			continue
		}
		seen[id] = true

		l, ok := byID[id]
		if !ok {
			return nil, shared.NotFoundError("Detail line", id)
		}
		if l.PaymentID != nil {
			return nil, &reconciliation.LinkedRecordConflictError{LineID: id}
		}
		if l.PartnerID != partnerID {
			verr.Add(fmt.Sprintf("line %s does not belong to partner %s", id, partnerID))
		}
		doc.Lines = append(doc.Lines, reconciliation.DocumentLine{
			Values: map[string]decimal.Decimal{fieldValue: l.Value},
		})
	}
	verr.Merge(TotalsRules.Validate(doc))
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	ids := make([]uuid.UUID, 0, len(seen))
	for _, id := range requested {
		if seen[id] {
			ids = append(ids, id)
			delete(seen, id)
		}
	}

	return &Payment{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Kind:              kind,
		PartnerID:         partnerID,
		Date:              date,
		Total:             total,
		Method:            method,
		LineIDs:           ids,
	}, nil
}
