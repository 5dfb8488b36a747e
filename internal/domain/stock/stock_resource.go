package stock

import (
	"fmt"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ResourceKind identifies what a stock resource tracks
type ResourceKind string

const (
	// ResourceKindCrop is the harvested but not yet sold stock of a crop
	ResourceKindCrop ResourceKind = "CROP"
	// ResourceKindSupply is the on-hand inventory of a supply
	ResourceKindSupply ResourceKind = "SUPPLY"
)

// IsValid returns true if the resource kind is valid
func (k ResourceKind) IsValid() bool {
	return k == ResourceKindCrop || k == ResourceKindSupply
}

// String returns the string representation of ResourceKind
func (k ResourceKind) String() string {
	return string(k)
}

// Label names the catalog entity behind the kind
func (k ResourceKind) Label() string {
	switch k {
	case ResourceKindCrop:
		return "Crop"
	case ResourceKindSupply:
		return "Supply"
	}
	return "Stock resource"
}

// StockResource is a ledger-tracked quantity.
// Its ID equals the ID of the crop or supply it tracks, and the quantity
// is always held in the canonical unit of its family.
type StockResource struct {
	shared.BaseAggregateRoot
	Kind     ResourceKind
	Name     string
	Family   valueobject.UnitFamily
	Quantity decimal.Decimal
}

// NewStockResource creates an empty stock resource for a crop or a supply
func NewStockResource(id uuid.UUID, kind ResourceKind, name string, family valueobject.UnitFamily) (*StockResource, error) {
	if id == uuid.Nil {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Stock resource ID cannot be empty")
	}
	if !kind.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Invalid stock resource kind %q", kind))
	}
	if !family.IsValid() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("Invalid unit family %q", family))
	}

	root := shared.NewBaseAggregateRoot()
	root.ID = id
	return &StockResource{
		BaseAggregateRoot: root,
		Kind:              kind,
		Name:              name,
		Family:            family,
		Quantity:          decimal.Zero,
	}, nil
}

// CanonicalUnit returns the unit Quantity is expressed in
func (r *StockResource) CanonicalUnit() valueobject.MeasureUnit {
	return r.Family.CanonicalUnit()
}

// Increase adds a canonical amount to the stock
func (r *StockResource) Increase(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Adjustment amount cannot be negative")
	}
	r.Quantity = r.Quantity.Add(amount)
	r.IncrementVersion()
	return nil
}

// Decrease removes a canonical amount from the stock.
// The quantity is left untouched when the stock cannot cover the amount.
func (r *StockResource) Decrease(amount decimal.Decimal) error {
	if amount.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Adjustment amount cannot be negative")
	}
	if amount.GreaterThan(r.Quantity) {
		return &InsufficientStockError{
			ResourceID: r.ID,
			Requested:  amount,
			Available:  r.Quantity,
			Unit:       r.CanonicalUnit(),
		}
	}
	r.Quantity = r.Quantity.Sub(amount)
	r.IncrementVersion()
	return nil
}

// Rename updates the display name kept alongside the stock
func (r *StockResource) Rename(name string) {
	r.Name = name
	r.Touch()
}
