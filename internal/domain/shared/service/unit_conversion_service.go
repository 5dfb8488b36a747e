package service

import (
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// UnitConverter normalizes quantities recorded in heterogeneous units.
// It holds no state; every method is a pure function of its inputs.
type UnitConverter struct{}

// NewUnitConverter creates a new UnitConverter
func NewUnitConverter() *UnitConverter {
	return &UnitConverter{}
}

// IsValidUnit reports whether the unit code is recognised
func (c *UnitConverter) IsValidUnit(unit valueobject.MeasureUnit) bool {
	return unit.IsValid()
}

// UnitFamily returns the dimension measured by unit
func (c *UnitConverter) UnitFamily(unit valueobject.MeasureUnit) (valueobject.UnitFamily, error) {
	if !unit.IsValid() {
		_, err := valueobject.ParseMeasureUnit(string(unit))
		return "", err
	}
	return unit.Family(), nil
}

// ToCanonical converts amount to grams (mass) or milliliters (volume)
func (c *UnitConverter) ToCanonical(unit valueobject.MeasureUnit, amount decimal.Decimal) (decimal.Decimal, error) {
	return unit.ToCanonical(amount)
}

// Convert converts amount between two units of the same family.
// Mass and volume are never interchangeable.
func (c *UnitConverter) Convert(from, to valueobject.MeasureUnit, amount decimal.Decimal) (decimal.Decimal, error) {
	if _, err := c.UnitFamily(from); err != nil {
		return decimal.Zero, err
	}
	if _, err := c.UnitFamily(to); err != nil {
		return decimal.Zero, err
	}
	if from.Family() != to.Family() {
		return decimal.Zero, &valueobject.IncompatibleUnitFamilyError{From: from, To: to}
	}
	if from == to {
		return amount, nil
	}
	canonical, err := from.ToCanonical(amount)
	if err != nil {
		return decimal.Zero, err
	}
	return canonical.Div(to.Factor()), nil
}

// EnsureFamily checks that unit measures the given family
func (c *UnitConverter) EnsureFamily(unit valueobject.MeasureUnit, family valueobject.UnitFamily) error {
	got, err := c.UnitFamily(unit)
	if err != nil {
		return err
	}
	if got != family {
		return &valueobject.IncompatibleUnitFamilyError{From: unit, To: family.CanonicalUnit(), Expected: family}
	}
	return nil
}

// ToCanonicalIn converts amount to the canonical unit of family,
// failing when unit belongs to another family.
func (c *UnitConverter) ToCanonicalIn(family valueobject.UnitFamily, unit valueobject.MeasureUnit, amount decimal.Decimal) (decimal.Decimal, error) {
	if err := c.EnsureFamily(unit, family); err != nil {
		return decimal.Zero, err
	}
	return unit.ToCanonical(amount)
}

// Measurement is an amount paired with the unit it was recorded in
type Measurement struct {
	Unit   valueobject.MeasureUnit
	Amount decimal.Decimal
}

// SumCanonical adds measurements after normalising each to the canonical unit.
// All measurements must share one family; the family is returned with the sum.
func (c *UnitConverter) SumCanonical(measurements []Measurement) (decimal.Decimal, valueobject.UnitFamily, error) {
	total := decimal.Zero
	var family valueobject.UnitFamily
	for _, m := range measurements {
		f, err := c.UnitFamily(m.Unit)
		if err != nil {
			return decimal.Zero, "", err
		}
		if family == "" {
			family = f
		} else if f != family {
			return decimal.Zero, "", &valueobject.IncompatibleUnitFamilyError{From: m.Unit, To: family.CanonicalUnit(), Expected: family}
		}
		canonical, err := m.Unit.ToCanonical(m.Amount)
		if err != nil {
			return decimal.Zero, "", err
		}
		total = total.Add(canonical)
	}
	return total, family, nil
}
