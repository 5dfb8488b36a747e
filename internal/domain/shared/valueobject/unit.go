package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// UnitFamily is the physical dimension a unit measures.
// Quantities are only comparable within one family.
type UnitFamily string

const (
	FamilyMass   UnitFamily = "MASS"
	FamilyVolume UnitFamily = "VOLUME"
)

// IsValid checks if the family is known
func (f UnitFamily) IsValid() bool {
	return f == FamilyMass || f == FamilyVolume
}

// CanonicalUnit returns the unit all arithmetic in this family is done in
func (f UnitFamily) CanonicalUnit() MeasureUnit {
	switch f {
	case FamilyMass:
		return UnitGrams
	case FamilyVolume:
		return UnitMilliliters
	}
	return ""
}

// String returns the string representation of UnitFamily
func (f UnitFamily) String() string {
	return string(f)
}

// MeasureUnit is a unit of measure as recorded on harvests, sales and purchases.
// Codes are stored verbatim; arithmetic always goes through the canonical unit.
type MeasureUnit string

const (
	UnitGrams       MeasureUnit = "GRAMOS"
	UnitKilograms   MeasureUnit = "KILOGRAMOS"
	UnitPounds      MeasureUnit = "LIBRAS"
	UnitOunces      MeasureUnit = "ONZAS"
	UnitMetricTons  MeasureUnit = "TONELADAS"
	UnitMilliliters MeasureUnit = "MILILITROS"
	UnitLiters      MeasureUnit = "LITROS"
	UnitGallons     MeasureUnit = "GALONES"
)

type unitDefinition struct {
	family UnitFamily
	// factor is how many canonical units one of this unit equals
	factor decimal.Decimal
}

var unitTable = map[MeasureUnit]unitDefinition{
	UnitGrams:       {family: FamilyMass, factor: decimal.NewFromInt(1)},
	UnitKilograms:   {family: FamilyMass, factor: decimal.NewFromInt(1000)},
	UnitPounds:      {family: FamilyMass, factor: decimal.RequireFromString("453.592")},
	UnitOunces:      {family: FamilyMass, factor: decimal.RequireFromString("28.3495")},
	UnitMetricTons:  {family: FamilyMass, factor: decimal.NewFromInt(1000000)},
	UnitMilliliters: {family: FamilyVolume, factor: decimal.NewFromInt(1)},
	UnitLiters:      {family: FamilyVolume, factor: decimal.NewFromInt(1000)},
	UnitGallons:     {family: FamilyVolume, factor: decimal.RequireFromString("3785.41")},
}

// ParseMeasureUnit normalizes and validates a unit code
func ParseMeasureUnit(code string) (MeasureUnit, error) {
	u := MeasureUnit(strings.TrimSpace(strings.ToUpper(code)))
	if !u.IsValid() {
		return "", shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown unit of measure %q", code))
	}
	return u, nil
}

// AllMeasureUnits returns every recognised unit, mass first
func AllMeasureUnits() []MeasureUnit {
	return []MeasureUnit{
		UnitGrams, UnitKilograms, UnitPounds, UnitOunces, UnitMetricTons,
		UnitMilliliters, UnitLiters, UnitGallons,
	}
}

// IsValid reports whether the unit is recognised
func (u MeasureUnit) IsValid() bool {
	_, ok := unitTable[u]
	return ok
}

// Family returns the unit's physical dimension, or "" for unknown units
func (u MeasureUnit) Family() UnitFamily {
	return unitTable[u].family
}

// Factor returns the multiplier from this unit to the canonical unit of its family
func (u MeasureUnit) Factor() decimal.Decimal {
	def, ok := unitTable[u]
	if !ok {
		return decimal.Zero
	}
	return def.factor
}

// ToCanonical converts an amount expressed in this unit to the canonical unit.
// Conversion is an exact decimal multiplication, no rounding is applied.
func (u MeasureUnit) ToCanonical(amount decimal.Decimal) (decimal.Decimal, error) {
	def, ok := unitTable[u]
	if !ok {
		return decimal.Zero, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown unit of measure %q", string(u)))
	}
	return amount.Mul(def.factor), nil
}

// SameFamily reports whether both units measure the same dimension
func (u MeasureUnit) SameFamily(other MeasureUnit) bool {
	return u.IsValid() && other.IsValid() && u.Family() == other.Family()
}

// String returns the unit code
func (u MeasureUnit) String() string {
	return string(u)
}

// MarshalJSON implements json.Marshaler
func (u MeasureUnit) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(u))
}

// UnmarshalJSON implements json.Unmarshaler, accepting any case
func (u *MeasureUnit) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*u = MeasureUnit(strings.TrimSpace(strings.ToUpper(s)))
	return nil
}

// Value implements driver.Valuer
func (u MeasureUnit) Value() (driver.Value, error) {
	return string(u), nil
}

// Scan implements sql.Scanner
func (u *MeasureUnit) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*u = ""
	case string:
		*u = MeasureUnit(v)
	case []byte:
		*u = MeasureUnit(string(v))
	default:
		return fmt.Errorf("cannot scan %T into MeasureUnit", value)
	}
	return nil
}

// IncompatibleUnitFamilyError is returned when mass and volume quantities are mixed
type IncompatibleUnitFamilyError struct {
	From     MeasureUnit
	To       MeasureUnit
	Expected UnitFamily
}

// Error implements the error interface
func (e *IncompatibleUnitFamilyError) Error() string {
	if e.Expected != "" {
		return fmt.Sprintf("unit %s (%s) is not compatible with %s stock", e.From, e.From.Family(), e.Expected)
	}
	return fmt.Sprintf("cannot convert %s (%s) to %s (%s)", e.From, e.From.Family(), e.To, e.To.Family())
}

// Unwrap exposes the error as a DomainError
func (e *IncompatibleUnitFamilyError) Unwrap() error {
	return shared.NewDomainError(shared.CodeIncompatibleUnitFamily, e.Error())
}
