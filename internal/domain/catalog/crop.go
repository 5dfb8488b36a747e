package catalog

import (
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
)

// Crop is a planted crop whose harvests feed a stock resource.
// StockUnit is the unit the crop is usually handled in; its family fixes the
// family of the crop's stock and cannot change once the crop exists.
type Crop struct {
	shared.BaseAggregateRoot
	Name           string
	Description    string
	Location       string
	NumberHectares decimal.Decimal
	StockUnit      valueobject.MeasureUnit
}

// NewCrop creates a new crop
func NewCrop(name, description, location string, hectares decimal.Decimal, stockUnit valueobject.MeasureUnit) (*Crop, error) {
	if err := validateName("Crop", name); err != nil {
		return nil, err
	}
	if hectares.IsNegative() {
		return nil, shared.NewDomainError(shared.CodeInvalidInput, "Number of hectares cannot be negative")
	}
	unit, err := valueobject.ParseMeasureUnit(string(stockUnit))
	if err != nil {
		return nil, err
	}

	return &Crop{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Description:       description,
		Location:          location,
		NumberHectares:    hectares,
		StockUnit:         unit,
	}, nil
}

// Update changes the crop's descriptive fields
func (c *Crop) Update(name, description, location string, hectares decimal.Decimal, stockUnit valueobject.MeasureUnit) error {
	if err := validateName("Crop", name); err != nil {
		return err
	}
	if hectares.IsNegative() {
		return shared.NewDomainError(shared.CodeInvalidInput, "Number of hectares cannot be negative")
	}
	unit, err := changeStockUnit(c.StockUnit, stockUnit)
	if err != nil {
		return err
	}

	c.Name = name
	c.Description = description
	c.Location = location
	c.NumberHectares = hectares
	c.StockUnit = unit
	c.IncrementVersion()
	return nil
}

// NewStockResource returns the empty stock resource tracking this crop
func (c *Crop) NewStockResource() (*stock.StockResource, error) {
	return stock.NewStockResource(c.ID, stock.ResourceKindCrop, c.Name, c.StockUnit.Family())
}

func validateName(entity, name string) error {
	if name == "" {
		return shared.NewDomainError(shared.CodeInvalidInput, entity+" name cannot be empty")
	}
	if len(name) > 100 {
		return shared.NewDomainError(shared.CodeInvalidInput, entity+" name cannot exceed 100 characters")
	}
	return nil
}

func changeStockUnit(current, next valueobject.MeasureUnit) (valueobject.MeasureUnit, error) {
	if next == "" {
		return current, nil
	}
	unit, err := valueobject.ParseMeasureUnit(string(next))
	if err != nil {
		return "", err
	}
	if !unit.SameFamily(current) {
		return "", &valueobject.IncompatibleUnitFamilyError{From: unit, To: current, Expected: current.Family()}
	}
	return unit, nil
}
