package catalog

import (
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/farmerp/backend/internal/domain/stock"
)

// Supply is a purchasable farm input (fertilizer, pesticide, seed)
type Supply struct {
	shared.BaseAggregateRoot
	Name        string
	Brand       string
	Observation string
	StockUnit   valueobject.MeasureUnit
}

// NewSupply creates a new supply
func NewSupply(name, brand, observation string, stockUnit valueobject.MeasureUnit) (*Supply, error) {
	if err := validateName("Supply", name); err != nil {
		return nil, err
	}
	unit, err := valueobject.ParseMeasureUnit(string(stockUnit))
	if err != nil {
		return nil, err
	}

	return &Supply{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Brand:             brand,
		Observation:       observation,
		StockUnit:         unit,
	}, nil
}

// Update changes the supply's descriptive fields
func (s *Supply) Update(name, brand, observation string, stockUnit valueobject.MeasureUnit) error {
	if err := validateName("Supply", name); err != nil {
		return err
	}
	unit, err := changeStockUnit(s.StockUnit, stockUnit)
	if err != nil {
		return err
	}

	s.Name = name
	s.Brand = brand
	s.Observation = observation
	s.StockUnit = unit
	s.IncrementVersion()
	return nil
}

// NewStockResource returns the empty stock resource tracking this supply
func (s *Supply) NewStockResource() (*stock.StockResource, error) {
	return stock.NewStockResource(s.ID, stock.ResourceKindSupply, s.Name, s.StockUnit.Family())
}
