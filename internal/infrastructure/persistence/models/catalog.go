package models

import (
	"github.com/farmerp/backend/internal/domain/catalog"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CropModel is the persistence model for the Crop aggregate root
type CropModel struct {
	AggregateModel
	Name           string                  `gorm:"type:varchar(200);not null;index"`
	Description    string                  `gorm:"type:text"`
	Location       string                  `gorm:"type:varchar(200)"`
	NumberHectares decimal.Decimal         `gorm:"type:numeric(12,2);not null;default:0"`
	StockUnit      valueobject.MeasureUnit `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (CropModel) TableName() string {
	return "crops"
}

// ToDomain converts the persistence model to a domain Crop
func (m *CropModel) ToDomain() *catalog.Crop {
	return &catalog.Crop{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Description:       m.Description,
		Location:          m.Location,
		NumberHectares:    m.NumberHectares,
		StockUnit:         m.StockUnit,
	}
}

// CropModelFromDomain creates a persistence model from a domain Crop
func CropModelFromDomain(c *catalog.Crop) *CropModel {
	m := &CropModel{
		Name:           c.Name,
		Description:    c.Description,
		Location:       c.Location,
		NumberHectares: c.NumberHectares,
		StockUnit:      c.StockUnit,
	}
	m.FromDomainAggregateRoot(c.BaseAggregateRoot)
	return m
}

// SupplyModel is the persistence model for the Supply aggregate root
type SupplyModel struct {
	AggregateModel
	Name        string                  `gorm:"type:varchar(200);not null;index"`
	Brand       string                  `gorm:"type:varchar(200)"`
	Observation string                  `gorm:"type:text"`
	StockUnit   valueobject.MeasureUnit `gorm:"type:varchar(20);not null"`
}

// TableName returns the table name for GORM
func (SupplyModel) TableName() string {
	return "supplies"
}

// ToDomain converts the persistence model to a domain Supply
func (m *SupplyModel) ToDomain() *catalog.Supply {
	return &catalog.Supply{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Name:              m.Name,
		Brand:             m.Brand,
		Observation:       m.Observation,
		StockUnit:         m.StockUnit,
	}
}

// SupplyModelFromDomain creates a persistence model from a domain Supply
func SupplyModelFromDomain(s *catalog.Supply) *SupplyModel {
	m := &SupplyModel{
		Name:        s.Name,
		Brand:       s.Brand,
		Observation: s.Observation,
		StockUnit:   s.StockUnit,
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	return m
}
