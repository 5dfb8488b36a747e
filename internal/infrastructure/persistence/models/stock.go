package models

import (
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// StockResourceModel is the persistence model for the StockResource aggregate.
// Its ID is the ID of the crop or supply it tracks.
type StockResourceModel struct {
	AggregateModel
	Kind     stock.ResourceKind     `gorm:"type:varchar(10);not null;index"`
	Name     string                 `gorm:"type:varchar(200);not null"`
	Family   valueobject.UnitFamily `gorm:"type:varchar(10);not null"`
	Quantity decimal.Decimal        `gorm:"type:numeric(20,4);not null;default:0"`
}

// TableName returns the table name for GORM
func (StockResourceModel) TableName() string {
	return "stock_resources"
}

// ToDomain converts the persistence model to a domain StockResource
func (m *StockResourceModel) ToDomain() *stock.StockResource {
	return &stock.StockResource{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Kind:              m.Kind,
		Name:              m.Name,
		Family:            m.Family,
		Quantity:          m.Quantity,
	}
}

// StockResourceModelFromDomain creates a persistence model from a domain StockResource
func StockResourceModelFromDomain(r *stock.StockResource) *StockResourceModel {
	m := &StockResourceModel{
		Kind:     r.Kind,
		Name:     r.Name,
		Family:   r.Family,
		Quantity: r.Quantity,
	}
	m.FromDomainAggregateRoot(r.BaseAggregateRoot)
	return m
}

// StockMovementModel is one append-only ledger row
type StockMovementModel struct {
	BaseModel
	ResourceID     uuid.UUID               `gorm:"type:uuid;not null;index:idx_stock_movement_resource"`
	Direction      stock.Direction         `gorm:"type:varchar(10);not null"`
	Amount         decimal.Decimal         `gorm:"type:numeric(20,4);not null"`
	RecordedAmount decimal.Decimal         `gorm:"type:numeric(20,4);not null"`
	RecordedUnit   valueobject.MeasureUnit `gorm:"type:varchar(20);not null"`
	BalanceBefore  decimal.Decimal         `gorm:"type:numeric(20,4);not null"`
	BalanceAfter   decimal.Decimal         `gorm:"type:numeric(20,4);not null"`
	ReferenceType  stock.ReferenceType     `gorm:"type:varchar(20);not null;index:idx_stock_movement_reference,priority:1"`
	AggregateID    uuid.UUID               `gorm:"type:uuid;not null;index:idx_stock_movement_reference,priority:2"`
	LineID         uuid.UUID               `gorm:"type:uuid;not null"`
}

// TableName returns the table name for GORM
func (StockMovementModel) TableName() string {
	return "stock_movements"
}

// ToDomain converts the persistence model to a domain StockMovement
func (m *StockMovementModel) ToDomain() *stock.StockMovement {
	return &stock.StockMovement{
		BaseEntity:     m.BaseModel.ToDomain(),
		ResourceID:     m.ResourceID,
		Direction:      m.Direction,
		Amount:         m.Amount,
		RecordedAmount: m.RecordedAmount,
		RecordedUnit:   m.RecordedUnit,
		BalanceBefore:  m.BalanceBefore,
		BalanceAfter:   m.BalanceAfter,
		Reference: stock.Reference{
			Type:        m.ReferenceType,
			AggregateID: m.AggregateID,
			LineID:      m.LineID,
		},
	}
}

// StockMovementModelFromDomain creates a persistence model from a domain StockMovement
func StockMovementModelFromDomain(mv *stock.StockMovement) *StockMovementModel {
	m := &StockMovementModel{
		ResourceID:     mv.ResourceID,
		Direction:      mv.Direction,
		Amount:         mv.Amount,
		RecordedAmount: mv.RecordedAmount,
		RecordedUnit:   mv.RecordedUnit,
		BalanceBefore:  mv.BalanceBefore,
		BalanceAfter:   mv.BalanceAfter,
		ReferenceType:  mv.Reference.Type,
		AggregateID:    mv.Reference.AggregateID,
		LineID:         mv.Reference.LineID,
	}
	m.FromDomainBaseEntity(mv.BaseEntity)
	return m
}
