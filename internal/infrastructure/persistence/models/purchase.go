package models

import (
	"time"

	"github.com/farmerp/backend/internal/domain/purchase"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SuppliesPurchaseModel is the persistence model for the SuppliesPurchase aggregate root
type SuppliesPurchaseModel struct {
	AggregateModel
	Date    time.Time                     `gorm:"type:date;not null;index"`
	Total   decimal.Decimal               `gorm:"type:numeric(18,2);not null"`
	Details []SuppliesPurchaseDetailModel `gorm:"foreignKey:PurchaseID;references:ID"`
}

// TableName returns the table name for GORM
func (SuppliesPurchaseModel) TableName() string {
	return "supplies_purchases"
}

// SuppliesPurchaseDetailModel is one supply bought from one supplier
type SuppliesPurchaseDetailModel struct {
	SoftDeleteModel
	PurchaseID uuid.UUID               `gorm:"type:uuid;not null;index"`
	SupplyID   uuid.UUID               `gorm:"type:uuid;not null;index"`
	SupplierID uuid.UUID               `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal         `gorm:"type:numeric(20,4);not null"`
	Unit       valueobject.MeasureUnit `gorm:"type:varchar(20);not null"`
	Total      decimal.Decimal         `gorm:"type:numeric(18,2);not null"`
	PaymentID  *uuid.UUID              `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (SuppliesPurchaseDetailModel) TableName() string {
	return "supplies_purchase_details"
}

// ToDomain converts the persistence model to a domain SuppliesPurchase
func (m *SuppliesPurchaseModel) ToDomain() *purchase.SuppliesPurchase {
	p := &purchase.SuppliesPurchase{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Date:              m.Date,
		Total:             m.Total,
		Details:           make([]purchase.Detail, len(m.Details)),
	}
	for i, d := range m.Details {
		p.Details[i] = purchase.Detail{
			BaseEntity: d.BaseModel.ToDomain(),
			PurchaseID: d.PurchaseID,
			SupplyID:   d.SupplyID,
			SupplierID: d.SupplierID,
			Amount:     d.Amount,
			Unit:       d.Unit,
			Total:      d.Total,
			PaymentID:  d.PaymentID,
		}
	}
	return p
}

// SuppliesPurchaseModelFromDomain creates a persistence model from a domain SuppliesPurchase
func SuppliesPurchaseModelFromDomain(p *purchase.SuppliesPurchase) *SuppliesPurchaseModel {
	m := &SuppliesPurchaseModel{
		Date:    p.Date,
		Total:   p.Total,
		Details: make([]SuppliesPurchaseDetailModel, len(p.Details)),
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	for i, d := range p.Details {
		dm := SuppliesPurchaseDetailModel{
			PurchaseID: p.ID,
			SupplyID:   d.SupplyID,
			SupplierID: d.SupplierID,
			Amount:     d.Amount,
			Unit:       d.Unit,
			Total:      d.Total,
			PaymentID:  d.PaymentID,
		}
		dm.FromDomainBaseEntity(d.BaseEntity)
		m.Details[i] = dm
	}
	return m
}
