package models

import (
	"time"

	"github.com/farmerp/backend/internal/domain/sale"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleModel is the persistence model for the Sale aggregate root
type SaleModel struct {
	AggregateModel
	Date     time.Time               `gorm:"type:date;not null;index"`
	Quantity decimal.Decimal         `gorm:"type:numeric(20,4);not null"`
	Unit     valueobject.MeasureUnit `gorm:"type:varchar(20);not null"`
	Total    decimal.Decimal         `gorm:"type:numeric(18,2);not null"`
	Details  []SaleDetailModel       `gorm:"foreignKey:SaleID;references:ID"`
}

// TableName returns the table name for GORM
func (SaleModel) TableName() string {
	return "sales"
}

// SaleDetailModel is one crop sold to one client
type SaleDetailModel struct {
	SoftDeleteModel
	SaleID    uuid.UUID               `gorm:"type:uuid;not null;index"`
	ClientID  uuid.UUID               `gorm:"type:uuid;not null;index"`
	CropID    uuid.UUID               `gorm:"type:uuid;not null;index"`
	Quantity  decimal.Decimal         `gorm:"type:numeric(20,4);not null"`
	Unit      valueobject.MeasureUnit `gorm:"type:varchar(20);not null"`
	UnitPrice decimal.Decimal         `gorm:"type:numeric(18,2);not null"`
	Total     decimal.Decimal         `gorm:"type:numeric(18,2);not null"`
	PaymentID *uuid.UUID              `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (SaleDetailModel) TableName() string {
	return "sale_details"
}

// ToDomain converts the persistence model to a domain Sale
func (m *SaleModel) ToDomain() *sale.Sale {
	s := &sale.Sale{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Date:              m.Date,
		Quantity:          m.Quantity,
		Unit:              m.Unit,
		Total:             m.Total,
		Details:           make([]sale.Detail, len(m.Details)),
	}
	for i, d := range m.Details {
		s.Details[i] = sale.Detail{
			BaseEntity: d.BaseModel.ToDomain(),
			SaleID:     d.SaleID,
			ClientID:   d.ClientID,
			CropID:     d.CropID,
			Quantity:   d.Quantity,
			Unit:       d.Unit,
			UnitPrice:  d.UnitPrice,
			Total:      d.Total,
			PaymentID:  d.PaymentID,
		}
	}
	return s
}

// SaleModelFromDomain creates a persistence model from a domain Sale
func SaleModelFromDomain(s *sale.Sale) *SaleModel {
	m := &SaleModel{
		Date:     s.Date,
		Quantity: s.Quantity,
		Unit:     s.Unit,
		Total:    s.Total,
		Details:  make([]SaleDetailModel, len(s.Details)),
	}
	m.FromDomainAggregateRoot(s.BaseAggregateRoot)
	for i, d := range s.Details {
		dm := SaleDetailModel{
			SaleID:    s.ID,
			ClientID:  d.ClientID,
			CropID:    d.CropID,
			Quantity:  d.Quantity,
			Unit:      d.Unit,
			UnitPrice: d.UnitPrice,
			Total:     d.Total,
			PaymentID: d.PaymentID,
		}
		dm.FromDomainBaseEntity(d.BaseEntity)
		m.Details[i] = dm
	}
	return m
}
