package models

import (
	"time"

	"github.com/farmerp/backend/internal/domain/harvest"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HarvestModel is the persistence model for the Harvest aggregate root
type HarvestModel struct {
	AggregateModel
	CropID      uuid.UUID               `gorm:"type:uuid;not null;index"`
	Date        time.Time               `gorm:"type:date;not null;index"`
	Amount      decimal.Decimal         `gorm:"type:numeric(20,4);not null"`
	Unit        valueobject.MeasureUnit `gorm:"type:varchar(20);not null"`
	ValuePay    decimal.Decimal         `gorm:"type:numeric(18,2);not null"`
	Observation string                  `gorm:"type:text"`
	Details     []HarvestDetailModel    `gorm:"foreignKey:HarvestID;references:ID"`
}

// TableName returns the table name for GORM
func (HarvestModel) TableName() string {
	return "harvests"
}

// HarvestDetailModel is one employee's share of a harvest
type HarvestDetailModel struct {
	SoftDeleteModel
	HarvestID  uuid.UUID               `gorm:"type:uuid;not null;index"`
	EmployeeID uuid.UUID               `gorm:"type:uuid;not null;index"`
	Amount     decimal.Decimal         `gorm:"type:numeric(20,4);not null"`
	Unit       valueobject.MeasureUnit `gorm:"type:varchar(20);not null"`
	ValuePay   decimal.Decimal         `gorm:"type:numeric(18,2);not null"`
	PaymentID  *uuid.UUID              `gorm:"type:uuid;index"`
}

// TableName returns the table name for GORM
func (HarvestDetailModel) TableName() string {
	return "harvest_details"
}

// ToDomain converts the persistence model to a domain Harvest
func (m *HarvestModel) ToDomain() *harvest.Harvest {
	h := &harvest.Harvest{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		CropID:            m.CropID,
		Date:              m.Date,
		Amount:            m.Amount,
		Unit:              m.Unit,
		ValuePay:          m.ValuePay,
		Observation:       m.Observation,
		Details:           make([]harvest.Detail, len(m.Details)),
	}
	for i, d := range m.Details {
		h.Details[i] = harvest.Detail{
			BaseEntity: d.BaseModel.ToDomain(),
			HarvestID:  d.HarvestID,
			EmployeeID: d.EmployeeID,
			Amount:     d.Amount,
			Unit:       d.Unit,
			ValuePay:   d.ValuePay,
			PaymentID:  d.PaymentID,
		}
	}
	return h
}

// HarvestModelFromDomain creates a persistence model from a domain Harvest
func HarvestModelFromDomain(h *harvest.Harvest) *HarvestModel {
	m := &HarvestModel{
		CropID:      h.CropID,
		Date:        h.Date,
		Amount:      h.Amount,
		Unit:        h.Unit,
		ValuePay:    h.ValuePay,
		Observation: h.Observation,
		Details:     make([]HarvestDetailModel, len(h.Details)),
	}
	m.FromDomainAggregateRoot(h.BaseAggregateRoot)
	for i, d := range h.Details {
		dm := HarvestDetailModel{
			HarvestID:  h.ID,
			EmployeeID: d.EmployeeID,
			Amount:     d.Amount,
			Unit:       d.Unit,
			ValuePay:   d.ValuePay,
			PaymentID:  d.PaymentID,
		}
		dm.FromDomainBaseEntity(d.BaseEntity)
		m.Details[i] = dm
	}
	return m
}
