package models

import (
	"time"

	"github.com/farmerp/backend/internal/domain/payment"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentModel is the persistence model for the Payment aggregate root.
// The lines it settles carry its ID in their payment_id column.
type PaymentModel struct {
	AggregateModel
	Kind      payment.Kind    `gorm:"type:varchar(10);not null;index"`
	PartnerID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Date      time.Time       `gorm:"type:date;not null"`
	Total     decimal.Decimal `gorm:"type:numeric(18,2);not null"`
	Method    string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (PaymentModel) TableName() string {
	return "payments"
}

// ToDomain converts the persistence model to a domain Payment carrying lineIDs
func (m *PaymentModel) ToDomain(lineIDs []uuid.UUID) *payment.Payment {
	return &payment.Payment{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Kind:              m.Kind,
		PartnerID:         m.PartnerID,
		Date:              m.Date,
		Total:             m.Total,
		Method:            m.Method,
		LineIDs:           lineIDs,
	}
}

// PaymentModelFromDomain creates a persistence model from a domain Payment
func PaymentModelFromDomain(p *payment.Payment) *PaymentModel {
	m := &PaymentModel{
		Kind:      p.Kind,
		PartnerID: p.PartnerID,
		Date:      p.Date,
		Total:     p.Total,
		Method:    p.Method,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
