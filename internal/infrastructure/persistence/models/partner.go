package models

import (
	"github.com/farmerp/backend/internal/domain/partner"
)

// PartnerModel is the persistence model for clients, employees and suppliers
type PartnerModel struct {
	AggregateModel
	Kind        partner.Kind `gorm:"type:varchar(10);not null;index"`
	FirstName   string       `gorm:"type:varchar(100);not null"`
	LastName    string       `gorm:"type:varchar(100)"`
	Email       string       `gorm:"type:varchar(200);index"`
	Phone       string       `gorm:"type:varchar(50)"`
	Address     string       `gorm:"type:text"`
	CompanyName string       `gorm:"type:varchar(200)"`
}

// TableName returns the table name for GORM
func (PartnerModel) TableName() string {
	return "partners"
}

// ToDomain converts the persistence model to a domain Partner
func (m *PartnerModel) ToDomain() *partner.Partner {
	return &partner.Partner{
		BaseAggregateRoot: m.ToDomainAggregateRoot(),
		Kind:              m.Kind,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Email:             m.Email,
		Phone:             m.Phone,
		Address:           m.Address,
		CompanyName:       m.CompanyName,
	}
}

// PartnerModelFromDomain creates a persistence model from a domain Partner
func PartnerModelFromDomain(p *partner.Partner) *PartnerModel {
	m := &PartnerModel{
		Kind:        p.Kind,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Email:       p.Email,
		Phone:       p.Phone,
		Address:     p.Address,
		CompanyName: p.CompanyName,
	}
	m.FromDomainAggregateRoot(p.BaseAggregateRoot)
	return m
}
