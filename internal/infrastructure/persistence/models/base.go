package models

import (
	"time"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BaseModel provides common persistence fields for all models.
type BaseModel struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey"`
	CreatedAt time.Time `gorm:"not null"`
	UpdatedAt time.Time `gorm:"not null"`
}

// ToDomain converts BaseModel to domain BaseEntity
func (m *BaseModel) ToDomain() shared.BaseEntity {
	return shared.BaseEntity{
		ID:        m.ID,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

// FromDomainBaseEntity populates BaseModel from domain BaseEntity
func (m *BaseModel) FromDomainBaseEntity(e shared.BaseEntity) {
	m.ID = e.ID
	m.CreatedAt = e.CreatedAt
	m.UpdatedAt = e.UpdatedAt
}

// SoftDeleteModel is a BaseModel whose rows are kept after removal.
// GORM filters rows with a deleted_at stamp out of every scoped query.
type SoftDeleteModel struct {
	BaseModel
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

// ToSoftDeletable converts the deleted_at stamp to its domain form
func (m *SoftDeleteModel) ToSoftDeletable() shared.SoftDeletable {
	if !m.DeletedAt.Valid {
		return shared.SoftDeletable{}
	}
	deletedAt := m.DeletedAt.Time
	return shared.SoftDeletable{DeletedAt: &deletedAt}
}

// FromSoftDeletable stores the domain soft-delete stamp
func (m *SoftDeleteModel) FromSoftDeletable(s shared.SoftDeletable) {
	if s.DeletedAt == nil {
		m.DeletedAt = gorm.DeletedAt{}
		return
	}
	m.DeletedAt = gorm.DeletedAt{Time: *s.DeletedAt, Valid: true}
}

// AggregateModel provides common persistence fields for aggregate roots,
// adding the version used for optimistic locking.
type AggregateModel struct {
	SoftDeleteModel
	Version int `gorm:"not null;default:1"`
}

// FromDomainAggregateRoot populates AggregateModel from domain BaseAggregateRoot
func (m *AggregateModel) FromDomainAggregateRoot(a shared.BaseAggregateRoot) {
	m.FromDomainBaseEntity(a.BaseEntity)
	m.FromSoftDeletable(a.SoftDeletable)
	m.Version = a.Version
}

// ToDomainAggregateRoot converts AggregateModel to domain BaseAggregateRoot
func (m *AggregateModel) ToDomainAggregateRoot() shared.BaseAggregateRoot {
	return shared.BaseAggregateRoot{
		BaseEntity:    m.ToDomain(),
		SoftDeletable: m.ToSoftDeletable(),
		Version:       m.Version,
	}
}

// All lists every model, in dependency order, for schema auto-migration
func All() []any {
	return []any{
		&PartnerModel{},
		&CropModel{},
		&SupplyModel{},
		&StockResourceModel{},
		&StockMovementModel{},
		&PaymentModel{},
		&HarvestModel{},
		&HarvestDetailModel{},
		&SaleModel{},
		&SaleDetailModel{},
		&SuppliesPurchaseModel{},
		&SuppliesPurchaseDetailModel{},
	}
}
