package persistence

import (
	"context"
	"fmt"

	"github.com/farmerp/backend/internal/domain/purchase"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSuppliesPurchaseRepository implements purchase.Repository using GORM
type GormSuppliesPurchaseRepository struct {
	db *gorm.DB
}

// NewGormSuppliesPurchaseRepository creates a new GormSuppliesPurchaseRepository
func NewGormSuppliesPurchaseRepository(db *gorm.DB) *GormSuppliesPurchaseRepository {
	return &GormSuppliesPurchaseRepository{db: db}
}

// FindByID finds a live purchase together with its live details
func (r *GormSuppliesPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchase.SuppliesPurchase, error) {
	var model models.SuppliesPurchaseModel
	if err := r.db.WithContext(ctx).
		Preload("Details", orderedDetails).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, findError(err, "Supplies purchase", id)
	}
	return model.ToDomain(), nil
}

// FindAll finds purchases matching the filter
func (r *GormSuppliesPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchase.SuppliesPurchase, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.SuppliesPurchaseModel{})
	if supplierID, ok := uuidFilter(filter, "supplier_id"); ok {
		query = query.Where("id IN (?)", db.Model(&models.SuppliesPurchaseDetailModel{}).Select("purchase_id").Where("supplier_id = ?", supplierID))
	}
	if supplyID, ok := uuidFilter(filter, "supply_id"); ok {
		query = query.Where("id IN (?)", db.Model(&models.SuppliesPurchaseDetailModel{}).Select("purchase_id").Where("supply_id = ?", supplyID))
	}
	query = applyDateRange(query, "date", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count supplies purchases: %w", err)
	}

	var rows []models.SuppliesPurchaseModel
	query = applyPage(applyOrder(query, filter, PurchaseSortFields, "date"), filter)
	if err := query.Preload("Details", orderedDetails).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list supplies purchases: %w", err)
	}

	purchases := make([]purchase.SuppliesPurchase, len(rows))
	for i := range rows {
		purchases[i] = *rows[i].ToDomain()
	}
	return purchases, total, nil
}

// Save creates or updates a purchase and reconciles its detail rows
func (r *GormSuppliesPurchaseRepository) Save(ctx context.Context, p *purchase.SuppliesPurchase) error {
	model := models.SuppliesPurchaseModelFromDomain(p)
	ids := make([]uuid.UUID, len(model.Details))
	for i := range model.Details {
		ids[i] = model.Details[i].ID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveAggregate(tx, model, model.Version); err != nil {
			return fmt.Errorf("failed to save supplies purchase: %w", err)
		}
		if err := syncDetails(tx, "purchase_id", model.ID, ids, model.Details); err != nil {
			return fmt.Errorf("failed to save supplies purchase details: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes a purchase and its details
func (r *GormSuppliesPurchaseRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.SuppliesPurchaseModel{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete supplies purchase: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NotFoundError("Supplies purchase", id)
		}
		if err := tx.Where("purchase_id = ?", id).Delete(&models.SuppliesPurchaseDetailModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete supplies purchase details: %w", err)
		}
		return nil
	})
}

var _ purchase.Repository = (*GormSuppliesPurchaseRepository)(nil)
