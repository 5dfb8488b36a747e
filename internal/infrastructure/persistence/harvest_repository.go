package persistence

import (
	"context"
	"fmt"

	"github.com/farmerp/backend/internal/domain/harvest"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormHarvestRepository implements harvest.Repository using GORM
type GormHarvestRepository struct {
	db *gorm.DB
}

// NewGormHarvestRepository creates a new GormHarvestRepository
func NewGormHarvestRepository(db *gorm.DB) *GormHarvestRepository {
	return &GormHarvestRepository{db: db}
}

// FindByID finds a live harvest together with its live details
func (r *GormHarvestRepository) FindByID(ctx context.Context, id uuid.UUID) (*harvest.Harvest, error) {
	var model models.HarvestModel
	if err := r.db.WithContext(ctx).
		Preload("Details", orderedDetails).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, findError(err, "Harvest", id)
	}
	return model.ToDomain(), nil
}

// FindAll finds harvests matching the filter
func (r *GormHarvestRepository) FindAll(ctx context.Context, filter shared.Filter) ([]harvest.Harvest, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.HarvestModel{})
	if cropID, ok := uuidFilter(filter, "crop_id"); ok {
		query = query.Where("crop_id = ?", cropID)
	}
	query = applyDateRange(query, "date", filter)
	query = applySearch(query, filter.Search, "observation")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count harvests: %w", err)
	}

	var rows []models.HarvestModel
	query = applyPage(applyOrder(query, filter, HarvestSortFields, "date"), filter)
	if err := query.Preload("Details", orderedDetails).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list harvests: %w", err)
	}

	harvests := make([]harvest.Harvest, len(rows))
	for i := range rows {
		harvests[i] = *rows[i].ToDomain()
	}
	return harvests, total, nil
}

// Save creates or updates a harvest and reconciles its detail rows
func (r *GormHarvestRepository) Save(ctx context.Context, h *harvest.Harvest) error {
	model := models.HarvestModelFromDomain(h)
	ids := make([]uuid.UUID, len(model.Details))
	for i := range model.Details {
		ids[i] = model.Details[i].ID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveAggregate(tx, model, model.Version); err != nil {
			return fmt.Errorf("failed to save harvest: %w", err)
		}
		if err := syncDetails(tx, "harvest_id", model.ID, ids, model.Details); err != nil {
			return fmt.Errorf("failed to save harvest details: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes a harvest and its details
func (r *GormHarvestRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.HarvestModel{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete harvest: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NotFoundError("Harvest", id)
		}
		if err := tx.Where("harvest_id = ?", id).Delete(&models.HarvestDetailModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete harvest details: %w", err)
		}
		return nil
	})
}

var _ harvest.Repository = (*GormHarvestRepository)(nil)
