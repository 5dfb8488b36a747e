package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/farmerp/backend/internal/domain/catalog"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormCropRepository implements catalog.CropRepository using GORM
type GormCropRepository struct {
	db *gorm.DB
}

// NewGormCropRepository creates a new GormCropRepository
func NewGormCropRepository(db *gorm.DB) *GormCropRepository {
	return &GormCropRepository{db: db}
}

// FindByID finds a live crop by its ID
func (r *GormCropRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Crop, error) {
	var model models.CropModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, findError(err, "Crop", id)
	}
	return model.ToDomain(), nil
}

// FindAll finds crops matching the filter
func (r *GormCropRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Crop, int64, error) {
	query := applySearch(r.db.WithContext(ctx).Model(&models.CropModel{}), filter.Search, "name", "location")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count crops: %w", err)
	}

	var rows []models.CropModel
	if err := applyPage(applyOrder(query, filter, CatalogSortFields, "name"), filter).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list crops: %w", err)
	}

	crops := make([]catalog.Crop, len(rows))
	for i := range rows {
		crops[i] = *rows[i].ToDomain()
	}
	return crops, total, nil
}

// ExistsByName checks whether another live crop uses name, ignoring case
func (r *GormCropRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	return existsByName(r.db.WithContext(ctx).Model(&models.CropModel{}), name, excludeID)
}

// Save creates or updates a crop
func (r *GormCropRepository) Save(ctx context.Context, crop *catalog.Crop) error {
	model := models.CropModelFromDomain(crop)
	if err := saveAggregate(r.db.WithContext(ctx), model, model.Version); err != nil {
		return fmt.Errorf("failed to save crop: %w", err)
	}
	return nil
}

// Delete soft-deletes a crop
func (r *GormCropRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return softDelete(r.db.WithContext(ctx), &models.CropModel{}, "Crop", id)
}

// GormSupplyRepository implements catalog.SupplyRepository using GORM
type GormSupplyRepository struct {
	db *gorm.DB
}

// NewGormSupplyRepository creates a new GormSupplyRepository
func NewGormSupplyRepository(db *gorm.DB) *GormSupplyRepository {
	return &GormSupplyRepository{db: db}
}

// FindByID finds a live supply by its ID
func (r *GormSupplyRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Supply, error) {
	var model models.SupplyModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, findError(err, "Supply", id)
	}
	return model.ToDomain(), nil
}

// FindAll finds supplies matching the filter
func (r *GormSupplyRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Supply, int64, error) {
	query := applySearch(r.db.WithContext(ctx).Model(&models.SupplyModel{}), filter.Search, "name", "brand")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count supplies: %w", err)
	}

	var rows []models.SupplyModel
	if err := applyPage(applyOrder(query, filter, CatalogSortFields, "name"), filter).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list supplies: %w", err)
	}

	supplies := make([]catalog.Supply, len(rows))
	for i := range rows {
		supplies[i] = *rows[i].ToDomain()
	}
	return supplies, total, nil
}

// ExistsByName checks whether another live supply uses name, ignoring case
func (r *GormSupplyRepository) ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error) {
	return existsByName(r.db.WithContext(ctx).Model(&models.SupplyModel{}), name, excludeID)
}

// Save creates or updates a supply
func (r *GormSupplyRepository) Save(ctx context.Context, supply *catalog.Supply) error {
	model := models.SupplyModelFromDomain(supply)
	if err := saveAggregate(r.db.WithContext(ctx), model, model.Version); err != nil {
		return fmt.Errorf("failed to save supply: %w", err)
	}
	return nil
}

// Delete soft-deletes a supply
func (r *GormSupplyRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return softDelete(r.db.WithContext(ctx), &models.SupplyModel{}, "Supply", id)
}

func existsByName(query *gorm.DB, name string, excludeID *uuid.UUID) (bool, error) {
	query = query.Where("LOWER(name) = ?", strings.ToLower(strings.TrimSpace(name)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// softDelete stamps deleted_at on one live row of model's table
func softDelete(db *gorm.DB, model any, entity string, id uuid.UUID) error {
	result := db.Delete(model, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete %s: %w", strings.ToLower(entity), result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFoundError(entity, id)
	}
	return nil
}

var (
	_ catalog.CropRepository   = (*GormCropRepository)(nil)
	_ catalog.SupplyRepository = (*GormSupplyRepository)(nil)
)
