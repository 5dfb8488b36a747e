package persistence

import (
	"context"
	"fmt"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/farmerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStockResourceRepository implements stock.ResourceRepository using GORM
type GormStockResourceRepository struct {
	db *gorm.DB
}

// NewGormStockResourceRepository creates a new GormStockResourceRepository
func NewGormStockResourceRepository(db *gorm.DB) *GormStockResourceRepository {
	return &GormStockResourceRepository{db: db}
}

// FindByID finds a live stock resource by its ID
func (r *GormStockResourceRepository) FindByID(ctx context.Context, id uuid.UUID) (*stock.StockResource, error) {
	var model models.StockResourceModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, findError(err, "Stock resource", id)
	}
	return model.ToDomain(), nil
}

// FindByIDForUpdate loads a resource including soft-deleted rows and locks it
// with SELECT ... FOR UPDATE. SQLite has no row locks; its single writer
// already serializes the transaction.
func (r *GormStockResourceRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*stock.StockResource, error) {
	query := r.db.WithContext(ctx).Unscoped()
	if r.db.Dialector.Name() != "sqlite" {
		query = query.Clauses(clause.Locking{Strength: clause.LockingStrengthUpdate})
	}

	var model models.StockResourceModel
	if err := query.First(&model, "id = ?", id).Error; err != nil {
		return nil, findError(err, "Stock resource", id)
	}
	return model.ToDomain(), nil
}

// FindAll lists live resources, optionally filtered by kind
func (r *GormStockResourceRepository) FindAll(ctx context.Context, filter shared.Filter) ([]stock.StockResource, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockResourceModel{})
	if kind, ok := stringFilter(filter, "kind"); ok {
		query = query.Where("kind = ?", kind)
	}
	query = applySearch(query, filter.Search, "name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stock resources: %w", err)
	}

	var rows []models.StockResourceModel
	query = applyPage(applyOrder(query, filter, StockSortFields, "name"), filter)
	if err := query.Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list stock resources: %w", err)
	}

	resources := make([]stock.StockResource, len(rows))
	for i := range rows {
		resources[i] = *rows[i].ToDomain()
	}
	return resources, total, nil
}

// Save creates or updates a resource. Writers hold the row lock taken by
// FindByIDForUpdate, so no version guard is applied here.
func (r *GormStockResourceRepository) Save(ctx context.Context, resource *stock.StockResource) error {
	model := models.StockResourceModelFromDomain(resource)
	if err := r.db.WithContext(ctx).Unscoped().Save(model).Error; err != nil {
		return fmt.Errorf("failed to save stock resource: %w", err)
	}
	return nil
}

// Delete soft-deletes a resource. Its quantity and movements are kept.
func (r *GormStockResourceRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&models.StockResourceModel{}, "id = ?", id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete stock resource: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.NotFoundError("Stock resource", id)
	}
	return nil
}

// GormStockMovementRepository implements stock.MovementRepository using GORM
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append records a movement
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *stock.StockMovement) error {
	if err := r.db.WithContext(ctx).Create(models.StockMovementModelFromDomain(movement)).Error; err != nil {
		return fmt.Errorf("failed to append stock movement: %w", err)
	}
	return nil
}

// FindByResource lists movements of a resource, newest first
func (r *GormStockMovementRepository) FindByResource(ctx context.Context, resourceID uuid.UUID, filter shared.Filter) ([]stock.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovementModel{}).Where("resource_id = ?", resourceID)
	query = applyDateRange(query, "created_at", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count stock movements: %w", err)
	}

	var rows []models.StockMovementModel
	if err := applyPage(query.Order("created_at DESC").Order("id DESC"), filter).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return toMovements(rows), total, nil
}

// FindByAggregate lists movements caused by the lines of one aggregate, oldest first
func (r *GormStockMovementRepository) FindByAggregate(ctx context.Context, refType stock.ReferenceType, aggregateID uuid.UUID) ([]stock.StockMovement, error) {
	var rows []models.StockMovementModel
	if err := r.db.WithContext(ctx).
		Where("reference_type = ? AND aggregate_id = ?", refType, aggregateID).
		Order("created_at ASC").Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to list stock movements: %w", err)
	}
	return toMovements(rows), nil
}

func toMovements(rows []models.StockMovementModel) []stock.StockMovement {
	movements := make([]stock.StockMovement, len(rows))
	for i := range rows {
		movements[i] = *rows[i].ToDomain()
	}
	return movements
}

var (
	_ stock.ResourceRepository = (*GormStockResourceRepository)(nil)
	_ stock.MovementRepository = (*GormStockMovementRepository)(nil)
)
