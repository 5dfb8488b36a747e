package persistence

import (
	"context"
	"fmt"

	"github.com/farmerp/backend/internal/domain/sale"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormSaleRepository implements sale.Repository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a live sale together with its live details
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	var model models.SaleModel
	if err := r.db.WithContext(ctx).
		Preload("Details", orderedDetails).
		First(&model, "id = ?", id).Error; err != nil {
		return nil, findError(err, "Sale", id)
	}
	return model.ToDomain(), nil
}

// FindAll finds sales matching the filter. Client and crop filters match
// sales having at least one live detail with that reference.
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, int64, error) {
	db := r.db.WithContext(ctx)
	query := db.Model(&models.SaleModel{})
	if clientID, ok := uuidFilter(filter, "client_id"); ok {
		query = query.Where("id IN (?)", db.Model(&models.SaleDetailModel{}).Select("sale_id").Where("client_id = ?", clientID))
	}
	if cropID, ok := uuidFilter(filter, "crop_id"); ok {
		query = query.Where("id IN (?)", db.Model(&models.SaleDetailModel{}).Select("sale_id").Where("crop_id = ?", cropID))
	}
	query = applyDateRange(query, "date", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	var rows []models.SaleModel
	query = applyPage(applyOrder(query, filter, SaleSortFields, "date"), filter)
	if err := query.Preload("Details", orderedDetails).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}

	sales := make([]sale.Sale, len(rows))
	for i := range rows {
		sales[i] = *rows[i].ToDomain()
	}
	return sales, total, nil
}

// Save creates or updates a sale and reconciles its detail rows
func (r *GormSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	model := models.SaleModelFromDomain(s)
	ids := make([]uuid.UUID, len(model.Details))
	for i := range model.Details {
		ids[i] = model.Details[i].ID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := saveAggregate(tx, model, model.Version); err != nil {
			return fmt.Errorf("failed to save sale: %w", err)
		}
		if err := syncDetails(tx, "sale_id", model.ID, ids, model.Details); err != nil {
			return fmt.Errorf("failed to save sale details: %w", err)
		}
		return nil
	})
}

// Delete soft-deletes a sale and its details
func (r *GormSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Delete(&models.SaleModel{}, "id = ?", id)
		if result.Error != nil {
			return fmt.Errorf("failed to delete sale: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return shared.NotFoundError("Sale", id)
		}
		if err := tx.Where("sale_id = ?", id).Delete(&models.SaleDetailModel{}).Error; err != nil {
			return fmt.Errorf("failed to delete sale details: %w", err)
		}
		return nil
	})
}

var _ sale.Repository = (*GormSaleRepository)(nil)
