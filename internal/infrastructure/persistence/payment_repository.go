package persistence

import (
	"context"
	"fmt"

	"github.com/farmerp/backend/internal/domain/payment"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPaymentRepository implements payment.Repository using GORM
type GormPaymentRepository struct {
	db    *gorm.DB
	lines *GormPaymentLineRepository
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db, lines: NewGormPaymentLineRepository(db)}
}

// FindByID finds a live payment together with the IDs of the lines it settles
func (r *GormPaymentRepository) FindByID(ctx context.Context, id uuid.UUID) (*payment.Payment, error) {
	var model models.PaymentModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, findError(err, "Payment", id)
	}
	lineIDs, err := r.lines.FindLineIDs(ctx, model.Kind, model.ID)
	if err != nil {
		return nil, err
	}
	return model.ToDomain(lineIDs), nil
}

// FindAll finds payments matching the filter
func (r *GormPaymentRepository) FindAll(ctx context.Context, filter shared.Filter) ([]payment.Payment, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PaymentModel{})
	if kind, ok := stringFilter(filter, "kind"); ok {
		query = query.Where("kind = ?", kind)
	}
	if partnerID, ok := uuidFilter(filter, "partner_id"); ok {
		query = query.Where("partner_id = ?", partnerID)
	}
	query = applyDateRange(query, "date", filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	var rows []models.PaymentModel
	if err := applyPage(applyOrder(query, filter, PaymentSortFields, "date"), filter).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}

	payments := make([]payment.Payment, len(rows))
	for i := range rows {
		lineIDs, err := r.lines.FindLineIDs(ctx, rows[i].Kind, rows[i].ID)
		if err != nil {
			return nil, 0, err
		}
		payments[i] = *rows[i].ToDomain(lineIDs)
	}
	return payments, total, nil
}

// Save creates or updates a payment. The lines it settles are written by
// GormPaymentLineRepository.Lock.
func (r *GormPaymentRepository) Save(ctx context.Context, p *payment.Payment) error {
	model := models.PaymentModelFromDomain(p)
	if err := saveAggregate(r.db.WithContext(ctx), model, model.Version); err != nil {
		return fmt.Errorf("failed to save payment: %w", err)
	}
	return nil
}

// Delete soft-deletes a payment
func (r *GormPaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return softDelete(r.db.WithContext(ctx), &models.PaymentModel{}, "Payment", id)
}

var _ payment.Repository = (*GormPaymentRepository)(nil)
