package persistence

import (
	"context"
	"fmt"

	"github.com/farmerp/backend/internal/domain/payment"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// lineTable locates the detail lines settled by one payment kind
type lineTable struct {
	name          string
	partnerColumn string
	valueColumn   string
}

var lineTables = map[payment.Kind]lineTable{
	payment.KindHarvest:  {name: "harvest_details", partnerColumn: "employee_id", valueColumn: "value_pay"},
	payment.KindSale:     {name: "sale_details", partnerColumn: "client_id", valueColumn: "total"},
	payment.KindPurchase: {name: "supplies_purchase_details", partnerColumn: "supplier_id", valueColumn: "total"},
}

type lineRow struct {
	ID        uuid.UUID
	PartnerID uuid.UUID
	Value     decimal.Decimal
	PaymentID *uuid.UUID
}

// GormPaymentLineRepository implements payment.LineRepository over the
// harvest, sale and supplies purchase detail tables
type GormPaymentLineRepository struct {
	db *gorm.DB
}

// NewGormPaymentLineRepository creates a new GormPaymentLineRepository
func NewGormPaymentLineRepository(db *gorm.DB) *GormPaymentLineRepository {
	return &GormPaymentLineRepository{db: db}
}

func tableFor(kind payment.Kind) (lineTable, error) {
	t, ok := lineTables[kind]
	if !ok {
		return lineTable{}, shared.NewDomainError(shared.CodeInvalidInput, fmt.Sprintf("unknown payment kind %q", kind))
	}
	return t, nil
}

// FindLines loads the live lines among ids
func (r *GormPaymentLineRepository) FindLines(ctx context.Context, kind payment.Kind, ids []uuid.UUID) ([]payment.Line, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []payment.Line{}, nil
	}

	var rows []lineRow
	if err := r.db.WithContext(ctx).
		Table(t.name).
		Select("id, "+t.partnerColumn+" AS partner_id, "+t.valueColumn+" AS value, payment_id").
		Where("id IN ? AND deleted_at IS NULL", ids).
		Scan(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", t.name, err)
	}

	lines := make([]payment.Line, len(rows))
	for i, row := range rows {
		lines[i] = payment.Line{ID: row.ID, PartnerID: row.PartnerID, Value: row.Value, PaymentID: row.PaymentID}
	}
	return lines, nil
}

// Lock stamps paymentID on every line in ids. Lines already settled or
// removed in the meantime fail the whole lock.
func (r *GormPaymentLineRepository) Lock(ctx context.Context, kind payment.Kind, paymentID uuid.UUID, ids []uuid.UUID) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	result := r.db.WithContext(ctx).
		Table(t.name).
		Where("id IN ? AND payment_id IS NULL AND deleted_at IS NULL", ids).
		Update("payment_id", paymentID)
	if result.Error != nil {
		return fmt.Errorf("failed to lock %s: %w", t.name, result.Error)
	}
	if result.RowsAffected != int64(len(ids)) {
		return shared.NewDomainError(shared.CodeLinkedRecordConflict,
			fmt.Sprintf("%d of %d lines are already settled or removed", int64(len(ids))-result.RowsAffected, len(ids)))
	}
	return nil
}

// Unlock releases every line settled by paymentID
func (r *GormPaymentLineRepository) Unlock(ctx context.Context, kind payment.Kind, paymentID uuid.UUID) error {
	t, err := tableFor(kind)
	if err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).
		Table(t.name).
		Where("payment_id = ?", paymentID).
		Update("payment_id", nil).Error; err != nil {
		return fmt.Errorf("failed to unlock %s: %w", t.name, err)
	}
	return nil
}

// FindLineIDs lists the live lines settled by paymentID
func (r *GormPaymentLineRepository) FindLineIDs(ctx context.Context, kind payment.Kind, paymentID uuid.UUID) ([]uuid.UUID, error) {
	t, err := tableFor(kind)
	if err != nil {
		return nil, err
	}
	var ids []uuid.UUID
	if err := r.db.WithContext(ctx).
		Table(t.name).
		Where("payment_id = ? AND deleted_at IS NULL", paymentID).
		Order("created_at ASC").Order("id ASC").
		Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", t.name, err)
	}
	return ids, nil
}

var _ payment.LineRepository = (*GormPaymentLineRepository)(nil)
