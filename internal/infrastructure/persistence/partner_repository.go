package persistence

import (
	"context"
	"fmt"
	"strings"

	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormPartnerRepository implements partner.Repository using GORM
type GormPartnerRepository struct {
	db *gorm.DB
}

// NewGormPartnerRepository creates a new GormPartnerRepository
func NewGormPartnerRepository(db *gorm.DB) *GormPartnerRepository {
	return &GormPartnerRepository{db: db}
}

// FindByID finds a live partner by its ID
func (r *GormPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	var model models.PartnerModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, findError(err, "Partner", id)
	}
	return model.ToDomain(), nil
}

// FindByIDs finds the live partners among ids
func (r *GormPartnerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Partner, error) {
	if len(ids) == 0 {
		return []partner.Partner{}, nil
	}
	var rows []models.PartnerModel
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load partners: %w", err)
	}
	return toPartners(rows), nil
}

// FindAll finds partners matching the filter
func (r *GormPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Partner, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.PartnerModel{})
	if kind, ok := stringFilter(filter, "kind"); ok {
		query = query.Where("kind = ?", kind)
	}
	query = applySearch(query, filter.Search, "first_name", "last_name", "email", "company_name")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count partners: %w", err)
	}

	var rows []models.PartnerModel
	if err := applyPage(applyOrder(query, filter, PartnerSortFields, "first_name"), filter).Find(&rows).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list partners: %w", err)
	}
	return toPartners(rows), total, nil
}

// ExistsByEmail checks whether another live partner uses email, ignoring case
func (r *GormPartnerRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.PartnerModel{}).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email)))
	if excludeID != nil {
		query = query.Where("id <> ?", *excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check partner email: %w", err)
	}
	return count > 0, nil
}

// Save creates or updates a partner
func (r *GormPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	model := models.PartnerModelFromDomain(p)
	if err := saveAggregate(r.db.WithContext(ctx), model, model.Version); err != nil {
		return fmt.Errorf("failed to save partner: %w", err)
	}
	return nil
}

// Delete soft-deletes a partner
func (r *GormPartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return softDelete(r.db.WithContext(ctx), &models.PartnerModel{}, "Partner", id)
}

func toPartners(rows []models.PartnerModel) []partner.Partner {
	partners := make([]partner.Partner, len(rows))
	for i := range rows {
		partners[i] = *rows[i].ToDomain()
	}
	return partners
}

var _ partner.Repository = (*GormPartnerRepository)(nil)
