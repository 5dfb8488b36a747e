package catalog

import (
	"context"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CropRepository defines the interface for crop persistence
type CropRepository interface {
	// FindByID finds a live crop by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Crop, error)

	// FindAll finds crops matching the filter together with the total count
	FindAll(ctx context.Context, filter shared.Filter) ([]Crop, int64, error)

	// ExistsByName checks whether another live crop uses name
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates a crop
	Save(ctx context.Context, crop *Crop) error

	// Delete soft-deletes a crop
	Delete(ctx context.Context, id uuid.UUID) error
}

// SupplyRepository defines the interface for supply persistence
type SupplyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Supply, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Supply, int64, error)
	ExistsByName(ctx context.Context, name string, excludeID *uuid.UUID) (bool, error)
	Save(ctx context.Context, supply *Supply) error
	Delete(ctx context.Context, id uuid.UUID) error
}
