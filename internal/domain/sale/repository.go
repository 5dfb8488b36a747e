package sale

import (
	"context"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for sale persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindAll finds sales matching the filter; filter.Filters["client_id"]
	// and filter.Filters["crop_id"] narrow by detail reference
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, int64, error)

	// Save creates or updates a sale, soft-deleting details it no longer carries
	Save(ctx context.Context, sale *Sale) error

	Delete(ctx context.Context, id uuid.UUID) error
}
