package harvest

import (
	"context"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for harvest persistence.
// A harvest is always loaded and saved together with its live details.
type Repository interface {
	// FindByID finds a live harvest and its live details
	FindByID(ctx context.Context, id uuid.UUID) (*Harvest, error)

	// FindAll finds harvests matching the filter; filter.Filters["crop_id"] narrows by crop
	FindAll(ctx context.Context, filter shared.Filter) ([]Harvest, int64, error)

	// Save creates or updates a harvest. Persisted details absent from
	// harvest.Details are soft-deleted.
	Save(ctx context.Context, harvest *Harvest) error

	// Delete soft-deletes a harvest and its details
	Delete(ctx context.Context, id uuid.UUID) error
}
