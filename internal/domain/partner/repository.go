package partner

import (
	"context"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for partner persistence
type Repository interface {
	// FindByID finds a live partner by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Partner, error)

	// FindByIDs finds the live partners among ids; missing ids are simply absent
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]Partner, error)

	// FindAll finds partners matching the filter, filter.Filters["kind"] narrows by kind
	FindAll(ctx context.Context, filter shared.Filter) ([]Partner, int64, error)

	// ExistsByEmail checks whether another live partner uses email
	ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error)

	// Save creates or updates a partner
	Save(ctx context.Context, partner *Partner) error

	// Delete soft-deletes a partner
	Delete(ctx context.Context, id uuid.UUID) error
}
