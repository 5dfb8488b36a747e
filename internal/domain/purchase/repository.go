package purchase

import (
	"context"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for supplies purchase persistence
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*SuppliesPurchase, error)

	// FindAll finds purchases matching the filter; filter.Filters["supplier_id"]
	// and filter.Filters["supply_id"] narrow by detail reference
	FindAll(ctx context.Context, filter shared.Filter) ([]SuppliesPurchase, int64, error)

	// Save creates or updates a purchase, soft-deleting details it no longer carries
	Save(ctx context.Context, purchase *SuppliesPurchase) error

	Delete(ctx context.Context, id uuid.UUID) error
}
