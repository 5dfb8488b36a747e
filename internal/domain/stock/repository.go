package stock

import (
	"context"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ResourceRepository defines the interface for stock resource persistence.
// Quantities change only through Ledger, never by writing Save from elsewhere.
type ResourceRepository interface {
	// FindByID finds a live resource by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockResource, error)

	// FindByIDForUpdate loads a resource, soft-deleted or not, and takes a row lock
	// that is held until the surrounding transaction ends
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*StockResource, error)

	// FindAll lists live resources, optionally filtered by kind through filter.Filters["kind"]
	FindAll(ctx context.Context, filter shared.Filter) ([]StockResource, int64, error)

	// Save creates or updates a resource
	Save(ctx context.Context, resource *StockResource) error

	// Delete soft-deletes a resource
	Delete(ctx context.Context, id uuid.UUID) error
}

// MovementRepository is the append-only store of ledger movements
type MovementRepository interface {
	// Append records a movement
	Append(ctx context.Context, movement *StockMovement) error

	// FindByResource lists movements of a resource, newest first
	FindByResource(ctx context.Context, resourceID uuid.UUID, filter shared.Filter) ([]StockMovement, int64, error)

	// FindByAggregate lists movements caused by the lines of one aggregate
	FindByAggregate(ctx context.Context, refType ReferenceType, aggregateID uuid.UUID) ([]StockMovement, error)
}
