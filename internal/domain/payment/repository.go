package payment

import (
	"context"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository defines the interface for payment persistence.
// LineIDs is derived from the lines that reference the payment, so a payment
// is saved before its lines are locked.
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Payment, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Payment, int64, error)
	Save(ctx context.Context, payment *Payment) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// LineRepository reads and locks the detail lines of one Kind
type LineRepository interface {
	// FindLines loads the live lines among ids; missing ids are absent from the result
	FindLines(ctx context.Context, kind Kind, ids []uuid.UUID) ([]Line, error)

	// Lock marks lines as settled by paymentID
	Lock(ctx context.Context, kind Kind, paymentID uuid.UUID, ids []uuid.UUID) error

	// Unlock releases every line settled by paymentID
	Unlock(ctx context.Context, kind Kind, paymentID uuid.UUID) error

	// FindLineIDs lists the lines settled by paymentID
	FindLineIDs(ctx context.Context, kind Kind, paymentID uuid.UUID) ([]uuid.UUID, error)
}
