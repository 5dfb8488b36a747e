package partner

import (
	"context"
	"fmt"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Verifier checks that detail lines reference existing partners of the right kind
type Verifier struct {
	repo Repository
}

// NewVerifier creates a new Verifier
func NewVerifier(repo Repository) *Verifier {
	return &Verifier{repo: repo}
}

// Require fails unless every id names a live partner of kind.
// Duplicate ids are checked once.
func (v *Verifier) Require(ctx context.Context, kind Kind, ids ...uuid.UUID) error {
	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]bool, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}
	if len(unique) == 0 {
		return nil
	}

	found, err := v.repo.FindByIDs(ctx, unique)
	if err != nil {
		return fmt.Errorf("failed to load partners: %w", err)
	}
	byID := make(map[uuid.UUID]*Partner, len(found))
	for i := range found {
		byID[found[i].ID] = &found[i]
	}

	for _, id := range unique {
		p, ok := byID[id]
		if !ok {
			return shared.NotFoundError(entityName(kind), id)
		}
		if !p.Is(kind) {
			return &KindMismatchError{PartnerID: id, Expected: kind, Actual: p.Kind}
		}
	}
	return nil
}

func entityName(kind Kind) string {
	switch kind {
	case KindClient:
		return "Client"
	case KindEmployee:
		return "Employee"
	case KindSupplier:
		return "Supplier"
	}
	return "Partner"
}
