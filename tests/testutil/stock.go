package testutil

import (
	"context"
	"sort"
	"sync"
	"testing"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// StockStore is an in-memory stock.ResourceRepository and stock.MovementRepository.
// It has no transactions; Snapshot and Restore stand in for a rollback, and
// Checkpoint plugs them into reconciliation.RollbackScope.
type StockStore struct {
	mu        sync.Mutex
	resources map[uuid.UUID]stock.StockResource
	movements []stock.StockMovement
}

// NewStockStore creates an empty store
func NewStockStore() *StockStore {
	return &StockStore{resources: make(map[uuid.UUID]stock.StockResource)}
}

// AddResource registers a resource holding grams (or milliliters) of stock
func (s *StockStore) AddResource(t *testing.T, kind stock.ResourceKind, family valueobject.UnitFamily, canonical int64) uuid.UUID {
	t.Helper()
	r, err := stock.NewStockResource(uuid.New(), kind, "resource-"+uuid.NewString()[:8], family)
	require.NoError(t, err)
	r.Quantity = decimal.NewFromInt(canonical)
	require.NoError(t, s.Save(context.Background(), r))
	return r.ID
}

// Quantity returns the stored quantity of a resource
func (s *StockStore) Quantity(id uuid.UUID) decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.resources[id].Quantity
}

// Movements returns every appended movement in order
func (s *StockStore) Movements() []stock.StockMovement {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]stock.StockMovement(nil), s.movements...)
}

// StockState is a copy of the store contents
type StockState struct {
	resources map[uuid.UUID]stock.StockResource
	movements int
}

// Snapshot copies the current contents
func (s *StockStore) Snapshot() StockState {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := make(map[uuid.UUID]stock.StockResource, len(s.resources))
	for id, r := range s.resources {
		copied[id] = r
	}
	return StockState{resources: copied, movements: len(s.movements)}
}

// Restore resets the store to a snapshot
func (s *StockStore) Restore(state StockState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources = state.resources
	s.movements = s.movements[:state.movements]
}

// Checkpoint snapshots the store and returns the function restoring it
func (s *StockStore) Checkpoint() func() {
	state := s.Snapshot()
	return func() { s.Restore(state) }
}

func (s *StockStore) FindByID(_ context.Context, id uuid.UUID) (*stock.StockResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok || r.IsDeleted() {
		return nil, shared.NotFoundError("Stock resource", id)
	}
	return &r, nil
}

func (s *StockStore) FindByIDForUpdate(_ context.Context, id uuid.UUID) (*stock.StockResource, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return nil, shared.NotFoundError("Stock resource", id)
	}
	return &r, nil
}

func (s *StockStore) FindAll(_ context.Context, filter shared.Filter) ([]stock.StockResource, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kind, _ := filter.Filters["kind"].(string)
	out := make([]stock.StockResource, 0, len(s.resources))
	for _, r := range s.resources {
		if r.IsDeleted() || (kind != "" && string(r.Kind) != kind) {
			continue
		}
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, int64(len(out)), nil
}

func (s *StockStore) Save(_ context.Context, r *stock.StockResource) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.resources[r.ID] = *r
	return nil
}

func (s *StockStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.resources[id]
	if !ok {
		return shared.NotFoundError("Stock resource", id)
	}
	r.MarkDeleted()
	s.resources[id] = r
	return nil
}

func (s *StockStore) Append(_ context.Context, mv *stock.StockMovement) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.movements = append(s.movements, *mv)
	return nil
}

func (s *StockStore) FindByResource(_ context.Context, resourceID uuid.UUID, _ shared.Filter) ([]stock.StockMovement, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []stock.StockMovement
	for i := len(s.movements) - 1; i >= 0; i-- {
		if s.movements[i].ResourceID == resourceID {
			out = append(out, s.movements[i])
		}
	}
	return out, int64(len(out)), nil
}

func (s *StockStore) FindByAggregate(_ context.Context, refType stock.ReferenceType, aggregateID uuid.UUID) ([]stock.StockMovement, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []stock.StockMovement
	for _, mv := range s.movements {
		if mv.Reference.Type == refType && mv.Reference.AggregateID == aggregateID {
			out = append(out, mv)
		}
	}
	return out, nil
}

var (
	_ stock.ResourceRepository = (*StockStore)(nil)
	_ stock.MovementRepository = (*StockStore)(nil)
)
