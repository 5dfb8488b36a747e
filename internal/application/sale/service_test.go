package sale

import (
	"context"
	"errors"
	"testing"

	"github.com/farmerp/backend/internal/application/reconciliation"
	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/sale"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/farmerp/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockSaleRepository is a mock implementation of sale.Repository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sale.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sale.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sale.Sale, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]sale.Sale), args.Get(1).(int64), args.Error(2)
}

func (m *MockSaleRepository) Save(ctx context.Context, s *sale.Sale) error {
	return m.Called(ctx, s).Error(0)
}

func (m *MockSaleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

// MockPartnerRepository is a mock implementation of partner.Repository
type MockPartnerRepository struct {
	mock.Mock
}

func (m *MockPartnerRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Partner, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]partner.Partner, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]partner.Partner), args.Error(1)
}

func (m *MockPartnerRepository) FindAll(ctx context.Context, filter shared.Filter) ([]partner.Partner, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]partner.Partner), args.Get(1).(int64), args.Error(2)
}

func (m *MockPartnerRepository) ExistsByEmail(ctx context.Context, email string, excludeID *uuid.UUID) (bool, error) {
	args := m.Called(ctx, email, excludeID)
	return args.Bool(0), args.Error(1)
}

func (m *MockPartnerRepository) Save(ctx context.Context, p *partner.Partner) error {
	return m.Called(ctx, p).Error(0)
}

func (m *MockPartnerRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type testEnv struct {
	service *SaleService
	sales   *MockSaleRepository
	store   *testutil.StockStore
	client  partner.Partner
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	client, err := partner.NewPartner(partner.KindClient, "Rosa", "Market", "rosa@example.com", "")
	require.NoError(t, err)

	partners := new(MockPartnerRepository)
	partners.On("FindByIDs", mock.Anything, mock.Anything).Return([]partner.Partner{*client}, nil).Maybe()

	env := &testEnv{
		sales:  new(MockSaleRepository),
		store:  testutil.NewStockStore(),
		client: *client,
	}
	scope := &reconciliation.RollbackScope{
		NoOpTransactionScope: reconciliation.NoOpTransactionScope{Resources: env.store, Movements: env.store, Sales: env.sales},
		Checkpoint:           env.store.Checkpoint,
	}
	env.service = NewSaleService(env.sales, partners, scope)
	return env
}

func (e *testEnv) line(crop uuid.UUID, qty int64, unit valueobject.MeasureUnit) SaleDetailInput {
	return SaleDetailInput{
		ClientID:  e.client.ID,
		CropID:    crop,
		Quantity:  decimal.NewFromInt(qty),
		Unit:      unit,
		UnitPrice: decimal.NewFromInt(10),
		Total:     decimal.NewFromInt(qty * 10),
	}
}

func request(unit valueobject.MeasureUnit, qty int64, lines ...SaleDetailInput) SaleRequest {
	req := SaleRequest{Date: "2024-05-10", Quantity: decimal.NewFromInt(qty), Unit: unit, Details: lines}
	for _, l := range lines {
		req.Total = req.Total.Add(l.Total)
	}
	return req
}

func TestSaleService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("takes every line out of its crop", func(t *testing.T) {
		env := newTestEnv(t)
		coffee := env.store.AddResource(t, stock.ResourceKindCrop, valueobject.FamilyMass, 5000)
		cocoa := env.store.AddResource(t, stock.ResourceKindCrop, valueobject.FamilyMass, 5000)
		env.sales.On("Save", mock.Anything, mock.AnythingOfType("*sale.Sale")).Return(nil)

		_, err := env.service.Create(ctx, request(valueobject.UnitGrams, 3000,
			env.line(coffee, 1, valueobject.UnitKilograms),
			env.line(cocoa, 2000, valueobject.UnitGrams),
		))

		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(4000).Equal(env.store.Quantity(coffee)))
		assert.True(t, decimal.NewFromInt(3000).Equal(env.store.Quantity(cocoa)))
	})

	t.Run("selling exactly the available stock leaves zero", func(t *testing.T) {
		env := newTestEnv(t)
		coffee := env.store.AddResource(t, stock.ResourceKindCrop, valueobject.FamilyMass, 2000)
		env.sales.On("Save", mock.Anything, mock.AnythingOfType("*sale.Sale")).Return(nil)

		_, err := env.service.Create(ctx, request(valueobject.UnitKilograms, 2,
			env.line(coffee, 2, valueobject.UnitKilograms)))
		require.NoError(t, err)
		assert.True(t, env.store.Quantity(coffee).IsZero())

		_, err = env.service.Create(ctx, request(valueobject.UnitGrams, 1,
			env.line(coffee, 1, valueobject.UnitGrams)))

		var insufficient *stock.InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, coffee, insufficient.ResourceID)
		assert.True(t, insufficient.Available.IsZero())
		assert.True(t, env.store.Quantity(coffee).IsZero())
	})

	t.Run("second line short of stock undoes the first", func(t *testing.T) {
		env := newTestEnv(t)
		coffee := env.store.AddResource(t, stock.ResourceKindCrop, valueobject.FamilyMass, 1000)

		_, err := env.service.Create(ctx, request(valueobject.UnitGrams, 1200,
			env.line(coffee, 600, valueobject.UnitGrams),
			env.line(coffee, 600, valueobject.UnitGrams),
		))

		var insufficient *stock.InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.True(t, decimal.NewFromInt(400).Equal(insufficient.Available))
		assert.True(t, decimal.NewFromInt(1000).Equal(env.store.Quantity(coffee)))
		assert.Empty(t, env.store.Movements())
		env.sales.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("line total must equal quantity times price", func(t *testing.T) {
		env := newTestEnv(t)
		coffee := env.store.AddResource(t, stock.ResourceKindCrop, valueobject.FamilyMass, 2000)
		line := env.line(coffee, 2, valueobject.UnitKilograms)
		line.Total = decimal.NewFromInt(1)

		_, err := env.service.Create(ctx, request(valueobject.UnitKilograms, 2, line))

		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
		assert.Empty(t, env.store.Movements())
	})

	t.Run("selling to a supplier is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.client.Kind = partner.KindSupplier
		partners := new(MockPartnerRepository)
		partners.On("FindByIDs", mock.Anything, mock.Anything).Return([]partner.Partner{env.client}, nil)
		env.service = NewSaleService(env.sales, partners, &reconciliation.NoOpTransactionScope{
			Resources: env.store, Movements: env.store, Sales: env.sales,
		})
		coffee := env.store.AddResource(t, stock.ResourceKindCrop, valueobject.FamilyMass, 2000)

		_, err := env.service.Create(ctx, request(valueobject.UnitKilograms, 1,
			env.line(coffee, 1, valueobject.UnitKilograms)))

		var mismatch *partner.KindMismatchError
		require.True(t, errors.As(err, &mismatch))
		assert.Equal(t, partner.KindClient, mismatch.Expected)
	})

	t.Run("supply ids are not crops", func(t *testing.T) {
		env := newTestEnv(t)
		fertilizer := env.store.AddResource(t, stock.ResourceKindSupply, valueobject.FamilyMass, 2000)

		_, err := env.service.Create(ctx, request(valueobject.UnitKilograms, 1,
			env.line(fertilizer, 1, valueobject.UnitKilograms)))

		assert.True(t, errors.Is(err, shared.ErrNotFound))
		assert.True(t, decimal.NewFromInt(2000).Equal(env.store.Quantity(fertilizer)))
	})
}

func TestSaleService_Update(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	coffee := env.store.AddResource(t, stock.ResourceKindCrop, valueobject.FamilyMass, 0)

	draft, err := request(valueobject.UnitKilograms, 5, env.line(coffee, 5, valueobject.UnitKilograms)).Draft()
	require.NoError(t, err)
	existing, err := sale.New(draft)
	require.NoError(t, err)
	env.sales.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	env.sales.On("Save", mock.Anything, existing).Return(nil)

	lineID := existing.Details[0].ID
	smaller := env.line(coffee, 4, valueobject.UnitKilograms)
	smaller.ID = &lineID

	resp, err := env.service.Update(ctx, existing.ID, request(valueobject.UnitKilograms, 4, smaller))

	require.NoError(t, err)
	assert.Equal(t, lineID, resp.Details[0].ID)
	assert.True(t, decimal.NewFromInt(1000).Equal(env.store.Quantity(coffee)))
}

func TestSaleService_Remove(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	coffee := env.store.AddResource(t, stock.ResourceKindCrop, valueobject.FamilyMass, 0)

	draft, err := request(valueobject.UnitKilograms, 3, env.line(coffee, 3, valueobject.UnitKilograms)).Draft()
	require.NoError(t, err)
	existing, err := sale.New(draft)
	require.NoError(t, err)
	env.sales.On("FindByID", mock.Anything, existing.ID).Return(existing, nil)
	env.sales.On("Delete", mock.Anything, existing.ID).Return(nil)

	require.NoError(t, env.service.Remove(ctx, existing.ID))
	assert.True(t, decimal.NewFromInt(3000).Equal(env.store.Quantity(coffee)))
}
