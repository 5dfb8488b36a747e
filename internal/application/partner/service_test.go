package partner

import (
	"context"
	"errors"
	"testing"

	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// =============================================================================
// Mock Repositories
// =============================================================================

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

// =============================================================================
// Tests
// =============================================================================

func TestPartnerService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("supplier with company", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		svc := NewPartnerService(repo)
		repo.On("ExistsByEmail", ctx, "ventas@agro.example", (*uuid.UUID)(nil)).Return(false, nil)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Partner")).Return(nil)

		resp, err := svc.Create(ctx, CreatePartnerRequest{
			Kind:        partner.KindSupplier,
			FirstName:   "Ana",
			LastName:    "Ruiz",
			Email:       "Ventas@Agro.example",
			CompanyName: "Agro Insumos",
		})

		require.NoError(t, err)
		assert.Equal(t, partner.KindSupplier, resp.Kind)
		assert.Equal(t, "Ana Ruiz", resp.FullName)
		assert.Equal(t, "ventas@agro.example", resp.Email)
		assert.Equal(t, "Agro Insumos", resp.CompanyName)
		repo.AssertExpectations(t)
	})

	t.Run("employee without email skips the uniqueness check", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		svc := NewPartnerService(repo)
		repo.On("Save", ctx, mock.AnythingOfType("*partner.Partner")).Return(nil)

		_, err := svc.Create(ctx, CreatePartnerRequest{Kind: partner.KindEmployee, FirstName: "Luis"})

		require.NoError(t, err)
		repo.AssertNotCalled(t, "ExistsByEmail", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("email already used", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		svc := NewPartnerService(repo)
		repo.On("ExistsByEmail", ctx, "rosa@example.com", (*uuid.UUID)(nil)).Return(true, nil)

		_, err := svc.Create(ctx, CreatePartnerRequest{Kind: partner.KindClient, FirstName: "Rosa", Email: "rosa@example.com"})

		assert.True(t, errors.Is(err, shared.ErrAlreadyExists))
		repo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})

	t.Run("invalid kind", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		svc := NewPartnerService(repo)

		_, err := svc.Create(ctx, CreatePartnerRequest{Kind: "ADMIN", FirstName: "Rosa"})

		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestPartnerService_Update(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPartnerRepository)
	svc := NewPartnerService(repo)

	existing, err := partner.NewPartner(partner.KindClient, "Rosa", "Market", "rosa@example.com", "")
	require.NoError(t, err)
	repo.On("FindByID", ctx, existing.ID).Return(existing, nil)
	repo.On("ExistsByEmail", ctx, "rosa.m@example.com", &existing.ID).Return(false, nil)
	repo.On("Save", ctx, existing).Return(nil)

	resp, err := svc.Update(ctx, existing.ID, UpdatePartnerRequest{
		FirstName: "Rosa",
		LastName:  "Mercado",
		Email:     "rosa.m@example.com",
		Address:   "Km 4 via al mar",
	})

	require.NoError(t, err)
	assert.Equal(t, partner.KindClient, resp.Kind)
	assert.Equal(t, "Mercado", resp.LastName)
	assert.Equal(t, "Km 4 via al mar", resp.Address)
	assert.Equal(t, 2, resp.Version)
}

func TestPartnerService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("soft-deletes", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		svc := NewPartnerService(repo)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(&partner.Partner{}, nil)
		repo.On("Delete", ctx, id).Return(nil)

		require.NoError(t, svc.Delete(ctx, id))
		repo.AssertExpectations(t)
	})

	t.Run("missing partner", func(t *testing.T) {
		repo := new(MockPartnerRepository)
		svc := NewPartnerService(repo)
		id := uuid.New()
		repo.On("FindByID", ctx, id).Return(nil, shared.NotFoundError("Partner", id))

		err := svc.Delete(ctx, id)

		assert.True(t, errors.Is(err, shared.ErrNotFound))
		repo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestPartnerService_List_KindFilter(t *testing.T) {
	ctx := context.Background()
	repo := new(MockPartnerRepository)
	svc := NewPartnerService(repo)

	employee, err := partner.NewPartner(partner.KindEmployee, "Luis", "Gomez", "", "")
	require.NoError(t, err)
	repo.On("FindAll", ctx, mock.MatchedBy(func(f shared.Filter) bool {
		return f.Filters["kind"] == "EMPLOYEE" && f.Page == 1 && f.PageSize == 20
	})).Return([]partner.Partner{*employee}, int64(1), nil)

	page, err := svc.List(ctx, PartnerListFilter{Kind: "EMPLOYEE"})

	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "Luis Gomez", page.Items[0].FullName)
	assert.Equal(t, int64(1), page.Total)
}
