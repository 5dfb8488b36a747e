package stock

import (
	"errors"
	"testing"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStockResource(t *testing.T) {
	id := uuid.New()

	r, err := NewStockResource(id, ResourceKindCrop, "Tomato", valueobject.FamilyMass)
	require.NoError(t, err)
	assert.Equal(t, id, r.ID)
	assert.True(t, r.Quantity.IsZero())
	assert.Equal(t, valueobject.UnitGrams, r.CanonicalUnit())
	assert.Equal(t, 1, r.Version)

	_, err = NewStockResource(uuid.Nil, ResourceKindCrop, "Tomato", valueobject.FamilyMass)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = NewStockResource(id, ResourceKind("SEED"), "Tomato", valueobject.FamilyMass)
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))

	_, err = NewStockResource(id, ResourceKindSupply, "Fertilizer", valueobject.UnitFamily("LENGTH"))
	assert.True(t, errors.Is(err, shared.ErrInvalidInput))
}

func TestStockResource_IncreaseDecrease(t *testing.T) {
	r, err := NewStockResource(uuid.New(), ResourceKindSupply, "Fertilizer", valueobject.FamilyVolume)
	require.NoError(t, err)

	require.NoError(t, r.Increase(decimal.NewFromInt(500)))
	assert.True(t, decimal.NewFromInt(500).Equal(r.Quantity))
	assert.Equal(t, 2, r.Version)

	t.Run("decrement to exactly zero", func(t *testing.T) {
		require.NoError(t, r.Decrease(decimal.NewFromInt(500)))
		assert.True(t, r.Quantity.IsZero())
	})

	t.Run("decrement below zero leaves quantity unchanged", func(t *testing.T) {
		require.NoError(t, r.Increase(decimal.NewFromInt(10)))
		version := r.Version

		err := r.Decrease(decimal.NewFromInt(11))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

		var insufficient *InsufficientStockError
		require.True(t, errors.As(err, &insufficient))
		assert.True(t, decimal.NewFromInt(11).Equal(insufficient.Requested))
		assert.True(t, decimal.NewFromInt(10).Equal(insufficient.Available))
		assert.Equal(t, valueobject.UnitMilliliters, insufficient.Unit)

		assert.True(t, decimal.NewFromInt(10).Equal(r.Quantity))
		assert.Equal(t, version, r.Version)
	})

	t.Run("negative amounts rejected", func(t *testing.T) {
		assert.Error(t, r.Increase(decimal.NewFromInt(-1)))
		assert.Error(t, r.Decrease(decimal.NewFromInt(-1)))
	})
}

func TestDirection_Opposite(t *testing.T) {
	assert.Equal(t, DirectionDecrement, DirectionIncrement.Opposite())
	assert.Equal(t, DirectionIncrement, DirectionDecrement.Opposite())
	assert.False(t, Direction("SIDEWAYS").IsValid())
}
