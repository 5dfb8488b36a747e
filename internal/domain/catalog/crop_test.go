package catalog

import (
	"errors"
	"strings"
	"testing"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCrop(t *testing.T) {
	t.Run("valid crop", func(t *testing.T) {
		crop, err := NewCrop("Coffee", "Arabica", "North lot", decimal.NewFromInt(3), "kilogramos")
		require.NoError(t, err)
		assert.Equal(t, valueobject.UnitKilograms, crop.StockUnit)
		assert.Equal(t, 1, crop.Version)
	})

	t.Run("empty name", func(t *testing.T) {
		_, err := NewCrop("", "", "", decimal.Zero, valueobject.UnitGrams)
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})

	t.Run("name too long", func(t *testing.T) {
		_, err := NewCrop(strings.Repeat("x", 101), "", "", decimal.Zero, valueobject.UnitGrams)
		assert.Error(t, err)
	})

	t.Run("negative hectares", func(t *testing.T) {
		_, err := NewCrop("Coffee", "", "", decimal.NewFromInt(-1), valueobject.UnitGrams)
		assert.Error(t, err)
	})

	t.Run("unknown unit", func(t *testing.T) {
		_, err := NewCrop("Coffee", "", "", decimal.Zero, "CAJAS")
		assert.True(t, errors.Is(err, shared.ErrInvalidInput))
	})
}

func TestCrop_Update(t *testing.T) {
	crop, err := NewCrop("Coffee", "", "", decimal.Zero, valueobject.UnitKilograms)
	require.NoError(t, err)

	require.NoError(t, crop.Update("Coffee Geisha", "", "South", decimal.NewFromInt(2), valueobject.UnitPounds))
	assert.Equal(t, valueobject.UnitPounds, crop.StockUnit)
	assert.Equal(t, 2, crop.Version)

	require.NoError(t, crop.Update("Coffee Geisha", "", "South", decimal.NewFromInt(2), ""))
	assert.Equal(t, valueobject.UnitPounds, crop.StockUnit)

	err = crop.Update("Coffee Geisha", "", "South", decimal.NewFromInt(2), valueobject.UnitLiters)
	assert.True(t, errors.Is(err, shared.ErrIncompatibleUnitFamily))
	assert.Equal(t, valueobject.UnitPounds, crop.StockUnit)
}

func TestCrop_NewStockResource(t *testing.T) {
	crop, err := NewCrop("Milk", "", "", decimal.Zero, valueobject.UnitLiters)
	require.NoError(t, err)

	r, err := crop.NewStockResource()
	require.NoError(t, err)
	assert.Equal(t, crop.ID, r.ID)
	assert.Equal(t, stock.ResourceKindCrop, r.Kind)
	assert.Equal(t, valueobject.FamilyVolume, r.Family)
	assert.True(t, r.Quantity.IsZero())
}

func TestSupply(t *testing.T) {
	supply, err := NewSupply("Urea", "AgroMax", "", valueobject.UnitKilograms)
	require.NoError(t, err)

	r, err := supply.NewStockResource()
	require.NoError(t, err)
	assert.Equal(t, supply.ID, r.ID)
	assert.Equal(t, stock.ResourceKindSupply, r.Kind)
	assert.Equal(t, valueobject.FamilyMass, r.Family)

	assert.Error(t, supply.Update("Urea", "AgroMax", "", valueobject.UnitGallons))
	require.NoError(t, supply.Update("Urea 46", "AgroMax", "bag", valueobject.UnitGrams))
	assert.Equal(t, "Urea 46", supply.Name)
}
