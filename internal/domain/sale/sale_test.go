package sale

import (
	"errors"
	"testing"
	"time"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func saleDetail(qty int64, unit valueobject.MeasureUnit, price int64) DetailDraft {
	return DetailDraft{
		ClientID:  uuid.New(),
		CropID:    uuid.New(),
		Quantity:  decimal.NewFromInt(qty),
		Unit:      unit,
		UnitPrice: decimal.NewFromInt(price),
		Total:     decimal.NewFromInt(qty * price),
	}
}

func TestNew(t *testing.T) {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

	t.Run("valid sale", func(t *testing.T) {
		s, err := New(Draft{
			Date:     date,
			Quantity: decimal.NewFromInt(3),
			Unit:     valueobject.UnitKilograms,
			Total:    decimal.NewFromInt(7000),
			Details: []DetailDraft{
				saleDetail(2, valueobject.UnitKilograms, 2000),
				saleDetail(1000, valueobject.UnitGrams, 3),
			},
		})
		require.NoError(t, err)
		require.Len(t, s.Details, 2)

		lines := s.LedgerLines()
		assert.Equal(t, s.Details[0].CropID, lines[0].ResourceID)
		assert.Equal(t, s.Details[1].CropID, lines[1].ResourceID)
		assert.True(t, decimal.NewFromInt(3000).Equal(lines[1].Value))
	})

	t.Run("line total must match price", func(t *testing.T) {
		det := saleDetail(2, valueobject.UnitKilograms, 10)
		det.Total = decimal.NewFromInt(21)
		_, err := New(Draft{
			Date:     date,
			Quantity: decimal.NewFromInt(2),
			Unit:     valueobject.UnitKilograms,
			Total:    decimal.NewFromInt(21),
			Details:  []DetailDraft{det},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
		assert.Contains(t, err.Error(), "quantity x unit_price")
	})

	t.Run("quantity mismatch after conversion", func(t *testing.T) {
		_, err := New(Draft{
			Date:     date,
			Quantity: decimal.NewFromInt(3),
			Unit:     valueobject.UnitKilograms,
			Total:    decimal.NewFromInt(20),
			Details:  []DetailDraft{saleDetail(2, valueobject.UnitKilograms, 10)},
		})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not match quantity")
	})

	t.Run("same client twice is allowed", func(t *testing.T) {
		a := saleDetail(1, valueobject.UnitKilograms, 10)
		b := saleDetail(1, valueobject.UnitKilograms, 10)
		b.ClientID = a.ClientID
		_, err := New(Draft{
			Date:     date,
			Quantity: decimal.NewFromInt(2),
			Unit:     valueobject.UnitKilograms,
			Total:    decimal.NewFromInt(20),
			Details:  []DetailDraft{a, b},
		})
		assert.NoError(t, err)
	})
}

func TestSale_ReviseKeepsLocks(t *testing.T) {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	first := saleDetail(1, valueobject.UnitKilograms, 10)
	s, err := New(Draft{Date: date, Quantity: decimal.NewFromInt(1), Unit: valueobject.UnitKilograms, Total: decimal.NewFromInt(10), Details: []DetailDraft{first}})
	require.NoError(t, err)
	payment := uuid.New()
	s.Details[0].PaymentID = &payment

	keep := first
	keep.ID = s.Details[0].ID
	require.NoError(t, s.Revise(Draft{Date: date, Quantity: decimal.NewFromInt(1), Unit: valueobject.UnitKilograms, Total: decimal.NewFromInt(10), Details: []DetailDraft{keep}}))

	assert.True(t, s.Details[0].IsLocked())
	assert.True(t, s.LedgerLines()[0].Locked)
}

func TestSale_DetailIDsMustBelongToTheSale(t *testing.T) {
	date := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	line := saleDetail(1, valueobject.UnitKilograms, 10)
	line.ID = uuid.New()
	draft := Draft{Date: date, Quantity: decimal.NewFromInt(1), Unit: valueobject.UnitKilograms, Total: decimal.NewFromInt(10), Details: []DetailDraft{line}}

	_, err := New(draft)
	assert.True(t, errors.Is(err, shared.ErrValidationFailed))

	line.ID = uuid.Nil
	s, err := New(Draft{Date: date, Quantity: decimal.NewFromInt(1), Unit: valueobject.UnitKilograms, Total: decimal.NewFromInt(10), Details: []DetailDraft{line}})
	require.NoError(t, err)
	err = s.Revise(draft)
	assert.True(t, errors.Is(err, shared.ErrValidationFailed))
	assert.Equal(t, 1, s.Version)
}
