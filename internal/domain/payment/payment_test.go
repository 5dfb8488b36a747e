package payment

import (
	"errors"
	"testing"
	"time"

	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	employee := uuid.New()
	date := time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
	l1 := Line{ID: uuid.New(), PartnerID: employee, Value: decimal.NewFromInt(30000)}
	l2 := Line{ID: uuid.New(), PartnerID: employee, Value: decimal.NewFromInt(20000)}

	t.Run("settles matching lines", func(t *testing.T) {
		p, err := New(KindHarvest, employee, date, decimal.NewFromInt(50000), "CASH", []uuid.UUID{l1.ID, l2.ID}, []Line{l2, l1})
		require.NoError(t, err)
		assert.Equal(t, []uuid.UUID{l1.ID, l2.ID}, p.LineIDs)
		assert.Equal(t, partner.KindEmployee, p.Kind.PartnerKind())
	})

	t.Run("total mismatch", func(t *testing.T) {
		_, err := New(KindHarvest, employee, date, decimal.NewFromInt(10), "CASH", []uuid.UUID{l1.ID}, []Line{l1})
		assert.True(t, errors.Is(err, shared.ErrValidationFailed))
	})

	t.Run("line of another partner", func(t *testing.T) {
		other := Line{ID: uuid.New(), PartnerID: uuid.New(), Value: decimal.NewFromInt(5)}
		_, err := New(KindHarvest, employee, date, decimal.NewFromInt(5), "CASH", []uuid.UUID{other.ID}, []Line{other})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not belong")
	})

	t.Run("already settled line", func(t *testing.T) {
		settled := l1
		prev := uuid.New()
		settled.PaymentID = &prev
		_, err := New(KindHarvest, employee, date, settled.Value, "CASH", []uuid.UUID{settled.ID}, []Line{settled})
		assert.True(t, errors.Is(err, shared.ErrLinkedRecordConflict))
	})

	t.Run("missing line", func(t *testing.T) {
		_, err := New(KindSale, employee, date, decimal.NewFromInt(1), "", []uuid.UUID{uuid.New()}, nil)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("invalid header", func(t *testing.T) {
		var verr *shared.ValidationError
		_, err := New(Kind("LOAN"), uuid.Nil, time.Time{}, decimal.Zero, "", nil, nil)
		require.True(t, errors.As(err, &verr))
		assert.Len(t, verr.Violations, 4)
	})
}

func TestKind_PartnerKind(t *testing.T) {
	assert.Equal(t, partner.KindClient, KindSale.PartnerKind())
	assert.Equal(t, partner.KindSupplier, KindPurchase.PartnerKind())
	assert.False(t, Kind("X").IsValid())
}
