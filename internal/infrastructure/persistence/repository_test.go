package persistence

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/farmerp/backend/internal/application/reconciliation"
	"github.com/farmerp/backend/internal/domain/catalog"
	"github.com/farmerp/backend/internal/domain/harvest"
	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/payment"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/farmerp/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := NewDatabase(&config.DatabaseConfig{Driver: config.DriverSQLite, SQLitePath: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db.DB
}

func harvestDraft(details ...harvest.DetailDraft) harvest.Draft {
	d := harvest.Draft{
		CropID:  uuid.New(),
		Date:    time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC),
		Unit:    valueobject.UnitKilograms,
		Details: details,
	}
	for _, det := range details {
		d.Amount = d.Amount.Add(det.Amount)
		d.ValuePay = d.ValuePay.Add(det.ValuePay)
	}
	return d
}

func harvestLine(amount, pay int64) harvest.DetailDraft {
	return harvest.DetailDraft{
		EmployeeID: uuid.New(),
		Amount:     decimal.NewFromInt(amount),
		Unit:       valueobject.UnitKilograms,
		ValuePay:   decimal.NewFromInt(pay),
	}
}

func saveHarvest(t *testing.T, repo *GormHarvestRepository, details ...harvest.DetailDraft) *harvest.Harvest {
	t.Helper()
	h, err := harvest.New(harvestDraft(details...))
	require.NoError(t, err)
	require.NoError(t, repo.Save(context.Background(), h))
	return h
}

func TestHarvestRepository_ReviseSyncsDetails(t *testing.T) {
	ctx := context.Background()
	repo := NewGormHarvestRepository(newTestDB(t))
	h := saveHarvest(t, repo, harvestLine(30, 300), harvestLine(20, 200))

	loaded, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	require.Len(t, loaded.Details, 2)
	assert.Equal(t, 1, loaded.Version)
	assert.True(t, decimal.NewFromInt(50).Equal(loaded.Amount))

	kept := loaded.Details[0]
	draft := harvestDraft(harvest.DetailDraft{
		ID:         kept.ID,
		EmployeeID: kept.EmployeeID,
		Amount:     decimal.NewFromInt(45),
		Unit:       valueobject.UnitKilograms,
		ValuePay:   decimal.NewFromInt(450),
	})
	draft.CropID = loaded.CropID
	require.NoError(t, loaded.Revise(draft))
	require.NoError(t, repo.Save(ctx, loaded))

	revised, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, revised.Version)
	require.Len(t, revised.Details, 1)
	assert.Equal(t, kept.ID, revised.Details[0].ID)
	assert.True(t, decimal.NewFromInt(45).Equal(revised.Details[0].Amount))
}

func TestHarvestRepository_StaleWriteConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewGormHarvestRepository(newTestDB(t))
	h := saveHarvest(t, repo, harvestLine(10, 100))

	first, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)
	second, err := repo.FindByID(ctx, h.ID)
	require.NoError(t, err)

	draft := harvestDraft(harvestLine(12, 120))
	require.NoError(t, first.Revise(draft))
	require.NoError(t, second.Revise(draft))

	require.NoError(t, repo.Save(ctx, first))
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrConcurrencyConflict)
}

func TestHarvestRepository_FindAllAndDelete(t *testing.T) {
	ctx := context.Background()
	repo := NewGormHarvestRepository(newTestDB(t))
	a := saveHarvest(t, repo, harvestLine(10, 100))
	saveHarvest(t, repo, harvestLine(5, 50))

	all, total, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, all, 2)

	byCrop, total, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Filters: map[string]any{"crop_id": a.CropID}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, a.ID, byCrop[0].ID)

	require.NoError(t, repo.Delete(ctx, a.ID))
	_, err = repo.FindByID(ctx, a.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, a.ID), shared.ErrNotFound)

	_, total, err = repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestStockResourceRepository_ForUpdateSeesRemovedRows(t *testing.T) {
	ctx := context.Background()
	repo := NewGormStockResourceRepository(newTestDB(t))

	resource, err := stock.NewStockResource(uuid.New(), stock.ResourceKindCrop, "Coffee", valueobject.FamilyMass)
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, resource))

	require.NoError(t, resource.Increase(decimal.NewFromInt(5000)))
	resource.Rename("Coffee arabica")
	require.NoError(t, repo.Save(ctx, resource))

	loaded, err := repo.FindByID(ctx, resource.ID)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(5000).Equal(loaded.Quantity))
	assert.Equal(t, "Coffee arabica", loaded.Name)

	require.NoError(t, repo.Delete(ctx, resource.ID))
	_, err = repo.FindByID(ctx, resource.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	locked, err := repo.FindByIDForUpdate(ctx, resource.ID)
	require.NoError(t, err)
	assert.True(t, locked.IsDeleted())
	assert.True(t, decimal.NewFromInt(5000).Equal(locked.Quantity))
}

func TestStockMovementRepository_Queries(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	resources := NewGormStockResourceRepository(db)
	movements := NewGormStockMovementRepository(db)

	resource, err := stock.NewStockResource(uuid.New(), stock.ResourceKindCrop, "Cocoa", valueobject.FamilyMass)
	require.NoError(t, err)
	require.NoError(t, resources.Save(ctx, resource))

	aggregateID := uuid.New()
	for i, qty := range []int64{1000, 400} {
		before := resource.Quantity
		require.NoError(t, resource.Increase(decimal.NewFromInt(qty)))
		mv := stock.NewStockMovement(resource, stock.AdjustRequest{
			ResourceID: resource.ID,
			Direction:  stock.DirectionIncrement,
			Quantity:   decimal.NewFromInt(qty),
			Unit:       valueobject.UnitGrams,
			Reference:  stock.Reference{Type: stock.ReferenceHarvest, AggregateID: aggregateID, LineID: uuid.New()},
		}, decimal.NewFromInt(qty), before)
		mv.CreatedAt = mv.CreatedAt.Add(time.Duration(i) * time.Second)
		require.NoError(t, movements.Append(ctx, mv))
	}

	page, total, err := movements.FindByResource(ctx, resource.ID, shared.Filter{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, page, 2)
	assert.True(t, decimal.NewFromInt(1400).Equal(page[0].BalanceAfter), "newest first")

	byAggregate, err := movements.FindByAggregate(ctx, stock.ReferenceHarvest, aggregateID)
	require.NoError(t, err)
	require.Len(t, byAggregate, 2)
	assert.True(t, decimal.NewFromInt(1000).Equal(byAggregate[0].Amount), "oldest first")

	none, err := movements.FindByAggregate(ctx, stock.ReferenceSale, aggregateID)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestPaymentLineRepository_LockAndUnlock(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	harvests := NewGormHarvestRepository(db)
	lines := NewGormPaymentLineRepository(db)
	payments := NewGormPaymentRepository(db)

	employee := uuid.New()
	detail := harvestLine(10, 150)
	detail.EmployeeID = employee
	h := saveHarvest(t, harvests, detail, harvestLine(5, 50))
	lineID := h.Details[0].ID

	found, err := lines.FindLines(ctx, payment.KindHarvest, []uuid.UUID{lineID, uuid.New()})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, employee, found[0].PartnerID)
	assert.True(t, decimal.NewFromInt(150).Equal(found[0].Value))
	assert.Nil(t, found[0].PaymentID)

	p, err := payment.New(payment.KindHarvest, employee, time.Now(), decimal.NewFromInt(150), "cash", []uuid.UUID{lineID}, found)
	require.NoError(t, err)
	require.NoError(t, payments.Save(ctx, p))
	require.NoError(t, lines.Lock(ctx, payment.KindHarvest, p.ID, []uuid.UUID{lineID}))

	loaded, err := payments.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{lineID}, loaded.LineIDs)

	err = lines.Lock(ctx, payment.KindHarvest, uuid.New(), []uuid.UUID{lineID})
	assert.ErrorIs(t, err, shared.ErrLinkedRecordConflict)

	reloaded, err := harvests.FindByID(ctx, h.ID)
	require.NoError(t, err)
	assert.True(t, reloaded.Details[0].IsLocked())

	require.NoError(t, lines.Unlock(ctx, payment.KindHarvest, p.ID))
	ids, err := lines.FindLineIDs(ctx, payment.KindHarvest, p.ID)
	require.NoError(t, err)
	assert.Empty(t, ids)

	_, err = lines.FindLines(ctx, payment.Kind("BONUS"), []uuid.UUID{lineID})
	assert.ErrorIs(t, err, shared.ErrInvalidInput)
}

func TestHarvestRepository_SaveNeverTakesAnotherHarvestsLine(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	harvests := NewGormHarvestRepository(db)
	lines := NewGormPaymentLineRepository(db)

	paid := saveHarvest(t, harvests, harvestLine(30, 300))
	lineID := paid.Details[0].ID
	paymentID := uuid.New()
	require.NoError(t, lines.Lock(ctx, payment.KindHarvest, paymentID, []uuid.UUID{lineID}))

	t.Run("new harvest", func(t *testing.T) {
		intruder, err := harvest.New(harvestDraft(harvestLine(30, 300)))
		require.NoError(t, err)
		intruder.Details[0].ID = lineID

		require.Error(t, harvests.Save(ctx, intruder))
		_, err = harvests.FindByID(ctx, intruder.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("revised harvest", func(t *testing.T) {
		other := saveHarvest(t, harvests, harvestLine(10, 100))
		loaded, err := harvests.FindByID(ctx, other.ID)
		require.NoError(t, err)
		ownLine := loaded.Details[0].ID
		require.NoError(t, loaded.Revise(harvestDraft(harvestLine(30, 300))))
		loaded.Details[0].ID = lineID

		require.Error(t, harvests.Save(ctx, loaded))
		unchanged, err := harvests.FindByID(ctx, other.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, unchanged.Version)
		require.Len(t, unchanged.Details, 1)
		assert.Equal(t, ownLine, unchanged.Details[0].ID)
	})

	victim, err := harvests.FindByID(ctx, paid.ID)
	require.NoError(t, err)
	require.Len(t, victim.Details, 1)
	assert.Equal(t, lineID, victim.Details[0].ID)
	require.NotNil(t, victim.Details[0].PaymentID)
	assert.Equal(t, paymentID, *victim.Details[0].PaymentID)

	settled, err := lines.FindLineIDs(ctx, payment.KindHarvest, paymentID)
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{lineID}, settled)
}

func TestCatalogRepositories_NameUniqueness(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	crops := NewGormCropRepository(db)
	supplies := NewGormSupplyRepository(db)

	crop, err := catalog.NewCrop("Coffee", "", "North lot", decimal.NewFromInt(4), valueobject.UnitKilograms)
	require.NoError(t, err)
	require.NoError(t, crops.Save(ctx, crop))

	exists, err := crops.ExistsByName(ctx, "  COFFEE ", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = crops.ExistsByName(ctx, "coffee", &crop.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, crop.Update("Coffee", "Arabica", "North lot", decimal.NewFromInt(5), valueobject.UnitKilograms))
	require.NoError(t, crops.Save(ctx, crop))
	listed, total, err := crops.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Search: "north"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Arabica", listed[0].Description)

	supply, err := catalog.NewSupply("Urea", "Agro", "", valueobject.UnitKilograms)
	require.NoError(t, err)
	require.NoError(t, supplies.Save(ctx, supply))
	require.NoError(t, supplies.Delete(ctx, supply.ID))

	exists, err = supplies.ExistsByName(ctx, "urea", nil)
	require.NoError(t, err)
	assert.False(t, exists, "removed supplies free their name")
}

func TestPartnerRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormPartnerRepository(newTestDB(t))

	client, err := partner.NewPartner(partner.KindClient, "Ana", "Ruiz", "ana@example.com", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, client))
	employee, err := partner.NewPartner(partner.KindEmployee, "Luis", "Gomez", "", "")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, employee))

	exists, err := repo.ExistsByEmail(ctx, "ANA@example.com", nil)
	require.NoError(t, err)
	assert.True(t, exists)

	found, err := repo.FindByIDs(ctx, []uuid.UUID{client.ID, employee.ID, uuid.New()})
	require.NoError(t, err)
	assert.Len(t, found, 2)

	clients, total, err := repo.FindAll(ctx, shared.Filter{Page: 1, PageSize: 10, Filters: map[string]any{"kind": partner.KindClient}})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, client.ID, clients[0].ID)

	require.NoError(t, repo.Delete(ctx, employee.ID))
	_, err = repo.FindByID(ctx, employee.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormTransactionScope(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	scope := NewGormTransactionScope(db)
	resources := NewGormStockResourceRepository(db)

	t.Run("rolls back every write on error", func(t *testing.T) {
		id := uuid.New()
		boom := errors.New("boom")

		err := scope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
			resource, err := stock.NewStockResource(id, stock.ResourceKindSupply, "Urea", valueobject.FamilyMass)
			require.NoError(t, err)
			require.NoError(t, repos.ResourceRepo().Save(ctx, resource))
			return boom
		})

		assert.ErrorIs(t, err, boom)
		_, err = resources.FindByID(ctx, id)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})

	t.Run("commits on success", func(t *testing.T) {
		id := uuid.New()

		err := scope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
			resource, err := stock.NewStockResource(id, stock.ResourceKindSupply, "Potash", valueobject.FamilyMass)
			if err != nil {
				return err
			}
			return repos.ResourceRepo().Save(ctx, resource)
		})

		require.NoError(t, err)
		_, err = resources.FindByID(ctx, id)
		assert.NoError(t, err)
	})
}
