package reconciliation

import (
	"context"

	"github.com/farmerp/backend/internal/domain/catalog"
	"github.com/farmerp/backend/internal/domain/harvest"
	"github.com/farmerp/backend/internal/domain/payment"
	"github.com/farmerp/backend/internal/domain/purchase"
	"github.com/farmerp/backend/internal/domain/sale"
	"github.com/farmerp/backend/internal/domain/stock"
)

// TransactionScope provides transactional access to every repository that
// takes part in a stock-affecting write.
// When a function is executed within a transaction scope, all repository operations
// will be part of the same database transaction and will be committed or rolled back atomically.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error or panics, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to repositories within a transaction.
// All repositories returned share the same underlying database transaction, so
// a ledger built from ResourceRepo and MovementRepo observes the writes made
// earlier in the same call.
type TransactionalRepositories interface {
	ResourceRepo() stock.ResourceRepository
	MovementRepo() stock.MovementRepository
	HarvestRepo() harvest.Repository
	SaleRepo() sale.Repository
	PurchaseRepo() purchase.Repository
	CropRepo() catalog.CropRepository
	SupplyRepo() catalog.SupplyRepository
	PaymentRepo() payment.Repository
	PaymentLineRepo() payment.LineRepository
}

// NoOpTransactionScope is a transaction scope that doesn't actually use transactions.
// This is useful for testing or when transaction support is not required.
// Unset repositories are returned as nil.
type NoOpTransactionScope struct {
	Resources    stock.ResourceRepository
	Movements    stock.MovementRepository
	Harvests     harvest.Repository
	Sales        sale.Repository
	Purchases    purchase.Repository
	Crops        catalog.CropRepository
	Supplies     catalog.SupplyRepository
	Payments     payment.Repository
	PaymentLines payment.LineRepository
}

// Execute runs the function without a real transaction (for testing/compatibility).
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s)
}

func (s *NoOpTransactionScope) ResourceRepo() stock.ResourceRepository  { return s.Resources }
func (s *NoOpTransactionScope) MovementRepo() stock.MovementRepository  { return s.Movements }
func (s *NoOpTransactionScope) HarvestRepo() harvest.Repository         { return s.Harvests }
func (s *NoOpTransactionScope) SaleRepo() sale.Repository               { return s.Sales }
func (s *NoOpTransactionScope) PurchaseRepo() purchase.Repository       { return s.Purchases }
func (s *NoOpTransactionScope) CropRepo() catalog.CropRepository        { return s.Crops }
func (s *NoOpTransactionScope) SupplyRepo() catalog.SupplyRepository    { return s.Supplies }
func (s *NoOpTransactionScope) PaymentRepo() payment.Repository         { return s.Payments }
func (s *NoOpTransactionScope) PaymentLineRepo() payment.LineRepository { return s.PaymentLines }

// RollbackScope is a NoOpTransactionScope for in-memory repositories that
// can put their contents back. Checkpoint captures the current state and
// returns the function restoring it; Execute calls that function when fn
// fails or panics.
type RollbackScope struct {
	NoOpTransactionScope
	Checkpoint func() (restore func())
}

// Execute runs fn and restores the checkpoint taken before it on failure.
func (s *RollbackScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	restore := func() {}
	if s.Checkpoint != nil {
		restore = s.Checkpoint()
	}
	committed := false
	defer func() {
		if !committed {
			restore()
		}
	}()

	if err := fn(&s.NoOpTransactionScope); err != nil {
		return err
	}
	committed = true
	return nil
}

// Ensure the scopes implement both interfaces
var _ TransactionScope = (*NoOpTransactionScope)(nil)
var _ TransactionScope = (*RollbackScope)(nil)
var _ TransactionalRepositories = (*NoOpTransactionScope)(nil)
