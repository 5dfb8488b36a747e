package persistence

import (
	"context"

	"github.com/farmerp/backend/internal/application/reconciliation"
	"github.com/farmerp/backend/internal/domain/catalog"
	"github.com/farmerp/backend/internal/domain/harvest"
	"github.com/farmerp/backend/internal/domain/payment"
	"github.com/farmerp/backend/internal/domain/purchase"
	"github.com/farmerp/backend/internal/domain/sale"
	"github.com/farmerp/backend/internal/domain/stock"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// Every repository handed to the callback shares one transaction, so an
// aggregate write and the stock movements it causes commit or roll back together.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error or panics, the transaction is rolled back.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos reconciliation.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories provides access to all repositories within a transaction.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// ResourceRepo returns the stock resource repository scoped to the current transaction.
func (r *gormTransactionalRepositories) ResourceRepo() stock.ResourceRepository {
	return NewGormStockResourceRepository(r.tx)
}

// MovementRepo returns the stock movement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) MovementRepo() stock.MovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) HarvestRepo() harvest.Repository {
	return NewGormHarvestRepository(r.tx)
}

func (r *gormTransactionalRepositories) SaleRepo() sale.Repository {
	return NewGormSaleRepository(r.tx)
}

func (r *gormTransactionalRepositories) PurchaseRepo() purchase.Repository {
	return NewGormSuppliesPurchaseRepository(r.tx)
}

func (r *gormTransactionalRepositories) CropRepo() catalog.CropRepository {
	return NewGormCropRepository(r.tx)
}

func (r *gormTransactionalRepositories) SupplyRepo() catalog.SupplyRepository {
	return NewGormSupplyRepository(r.tx)
}

func (r *gormTransactionalRepositories) PaymentRepo() payment.Repository {
	return NewGormPaymentRepository(r.tx)
}

// PaymentLineRepo returns the payment line repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PaymentLineRepo() payment.LineRepository {
	return NewGormPaymentLineRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ reconciliation.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ reconciliation.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
