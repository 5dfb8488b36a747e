package stock

import (
	"fmt"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InsufficientStockError is returned when a decrement would drive a resource below zero
type InsufficientStockError struct {
	ResourceID uuid.UUID
	Requested  decimal.Decimal
	Available  decimal.Decimal
	Unit       valueobject.MeasureUnit
}

// Error implements the error interface
func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for resource %s: requested %s %s, available %s %s",
		e.ResourceID, e.Requested, e.Unit, e.Available, e.Unit)
}

// Unwrap exposes the error as a DomainError
func (e *InsufficientStockError) Unwrap() error {
	return shared.NewDomainError(shared.CodeInsufficientStock, e.Error())
}

// ResourceRemovedError is returned when an adjustment targets a soft-deleted resource
type ResourceRemovedError struct {
	ResourceID uuid.UUID
}

// Error implements the error interface
func (e *ResourceRemovedError) Error() string {
	return fmt.Sprintf("stock resource %s has been removed", e.ResourceID)
}

// Unwrap exposes the error as a DomainError
func (e *ResourceRemovedError) Unwrap() error {
	return shared.NewDomainError(shared.CodeNotFound, e.Error())
}
