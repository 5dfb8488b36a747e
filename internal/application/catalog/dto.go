package catalog

import (
	"time"

	"github.com/farmerp/backend/internal/domain/catalog"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ==================== Crop DTOs ====================

// CreateCropRequest represents a request to create a crop
type CreateCropRequest struct {
	Name           string                  `json:"name" binding:"required,min=1,max=100"`
	Description    string                  `json:"description" binding:"max=500"`
	Location       string                  `json:"location" binding:"max=200"`
	NumberHectares decimal.Decimal         `json:"number_hectares"`
	StockUnit      valueobject.MeasureUnit `json:"stock_unit" binding:"required"`
}

// UpdateCropRequest represents a request to update a crop.
// StockUnit may only move within the unit family the crop was created with.
type UpdateCropRequest struct {
	Name           string                  `json:"name" binding:"required,min=1,max=100"`
	Description    string                  `json:"description" binding:"max=500"`
	Location       string                  `json:"location" binding:"max=200"`
	NumberHectares decimal.Decimal         `json:"number_hectares"`
	StockUnit      valueobject.MeasureUnit `json:"stock_unit"`
}

// CropResponse represents a crop in API responses
type CropResponse struct {
	ID             uuid.UUID               `json:"id"`
	Name           string                  `json:"name"`
	Description    string                  `json:"description,omitempty"`
	Location       string                  `json:"location,omitempty"`
	NumberHectares decimal.Decimal         `json:"number_hectares"`
	StockUnit      valueobject.MeasureUnit `json:"stock_unit"`
	Version        int                     `json:"version"`
	CreatedAt      time.Time               `json:"created_at"`
	UpdatedAt      time.Time               `json:"updated_at"`
}

// ToCropResponse converts a domain Crop to CropResponse
func ToCropResponse(c *catalog.Crop) CropResponse {
	return CropResponse{
		ID:             c.ID,
		Name:           c.Name,
		Description:    c.Description,
		Location:       c.Location,
		NumberHectares: c.NumberHectares,
		StockUnit:      c.StockUnit,
		Version:        c.Version,
		CreatedAt:      c.CreatedAt,
		UpdatedAt:      c.UpdatedAt,
	}
}

// ==================== Supply DTOs ====================

// CreateSupplyRequest represents a request to create a supply
type CreateSupplyRequest struct {
	Name        string                  `json:"name" binding:"required,min=1,max=100"`
	Brand       string                  `json:"brand" binding:"max=100"`
	Observation string                  `json:"observation" binding:"max=500"`
	StockUnit   valueobject.MeasureUnit `json:"stock_unit" binding:"required"`
}

// UpdateSupplyRequest represents a request to update a supply
type UpdateSupplyRequest struct {
	Name        string                  `json:"name" binding:"required,min=1,max=100"`
	Brand       string                  `json:"brand" binding:"max=100"`
	Observation string                  `json:"observation" binding:"max=500"`
	StockUnit   valueobject.MeasureUnit `json:"stock_unit"`
}

// SupplyResponse represents a supply in API responses
type SupplyResponse struct {
	ID          uuid.UUID               `json:"id"`
	Name        string                  `json:"name"`
	Brand       string                  `json:"brand,omitempty"`
	Observation string                  `json:"observation,omitempty"`
	StockUnit   valueobject.MeasureUnit `json:"stock_unit"`
	Version     int                     `json:"version"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// ToSupplyResponse converts a domain Supply to SupplyResponse
func ToSupplyResponse(s *catalog.Supply) SupplyResponse {
	return SupplyResponse{
		ID:          s.ID,
		Name:        s.Name,
		Brand:       s.Brand,
		Observation: s.Observation,
		StockUnit:   s.StockUnit,
		Version:     s.Version,
		CreatedAt:   s.CreatedAt,
		UpdatedAt:   s.UpdatedAt,
	}
}

// CatalogListFilter represents filter options for crop and supply lists
type CatalogListFilter struct {
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=name created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f CatalogListFilter) toDomain() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Search:   f.Search,
		Filters:  make(map[string]any),
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "name"
		filter.OrderDir = "asc"
	}
	return filter
}

// ==================== Stock DTOs ====================

// StockListFilter represents filter options for the stock list.
// Unit, when set, adds each same-family quantity converted into that unit.
type StockListFilter struct {
	Kind     string                  `form:"kind" binding:"omitempty,oneof=CROP SUPPLY"`
	Unit     valueobject.MeasureUnit `form:"unit"`
	Page     int                     `form:"page" binding:"omitempty,min=1"`
	PageSize int                     `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AdjustStockRequest represents a manual stock correction
type AdjustStockRequest struct {
	Quantity  decimal.Decimal         `json:"quantity" binding:"required"`
	Unit      valueobject.MeasureUnit `json:"unit" binding:"required"`
	Direction stock.Direction         `json:"direction" binding:"required,oneof=INCREMENT DECREMENT"`
	Reason    string                  `json:"reason" binding:"max=200"`
}

// StockResponse represents a stock resource in API responses
type StockResponse struct {
	ID                uuid.UUID                `json:"id"`
	Kind              stock.ResourceKind       `json:"kind"`
	Name              string                   `json:"name"`
	Family            valueobject.UnitFamily   `json:"family"`
	Quantity          decimal.Decimal          `json:"quantity"`
	Unit              valueobject.MeasureUnit  `json:"unit"`
	ConvertedQuantity *decimal.Decimal         `json:"converted_quantity,omitempty"`
	ConvertedUnit     *valueobject.MeasureUnit `json:"converted_unit,omitempty"`
	UpdatedAt         time.Time                `json:"updated_at"`
}

// ToStockResponse converts a domain StockResource to StockResponse
func ToStockResponse(r *stock.StockResource) StockResponse {
	return StockResponse{
		ID:        r.ID,
		Kind:      r.Kind,
		Name:      r.Name,
		Family:    r.Family,
		Quantity:  r.Quantity,
		Unit:      r.CanonicalUnit(),
		UpdatedAt: r.UpdatedAt,
	}
}

// MovementResponse represents a stock movement in API responses
type MovementResponse struct {
	ID             uuid.UUID               `json:"id"`
	Direction      stock.Direction         `json:"direction"`
	Amount         decimal.Decimal         `json:"amount"`
	RecordedAmount decimal.Decimal         `json:"recorded_amount"`
	RecordedUnit   valueobject.MeasureUnit `json:"recorded_unit"`
	BalanceBefore  decimal.Decimal         `json:"balance_before"`
	BalanceAfter   decimal.Decimal         `json:"balance_after"`
	ReferenceType  stock.ReferenceType     `json:"reference_type"`
	AggregateID    uuid.UUID               `json:"aggregate_id"`
	LineID         uuid.UUID               `json:"line_id"`
	CreatedAt      time.Time               `json:"created_at"`
}

// ToMovementResponse converts a domain StockMovement to MovementResponse
func ToMovementResponse(m *stock.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		Direction:      m.Direction,
		Amount:         m.Amount,
		RecordedAmount: m.RecordedAmount,
		RecordedUnit:   m.RecordedUnit,
		BalanceBefore:  m.BalanceBefore,
		BalanceAfter:   m.BalanceAfter,
		ReferenceType:  m.Reference.Type,
		AggregateID:    m.Reference.AggregateID,
		LineID:         m.Reference.LineID,
		CreatedAt:      m.CreatedAt,
	}
}
