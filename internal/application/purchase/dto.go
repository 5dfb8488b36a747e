package purchase

import (
	"fmt"
	"time"

	"github.com/farmerp/backend/internal/domain/purchase"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseRequest is the body of a supplies purchase create or update
type PurchaseRequest struct {
	Date    string                `json:"date" binding:"required,datetime=2006-01-02"`
	Total   decimal.Decimal       `json:"total"`
	Details []PurchaseDetailInput `json:"details" binding:"required,min=1,dive"`
}

// PurchaseDetailInput is one supply bought from one supplier
type PurchaseDetailInput struct {
	ID         *uuid.UUID              `json:"id"`
	SupplyID   uuid.UUID               `json:"supply_id" binding:"required"`
	SupplierID uuid.UUID               `json:"supplier_id" binding:"required"`
	Amount     decimal.Decimal         `json:"amount" binding:"required"`
	Unit       valueobject.MeasureUnit `json:"unit" binding:"required"`
	Total      decimal.Decimal         `json:"total"`
}

// Draft converts the request to the domain draft
func (r PurchaseRequest) Draft() (purchase.Draft, error) {
	date, err := valueobject.ParseDate(r.Date)
	if err != nil {
		return purchase.Draft{}, shared.NewValidationError(fmt.Sprintf("date: %v", err))
	}
	d := purchase.Draft{
		Date:    date,
		Total:   r.Total,
		Details: make([]purchase.DetailDraft, len(r.Details)),
	}
	for i, det := range r.Details {
		dd := purchase.DetailDraft{
			SupplyID:   det.SupplyID,
			SupplierID: det.SupplierID,
			Amount:     det.Amount,
			Unit:       det.Unit,
			Total:      det.Total,
		}
		if det.ID != nil {
			dd.ID = *det.ID
		}
		d.Details[i] = dd
	}
	return d, nil
}

// PurchaseListFilter represents filter options for the purchase list
type PurchaseListFilter struct {
	SupplierID string `form:"supplier_id" binding:"omitempty,uuid"`
	SupplyID   string `form:"supply_id" binding:"omitempty,uuid"`
	From       string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To         string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page       int    `form:"page" binding:"omitempty,min=1"`
	PageSize   int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy    string `form:"order_by" binding:"omitempty,oneof=date total created_at"`
	OrderDir   string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f PurchaseListFilter) toDomain() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  f.OrderBy,
		OrderDir: f.OrderDir,
		Filters:  make(map[string]any),
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if filter.OrderBy == "" {
		filter.OrderBy = "date"
		filter.OrderDir = "desc"
	}
	if id, err := uuid.Parse(f.SupplierID); err == nil {
		filter.Filters["supplier_id"] = id
	}
	if id, err := uuid.Parse(f.SupplyID); err == nil {
		filter.Filters["supply_id"] = id
	}
	if from, err := valueobject.ParseDate(f.From); err == nil {
		filter.From = &from
	}
	if to, err := valueobject.ParseDate(f.To); err == nil {
		filter.To = &to
	}
	return filter
}

// PurchaseResponse represents a supplies purchase in API responses
type PurchaseResponse struct {
	ID        uuid.UUID                `json:"id"`
	Date      string                   `json:"date"`
	Total     decimal.Decimal          `json:"total"`
	Details   []PurchaseDetailResponse `json:"details"`
	Version   int                      `json:"version"`
	CreatedAt time.Time                `json:"created_at"`
	UpdatedAt time.Time                `json:"updated_at"`
}

// PurchaseDetailResponse represents a purchase detail in API responses
type PurchaseDetailResponse struct {
	ID         uuid.UUID               `json:"id"`
	SupplyID   uuid.UUID               `json:"supply_id"`
	SupplierID uuid.UUID               `json:"supplier_id"`
	Amount     decimal.Decimal         `json:"amount"`
	Unit       valueobject.MeasureUnit `json:"unit"`
	Total      decimal.Decimal         `json:"total"`
	PaymentID  *uuid.UUID              `json:"payment_id,omitempty"`
	Locked     bool                    `json:"locked"`
}

// ToPurchaseResponse converts a domain SuppliesPurchase to PurchaseResponse
func ToPurchaseResponse(p *purchase.SuppliesPurchase) PurchaseResponse {
	resp := PurchaseResponse{
		ID:        p.ID,
		Date:      valueobject.FormatDate(p.Date),
		Total:     p.Total,
		Details:   make([]PurchaseDetailResponse, len(p.Details)),
		Version:   p.Version,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
	for i, det := range p.Details {
		resp.Details[i] = PurchaseDetailResponse{
			ID:         det.ID,
			SupplyID:   det.SupplyID,
			SupplierID: det.SupplierID,
			Amount:     det.Amount,
			Unit:       det.Unit,
			Total:      det.Total,
			PaymentID:  det.PaymentID,
			Locked:     det.IsLocked(),
		}
	}
	return resp
}
