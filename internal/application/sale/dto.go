package sale

import (
	"fmt"
	"time"

	"github.com/farmerp/backend/internal/domain/sale"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// SaleRequest is the body of a sale create or update
type SaleRequest struct {
	Date     string                  `json:"date" binding:"required,datetime=2006-01-02"`
	Quantity decimal.Decimal         `json:"quantity" binding:"required"`
	Unit     valueobject.MeasureUnit `json:"unit" binding:"required"`
	Total    decimal.Decimal         `json:"total"`
	Details  []SaleDetailInput       `json:"details" binding:"required,min=1,dive"`
}

// SaleDetailInput is one crop sold to one client
type SaleDetailInput struct {
	ID        *uuid.UUID              `json:"id"`
	ClientID  uuid.UUID               `json:"client_id" binding:"required"`
	CropID    uuid.UUID               `json:"crop_id" binding:"required"`
	Quantity  decimal.Decimal         `json:"quantity" binding:"required"`
	Unit      valueobject.MeasureUnit `json:"unit" binding:"required"`
	UnitPrice decimal.Decimal         `json:"unit_price"`
	Total     decimal.Decimal         `json:"total"`
}

// Draft converts the request to the domain draft
func (r SaleRequest) Draft() (sale.Draft, error) {
	date, err := valueobject.ParseDate(r.Date)
	if err != nil {
		return sale.Draft{}, shared.NewValidationError(fmt.Sprintf("date: %v", err))
	}
	d := sale.Draft{
		Date:     date,
		Quantity: r.Quantity,
		Unit:     r.Unit,
		Total:    r.Total,
		Details:  make([]sale.DetailDraft, len(r.Details)),
	}
	for i, det := range r.Details {
		dd := sale.DetailDraft{
			ClientID:  det.ClientID,
			CropID:    det.CropID,
			Quantity:  det.Quantity,
			Unit:      det.Unit,
			UnitPrice: det.UnitPrice,
			Total:     det.Total,
		}
		if det.ID != nil {
			dd.ID = *det.ID
		}
		d.Details[i] = dd
	}
	return d, nil
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	ClientID string `form:"client_id" binding:"omitempty,uuid"`
	CropID   string `form:"crop_id" binding:"omitempty,uuid"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=date quantity total created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f SaleListFilter) toDomain() shared.Filter {
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
	if id, err := uuid.Parse(f.ClientID); err == nil {
		filter.Filters["client_id"] = id
	}
	if id, err := uuid.Parse(f.CropID); err == nil {
		filter.Filters["crop_id"] = id
	}
	if from, err := valueobject.ParseDate(f.From); err == nil {
		filter.From = &from
	}
	if to, err := valueobject.ParseDate(f.To); err == nil {
		filter.To = &to
	}
	return filter
}

// SaleResponse represents a sale in API responses
type SaleResponse struct {
	ID        uuid.UUID               `json:"id"`
	Date      string                  `json:"date"`
	Quantity  decimal.Decimal         `json:"quantity"`
	Unit      valueobject.MeasureUnit `json:"unit"`
	Total     decimal.Decimal         `json:"total"`
	Details   []SaleDetailResponse    `json:"details"`
	Version   int                     `json:"version"`
	CreatedAt time.Time               `json:"created_at"`
	UpdatedAt time.Time               `json:"updated_at"`
}

// SaleDetailResponse represents a sale detail in API responses
type SaleDetailResponse struct {
	ID        uuid.UUID               `json:"id"`
	ClientID  uuid.UUID               `json:"client_id"`
	CropID    uuid.UUID               `json:"crop_id"`
	Quantity  decimal.Decimal         `json:"quantity"`
	Unit      valueobject.MeasureUnit `json:"unit"`
	UnitPrice decimal.Decimal         `json:"unit_price"`
	Total     decimal.Decimal         `json:"total"`
	PaymentID *uuid.UUID              `json:"payment_id,omitempty"`
	Locked    bool                    `json:"locked"`
}

// ToSaleResponse converts a domain Sale to SaleResponse
func ToSaleResponse(s *sale.Sale) SaleResponse {
	resp := SaleResponse{
		ID:        s.ID,
		Date:      valueobject.FormatDate(s.Date),
		Quantity:  s.Quantity,
		Unit:      s.Unit,
		Total:     s.Total,
		Details:   make([]SaleDetailResponse, len(s.Details)),
		Version:   s.Version,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	for i, det := range s.Details {
		resp.Details[i] = SaleDetailResponse{
			ID:        det.ID,
			ClientID:  det.ClientID,
			CropID:    det.CropID,
			Quantity:  det.Quantity,
			Unit:      det.Unit,
			UnitPrice: det.UnitPrice,
			Total:     det.Total,
			PaymentID: det.PaymentID,
			Locked:    det.IsLocked(),
		}
	}
	return resp
}
