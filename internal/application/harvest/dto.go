package harvest

import (
	"fmt"
	"time"

	"github.com/farmerp/backend/internal/domain/harvest"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// HarvestRequest is the body of a harvest create or update.
// On update, details carrying an id replace the persisted detail with that
// id, details without one are added, and persisted details left out are removed.
type HarvestRequest struct {
	CropID      uuid.UUID               `json:"crop_id" binding:"required"`
	Date        string                  `json:"date" binding:"required,datetime=2006-01-02"`
	Amount      decimal.Decimal         `json:"amount" binding:"required"`
	Unit        valueobject.MeasureUnit `json:"unit" binding:"required"`
	ValuePay    decimal.Decimal         `json:"value_pay"`
	Observation string                  `json:"observation" binding:"max=500"`
	Details     []HarvestDetailInput    `json:"details" binding:"required,min=1,dive"`
}

// HarvestDetailInput is one employee's share of a harvest
type HarvestDetailInput struct {
	ID         *uuid.UUID              `json:"id"`
	EmployeeID uuid.UUID               `json:"employee_id" binding:"required"`
	Amount     decimal.Decimal         `json:"amount" binding:"required"`
	Unit       valueobject.MeasureUnit `json:"unit" binding:"required"`
	ValuePay   decimal.Decimal         `json:"value_pay"`
}

// Draft converts the request to the domain draft
func (r HarvestRequest) Draft() (harvest.Draft, error) {
	date, err := valueobject.ParseDate(r.Date)
	if err != nil {
		return harvest.Draft{}, shared.NewValidationError(fmt.Sprintf("date: %v", err))
	}
	d := harvest.Draft{
		CropID:      r.CropID,
		Date:        date,
		Amount:      r.Amount,
		Unit:        r.Unit,
		ValuePay:    r.ValuePay,
		Observation: r.Observation,
		Details:     make([]harvest.DetailDraft, len(r.Details)),
	}
	for i, det := range r.Details {
		dd := harvest.DetailDraft{
			EmployeeID: det.EmployeeID,
			Amount:     det.Amount,
			Unit:       det.Unit,
			ValuePay:   det.ValuePay,
		}
		if det.ID != nil {
			dd.ID = *det.ID
		}
		d.Details[i] = dd
	}
	return d, nil
}

// HarvestListFilter represents filter options for the harvest list
type HarvestListFilter struct {
	CropID   string `form:"crop_id" binding:"omitempty,uuid"`
	From     string `form:"from" binding:"omitempty,datetime=2006-01-02"`
	To       string `form:"to" binding:"omitempty,datetime=2006-01-02"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=date amount value_pay created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f HarvestListFilter) toDomain() shared.Filter {
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

// HarvestResponse represents a harvest in API responses
type HarvestResponse struct {
	ID          uuid.UUID               `json:"id"`
	CropID      uuid.UUID               `json:"crop_id"`
	Date        string                  `json:"date"`
	Amount      decimal.Decimal         `json:"amount"`
	Unit        valueobject.MeasureUnit `json:"unit"`
	ValuePay    decimal.Decimal         `json:"value_pay"`
	Observation string                  `json:"observation,omitempty"`
	Details     []HarvestDetailResponse `json:"details"`
	Version     int                     `json:"version"`
	CreatedAt   time.Time               `json:"created_at"`
	UpdatedAt   time.Time               `json:"updated_at"`
}

// HarvestDetailResponse represents a harvest detail in API responses
type HarvestDetailResponse struct {
	ID         uuid.UUID               `json:"id"`
	EmployeeID uuid.UUID               `json:"employee_id"`
	Amount     decimal.Decimal         `json:"amount"`
	Unit       valueobject.MeasureUnit `json:"unit"`
	ValuePay   decimal.Decimal         `json:"value_pay"`
	PaymentID  *uuid.UUID              `json:"payment_id,omitempty"`
	Locked     bool                    `json:"locked"`
}

// ToHarvestResponse converts a domain Harvest to HarvestResponse
func ToHarvestResponse(h *harvest.Harvest) HarvestResponse {
	resp := HarvestResponse{
		ID:          h.ID,
		CropID:      h.CropID,
		Date:        valueobject.FormatDate(h.Date),
		Amount:      h.Amount,
		Unit:        h.Unit,
		ValuePay:    h.ValuePay,
		Observation: h.Observation,
		Details:     make([]HarvestDetailResponse, len(h.Details)),
		Version:     h.Version,
		CreatedAt:   h.CreatedAt,
		UpdatedAt:   h.UpdatedAt,
	}
	for i, det := range h.Details {
		resp.Details[i] = HarvestDetailResponse{
			ID:         det.ID,
			EmployeeID: det.EmployeeID,
			Amount:     det.Amount,
			Unit:       det.Unit,
			ValuePay:   det.ValuePay,
			PaymentID:  det.PaymentID,
			Locked:     det.IsLocked(),
		}
	}
	return resp
}
