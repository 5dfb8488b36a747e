package payment

import (
	"time"

	"github.com/farmerp/backend/internal/domain/payment"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PaymentRequest represents a request to settle detail lines of one partner.
// Kind picks the detail table: HARVEST pays employees, SALE collects from
// clients, PURCHASE pays suppliers.
type PaymentRequest struct {
	Kind      payment.Kind    `json:"kind" binding:"required,oneof=HARVEST SALE PURCHASE"`
	PartnerID uuid.UUID       `json:"partner_id" binding:"required"`
	Date      string          `json:"date" binding:"required,datetime=2006-01-02"`
	Total     decimal.Decimal `json:"total"`
	Method    string          `json:"method" binding:"max=50"`
	LineIDs   []uuid.UUID     `json:"line_ids" binding:"required,min=1"`
}

// PaymentListFilter represents filter options for the payment list
type PaymentListFilter struct {
	Kind      string `form:"kind" binding:"omitempty,oneof=HARVEST SALE PURCHASE"`
	PartnerID string `form:"partner_id" binding:"omitempty,uuid"`
	Page      int    `form:"page" binding:"omitempty,min=1"`
	PageSize  int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

func (f PaymentListFilter) toDomain() shared.Filter {
	filter := shared.Filter{
		Page:     f.Page,
		PageSize: f.PageSize,
		OrderBy:  "date",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}
	if f.Kind != "" {
		filter.Filters["kind"] = f.Kind
	}
	if id, err := uuid.Parse(f.PartnerID); err == nil {
		filter.Filters["partner_id"] = id
	}
	return filter
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	Kind      payment.Kind    `json:"kind"`
	PartnerID uuid.UUID       `json:"partner_id"`
	Date      string          `json:"date"`
	Total     decimal.Decimal `json:"total"`
	Method    string          `json:"method,omitempty"`
	LineIDs   []uuid.UUID     `json:"line_ids"`
	CreatedAt time.Time       `json:"created_at"`
}

// ToPaymentResponse converts a domain Payment to PaymentResponse
func ToPaymentResponse(p *payment.Payment) PaymentResponse {
	lineIDs := p.LineIDs
	if lineIDs == nil {
		lineIDs = []uuid.UUID{}
	}
	return PaymentResponse{
		ID:        p.ID,
		Kind:      p.Kind,
		PartnerID: p.PartnerID,
		Date:      valueobject.FormatDate(p.Date),
		Total:     p.Total,
		Method:    p.Method,
		LineIDs:   lineIDs,
		CreatedAt: p.CreatedAt,
	}
}
