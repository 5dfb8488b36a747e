package partner

import (
	"time"

	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CreatePartnerRequest represents a request to create a client, employee or supplier
type CreatePartnerRequest struct {
	Kind        partner.Kind `json:"kind" binding:"required,oneof=CLIENT EMPLOYEE SUPPLIER"`
	FirstName   string       `json:"first_name" binding:"required,min=1,max=100"`
	LastName    string       `json:"last_name" binding:"max=100"`
	Email       string       `json:"email" binding:"omitempty,email"`
	Phone       string       `json:"phone" binding:"max=50"`
	CompanyName string       `json:"company_name" binding:"max=200"`
	Address     string       `json:"address" binding:"max=500"`
}

// UpdatePartnerRequest represents a request to update a partner.
// A partner's kind never changes.
type UpdatePartnerRequest struct {
	FirstName   string `json:"first_name" binding:"required,min=1,max=100"`
	LastName    string `json:"last_name" binding:"max=100"`
	Email       string `json:"email" binding:"omitempty,email"`
	Phone       string `json:"phone" binding:"max=50"`
	CompanyName string `json:"company_name" binding:"max=200"`
	Address     string `json:"address" binding:"max=500"`
}

// PartnerListFilter represents filter options for the partner list
type PartnerListFilter struct {
	Kind     string `form:"kind" binding:"omitempty,oneof=CLIENT EMPLOYEE SUPPLIER"`
	Search   string `form:"search"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=100"`
	OrderBy  string `form:"order_by" binding:"omitempty,oneof=first_name last_name created_at"`
	OrderDir string `form:"order_dir" binding:"omitempty,oneof=asc desc"`
}

func (f PartnerListFilter) toDomain() shared.Filter {
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
		filter.OrderBy = "first_name"
		filter.OrderDir = "asc"
	}
	if f.Kind != "" {
		filter.Filters["kind"] = f.Kind
	}
	return filter
}

// PartnerResponse represents a partner in API responses
type PartnerResponse struct {
	ID          uuid.UUID    `json:"id"`
	Kind        partner.Kind `json:"kind"`
	FirstName   string       `json:"first_name"`
	LastName    string       `json:"last_name"`
	FullName    string       `json:"full_name"`
	Email       string       `json:"email,omitempty"`
	Phone       string       `json:"phone,omitempty"`
	CompanyName string       `json:"company_name,omitempty"`
	Address     string       `json:"address,omitempty"`
	Version     int          `json:"version"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

// ToPartnerResponse converts a domain Partner to PartnerResponse
func ToPartnerResponse(p *partner.Partner) PartnerResponse {
	return PartnerResponse{
		ID:          p.ID,
		Kind:        p.Kind,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		FullName:    p.FullName(),
		Email:       p.Email,
		Phone:       p.Phone,
		CompanyName: p.CompanyName,
		Address:     p.Address,
		Version:     p.Version,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
