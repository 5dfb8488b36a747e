package partner

import (
	"context"
	"strings"

	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PartnerService handles client, employee and supplier CRUD
type PartnerService struct {
	partnerRepo partner.Repository
	logger      *zap.Logger
}

// NewPartnerService creates a new PartnerService
func NewPartnerService(partnerRepo partner.Repository) *PartnerService {
	return &PartnerService{
		partnerRepo: partnerRepo,
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *PartnerService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger.Named("partner")
	}
}

// Create creates a new partner
func (s *PartnerService) Create(ctx context.Context, req CreatePartnerRequest) (*PartnerResponse, error) {
	p, err := partner.NewPartner(req.Kind, req.FirstName, req.LastName, req.Email, req.Phone)
	if err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, p.Email, nil); err != nil {
		return nil, err
	}
	if req.CompanyName != "" || req.Address != "" {
		p.SetCompany(req.CompanyName, req.Address)
	}

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	s.logger.Info("partner created", zap.String("partner_id", p.ID.String()), zap.String("kind", p.Kind.String()))
	resp := ToPartnerResponse(p)
	return &resp, nil
}

// Update changes a partner's contact and company details
func (s *PartnerService) Update(ctx context.Context, id uuid.UUID, req UpdatePartnerRequest) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.UpdateContact(req.FirstName, req.LastName, req.Email, req.Phone); err != nil {
		return nil, err
	}
	if err := s.ensureEmailFree(ctx, p.Email, &id); err != nil {
		return nil, err
	}
	p.SetCompany(req.CompanyName, req.Address)

	if err := s.partnerRepo.Save(ctx, p); err != nil {
		return nil, err
	}

	resp := ToPartnerResponse(p)
	return &resp, nil
}

// Delete soft-deletes a partner.
// Detail lines that reference it keep the reference; new lines cannot use it.
func (s *PartnerService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.partnerRepo.FindByID(ctx, id); err != nil {
		return err
	}
	if err := s.partnerRepo.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("partner removed", zap.String("partner_id", id.String()))
	return nil
}

// GetByID retrieves a partner
func (s *PartnerService) GetByID(ctx context.Context, id uuid.UUID) (*PartnerResponse, error) {
	p, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPartnerResponse(p)
	return &resp, nil
}

// List retrieves a page of partners
func (s *PartnerService) List(ctx context.Context, filter PartnerListFilter) (*shared.Paginated[PartnerResponse], error) {
	domainFilter := filter.toDomain()
	partners, total, err := s.partnerRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]PartnerResponse, len(partners))
	for i := range partners {
		items[i] = ToPartnerResponse(&partners[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

func (s *PartnerService) ensureEmailFree(ctx context.Context, email string, excludeID *uuid.UUID) error {
	if strings.TrimSpace(email) == "" {
		return nil
	}
	exists, err := s.partnerRepo.ExistsByEmail(ctx, email, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Partner with this email already exists")
	}
	return nil
}
