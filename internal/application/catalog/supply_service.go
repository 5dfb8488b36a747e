package catalog

import (
	"context"

	"github.com/farmerp/backend/internal/application/reconciliation"
	"github.com/farmerp/backend/internal/domain/catalog"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SupplyService handles supply CRUD, keeping the supply's stock resource alongside it
type SupplyService struct {
	supplyRepo catalog.SupplyRepository
	txScope    reconciliation.TransactionScope
	logger     *zap.Logger
}

// NewSupplyService creates a new SupplyService
func NewSupplyService(supplyRepo catalog.SupplyRepository, txScope reconciliation.TransactionScope) *SupplyService {
	return &SupplyService{
		supplyRepo: supplyRepo,
		txScope:    txScope,
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *SupplyService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger.Named("supply")
	}
}

// Create creates a supply with an empty stock
func (s *SupplyService) Create(ctx context.Context, req CreateSupplyRequest) (*SupplyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "supply", "create")
	defer span.End()

	supply, err := catalog.NewSupply(req.Name, req.Brand, req.Observation, req.StockUnit)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, supply.Name, nil); err != nil {
		return nil, err
	}
	resource, err := supply.NewStockResource()
	if err != nil {
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		if err := repos.SupplyRepo().Save(ctx, supply); err != nil {
			return err
		}
		return repos.ResourceRepo().Save(ctx, resource)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "supply create rejected", err)
		return nil, err
	}

	s.logger.Info("supply created", zap.String("supply_id", supply.ID.String()), zap.String("stock_unit", string(supply.StockUnit)))
	resp := ToSupplyResponse(supply)
	return &resp, nil
}

// Update changes a supply's descriptive fields and keeps its stock name in step
func (s *SupplyService) Update(ctx context.Context, id uuid.UUID, req UpdateSupplyRequest) (*SupplyResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "supply", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, id.String())

	if err := s.ensureNameFree(ctx, req.Name, &id); err != nil {
		return nil, err
	}

	var supply *catalog.Supply
	err := s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		var err error
		supply, err = repos.SupplyRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := supply.Update(req.Name, req.Brand, req.Observation, req.StockUnit); err != nil {
			return err
		}
		if err := repos.SupplyRepo().Save(ctx, supply); err != nil {
			return err
		}
		return renameResource(ctx, repos, supply.ID, supply.Name)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "supply update rejected", err, zap.String("supply_id", id.String()))
		return nil, err
	}

	s.logger.Info("supply updated", zap.String("supply_id", supply.ID.String()), zap.Int("version", supply.Version))
	resp := ToSupplyResponse(supply)
	return &resp, nil
}

// Delete soft-deletes a supply and its stock resource.
// Later reversals of purchases of the supply skip its stock.
func (s *SupplyService) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "supply", "delete")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, id.String())

	err := s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		if _, err := repos.SupplyRepo().FindByID(ctx, id); err != nil {
			return err
		}
		if err := repos.SupplyRepo().Delete(ctx, id); err != nil {
			return err
		}
		return repos.ResourceRepo().Delete(ctx, id)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "supply removal rejected", err, zap.String("supply_id", id.String()))
		return err
	}

	s.logger.Info("supply removed", zap.String("supply_id", id.String()))
	return nil
}

// GetByID retrieves a supply
func (s *SupplyService) GetByID(ctx context.Context, id uuid.UUID) (*SupplyResponse, error) {
	supply, err := s.supplyRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSupplyResponse(supply)
	return &resp, nil
}

// List retrieves a page of supplies
func (s *SupplyService) List(ctx context.Context, filter CatalogListFilter) (*shared.Paginated[SupplyResponse], error) {
	domainFilter := filter.toDomain()
	supplies, total, err := s.supplyRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]SupplyResponse, len(supplies))
	for i := range supplies {
		items[i] = ToSupplyResponse(&supplies[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

func (s *SupplyService) ensureNameFree(ctx context.Context, name string, excludeID *uuid.UUID) error {
	exists, err := s.supplyRepo.ExistsByName(ctx, name, excludeID)
	if err != nil {
		return err
	}
	if exists {
		return shared.NewDomainError(shared.CodeAlreadyExists, "Supply with this name already exists")
	}
	return nil
}

