package catalog

import (
	"context"

	"github.com/farmerp/backend/internal/application/reconciliation"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/service"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/farmerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// StockService exposes stock balances and their movements, and applies
// manual corrections through the ledger
type StockService struct {
	resourceRepo stock.ResourceRepository
	movementRepo stock.MovementRepository
	txScope      reconciliation.TransactionScope
	converter    *service.UnitConverter
	recorder     stock.AdjustmentRecorder
	logger       *zap.Logger
}

// NewStockService creates a new StockService
func NewStockService(
	resourceRepo stock.ResourceRepository,
	movementRepo stock.MovementRepository,
	txScope reconciliation.TransactionScope,
) *StockService {
	return &StockService{
		resourceRepo: resourceRepo,
		movementRepo: movementRepo,
		txScope:      txScope,
		converter:    service.NewUnitConverter(),
		logger:       zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *StockService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger.Named("stock")
	}
}

// SetAdjustmentRecorder sets the recorder for manual adjustments
func (s *StockService) SetAdjustmentRecorder(recorder stock.AdjustmentRecorder) {
	s.recorder = recorder
}

// List retrieves a page of stock balances
func (s *StockService) List(ctx context.Context, filter StockListFilter) (*shared.Paginated[StockResponse], error) {
	domainFilter := shared.Filter{
		Page:     filter.Page,
		PageSize: filter.PageSize,
		Filters:  make(map[string]any),
	}
	if domainFilter.Page <= 0 {
		domainFilter.Page = 1
	}
	if domainFilter.PageSize <= 0 {
		domainFilter.PageSize = 20
	}
	if filter.Kind != "" {
		domainFilter.Filters["kind"] = filter.Kind
	}

	resources, total, err := s.resourceRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]StockResponse, len(resources))
	for i := range resources {
		items[i] = s.toResponse(&resources[i], filter.Unit)
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}

// GetByID retrieves the stock balance of one crop or supply
func (s *StockService) GetByID(ctx context.Context, id uuid.UUID) (*StockResponse, error) {
	resource, err := s.resourceRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToStockResponse(resource)
	return &resp, nil
}

// Movements retrieves a page of the ledger movements of a resource, newest first
func (s *StockService) Movements(ctx context.Context, id uuid.UUID, page, pageSize int) (*shared.Paginated[MovementResponse], error) {
	if _, err := s.resourceRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	if page <= 0 {
		page = 1
	}
	if pageSize <= 0 {
		pageSize = 50
	}

	movements, total, err := s.movementRepo.FindByResource(ctx, id, shared.Filter{Page: page, PageSize: pageSize})
	if err != nil {
		return nil, err
	}
	items := make([]MovementResponse, len(movements))
	for i := range movements {
		items[i] = ToMovementResponse(&movements[i])
	}
	result := shared.NewPaginated(items, total, page, pageSize)
	return &result, nil
}

// Adjust applies a manual correction to a stock resource.
// The movement is recorded with a MANUAL reference whose aggregate is the resource itself.
func (s *StockService) Adjust(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*StockResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "stock", "adjust")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, id.String())

	if !req.Quantity.IsPositive() {
		return nil, shared.NewValidationError("quantity must be greater than zero")
	}

	var resource *stock.StockResource
	err := s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		var opts []stock.LedgerOption
		if s.recorder != nil {
			opts = append(opts, stock.WithRecorder(s.recorder))
		}
		ledger := stock.NewLedger(repos.ResourceRepo(), repos.MovementRepo(), opts...)
		if _, err := ledger.Adjust(ctx, stock.AdjustRequest{
			ResourceID: id,
			Quantity:   req.Quantity,
			Unit:       req.Unit,
			Direction:  req.Direction,
			Reference:  stock.Reference{Type: stock.ReferenceManual, AggregateID: id, LineID: uuid.New()},
		}); err != nil {
			return err
		}
		var err error
		resource, err = repos.ResourceRepo().FindByID(ctx, id)
		return err
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "manual stock adjustment rejected", err, zap.String("resource_id", id.String()))
		return nil, err
	}

	s.logger.Info("manual stock adjustment",
		zap.String("resource_id", id.String()),
		zap.String("direction", req.Direction.String()),
		zap.String("quantity", req.Quantity.String()),
		zap.String("unit", string(req.Unit)),
		zap.String("reason", req.Reason),
	)
	resp := ToStockResponse(resource)
	return &resp, nil
}

func (s *StockService) toResponse(resource *stock.StockResource, unit valueobject.MeasureUnit) StockResponse {
	resp := ToStockResponse(resource)
	if unit == "" || unit.Family() != resource.Family {
		return resp
	}
	converted, err := s.converter.Convert(resource.CanonicalUnit(), unit, resource.Quantity)
	if err != nil {
		return resp
	}
	resp.ConvertedQuantity = &converted
	resp.ConvertedUnit = &unit
	return resp
}
