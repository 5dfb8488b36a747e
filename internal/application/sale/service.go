package sale

import (
	"context"

	appbulk "github.com/farmerp/backend/internal/application/bulk"
	"github.com/farmerp/backend/internal/application/reconciliation"
	"github.com/farmerp/backend/internal/domain/bulk"
	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/sale"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/farmerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// SaleService handles sale writes. Every detail takes its quantity out of
// the stock of the crop it sells.
type SaleService struct {
	saleRepo   sale.Repository
	txScope    reconciliation.TransactionScope
	verifier   *partner.Verifier
	reconciler *reconciliation.Reconciler
	remover    *appbulk.Remover
	logger     *zap.Logger
}

// NewSaleService creates a new SaleService
func NewSaleService(
	saleRepo sale.Repository,
	partnerRepo partner.Repository,
	txScope reconciliation.TransactionScope,
) *SaleService {
	return &SaleService{
		saleRepo:   saleRepo,
		txScope:    txScope,
		verifier:   partner.NewVerifier(partnerRepo),
		reconciler: reconciliation.NewReconciler(reconciliation.FlowOutbound, stock.ReferenceSale),
		remover:    appbulk.NewRemover("sale"),
		logger:     zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *SaleService) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	s.logger = logger.Named("sale")
	s.reconciler.SetLogger(s.logger)
	s.remover.SetLogger(s.logger)
}

// SetAdjustmentRecorder sets the recorder for ledger adjustments
func (s *SaleService) SetAdjustmentRecorder(recorder stock.AdjustmentRecorder) {
	s.reconciler.SetRecorder(recorder)
}

// SetOutcomeRecorder sets the recorder for bulk removals
func (s *SaleService) SetOutcomeRecorder(recorder appbulk.OutcomeRecorder) {
	s.remover.SetRecorder(recorder)
}

// Create records a sale, failing with insufficient stock when any crop
// cannot cover its lines
func (s *SaleService) Create(ctx context.Context, req SaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "create")
	defer span.End()

	draft, err := req.Draft()
	if err != nil {
		return nil, err
	}
	sl, err := sale.New(draft)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.verifier.Require(ctx, partner.KindClient, draft.ClientIDs()...); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		if err := s.reconciler.ApplyCreate(ctx, s.reconciler.Ledger(repos), sl.ID, sl.LedgerLines()); err != nil {
			return err
		}
		return repos.SaleRepo().Save(ctx, sl)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "sale create rejected", err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, sl.ID.String())
	s.logger.Info("sale created",
		zap.String("sale_id", sl.ID.String()),
		zap.Int("details", len(sl.Details)),
	)
	resp := ToSaleResponse(sl)
	return &resp, nil
}

// Update replaces a sale and its details, reconciling crop stock
func (s *SaleService) Update(ctx context.Context, id uuid.UUID, req SaleRequest) (*SaleResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "update")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, id.String())

	draft, err := req.Draft()
	if err != nil {
		return nil, err
	}
	if err := draft.Validate(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.verifier.Require(ctx, partner.KindClient, draft.ClientIDs()...); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var sl *sale.Sale
	err = s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		var err error
		sl, err = repos.SaleRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := sl.LedgerLines()
		if err := sl.Revise(draft); err != nil {
			return err
		}
		if _, err := s.reconciler.ApplyUpdate(ctx, s.reconciler.Ledger(repos), sl.ID, before, sl.LedgerLines()); err != nil {
			return err
		}
		return repos.SaleRepo().Save(ctx, sl)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "sale update rejected", err, zap.String("sale_id", id.String()))
		return nil, err
	}

	s.logger.Info("sale updated",
		zap.String("sale_id", sl.ID.String()),
		zap.Int("details", len(sl.Details)),
		zap.Int("version", sl.Version),
	)
	resp := ToSaleResponse(sl)
	return &resp, nil
}

// Remove deletes a sale and returns its quantities to crop stock
func (s *SaleService) Remove(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "sale", "remove")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, id.String())

	err := s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		sl, err := repos.SaleRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.reconciler.ApplyDelete(ctx, s.reconciler.Ledger(repos), sl.ID, sl.LedgerLines()); err != nil {
			return err
		}
		return repos.SaleRepo().Delete(ctx, sl.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "sale removal rejected", err, zap.String("sale_id", id.String()))
		return err
	}

	s.logger.Info("sale removed", zap.String("sale_id", id.String()))
	return nil
}

// RemoveBulk removes each sale on its own, reporting per-id outcomes
func (s *SaleService) RemoveBulk(ctx context.Context, ids []uuid.UUID) *bulk.Outcome {
	return s.remover.RemoveAll(ctx, ids, s.Remove)
}

// GetByID retrieves a sale with its details
func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sl, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSaleResponse(sl)
	return &resp, nil
}

// List retrieves a page of sales
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) (*shared.Paginated[SaleResponse], error) {
	domainFilter := filter.toDomain()
	sales, total, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]SaleResponse, len(sales))
	for i := range sales {
		items[i] = ToSaleResponse(&sales[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}
