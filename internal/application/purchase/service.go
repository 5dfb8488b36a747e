package purchase

import (
	"context"

	appbulk "github.com/farmerp/backend/internal/application/bulk"
	"github.com/farmerp/backend/internal/application/reconciliation"
	"github.com/farmerp/backend/internal/domain/bulk"
	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/purchase"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/farmerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PurchaseService handles supplies purchase writes.
// Every detail adds its amount to the stock of the supply bought.
type PurchaseService struct {
	purchaseRepo purchase.Repository
	txScope      reconciliation.TransactionScope
	verifier     *partner.Verifier
	reconciler   *reconciliation.Reconciler
	remover      *appbulk.Remover
	logger       *zap.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(
	purchaseRepo purchase.Repository,
	partnerRepo partner.Repository,
	txScope reconciliation.TransactionScope,
) *PurchaseService {
	return &PurchaseService{
		purchaseRepo: purchaseRepo,
		txScope:      txScope,
		verifier:     partner.NewVerifier(partnerRepo),
		reconciler:   reconciliation.NewReconciler(reconciliation.FlowInbound, stock.ReferenceSuppliesPurchase),
		remover:      appbulk.NewRemover("supplies_purchase"),
		logger:       zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *PurchaseService) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	s.logger = logger.Named("purchase")
	s.reconciler.SetLogger(s.logger)
	s.remover.SetLogger(s.logger)
}

// SetAdjustmentRecorder sets the recorder for ledger adjustments
func (s *PurchaseService) SetAdjustmentRecorder(recorder stock.AdjustmentRecorder) {
	s.reconciler.SetRecorder(recorder)
}

// SetOutcomeRecorder sets the recorder for bulk removals
func (s *PurchaseService) SetOutcomeRecorder(recorder appbulk.OutcomeRecorder) {
	s.remover.SetRecorder(recorder)
}

// Create records a supplies purchase
func (s *PurchaseService) Create(ctx context.Context, req PurchaseRequest) (*PurchaseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase", "create")
	defer span.End()

	draft, err := req.Draft()
	if err != nil {
		return nil, err
	}
	p, err := purchase.New(draft)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.verifier.Require(ctx, partner.KindSupplier, draft.SupplierIDs()...); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		if err := s.reconciler.ApplyCreate(ctx, s.reconciler.Ledger(repos), p.ID, p.LedgerLines()); err != nil {
			return err
		}
		return repos.PurchaseRepo().Save(ctx, p)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "supplies purchase create rejected", err)
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, p.ID.String())
	s.logger.Info("supplies purchase created",
		zap.String("purchase_id", p.ID.String()),
		zap.Int("details", len(p.Details)),
	)
	resp := ToPurchaseResponse(p)
	return &resp, nil
}

// Update replaces a supplies purchase and its details, reconciling supply stock
func (s *PurchaseService) Update(ctx context.Context, id uuid.UUID, req PurchaseRequest) (*PurchaseResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase", "update")
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
	if err := s.verifier.Require(ctx, partner.KindSupplier, draft.SupplierIDs()...); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var p *purchase.SuppliesPurchase
	err = s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		var err error
		p, err = repos.PurchaseRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := p.LedgerLines()
		if err := p.Revise(draft); err != nil {
			return err
		}
		if _, err := s.reconciler.ApplyUpdate(ctx, s.reconciler.Ledger(repos), p.ID, before, p.LedgerLines()); err != nil {
			return err
		}
		return repos.PurchaseRepo().Save(ctx, p)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "supplies purchase update rejected", err, zap.String("purchase_id", id.String()))
		return nil, err
	}

	s.logger.Info("supplies purchase updated",
		zap.String("purchase_id", p.ID.String()),
		zap.Int("details", len(p.Details)),
		zap.Int("version", p.Version),
	)
	resp := ToPurchaseResponse(p)
	return &resp, nil
}

// Remove deletes a supplies purchase and takes its amounts back out of supply stock
func (s *PurchaseService) Remove(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "purchase", "remove")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, id.String())

	err := s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		p, err := repos.PurchaseRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.reconciler.ApplyDelete(ctx, s.reconciler.Ledger(repos), p.ID, p.LedgerLines()); err != nil {
			return err
		}
		return repos.PurchaseRepo().Delete(ctx, p.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "supplies purchase removal rejected", err, zap.String("purchase_id", id.String()))
		return err
	}

	s.logger.Info("supplies purchase removed", zap.String("purchase_id", id.String()))
	return nil
}

// RemoveBulk removes each purchase on its own, reporting per-id outcomes
func (s *PurchaseService) RemoveBulk(ctx context.Context, ids []uuid.UUID) *bulk.Outcome {
	return s.remover.RemoveAll(ctx, ids, s.Remove)
}

// GetByID retrieves a supplies purchase with its details
func (s *PurchaseService) GetByID(ctx context.Context, id uuid.UUID) (*PurchaseResponse, error) {
	p, err := s.purchaseRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPurchaseResponse(p)
	return &resp, nil
}

// List retrieves a page of supplies purchases
func (s *PurchaseService) List(ctx context.Context, filter PurchaseListFilter) (*shared.Paginated[PurchaseResponse], error) {
	domainFilter := filter.toDomain()
	purchases, total, err := s.purchaseRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		items[i] = ToPurchaseResponse(&purchases[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}
