package harvest

import (
	"context"

	appbulk "github.com/farmerp/backend/internal/application/bulk"
	"github.com/farmerp/backend/internal/application/reconciliation"
	"github.com/farmerp/backend/internal/domain/bulk"
	"github.com/farmerp/backend/internal/domain/harvest"
	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/farmerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// HarvestService handles harvest writes and keeps the crop stock in step with them
type HarvestService struct {
	harvestRepo harvest.Repository
	txScope     reconciliation.TransactionScope
	verifier    *partner.Verifier
	reconciler  *reconciliation.Reconciler
	remover     *appbulk.Remover
	logger      *zap.Logger
}

// NewHarvestService creates a new HarvestService.
// harvestRepo serves reads; every write goes through txScope.
func NewHarvestService(
	harvestRepo harvest.Repository,
	partnerRepo partner.Repository,
	txScope reconciliation.TransactionScope,
) *HarvestService {
	return &HarvestService{
		harvestRepo: harvestRepo,
		txScope:     txScope,
		verifier:    partner.NewVerifier(partnerRepo),
		reconciler:  reconciliation.NewReconciler(reconciliation.FlowInbound, stock.ReferenceHarvest),
		remover:     appbulk.NewRemover("harvest"),
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *HarvestService) SetLogger(logger *zap.Logger) {
	if logger == nil {
		return
	}
	s.logger = logger.Named("harvest")
	s.reconciler.SetLogger(s.logger)
	s.remover.SetLogger(s.logger)
}

// SetAdjustmentRecorder sets the recorder for ledger adjustments
func (s *HarvestService) SetAdjustmentRecorder(recorder stock.AdjustmentRecorder) {
	s.reconciler.SetRecorder(recorder)
}

// SetOutcomeRecorder sets the recorder for bulk removals
func (s *HarvestService) SetOutcomeRecorder(recorder appbulk.OutcomeRecorder) {
	s.remover.SetRecorder(recorder)
}

// Create records a harvest and adds every detail to the crop's stock
func (s *HarvestService) Create(ctx context.Context, req HarvestRequest) (*HarvestResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "harvest", "create")
	defer span.End()

	draft, err := req.Draft()
	if err != nil {
		return nil, err
	}
	h, err := harvest.New(draft)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	if err := s.verifier.Require(ctx, partner.KindEmployee, draft.EmployeeIDs()...); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	err = s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		if err := s.reconciler.ApplyCreate(ctx, s.reconciler.Ledger(repos), h.ID, h.LedgerLines()); err != nil {
			return err
		}
		return repos.HarvestRepo().Save(ctx, h)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "harvest create rejected", err, zap.String("crop_id", h.CropID.String()))
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, h.ID.String())
	s.logger.Info("harvest created",
		zap.String("harvest_id", h.ID.String()),
		zap.String("crop_id", h.CropID.String()),
		zap.Int("details", len(h.Details)),
	)
	resp := ToHarvestResponse(h)
	return &resp, nil
}

// Update replaces a harvest and its details, reconciling the crop stock
// with the details that were added, changed and removed
func (s *HarvestService) Update(ctx context.Context, id uuid.UUID, req HarvestRequest) (*HarvestResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "harvest", "update")
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
	if err := s.verifier.Require(ctx, partner.KindEmployee, draft.EmployeeIDs()...); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	var h *harvest.Harvest
	err = s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		var err error
		h, err = repos.HarvestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		before := h.LedgerLines()
		if err := h.Revise(draft); err != nil {
			return err
		}
		if _, err := s.reconciler.ApplyUpdate(ctx, s.reconciler.Ledger(repos), h.ID, before, h.LedgerLines()); err != nil {
			return err
		}
		return repos.HarvestRepo().Save(ctx, h)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "harvest update rejected", err, zap.String("harvest_id", id.String()))
		return nil, err
	}

	s.logger.Info("harvest updated",
		zap.String("harvest_id", h.ID.String()),
		zap.Int("details", len(h.Details)),
		zap.Int("version", h.Version),
	)
	resp := ToHarvestResponse(h)
	return &resp, nil
}

// Remove deletes a harvest and takes its details back out of the crop's stock.
// Fails with a linked-record conflict when any detail has been paid.
func (s *HarvestService) Remove(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "harvest", "remove")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, id.String())

	err := s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		h, err := repos.HarvestRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.reconciler.ApplyDelete(ctx, s.reconciler.Ledger(repos), h.ID, h.LedgerLines()); err != nil {
			return err
		}
		return repos.HarvestRepo().Delete(ctx, h.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "harvest removal rejected", err, zap.String("harvest_id", id.String()))
		return err
	}

	s.logger.Info("harvest removed", zap.String("harvest_id", id.String()))
	return nil
}

// RemoveBulk removes each harvest on its own, reporting per-id outcomes
func (s *HarvestService) RemoveBulk(ctx context.Context, ids []uuid.UUID) *bulk.Outcome {
	return s.remover.RemoveAll(ctx, ids, s.Remove)
}

// GetByID retrieves a harvest with its details
func (s *HarvestService) GetByID(ctx context.Context, id uuid.UUID) (*HarvestResponse, error) {
	h, err := s.harvestRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToHarvestResponse(h)
	return &resp, nil
}

// List retrieves a page of harvests
func (s *HarvestService) List(ctx context.Context, filter HarvestListFilter) (*shared.Paginated[HarvestResponse], error) {
	domainFilter := filter.toDomain()
	harvests, total, err := s.harvestRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]HarvestResponse, len(harvests))
	for i := range harvests {
		items[i] = ToHarvestResponse(&harvests[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}
