package payment

import (
	"context"

	"github.com/farmerp/backend/internal/application/reconciliation"
	"github.com/farmerp/backend/internal/domain/partner"
	"github.com/farmerp/backend/internal/domain/payment"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/shared/valueobject"
	"github.com/farmerp/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// PaymentService records payments and the detail-line locks they hold.
// A locked line can no longer be removed or have its quantity, unit or value changed.
type PaymentService struct {
	paymentRepo payment.Repository
	txScope     reconciliation.TransactionScope
	verifier    *partner.Verifier
	logger      *zap.Logger
}

// NewPaymentService creates a new PaymentService
func NewPaymentService(
	paymentRepo payment.Repository,
	partnerRepo partner.Repository,
	txScope reconciliation.TransactionScope,
) *PaymentService {
	return &PaymentService{
		paymentRepo: paymentRepo,
		txScope:     txScope,
		verifier:    partner.NewVerifier(partnerRepo),
		logger:      zap.NewNop(),
	}
}

// SetLogger sets the logger
func (s *PaymentService) SetLogger(logger *zap.Logger) {
	if logger != nil {
		s.logger = logger.Named("payment")
	}
}

// Create settles the requested lines.
// Lines must exist, be unsettled, belong to the partner and add up to the total.
func (s *PaymentService) Create(ctx context.Context, req PaymentRequest) (*PaymentResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "create")
	defer span.End()

	date, err := valueobject.ParseDate(req.Date)
	if err != nil {
		return nil, shared.NewValidationError("date: " + err.Error())
	}
	if req.Kind.IsValid() && req.PartnerID != uuid.Nil {
		if err := s.verifier.Require(ctx, req.Kind.PartnerKind(), req.PartnerID); err != nil {
			telemetry.RecordError(span, err)
			return nil, err
		}
	}

	var p *payment.Payment
	err = s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		lines, err := repos.PaymentLineRepo().FindLines(ctx, req.Kind, req.LineIDs)
		if err != nil {
			return err
		}
		p, err = payment.New(req.Kind, req.PartnerID, date, req.Total, req.Method, req.LineIDs, lines)
		if err != nil {
			return err
		}
		if err := repos.PaymentRepo().Save(ctx, p); err != nil {
			return err
		}
		return repos.PaymentLineRepo().Lock(ctx, p.Kind, p.ID, p.LineIDs)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "payment create rejected", err, zap.String("partner_id", req.PartnerID.String()))
		return nil, err
	}

	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, p.ID.String())
	s.logger.Info("payment created",
		zap.String("payment_id", p.ID.String()),
		zap.String("kind", p.Kind.String()),
		zap.Int("lines", len(p.LineIDs)),
	)
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// Remove deletes a payment and releases the lines it settled
func (s *PaymentService) Remove(ctx context.Context, id uuid.UUID) error {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "remove")
	defer span.End()
	telemetry.SetAttributes(span, telemetry.SpanAttrAggregateID, id.String())

	err := s.txScope.Execute(ctx, func(repos reconciliation.TransactionalRepositories) error {
		p, err := repos.PaymentRepo().FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := repos.PaymentLineRepo().Unlock(ctx, p.Kind, p.ID); err != nil {
			return err
		}
		return repos.PaymentRepo().Delete(ctx, p.ID)
	})
	if err != nil {
		telemetry.RecordError(span, err)
		reconciliation.LogRejected(s.logger, "payment removal rejected", err, zap.String("payment_id", id.String()))
		return err
	}

	s.logger.Info("payment removed", zap.String("payment_id", id.String()))
	return nil
}

// GetByID retrieves a payment with the lines it settled
func (s *PaymentService) GetByID(ctx context.Context, id uuid.UUID) (*PaymentResponse, error) {
	p, err := s.paymentRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToPaymentResponse(p)
	return &resp, nil
}

// List retrieves a page of payments
func (s *PaymentService) List(ctx context.Context, filter PaymentListFilter) (*shared.Paginated[PaymentResponse], error) {
	domainFilter := filter.toDomain()
	payments, total, err := s.paymentRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, err
	}
	items := make([]PaymentResponse, len(payments))
	for i := range payments {
		items[i] = ToPaymentResponse(&payments[i])
	}
	page := shared.NewPaginated(items, total, domainFilter.Page, domainFilter.PageSize)
	return &page, nil
}
