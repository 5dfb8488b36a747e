package handler

import (
	"context"
	"net/http"
	"testing"

	paymentapp "github.com/farmerp/backend/internal/application/payment"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type mockPaymentService struct {
	mock.Mock
}

func (m *mockPaymentService) Create(ctx context.Context, req paymentapp.PaymentRequest) (*paymentapp.PaymentResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.PaymentResponse), args.Error(1)
}

func (m *mockPaymentService) Remove(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockPaymentService) GetByID(ctx context.Context, id uuid.UUID) (*paymentapp.PaymentResponse, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*paymentapp.PaymentResponse), args.Error(1)
}

func (m *mockPaymentService) List(ctx context.Context, filter paymentapp.PaymentListFilter) (*shared.Paginated[paymentapp.PaymentResponse], error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*shared.Paginated[paymentapp.PaymentResponse]), args.Error(1)
}

func paymentRouter(svc *mockPaymentService) *gin.Engine {
	middleware.SetupValidator()
	h := NewPaymentHandler(svc)

	r := gin.New()
	r.POST("/payments", h.Create)
	r.GET("/payments", h.List)
	r.GET("/payments/:id", h.GetByID)
	r.DELETE("/payments/:id", h.Remove)
	return r
}

func TestPaymentHandler_Create(t *testing.T) {
	svc := new(mockPaymentService)
	r := paymentRouter(svc)
	partnerID, lineID := uuid.New(), uuid.New()
	svc.On("Create", mock.Anything, mock.MatchedBy(func(req paymentapp.PaymentRequest) bool {
		return req.PartnerID == partnerID && len(req.LineIDs) == 1 && req.LineIDs[0] == lineID
	})).Return(&paymentapp.PaymentResponse{ID: uuid.New()}, nil)

	w := doJSON(r, http.MethodPost, "/payments", map[string]any{
		"kind":       "HARVEST",
		"partner_id": partnerID,
		"date":       "2026-04-01",
		"line_ids":   []uuid.UUID{lineID},
	})

	assert.Equal(t, http.StatusCreated, w.Code)
	svc.AssertExpectations(t)
}

func TestPaymentHandler_Create_AlreadyPaid(t *testing.T) {
	svc := new(mockPaymentService)
	r := paymentRouter(svc)
	svc.On("Create", mock.Anything, mock.Anything).
		Return(nil, shared.NewDomainError(shared.CodeInvalidState, "Line is already paid"))

	w := doJSON(r, http.MethodPost, "/payments", map[string]any{
		"kind":       "SALE",
		"partner_id": uuid.New(),
		"date":       "2026-04-01",
		"line_ids":   []uuid.UUID{uuid.New()},
	})

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, shared.CodeInvalidState, decode(t, w).Error.Code)
}

func TestPaymentHandler_Create_BadDate(t *testing.T) {
	svc := new(mockPaymentService)
	r := paymentRouter(svc)

	w := doJSON(r, http.MethodPost, "/payments", map[string]any{
		"kind":       "SALE",
		"partner_id": uuid.New(),
		"date":       "01/04/2026",
		"line_ids":   []uuid.UUID{uuid.New()},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	svc.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestPaymentHandler_ListGetRemove(t *testing.T) {
	svc := new(mockPaymentService)
	r := paymentRouter(svc)
	id, partnerID := uuid.New(), uuid.New()
	svc.On("List", mock.Anything, paymentapp.PaymentListFilter{PartnerID: partnerID.String()}).
		Return(&shared.Paginated[paymentapp.PaymentResponse]{Items: []paymentapp.PaymentResponse{}, Page: 1, PageSize: 20}, nil)
	svc.On("GetByID", mock.Anything, id).Return(&paymentapp.PaymentResponse{ID: id}, nil)
	svc.On("Remove", mock.Anything, id).Return(nil)

	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/payments?partner_id="+partnerID.String(), nil).Code)
	assert.Equal(t, http.StatusBadRequest, doJSON(r, http.MethodGet, "/payments?partner_id=abc", nil).Code)
	assert.Equal(t, http.StatusOK, doJSON(r, http.MethodGet, "/payments/"+id.String(), nil).Code)
	assert.Equal(t, http.StatusNoContent, doJSON(r, http.MethodDelete, "/payments/"+id.String(), nil).Code)
}
