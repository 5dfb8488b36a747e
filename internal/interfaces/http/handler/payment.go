package handler

import (
	"context"

	paymentapp "github.com/farmerp/backend/internal/application/payment"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// PaymentService is the application surface of payments
type PaymentService interface {
	Create(ctx context.Context, req paymentapp.PaymentRequest) (*paymentapp.PaymentResponse, error)
	Remove(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*paymentapp.PaymentResponse, error)
	List(ctx context.Context, filter paymentapp.PaymentListFilter) (*shared.Paginated[paymentapp.PaymentResponse], error)
}

// PaymentHandler serves /payments
type PaymentHandler struct {
	BaseHandler
	service PaymentService
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(service PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// Create settles a set of unpaid records
func (h *PaymentHandler) Create(c *gin.Context) {
	var req paymentapp.PaymentRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, resp)
}

// List returns a page of payments
func (h *PaymentHandler) List(c *gin.Context) {
	var filter paymentapp.PaymentListFilter
	if !h.BindQuery(c, &filter) {
		return
	}

	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetByID returns one payment
func (h *PaymentHandler) GetByID(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	resp, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Remove deletes a payment and releases the records it settled
func (h *PaymentHandler) Remove(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Remove(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
