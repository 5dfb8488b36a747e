package handler

import (
	"context"

	"github.com/farmerp/backend/internal/domain/bulk"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// AggregateService is the application surface of a stock-moving aggregate
// (harvest, sale or supplies purchase).
type AggregateService[Req, Resp, Filter any] interface {
	Create(ctx context.Context, req Req) (*Resp, error)
	Update(ctx context.Context, id uuid.UUID, req Req) (*Resp, error)
	Remove(ctx context.Context, id uuid.UUID) error
	RemoveBulk(ctx context.Context, ids []uuid.UUID) *bulk.Outcome
	GetByID(ctx context.Context, id uuid.UUID) (*Resp, error)
	List(ctx context.Context, filter Filter) (*shared.Paginated[Resp], error)
}

// AggregateHandler serves create, read, update and removal of one aggregate type
type AggregateHandler[Req, Resp, Filter any] struct {
	BaseHandler
	service AggregateService[Req, Resp, Filter]
}

// NewAggregateHandler creates a handler over the given service
func NewAggregateHandler[Req, Resp, Filter any](service AggregateService[Req, Resp, Filter]) *AggregateHandler[Req, Resp, Filter] {
	return &AggregateHandler[Req, Resp, Filter]{service: service}
}

// Create records a new aggregate and applies its stock effect
func (h *AggregateHandler[Req, Resp, Filter]) Create(c *gin.Context) {
	var req Req
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

// List returns a page of aggregates
func (h *AggregateHandler[Req, Resp, Filter]) List(c *gin.Context) {
	var filter Filter
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

// GetByID returns one aggregate with its lines
func (h *AggregateHandler[Req, Resp, Filter]) GetByID(c *gin.Context) {
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

// Update replaces an aggregate and reconciles the stock difference
func (h *AggregateHandler[Req, Resp, Filter]) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req Req
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}

// Remove deletes an aggregate and reverses its stock effect
func (h *AggregateHandler[Req, Resp, Filter]) Remove(c *gin.Context) {
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

// RemoveBulk removes each listed aggregate in its own transaction
func (h *AggregateHandler[Req, Resp, Filter]) RemoveBulk(c *gin.Context) {
	var req dto.BulkRemoveRequest
	if !h.BindJSON(c, &req) {
		return
	}

	h.BulkOutcome(c, h.service.RemoveBulk(c.Request.Context(), req.RecordIDs))
}
