package handler

import (
	"context"

	catalogapp "github.com/farmerp/backend/internal/application/catalog"
	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// StockService is the read and adjustment surface of the stock ledger
type StockService interface {
	List(ctx context.Context, filter catalogapp.StockListFilter) (*shared.Paginated[catalogapp.StockResponse], error)
	GetByID(ctx context.Context, id uuid.UUID) (*catalogapp.StockResponse, error)
	Movements(ctx context.Context, id uuid.UUID, page, pageSize int) (*shared.Paginated[catalogapp.MovementResponse], error)
	Adjust(ctx context.Context, id uuid.UUID, req catalogapp.AdjustStockRequest) (*catalogapp.StockResponse, error)
}

// StockHandler serves stock balances for crops and supplies
type StockHandler struct {
	BaseHandler
	service StockService
}

// NewStockHandler creates a new StockHandler
func NewStockHandler(service StockService) *StockHandler {
	return &StockHandler{service: service}
}

// MovementQuery pages through a resource's ledger
type MovementQuery struct {
	Page     int `form:"page" binding:"omitempty,min=1"`
	PageSize int `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// List returns stock balances, optionally restricted to one kind
func (h *StockHandler) List(c *gin.Context) {
	var filter catalogapp.StockListFilter
	if !h.BindQuery(c, &filter) {
		return
	}
	h.list(c, filter)
}

// ListFor returns a handler that lists only resources of kind,
// used by GET /crops/stock and GET /supplies/stock.
func (h *StockHandler) ListFor(kind stock.ResourceKind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var filter catalogapp.StockListFilter
		if !h.BindQuery(c, &filter) {
			return
		}
		filter.Kind = string(kind)
		h.list(c, filter)
	}
}

func (h *StockHandler) list(c *gin.Context, filter catalogapp.StockListFilter) {
	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// GetByID returns one stock balance
func (h *StockHandler) GetByID(c *gin.Context) {
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

// Movements returns the ledger entries of one stock resource, newest first
func (h *StockHandler) Movements(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var q MovementQuery
	if !h.BindQuery(c, &q) {
		return
	}

	page, err := h.service.Movements(c.Request.Context(), id, q.Page, q.PageSize)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	Paginated(&h.BaseHandler, c, page)
}

// Adjust applies a manual correction to a stock balance
func (h *StockHandler) Adjust(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req catalogapp.AdjustStockRequest
	if !h.BindJSON(c, &req) {
		return
	}

	resp, err := h.service.Adjust(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, resp)
}
