package handler

import (
	"context"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CatalogService is the application surface of a master-data entity
// (crop, supply or partner).
type CatalogService[Create, Update, Resp, Filter any] interface {
	Create(ctx context.Context, req Create) (*Resp, error)
	Update(ctx context.Context, id uuid.UUID, req Update) (*Resp, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*Resp, error)
	List(ctx context.Context, filter Filter) (*shared.Paginated[Resp], error)
}

// CatalogHandler serves CRUD for one master-data entity
type CatalogHandler[Create, Update, Resp, Filter any] struct {
	BaseHandler
	service CatalogService[Create, Update, Resp, Filter]
}

// NewCatalogHandler creates a handler over the given service
func NewCatalogHandler[Create, Update, Resp, Filter any](service CatalogService[Create, Update, Resp, Filter]) *CatalogHandler[Create, Update, Resp, Filter] {
	return &CatalogHandler[Create, Update, Resp, Filter]{service: service}
}

// Create adds a new entity
func (h *CatalogHandler[Create, Update, Resp, Filter]) Create(c *gin.Context) {
	var req Create
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

// List returns a page of entities
func (h *CatalogHandler[Create, Update, Resp, Filter]) List(c *gin.Context) {
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

// GetByID returns one entity
func (h *CatalogHandler[Create, Update, Resp, Filter]) GetByID(c *gin.Context) {
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

// Update changes an entity
func (h *CatalogHandler[Create, Update, Resp, Filter]) Update(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}
	var req Update
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

// Delete removes an entity that no record references
func (h *CatalogHandler[Create, Update, Resp, Filter]) Delete(c *gin.Context) {
	id, ok := h.ParseID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
