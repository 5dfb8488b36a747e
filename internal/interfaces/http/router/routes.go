package router

import (
	"github.com/farmerp/backend/internal/domain/stock"
	"github.com/farmerp/backend/internal/interfaces/http/handler"
	"github.com/gin-gonic/gin"
)

// Handlers holds every HTTP handler of the API
type Handlers struct {
	Harvests  *handler.HarvestHandler
	Sales     *handler.SaleHandler
	Purchases *handler.PurchaseHandler
	Crops     *handler.CropHandler
	Supplies  *handler.SupplyHandler
	Partners  *handler.PartnerHandler
	Stock     *handler.StockHandler
	Payments  *handler.PaymentHandler
	System    *handler.SystemHandler
}

type aggregateEndpoints interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Update(c *gin.Context)
	Remove(c *gin.Context)
	RemoveBulk(c *gin.Context)
}

type catalogEndpoints interface {
	Create(c *gin.Context)
	List(c *gin.Context)
	GetByID(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
}

// AggregateGroup registers the routes shared by harvests, sales and supplies purchases
func AggregateGroup(name, prefix string, h aggregateEndpoints) *DomainGroup {
	return NewDomainGroup(name, prefix).
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PATCH("/:id", h.Update).
		DELETE("/:id", h.Remove).
		DELETE("/remove/bulk", h.RemoveBulk)
}

// CatalogGroup registers CRUD routes for a master-data entity
func CatalogGroup(name, prefix string, h catalogEndpoints) *DomainGroup {
	return NewDomainGroup(name, prefix).
		POST("", h.Create).
		GET("", h.List).
		GET("/:id", h.GetByID).
		PATCH("/:id", h.Update).
		DELETE("/:id", h.Delete)
}

// Groups builds the route groups served under /api/v1
func Groups(h Handlers) []RouteRegistrar {
	crops := CatalogGroup("crops", "/crops", h.Crops).
		GET("/stock", h.Stock.ListFor(stock.ResourceKindCrop))
	supplies := CatalogGroup("supplies", "/supplies", h.Supplies).
		GET("/stock", h.Stock.ListFor(stock.ResourceKindSupply))

	stockGroup := NewDomainGroup("stock", "/stock").
		GET("", h.Stock.List).
		GET("/:id", h.Stock.GetByID).
		GET("/:id/movements", h.Stock.Movements).
		POST("/:id/adjust", h.Stock.Adjust)

	payments := NewDomainGroup("payments", "/payments").
		POST("", h.Payments.Create).
		GET("", h.Payments.List).
		GET("/:id", h.Payments.GetByID).
		DELETE("/:id", h.Payments.Remove)

	system := NewDomainGroup("system", "/system").
		GET("/info", h.System.GetSystemInfo).
		GET("/ping", h.System.Ping)

	return []RouteRegistrar{
		AggregateGroup("harvests", "/harvests", h.Harvests),
		AggregateGroup("sales", "/sales", h.Sales),
		AggregateGroup("supplies-purchases", "/supplies-purchases", h.Purchases),
		crops,
		supplies,
		CatalogGroup("partners", "/partners", h.Partners),
		stockGroup,
		payments,
		system,
	}
}

// Setup registers /health and the versioned API on engine
func Setup(engine *gin.Engine, h Handlers, opts ...RouterOption) *Router {
	engine.GET("/health", h.System.Health)

	r := NewRouter(engine, opts...).Register(Groups(h)...)
	r.Setup()
	return r
}
