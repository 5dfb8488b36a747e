package handler

import (
	catalogapp "github.com/farmerp/backend/internal/application/catalog"
	harvestapp "github.com/farmerp/backend/internal/application/harvest"
	partnerapp "github.com/farmerp/backend/internal/application/partner"
	purchaseapp "github.com/farmerp/backend/internal/application/purchase"
	saleapp "github.com/farmerp/backend/internal/application/sale"
)

// HarvestHandler serves /harvests
type HarvestHandler = AggregateHandler[harvestapp.HarvestRequest, harvestapp.HarvestResponse, harvestapp.HarvestListFilter]

// NewHarvestHandler creates a new HarvestHandler
func NewHarvestHandler(service *harvestapp.HarvestService) *HarvestHandler {
	return NewAggregateHandler[harvestapp.HarvestRequest, harvestapp.HarvestResponse, harvestapp.HarvestListFilter](service)
}

// SaleHandler serves /sales
type SaleHandler = AggregateHandler[saleapp.SaleRequest, saleapp.SaleResponse, saleapp.SaleListFilter]

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(service *saleapp.SaleService) *SaleHandler {
	return NewAggregateHandler[saleapp.SaleRequest, saleapp.SaleResponse, saleapp.SaleListFilter](service)
}

// PurchaseHandler serves /supplies-purchases
type PurchaseHandler = AggregateHandler[purchaseapp.PurchaseRequest, purchaseapp.PurchaseResponse, purchaseapp.PurchaseListFilter]

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(service *purchaseapp.PurchaseService) *PurchaseHandler {
	return NewAggregateHandler[purchaseapp.PurchaseRequest, purchaseapp.PurchaseResponse, purchaseapp.PurchaseListFilter](service)
}

// CropHandler serves /crops
type CropHandler = CatalogHandler[catalogapp.CreateCropRequest, catalogapp.UpdateCropRequest, catalogapp.CropResponse, catalogapp.CatalogListFilter]

// NewCropHandler creates a new CropHandler
func NewCropHandler(service *catalogapp.CropService) *CropHandler {
	return NewCatalogHandler[catalogapp.CreateCropRequest, catalogapp.UpdateCropRequest, catalogapp.CropResponse, catalogapp.CatalogListFilter](service)
}

// SupplyHandler serves /supplies
type SupplyHandler = CatalogHandler[catalogapp.CreateSupplyRequest, catalogapp.UpdateSupplyRequest, catalogapp.SupplyResponse, catalogapp.CatalogListFilter]

// NewSupplyHandler creates a new SupplyHandler
func NewSupplyHandler(service *catalogapp.SupplyService) *SupplyHandler {
	return NewCatalogHandler[catalogapp.CreateSupplyRequest, catalogapp.UpdateSupplyRequest, catalogapp.SupplyResponse, catalogapp.CatalogListFilter](service)
}

// PartnerHandler serves /partners
type PartnerHandler = CatalogHandler[partnerapp.CreatePartnerRequest, partnerapp.UpdatePartnerRequest, partnerapp.PartnerResponse, partnerapp.PartnerListFilter]

// NewPartnerHandler creates a new PartnerHandler
func NewPartnerHandler(service *partnerapp.PartnerService) *PartnerHandler {
	return NewCatalogHandler[partnerapp.CreatePartnerRequest, partnerapp.UpdatePartnerRequest, partnerapp.PartnerResponse, partnerapp.PartnerListFilter](service)
}
