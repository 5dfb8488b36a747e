package persistence

import (
	"strings"
)

// ValidateSortOrder validates and normalizes the sort order to ASC or DESC.
// Returns "DESC" as the default if the input is invalid or empty.
func ValidateSortOrder(orderDir string) string {
	normalized := strings.ToUpper(strings.TrimSpace(orderDir))
	if normalized == "ASC" {
		return "ASC"
	}
	return "DESC"
}

// ValidateSortField validates the sort field against a whitelist of allowed fields.
// Returns the defaultField if the input is invalid, empty, or not in the whitelist.
func ValidateSortField(sortField string, allowedFields map[string]bool, defaultField string) string {
	trimmed := strings.TrimSpace(sortField)
	if trimmed == "" {
		return defaultField
	}
	if allowedFields[trimmed] {
		return trimmed
	}
	return defaultField
}

// HarvestSortFields contains allowed sort fields for harvests
var HarvestSortFields = map[string]bool{
	"created_at": true,
	"date":       true,
	"amount":     true,
	"value_pay":  true,
}

// SaleSortFields contains allowed sort fields for sales
var SaleSortFields = map[string]bool{
	"created_at": true,
	"date":       true,
	"quantity":   true,
	"total":      true,
}

// PurchaseSortFields contains allowed sort fields for supplies purchases
var PurchaseSortFields = map[string]bool{
	"created_at": true,
	"date":       true,
	"total":      true,
}

// CatalogSortFields contains allowed sort fields for crops and supplies
var CatalogSortFields = map[string]bool{
	"created_at": true,
	"name":       true,
}

// PartnerSortFields contains allowed sort fields for partners
var PartnerSortFields = map[string]bool{
	"created_at": true,
	"first_name": true,
	"last_name":  true,
}

// PaymentSortFields contains allowed sort fields for payments
var PaymentSortFields = map[string]bool{
	"created_at": true,
	"date":       true,
	"total":      true,
}

// StockSortFields contains allowed sort fields for stock resources
var StockSortFields = map[string]bool{
	"name":       true,
	"quantity":   true,
	"updated_at": true,
}
