// =============================================================================
// Sales Analytics - Shared Types
// =============================================================================
//
// This package contains the record types shared by every stage of the
// pipeline. Keeping them here avoids import cycles between:
//   - parser
//   - validation
//   - analytics
//   - enrich
//   - report
//
// Transactions are created once per parse pass and never mutated afterwards.
// Everything else (aggregates, enriched records) is derived from them.
//
// =============================================================================

package types

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// TRANSACTION TYPES
// =============================================================================

// FieldCount is the number of pipe-delimited fields in a sales record.
const FieldCount = 8

// Transaction represents a single parsed sales record.
type Transaction struct {
	// TransactionID identifies the sale (e.g. "T001").
	TransactionID string

	// Date is the sale date in an ISO-sortable format (e.g. "2024-12-01").
	// It is kept as a string so lexicographic order equals chronological order.
	Date string

	// ProductID carries the product prefix followed by the catalog id (e.g. "P101").
	ProductID string

	// ProductName is free text with commas normalized to spaces.
	ProductName string

	// Quantity is the number of units sold.
	Quantity int

	// UnitPrice is the price of a single unit.
	UnitPrice decimal.Decimal

	// CustomerID identifies the buyer (e.g. "C001").
	CustomerID string

	// Region is the free-text sales region.
	Region string
}

// Amount returns Quantity x UnitPrice without rounding.
func (t Transaction) Amount() decimal.Decimal {
	return t.UnitPrice.Mul(decimal.NewFromInt(int64(t.Quantity)))
}

// =============================================================================
// CATALOG TYPES
// =============================================================================

// CatalogEntry is a product as published by the external catalog.
type CatalogEntry struct {
	ID       int     `json:"id"`
	Title    string  `json:"title"`
	Category string  `json:"category"`
	Brand    string  `json:"brand"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
}

// CatalogInfo is the subset of a CatalogEntry kept in the lookup mapping.
type CatalogInfo struct {
	Title    string
	Category string
	Brand    string
	Rating   float64
}

// =============================================================================
// ENRICHED TYPES
// =============================================================================

// EnrichedTransaction is a Transaction joined with catalog metadata.
// All original fields are preserved.
type EnrichedTransaction struct {
	Transaction

	// Catalog is nil when no catalog entry matched.
	Catalog *CatalogInfo

	// Matched reports whether the join succeeded.
	Matched bool
}
