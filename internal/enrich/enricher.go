// =============================================================================
// Sales Analytics - Enrichment Module
// =============================================================================
//
// This module joins transactions with catalog metadata.
//
// MATCHING:
//   The numeric catalog id is taken from the first run of digits that follows
//   the product prefix in ProductID ("P101" -> 101). A record matches when an
//   id can be extracted and the catalog has an entry for it.
//
// GUARANTEES:
//   - Output has the same length and order as the input
//   - All original fields are preserved
//   - Extraction is pure and never panics
//
// =============================================================================

package enrich

import (
	"regexp"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// DefaultProductPrefix is the prefix expected in front of catalog ids.
const DefaultProductPrefix = "P"

// =============================================================================
// MATCHER
// =============================================================================

// Matcher extracts catalog ids for a given product prefix.
type Matcher struct {
	pattern *regexp.Regexp
}

// NewMatcher creates a Matcher. An empty prefix means DefaultProductPrefix.
func NewMatcher(prefix string) *Matcher {
	if prefix == "" {
		prefix = DefaultProductPrefix
	}
	return &Matcher{
		pattern: regexp.MustCompile(regexp.QuoteMeta(prefix) + `(\d+)`),
	}
}

var defaultMatcher = NewMatcher(DefaultProductPrefix)

// ExtractProductID returns the catalog id embedded in productID using the
// default prefix.
func ExtractProductID(productID string) (int, bool) {
	return defaultMatcher.ExtractProductID(productID)
}

// Enrich joins transactions with the mapping using the default prefix.
func Enrich(transactions []types.Transaction, mapping map[int]types.CatalogInfo) []types.EnrichedTransaction {
	return defaultMatcher.Enrich(transactions, mapping)
}

// ExtractProductID returns the digits following the first occurrence of the
// prefix. The bool is false when there are no digits or they overflow int.
func (m *Matcher) ExtractProductID(productID string) (int, bool) {
	match := m.pattern.FindStringSubmatch(productID)
	if match == nil {
		return 0, false
	}
	id, err := strconv.Atoi(match[1])
	if err != nil {
		return 0, false
	}
	return id, true
}

// Enrich attaches catalog metadata to every transaction.
//
// PARAMETERS:
//   - transactions: Validated transactions.
//   - mapping: Catalog lookup from BuildMapping. May be empty.
//
// RETURNS:
//   - One EnrichedTransaction per input record, in input order.
func (m *Matcher) Enrich(transactions []types.Transaction, mapping map[int]types.CatalogInfo) []types.EnrichedTransaction {
	enriched := make([]types.EnrichedTransaction, 0, len(transactions))
	for _, tx := range transactions {
		record := types.EnrichedTransaction{Transaction: tx}
		if id, ok := m.ExtractProductID(tx.ProductID); ok {
			if info, found := mapping[id]; found {
				record.Catalog = &info
				record.Matched = true
			}
		}
		enriched = append(enriched, record)
	}
	return enriched
}

// =============================================================================
// SUMMARY
// =============================================================================

// Summary describes how well enrichment went.
type Summary struct {
	Total   int
	Matched int

	// SuccessRate is Matched/Total x 100, rounded to 2 places.
	SuccessRate decimal.Decimal

	// Unmatched is the sorted, distinct list of ProductIDs that found no
	// catalog entry.
	Unmatched []string
}

// Summarize counts matches and collects unmatched product ids.
func Summarize(enriched []types.EnrichedTransaction) Summary {
	summary := Summary{
		Total:       len(enriched),
		SuccessRate: decimal.Zero,
		Unmatched:   []string{},
	}

	seen := make(map[string]bool)
	for _, record := range enriched {
		if record.Matched {
			summary.Matched++
			continue
		}
		if !seen[record.ProductID] {
			seen[record.ProductID] = true
			summary.Unmatched = append(summary.Unmatched, record.ProductID)
		}
	}
	sort.Strings(summary.Unmatched)

	if summary.Total > 0 {
		summary.SuccessRate = decimal.NewFromInt(int64(summary.Matched)).
			Div(decimal.NewFromInt(int64(summary.Total))).
			Mul(decimal.NewFromInt(100)).
			Round(2)
	}

	return summary
}
