// =============================================================================
// Sales Analytics - Report Assembler
// =============================================================================
//
// This module builds the structured Report model from validated and enriched
// transactions. Renderers (text, workbook) only format what is assembled
// here; they never compute statistics themselves.
//
// REPORT SECTIONS (in order):
//   1. Header:        record count, generation time, run id
//   2. Overall:       revenue, transaction count, average order value, date range
//   3. Regions:       per-region sales and share of revenue
//   4. Top products:  by quantity sold
//   5. Top customers: by total spent
//   6. Daily trend:   first N days plus an overflow count
//   7. Performance:   peak day, low performers, region averages
//   8. Enrichment:    match rate and unmatched product ids
//
// =============================================================================

package report

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/analytics"
	"github.com/ginjaninja78/sales-analytics/internal/enrich"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// NotAvailable is shown for values that do not exist in an empty dataset.
const NotAvailable = "N/A"

// =============================================================================
// OPTIONS
// =============================================================================

// Options controls section sizes. Zero fields take the defaults.
type Options struct {
	TopProducts           int
	TopCustomers          int
	LowPerformerThreshold int
	DailyTrendLimit       int
	LowPerformerLimit     int
	UnmatchedLimit        int
}

// DefaultOptions returns the standard section sizes.
func DefaultOptions() Options {
	return Options{
		TopProducts:           5,
		TopCustomers:          5,
		LowPerformerThreshold: 10,
		DailyTrendLimit:       12,
		LowPerformerLimit:     8,
		UnmatchedLimit:        15,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.TopProducts <= 0 {
		o.TopProducts = d.TopProducts
	}
	if o.TopCustomers <= 0 {
		o.TopCustomers = d.TopCustomers
	}
	if o.LowPerformerThreshold <= 0 {
		o.LowPerformerThreshold = d.LowPerformerThreshold
	}
	if o.DailyTrendLimit <= 0 {
		o.DailyTrendLimit = d.DailyTrendLimit
	}
	if o.LowPerformerLimit <= 0 {
		o.LowPerformerLimit = d.LowPerformerLimit
	}
	if o.UnmatchedLimit <= 0 {
		o.UnmatchedLimit = d.UnmatchedLimit
	}
	return o
}

// =============================================================================
// REPORT MODEL
// =============================================================================

// Input is everything Assemble needs.
type Input struct {
	Transactions []types.Transaction
	Enriched     []types.EnrichedTransaction
	GeneratedAt  time.Time
	RunID        string
	Options      Options
}

// Header identifies the report.
type Header struct {
	RecordCount int
	GeneratedAt time.Time
	RunID       string
}

// DateRange is the span of sale dates. Valid is false for an empty dataset.
type DateRange struct {
	Start string
	End   string
	Valid bool
}

// String renders the range as "start to end", or N/A.
func (d DateRange) String() string {
	if !d.Valid {
		return NotAvailable
	}
	return d.Start + " to " + d.End
}

// Overall holds the headline numbers.
type Overall struct {
	TotalRevenue      decimal.Decimal
	TransactionCount  int
	AverageOrderValue decimal.Decimal
	DateRange         DateRange
}

// Enrichment summarizes the catalog join.
type Enrichment struct {
	Total       int
	Matched     int
	SuccessRate decimal.Decimal

	// Unmatched is capped at Options.UnmatchedLimit.
	Unmatched         []string
	UnmatchedOverflow int
}

// Report is the assembled, render-ready report.
type Report struct {
	Header  Header
	Overall Overall

	Regions      []analytics.RegionStats
	TopProducts  []analytics.ProductStats
	TopCustomers []analytics.CustomerStats

	// DailyTrend is capped at Options.DailyTrendLimit.
	DailyTrend         []analytics.DayStats
	DailyTrendOverflow int

	// PeakDay is nil for an empty dataset.
	PeakDay *analytics.DayStats

	// LowPerformers is capped at Options.LowPerformerLimit.
	LowPerformers         []analytics.ProductStats
	LowPerformersOverflow int
	LowPerformerThreshold int

	RegionAverages []analytics.RegionAverage

	Enrichment Enrichment

	// Options are the effective section sizes.
	Options Options
}

// =============================================================================
// ASSEMBLY
// =============================================================================

// Assemble computes every report section.
//
// PARAMETERS:
//   - in: Validated transactions, their enriched counterparts and metadata.
//
// RETURNS:
//   - The report. Never nil; an empty dataset yields zero totals and N/A ranges.
func Assemble(in Input) *Report {
	opts := in.Options.withDefaults()
	txs := in.Transactions

	generatedAt := in.GeneratedAt
	if generatedAt.IsZero() {
		generatedAt = time.Now()
	}

	r := &Report{
		Header: Header{
			RecordCount: len(txs),
			GeneratedAt: generatedAt,
			RunID:       in.RunID,
		},
		Overall:               overall(txs),
		Regions:               analytics.RegionWiseSales(txs),
		TopProducts:           analytics.TopSellingProducts(txs, opts.TopProducts),
		TopCustomers:          topN(analytics.CustomerAnalysis(txs), opts.TopCustomers),
		RegionAverages:        analytics.RegionAverages(txs),
		LowPerformerThreshold: opts.LowPerformerThreshold,
		Options:               opts,
	}

	r.DailyTrend, r.DailyTrendOverflow = capped(analytics.DailySalesTrend(txs), opts.DailyTrendLimit)

	if peak, ok := analytics.PeakSalesDay(txs); ok {
		r.PeakDay = &peak
	}

	r.LowPerformers, r.LowPerformersOverflow = capped(
		analytics.LowPerformingProducts(txs, opts.LowPerformerThreshold),
		opts.LowPerformerLimit,
	)

	summary := enrich.Summarize(in.Enriched)
	r.Enrichment = Enrichment{
		Total:       summary.Total,
		Matched:     summary.Matched,
		SuccessRate: summary.SuccessRate,
	}
	r.Enrichment.Unmatched, r.Enrichment.UnmatchedOverflow = capped(summary.Unmatched, opts.UnmatchedLimit)

	return r
}

func overall(txs []types.Transaction) Overall {
	o := Overall{
		TotalRevenue:      analytics.TotalRevenue(txs),
		TransactionCount:  len(txs),
		AverageOrderValue: decimal.Zero,
	}
	if len(txs) == 0 {
		return o
	}

	o.AverageOrderValue = o.TotalRevenue.Div(decimal.NewFromInt(int64(len(txs)))).Round(2)

	o.DateRange = DateRange{Start: txs[0].Date, End: txs[0].Date, Valid: true}
	for _, tx := range txs[1:] {
		if tx.Date < o.DateRange.Start {
			o.DateRange.Start = tx.Date
		}
		if tx.Date > o.DateRange.End {
			o.DateRange.End = tx.Date
		}
	}
	return o
}

// capped returns at most limit items and how many were left out.
func capped[T any](items []T, limit int) ([]T, int) {
	if len(items) <= limit {
		return items, 0
	}
	return items[:limit], len(items) - limit
}

func topN[T any](items []T, n int) []T {
	list, _ := capped(items, n)
	return list
}
