// =============================================================================
// Sales Analytics - Aggregation Module
// =============================================================================
//
// This module computes descriptive statistics over validated transactions.
// Every function recomputes from scratch in two steps:
//   1. Accumulate: fold transactions into per-key accumulators, remembering
//      the order in which keys were first seen
//   2. Finalize: turn accumulators into output records, then sort
//
// ORDERING:
//   All sorts are stable, so ties keep first-seen order.
//
// MONEY:
//   Sums are exact decimals. Emitted money values and percentages are rounded
//   to 2 decimal places; TotalRevenue is returned unrounded.
//
// An empty input always yields empty slices and zero totals.
//
// =============================================================================

package analytics

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// Defaults used when a caller passes a non-positive size or threshold.
const (
	DefaultTopN                  = 5
	DefaultLowPerformerThreshold = 10
)

const moneyPlaces = 2

var hundred = decimal.NewFromInt(100)

// =============================================================================
// AGGREGATE TYPES
// =============================================================================

// RegionStats summarizes sales for one region.
type RegionStats struct {
	Region           string
	TotalSales       decimal.Decimal
	TransactionCount int

	// Percentage of total revenue, rounded to 2 places.
	Percentage decimal.Decimal
}

// ProductStats summarizes sales for one product name.
type ProductStats struct {
	Name          string
	TotalQuantity int
	TotalRevenue  decimal.Decimal
}

// CustomerStats summarizes purchases for one customer.
type CustomerStats struct {
	CustomerID    string
	TotalSpent    decimal.Decimal
	PurchaseCount int
	AvgOrderValue decimal.Decimal

	// ProductsBought is the sorted list of distinct product names.
	ProductsBought []string
}

// DayStats summarizes sales for one date.
type DayStats struct {
	Date             string
	Revenue          decimal.Decimal
	TransactionCount int
	UniqueCustomers  int
}

// RegionAverage is the mean transaction value in a region.
type RegionAverage struct {
	Region  string
	Average decimal.Decimal
}

// =============================================================================
// REVENUE
// =============================================================================

// TotalRevenue returns the exact sum of Quantity x UnitPrice.
func TotalRevenue(transactions []types.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, tx := range transactions {
		total = total.Add(tx.Amount())
	}
	return total
}

// =============================================================================
// REGIONS
// =============================================================================

type regionAcc struct {
	region string
	total  decimal.Decimal
	count  int
}

func accumulateRegions(transactions []types.Transaction) *groups[string, regionAcc] {
	g := newGroups(func(region string) *regionAcc {
		return &regionAcc{region: region, total: decimal.Zero}
	})
	for _, tx := range transactions {
		acc := g.get(tx.Region)
		acc.total = acc.total.Add(tx.Amount())
		acc.count++
	}
	return g
}

// RegionWiseSales returns per-region totals ordered by total sales descending.
func RegionWiseSales(transactions []types.Transaction) []RegionStats {
	grand := TotalRevenue(transactions)

	g := accumulateRegions(transactions)
	g.sortBy(func(a, b *regionAcc) bool {
		return a.total.GreaterThan(b.total)
	})

	return finalize(g, func(acc *regionAcc) RegionStats {
		return RegionStats{
			Region:           acc.region,
			TotalSales:       acc.total.Round(moneyPlaces),
			TransactionCount: acc.count,
			Percentage:       percentage(acc.total, grand),
		}
	})
}

// RegionAverages returns the mean transaction value per region, highest first.
func RegionAverages(transactions []types.Transaction) []RegionAverage {
	g := accumulateRegions(transactions)
	g.sortBy(func(a, b *regionAcc) bool {
		return a.mean().GreaterThan(b.mean())
	})

	return finalize(g, func(acc *regionAcc) RegionAverage {
		return RegionAverage{
			Region:  acc.region,
			Average: average(acc.total, acc.count),
		}
	})
}

// mean is the unrounded average transaction value.
func (acc *regionAcc) mean() decimal.Decimal {
	return acc.total.Div(decimal.NewFromInt(int64(acc.count)))
}

// =============================================================================
// PRODUCTS
// =============================================================================

type productAcc struct {
	name     string
	quantity int
	revenue  decimal.Decimal
}

func productStats(transactions []types.Transaction) []ProductStats {
	g := newGroups(func(name string) *productAcc {
		return &productAcc{name: name, revenue: decimal.Zero}
	})
	for _, tx := range transactions {
		acc := g.get(tx.ProductName)
		acc.quantity += tx.Quantity
		acc.revenue = acc.revenue.Add(tx.Amount())
	}

	return finalize(g, func(acc *productAcc) ProductStats {
		return ProductStats{
			Name:          acc.name,
			TotalQuantity: acc.quantity,
			TotalRevenue:  acc.revenue.Round(moneyPlaces),
		}
	})
}

// TopSellingProducts returns the n products with the highest total quantity.
// A non-positive n means DefaultTopN.
func TopSellingProducts(transactions []types.Transaction, n int) []ProductStats {
	if n <= 0 {
		n = DefaultTopN
	}

	stats := productStats(transactions)
	sort.SliceStable(stats, func(i, j int) bool {
		return stats[i].TotalQuantity > stats[j].TotalQuantity
	})

	if len(stats) > n {
		stats = stats[:n]
	}
	return stats
}

// LowPerformingProducts returns products whose total quantity is strictly
// below threshold, lowest first. A non-positive threshold means
// DefaultLowPerformerThreshold.
func LowPerformingProducts(transactions []types.Transaction, threshold int) []ProductStats {
	if threshold <= 0 {
		threshold = DefaultLowPerformerThreshold
	}

	low := make([]ProductStats, 0)
	for _, p := range productStats(transactions) {
		if p.TotalQuantity < threshold {
			low = append(low, p)
		}
	}

	sort.SliceStable(low, func(i, j int) bool {
		return low[i].TotalQuantity < low[j].TotalQuantity
	})
	return low
}

// =============================================================================
// CUSTOMERS
// =============================================================================

type customerAcc struct {
	id       string
	spent    decimal.Decimal
	count    int
	products map[string]bool
}

// CustomerAnalysis returns per-customer statistics ordered by total spent
// descending.
func CustomerAnalysis(transactions []types.Transaction) []CustomerStats {
	g := newGroups(func(id string) *customerAcc {
		return &customerAcc{id: id, spent: decimal.Zero, products: make(map[string]bool)}
	})
	for _, tx := range transactions {
		acc := g.get(tx.CustomerID)
		acc.spent = acc.spent.Add(tx.Amount())
		acc.count++
		acc.products[tx.ProductName] = true
	}

	g.sortBy(func(a, b *customerAcc) bool {
		return a.spent.GreaterThan(b.spent)
	})

	return finalize(g, func(acc *customerAcc) CustomerStats {
		products := make([]string, 0, len(acc.products))
		for name := range acc.products {
			products = append(products, name)
		}
		sort.Strings(products)

		return CustomerStats{
			CustomerID:     acc.id,
			TotalSpent:     acc.spent.Round(moneyPlaces),
			PurchaseCount:  acc.count,
			AvgOrderValue:  average(acc.spent, acc.count),
			ProductsBought: products,
		}
	})
}

// =============================================================================
// DAILY TREND
// =============================================================================

type dayAcc struct {
	date      string
	revenue   decimal.Decimal
	count     int
	customers map[string]bool
}

func accumulateDays(transactions []types.Transaction) *groups[string, dayAcc] {
	g := newGroups(func(date string) *dayAcc {
		return &dayAcc{date: date, revenue: decimal.Zero, customers: make(map[string]bool)}
	})
	for _, tx := range transactions {
		acc := g.get(tx.Date)
		acc.revenue = acc.revenue.Add(tx.Amount())
		acc.count++
		acc.customers[tx.CustomerID] = true
	}
	g.sortBy(func(a, b *dayAcc) bool {
		return a.date < b.date
	})
	return g
}

func (acc *dayAcc) stats() DayStats {
	return DayStats{
		Date:             acc.date,
		Revenue:          acc.revenue.Round(moneyPlaces),
		TransactionCount: acc.count,
		UniqueCustomers:  len(acc.customers),
	}
}

// DailySalesTrend returns per-date statistics in ascending date order.
func DailySalesTrend(transactions []types.Transaction) []DayStats {
	return finalize(accumulateDays(transactions), (*dayAcc).stats)
}

// PeakSalesDay returns the date with the highest revenue. Ties go to the
// earliest date. The bool is false when there are no transactions.
func PeakSalesDay(transactions []types.Transaction) (DayStats, bool) {
	g := accumulateDays(transactions)
	if g.size() == 0 {
		return DayStats{}, false
	}

	var peak *dayAcc
	for _, date := range g.order {
		if acc := g.index[date]; peak == nil || acc.revenue.GreaterThan(peak.revenue) {
			peak = acc
		}
	}
	return peak.stats(), true
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// percentage returns part/whole x 100 rounded to 2 places, or zero when whole is zero.
func percentage(part, whole decimal.Decimal) decimal.Decimal {
	if whole.IsZero() {
		return decimal.Zero
	}
	return part.Div(whole).Mul(hundred).Round(moneyPlaces)
}

// average returns total/count rounded to 2 places, or zero when count is zero.
func average(total decimal.Decimal, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(count))).Round(moneyPlaces)
}
