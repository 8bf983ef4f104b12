package analytics

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

func sale(id, date, product, customer, region string, qty int, price string) types.Transaction {
	return types.Transaction{
		TransactionID: id,
		Date:          date,
		ProductID:     "P" + id[1:],
		ProductName:   product,
		Quantity:      qty,
		UnitPrice:     decimal.RequireFromString(price),
		CustomerID:    customer,
		Region:        region,
	}
}

func dataset() []types.Transaction {
	return []types.Transaction{
		sale("T001", "2024-12-02", "Laptop", "C001", "North", 2, "45000"),    // 90000
		sale("T002", "2024-12-01", "Mouse", "C002", "South", 5, "500"),       // 2500
		sale("T003", "2024-12-02", "Mouse", "C001", "North", 3, "500"),       // 1500
		sale("T004", "2024-12-03", "Keyboard", "C003", "East", 4, "1250.50"), // 5002
		sale("T005", "2024-12-01", "Laptop", "C002", "South", 1, "45000"),    // 45000
		sale("T006", "2024-12-03", "Cable", "C003", "West", 12, "99.99"),     // 1199.88
	}
}

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestTotalRevenue(t *testing.T) {
	assert.True(t, TotalRevenue(dataset()).Equal(d("145201.88")))
	assert.True(t, TotalRevenue(nil).IsZero())
}

func TestRegionWiseSales(t *testing.T) {
	txs := dataset()
	stats := RegionWiseSales(txs)
	require.Len(t, stats, 4)

	assert.Equal(t, "North", stats[0].Region)
	assert.True(t, stats[0].TotalSales.Equal(d("91500")))
	assert.Equal(t, 2, stats[0].TransactionCount)
	assert.Equal(t, "South", stats[1].Region)
	assert.Equal(t, "East", stats[2].Region)
	assert.Equal(t, "West", stats[3].Region)

	sum := decimal.Zero
	pct := 0.0
	for _, s := range stats {
		sum = sum.Add(s.TotalSales)
		pct += s.Percentage.InexactFloat64()
	}
	assert.True(t, sum.Equal(TotalRevenue(txs)), "region totals must add up to total revenue")
	assert.InDelta(t, 100.0, pct, 0.05)
}

func TestRegionWiseSales_TiesKeepFirstSeenOrder(t *testing.T) {
	txs := []types.Transaction{
		sale("T001", "2024-12-01", "A", "C001", "West", 1, "100"),
		sale("T002", "2024-12-01", "A", "C001", "East", 1, "100"),
	}
	stats := RegionWiseSales(txs)
	require.Len(t, stats, 2)
	assert.Equal(t, "West", stats[0].Region)
	assert.Equal(t, "East", stats[1].Region)
	assert.True(t, stats[0].Percentage.Equal(d("50")))
}

func TestRankingUsesExactTotals(t *testing.T) {
	txs := []types.Transaction{
		sale("T001", "2024-12-01", "A", "C001", "West", 1, "100.001"),
		sale("T002", "2024-12-02", "A", "C002", "East", 1, "100.004"),
	}

	regions := RegionWiseSales(txs)
	require.Len(t, regions, 2)
	assert.Equal(t, "East", regions[0].Region)
	assert.True(t, regions[0].TotalSales.Equal(d("100")))

	customers := CustomerAnalysis(txs)
	require.Len(t, customers, 2)
	assert.Equal(t, "C002", customers[0].CustomerID)

	averages := RegionAverages(txs)
	require.Len(t, averages, 2)
	assert.Equal(t, "East", averages[0].Region)

	peak, ok := PeakSalesDay(txs)
	require.True(t, ok)
	assert.Equal(t, "2024-12-02", peak.Date)
	assert.True(t, peak.Revenue.Equal(d("100")))
}

func TestTopSellingProducts(t *testing.T) {
	top := TopSellingProducts(dataset(), 2)
	require.Len(t, top, 2)

	assert.Equal(t, "Cable", top[0].Name)
	assert.Equal(t, 12, top[0].TotalQuantity)
	assert.Equal(t, "Mouse", top[1].Name)
	assert.Equal(t, 8, top[1].TotalQuantity)
	assert.True(t, top[1].TotalRevenue.Equal(d("4000")))

	assert.Len(t, TopSellingProducts(dataset(), 0), 4, "non-positive n falls back to the default")
}

func TestCustomerAnalysis(t *testing.T) {
	stats := CustomerAnalysis(dataset())
	require.Len(t, stats, 3)

	assert.Equal(t, "C001", stats[0].CustomerID)
	assert.True(t, stats[0].TotalSpent.Equal(d("91500")))
	assert.Equal(t, 2, stats[0].PurchaseCount)
	assert.True(t, stats[0].AvgOrderValue.Equal(d("45750")))
	assert.Equal(t, []string{"Laptop", "Mouse"}, stats[0].ProductsBought)

	assert.Equal(t, "C003", stats[2].CustomerID)
	assert.True(t, stats[2].AvgOrderValue.Equal(d("3100.94")))
}

func TestDailySalesTrend(t *testing.T) {
	days := DailySalesTrend(dataset())
	require.Len(t, days, 3)

	assert.Equal(t, "2024-12-01", days[0].Date)
	assert.True(t, days[0].Revenue.Equal(d("47500")))
	assert.Equal(t, 2, days[0].TransactionCount)
	assert.Equal(t, 1, days[0].UniqueCustomers)

	assert.Equal(t, "2024-12-02", days[1].Date)
	assert.Equal(t, 1, days[1].UniqueCustomers)
	assert.Equal(t, "2024-12-03", days[2].Date)
	assert.True(t, days[2].Revenue.Equal(d("6201.88")))
}

func TestPeakSalesDay(t *testing.T) {
	peak, ok := PeakSalesDay(dataset())
	require.True(t, ok)
	assert.Equal(t, "2024-12-02", peak.Date)
	assert.True(t, peak.Revenue.Equal(d("91500")))

	_, ok = PeakSalesDay(nil)
	assert.False(t, ok)
}

func TestPeakSalesDay_TieGoesToEarliestDate(t *testing.T) {
	txs := []types.Transaction{
		sale("T001", "2024-12-05", "A", "C001", "North", 1, "100"),
		sale("T002", "2024-12-02", "A", "C001", "North", 1, "100"),
	}
	peak, ok := PeakSalesDay(txs)
	require.True(t, ok)
	assert.Equal(t, "2024-12-02", peak.Date)
}

func TestLowPerformingProducts(t *testing.T) {
	low := LowPerformingProducts(dataset(), 5)
	require.Len(t, low, 2)
	assert.Equal(t, "Laptop", low[0].Name)
	assert.Equal(t, 3, low[0].TotalQuantity)
	assert.Equal(t, "Keyboard", low[1].Name)

	assert.Len(t, LowPerformingProducts(dataset(), 0), 3, "default threshold is 10")
}

func TestRegionAverages(t *testing.T) {
	averages := RegionAverages(dataset())
	require.Len(t, averages, 4)

	assert.Equal(t, "North", averages[0].Region)
	assert.True(t, averages[0].Average.Equal(d("45750")))
	assert.Equal(t, "South", averages[1].Region)
	assert.True(t, averages[1].Average.Equal(d("23750")))
	assert.Equal(t, "West", averages[3].Region)
	assert.True(t, averages[3].Average.Equal(d("1199.88")))
}

func TestEmptyInput(t *testing.T) {
	assert.Empty(t, RegionWiseSales(nil))
	assert.Empty(t, TopSellingProducts(nil, 5))
	assert.Empty(t, CustomerAnalysis(nil))
	assert.Empty(t, DailySalesTrend(nil))
	assert.Empty(t, LowPerformingProducts(nil, 10))
	assert.Empty(t, RegionAverages(nil))
}

func TestGroupsKeepFirstSeenOrder(t *testing.T) {
	g := newGroups(func(key string) *int { n := 0; return &n })
	for _, key := range []string{"b", "a", "b", "c", "a", "b"} {
		*g.get(key)++
	}

	assert.Equal(t, 3, g.size())
	counts := finalize(g, func(n *int) int { return *n })
	assert.Equal(t, []int{3, 2, 1}, counts)
	assert.Equal(t, []string{"b", "a", "c"}, g.order)
}
