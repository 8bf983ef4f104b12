package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

func tx(id, productID, customerID, region string, qty int, price int64) types.Transaction {
	return types.Transaction{
		TransactionID: id,
		Date:          "2024-12-01",
		ProductID:     productID,
		ProductName:   "Item",
		Quantity:      qty,
		UnitPrice:     decimal.NewFromInt(price),
		CustomerID:    customerID,
		Region:        region,
	}
}

func amount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func sample() []types.Transaction {
	return []types.Transaction{
		tx("T001", "P101", "C001", "North", 2, 45000), // 90000
		tx("T002", "P102", "C002", "South", 5, 500),   // 2500
		tx("T003", "P103", "C003", "North", 1, 1500),  // 1500
		tx("T004", "P104", "C004", "East", 0, 100),    // invalid quantity
		tx("X005", "P105", "C005", "West", 1, 100),    // invalid prefix
		tx("T006", "P106", "C006", "West", 3, 300),    // 900
	}
}

func TestValidateAndFilter_NoFilters(t *testing.T) {
	valid, invalid, summary := ValidateAndFilter(sample(), FilterOptions{})

	assert.Len(t, valid, 4)
	assert.Equal(t, 2, invalid)
	assert.Equal(t, 6, summary.TotalInput)
	assert.Equal(t, 2, summary.Invalid)
	assert.Zero(t, summary.FilteredByRegion)
	assert.Zero(t, summary.FilteredByAmount)
	assert.Equal(t, 4, summary.FinalCount)
	assert.Equal(t, []string{"North", "South", "West"}, summary.AvailableRegions)
	require.True(t, summary.AmountRange.Valid)
	assert.True(t, summary.AmountRange.Min.Equal(decimal.NewFromInt(900)))
	assert.True(t, summary.AmountRange.Max.Equal(decimal.NewFromInt(90000)))
}

func TestValidateAndFilter_QuantityZeroDropped(t *testing.T) {
	valid, invalid, _ := ValidateAndFilter([]types.Transaction{tx("T001", "P101", "C001", "North", 0, 100)}, FilterOptions{})
	assert.Empty(t, valid)
	assert.Equal(t, 1, invalid)
}

func TestValidateAndFilter_RegionFilter(t *testing.T) {
	valid, _, summary := ValidateAndFilter(sample(), FilterOptions{Region: "North"})

	require.Len(t, valid, 2)
	for _, v := range valid {
		assert.Equal(t, "North", v.Region)
	}
	assert.Equal(t, 2, summary.FilteredByRegion)
	assert.Equal(t, 0, summary.FilteredByAmount)
	assert.Equal(t, 2, summary.FinalCount)
}

func TestValidateAndFilter_RegionIsCaseSensitive(t *testing.T) {
	valid, _, summary := ValidateAndFilter(sample(), FilterOptions{Region: "north"})
	assert.Empty(t, valid)
	assert.Equal(t, 4, summary.FilteredByRegion)
}

func TestValidateAndFilter_AmountRangeInclusive(t *testing.T) {
	valid, _, summary := ValidateAndFilter(sample(), FilterOptions{
		MinAmount: amount(1500),
		MaxAmount: amount(2500),
	})

	require.Len(t, valid, 2)
	assert.Equal(t, "T002", valid[0].TransactionID)
	assert.Equal(t, "T003", valid[1].TransactionID)
	assert.Equal(t, 2, summary.FilteredByAmount)
}

func TestValidateAndFilter_ZeroIsARealBound(t *testing.T) {
	valid, _, summary := ValidateAndFilter(sample(), FilterOptions{MaxAmount: amount(0)})
	assert.Empty(t, valid)
	assert.Equal(t, 4, summary.FilteredByAmount)
}

func TestValidateAndFilter_FiltersCompose(t *testing.T) {
	valid, _, summary := ValidateAndFilter(sample(), FilterOptions{
		Region:    "North",
		MinAmount: amount(2000),
	})

	require.Len(t, valid, 1)
	assert.Equal(t, "T001", valid[0].TransactionID)
	assert.Equal(t, 2, summary.FilteredByRegion)
	assert.Equal(t, 1, summary.FilteredByAmount)
	assert.Equal(t, 1, summary.FinalCount)
}

func TestValidateAndFilter_Idempotent(t *testing.T) {
	once, _, _ := ValidateAndFilter(sample(), FilterOptions{})
	twice, invalid, _ := ValidateAndFilter(once, FilterOptions{})
	assert.Equal(t, once, twice)
	assert.Zero(t, invalid)
}

func TestValidateAndFilter_Empty(t *testing.T) {
	valid, invalid, summary := ValidateAndFilter(nil, FilterOptions{Region: "North"})
	assert.Empty(t, valid)
	assert.Zero(t, invalid)
	assert.False(t, summary.AmountRange.Valid)
	assert.Empty(t, summary.AvailableRegions)
}

func TestNew_CustomPrefixes(t *testing.T) {
	v := New(Rules{TransactionPrefix: "INV-", CustomerPrefix: "CU"})
	assert.Equal(t, "P", v.Rules().ProductPrefix)

	assert.True(t, v.IsValid(tx("INV-1", "P1", "CU9", "North", 1, 1)))
	assert.False(t, v.IsValid(tx("T001", "P1", "CU9", "North", 1, 1)))
}

func TestCheckTransaction(t *testing.T) {
	assert.Empty(t, CheckTransaction(tx("T001", "P101", "C001", "North", 1, 10)))

	violations := CheckTransaction(tx("X1", "Q1", "D1", "North", -1, 0))
	rules := make([]string, 0, len(violations))
	for _, v := range violations {
		rules = append(rules, v.Rule)
	}
	assert.Equal(t, []string{
		RuleQuantityPositive,
		RuleUnitPricePositive,
		RuleTransactionPrefix,
		RuleProductPrefix,
		RuleCustomerPrefix,
	}, rules)
	assert.Equal(t, "Transaction 'X1', Field 'Quantity': quantity must be greater than zero (value: '-1')", violations[0].Error())
}

func TestParseAmountBound(t *testing.T) {
	bound, err := ParseAmountBound("")
	require.NoError(t, err)
	assert.Nil(t, bound)

	bound, err = ParseAmountBound(" 1,500.25 ")
	require.NoError(t, err)
	require.NotNil(t, bound)
	assert.Equal(t, "1500.25", bound.String())

	_, err = ParseAmountBound("lots")
	assert.Error(t, err)
}
