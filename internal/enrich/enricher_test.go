package enrich

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/sales-analytics/internal/parser"
	"github.com/ginjaninja78/sales-analytics/internal/types"
)

func mustParse(t *testing.T, line string) types.Transaction {
	t.Helper()
	tx, ok := parser.ParseLine(line)
	require.True(t, ok, "line should parse: %s", line)
	return tx
}

func laptopCatalog() map[int]types.CatalogInfo {
	return map[int]types.CatalogInfo{
		101: {Title: "Laptop Pro", Category: "laptops", Brand: "Apple", Rating: 4.7},
		0:   {Title: "Zero", Category: "misc", Brand: "None", Rating: 1},
	}
}

func TestExtractProductID(t *testing.T) {
	tests := []struct {
		input string
		want  int
		ok    bool
	}{
		{"P101", 101, true},
		{"P007", 7, true},
		{"XP42Y", 42, true},
		{"P12P34", 12, true},
		{"P0", 0, true},
		{"P", 0, false},
		{"101", 0, false},
		{"", 0, false},
		{"Pabc", 0, false},
		{"P99999999999999999999999", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			id, ok := ExtractProductID(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestMatcher_CustomPrefix(t *testing.T) {
	m := NewMatcher("SKU.")
	id, ok := m.ExtractProductID("SKU.55")
	assert.True(t, ok)
	assert.Equal(t, 55, id)

	_, ok = m.ExtractProductID("SKUx55")
	assert.False(t, ok, "prefix is matched literally")
}

func TestEnrich_LaptopMatches(t *testing.T) {
	tx := mustParse(t, "T001|2024-12-01|P101|Laptop|2|45000|C001|North")

	enriched := Enrich([]types.Transaction{tx}, laptopCatalog())
	require.Len(t, enriched, 1)

	record := enriched[0]
	assert.True(t, record.Matched)
	require.NotNil(t, record.Catalog)
	assert.Equal(t, "laptops", record.Catalog.Category)
	assert.Equal(t, "Apple", record.Catalog.Brand)
	assert.Equal(t, 4.7, record.Catalog.Rating)
	assert.Equal(t, tx, record.Transaction)
}

func TestEnrich_DigitlessProductNeverMatches(t *testing.T) {
	tx := mustParse(t, "T002|2024-12-01|P|Mystery|1|100|C001|North")

	enriched := Enrich([]types.Transaction{tx}, laptopCatalog())
	require.Len(t, enriched, 1)
	assert.False(t, enriched[0].Matched)
	assert.Nil(t, enriched[0].Catalog)
}

func TestEnrich_ZeroIDCanMatch(t *testing.T) {
	tx := mustParse(t, "T003|2024-12-01|P0|Zero|1|100|C001|North")
	enriched := Enrich([]types.Transaction{tx}, laptopCatalog())
	assert.True(t, enriched[0].Matched)
}

func TestEnrich_PreservesOrderAndLength(t *testing.T) {
	txs := []types.Transaction{
		mustParse(t, "T001|2024-12-01|P101|Laptop|2|45000|C001|North"),
		mustParse(t, "T002|2024-12-01|P999|Unknown|1|100|C002|South"),
		mustParse(t, "T003|2024-12-02|P101|Laptop|1|45000|C003|East"),
	}

	enriched := Enrich(txs, laptopCatalog())
	require.Len(t, enriched, len(txs))
	for i := range txs {
		assert.Equal(t, txs[i], enriched[i].Transaction)
	}
	assert.True(t, enriched[0].Matched)
	assert.False(t, enriched[1].Matched)
	assert.True(t, enriched[2].Matched)
}

func TestEnrich_EmptyCatalog(t *testing.T) {
	tx := mustParse(t, "T001|2024-12-01|P101|Laptop|2|45000|C001|North")
	enriched := Enrich([]types.Transaction{tx}, map[int]types.CatalogInfo{})
	assert.False(t, enriched[0].Matched)
	assert.Empty(t, Enrich(nil, nil))
}

func TestSummarize(t *testing.T) {
	txs := []types.Transaction{
		mustParse(t, "T001|2024-12-01|P101|Laptop|2|45000|C001|North"),
		mustParse(t, "T002|2024-12-01|P999|Unknown|1|100|C002|South"),
		mustParse(t, "T003|2024-12-02|P500|Other|1|100|C003|East"),
		mustParse(t, "T004|2024-12-02|P999|Unknown|1|100|C003|East"),
	}

	summary := Summarize(Enrich(txs, laptopCatalog()))
	assert.Equal(t, 4, summary.Total)
	assert.Equal(t, 1, summary.Matched)
	assert.True(t, summary.SuccessRate.Equal(decimal.NewFromInt(25)))
	assert.Equal(t, []string{"P500", "P999"}, summary.Unmatched)

	empty := Summarize(nil)
	assert.Zero(t, empty.Total)
	assert.True(t, empty.SuccessRate.IsZero())
	assert.NotNil(t, empty.Unmatched)
}

func TestWriteFile_Layout(t *testing.T) {
	txs := []types.Transaction{
		mustParse(t, "T001|2024-12-01|P101|Laptop|2|45000|C001|North"),
		mustParse(t, "T002|2024-12-01|P|Mystery|1|99.50|C002|South"),
	}
	path := filepath.Join(t.TempDir(), "data", "enriched_sales_data.txt")

	require.NoError(t, WriteFile(path, Enrich(txs, laptopCatalog())))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	assert.Equal(t, []string{
		Header,
		"T001|2024-12-01|P101|Laptop|2|45000|C001|North|laptops|Apple|4.7|true",
		"T002|2024-12-01|P|Mystery|1|99.5|C002|South||||false",
	}, lines)
}

func TestWriteFile_ReadFile_RoundTrip(t *testing.T) {
	txs := []types.Transaction{
		mustParse(t, "T001|2024-12-01|P101|Laptop|2|45000|C001|North"),
		mustParse(t, "T002|2024-12-01|P999|Unknown|1|100|C002|South"),
		mustParse(t, "T003|2024-12-02|P0|Zero|3|10.25|C003|East"),
	}
	enriched := Enrich(txs, laptopCatalog())
	path := filepath.Join(t.TempDir(), "enriched.txt")
	require.NoError(t, WriteFile(path, enriched))

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, len(enriched))

	assert.Equal(t, Summarize(enriched).Matched, Summarize(loaded).Matched)
	for i := range enriched {
		assert.Equal(t, enriched[i].Transaction, loaded[i].Transaction)
		assert.Equal(t, enriched[i].Matched, loaded[i].Matched)
	}
	require.NotNil(t, loaded[0].Catalog)
	assert.Equal(t, "Apple", loaded[0].Catalog.Brand)
	assert.Equal(t, 4.7, loaded[0].Catalog.Rating)
	assert.Nil(t, loaded[1].Catalog)
}

func TestReadFile_AcceptsCapitalizedFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enriched.txt")
	content := Header + "\n" +
		"T001|2024-12-01|P101|Laptop|2|45000.0|C001|North|laptops|Apple|4.7|True\n" +
		"T002|2024-12-01|P999|Unknown|1|100.0|C002|South||||False\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	loaded, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 2)
	assert.True(t, loaded[0].Matched)
	assert.False(t, loaded[1].Matched)
}

func TestReadFile_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "enriched.txt")
	require.NoError(t, os.WriteFile(path, []byte(Header+"\nT001|2024-12-01|P101\n"), 0644))

	_, err := ReadFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 12 fields")
}

func TestWriteFile_CleansCatalogText(t *testing.T) {
	tx := mustParse(t, "T001|2024-12-01|P101|Laptop|2|45000|C001|North")
	mapping := map[int]types.CatalogInfo{101: {Category: "a|b", Brand: "x\ny", Rating: 3}}
	path := filepath.Join(t.TempDir(), "enriched.txt")

	require.NoError(t, WriteFile(path, Enrich([]types.Transaction{tx}, mapping)))
	loaded, err := ReadFile(path)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "a b", loaded[0].Catalog.Category)
	assert.Equal(t, "x y", loaded[0].Catalog.Brand)
}
