package enrich

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/parser"
	"github.com/ginjaninja78/sales-analytics/internal/salesfile"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// Header is the first line of an enriched data file.
const Header = "TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region|API_Category|API_Brand|API_Rating|API_Match"

// enrichedFieldCount is the number of columns in an enriched record.
const enrichedFieldCount = types.FieldCount + 4

// WriteFile writes enriched transactions as a pipe-delimited file.
//
// PARAMETERS:
//   - path: Destination file. Parent directories are created as needed.
//   - enriched: Records to write, in order.
//
// RETURNS:
//   - An error if the file cannot be created or written.
func WriteFile(path string, enriched []types.EnrichedTransaction) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("failed to prepare enriched file: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create enriched file: %w", err)
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	if _, err := writer.WriteString(Header + "\n"); err != nil {
		return fmt.Errorf("failed to write enriched file: %w", err)
	}

	for _, record := range enriched {
		if _, err := writer.WriteString(formatRecord(record) + "\n"); err != nil {
			return fmt.Errorf("failed to write enriched file: %w", err)
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("failed to flush enriched file: %w", err)
	}

	return file.Close()
}

// ReadFile parses a file produced by WriteFile.
// The match column accepts any boolean spelling ("true", "True", "1").
func ReadFile(path string) ([]types.EnrichedTransaction, error) {
	lines, err := salesfile.ReadLines(path, salesfile.EncodingUTF8)
	if err != nil {
		return nil, fmt.Errorf("failed to read enriched file: %w", err)
	}

	records := make([]types.EnrichedTransaction, 0, len(lines))
	for i, line := range lines {
		record, err := parseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("failed to parse enriched record %d: %w", i+1, err)
		}
		records = append(records, record)
	}

	return records, nil
}

func formatRecord(record types.EnrichedTransaction) string {
	var category, brand, rating string
	if record.Catalog != nil {
		category = clean(record.Catalog.Category)
		brand = clean(record.Catalog.Brand)
		rating = strconv.FormatFloat(record.Catalog.Rating, 'f', -1, 64)
	}

	return strings.Join([]string{
		record.TransactionID,
		record.Date,
		record.ProductID,
		record.ProductName,
		strconv.Itoa(record.Quantity),
		record.UnitPrice.String(),
		record.CustomerID,
		record.Region,
		category,
		brand,
		rating,
		strconv.FormatBool(record.Matched),
	}, parser.Delimiter)
}

func parseRecord(line string) (types.EnrichedTransaction, error) {
	fields := strings.Split(line, parser.Delimiter)
	if len(fields) != enrichedFieldCount {
		return types.EnrichedTransaction{}, fmt.Errorf("expected %d fields, got %d", enrichedFieldCount, len(fields))
	}

	tx, ok := parser.ParseLine(strings.Join(fields[:types.FieldCount], parser.Delimiter))
	if !ok {
		return types.EnrichedTransaction{}, fmt.Errorf("malformed transaction fields")
	}

	extra := fields[types.FieldCount:]
	matched, err := strconv.ParseBool(strings.TrimSpace(extra[3]))
	if err != nil {
		return types.EnrichedTransaction{}, fmt.Errorf("invalid match flag %q", extra[3])
	}

	record := types.EnrichedTransaction{Transaction: tx, Matched: matched}

	category := strings.TrimSpace(extra[0])
	brand := strings.TrimSpace(extra[1])
	ratingText := strings.TrimSpace(extra[2])
	if matched || category != "" || brand != "" || ratingText != "" {
		info := types.CatalogInfo{Category: category, Brand: brand}
		if ratingText != "" {
			rating, err := strconv.ParseFloat(ratingText, 64)
			if err != nil {
				return types.EnrichedTransaction{}, fmt.Errorf("invalid rating %q", ratingText)
			}
			info.Rating = rating
		}
		record.Catalog = &info
	}

	return record, nil
}

// clean keeps catalog text from breaking the column layout.
func clean(value string) string {
	value = strings.ReplaceAll(value, parser.Delimiter, " ")
	value = strings.ReplaceAll(value, "\n", " ")
	return strings.TrimSpace(strings.ReplaceAll(value, "\r", " "))
}
