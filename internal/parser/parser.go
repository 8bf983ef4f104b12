// =============================================================================
// Sales Analytics - Transaction Parser Module
// =============================================================================
//
// This module turns raw pipe-delimited lines into Transaction records.
//
// LINE FORMAT:
//   TransactionID|Date|ProductID|ProductName|Quantity|UnitPrice|CustomerID|Region
//
// CLEANING RULES:
//   - Every field is trimmed
//   - Commas inside ProductName become spaces
//   - Thousands separators (commas) are stripped from Quantity and UnitPrice
//
// Malformed lines (wrong field count, unparseable numbers) are dropped
// silently. Order is preserved and duplicates are kept.
//
// =============================================================================

package parser

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// Delimiter separates the fields of a sales record.
const Delimiter = "|"

// =============================================================================
// PARSER FUNCTIONS
// =============================================================================

// ParseTransactions parses every line and keeps the well-formed ones.
//
// PARAMETERS:
//   - lines: Data lines as returned by salesfile.ReadLines.
//
// RETURNS:
//   - The parsed transactions in input order. Never nil.
func ParseTransactions(lines []string) []types.Transaction {
	transactions := make([]types.Transaction, 0, len(lines))
	for _, line := range lines {
		if tx, ok := ParseLine(line); ok {
			transactions = append(transactions, tx)
		}
	}
	return transactions
}

// ParseLine parses a single sales record.
//
// RETURNS:
//   - The transaction and true, or a zero value and false when the line
//     is malformed.
func ParseLine(line string) (types.Transaction, bool) {
	fields := strings.Split(line, Delimiter)
	if len(fields) != types.FieldCount {
		return types.Transaction{}, false
	}

	for i := range fields {
		fields[i] = strings.TrimSpace(fields[i])
	}

	quantity, err := strconv.Atoi(stripThousands(fields[4]))
	if err != nil {
		return types.Transaction{}, false
	}

	unitPrice, err := decimal.NewFromString(stripThousands(fields[5]))
	if err != nil {
		return types.Transaction{}, false
	}

	return types.Transaction{
		TransactionID: fields[0],
		Date:          fields[1],
		ProductID:     fields[2],
		ProductName:   strings.TrimSpace(strings.ReplaceAll(fields[3], ",", " ")),
		Quantity:      quantity,
		UnitPrice:     unitPrice,
		CustomerID:    fields[6],
		Region:        fields[7],
	}, true
}

// stripThousands removes thousands separators from a numeric field.
func stripThousands(value string) string {
	return strings.ReplaceAll(value, ",", "")
}
