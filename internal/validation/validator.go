// =============================================================================
// Sales Analytics - Validation and Filter Engine
// =============================================================================
//
// This module separates valid transactions from invalid ones and applies the
// optional user filters.
//
// VALIDATION RULES:
//   1. Quantity must be greater than zero
//   2. UnitPrice must be greater than zero
//   3. TransactionID, ProductID and CustomerID must carry their prefixes
//
// FILTERING (valid records only, in this order):
//   1. Region: exact, case-sensitive match
//   2. Amount: inclusive [min, max] range on Quantity x UnitPrice
//
// ERROR HANDLING:
//   - Invalid records are counted and dropped, never logged one by one
//   - CheckTransaction lists every rule a record breaks, for diagnostics
//
// =============================================================================

package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ginjaninja78/sales-analytics/internal/types"
)

// =============================================================================
// RULES
// =============================================================================

// Rule names reported in RuleViolation.Rule.
const (
	RuleQuantityPositive  = "quantity_positive"
	RuleUnitPricePositive = "unit_price_positive"
	RuleTransactionPrefix = "transaction_prefix"
	RuleProductPrefix     = "product_prefix"
	RuleCustomerPrefix    = "customer_prefix"
)

// Rules holds the configurable parts of the rule set.
type Rules struct {
	TransactionPrefix string
	ProductPrefix     string
	CustomerPrefix    string
}

// DefaultRules returns the standard T/P/C prefixes.
func DefaultRules() Rules {
	return Rules{
		TransactionPrefix: "T",
		ProductPrefix:     "P",
		CustomerPrefix:    "C",
	}
}

// RuleViolation describes one failed rule for one record.
type RuleViolation struct {
	// TransactionID of the offending record (may itself be malformed).
	TransactionID string

	// Field is the name of the field that failed.
	Field string

	// Value is the offending value as text.
	Value string

	// Rule is one of the Rule* constants.
	Rule string

	// Message is a human-readable explanation.
	Message string
}

// Error implements the error interface.
func (v RuleViolation) Error() string {
	return fmt.Sprintf("Transaction '%s', Field '%s': %s (value: '%s')",
		v.TransactionID, v.Field, v.Message, v.Value)
}

// =============================================================================
// FILTER TYPES
// =============================================================================

// FilterOptions are the optional user filters. The zero value filters nothing.
type FilterOptions struct {
	// Region keeps only records whose region matches exactly. Empty disables.
	Region string

	// MinAmount and MaxAmount bound the transaction amount inclusively.
	// Nil disables a bound; zero is a real bound.
	MinAmount *decimal.Decimal
	MaxAmount *decimal.Decimal
}

// AmountRange is the span of transaction amounts in a set.
type AmountRange struct {
	Min decimal.Decimal
	Max decimal.Decimal

	// Valid is false when the set was empty.
	Valid bool
}

// FilterSummary reports how many records each stage removed.
type FilterSummary struct {
	TotalInput       int
	Invalid          int
	FilteredByRegion int
	FilteredByAmount int
	FinalCount       int

	// AvailableRegions lists the distinct regions of the valid records
	// before filtering, sorted.
	AvailableRegions []string

	// AmountRange covers the valid records before filtering.
	AmountRange AmountRange
}

// =============================================================================
// VALIDATOR
// =============================================================================

// Validator applies a rule set.
type Validator struct {
	rules Rules
}

// New creates a Validator. Empty prefixes fall back to the defaults.
func New(rules Rules) *Validator {
	defaults := DefaultRules()
	if rules.TransactionPrefix == "" {
		rules.TransactionPrefix = defaults.TransactionPrefix
	}
	if rules.ProductPrefix == "" {
		rules.ProductPrefix = defaults.ProductPrefix
	}
	if rules.CustomerPrefix == "" {
		rules.CustomerPrefix = defaults.CustomerPrefix
	}
	return &Validator{rules: rules}
}

// Rules returns the rule set in use.
func (v *Validator) Rules() Rules {
	return v.rules
}

var defaultValidator = New(DefaultRules())

// ValidateAndFilter validates and filters with the default rules.
func ValidateAndFilter(transactions []types.Transaction, opts FilterOptions) ([]types.Transaction, int, FilterSummary) {
	return defaultValidator.ValidateAndFilter(transactions, opts)
}

// CheckTransaction lists rule violations using the default rules.
func CheckTransaction(tx types.Transaction) []RuleViolation {
	return defaultValidator.CheckTransaction(tx)
}

// ValidateAndFilter separates valid records and applies the filters.
//
// PARAMETERS:
//   - transactions: Parsed transactions. Not modified.
//   - opts: Optional region and amount filters.
//
// RETURNS:
//   - The records that passed validation and every active filter, in input order.
//   - The number of records that failed validation.
//   - A summary of what each stage removed.
func (v *Validator) ValidateAndFilter(transactions []types.Transaction, opts FilterOptions) ([]types.Transaction, int, FilterSummary) {
	summary := FilterSummary{TotalInput: len(transactions)}

	valid := make([]types.Transaction, 0, len(transactions))
	invalid := 0
	for _, tx := range transactions {
		if v.IsValid(tx) {
			valid = append(valid, tx)
		} else {
			invalid++
		}
	}
	summary.Invalid = invalid
	summary.AvailableRegions = distinctRegions(valid)
	summary.AmountRange = amountRange(valid)

	if opts.Region != "" {
		before := len(valid)
		valid = keep(valid, func(tx types.Transaction) bool {
			return tx.Region == opts.Region
		})
		summary.FilteredByRegion = before - len(valid)
	}

	if opts.MinAmount != nil || opts.MaxAmount != nil {
		before := len(valid)
		valid = keep(valid, func(tx types.Transaction) bool {
			amount := tx.Amount()
			if opts.MinAmount != nil && amount.LessThan(*opts.MinAmount) {
				return false
			}
			if opts.MaxAmount != nil && amount.GreaterThan(*opts.MaxAmount) {
				return false
			}
			return true
		})
		summary.FilteredByAmount = before - len(valid)
	}

	summary.FinalCount = len(valid)
	return valid, invalid, summary
}

// IsValid reports whether a record passes every rule.
func (v *Validator) IsValid(tx types.Transaction) bool {
	return tx.Quantity > 0 &&
		tx.UnitPrice.IsPositive() &&
		strings.HasPrefix(tx.TransactionID, v.rules.TransactionPrefix) &&
		strings.HasPrefix(tx.ProductID, v.rules.ProductPrefix) &&
		strings.HasPrefix(tx.CustomerID, v.rules.CustomerPrefix)
}

// CheckTransaction returns every rule the record breaks. Empty means valid.
func (v *Validator) CheckTransaction(tx types.Transaction) []RuleViolation {
	var violations []RuleViolation

	add := func(field, value, rule, message string) {
		violations = append(violations, RuleViolation{
			TransactionID: tx.TransactionID,
			Field:         field,
			Value:         value,
			Rule:          rule,
			Message:       message,
		})
	}

	if tx.Quantity <= 0 {
		add("Quantity", fmt.Sprint(tx.Quantity), RuleQuantityPositive, "quantity must be greater than zero")
	}
	if !tx.UnitPrice.IsPositive() {
		add("UnitPrice", tx.UnitPrice.String(), RuleUnitPricePositive, "unit price must be greater than zero")
	}
	if !strings.HasPrefix(tx.TransactionID, v.rules.TransactionPrefix) {
		add("TransactionID", tx.TransactionID, RuleTransactionPrefix,
			fmt.Sprintf("must start with '%s'", v.rules.TransactionPrefix))
	}
	if !strings.HasPrefix(tx.ProductID, v.rules.ProductPrefix) {
		add("ProductID", tx.ProductID, RuleProductPrefix,
			fmt.Sprintf("must start with '%s'", v.rules.ProductPrefix))
	}
	if !strings.HasPrefix(tx.CustomerID, v.rules.CustomerPrefix) {
		add("CustomerID", tx.CustomerID, RuleCustomerPrefix,
			fmt.Sprintf("must start with '%s'", v.rules.CustomerPrefix))
	}

	return violations
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// ParseAmountBound parses a user supplied amount bound.
// Empty input means "no bound" and returns nil.
func ParseAmountBound(value string) (*decimal.Decimal, error) {
	value = strings.ReplaceAll(strings.TrimSpace(value), ",", "")
	if value == "" {
		return nil, nil
	}
	amount, err := decimal.NewFromString(value)
	if err != nil {
		return nil, fmt.Errorf("invalid amount %q: %w", value, err)
	}
	return &amount, nil
}

// keep returns the records for which pred is true, preserving order.
func keep(transactions []types.Transaction, pred func(types.Transaction) bool) []types.Transaction {
	kept := make([]types.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if pred(tx) {
			kept = append(kept, tx)
		}
	}
	return kept
}

func distinctRegions(transactions []types.Transaction) []string {
	seen := make(map[string]bool)
	regions := make([]string, 0)
	for _, tx := range transactions {
		if !seen[tx.Region] {
			seen[tx.Region] = true
			regions = append(regions, tx.Region)
		}
	}
	sort.Strings(regions)
	return regions
}

func amountRange(transactions []types.Transaction) AmountRange {
	if len(transactions) == 0 {
		return AmountRange{}
	}
	r := AmountRange{
		Min:   transactions[0].Amount(),
		Max:   transactions[0].Amount(),
		Valid: true,
	}
	for _, tx := range transactions[1:] {
		amount := tx.Amount()
		if amount.LessThan(r.Min) {
			r.Min = amount
		}
		if amount.GreaterThan(r.Max) {
			r.Max = amount
		}
	}
	return r
}
