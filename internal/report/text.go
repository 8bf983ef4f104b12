package report

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// CurrencySymbol prefixes every money value in the text report.
const CurrencySymbol = "₹"

var (
	heavyRule = strings.Repeat("=", 47)
	lightRule = strings.Repeat("-", 44)
	printer   = message.NewPrinter(language.English)
)

// FormatCurrency renders an amount with two decimals and thousands separators.
func FormatCurrency(amount decimal.Decimal) string {
	return CurrencySymbol + printer.Sprintf("%.2f", amount.Round(2).InexactFloat64())
}

// WriteTextFile renders the report to path, creating parent directories.
func WriteTextFile(path string, r *Report) error {
	if err := utils.EnsureParentDir(path); err != nil {
		return fmt.Errorf("failed to prepare report file: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer file.Close()

	if err := RenderText(file, r); err != nil {
		return err
	}

	return file.Close()
}

// RenderText writes the plain-text report.
func RenderText(w io.Writer, r *Report) error {
	bw := bufio.NewWriter(w)

	writeHeader(bw, r)
	writeOverall(bw, r)
	writeRegions(bw, r)
	writeTopProducts(bw, r)
	writeTopCustomers(bw, r)
	writeDailyTrend(bw, r)
	writePerformance(bw, r)
	writeEnrichment(bw, r)

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}

// =============================================================================
// SECTIONS
// =============================================================================

func section(w *bufio.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, lightRule)
}

func writeHeader(w *bufio.Writer, r *Report) {
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintln(w, "          SALES ANALYTICS REPORT")
	fmt.Fprintf(w, "        Generated: %s\n", r.Header.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "        Records Processed: %d\n", r.Header.RecordCount)
	if r.Header.RunID != "" {
		fmt.Fprintf(w, "        Run ID: %s\n", r.Header.RunID)
	}
	fmt.Fprintln(w, heavyRule)
	fmt.Fprintln(w)
}

func writeOverall(w *bufio.Writer, r *Report) {
	section(w, "OVERALL SUMMARY")
	fmt.Fprintf(w, "Total Revenue:        %s\n", FormatCurrency(r.Overall.TotalRevenue))
	fmt.Fprintf(w, "Total Transactions:   %d\n", r.Overall.TransactionCount)
	fmt.Fprintf(w, "Average Order Value:  %s\n", FormatCurrency(r.Overall.AverageOrderValue))
	fmt.Fprintf(w, "Date Range:           %s\n\n", r.Overall.DateRange)
}

func writeRegions(w *bufio.Writer, r *Report) {
	section(w, "REGION-WISE PERFORMANCE")
	fmt.Fprintf(w, "%-10s%15s%13s%15s\n", "Region", "Sales", "% of Total", "Transactions")
	fmt.Fprintln(w, lightRule)
	for _, s := range r.Regions {
		fmt.Fprintf(w, "%-10s%15s%10s%%%15d\n",
			s.Region, FormatCurrency(s.TotalSales), s.Percentage.StringFixed(1), s.TransactionCount)
	}
	fmt.Fprintln(w)
}

func writeTopProducts(w *bufio.Writer, r *Report) {
	section(w, fmt.Sprintf("TOP %d PRODUCTS", r.Options.TopProducts))
	fmt.Fprintf(w, "%-6s%-25s%15s%15s\n", "Rank", "Product Name", "Quantity Sold", "Revenue")
	fmt.Fprintln(w, lightRule)
	for i, p := range r.TopProducts {
		fmt.Fprintf(w, "%-6d%-25s%15d%15s\n", i+1, truncate(p.Name, 24), p.TotalQuantity, FormatCurrency(p.TotalRevenue))
	}
	fmt.Fprintln(w)
}

func writeTopCustomers(w *bufio.Writer, r *Report) {
	section(w, fmt.Sprintf("TOP %d CUSTOMERS", r.Options.TopCustomers))
	fmt.Fprintf(w, "%-6s%-15s%15s%15s\n", "Rank", "Customer ID", "Total Spent", "Order Count")
	fmt.Fprintln(w, lightRule)
	for i, c := range r.TopCustomers {
		fmt.Fprintf(w, "%-6d%-15s%15s%15d\n", i+1, c.CustomerID, FormatCurrency(c.TotalSpent), c.PurchaseCount)
	}
	fmt.Fprintln(w)
}

func writeDailyTrend(w *bufio.Writer, r *Report) {
	section(w, "DAILY SALES TREND")
	fmt.Fprintf(w, "%-12s%15s%15s%20s\n", "Date", "Revenue", "Transactions", "Unique Customers")
	fmt.Fprintln(w, lightRule)
	for _, d := range r.DailyTrend {
		fmt.Fprintf(w, "%-12s%15s%15d%20d\n", d.Date, FormatCurrency(d.Revenue), d.TransactionCount, d.UniqueCustomers)
	}
	if r.DailyTrendOverflow > 0 {
		fmt.Fprintf(w, "... and %d more days\n", r.DailyTrendOverflow)
	}
	fmt.Fprintln(w)
}

func writePerformance(w *bufio.Writer, r *Report) {
	section(w, "PRODUCT PERFORMANCE ANALYSIS")
	if r.PeakDay != nil {
		fmt.Fprintf(w, "Best Selling Day: %s\n", r.PeakDay.Date)
		fmt.Fprintf(w, "Revenue: %s | Transactions: %d\n\n", FormatCurrency(r.PeakDay.Revenue), r.PeakDay.TransactionCount)
	} else {
		fmt.Fprintf(w, "Best Selling Day: %s\n", NotAvailable)
		fmt.Fprintf(w, "Revenue: %s | Transactions: 0\n\n", FormatCurrency(decimal.Zero))
	}

	fmt.Fprintf(w, "Low Performing Products (Quantity < %d):\n", r.LowPerformerThreshold)
	if len(r.LowPerformers) == 0 {
		fmt.Fprintln(w, "  None")
	}
	for _, p := range r.LowPerformers {
		fmt.Fprintf(w, "  %-25s %5d units  %s\n", truncate(p.Name, 25), p.TotalQuantity, FormatCurrency(p.TotalRevenue))
	}
	if r.LowPerformersOverflow > 0 {
		fmt.Fprintf(w, "  ... and %d more\n", r.LowPerformersOverflow)
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Average Transaction Value per Region:")
	for _, a := range r.RegionAverages {
		fmt.Fprintf(w, "  %-12s%s\n", a.Region, FormatCurrency(a.Average))
	}
	fmt.Fprintln(w)
}

func writeEnrichment(w *bufio.Writer, r *Report) {
	section(w, "API ENRICHMENT SUMMARY")
	fmt.Fprintf(w, "Total Products Enriched:  %d\n", r.Enrichment.Total)
	fmt.Fprintf(w, "Success Rate:             %s%%\n", r.Enrichment.SuccessRate.StringFixed(1))
	fmt.Fprintln(w, "Products that couldn't be enriched:")
	if len(r.Enrichment.Unmatched) == 0 {
		fmt.Fprintln(w, "  - None")
		return
	}
	for _, id := range r.Enrichment.Unmatched {
		fmt.Fprintf(w, "  - %s\n", id)
	}
	if r.Enrichment.UnmatchedOverflow > 0 {
		fmt.Fprintf(w, "  ... and %d more\n", r.Enrichment.UnmatchedOverflow)
	}
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}
