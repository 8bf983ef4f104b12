package cmd

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
)

// describeFilters prints the regions and amount range a user can filter on.
func describeFilters(out io.Writer, summary validation.FilterSummary) {
	regions := "none"
	if len(summary.AvailableRegions) > 0 {
		regions = strings.Join(summary.AvailableRegions, ", ")
	}
	fmt.Fprintf(out, "Available regions: %s\n", regions)

	if summary.AmountRange.Valid {
		fmt.Fprintf(out, "Transaction amount range: %s - %s\n",
			report.FormatCurrency(summary.AmountRange.Min),
			report.FormatCurrency(summary.AmountRange.Max))
	} else {
		fmt.Fprintf(out, "Transaction amount range: %s\n", report.NotAvailable)
	}
}

// promptFilters asks the user for optional region and amount filters.
// Blank answers leave a filter unset.
func promptFilters(in io.Reader, out io.Writer, summary validation.FilterSummary) (validation.FilterOptions, error) {
	var opts validation.FilterOptions
	reader := bufio.NewReader(in)

	describeFilters(out, summary)

	answer, err := ask(reader, out, "Do you want to filter data? (y/n):")
	if err != nil {
		return opts, err
	}
	if !strings.HasPrefix(strings.ToLower(answer), "y") {
		return opts, nil
	}

	if opts.Region, err = ask(reader, out, "Region (blank for all):"); err != nil {
		return opts, err
	}

	minText, err := ask(reader, out, "Minimum amount (blank for none):")
	if err != nil {
		return opts, err
	}
	if opts.MinAmount, err = validation.ParseAmountBound(minText); err != nil {
		return opts, err
	}

	maxText, err := ask(reader, out, "Maximum amount (blank for none):")
	if err != nil {
		return opts, err
	}
	if opts.MaxAmount, err = validation.ParseAmountBound(maxText); err != nil {
		return opts, err
	}

	return opts, nil
}

// ask prints a prompt and returns the trimmed answer. EOF counts as a blank answer.
func ask(reader *bufio.Reader, out io.Writer, prompt string) (string, error) {
	fmt.Fprint(out, FormatPrompt(prompt))
	line, err := reader.ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("failed to read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}
