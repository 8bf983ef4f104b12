// =============================================================================
// Sales Analytics - Validate Command
// =============================================================================
//
// This file defines the 'validate' command, which checks a sales file without
// fetching the catalog or writing any output.
//
// COMMAND USAGE:
//   salesreport validate [--input FILE] [-v]
//
// With --verbose every rule violation is listed per record.
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/parser"
	"github.com/ginjaninja78/sales-analytics/internal/pipeline"
	"github.com/ginjaninja78/sales-analytics/internal/salesfile"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
)

// validateCmd represents the 'validate' command.
var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a sales file without writing reports",
	Long: `The validate command reads and parses the sales file and applies the
validation rules. It prints how many records were malformed or invalid, the
regions present and the range of transaction amounts.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return validateFile(cfg, cmd.OutOrStdout(), verbose)
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// validateFile prints the validation summary for cfg.InputFile.
func validateFile(cfg *config.Config, out io.Writer, listViolations bool) error {
	lines, err := salesfile.ReadLines(cfg.InputFile, cfg.Encoding)
	if err != nil {
		return err
	}

	transactions := parser.ParseTransactions(lines)
	validator := validation.New(pipeline.RulesFromConfig(cfg))
	valid, invalid, summary := validator.ValidateAndFilter(transactions, validation.FilterOptions{})

	fmt.Fprintf(out, "File:       %s\n", cfg.InputFile)
	fmt.Fprintf(out, "Lines:      %d\n", len(lines))
	fmt.Fprintf(out, "Malformed:  %d\n", len(lines)-len(transactions))
	fmt.Fprintf(out, "Invalid:    %d\n", invalid)
	fmt.Fprintf(out, "Valid:      %d\n", len(valid))
	describeFilters(out, summary)

	if listViolations {
		for _, tx := range transactions {
			for _, violation := range validator.CheckTransaction(tx) {
				fmt.Fprintln(out, "  "+FormatWarning(violation.Error()))
			}
		}
	}

	if len(valid) == 0 {
		fmt.Fprintln(out, FormatWarning("No valid transactions found"))
		return nil
	}
	fmt.Fprintln(out, FormatSuccess(fmt.Sprintf("%d transactions ready for analysis", len(valid))))
	return nil
}
