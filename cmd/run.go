// =============================================================================
// Sales Analytics - Run Command
// =============================================================================
//
// This file defines the 'run' command, which executes the full pipeline on
// one sales file.
//
// COMMAND USAGE:
//   salesreport run [flags]
//
// FLAGS:
//   --input        : Sales file to read (overrides input_file)
//   --region       : Keep only transactions from this region
//   --min-amount   : Keep only transactions worth at least this amount
//   --max-amount   : Keep only transactions worth at most this amount
//   --interactive  : Show available regions and amounts, then ask for filters
//   --offline      : Skip the product catalog
//   --workbook     : Also export an XLSX workbook to this path
//
// =============================================================================

package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/parser"
	"github.com/ginjaninja78/sales-analytics/internal/pipeline"
	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/salesfile"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// =============================================================================
// COMMAND FLAGS
// =============================================================================

var (
	filterRegion string
	minAmount    string
	maxAmount    string
	interactive  bool
	offline      bool
)

// =============================================================================
// RUN COMMAND DEFINITION
// =============================================================================

// runCmd represents the 'run' command.
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Analyze and enrich a sales file and write the report",
	Long: `The run command reads the sales file, drops malformed and invalid records,
applies the optional region and amount filters, enriches every transaction
from the product catalog and writes the enriched data file and the report.

If the catalog cannot be reached the run continues and every transaction is
reported as unmatched.`,

	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		filters, err := flagFilters()
		if err != nil {
			return err
		}

		if interactive {
			if filters, err = interactiveFilters(cfg, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				return err
			}
		}

		return runPipeline(cmd, cfg, filters)
	},
}

// =============================================================================
// INITIALIZATION
// =============================================================================

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().String("input", "", "Sales file to read")
	_ = viper.BindPFlag("input_file", runCmd.Flags().Lookup("input"))

	runCmd.Flags().String("workbook", "", "Also export an XLSX workbook to this path")
	_ = viper.BindPFlag("workbook_file", runCmd.Flags().Lookup("workbook"))

	runCmd.Flags().StringVar(&filterRegion, "region", "", "Keep only transactions from this region")
	runCmd.Flags().StringVar(&minAmount, "min-amount", "", "Minimum transaction amount")
	runCmd.Flags().StringVar(&maxAmount, "max-amount", "", "Maximum transaction amount")
	runCmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Ask for filters interactively")
	runCmd.Flags().BoolVar(&offline, "offline", false, "Skip the product catalog")
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// flagFilters builds the filters given on the command line.
func flagFilters() (validation.FilterOptions, error) {
	opts := validation.FilterOptions{Region: strings.TrimSpace(filterRegion)}

	var err error
	if opts.MinAmount, err = validation.ParseAmountBound(minAmount); err != nil {
		return opts, fmt.Errorf("invalid --min-amount: %w", err)
	}
	if opts.MaxAmount, err = validation.ParseAmountBound(maxAmount); err != nil {
		return opts, fmt.Errorf("invalid --max-amount: %w", err)
	}
	return opts, nil
}

// interactiveFilters previews the input and asks the user for filters.
func interactiveFilters(cfg *config.Config, in io.Reader, out io.Writer) (validation.FilterOptions, error) {
	lines, err := salesfile.ReadLines(cfg.InputFile, cfg.Encoding)
	if err != nil {
		return validation.FilterOptions{}, err
	}

	_, _, summary := validation.New(pipeline.RulesFromConfig(cfg)).ValidateAndFilter(parser.ParseTransactions(lines), validation.FilterOptions{})
	return promptFilters(in, out, summary)
}

// runPipeline executes the pipeline behind a progress bar and prints a summary.
func runPipeline(cmd *cobra.Command, cfg *config.Config, filters validation.FilterOptions) error {
	out := cmd.OutOrStdout()
	logger := newLogger(cfg)

	bar := newProgressBar(os.Stderr, len(pipeline.StepNames))

	result := pipeline.Run(cmd.Context(), pipeline.Options{
		Config:  cfg,
		Filters: filters,
		Offline: offline,
		Logger:  logger,
		OnStep: func(step pipeline.Step) {
			bar.Describe(step.Name)
			_ = bar.Set(step.Index)
		},
	})

	if result.Error != nil {
		_ = bar.Exit()
		return result.Error
	}

	fmt.Fprintln(out, RenderBox("Sales analytics complete", summarize(result)))
	return nil
}

// newProgressBar creates the step progress bar.
func newProgressBar(w io.Writer, steps int) *progressbar.ProgressBar {
	return progressbar.NewOptions(steps,
		progressbar.OptionSetWriter(w),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Starting...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(w)
		}),
	)
}

// summarize renders the body of the completion box.
func summarize(result pipeline.Result) string {
	var b strings.Builder

	if result.Report != nil {
		fmt.Fprintf(&b, "Total revenue:   %s\n", report.FormatCurrency(result.Report.Overall.TotalRevenue))
	}
	fmt.Fprintf(&b, "Records:         %d read, %d malformed, %d invalid, %d kept\n",
		result.Stats.LinesRead, result.Stats.Malformed, result.Stats.Invalid, result.Stats.Final)
	fmt.Fprintf(&b, "Catalog matches: %d/%d (%d products)\n",
		result.Stats.Matched, result.Stats.Final, result.Stats.CatalogProducts)
	fmt.Fprintf(&b, "Time elapsed:    %s\n\n", result.Stats.ProcessingTime.Round(time.Millisecond))

	for _, file := range []struct{ label, path string }{
		{"Enriched data", result.EnrichedFile},
		{"Report", result.ReportFile},
		{"Workbook", result.WorkbookFile},
	} {
		if file.path == "" {
			continue
		}
		size := ""
		if n, err := utils.GetFileSize(file.path); err == nil {
			size = " (" + utils.FormatSize(n) + ")"
		}
		fmt.Fprintf(&b, "%s %s: %s%s\n", SuccessIcon, file.label, file.path, size)
	}

	return strings.TrimRight(b.String(), "\n")
}
