// =============================================================================
// Sales Analytics - Root Command
// =============================================================================
//
// This file defines the root command for the Cobra CLI. The root command is
// the base command that all other commands (like 'run', 'validate') are
// attached to.
//
// COBRA CLI STRUCTURE:
//   rootCmd (salesreport)
//   ├── runCmd      (salesreport run)
//   ├── validateCmd (salesreport validate)
//   ├── configCmd   (salesreport config)
//   └── versionCmd  (salesreport version)
//
// CONFIGURATION:
//   Settings are resolved in this order, later sources winning:
//   1. Built-in defaults
//   2. The YAML file given by --config
//   3. SALES_* environment variables (e.g. SALES_INPUT_FILE, SALES_LOGGING_LEVEL)
//   4. Command-line flags
//
// =============================================================================

package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ginjaninja78/sales-analytics/internal/common"
	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/logging"
)

// =============================================================================
// GLOBAL VARIABLES
// =============================================================================

// cfgFile holds the path to the configuration file.
var cfgFile string

// verbose enables debug logging when set to true.
var verbose bool

// envPrefix is prepended to every environment override.
const envPrefix = "SALES"

// overrideKeys are the configuration keys that flags and environment
// variables may override.
var overrideKeys = []string{
	"input_file",
	"encoding",
	"enriched_file",
	"report_file",
	"workbook_file",
	"logging.level",
	"logging.format",
	"catalog.url",
	"catalog.file",
	"catalog.timeout_seconds",
}

// =============================================================================
// ROOT COMMAND DEFINITION
// =============================================================================

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "salesreport",
	Short: "Sales Analytics - Validate, analyze and enrich sales transactions",
	Long: `Sales Analytics reads a pipe-delimited sales export, validates and filters
the records, computes revenue statistics, enriches every transaction with
product metadata from an external catalog and writes a formatted report.

Key Features:
  - Region and amount filters
  - Region, product, customer and daily breakdowns
  - Product catalog enrichment with graceful offline fallback
  - Plain-text report plus optional XLSX workbook

Example Usage:
  salesreport run                          # Run with config.yaml and defaults
  salesreport run --input data/sales.txt   # Use a different sales file
  salesreport run --region North           # Only analyze one region
  salesreport validate -v                  # Check the input without writing reports`,

	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: initConfig,

	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

// =============================================================================
// EXECUTE FUNCTION
// =============================================================================

// Execute adds all child commands to the root command and runs it.
// This is called by main.main(). It only needs to happen once to the rootCmd.
// Cancelling ctx aborts a catalog fetch in progress.
func Execute(ctx context.Context) {
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, FormatError(fmt.Sprintf("Error: %v", err)))
		if hint := common.HintFor(err); hint != "" {
			fmt.Fprintln(os.Stderr, SubtleStyle.Render("Hint: "+hint))
		}
		os.Exit(1)
	}
}

// =============================================================================
// INITIALIZATION
// =============================================================================

// init sets up the global flags.
func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile,
		"config",
		"config.yaml",
		"Path to the configuration file (defaults apply if it does not exist)",
	)

	rootCmd.PersistentFlags().BoolVarP(
		&verbose,
		"verbose",
		"v",
		false,
		"Enable verbose output for debugging",
	)

	rootCmd.PersistentFlags().String("log-format", "", "Log format (console, json)")
	_ = viper.BindPFlag("logging.format", rootCmd.PersistentFlags().Lookup("log-format"))
}

// initConfig wires environment overrides into viper.
func initConfig(_ *cobra.Command, _ []string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()
	return nil
}

// =============================================================================
// CONFIGURATION HELPERS
// =============================================================================

// loadConfig loads the configuration file and applies flag and environment
// overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, common.NewUserError(
			"cannot load configuration",
			"fix the values reported above in "+cfgFile,
			err,
		)
	}

	applyOverrides(cfg, viper.GetViper())
	if verbose {
		cfg.Logging.Level = "debug"
	}

	if err := config.Validate(cfg); err != nil {
		return nil, common.NewUserError("invalid configuration override", "check SALES_* variables and flags", err)
	}

	return cfg, nil
}

// applyOverrides copies every explicitly set override into cfg.
func applyOverrides(cfg *config.Config, v *viper.Viper) {
	for _, key := range overrideKeys {
		if !v.IsSet(key) {
			continue
		}
		switch key {
		case "input_file":
			cfg.InputFile = v.GetString(key)
		case "encoding":
			cfg.Encoding = strings.ToLower(v.GetString(key))
		case "enriched_file":
			cfg.EnrichedFile = v.GetString(key)
		case "report_file":
			cfg.ReportFile = v.GetString(key)
		case "workbook_file":
			cfg.WorkbookFile = v.GetString(key)
		case "logging.level":
			cfg.Logging.Level = strings.ToLower(v.GetString(key))
		case "logging.format":
			if format := v.GetString(key); format != "" {
				cfg.Logging.Format = strings.ToLower(format)
			}
		case "catalog.url":
			cfg.Catalog.URL = v.GetString(key)
		case "catalog.file":
			cfg.Catalog.File = v.GetString(key)
		case "catalog.timeout_seconds":
			cfg.Catalog.TimeoutSeconds = v.GetInt(key)
		}
	}
}

// newLogger builds the logger described by cfg.
func newLogger(cfg *config.Config) logging.Logger {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: os.Stderr,
	})
}
