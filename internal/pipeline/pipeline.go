// =============================================================================
// Sales Analytics - Pipeline Module
// =============================================================================
//
// This module orchestrates one complete run, from the raw sales file to the
// written reports.
//
// PIPELINE STEPS:
//   1. Read the sales file
//   2. Parse transactions
//   3. Validate and filter
//   4. Fetch the product catalog
//   5. Enrich transactions
//   6. Save the enriched data file
//   7. Assemble the report
//   8. Write the text report
//   9. Export the workbook (optional)
//   10. Complete
//
// ERROR HANDLING:
//   - A missing input file stops the run before anything is written
//   - A catalog failure is logged and the run continues unenriched
//   - Write failures stop the run and are returned in Result.Error
//
// =============================================================================

package pipeline

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ginjaninja78/sales-analytics/internal/catalog"
	"github.com/ginjaninja78/sales-analytics/internal/common"
	"github.com/ginjaninja78/sales-analytics/internal/config"
	"github.com/ginjaninja78/sales-analytics/internal/enrich"
	"github.com/ginjaninja78/sales-analytics/internal/logging"
	"github.com/ginjaninja78/sales-analytics/internal/parser"
	"github.com/ginjaninja78/sales-analytics/internal/report"
	"github.com/ginjaninja78/sales-analytics/internal/salesfile"
	"github.com/ginjaninja78/sales-analytics/internal/types"
	"github.com/ginjaninja78/sales-analytics/internal/validation"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// StepNames lists the pipeline steps in order.
var StepNames = []string{
	"Reading sales data",
	"Parsing transactions",
	"Validating and filtering",
	"Fetching product catalog",
	"Enriching transactions",
	"Saving enriched data",
	"Analyzing sales",
	"Writing report",
	"Exporting workbook",
	"Complete",
}

// Step is reported to Options.OnStep when a step starts.
type Step struct {
	// Index is 1-based.
	Index int
	Total int
	Name  string
}

// =============================================================================
// RESULT STRUCTURE
// =============================================================================

// Result represents the outcome of one run.
type Result struct {
	RunID string

	// InputFile is the sales file that was read.
	InputFile string

	// EnrichedFile, ReportFile and WorkbookFile are the written outputs.
	// They are empty when the run failed before writing them.
	EnrichedFile string
	ReportFile   string
	WorkbookFile string

	// Success indicates whether every step completed.
	Success bool

	// Error contains the error if the run failed.
	Error error

	// Summary reports what validation and filtering removed.
	Summary validation.FilterSummary

	// Report is the assembled report. Nil if the run failed before step 7.
	Report *report.Report

	Stats ProcessingStats
}

// ProcessingStats contains statistics about the run.
type ProcessingStats struct {
	// LinesRead is the number of non-blank data lines.
	LinesRead int

	// Parsed is the number of well-formed records.
	Parsed int

	// Malformed is the number of lines dropped by the parser.
	Malformed int

	// Invalid is the number of records that failed validation.
	Invalid int

	// Final is the number of records after validation and filtering.
	Final int

	// CatalogProducts is the number of products returned by the catalog.
	CatalogProducts int

	// Matched is the number of enriched records.
	Matched int

	// ProcessingTime is the wall time of the run.
	ProcessingTime time.Duration
}

// =============================================================================
// OPTIONS
// =============================================================================

// Options configures a run.
type Options struct {
	// Config is the effective configuration. Nil means config.Default().
	Config *config.Config

	// Filters are the optional region and amount filters.
	Filters validation.FilterOptions

	// Source overrides the catalog source derived from Config.
	Source catalog.Source

	// Offline skips the catalog entirely.
	Offline bool

	// RunID identifies the run. Empty generates one.
	RunID string

	// Logger receives progress and diagnostics. Nil discards output.
	Logger logging.Logger

	// OnStep is called when each step starts.
	OnStep func(Step)

	// Now returns the run timestamp. Nil means time.Now.
	Now func() time.Time
}

// Pipeline runs the sales analytics steps.
type Pipeline struct {
	cfg     *config.Config
	opts    Options
	logger  logging.Logger
	step    int
	matcher *enrich.Matcher
	rules   *validation.Validator
}

// =============================================================================
// CONSTRUCTOR
// =============================================================================

// New creates a Pipeline.
func New(opts Options) *Pipeline {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Default()
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.RunID == "" {
		opts.RunID = utils.NewRunID()
	}

	return &Pipeline{
		cfg:     cfg,
		opts:    opts,
		logger:  logger,
		matcher: enrich.NewMatcher(cfg.Validation.ProductPrefix),
		rules:   validation.New(RulesFromConfig(cfg)),
	}
}

// Run executes one pipeline run with the given options.
func Run(ctx context.Context, opts Options) Result {
	return New(opts).Run(ctx)
}

// =============================================================================
// MAIN PROCESSING FUNCTION
// =============================================================================

// Run executes every step.
//
// RETURNS:
//   - A Result containing the outcome. Result.Error is set on failure.
func (p *Pipeline) Run(ctx context.Context) Result {
	startTime := time.Now()
	now := p.opts.Now()
	cfg := p.cfg

	result := Result{
		RunID:     p.opts.RunID,
		InputFile: cfg.InputFile,
	}

	// =========================================================================
	// STEP 1: READ SALES FILE
	// =========================================================================

	p.begin()
	p.logger.Info("Reading sales data from %s", cfg.InputFile)

	lines, err := salesfile.ReadLines(cfg.InputFile, cfg.Encoding)
	if err != nil {
		if errors.Is(err, common.ErrMissingSource) {
			err = common.NewUserError(
				"cannot read sales data",
				"check input_file in the configuration or pass --input",
				err,
			)
		}
		result.Error = fmt.Errorf("failed to read sales file: %w", err)
		return result
	}
	result.Stats.LinesRead = len(lines)

	// =========================================================================
	// STEP 2: PARSE TRANSACTIONS
	// =========================================================================

	p.begin()
	transactions := parser.ParseTransactions(lines)
	result.Stats.Parsed = len(transactions)
	result.Stats.Malformed = len(lines) - len(transactions)
	p.logger.Debug("Parsed %d records (%d malformed lines dropped)", result.Stats.Parsed, result.Stats.Malformed)

	// =========================================================================
	// STEP 3: VALIDATE AND FILTER
	// =========================================================================

	p.begin()
	valid, invalid, summary := p.rules.ValidateAndFilter(transactions, p.opts.Filters)
	result.Summary = summary
	result.Stats.Invalid = invalid
	result.Stats.Final = len(valid)
	p.logger.Info("Valid records: %d, invalid: %d, after filters: %d",
		len(transactions)-invalid, invalid, summary.FinalCount)

	// =========================================================================
	// STEP 4: FETCH PRODUCT CATALOG
	// =========================================================================

	p.begin()
	products := p.fetchCatalog(ctx)
	result.Stats.CatalogProducts = len(products)
	mapping := catalog.BuildMapping(products)

	// =========================================================================
	// STEP 5: ENRICH TRANSACTIONS
	// =========================================================================

	p.begin()
	enriched := p.matcher.Enrich(valid, mapping)
	for _, record := range enriched {
		if record.Matched {
			result.Stats.Matched++
		}
	}
	p.logger.Info("Enriched %d/%d transactions", result.Stats.Matched, len(enriched))

	// =========================================================================
	// STEP 6: SAVE ENRICHED DATA
	// =========================================================================

	p.begin()
	enrichedPath := p.outputPath(cfg.EnrichedFile, now)
	if err := enrich.WriteFile(enrichedPath, enriched); err != nil {
		result.Error = fmt.Errorf("failed to save enriched data: %w", err)
		return result
	}
	result.EnrichedFile = enrichedPath
	p.logger.Debug("Wrote enriched data to %s", enrichedPath)

	// =========================================================================
	// STEP 7: ASSEMBLE REPORT
	// =========================================================================

	p.begin()
	result.Report = report.Assemble(report.Input{
		Transactions: valid,
		Enriched:     enriched,
		GeneratedAt:  now,
		RunID:        utils.ShortID(p.opts.RunID),
		Options:      reportOptions(cfg),
	})

	// =========================================================================
	// STEP 8: WRITE TEXT REPORT
	// =========================================================================

	p.begin()
	reportPath := p.outputPath(cfg.ReportFile, now)
	if err := report.WriteTextFile(reportPath, result.Report); err != nil {
		result.Error = fmt.Errorf("failed to write report: %w", err)
		return result
	}
	result.ReportFile = reportPath
	p.logger.Info("Wrote report to %s", reportPath)

	// =========================================================================
	// STEP 9: EXPORT WORKBOOK
	// =========================================================================

	p.begin()
	if cfg.WorkbookFile != "" {
		workbookPath := p.outputPath(cfg.WorkbookFile, now)
		if err := report.WriteWorkbook(workbookPath, result.Report); err != nil {
			result.Error = fmt.Errorf("failed to export workbook: %w", err)
			return result
		}
		result.WorkbookFile = workbookPath
		p.logger.Info("Wrote workbook to %s", workbookPath)
	}

	// =========================================================================
	// COMPLETE
	// =========================================================================

	p.begin()
	result.Success = true
	result.Stats.ProcessingTime = time.Since(startTime)

	return result
}

// =============================================================================
// HELPER FUNCTIONS
// =============================================================================

// begin advances to the next step and notifies the observer.
func (p *Pipeline) begin() {
	p.step++
	if p.step > len(StepNames) {
		return
	}
	name := StepNames[p.step-1]
	p.logger.Debug("Step %d/%d: %s", p.step, len(StepNames), name)
	if p.opts.OnStep != nil {
		p.opts.OnStep(Step{Index: p.step, Total: len(StepNames), Name: name})
	}
}

// fetchCatalog returns the catalog products, or none when lookups are off.
func (p *Pipeline) fetchCatalog(ctx context.Context) []types.CatalogEntry {
	if p.opts.Offline || !p.cfg.CatalogEnabled() {
		p.logger.Info("Catalog lookups disabled, skipping enrichment data")
		return []types.CatalogEntry{}
	}

	src := p.opts.Source
	if src == nil {
		src = SourceFromConfig(p.cfg, p.logger)
	}

	products := catalog.Fetch(ctx, src, p.logger)
	p.logger.Info("Fetched %d products from catalog", len(products))
	return products
}

// SourceFromConfig builds the catalog source described by cfg.
// A snapshot file takes precedence over the URL.
func SourceFromConfig(cfg *config.Config, logger logging.Logger) catalog.Source {
	if cfg.Catalog.File != "" {
		return catalog.NewFileSource(cfg.Catalog.File)
	}
	return catalog.NewHTTPClient(
		cfg.Catalog.URL,
		time.Duration(cfg.Catalog.TimeoutSeconds)*time.Second,
		logger,
	)
}

// RulesFromConfig returns the validation rules configured in cfg.
func RulesFromConfig(cfg *config.Config) validation.Rules {
	return validation.Rules{
		TransactionPrefix: cfg.Validation.TransactionPrefix,
		ProductPrefix:     cfg.Validation.ProductPrefix,
		CustomerPrefix:    cfg.Validation.CustomerPrefix,
	}
}

func (p *Pipeline) outputPath(format string, now time.Time) string {
	return utils.GenerateOutputFileName(format, map[string]string{"run_id": p.opts.RunID}, now)
}

func reportOptions(cfg *config.Config) report.Options {
	return report.Options{
		TopProducts:           cfg.Analysis.TopProducts,
		TopCustomers:          cfg.Analysis.TopCustomers,
		LowPerformerThreshold: cfg.Analysis.LowPerformerThreshold,
		DailyTrendLimit:       cfg.Analysis.DailyTrendLimit,
		LowPerformerLimit:     cfg.Analysis.LowPerformerLimit,
		UnmatchedLimit:        cfg.Analysis.UnmatchedLimit,
	}
}
