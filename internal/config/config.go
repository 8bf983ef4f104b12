// =============================================================================
// Sales Analytics - Configuration Module
// =============================================================================
//
// This module is responsible for loading and validating the application
// configuration. All settings live in a single YAML file; every setting has
// a default so the tool also runs without any configuration file at all.
//
// CONFIGURATION SECTIONS:
//   1. Files:      input file, enriched output, text report, optional workbook
//   2. Logging:    level and output format
//   3. Catalog:    remote product catalog (URL or local snapshot, timeout)
//   4. Analysis:   top-N sizes, low performer threshold, report caps
//   5. Validation: required ID prefixes
//
// Command-line flags and SALES_* environment variables are layered on top of
// the file by the cmd package.
//
// =============================================================================

package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/ginjaninja78/sales-analytics/internal/common"
	"github.com/ginjaninja78/sales-analytics/pkg/utils"
)

// =============================================================================
// CONFIGURATION STRUCTURE
// =============================================================================

// Config holds the complete application configuration.
type Config struct {
	// =========================================================================
	// FILE SETTINGS
	// =========================================================================

	// InputFile is the pipe-delimited sales data file.
	// Default: "sales_data.txt"
	InputFile string `yaml:"input_file" validate:"required"`

	// Encoding of the input file: "auto", "utf-8", "latin-1" or "cp1252".
	// "auto" uses UTF-8 when possible and falls back to Latin-1.
	// Default: "auto"
	Encoding string `yaml:"encoding" validate:"oneof=auto utf-8 latin-1 cp1252"`

	// EnrichedFile is where the enriched transactions are written.
	// Default: "data/enriched_sales_data.txt"
	EnrichedFile string `yaml:"enriched_file" validate:"required"`

	// ReportFile is where the text report is written.
	// Supports the {run_id}, {timestamp} and {date} placeholders.
	// Default: "output/sales_report.txt"
	ReportFile string `yaml:"report_file" validate:"required"`

	// WorkbookFile is an optional XLSX export of the report.
	// Empty disables the export. Supports the same placeholders as ReportFile.
	WorkbookFile string `yaml:"workbook_file,omitempty"`

	Logging    LoggingConfig    `yaml:"logging"`
	Catalog    CatalogConfig    `yaml:"catalog"`
	Analysis   AnalysisConfig   `yaml:"analysis"`
	Validation ValidationConfig `yaml:"validation"`
}

// LoggingConfig controls log output.
type LoggingConfig struct {
	// Level: "debug", "info", "warn", "error". Default: "info"
	Level string `yaml:"level" validate:"oneof=debug info warn error"`

	// Format: "console" or "json". Default: "console"
	Format string `yaml:"format" validate:"oneof=console json"`
}

// CatalogConfig describes where product metadata comes from.
type CatalogConfig struct {
	// Enabled turns enrichment lookups on. When false every transaction
	// is written as unmatched.
	// Default: true
	Enabled *bool `yaml:"enabled,omitempty"`

	// URL of the product listing endpoint.
	// Default: "https://dummyjson.com/products?limit=100"
	URL string `yaml:"url" validate:"omitempty,url"`

	// File is a local JSON snapshot of the listing. When set it is used
	// instead of URL.
	File string `yaml:"file,omitempty"`

	// TimeoutSeconds bounds the fetch.
	// Default: 10
	TimeoutSeconds int `yaml:"timeout_seconds" validate:"gte=1,lte=300"`
}

// AnalysisConfig holds the sizes and caps used by the report.
type AnalysisConfig struct {
	TopProducts           int `yaml:"top_products" validate:"gte=1"`
	TopCustomers          int `yaml:"top_customers" validate:"gte=1"`
	LowPerformerThreshold int `yaml:"low_performer_threshold" validate:"gte=1"`
	DailyTrendLimit       int `yaml:"daily_trend_limit" validate:"gte=1"`
	LowPerformerLimit     int `yaml:"low_performer_limit" validate:"gte=1"`
	UnmatchedLimit        int `yaml:"unmatched_limit" validate:"gte=1"`
}

// ValidationConfig holds the ID prefixes a valid record must carry.
type ValidationConfig struct {
	TransactionPrefix string `yaml:"transaction_prefix" validate:"required"`
	ProductPrefix     string `yaml:"product_prefix" validate:"required,alpha"`
	CustomerPrefix    string `yaml:"customer_prefix" validate:"required"`
}

// CatalogEnabled reports whether catalog lookups are turned on.
func (c *Config) CatalogEnabled() bool {
	return c.Catalog.Enabled == nil || *c.Catalog.Enabled
}

// =============================================================================
// CONFIGURATION LOADING FUNCTIONS
// =============================================================================

// Default returns a configuration with every default applied.
func Default() *Config {
	config := &Config{}
	applyDefaults(config)
	return config
}

// Load loads the configuration from a YAML file.
//
// PARAMETERS:
//   - configPath: The path to the configuration file. A missing file is not
//     an error; defaults are used instead.
//
// RETURNS:
//   - A pointer to the Config struct.
//   - An error if the file cannot be read, parsed or validated.
func Load(configPath string) (*Config, error) {
	var config Config

	if utils.FileExists(configPath) {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	applyDefaults(&config)

	if err := Validate(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// applyDefaults sets default values for any unset configuration options.
func applyDefaults(config *Config) {
	if config.InputFile == "" {
		config.InputFile = "sales_data.txt"
	}
	if config.Encoding == "" {
		config.Encoding = "auto"
	}
	config.Encoding = strings.ToLower(config.Encoding)
	if config.EnrichedFile == "" {
		config.EnrichedFile = "data/enriched_sales_data.txt"
	}
	if config.ReportFile == "" {
		config.ReportFile = "output/sales_report.txt"
	}

	if config.Logging.Level == "" {
		config.Logging.Level = "info"
	}
	config.Logging.Level = strings.ToLower(config.Logging.Level)
	if config.Logging.Format == "" {
		config.Logging.Format = "console"
	}

	if config.Catalog.URL == "" {
		config.Catalog.URL = "https://dummyjson.com/products?limit=100"
	}
	if config.Catalog.TimeoutSeconds == 0 {
		config.Catalog.TimeoutSeconds = 10
	}

	if config.Analysis.TopProducts == 0 {
		config.Analysis.TopProducts = 5
	}
	if config.Analysis.TopCustomers == 0 {
		config.Analysis.TopCustomers = 5
	}
	if config.Analysis.LowPerformerThreshold == 0 {
		config.Analysis.LowPerformerThreshold = 10
	}
	if config.Analysis.DailyTrendLimit == 0 {
		config.Analysis.DailyTrendLimit = 12
	}
	if config.Analysis.LowPerformerLimit == 0 {
		config.Analysis.LowPerformerLimit = 8
	}
	if config.Analysis.UnmatchedLimit == 0 {
		config.Analysis.UnmatchedLimit = 15
	}

	if config.Validation.TransactionPrefix == "" {
		config.Validation.TransactionPrefix = "T"
	}
	if config.Validation.ProductPrefix == "" {
		config.Validation.ProductPrefix = "P"
	}
	if config.Validation.CustomerPrefix == "" {
		config.Validation.CustomerPrefix = "C"
	}
}

// Validate checks the configuration against its struct tags.
func Validate(config *Config) error {
	validate := validator.New()

	if err := validate.Struct(config); err != nil {
		var fieldErrors validator.ValidationErrors
		if errors.As(err, &fieldErrors) {
			messages := make([]string, 0, len(fieldErrors))
			for _, fe := range fieldErrors {
				messages = append(messages, formatFieldError(fe))
			}
			return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(messages, "; "))
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	return nil
}

// formatFieldError turns a validator error into a short readable message.
func formatFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Namespace())
	case "oneof":
		return fmt.Sprintf("%s must be one of [%s], got %q", fe.Namespace(), fe.Param(), fe.Value())
	case "url":
		return fmt.Sprintf("%s must be a valid URL, got %q", fe.Namespace(), fe.Value())
	case "gte":
		return fmt.Sprintf("%s must be at least %s", fe.Namespace(), fe.Param())
	case "lte":
		return fmt.Sprintf("%s must be at most %s", fe.Namespace(), fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", fe.Namespace(), fe.Tag())
	}
}

// Marshal renders the configuration as YAML.
func (c *Config) Marshal() ([]byte, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal config: %w", err)
	}
	return data, nil
}
