// =============================================================================
// Sales Analytics - Main Entry Point
// =============================================================================
//
// This is the main entry point for the Sales Analytics CLI application.
// It initializes the Cobra CLI framework and delegates command execution to
// the cmd package.
//
// USAGE:
//   salesreport run         - Analyze and enrich the sales file, write the report
//   salesreport validate    - Check the sales file without writing anything
//   salesreport config      - Print the effective configuration
//   salesreport version     - Display the application version
//
// ARCHITECTURE:
//   - cmd/           : Contains all CLI command definitions (Cobra)
//   - internal/      : Contains core business logic (not for external import)
//   - pkg/           : Contains shared utilities
//
// =============================================================================

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/ginjaninja78/sales-analytics/cmd"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cmd.Execute(ctx)
}
