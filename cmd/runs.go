package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/internal/iocache"
	"github.com/leanlens/leanlens/internal/render"
	"github.com/leanlens/leanlens/schema"
)

// runsSetup loads minimal configuration needed for run history operations.
// This is used by commands that need store access without full shared setup.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get store-related config values
	backendStr := viper.GetString("store-backend")
	connStr := viper.GetString("store-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.SQLiteBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return fmt.Errorf("invalid store backend %q (sqlite, mysql, postgresql, none)", backendStr)
	}

	cfg.StoreBackend = backend
	cfg.StoreDBConnect = connStr

	// Get output-related config values (used by history and export)
	cfg.Output = schema.OutputMode(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.Precision = viper.GetInt("precision")

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// openStore opens the report store with the validated runs config.
func openStore() (contract.ReportStore, error) {
	return iocache.NewReportStore(cfg.StoreBackend, cfg.StoreDBConnect)
}

// runsCmd focused on run history management.
//
// Note: Runs subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by the analyze command. This avoids data
// directory validation for simple store operations.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage recorded analysis runs and exports",
	Long: `Manage the history of analysis runs stored by the analyze command.

When enabled, LeanLens records every analysis run, storing:
- Run metadata (timestamps, thresholds, strategy modes)
- KPI summary (losses, recommendations, cost, gain, ROI)
- One flattened row per detected loss

This enables trend tracking across runs and data export for BI tools.

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  history - List recorded runs with their KPIs
  status  - Show run tracking statistics
  export  - Export data to Parquet for analytics
  clear   - Remove all recorded runs
  migrate - Run database schema migrations

Examples:
  # List recorded runs
  leanlens runs history

  # Export for analysis in pandas/DuckDB
  leanlens runs export --output-file leanlens-data.parquet`,
}

// runsHistoryCmd lists recorded runs.
var runsHistoryCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded analysis runs with their KPI summaries",
	Long: `Show every recorded analysis run, oldest first.

Displays per run: start time, detected losses, recommendations,
estimated cost, potential gain, ROI and the strategy mode each stage
ran in (heuristic or model).

Examples:
  # List runs as a table
  leanlens runs history

  # Export the history as CSV
  leanlens runs history --output csv --output-file runs.csv`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Failed to open report store", err)
		}
		defer func() { _ = store.Close() }()

		runs, err := store.GetAllRuns()
		if err != nil {
			contract.LogFatal("Failed to read run history", err)
		}
		if err := render.WriteRunHistory(runs, cfg); err != nil {
			contract.LogFatal("Failed to write run history", err)
		}
	},
}

// runsStatusCmd shows run tracking status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run tracking statistics and connection details",
	Long: `Show detailed information about run history tracking.

Displays:
- Backend type
- Total number of recorded runs
- Database table sizes

Examples:
  # Check run tracking status
  leanlens runs status`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Failed to open report store", err)
		}
		defer func() { _ = store.Close() }()

		status, err := store.GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		iocache.PrintStoreStatus(status)
	},
}

// runsExportCmd exports run history to Parquet files.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all recorded runs and losses to Parquet format.

Exports two datasets:
- Runs - metadata and KPI summary per analysis run
- Losses - one flattened row per detected loss

Requires: --output-file parameter

Examples:
  # Export all data
  leanlens runs export --output-file leanlens-data.parquet

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('leanlens-data.parquet.runs.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		store, err := openStore()
		if err != nil {
			contract.LogFatal("Failed to open report store", err)
		}
		defer func() { _ = store.Close() }()

		if err := iocache.ExecuteExport(store, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run history", err)
		}
	},
}

// runsClearCmd clears the run history.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded analysis runs",
	Long: `Delete all stored runs and loss rows.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  leanlens runs export --output-file backup.parquet
  leanlens runs clear`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := iocache.ClearRuns(cfg.StoreBackend, contract.GetDBFilePath(), cfg.StoreDBConnect); err != nil {
			contract.LogFatal("Failed to clear run history", err)
		}
		fmt.Println("Run history cleared successfully.")
	},
}

// runsMigrateCmd runs database migrations for the report store.
//
// This command does NOT open the store or create tables, allowing
// migrations to run on a fresh database.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  leanlens runs migrate

  # Migrate to specific version
  leanlens runs migrate --target-version 1

  # Rollback to initial state
  leanlens runs migrate --target-version 0`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		connStr := cfg.StoreDBConnect
		if cfg.StoreBackend == schema.SQLiteBackend && connStr == "" {
			connStr = contract.GetDBFilePath()
		}
		targetVersion := viper.GetInt("target-version")
		if err := iocache.MigrateStore(cfg.StoreBackend, connStr, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
