// Package cmd defines the command-line interface for leanlens.
package cmd

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(synthCmd)
	rootCmd.AddCommand(categoriesCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsHistoryCmd)
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)
	runsCmd.AddCommand(runsClearCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().Float64("micro-stop-threshold", contract.DefaultMicroStopThresholdMin, "Stoppages shorter than this many minutes count as micro-stops")
	rootCmd.PersistentFlags().Int("micro-stop-count", contract.DefaultMicroStopCount, "Micro-stops per machine before a loss is detected")
	rootCmd.PersistentFlags().Float64("downtime-hours", contract.DefaultDowntimeHours, "Cumulative stoppage hours per machine before a loss is detected")
	rootCmd.PersistentFlags().Int("defect-count", contract.DefaultDefectCount, "Defective pieces per machine before a loss is detected")
	rootCmd.PersistentFlags().Int("over-control-count", contract.DefaultOverControlCount, "Excess inspections per machine before a loss is detected")
	rootCmd.PersistentFlags().Float64("night-shift-hours", contract.DefaultNightShiftHours, "Plant-wide night shift stoppage hours before a loss is detected")
	rootCmd.PersistentFlags().Float64("machine-rate", contract.DefaultMachineHourlyRate, "Machine hourly rate in EUR for cost estimation")
	rootCmd.PersistentFlags().Float64("labor-rate", contract.DefaultLaborHourlyRate, "Labor hourly rate in EUR for cost estimation")
	rootCmd.PersistentFlags().Float64("gain-percent", contract.DefaultGainPercent, "Share of a loss's cost a recommendation is expected to recover [0,1]")
	rootCmd.PersistentFlags().Float64("quick-win-gain", contract.DefaultQuickWinGainEUR, "Minimum gain in EUR for a low-effort action to count as a quick win")
	rootCmd.PersistentFlags().String("model-api-key", "", "API key for the model backend (empty = heuristic strategies only)")
	rootCmd.PersistentFlags().String("model-name", "", "Model name override for the model backend")
	rootCmd.PersistentFlags().String("model-timeout", "", "Per-stage model call timeout (e.g. 30s, 2m)")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or json or csv")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().Bool("detail", false, "Print the 5 Whys causal chain per loss")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "auto", "Colored severity labels in output (auto/on/off)")
	rootCmd.PersistentFlags().Bool("verbose", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of synthCmd to Viper
	synthCmd.Flags().Int64("seed", 42, "Random seed for reproducible datasets")
	synthCmd.Flags().Int("days", 30, "Number of production days to generate")
	synthCmd.Flags().String("start-date", "", "First production day in YYYY-MM-DD form (default: days ago from today)")
	synthCmd.Flags().Int("num-logs", 500, "Number of background production events")
	synthCmd.Flags().Int("num-quality", 80, "Number of background quality events")
	synthCmd.Flags().Int("num-incidents", 20, "Number of incident reports")
	if err := viper.BindPFlags(synthCmd.Flags()); err != nil {
		contract.LogFatal("Error binding synth flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
