package cmd

import (
	"github.com/spf13/cobra"

	"github.com/leanlens/leanlens/core"
	"github.com/leanlens/leanlens/internal/contract"
)

// analyzeCmd performs the full waste analysis over a data directory.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [data-dir]",
	Short: "Detect, classify and cost production losses from CSV logs.",
	Long: `Run the full analysis pipeline over a directory of production data.

The directory must contain three CSV files:
- production_logs.csv   (stoppages, micro-stops, slowdowns per machine)
- quality_records.csv   (scrap, rework, over-control, nonconformities)
- incident_reports.csv  (maintenance, logistics and organization incidents)

The pipeline aggregates the events, detects recurring losses above the
configured thresholds, classifies each loss into a TIMWOODS waste
category with a 5 Whys root-cause chain and an estimated cost, and
recommends prioritized corrective actions with expected gains.

Each analytic stage runs a deterministic rule-based strategy by default.
When a model API key is configured, stages use the model backend instead
and fall back to the rules on any model failure.

Examples:
  # Analyze the current directory with default thresholds
  leanlens analyze

  # Analyze a dataset with a stricter micro-stop threshold
  leanlens analyze ./plant-data --micro-stop-count 20

  # Include the root-cause chains and write JSON for downstream tools
  leanlens analyze ./plant-data --detail --output json --output-file report.json

  # Use the model backend with heuristic fallback
  LEANLENS_MODEL_API_KEY=... leanlens analyze ./plant-data`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteAnalyze(rootCtx, cfg); err != nil {
			contract.LogFatal("Cannot run waste analysis", err)
		}
	},
}
