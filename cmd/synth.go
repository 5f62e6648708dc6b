package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/internal/synth"
)

// synthCmd generates a synthetic production dataset.
var synthCmd = &cobra.Command{
	Use:   "synth [output-dir]",
	Short: "Generate a synthetic production dataset with seeded anomalies.",
	Long: `Write a reproducible synthetic dataset for demos and testing.

Generates the three CSV files the analyze command reads, with realistic
background activity plus seeded anomalies (a micro-stop cluster, a
chronic downtime machine, a scrap streak, excess inspections and night
shift stoppages) that land above the default detection thresholds.

The same seed always produces the same dataset.

Examples:
  # Generate 30 days of data into ./demo-data
  leanlens synth ./demo-data

  # A bigger dataset with a fixed first day
  leanlens synth ./demo-data --days 90 --start-date 2026-01-05 --num-logs 2000`,
	Args: cobra.MaximumNArgs(1),
	Run: func(_ *cobra.Command, args []string) {
		outputDir := "."
		if len(args) == 1 {
			outputDir = args[0]
		}

		days := viper.GetInt("days")
		if days <= 0 {
			contract.LogFatal("Cannot generate dataset", fmt.Errorf("days must be positive, got %d", days))
		}

		start := time.Now().AddDate(0, 0, -days).Truncate(24 * time.Hour)
		if startStr := viper.GetString("start-date"); startStr != "" {
			parsed, err := time.Parse("2006-01-02", startStr)
			if err != nil {
				contract.LogFatal("Cannot generate dataset", fmt.Errorf("invalid start-date %q: %w", startStr, err))
			}
			start = parsed
		}

		gen := synth.NewGenerator(outputDir, viper.GetInt64("seed"), start, days)
		counts, err := gen.GenerateAll(
			viper.GetInt("num-logs"),
			viper.GetInt("num-quality"),
			viper.GetInt("num-incidents"),
		)
		if err != nil {
			contract.LogFatal("Cannot generate dataset", err)
		}

		for file, count := range counts {
			fmt.Printf("Wrote %d rows to %s\n", count, file)
		}
	},
}
