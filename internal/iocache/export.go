package iocache

import (
	"errors"
	"fmt"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/internal/parquet"
)

// ExecuteExport exports the run history to a pair of Parquet files.
func ExecuteExport(store contract.ReportStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get store status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no run history found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)
	fmt.Printf("Total loss records: %d\n", status.TableSizes[lossesTable])

	runs, err := store.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}
	losses, err := store.GetAllLossRecords()
	if err != nil {
		return fmt.Errorf("failed to retrieve loss records: %w", err)
	}

	parquetRuns := parquet.ConvertRunRecords(runs)
	parquetLosses := parquet.ConvertLossRecords(losses)

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(parquetRuns), runsFile)

	lossesFile := outputFile + ".losses.parquet"
	if err := parquet.WriteLossesParquet(parquetLosses, lossesFile); err != nil {
		return fmt.Errorf("failed to write loss records: %w", err)
	}
	fmt.Printf("Exported %d loss records to: %s\n", len(parquetLosses), lossesFile)

	return nil
}
