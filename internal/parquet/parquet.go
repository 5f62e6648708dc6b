// Package parquet exports run history to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"

	"github.com/leanlens/leanlens/schema"
)

// Run is one analysis run row. It maps to the leanlens_runs table.
type Run struct {
	RunID               int64     `parquet:"run_id,snappy"`
	StartTime           time.Time `parquet:"start_time,snappy"`
	EndTime             time.Time `parquet:"end_time,snappy"`
	LossCount           int32     `parquet:"loss_count,snappy"`
	RecommendationCount int32     `parquet:"recommendation_count,snappy"`
	TotalCostEUR        float64   `parquet:"total_cost_eur,snappy"`
	TotalGainEUR        float64   `parquet:"total_gain_eur,snappy"`
	ROIPercent          float64   `parquet:"roi_percentage,snappy"`
	DetectMode          string    `parquet:"detect_mode,snappy"`
	ClassifyMode        string    `parquet:"classify_mode,snappy"`
	RecommendMode       string    `parquet:"recommend_mode,snappy"`
	ConfigParams        string    `parquet:"config_params,snappy"`
}

// Loss is one flattened loss row. It maps to the leanlens_losses table.
type Loss struct {
	RunID            int64     `parquet:"run_id,snappy"`
	LossID           string    `parquet:"loss_id,snappy"`
	Title            string    `parquet:"title,snappy"`
	Category         string    `parquet:"category,snappy"`
	Severity         string    `parquet:"severity,snappy"`
	Frequency        int32     `parquet:"frequency,snappy"`
	TotalHours       float64   `parquet:"total_duration_hours,snappy"`
	EstimatedCostEUR float64   `parquet:"estimated_cost_eur,snappy"`
	ConfidenceScore  float64   `parquet:"confidence_score,snappy"`
	RootCause        string    `parquet:"root_cause,snappy"`
	RecordedAt       time.Time `parquet:"recorded_at,snappy"`
}

// WriteRunsParquet writes a slice of Run rows to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeParquet(data, outputPath)
}

// WriteLossesParquet writes a slice of Loss rows to a Parquet file.
func WriteLossesParquet(data []Loss, outputPath string) error {
	return writeParquet(data, outputPath)
}

// writeParquet writes rows using struct schema inference.
func writeParquet[T any](data []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	return nil
}

// ConvertRunRecords converts schema.RunRecord rows for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:               record.ID,
			StartTime:           record.StartTime,
			EndTime:             record.EndTime,
			LossCount:           int32(record.LossCount),
			RecommendationCount: int32(record.RecommendationCount),
			TotalCostEUR:        record.TotalCostEUR,
			TotalGainEUR:        record.TotalGainEUR,
			ROIPercent:          record.ROIPercent,
			DetectMode:          string(record.DetectMode),
			ClassifyMode:        string(record.ClassifyMode),
			RecommendMode:       string(record.RecommendMode),
			ConfigParams:        record.ConfigParams,
		}
	}
	return result
}

// ConvertLossRecords converts schema.LossRecord rows for Parquet export.
func ConvertLossRecords(records []schema.LossRecord) []Loss {
	result := make([]Loss, len(records))
	for i, record := range records {
		result[i] = Loss{
			RunID:            record.RunID,
			LossID:           record.LossID,
			Title:            record.Title,
			Category:         string(record.Category),
			Severity:         string(record.Severity),
			Frequency:        int32(record.Frequency),
			TotalHours:       record.TotalHours,
			EstimatedCostEUR: record.EstimatedCostEUR,
			ConfidenceScore:  record.ConfidenceScore,
			RootCause:        record.RootCause,
			RecordedAt:       record.RecordedAt,
		}
	}
	return result
}
