package parquet

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanlens/leanlens/schema"
)

func TestConvertRunRecords(t *testing.T) {
	start := time.Date(2026, 3, 2, 8, 0, 0, 0, time.UTC)
	records := []schema.RunRecord{{
		ID:                  7,
		StartTime:           start,
		EndTime:             start.Add(2 * time.Second),
		LossCount:           3,
		RecommendationCount: 6,
		TotalCostEUR:        1200.5,
		TotalGainEUR:        840.35,
		ROIPercent:          70.0,
		DetectMode:          schema.ModelMode,
		ClassifyMode:        schema.HeuristicMode,
		RecommendMode:       schema.HeuristicMode,
		ConfigParams:        `{"data_dir":"./data"}`,
	}}

	rows := ConvertRunRecords(records)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, int64(7), row.RunID)
	assert.Equal(t, int32(3), row.LossCount)
	assert.Equal(t, int32(6), row.RecommendationCount)
	assert.Equal(t, "model", row.DetectMode)
	assert.Equal(t, "heuristic", row.ClassifyMode)
	assert.Equal(t, `{"data_dir":"./data"}`, row.ConfigParams)
}

func TestConvertLossRecords(t *testing.T) {
	recorded := time.Date(2026, 3, 2, 8, 0, 2, 0, time.UTC)
	records := []schema.LossRecord{{
		RunID:            7,
		LossID:           "LOSS-002",
		Title:            "High scrap and rework volume on CNC-01",
		Category:         schema.Defects,
		Severity:         schema.HighSeverity,
		Frequency:        48,
		TotalHours:       24.0,
		EstimatedCostEUR: 3600.0,
		ConfidenceScore:  0.80,
		RootCause:        "Dérive paramètres process",
		RecordedAt:       recorded,
	}}

	rows := ConvertLossRecords(records)
	require.Len(t, rows, 1)

	row := rows[0]
	assert.Equal(t, "LOSS-002", row.LossID)
	assert.Equal(t, "Defects", row.Category)
	assert.Equal(t, "high", row.Severity)
	assert.Equal(t, int32(48), row.Frequency)
	assert.Equal(t, recorded, row.RecordedAt)
}

func TestWriteRunsParquet_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.runs.parquet")
	rows := []Run{
		{RunID: 1, StartTime: time.Now().UTC(), DetectMode: "heuristic"},
		{RunID: 2, StartTime: time.Now().UTC(), DetectMode: "model"},
	}

	require.NoError(t, WriteRunsParquet(rows, path))

	file, err := os.Open(path)
	require.NoError(t, err)
	defer func() { _ = file.Close() }()

	info, err := file.Stat()
	require.NoError(t, err)

	pf, err := parquet.OpenFile(file, info.Size())
	require.NoError(t, err)
	assert.Equal(t, int64(2), pf.NumRows())
}

func TestWriteLossesParquet_Empty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.losses.parquet")
	require.NoError(t, WriteLossesParquet(nil, path))

	_, err := os.Stat(path)
	assert.NoError(t, err)
}
