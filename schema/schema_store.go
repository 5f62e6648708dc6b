package schema

import "time"

// RunRecord is one persisted analysis run.
type RunRecord struct {
	ID                  int64     `json:"id"`
	StartTime           time.Time `json:"start_time"`
	EndTime             time.Time `json:"end_time"`
	LossCount           int       `json:"loss_count"`
	RecommendationCount int       `json:"recommendation_count"`
	TotalCostEUR        float64   `json:"total_cost_eur"`
	TotalGainEUR        float64   `json:"total_gain_eur"`
	ROIPercent          float64   `json:"roi_percentage"`
	DetectMode          StageMode `json:"detect_mode"`
	ClassifyMode        StageMode `json:"classify_mode"`
	RecommendMode       StageMode `json:"recommend_mode"`
	ConfigParams        string    `json:"config_params"` // JSON blob
}

// LossRecord is one persisted loss row, flattened for storage and export.
type LossRecord struct {
	RunID            int64         `json:"run_id"`
	LossID           string        `json:"loss_id"`
	Title            string        `json:"title"`
	Category         WasteCategory `json:"category"`
	Severity         Severity      `json:"severity"`
	Frequency        int           `json:"frequency"`
	TotalHours       float64       `json:"total_duration_hours"`
	EstimatedCostEUR float64       `json:"estimated_cost_eur"`
	ConfidenceScore  float64       `json:"confidence_score"`
	RootCause        string        `json:"root_cause"`
	RecordedAt       time.Time     `json:"recorded_at"`
}

// StoreStatus summarizes the state of a report store backend.
type StoreStatus struct {
	Backend    DatabaseBackend `json:"backend"`
	TotalRuns  int             `json:"total_runs"`
	TableSizes map[string]int  `json:"table_sizes"`
}
