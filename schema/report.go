package schema

import "time"

// DetectedLoss is a candidate hidden loss emitted by the detector.
// It is immutable after creation; classification attaches a separate
// Analysis record instead of rewriting the loss.
type DetectedLoss struct {
	LossID           string        `json:"loss_id"`
	Title            string        `json:"title"`
	Description      string        `json:"description"`
	CategoryHint     WasteCategory `json:"category_hint,omitempty"`
	Frequency        int           `json:"frequency"`
	TotalHours       float64       `json:"total_duration_hours"`
	Severity         Severity      `json:"severity"`
	ConfidenceScore  float64       `json:"confidence_score"`
	AffectedMachines []string      `json:"affected_machines"`
	AffectedLines    []string      `json:"affected_lines"`
	SourceEvents     []string      `json:"source_events"`
}

// CausalStep is one level of a 5 Whys causal chain.
type CausalStep struct {
	Level int    `json:"level"`
	Cause string `json:"cause"`
}

// Analysis is the classification and root-cause record for exactly one
// detected loss.
type Analysis struct {
	LossID              string        `json:"loss_id"`
	Category            WasteCategory `json:"category"`
	Justification       string        `json:"justification"`
	Method              string        `json:"method"`
	Causes              []CausalStep  `json:"causes"`
	RootCause           string        `json:"root_cause"`
	ContributingFactors []string      `json:"contributing_factors"`
	EstimatedCostEUR    float64       `json:"estimated_cost_eur"`
	Severity            Severity      `json:"severity"`

	// DefaultCategory marks analyses that fell through the keyword table
	// to the fallback category, a lower-confidence classification.
	DefaultCategory bool `json:"default_category,omitempty"`
}

// Recommendation is one prioritized improvement action for a loss.
type Recommendation struct {
	RecommendationID string     `json:"recommendation_id"`
	LossID           string     `json:"loss_id"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	Priority         int        `json:"priority"`
	EstimatedGainEUR float64    `json:"estimated_gain_eur"`
	Effort           EffortTier `json:"implementation_effort"`
	TimelineWeeks    int        `json:"timeline_weeks"`
	Department       Department `json:"responsible_department"`
	QuickWin         bool       `json:"quick_win"`
}

// Summary holds the KPI aggregation computed over one report.
type Summary struct {
	TotalLosses          int                   `json:"total_losses"`
	TotalCostEUR         float64               `json:"total_cost_eur"`
	TotalGainEUR         float64               `json:"total_potential_gain_eur"`
	ROIPercent           float64               `json:"roi_percentage"`
	CategoryDistribution map[WasteCategory]int `json:"category_distribution"`
	SeverityDistribution map[Severity]int      `json:"severity_distribution"`
	TopCategory          WasteCategory         `json:"top_category,omitempty"`
	TopCategoryCount     int                   `json:"top_category_count"`
	TotalRecommendations int                   `json:"total_recommendations"`
	QuickWins            int                   `json:"quick_wins_count"`
	HighPriorityCount    int                   `json:"high_priority_count"`
}

// AnalysisReport is the terminal aggregate of one pipeline run.
// Sequences preserve detection order. Immutable once returned.
type AnalysisReport struct {
	Losses          []DetectedLoss          `json:"detected_losses"`
	Analyses        []Analysis              `json:"analyses"`
	Recommendations []Recommendation        `json:"recommendations"`
	Summary         Summary                 `json:"summary"`
	StageModes      map[StageName]StageMode `json:"stage_modes"`
	GeneratedAt     time.Time               `json:"generated_at"`
}

// Degraded reports whether any stage fell back from the model strategy.
// A zero-loss run reports false: the classify and recommend stages never
// executed, and their flags stay heuristic by construction.
func (r *AnalysisReport) Degraded(configuredModel bool) bool {
	if !configuredModel {
		return false
	}
	for _, mode := range r.StageModes {
		if mode == HeuristicMode {
			return true
		}
	}
	return false
}
