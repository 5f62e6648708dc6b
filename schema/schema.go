// Package schema defines the typed data model shared by every pipeline
// stage: supplier events, aggregated statistics, detected losses, analyses,
// recommendations and the final report. JSON field names here are the
// stable export contract consumed by downstream tooling.
package schema

import "time"

// ProductionEvent is one machine event from the production log.
// Events are supplied already validated and are never mutated by the core.
type ProductionEvent struct {
	Timestamp       time.Time `json:"timestamp"`
	MachineID       string    `json:"machine_id"`
	LineID          string    `json:"line_id"`
	EventType       EventType `json:"event_type"`
	DurationMinutes float64   `json:"duration_minutes"`
	Description     string    `json:"description"`
	OperatorID      string    `json:"operator_id,omitempty"`
	Shift           Shift     `json:"shift"`
}

// QualityEvent is one defect or non-conformity record.
type QualityEvent struct {
	Timestamp   time.Time  `json:"timestamp"`
	ProductID   string     `json:"product_id"`
	DefectType  DefectType `json:"defect_type"`
	Quantity    int        `json:"quantity"`
	Severity    Severity   `json:"severity"`
	Description string     `json:"description"`
	MachineID   string     `json:"machine_id"`
	LineID      string     `json:"line_id"`
}

// IncidentEvent is one industrial incident report.
type IncidentEvent struct {
	Timestamp       time.Time `json:"timestamp"`
	IncidentID      string    `json:"incident_id"`
	Category        string    `json:"category"`
	Description     string    `json:"description"`
	ImpactLevel     int       `json:"impact_level"`
	ResolutionHours float64   `json:"resolution_hours"`
	RootCause       string    `json:"root_cause"`
	MachineID       string    `json:"machine_id"`
	LineID          string    `json:"line_id"`
}

// EventLog bundles the three typed collections handed over by the
// record supplier for one analysis run.
type EventLog struct {
	Production []ProductionEvent `json:"production_events"`
	Quality    []QualityEvent    `json:"quality_events"`
	Incidents  []IncidentEvent   `json:"incident_events"`
}

// ShiftStats holds per-shift activity for one machine or the whole plant.
type ShiftStats struct {
	EventCount    int     `json:"event_count"`
	StoppageHours float64 `json:"stoppage_hours"`
}

// MachineStats holds the aggregated statistics for a single machine.
type MachineStats struct {
	MachineID        string               `json:"machine_id"`
	LineID           string               `json:"line_id"`
	EventCount       int                  `json:"event_count"`
	MicroStopCount   int                  `json:"micro_stop_count"`
	StopCount        int                  `json:"stop_count"`
	SlowdownCount    int                  `json:"slowdown_count"`
	StoppageHours    float64              `json:"stoppage_hours"`
	DefectCount      int                  `json:"defect_count"`
	DefectRate       float64              `json:"defect_rate"`
	OverControlCount int                  `json:"over_control_count"`
	ByShift          map[Shift]ShiftStats `json:"by_shift"`
}

// StatBundle is the aggregator's output for one run. Machines is in
// first-seen order so downstream tie-breaks are reproducible; the maps
// are keyed lookups over the same data.
type StatBundle struct {
	Machines   []string                 `json:"machines"`
	PerMachine map[string]*MachineStats `json:"per_machine"`
	ByShift    map[Shift]ShiftStats     `json:"by_shift"`
	ByLine     map[string]ShiftStats    `json:"by_line"`

	ProductionEvents int `json:"production_events"`
	QualityEvents    int `json:"quality_events"`
	IncidentEvents   int `json:"incident_events"`
}

// Stats returns the stats for a machine, or nil when unseen.
func (b *StatBundle) Stats(machineID string) *MachineStats {
	return b.PerMachine[machineID]
}
