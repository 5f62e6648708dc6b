package schema

// Custom string types for type safety.
type (
	// WasteCategory represents one of the eight TIMWOODS waste categories.
	WasteCategory string

	// Severity represents the severity tier of a loss or defect.
	Severity string

	// EffortTier represents the implementation effort of a recommendation.
	EffortTier string

	// Department represents the functional area responsible for an action.
	Department string

	// StageName identifies one stage of the analysis pipeline.
	StageName string

	// StageMode records which strategy produced a stage's output.
	StageMode string

	// PipelineState represents a state of the orchestrator state machine.
	PipelineState string

	// EventType represents the kind of a production event.
	EventType string

	// DefectType represents the kind of a quality event.
	DefectType string

	// Shift represents a work shift.
	Shift string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for report storage.
	DatabaseBackend string
)

// The eight TIMWOODS waste categories.
const (
	Transport      WasteCategory = "Transport"
	Inventory      WasteCategory = "Inventory"
	Motion         WasteCategory = "Motion"
	Waiting        WasteCategory = "Waiting"
	OverProcessing WasteCategory = "OverProcessing"
	OverProduction WasteCategory = "OverProduction"
	Defects        WasteCategory = "Defects"
	Skills         WasteCategory = "Skills"
)

// AllWasteCategories lists every category in TIMWOODS order.
var AllWasteCategories = []WasteCategory{
	Transport, Inventory, Motion, Waiting,
	OverProcessing, OverProduction, Defects, Skills,
}

// ValidWasteCategories supports O(1) membership checks.
var ValidWasteCategories = map[WasteCategory]struct{}{
	Transport: {}, Inventory: {}, Motion: {}, Waiting: {},
	OverProcessing: {}, OverProduction: {}, Defects: {}, Skills: {},
}

// Severity tiers, ordered low < medium < high < critical.
const (
	LowSeverity      Severity = "low"
	MediumSeverity   Severity = "medium"
	HighSeverity     Severity = "high"
	CriticalSeverity Severity = "critical"
)

// severityRanks backs Severity.Rank and Max.
var severityRanks = map[Severity]int{
	LowSeverity:      1,
	MediumSeverity:   2,
	HighSeverity:     3,
	CriticalSeverity: 4,
}

// Rank returns the ordinal of the severity tier (low=1 .. critical=4).
// Unknown tiers rank at 0 so they sort below every valid tier.
func (s Severity) Rank() int {
	return severityRanks[s]
}

// Valid reports whether the severity is one of the four known tiers.
func (s Severity) Valid() bool {
	_, ok := severityRanks[s]
	return ok
}

// MaxSeverity returns the higher of two severity tiers.
func MaxSeverity(a, b Severity) Severity {
	if b.Rank() > a.Rank() {
		return b
	}
	return a
}

// Effort tiers for recommendations.
const (
	LowEffort    EffortTier = "low"
	MediumEffort EffortTier = "medium"
	HighEffort   EffortTier = "high"
)

// effortWeights backs the composite priority score.
var effortWeights = map[EffortTier]float64{
	LowEffort:    1,
	MediumEffort: 2,
	HighEffort:   3,
}

// Weight returns the divisor used in priority scoring. Unknown tiers
// weigh as high effort so malformed input never inflates a score.
func (e EffortTier) Weight() float64 {
	if w, ok := effortWeights[e]; ok {
		return w
	}
	return effortWeights[HighEffort]
}

// Responsible departments referenced by the recommendation templates.
const (
	MaintenanceDept    Department = "Maintenance"
	ProductionDept     Department = "Production"
	QualityDept        Department = "Quality"
	HumanResourcesDept Department = "Human Resources"
	LogisticsDept      Department = "Logistics"
	PurchasingDept     Department = "Purchasing"
	EngineeringDept    Department = "Engineering"
	PlanningDept       Department = "Planning"
	ManagementDept     Department = "Management"
	AdministrationDept Department = "Administration"
)

// Pipeline stages.
const (
	DetectStage    StageName = "detect"
	ClassifyStage  StageName = "classify"
	RecommendStage StageName = "recommend"
)

// Stage execution modes.
const (
	HeuristicMode StageMode = "heuristic"
	ModelMode     StageMode = "model"
)

// Orchestrator states.
const (
	StartState       PipelineState = "start"
	ParsedState      PipelineState = "parsed"
	AnalyzedState    PipelineState = "analyzed"
	RecommendedState PipelineState = "recommended"
	ReportedState    PipelineState = "reported"
	EndState         PipelineState = "end"
)

// Production event types.
const (
	StopEvent      EventType = "stop"
	MicroStopEvent EventType = "micro_stop"
	SlowdownEvent  EventType = "slowdown"
	NormalEvent    EventType = "normal"
)

// Quality defect types.
const (
	ScrapDefect         DefectType = "scrap"
	ReworkDefect        DefectType = "rework"
	OverControlDefect   DefectType = "over_control"
	NonconformityDefect DefectType = "nonconformity"
)

// Work shifts.
const (
	MorningShift   Shift = "morning"
	AfternoonShift Shift = "afternoon"
	NightShift     Shift = "night"
)

// AllShifts lists shifts in chronological order for deterministic iteration.
var AllShifts = []Shift{MorningShift, AfternoonShift, NightShift}

// All output modes supported.
const (
	TextOut OutputMode = "text" // default
	JSONOut OutputMode = "json"
	CSVOut  OutputMode = "csv"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	TextOut: {},
	JSONOut: {},
	CSVOut:  {},
}

// All report store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// ValidDatabaseBackends lists all valid report store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
	NoneBackend:       {},
}

// RootCauseMethod is the causal-chain technique used by the analyzer.
// Only the fixed-depth 5 Whys method is implemented.
const RootCauseMethod = "five_whys"

// MaxCausalDepth caps the causal chain length for the 5 Whys method.
const MaxCausalDepth = 5
