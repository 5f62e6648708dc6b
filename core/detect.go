package core

import (
	"fmt"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

// Fixed confidence scores per detection rule. These reflect each
// heuristic's known precision; they are documented constants, never
// computed from the data.
const (
	microStopConfidence   = 0.75
	downtimeConfidence    = 0.85
	defectConfidence      = 0.80
	overControlConfidence = 0.65
	nightShiftConfidence  = 0.70
)

// Estimated hours lost per occurrence, used when the rule's metric is a
// count rather than a measured duration.
const (
	hoursPerMicroStop   = 0.05 // ~3 minutes each
	hoursPerDefect      = 0.5
	hoursPerOverControl = 0.25 // ~15 minutes each
)

// machineRule is one per-machine threshold rule. Rules are ordered,
// independent, and fire at most once per machine per run; several rules
// may fire for the same machine, producing multiple losses.
type machineRule struct {
	name        string
	hint        schema.WasteCategory // empty when classification is keyword-driven
	confidence  float64
	minSeverity schema.Severity
	metric      func(*schema.MachineStats) float64
	threshold   func(*contract.Config) float64
	build       func(*schema.MachineStats, float64) lossDraft
}

// lossDraft carries the rule-specific fields of a candidate loss.
type lossDraft struct {
	title       string
	description string
	frequency   int
	totalHours  float64
}

// machineRules is the ordered rule set applied to every machine.
var machineRules = []machineRule{
	{
		name:        "micro_stops",
		hint:        schema.Waiting,
		confidence:  microStopConfidence,
		minSeverity: schema.MediumSeverity,
		metric:      func(m *schema.MachineStats) float64 { return float64(m.MicroStopCount) },
		threshold:   func(cfg *contract.Config) float64 { return float64(cfg.MicroStopCount) },
		build: func(m *schema.MachineStats, value float64) lossDraft {
			count := int(value)
			return lossDraft{
				title: fmt.Sprintf("Frequent micro-stops on %s", m.MachineID),
				description: fmt.Sprintf(
					"Machine %s logged %d micro-stops over the period. Short but repeated "+
						"stoppages point to a recurring fault and add up to significant waiting time.",
					m.MachineID, count),
				frequency:  count,
				totalHours: value * hoursPerMicroStop,
			}
		},
	},
	{
		name:        "cumulative_downtime",
		confidence:  downtimeConfidence,
		minSeverity: schema.HighSeverity,
		metric:      func(m *schema.MachineStats) float64 { return m.StoppageHours },
		threshold:   func(cfg *contract.Config) float64 { return cfg.DowntimeHours },
		build: func(m *schema.MachineStats, value float64) lossDraft {
			return lossDraft{
				title: fmt.Sprintf("High cumulative downtime on %s", m.MachineID),
				description: fmt.Sprintf(
					"Machine %s accumulated %.1f hours of downtime over the period, "+
						"a major availability loss with production waiting on every restart.",
					m.MachineID, value),
				frequency:  1,
				totalHours: value,
			}
		},
	},
	{
		name:        "defect_count",
		hint:        schema.Defects,
		confidence:  defectConfidence,
		minSeverity: schema.MediumSeverity,
		metric:      func(m *schema.MachineStats) float64 { return float64(m.DefectCount) },
		threshold:   func(cfg *contract.Config) float64 { return float64(cfg.DefectCount) },
		build: func(m *schema.MachineStats, value float64) lossDraft {
			count := int(value)
			return lossDraft{
				title: fmt.Sprintf("High scrap and rework volume on %s", m.MachineID),
				description: fmt.Sprintf(
					"Machine %s produced %d defective pieces (scrap, rework or non-conformity). "+
						"This level of quality loss indicates process drift and direct financial waste.",
					m.MachineID, count),
				frequency:  count,
				totalHours: value * hoursPerDefect,
			}
		},
	},
	{
		name:        "over_control",
		hint:        schema.OverProcessing,
		confidence:  overControlConfidence,
		minSeverity: schema.MediumSeverity,
		metric:      func(m *schema.MachineStats) float64 { return float64(m.OverControlCount) },
		threshold:   func(cfg *contract.Config) float64 { return float64(cfg.OverControlCount) },
		build: func(m *schema.MachineStats, value float64) lossDraft {
			count := int(value)
			return lossDraft{
				title: fmt.Sprintf("Excessive quality inspections on %s", m.MachineID),
				description: fmt.Sprintf(
					"%d redundant quality controls were performed on %s. Inspections beyond "+
						"the requirement consume time without adding value.",
					count, m.MachineID),
				frequency:  count,
				totalHours: value * hoursPerOverControl,
			}
		},
	},
}

// detectLosses applies the ordered rule set to the aggregated statistics
// and raw events, emitting candidate losses with deterministic IDs in
// machine-first-seen, rule order.
func detectLosses(cfg *contract.Config, log *schema.EventLog, stats *schema.StatBundle) []schema.DetectedLoss {
	var losses []schema.DetectedLoss

	nextID := func() string { return fmt.Sprintf("LOSS-%03d", len(losses)+1) }

	for _, machineID := range stats.Machines {
		m := stats.PerMachine[machineID]
		for _, rule := range machineRules {
			value := rule.metric(m)
			threshold := rule.threshold(cfg)
			if value <= threshold {
				continue
			}

			draft := rule.build(m, value)
			losses = append(losses, schema.DetectedLoss{
				LossID:           nextID(),
				Title:            draft.title,
				Description:      draft.description,
				CategoryHint:     rule.hint,
				Frequency:        draft.frequency,
				TotalHours:       draft.totalHours,
				Severity:         schema.MaxSeverity(rule.minSeverity, severityForRatio(value/threshold)),
				ConfidenceScore:  rule.confidence,
				AffectedMachines: []string{machineID},
				AffectedLines:    []string{m.LineID},
				SourceEvents:     sourceEventsFor(cfg, rule.name, machineID, log),
			})
		}
	}

	if loss, ok := detectNightShift(cfg, stats, nextID); ok {
		losses = append(losses, loss)
	}

	return losses
}

// detectNightShift is the single plant-level rule: abnormal stoppage
// accumulation on the night shift, a known marker of supervision and
// skill gaps rather than a machine fault.
func detectNightShift(cfg *contract.Config, stats *schema.StatBundle, nextID func() string) (schema.DetectedLoss, bool) {
	night := stats.ByShift[schema.NightShift]
	if night.StoppageHours <= cfg.NightShiftHours {
		return schema.DetectedLoss{}, false
	}

	machines, lines := nightShiftScope(stats)
	// The wording stays clear of the Waiting keyword set so the keyword
	// classifier lands on Skills via the shift vocabulary.
	return schema.DetectedLoss{
		LossID: nextID(),
		Title:  "Recurring night shift disruptions",
		Description: fmt.Sprintf(
			"The night shift accumulated %.1f hours of stoppage time, well above the other shifts. "+
				"This pattern suggests supervision gaps, uneven skill levels across the shift, "+
				"or unfavorable working conditions.",
			night.StoppageHours),
		Frequency:        night.EventCount,
		TotalHours:       night.StoppageHours,
		Severity:         severityForRatio(night.StoppageHours / cfg.NightShiftHours),
		ConfidenceScore:  nightShiftConfidence,
		AffectedMachines: machines,
		AffectedLines:    lines,
	}, true
}

// nightShiftScope lists the machines (and their lines) that logged
// stoppage time during the night shift, in first-seen order.
func nightShiftScope(stats *schema.StatBundle) (machines, lines []string) {
	seenLines := make(map[string]struct{})
	for _, machineID := range stats.Machines {
		m := stats.PerMachine[machineID]
		if m.ByShift[schema.NightShift].EventCount == 0 {
			continue
		}
		machines = append(machines, machineID)
		if _, ok := seenLines[m.LineID]; !ok {
			seenLines[m.LineID] = struct{}{}
			lines = append(lines, m.LineID)
		}
	}
	return machines, lines
}

// isStoppage reports whether an event type halts production.
func isStoppage(t schema.EventType) bool {
	return t == schema.StopEvent || t == schema.MicroStopEvent
}

// severityForRatio derives the severity tier from how far a metric
// exceeds its threshold: 1x-1.5x medium, 1.5x-3x high, above 3x critical.
func severityForRatio(ratio float64) schema.Severity {
	switch {
	case ratio >= 3:
		return schema.CriticalSeverity
	case ratio >= 1.5:
		return schema.HighSeverity
	default:
		return schema.MediumSeverity
	}
}

// sourceEventsFor collects the provenance identifiers behind a rule:
// positional IDs of the raw events that contributed to its metric.
func sourceEventsFor(cfg *contract.Config, ruleName, machineID string, log *schema.EventLog) []string {
	var ids []string
	switch ruleName {
	case "micro_stops":
		for i, ev := range log.Production {
			if ev.MachineID != machineID || !isStoppage(ev.EventType) {
				continue
			}
			if ev.DurationMinutes < cfg.MicroStopThresholdMin {
				ids = append(ids, fmt.Sprintf("PROD-%04d", i+1))
			}
		}
	case "cumulative_downtime":
		for i, ev := range log.Production {
			if ev.MachineID == machineID && isStoppage(ev.EventType) {
				ids = append(ids, fmt.Sprintf("PROD-%04d", i+1))
			}
		}
	case "defect_count":
		for i, ev := range log.Quality {
			if ev.MachineID == machineID && ev.DefectType != schema.OverControlDefect {
				ids = append(ids, fmt.Sprintf("QUAL-%04d", i+1))
			}
		}
	case "over_control":
		for i, ev := range log.Quality {
			if ev.MachineID == machineID && ev.DefectType == schema.OverControlDefect {
				ids = append(ids, fmt.Sprintf("QUAL-%04d", i+1))
			}
		}
	}
	return ids
}
