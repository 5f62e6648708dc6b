package core

import (
	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

// aggregateEvents computes the per-machine, per-shift and per-line
// statistics for one run. It is a pure function of its input: machines
// are tracked in first-seen order so downstream tie-breaks are
// reproducible, and nothing here mutates the supplied events.
func aggregateEvents(cfg *contract.Config, log *schema.EventLog) *schema.StatBundle {
	bundle := &schema.StatBundle{
		PerMachine: make(map[string]*schema.MachineStats),
		ByShift:    make(map[schema.Shift]schema.ShiftStats),
		ByLine:     make(map[string]schema.ShiftStats),

		ProductionEvents: len(log.Production),
		QualityEvents:    len(log.Quality),
		IncidentEvents:   len(log.Incidents),
	}

	for _, ev := range log.Production {
		stats := machineStatsFor(bundle, ev.MachineID, ev.LineID)
		stats.EventCount++

		hours := ev.DurationMinutes / 60.0
		switch ev.EventType {
		case schema.StopEvent, schema.MicroStopEvent:
			if ev.DurationMinutes < cfg.MicroStopThresholdMin {
				stats.MicroStopCount++
			} else {
				stats.StopCount++
			}
			stats.StoppageHours += hours

			shift := stats.ByShift[ev.Shift]
			shift.EventCount++
			shift.StoppageHours += hours
			stats.ByShift[ev.Shift] = shift

			plantShift := bundle.ByShift[ev.Shift]
			plantShift.EventCount++
			plantShift.StoppageHours += hours
			bundle.ByShift[ev.Shift] = plantShift

			line := bundle.ByLine[ev.LineID]
			line.EventCount++
			line.StoppageHours += hours
			bundle.ByLine[ev.LineID] = line
		case schema.SlowdownEvent:
			stats.SlowdownCount++
		}
	}

	for _, ev := range log.Quality {
		stats := machineStatsFor(bundle, ev.MachineID, ev.LineID)
		switch ev.DefectType {
		case schema.OverControlDefect:
			stats.OverControlCount += ev.Quantity
		default:
			stats.DefectCount += ev.Quantity
		}
	}

	// Defect rate is defective pieces per production event; machines with
	// quality records but no production activity report a zero rate.
	for _, id := range bundle.Machines {
		stats := bundle.PerMachine[id]
		if stats.EventCount > 0 {
			stats.DefectRate = float64(stats.DefectCount) / float64(stats.EventCount)
		}
	}

	return bundle
}

// machineStatsFor returns the stats record for a machine, registering it
// in first-seen order on first access.
func machineStatsFor(bundle *schema.StatBundle, machineID, lineID string) *schema.MachineStats {
	if stats, ok := bundle.PerMachine[machineID]; ok {
		return stats
	}
	stats := &schema.MachineStats{
		MachineID: machineID,
		LineID:    lineID,
		ByShift:   make(map[schema.Shift]schema.ShiftStats),
	}
	bundle.PerMachine[machineID] = stats
	bundle.Machines = append(bundle.Machines, machineID)
	return stats
}
