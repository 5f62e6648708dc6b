// Package loader reads the three event CSV files and hands the core a
// validated, typed event log. Rows that fail validation are skipped and
// reported; a missing file is an error.
package loader

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/leanlens/leanlens/schema"
)

// Event file names inside the data directory.
const (
	ProductionFile = "production_logs.csv"
	QualityFile    = "quality_records.csv"
	IncidentFile   = "incident_reports.csv"
)

// maxReportedErrors caps how many row errors are logged per file.
const maxReportedErrors = 5

var validEventTypes = map[schema.EventType]struct{}{
	schema.StopEvent: {}, schema.MicroStopEvent: {},
	schema.SlowdownEvent: {}, schema.NormalEvent: {},
}

var validDefectTypes = map[schema.DefectType]struct{}{
	schema.ScrapDefect: {}, schema.ReworkDefect: {},
	schema.OverControlDefect: {}, schema.NonconformityDefect: {},
}

var validShifts = map[schema.Shift]struct{}{
	schema.MorningShift: {}, schema.AfternoonShift: {}, schema.NightShift: {},
}

// LoadEventLog loads all three event files from dataDir.
func LoadEventLog(dataDir string, logger zerolog.Logger) (*schema.EventLog, error) {
	if info, err := os.Stat(dataDir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("data directory does not exist: %s", dataDir)
	}

	production, err := LoadProductionEvents(filepath.Join(dataDir, ProductionFile), logger)
	if err != nil {
		return nil, err
	}
	quality, err := LoadQualityEvents(filepath.Join(dataDir, QualityFile), logger)
	if err != nil {
		return nil, err
	}
	incidents, err := LoadIncidentEvents(filepath.Join(dataDir, IncidentFile), logger)
	if err != nil {
		return nil, err
	}

	logger.Info().
		Int("production", len(production)).
		Int("quality", len(quality)).
		Int("incidents", len(incidents)).
		Str("dir", dataDir).
		Msg("event log loaded")

	return &schema.EventLog{
		Production: production,
		Quality:    quality,
		Incidents:  incidents,
	}, nil
}

// LoadProductionEvents loads and validates one production log file.
func LoadProductionEvents(path string, logger zerolog.Logger) ([]schema.ProductionEvent, error) {
	var events []schema.ProductionEvent
	err := readCSV(path, logger, func(row map[string]string) error {
		ev := schema.ProductionEvent{
			MachineID:   row["machine_id"],
			LineID:      row["line_id"],
			EventType:   schema.EventType(row["event_type"]),
			Description: row["description"],
			OperatorID:  row["operator_id"],
			Shift:       schema.Shift(row["shift"]),
		}
		if ev.MachineID == "" {
			return fmt.Errorf("missing machine_id")
		}
		if _, ok := validEventTypes[ev.EventType]; !ok {
			return fmt.Errorf("invalid event_type %q", row["event_type"])
		}
		if _, ok := validShifts[ev.Shift]; !ok {
			return fmt.Errorf("invalid shift %q", row["shift"])
		}

		var err error
		if ev.Timestamp, err = time.Parse(time.RFC3339, row["timestamp"]); err != nil {
			return fmt.Errorf("invalid timestamp %q", row["timestamp"])
		}
		if ev.DurationMinutes, err = strconv.ParseFloat(row["duration_minutes"], 64); err != nil {
			return fmt.Errorf("invalid duration_minutes %q", row["duration_minutes"])
		}
		if ev.DurationMinutes < 0 {
			return fmt.Errorf("negative duration_minutes %v", ev.DurationMinutes)
		}

		events = append(events, ev)
		return nil
	})
	return events, err
}

// LoadQualityEvents loads and validates one quality records file.
func LoadQualityEvents(path string, logger zerolog.Logger) ([]schema.QualityEvent, error) {
	var events []schema.QualityEvent
	err := readCSV(path, logger, func(row map[string]string) error {
		ev := schema.QualityEvent{
			ProductID:   row["product_id"],
			DefectType:  schema.DefectType(row["defect_type"]),
			Severity:    schema.Severity(row["severity"]),
			Description: row["description"],
			MachineID:   row["machine_id"],
			LineID:      row["line_id"],
		}
		if ev.MachineID == "" {
			return fmt.Errorf("missing machine_id")
		}
		if _, ok := validDefectTypes[ev.DefectType]; !ok {
			return fmt.Errorf("invalid defect_type %q", row["defect_type"])
		}
		if !ev.Severity.Valid() {
			return fmt.Errorf("invalid severity %q", row["severity"])
		}

		var err error
		if ev.Timestamp, err = time.Parse(time.RFC3339, row["timestamp"]); err != nil {
			return fmt.Errorf("invalid timestamp %q", row["timestamp"])
		}
		if ev.Quantity, err = strconv.Atoi(row["quantity"]); err != nil {
			return fmt.Errorf("invalid quantity %q", row["quantity"])
		}
		if ev.Quantity < 0 {
			return fmt.Errorf("negative quantity %d", ev.Quantity)
		}

		events = append(events, ev)
		return nil
	})
	return events, err
}

// LoadIncidentEvents loads and validates one incident reports file.
func LoadIncidentEvents(path string, logger zerolog.Logger) ([]schema.IncidentEvent, error) {
	var events []schema.IncidentEvent
	err := readCSV(path, logger, func(row map[string]string) error {
		ev := schema.IncidentEvent{
			IncidentID:  row["incident_id"],
			Category:    row["category"],
			Description: row["description"],
			RootCause:   row["root_cause"],
			MachineID:   row["machine_id"],
			LineID:      row["line_id"],
		}
		if ev.IncidentID == "" {
			return fmt.Errorf("missing incident_id")
		}

		var err error
		if ev.Timestamp, err = time.Parse(time.RFC3339, row["timestamp"]); err != nil {
			return fmt.Errorf("invalid timestamp %q", row["timestamp"])
		}
		if ev.ImpactLevel, err = strconv.Atoi(row["impact_level"]); err != nil {
			return fmt.Errorf("invalid impact_level %q", row["impact_level"])
		}
		if ev.ImpactLevel < 1 || ev.ImpactLevel > 5 {
			return fmt.Errorf("impact_level %d out of range 1..5", ev.ImpactLevel)
		}
		if ev.ResolutionHours, err = strconv.ParseFloat(row["resolution_time_hours"], 64); err != nil {
			return fmt.Errorf("invalid resolution_time_hours %q", row["resolution_time_hours"])
		}

		events = append(events, ev)
		return nil
	})
	return events, err
}

// readCSV streams one CSV file row by row, mapping each row onto its
// header columns and applying parse. Rows that fail are counted, logged
// up to a cap, and skipped.
func readCSV(path string, logger zerolog.Logger, parse func(map[string]string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("file not found: %s", path)
	}
	defer func() { _ = file.Close() }()

	reader := csv.NewReader(file)
	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("failed to read header of %s: %w", path, err)
	}

	rowErrors := 0
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("failed to read %s line %d: %w", path, line, err)
		}

		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			}
		}

		if err := parse(row); err != nil {
			rowErrors++
			if rowErrors <= maxReportedErrors {
				logger.Warn().
					Str("file", filepath.Base(path)).
					Int("line", line).
					Err(err).
					Msg("skipping invalid row")
			}
			continue
		}
	}

	if rowErrors > maxReportedErrors {
		logger.Warn().
			Str("file", filepath.Base(path)).
			Int("total_invalid", rowErrors).
			Msg("additional invalid rows were skipped")
	}
	return nil
}
