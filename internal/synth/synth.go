// Package synth generates deterministic synthetic event datasets for
// demos and tests. The generator seeds known anomalies into otherwise
// unremarkable background activity: a micro-stop-heavy machine, a machine
// with heavy cumulative downtime, a scrap cluster, an over-control burst
// and recurring night shift stoppages.
package synth

import (
	"encoding/csv"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/leanlens/leanlens/internal/loader"
	"github.com/leanlens/leanlens/schema"
)

// Plant layout used by the generator.
var (
	machines = []string{"CNC-01", "CNC-02", "PRESS-01", "PRESS-02", "ASSEMBLY-01"}

	machineLines = map[string]string{
		"CNC-01": "L1", "CNC-02": "L1",
		"PRESS-01": "L2", "PRESS-02": "L2",
		"ASSEMBLY-01": "L3",
	}
)

// Seeded anomaly targets. Each is sized to clear its detection threshold
// with margin so a default-config run always finds them.
const (
	microStopMachine = "CNC-01"
	microStopEvents  = 45

	downtimeMachine = "PRESS-01"
	downtimeEvents  = 8 // long stops, ~75 min each

	scrapMachine = "CNC-01"
	scrapEvents  = 12 // 3-5 pieces each

	overControlMachine = "ASSEMBLY-01"
	overControlEvents  = 9 // 2-3 inspections each

	nightStopEvents = 10 // ~40 min each across machines
)

// Event description pools. Shop floor logs at this plant are written in
// French; the classifier's keyword table covers both languages.
var (
	microStopDescriptions = []string{
		"Bourrage convoyeur",
		"Capteur position défaillant",
		"Ajustement outil mineur",
		"Attente pièce suivante",
		"Nettoyage zone de travail",
	}
	stopDescriptions = []string{
		"Changement de série",
		"Attente approvisionnement matière",
		"Maintenance corrective",
		"Panne électrique",
		"Attente validation qualité",
	}
	slowdownDescriptions = []string{
		"Cadence réduite usure outil",
		"Refroidissement insuffisant",
		"Pression hydraulique faible",
	}
	normalDescriptions = []string{
		"Production normale",
		"Cycle standard",
		"Fonctionnement optimal",
	}
	scrapDescriptions = []string{
		"Dimension hors tolérance",
		"Rayure surface critique",
		"Fissure détectée",
	}
	reworkDescriptions = []string{
		"Ébavurage nécessaire",
		"Reprise usinage",
		"Ajustement dimensionnel",
	}
	overControlDescriptions = []string{
		"Contrôle 100% lot suspect",
		"Vérification dimensionnelle renforcée",
		"Contrôle redondant qualité",
	}
	nonconformityDescriptions = []string{
		"Déviation procédure assemblage",
		"Paramètre machine hors plage",
	}
	incidentCategories = map[string][]string{
		"mechanical_failure": {"Rupture courroie transmission", "Casse outil usinage", "Fuite huile hydraulique"},
		"electrical_failure": {"Disjonction circuit commande", "Défaut variateur vitesse", "Surchauffe moteur"},
		"quality_issue":      {"Lot non-conforme détecté", "Dérive dimensionnelle progressive"},
		"logistics_issue":    {"Rupture stock matière première", "Retard livraison composant"},
		"operator_error":     {"Erreur réglage paramètres", "Non-respect procédure"},
	}
	incidentRootCauses = map[string][]string{
		"mechanical_failure": {"Manque de lubrification", "Usure normale en fin de vie"},
		"electrical_failure": {"Vieillissement composants", "Surtension réseau"},
		"quality_issue":      {"Dérive paramètres process", "Usure outil de coupe"},
		"logistics_issue":    {"Mauvaise planification", "Défaillance fournisseur"},
		"operator_error":     {"Formation insuffisante", "Procédure peu claire"},
	}
)

// Generator produces the three event CSV files.
type Generator struct {
	rng       *rand.Rand
	outputDir string
	start     time.Time
	days      int
}

// NewGenerator creates a generator. The same seed and start time always
// produce byte-identical files.
func NewGenerator(outputDir string, seed int64, start time.Time, days int) *Generator {
	return &Generator{
		rng:       rand.New(rand.NewSource(seed)),
		outputDir: outputDir,
		start:     start.Truncate(time.Minute),
		days:      days,
	}
}

// GenerateAll writes the three CSV files and returns per-file row counts.
func (g *Generator) GenerateAll(numLogs, numQuality, numIncidents int) (map[string]int, error) {
	if err := os.MkdirAll(g.outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	production := g.generateProduction(numLogs)
	quality := g.generateQuality(numQuality)
	incidents := g.generateIncidents(numIncidents)

	if err := g.writeProduction(production); err != nil {
		return nil, err
	}
	if err := g.writeQuality(quality); err != nil {
		return nil, err
	}
	if err := g.writeIncidents(incidents); err != nil {
		return nil, err
	}

	return map[string]int{
		loader.ProductionFile: len(production),
		loader.QualityFile:    len(quality),
		loader.IncidentFile:   len(incidents),
	}, nil
}

// generateProduction produces background activity plus the seeded
// production anomalies.
func (g *Generator) generateProduction(numLogs int) []schema.ProductionEvent {
	var events []schema.ProductionEvent

	// Background activity over all machines.
	for range numLogs {
		machineID := machines[g.rng.Intn(len(machines))]
		ts := g.dayTimestamp(6, 21)

		var eventType schema.EventType
		var duration float64
		var description string
		switch r := g.rng.Float64(); {
		case r < 0.70:
			eventType = schema.NormalEvent
			duration = g.uniform(15, 60)
			description = pick(g.rng, normalDescriptions)
		case r < 0.85:
			eventType = schema.MicroStopEvent
			duration = g.uniform(1, 4.5)
			description = pick(g.rng, microStopDescriptions)
		case r < 0.95:
			eventType = schema.StopEvent
			duration = g.uniform(6, 40)
			description = pick(g.rng, stopDescriptions)
		default:
			eventType = schema.SlowdownEvent
			duration = g.uniform(30, 120)
			description = pick(g.rng, slowdownDescriptions)
		}

		events = append(events, g.productionEvent(ts, machineID, eventType, duration, description))
	}

	// Anomaly: micro-stop-heavy machine.
	for range microStopEvents {
		ts := g.dayTimestamp(6, 21)
		events = append(events, g.productionEvent(
			ts, microStopMachine, schema.MicroStopEvent, g.uniform(1.5, 4.5),
			pick(g.rng, microStopDescriptions)))
	}

	// Anomaly: heavy cumulative downtime.
	for range downtimeEvents {
		ts := g.dayTimestamp(6, 21)
		events = append(events, g.productionEvent(
			ts, downtimeMachine, schema.StopEvent, g.uniform(60, 90),
			pick(g.rng, stopDescriptions)))
	}

	// Anomaly: recurring night shift stoppages across machines.
	for i := range nightStopEvents {
		ts := g.dayTimestamp(23, 23).Add(time.Duration(g.rng.Intn(120)) * time.Minute)
		machineID := machines[i%len(machines)]
		events = append(events, g.productionEvent(
			ts, machineID, schema.StopEvent, g.uniform(30, 50),
			pick(g.rng, stopDescriptions)))
	}

	sortByTime(events, func(ev schema.ProductionEvent) time.Time { return ev.Timestamp })
	return events
}

func (g *Generator) productionEvent(ts time.Time, machineID string, eventType schema.EventType, duration float64, description string) schema.ProductionEvent {
	return schema.ProductionEvent{
		Timestamp:       ts,
		MachineID:       machineID,
		LineID:          machineLines[machineID],
		EventType:       eventType,
		DurationMinutes: round2(duration),
		Description:     description,
		OperatorID:      fmt.Sprintf("OP%03d", g.rng.Intn(15)+1),
		Shift:           shiftForHour(ts.Hour()),
	}
}

// generateQuality produces background quality records plus the scrap
// cluster and over-control burst.
func (g *Generator) generateQuality(numRecords int) []schema.QualityEvent {
	var events []schema.QualityEvent

	for range numRecords {
		machineID := machines[g.rng.Intn(len(machines))]
		ts := g.dayTimestamp(6, 21)

		var defectType schema.DefectType
		var description string
		switch r := g.rng.Float64(); {
		case r < 0.40:
			defectType = schema.ScrapDefect
			description = pick(g.rng, scrapDescriptions)
		case r < 0.75:
			defectType = schema.ReworkDefect
			description = pick(g.rng, reworkDescriptions)
		case r < 0.90:
			defectType = schema.OverControlDefect
			description = pick(g.rng, overControlDescriptions)
		default:
			defectType = schema.NonconformityDefect
			description = pick(g.rng, nonconformityDescriptions)
		}

		events = append(events, g.qualityEvent(ts, machineID, defectType, g.rng.Intn(2)+1, description))
	}

	// Anomaly: scrap cluster.
	for range scrapEvents {
		ts := g.dayTimestamp(6, 21)
		events = append(events, g.qualityEvent(
			ts, scrapMachine, schema.ScrapDefect, g.rng.Intn(3)+3,
			pick(g.rng, scrapDescriptions)))
	}

	// Anomaly: over-control burst.
	for range overControlEvents {
		ts := g.dayTimestamp(6, 21)
		events = append(events, g.qualityEvent(
			ts, overControlMachine, schema.OverControlDefect, g.rng.Intn(2)+2,
			pick(g.rng, overControlDescriptions)))
	}

	sortByTime(events, func(ev schema.QualityEvent) time.Time { return ev.Timestamp })
	return events
}

func (g *Generator) qualityEvent(ts time.Time, machineID string, defectType schema.DefectType, quantity int, description string) schema.QualityEvent {
	severities := []schema.Severity{
		schema.LowSeverity, schema.MediumSeverity,
		schema.MediumSeverity, schema.HighSeverity,
	}
	return schema.QualityEvent{
		Timestamp:   ts,
		ProductID:   fmt.Sprintf("PROD%04d", g.rng.Intn(9000)+1000),
		DefectType:  defectType,
		Quantity:    quantity,
		Severity:    severities[g.rng.Intn(len(severities))],
		Description: description,
		MachineID:   machineID,
		LineID:      machineLines[machineID],
	}
}

// generateIncidents produces plain background incidents.
func (g *Generator) generateIncidents(numIncidents int) []schema.IncidentEvent {
	categories := make([]string, 0, len(incidentCategories))
	for cat := range incidentCategories {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	var events []schema.IncidentEvent
	for i := range numIncidents {
		machineID := machines[g.rng.Intn(len(machines))]
		category := categories[g.rng.Intn(len(categories))]
		impact := g.rng.Intn(5) + 1

		events = append(events, schema.IncidentEvent{
			Timestamp:       g.dayTimestamp(6, 21),
			IncidentID:      fmt.Sprintf("INC%04d", i+1),
			Category:        category,
			Description:     pick(g.rng, incidentCategories[category]),
			ImpactLevel:     impact,
			ResolutionHours: round2(g.uniform(0.5, float64(impact)*6)),
			RootCause:       pick(g.rng, incidentRootCauses[category]),
			MachineID:       machineID,
			LineID:          machineLines[machineID],
		})
	}

	sortByTime(events, func(ev schema.IncidentEvent) time.Time { return ev.Timestamp })
	return events
}

func (g *Generator) writeProduction(events []schema.ProductionEvent) error {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			ev.Timestamp.Format(time.RFC3339),
			ev.MachineID,
			string(ev.EventType),
			strconv.FormatFloat(ev.DurationMinutes, 'f', 2, 64),
			ev.Description,
			ev.LineID,
			ev.OperatorID,
			string(ev.Shift),
		})
	}
	header := []string{"timestamp", "machine_id", "event_type", "duration_minutes", "description", "line_id", "operator_id", "shift"}
	return g.writeCSV(loader.ProductionFile, header, rows)
}

func (g *Generator) writeQuality(events []schema.QualityEvent) error {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			ev.Timestamp.Format(time.RFC3339),
			ev.ProductID,
			string(ev.DefectType),
			strconv.Itoa(ev.Quantity),
			string(ev.Severity),
			ev.Description,
			ev.MachineID,
			ev.LineID,
		})
	}
	header := []string{"timestamp", "product_id", "defect_type", "quantity", "severity", "description", "machine_id", "line_id"}
	return g.writeCSV(loader.QualityFile, header, rows)
}

func (g *Generator) writeIncidents(events []schema.IncidentEvent) error {
	rows := make([][]string, 0, len(events))
	for _, ev := range events {
		rows = append(rows, []string{
			ev.Timestamp.Format(time.RFC3339),
			ev.IncidentID,
			ev.Category,
			ev.Description,
			strconv.Itoa(ev.ImpactLevel),
			strconv.FormatFloat(ev.ResolutionHours, 'f', 1, 64),
			ev.RootCause,
			ev.MachineID,
			ev.LineID,
		})
	}
	header := []string{"timestamp", "incident_id", "category", "description", "impact_level", "resolution_time_hours", "root_cause", "machine_id", "line_id"}
	return g.writeCSV(loader.IncidentFile, header, rows)
}

func (g *Generator) writeCSV(filename string, header []string, rows [][]string) error {
	path := filepath.Join(g.outputDir, filename)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write header of %s: %w", path, err)
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write rows of %s: %w", path, err)
	}
	writer.Flush()
	return writer.Error()
}

// dayTimestamp returns a random timestamp within the period at an hour
// between minHour and maxHour inclusive.
func (g *Generator) dayTimestamp(minHour, maxHour int) time.Time {
	day := g.rng.Intn(g.days)
	hour := minHour
	if maxHour > minHour {
		hour += g.rng.Intn(maxHour - minHour + 1)
	}
	minute := g.rng.Intn(60)
	return g.start.AddDate(0, 0, day).
		Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func (g *Generator) uniform(lo, hi float64) float64 {
	return lo + g.rng.Float64()*(hi-lo)
}

func shiftForHour(hour int) schema.Shift {
	switch {
	case hour >= 6 && hour < 14:
		return schema.MorningShift
	case hour >= 14 && hour < 22:
		return schema.AfternoonShift
	default:
		return schema.NightShift
	}
}

func pick(rng *rand.Rand, options []string) string {
	return options[rng.Intn(len(options))]
}

func sortByTime[T any](items []T, at func(T) time.Time) {
	sort.SliceStable(items, func(i, j int) bool {
		return at(items[i]).Before(at(items[j]))
	})
}

func round2(v float64) float64 {
	return float64(int(v*100+0.5)) / 100
}
