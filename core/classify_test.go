package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanlens/leanlens/schema"
)

func TestClassifyLoss_HintWins(t *testing.T) {
	loss := &schema.DetectedLoss{
		CategoryHint: schema.Defects,
		// Text that would otherwise match the Waiting keywords.
		Title:       "Frequent micro-stops on CNC-01",
		Description: "attente prolongée",
	}

	category, fallback := classifyLoss(loss)
	assert.Equal(t, schema.Defects, category)
	assert.False(t, fallback)
}

func TestClassifyLoss_KeywordTable(t *testing.T) {
	tests := []struct {
		name string
		text string
		want schema.WasteCategory
	}{
		{"french scrap", "Rebut dimensionnel sur pièce usinée", schema.Defects},
		{"english downtime", "High cumulative downtime on PRESS-01", schema.Waiting},
		{"french waiting", "Attente pièce amont", schema.Waiting},
		{"inventory", "Stock excessif en zone tampon", schema.Inventory},
		{"transport", "Manutention répétée entre ateliers", schema.Transport},
		{"motion", "Geste répétitif au poste d'assemblage", schema.Motion},
		{"overproduction", "Surproduction sur la ligne 2", schema.OverProduction},
		{"skills", "Écart de performance équipe de nuit", schema.Skills},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loss := &schema.DetectedLoss{Title: tt.text}
			category, fallback := classifyLoss(loss)
			assert.Equal(t, tt.want, category)
			assert.False(t, fallback)
		})
	}
}

func TestClassifyLoss_FirstMatchWins(t *testing.T) {
	// Both "arrêt" (Waiting) and "rebut" (Defects) appear; Waiting is
	// earlier in the table.
	loss := &schema.DetectedLoss{Title: "Arrêt suite rebut"}
	category, fallback := classifyLoss(loss)
	assert.Equal(t, schema.Waiting, category)
	assert.False(t, fallback)
}

func TestClassifyLoss_Fallback(t *testing.T) {
	loss := &schema.DetectedLoss{Title: "Phénomène inexpliqué", Description: "aucun détail"}
	category, fallback := classifyLoss(loss)
	assert.Equal(t, schema.Waiting, category)
	assert.True(t, fallback)
}

func TestAnalyzeLoss_Heuristic(t *testing.T) {
	cfg := testConfig()
	loss := &schema.DetectedLoss{
		LossID:           "LOSS-001",
		Title:            "Frequent micro-stops on CNC-01",
		CategoryHint:     schema.Waiting,
		Frequency:        45,
		TotalHours:       2.25,
		Severity:         schema.HighSeverity,
		ConfidenceScore:  0.75,
		AffectedMachines: []string{"CNC-01"},
	}

	analysis, err := analyzeLoss(cfg, loss)
	require.NoError(t, err)

	assert.Equal(t, "LOSS-001", analysis.LossID)
	assert.Equal(t, schema.Waiting, analysis.Category)
	assert.Equal(t, schema.RootCauseMethod, analysis.Method)
	assert.False(t, analysis.DefaultCategory)
	assert.Equal(t, justifications[schema.Waiting], analysis.Justification)
	assert.Equal(t, schema.HighSeverity, analysis.Severity)

	// Waiting is machine-rated: 2.25h * 150 EUR/h.
	assert.InDelta(t, 337.5, analysis.EstimatedCostEUR, 1e-9)

	require.Len(t, analysis.Causes, 5)
	assert.Equal(t, 1, analysis.Causes[0].Level)
	assert.Contains(t, analysis.Causes[0].Cause, "CNC-01")
	assert.Contains(t, analysis.Causes[0].Cause, "45")
	assert.Equal(t, 5, analysis.Causes[4].Level)
	assert.Equal(t, analysis.Causes[4].Cause, analysis.RootCause)
	assert.NotEmpty(t, analysis.ContributingFactors)
}

func TestAnalyzeLoss_NightShiftIsSkills(t *testing.T) {
	cfg := testConfig()
	events := &schema.EventLog{
		Production: append(
			stoppages("CNC-01", "LINE-1", 5, 40.0, schema.NightShift),
			stoppages("PRESS-01", "LINE-2", 5, 40.0, schema.NightShift)...,
		),
	}
	stats := aggregateEvents(cfg, events)

	losses := detectLosses(cfg, events, stats)
	require.Len(t, losses, 1)
	loss := &losses[0]
	require.Empty(t, loss.CategoryHint)

	analysis, err := analyzeLoss(cfg, loss)
	require.NoError(t, err)

	// The shift vocabulary must classify this as Skills, not get shadowed
	// by the Waiting keywords earlier in the table.
	assert.Equal(t, schema.Skills, analysis.Category)
	assert.False(t, analysis.DefaultCategory)
	assert.Equal(t, justifications[schema.Skills], analysis.Justification)

	// Skills is labor-rated: 10 stops * 40min = 6.67h at 50 EUR/h.
	assert.InDelta(t, loss.TotalHours*cfg.LaborHourlyRate, analysis.EstimatedCostEUR, 0.01)
}

func TestAnalyzeLoss_LaborRateCategories(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		category schema.WasteCategory
		rate     float64
	}{
		{schema.Motion, cfg.LaborHourlyRate},
		{schema.OverProcessing, cfg.LaborHourlyRate},
		{schema.Skills, cfg.LaborHourlyRate},
		{schema.Waiting, cfg.MachineHourlyRate},
		{schema.Defects, cfg.MachineHourlyRate},
		{schema.Transport, cfg.MachineHourlyRate},
	}

	for _, tt := range tests {
		loss := &schema.DetectedLoss{
			LossID:       "LOSS-001",
			CategoryHint: tt.category,
			TotalHours:   4.0,
			Severity:     schema.MediumSeverity,
		}
		analysis, err := analyzeLoss(cfg, loss)
		require.NoError(t, err)
		assert.InDelta(t, 4.0*tt.rate, analysis.EstimatedCostEUR, 1e-9, "category %s", tt.category)
	}
}

func TestAnalyzeLoss_FallbackJustification(t *testing.T) {
	cfg := testConfig()
	loss := &schema.DetectedLoss{
		LossID:     "LOSS-001",
		Title:      "Phénomène inexpliqué",
		TotalHours: 1.0,
		Severity:   schema.MediumSeverity,
	}

	analysis, err := analyzeLoss(cfg, loss)
	require.NoError(t, err)
	assert.True(t, analysis.DefaultCategory)
	assert.Equal(t, fallbackJustification, analysis.Justification)
	assert.Equal(t, schema.Waiting, analysis.Category)
}

func TestAnalyzeLoss_InvariantViolations(t *testing.T) {
	cfg := testConfig()

	t.Run("invalid severity", func(t *testing.T) {
		loss := &schema.DetectedLoss{LossID: "LOSS-001", Severity: "extreme"}
		_, err := analyzeLoss(cfg, loss)
		assert.ErrorContains(t, err, "invalid severity")
	})

	t.Run("negative duration", func(t *testing.T) {
		loss := &schema.DetectedLoss{LossID: "LOSS-001", Severity: schema.LowSeverity, TotalHours: -1}
		_, err := analyzeLoss(cfg, loss)
		assert.ErrorContains(t, err, "negative duration")
	})

	t.Run("zero duration costs zero", func(t *testing.T) {
		loss := &schema.DetectedLoss{LossID: "LOSS-001", Severity: schema.LowSeverity, TotalHours: 0}
		analysis, err := analyzeLoss(cfg, loss)
		require.NoError(t, err)
		assert.Zero(t, analysis.EstimatedCostEUR)
	})
}

func TestCausalChain_EveryCategoryCovered(t *testing.T) {
	loss := &schema.DetectedLoss{
		AffectedMachines: []string{"CNC-01"},
		Frequency:        10,
	}
	for _, cat := range schema.AllWasteCategories {
		causes := causalChain(cat, loss)
		require.Len(t, causes, schema.MaxCausalDepth, "category %s", cat)
		for i, step := range causes {
			assert.Equal(t, i+1, step.Level)
			assert.NotEmpty(t, step.Cause)
		}
	}
}

func TestLossScope(t *testing.T) {
	assert.Equal(t, "the plant", lossScope(&schema.DetectedLoss{}))
	assert.Equal(t, "CNC-01", lossScope(&schema.DetectedLoss{AffectedMachines: []string{"CNC-01"}}))
	assert.Equal(t, "CNC-01, PRESS-01", lossScope(&schema.DetectedLoss{AffectedMachines: []string{"CNC-01", "PRESS-01"}}))
}
