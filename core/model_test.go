package core

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leanlens/leanlens/schema"
)

// recordingModelClient captures the last request so tests can inspect
// what a stage actually sent.
type recordingModelClient struct {
	system   string
	prompt   string
	response string
}

func (c *recordingModelClient) Complete(_ context.Context, system, prompt string) (string, error) {
	c.system = system
	c.prompt = prompt
	return c.response, nil
}

func TestDecodeCompletion(t *testing.T) {
	type payload struct {
		Value int `json:"value"`
	}

	tests := []struct {
		name string
		text string
	}{
		{"plain JSON", `{"value": 7}`},
		{"json fence", "```json\n{\"value\": 7}\n```"},
		{"bare fence", "```\n{\"value\": 7}\n```"},
		{"surrounding whitespace", "  \n{\"value\": 7}\n  "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out payload
			require.NoError(t, DecodeCompletion(tt.text, &out))
			assert.Equal(t, 7, out.Value)
		})
	}

	t.Run("prose is rejected", func(t *testing.T) {
		var out payload
		err := DecodeCompletion("Here is your analysis:", &out)
		assert.ErrorContains(t, err, "not valid JSON")
	})
}

func TestModelDetector_RejectsInvalidOutput(t *testing.T) {
	cfg := testConfig()
	stats := aggregateEvents(cfg, &schema.EventLog{})

	t.Run("unknown category hint", func(t *testing.T) {
		client := &fakeModelClient{responses: map[string]string{
			detectSystemPrompt: `{"losses": [{
				"title": "x", "description": "x", "category_hint": "Shrinkage",
				"severity": "high", "confidence_score": 0.5
			}]}`,
		}}
		_, err := NewModelDetector(client).Detect(context.Background(), cfg, &schema.EventLog{}, stats)
		assert.ErrorContains(t, err, "unknown category hint")
	})

	t.Run("confidence out of range", func(t *testing.T) {
		client := &fakeModelClient{responses: map[string]string{
			detectSystemPrompt: `{"losses": [{
				"title": "x", "description": "x",
				"severity": "high", "confidence_score": 2.0
			}]}`,
		}}
		_, err := NewModelDetector(client).Detect(context.Background(), cfg, &schema.EventLog{}, stats)
		assert.ErrorContains(t, err, "out of range")
	})
}

func TestModelDetector_SendsEventSamples(t *testing.T) {
	cfg := testConfig()

	log := &schema.EventLog{}
	for i := 0; i < maxPromptSamples+5; i++ {
		log.Production = append(log.Production, schema.ProductionEvent{
			MachineID:   "CNC-01",
			EventType:   schema.MicroStopEvent,
			Description: fmt.Sprintf("arrêt capteur %d", i),
		})
	}
	log.Production = append(log.Production, schema.ProductionEvent{
		MachineID:   "CNC-01",
		EventType:   schema.NormalEvent,
		Description: "cycle nominal",
	})
	log.Quality = append(log.Quality, schema.QualityEvent{
		MachineID:   "CNC-01",
		DefectType:  schema.ScrapDefect,
		Description: "rebut dimensionnel",
	})
	log.Incidents = append(log.Incidents, schema.IncidentEvent{
		MachineID:   "PRESS-01",
		Description: "panne hydraulique",
		RootCause:   "joint usé",
	})
	stats := aggregateEvents(cfg, log)

	client := &recordingModelClient{response: `{"losses": []}`}
	_, err := NewModelDetector(client).Detect(context.Background(), cfg, log, stats)
	require.NoError(t, err)
	require.Equal(t, detectSystemPrompt, client.system)

	var sent struct {
		Production []eventSample `json:"production_events"`
		Quality    []eventSample `json:"quality_events"`
		Incidents  []eventSample `json:"incident_events"`
	}
	require.NoError(t, json.Unmarshal([]byte(client.prompt), &sent))

	// Sampling is bounded, skips normal cycles, and carries incident
	// root causes alongside the description.
	assert.Len(t, sent.Production, maxPromptSamples)
	assert.NotContains(t, client.prompt, "cycle nominal")
	require.Len(t, sent.Quality, 1)
	assert.Equal(t, "rebut dimensionnel", sent.Quality[0].Description)
	require.Len(t, sent.Incidents, 1)
	assert.Equal(t, "panne hydraulique (root cause: joint usé)", sent.Incidents[0].Description)
}

func TestModelAnalyzer_RejectsCountMismatch(t *testing.T) {
	cfg := testConfig()
	losses := []schema.DetectedLoss{validLoss("LOSS-001"), validLoss("LOSS-002")}

	client := &fakeModelClient{responses: map[string]string{
		analyzeSystemPrompt: `{"analyses": [{
			"loss_id": "LOSS-001", "category": "Waiting", "justification": "x",
			"causes": [{"level": 1, "cause": "a"}], "root_cause": "a",
			"estimated_cost_eur": 10.0
		}]}`,
	}}

	_, err := NewModelAnalyzer(client).Analyze(context.Background(), cfg, losses)
	assert.ErrorContains(t, err, "1 analyses for 2 losses")
}

func TestModelRecommender_RanksLocally(t *testing.T) {
	cfg := testConfig()
	analyses := []schema.Analysis{
		func() schema.Analysis {
			a := validAnalysis("LOSS-001")
			a.Severity = schema.MediumSeverity
			return a
		}(),
		func() schema.Analysis {
			a := validAnalysis("LOSS-002")
			a.Severity = schema.CriticalSeverity
			return a
		}(),
	}

	// The completion lists the weak action first; local ranking must put
	// the critical loss's action at priority 1 regardless.
	client := &fakeModelClient{responses: map[string]string{
		recommendSystemPrompt: `{"recommendations": [
			{"loss_id": "LOSS-001", "title": "minor fix", "description": "x",
			 "estimated_gain_eur": 100.0, "implementation_effort": "high", "timeline_weeks": 12,
			 "responsible_department": "Production"},
			{"loss_id": "LOSS-002", "title": "major fix", "description": "x",
			 "estimated_gain_eur": 2000.0, "implementation_effort": "low", "timeline_weeks": 4,
			 "responsible_department": "Maintenance"}
		]}`,
	}}

	recs, err := NewModelRecommender(client).Recommend(context.Background(), cfg, analyses)
	require.NoError(t, err)
	require.Len(t, recs, 2)

	assert.Equal(t, 1, recs[0].Priority)
	assert.Equal(t, "LOSS-002", recs[0].LossID)
	assert.True(t, recs[0].QuickWin) // low effort, 2000 > 1000
	assert.Equal(t, 2, recs[1].Priority)
	assert.False(t, recs[1].QuickWin)
}
