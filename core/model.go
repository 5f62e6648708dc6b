package core

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

// Model-backed strategies. Each stage sends its input as JSON with a
// fixed system prompt, parses the completion as strict JSON, and
// validates the result against the same contract the heuristic strategy
// honors. Any failure (transport, parse, validation) is returned to the
// orchestrator, which falls back to the heuristic strategy for that
// stage only.

const detectSystemPrompt = `You are a lean manufacturing analyst. You receive aggregated production
statistics and a sample of raw event descriptions as JSON. Identify
hidden losses (TIMWOODS wastes) supported by the data. Respond with ONLY
a JSON object of the form
{"losses": [{"title": "...", "description": "...", "category_hint": "",
"frequency": 0, "total_duration_hours": 0.0, "severity": "low|medium|high|critical",
"confidence_score": 0.0, "affected_machines": [], "affected_lines": [],
"source_events": []}]}.
category_hint must be one of Transport, Inventory, Motion, Waiting,
OverProcessing, OverProduction, Defects, Skills, or empty. Do not invent
machines that are not in the input. No prose, no markdown fences.`

const analyzeSystemPrompt = `You are a lean manufacturing analyst. You receive detected losses as
JSON. For each loss, classify it into exactly one TIMWOODS category,
build a 5 Whys causal chain (up to 5 levels, level 1 restating the
observed problem, the last level being the root cause), and estimate its
cost in EUR using the hourly rates provided. Respond with ONLY a JSON
object of the form
{"analyses": [{"loss_id": "...", "category": "...", "justification": "...",
"causes": [{"level": 1, "cause": "..."}], "root_cause": "...",
"contributing_factors": [], "estimated_cost_eur": 0.0}]}.
Return exactly one analysis per input loss, preserving loss_id. No prose,
no markdown fences.`

const recommendSystemPrompt = `You are a lean manufacturing consultant. You receive analyzed losses as
JSON. Propose one or two concrete improvement actions per loss. Respond
with ONLY a JSON object of the form
{"recommendations": [{"loss_id": "...", "title": "...", "description": "...",
"estimated_gain_eur": 0.0, "implementation_effort": "low|medium|high",
"timeline_weeks": 0, "responsible_department": "..."}]}.
Every loss must get at least one action. No prose, no markdown fences.`

type (
	modelDetector    struct{ client contract.ModelClient }
	modelAnalyzer    struct{ client contract.ModelClient }
	modelRecommender struct{ client contract.ModelClient }
)

// completeJSON runs one round trip: marshal the stage input, complete,
// decode the completion into out.
func completeJSON(ctx context.Context, client contract.ModelClient, system string, in, out any) error {
	prompt, err := json.Marshal(in)
	if err != nil {
		return fmt.Errorf("encode prompt: %w", err)
	}
	text, err := client.Complete(ctx, system, string(prompt))
	if err != nil {
		return err
	}
	return DecodeCompletion(text, out)
}

// NewModelDetector returns a Detector backed by a completion client.
func NewModelDetector(client contract.ModelClient) Detector { return modelDetector{client} }

// NewModelAnalyzer returns an Analyzer backed by a completion client.
func NewModelAnalyzer(client contract.ModelClient) Analyzer { return modelAnalyzer{client} }

// NewModelRecommender returns a Recommender backed by a completion client.
func NewModelRecommender(client contract.ModelClient) Recommender { return modelRecommender{client} }

// maxPromptSamples bounds how many raw descriptions each event stream
// contributes to the detect prompt.
const maxPromptSamples = 20

// eventSample is one raw event description shown to the model alongside
// the aggregated statistics.
type eventSample struct {
	MachineID   string `json:"machine_id"`
	Description string `json:"description"`
}

// sampleEventLog extracts a bounded sample of raw descriptions from each
// event stream. Normal production cycles are skipped; they carry no loss
// vocabulary.
func sampleEventLog(log *schema.EventLog) (production, quality, incidents []eventSample) {
	for _, ev := range log.Production {
		if len(production) == maxPromptSamples {
			break
		}
		if ev.EventType == schema.NormalEvent {
			continue
		}
		production = append(production, eventSample{ev.MachineID, ev.Description})
	}
	for _, ev := range log.Quality {
		if len(quality) == maxPromptSamples {
			break
		}
		quality = append(quality, eventSample{ev.MachineID, ev.Description})
	}
	for _, ev := range log.Incidents {
		if len(incidents) == maxPromptSamples {
			break
		}
		incidents = append(incidents, eventSample{
			MachineID:   ev.MachineID,
			Description: fmt.Sprintf("%s (root cause: %s)", ev.Description, ev.RootCause),
		})
	}
	return production, quality, incidents
}

func (d modelDetector) Detect(ctx context.Context, cfg *contract.Config, log *schema.EventLog, stats *schema.StatBundle) ([]schema.DetectedLoss, error) {
	production, quality, incidents := sampleEventLog(log)
	input := struct {
		Thresholds        map[string]float64 `json:"thresholds"`
		Stats             *schema.StatBundle `json:"stats"`
		ProductionSamples []eventSample      `json:"production_events"`
		QualitySamples    []eventSample      `json:"quality_events"`
		IncidentSamples   []eventSample      `json:"incident_events"`
	}{
		Thresholds: map[string]float64{
			"micro_stop_count":  float64(cfg.MicroStopCount),
			"downtime_hours":    cfg.DowntimeHours,
			"defect_count":      float64(cfg.DefectCount),
			"over_control":      float64(cfg.OverControlCount),
			"night_shift_hours": cfg.NightShiftHours,
		},
		Stats:             stats,
		ProductionSamples: production,
		QualitySamples:    quality,
		IncidentSamples:   incidents,
	}

	var out struct {
		Losses []schema.DetectedLoss `json:"losses"`
	}
	if err := completeJSON(ctx, d.client, detectSystemPrompt, input, &out); err != nil {
		return nil, fmt.Errorf("model detect: %w", err)
	}

	// IDs are assigned locally so they stay sequential and deterministic
	// regardless of what the completion contained.
	for i := range out.Losses {
		out.Losses[i].LossID = fmt.Sprintf("LOSS-%03d", i+1)
	}
	if err := validateLosses(out.Losses); err != nil {
		return nil, fmt.Errorf("model detect: %w", err)
	}
	return out.Losses, nil
}

func (a modelAnalyzer) Analyze(ctx context.Context, cfg *contract.Config, losses []schema.DetectedLoss) ([]schema.Analysis, error) {
	input := struct {
		MachineHourlyRate float64               `json:"machine_hourly_rate_eur"`
		LaborHourlyRate   float64               `json:"labor_hourly_rate_eur"`
		Losses            []schema.DetectedLoss `json:"losses"`
	}{cfg.MachineHourlyRate, cfg.LaborHourlyRate, losses}

	var out struct {
		Analyses []schema.Analysis `json:"analyses"`
	}
	if err := completeJSON(ctx, a.client, analyzeSystemPrompt, input, &out); err != nil {
		return nil, fmt.Errorf("model analyze: %w", err)
	}

	for i := range out.Analyses {
		an := &out.Analyses[i]
		an.Method = schema.RootCauseMethod
		an.EstimatedCostEUR = round2(an.EstimatedCostEUR)
		// The model does not see the severity contract; carry it over
		// from the loss it analyzed.
		for j := range losses {
			if losses[j].LossID == an.LossID {
				an.Severity = losses[j].Severity
				break
			}
		}
	}
	if err := validateAnalyses(losses, out.Analyses); err != nil {
		return nil, fmt.Errorf("model analyze: %w", err)
	}
	return out.Analyses, nil
}

func (r modelRecommender) Recommend(ctx context.Context, cfg *contract.Config, analyses []schema.Analysis) ([]schema.Recommendation, error) {
	input := struct {
		QuickWinGainEUR float64           `json:"quick_win_gain_eur"`
		Analyses        []schema.Analysis `json:"analyses"`
	}{cfg.QuickWinGainEUR, analyses}

	var out struct {
		Recommendations []schema.Recommendation `json:"recommendations"`
	}
	if err := completeJSON(ctx, r.client, recommendSystemPrompt, input, &out); err != nil {
		return nil, fmt.Errorf("model recommend: %w", err)
	}

	for i := range out.Recommendations {
		rec := &out.Recommendations[i]
		rec.RecommendationID = fmt.Sprintf("REC-%03d", i+1)
		rec.EstimatedGainEUR = round2(rec.EstimatedGainEUR)
		rec.QuickWin = rec.Effort == schema.LowEffort && rec.EstimatedGainEUR > cfg.QuickWinGainEUR
	}

	// Ranking stays local: the composite priority rule is part of the
	// output contract, not something delegated to the model.
	rankRecommendations(out.Recommendations, analyses)

	if err := validateRecommendations(analyses, out.Recommendations); err != nil {
		return nil, fmt.Errorf("model recommend: %w", err)
	}
	return out.Recommendations, nil
}

// DecodeCompletion parses a completion into out, tolerating the markdown
// code fences some models wrap around JSON despite instructions.
func DecodeCompletion(text string, out any) error {
	text = strings.TrimSpace(text)
	if after, ok := strings.CutPrefix(text, "```json"); ok {
		text = after
	} else if after, ok := strings.CutPrefix(text, "```"); ok {
		text = after
	}
	text = strings.TrimSuffix(strings.TrimSpace(text), "```")

	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), out); err != nil {
		return fmt.Errorf("completion is not valid JSON: %w", err)
	}
	return nil
}
