package core

import (
	"context"
	"fmt"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

// Detector finds candidate losses in the aggregated statistics.
type Detector interface {
	Detect(ctx context.Context, cfg *contract.Config, log *schema.EventLog, stats *schema.StatBundle) ([]schema.DetectedLoss, error)
}

// Analyzer classifies each loss and attaches a root-cause chain and cost.
type Analyzer interface {
	Analyze(ctx context.Context, cfg *contract.Config, losses []schema.DetectedLoss) ([]schema.Analysis, error)
}

// Recommender turns the analyses into a prioritized action list.
type Recommender interface {
	Recommend(ctx context.Context, cfg *contract.Config, analyses []schema.Analysis) ([]schema.Recommendation, error)
}

// Heuristic strategy implementations. These are total: given valid
// input they always produce output, so they serve as the fallback for
// every stage.
type (
	heuristicDetector    struct{}
	heuristicAnalyzer    struct{}
	heuristicRecommender struct{}
)

func (heuristicDetector) Detect(_ context.Context, cfg *contract.Config, log *schema.EventLog, stats *schema.StatBundle) ([]schema.DetectedLoss, error) {
	return detectLosses(cfg, log, stats), nil
}

func (heuristicAnalyzer) Analyze(_ context.Context, cfg *contract.Config, losses []schema.DetectedLoss) ([]schema.Analysis, error) {
	analyses := make([]schema.Analysis, 0, len(losses))
	for i := range losses {
		analysis, err := analyzeLoss(cfg, &losses[i])
		if err != nil {
			return nil, err
		}
		analyses = append(analyses, analysis)
	}
	return analyses, nil
}

func (heuristicRecommender) Recommend(_ context.Context, cfg *contract.Config, analyses []schema.Analysis) ([]schema.Recommendation, error) {
	return recommendActions(cfg, analyses), nil
}

// validateLosses enforces the detector output contract: unique IDs,
// valid severities, confidence within [0,1], no negative durations.
func validateLosses(losses []schema.DetectedLoss) error {
	seen := make(map[string]struct{}, len(losses))
	for i := range losses {
		l := &losses[i]
		if l.LossID == "" {
			return fmt.Errorf("loss at index %d has no ID", i)
		}
		if _, dup := seen[l.LossID]; dup {
			return fmt.Errorf("duplicate loss ID %s", l.LossID)
		}
		seen[l.LossID] = struct{}{}

		if !l.Severity.Valid() {
			return fmt.Errorf("loss %s: invalid severity %q", l.LossID, l.Severity)
		}
		if l.ConfidenceScore < 0 || l.ConfidenceScore > 1 {
			return fmt.Errorf("loss %s: confidence %.2f out of range [0,1]", l.LossID, l.ConfidenceScore)
		}
		if l.TotalHours < 0 {
			return fmt.Errorf("loss %s: negative duration %.2fh", l.LossID, l.TotalHours)
		}
		if l.CategoryHint != "" {
			if _, ok := schema.ValidWasteCategories[l.CategoryHint]; !ok {
				return fmt.Errorf("loss %s: unknown category hint %q", l.LossID, l.CategoryHint)
			}
		}
	}
	return nil
}

// validateAnalyses enforces the analyzer output contract regardless of
// which strategy produced it: exactly one analysis per loss, known
// categories, well-formed causal chains, non-negative costs.
func validateAnalyses(losses []schema.DetectedLoss, analyses []schema.Analysis) error {
	if len(analyses) != len(losses) {
		return fmt.Errorf("analyzer returned %d analyses for %d losses", len(analyses), len(losses))
	}

	byLoss := make(map[string]struct{}, len(analyses))
	for i := range analyses {
		a := &analyses[i]
		if _, dup := byLoss[a.LossID]; dup {
			return fmt.Errorf("duplicate analysis for loss %s", a.LossID)
		}
		byLoss[a.LossID] = struct{}{}

		if _, ok := schema.ValidWasteCategories[a.Category]; !ok {
			return fmt.Errorf("loss %s: unknown waste category %q", a.LossID, a.Category)
		}
		if !a.Severity.Valid() {
			return fmt.Errorf("loss %s: invalid severity %q", a.LossID, a.Severity)
		}
		if a.EstimatedCostEUR < 0 {
			return fmt.Errorf("loss %s: negative estimated cost %.2f", a.LossID, a.EstimatedCostEUR)
		}
		if err := validateCausalChain(a); err != nil {
			return fmt.Errorf("loss %s: %w", a.LossID, err)
		}
	}

	for i := range losses {
		if _, ok := byLoss[losses[i].LossID]; !ok {
			return fmt.Errorf("no analysis for loss %s", losses[i].LossID)
		}
	}
	return nil
}

// validateCausalChain checks the 5 Whys structure: levels strictly
// increasing from 1, depth capped, root cause matching the deepest step.
func validateCausalChain(a *schema.Analysis) error {
	if len(a.Causes) == 0 {
		return fmt.Errorf("empty causal chain")
	}
	if len(a.Causes) > schema.MaxCausalDepth {
		return fmt.Errorf("causal chain depth %d exceeds %d", len(a.Causes), schema.MaxCausalDepth)
	}
	for i, step := range a.Causes {
		if step.Level != i+1 {
			return fmt.Errorf("causal level %d at position %d, want %d", step.Level, i, i+1)
		}
		if step.Cause == "" {
			return fmt.Errorf("empty cause at level %d", step.Level)
		}
	}
	if a.RootCause != a.Causes[len(a.Causes)-1].Cause {
		return fmt.Errorf("root cause does not match deepest causal step")
	}
	return nil
}

// validateRecommendations enforces the recommender output contract:
// at least one action per analyzed loss, dense priorities, known loss
// references, non-negative gains.
func validateRecommendations(analyses []schema.Analysis, recs []schema.Recommendation) error {
	if len(analyses) > 0 && len(recs) == 0 {
		return fmt.Errorf("recommender returned no actions for %d analyses", len(analyses))
	}

	known := make(map[string]bool, len(analyses))
	for i := range analyses {
		known[analyses[i].LossID] = false
	}

	seen := make(map[int]struct{}, len(recs))
	for i := range recs {
		r := &recs[i]
		if _, ok := known[r.LossID]; !ok {
			return fmt.Errorf("recommendation %s references unknown loss %s", r.RecommendationID, r.LossID)
		}
		known[r.LossID] = true

		if r.EstimatedGainEUR < 0 {
			return fmt.Errorf("recommendation %s: negative gain %.2f", r.RecommendationID, r.EstimatedGainEUR)
		}
		if r.Priority < 1 || r.Priority > len(recs) {
			return fmt.Errorf("recommendation %s: priority %d out of range 1..%d", r.RecommendationID, r.Priority, len(recs))
		}
		if _, dup := seen[r.Priority]; dup {
			return fmt.Errorf("duplicate priority %d", r.Priority)
		}
		seen[r.Priority] = struct{}{}
	}

	for lossID, covered := range known {
		if !covered {
			return fmt.Errorf("no recommendation covers loss %s", lossID)
		}
	}
	return nil
}
