package core

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/leanlens/leanlens/schema"
)

func validLoss(id string) schema.DetectedLoss {
	return schema.DetectedLoss{
		LossID:          id,
		Title:           "Frequent micro-stops on CNC-01",
		CategoryHint:    schema.Waiting,
		Frequency:       45,
		TotalHours:      2.25,
		Severity:        schema.HighSeverity,
		ConfidenceScore: 0.75,
	}
}

func validAnalysis(lossID string) schema.Analysis {
	return schema.Analysis{
		LossID:        lossID,
		Category:      schema.Waiting,
		Justification: "stoppages are waiting losses",
		Method:        schema.RootCauseMethod,
		Causes: []schema.CausalStep{
			{Level: 1, Cause: "frequent stoppages"},
			{Level: 2, Cause: "insufficient maintenance"},
		},
		RootCause:        "insufficient maintenance",
		EstimatedCostEUR: 337.5,
		Severity:         schema.HighSeverity,
	}
}

func TestValidateLosses(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validateLosses([]schema.DetectedLoss{validLoss("LOSS-001"), validLoss("LOSS-002")}))
	})

	t.Run("missing ID", func(t *testing.T) {
		loss := validLoss("")
		assert.ErrorContains(t, validateLosses([]schema.DetectedLoss{loss}), "has no ID")
	})

	t.Run("duplicate ID", func(t *testing.T) {
		losses := []schema.DetectedLoss{validLoss("LOSS-001"), validLoss("LOSS-001")}
		assert.ErrorContains(t, validateLosses(losses), "duplicate loss ID")
	})

	t.Run("invalid severity", func(t *testing.T) {
		loss := validLoss("LOSS-001")
		loss.Severity = "extreme"
		assert.ErrorContains(t, validateLosses([]schema.DetectedLoss{loss}), "invalid severity")
	})

	t.Run("confidence out of range", func(t *testing.T) {
		loss := validLoss("LOSS-001")
		loss.ConfidenceScore = 1.5
		assert.ErrorContains(t, validateLosses([]schema.DetectedLoss{loss}), "out of range")
	})

	t.Run("negative duration", func(t *testing.T) {
		loss := validLoss("LOSS-001")
		loss.TotalHours = -0.5
		assert.ErrorContains(t, validateLosses([]schema.DetectedLoss{loss}), "negative duration")
	})

	t.Run("unknown hint", func(t *testing.T) {
		loss := validLoss("LOSS-001")
		loss.CategoryHint = "Shrinkage"
		assert.ErrorContains(t, validateLosses([]schema.DetectedLoss{loss}), "unknown category hint")
	})
}

func TestValidateAnalyses(t *testing.T) {
	losses := []schema.DetectedLoss{validLoss("LOSS-001")}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validateAnalyses(losses, []schema.Analysis{validAnalysis("LOSS-001")}))
	})

	t.Run("count mismatch", func(t *testing.T) {
		assert.ErrorContains(t, validateAnalyses(losses, nil), "0 analyses for 1 losses")
	})

	t.Run("unknown category", func(t *testing.T) {
		a := validAnalysis("LOSS-001")
		a.Category = "Shrinkage"
		assert.ErrorContains(t, validateAnalyses(losses, []schema.Analysis{a}), "unknown waste category")
	})

	t.Run("negative cost", func(t *testing.T) {
		a := validAnalysis("LOSS-001")
		a.EstimatedCostEUR = -1
		assert.ErrorContains(t, validateAnalyses(losses, []schema.Analysis{a}), "negative estimated cost")
	})

	t.Run("analysis for wrong loss", func(t *testing.T) {
		assert.ErrorContains(t, validateAnalyses(losses, []schema.Analysis{validAnalysis("LOSS-999")}), "no analysis for loss LOSS-001")
	})

	t.Run("duplicate analyses", func(t *testing.T) {
		two := []schema.DetectedLoss{validLoss("LOSS-001"), validLoss("LOSS-002")}
		dups := []schema.Analysis{validAnalysis("LOSS-001"), validAnalysis("LOSS-001")}
		assert.ErrorContains(t, validateAnalyses(two, dups), "duplicate analysis")
	})
}

func TestValidateCausalChain(t *testing.T) {
	t.Run("empty chain", func(t *testing.T) {
		a := validAnalysis("LOSS-001")
		a.Causes = nil
		assert.ErrorContains(t, validateCausalChain(&a), "empty causal chain")
	})

	t.Run("too deep", func(t *testing.T) {
		a := validAnalysis("LOSS-001")
		a.Causes = make([]schema.CausalStep, schema.MaxCausalDepth+1)
		for i := range a.Causes {
			a.Causes[i] = schema.CausalStep{Level: i + 1, Cause: "x"}
		}
		a.RootCause = "x"
		assert.ErrorContains(t, validateCausalChain(&a), "exceeds")
	})

	t.Run("non-sequential levels", func(t *testing.T) {
		a := validAnalysis("LOSS-001")
		a.Causes[1].Level = 3
		assert.ErrorContains(t, validateCausalChain(&a), "causal level")
	})

	t.Run("root cause mismatch", func(t *testing.T) {
		a := validAnalysis("LOSS-001")
		a.RootCause = "something else"
		assert.ErrorContains(t, validateCausalChain(&a), "root cause does not match")
	})
}

func TestValidateRecommendations(t *testing.T) {
	analyses := []schema.Analysis{validAnalysis("LOSS-001")}

	valid := func() []schema.Recommendation {
		return []schema.Recommendation{
			{RecommendationID: "REC-001", LossID: "LOSS-001", Priority: 1, EstimatedGainEUR: 236.25},
			{RecommendationID: "REC-002", LossID: "LOSS-001", Priority: 2, EstimatedGainEUR: 236.25},
		}
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validateRecommendations(analyses, valid()))
	})

	t.Run("no actions", func(t *testing.T) {
		assert.ErrorContains(t, validateRecommendations(analyses, nil), "no actions")
	})

	t.Run("unknown loss reference", func(t *testing.T) {
		recs := valid()
		recs[0].LossID = "LOSS-999"
		assert.ErrorContains(t, validateRecommendations(analyses, recs), "unknown loss")
	})

	t.Run("uncovered loss", func(t *testing.T) {
		two := append(analyses, validAnalysis("LOSS-002"))
		assert.ErrorContains(t, validateRecommendations(two, valid()), "no recommendation covers loss LOSS-002")
	})

	t.Run("negative gain", func(t *testing.T) {
		recs := valid()
		recs[0].EstimatedGainEUR = -5
		assert.ErrorContains(t, validateRecommendations(analyses, recs), "negative gain")
	})

	t.Run("priority out of range", func(t *testing.T) {
		recs := valid()
		recs[1].Priority = 3
		assert.ErrorContains(t, validateRecommendations(analyses, recs), "out of range")
	})

	t.Run("duplicate priority", func(t *testing.T) {
		recs := valid()
		recs[1].Priority = 1
		assert.ErrorContains(t, validateRecommendations(analyses, recs), "duplicate priority")
	})
}
