package core

import (
	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

// highPriorityCutoff bounds the "act on these first" slice of the
// ranking surfaced as a headline KPI.
const highPriorityCutoff = 3

// compileReport assembles the terminal report: the stage outputs plus
// the KPI summary, stage modes and timestamp.
func compileReport(cfg *contract.Config, losses []schema.DetectedLoss, analyses []schema.Analysis, recs []schema.Recommendation, modes map[schema.StageName]schema.StageMode) *schema.AnalysisReport {
	return &schema.AnalysisReport{
		Losses:          losses,
		Analyses:        analyses,
		Recommendations: recs,
		Summary:         summarize(analyses, recs),
		StageModes:      modes,
		GeneratedAt:     cfg.Now(),
	}
}

// summarize computes the KPI block over one run's analyses and
// recommendations.
func summarize(analyses []schema.Analysis, recs []schema.Recommendation) schema.Summary {
	s := schema.Summary{
		TotalLosses:          len(analyses),
		TotalRecommendations: len(recs),
		CategoryDistribution: make(map[schema.WasteCategory]int),
		SeverityDistribution: make(map[schema.Severity]int),
	}

	for i := range analyses {
		a := &analyses[i]
		s.TotalCostEUR += a.EstimatedCostEUR
		s.CategoryDistribution[a.Category]++
		s.SeverityDistribution[a.Severity]++
	}
	s.TotalCostEUR = round2(s.TotalCostEUR)

	for i := range recs {
		r := &recs[i]
		s.TotalGainEUR += r.EstimatedGainEUR
		if r.QuickWin {
			s.QuickWins++
		}
		if r.Priority <= highPriorityCutoff {
			s.HighPriorityCount++
		}
	}
	s.TotalGainEUR = round2(s.TotalGainEUR)

	// ROI stays zero when no cost was quantified; a percentage of nothing
	// would be noise, not a KPI. The ratio is kept exact here; rendering
	// decides how many decimals to show.
	if s.TotalCostEUR > 0 {
		s.ROIPercent = s.TotalGainEUR / s.TotalCostEUR * 100
	}

	s.TopCategory, s.TopCategoryCount = topCategory(s.CategoryDistribution)
	return s
}

// topCategory returns the most frequent waste category, breaking ties in
// TIMWOODS order so the headline is stable across runs.
func topCategory(dist map[schema.WasteCategory]int) (schema.WasteCategory, int) {
	var top schema.WasteCategory
	best := 0
	for _, cat := range schema.AllWasteCategories {
		if dist[cat] > best {
			top = cat
			best = dist[cat]
		}
	}
	return top, best
}
