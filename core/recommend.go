package core

import (
	"fmt"
	"sort"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

// actionTemplate is one improvement action from the per-category catalog.
type actionTemplate struct {
	title         string
	description   string
	effort        schema.EffortTier
	timelineWeeks int
	department    schema.Department
}

// actionCatalog holds two candidate actions per waste category, ordered
// most-standard-first. Every analyzed loss yields both actions; the
// global ranking then decides their priority.
var actionCatalog = map[schema.WasteCategory][]actionTemplate{
	schema.Waiting: {
		{
			title:         "Set up a preventive maintenance program",
			description:   "Plan systematic maintenance interventions to cut unplanned stoppages on critical machines.",
			effort:        schema.MediumEffort,
			timelineWeeks: 6,
			department:    schema.MaintenanceDept,
		},
		{
			title:         "Reduce changeover times with SMED",
			description:   "Apply the SMED method to convert internal setup operations to external ones and shorten waiting windows.",
			effort:        schema.MediumEffort,
			timelineWeeks: 8,
			department:    schema.ProductionDept,
		},
	},
	schema.Defects: {
		{
			title:         "Deploy statistical process control",
			description:   "Install SPC charts on the critical parameters to catch process drift before it produces scrap.",
			effort:        schema.MediumEffort,
			timelineWeeks: 10,
			department:    schema.QualityDept,
		},
		{
			title:         "Run targeted quality training",
			description:   "Train operators on self-inspection and the top defect modes seen over the period.",
			effort:        schema.LowEffort,
			timelineWeeks: 4,
			department:    schema.HumanResourcesDept,
		},
	},
	schema.OverProcessing: {
		{
			title:         "Review and right-size the control plan",
			description:   "Audit every inspection against actual process capability and remove redundant checks.",
			effort:        schema.LowEffort,
			timelineWeeks: 3,
			department:    schema.QualityDept,
		},
		{
			title:         "Simplify administrative validation steps",
			description:   "Map the approval flow and remove signatures that add no control value.",
			effort:        schema.MediumEffort,
			timelineWeeks: 6,
			department:    schema.AdministrationDept,
		},
	},
	schema.Skills: {
		{
			title:         "Build a cross-training matrix",
			description:   "Qualify each shift on the critical workstations so performance no longer depends on who is present.",
			effort:        schema.MediumEffort,
			timelineWeeks: 12,
			department:    schema.HumanResourcesDept,
		},
		{
			title:         "Launch a Kaizen suggestion scheme",
			description:   "Give shift teams a structured channel to raise and fix the disruptions they know best.",
			effort:        schema.LowEffort,
			timelineWeeks: 4,
			department:    schema.ManagementDept,
		},
	},
	schema.Inventory: {
		{
			title:         "Introduce Kanban replenishment loops",
			description:   "Replace forecast-driven stock with consumption-driven Kanban loops on the main references.",
			effort:        schema.MediumEffort,
			timelineWeeks: 10,
			department:    schema.LogisticsDept,
		},
		{
			title:         "Move key suppliers to vendor-managed inventory",
			description:   "Contract VMI with the most reliable suppliers to cut safety stock without shortage risk.",
			effort:        schema.HighEffort,
			timelineWeeks: 16,
			department:    schema.PurchasingDept,
		},
	},
	schema.Transport: {
		{
			title:         "Re-layout the line for flow",
			description:   "Redesign the machine layout around product flow to remove the longest recurring transfers.",
			effort:        schema.HighEffort,
			timelineWeeks: 20,
			department:    schema.EngineeringDept,
		},
		{
			title:         "Set up line-side delivery",
			description:   "Deliver components directly to the point of use on a fixed milk-run instead of central storage.",
			effort:        schema.MediumEffort,
			timelineWeeks: 8,
			department:    schema.LogisticsDept,
		},
	},
	schema.Motion: {
		{
			title:         "Run an ergonomic workstation study",
			description:   "Analyze operator movement at the affected stations and bring tools and parts within reach.",
			effort:        schema.MediumEffort,
			timelineWeeks: 8,
			department:    schema.EngineeringDept,
		},
		{
			title:         "Deploy 5S on the affected stations",
			description:   "Sort, arrange and standardize the workstations so every tool has one obvious place.",
			effort:        schema.LowEffort,
			timelineWeeks: 6,
			department:    schema.ProductionDept,
		},
	},
	schema.OverProduction: {
		{
			title:         "Switch the schedule to pull production",
			description:   "Produce against downstream consumption instead of forecast to stop building ahead of demand.",
			effort:        schema.HighEffort,
			timelineWeeks: 16,
			department:    schema.PlanningDept,
		},
		{
			title:         "Cut batch sizes through SMED",
			description:   "Shorten changeovers so smaller, demand-matched batches become economical.",
			effort:        schema.MediumEffort,
			timelineWeeks: 10,
			department:    schema.ProductionDept,
		},
	},
}

// recommendActions produces the prioritized action list for a set of
// analyses. Both catalog actions are emitted per analysis; the whole set
// is then ranked globally and assigned dense priorities 1..N.
func recommendActions(cfg *contract.Config, analyses []schema.Analysis) []schema.Recommendation {
	var recs []schema.Recommendation

	for _, analysis := range analyses {
		gain := round2(analysis.EstimatedCostEUR * cfg.GainPercent(analysis.Category))
		for _, tpl := range actionCatalog[analysis.Category] {
			recs = append(recs, schema.Recommendation{
				RecommendationID: fmt.Sprintf("REC-%03d", len(recs)+1),
				LossID:           analysis.LossID,
				Title:            tpl.title,
				Description:      tpl.description,
				EstimatedGainEUR: gain,
				Effort:           tpl.effort,
				TimelineWeeks:    tpl.timelineWeeks,
				Department:       tpl.department,
				QuickWin:         tpl.effort == schema.LowEffort && gain > cfg.QuickWinGainEUR,
			})
		}
	}

	rankRecommendations(recs, analyses)
	return recs
}

// rankRecommendations assigns dense priorities by composite score:
// severity rank times expected gain, divided by effort weight. Ties break
// on shorter timeline, then on emission order so the result is stable.
func rankRecommendations(recs []schema.Recommendation, analyses []schema.Analysis) {
	severityByLoss := make(map[string]schema.Severity, len(analyses))
	for _, a := range analyses {
		severityByLoss[a.LossID] = a.Severity
	}

	score := func(r *schema.Recommendation) float64 {
		rank := float64(severityByLoss[r.LossID].Rank())
		return rank * r.EstimatedGainEUR / r.Effort.Weight()
	}

	sort.SliceStable(recs, func(i, j int) bool {
		si, sj := score(&recs[i]), score(&recs[j])
		if si != sj {
			return si > sj
		}
		return recs[i].TimelineWeeks < recs[j].TimelineWeeks
	})

	for i := range recs {
		recs[i].Priority = i + 1
	}
}
