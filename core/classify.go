package core

import (
	"fmt"
	"math"
	"strings"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

// keywordRule maps description keywords to a waste category. The table
// is ordered and first-match-wins; keywords cover both the French shop
// floor vocabulary the logs are written in and their English equivalents.
type keywordRule struct {
	category schema.WasteCategory
	keywords []string
}

var keywordTable = []keywordRule{
	{schema.Waiting, []string{
		"micro-stop", "micro-arrêt", "attente", "waiting", "idle",
		"downtime", "arrêt", "ralentissement", "slowdown", "cadence",
	}},
	{schema.Defects, []string{
		"rebut", "retouche", "scrap", "rework", "defect", "défaut",
		"non-conform", "quality loss", "qualité",
	}},
	{schema.Inventory, []string{"stock", "inventaire", "inventory", "encours", "work-in-progress"}},
	{schema.Transport, []string{"transport", "déplacement", "manutention", "handling", "forklift"}},
	{schema.Motion, []string{"mouvement", "motion", "geste", "ergonomi", "reaching"}},
	{schema.OverProcessing, []string{"sur-contrôle", "contrôle", "over-control", "inspection", "over-processing"}},
	{schema.OverProduction, []string{"surproduction", "overproduction", "batch size", "lot"}},
	{schema.Skills, []string{"shift", "équipe", "night", "nuit", "skill", "formation", "training", "supervision"}},
}

// justifications explains each category assignment in the report.
var justifications = map[schema.WasteCategory]string{
	schema.Waiting:        "Stoppages and idle time are Waiting losses: the machine or operator is available but cannot produce.",
	schema.Defects:        "Scrap and rework are Defects losses: they require extra work or produce unusable pieces.",
	schema.Inventory:      "Excess stock and work-in-progress are Inventory losses: they tie up capital and hide process problems.",
	schema.Transport:      "Unnecessary movement of material is a Transport loss: it adds no value to the product.",
	schema.Motion:         "Unnecessary operator movement is a Motion loss: it tires people without creating value.",
	schema.OverProcessing: "Redundant or excessive controls are Over-processing losses: they consume time beyond the requirement.",
	schema.OverProduction: "Producing beyond immediate demand is an Over-production loss: it feeds every other waste.",
	schema.Skills:         "Shift-dependent performance points to a Skills loss: training or supervision gaps leave capability unused.",
}

// fallbackJustification is used when no keyword matched and the loss
// defaulted to Waiting, the most common invisible loss.
const fallbackJustification = "No classification keyword matched; defaulted to Waiting, the most common invisible loss in production."

// causeTemplates holds the 5 Whys chains per category. The level-1
// statement is parameterized with the loss's machine scope and frequency;
// deeper levels are generic.
var causeTemplates = map[schema.WasteCategory][]string{
	schema.Waiting: {
		"Frequent stoppages on %s (%d occurrences over the period)",
		"Preventive maintenance is insufficient",
		"No structured maintenance plan exists",
		"Maintenance resources are limited",
		"Maintenance is underweighted in budget priorities",
	},
	schema.Defects: {
		"High scrap rate on %s (%d defective pieces)",
		"Process parameters drift between setups",
		"No in-process statistical control (SPC) is in place",
		"Operator training on process control is limited",
		"The quality system is only partially deployed",
	},
	schema.OverProcessing: {
		"Redundant quality controls on %s (%d inspections)",
		"Teams do not trust the process output",
		"A history of quality escapes created systematic re-checks",
		"Process capability has never been demonstrated",
		"The culture favors over-control instead of prevention",
	},
	schema.Skills: {
		"Performance varies by shift on %s (%d disruptions)",
		"Skill levels are uneven across shifts",
		"Training coverage is insufficient",
		"There is no structured training plan",
		"Competence management is not a management priority",
	},
	schema.Inventory: {
		"Excess stock around %s (%d storage movements)",
		"Teams over-order for fear of shortages",
		"Supplier reliability is inconsistent",
		"No partnership exists with key suppliers",
		"The flow still runs push instead of pull",
	},
	schema.Transport: {
		"Excessive part movement around %s (%d transfers)",
		"The machine layout is not flow-optimized",
		"The plant layout grew historically without review",
		"Material flows have never been mapped",
		"Layout investment has not been prioritized",
	},
	schema.Motion: {
		"Inefficient operator movement at %s (%d occurrences)",
		"Workstation ergonomics are not optimized",
		"No time-and-motion analysis has been done",
		"Operators were not involved in workstation design",
		"Ergonomics culture is underdeveloped",
	},
	schema.OverProduction: {
		"Oversized production batches on %s (%d lots)",
		"Changeover times are too long",
		"The SMED method has not been applied",
		"A just-in-case culture drives early production",
		"The lean transition is incomplete",
	},
}

// contributingFactors lists the short fixed factor set per category.
var contributingFactors = map[schema.WasteCategory][]string{
	schema.Waiting:        {"Aging equipment", "Schedule pressure", "Spare parts lead time"},
	schema.Defects:        {"Raw material variability", "Growing product complexity", "Tooling wear"},
	schema.OverProcessing: {"Customer audit history", "Unclear acceptance criteria"},
	schema.Skills:         {"Staff turnover", "Night shift staffing levels", "Tribal knowledge"},
	schema.Inventory:      {"Long supplier lead times", "Demand variability"},
	schema.Transport:      {"Distant storage areas", "Shared handling equipment"},
	schema.Motion:         {"Workstation clutter", "Tool storage distance"},
	schema.OverProduction: {"Batch-driven scheduling", "Forecast-based planning"},
}

// laborRateCategories marks the categories whose losses consume labor
// time; every other category is costed at the machine rate.
var laborRateCategories = map[schema.WasteCategory]struct{}{
	schema.Motion:         {},
	schema.OverProcessing: {},
	schema.Skills:         {},
}

// analyzeLoss classifies one detected loss, synthesizes its 5 Whys chain
// and estimates its cost. It returns an error only on invariant
// violations (negative duration, invalid severity), which indicate a
// defect in the upstream stage and abort the run.
func analyzeLoss(cfg *contract.Config, loss *schema.DetectedLoss) (schema.Analysis, error) {
	if !loss.Severity.Valid() {
		return schema.Analysis{}, fmt.Errorf("loss %s: invalid severity %q", loss.LossID, loss.Severity)
	}

	category, fallback := classifyLoss(loss)

	justification := justifications[category]
	if fallback {
		justification = fallbackJustification
	}

	cost, err := estimateCost(cfg, category, loss)
	if err != nil {
		return schema.Analysis{}, err
	}

	causes := causalChain(category, loss)

	return schema.Analysis{
		LossID:              loss.LossID,
		Category:            category,
		Justification:       justification,
		Method:              schema.RootCauseMethod,
		Causes:              causes,
		RootCause:           causes[len(causes)-1].Cause,
		ContributingFactors: contributingFactors[category],
		EstimatedCostEUR:    cost,
		Severity:            loss.Severity,
		DefaultCategory:     fallback,
	}, nil
}

// classifyLoss picks the waste category for a loss. A category hint from
// the detector wins; otherwise the keyword table applies first-match-wins
// over the title and description; no match falls back to Waiting.
func classifyLoss(loss *schema.DetectedLoss) (schema.WasteCategory, bool) {
	if loss.CategoryHint != "" {
		return loss.CategoryHint, false
	}

	text := strings.ToLower(loss.Title + " " + loss.Description)
	for _, rule := range keywordTable {
		for _, kw := range rule.keywords {
			if strings.Contains(text, kw) {
				return rule.category, false
			}
		}
	}
	return schema.Waiting, true
}

// causalChain instantiates the category's 5 Whys template for a loss.
func causalChain(category schema.WasteCategory, loss *schema.DetectedLoss) []schema.CausalStep {
	templates := causeTemplates[category]
	causes := make([]schema.CausalStep, 0, len(templates))
	for i, tpl := range templates {
		cause := tpl
		if i == 0 {
			cause = fmt.Sprintf(tpl, lossScope(loss), loss.Frequency)
		}
		causes = append(causes, schema.CausalStep{Level: i + 1, Cause: cause})
	}
	return causes
}

// lossScope names the machines a loss affects, for causal statements.
func lossScope(loss *schema.DetectedLoss) string {
	switch len(loss.AffectedMachines) {
	case 0:
		return "the plant"
	case 1:
		return loss.AffectedMachines[0]
	default:
		return strings.Join(loss.AffectedMachines, ", ")
	}
}

// estimateCost applies the hourly cost model: duration times the machine
// or labor rate depending on category. Zero duration costs zero; a
// negative duration is an upstream invariant violation.
func estimateCost(cfg *contract.Config, category schema.WasteCategory, loss *schema.DetectedLoss) (float64, error) {
	if loss.TotalHours < 0 {
		return 0, fmt.Errorf("loss %s: negative duration %.2fh reached cost estimation", loss.LossID, loss.TotalHours)
	}

	rate := cfg.MachineHourlyRate
	if _, ok := laborRateCategories[category]; ok {
		rate = cfg.LaborHourlyRate
	}
	return round2(loss.TotalHours * rate), nil
}

// round2 rounds to cents so costs and gains are stable across platforms.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
