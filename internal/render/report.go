package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

// WriteReport outputs the analysis report, dispatching on the configured
// output format.
func WriteReport(report *schema.AnalysisReport, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeReportJSON(report, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeReportCSV(report, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeReportText(w, report, cfg, duration)
		}, "Wrote report")
	}
	return nil
}

// writeReportJSON writes the full report structure as indented JSON.
func writeReportJSON(report *schema.AnalysisReport, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, report)
	}, "Wrote JSON")
}

// writeReportCSV writes one row per recommendation, joined with its
// loss's classification, the flat shape spreadsheet users want.
func writeReportCSV(report *schema.AnalysisReport, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	analysisByLoss := make(map[string]*schema.Analysis, len(report.Analyses))
	for i := range report.Analyses {
		analysisByLoss[report.Analyses[i].LossID] = &report.Analyses[i]
	}

	header := []string{
		"priority", "recommendation_id", "loss_id", "category", "severity",
		"title", "estimated_gain_eur", "effort", "timeline_weeks",
		"department", "quick_win",
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for i := range report.Recommendations {
				r := &report.Recommendations[i]

				var category schema.WasteCategory
				var severity schema.Severity
				if a, ok := analysisByLoss[r.LossID]; ok {
					category = a.Category
					severity = a.Severity
				}

				rec := []string{
					strconv.Itoa(r.Priority),
					r.RecommendationID,
					r.LossID,
					string(category),
					contract.GetPlainLabel(severity),
					r.Title,
					fmtFloat(r.EstimatedGainEUR),
					string(r.Effort),
					strconv.Itoa(r.TimelineWeeks),
					string(r.Department),
					strconv.FormatBool(r.QuickWin),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

// writeReportText writes the human-readable report: losses table,
// recommendations table, optional root-cause detail and the KPI summary.
func writeReportText(w io.Writer, report *schema.AnalysisReport, cfg *contract.Config, duration time.Duration) error {
	if len(report.Losses) == 0 {
		if _, err := fmt.Fprintln(w, "No losses detected. The production data shows no pattern above the configured thresholds."); err != nil {
			return err
		}
		return writeSummaryText(w, report, cfg, duration)
	}

	if err := writeLossTable(w, report, cfg); err != nil {
		return err
	}
	if cfg.Detail {
		if err := writeRootCauseDetail(w, report); err != nil {
			return err
		}
	}
	if err := writeRecommendationTable(w, report, cfg); err != nil {
		return err
	}
	return writeSummaryText(w, report, cfg, duration)
}

func writeLossTable(w io.Writer, report *schema.AnalysisReport, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	titleWidth := maxTitleWidth(cfg)

	analysisByLoss := make(map[string]*schema.Analysis, len(report.Analyses))
	for i := range report.Analyses {
		analysisByLoss[report.Analyses[i].LossID] = &report.Analyses[i]
	}

	if _, err := fmt.Fprintln(w, "Detected losses"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"ID", "Title", "Category", "Severity", "Hours", "Cost (EUR)", "Conf"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i := range report.Losses {
		loss := &report.Losses[i]

		var category schema.WasteCategory
		var cost float64
		if a, ok := analysisByLoss[loss.LossID]; ok {
			category = a.Category
			cost = a.EstimatedCostEUR
		}

		severity := contract.GetPlainLabel(loss.Severity)
		if cfg.UseColors {
			severity = contract.GetColorLabel(loss.Severity)
		}

		data = append(data, []string{
			loss.LossID,
			truncateText(loss.Title, titleWidth),
			string(category),
			severity,
			fmtFloat(loss.TotalHours),
			fmtFloat(cost),
			fmt.Sprintf("%.2f", loss.ConfidenceScore),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeRootCauseDetail(w io.Writer, report *schema.AnalysisReport) error {
	if _, err := fmt.Fprintln(w, "Root-cause analysis (5 Whys)"); err != nil {
		return err
	}
	for i := range report.Analyses {
		a := &report.Analyses[i]
		if _, err := fmt.Fprintf(w, "%s (%s): %s\n", a.LossID, a.Category, a.Justification); err != nil {
			return err
		}
		for _, step := range a.Causes {
			if _, err := fmt.Fprintf(w, "  Why %d: %s\n", step.Level, step.Cause); err != nil {
				return err
			}
		}
		if len(a.ContributingFactors) > 0 {
			if _, err := fmt.Fprintf(w, "  Contributing factors: %v\n", a.ContributingFactors); err != nil {
				return err
			}
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

func writeRecommendationTable(w io.Writer, report *schema.AnalysisReport, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)
	titleWidth := maxTitleWidth(cfg)

	if _, err := fmt.Fprintln(w, "Recommended actions"); err != nil {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Prio", "Loss", "Action", "Gain (EUR)", "Effort", "Weeks", "Department", "Quick win"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i := range report.Recommendations {
		r := &report.Recommendations[i]

		quickWin := ""
		if r.QuickWin {
			quickWin = "yes"
		}

		data = append(data, []string{
			strconv.Itoa(r.Priority),
			r.LossID,
			truncateText(r.Title, titleWidth),
			fmtFloat(r.EstimatedGainEUR),
			string(r.Effort),
			strconv.Itoa(r.TimelineWeeks),
			string(r.Department),
			quickWin,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintln(w)
	return err
}

// writeSummaryText writes the KPI block and the per-stage mode flags.
func writeSummaryText(w io.Writer, report *schema.AnalysisReport, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := createFormatter(cfg.Precision)
	s := &report.Summary

	if _, err := fmt.Fprintln(w, "Summary"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Losses: %d  Recommendations: %d  Quick wins: %d\n",
		s.TotalLosses, s.TotalRecommendations, s.QuickWins); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "  Estimated cost: %s EUR  Potential gain: %s EUR  ROI: %s%%\n",
		fmtFloat(s.TotalCostEUR), fmtFloat(s.TotalGainEUR), fmtFloat(s.ROIPercent)); err != nil {
		return err
	}
	if s.TopCategory != "" {
		if _, err := fmt.Fprintf(w, "  Top waste category: %s (%d losses)\n",
			s.TopCategory, s.TopCategoryCount); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "  Stage modes: detect=%s classify=%s recommend=%s\n",
		report.StageModes[schema.DetectStage],
		report.StageModes[schema.ClassifyStage],
		report.StageModes[schema.RecommendStage]); err != nil {
		return err
	}
	if report.Degraded(cfg.ModelConfigured()) {
		if _, err := fmt.Fprintln(w, "  Note: one or more stages fell back to the heuristic strategy."); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintf(w, "Analysis completed in %v. Report generated at %s\n",
		duration, report.GeneratedAt.Format(contract.DateTimeFormat))
	return err
}
