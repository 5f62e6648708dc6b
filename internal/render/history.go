package render

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

// WriteRunHistory outputs the persisted run history, dispatching on the
// configured output format.
func WriteRunHistory(runs []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, runs)
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeHistoryCSV(runs, cfg)
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeHistoryTable(w, runs, cfg)
		}, "Wrote table")
	}
}

func writeHistoryCSV(runs []schema.RunRecord, cfg *contract.Config) error {
	fmtFloat := createFormatter(cfg.Precision)

	header := []string{
		"run_id", "start_time", "end_time", "losses", "recommendations",
		"total_cost_eur", "total_gain_eur", "roi_percentage",
		"detect_mode", "classify_mode", "recommend_mode",
	}
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeCSVWithHeader(w, header, func(cw *csv.Writer) error {
			for i := range runs {
				r := &runs[i]
				rec := []string{
					strconv.FormatInt(r.ID, 10),
					r.StartTime.Format(contract.DateTimeFormat),
					r.EndTime.Format(contract.DateTimeFormat),
					strconv.Itoa(r.LossCount),
					strconv.Itoa(r.RecommendationCount),
					fmtFloat(r.TotalCostEUR),
					fmtFloat(r.TotalGainEUR),
					fmtFloat(r.ROIPercent),
					string(r.DetectMode),
					string(r.ClassifyMode),
					string(r.RecommendMode),
				}
				if err := cw.Write(rec); err != nil {
					return err
				}
			}
			return nil
		})
	}, "Wrote CSV")
}

func writeHistoryTable(w io.Writer, runs []schema.RunRecord, cfg *contract.Config) error {
	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded yet.")
		return err
	}

	fmtFloat := createFormatter(cfg.Precision)

	table := tablewriter.NewWriter(w)
	table.Header([]string{"Run", "Start", "Losses", "Recs", "Cost (EUR)", "Gain (EUR)", "ROI %", "Modes"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for i := range runs {
		r := &runs[i]
		modes := fmt.Sprintf("%s/%s/%s", r.DetectMode, r.ClassifyMode, r.RecommendMode)
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			r.StartTime.Format("2006-01-02 15:04"),
			strconv.Itoa(r.LossCount),
			strconv.Itoa(r.RecommendationCount),
			fmtFloat(r.TotalCostEUR),
			fmtFloat(r.TotalGainEUR),
			fmtFloat(r.ROIPercent),
			modes,
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Showing %d runs\n", len(runs))
	return err
}
