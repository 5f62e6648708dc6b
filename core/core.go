package core

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/internal/iocache"
	"github.com/leanlens/leanlens/internal/loader"
	"github.com/leanlens/leanlens/internal/model"
	"github.com/leanlens/leanlens/internal/render"
	"github.com/leanlens/leanlens/schema"
)

// ExecutorFunc defines the function signature for executing commands.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config) error

// ExecuteAnalyze runs the full analysis over the configured data
// directory, records the run in the report store, and writes the report.
// It serves as the main entry point for the 'analyze' command.
func ExecuteAnalyze(ctx context.Context, cfg *contract.Config) error {
	start := time.Now()
	logger := zerolog.Ctx(ctx)

	store, err := iocache.NewReportStore(cfg.StoreBackend, cfg.StoreDBConnect)
	if err != nil {
		// Run tracking is best-effort: a broken store must not block the
		// analysis itself.
		logger.Warn().Err(err).Msg("report store unavailable, run will not be recorded")
		store, _ = iocache.NewReportStore(schema.NoneBackend, "")
	}
	defer func() { _ = store.Close() }()

	runID, err := store.BeginRun(cfg.Now(), runParams(cfg))
	if err != nil {
		logger.Warn().Err(err).Msg("failed to record run start")
	}

	report, err := RunAnalysis(ctx, cfg)
	if err != nil {
		return err
	}

	if runID > 0 {
		if err := store.EndRun(runID, cfg.Now(), report); err != nil {
			logger.Warn().Err(err).Msg("failed to record run completion")
		}
	}

	return render.WriteReport(report, cfg, time.Since(start))
}

// RunAnalysis loads the event log and executes the pipeline, without
// persistence or rendering. The MCP server reuses this entry point.
func RunAnalysis(ctx context.Context, cfg *contract.Config) (*schema.AnalysisReport, error) {
	logger := zerolog.Ctx(ctx)

	events, err := loader.LoadEventLog(cfg.DataDir, *logger)
	if err != nil {
		return nil, err
	}

	var client contract.ModelClient
	if cfg.ModelConfigured() {
		genai, err := model.NewGenAIClient(ctx, cfg.ModelAPIKey, cfg.ModelName)
		if err != nil {
			// Same contract as a failing model call: degrade to heuristic.
			logger.Warn().Err(err).Msg("model backend unavailable, running heuristic strategies")
		} else {
			client = genai
		}
	}

	pipeline := NewPipeline(cfg, *logger, client)
	return pipeline.Run(ctx, events)
}

// runParams captures the calibration parameters that shaped a run, for
// the run history record.
func runParams(cfg *contract.Config) map[string]any {
	return map[string]any{
		"data_dir":             cfg.DataDir,
		"micro_stop_threshold": cfg.MicroStopThresholdMin,
		"micro_stop_count":     cfg.MicroStopCount,
		"downtime_hours":       cfg.DowntimeHours,
		"defect_count":         cfg.DefectCount,
		"over_control_count":   cfg.OverControlCount,
		"night_shift_hours":    cfg.NightShiftHours,
		"machine_rate":         cfg.MachineHourlyRate,
		"labor_rate":           cfg.LaborHourlyRate,
		"quick_win_gain":       cfg.QuickWinGainEUR,
		"model_configured":     cfg.ModelConfigured(),
		"model_name":           cfg.ModelName,
	}
}
