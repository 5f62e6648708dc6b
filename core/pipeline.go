// Package core implements the analysis pipeline: aggregation, loss
// detection, classification with root-cause analysis, recommendation,
// and report compilation. Each analytic stage has a heuristic strategy
// and an optional model-backed strategy with per-stage fallback.
package core

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/leanlens/leanlens/internal/contract"
	"github.com/leanlens/leanlens/schema"
)

// Pipeline orchestrates one analysis run as a linear state machine:
// start -> parsed -> analyzed -> recommended -> reported -> end.
// A run with no detected losses short-circuits from parsed to reported.
type Pipeline struct {
	cfg    *contract.Config
	logger zerolog.Logger

	detector    Detector
	analyzer    Analyzer
	recommender Recommender

	// Model-backed counterparts; nil when no backend is configured.
	modelDetector    Detector
	modelAnalyzer    Analyzer
	modelRecommender Recommender

	state schema.PipelineState
}

// NewPipeline builds a pipeline for one run. client may be nil, in which
// case every stage runs the heuristic strategy.
func NewPipeline(cfg *contract.Config, logger zerolog.Logger, client contract.ModelClient) *Pipeline {
	p := &Pipeline{
		cfg:         cfg,
		logger:      logger,
		detector:    heuristicDetector{},
		analyzer:    heuristicAnalyzer{},
		recommender: heuristicRecommender{},
		state:       schema.StartState,
	}
	if client != nil {
		p.modelDetector = NewModelDetector(client)
		p.modelAnalyzer = NewModelAnalyzer(client)
		p.modelRecommender = NewModelRecommender(client)
	}
	return p
}

// State returns the pipeline's current state.
func (p *Pipeline) State() schema.PipelineState {
	return p.state
}

// transition advances the state machine, logging each step.
func (p *Pipeline) transition(next schema.PipelineState) {
	p.logger.Debug().
		Str("from", string(p.state)).
		Str("to", string(next)).
		Msg("pipeline transition")
	p.state = next
}

// Run executes the full pipeline over one event log. Heuristic-stage
// errors are fatal: the heuristic strategies are total over valid input,
// so a failure there means the data violates an invariant.
func (p *Pipeline) Run(ctx context.Context, events *schema.EventLog) (*schema.AnalysisReport, error) {
	modes := map[schema.StageName]schema.StageMode{
		schema.DetectStage:    schema.HeuristicMode,
		schema.ClassifyStage:  schema.HeuristicMode,
		schema.RecommendStage: schema.HeuristicMode,
	}

	stats := aggregateEvents(p.cfg, events)
	p.transition(schema.ParsedState)
	p.logger.Info().
		Int("machines", len(stats.Machines)).
		Int("production_events", stats.ProductionEvents).
		Int("quality_events", stats.QualityEvents).
		Msg("events aggregated")

	losses, err := p.runDetect(ctx, events, stats, modes)
	if err != nil {
		return nil, err
	}

	// No losses means nothing to classify or recommend: jump straight to
	// the report so downstream consumers still get KPIs and stage modes.
	if len(losses) == 0 {
		p.logger.Info().Msg("no losses detected")
		report := compileReport(p.cfg, nil, nil, nil, modes)
		p.transition(schema.ReportedState)
		p.transition(schema.EndState)
		return report, nil
	}
	p.logger.Info().Int("losses", len(losses)).Msg("losses detected")

	analyses, err := p.runAnalyze(ctx, losses, modes)
	if err != nil {
		return nil, err
	}
	p.transition(schema.AnalyzedState)

	recs, err := p.runRecommend(ctx, analyses, modes)
	if err != nil {
		return nil, err
	}
	p.transition(schema.RecommendedState)

	report := compileReport(p.cfg, losses, analyses, recs, modes)
	p.transition(schema.ReportedState)
	p.transition(schema.EndState)
	return report, nil
}

func (p *Pipeline) runDetect(ctx context.Context, events *schema.EventLog, stats *schema.StatBundle, modes map[schema.StageName]schema.StageMode) ([]schema.DetectedLoss, error) {
	if p.modelDetector != nil {
		losses, err := runWithTimeout(ctx, p.cfg.ModelTimeout, func(ctx context.Context) ([]schema.DetectedLoss, error) {
			return p.modelDetector.Detect(ctx, p.cfg, events, stats)
		})
		if err == nil {
			modes[schema.DetectStage] = schema.ModelMode
			return losses, nil
		}
		p.fallback(schema.DetectStage, err)
	}

	losses, err := p.detector.Detect(ctx, p.cfg, events, stats)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}
	return losses, nil
}

func (p *Pipeline) runAnalyze(ctx context.Context, losses []schema.DetectedLoss, modes map[schema.StageName]schema.StageMode) ([]schema.Analysis, error) {
	if p.modelAnalyzer != nil {
		analyses, err := runWithTimeout(ctx, p.cfg.ModelTimeout, func(ctx context.Context) ([]schema.Analysis, error) {
			return p.modelAnalyzer.Analyze(ctx, p.cfg, losses)
		})
		if err == nil {
			modes[schema.ClassifyStage] = schema.ModelMode
			return analyses, nil
		}
		p.fallback(schema.ClassifyStage, err)
	}

	analyses, err := p.analyzer.Analyze(ctx, p.cfg, losses)
	if err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	if err := validateAnalyses(losses, analyses); err != nil {
		return nil, fmt.Errorf("classify: %w", err)
	}
	return analyses, nil
}

func (p *Pipeline) runRecommend(ctx context.Context, analyses []schema.Analysis, modes map[schema.StageName]schema.StageMode) ([]schema.Recommendation, error) {
	if p.modelRecommender != nil {
		recs, err := runWithTimeout(ctx, p.cfg.ModelTimeout, func(ctx context.Context) ([]schema.Recommendation, error) {
			return p.modelRecommender.Recommend(ctx, p.cfg, analyses)
		})
		if err == nil {
			modes[schema.RecommendStage] = schema.ModelMode
			return recs, nil
		}
		p.fallback(schema.RecommendStage, err)
	}

	recs, err := p.recommender.Recommend(ctx, p.cfg, analyses)
	if err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	if err := validateRecommendations(analyses, recs); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	return recs, nil
}

// runWithTimeout executes one model-backed stage under the configured
// per-call timeout so a hanging backend degrades instead of stalling.
func runWithTimeout[T any](ctx context.Context, timeout time.Duration, call func(context.Context) (T, error)) (T, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return call(ctx)
}

func (p *Pipeline) fallback(stage schema.StageName, err error) {
	p.logger.Warn().
		Err(err).
		Str("stage", string(stage)).
		Msg("model strategy failed, falling back to heuristic")
}
