// Package analysis composes the workbook loader and the engines into a
// single immutable result per workbook, and keeps finished results in
// an in-memory session registry for the HTTP API.
package analysis

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/marketing-insights/internal/competitive"
	"github.com/sells-group/marketing-insights/internal/config"
	"github.com/sells-group/marketing-insights/internal/industry"
	"github.com/sells-group/marketing-insights/internal/model"
	"github.com/sells-group/marketing-insights/internal/recommend"
	"github.com/sells-group/marketing-insights/internal/tactics"
	"github.com/sells-group/marketing-insights/internal/workbook"
)

// Result is the immutable aggregate of one analysis run. Once Run
// returns it is never modified; the session registry hands out the same
// pointer to every reader.
type Result struct {
	Validation      workbook.Validation        `json:"validation"`
	AvailableSheets []string                   `json:"available_sheets,omitempty"`
	Goals           []string                   `json:"goals"`
	Competitive     *competitive.Analysis      `json:"competitive"`
	Tactics         model.Table                `json:"tactics"`
	Warnings        []string                   `json:"warnings,omitempty"`
	CurrentState    recommend.CurrentState     `json:"current_state"`
	Recommendations []recommend.Recommendation `json:"recommendations"`
	Roadmap         []recommend.RoadmapPhase   `json:"roadmap"`
	Insights        []recommend.InsightTile    `json:"insights"`
	DurationMS      int64                      `json:"duration_ms"`
}

// Runner wires the engines to their configuration. The industry
// context is loaded once at construction and shared across runs.
type Runner struct {
	cfg      *config.Config
	industry *industry.Context
}

// New creates a Runner, loading the industry context override when one
// is configured.
func New(cfg *config.Config) (*Runner, error) {
	ictx, err := industry.LoadContext(cfg.Industry.ContextPath)
	if err != nil {
		return nil, eris.Wrap(err, "analysis: load industry context")
	}
	return &Runner{cfg: cfg, industry: ictx}, nil
}

// Run prepares the workbook's sheets and executes the competitive
// engine concurrently with the tactics and recommendation chain. The
// two branches share only the prepared tables, which neither mutates.
func (r *Runner) Run(ctx context.Context, wb *workbook.Workbook, goals []string) (*Result, error) {
	start := time.Now()
	tables := wb.Prepare()

	result := &Result{
		Validation:      wb.Validate(),
		AvailableSheets: wb.Available(),
		Goals:           normalizeGoals(goals, r.cfg.Recommend.Goals),
	}

	g, gCtx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		result.Competitive = competitive.Analyze(
			tables[workbook.KeyKeywordsPaid],
			tables[workbook.KeyKeywordsOrganic],
			r.cfg.Competitive,
		)
		return nil
	})

	g.Go(func() error {
		if err := gCtx.Err(); err != nil {
			return err
		}
		prioritized := tactics.Prioritize(tables[workbook.KeyTactics], tables[workbook.KeyIEMatrix])
		state := recommend.AnalyzeCurrentState(recommend.Sources{
			Tactics:         prioritized.Table,
			WebVitals:       tables[workbook.KeyWebVitals],
			Traffic:         tables[workbook.KeyTrafficData],
			KeywordsOrganic: tables[workbook.KeyKeywordsOrganic],
		})
		recs := recommend.Recommendations(state, prioritized.Table, result.Goals, r.industry, r.cfg.Recommend.MaxRecommendations)

		result.Tactics = prioritized.Table
		result.Warnings = prioritized.Warnings
		result.CurrentState = state
		result.Recommendations = recs
		result.Roadmap = recommend.Roadmap(recs)
		result.Insights = recommend.ExecutiveInsights(state, prioritized.Table, tables[workbook.KeyKeywordsOrganic])
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "analysis: run engines")
	}

	result.DurationMS = time.Since(start).Milliseconds()
	zap.L().Info("analysis: run complete",
		zap.Int("competitors", len(result.Competitive.Competitors)),
		zap.Int("recommendations", len(result.Recommendations)),
		zap.Int("roadmap_phases", len(result.Roadmap)),
		zap.Int64("duration_ms", result.DurationMS),
	)
	return result, nil
}

// RunFile loads and analyzes a workbook from disk, rejecting workbooks
// that fail structural validation.
func (r *Runner) RunFile(ctx context.Context, path string, goals []string) (*Result, error) {
	wb, err := workbook.Load(path)
	if err != nil {
		return nil, err
	}
	if v := wb.Validate(); !v.Valid {
		return nil, eris.Errorf("analysis: workbook %s is not analyzable: %s", path, v.Error)
	}
	return r.Run(ctx, wb, goals)
}

// normalizeGoals lowercases and trims the caller's goals so they align
// with funnel stages case-insensitively, falling back to the configured
// defaults when none are usable.
func normalizeGoals(goals, defaults []string) []string {
	out := make([]string, 0, len(goals))
	for _, g := range goals {
		g = strings.ToLower(strings.TrimSpace(g))
		if g != "" {
			out = append(out, g)
		}
	}
	if len(out) == 0 {
		return defaults
	}
	return out
}
