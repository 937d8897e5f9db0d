package recommend

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/marketing-insights/internal/industry"
	"github.com/sells-group/marketing-insights/internal/model"
	"github.com/sells-group/marketing-insights/internal/tactics"
)

// Recommendation is one ranked, fully-phrased tactic suggestion. Score
// drives the ranking only; everything else is display copy.
type Recommendation struct {
	Tactic          string         `json:"tactic"`
	FunnelStage     string         `json:"funnel_stage"`
	Priority        model.Priority `json:"priority"`
	Rationale       string         `json:"rationale"`
	Effort          int            `json:"effort"`
	Lift            string         `json:"lift"`
	Timeline        string         `json:"timeline"`
	KPIs            []string       `json:"kpis"`
	IndustryContext string         `json:"industry_context"`
	Score           float64        `json:"score"`
}

// Row defaults applied when the merged tactics table is missing a
// field for a row.
const (
	defaultEffort      = 5.0
	defaultLift        = 0.05
	defaultFunnelStage = "Unknown"
	defaultScore       = 1.0
)

var kpisByStage = map[string][]string{
	"Acquisition":     {"Organic traffic", "Click-through rate", "New visitors"},
	"Conversion":      {"Conversion rate", "Lead generation", "Form submissions"},
	"LTV":             {"Customer lifetime value", "Repeat purchase rate", "Average order value"},
	"User Experience": {"Bounce rate", "Session duration", "Page speed"},
	"Unknown":         {"Traffic", "Engagement", "Conversions"},
}

// Recommendations builds up to maxRecs suggestions from the first rows
// of the prioritized tactics table, sorted by score descending. With no
// tactic rows it falls back to canned recommendations keyed off the
// detected weaknesses. goals are lower-case objective tokens
// ("acquisition", "user_experience").
func Recommendations(state CurrentState, tacticsTable model.Table, goals []string, ctx *industry.Context, maxRecs int) []Recommendation {
	var recs []Recommendation

	for i, r := range tacticsTable.Rows {
		if maxRecs > 0 && i >= maxRecs {
			break
		}

		name := r.String(model.ColMarketingTactic)
		if name == "" {
			name = r.String(model.ColTacticName)
		}
		if name == "" {
			name = fmt.Sprintf("Tactic %d", i+1)
		}

		effort := defaultEffort
		if v, ok := r.FloatOK(model.ColTotalEffort); ok {
			effort = v
		}
		lift := defaultLift
		if v, ok := r.FloatOK(model.ColExpectedLift); ok {
			lift = v
		}
		lift *= 100
		stage := r.String(model.ColFunnelStage)
		if stage == "" {
			stage = defaultFunnelStage
		}
		score := defaultScore
		if v, ok := r.FloatOK(model.ColPriorityScore); ok {
			score = v
		}

		recs = append(recs, Recommendation{
			Tactic:          name,
			FunnelStage:     stage,
			Priority:        tactics.Categorize(score),
			Rationale:       rationale(state, name, stage, effort, lift, goals),
			Effort:          int(effort),
			Lift:            fmt.Sprintf("%.0f%%", lift),
			Timeline:        timelineFor(effort),
			KPIs:            kpisForStage(stage),
			IndustryContext: industryNote(ctx, name),
			Score:           score,
		})
	}

	if len(recs) == 0 {
		recs = fromWeaknesses(state)
	}

	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })

	zap.L().Info("recommend: generated recommendations", zap.Int("count", len(recs)))
	return recs
}

// rationale composes the explanation: effort/lift framing, then
// weakness callouts matched by substring against the tactic name, then
// goal alignment.
func rationale(state CurrentState, tactic, stage string, effort, lift float64, goals []string) string {
	var parts []string

	if effort < 10 && lift > 8 {
		parts = append(parts, fmt.Sprintf("Quick win opportunity with %.0f%% expected lift and only %.0f/20 effort required.", lift, effort))
	} else {
		parts = append(parts, fmt.Sprintf("Expected %.0f%% lift with moderate %.0f/20 effort.", lift, effort))
	}

	lower := strings.ToLower(tactic)
	for _, w := range state.Weaknesses {
		switch {
		case w.Type == FindingSEO && strings.Contains(lower, "seo"):
			parts = append(parts, fmt.Sprintf("Your SEO score (%.0f/100) needs improvement.", w.Score))
		case w.Type == FindingPerformance && strings.Contains(lower, "performance"):
			parts = append(parts, fmt.Sprintf("Performance score (%.0f/100) below benchmark.", w.Score))
		}
	}

	stageLower := strings.ToLower(stage)
	for _, g := range goals {
		if stageLower == strings.ReplaceAll(g, "_", " ") {
			parts = append(parts, fmt.Sprintf("Aligns with your %s goals.", stageLower))
			break
		}
	}

	return strings.Join(parts, " ")
}

func timelineFor(effort float64) string {
	switch {
	case effort < 5:
		return "1-2 weeks"
	case effort < 10:
		return "3-4 weeks"
	case effort < 15:
		return "2-3 months"
	default:
		return "3-6 months"
	}
}

func kpisForStage(stage string) []string {
	if kpis, ok := kpisByStage[stage]; ok {
		return kpis
	}
	return kpisByStage["Unknown"]
}

func industryNote(ctx *industry.Context, tactic string) string {
	if ctx == nil {
		return "Recommended based on data analysis"
	}
	return ctx.NoteFor(tactic)
}

// fromWeaknesses supplies canned recommendations when the workbook has
// no tactics data at all.
func fromWeaknesses(state CurrentState) []Recommendation {
	var recs []Recommendation

	for _, w := range state.Weaknesses {
		switch w.Type {
		case FindingSEO:
			recs = append(recs, Recommendation{
				Tactic:          "Implement Technical SEO Improvements",
				FunnelStage:     "Acquisition",
				Priority:        model.PriorityHigh,
				Rationale:       fmt.Sprintf("Your SEO score (%.0f/100) is below industry standard. Focus on technical optimizations.", w.Score),
				Effort:          5,
				Lift:            "15-20%",
				Timeline:        "4-6 weeks",
				KPIs:            []string{"Organic traffic", "Search rankings", "Click-through rate"},
				IndustryContext: "Technical SEO is foundation for visibility",
				Score:           2.5,
			})
		case FindingPerformance:
			recs = append(recs, Recommendation{
				Tactic:          "Optimize Core Web Vitals",
				FunnelStage:     "User Experience",
				Priority:        model.PriorityCritical,
				Rationale:       fmt.Sprintf("Performance score (%.0f/100) impacts user experience and SEO rankings.", w.Score),
				Effort:          8,
				Lift:            "12-18%",
				Timeline:        "2-3 months",
				KPIs:            []string{"Page speed", "Bounce rate", "Conversion rate"},
				IndustryContext: "Page speed directly correlates with conversion rate",
				Score:           2.2,
			})
		}
	}

	return recs
}
