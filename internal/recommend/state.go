// Package recommend turns the prioritized tactics table and raw
// performance tables into ranked recommendations, a phased
// implementation roadmap and executive insight tiles.
package recommend

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/sells-group/marketing-insights/internal/model"
)

// Finding is one classified observation about current performance. The
// populated fields depend on Type: vitals findings carry Score,
// traffic findings Growth, quick-win findings Count and Tactics.
type Finding struct {
	Type    string   `json:"type"`
	Score   float64  `json:"score,omitempty"`
	Growth  float64  `json:"growth,omitempty"`
	Count   int      `json:"count,omitempty"`
	Tactics []string `json:"tactics,omitempty"`
	Message string   `json:"message,omitempty"`
}

// Finding types.
const (
	FindingQuickWins      = "quick_wins"
	FindingPerformance    = "performance"
	FindingSEO            = "seo"
	FindingTrafficDecline = "traffic_decline"
	FindingTrafficGrowth  = "traffic_growth"
)

// CurrentState classifies what is working, what is not, and where the
// data shows untapped opportunity.
type CurrentState struct {
	Strengths     []Finding `json:"strengths"`
	Weaknesses    []Finding `json:"weaknesses"`
	Opportunities []Finding `json:"opportunities"`
}

// Sources are the tables the recommendation engine reads. Tactics is
// the merged, prioritized table; the rest are prepared sheets. Any of
// them may be empty — the affected analysis category is skipped.
type Sources struct {
	Tactics         model.Table
	WebVitals       model.Table
	Traffic         model.Table
	KeywordsOrganic model.Table
}

// AnalyzeCurrentState scans the sources and classifies findings.
// Missing tables and columns skip their category; they are never an
// error.
func AnalyzeCurrentState(src Sources) CurrentState {
	var state CurrentState

	if !src.Tactics.IsEmpty() &&
		src.Tactics.HasColumn(model.ColTotalEffort) && src.Tactics.HasColumn(model.ColExpectedLift) {
		var names []string
		var count int
		for _, r := range src.Tactics.Rows {
			effort, effortOK := r.FloatOK(model.ColTotalEffort)
			lift, liftOK := r.FloatOK(model.ColExpectedLift)
			if !effortOK || !liftOK || effort >= 10 || lift <= 0.005 {
				continue
			}
			count++
			if src.Tactics.HasColumn(model.ColMarketingTactic) {
				names = append(names, r.String(model.ColMarketingTactic))
			}
		}
		if count > 0 {
			state.Opportunities = append(state.Opportunities, Finding{
				Type:    FindingQuickWins,
				Count:   count,
				Tactics: names,
			})
		}
	}

	if !src.WebVitals.IsEmpty() {
		if avg, ok := src.WebVitals.MeanOK(model.ColPerformance); ok {
			switch {
			case avg < 70:
				state.Weaknesses = append(state.Weaknesses, Finding{
					Type:    FindingPerformance,
					Score:   avg,
					Message: fmt.Sprintf("Performance score (%.0f/100) needs improvement", avg),
				})
			case avg > 85:
				state.Strengths = append(state.Strengths, Finding{
					Type:    FindingPerformance,
					Score:   avg,
					Message: fmt.Sprintf("Strong performance score (%.0f/100)", avg),
				})
			}
		}
		if avg, ok := src.WebVitals.MeanOK(model.ColSEO); ok {
			switch {
			case avg < 85:
				state.Weaknesses = append(state.Weaknesses, Finding{
					Type:    FindingSEO,
					Score:   avg,
					Message: fmt.Sprintf("SEO score (%.0f/100) below industry standard", avg),
				})
			case avg > 92:
				state.Strengths = append(state.Strengths, Finding{
					Type:    FindingSEO,
					Score:   avg,
					Message: fmt.Sprintf("Excellent SEO score (%.0f/100)", avg),
				})
			}
		}
	}

	if !src.Traffic.IsEmpty() {
		if avg, ok := src.Traffic.MeanOK(model.ColYoYGrowth); ok {
			switch {
			case avg < 0:
				state.Weaknesses = append(state.Weaknesses, Finding{
					Type:    FindingTrafficDecline,
					Growth:  avg,
					Message: fmt.Sprintf("Negative traffic growth (%.1f%%)", avg),
				})
			case avg > 20:
				state.Strengths = append(state.Strengths, Finding{
					Type:    FindingTrafficGrowth,
					Growth:  avg,
					Message: fmt.Sprintf("Strong traffic growth (%.1f%%)", avg),
				})
			}
		}
	}

	zap.L().Debug("recommend: analyzed current state",
		zap.Int("strengths", len(state.Strengths)),
		zap.Int("weaknesses", len(state.Weaknesses)),
		zap.Int("opportunities", len(state.Opportunities)),
	)
	return state
}
