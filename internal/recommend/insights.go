package recommend

import (
	"fmt"
	"strings"

	"github.com/sells-group/marketing-insights/internal/model"
)

// InsightTile is one executive-summary card: an icon, a short headline
// and an accent color for the presentation layer.
type InsightTile struct {
	Icon        string `json:"icon"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Color       string `json:"color"`
}

const maxInsightTiles = 4

// ExecutiveInsights condenses the current-state findings into at most
// four headline tiles. When no findings and no data are present it
// returns a single generic tile so the summary is never blank.
func ExecutiveInsights(state CurrentState, tacticsTable, keywordsOrganic model.Table) []InsightTile {
	var tiles []InsightTile

	if len(state.Strengths) > 0 {
		tiles = append(tiles, InsightTile{
			Icon:        "✅",
			Title:       "Strong Foundation",
			Description: joinMessages(state.Strengths[:min(2, len(state.Strengths))]),
			Color:       "#667eea",
		})
	}

	if len(state.Opportunities) > 0 {
		tiles = append(tiles, InsightTile{
			Icon:        "🎯",
			Title:       "Growth Opportunities",
			Description: opportunityMessages(state.Opportunities[:min(2, len(state.Opportunities))]),
			Color:       "#2ecc71",
		})
	}

	if len(state.Weaknesses) > 0 {
		tiles = append(tiles, InsightTile{
			Icon:        "⚠️",
			Title:       "Areas for Improvement",
			Description: joinMessages(state.Weaknesses[:min(2, len(state.Weaknesses))]),
			Color:       "#f39c12",
		})
	}

	if !tacticsTable.IsEmpty() || !keywordsOrganic.IsEmpty() {
		var parts []string
		if !tacticsTable.IsEmpty() {
			parts = append(parts, fmt.Sprintf("%d marketing tactics analyzed", len(tacticsTable.Rows)))
		}
		if !keywordsOrganic.IsEmpty() {
			parts = append(parts, fmt.Sprintf("%d keywords tracked", len(keywordsOrganic.Rows)))
		}
		tiles = append(tiles, InsightTile{
			Icon:        "📊",
			Title:       "Data Overview",
			Description: strings.Join(parts, ", ") + ". Analysis completed to identify high-impact opportunities.",
			Color:       "#3498db",
		})
	}

	if len(tiles) == 0 {
		tiles = append(tiles, InsightTile{
			Icon:        "📈",
			Title:       "Marketing Performance Analysis",
			Description: "Your data has been analyzed. Review the detailed channel results to see specific metrics and recommendations.",
			Color:       "#667eea",
		})
	}

	if len(tiles) > maxInsightTiles {
		tiles = tiles[:maxInsightTiles]
	}
	return tiles
}

func joinMessages(findings []Finding) string {
	msgs := make([]string, 0, len(findings))
	for _, f := range findings {
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, " ")
}

// opportunityMessages phrases quick-win findings with their tactic
// count; other opportunity types carry their own message.
func opportunityMessages(findings []Finding) string {
	msgs := make([]string, 0, len(findings))
	for _, f := range findings {
		if f.Type == FindingQuickWins {
			msgs = append(msgs, fmt.Sprintf("Identified %d quick-win tactics with low effort and high impact", f.Count))
			continue
		}
		msgs = append(msgs, f.Message)
	}
	return strings.Join(msgs, " ")
}
