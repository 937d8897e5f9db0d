//go:build !integration

package main

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/marketing-insights/internal/analysis"
	"github.com/sells-group/marketing-insights/internal/competitive"
	"github.com/sells-group/marketing-insights/internal/model"
	"github.com/sells-group/marketing-insights/internal/recommend"
)

func sampleResult() *analysis.Result {
	return &analysis.Result{
		Goals:           []string{"acquisition"},
		AvailableSheets: []string{"tactics", "keywords_organic"},
		Competitive: &competitive.Analysis{
			Competitors: []competitive.CompetitorProfile{
				{
					Domain:                "rival.com",
					KeywordOverlapCount:   12,
					KeywordOverlapPct:     40.0,
					TrafficShareOnOverlap: 55.5,
					GapKeywordsCount:      4,
					GapPotentialVolume:    8000,
					CompetitiveIntensity:  72.3,
				},
			},
			Gaps: []competitive.KeywordGap{
				{
					Keyword:          "sales tools",
					SearchVolume:     2000,
					Competitor:       "rival.com",
					Type:             "complete_gap",
					OpportunityScore: 2000,
				},
			},
		},
		Tactics: model.Table{
			Name:    "tactics",
			Columns: []string{model.ColTacticName, model.ColTotalEffort, model.ColExpectedLift, model.ColPriorityScore, model.ColPriorityCategory},
			Rows: []model.Row{
				{
					model.ColTacticName:       "SEO Audit",
					model.ColTotalEffort:      5.0,
					model.ColExpectedLift:     0.12,
					model.ColPriorityScore:    2.4,
					model.ColPriorityCategory: "Critical",
				},
			},
		},
		Recommendations: []recommend.Recommendation{
			{
				Tactic:   "SEO Audit",
				Priority: model.PriorityCritical,
				Effort:   5,
				Lift:     "12%",
				Timeline: "3-4 weeks",
				Score:    2.4,
			},
		},
		Roadmap: []recommend.RoadmapPhase{
			{
				Label: "Phase 1 (Month 1-2): Quick Wins",
				Items: []recommend.Recommendation{
					{Tactic: "SEO Audit", Priority: model.PriorityCritical, Timeline: "3-4 weeks"},
				},
			},
		},
		Insights: []recommend.InsightTile{
			{Icon: "📊", Title: "Data Overview", Description: "1 marketing tactics analyzed."},
		},
	}
}

func TestFormatCompetitors(t *testing.T) {
	var buf bytes.Buffer
	formatCompetitors(&buf, sampleResult().Competitive.Competitors)

	output := buf.String()
	assert.Contains(t, output, "DOMAIN")
	assert.Contains(t, output, "INTENSITY")
	assert.Contains(t, output, "rival.com")
	assert.Contains(t, output, "40.0%")
	assert.Contains(t, output, "72.3")
}

func TestFormatCompetitors_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatCompetitors(&buf, nil)
	assert.Contains(t, buf.String(), "No competitors identified.")
}

func TestFormatGaps(t *testing.T) {
	var buf bytes.Buffer
	formatGaps(&buf, sampleResult().Competitive.Gaps)

	output := buf.String()
	assert.Contains(t, output, "KEYWORD")
	assert.Contains(t, output, "sales tools")
	assert.Contains(t, output, "complete_gap")
}

func TestFormatTactics(t *testing.T) {
	var buf bytes.Buffer
	formatTactics(&buf, sampleResult().Tactics)

	output := buf.String()
	assert.Contains(t, output, "TACTIC")
	assert.Contains(t, output, "SEO Audit")
	assert.Contains(t, output, "12.0%")
	assert.Contains(t, output, "Critical")
}

func TestFormatTactics_Empty(t *testing.T) {
	var buf bytes.Buffer
	formatTactics(&buf, model.Table{})
	assert.Contains(t, buf.String(), "No tactics loaded.")
}

func TestFormatRecommendations(t *testing.T) {
	var buf bytes.Buffer
	formatRecommendations(&buf, sampleResult().Recommendations)

	output := buf.String()
	assert.Contains(t, output, "PRIORITY")
	assert.Contains(t, output, "SEO Audit")
	assert.Contains(t, output, "5/20")
	assert.Contains(t, output, "3-4 weeks")
}

func TestFormatRoadmap(t *testing.T) {
	var buf bytes.Buffer
	formatRoadmap(&buf, sampleResult().Roadmap)

	output := buf.String()
	assert.Contains(t, output, "Phase 1 (Month 1-2): Quick Wins")
	assert.Contains(t, output, "  - SEO Audit (Critical, 3-4 weeks)")
}

func TestFormatInsights(t *testing.T) {
	var buf bytes.Buffer
	formatInsights(&buf, sampleResult().Insights)
	assert.Contains(t, buf.String(), "Data Overview: 1 marketing tactics analyzed.")
}

func TestFormatSummary(t *testing.T) {
	var buf bytes.Buffer
	formatSummary(&buf, sampleResult())

	output := buf.String()
	assert.Contains(t, output, "Goals:\tacquisition")
	assert.Contains(t, output, "== COMPETITORS ==")
	assert.Contains(t, output, "== RECOMMENDATIONS ==")
	assert.Contains(t, output, "== ROADMAP ==")
	assert.Contains(t, output, "rival.com")
	assert.Contains(t, output, "SEO Audit")
}

func TestResultSection(t *testing.T) {
	result := sampleResult()

	tests := []struct {
		name    string
		section string
		want    any
	}{
		{"full result", "", result},
		{"competitors", "competitors", result.Competitive.Competitors},
		{"gaps", "gaps", result.Competitive.Gaps},
		{"tactics", "tactics", result.Tactics},
		{"recommendations", "recommendations", result.Recommendations},
		{"roadmap", "roadmap", result.Roadmap},
		{"insights", "insights", result.Insights},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload, err := resultSection(result, tt.section)
			require.NoError(t, err)
			assert.Equal(t, tt.want, payload)
		})
	}
}

func TestResultSection_Unknown(t *testing.T) {
	_, err := resultSection(sampleResult(), "nonsense")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown section")
}

func TestRenderResult_JSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, renderResult(&buf, sampleResult(), "recommendations", "json"))

	var recs []recommend.Recommendation
	require.NoError(t, json.Unmarshal(buf.Bytes(), &recs))
	require.Len(t, recs, 1)
	assert.Equal(t, "SEO Audit", recs[0].Tactic)
}

func TestRenderResult_UnknownFormat(t *testing.T) {
	var buf bytes.Buffer
	err := renderResult(&buf, sampleResult(), "", "xml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown format")
}

func TestTruncateText(t *testing.T) {
	assert.Equal(t, "short", truncateText("short", 10))
	assert.Equal(t, "exactlyten", truncateText("exactlyten", 10))
	assert.Equal(t, "this is...", truncateText("this is a very long tactic name", 10))
}
