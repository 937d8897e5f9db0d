package analysis

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/marketing-insights/internal/competitive"
	"github.com/sells-group/marketing-insights/internal/config"
	"github.com/sells-group/marketing-insights/internal/model"
	"github.com/sells-group/marketing-insights/internal/workbook"
)

func testConfig() *config.Config {
	return &config.Config{
		Competitive: competitive.DefaultConfig(),
		Recommend: config.RecommendConfig{
			Goals:              []string{"acquisition", "conversion"},
			MaxRecommendations: 10,
		},
		Session: config.SessionConfig{TTLMinutes: 60, SweepMinutes: 10},
	}
}

func analyzableWorkbook() *workbook.Workbook {
	return &workbook.Workbook{
		SheetNames: []string{"dash view", "Similarweb Lead Enrichment", "Low Hanging Fruit"},
		Sheets: map[string]model.Table{
			workbook.KeyTactics: {
				Name:    "tactics",
				Columns: []string{model.ColTacticName, model.ColTotalEffort, model.ColExpectedLift, model.ColFunnelStage},
				Rows: []model.Row{
					{model.ColTacticName: "SEO Audit", model.ColTotalEffort: 5.0, model.ColExpectedLift: 0.12, model.ColFunnelStage: "Acquisition"},
					{model.ColTacticName: "Landing Page Redesign", model.ColTotalEffort: 12.0, model.ColExpectedLift: 0.06, model.ColFunnelStage: "Conversion"},
				},
			},
			workbook.KeyIEMatrix: {
				Name:    "ie_matrix",
				Columns: []string{model.ColMarketingTactic, model.ColProjectedCost},
				Rows: []model.Row{
					{model.ColMarketingTactic: "SEO Audit", model.ColProjectedCost: 2000.0},
				},
			},
			workbook.KeyKeywordsOrganic: {
				Name:    "keywords_organic",
				Columns: []string{model.ColKeyword, model.ColSearchVolume, "acme.com", "rival.com"},
				Rows: []model.Row{
					{model.ColKeyword: "crm software", model.ColSearchVolume: 5000.0, "acme.com": 200.0, "rival.com": 50.0},
					{model.ColKeyword: "sales tools", model.ColSearchVolume: 2000.0, "rival.com": 400.0},
					{model.ColKeyword: "lead scoring", model.ColSearchVolume: 1000.0, "acme.com": 300.0},
				},
			},
			workbook.KeyWebVitals: {
				Name:    "web_vitals",
				Columns: []string{model.ColURL, model.ColPerformance, model.ColSEO},
				Rows: []model.Row{
					{model.ColURL: "https://acme.com", model.ColPerformance: 60.0, model.ColSEO: 80.0},
				},
			},
			workbook.KeyTrafficData: {
				Name:    "traffic_data",
				Columns: []string{model.ColYoYGrowth},
				Rows:    []model.Row{{model.ColYoYGrowth: 25.0}},
			},
		},
	}
}

func TestRun_EndToEnd(t *testing.T) {
	runner, err := New(testConfig())
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), analyzableWorkbook(), []string{" Acquisition "})
	require.NoError(t, err)

	assert.True(t, result.Validation.Valid)
	assert.Equal(t, []string{"acquisition"}, result.Goals)

	require.NotNil(t, result.Competitive)
	require.Len(t, result.Competitive.Competitors, 1)
	assert.Equal(t, "rival.com", result.Competitive.Competitors[0].Domain)
	assert.Equal(t, "acme.com", result.Competitive.Schema.Primary)

	assert.True(t, result.Tactics.HasColumn(model.ColPriorityScore))
	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "Landing Page Redesign")

	assert.Len(t, result.CurrentState.Opportunities, 1, "one quick-win tactic")
	assert.Len(t, result.CurrentState.Weaknesses, 2, "performance and SEO scores below benchmark")
	assert.Len(t, result.CurrentState.Strengths, 1, "traffic growth above 20%")

	require.Len(t, result.Recommendations, 2)
	assert.Equal(t, "SEO Audit", result.Recommendations[0].Tactic, "highest priority score first")
	assert.Equal(t, model.PriorityCritical, result.Recommendations[0].Priority)

	require.Len(t, result.Roadmap, 1, "critical quick win only; low priority drops out")
	assert.Equal(t, "Phase 1 (Month 1-2): Quick Wins", result.Roadmap[0].Label)

	assert.Len(t, result.Insights, 4)
	assert.GreaterOrEqual(t, result.DurationMS, int64(0))
}

func TestRun_EmptyWorkbook(t *testing.T) {
	runner, err := New(testConfig())
	require.NoError(t, err)

	result, err := runner.Run(context.Background(), &workbook.Workbook{Sheets: map[string]model.Table{}}, nil)
	require.NoError(t, err)

	assert.False(t, result.Validation.Valid)
	assert.Equal(t, []string{"acquisition", "conversion"}, result.Goals, "configured goals used when caller sends none")

	require.NotNil(t, result.Competitive)
	assert.Empty(t, result.Competitive.Competitors)
	assert.Empty(t, result.Recommendations)
	assert.Empty(t, result.Roadmap)
	require.Len(t, result.Insights, 1)
	assert.Equal(t, "Marketing Performance Analysis", result.Insights[0].Title)
}

func TestRun_CancelledContext(t *testing.T) {
	runner, err := New(testConfig())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = runner.Run(ctx, analyzableWorkbook(), nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_MissingIndustryFile(t *testing.T) {
	cfg := testConfig()
	cfg.Industry.ContextPath = filepath.Join(t.TempDir(), "nope.yaml")

	_, err := New(cfg)
	require.Error(t, err)
}

func TestRunFile(t *testing.T) {
	f := xlsx.NewFile()
	for name, rows := range map[string][][]string{
		"dash view":                  {{"Metric"}, {"Revenue"}},
		"Similarweb Lead Enrichment": {{"YoY Growth %"}, {"12"}},
		"Low Hanging Fruit":          {{"Tactics", "Total Effort", "Expected Lift %"}, {"Improve SEO", "4", "0.1"}},
	} {
		sheet, err := f.AddSheet(name)
		require.NoError(t, err)
		for _, rowData := range rows {
			row := sheet.AddRow()
			for _, cellData := range rowData {
				row.AddCell().SetString(cellData)
			}
		}
	}
	path := filepath.Join(t.TempDir(), "marketing.xlsx")
	require.NoError(t, f.Save(path))

	runner, err := New(testConfig())
	require.NoError(t, err)

	result, err := runner.RunFile(context.Background(), path, nil)
	require.NoError(t, err)
	assert.True(t, result.Validation.Valid)
	require.NotEmpty(t, result.Recommendations)
	assert.Equal(t, "Improve SEO", result.Recommendations[0].Tactic)
}

func TestRunFile_MissingFile(t *testing.T) {
	runner, err := New(testConfig())
	require.NoError(t, err)

	_, err = runner.RunFile(context.Background(), filepath.Join(t.TempDir(), "absent.xlsx"), nil)
	require.Error(t, err)
}

func TestRunFile_InvalidWorkbook(t *testing.T) {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("dash view")
	require.NoError(t, err)
	row := sheet.AddRow()
	row.AddCell().SetString("Metric")
	path := filepath.Join(t.TempDir(), "partial.xlsx")
	require.NoError(t, f.Save(path))

	runner, err := New(testConfig())
	require.NoError(t, err)

	_, err = runner.RunFile(context.Background(), path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not analyzable")
}

func TestNormalizeGoals(t *testing.T) {
	defaults := []string{"acquisition"}

	tests := []struct {
		name  string
		goals []string
		want  []string
	}{
		{"lowercased and trimmed", []string{" Conversion ", "LTV"}, []string{"conversion", "ltv"}},
		{"blank entries dropped", []string{"", "  ", "acquisition"}, []string{"acquisition"}},
		{"empty falls back to defaults", nil, defaults},
		{"all blank falls back to defaults", []string{" ", ""}, defaults},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizeGoals(tt.goals, defaults))
		})
	}
}
