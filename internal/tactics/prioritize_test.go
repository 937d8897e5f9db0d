package tactics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/marketing-insights/internal/model"
)

func tacticsFixture() model.Table {
	return model.Table{
		Name:    "tactics",
		Columns: []string{"Tactics", "Total Effort", "Expected Lift %"},
		Rows: []model.Row{
			{"Tactics": "SEO Audit", "Total Effort": 10.0, "Expected Lift %": 0.05},
			{"Tactics": "Landing Page Redesign", "Total Effort": 8.0, "Expected Lift %": 0.12},
			{"Tactics": "Internal Only", "Total Effort": 4.0, "Expected Lift %": 0.02},
		},
	}
}

func matrixFixture() model.Table {
	return model.Table{
		Name:    "ie_matrix",
		Columns: []string{"Marketing Tactic", "Projected Cost", "Focus (Funnel Stage)"},
		Rows: []model.Row{
			// Whitespace and casing drift on purpose.
			{"Marketing Tactic": "  seo audit ", "Projected Cost": 2000.0, "Focus (Funnel Stage)": "Acquisition"},
			{"Marketing Tactic": "Landing Page Redesign", "Projected Cost": 5000.0, "Focus (Funnel Stage)": "Conversion"},
			{"Marketing Tactic": "Matrix Only", "Projected Cost": 800.0, "Focus (Funnel Stage)": "LTV"},
		},
	}
}

func TestPriorityScore(t *testing.T) {
	tests := []struct {
		name string
		row  model.Row
		want float64
	}{
		{"typical", model.Row{"Expected Lift %": 0.05, "Total Effort": 10.0}, 0.5},
		{"zero effort divides by one", model.Row{"Expected Lift %": 0.1, "Total Effort": 0.0}, 10},
		{"missing lift", model.Row{"Total Effort": 10.0}, 0},
		{"missing effort", model.Row{"Expected Lift %": 0.1}, 0},
		{"empty row", model.Row{}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PriorityScore(tt.row))
		})
	}
}

func TestCostEfficiency(t *testing.T) {
	assert.Equal(t, 2.5, CostEfficiency(model.Row{"Expected Lift %": 0.05, "Projected Cost": 2.0}))
	assert.Equal(t, 5.0, CostEfficiency(model.Row{"Expected Lift %": 0.05, "Projected Cost": 0.0}),
		"zero cost divides by one")
	assert.Equal(t, 5.0, CostEfficiency(model.Row{"Expected Lift %": 0.05}),
		"missing cost divides by one")
	assert.Equal(t, 0.0, CostEfficiency(model.Row{"Projected Cost": 100.0}))
}

func TestCategorize(t *testing.T) {
	tests := []struct {
		score float64
		want  model.Priority
	}{
		{-1, model.PriorityLow},
		{0, model.PriorityLow},
		{0.5, model.PriorityLow}, // bin is right-closed
		{0.51, model.PriorityMedium},
		{1.0, model.PriorityMedium},
		{1.01, model.PriorityHigh},
		{2.0, model.PriorityHigh},
		{2.01, model.PriorityCritical},
		{10, model.PriorityCritical},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Categorize(tt.score), "score %v", tt.score)
	}
}

func TestMerge(t *testing.T) {
	merged, warnings := Merge(tacticsFixture(), matrixFixture())

	require.Len(t, merged.Rows, 4, "3 tactics plus 1 unmatched matrix row")
	assert.True(t, merged.HasColumn("Projected Cost"))
	assert.True(t, merged.HasColumn("Focus (Funnel Stage)"))

	// Normalized key matching joins despite whitespace/case drift.
	seo := merged.Rows[0]
	assert.Equal(t, "SEO Audit", seo.String(model.ColTacticName))
	assert.Equal(t, 2000.0, seo.Float(model.ColProjectedCost))
	assert.Equal(t, "Acquisition", seo.String(model.ColFunnelStage))

	// Unmatched tactic keeps its fields, matrix fields absent.
	internal := merged.Rows[2]
	assert.Equal(t, "Internal Only", internal.String(model.ColTacticName))
	assert.False(t, internal.Has(model.ColProjectedCost))

	// Unmatched matrix row appended last.
	matrixOnly := merged.Rows[3]
	assert.Equal(t, "Matrix Only", matrixOnly.String(model.ColMarketingTactic))
	assert.False(t, matrixOnly.Has(model.ColTacticName))

	require.Len(t, warnings, 2)
	assert.Contains(t, warnings[0], "Internal Only")
	assert.Contains(t, warnings[1], "Matrix Only")
}

func TestMerge_DuplicateMatrixKeys(t *testing.T) {
	tactics := model.Table{
		Columns: []string{"Tactics"},
		Rows:    []model.Row{{"Tactics": "SEO Audit"}},
	}
	matrix := model.Table{
		Columns: []string{"Marketing Tactic", "Projected Cost"},
		Rows: []model.Row{
			{"Marketing Tactic": "SEO Audit", "Projected Cost": 100.0},
			{"Marketing Tactic": "seo audit", "Projected Cost": 200.0},
		},
	}

	merged, warnings := Merge(tactics, matrix)
	require.Len(t, merged.Rows, 2, "duplicate matrix keys fan the tactic out")
	assert.Equal(t, 100.0, merged.Rows[0].Float("Projected Cost"))
	assert.Equal(t, 200.0, merged.Rows[1].Float("Projected Cost"))
	assert.Empty(t, warnings)
}

func TestMerge_NoMatrix(t *testing.T) {
	merged, warnings := Merge(tacticsFixture(), model.Table{})
	assert.Len(t, merged.Rows, 3)
	assert.Empty(t, warnings)
	assert.False(t, merged.HasColumn(model.ColProjectedCost))
}

func TestMerge_MissingKeyColumns(t *testing.T) {
	matrix := model.Table{
		Columns: []string{"Impact", "Effort"},
		Rows:    []model.Row{{"Impact": 3.0, "Effort": 2.0}},
	}

	merged, warnings := Merge(tacticsFixture(), matrix)
	assert.Len(t, merged.Rows, 3, "tactics pass through unmerged")
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "cannot merge")
}

func TestMerge_EmptyTactics(t *testing.T) {
	merged, warnings := Merge(model.Table{}, matrixFixture())
	assert.True(t, merged.IsEmpty())
	assert.Empty(t, warnings)
}

func TestMerge_DoesNotMutateInputs(t *testing.T) {
	tactics := tacticsFixture()
	matrix := matrixFixture()

	_, _ = Merge(tactics, matrix)

	assert.False(t, tactics.Rows[0].Has(model.ColProjectedCost))
	assert.Len(t, tactics.Columns, 3)
	assert.False(t, matrix.Rows[0].Has(model.ColTacticName))
}

func TestPrioritize(t *testing.T) {
	res := Prioritize(tacticsFixture(), matrixFixture())

	require.Len(t, res.Table.Rows, 4)
	assert.True(t, res.Table.HasColumn(model.ColPriorityScore))
	assert.True(t, res.Table.HasColumn(model.ColPriorityCategory))
	assert.True(t, res.Table.HasColumn(model.ColCostEfficiency))

	// SEO Audit: 0.05*100/10 = 0.5 -> Low (right-closed bin).
	seo := res.Table.Rows[0]
	assert.Equal(t, 0.5, seo.Float(model.ColPriorityScore))
	assert.Equal(t, "Low", seo.String(model.ColPriorityCategory))
	assert.Equal(t, 0.05*100/2000, seo.Float(model.ColCostEfficiency))

	// Landing Page Redesign: 0.12*100/8 = 1.5 -> High.
	lp := res.Table.Rows[1]
	assert.InDelta(t, 1.5, lp.Float(model.ColPriorityScore), 1e-9)
	assert.Equal(t, "High", lp.String(model.ColPriorityCategory))

	// Matrix-only row has no lift or effort -> score 0, Low.
	matrixOnly := res.Table.Rows[3]
	assert.Equal(t, 0.0, matrixOnly.Float(model.ColPriorityScore))
	assert.Equal(t, "Low", matrixOnly.String(model.ColPriorityCategory))
}

func TestPrioritize_ZeroEffortIsCritical(t *testing.T) {
	tactics := model.Table{
		Columns: []string{"Tactics", "Total Effort", "Expected Lift %"},
		Rows:    []model.Row{{"Tactics": "Free Win", "Total Effort": 0.0, "Expected Lift %": 0.1}},
	}

	res := Prioritize(tactics, model.Table{})
	require.Len(t, res.Table.Rows, 1)
	assert.Equal(t, 10.0, res.Table.Rows[0].Float(model.ColPriorityScore))
	assert.Equal(t, "Critical", res.Table.Rows[0].String(model.ColPriorityCategory))
}

func TestPrioritize_NoScoreColumnsWithoutInputs(t *testing.T) {
	tactics := model.Table{
		Columns: []string{"Tactics"},
		Rows:    []model.Row{{"Tactics": "Mystery"}},
	}

	res := Prioritize(tactics, model.Table{})
	assert.False(t, res.Table.HasColumn(model.ColPriorityScore))
	assert.False(t, res.Table.HasColumn(model.ColCostEfficiency))
}

func TestPrioritize_Empty(t *testing.T) {
	res := Prioritize(model.Table{}, model.Table{})
	assert.True(t, res.Table.IsEmpty())
	assert.Empty(t, res.Warnings)
}
