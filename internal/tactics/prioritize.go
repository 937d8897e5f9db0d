// Package tactics merges the tactics sheet with the impact/effort
// matrix and ranks every row by expected lift per unit of effort.
package tactics

import (
	"math"

	"go.uber.org/zap"

	"github.com/sells-group/marketing-insights/internal/model"
)

// Result is the prioritized tactics table plus any data-quality
// warnings raised while merging.
type Result struct {
	Table    model.Table `json:"table"`
	Warnings []string    `json:"warnings,omitempty"`
}

// Prioritize merges the two tactic tables and scores each resulting
// row. Score columns are only added when their inputs exist in the
// merged table; rows missing an input score 0.
func Prioritize(tactics, matrix model.Table) Result {
	merged, warnings := Merge(tactics, matrix)
	if merged.IsEmpty() {
		return Result{Table: merged, Warnings: warnings}
	}

	if merged.HasColumn(model.ColExpectedLift) && merged.HasColumn(model.ColTotalEffort) {
		merged.EnsureColumn(model.ColPriorityScore)
		merged.EnsureColumn(model.ColPriorityCategory)
		for _, r := range merged.Rows {
			score := PriorityScore(r)
			r[model.ColPriorityScore] = score
			r[model.ColPriorityCategory] = string(Categorize(score))
		}
	}

	if merged.HasColumn(model.ColExpectedLift) && merged.HasColumn(model.ColProjectedCost) {
		merged.EnsureColumn(model.ColCostEfficiency)
		for _, r := range merged.Rows {
			r[model.ColCostEfficiency] = CostEfficiency(r)
		}
	}

	zap.L().Info("tactics: prioritized",
		zap.Int("rows", len(merged.Rows)),
		zap.Int("warnings", len(warnings)),
	)
	return Result{Table: merged, Warnings: warnings}
}

// PriorityScore rates a tactic as expected lift per unit of effort:
// (lift × 100) / max(effort, 1). Rows missing either input score 0.
func PriorityScore(r model.Row) float64 {
	lift, liftOK := r.FloatOK(model.ColExpectedLift)
	effort, effortOK := r.FloatOK(model.ColTotalEffort)
	if !liftOK || !effortOK {
		return 0
	}
	return lift * 100 / math.Max(effort, 1)
}

// CostEfficiency rates expected lift per projected dollar. Zero and
// missing costs divide by 1.
func CostEfficiency(r model.Row) float64 {
	lift, ok := r.FloatOK(model.ColExpectedLift)
	if !ok {
		return 0
	}
	return lift * 100 / math.Max(r.Float(model.ColProjectedCost), 1)
}

// Categorize buckets a priority score. Bins are right-closed: 0.5 is
// still Low, 1.0 still Medium, 2.0 still High; Critical starts
// strictly above 2.0.
func Categorize(score float64) model.Priority {
	switch {
	case score <= 0.5:
		return model.PriorityLow
	case score <= 1.0:
		return model.PriorityMedium
	case score <= 2.0:
		return model.PriorityHigh
	default:
		return model.PriorityCritical
	}
}
