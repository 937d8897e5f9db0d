package tactics

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/sells-group/marketing-insights/internal/model"
)

// Merge outer-joins the tactics sheet with the impact/effort matrix on
// tactic name. Keys are trimmed and lower-cased before matching so
// spreadsheet whitespace and casing drift cannot drop rows; unmatched
// rows from either side survive with the other side's fields absent and
// are reported as data-quality warnings. Input tables are not mutated.
func Merge(tactics, matrix model.Table) (model.Table, []string) {
	out := model.Table{Name: "tactics_prioritized"}

	if tactics.IsEmpty() {
		zap.L().Warn("tactics: tactics table is empty")
		return out, nil
	}

	for _, c := range tactics.Columns {
		out.EnsureColumn(c)
	}

	if matrix.IsEmpty() {
		for _, r := range tactics.Rows {
			out.Rows = append(out.Rows, r.Clone())
		}
		return out, nil
	}

	if !tactics.HasColumn(model.ColTacticName) || !matrix.HasColumn(model.ColMarketingTactic) {
		for _, r := range tactics.Rows {
			out.Rows = append(out.Rows, r.Clone())
		}
		warning := fmt.Sprintf("cannot merge impact/effort matrix: need %q and %q columns",
			model.ColTacticName, model.ColMarketingTactic)
		zap.L().Warn("tactics: " + warning)
		return out, []string{warning}
	}

	for _, c := range matrix.Columns {
		out.EnsureColumn(c)
	}

	rightIdx := make(map[string][]int)
	for i, r := range matrix.Rows {
		if k := normalizeTacticName(r.String(model.ColMarketingTactic)); k != "" {
			rightIdx[k] = append(rightIdx[k], i)
		}
	}

	matched := make(map[int]bool)
	var unmatchedLeft []string
	for _, lr := range tactics.Rows {
		k := normalizeTacticName(lr.String(model.ColTacticName))
		idxs := rightIdx[k]
		if k == "" || len(idxs) == 0 {
			out.Rows = append(out.Rows, lr.Clone())
			if name := strings.TrimSpace(lr.String(model.ColTacticName)); name != "" {
				unmatchedLeft = append(unmatchedLeft, name)
			}
			continue
		}
		// Duplicate matrix keys fan out the tactic row, one merged row
		// per match.
		for _, ri := range idxs {
			matched[ri] = true
			row := lr.Clone()
			for col, v := range matrix.Rows[ri] {
				if _, exists := row[col]; !exists {
					row[col] = v
				}
			}
			out.Rows = append(out.Rows, row)
		}
	}

	var unmatchedRight []string
	for i, rr := range matrix.Rows {
		if matched[i] {
			continue
		}
		out.Rows = append(out.Rows, rr.Clone())
		if name := strings.TrimSpace(rr.String(model.ColMarketingTactic)); name != "" {
			unmatchedRight = append(unmatchedRight, name)
		}
	}

	var warnings []string
	if len(unmatchedLeft) > 0 {
		warnings = append(warnings, fmt.Sprintf("%d tactics have no impact/effort match: %s",
			len(unmatchedLeft), previewNames(unmatchedLeft)))
	}
	if len(unmatchedRight) > 0 {
		warnings = append(warnings, fmt.Sprintf("%d impact/effort rows have no tactics match: %s",
			len(unmatchedRight), previewNames(unmatchedRight)))
	}
	for _, w := range warnings {
		zap.L().Warn("tactics: " + w)
	}

	return out, warnings
}

func normalizeTacticName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func previewNames(names []string) string {
	if len(names) > 3 {
		names = names[:3]
	}
	return strings.Join(names, ", ")
}
