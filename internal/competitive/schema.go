package competitive

import (
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/marketing-insights/internal/model"
)

// Schema maps the roles the engine needs onto the combined keyword
// table's columns. It is resolved once per analysis and passed into
// every downstream computation, so no stage rescans headers.
type Schema struct {
	KeywordColumn string   `json:"keyword_column,omitempty"`
	VolumeColumn  string   `json:"volume_column,omitempty"`
	TypeColumn    string   `json:"type_column,omitempty"`
	DomainColumns []string `json:"domain_columns,omitempty"`
	Primary       string   `json:"primary"`
	UsedFallback  bool     `json:"used_fallback,omitempty"`
}

// CompetitorDomains returns the domain columns other than the primary,
// in discovery order.
func (s Schema) CompetitorDomains() []string {
	var domains []string
	for _, d := range s.DomainColumns {
		if d != s.Primary {
			domains = append(domains, d)
		}
	}
	return domains
}

// ResolveSchema inspects the combined keyword table and fixes column
// roles. Domain columns are headers containing a period, excluding the
// search-volume column, placeholder headers and derived share columns.
// The primary company is the domain with the highest summed traffic;
// when no domain columns exist the configured fallback stands in.
func ResolveSchema(t model.Table, fallbackDomain string) Schema {
	var sch Schema
	if t.HasColumn(model.ColKeyword) {
		sch.KeywordColumn = model.ColKeyword
	}
	if t.HasColumn(model.ColSearchVolume) {
		sch.VolumeColumn = model.ColSearchVolume
	}
	if t.HasColumn(model.ColType) {
		sch.TypeColumn = model.ColType
	}

	for _, col := range t.Columns {
		if !model.IsDomainColumn(col) || col == model.ColSearchVolume ||
			strings.HasSuffix(col, model.ShareSuffix) {
			continue
		}
		sch.DomainColumns = append(sch.DomainColumns, col)
	}

	if len(sch.DomainColumns) == 0 {
		sch.Primary = fallbackDomain
		sch.UsedFallback = true
		zap.L().Warn("competitive: no domain columns found, using fallback primary",
			zap.String("domain", fallbackDomain))
		return sch
	}

	// Highest summed traffic wins; ties keep discovery order.
	best := sch.DomainColumns[0]
	bestSum := t.Sum(best)
	for _, col := range sch.DomainColumns[1:] {
		if sum := t.Sum(col); sum > bestSum {
			best, bestSum = col, sum
		}
	}
	sch.Primary = best

	zap.L().Info("competitive: identified primary company",
		zap.String("domain", best),
		zap.Int("domain_columns", len(sch.DomainColumns)),
	)
	return sch
}

// Combine unions the paid and organic keyword tables into one snapshot,
// tagging each row's report type. Input rows are copied, never mutated.
func Combine(paid, organic model.Table) model.Table {
	combined := model.Table{Name: "keywords_combined"}

	appendTyped := func(t model.Table, keywordType string) {
		if t.IsEmpty() {
			return
		}
		for _, col := range t.Columns {
			combined.EnsureColumn(col)
		}
		combined.EnsureColumn(model.ColType)
		for _, r := range t.Rows {
			row := r.Clone()
			if !row.Has(model.ColType) {
				row[model.ColType] = keywordType
			}
			combined.Rows = append(combined.Rows, row)
		}
	}

	appendTyped(paid, model.KeywordTypePaid)
	appendTyped(organic, model.KeywordTypeOrganic)
	return combined
}

// extractCompanyName turns a domain into a display label: the part
// before the first period, hyphens and underscores spaced out,
// title-cased.
func extractCompanyName(domain string) string {
	name, _, _ := strings.Cut(domain, ".")
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return cases.Title(language.English).String(name)
}
