package workbook

import (
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sells-group/marketing-insights/internal/model"
)

// Prepare transforms the workbook's cleaned sheets into the
// analysis-ready table set the engines consume. Keyword sheets gain
// Type, Total Clicks and per-domain share columns; web vitals gain a
// Company column; PPC spend gains totals and year-over-year growth;
// backlinks gain a Company column. Sheets are adjusted in place.
func (wb *Workbook) Prepare() map[string]model.Table {
	titler := cases.Title(language.English)
	prepared := make(map[string]model.Table, len(wb.Sheets))

	if t, ok := wb.Sheets[KeyTrafficData]; ok {
		prepared[KeyTrafficData] = t
	}
	if t, ok := wb.Sheets[KeyPPCSpend]; ok {
		prepared[KeyPPCSpend] = preparePPCSpend(t)
	}
	if t, ok := wb.Sheets[KeyTactics]; ok {
		prepared[KeyTactics] = t
	}
	if t, ok := wb.Sheets[KeyIEMatrix]; ok {
		prepared[KeyIEMatrix] = t
	}
	if t, ok := wb.Sheets[KeyWebVitals]; ok {
		prepared[KeyWebVitals] = prepareWebVitals(t, titler)
	}
	if t, ok := wb.Sheets[KeyKeywordsPaid]; ok {
		prepared[KeyKeywordsPaid] = prepareKeywords(t, model.KeywordTypePaid)
	}
	if t, ok := wb.Sheets[KeyKeywordsOrganic]; ok {
		prepared[KeyKeywordsOrganic] = prepareKeywords(t, model.KeywordTypeOrganic)
	}
	if t, ok := wb.Sheets[KeyBacklinks]; ok {
		prepared[KeyBacklinks] = prepareBacklinks(t, titler)
	}
	if t, ok := wb.Sheets[KeyLandingPages]; ok {
		prepared[KeyLandingPages] = t
	}

	zap.L().Info("workbook: prepared analysis tables", zap.Int("tables", len(prepared)))
	return prepared
}

// prepareKeywords tags rows with the report type and derives Total
// Clicks plus a per-domain traffic share column for every domain column.
func prepareKeywords(t model.Table, keywordType string) model.Table {
	if t.IsEmpty() {
		return t
	}

	t.EnsureColumn(model.ColType)
	for _, r := range t.Rows {
		r[model.ColType] = keywordType
	}

	var domainCols []string
	for _, col := range t.Columns {
		if model.IsDomainColumn(col) {
			domainCols = append(domainCols, col)
		}
	}
	if len(domainCols) == 0 {
		return t
	}

	t.EnsureColumn(model.ColTotalClicks)
	for _, col := range domainCols {
		t.EnsureColumn(col + model.ShareSuffix)
	}

	for _, r := range t.Rows {
		var total float64
		for _, col := range domainCols {
			total += r.Float(col)
		}
		r[model.ColTotalClicks] = total
		for _, col := range domainCols {
			var share float64
			if total > 0 {
				share = r.Float(col) / total * 100
			}
			r[col+model.ShareSuffix] = share
		}
	}

	zap.L().Info("workbook: prepared keyword sheet",
		zap.String("type", keywordType),
		zap.Int("rows", len(t.Rows)),
		zap.Int("domains", len(domainCols)),
	)
	return t
}

// prepareWebVitals normalizes the URL column (vendor exports put the
// page URL first) and derives a Company label from the host.
func prepareWebVitals(t model.Table, titler cases.Caser) model.Table {
	if t.IsEmpty() || len(t.Columns) == 0 {
		return t
	}

	if !t.HasColumn(model.ColURL) {
		old := t.Columns[0]
		t.Columns[0] = model.ColURL
		for _, r := range t.Rows {
			if v, ok := r[old]; ok {
				r[model.ColURL] = v
				delete(r, old)
			}
		}
	}

	t.EnsureColumn(model.ColCompany)
	for _, r := range t.Rows {
		r[model.ColCompany] = companyFromHost(r.String(model.ColURL), titler)
	}
	return t
}

// prepareBacklinks derives a Company label from the Domain column.
func prepareBacklinks(t model.Table, titler cases.Caser) model.Table {
	if t.IsEmpty() || !t.HasColumn(model.ColDomain) {
		return t
	}

	t.EnsureColumn(model.ColCompany)
	for _, r := range t.Rows {
		r[model.ColCompany] = companyFromHost(r.String(model.ColDomain), titler)
	}
	return t
}

// companyFromHost strips the scheme, takes the first dot-separated label
// and title-cases it.
func companyFromHost(url string, titler cases.Caser) string {
	host := strings.TrimPrefix(strings.TrimPrefix(url, "http://"), "https://")
	label, _, _ := strings.Cut(host, ".")
	return titler.String(label)
}

// preparePPCSpend derives Total Spend from the mobile and desktop
// columns, parses YearMonth into calendar fields, sorts rows
// chronologically and computes year-over-year spend growth where twelve
// months of history exist.
func preparePPCSpend(t model.Table) model.Table {
	if t.IsEmpty() {
		return t
	}

	if t.HasColumn(model.ColMobileSpend) && t.HasColumn(model.ColDesktopSpend) {
		t.EnsureColumn(model.ColTotalSpend)
		for _, r := range t.Rows {
			r[model.ColTotalSpend] = r.Float(model.ColMobileSpend) + r.Float(model.ColDesktopSpend)
		}
	}

	if !t.HasColumn(model.ColYearMonth) {
		return t
	}

	type stamped struct {
		row model.Row
		ts  time.Time
		ok  bool
	}
	stamps := make([]stamped, len(t.Rows))
	for i, r := range t.Rows {
		ts, ok := parseYearMonth(r[model.ColYearMonth])
		stamps[i] = stamped{row: r, ts: ts, ok: ok}
	}
	// Chronological order with unparseable dates last.
	sort.SliceStable(stamps, func(i, j int) bool {
		if stamps[i].ok != stamps[j].ok {
			return stamps[i].ok
		}
		return stamps[i].ts.Before(stamps[j].ts)
	})

	t.EnsureColumn(model.ColYear)
	t.EnsureColumn(model.ColMonth)
	t.EnsureColumn(model.ColMonthName)
	for i := range stamps {
		t.Rows[i] = stamps[i].row
		if !stamps[i].ok {
			continue
		}
		ts := stamps[i].ts
		stamps[i].row[model.ColYear] = float64(ts.Year())
		stamps[i].row[model.ColMonth] = float64(ts.Month())
		stamps[i].row[model.ColMonthName] = ts.Format("Jan 2006")
	}

	if t.HasColumn(model.ColTotalSpend) {
		t.EnsureColumn(model.ColSpendYoY)
		for i := 12; i < len(t.Rows); i++ {
			prev := t.Rows[i-12].Float(model.ColTotalSpend)
			if prev == 0 {
				continue
			}
			cur := t.Rows[i].Float(model.ColTotalSpend)
			t.Rows[i][model.ColSpendYoY] = (cur/prev - 1) * 100
		}
	}

	return t
}

// parseYearMonth accepts xlsx serial dates and a handful of common
// string layouts.
func parseYearMonth(v any) (time.Time, bool) {
	switch x := v.(type) {
	case float64:
		if x <= 0 {
			return time.Time{}, false
		}
		// Serial dates count days from 1899-12-30.
		base := time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)
		return base.AddDate(0, 0, int(x)), true
	case string:
		layouts := []string{
			"2006-01-02", "2006-01", "2006/01/02", "01/2006", "1/2006",
			"Jan 2006", "January 2006", "2006-01-02 15:04:05",
		}
		s := strings.TrimSpace(x)
		for _, layout := range layouts {
			if ts, err := time.Parse(layout, s); err == nil {
				return ts, true
			}
		}
	}
	return time.Time{}, false
}
