package workbook

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
	"go.uber.org/zap"

	"github.com/sells-group/marketing-insights/internal/model"
)

// Sheet keys used throughout the analysis pipeline.
const (
	KeyInputs          = "inputs"
	KeyDashView        = "dash_view"
	KeyBenchmarks      = "benchmarks"
	KeyTrafficData     = "traffic_data"
	KeyPPCSpend        = "ppc_spend"
	KeyDABacklinks     = "da_backlinks"
	KeyTactics         = "tactics"
	KeyVarosBenchmarks = "varos_benchmarks"
	KeyWebVitals       = "web_vitals"
	KeyCROVitals       = "cro_vitals"
	KeyMetaAds         = "meta_ads"
	KeyIEMatrix        = "ie_matrix"
	KeyBacklinks       = "backlinks"
	KeyLandingPages    = "landing_pages"
	KeyKeywordsPaid    = "keywords_paid"
	KeyKeywordsOrganic = "keywords_organic"
)

// SheetMapping maps internal sheet keys to the workbook sheet names
// exported by the reporting tools.
var SheetMapping = map[string]string{
	KeyInputs:          "Inputs",
	KeyDashView:        "dash view",
	KeyBenchmarks:      "Benchmarks",
	KeyTrafficData:     "Similarweb Lead Enrichment",
	KeyPPCSpend:        "Similarweb PPC Spend",
	KeyDABacklinks:     "Semrush DA & Backlinks Overview",
	KeyTactics:         "Low Hanging Fruit",
	KeyVarosBenchmarks: "Varos Benchmarks",
	KeyWebVitals:       "Core Web Vitals",
	KeyCROVitals:       "CRO Vitals",
	KeyMetaAds:         "Meta Ads",
	KeyIEMatrix:        "IE Matrix",
	KeyBacklinks:       "Semrush Backlinks Overview",
	KeyLandingPages:    "Similarweb Keywords - Landing P",
	KeyKeywordsPaid:    "Similarweb Keyword Report - pai",
	KeyKeywordsOrganic: "Similarweb Keyword Report - org",
}

// sheetKeyOrder fixes iteration order for logging and summaries.
var sheetKeyOrder = []string{
	KeyInputs, KeyDashView, KeyBenchmarks, KeyTrafficData, KeyPPCSpend,
	KeyDABacklinks, KeyTactics, KeyVarosBenchmarks, KeyWebVitals,
	KeyCROVitals, KeyMetaAds, KeyIEMatrix, KeyBacklinks, KeyLandingPages,
	KeyKeywordsPaid, KeyKeywordsOrganic,
}

// Workbook holds every sheet the loader could read, cleaned and keyed by
// internal name.
type Workbook struct {
	Sheets     map[string]model.Table `json:"sheets"`
	Missing    []string               `json:"missing,omitempty"`
	SheetNames []string               `json:"sheet_names"`
}

// Load reads a marketing workbook from disk.
func Load(path string) (*Workbook, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, eris.Wrap(err, "workbook: open file")
	}
	return fromFile(f), nil
}

// LoadBinary reads a marketing workbook from an in-memory xlsx payload,
// e.g. an HTTP upload.
func LoadBinary(data []byte) (*Workbook, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, eris.Wrap(err, "workbook: open binary")
	}
	return fromFile(f), nil
}

func fromFile(f *xlsx.File) *Workbook {
	wb := &Workbook{Sheets: make(map[string]model.Table, len(SheetMapping))}

	for _, sheet := range f.Sheets {
		wb.SheetNames = append(wb.SheetNames, sheet.Name)
	}

	for _, key := range sheetKeyOrder {
		name := SheetMapping[key]
		sheet, ok := f.Sheet[name]
		if !ok {
			zap.L().Warn("workbook: sheet not found", zap.String("sheet", name))
			wb.Missing = append(wb.Missing, key)
			continue
		}

		tbl := sheetToTable(sheet, key)
		wb.Sheets[key] = tbl
		zap.L().Info("workbook: loaded sheet",
			zap.String("sheet", name),
			zap.Int("rows", len(tbl.Rows)),
			zap.Int("columns", len(tbl.Columns)),
		)
	}

	return wb
}

// Get returns the sheet for the given key, reporting whether it loaded.
func (wb *Workbook) Get(key string) (model.Table, bool) {
	t, ok := wb.Sheets[key]
	return t, ok
}

// Keys returns every known sheet key in canonical order.
func Keys() []string {
	out := make([]string, len(sheetKeyOrder))
	copy(out, sheetKeyOrder)
	return out
}

// Available lists the keys of sheets that loaded with at least one data row.
func (wb *Workbook) Available() []string {
	var keys []string
	for _, key := range sheetKeyOrder {
		if t, ok := wb.Sheets[key]; ok && !t.IsEmpty() {
			keys = append(keys, key)
		}
	}
	return keys
}

// sheetToTable converts one worksheet into a cleaned table: the first row
// supplies headers, fully empty rows and columns are dropped, headers are
// trimmed and blank headers get an "Unnamed_<i>" placeholder.
func sheetToTable(sheet *xlsx.Sheet, name string) model.Table {
	if len(sheet.Rows) == 0 {
		return model.Table{Name: name}
	}

	header := sheet.Rows[0]
	rawCols := make([]string, len(header.Cells))
	for i, cell := range header.Cells {
		rawCols[i] = strings.TrimSpace(cell.String())
	}

	var data [][]any
	for _, row := range sheet.Rows[1:] {
		cells := make([]any, len(rawCols))
		empty := true
		for j := range rawCols {
			if j >= len(row.Cells) {
				continue
			}
			v := cellValue(row.Cells[j])
			cells[j] = v
			if v != nil {
				empty = false
			}
		}
		if !empty {
			data = append(data, cells)
		}
	}

	// Drop columns with neither a header nor any data.
	keep := make([]int, 0, len(rawCols))
	for j, col := range rawCols {
		used := col != ""
		for _, cells := range data {
			if used {
				break
			}
			if cells[j] != nil {
				used = true
			}
		}
		if used {
			keep = append(keep, j)
		}
	}

	cols := make([]string, 0, len(keep))
	seen := make(map[string]int, len(keep))
	for i, j := range keep {
		col := rawCols[j]
		if col == "" {
			col = fmt.Sprintf("%s_%d", model.UnnamedPrefix, i)
		}
		if n, dup := seen[col]; dup {
			seen[col] = n + 1
			col = fmt.Sprintf("%s_%d", col, n+1)
		} else {
			seen[col] = 1
		}
		cols = append(cols, col)
	}

	rows := make([]model.Row, 0, len(data))
	for _, cells := range data {
		r := make(model.Row, len(keep))
		for i, j := range keep {
			if cells[j] != nil {
				r[cols[i]] = cells[j]
			}
		}
		rows = append(rows, r)
	}

	return model.Table{Name: name, Columns: cols, Rows: rows}
}

// cellValue parses a cell into float64 when numeric, string otherwise,
// and nil when blank.
func cellValue(c *xlsx.Cell) any {
	s := strings.TrimSpace(c.String())
	if s == "" {
		return nil
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil {
		return f
	}
	return s
}
