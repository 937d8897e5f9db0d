package workbook

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/marketing-insights/internal/model"
)

// RequiredSheets must be present for an upload to be analyzable.
var RequiredSheets = []string{
	"dash view",
	"Similarweb Lead Enrichment",
	"Low Hanging Fruit",
}

// Validation summarizes the structural check of an uploaded workbook.
type Validation struct {
	Valid         bool     `json:"valid"`
	Error         string   `json:"error,omitempty"`
	Warnings      []string `json:"warnings,omitempty"`
	SheetsFound   []string `json:"sheets_found"`
	SheetsMissing []string `json:"sheets_missing"`
}

// Validate checks that the workbook carries the required sheets and
// reports which of the expected sheets are present. Missing optional
// sheets degrade features and only produce a warning.
func (wb *Workbook) Validate() Validation {
	present := make(map[string]bool, len(wb.SheetNames))
	for _, name := range wb.SheetNames {
		present[name] = true
	}

	var missingRequired []string
	for _, name := range RequiredSheets {
		if !present[name] {
			missingRequired = append(missingRequired, name)
		}
	}
	if len(missingRequired) > 0 {
		return Validation{
			Valid: false,
			Error: fmt.Sprintf("missing required sheets: %s", strings.Join(missingRequired, ", ")),
		}
	}

	v := Validation{Valid: true}
	var missingOptional []string
	for _, key := range sheetKeyOrder {
		name := SheetMapping[key]
		if present[name] {
			v.SheetsFound = append(v.SheetsFound, name)
		} else {
			v.SheetsMissing = append(v.SheetsMissing, name)
			missingOptional = append(missingOptional, name)
		}
	}

	if len(missingOptional) > 0 {
		head := missingOptional
		if len(head) > 3 {
			head = head[:3]
		}
		v.Warnings = append(v.Warnings, fmt.Sprintf(
			"missing optional sheets (some features may be limited): %s",
			strings.Join(head, ", "),
		))
	}

	return v
}

// ValidateSheetData checks that a loaded sheet holds usable data rows.
func ValidateSheetData(t model.Table, sheetName string) error {
	if t.IsEmpty() {
		return eris.Errorf("workbook: %s is empty", sheetName)
	}
	if len(t.Rows) <= 1 {
		return eris.Errorf("workbook: %s has no data rows (only headers)", sheetName)
	}
	return nil
}
