package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/marketing-insights/internal/workbook"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <workbook.xlsx>",
	Short: "Validate a workbook and list its sheet inventory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		wb, err := workbook.Load(args[0])
		if err != nil {
			return eris.Wrap(err, "inspect")
		}

		formatInventory(os.Stdout, wb, wb.Validate())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
}

// formatInventory writes the validation verdict and a per-sheet table to out.
func formatInventory(out io.Writer, wb *workbook.Workbook, v workbook.Validation) {
	if v.Valid {
		_, _ = fmt.Fprintln(out, "Workbook is analyzable.")
	} else {
		_, _ = fmt.Fprintf(out, "Workbook is NOT analyzable: %s\n", v.Error)
	}
	for _, w := range v.Warnings {
		_, _ = fmt.Fprintf(out, "Warning: %s\n", w)
	}
	_, _ = fmt.Fprintf(out, "Sheets in file: %s\n\n", strings.Join(wb.SheetNames, ", "))

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEY\tSHEET\tSTATUS\tROWS\tCOLUMNS")
	_, _ = fmt.Fprintln(w, "---\t-----\t------\t----\t-------")
	for _, key := range workbook.Keys() {
		name := workbook.SheetMapping[key]
		t, ok := wb.Get(key)
		switch {
		case !ok:
			_, _ = fmt.Fprintf(w, "%s\t%s\tmissing\t-\t-\n", key, name)
		case t.IsEmpty():
			_, _ = fmt.Fprintf(w, "%s\t%s\tempty\t0\t%d\n", key, name, len(t.Columns))
		default:
			_, _ = fmt.Fprintf(w, "%s\t%s\tloaded\t%d\t%d\n", key, name, len(t.Rows), len(t.Columns))
		}
	}
	_ = w.Flush()
}
