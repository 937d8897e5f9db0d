package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/marketing-insights/internal/analysis"
	"github.com/sells-group/marketing-insights/internal/competitive"
	"github.com/sells-group/marketing-insights/internal/model"
	"github.com/sells-group/marketing-insights/internal/recommend"
)

var (
	analyzeGoals   []string
	analyzeSection string
	analyzeFormat  string
	analyzeOutput  string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <workbook.xlsx>",
	Short: "Analyze a single marketing workbook",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		if err := cfg.Validate("analyze"); err != nil {
			return err
		}
		if err := competitive.ValidateConfig(cfg.Competitive); err != nil {
			return err
		}

		runner, err := analysis.New(cfg)
		if err != nil {
			return err
		}

		result, err := runner.RunFile(ctx, args[0], analyzeGoals)
		if err != nil {
			return eris.Wrap(err, "analyze")
		}

		out := io.Writer(os.Stdout)
		if analyzeOutput != "" {
			f, err := os.Create(analyzeOutput)
			if err != nil {
				return eris.Wrap(err, "analyze: create output file")
			}
			defer f.Close() //nolint:errcheck
			out = f
		}

		if err := renderResult(out, result, analyzeSection, analyzeFormat); err != nil {
			return err
		}

		if analyzeOutput != "" {
			zap.L().Info("analyze: result written",
				zap.String("path", analyzeOutput),
				zap.String("format", analyzeFormat),
			)
		}
		return nil
	},
}

func init() {
	analyzeCmd.Flags().StringSliceVar(&analyzeGoals, "goals", nil, "business goals to align recommendations to (e.g. acquisition,conversion)")
	analyzeCmd.Flags().StringVar(&analyzeSection, "section", "", "limit output to one section: competitors, gaps, tactics, recommendations, roadmap, insights")
	analyzeCmd.Flags().StringVar(&analyzeFormat, "format", "json", "output format: json or table")
	analyzeCmd.Flags().StringVar(&analyzeOutput, "output", "", "write output to file (default: stdout)")
	rootCmd.AddCommand(analyzeCmd)
}

// renderResult writes the chosen section of the result in the chosen format.
func renderResult(out io.Writer, result *analysis.Result, section, format string) error {
	switch format {
	case "json":
		payload, err := resultSection(result, section)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(payload)
	case "table":
		return renderTables(out, result, section)
	default:
		return eris.Errorf("analyze: unknown format %q", format)
	}
}

// resultSection picks one sub-view of the result, mirroring the HTTP
// section routes.
func resultSection(result *analysis.Result, section string) (any, error) {
	switch section {
	case "":
		return result, nil
	case "competitors":
		return result.Competitive.Competitors, nil
	case "gaps":
		return result.Competitive.Gaps, nil
	case "tactics":
		return result.Tactics, nil
	case "recommendations":
		return result.Recommendations, nil
	case "roadmap":
		return result.Roadmap, nil
	case "insights":
		return result.Insights, nil
	default:
		return nil, eris.Errorf("analyze: unknown section %q", section)
	}
}

func renderTables(out io.Writer, result *analysis.Result, section string) error {
	switch section {
	case "":
		formatSummary(out, result)
	case "competitors":
		formatCompetitors(out, result.Competitive.Competitors)
	case "gaps":
		formatGaps(out, result.Competitive.Gaps)
	case "tactics":
		formatTactics(out, result.Tactics)
	case "recommendations":
		formatRecommendations(out, result.Recommendations)
	case "roadmap":
		formatRoadmap(out, result.Roadmap)
	case "insights":
		formatInsights(out, result.Insights)
	default:
		return eris.Errorf("analyze: unknown section %q", section)
	}
	return nil
}

// formatSummary writes every section with a header, the human-readable
// counterpart of the full JSON result.
func formatSummary(out io.Writer, result *analysis.Result) {
	_, _ = fmt.Fprintf(out, "Goals:\t%s\n", strings.Join(result.Goals, ", "))
	_, _ = fmt.Fprintf(out, "Sheets loaded:\t%s\n", strings.Join(result.AvailableSheets, ", "))
	for _, w := range result.Warnings {
		_, _ = fmt.Fprintf(out, "Warning:\t%s\n", w)
	}

	_, _ = fmt.Fprintln(out, "\n== COMPETITORS ==")
	formatCompetitors(out, result.Competitive.Competitors)

	_, _ = fmt.Fprintln(out, "\n== KEYWORD GAPS ==")
	formatGaps(out, result.Competitive.Gaps)

	_, _ = fmt.Fprintln(out, "\n== RECOMMENDATIONS ==")
	formatRecommendations(out, result.Recommendations)

	_, _ = fmt.Fprintln(out, "\n== ROADMAP ==")
	formatRoadmap(out, result.Roadmap)

	_, _ = fmt.Fprintln(out, "\n== INSIGHTS ==")
	formatInsights(out, result.Insights)
}

// formatCompetitors writes a tabular competitor list to out.
func formatCompetitors(out io.Writer, comps []competitive.CompetitorProfile) {
	if len(comps) == 0 {
		_, _ = fmt.Fprintln(out, "No competitors identified.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "DOMAIN\tOVERLAP\tOVERLAP_PCT\tTRAFFIC_SHARE\tGAPS\tGAP_VOLUME\tINTENSITY")
	_, _ = fmt.Fprintln(w, "------\t-------\t-----------\t-------------\t----\t----------\t---------")
	for _, c := range comps {
		_, _ = fmt.Fprintf(w, "%s\t%d\t%.1f%%\t%.1f%%\t%d\t%d\t%.1f\n",
			c.Domain,
			c.KeywordOverlapCount,
			c.KeywordOverlapPct,
			c.TrafficShareOnOverlap,
			c.GapKeywordsCount,
			c.GapPotentialVolume,
			c.CompetitiveIntensity,
		)
	}
	_ = w.Flush()
}

// formatGaps writes the ranked keyword gap list to out.
func formatGaps(out io.Writer, gaps []competitive.KeywordGap) {
	if len(gaps) == 0 {
		_, _ = fmt.Fprintln(out, "No keyword gaps found.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "KEYWORD\tVOLUME\tCOMPETITOR\tTYPE\tOPPORTUNITY")
	_, _ = fmt.Fprintln(w, "-------\t------\t----------\t----\t-----------")
	for _, g := range gaps {
		_, _ = fmt.Fprintf(w, "%s\t%.0f\t%s\t%s\t%.0f\n",
			truncateText(g.Keyword, 40),
			g.SearchVolume,
			g.Competitor,
			g.Type,
			g.OpportunityScore,
		)
	}
	_ = w.Flush()
}

// formatTactics writes the prioritized tactics table to out.
func formatTactics(out io.Writer, t model.Table) {
	if t.IsEmpty() {
		_, _ = fmt.Fprintln(out, "No tactics loaded.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TACTIC\tEFFORT\tLIFT\tSCORE\tCATEGORY")
	_, _ = fmt.Fprintln(w, "------\t------\t----\t-----\t--------")
	for _, r := range t.Rows {
		name := r.String(model.ColMarketingTactic)
		if name == "" {
			name = r.String(model.ColTacticName)
		}
		_, _ = fmt.Fprintf(w, "%s\t%.0f\t%.1f%%\t%.2f\t%s\n",
			truncateText(name, 40),
			r.Float(model.ColTotalEffort),
			r.Float(model.ColExpectedLift)*100,
			r.Float(model.ColPriorityScore),
			r.String(model.ColPriorityCategory),
		)
	}
	_ = w.Flush()
}

// formatRecommendations writes the ranked recommendation list to out.
func formatRecommendations(out io.Writer, recs []recommend.Recommendation) {
	if len(recs) == 0 {
		_, _ = fmt.Fprintln(out, "No recommendations produced.")
		return
	}
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(w, "TACTIC\tPRIORITY\tEFFORT\tLIFT\tTIMELINE\tSCORE")
	_, _ = fmt.Fprintln(w, "------\t--------\t------\t----\t--------\t-----")
	for _, rec := range recs {
		_, _ = fmt.Fprintf(w, "%s\t%s\t%d/20\t%s\t%s\t%.2f\n",
			truncateText(rec.Tactic, 40),
			rec.Priority,
			rec.Effort,
			rec.Lift,
			rec.Timeline,
			rec.Score,
		)
	}
	_ = w.Flush()
}

// formatRoadmap writes the phased roadmap to out.
func formatRoadmap(out io.Writer, phases []recommend.RoadmapPhase) {
	if len(phases) == 0 {
		_, _ = fmt.Fprintln(out, "No roadmap phases.")
		return
	}
	for _, p := range phases {
		_, _ = fmt.Fprintln(out, p.Label)
		for _, item := range p.Items {
			_, _ = fmt.Fprintf(out, "  - %s (%s, %s)\n", item.Tactic, item.Priority, item.Timeline)
		}
	}
}

// formatInsights writes the executive insight tiles to out.
func formatInsights(out io.Writer, tiles []recommend.InsightTile) {
	for _, tile := range tiles {
		_, _ = fmt.Fprintf(out, "%s %s: %s\n", tile.Icon, tile.Title, tile.Description)
	}
}

// truncateText shortens long cell text for compact display.
func truncateText(s string, max int) string {
	if len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}
