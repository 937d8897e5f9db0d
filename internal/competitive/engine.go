// Package competitive derives the competitive landscape from keyword
// overlap data: which domains compete with the primary company, where
// the keyword gaps are, and which tactics those gaps justify.
package competitive

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sells-group/marketing-insights/internal/config"
	"github.com/sells-group/marketing-insights/internal/model"
)

// CompetitorProfile describes one rival domain's overlap with the
// primary company.
type CompetitorProfile struct {
	Domain                string   `json:"domain"`
	CompanyName           string   `json:"company_name"`
	KeywordOverlapCount   int      `json:"keyword_overlap_count"`
	KeywordOverlapPct     float64  `json:"keyword_overlap_pct"`
	TrafficShareOnOverlap float64  `json:"traffic_share_on_overlap"`
	GapKeywordsCount      int      `json:"gap_keywords_count"`
	GapPotentialVolume    int64    `json:"gap_potential_volume"`
	CompetitiveIntensity  float64  `json:"competitive_intensity"`
	TopGapKeywords        []string `json:"top_gap_keywords,omitempty"`
}

// KeywordGap is a keyword a competitor wins traffic on while the
// primary company has none.
type KeywordGap struct {
	Keyword           string  `json:"keyword"`
	SearchVolume      float64 `json:"search_volume"`
	Competitor        string  `json:"competitor"`
	CompetitorTraffic float64 `json:"competitor_traffic"`
	Type              string  `json:"type"`
	OpportunityScore  float64 `json:"opportunity_score"`
}

// GapTactic is a tactic template instantiated from the gap analysis.
type GapTactic struct {
	Tactic                  string         `json:"tactic"`
	Category                string         `json:"category"`
	Priority                model.Priority `json:"priority"`
	Rationale               string         `json:"rationale"`
	CompetitiveContext      string         `json:"competitive_context"`
	GapType                 string         `json:"gap_type"`
	Keywords                []string       `json:"keywords,omitempty"`
	Effort                  int            `json:"effort"`
	Timeline                string         `json:"timeline"`
	ExpectedLift            string         `json:"expected_lift"`
	KPIs                    []string       `json:"kpis"`
	ImplementationSteps     []string       `json:"implementation_steps,omitempty"`
	CompetitiveIntelligence string         `json:"competitive_intelligence,omitempty"`
}

// Summary aggregates the competitive landscape for reporting.
type Summary struct {
	PrimaryCompany          string              `json:"primary_company"`
	CompetitorCount         int                 `json:"competitor_count"`
	TopCompetitors          []CompetitorProfile `json:"top_competitors"`
	TotalKeywordGaps        int                 `json:"total_keyword_gaps"`
	TotalGapPotentialVolume float64             `json:"total_gap_potential_volume"`
	AvgCompetitiveIntensity float64             `json:"avg_competitive_intensity"`
}

// Analysis is the immutable result of one competitive intelligence run.
type Analysis struct {
	Schema      Schema              `json:"schema"`
	Competitors []CompetitorProfile `json:"competitors"`
	Gaps        []KeywordGap        `json:"keyword_gaps"`
	Tactics     []GapTactic         `json:"tactics"`
	Summary     Summary             `json:"summary"`
}

// Analyze runs the full competitive pipeline over the paid and organic
// keyword tables: combine, resolve the schema once, profile
// competitors, rank gaps, instantiate tactics and summarize. The input
// tables are never mutated.
func Analyze(paid, organic model.Table, cfg config.CompetitiveConfig) *Analysis {
	combined := Combine(paid, organic)
	sch := ResolveSchema(combined, cfg.FallbackDomain)
	competitors := Competitors(combined, sch, cfg)
	allGaps := KeywordGaps(combined, sch, competitors, cfg)

	gaps := allGaps
	if cfg.MaxGapOpportunities > 0 && len(gaps) > cfg.MaxGapOpportunities {
		gaps = gaps[:cfg.MaxGapOpportunities]
	}

	return &Analysis{
		Schema:      sch,
		Competitors: competitors,
		Gaps:        gaps,
		Tactics:     Tactics(competitors, allGaps, cfg.MaxTactics),
		Summary:     Summarize(sch, competitors, allGaps, cfg.TopCompetitors),
	}
}

// Competitors profiles every domain column other than the primary and
// orders the result by competitive intensity, descending. An empty
// result means the keyword data named no rival domains.
func Competitors(combined model.Table, sch Schema, cfg config.CompetitiveConfig) []CompetitorProfile {
	if combined.IsEmpty() || len(sch.DomainColumns) == 0 {
		zap.L().Warn("competitive: no keyword data available for competitor identification")
		return nil
	}

	total := len(combined.Rows)
	var profiles []CompetitorProfile

	for _, domain := range sch.CompetitorDomains() {
		var overlapCount, gapCount int
		var primaryTraffic, compTraffic, gapVolume float64
		var topGaps []string

		for _, r := range combined.Rows {
			p := r.Float(sch.Primary)
			c := r.Float(domain)
			switch {
			case p > 0 && c > 0:
				overlapCount++
				primaryTraffic += p
				compTraffic += c
			case p == 0 && c > 0:
				gapCount++
				if sch.VolumeColumn != "" {
					gapVolume += r.Float(sch.VolumeColumn)
				}
				if sch.KeywordColumn != "" && len(topGaps) < 10 {
					topGaps = append(topGaps, r.String(sch.KeywordColumn))
				}
			}
		}

		var overlapPct float64
		if total > 0 {
			overlapPct = float64(overlapCount) / float64(total) * 100
		}
		var share float64
		if t := primaryTraffic + compTraffic; t > 0 {
			share = compTraffic / t * 100
		}
		if sch.VolumeColumn == "" {
			gapVolume = float64(gapCount) * cfg.GapVolumeMultiplier
		}

		profiles = append(profiles, CompetitorProfile{
			Domain:                domain,
			CompanyName:           extractCompanyName(domain),
			KeywordOverlapCount:   overlapCount,
			KeywordOverlapPct:     round1(overlapPct),
			TrafficShareOnOverlap: round1(share),
			GapKeywordsCount:      gapCount,
			GapPotentialVolume:    int64(gapVolume),
			CompetitiveIntensity:  intensity(overlapPct, share, gapCount),
			TopGapKeywords:        topGaps,
		})
	}

	sortByIntensity(profiles)

	zap.L().Info("competitive: identified competitors", zap.Int("count", len(profiles)))
	return profiles
}

// intensity scores how directly a domain competes, 0-100. Overlap
// breadth carries 40 points (maxed at 80% overlap), traffic dominance
// on shared keywords 30 (maxed at 50% share) and gap opportunity 30
// (maxed at 20 gaps).
func intensity(overlapPct, trafficShare float64, gapCount int) float64 {
	overlap := math.Min(overlapPct/80*40, 40)
	traffic := math.Min(trafficShare/50*30, 30)
	gaps := math.Min(float64(gapCount)/20*30, 30)
	return round1(overlap + traffic + gaps)
}

// KeywordGaps collects high-volume gap keywords for the strongest
// competitors: per competitor the top gaps by search volume, then the
// whole set ranked by opportunity score. Requires a search-volume
// column; without one there is nothing to rank.
func KeywordGaps(combined model.Table, sch Schema, competitors []CompetitorProfile, cfg config.CompetitiveConfig) []KeywordGap {
	if combined.IsEmpty() || sch.VolumeColumn == "" {
		return nil
	}

	top := competitors
	if cfg.TopCompetitors > 0 && len(top) > cfg.TopCompetitors {
		top = top[:cfg.TopCompetitors]
	}

	var gaps []KeywordGap
	for _, comp := range top {
		var rows []model.Row
		for _, r := range combined.Rows {
			if r.Float(sch.Primary) == 0 && r.Float(comp.Domain) > 0 {
				rows = append(rows, r)
			}
		}

		sort.SliceStable(rows, func(i, j int) bool {
			return rows[i].Float(sch.VolumeColumn) > rows[j].Float(sch.VolumeColumn)
		})
		if cfg.GapsPerCompetitor > 0 && len(rows) > cfg.GapsPerCompetitor {
			rows = rows[:cfg.GapsPerCompetitor]
		}

		for _, r := range rows {
			gaps = append(gaps, KeywordGap{
				Keyword:           r.String(sch.KeywordColumn),
				SearchVolume:      r.Float(sch.VolumeColumn),
				Competitor:        comp.CompanyName,
				CompetitorTraffic: r.Float(comp.Domain),
				Type:              gapType(r, sch),
				OpportunityScore:  opportunityScore(r.Float(sch.VolumeColumn), r.Float(comp.Domain)),
			})
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		return gaps[i].OpportunityScore > gaps[j].OpportunityScore
	})

	zap.L().Info("competitive: ranked keyword gaps", zap.Int("count", len(gaps)))
	return gaps
}

func gapType(r model.Row, sch Schema) string {
	if sch.TypeColumn != "" {
		if s := r.String(sch.TypeColumn); s != "" {
			return s
		}
	}
	return model.KeywordTypeOrganic
}

// opportunityScore values a gap keyword 0-100: search volume carries 50
// points (maxed at 10K) and the competitor's traffic on it another 50
// (maxed at 1K).
func opportunityScore(volume, competitorTraffic float64) float64 {
	volumeScore := math.Min(volume/10000*50, 50)
	trafficScore := math.Min(competitorTraffic/1000*50, 50)
	return volumeScore + trafficScore
}

// Tactics instantiates up to limit tactic templates from the gap
// analysis: a content cluster around the strongest gap keywords, and a
// share-reclaim push against the top competitor.
func Tactics(competitors []CompetitorProfile, gaps []KeywordGap, limit int) []GapTactic {
	var tactics []GapTactic
	p := message.NewPrinter(language.English)

	if len(gaps) > 0 {
		top := gaps
		if len(top) > 10 {
			top = top[:10]
		}
		keywords := make([]string, 0, len(top))
		var totalVolume float64
		for _, g := range top {
			keywords = append(keywords, g.Keyword)
			totalVolume += g.SearchVolume
		}

		leader := "competitors"
		if len(competitors) > 0 {
			leader = competitors[0].CompanyName
		}

		clusterKeywords := keywords
		if len(clusterKeywords) > 5 {
			clusterKeywords = clusterKeywords[:5]
		}
		contentTargets := keywords
		if len(contentTargets) > 3 {
			contentTargets = contentTargets[:3]
		}

		tactics = append(tactics, GapTactic{
			Tactic:   fmt.Sprintf("Target '%s' keyword cluster", keywords[0]),
			Category: "SEO/Content",
			Priority: model.PriorityCritical,
			Rationale: p.Sprintf("%s dominates %d high-volume keywords where you have no presence. Combined search volume: %d/month.",
				leader, len(top), int64(totalVolume)),
			CompetitiveContext: p.Sprintf("Competitors getting %d monthly searches on keywords you're missing",
				int64(totalVolume)),
			GapType:      "Keyword Gap",
			Keywords:     clusterKeywords,
			Effort:       6,
			Timeline:     "2-3 months",
			ExpectedLift: p.Sprintf("%d monthly visits (15%% capture rate)", int64(totalVolume*0.15)),
			KPIs:         []string{"Organic traffic", "Keyword rankings", "Content engagement"},
			ImplementationSteps: []string{
				fmt.Sprintf("Create comprehensive content for: %s", strings.Join(contentTargets, ", ")),
				"Optimize on-page SEO (title tags, meta descriptions, headers)",
				"Build internal linking structure",
				"Promote content through owned channels",
			},
			CompetitiveIntelligence: fmt.Sprintf("Analysis of %d competitors shows significant opportunity", len(competitors)),
		})
	}

	if len(competitors) > 0 {
		top := competitors[0]
		tactics = append(tactics, GapTactic{
			Tactic:   fmt.Sprintf("Reclaim traffic from %s on overlapping keywords", top.CompanyName),
			Category: "SEO Optimization",
			Priority: model.PriorityHigh,
			Rationale: fmt.Sprintf("You're losing %.0f%% traffic share to %s on %d shared keywords.",
				top.TrafficShareOnOverlap, top.CompanyName, top.KeywordOverlapCount),
			CompetitiveContext: fmt.Sprintf("%s has %.0f%% share vs your %.0f%%",
				top.CompanyName, top.TrafficShareOnOverlap, 100-top.TrafficShareOnOverlap),
			GapType:      "Share of Voice",
			Effort:       7,
			Timeline:     "3-4 months",
			ExpectedLift: "15-25% traffic increase on target keywords",
			KPIs:         []string{"Keyword rankings improvement", "Click-through rate", "Traffic share"},
		})
	}

	if limit > 0 && len(tactics) > limit {
		tactics = tactics[:limit]
	}
	return tactics
}

// Summarize aggregates the landscape over the full collected gap set,
// not just the displayed slice.
func Summarize(sch Schema, competitors []CompetitorProfile, gaps []KeywordGap, topN int) Summary {
	var totalVolume float64
	for _, g := range gaps {
		totalVolume += g.SearchVolume
	}

	var avg float64
	if len(competitors) > 0 {
		for _, c := range competitors {
			avg += c.CompetitiveIntensity
		}
		avg = round1(avg / float64(len(competitors)))
	}

	top := competitors
	if topN > 0 && len(top) > topN {
		top = top[:topN]
	}

	return Summary{
		PrimaryCompany:          sch.Primary,
		CompetitorCount:         len(competitors),
		TopCompetitors:          top,
		TotalKeywordGaps:        len(gaps),
		TotalGapPotentialVolume: totalVolume,
		AvgCompetitiveIntensity: avg,
	}
}

// sortByIntensity orders profiles descending by intensity, keeping
// equal-intensity profiles in discovery order.
func sortByIntensity(profiles []CompetitorProfile) {
	sort.SliceStable(profiles, func(i, j int) bool {
		return profiles[i].CompetitiveIntensity > profiles[j].CompetitiveIntensity
	})
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
