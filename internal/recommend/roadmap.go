package recommend

import "github.com/sells-group/marketing-insights/internal/model"

// RoadmapPhase groups recommendations into one implementation window.
type RoadmapPhase struct {
	Label string           `json:"label"`
	Items []Recommendation `json:"items"`
}

const (
	maxQuickWinItems  = 3
	maxMajorItems     = 2
	maxStrategicItems = 2
)

// Roadmap partitions recommendations into up to three phases: low-effort
// high-priority work first, heavier high-priority initiatives second,
// medium-priority optimization last. Low-priority items are left off the
// roadmap entirely. Phases with no items are omitted.
func Roadmap(recs []Recommendation) []RoadmapPhase {
	if len(recs) == 0 {
		return nil
	}

	var quickWins, major, strategic []Recommendation
	for _, r := range recs {
		highTier := r.Priority == model.PriorityCritical || r.Priority == model.PriorityHigh
		switch {
		case highTier && r.Effort < 10:
			quickWins = append(quickWins, r)
		case highTier:
			major = append(major, r)
		case r.Priority == model.PriorityMedium:
			strategic = append(strategic, r)
		}
	}

	var phases []RoadmapPhase
	if len(quickWins) > 0 {
		phases = append(phases, RoadmapPhase{
			Label: "Phase 1 (Month 1-2): Quick Wins",
			Items: capItems(quickWins, maxQuickWinItems),
		})
	}
	if len(major) > 0 {
		phases = append(phases, RoadmapPhase{
			Label: "Phase 2 (Month 3-4): Major Initiatives",
			Items: capItems(major, maxMajorItems),
		})
	}
	if len(strategic) > 0 {
		phases = append(phases, RoadmapPhase{
			Label: "Phase 3 (Month 5-6): Strategic Optimization",
			Items: capItems(strategic, maxStrategicItems),
		})
	}
	return phases
}

func capItems(items []Recommendation, n int) []Recommendation {
	if len(items) > n {
		return items[:n]
	}
	return items
}
