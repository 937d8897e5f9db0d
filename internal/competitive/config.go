package competitive

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/marketing-insights/internal/config"
)

// DefaultConfig returns a config.CompetitiveConfig with sensible defaults.
func DefaultConfig() config.CompetitiveConfig {
	return config.CompetitiveConfig{
		// Fallback when no domain column sums to positive traffic.
		FallbackDomain: "dossier.co",

		// Volume assumed per gap keyword when the sheet has no
		// search-volume column.
		GapVolumeMultiplier: 1000,

		// Result caps.
		TopCompetitors:      5,
		GapsPerCompetitor:   10,
		MaxGapOpportunities: 20,
		MaxTactics:          5,
	}
}

// ValidateConfig checks that a CompetitiveConfig is internally consistent.
func ValidateConfig(c config.CompetitiveConfig) error {
	var errs []string

	if c.FallbackDomain == "" {
		errs = append(errs, "fallback_domain must not be empty")
	}
	if c.GapVolumeMultiplier < 0 {
		errs = append(errs, "gap_volume_multiplier must be >= 0")
	}

	// Result caps must be non-negative; zero disables the cap.
	caps := map[string]int{
		"top_competitors":       c.TopCompetitors,
		"gaps_per_competitor":   c.GapsPerCompetitor,
		"max_gap_opportunities": c.MaxGapOpportunities,
		"max_tactics":           c.MaxTactics,
	}
	for name, v := range caps {
		if v < 0 {
			errs = append(errs, fmt.Sprintf("%s must be >= 0", name))
		}
	}

	if len(errs) > 0 {
		return eris.Errorf("competitive: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
