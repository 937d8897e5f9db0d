package model

import "strings"

// Canonical column names shared between the workbook preparer and the
// analysis engines. Sheet headers are trimmed by the cleaner before
// these are matched, so exact comparison is safe.
const (
	// Keyword report columns.
	ColKeyword      = "Keyword"
	ColSearchVolume = "Search Volume"
	ColType         = "Type"
	ColTotalClicks  = "Total Clicks"

	// Tactics and impact/effort matrix columns.
	ColTacticName       = "Tactics"
	ColMarketingTactic  = "Marketing Tactic"
	ColTotalEffort      = "Total Effort"
	ColExpectedLift     = "Expected Lift %"
	ColProjectedCost    = "Projected Cost"
	ColFunnelStage      = "Focus (Funnel Stage)"
	ColPriorityScore    = "Priority Score"
	ColPriorityCategory = "Priority Category"
	ColCostEfficiency   = "Cost Efficiency"

	// Web vitals and traffic columns.
	ColURL         = "URL"
	ColCompany     = "Company"
	ColPerformance = "Performance"
	ColSEO         = "SEO"
	ColDomain      = "Domain"
	ColYoYGrowth   = "YoY Growth %"

	// PPC spend columns.
	ColMobileSpend  = "Mobile Spend"
	ColDesktopSpend = "Desktop Spend"
	ColTotalSpend   = "Total Spend"
	ColYearMonth    = "YearMonth"
	ColYear         = "Year"
	ColMonth        = "Month"
	ColMonthName    = "Month Name"
	ColSpendYoY     = "Spend YoY %"
)

// ShareSuffix marks per-domain traffic-share columns derived by the
// workbook preparer (e.g. "acme.com_share").
const ShareSuffix = "_share"

// UnnamedPrefix is the placeholder the cleaner assigns to blank headers.
const UnnamedPrefix = "Unnamed"

// Keyword report row types.
const (
	KeywordTypePaid    = "Paid"
	KeywordTypeOrganic = "Organic"
)

// IsDomainColumn reports whether a header names a company domain column:
// it contains a period and is not a placeholder header. Callers layer
// their own exclusions (search volume, derived share columns) on top.
func IsDomainColumn(col string) bool {
	return strings.Contains(col, ".") && !strings.Contains(col, UnnamedPrefix)
}

// Priority buckets a priority score for planning purposes.
type Priority string

const (
	PriorityLow      Priority = "Low"
	PriorityMedium   Priority = "Medium"
	PriorityHigh     Priority = "High"
	PriorityCritical Priority = "Critical"
)
