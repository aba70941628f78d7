package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// --- Change-set aggregation ---

// Strategy hints emitted by Aggregate, in fixed decision order: breaking or
// API changes dominate, then a cluster of high-impact files, then the default.
const (
	HintMigrationAndAPIDoc = "migration + API doc"
	HintComprehensiveGuide = "new comprehensive guide"
	HintStandardUpdate     = "standard update"
)

// highImpactClusterSize is the number of high-impact files that turns the
// strategy hint into "new comprehensive guide".
const highImpactClusterSize = 3

// categoryPriority is the fixed classifier order, reused to break ties when
// ranking leading categories in the narrative.
var categoryPriority = map[Category]int{
	CategoryAPI:            0,
	CategoryConfiguration:  1,
	CategoryFrontend:       2,
	CategoryBackend:        3,
	CategoryTest:           4,
	CategoryDocumentation:  5,
	CategoryDatabase:       6,
	CategoryInfrastructure: 7,
	CategoryOther:          8,
}

// Aggregate folds an ordered sequence of descriptors into a change-set
// summary. Count fields are order-independent; the filename lists preserve
// input order. An empty sequence yields a well-formed zeroed summary.
func Aggregate(descriptors []ChangeDescriptor, t Thresholds) ChangeSetSummary {
	summary := ChangeSetSummary{
		TotalFiles: len(descriptors),
		ByCategory: make(map[Category]int),
		ByImpact:   make(map[Impact]int),
	}

	for _, d := range descriptors {
		summary.ByCategory[d.Category]++
		summary.ByImpact[d.Impact]++

		if d.IsBreaking {
			summary.BreakingChanges = append(summary.BreakingChanges, d.Filename)
		}
		if d.AffectsAPI {
			summary.APIChanges = append(summary.APIChanges, d.Filename)
		}
		if d.Category == CategoryConfiguration {
			summary.ConfigChanges = append(summary.ConfigChanges, d.Filename)
		}
		if t.Significant(d) {
			summary.SignificantChanges = append(summary.SignificantChanges, d.Filename)
		}
	}

	summary.Narrative = narrative(summary)
	summary.StrategyHint = strategyHint(summary)
	return summary
}

// narrative builds the one-line summary: high-impact count, up to three
// leading categories, and breaking-change count.
func narrative(s ChangeSetSummary) string {
	if s.TotalFiles == 0 {
		return "No changes detected."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "%d file%s changed: %d high-impact", s.TotalFiles, plural(s.TotalFiles), s.ByImpact[ImpactHigh])

	if leading := leadingCategories(s.ByCategory, 3); len(leading) > 0 {
		fmt.Fprintf(&sb, "; leading categories: %s", strings.Join(leading, ", "))
	}

	fmt.Fprintf(&sb, "; %d breaking change%s.", len(s.BreakingChanges), plural(len(s.BreakingChanges)))
	return sb.String()
}

// leadingCategories ranks categories by count descending, breaking ties by
// the fixed classifier priority order so the narrative is deterministic.
func leadingCategories(counts map[Category]int, limit int) []string {
	type entry struct {
		category Category
		count    int
	}

	entries := make([]entry, 0, len(counts))
	for c, n := range counts {
		entries = append(entries, entry{category: c, count: n})
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return categoryPriority[entries[i].category] < categoryPriority[entries[j].category]
	})

	if len(entries) > limit {
		entries = entries[:limit]
	}

	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = string(e.category)
	}
	return names
}

// strategyHint picks the change-set-level hint in fixed decision order.
func strategyHint(s ChangeSetSummary) string {
	switch {
	case len(s.APIChanges) > 0 || len(s.BreakingChanges) > 0:
		return HintMigrationAndAPIDoc
	case s.ByImpact[ImpactHigh] >= highImpactClusterSize:
		return HintComprehensiveGuide
	default:
		return HintStandardUpdate
	}
}

func plural(n int) string {
	if n == 1 {
		return ""
	}
	return "s"
}
