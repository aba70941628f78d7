package analysis

import "strings"

// --- File change classification ---
//
// Categorization is an ordered list of (keyword set, category) rules.
// Rules are evaluated top to bottom and the first match wins, so a path
// containing both "api" and "test" keywords classifies as api. The order
// is part of the contract — do not reorder without updating the tests.

// categoryRule pairs a category with the path keywords that select it.
type categoryRule struct {
	category Category
	keywords []string
}

// categoryRules is the fixed-priority rule table. All matching is
// case-insensitive substring matching on the full path.
var categoryRules = []categoryRule{
	{CategoryAPI, []string{"api", "endpoint", "route", "graphql", ".proto"}},
	{CategoryConfiguration, []string{"config", "settings", ".env", ".yaml", ".yml", ".toml", ".ini"}},
	{CategoryFrontend, []string{"frontend", "component", ".tsx", ".jsx", ".vue", ".css", ".html"}},
	{CategoryBackend, []string{"backend", "server", "service", "handler", "controller", "worker"}},
	{CategoryTest, []string{"test", "spec", "fixture", "__mocks__"}},
	{CategoryDocumentation, []string{"readme", "docs/", ".md", "changelog", "guide"}},
	{CategoryDatabase, []string{"migration", ".sql", "database", "schema"}},
	{CategoryInfrastructure, []string{"docker", "kubernetes", "k8s", "terraform", "helm", "ansible", ".github/", "jenkins"}},
}

// breakingKeywords mark paths whose churn can constitute a breaking change.
var breakingKeywords = []string{"api", "interface", "contract", "schema"}

// Classifier derives ChangeDescriptors from raw ChangeRecords.
type Classifier struct {
	thresholds Thresholds
}

// NewClassifier creates a Classifier with the given thresholds.
func NewClassifier(t Thresholds) *Classifier {
	return &Classifier{thresholds: t}
}

// Classify derives the structured descriptor for one changed file.
// It is total: an empty filename classifies as "other" and negative line
// counts clamp to zero, so malformed records never fail.
func (c *Classifier) Classify(rec ChangeRecord) ChangeDescriptor {
	additions := rec.Additions
	if additions < 0 {
		additions = 0
	}
	deletions := rec.Deletions
	if deletions < 0 {
		deletions = 0
	}

	path := strings.ToLower(rec.Filename)
	category := matchCategory(path)

	breaking := containsAny(path, breakingKeywords) &&
		(deletions > c.thresholds.BreakingDeletions || additions > c.thresholds.BreakingAdditions)

	return ChangeDescriptor{
		Filename:          rec.Filename,
		ChangeType:        rec.Status,
		Category:          category,
		Additions:         additions,
		Deletions:         deletions,
		IsBreaking:        breaking,
		Impact:            c.impactOf(category, breaking, additions),
		AffectsAPI:        category == CategoryAPI || strings.Contains(path, "api"),
		AffectsUI:         category == CategoryFrontend,
		RequiresMigration: breaking && category == CategoryDatabase,
	}
}

// ClassifyAll classifies a sequence of records, preserving input order.
func (c *Classifier) ClassifyAll(records []ChangeRecord) []ChangeDescriptor {
	descriptors := make([]ChangeDescriptor, len(records))
	for i, rec := range records {
		descriptors[i] = c.Classify(rec)
	}
	return descriptors
}

// impactOf computes the impact level. High whenever the change is breaking,
// so the impact/is_breaking invariant holds by construction.
func (c *Classifier) impactOf(category Category, breaking bool, additions int) Impact {
	switch {
	case breaking, category == CategoryAPI:
		return ImpactHigh
	case category == CategoryConfiguration, category == CategoryDatabase, category == CategoryInfrastructure:
		return ImpactMedium
	case additions > c.thresholds.HighChurnAdditions:
		return ImpactMedium
	default:
		return ImpactLow
	}
}

// matchCategory walks the rule table in priority order. Unmatched (or
// empty) paths fall through to "other".
func matchCategory(lowerPath string) Category {
	if lowerPath == "" {
		return CategoryOther
	}
	for _, rule := range categoryRules {
		if containsAny(lowerPath, rule.keywords) {
			return rule.category
		}
	}
	return CategoryOther
}

// containsAny reports whether s contains any of the given substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
