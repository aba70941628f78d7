// Package analysis implements the deterministic change-classification and
// action-planning engine: it categorizes changed files from a code-review
// request, assesses breaking-change risk, aggregates per-file findings into
// a change-set summary, and plans per-topic documentation actions.
//
// The package is pure data transformation — no I/O, no clocks, no network.
// External capabilities (the knowledge-base lookup used by the coverage
// analyzer) are injected as interfaces so every component is independently
// testable with fakes.
//
// Design principles mirror the rest of the codebase:
// - SRP: classifier, aggregator, coverage analyzer, and planner in separate files
// - DIP: the coverage analyzer depends on the PageSearcher abstraction
// - OCP: category rules are an ordered table; new categories extend the table
package analysis

import "fmt"

// --- Change status enum ---

// ChangeStatus is the version-control status of one changed file.
type ChangeStatus string

const (
	StatusAdded    ChangeStatus = "added"
	StatusModified ChangeStatus = "modified"
	StatusDeleted  ChangeStatus = "deleted"
	StatusRenamed  ChangeStatus = "renamed"
)

// --- Category enum ---

// Category is the documentation-relevant kind of a changed file, assigned
// by keyword matching on the path. Matching order is fixed (see classifier.go)
// so overlapping keyword sets resolve deterministically.
type Category string

const (
	CategoryAPI            Category = "api"
	CategoryConfiguration  Category = "configuration"
	CategoryFrontend       Category = "frontend"
	CategoryBackend        Category = "backend"
	CategoryTest           Category = "test"
	CategoryDocumentation  Category = "documentation"
	CategoryDatabase       Category = "database"
	CategoryInfrastructure Category = "infrastructure"
	CategoryOther          Category = "other"
)

// --- Impact enum ---

// Impact is the estimated documentation impact of a single change.
type Impact string

const (
	ImpactHigh   Impact = "high"
	ImpactMedium Impact = "medium"
	ImpactLow    Impact = "low"
)

// --- Priority enum ---

// Priority orders documentation actions. Critical outranks high outranks
// medium outranks low.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// priorityRank maps priorities to sortable ranks — lower sorts first.
var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// Rank returns the sort rank of a priority (critical = 0). Unknown
// priorities sort last.
func (p Priority) Rank() int {
	if r, ok := priorityRank[p]; ok {
		return r
	}
	return len(priorityRank)
}

// bump raises a priority one level, capped at critical.
func (p Priority) bump() Priority {
	switch p {
	case PriorityLow:
		return PriorityMedium
	case PriorityMedium:
		return PriorityHigh
	default:
		return PriorityCritical
	}
}

// --- Strategy enum ---

// Strategy is how content for a documentation action should be produced:
// net-new pages, targeted edits into existing pages, or both.
type Strategy string

const (
	StrategyCompleteContent   Strategy = "complete_content"
	StrategyContextualUpdates Strategy = "contextual_updates"
	StrategyBoth              Strategy = "both"
)

// --- Action kind enum ---

// ActionKind is the type of documentation action to take on a page.
type ActionKind string

const (
	ActionCreatePage  ActionKind = "create_page"
	ActionUpdatePage  ActionKind = "update_page"
	ActionReviewPage  ActionKind = "review_page"
	ActionArchivePage ActionKind = "archive_page"
)

// validActionKinds is the set of allowed action kinds.
var validActionKinds = map[ActionKind]bool{
	ActionCreatePage:  true,
	ActionUpdatePage:  true,
	ActionReviewPage:  true,
	ActionArchivePage: true,
}

// ValidateActionKind returns an error if the kind is not recognized.
func ValidateActionKind(k ActionKind) error {
	if !validActionKinds[k] {
		return fmt.Errorf("invalid action kind %q: must be one of: create_page, update_page, review_page, archive_page", k)
	}
	return nil
}

// --- Relevance enum ---

// Relevance tags how strongly an existing page matches a topic.
type Relevance string

const (
	RelevanceHigh   Relevance = "high"
	RelevanceMedium Relevance = "medium"
)

// --- Thresholds ---

// Thresholds are the named line-count limits that drive classification and
// significance. They are configuration, not hard-coded literals — callers
// may override any of them (docscout.yaml or env).
type Thresholds struct {
	// SignificantAdditions marks a file significant when additions exceed it.
	SignificantAdditions int `yaml:"significant_additions"`
	// SignificantDeletions marks a file significant when deletions exceed it.
	SignificantDeletions int `yaml:"significant_deletions"`
	// BreakingAdditions is the additions limit past which a change to an
	// API/interface/contract/schema path counts as breaking.
	BreakingAdditions int `yaml:"breaking_additions"`
	// BreakingDeletions is the deletions limit past which such a change
	// counts as breaking.
	BreakingDeletions int `yaml:"breaking_deletions"`
	// HighChurnAdditions pushes an otherwise-low-impact file to medium.
	HighChurnAdditions int `yaml:"high_churn_additions"`
}

// DefaultThresholds returns the canonical threshold values.
func DefaultThresholds() Thresholds {
	return Thresholds{
		SignificantAdditions: 20,
		SignificantDeletions: 10,
		BreakingAdditions:    50,
		BreakingDeletions:    10,
		HighChurnAdditions:   100,
	}
}

// Significant reports whether a descriptor's churn crosses the significance
// thresholds. Significant files gate which categories become candidate
// documentation topics.
func (t Thresholds) Significant(d ChangeDescriptor) bool {
	return d.Additions > t.SignificantAdditions || d.Deletions > t.SignificantDeletions
}

// --- Core data structures ---

// ChangeRecord is one file's diff metadata from a code-review request.
// It is the raw input supplied by the change source.
type ChangeRecord struct {
	Filename  string       `json:"filename"`
	Status    ChangeStatus `json:"status"`
	Additions int          `json:"additions"`
	Deletions int          `json:"deletions"`
}

// ChangeDescriptor is the classified form of one ChangeRecord. Every field
// is a pure function of the record and the thresholds — reclassifying the
// same record always yields the same descriptor.
type ChangeDescriptor struct {
	Filename          string       `json:"filename"`
	ChangeType        ChangeStatus `json:"change_type"`
	Category          Category     `json:"category"`
	Additions         int          `json:"additions"`
	Deletions         int          `json:"deletions"`
	IsBreaking        bool         `json:"is_breaking"`
	Impact            Impact       `json:"impact"`
	AffectsAPI        bool         `json:"affects_api"`
	AffectsUI         bool         `json:"affects_ui"`
	RequiresMigration bool         `json:"requires_migration"`
}

// ChangeSetSummary is the change-set-level view produced by Aggregate.
// Count fields are order-independent; the filename lists preserve the
// input order for reproducible downstream display.
type ChangeSetSummary struct {
	TotalFiles         int              `json:"total_files"`
	ByCategory         map[Category]int `json:"by_category"`
	ByImpact           map[Impact]int   `json:"by_impact"`
	BreakingChanges    []string         `json:"breaking_changes"`
	APIChanges         []string         `json:"api_changes"`
	ConfigChanges      []string         `json:"config_changes"`
	SignificantChanges []string         `json:"significant_changes"`
	Narrative          string           `json:"narrative"`
	StrategyHint       string           `json:"strategy_hint"`
}

// PageRef identifies an existing knowledge-base page returned by a
// coverage lookup.
type PageRef struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	SpaceKey  string    `json:"space_key,omitempty"`
	Relevance Relevance `json:"relevance,omitempty"`
}

// CoverageResult reports whether existing documentation already addresses
// one topic, and the recommended content approach either way.
type CoverageResult struct {
	Topic             string    `json:"topic"`
	Found             bool      `json:"found"`
	Matches           []PageRef `json:"matches,omitempty"`
	PrimaryApproach   string    `json:"primary_approach"`
	SecondaryApproach string    `json:"secondary_approach"`
}

// Recommended approach values for CoverageResult.
const (
	ApproachContextualUpdates      = "contextual_updates"
	ApproachNewSupportingPages     = "new_supporting_pages"
	ApproachCompleteNewPages       = "complete_new_pages"
	ApproachMinimalExistingUpdates = "minimal_existing_updates"
)

// DocumentationAction is one entry in the final plan: what to do, where,
// with what strategy and urgency. The slice returned by Plan is the complete
// contract a content generator (human or LLM) consumes.
type DocumentationAction struct {
	Kind              ActionKind `json:"action"`
	SpaceKey          string     `json:"space_key,omitempty"`
	Title             string     `json:"title"`
	Topic             string     `json:"topic"`
	Priority          Priority   `json:"priority"`
	Strategy          Strategy   `json:"content_strategy"`
	Reason            string     `json:"reason"`
	Audiences         []string   `json:"audiences"`
	Files             []string   `json:"files"`
	BreakingChanges   bool       `json:"breaking_changes"`
	MigrationRequired bool       `json:"migration_required"`
}
