package analysis

import (
	"fmt"
	"sort"
	"strings"
)

// --- Action planning ---
//
// The planner is the decision core: it turns the aggregated summary, the
// coverage results, and the descriptor sequence into the final ordered
// action plan. It reads but never mutates its inputs.

// PlanOptions configure the planner.
type PlanOptions struct {
	// Thresholds drive the significance gate for candidate topics.
	Thresholds Thresholds
	// DefaultSpace is the knowledge-base space for net-new pages when no
	// existing match pins a space.
	DefaultSpace string
}

// displayNames maps categories to page-title form.
var displayNames = map[Category]string{
	CategoryAPI:            "API",
	CategoryConfiguration:  "Configuration",
	CategoryFrontend:       "Frontend",
	CategoryBackend:        "Backend",
	CategoryTest:           "Testing",
	CategoryDocumentation:  "Documentation",
	CategoryDatabase:       "Database",
	CategoryInfrastructure: "Infrastructure",
	CategoryOther:          "General",
}

// audiencesByCategory maps each category to the reader groups its changes
// affect. Kept deterministic and ordered.
var audiencesByCategory = map[Category][]string{
	CategoryAPI:            {"developers", "integrators"},
	CategoryConfiguration:  {"operators", "developers"},
	CategoryFrontend:       {"end-users", "developers"},
	CategoryBackend:        {"developers"},
	CategoryTest:           {"developers"},
	CategoryDocumentation:  {"all"},
	CategoryDatabase:       {"developers", "operators"},
	CategoryInfrastructure: {"operators"},
	CategoryOther:          {"developers"},
}

// CandidateTopics returns the documentation topics implied by a descriptor
// sequence: one per category with at least one significant member, in the
// order each category was first observed. This is the exact topic set the
// planner acts on, exported so callers can feed it to the coverage analyzer.
func CandidateTopics(descriptors []ChangeDescriptor, t Thresholds) []string {
	significant := make(map[Category]bool)
	for _, d := range descriptors {
		if t.Significant(d) {
			significant[d.Category] = true
		}
	}

	seen := make(map[Category]bool)
	var topics []string
	for _, d := range descriptors {
		if seen[d.Category] || !significant[d.Category] {
			continue
		}
		seen[d.Category] = true
		topics = append(topics, string(d.Category))
	}
	return topics
}

// Plan emits the ordered documentation action plan. Each candidate topic
// (see CandidateTopics) yields one action whose strategy depends on the
// topic's coverage and whose priority derives from its worst-case
// constituent descriptors. The output is stably sorted critical → low;
// within equal priority, topics keep first-observed input order. An empty
// or insignificant descriptor sequence yields zero actions, not an error.
func Plan(summary ChangeSetSummary, coverage map[string]CoverageResult, descriptors []ChangeDescriptor, opts PlanOptions) []DocumentationAction {
	if summary.TotalFiles == 0 {
		return nil
	}

	topics := CandidateTopics(descriptors, opts.Thresholds)
	if len(topics) == 0 {
		return nil
	}

	byCategory := make(map[Category][]ChangeDescriptor)
	for _, d := range descriptors {
		byCategory[d.Category] = append(byCategory[d.Category], d)
	}

	actions := make([]DocumentationAction, 0, len(topics))
	for _, topic := range topics {
		members := byCategory[Category(topic)]
		cov, covered := coverageFor(coverage, topic)
		actions = append(actions, planTopic(topic, members, cov, covered, opts))
	}

	// Stable: preserves first-observed topic order within equal priority.
	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].Priority.Rank() < actions[j].Priority.Rank()
	})

	return actions
}

// coverageFor resolves a topic's coverage. A topic that was never queried
// (beyond the lookup cap) counts as uncovered.
func coverageFor(coverage map[string]CoverageResult, topic string) (CoverageResult, bool) {
	cov, ok := coverage[topic]
	if !ok || !cov.Found {
		return cov, false
	}
	return cov, true
}

// planTopic builds the single action for one candidate topic.
func planTopic(topic string, members []ChangeDescriptor, cov CoverageResult, covered bool, opts PlanOptions) DocumentationAction {
	category := Category(topic)

	var (
		breaking    bool
		migration   bool
		significant int
	)
	for _, d := range members {
		if d.IsBreaking {
			breaking = true
		}
		if d.RequiresMigration {
			migration = true
		}
		if opts.Thresholds.Significant(d) {
			significant++
		}
	}

	strategy := strategyFor(covered, breaking, migration)
	kind := ActionCreatePage
	title := displayNames[category] + " Documentation"
	space := opts.DefaultSpace

	if covered {
		kind = ActionUpdatePage
		title = cov.Matches[0].Title
		if cov.Matches[0].SpaceKey != "" {
			space = cov.Matches[0].SpaceKey
		}
	} else if strategy == StrategyBoth {
		title = displayNames[category] + " Migration Guide"
	}

	files := make([]string, len(members))
	for i, d := range members {
		files[i] = d.Filename
	}

	return DocumentationAction{
		Kind:              kind,
		SpaceKey:          space,
		Title:             title,
		Topic:             topic,
		Priority:          priorityFor(members, migration),
		Strategy:          strategy,
		Reason:            reasonFor(topic, len(members), significant, breaking, covered),
		Audiences:         audiencesFor(category, members),
		Files:             files,
		BreakingChanges:   breaking,
		MigrationRequired: migration,
	}
}

// strategyFor picks the content strategy: existing coverage gets contextual
// edits; an uncovered topic gets net-new content; an uncovered topic that
// both breaks and requires migration gets both: a new migration guide plus
// contextual review of related pages.
func strategyFor(covered, breaking, migration bool) Strategy {
	switch {
	case covered:
		return StrategyContextualUpdates
	case breaking && migration:
		return StrategyBoth
	default:
		return StrategyCompleteContent
	}
}

// priorityFor computes the topic priority from worst-case constituents:
// critical when any member is a breaking API change, high when any member
// is high-impact, low when every member is low-impact, medium otherwise.
// A required migration bumps the result one level, capped at critical.
func priorityFor(members []ChangeDescriptor, migration bool) Priority {
	var (
		anyBreakingAPI bool
		anyHigh        bool
		allLow         = true
	)
	for _, d := range members {
		if d.IsBreaking && d.AffectsAPI {
			anyBreakingAPI = true
		}
		if d.Impact == ImpactHigh {
			anyHigh = true
		}
		if d.Impact != ImpactLow {
			allLow = false
		}
	}

	var p Priority
	switch {
	case anyBreakingAPI:
		p = PriorityCritical
	case anyHigh:
		p = PriorityHigh
	case allLow:
		p = PriorityLow
	default:
		p = PriorityMedium
	}

	if migration {
		p = p.bump()
	}
	return p
}

// reasonFor builds the human-readable justification for an action.
func reasonFor(topic string, total, significant int, breaking, covered bool) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d %s change%s (%d significant", total, topic, plural(total), significant)
	if breaking {
		sb.WriteString(", breaking")
	}
	sb.WriteString(")")
	if covered {
		sb.WriteString("; existing documentation found, update in place")
	} else {
		sb.WriteString("; no existing documentation found")
	}
	sb.WriteString(".")
	return sb.String()
}

// audiencesFor merges the category's base audience with flag-driven extras.
func audiencesFor(category Category, members []ChangeDescriptor) []string {
	audiences := append([]string(nil), audiencesByCategory[category]...)

	var affectsAPI, affectsUI bool
	for _, d := range members {
		affectsAPI = affectsAPI || d.AffectsAPI
		affectsUI = affectsUI || d.AffectsUI
	}
	if affectsAPI {
		audiences = appendUnique(audiences, "integrators")
	}
	if affectsUI {
		audiences = appendUnique(audiences, "end-users")
	}
	return audiences
}

// appendUnique appends v unless already present.
func appendUnique(list []string, v string) []string {
	for _, existing := range list {
		if existing == v {
			return list
		}
	}
	return append(list, v)
}
