package analysis

import (
	"context"
	"strings"
	"sync"
	"time"
)

// --- Coverage-gap analysis ---

// PageSearcher is the capability the coverage analyzer uses to find
// existing documentation for a topic. Implementations own the external
// query grammar — the analyzer hands over a plain topic keyword and never
// sees the composed query. A searcher may fail or hang; the analyzer
// isolates both per topic.
type PageSearcher interface {
	SearchTopic(ctx context.Context, topic string) ([]PageRef, error)
}

// CoverageOptions bound the external call volume of a coverage run.
type CoverageOptions struct {
	// TopicLimit caps how many topics are actually queried (a bounded
	// prefix of the input). Topics past the cap are not looked up.
	TopicLimit int
	// LookupTimeout bounds each individual search call.
	LookupTimeout time.Duration
}

// DefaultCoverageOptions returns the default lookup bounds.
func DefaultCoverageOptions() CoverageOptions {
	return CoverageOptions{
		TopicLimit:    3,
		LookupTimeout: 10 * time.Second,
	}
}

// CoverageAnalyzer determines, per topic, whether relevant documentation
// already exists. Lookups are independent reads, so they are dispatched
// concurrently — concurrency is naturally bounded by the topic cap.
type CoverageAnalyzer struct {
	searcher PageSearcher
	opts     CoverageOptions
}

// NewCoverageAnalyzer creates an analyzer over the given searcher.
// Zero or negative option fields fall back to the defaults.
func NewCoverageAnalyzer(searcher PageSearcher, opts CoverageOptions) *CoverageAnalyzer {
	defaults := DefaultCoverageOptions()
	if opts.TopicLimit <= 0 {
		opts.TopicLimit = defaults.TopicLimit
	}
	if opts.LookupTimeout <= 0 {
		opts.LookupTimeout = defaults.LookupTimeout
	}
	return &CoverageAnalyzer{searcher: searcher, opts: opts}
}

// Analyze looks up existing coverage for each topic in the capped prefix.
//
// Fault isolation: a failed or timed-out lookup degrades that single topic
// to "no coverage found" and never aborts the rest. Cancellation of ctx
// stops issuing further lookups; topics not yet dispatched also degrade to
// "no coverage found", so the caller always gets a best-effort result for
// every queried topic.
func (a *CoverageAnalyzer) Analyze(ctx context.Context, topics []string) map[string]CoverageResult {
	queried := topics
	if len(queried) > a.opts.TopicLimit {
		queried = queried[:a.opts.TopicLimit]
	}

	results := make(map[string]CoverageResult, len(queried))
	if len(queried) == 0 {
		return results
	}

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)

	for _, topic := range queried {
		if ctx.Err() != nil {
			// Run canceled — don't issue this lookup, degrade instead.
			mu.Lock()
			results[topic] = noCoverage(topic)
			mu.Unlock()
			continue
		}

		wg.Add(1)
		go func(topic string) {
			defer wg.Done()

			lookupCtx, cancel := context.WithTimeout(ctx, a.opts.LookupTimeout)
			defer cancel()

			pages, err := a.searcher.SearchTopic(lookupCtx, topic)
			result := noCoverage(topic)
			if err == nil && len(pages) > 0 {
				result = scoreCoverage(topic, pages)
			}

			mu.Lock()
			results[topic] = result
			mu.Unlock()
		}(topic)
	}

	wg.Wait()
	return results
}

// noCoverage is the degraded/empty result for a topic: new pages are the
// primary approach when nothing exists to edit.
func noCoverage(topic string) CoverageResult {
	return CoverageResult{
		Topic:             topic,
		Found:             false,
		PrimaryApproach:   ApproachCompleteNewPages,
		SecondaryApproach: ApproachMinimalExistingUpdates,
	}
}

// scoreCoverage deduplicates page refs by ID (first occurrence wins) and
// tags relevance: high when the topic keyword appears in the title.
func scoreCoverage(topic string, pages []PageRef) CoverageResult {
	seen := make(map[string]bool, len(pages))
	matches := make([]PageRef, 0, len(pages))
	for _, p := range pages {
		if p.ID == "" || seen[p.ID] {
			continue
		}
		seen[p.ID] = true
		p.Relevance = relevanceOf(topic, p.Title)
		matches = append(matches, p)
	}

	if len(matches) == 0 {
		return noCoverage(topic)
	}

	return CoverageResult{
		Topic:             topic,
		Found:             true,
		Matches:           matches,
		PrimaryApproach:   ApproachContextualUpdates,
		SecondaryApproach: ApproachNewSupportingPages,
	}
}

// relevanceOf tags a match high when the topic appears in the page title.
func relevanceOf(topic, title string) Relevance {
	if strings.Contains(strings.ToLower(title), strings.ToLower(topic)) {
		return RelevanceHigh
	}
	return RelevanceMedium
}
