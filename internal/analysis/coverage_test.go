package analysis

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

// fakeSearcher returns canned pages per topic, errors for topics in fail,
// and blocks until ctx is done for topics in hang. Lookups are dispatched
// concurrently, so call tracking is mutex-guarded.
type fakeSearcher struct {
	pages map[string][]PageRef
	fail  map[string]bool
	hang  map[string]bool

	mu    sync.Mutex
	calls []string
}

func (f *fakeSearcher) SearchTopic(ctx context.Context, topic string) ([]PageRef, error) {
	f.mu.Lock()
	f.calls = append(f.calls, topic)
	f.mu.Unlock()
	if f.hang[topic] {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.fail[topic] {
		return nil, errors.New("search backend unavailable")
	}
	return f.pages[topic], nil
}

func TestAnalyzeCoverageFound(t *testing.T) {
	searcher := &fakeSearcher{
		pages: map[string][]PageRef{
			"api": {
				{ID: "101", Title: "API Reference", SpaceKey: "ENG"},
				{ID: "102", Title: "Getting Started", SpaceKey: "ENG"},
			},
		},
	}
	a := NewCoverageAnalyzer(searcher, CoverageOptions{TopicLimit: 1, LookupTimeout: time.Second})

	results := a.Analyze(context.Background(), []string{"api"})
	cov, ok := results["api"]
	if !ok {
		t.Fatal("no result for topic api")
	}
	if !cov.Found {
		t.Fatal("Found = false, want true")
	}
	if len(cov.Matches) != 2 {
		t.Fatalf("Matches = %d, want 2", len(cov.Matches))
	}
	if cov.Matches[0].Relevance != RelevanceHigh {
		t.Errorf("title containing topic should be high relevance, got %q", cov.Matches[0].Relevance)
	}
	if cov.Matches[1].Relevance != RelevanceMedium {
		t.Errorf("title without topic should be medium relevance, got %q", cov.Matches[1].Relevance)
	}
	if cov.PrimaryApproach != ApproachContextualUpdates || cov.SecondaryApproach != ApproachNewSupportingPages {
		t.Errorf("approach = %q/%q", cov.PrimaryApproach, cov.SecondaryApproach)
	}
}

func TestAnalyzeCoverageNoMatches(t *testing.T) {
	a := NewCoverageAnalyzer(&fakeSearcher{}, CoverageOptions{TopicLimit: 2, LookupTimeout: time.Second})

	results := a.Analyze(context.Background(), []string{"billing"})
	cov := results["billing"]
	if cov.Found {
		t.Error("Found = true for topic with no pages")
	}
	if cov.PrimaryApproach != ApproachCompleteNewPages || cov.SecondaryApproach != ApproachMinimalExistingUpdates {
		t.Errorf("approach = %q/%q", cov.PrimaryApproach, cov.SecondaryApproach)
	}
}

func TestAnalyzeCoverageDeduplicatesByID(t *testing.T) {
	searcher := &fakeSearcher{
		pages: map[string][]PageRef{
			"auth": {
				{ID: "7", Title: "Auth Guide"},
				{ID: "7", Title: "Auth Guide (duplicate)"},
				{ID: "", Title: "unidentified page"},
				{ID: "8", Title: "SSO Setup"},
			},
		},
	}
	a := NewCoverageAnalyzer(searcher, DefaultCoverageOptions())

	cov := a.Analyze(context.Background(), []string{"auth"})["auth"]
	if len(cov.Matches) != 2 {
		t.Fatalf("Matches = %d, want 2 after dedup", len(cov.Matches))
	}
	if cov.Matches[0].ID != "7" || cov.Matches[1].ID != "8" {
		t.Errorf("dedup did not keep first occurrences: %+v", cov.Matches)
	}
}

func TestAnalyzeCoverageTopicCap(t *testing.T) {
	searcher := &fakeSearcher{}
	a := NewCoverageAnalyzer(searcher, CoverageOptions{TopicLimit: 2, LookupTimeout: time.Second})

	results := a.Analyze(context.Background(), []string{"api", "configuration", "database", "frontend"})
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2 (capped prefix)", len(results))
	}
	if _, ok := results["api"]; !ok {
		t.Error("first topic missing from capped results")
	}
	if _, ok := results["configuration"]; !ok {
		t.Error("second topic missing from capped results")
	}
	if len(searcher.calls) != 2 {
		t.Errorf("searcher called %d times, want 2", len(searcher.calls))
	}
}

func TestAnalyzeCoverageFaultIsolation(t *testing.T) {
	// One topic's lookup times out, another fails outright — the rest of
	// the run must complete with real results.
	searcher := &fakeSearcher{
		pages: map[string][]PageRef{
			"auth":   {{ID: "1", Title: "Auth Guide"}},
			"config": {{ID: "2", Title: "Config Reference"}},
		},
		hang: map[string]bool{"billing": true},
	}
	a := NewCoverageAnalyzer(searcher, CoverageOptions{TopicLimit: 3, LookupTimeout: 20 * time.Millisecond})

	results := a.Analyze(context.Background(), []string{"auth", "billing", "config"})

	if !results["auth"].Found {
		t.Error("auth lookup should have succeeded")
	}
	if !results["config"].Found {
		t.Error("config lookup should have succeeded")
	}
	billing := results["billing"]
	if billing.Found {
		t.Error("timed-out billing lookup should degrade to no coverage")
	}
	if billing.PrimaryApproach != ApproachCompleteNewPages {
		t.Errorf("degraded topic approach = %q, want %q", billing.PrimaryApproach, ApproachCompleteNewPages)
	}
}

func TestAnalyzeCoverageSearchErrorDegrades(t *testing.T) {
	searcher := &fakeSearcher{fail: map[string]bool{"api": true}}
	a := NewCoverageAnalyzer(searcher, DefaultCoverageOptions())

	cov := a.Analyze(context.Background(), []string{"api"})["api"]
	if cov.Found {
		t.Error("failed lookup should degrade, not report coverage")
	}
}

func TestAnalyzeCoverageCanceledContext(t *testing.T) {
	searcher := &fakeSearcher{
		pages: map[string][]PageRef{"api": {{ID: "1", Title: "API Reference"}}},
	}
	a := NewCoverageAnalyzer(searcher, DefaultCoverageOptions())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Already-canceled run: no lookups issued, but every queried topic
	// still gets a best-effort degraded result.
	results := a.Analyze(ctx, []string{"api", "auth"})
	if len(searcher.calls) != 0 {
		t.Errorf("canceled run issued %d lookups, want 0", len(searcher.calls))
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	for topic, cov := range results {
		if cov.Found {
			t.Errorf("topic %q reported coverage on a canceled run", topic)
		}
	}
}

func TestAnalyzeCoverageEmptyTopics(t *testing.T) {
	a := NewCoverageAnalyzer(&fakeSearcher{}, DefaultCoverageOptions())
	if results := a.Analyze(context.Background(), nil); len(results) != 0 {
		t.Errorf("nil topics produced %d results", len(results))
	}
}

func TestCoverageOptionsDefaults(t *testing.T) {
	a := NewCoverageAnalyzer(&fakeSearcher{}, CoverageOptions{})
	if a.opts.TopicLimit != 3 {
		t.Errorf("TopicLimit default = %d, want 3", a.opts.TopicLimit)
	}
	if a.opts.LookupTimeout != 10*time.Second {
		t.Errorf("LookupTimeout default = %v, want 10s", a.opts.LookupTimeout)
	}
}
