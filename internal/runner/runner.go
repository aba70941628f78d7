// Package runner orchestrates one full analysis: fetch the changed files,
// classify them, summarize, look up documentation coverage, plan actions,
// and emit a report. Collaborators are injected as abstractions so the
// pipeline runs identically from the CLI and from MCP tools.
package runner

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/avelasco/docscout/internal/analysis"
	"github.com/avelasco/docscout/internal/github"
	"github.com/avelasco/docscout/internal/history"
)

// ChangeSource supplies the changed files of one code-review request.
type ChangeSource interface {
	ListChangedFiles(ctx context.Context, repo string, number int) ([]analysis.ChangeRecord, error)
}

// PullRequestSource supplies pull-request context. A change source that
// also implements it gets the PR title attached to the report; the lookup
// is supplemental and never fails the run.
type PullRequestSource interface {
	GetPullRequest(ctx context.Context, repo string, number int) (*github.PullRequest, error)
}

// HistorySaver persists completed runs. Saving is best-effort.
type HistorySaver interface {
	Save(run history.Run) error
}

// Report is the complete output of one analysis run.
type Report struct {
	RunID       string                             `json:"run_id"`
	Repo        string                             `json:"repo"`
	PRNumber    int                                `json:"pr_number"`
	PRTitle     string                             `json:"pr_title,omitempty"`
	GeneratedAt string                             `json:"generated_at"`
	Files       []analysis.ChangeDescriptor        `json:"files"`
	Summary     analysis.ChangeSetSummary          `json:"summary"`
	Coverage    map[string]analysis.CoverageResult `json:"coverage,omitempty"`
	Actions     []analysis.DocumentationAction     `json:"actions"`
}

// Options tunes one Runner.
type Options struct {
	Thresholds   analysis.Thresholds
	DefaultSpace string
	// Coverage is nil when no documentation source is configured; the run
	// then plans as if nothing is covered.
	Coverage *analysis.CoverageAnalyzer
	// History is nil when run persistence is disabled.
	History HistorySaver
}

// Runner executes analysis runs against one change source.
type Runner struct {
	source   ChangeSource
	coverage *analysis.CoverageAnalyzer
	history  HistorySaver
	opts     Options
}

// New creates a Runner.
func New(source ChangeSource, opts Options) *Runner {
	return &Runner{
		source:   source,
		coverage: opts.Coverage,
		history:  opts.History,
		opts:     opts,
	}
}

// Run performs one full analysis. A fetch failure aborts the run — without
// the changed files there is nothing to analyze. A review request with zero
// changed files is a valid run producing an empty report.
func (r *Runner) Run(ctx context.Context, repo string, number int) (*Report, error) {
	records, err := r.source.ListChangedFiles(ctx, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching changed files for %s#%d: %w", repo, number, err)
	}

	classifier := analysis.NewClassifier(r.opts.Thresholds)
	descriptors := classifier.ClassifyAll(records)
	summary := analysis.Aggregate(descriptors, r.opts.Thresholds)

	var coverage map[string]analysis.CoverageResult
	if r.coverage != nil {
		topics := analysis.CandidateTopics(descriptors, r.opts.Thresholds)
		coverage = r.coverage.Analyze(ctx, topics)
	}

	actions := analysis.Plan(summary, coverage, descriptors, analysis.PlanOptions{
		Thresholds:   r.opts.Thresholds,
		DefaultSpace: r.opts.DefaultSpace,
	})

	report := &Report{
		RunID:       uuid.NewString(),
		Repo:        repo,
		PRNumber:    number,
		PRTitle:     r.fetchTitle(ctx, repo, number),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Files:       descriptors,
		Summary:     summary,
		Coverage:    coverage,
		Actions:     actions,
	}

	r.saveHistory(report)
	return report, nil
}

// fetchTitle looks up the PR title when the change source can. Best-effort:
// a failure logs a warning and the report ships without a title.
func (r *Runner) fetchTitle(ctx context.Context, repo string, number int) string {
	src, ok := r.source.(PullRequestSource)
	if !ok {
		return ""
	}
	pr, err := src.GetPullRequest(ctx, repo, number)
	if err != nil {
		log.Printf("WARNING: fetching pull request context for %s#%d: %v", repo, number, err)
		return ""
	}
	return pr.Title
}

// saveHistory persists the run if a store is wired. Failures are logged,
// never surfaced — the report is already complete.
func (r *Runner) saveHistory(report *Report) {
	if r.history == nil {
		return
	}
	run := history.Run{
		ID:            report.RunID,
		Repo:          report.Repo,
		PRNumber:      report.PRNumber,
		TotalFiles:    report.Summary.TotalFiles,
		BreakingCount: len(report.Summary.BreakingChanges),
		ActionCount:   len(report.Actions),
		Summary:       report.Summary,
		Actions:       report.Actions,
		CreatedAt:     report.GeneratedAt,
	}
	if err := r.history.Save(run); err != nil {
		log.Printf("WARNING: saving run history: %v", err)
	}
}

// WriteReport writes the report as indented JSON to path.
func WriteReport(report *Report, path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing report to %s: %w", path, err)
	}
	return nil
}
