// Package server wires all MCP components and creates the server instance.
//
// This is the composition root (DIP): it creates concrete implementations
// and injects them into the tools/prompts/resources that depend on
// abstractions. No business logic lives here — only wiring.
package server

import (
	"log"

	"github.com/mark3labs/mcp-go/server"

	"github.com/avelasco/docscout/internal/analysis"
	"github.com/avelasco/docscout/internal/config"
	"github.com/avelasco/docscout/internal/confluence"
	"github.com/avelasco/docscout/internal/drafter"
	"github.com/avelasco/docscout/internal/github"
	"github.com/avelasco/docscout/internal/history"
	"github.com/avelasco/docscout/internal/prompts"
	"github.com/avelasco/docscout/internal/resources"
	"github.com/avelasco/docscout/internal/runner"
	"github.com/avelasco/docscout/internal/tools"
)

// Version is set at build time via ldflags.
var Version = "dev"

// deps holds the resolved collaborators for one configuration. Optional
// collaborators are nil when not configured — the server degrades instead
// of failing.
type deps struct {
	github     *github.Client
	confluence *confluence.Client
	coverage   *analysis.CoverageAnalyzer
	history    *history.Store
	drafter    *drafter.Drafter
	runner     *runner.Runner
}

// buildDeps resolves all collaborators from the configuration. The returned
// cleanup closes the history store and is always non-nil.
func buildDeps(cfg *config.Config) (*deps, func()) {
	d := &deps{}
	d.github = github.New(github.Config{Token: cfg.GitHubToken})

	if cfg.HasConfluence() {
		d.confluence = confluence.New(confluence.Config{
			BaseURL:  cfg.ConfluenceURL,
			Username: cfg.ConfluenceUsername,
			APIToken: cfg.ConfluenceAPIToken,
		})
		d.coverage = analysis.NewCoverageAnalyzer(
			confluence.NewTopicSearcher(d.confluence),
			analysis.CoverageOptions{TopicLimit: cfg.TopicLimit, LookupTimeout: cfg.LookupTimeout},
		)
	} else {
		log.Printf("WARNING: confluence not configured; coverage lookups disabled")
	}

	// History is an independent subsystem: if it fails to initialize,
	// analysis still works. We log a warning and run without persistence.
	cleanup := noop
	histStore, histErr := history.New(cfg.HistoryPath)
	if histErr != nil {
		log.Printf("WARNING: run history disabled: %v", histErr)
	} else {
		d.history = histStore
		cleanup = func() {
			if err := histStore.Close(); err != nil {
				log.Printf("WARNING: history store close: %v", err)
			}
		}
	}

	if cfg.HasDrafter() {
		d.drafter = drafter.New(cfg.AnthropicAPIKey)
	}

	opts := runner.Options{
		Thresholds:   cfg.Thresholds,
		DefaultSpace: cfg.DefaultSpace,
		Coverage:     d.coverage,
	}
	if d.history != nil {
		opts.History = d.history
	}
	d.runner = runner.New(d.github, opts)

	return d, cleanup
}

// NewAnalysisRunner resolves a standalone runner for CLI use. The returned
// cleanup must be called after the run completes.
func NewAnalysisRunner(cfg *config.Config) (*runner.Runner, func()) {
	d, cleanup := buildDeps(cfg)
	return d.runner, cleanup
}

// New creates and configures the MCP server with all tools, prompts, and
// resources registered. This is the single place where all dependencies
// are resolved.
//
// The returned cleanup function closes the history store's database
// connection and must be called on shutdown (typically via defer). It is
// always non-nil and safe to call even if history init failed.
func New(cfg *config.Config) (*server.MCPServer, func(), error) {
	d, cleanup := buildDeps(cfg)

	s := server.NewMCPServer(
		"docscout",
		Version,
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithPromptCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions(serverInstructions()),
	)

	// --- Register analysis tools ---

	analyzeTool := tools.NewAnalyzeTool(d.runner)
	s.AddTool(analyzeTool.Definition(), analyzeTool.Handle)

	classifyTool := tools.NewClassifyTool(cfg.Thresholds, cfg.DefaultSpace)
	s.AddTool(classifyTool.Definition(), classifyTool.Handle)

	// --- Register documentation-source tools ---
	//
	// These require a configured Confluence instance. Without one the
	// server still classifies and plans; it just cannot check coverage
	// or fetch pages.

	if d.confluence != nil {
		coverageTool := tools.NewCoverageTool(d.coverage)
		s.AddTool(coverageTool.Definition(), coverageTool.Handle)

		spacesTool := tools.NewSpacesTool(d.confluence)
		s.AddTool(spacesTool.Definition(), spacesTool.Handle)

		pageTool := tools.NewPageTool(d.confluence)
		s.AddTool(pageTool.Definition(), pageTool.Handle)
	}

	// --- Register history tool and resource ---

	if d.history != nil {
		historyTool := tools.NewHistoryTool(d.history)
		s.AddTool(historyTool.Definition(), historyTool.Handle)

		resourceHandler := resources.NewHandler(d.history)
		s.AddResource(resourceHandler.LatestRunResource(), resourceHandler.HandleLatestRun)
	}

	// --- Register drafting tool ---

	if d.drafter != nil {
		var pages tools.PageFetcher
		if d.confluence != nil {
			pages = d.confluence
		}
		draftTool := tools.NewDraftTool(d.drafter, pages)
		s.AddTool(draftTool.Definition(), draftTool.Handle)
	} else {
		log.Printf("WARNING: no Anthropic API key; doc_draft disabled")
	}

	// --- Register prompts ---

	reviewPrompt := prompts.NewReviewPrompt()
	s.AddPrompt(reviewPrompt.Definition(), reviewPrompt.Handle)

	return s, cleanup, nil
}

// noop is a no-op cleanup function used as the default when history
// is disabled or hasn't been initialized.
func noop() {}

// serverInstructions returns the system instructions that tell the AI
// how to use the docscout tools effectively.
func serverInstructions() string {
	return `You have access to docscout, a pull-request documentation-impact analyzer.

## WHEN TO USE docscout

Use it whenever the user asks what documentation a code change needs,
whether docs are out of date after a merge, or wants release-note or
migration-guide material for a pull request.

## WORKFLOW

1. doc_analyze_pr — run the full analysis for a repo and PR number.
   The report contains per-file classifications, a change-set summary,
   documentation coverage per topic, and a prioritized action plan.
2. doc_check_coverage / doc_list_spaces / doc_get_page — inspect the
   documentation source when you need detail beyond the report.
3. doc_draft — turn one planned action into draft content. Pass the
   action object exactly as it appears in the report; pass page_id for
   update actions so the current content informs the edits.
4. doc_history — recall past runs to compare or resume work.

Actions are ordered by priority: critical and high actions first.
Breaking changes with migration_required=true need a migration guide
before anything else.`
}
