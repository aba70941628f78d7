package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelasco/docscout/internal/runner"
)

// Analyzer runs one full documentation-impact analysis.
type Analyzer interface {
	Run(ctx context.Context, repo string, number int) (*runner.Report, error)
}

// AnalyzeTool handles the doc_analyze_pr MCP tool.
// It runs the whole pipeline: fetch, classify, summarize, check coverage,
// and plan documentation actions.
type AnalyzeTool struct {
	analyzer Analyzer
}

// NewAnalyzeTool creates an AnalyzeTool.
func NewAnalyzeTool(analyzer Analyzer) *AnalyzeTool {
	return &AnalyzeTool{analyzer: analyzer}
}

// Definition returns the MCP tool definition for registration.
func (t *AnalyzeTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_analyze_pr",
		mcp.WithDescription(
			"Analyze a pull request's documentation impact. Fetches the changed files, "+
				"classifies each one, checks existing documentation coverage, and returns "+
				"a full report with planned documentation actions.",
		),
		mcp.WithString("repo",
			mcp.Required(),
			mcp.Description("Repository in owner/name form, e.g. 'acme/widgets'"),
		),
		mcp.WithNumber("pr_number",
			mcp.Required(),
			mcp.Description("Pull request number"),
		),
	)
}

// Handle processes the doc_analyze_pr tool call.
func (t *AnalyzeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	repo := req.GetString("repo", "")
	if repo == "" {
		return mcp.NewToolResultError("'repo' is required"), nil
	}
	number := intArg(req, "pr_number", 0)
	if number <= 0 {
		return mcp.NewToolResultError("'pr_number' must be a positive integer"), nil
	}

	report, err := t.analyzer.Run(ctx, repo, number)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}
	return jsonResult(report)
}
