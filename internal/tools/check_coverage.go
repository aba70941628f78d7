package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelasco/docscout/internal/analysis"
)

// CoverageTool handles the doc_check_coverage MCP tool.
type CoverageTool struct {
	analyzer *analysis.CoverageAnalyzer
}

// NewCoverageTool creates a CoverageTool.
func NewCoverageTool(analyzer *analysis.CoverageAnalyzer) *CoverageTool {
	return &CoverageTool{analyzer: analyzer}
}

// Definition returns the MCP tool definition for registration.
func (t *CoverageTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_check_coverage",
		mcp.WithDescription(
			"Check whether existing documentation already covers one or more topics. "+
				"Searches the documentation source and returns, per topic, the matched "+
				"pages plus a recommended content approach for covered and uncovered cases.",
		),
		mcp.WithString("topics",
			mcp.Required(),
			mcp.Description("Comma-separated topic keywords, e.g. 'api,authentication'"),
		),
	)
}

// Handle processes the doc_check_coverage tool call.
func (t *CoverageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	topics := splitTopics(req.GetString("topics", ""))
	if len(topics) == 0 {
		return mcp.NewToolResultError("'topics' is required: one or more comma-separated topic keywords"), nil
	}

	return jsonResult(t.analyzer.Analyze(ctx, topics))
}

// splitTopics parses the comma-separated topics argument, dropping blanks.
func splitTopics(raw string) []string {
	var topics []string
	for _, part := range strings.Split(raw, ",") {
		if topic := strings.TrimSpace(part); topic != "" {
			topics = append(topics, topic)
		}
	}
	return topics
}
