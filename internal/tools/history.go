package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelasco/docscout/internal/history"
)

// RunHistory reads persisted analysis runs.
type RunHistory interface {
	Get(id string) (*history.Run, error)
	Recent(limit int) ([]history.Run, error)
	ByRepo(repo string, limit int) ([]history.Run, error)
}

// HistoryTool handles the doc_history MCP tool.
type HistoryTool struct {
	store RunHistory
}

// NewHistoryTool creates a HistoryTool.
func NewHistoryTool(store RunHistory) *HistoryTool {
	return &HistoryTool{store: store}
}

// Definition returns the MCP tool definition for registration.
func (t *HistoryTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_history",
		mcp.WithDescription(
			"Look up past analysis runs. With 'run_id' returns that run in full; "+
				"with 'repo' returns recent runs for that repository; with neither "+
				"returns the latest runs across all repositories.",
		),
		mcp.WithString("run_id",
			mcp.Description("Specific run id to fetch"),
		),
		mcp.WithString("repo",
			mcp.Description("Filter by repository in owner/name form"),
		),
		mcp.WithNumber("limit",
			mcp.Description("Max runs to return (default: 10)"),
		),
	)
}

// Handle processes the doc_history tool call.
func (t *HistoryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	if id := req.GetString("run_id", ""); id != "" {
		run, err := t.store.Get(id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("run %s not found: %v", id, err)), nil
		}
		return jsonResult(run)
	}

	limit := intArg(req, "limit", 10)

	if repo := req.GetString("repo", ""); repo != "" {
		runs, err := t.store.ByRepo(repo, limit)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
		}
		return jsonResult(runs)
	}

	runs, err := t.store.Recent(limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}
	return jsonResult(runs)
}
