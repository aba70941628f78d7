package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelasco/docscout/internal/analysis"
	"github.com/avelasco/docscout/internal/drafter"
)

// ContentDrafter produces draft content for a planned action.
type ContentDrafter interface {
	Draft(ctx context.Context, action analysis.DocumentationAction, existingBody string) (*drafter.Draft, error)
}

// DraftTool handles the doc_draft MCP tool.
// The pages fetcher is optional: when nil, update drafts are written
// without the current page body.
type DraftTool struct {
	drafter ContentDrafter
	pages   PageFetcher
}

// NewDraftTool creates a DraftTool.
func NewDraftTool(d ContentDrafter, pages PageFetcher) *DraftTool {
	return &DraftTool{drafter: d, pages: pages}
}

// Definition returns the MCP tool definition for registration.
func (t *DraftTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_draft",
		mcp.WithDescription(
			"Draft documentation content for one planned action from doc_analyze_pr. "+
				"Pass the action object as returned in the report; optionally pass a "+
				"'page_id' so the current page body informs contextual updates.",
		),
		mcp.WithObject("action",
			mcp.Required(),
			mcp.Description("One documentation action object from an analysis report"),
		),
		mcp.WithString("page_id",
			mcp.Description("Existing page id to fetch as drafting context"),
		),
	)
}

// Handle processes the doc_draft tool call.
func (t *DraftTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()["action"]
	if !ok {
		return mcp.NewToolResultError("'action' is required"), nil
	}

	data, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid 'action' argument: %v", err)), nil
	}
	var action analysis.DocumentationAction
	if err := json.Unmarshal(data, &action); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'action' must be a documentation action object: %v", err)), nil
	}
	if err := analysis.ValidateActionKind(action.Kind); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	var existingBody string
	if id := req.GetString("page_id", ""); id != "" {
		if t.pages == nil {
			return mcp.NewToolResultError("no documentation source configured; cannot fetch page_id"), nil
		}
		page, err := t.pages.GetPage(ctx, id)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("fetching page %s failed: %v", id, err)), nil
		}
		existingBody = page.Body
	}

	draft, err := t.drafter.Draft(ctx, action, existingBody)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("drafting failed: %v", err)), nil
	}
	return jsonResult(draft)
}
