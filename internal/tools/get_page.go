package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelasco/docscout/internal/confluence"
)

// PageFetcher fetches one documentation page with content.
type PageFetcher interface {
	GetPage(ctx context.Context, id string) (*confluence.Page, error)
}

// pagePreviewLimit caps the body returned by doc_get_page. Full pages can
// run to tens of kilobytes of storage-format markup; a preview is enough to
// decide how to draft against the page.
const pagePreviewLimit = 1000

// PageTool handles the doc_get_page MCP tool.
type PageTool struct {
	source PageFetcher
}

// NewPageTool creates a PageTool.
func NewPageTool(source PageFetcher) *PageTool {
	return &PageTool{source: source}
}

// Definition returns the MCP tool definition for registration.
func (t *PageTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_get_page",
		mcp.WithDescription(
			"Fetch one documentation page by id with a preview of its storage-format "+
				"body. Use this to inspect a page before drafting contextual updates for it.",
		),
		mcp.WithString("page_id",
			mcp.Required(),
			mcp.Description("Confluence page id"),
		),
	)
}

// Handle processes the doc_get_page tool call.
func (t *PageTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := req.GetString("page_id", "")
	if id == "" {
		return mcp.NewToolResultError("'page_id' is required"), nil
	}

	page, err := t.source.GetPage(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("fetching page %s failed: %v", id, err)), nil
	}

	preview := *page
	if len(preview.Body) > pagePreviewLimit {
		preview.Body = preview.Body[:pagePreviewLimit] + "..."
	}
	return jsonResult(preview)
}
