package tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelasco/docscout/internal/confluence"
)

// SpaceLister lists the available documentation spaces.
type SpaceLister interface {
	ListSpaces(ctx context.Context) ([]confluence.SpaceRef, error)
}

// SpacesTool handles the doc_list_spaces MCP tool.
type SpacesTool struct {
	source SpaceLister
}

// NewSpacesTool creates a SpacesTool.
func NewSpacesTool(source SpaceLister) *SpacesTool {
	return &SpacesTool{source: source}
}

// Definition returns the MCP tool definition for registration.
func (t *SpacesTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_list_spaces",
		mcp.WithDescription(
			"List the documentation spaces available in the configured Confluence instance. "+
				"Use this to pick a target space for create_page actions.",
		),
	)
}

// Handle processes the doc_list_spaces tool call.
func (t *SpacesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	spaces, err := t.source.ListSpaces(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing spaces failed: %v", err)), nil
	}
	return jsonResult(spaces)
}
