// Package resources implements MCP resource handlers for analysis results.
//
// Resources provide read-only data that the host can consume for context.
// They use URI-based addressing (docscout://...) following MCP conventions.
package resources

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelasco/docscout/internal/history"
)

// RunReader supplies recent analysis runs.
type RunReader interface {
	Recent(limit int) ([]history.Run, error)
}

// Handler manages docscout resource endpoints.
type Handler struct {
	runs RunReader
}

// NewHandler creates a resource Handler with its dependencies.
func NewHandler(runs RunReader) *Handler {
	return &Handler{runs: runs}
}

// LatestRunResource returns the MCP resource definition for the most
// recent analysis run.
func (h *Handler) LatestRunResource() mcp.Resource {
	return mcp.NewResource(
		"docscout://runs/latest",
		"Latest Analysis Run",
		mcp.WithResourceDescription("The most recent documentation-impact analysis: summary and planned actions"),
		mcp.WithMIMEType("application/json"),
	)
}

// HandleLatestRun returns the most recent run as JSON.
func (h *Handler) HandleLatestRun(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	runs, err := h.runs.Recent(1)
	if err != nil {
		return errorResource(req.Params.URI, err.Error()), nil
	}
	if len(runs) == 0 {
		return errorResource(req.Params.URI, "no analysis runs recorded yet"), nil
	}

	data, err := json.MarshalIndent(runs[0], "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling run: %w", err)
	}

	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      req.Params.URI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// errorResource returns a resource with an error message.
func errorResource(uri, message string) []mcp.ResourceContents {
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "text/plain",
			Text:     fmt.Sprintf("Error: %s", message),
		},
	}
}
