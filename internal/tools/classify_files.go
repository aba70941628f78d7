package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/avelasco/docscout/internal/analysis"
)

// ClassifyTool handles the doc_classify_files MCP tool.
// It classifies caller-supplied change records without touching GitHub,
// useful for what-if analysis on a diff that is not a pull request yet.
// The whole core runs: classify, aggregate, and plan. With no coverage
// lookup every candidate topic plans as uncovered.
type ClassifyTool struct {
	thresholds   analysis.Thresholds
	defaultSpace string
}

// NewClassifyTool creates a ClassifyTool.
func NewClassifyTool(thresholds analysis.Thresholds, defaultSpace string) *ClassifyTool {
	return &ClassifyTool{thresholds: thresholds, defaultSpace: defaultSpace}
}

// classifyResult carries the per-file descriptors, the change-set summary,
// and the planned actions.
type classifyResult struct {
	Files   []analysis.ChangeDescriptor    `json:"files"`
	Summary analysis.ChangeSetSummary      `json:"summary"`
	Actions []analysis.DocumentationAction `json:"actions"`
}

// Definition returns the MCP tool definition for registration.
func (t *ClassifyTool) Definition() mcp.Tool {
	return mcp.NewTool("doc_classify_files",
		mcp.WithDescription(
			"Classify a set of changed files without fetching anything. Each file gets a "+
				"category, impact level, and breaking-change flags; the response includes a "+
				"change-set summary with a narrative and strategy hint, plus the planned "+
				"documentation actions (treating every topic as uncovered).",
		),
		mcp.WithArray("files",
			mcp.Required(),
			mcp.Description(
				"Changed files as objects with 'filename', 'status' (added/modified/deleted/renamed), "+
					"'additions', and 'deletions'.",
			),
		),
	)
}

// Handle processes the doc_classify_files tool call.
func (t *ClassifyTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	raw, ok := req.GetArguments()["files"]
	if !ok {
		return mcp.NewToolResultError("'files' is required"), nil
	}

	// Round-trip through JSON to convert the generic argument shape.
	data, err := json.Marshal(raw)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid 'files' argument: %v", err)), nil
	}
	var records []analysis.ChangeRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("'files' must be an array of change records: %v", err)), nil
	}

	classifier := analysis.NewClassifier(t.thresholds)
	descriptors := classifier.ClassifyAll(records)
	summary := analysis.Aggregate(descriptors, t.thresholds)
	actions := analysis.Plan(summary, nil, descriptors, analysis.PlanOptions{
		Thresholds:   t.thresholds,
		DefaultSpace: t.defaultSpace,
	})

	return jsonResult(classifyResult{Files: descriptors, Summary: summary, Actions: actions})
}
