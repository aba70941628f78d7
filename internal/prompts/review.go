// Package prompts implements MCP prompt handlers for documentation review.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// ReviewPrompt handles the doc-review MCP prompt.
// It guides the AI through a full documentation review of a pull request.
type ReviewPrompt struct{}

// NewReviewPrompt creates a ReviewPrompt.
func NewReviewPrompt() *ReviewPrompt {
	return &ReviewPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *ReviewPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("doc-review",
		mcp.WithPromptDescription(
			"Review a pull request's documentation impact end to end: "+
				"analyze the changes, walk through the planned documentation "+
				"actions, and draft content for the most urgent ones.",
		),
		mcp.WithArgument("repo",
			mcp.ArgumentDescription("Repository in owner/name form, e.g. 'acme/widgets'"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("pr_number",
			mcp.ArgumentDescription("Pull request number to review"),
			mcp.RequiredArgument(),
		),
	)
}

// Handle processes the doc-review prompt request.
func (p *ReviewPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	repo := ""
	prNumber := ""
	if args := req.Params.Arguments; args != nil {
		repo = args["repo"]
		prNumber = args["pr_number"]
	}
	if repo == "" || prNumber == "" {
		return nil, fmt.Errorf("doc-review requires 'repo' and 'pr_number' arguments")
	}

	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Documentation review: %s#%s", repo, prNumber),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(fmt.Sprintf(
					"Please review the documentation impact of pull request %s#%s.\n\n"+
						"1. Run `doc_analyze_pr` with repo='%s' and pr_number=%s\n"+
						"2. Summarize the change-set narrative and list the planned actions in priority order\n"+
						"3. For each critical or high priority action, check the matched pages with `doc_get_page` when updating, then draft content with `doc_draft`\n"+
						"4. Flag any breaking changes that need a migration guide\n"+
						"5. Finish with a short checklist of what the documentation team should publish",
					repo, prNumber, repo, prNumber,
				)),
			},
		},
	}, nil
}
