// Package drafter turns a planned documentation action into draft content
// using the Anthropic Messages API. It is an optional collaborator: the
// analysis pipeline is fully deterministic without it, and the server only
// wires it when an API key is configured.
package drafter

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	aoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/avelasco/docscout/internal/analysis"
)

const (
	defaultModel     = "claude-sonnet-4-20250514"
	defaultMaxTokens = 4096
)

const systemPrompt = `You are a senior technical writer maintaining a Confluence documentation space.
You write clear, accurate documentation in Confluence storage format (XHTML-based markup).
Ground every statement in the change information you are given; never invent behavior.`

// Draft is the produced content for one documentation action.
type Draft struct {
	Topic    string            `json:"topic"`
	Title    string            `json:"title"`
	Strategy analysis.Strategy `json:"strategy"`
	Content  string            `json:"content"`
}

// Drafter produces documentation drafts for planned actions.
type Drafter struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
}

// New creates a Drafter. Extra request options (base URL, custom transport)
// are passed through to the SDK client.
func New(apiKey string, extra ...aoption.RequestOption) *Drafter {
	opts := append([]aoption.RequestOption{aoption.WithAPIKey(strings.TrimSpace(apiKey))}, extra...)
	return &Drafter{
		client:    anthropic.NewClient(opts...),
		model:     defaultModel,
		maxTokens: defaultMaxTokens,
	}
}

// Draft generates content for one action. existingBody is the current page
// body for update actions, empty for create actions.
func (d *Drafter) Draft(ctx context.Context, action analysis.DocumentationAction, existingBody string) (*Draft, error) {
	params := anthropic.MessageNewParams{
		Model:     d.model,
		MaxTokens: d.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(buildPrompt(action, existingBody))),
		},
	}

	msg, err := d.client.Messages.New(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("drafter: messages request: %w", err)
	}

	var text strings.Builder
	for _, block := range msg.Content {
		if tb, ok := block.AsAny().(anthropic.TextBlock); ok {
			text.WriteString(tb.Text)
		}
	}
	if text.Len() == 0 {
		return nil, fmt.Errorf("drafter: model returned no text content")
	}

	return &Draft{
		Topic:    action.Topic,
		Title:    action.Title,
		Strategy: action.Strategy,
		Content:  text.String(),
	}, nil
}

// buildPrompt renders the action into drafting instructions. The strategy
// decides the shape of the output: a complete page, targeted edits, or a
// migration guide plus edits.
func buildPrompt(action analysis.DocumentationAction, existingBody string) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Planned documentation action: %s\n", action.Kind)
	fmt.Fprintf(&b, "Page title: %s\n", action.Title)
	fmt.Fprintf(&b, "Topic: %s\n", action.Topic)
	fmt.Fprintf(&b, "Priority: %s\n", action.Priority)
	fmt.Fprintf(&b, "Reason: %s\n", action.Reason)
	if len(action.Audiences) > 0 {
		fmt.Fprintf(&b, "Audiences: %s\n", strings.Join(action.Audiences, ", "))
	}
	if len(action.Files) > 0 {
		b.WriteString("\nChanged files:\n")
		for _, f := range action.Files {
			fmt.Fprintf(&b, "- %s\n", f)
		}
	}
	if action.BreakingChanges {
		b.WriteString("\nThese changes are breaking: call out behavior differences explicitly.\n")
	}
	if action.MigrationRequired {
		b.WriteString("\nA migration is required for these changes.\n")
	}

	switch action.Strategy {
	case analysis.StrategyCompleteContent:
		b.WriteString("\nWrite the complete page content from scratch, ready to publish.\n")
	case analysis.StrategyContextualUpdates:
		b.WriteString("\nWrite a numbered list of targeted edits. For each edit name the section to change and give the replacement or inserted markup.\n")
	case analysis.StrategyBoth:
		b.WriteString("\nWrite a complete migration guide page, then a numbered list of targeted edits for the existing documentation.\n")
	default:
		b.WriteString("\nWrite the documentation content appropriate for this action.\n")
	}

	if existingBody != "" {
		b.WriteString("\nCurrent page content:\n")
		b.WriteString(existingBody)
		b.WriteString("\n")
	}

	return b.String()
}
