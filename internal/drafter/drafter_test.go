package drafter

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	aoption "github.com/anthropics/anthropic-sdk-go/option"

	"github.com/avelasco/docscout/internal/analysis"
)

// fakeMessages serves a minimal Messages API response and records requests.
func fakeMessages(t *testing.T, replyText string) (*httptest.Server, *map[string]any) {
	t.Helper()
	captured := map[string]any{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_test",
			"type": "message",
			"role": "assistant",
			"model": "claude-sonnet-4-20250514",
			"content": [{"type": "text", "text": ` + jsonString(replyText) + `}],
			"stop_reason": "end_turn",
			"usage": {"input_tokens": 10, "output_tokens": 20}
		}`))
	}))
	t.Cleanup(srv.Close)
	return srv, &captured
}

func jsonString(s string) string {
	b, _ := json.Marshal(s)
	return string(b)
}

func sampleAction() analysis.DocumentationAction {
	return analysis.DocumentationAction{
		Kind:            analysis.ActionCreatePage,
		SpaceKey:        "DOCS",
		Title:           "API Documentation",
		Topic:           "api",
		Priority:        analysis.PriorityCritical,
		Strategy:        analysis.StrategyCompleteContent,
		Reason:          "breaking API changes without existing coverage",
		Audiences:       []string{"developers", "integrators"},
		Files:           []string{"auth/api/login_controller.py"},
		BreakingChanges: true,
	}
}

func TestDraft_ReturnsModelText(t *testing.T) {
	srv, _ := fakeMessages(t, "<h1>API Documentation</h1><p>drafted</p>")

	d := New("sk-ant-test", aoption.WithBaseURL(srv.URL))

	draft, err := d.Draft(context.Background(), sampleAction(), "")
	if err != nil {
		t.Fatalf("Draft() error = %v", err)
	}
	if draft.Content != "<h1>API Documentation</h1><p>drafted</p>" {
		t.Errorf("unexpected content %q", draft.Content)
	}
	if draft.Topic != "api" || draft.Title != "API Documentation" {
		t.Errorf("action metadata not carried: %+v", draft)
	}
	if draft.Strategy != analysis.StrategyCompleteContent {
		t.Errorf("strategy = %s", draft.Strategy)
	}
}

func TestDraft_PromptCarriesActionDetails(t *testing.T) {
	srv, captured := fakeMessages(t, "ok")

	d := New("sk-ant-test", aoption.WithBaseURL(srv.URL))

	if _, err := d.Draft(context.Background(), sampleAction(), ""); err != nil {
		t.Fatalf("Draft() error = %v", err)
	}

	messages, ok := (*captured)["messages"].([]any)
	if !ok || len(messages) != 1 {
		t.Fatalf("expected 1 message in request, got %v", (*captured)["messages"])
	}
	raw, _ := json.Marshal(messages[0])
	prompt := string(raw)

	for _, want := range []string{
		"create_page", "API Documentation", "auth/api/login_controller.py",
		"critical", "developers, integrators", "complete page content",
	} {
		if !strings.Contains(prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
}

func TestDraft_IncludesExistingBodyForUpdates(t *testing.T) {
	srv, captured := fakeMessages(t, "ok")

	d := New("sk-ant-test", aoption.WithBaseURL(srv.URL))

	action := sampleAction()
	action.Kind = analysis.ActionUpdatePage
	action.Strategy = analysis.StrategyContextualUpdates

	if _, err := d.Draft(context.Background(), action, "<p>old content</p>"); err != nil {
		t.Fatalf("Draft() error = %v", err)
	}

	raw, _ := json.Marshal((*captured)["messages"])
	prompt := string(raw)
	if !strings.Contains(prompt, "old content") {
		t.Error("prompt should include existing page body")
	}
	if !strings.Contains(prompt, "targeted edits") {
		t.Error("prompt should ask for targeted edits under contextual_updates")
	}
}

func TestDraft_MigrationGuidePromptForBoth(t *testing.T) {
	srv, captured := fakeMessages(t, "ok")

	d := New("sk-ant-test", aoption.WithBaseURL(srv.URL))

	action := sampleAction()
	action.Strategy = analysis.StrategyBoth
	action.MigrationRequired = true

	if _, err := d.Draft(context.Background(), action, ""); err != nil {
		t.Fatalf("Draft() error = %v", err)
	}

	raw, _ := json.Marshal((*captured)["messages"])
	prompt := string(raw)
	if !strings.Contains(prompt, "migration guide") {
		t.Error("prompt should ask for a migration guide")
	}
	if !strings.Contains(prompt, "migration is required") {
		t.Error("prompt should state the migration requirement")
	}
}

func TestDraft_ErrorOnEmptyContent(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "msg_test", "type": "message", "role": "assistant",
			"model": "claude-sonnet-4-20250514", "content": [],
			"stop_reason": "end_turn", "usage": {"input_tokens": 1, "output_tokens": 0}
		}`))
	}))
	defer srv.Close()

	d := New("sk-ant-test", aoption.WithBaseURL(srv.URL))

	if _, err := d.Draft(context.Background(), sampleAction(), ""); err == nil {
		t.Error("expected error when model returns no text")
	}
}
