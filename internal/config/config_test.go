package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"GITHUB_TOKEN", "REPO_NAME", "PR_NUMBER",
		"CONFLUENCE_URL", "CONFLUENCE_USERNAME", "CONFLUENCE_API_TOKEN",
		"ANTHROPIC_API_KEY", "DOCSCOUT_SPACE",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

// --- Load ---

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.TopicLimit != 3 {
		t.Errorf("TopicLimit = %d, want 3", cfg.TopicLimit)
	}
	if cfg.LookupTimeout != 10*time.Second {
		t.Errorf("LookupTimeout = %v, want 10s", cfg.LookupTimeout)
	}
	if cfg.OutputPath != DefaultOutputPath {
		t.Errorf("OutputPath = %s, want %s", cfg.OutputPath, DefaultOutputPath)
	}
	if cfg.HistoryPath != DefaultHistoryPath {
		t.Errorf("HistoryPath = %s, want %s", cfg.HistoryPath, DefaultHistoryPath)
	}
	if cfg.Thresholds.SignificantAdditions != 20 {
		t.Errorf("SignificantAdditions = %d, want 20", cfg.Thresholds.SignificantAdditions)
	}
}

func TestLoad_ReadsFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "docscout.yaml")
	data := `default_space: DOCS
topic_limit: 5
lookup_timeout_seconds: 3
output: out/report.json
history: out/history.db
thresholds:
  significant_additions: 30
  significant_deletions: 15
  breaking_additions: 80
  breaking_deletions: 20
  high_churn_additions: 200
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultSpace != "DOCS" {
		t.Errorf("DefaultSpace = %s, want DOCS", cfg.DefaultSpace)
	}
	if cfg.TopicLimit != 5 {
		t.Errorf("TopicLimit = %d, want 5", cfg.TopicLimit)
	}
	if cfg.LookupTimeout != 3*time.Second {
		t.Errorf("LookupTimeout = %v, want 3s", cfg.LookupTimeout)
	}
	if cfg.OutputPath != "out/report.json" {
		t.Errorf("OutputPath = %s", cfg.OutputPath)
	}
	if cfg.HistoryPath != "out/history.db" {
		t.Errorf("HistoryPath = %s", cfg.HistoryPath)
	}
	if cfg.Thresholds.SignificantAdditions != 30 || cfg.Thresholds.HighChurnAdditions != 200 {
		t.Errorf("thresholds not loaded: %+v", cfg.Thresholds)
	}
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "docscout.yaml")
	if err := os.WriteFile(path, []byte("default_space: FILE\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("DOCSCOUT_SPACE", "ENV")
	t.Setenv("GITHUB_TOKEN", "ghp_test")
	t.Setenv("REPO_NAME", "acme/widgets")
	t.Setenv("PR_NUMBER", "42")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.DefaultSpace != "ENV" {
		t.Errorf("DefaultSpace = %s, want ENV", cfg.DefaultSpace)
	}
	if cfg.GitHubToken != "ghp_test" {
		t.Errorf("GitHubToken = %s", cfg.GitHubToken)
	}
	if cfg.Repo != "acme/widgets" {
		t.Errorf("Repo = %s", cfg.Repo)
	}
	if cfg.PRNumber != 42 {
		t.Errorf("PRNumber = %d, want 42", cfg.PRNumber)
	}
}

func TestLoad_RejectsBadPRNumber(t *testing.T) {
	clearEnv(t)

	for _, bad := range []string{"abc", "-1", "0"} {
		t.Setenv("PR_NUMBER", bad)
		if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
			t.Errorf("PR_NUMBER=%q: expected error", bad)
		}
	}
}

func TestLoad_RejectsMalformedYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "docscout.yaml")
	if err := os.WriteFile(path, []byte(":\n  - not yaml"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

// --- Capability checks ---

func TestHasConfluence(t *testing.T) {
	cfg := &Config{}
	if cfg.HasConfluence() {
		t.Error("empty config should not have confluence")
	}

	cfg.ConfluenceURL = "https://acme.atlassian.net/wiki"
	cfg.ConfluenceUsername = "bot@acme.dev"
	if cfg.HasConfluence() {
		t.Error("missing token should not count as configured")
	}

	cfg.ConfluenceAPIToken = "tok"
	if !cfg.HasConfluence() {
		t.Error("fully configured confluence not detected")
	}
}

func TestHasDrafter(t *testing.T) {
	cfg := &Config{}
	if cfg.HasDrafter() {
		t.Error("empty config should not have drafter")
	}
	cfg.AnthropicAPIKey = "sk-ant-test"
	if !cfg.HasDrafter() {
		t.Error("drafter key not detected")
	}
}
