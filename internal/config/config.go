// Package config loads runtime configuration from the environment and an
// optional docscout.yaml file. Environment variables hold credentials and
// target selection; the file tunes analysis behavior. Environment values
// override file values when both set the same knob.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/avelasco/docscout/internal/analysis"
)

const (
	// DefaultFileName is the config file looked up in the working directory.
	DefaultFileName = "docscout.yaml"

	// DefaultOutputPath is where the analysis report is written.
	DefaultOutputPath = "docscout-report.json"

	// DefaultHistoryPath is the sqlite database for past runs.
	DefaultHistoryPath = "docscout-history.db"

	defaultTopicLimit    = 3
	defaultLookupSeconds = 10
)

// Config is the fully resolved runtime configuration.
type Config struct {
	// GitHub credentials and target.
	GitHubToken string
	Repo        string
	PRNumber    int

	// Confluence credentials. Empty URL means coverage lookups degrade.
	ConfluenceURL      string
	ConfluenceUsername string
	ConfluenceAPIToken string

	// AnthropicAPIKey enables the drafter when set.
	AnthropicAPIKey string

	// DefaultSpace receives create_page actions when coverage found nothing.
	DefaultSpace string

	// Thresholds tune classification and significance.
	Thresholds analysis.Thresholds

	// TopicLimit caps coverage lookups per run.
	TopicLimit int

	// LookupTimeout bounds each coverage lookup.
	LookupTimeout time.Duration

	// OutputPath is where the report JSON lands.
	OutputPath string

	// HistoryPath is the sqlite file for run history.
	HistoryPath string
}

// fileConfig is the docscout.yaml shape.
type fileConfig struct {
	DefaultSpace  string               `yaml:"default_space"`
	TopicLimit    int                  `yaml:"topic_limit"`
	LookupSeconds int                  `yaml:"lookup_timeout_seconds"`
	OutputPath    string               `yaml:"output"`
	HistoryPath   string               `yaml:"history"`
	Thresholds    *analysis.Thresholds `yaml:"thresholds"`
}

// Load resolves configuration from path (missing file is fine) and the
// environment. Credentials come from the environment only.
func Load(path string) (*Config, error) {
	cfg := &Config{
		Thresholds:    analysis.DefaultThresholds(),
		TopicLimit:    defaultTopicLimit,
		LookupTimeout: defaultLookupSeconds * time.Second,
		OutputPath:    DefaultOutputPath,
		HistoryPath:   DefaultHistoryPath,
	}

	if path == "" {
		path = DefaultFileName
	}
	if err := applyFile(cfg, path); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parsing %s: %w", path, err)
	}

	if fc.DefaultSpace != "" {
		cfg.DefaultSpace = fc.DefaultSpace
	}
	if fc.TopicLimit > 0 {
		cfg.TopicLimit = fc.TopicLimit
	}
	if fc.LookupSeconds > 0 {
		cfg.LookupTimeout = time.Duration(fc.LookupSeconds) * time.Second
	}
	if fc.OutputPath != "" {
		cfg.OutputPath = fc.OutputPath
	}
	if fc.HistoryPath != "" {
		cfg.HistoryPath = fc.HistoryPath
	}
	if fc.Thresholds != nil {
		cfg.Thresholds = *fc.Thresholds
	}
	return nil
}

func applyEnv(cfg *Config) error {
	cfg.GitHubToken = os.Getenv("GITHUB_TOKEN")
	if v := os.Getenv("REPO_NAME"); v != "" {
		cfg.Repo = v
	}
	if v := os.Getenv("PR_NUMBER"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return fmt.Errorf("PR_NUMBER must be a positive integer, got %q", v)
		}
		cfg.PRNumber = n
	}
	cfg.ConfluenceURL = os.Getenv("CONFLUENCE_URL")
	cfg.ConfluenceUsername = os.Getenv("CONFLUENCE_USERNAME")
	cfg.ConfluenceAPIToken = os.Getenv("CONFLUENCE_API_TOKEN")
	cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	if v := os.Getenv("DOCSCOUT_SPACE"); v != "" {
		cfg.DefaultSpace = v
	}
	return nil
}

// HasConfluence reports whether coverage lookups can run.
func (c *Config) HasConfluence() bool {
	return c.ConfluenceURL != "" && c.ConfluenceUsername != "" && c.ConfluenceAPIToken != ""
}

// HasDrafter reports whether content drafting is available.
func (c *Config) HasDrafter() bool {
	return c.AnthropicAPIKey != ""
}
