// Package github fetches the changed-file list of a pull request from the
// GitHub REST API. It is the change-source collaborator: the analysis core
// never talks to it directly — the runner fetches records here and hands
// plain data to the classifier.
//
// Failures surface as a typed *FetchError carrying the failure kind
// (auth, rate limit, not found, unavailable) so callers can decide between
// retrying and aborting the run.
package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/avelasco/docscout/internal/analysis"
)

const (
	// defaultBaseURL is the public GitHub API endpoint.
	defaultBaseURL = "https://api.github.com"

	// defaultTimeout bounds each API call.
	defaultTimeout = 15 * time.Second

	// perPage is the page size for file listings (GitHub's maximum).
	perPage = 100

	// maxPages caps pagination — 30 pages * 100 files covers any PR GitHub
	// itself will render.
	maxPages = 30

	acceptHeader = "application/vnd.github.v3+json"
	userAgent    = "docscout"
)

// --- Error taxonomy ---

// ErrorKind classifies an upstream fetch failure.
type ErrorKind string

const (
	KindAuth        ErrorKind = "auth"
	KindRateLimited ErrorKind = "rate_limited"
	KindNotFound    ErrorKind = "not_found"
	KindUnavailable ErrorKind = "unavailable"
)

// FetchError is a typed failure from the change source. It is always
// recoverable by the caller (retry or abort) and never corrupts run state.
type FetchError struct {
	Kind       ErrorKind
	StatusCode int
	URL        string
	Message    string
}

func (e *FetchError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("github: %s (%d) fetching %s: %s", e.Kind, e.StatusCode, e.URL, e.Message)
	}
	return fmt.Sprintf("github: %s fetching %s: %s", e.Kind, e.URL, e.Message)
}

// --- Client ---

// Config holds GitHub client configuration.
type Config struct {
	// Token is the bearer token. Empty means unauthenticated requests
	// (public repos only, low rate limits).
	Token string
	// BaseURL overrides the API endpoint (GitHub Enterprise, tests).
	BaseURL string
	// Timeout bounds each HTTP call. Zero means the default.
	Timeout time.Duration
}

// Client talks to the GitHub REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// New creates a GitHub client. Zero config fields fall back to defaults.
func New(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL: cfg.BaseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: cfg.Timeout},
	}
}

// PullRequest holds the PR context fields the analysis pipeline reports.
type PullRequest struct {
	Number int    `json:"number"`
	Title  string `json:"title"`
	Body   string `json:"body"`
	State  string `json:"state"`
}

// prFile is the wire shape of one entry from the pull-request files API.
type prFile struct {
	Filename  string `json:"filename"`
	Status    string `json:"status"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
}

// ListChangedFiles fetches every changed file of a pull request, paging
// through the files endpoint in order. The returned records preserve
// GitHub's ordering, which downstream aggregation relies on for
// reproducible output.
func (c *Client) ListChangedFiles(ctx context.Context, repo string, number int) ([]analysis.ChangeRecord, error) {
	var records []analysis.ChangeRecord

	for page := 1; page <= maxPages; page++ {
		url := fmt.Sprintf("%s/repos/%s/pulls/%d/files?per_page=%d&page=%d", c.baseURL, repo, number, perPage, page)

		var files []prFile
		if err := c.getJSON(ctx, url, &files); err != nil {
			return nil, err
		}

		for _, f := range files {
			records = append(records, analysis.ChangeRecord{
				Filename:  f.Filename,
				Status:    mapStatus(f.Status),
				Additions: f.Additions,
				Deletions: f.Deletions,
			})
		}

		if len(files) < perPage {
			break
		}
	}

	return records, nil
}

// GetPullRequest fetches the PR's title and body for report context.
func (c *Client) GetPullRequest(ctx context.Context, repo string, number int) (*PullRequest, error) {
	url := fmt.Sprintf("%s/repos/%s/pulls/%d", c.baseURL, repo, number)

	var pr PullRequest
	if err := c.getJSON(ctx, url, &pr); err != nil {
		return nil, err
	}
	return &pr, nil
}

// getJSON performs an authenticated GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, url string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", userAgent)
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return &FetchError{Kind: KindUnavailable, URL: url, Message: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return classifyStatus(resp, url)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &FetchError{Kind: KindUnavailable, StatusCode: resp.StatusCode, URL: url,
			Message: fmt.Sprintf("decoding response: %v", err)}
	}
	return nil
}

// classifyStatus maps an HTTP error status to the fetch error taxonomy.
// A 403 with an exhausted rate-limit header is a rate limit, not an auth
// failure — GitHub reports both with the same status.
func classifyStatus(resp *http.Response, url string) *FetchError {
	e := &FetchError{StatusCode: resp.StatusCode, URL: url, Message: http.StatusText(resp.StatusCode)}

	switch resp.StatusCode {
	case http.StatusUnauthorized:
		e.Kind = KindAuth
	case http.StatusForbidden:
		if resp.Header.Get("X-RateLimit-Remaining") == "0" {
			e.Kind = KindRateLimited
		} else {
			e.Kind = KindAuth
		}
	case http.StatusTooManyRequests:
		e.Kind = KindRateLimited
	case http.StatusNotFound:
		e.Kind = KindNotFound
	default:
		e.Kind = KindUnavailable
	}
	return e
}

// mapStatus converts GitHub's file status vocabulary to the analysis
// model. GitHub reports deletions as "removed".
func mapStatus(s string) analysis.ChangeStatus {
	switch s {
	case "added", "copied":
		return analysis.StatusAdded
	case "removed":
		return analysis.StatusDeleted
	case "renamed":
		return analysis.StatusRenamed
	default:
		return analysis.StatusModified
	}
}
