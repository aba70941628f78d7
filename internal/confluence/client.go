// Package confluence is the documentation-source collaborator: it lists
// spaces, searches pages with CQL, and fetches page content from a
// Confluence Cloud instance. The analysis core reaches it only through the
// PageSearcher capability (see TopicSearcher), which owns the CQL grammar —
// topic keywords go in, page refs come out.
package confluence

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/avelasco/docscout/internal/analysis"
)

const (
	// defaultTimeout bounds each API call.
	defaultTimeout = 15 * time.Second

	// searchLimit caps results per CQL search.
	searchLimit = 25

	// spaceLimit caps the space listing.
	spaceLimit = 50
)

// Config holds Confluence client configuration.
type Config struct {
	// BaseURL is the instance root, e.g. https://acme.atlassian.net/wiki.
	BaseURL string
	// Username and APIToken authenticate via basic auth (Cloud style).
	Username string
	APIToken string
	// Timeout bounds each HTTP call. Zero means the default.
	Timeout time.Duration
}

// Client talks to the Confluence REST API.
type Client struct {
	baseURL  string
	username string
	apiToken string
	http     *http.Client
}

// New creates a Confluence client.
func New(cfg Config) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		username: cfg.Username,
		apiToken: cfg.APIToken,
		http:     &http.Client{Timeout: cfg.Timeout},
	}
}

// SpaceRef identifies one Confluence space.
type SpaceRef struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// Page is a fetched page with content and metadata.
type Page struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	SpaceKey string `json:"space_key"`
	Version  int    `json:"version"`
	Body     string `json:"body"`
}

// --- Wire shapes ---

type spaceListResponse struct {
	Results []struct {
		Key  string `json:"key"`
		Name string `json:"name"`
	} `json:"results"`
}

type searchResponse struct {
	Results []struct {
		ID    string `json:"id"`
		Title string `json:"title"`
		Space struct {
			Key string `json:"key"`
		} `json:"space"`
	} `json:"results"`
}

type pageResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Space struct {
		Key string `json:"key"`
	} `json:"space"`
	Version struct {
		Number int `json:"number"`
	} `json:"version"`
	Body struct {
		Storage struct {
			Value string `json:"value"`
		} `json:"storage"`
	} `json:"body"`
}

// ListSpaces returns the available spaces.
func (c *Client) ListSpaces(ctx context.Context) ([]SpaceRef, error) {
	u := fmt.Sprintf("%s/rest/api/space?start=0&limit=%d", c.baseURL, spaceLimit)

	var resp spaceListResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	spaces := make([]SpaceRef, len(resp.Results))
	for i, s := range resp.Results {
		spaces[i] = SpaceRef{Key: s.Key, Name: s.Name}
	}
	return spaces, nil
}

// Search runs a CQL query and returns matching page refs. The CQL string
// is passed through verbatim — composition belongs to the caller.
func (c *Client) Search(ctx context.Context, cql string) ([]analysis.PageRef, error) {
	u := fmt.Sprintf("%s/rest/api/content/search?cql=%s&limit=%d", c.baseURL, url.QueryEscape(cql), searchLimit)

	var resp searchResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	refs := make([]analysis.PageRef, len(resp.Results))
	for i, r := range resp.Results {
		refs[i] = analysis.PageRef{ID: r.ID, Title: r.Title, SpaceKey: r.Space.Key}
	}
	return refs, nil
}

// GetPage fetches one page with its storage-format body and metadata.
func (c *Client) GetPage(ctx context.Context, id string) (*Page, error) {
	u := fmt.Sprintf("%s/rest/api/content/%s?expand=body.storage,space,version", c.baseURL, url.PathEscape(id))

	var resp pageResponse
	if err := c.getJSON(ctx, u, &resp); err != nil {
		return nil, err
	}

	return &Page{
		ID:       resp.ID,
		Title:    resp.Title,
		SpaceKey: resp.Space.Key,
		Version:  resp.Version.Number,
		Body:     resp.Body.Storage.Value,
	}, nil
}

// getJSON performs an authenticated GET and decodes the JSON body into out.
func (c *Client) getJSON(ctx context.Context, u string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.SetBasicAuth(c.username, c.apiToken)

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("confluence request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("confluence returned %d for %s", resp.StatusCode, req.URL.Path)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding confluence response: %w", err)
	}
	return nil
}

// --- Topic search capability ---

// TopicSearcher adapts the client to the core's PageSearcher capability.
// It composes the CQL here so the query grammar never leaks into the
// analysis package.
type TopicSearcher struct {
	client *Client
}

// NewTopicSearcher wraps a client as a PageSearcher.
func NewTopicSearcher(client *Client) *TopicSearcher {
	return &TopicSearcher{client: client}
}

// SearchTopic finds pages whose text matches the topic keyword.
func (s *TopicSearcher) SearchTopic(ctx context.Context, topic string) ([]analysis.PageRef, error) {
	cql := fmt.Sprintf(`type = "page" AND text ~ "%s"`, escapeCQL(topic))
	return s.client.Search(ctx, cql)
}

// escapeCQL escapes quotes and backslashes inside a CQL string literal.
func escapeCQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, `"`, `\"`)
}
