// Package azure provides Azure DevOps API client functionality.
package azure

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/codeGROOVE-dev/reviewporter/pkg/cache"
	"github.com/codeGROOVE-dev/reviewporter/pkg/internal/transport"
	"github.com/codeGROOVE-dev/reviewporter/pkg/types"
)

// API versions understood by the endpoints in use.
const (
	apiVersion        = "6.0"
	apiVersionPreview = "6.0-preview.3"
)

// Client handles all Azure DevOps API interactions.
// It implements reviewer.Gateway.
type Client struct {
	http    *transport.Client
	rosters *cache.Cache[[]types.TeamMember] // nil when caching is off
	baseURL string                           // always ends with "/"
	project string
}

// Config holds configuration for creating a new Azure DevOps client.
type Config struct {
	HTTPClient  transport.HTTPDoer // nil builds an http.Client with HTTPTimeout
	BaseURL     string             // Organization URL, e.g. https://dev.azure.com/org/
	Project     string
	Token       string
	HTTPTimeout time.Duration
	RosterTTL   time.Duration // how long team rosters are reused; zero disables caching
}

// New creates a new Azure DevOps API client.
func New(cfg Config) (*Client, error) {
	if cfg.Project == "" {
		return nil, errors.New("project is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q: scheme and host are required", cfg.BaseURL)
	}
	base := u.String()
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	c := &Client{
		http: transport.New(transport.Config{
			HTTPClient:  cfg.HTTPClient,
			Component:   "azure",
			Token:       cfg.Token,
			HTTPTimeout: cfg.HTTPTimeout,
		}),
		baseURL: base,
		project: cfg.Project,
	}
	if cfg.RosterTTL > 0 {
		c.rosters = cache.New[[]types.TeamMember](cfg.RosterTTL)
	}
	return c, nil
}

// endpoint builds an API URL from escaped path segments and query parameters.
// api-version is always added.
func (c *Client) endpoint(version string, query url.Values, segments ...string) string {
	escaped := make([]string, len(segments))
	for i, s := range segments {
		escaped[i] = url.PathEscape(s)
	}
	if query == nil {
		query = url.Values{}
	}
	query.Set("api-version", version)
	return c.baseURL + strings.Join(escaped, "/") + "?" + query.Encode()
}

// webURL is the browser link of a pull request.
func (c *Client) webURL(repositoryID string, pullRequestID int) string {
	return fmt.Sprintf("%s%s/_git/%s/pullrequest/%d",
		c.baseURL, url.PathEscape(c.project), url.PathEscape(repositoryID), pullRequestID)
}
