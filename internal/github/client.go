package github

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"commitnotes/pkg/errors"
	"commitnotes/pkg/models"
)

const (
	DefaultAPIURL = "https://api.github.com"
	DefaultWebURL = "https://github.com"

	acceptHeader = "application/vnd.github+json"
	// Error bodies are only kept for the error message.
	maxErrorBody = 4096
)

// Client lists commits through the GitHub REST API. No authentication is sent.
type Client struct {
	apiURL     string
	webURL     string
	linkPrefix string
	userAgent  string
	httpClient *http.Client
}

// Option configures a Client
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.httpClient = hc
		}
	}
}

// WithTimeout sets a request timeout. Zero keeps the client default of no timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithWebURL sets the base used for commit and profile links
func WithWebURL(webURL string) Option {
	return func(c *Client) {
		if webURL != "" {
			c.webURL = strings.TrimRight(webURL, "/")
		}
	}
}

// WithLinkPrefix sets the directory prefix of the placeholder links
func WithLinkPrefix(prefix string) Option {
	return func(c *Client) {
		c.linkPrefix = strings.TrimRight(prefix, "/")
	}
}

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// NewClient creates a client for the API rooted at apiURL
func NewClient(apiURL string, opts ...Option) *Client {
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	c := &Client{
		apiURL:     strings.TrimRight(apiURL, "/"),
		webURL:     DefaultWebURL,
		linkPrefix: "./commits",
		userAgent:  "commitnotes",
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CommitsURL returns the commit-listing endpoint for org/repo
func (c *Client) CommitsURL(org, repo string) string {
	return fmt.Sprintf("%s/repos/%s/%s/commits", c.apiURL, url.PathEscape(org), url.PathEscape(repo))
}

// FetchCommits issues a single GET for the default page of commits and maps
// every entry to a CommitRecord, preserving the order returned by the API.
func (c *Client) FetchCommits(ctx context.Context, org, repo string) ([]models.CommitRecord, error) {
	endpoint := c.CommitsURL(org, repo)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, errors.NetworkError("failed to build commits request", err).
			WithContext("url", endpoint)
	}
	req.Header.Set("Accept", acceptHeader)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.NetworkError(fmt.Sprintf("GET %s failed", endpoint), err).
			WithContext("url", endpoint)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, errors.StatusError(endpoint, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var entries []apiCommit
	if err := json.NewDecoder(resp.Body).Decode(&entries); err != nil {
		return nil, errors.ParseError("commit list is not a JSON array of commits", err).
			WithContext("url", endpoint)
	}

	return c.toRecords(org, repo, entries)
}

func (c *Client) toRecords(org, repo string, entries []apiCommit) ([]models.CommitRecord, error) {
	records := make([]models.CommitRecord, 0, len(entries))
	for i, entry := range entries {
		fields, err := entry.fields(i)
		if err != nil {
			return nil, err
		}
		records = append(records, c.newRecord(org, repo, fields))
	}
	return records, nil
}

func (c *Client) newRecord(org, repo string, f commitFields) models.CommitRecord {
	short := models.ShortHash(f.sha)
	return models.CommitRecord{
		Title:        models.MessageTitle(f.message),
		URL:          fmt.Sprintf("%s/%s/%s/commit/%s", c.webURL, org, repo, f.sha),
		Hash:         f.sha,
		AuthorName:   f.authorName,
		AuthorLogin:  f.authorLogin,
		AuthorURL:    fmt.Sprintf("%s/%s", c.webURL, f.authorLogin),
		PromptLink:   c.link(short + ".md"),
		PromptLinkZh: c.link(short + "_zh.md"),
	}
}

func (c *Client) link(name string) string {
	if c.linkPrefix == "" {
		return name
	}
	return c.linkPrefix + "/" + name
}
