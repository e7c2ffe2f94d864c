package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// APIError describes a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error (status %d): %s", e.StatusCode, e.Message)
}

// Idea mirrors the server-side idea representation.
type Idea struct {
	ID            string   `json:"id"`
	Problem       string   `json:"problem"`
	Solution      string   `json:"solution"`
	Impact        string   `json:"impact"`
	Category      string   `json:"category"`
	Tags          []string `json:"tags"`
	AuthorID      string   `json:"authorId"`
	AuthorName    string   `json:"authorName"`
	IsPublic      bool     `json:"isPublic"`
	Upvotes       int      `json:"upvotes"`
	UpvotedBy     []string `json:"upvotedBy"`
	TrendingScore float64  `json:"trendingScore"`
}

// VoteResult is the authoritative outcome of a vote toggle.
type VoteResult struct {
	Upvoted bool `json:"upvoted"`
	Upvotes int  `json:"upvotes"`
}

// BookmarkResult is the outcome of a bookmark toggle.
type BookmarkResult struct {
	Bookmarked bool `json:"bookmarked"`
}

// UserStats is the per-author engagement projection.
type UserStats struct {
	UserID               string `json:"userId"`
	TotalIdeas           int    `json:"totalIdeas"`
	TotalUpvotesReceived int    `json:"totalUpvotesReceived"`
}

// NewIdeaParams carries the fields for creating an idea.
type NewIdeaParams struct {
	Problem    string   `json:"problem"`
	Solution   string   `json:"solution"`
	Impact     string   `json:"impact"`
	Category   string   `json:"category"`
	Tags       []string `json:"tags"`
	AuthorName string   `json:"authorName"`
	IsPublic   *bool    `json:"isPublic"`
}

// ListOptions filters and bounds an idea listing.
type ListOptions struct {
	Sort     string // "recent" or "trending"
	Category string
	Query    string
	Limit    int
}

// Client is an HTTP client for the ifyoumind REST API.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token sent on every request.
func WithToken(token string) Option {
	return func(c *Client) {
		c.token = token
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.http = httpClient
	}
}

// New creates a new API client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		http:    http.DefaultClient,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// ToggleVote flips the caller's upvote on an idea and returns the
// authoritative server state.
func (c *Client) ToggleVote(ctx context.Context, ideaID string) (*VoteResult, error) {
	var result VoteResult
	if err := c.do(ctx, http.MethodPost, "/v1/ideas/"+ideaID+"/vote", nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// CreateIdea submits a new idea.
func (c *Client) CreateIdea(ctx context.Context, params NewIdeaParams) (*Idea, error) {
	var idea Idea
	if err := c.do(ctx, http.MethodPost, "/v1/ideas", params, &idea); err != nil {
		return nil, err
	}

	return &idea, nil
}

// GetIdea fetches a single idea by ID.
func (c *Client) GetIdea(ctx context.Context, ideaID string) (*Idea, error) {
	var idea Idea
	if err := c.do(ctx, http.MethodGet, "/v1/ideas/"+ideaID, nil, &idea); err != nil {
		return nil, err
	}

	return &idea, nil
}

// ListIdeas fetches public ideas according to the given options.
func (c *Client) ListIdeas(ctx context.Context, opts ListOptions) ([]*Idea, error) {
	query := url.Values{}
	if opts.Sort != "" {
		query.Set("sort", opts.Sort)
	}

	if opts.Category != "" {
		query.Set("category", opts.Category)
	}

	if opts.Query != "" {
		query.Set("q", opts.Query)
	}

	if opts.Limit > 0 {
		query.Set("limit", strconv.Itoa(opts.Limit))
	}

	path := "/v1/ideas"
	if encoded := query.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var ideas []*Idea
	if err := c.do(ctx, http.MethodGet, path, nil, &ideas); err != nil {
		return nil, err
	}

	return ideas, nil
}

// DeleteIdea removes an idea. Requires a moderator or admin token.
func (c *Client) DeleteIdea(ctx context.Context, ideaID string) error {
	return c.do(ctx, http.MethodDelete, "/v1/ideas/"+ideaID, nil, nil)
}

// ToggleBookmark flips the caller's bookmark on an idea.
func (c *Client) ToggleBookmark(ctx context.Context, ideaID string) (*BookmarkResult, error) {
	var result BookmarkResult
	if err := c.do(ctx, http.MethodPost, "/v1/ideas/"+ideaID+"/bookmark", nil, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

// GetUserStats fetches the engagement projection for an author.
func (c *Client) GetUserStats(ctx context.Context, userID string) (*UserStats, error) {
	var stats UserStats
	if err := c.do(ctx, http.MethodGet, "/v1/users/"+userID+"/stats", nil, &stats); err != nil {
		return nil, err
	}

	return &stats, nil
}

// do sends a request and decodes the JSON response into out, if non-nil.
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader

	if body != nil {
		data, err := sonic.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request body: %w", err)
		}

		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))

		return &APIError{
			StatusCode: resp.StatusCode,
			Message:    strings.TrimSpace(string(message)),
		}
	}

	if out == nil {
		return nil
	}

	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}

	return nil
}
