// Package v1 provides programmatic access to a retainr server over its HTTP
// API.
package v1

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// ErrNotFound is returned when the server has no memory with the given ID.
var ErrNotFound = errors.New("memory not found")

// Client talks to a retainr HTTP server.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a Client with the given options.
func New(opts ...Option) *Client {
	cfg := &clientConfig{
		baseURL: "http://127.0.0.1:8000",
	}
	for _, opt := range opts {
		opt(cfg)
	}
	if cfg.httpClient == nil {
		cfg.httpClient = &http.Client{}
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.baseURL, "/"),
		http:    cfg.httpClient,
	}
}

// Save stores a new memory and returns its identifier and file path.
func (c *Client) Save(ctx context.Context, mem Memory) (SaveResult, error) {
	var res SaveResult
	err := c.do(ctx, http.MethodPost, "/memory", mem, &res)
	return res, err
}

// Get retrieves a memory by ID.
func (c *Client) Get(ctx context.Context, id string) (Memory, string, error) {
	var res struct {
		ID       string `json:"id"`
		FilePath string `json:"file_path"`
		Entry    Memory `json:"entry"`
	}
	if err := c.do(ctx, http.MethodGet, "/memory/"+url.PathEscape(id), nil, &res); err != nil {
		return Memory{}, "", err
	}
	return res.Entry, res.FilePath, nil
}

// Search runs a semantic similarity query.
func (c *Client) Search(ctx context.Context, query string, opts SearchOptions) ([]SearchResult, error) {
	q := url.Values{}
	q.Set("query", query)
	if opts.Project != "" {
		q.Set("project", opts.Project)
	}
	if len(opts.Tags) > 0 {
		q.Set("tags", strings.Join(opts.Tags, ","))
	}
	if opts.Top > 0 {
		q.Set("top", strconv.Itoa(opts.Top))
	}

	var res struct {
		Results []SearchResult `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/memory/search?"+q.Encode(), nil, &res); err != nil {
		return nil, err
	}
	return res.Results, nil
}

// List returns summaries of recent memories, newest first.
func (c *Client) List(ctx context.Context, project string, limit int) ([]Summary, error) {
	q := url.Values{}
	if project != "" {
		q.Set("project", project)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}

	path := "/memory"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var res struct {
		Memories []Summary `json:"memories"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &res); err != nil {
		return nil, err
	}
	return res.Memories, nil
}

// SetOutdated marks a memory as outdated or current.
func (c *Client) SetOutdated(ctx context.Context, id string, outdated bool) error {
	body := map[string]bool{"outdated": outdated}
	return c.do(ctx, http.MethodPatch, "/memory/"+url.PathEscape(id), body, nil)
}

// Stats returns vector collection statistics.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var res Stats
	err := c.do(ctx, http.MethodGet, "/memory/stats/collection", nil, &res)
	return res, err
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("server error (%d): %s", resp.StatusCode, apiErr.Error)
		}
		return fmt.Errorf("server error (%d)", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
