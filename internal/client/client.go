// Package client is a small HTTP client for the RAG API, used by ragctl.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

// SearchResult is one ranked posting returned by the API.
type SearchResult struct {
	ID       int64   `json:"id"`
	Title    string  `json:"title"`
	Content  string  `json:"content"`
	Distance float64 `json:"distance"`
}

// SearchResponse is the payload of /v1/search/.
type SearchResponse struct {
	Results []SearchResult `json:"results"`
	Query   string         `json:"query"`
	Count   int            `json:"count"`
}

// Health is the payload of /v1/health/.
type Health struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	DBFile   string `json:"db_file"`
	Postings int    `json:"postings"`
}

type apiError struct {
	Error struct {
		Kind    string `json:"kind"`
		Message string `json:"message"`
	} `json:"error"`
}

// Client talks to one RAG API instance.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a client for the given base URL (e.g. http://localhost:8000).
func New(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// Search runs a query against /v1/search/.
func (c *Client) Search(ctx context.Context, query string, k int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("query", query)
	if k > 0 {
		params.Set("k", strconv.Itoa(k))
	}

	var out SearchResponse
	if err := c.get(ctx, "/v1/search/?"+params.Encode(), &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetHealth fetches /v1/health/.
func (c *Client) GetHealth(ctx context.Context) (*Health, error) {
	var out Health
	if err := c.get(ctx, "/v1/health/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request %s: %w", path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var ae apiError
		if err := json.NewDecoder(resp.Body).Decode(&ae); err == nil && ae.Error.Message != "" {
			return fmt.Errorf("%s: %s", ae.Error.Kind, ae.Error.Message)
		}
		return fmt.Errorf("request %s: status %d", path, resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}
