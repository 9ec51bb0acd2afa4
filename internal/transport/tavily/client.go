// Package tavily is a thin client for the Tavily web search API, used
// as the fallback source when the guides lack an answer.
package tavily

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/guidechat/internal/domain"
	"github.com/kailas-cloud/guidechat/internal/metrics"
)

// Config holds the web search provider settings.
type Config struct {
	APIKey     string
	BaseURL    string
	MaxResults int
	Timeout    time.Duration
	Logger     *zap.Logger
}

// Client calls the Tavily search API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	maxResults int
	logger     *zap.Logger
}

// NewClient creates a Tavily search client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 3
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		maxResults: maxResults,
		logger:     cfg.Logger,
	}
}

type searchRequest struct {
	APIKey     string `json:"api_key"`
	Query      string `json:"query"`
	MaxResults int    `json:"max_results"`
}

type searchResponse struct {
	Results []struct {
		Title   string `json:"title"`
		URL     string `json:"url"`
		Content string `json:"content"`
	} `json:"results"`
}

// Search runs a web search for the query, bounded to the configured
// number of results. All failures wrap domain.ErrWebSearchError.
func (c *Client) Search(ctx context.Context, query string) ([]domain.WebResult, error) {
	body, err := json.Marshal(searchRequest{
		APIKey:     c.apiKey,
		Query:      query,
		MaxResults: c.maxResults,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		metrics.WebSearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: %w", domain.ErrWebSearchError, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		metrics.WebSearchRequestsTotal.WithLabelValues("error").Inc()
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d: %s", domain.ErrWebSearchError, resp.StatusCode, detail)
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		metrics.WebSearchRequestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("%w: decode response: %w", domain.ErrWebSearchError, err)
	}

	metrics.WebSearchRequestsTotal.WithLabelValues("success").Inc()

	if len(parsed.Results) > c.maxResults {
		parsed.Results = parsed.Results[:c.maxResults]
	}

	results := make([]domain.WebResult, len(parsed.Results))
	for i, r := range parsed.Results {
		results[i] = domain.WebResult{Title: r.Title, URL: r.URL, Content: r.Content}
	}
	return results, nil
}
