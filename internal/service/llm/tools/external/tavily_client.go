package external

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	DefaultTavilyBaseURL = "https://api.tavily.com"
	DefaultTavilyTimeout = 30 * time.Second

	tavilyMaxResults = 20
)

// TavilyClient implements SearchClient against the Tavily REST API.
type TavilyClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewTavilyClient(apiKey string) *TavilyClient {
	return NewTavilyClientWithConfig(apiKey, DefaultTavilyBaseURL, DefaultTavilyTimeout)
}

// NewTavilyClientWithConfig points the client at another base URL, such as
// an httptest server.
func NewTavilyClientWithConfig(apiKey, baseURL string, timeout time.Duration) *TavilyClient {
	return &TavilyClient{
		apiKey:     apiKey,
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
	}
}

type tavilySearchRequest struct {
	APIKey        string `json:"api_key"`
	Query         string `json:"query"`
	MaxResults    int    `json:"max_results"`
	SearchDepth   string `json:"search_depth,omitempty"`
	Topic         string `json:"topic,omitempty"`
	IncludeAnswer bool   `json:"include_answer"`
}

type tavilySearchResponse struct {
	Query   string `json:"query"`
	Answer  string `json:"answer"`
	Results []struct {
		Title         string  `json:"title"`
		URL           string  `json:"url"`
		Content       string  `json:"content"`
		Score         float64 `json:"score"`
		PublishedDate string  `json:"published_date,omitempty"`
	} `json:"results"`
}

type tavilyExtractRequest struct {
	APIKey string   `json:"api_key"`
	URLs   []string `json:"urls"`
}

type tavilyExtractResponse struct {
	Results []struct {
		URL        string `json:"url"`
		RawContent string `json:"raw_content"`
	} `json:"results"`
	FailedResults []struct {
		URL string `json:"url"`
	} `json:"failed_results"`
}

func (c *TavilyClient) Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error) {
	if opts.MaxResults <= 0 {
		opts.MaxResults = 5
	}
	if opts.MaxResults > tavilyMaxResults {
		opts.MaxResults = tavilyMaxResults
	}

	// Tavily takes the API key in the body, not in a header.
	var resp tavilySearchResponse
	err := c.post(ctx, "/search", tavilySearchRequest{
		APIKey:        c.apiKey,
		Query:         query,
		MaxResults:    opts.MaxResults,
		SearchDepth:   opts.SearchDepth,
		Topic:         opts.Topic,
		IncludeAnswer: true,
	}, &resp)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, len(resp.Results))
	for i, r := range resp.Results {
		results[i] = SearchResult{Title: r.Title, URL: r.URL, Snippet: r.Content, Score: r.Score}
		if r.PublishedDate != "" {
			if t, err := time.Parse(time.RFC3339, r.PublishedDate); err == nil {
				results[i].PublishedAt = &t
			}
		}
	}

	return &SearchResponse{
		Query:     query,
		Answer:    resp.Answer,
		Results:   results,
		Timestamp: time.Now(),
	}, nil
}

func (c *TavilyClient) Extract(ctx context.Context, urls []string) (*ExtractResponse, error) {
	var resp tavilyExtractResponse
	if err := c.post(ctx, "/extract", tavilyExtractRequest{APIKey: c.apiKey, URLs: urls}, &resp); err != nil {
		return nil, err
	}

	out := &ExtractResponse{Results: make([]ExtractResult, len(resp.Results))}
	for i, r := range resp.Results {
		out.Results[i] = ExtractResult{URL: r.URL, Content: r.RawContent}
	}
	for _, f := range resp.FailedResults {
		out.Failed = append(out.Failed, f.URL)
	}
	return out, nil
}

func (c *TavilyClient) post(ctx context.Context, path string, payload, dst any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("tavily %s: status %d: %s", path, resp.StatusCode, string(raw))
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
