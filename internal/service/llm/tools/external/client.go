// Package external holds clients for third-party APIs used by tools.
package external

import (
	"context"
	"time"
)

// SearchClient is a web search API.
type SearchClient interface {
	Search(ctx context.Context, query string, opts SearchOptions) (*SearchResponse, error)
	// Extract fetches the readable content of the given pages.
	Extract(ctx context.Context, urls []string) (*ExtractResponse, error)
}

type SearchOptions struct {
	MaxResults  int
	SearchDepth string // "basic" or "advanced"
	Topic       string // "general", "news" or "finance"
}

type SearchResponse struct {
	Query     string
	Answer    string
	Results   []SearchResult
	Timestamp time.Time
}

type SearchResult struct {
	Title       string
	URL         string
	Snippet     string
	PublishedAt *time.Time
	Score       float64
}

type ExtractResponse struct {
	Results []ExtractResult
	// Failed lists URLs the provider could not fetch.
	Failed []string
}

type ExtractResult struct {
	URL     string
	Content string
}
