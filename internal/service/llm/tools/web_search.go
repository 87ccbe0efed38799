package tools

import (
	"context"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/tools/external"
)

// WebSearchTool implements the webSearch tool on top of a SearchClient.
type WebSearchTool struct {
	client external.SearchClient
	config *ToolConfig
}

func NewWebSearchTool(client external.SearchClient, config *ToolConfig) *WebSearchTool {
	if config == nil {
		config = DefaultToolConfig()
	}
	return &WebSearchTool{client: client, config: config}
}

type webSearchInput struct {
	Query       string `json:"query"`
	MaxResults  int    `json:"maxResults,omitempty"`
	Topic       string `json:"topic,omitempty"`
	SearchDepth string `json:"searchDepth,omitempty"`
}

func (in webSearchInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.Query, validation.Required),
		validation.Field(&in.Topic, validation.In("general", "news", "finance")),
		validation.Field(&in.SearchDepth, validation.In("basic", "advanced")),
	)
}

// Execute returns {query, answer?, results: [{title, url, content, publishedAt?, score?}], resultCount}.
func (t *WebSearchTool) Execute(ctx context.Context, input map[string]any) (any, error) {
	var in webSearchInput
	if err := decodeInput(input, &in); err != nil {
		return nil, err
	}
	query := strings.TrimSpace(in.Query)

	maxResults := t.config.WebSearchDefaultLimit
	if in.MaxResults > 0 {
		maxResults = min(in.MaxResults, t.config.WebSearchMaxLimit)
	}

	response, err := t.client.Search(ctx, query, external.SearchOptions{
		MaxResults:  maxResults,
		Topic:       in.Topic,
		SearchDepth: in.SearchDepth,
	})
	if err != nil {
		return nil, fmt.Errorf("web search failed: %w", err)
	}

	results := make([]map[string]any, len(response.Results))
	for i, r := range response.Results {
		entry := map[string]any{
			"title":   r.Title,
			"url":     r.URL,
			"content": r.Snippet,
		}
		if r.PublishedAt != nil {
			entry["publishedAt"] = r.PublishedAt.Format("2006-01-02")
		}
		if r.Score > 0 {
			entry["score"] = r.Score
		}
		results[i] = entry
	}

	out := map[string]any{
		"query":       query,
		"results":     results,
		"resultCount": len(results),
	}
	if response.Answer != "" {
		out["answer"] = response.Answer
	}
	return out, nil
}

// WebContentTool implements the webContent tool: readable page text for
// one or more URLs.
type WebContentTool struct {
	client external.SearchClient
	config *ToolConfig
}

func NewWebContentTool(client external.SearchClient, config *ToolConfig) *WebContentTool {
	if config == nil {
		config = DefaultToolConfig()
	}
	return &WebContentTool{client: client, config: config}
}

type webContentInput struct {
	URLs []string `json:"urls"`
}

func (in webContentInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.URLs, validation.Required, validation.Length(1, 5), validation.Each(validation.Required)),
	)
}

func (t *WebContentTool) Execute(ctx context.Context, input map[string]any) (any, error) {
	var in webContentInput
	if err := decodeInput(input, &in); err != nil {
		return nil, err
	}

	response, err := t.client.Extract(ctx, in.URLs)
	if err != nil {
		return nil, fmt.Errorf("web content failed: %w", err)
	}

	pages := make([]map[string]any, len(response.Results))
	for i, r := range response.Results {
		content := r.Content
		truncated := len(content) > t.config.MaxContentSize
		if truncated {
			content = content[:t.config.MaxContentSize]
		}
		pages[i] = map[string]any{"url": r.URL, "content": content, "truncated": truncated}
	}

	out := map[string]any{"results": pages}
	if len(response.Failed) > 0 {
		out["failed"] = response.Failed
	}
	return out, nil
}

func webSearchTools(client external.SearchClient, config *ToolConfig) []Tool {
	return []Tool{
		{
			Name:        ToolWebSearch,
			Toolkit:     ToolkitWebSearch,
			Description: "Search the web for current information. Returns ranked results with a content snippet for each.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":       map[string]any{"type": "string", "description": "Search query"},
					"maxResults":  map[string]any{"type": "integer", "minimum": 1, "maximum": config.WebSearchMaxLimit},
					"topic":       map[string]any{"type": "string", "enum": []string{"general", "news", "finance"}},
					"searchDepth": map[string]any{"type": "string", "enum": []string{"basic", "advanced"}},
				},
				"required": []string{"query"},
			},
			Executor: NewWebSearchTool(client, config),
		},
		{
			Name:        ToolWebContent,
			Toolkit:     ToolkitWebSearch,
			Description: "Fetch the readable text of up to five web pages.",
			Parameters: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"urls": map[string]any{
						"type":     "array",
						"items":    map[string]any{"type": "string"},
						"minItems": 1,
						"maxItems": 5,
					},
				},
				"required": []string{"urls"},
			},
			Executor: NewWebContentTool(client, config),
		},
	}
}
