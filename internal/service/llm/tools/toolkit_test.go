package tools

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"strings"
	"testing"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/tools/external"
)

type stubSearch struct{}

func (stubSearch) Search(_ context.Context, query string, opts external.SearchOptions) (*external.SearchResponse, error) {
	return &external.SearchResponse{Query: query, Results: []external.SearchResult{{Title: "t", URL: "https://x", Snippet: "s"}}}, nil
}

func (stubSearch) Extract(_ context.Context, urls []string) (*external.ExtractResponse, error) {
	out := &external.ExtractResponse{}
	for _, u := range urls {
		out.Results = append(out.Results, external.ExtractResult{URL: u, Content: strings.Repeat("a", 50)})
	}
	return out, nil
}

func catalog() *ToolRegistry {
	return NewToolRegistryBuilder().
		WithVisualization().
		WithWebSearch(stubSearch{}).
		WithHTTP(nil).
		Build()
}

func names(r *ToolRegistry) []string {
	var out []string
	for _, t := range r.Tools() {
		out = append(out, t.Name)
	}
	sort.Strings(out)
	return out
}

func TestLoadAppDefaultTools(t *testing.T) {
	tests := []struct {
		name string
		opts LoadOptions
		want []string
	}{
		{
			name: "nil toolkits loads everything",
			opts: LoadOptions{Allowed: true},
			want: []string{"createBarChart", "createLineChart", "createPieChart", "createTable", "http", "webContent", "webSearch"},
		},
		{
			name: "empty toolkits loads nothing",
			opts: LoadOptions{Allowed: true, Toolkits: []string{}},
		},
		{
			name: "single toolkit",
			opts: LoadOptions{Allowed: true, Toolkits: []string{ToolkitWebSearch}},
			want: []string{"webContent", "webSearch"},
		},
		{
			name: "defaultTool mentions win over toolkits",
			opts: LoadOptions{
				Allowed:  true,
				Toolkits: []string{ToolkitVisualization},
				Mentions: []llmModels.Mention{
					{Type: llmModels.MentionDefaultTool, Name: ToolHTTP},
					{Type: llmModels.MentionAgent, Name: "writer", AgentID: "a1"},
				},
			},
			want: []string{"http"},
		},
		{
			name: "non-tool mentions only keep toolkit selection",
			opts: LoadOptions{
				Allowed:  true,
				Toolkits: []string{ToolkitHTTP},
				Mentions: []llmModels.Mention{{Type: llmModels.MentionAgent, Name: "writer"}},
			},
			want: []string{"http"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg, err := LoadAppDefaultTools(catalog(), tt.opts)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			got := names(reg)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("tools = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestLoadAppDefaultTools_NotAllowed(t *testing.T) {
	_, err := LoadAppDefaultTools(catalog(), LoadOptions{})
	if !errors.Is(err, domain.ErrToolsNotAllowed) {
		t.Fatalf("err = %v, want ErrToolsNotAllowed", err)
	}
	if err.Error() != "Not allowed" {
		t.Errorf("message = %q", err.Error())
	}

	reg, err := LoadOrEmpty(catalog(), LoadOptions{})
	if err != nil || reg.Len() != 0 {
		t.Errorf("LoadOrEmpty() = %d tools, %v", reg.Len(), err)
	}
}

func TestWebSearchWithoutClientIsSkipped(t *testing.T) {
	reg := NewToolRegistryBuilder().WithWebSearch(nil).Build()
	if reg.Len() != 0 {
		t.Errorf("expected no tools, got %v", names(reg))
	}
}

func TestVisualizationTools_Validate(t *testing.T) {
	reg := catalog()
	tests := []struct {
		name    string
		tool    string
		input   map[string]any
		wantErr bool
	}{
		{
			name: "valid pie chart",
			tool: ToolCreatePieChart,
			input: map[string]any{"title": "Share", "data": []any{
				map[string]any{"label": "a", "value": 1.0},
			}},
		},
		{name: "pie chart without data", tool: ToolCreatePieChart, input: map[string]any{"title": "x"}, wantErr: true},
		{
			name: "table with bad column type",
			tool: ToolCreateTable,
			input: map[string]any{"title": "t", "columns": []any{
				map[string]any{"key": "k", "label": "K", "type": "money"},
			}},
			wantErr: true,
		},
		{
			name: "valid bar chart",
			tool: ToolCreateBarChart,
			input: map[string]any{"title": "t", "data": []any{
				map[string]any{"xAxisLabel": "Q1", "series": []any{map[string]any{"seriesName": "rev", "value": 3.0}}},
			}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := reg.Execute(context.Background(), ToolCall{ID: "c", Name: tt.tool, Input: tt.input})
			if res.IsError != tt.wantErr {
				t.Fatalf("IsError = %v, want %v (err: %v)", res.IsError, tt.wantErr, res.Error)
			}
			if !tt.wantErr && res.Result != "Success" {
				t.Errorf("Result = %v", res.Result)
			}
		})
	}
}

func TestWebTools(t *testing.T) {
	cfg := DefaultToolConfig()
	cfg.MaxContentSize = 10
	reg := NewToolRegistryBuilder().WithConfig(cfg).WithWebSearch(stubSearch{}).Build()

	res := reg.Execute(context.Background(), ToolCall{Name: ToolWebSearch, Input: map[string]any{"query": "  go  "}})
	if res.IsError {
		t.Fatalf("webSearch error: %v", res.Error)
	}
	out := res.Result.(map[string]any)
	if out["query"] != "go" || out["resultCount"] != 1 {
		t.Errorf("webSearch result = %v", out)
	}

	res = reg.Execute(context.Background(), ToolCall{Name: ToolWebSearch, Input: map[string]any{"query": "go", "topic": "sports"}})
	if !res.IsError {
		t.Error("expected invalid topic to fail")
	}

	res = reg.Execute(context.Background(), ToolCall{Name: ToolWebContent, Input: map[string]any{"urls": []any{"https://a"}}})
	if res.IsError {
		t.Fatalf("webContent error: %v", res.Error)
	}
	page := res.Result.(map[string]any)["results"].([]map[string]any)[0]
	if page["truncated"] != true || len(page["content"].(string)) != 10 {
		t.Errorf("page = %v", page)
	}
}

func TestHTTPTool(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Echo", r.URL.Query().Get("q"))
		w.WriteHeader(http.StatusTeapot)
		_, _ = w.Write([]byte(r.Method))
	}))
	defer srv.Close()

	tool := NewHTTPTool(srv.Client(), nil)

	out, err := tool.Execute(context.Background(), map[string]any{"url": srv.URL, "method": "post", "query": map[string]any{"q": "hi"}})
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}
	res := out.(map[string]any)
	if res["status"] != http.StatusTeapot || res["ok"] != false || res["body"] != "POST" {
		t.Errorf("result = %v", res)
	}
	if res["headers"].(map[string]string)["X-Echo"] != "hi" {
		t.Errorf("headers = %v", res["headers"])
	}

	if _, err := tool.Execute(context.Background(), map[string]any{"url": "file:///etc/passwd"}); err == nil {
		t.Error("expected non-http URL to be rejected")
	}
}
