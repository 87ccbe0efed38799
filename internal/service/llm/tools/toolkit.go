package tools

import (
	"errors"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
)

// App default toolkits
const (
	ToolkitVisualization = "visualization"
	ToolkitWebSearch     = "webSearch"
	ToolkitHTTP          = "http"
)

// App default tool names
const (
	ToolCreatePieChart  = "createPieChart"
	ToolCreateBarChart  = "createBarChart"
	ToolCreateLineChart = "createLineChart"
	ToolCreateTable     = "createTable"
	ToolWebSearch       = "webSearch"
	ToolWebContent      = "webContent"
	ToolHTTP            = "http"
)

// AllToolkits lists every app default toolkit.
var AllToolkits = []string{ToolkitVisualization, ToolkitWebSearch, ToolkitHTTP}

// LoadOptions selects tools for one request.
type LoadOptions struct {
	// Allowed reports whether the request may use tools at all.
	Allowed  bool
	Mentions []llmModels.Mention
	// Toolkits: nil means every toolkit.
	Toolkits []string
}

// LoadAppDefaultTools picks the request's tools from catalog. When the
// request may not use tools it fails with domain.ErrToolsNotAllowed. With
// defaultTool mentions only the mentioned tools load, from any toolkit;
// otherwise every tool of the allowed toolkits loads.
func LoadAppDefaultTools(catalog *ToolRegistry, opts LoadOptions) (*ToolRegistry, error) {
	if !opts.Allowed {
		return nil, domain.ErrToolsNotAllowed
	}

	mentioned := map[string]bool{}
	for _, m := range opts.Mentions {
		if m.Type == llmModels.MentionDefaultTool {
			mentioned[m.Name] = true
		}
	}
	if len(mentioned) > 0 {
		return catalog.Filter(func(t Tool) bool { return mentioned[t.Name] }), nil
	}

	toolkits := opts.Toolkits
	if toolkits == nil {
		toolkits = AllToolkits
	}
	allowed := make(map[string]bool, len(toolkits))
	for _, k := range toolkits {
		allowed[k] = true
	}
	return catalog.Filter(func(t Tool) bool { return allowed[t.Toolkit] }), nil
}

// LoadOrEmpty is LoadAppDefaultTools with ErrToolsNotAllowed turned into an
// empty registry.
func LoadOrEmpty(catalog *ToolRegistry, opts LoadOptions) (*ToolRegistry, error) {
	reg, err := LoadAppDefaultTools(catalog, opts)
	if errors.Is(err, domain.ErrToolsNotAllowed) {
		return NewToolRegistry(), nil
	}
	return reg, err
}
