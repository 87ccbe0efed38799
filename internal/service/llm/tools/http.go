package tools

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// HTTPTool implements the http tool: one outbound request whose status,
// headers and (truncated) body are returned to the model.
type HTTPTool struct {
	client *http.Client
	config *ToolConfig
}

func NewHTTPTool(client *http.Client, config *ToolConfig) *HTTPTool {
	if config == nil {
		config = DefaultToolConfig()
	}
	if client == nil {
		client = &http.Client{Timeout: config.HTTPTimeout}
	}
	return &HTTPTool{client: client, config: config}
}

type httpInput struct {
	URL     string            `json:"url"`
	Method  string            `json:"method,omitempty"`
	Headers map[string]string `json:"headers,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
	Body    string            `json:"body,omitempty"`
}

var isHTTPURL = validation.By(func(v any) error {
	s, _ := v.(string)
	u, err := url.Parse(s)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return validation.NewError("validation_http_url", "must be an absolute http(s) URL")
	}
	return nil
})

func (in httpInput) Validate() error {
	return validation.ValidateStruct(&in,
		validation.Field(&in.URL, validation.Required, isHTTPURL),
		validation.Field(&in.Method, validation.In(
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
			http.MethodDelete, http.MethodHead, http.MethodOptions,
		)),
	)
}

func (t *HTTPTool) Execute(ctx context.Context, input map[string]any) (any, error) {
	var in httpInput
	if m, ok := input["method"].(string); ok {
		input["method"] = strings.ToUpper(m)
	}
	if err := decodeInput(input, &in); err != nil {
		return nil, err
	}
	if in.Method == "" {
		in.Method = http.MethodGet
	}

	u, _ := url.Parse(in.URL)
	if len(in.Query) > 0 {
		q := u.Query()
		for k, v := range in.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var body io.Reader
	if in.Body != "" {
		body = strings.NewReader(in.Body)
	}
	req, err := http.NewRequestWithContext(ctx, in.Method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for k, v := range in.Headers {
		req.Header.Set(k, v)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, t.config.HTTPMaxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	truncated := int64(len(raw)) > t.config.HTTPMaxBodyBytes
	if truncated {
		raw = raw[:t.config.HTTPMaxBodyBytes]
	}

	headers := make(map[string]string, len(resp.Header))
	for k := range resp.Header {
		headers[k] = resp.Header.Get(k)
	}

	return map[string]any{
		"status":     resp.StatusCode,
		"statusText": http.StatusText(resp.StatusCode),
		"ok":         resp.StatusCode >= 200 && resp.StatusCode < 300,
		"headers":    headers,
		"body":       string(raw),
		"truncated":  truncated,
	}, nil
}

func httpTools(client *http.Client, config *ToolConfig) []Tool {
	return []Tool{{
		Name:        ToolHTTP,
		Toolkit:     ToolkitHTTP,
		Description: "Send an HTTP request to a public URL and return the status, headers and body.",
		Parameters: map[string]any{
			"type": "object",
			"properties": map[string]any{
				"url":     map[string]any{"type": "string"},
				"method":  map[string]any{"type": "string", "enum": []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"}},
				"headers": map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
				"query":   map[string]any{"type": "object", "additionalProperties": map[string]any{"type": "string"}},
				"body":    map[string]any{"type": "string"},
			},
			"required": []string{"url"},
		},
		Executor: NewHTTPTool(client, config),
	}}
}
