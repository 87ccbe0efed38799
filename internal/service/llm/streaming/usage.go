package streaming

import (
	"bytes"
	"encoding/json"

	"github.com/tmc/langchaingo/llms"

	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
)

// usageFromResponse reads token counts from the first choice that reports
// them. Providers disagree on key names.
func usageFromResponse(resp *llms.ContentResponse) llmModels.Usage {
	for _, c := range resp.Choices {
		info := c.GenerationInfo
		if info == nil {
			continue
		}
		in := firstInt(info, "PromptTokens", "InputTokens", "prompt_tokens", "input_tokens")
		out := firstInt(info, "CompletionTokens", "OutputTokens", "completion_tokens", "output_tokens")
		if in == 0 && out == 0 {
			continue
		}
		total := firstInt(info, "TotalTokens", "total_tokens")
		if total == 0 {
			total = in + out
		}
		return llmModels.Usage{InputTokens: in, OutputTokens: out, TotalTokens: total}
	}
	return llmModels.Usage{}
}

func firstInt(m map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := m[k].(type) {
		case int:
			return v
		case int32:
			return int(v)
		case int64:
			return int(v)
		case float64:
			return int(v)
		}
	}
	return 0
}

// isToolCallChunk detects the JSON tool-call deltas some clients pass to
// the streaming func alongside text.
func isToolCallChunk(chunk []byte) bool {
	trimmed := bytes.TrimSpace(chunk)
	if !bytes.HasPrefix(trimmed, []byte("[{")) {
		return false
	}
	var calls []struct {
		Function json.RawMessage `json:"function"`
	}
	if err := json.Unmarshal(trimmed, &calls); err != nil {
		return false
	}
	return len(calls) > 0 && len(calls[0].Function) > 0
}
