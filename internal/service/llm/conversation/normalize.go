// Package conversation converts between stored chat messages, UI messages
// and provider messages.
package conversation

import (
	"strings"

	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
)

// SanitizePart drops provider metadata from a part.
func SanitizePart(p llmModels.Part) llmModels.Part {
	p.ProviderMetadata = nil
	p.CallProviderMetadata = nil
	return p
}

// NormalizeThreadMessages prepares stored messages for the UI. Parts are
// sanitized, legacy text content becomes a single text part, unknown roles
// read as user, and messages left with no parts are dropped.
func NormalizeThreadMessages(messages []llmModels.ChatMessage) []llmModels.ChatMessage {
	out := make([]llmModels.ChatMessage, 0, len(messages))
	for _, m := range messages {
		m.Parts = toParts(m)
		if len(m.Parts) == 0 {
			continue
		}
		m.Role = normalizeRole(m.Role)
		m.Content = ""
		out = append(out, m)
	}
	return out
}

func toParts(m llmModels.ChatMessage) []llmModels.Part {
	if len(m.Parts) > 0 {
		parts := make([]llmModels.Part, len(m.Parts))
		for i, p := range m.Parts {
			parts[i] = SanitizePart(p)
		}
		return parts
	}
	if text := strings.TrimSpace(m.Content); text != "" {
		return []llmModels.Part{llmModels.TextPart(text)}
	}
	return nil
}

func normalizeRole(role string) string {
	switch role {
	case llmModels.RoleAssistant, llmModels.RoleSystem:
		return role
	default:
		return llmModels.RoleUser
	}
}

// ConvertToSavePart prepares a part for storage. Besides dropping provider
// metadata it strips per-node results from workflow-stream tool outputs,
// which can be large.
func ConvertToSavePart(p llmModels.Part) llmModels.Part {
	p = SanitizePart(p)
	if !p.HasOutput() {
		return p
	}

	out, ok := p.Output.(map[string]any)
	if !ok || out["__tag"] != "workflow-stream" {
		return p
	}
	history, ok := out["history"].([]any)
	if !ok {
		return p
	}

	trimmed := make([]any, len(history))
	for i, h := range history {
		entry, ok := h.(map[string]any)
		if !ok {
			trimmed[i] = h
			continue
		}
		cp := make(map[string]any, len(entry))
		for k, v := range entry {
			if k != "result" {
				cp[k] = v
			}
		}
		trimmed[i] = cp
	}

	output := make(map[string]any, len(out))
	for k, v := range out {
		output[k] = v
	}
	output["history"] = trimmed
	p.Output = output
	return p
}

// ConvertToSaveParts applies ConvertToSavePart to each part.
func ConvertToSaveParts(parts []llmModels.Part) []llmModels.Part {
	out := make([]llmModels.Part, len(parts))
	for i, p := range parts {
		out[i] = ConvertToSavePart(p)
	}
	return out
}
