package conversation

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"

	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
)

// BuildMessages converts UI messages, oldest first, into provider messages.
// Reasoning and step markers are not sent back to the model. Tool parts are
// sent only once they have an output; a call without a result would be
// rejected by most providers.
func BuildMessages(messages []llmModels.UIMessage) ([]llms.MessageContent, error) {
	out := make([]llms.MessageContent, 0, len(messages))
	for i := range messages {
		built, err := buildMessage(&messages[i])
		if err != nil {
			return nil, err
		}
		out = append(out, built...)
	}
	return out, nil
}

func buildMessage(m *llmModels.UIMessage) ([]llms.MessageContent, error) {
	switch m.Role {
	case llmModels.RoleSystem:
		return textOnly(llms.ChatMessageTypeSystem, m), nil
	case llmModels.RoleUser:
		return userMessage(m), nil
	case llmModels.RoleAssistant:
		return assistantMessages(m)
	default:
		return nil, fmt.Errorf("unsupported message role: %s", m.Role)
	}
}

func textOnly(role llms.ChatMessageType, m *llmModels.UIMessage) []llms.MessageContent {
	text := m.TextContent()
	if text == "" {
		return nil
	}
	return []llms.MessageContent{llms.TextParts(role, text)}
}

func userMessage(m *llmModels.UIMessage) []llms.MessageContent {
	var parts []llms.ContentPart
	for _, p := range m.Parts {
		switch p.Type {
		case llmModels.PartTypeText:
			if p.Text != "" {
				parts = append(parts, llms.TextContent{Text: p.Text})
			}
		case llmModels.PartTypeFile:
			if strings.HasPrefix(p.MediaType, "image/") && p.URL != "" {
				parts = append(parts, llms.ImageURLContent{URL: p.URL})
			}
		}
	}
	if len(parts) == 0 && m.Content != "" {
		parts = append(parts, llms.TextContent{Text: m.Content})
	}
	if len(parts) == 0 {
		return nil
	}
	return []llms.MessageContent{{Role: llms.ChatMessageTypeHuman, Parts: parts}}
}

// assistantMessages splits an assistant message at each group of tool calls:
// the AI message carrying the calls is followed by one tool message per
// result, then any text that came after.
func assistantMessages(m *llmModels.UIMessage) ([]llms.MessageContent, error) {
	var (
		out     []llms.MessageContent
		current llms.MessageContent
		results []llms.MessageContent
	)
	current.Role = llms.ChatMessageTypeAI

	flush := func() {
		if len(current.Parts) > 0 {
			out = append(out, current)
		}
		out = append(out, results...)
		current = llms.MessageContent{Role: llms.ChatMessageTypeAI}
		results = nil
	}

	for _, p := range m.Parts {
		switch p.Type {
		case llmModels.PartTypeText:
			if p.Text == "" {
				continue
			}
			if len(results) > 0 {
				flush()
			}
			current.Parts = append(current.Parts, llms.TextContent{Text: p.Text})
		case llmModels.PartTypeTool:
			if !p.HasOutput() {
				continue
			}
			args, err := json.Marshal(p.Input)
			if err != nil {
				return nil, fmt.Errorf("marshal input of tool call %s: %w", p.ToolCallID, err)
			}
			current.Parts = append(current.Parts, llms.ToolCall{
				ID:   p.ToolCallID,
				Type: "function",
				FunctionCall: &llms.FunctionCall{
					Name:      p.ToolName,
					Arguments: string(args),
				},
			})
			content, err := toolResultContent(p)
			if err != nil {
				return nil, err
			}
			results = append(results, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{llms.ToolCallResponse{
					ToolCallID: p.ToolCallID,
					Name:       p.ToolName,
					Content:    content,
				}},
			})
		}
	}
	flush()

	if len(out) == 0 && m.Content != "" {
		out = append(out, llms.TextParts(llms.ChatMessageTypeAI, m.Content))
	}
	return out, nil
}

func toolResultContent(p llmModels.Part) (string, error) {
	if p.State == llmModels.ToolStateOutputError {
		return "Error: " + p.ErrorText, nil
	}
	if s, ok := p.Output.(string); ok {
		return s, nil
	}
	b, err := json.Marshal(p.Output)
	if err != nil {
		return "", fmt.Errorf("marshal output of tool call %s: %w", p.ToolCallID, err)
	}
	return string(b), nil
}
