package streaming

import (
	"regexp"

	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	llmSvc "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services/llm"
)

// recorder forwards chunks and assembles the response message parts from
// them, the same way a UI client would.
type recorder struct {
	next  llmSvc.ChunkWriter
	parts []llmModels.Part
	text  map[string]int // text part id -> index in parts
	tools map[string]int // tool call id -> index in parts
}

func newRecorder(next llmSvc.ChunkWriter) *recorder {
	return &recorder{next: next, text: map[string]int{}, tools: map[string]int{}}
}

func (r *recorder) WriteChunk(c llmModels.Chunk) error {
	r.apply(c)
	return r.next.WriteChunk(c)
}

func (r *recorder) apply(c llmModels.Chunk) {
	switch c.Type {
	case llmModels.ChunkStartStep:
		r.parts = append(r.parts, llmModels.Part{Type: llmModels.PartTypeStepStart})
	case llmModels.ChunkTextStart:
		r.text[c.ID] = len(r.parts)
		r.parts = append(r.parts, llmModels.Part{Type: llmModels.PartTypeText, State: "streaming"})
	case llmModels.ChunkTextDelta:
		if i, ok := r.text[c.ID]; ok {
			r.parts[i].Text += c.Delta
		}
	case llmModels.ChunkTextEnd:
		if i, ok := r.text[c.ID]; ok {
			r.parts[i].State = "done"
		}
	case llmModels.ChunkToolInputAvailable:
		r.tools[c.ToolCallID] = len(r.parts)
		r.parts = append(r.parts, llmModels.Part{
			Type:       llmModels.PartTypeTool,
			ToolCallID: c.ToolCallID,
			ToolName:   c.ToolName,
			State:      llmModels.ToolStateInputAvailable,
			Input:      c.Input,
		})
	case llmModels.ChunkToolOutputAvailable:
		if i, ok := r.tools[c.ToolCallID]; ok {
			r.parts[i].State = llmModels.ToolStateOutputAvailable
			r.parts[i].Output = c.Output
		}
	case llmModels.ChunkToolOutputError:
		if i, ok := r.tools[c.ToolCallID]; ok {
			r.parts[i].State = llmModels.ToolStateOutputError
			r.parts[i].ErrorText = c.ErrorText
		}
	}
}

// Parts returns the assembled parts.
func (r *recorder) Parts() []llmModels.Part {
	return r.parts
}

var markdownTable = regexp.MustCompile(`\n\s*\|.*\|.*\n`)

// hasMarkdownTable reports whether any text part contains a line with at
// least two |-separated columns.
func hasMarkdownTable(parts []llmModels.Part) bool {
	for _, p := range parts {
		if p.Type == llmModels.PartTypeText && markdownTable.MatchString(p.Text) {
			return true
		}
	}
	return false
}

// stripToolParts removes every tool part.
func stripToolParts(parts []llmModels.Part) []llmModels.Part {
	out := make([]llmModels.Part, 0, len(parts))
	for _, p := range parts {
		if p.Type != llmModels.PartTypeTool {
			out = append(out, p)
		}
	}
	return out
}
