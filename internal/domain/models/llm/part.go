package llm

import (
	"encoding/json"
	"reflect"
	"strings"
)

// Part types
const (
	PartTypeText      = "text"
	PartTypeReasoning = "reasoning"
	PartTypeTool      = "tool"
	PartTypeFile      = "file"
	PartTypeStepStart = "step-start"
)

// Tool part states, in lifecycle order.
const (
	ToolStateInputStreaming  = "input-streaming"
	ToolStateInputAvailable  = "input-available"
	ToolStateOutputAvailable = "output-available"
	ToolStateOutputError     = "output-error"
)

// Part is one typed segment of a message. Only the fields relevant to Type
// are set; tool parts carry the call, its input and (once run) its output.
// Keys without a field (data parts, source ids, titles) are kept in Extra
// and written back as submitted.
type Part struct {
	Type  string `json:"type"`
	Text  string `json:"text,omitempty"`
	State string `json:"state,omitempty"`

	ToolCallID string `json:"toolCallId,omitempty"`
	ToolName   string `json:"toolName,omitempty"`
	Input      any    `json:"input,omitempty"`
	Output     any    `json:"output,omitempty"`
	ErrorText  string `json:"errorText,omitempty"`

	URL       string `json:"url,omitempty"`
	MediaType string `json:"mediaType,omitempty"`
	Filename  string `json:"filename,omitempty"`

	// Provider internals, never persisted.
	ProviderMetadata     map[string]any `json:"providerMetadata,omitempty"`
	CallProviderMetadata map[string]any `json:"callProviderMetadata,omitempty"`

	Extra map[string]json.RawMessage `json:"-"`
}

// partFields has Part's declared fields and none of its methods.
type partFields Part

// partKeys are the JSON keys decoded into Part's fields.
var partKeys = func() map[string]bool {
	keys := map[string]bool{}
	t := reflect.TypeOf(partFields{})
	for i := 0; i < t.NumField(); i++ {
		name, _, _ := strings.Cut(t.Field(i).Tag.Get("json"), ",")
		if name != "" && name != "-" {
			keys[name] = true
		}
	}
	return keys
}()

func (p *Part) UnmarshalJSON(data []byte) error {
	var fields partFields
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	for k, v := range raw {
		if partKeys[k] {
			continue
		}
		if fields.Extra == nil {
			fields.Extra = map[string]json.RawMessage{}
		}
		fields.Extra[k] = v
	}
	*p = Part(fields)
	return nil
}

func (p Part) MarshalJSON() ([]byte, error) {
	data, err := json.Marshal(partFields(p))
	if err != nil || len(p.Extra) == 0 {
		return data, err
	}
	var merged map[string]json.RawMessage
	if err := json.Unmarshal(data, &merged); err != nil {
		return nil, err
	}
	for k, v := range p.Extra {
		if _, ok := merged[k]; !ok && !partKeys[k] {
			merged[k] = v
		}
	}
	return json.Marshal(merged)
}

// HasOutput reports whether a tool part has finished, successfully or not.
func (p Part) HasOutput() bool {
	return p.Type == PartTypeTool && strings.HasPrefix(p.State, "output")
}

// TextPart builds a completed text part.
func TextPart(text string) Part {
	return Part{Type: PartTypeText, Text: text, State: "done"}
}
