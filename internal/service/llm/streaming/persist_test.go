package streaming

import (
	"encoding/json"
	"strings"
	"testing"

	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
)

func TestExchangeRows(t *testing.T) {
	tool := llmModels.Part{
		Type:       llmModels.PartTypeTool,
		ToolCallID: "c1",
		ToolName:   "createTable",
		State:      llmModels.ToolStateOutputAvailable,
		Output:     "Success",
	}
	table := llmModels.TextPart("Here:\n| a | b |\n|---|---|\n| 1 | 2 |\n")
	md := &llmModels.ChatMetadata{MentionsCount: 1}

	tests := []struct {
		name          string
		incoming      *llmModels.UIMessage
		response      []llmModels.Part
		wantRows      int
		wantToolParts int // in the assistant row
	}{
		{
			name:          "user message and reply",
			incoming:      &llmModels.UIMessage{ID: "u1", Role: llmModels.RoleUser, Parts: []llmModels.Part{llmModels.TextPart("hi")}},
			response:      []llmModels.Part{tool, llmModels.TextPart("done")},
			wantRows:      2,
			wantToolParts: 1,
		},
		{
			name:          "table answer drops tool parts",
			incoming:      &llmModels.UIMessage{ID: "u1", Role: llmModels.RoleUser, Content: "hi"},
			response:      []llmModels.Part{tool, table},
			wantRows:      2,
			wantToolParts: 0,
		},
		{
			name:          "continuation merges into one row",
			incoming:      &llmModels.UIMessage{ID: "a1", Role: llmModels.RoleAssistant, Parts: []llmModels.Part{tool}},
			response:      []llmModels.Part{llmModels.TextPart("more")},
			wantRows:      1,
			wantToolParts: 1,
		},
		{
			name:          "continuation with a table",
			incoming:      &llmModels.UIMessage{ID: "a1", Role: llmModels.RoleAssistant, Parts: []llmModels.Part{tool}},
			response:      []llmModels.Part{table},
			wantRows:      1,
			wantToolParts: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows := exchangeRows("t1", tt.incoming, "r1", tt.response, md)
			if len(rows) != tt.wantRows {
				t.Fatalf("rows = %d, want %d", len(rows), tt.wantRows)
			}
			for _, r := range rows {
				if r.ThreadID != "t1" {
					t.Errorf("row %s thread = %q", r.ID, r.ThreadID)
				}
			}

			assistant := rows[len(rows)-1]
			if assistant.Role != llmModels.RoleAssistant || assistant.Metadata != md {
				t.Errorf("assistant row = %+v", assistant)
			}
			if tt.wantRows == 1 && assistant.ID != tt.incoming.ID {
				t.Errorf("continuation id = %q, want %q", assistant.ID, tt.incoming.ID)
			}
			if tt.wantRows == 2 {
				if assistant.ID != "r1" {
					t.Errorf("reply id = %q, want r1", assistant.ID)
				}
				if len(rows[0].Parts) == 0 {
					t.Errorf("user row has no parts")
				}
			}

			var n int
			for _, p := range assistant.Parts {
				if p.Type == llmModels.PartTypeTool {
					n++
				}
			}
			if n != tt.wantToolParts {
				t.Errorf("tool parts = %d, want %d", n, tt.wantToolParts)
			}
		})
	}
}

func TestHasMarkdownTable(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"plain text", false},
		{"one | pipe\n", false},
		{"intro\n| a | b |\n", true},
		{"intro\n  |x|y|\nrest", true},
	}
	for _, tt := range tests {
		got := hasMarkdownTable([]llmModels.Part{llmModels.TextPart(tt.text)})
		if got != tt.want {
			t.Errorf("hasMarkdownTable(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestExchangeRows_UserPartsSavedAsSubmitted(t *testing.T) {
	var incoming llmModels.UIMessage
	body := `{"id":"u1","role":"user","parts":[
		{"type":"data-weather","id":"w1","data":{"temp":21}},
		{"type":"source-url","sourceId":"s1","url":"http://x","title":"X","providerMetadata":{"p":1}}
	]}`
	if err := json.Unmarshal([]byte(body), &incoming); err != nil {
		t.Fatal(err)
	}

	rows := exchangeRows("t1", &incoming, "r1", []llmModels.Part{llmModels.TextPart("ok")}, nil)
	saved, err := json.Marshal(rows[0].Parts)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{`"id":"w1"`, `"data":{"temp":21}`, `"sourceId":"s1"`, `"title":"X"`} {
		if !strings.Contains(string(saved), want) {
			t.Errorf("saved parts %s missing %s", saved, want)
		}
	}
	if strings.Contains(string(saved), "providerMetadata") {
		t.Errorf("provider metadata saved: %s", saved)
	}
}
