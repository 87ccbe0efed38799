package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	llmSvc "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services/llm"
)

func TestReadStream(t *testing.T) {
	stream := ": keepalive\n\n" +
		`data: {"type":"start","messageId":"m1"}` + "\n\n" +
		`data: {"type":"text-delta","id":"t1","delta":"Hi"}` + "\n\n" +
		"data: [DONE]\n\n" +
		`data: {"type":"text-delta","id":"t1","delta":"ignored"}` + "\n\n"

	var got []string
	err := readStream(strings.NewReader(stream), func(c llmModels.Chunk) {
		got = append(got, c.Type)
	})
	if err != nil {
		t.Fatal(err)
	}
	if strings.Join(got, ",") != "start,text-delta" {
		t.Errorf("chunks = %v", got)
	}

	if err := readStream(strings.NewReader("data: {oops\n\n"), func(llmModels.Chunk) {}); err == nil {
		t.Error("expected decode error")
	}
}

func TestCLI_Send(t *testing.T) {
	var gotReq llmSvc.ChatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		_ = json.NewDecoder(r.Body).Decode(&gotReq)
		w.Header().Set("Content-Type", "text/event-stream")
		w.Write([]byte(`data: {"type":"text-delta","id":"t1","delta":"Hello"}` + "\n\n" +
			`data: {"type":"text-end","id":"t1"}` + "\n\n" +
			`data: {"type":"finish","messageMetadata":{"usage":{"inputTokens":3,"outputTokens":2,"totalTokens":5},"mentionsCount":0}}` + "\n\n" +
			"data: [DONE]\n\n"))
	}))
	defer srv.Close()

	var out bytes.Buffer
	cli := &CLI{client: srv.Client(), endpoint: srv.URL, token: "tok", threadID: "th-1", out: &out}

	if err := cli.Send(context.Background(), "hi there"); err != nil {
		t.Fatal(err)
	}
	if gotReq.ThreadID != "th-1" || gotReq.Message == nil || gotReq.Message.TextContent() != "hi there" {
		t.Errorf("request = %+v", gotReq)
	}
	if !strings.Contains(out.String(), "Hello\n") || !strings.Contains(out.String(), "3 in / 2 out") {
		t.Errorf("output = %q", out.String())
	}
}

func TestCLI_SendError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error":"Missing API key for provider openai"}`))
	}))
	defer srv.Close()

	cli := &CLI{client: srv.Client(), endpoint: srv.URL, threadID: "th-1", out: &bytes.Buffer{}}
	err := cli.Send(context.Background(), "hi")
	if err == nil || !strings.Contains(err.Error(), "Missing API key") {
		t.Fatalf("err = %v", err)
	}
}
