package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/handler/sse"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/httputil"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/metrics"
)

const sessionUser = "ad6df675-8780-4726-b2e5-a20e57433c6f"

type testServer struct {
	handler   http.Handler
	streaming *fakeStreaming
	threads   *fakeThreads
	statics   *fakeStaticModels
	health    *fakeHealth
}

func newTestServer(cfg RouterConfig) *testServer {
	ts := &testServer{
		streaming: &fakeStreaming{},
		threads:   &fakeThreads{threads: map[string]*llmModels.ChatThread{}},
		statics:   &fakeStaticModels{},
		health:    &fakeHealth{report: services.HealthReport{Status: "ok", DB: "ok", Timestamp: 1}},
	}
	logger := discardLogger()
	if cfg.Logger == nil {
		cfg.Logger = logger
	}
	if cfg.SessionUserID == "" {
		cfg.SessionUserID = sessionUser
	}
	ts.handler = NewRouter(Handlers{
		Chat:        NewChatHandler(ts.streaming, &sse.Config{}, logger),
		StaticModel: NewStaticModelHandler(ts.statics, logger),
		Thread:      NewThreadHandler(ts.threads, logger),
		Health:      NewHealthHandler(ts.health),
	}, cfg)
	return ts
}

func (ts *testServer) do(method, path, body string, header ...string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for i := 0; i+1 < len(header); i += 2 {
		req.Header.Set(header[i], header[i+1])
	}
	rec := httptest.NewRecorder()
	ts.handler.ServeHTTP(rec, req)
	return rec
}

func assertCORS(t *testing.T, rec *httptest.ResponseRecorder, methods string) {
	t.Helper()
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got != methods {
		t.Errorf("Allow-Methods = %q, want %q", got, methods)
	}
	if got := rec.Header().Get("Access-Control-Allow-Headers"); got != httputil.AllowedHeaders {
		t.Errorf("Allow-Headers = %q", got)
	}
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body httputil.ErrorBody
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body %q: %v", rec.Body.String(), err)
	}
	return body.Error
}

func TestRouter_Preflight(t *testing.T) {
	ts := newTestServer(RouterConfig{})

	tests := []struct {
		path    string
		methods string
	}{
		{"/api/ai-chat", httputil.MethodsChat},
		{"/api/static-model", httputil.MethodsStaticModel},
		{"/api/thread/abc", httputil.MethodsThread},
		{"/api/health", httputil.MethodsHealth},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := ts.do(http.MethodOptions, tt.path, "")
			if rec.Code != http.StatusNoContent {
				t.Fatalf("status = %d, want 204", rec.Code)
			}
			if rec.Body.Len() != 0 {
				t.Errorf("body = %q, want empty", rec.Body.String())
			}
			assertCORS(t, rec, tt.methods)
		})
	}
}

func TestChat_Status(t *testing.T) {
	ts := newTestServer(RouterConfig{})
	rec := ts.do(http.MethodGet, "/api/ai-chat", "")

	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"ok":true}` {
		t.Fatalf("got %d %q", rec.Code, rec.Body.String())
	}
	assertCORS(t, rec, httputil.MethodsChat)
}

func TestChat_Stream(t *testing.T) {
	ts := newTestServer(RouterConfig{})
	ts.streaming.chunks = []llmModels.Chunk{
		{Type: llmModels.ChunkStart, MessageID: "m1"},
		{Type: llmModels.ChunkTextDelta, ID: "t1", Delta: "Hi"},
		{Type: llmModels.ChunkFinish},
	}

	rec := ts.do(http.MethodPost, "/api/ai-chat", `{"id":"x","message":{"id":"u1","role":"user"}}`)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if got := rec.Header().Get(llmModels.UIStreamHeader); got != "v1" {
		t.Errorf("%s = %q", llmModels.UIStreamHeader, got)
	}
	if got := rec.Header().Get("Content-Type"); got != "text/event-stream" {
		t.Errorf("Content-Type = %q", got)
	}
	assertCORS(t, rec, httputil.MethodsChat)

	want := `data: {"type":"start","messageId":"m1"}` + "\n\n" +
		`data: {"type":"text-delta","id":"t1","delta":"Hi"}` + "\n\n" +
		`data: {"type":"finish"}` + "\n\n" +
		"data: [DONE]\n\n"
	if rec.Body.String() != want {
		t.Errorf("body =\n%s\nwant\n%s", rec.Body.String(), want)
	}
	if ts.streaming.got.UserID != sessionUser {
		t.Errorf("UserID = %q, want session user", ts.streaming.got.UserID)
	}
}

func TestChat_MalformedBodyIsEmpty(t *testing.T) {
	ts := newTestServer(RouterConfig{})
	ts.streaming.startErr = domain.ValidationFailed(errors.New("id: cannot be blank"))

	rec := ts.do(http.MethodPost, "/api/ai-chat", `{not json`)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if ts.streaming.got.ThreadID != "" || ts.streaming.got.Message != nil {
		t.Errorf("request not reset: %+v", ts.streaming.got)
	}
	if !strings.Contains(errorMessage(t, rec), "id: cannot be blank") {
		t.Errorf("message = %q", errorMessage(t, rec))
	}
	assertCORS(t, rec, httputil.MethodsChat)
}

func TestChat_StartErrors(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{domain.Forbidden("Forbidden"), http.StatusForbidden},
		{domain.Invalid("Missing API key for provider openai"), http.StatusBadRequest},
		{errors.New("db exploded"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprint(tt.status), func(t *testing.T) {
			ts := newTestServer(RouterConfig{})
			ts.streaming.startErr = tt.err

			rec := ts.do(http.MethodPost, "/api/ai-chat", `{}`)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := errorMessage(t, rec); got != tt.err.Error() {
				t.Errorf("message = %q, want %q", got, tt.err.Error())
			}
			assertCORS(t, rec, httputil.MethodsChat)
		})
	}
}

func TestThread_Routes(t *testing.T) {
	ts := newTestServer(RouterConfig{})
	ts.threads.threads["mine"] = &llmModels.ChatThread{ID: "mine", UserID: sessionUser}
	ts.threads.threads["theirs"] = &llmModels.ChatThread{ID: "theirs", UserID: "other"}

	tests := []struct {
		method string
		path   string
		status int
	}{
		{http.MethodGet, "/api/thread/mine", http.StatusOK},
		{http.MethodGet, "/api/thread/theirs", http.StatusForbidden},
		{http.MethodGet, "/api/thread/missing", http.StatusNotFound},
		{http.MethodDelete, "/api/thread/theirs", http.StatusForbidden},
		{http.MethodDelete, "/api/thread/mine", http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			assertCORS(t, rec, httputil.MethodsThread)
		})
	}

	if len(ts.threads.deleted) != 1 || ts.threads.deleted[0] != "mine" {
		t.Errorf("deleted = %v", ts.threads.deleted)
	}

	rec := ts.do(http.MethodGet, "/api/thread/mine", "")
	var body map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body["id"] != "mine" {
		t.Errorf("id = %v", body["id"])
	}
	if msgs, ok := body["messages"].([]any); !ok || len(msgs) != 0 {
		t.Errorf("messages = %v, want []", body["messages"])
	}
}

func TestStaticModel_Routes(t *testing.T) {
	ts := newTestServer(RouterConfig{})

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		status int
	}{
		{"get without name", http.MethodGet, "/api/static-model", "", http.StatusBadRequest},
		{"get missing", http.MethodGet, "/api/static-model?name=nope", "", http.StatusNotFound},
		{"get found", http.MethodGet, "/api/static-model?name=gpt-4o", "", http.StatusOK},
		{"save missing key", http.MethodPost, "/api/static-model", `{"name":"gpt-4o"}`, http.StatusBadRequest},
		{"save", http.MethodPost, "/api/static-model", `{"name":"gpt-4o","apiKey":"sk"}`, http.StatusCreated},
		{"delete without id", http.MethodDelete, "/api/static-model", `{}`, http.StatusBadRequest},
		{"delete", http.MethodDelete, "/api/static-model", `{"id":"s1"}`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(tt.method, tt.path, tt.body)
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d (%s)", rec.Code, tt.status, rec.Body.String())
			}
			assertCORS(t, rec, httputil.MethodsStaticModel)
		})
	}

	if ts.statics.saved == nil || ts.statics.saved.UserID != sessionUser {
		t.Errorf("saved = %+v", ts.statics.saved)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name   string
		report services.HealthReport
		status int
	}{
		{"db up", services.HealthReport{Status: "ok", DB: "ok"}, http.StatusOK},
		{"db down", services.HealthReport{Status: "error", DB: "connection refused"}, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(RouterConfig{Verifier: rejectAll{}})
			ts.health.report = tt.report

			rec := ts.do(http.MethodGet, "/api/health", "")
			if rec.Code != tt.status {
				t.Fatalf("status = %d, want %d", rec.Code, tt.status)
			}
			assertCORS(t, rec, httputil.MethodsHealth)
		})
	}
}

func TestRouter_UnauthorizedCarriesCORS(t *testing.T) {
	ts := newTestServer(RouterConfig{Verifier: rejectAll{}})

	rec := ts.do(http.MethodGet, "/api/thread/mine", "", "Authorization", "Bearer bad")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
	assertCORS(t, rec, httputil.MethodsThread)

	// Preflight never needs a token.
	if rec := ts.do(http.MethodOptions, "/api/thread/mine", ""); rec.Code != http.StatusNoContent {
		t.Errorf("OPTIONS status = %d, want 204", rec.Code)
	}
}

func TestRouter_RestrictedOrigins(t *testing.T) {
	ts := newTestServer(RouterConfig{CORSOrigins: []string{"https://app.example.com"}})

	rec := ts.do(http.MethodGet, "/api/ai-chat", "", "Origin", "https://app.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "https://app.example.com" {
		t.Errorf("allowed origin = %q", got)
	}

	rec = ts.do(http.MethodGet, "/api/ai-chat", "", "Origin", "https://evil.example.com")
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("foreign origin got %q", got)
	}
}

func TestRouter_Metrics(t *testing.T) {
	m := metrics.New(prometheus.NewRegistry())
	ts := newTestServer(RouterConfig{Metrics: m})

	ts.do(http.MethodGet, "/api/ai-chat", "")
	rec := ts.do(http.MethodGet, "/metrics", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	assertCORS(t, rec, httputil.MethodsDefault)
	if !strings.Contains(rec.Body.String(), `chatbot_http_requests_total{method="GET",route="/api/ai-chat",status="200"} 1`) {
		t.Errorf("request counter missing from:\n%s", rec.Body.String())
	}
}

func TestHandleError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{domain.NotFound("Thread not found"), http.StatusNotFound, "Thread not found"},
		{domain.Forbidden("Forbidden"), http.StatusForbidden, "Forbidden"},
		{domain.Invalid("Missing name"), http.StatusBadRequest, "Missing name"},
		{fmt.Errorf("wrap: %w", domain.ErrUnauthorized), http.StatusUnauthorized, "wrap: unauthorized"},
		{&domain.ConflictError{Message: "exists"}, http.StatusConflict, "exists"},
		{errors.New("boom"), http.StatusInternalServerError, "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			rec := httptest.NewRecorder()
			handleError(rec, tt.err)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if got := errorMessage(t, rec); got != tt.message {
				t.Errorf("message = %q, want %q", got, tt.message)
			}
		})
	}
}
