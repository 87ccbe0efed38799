package streaming

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"

	"github.com/tmc/langchaingo/llms"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/config"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/repositories"
	llmSvc "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/tools"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// scriptedTurn is one GenerateContent result. chunks are fed to the
// streaming func before resp or err is returned.
type scriptedTurn struct {
	chunks []string
	resp   *llms.ContentResponse
	err    error
}

type scriptedModel struct {
	mu    sync.Mutex
	turns []scriptedTurn
	calls [][]llms.MessageContent
	opts  []llms.CallOptions
}

func (m *scriptedModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.mu.Lock()
	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}
	m.calls = append(m.calls, append([]llms.MessageContent{}, messages...))
	m.opts = append(m.opts, opts)
	if len(m.turns) == 0 {
		m.mu.Unlock()
		return nil, errors.New("unexpected model call")
	}
	turn := m.turns[0]
	m.turns = m.turns[1:]
	m.mu.Unlock()

	for _, c := range turn.chunks {
		if opts.StreamingFunc == nil {
			break
		}
		if err := opts.StreamingFunc(ctx, []byte(c)); err != nil {
			return nil, err
		}
	}
	return turn.resp, turn.err
}

func (m *scriptedModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

func textResponse(text string, in, out int) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		Content:    text,
		StopReason: "stop",
		GenerationInfo: map[string]any{
			"PromptTokens":     in,
			"CompletionTokens": out,
		},
	}}}
}

func toolCallResponse(id, name, args string) *llms.ContentResponse {
	return &llms.ContentResponse{Choices: []*llms.ContentChoice{{
		StopReason: "tool_calls",
		ToolCalls: []llms.ToolCall{{
			ID:           id,
			Type:         "function",
			FunctionCall: &llms.FunctionCall{Name: name, Arguments: args},
		}},
	}}}
}

// chunkLog records chunks. failAt makes the n-th write (1-based) fail.
type chunkLog struct {
	mu     sync.Mutex
	chunks []llmModels.Chunk
	failAt int
}

func (l *chunkLog) WriteChunk(c llmModels.Chunk) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.failAt > 0 && len(l.chunks)+1 == l.failAt {
		return errors.New("client went away")
	}
	l.chunks = append(l.chunks, c)
	return nil
}

func (l *chunkLog) types() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.chunks))
	for i, c := range l.chunks {
		out[i] = c.Type
	}
	return out
}

func (l *chunkLog) text() string {
	var s string
	for _, c := range l.chunks {
		if c.Type == llmModels.ChunkTextDelta {
			s += c.Delta
		}
	}
	return s
}

func (l *chunkLog) last() llmModels.Chunk {
	return l.chunks[len(l.chunks)-1]
}

type fakeChatRepo struct {
	mu       sync.Mutex
	threads  map[string]*llmModels.ChatThread
	messages map[string]*llmModels.ChatMessage
	order    []string
	saveErr  error
	inserted int
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{threads: map[string]*llmModels.ChatThread{}, messages: map[string]*llmModels.ChatMessage{}}
}

func (r *fakeChatRepo) InsertThread(_ context.Context, t *llmModels.ChatThread) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.threads[t.ID]; ok {
		return &domain.ConflictError{Message: "thread exists", ResourceType: "thread", ResourceID: t.ID}
	}
	cp := *t
	r.threads[t.ID] = &cp
	r.inserted++
	return nil
}

func (r *fakeChatRepo) SelectThread(_ context.Context, id string) (*llmModels.ChatThread, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	t, ok := r.threads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeChatRepo) SelectThreadsByUserID(context.Context, string) ([]llmModels.ChatThread, error) {
	return nil, nil
}

func (r *fakeChatRepo) DeleteThread(context.Context, string) error { return nil }

func (r *fakeChatRepo) UpsertMessage(_ context.Context, msg *llmModels.ChatMessage) (*llmModels.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.saveErr != nil {
		return nil, r.saveErr
	}
	if _, ok := r.messages[msg.ID]; !ok {
		r.order = append(r.order, msg.ID)
	}
	cp := *msg
	r.messages[msg.ID] = &cp
	return &cp, nil
}

func (r *fakeChatRepo) SelectMessagesByThreadID(_ context.Context, threadID string) ([]llmModels.ChatMessage, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []llmModels.ChatMessage{}
	for _, id := range r.order {
		if m := r.messages[id]; m.ThreadID == threadID {
			out = append(out, *m)
		}
	}
	return out, nil
}

type fakeTx struct{ calls int }

func (t *fakeTx) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	t.calls++
	return fn(ctx)
}

// fakeModels hands out one model and records the key it was built with.
type fakeModels struct {
	model    llms.Model
	envKeys  map[string]string
	gotKey   string
	gotModel llmModels.ChatModel
}

func (f *fakeModels) GetModel(provider, model, apiKey string) (llms.Model, error) {
	f.gotKey = apiKey
	f.gotModel = llmModels.ChatModel{Provider: provider, Model: model}
	return f.model, nil
}

func (f *fakeModels) EnvAPIKey(provider string) string { return f.envKeys[provider] }

type fakeKeys map[string]string

func (k fakeKeys) LookupAPIKey(_ context.Context, modelName, _ string) (string, error) {
	return k[modelName], nil
}

type noToolModels map[string]bool

func (n noToolModels) IsToolCallUnsupported(_, model string) bool { return n[model] }

type fakeAgentRepo struct {
	agents map[string]*models.Agent
}

func (r *fakeAgentRepo) Insert(context.Context, *models.Agent) error { return nil }

func (r *fakeAgentRepo) SelectByID(_ context.Context, id string) (*models.Agent, error) {
	a, ok := r.agents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return a, nil
}

func (r *fakeAgentRepo) SelectByUserID(context.Context, string) ([]models.Agent, error) {
	return nil, nil
}

func (r *fakeAgentRepo) Update(context.Context, *models.Agent) error { return nil }

func (r *fakeAgentRepo) Delete(context.Context, string, string) error { return nil }

const (
	testUser   = "user-1"
	testThread = "6f1c1a0e-6b3f-4c89-9a57-0d7f3c2a9b10"
)

type harness struct {
	svc    *Service
	model  *scriptedModel
	models *fakeModels
	repo   *fakeChatRepo
	tx     *fakeTx
}

func newHarness(turns ...scriptedTurn) *harness {
	model := &scriptedModel{turns: turns}
	h := &harness{
		model:  model,
		models: &fakeModels{model: model, envKeys: map[string]string{"openai": "env-key"}},
		repo:   newFakeChatRepo(),
		tx:     &fakeTx{},
	}
	catalog := tools.NewToolRegistry()
	catalog.Register(tools.Tool{
		Name:        tools.ToolCreateTable,
		Toolkit:     tools.ToolkitVisualization,
		Description: "echo",
		Executor: tools.ExecutorFunc(func(_ context.Context, input map[string]any) (any, error) {
			if input["fail"] == true {
				return nil, errors.New("bad table")
			}
			return "Success", nil
		}),
	})
	h.svc = NewService(Deps{
		Config:       config.ChatConfig{Temperature: 0.2, MaxSteps: 3, MaxRetries: 1},
		DefaultModel: llmModels.ChatModel{Provider: "openai", Model: "gpt-4o-mini"},
		Session:      SessionUser{Name: "Demo", Email: "demo@example.com"},
		Models:       h.models,
		Keys:         fakeKeys{},
		Capabilities: noToolModels{},
		Tools:        catalog,
		ChatRepo:     h.repo,
		TxManager:    h.tx,
		Logger:       discardLogger(),
	})
	return h
}

func userRequest(text string) *llmSvc.ChatRequest {
	return &llmSvc.ChatRequest{
		ThreadID: testThread,
		UserID:   testUser,
		Message: &llmModels.UIMessage{
			ID:    "msg-user",
			Role:  llmModels.RoleUser,
			Parts: []llmModels.Part{llmModels.TextPart(text)},
		},
	}
}
