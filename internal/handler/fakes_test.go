package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services"
	llmSvc "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeStreaming hands out a stream that writes chunks, or fails Start.
type fakeStreaming struct {
	startErr error
	chunks   []llmModels.Chunk
	runErr   error
	got      *llmSvc.ChatRequest
}

func (f *fakeStreaming) Start(_ context.Context, req *llmSvc.ChatRequest) (llmSvc.ChatStream, error) {
	f.got = req
	if f.startErr != nil {
		return nil, f.startErr
	}
	return &fakeStream{chunks: f.chunks, err: f.runErr}, nil
}

type fakeStream struct {
	chunks []llmModels.Chunk
	err    error
}

func (s *fakeStream) MessageID() string { return "m1" }

func (s *fakeStream) Run(_ context.Context, w llmSvc.ChunkWriter) error {
	for _, c := range s.chunks {
		if err := w.WriteChunk(c); err != nil {
			return err
		}
	}
	return s.err
}

type fakeThreads struct {
	threads map[string]*llmModels.ChatThread
	deleted []string
}

func (f *fakeThreads) owned(id, userID string) (*llmModels.ChatThread, error) {
	t, ok := f.threads[id]
	if !ok {
		return nil, domain.NotFound("Thread not found")
	}
	if t.UserID != userID {
		return nil, domain.Forbidden("Forbidden")
	}
	return t, nil
}

func (f *fakeThreads) GetThread(_ context.Context, id, userID string) (*llmModels.ThreadWithMessages, error) {
	t, err := f.owned(id, userID)
	if err != nil {
		return nil, err
	}
	return &llmModels.ThreadWithMessages{ChatThread: *t, Messages: []llmModels.ChatMessage{}}, nil
}

func (f *fakeThreads) ListThreads(context.Context, string) ([]llmModels.ChatThread, error) {
	return []llmModels.ChatThread{}, nil
}

func (f *fakeThreads) DeleteThread(_ context.Context, id, userID string) error {
	if _, err := f.owned(id, userID); err != nil {
		return err
	}
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeStaticModels struct {
	services.StaticModelService
	saved *services.SaveStaticModelRequest
}

func (f *fakeStaticModels) GetByName(_ context.Context, name, userID string) (*models.StaticModel, error) {
	switch name {
	case "":
		return nil, domain.Invalid("Missing name")
	case "gpt-4o":
		return &models.StaticModel{ID: "s1", Name: name, APIKey: "k", UserID: userID}, nil
	}
	return nil, domain.NotFound("Not found")
}

func (f *fakeStaticModels) Save(_ context.Context, req *services.SaveStaticModelRequest) (*models.StaticModel, error) {
	if req.Name == "" || req.APIKey == "" {
		return nil, domain.Invalid("Missing name or apiKey")
	}
	f.saved = req
	return &models.StaticModel{ID: "s1", Name: req.Name, APIKey: req.APIKey, UserID: req.UserID}, nil
}

func (f *fakeStaticModels) Delete(_ context.Context, id, _ string) error {
	if id == "" {
		return domain.Invalid("Missing id")
	}
	return nil
}

type fakeHealth struct{ report services.HealthReport }

func (f *fakeHealth) Check(context.Context) *services.HealthReport {
	r := f.report
	return &r
}

type rejectAll struct{}

func (rejectAll) VerifyToken(string) (*models.SessionClaims, error) { return nil, domain.ErrUnauthorized }
func (rejectAll) Close() error                                      { return nil }
