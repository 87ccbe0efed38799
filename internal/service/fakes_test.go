package service

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type fakeStaticModelRepo struct {
	mu      sync.Mutex
	byID    map[string]*models.StaticModel
	nextID  int
	getHits int
}

func newFakeStaticModelRepo() *fakeStaticModelRepo {
	return &fakeStaticModelRepo{byID: map[string]*models.StaticModel{}}
}

func (r *fakeStaticModelRepo) find(name, userID string) *models.StaticModel {
	for _, m := range r.byID {
		if m.Name == name && m.UserID == userID {
			return m
		}
	}
	return nil
}

func (r *fakeStaticModelRepo) GetByName(_ context.Context, name, userID string) (*models.StaticModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.getHits++
	if m := r.find(name, userID); m != nil {
		cp := *m
		return &cp, nil
	}
	return nil, domain.ErrNotFound
}

func (r *fakeStaticModelRepo) Insert(_ context.Context, m *models.StaticModel) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.find(m.Name, m.UserID) != nil {
		return &domain.ConflictError{Message: "duplicate", ResourceType: "static_model"}
	}
	r.nextID++
	m.ID = string(rune('a' + r.nextID))
	cp := *m
	r.byID[m.ID] = &cp
	return nil
}

func (r *fakeStaticModelRepo) Upsert(ctx context.Context, name, apiKey, userID string) (*models.StaticModel, error) {
	r.mu.Lock()
	if m := r.find(name, userID); m != nil {
		m.APIKey = apiKey
		cp := *m
		r.mu.Unlock()
		return &cp, nil
	}
	r.mu.Unlock()
	m := &models.StaticModel{Name: name, APIKey: apiKey, UserID: userID}
	if err := r.Insert(ctx, m); err != nil {
		return nil, err
	}
	return m, nil
}

func (r *fakeStaticModelRepo) FindByUser(_ context.Context, userID string) ([]models.StaticModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := []models.StaticModel{}
	for _, m := range r.byID {
		if m.UserID == userID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *fakeStaticModelRepo) FindByID(_ context.Context, id string) (*models.StaticModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *m
	return &cp, nil
}

func (r *fakeStaticModelRepo) Update(_ context.Context, id string, upd models.StaticModelUpdate) (*models.StaticModel, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if upd.Name != nil {
		m.Name = *upd.Name
	}
	if upd.APIKey != nil {
		m.APIKey = *upd.APIKey
	}
	cp := *m
	return &cp, nil
}

func (r *fakeStaticModelRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.byID, id)
	return nil
}

// memoryCache is an in-process KeyCache.
type memoryCache struct {
	mu          sync.Mutex
	keys        map[string]string
	invalidated []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{keys: map[string]string{}}
}

func (c *memoryCache) Get(_ context.Context, userID, name string) (string, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.keys[userID+"/"+name]
	return v, ok, nil
}

func (c *memoryCache) Set(_ context.Context, userID, name, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.keys[userID+"/"+name] = key
	return nil
}

func (c *memoryCache) Invalidate(_ context.Context, userID, name string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.keys, userID+"/"+name)
	c.invalidated = append(c.invalidated, name)
	return nil
}

func (c *memoryCache) Ping(context.Context) error { return nil }
func (c *memoryCache) Close() error               { return nil }

type fakeChatRepo struct {
	threads  map[string]*llmModels.ChatThread
	messages map[string][]llmModels.ChatMessage
	deleted  []string
}

func newFakeChatRepo() *fakeChatRepo {
	return &fakeChatRepo{
		threads:  map[string]*llmModels.ChatThread{},
		messages: map[string][]llmModels.ChatMessage{},
	}
}

func (r *fakeChatRepo) InsertThread(_ context.Context, t *llmModels.ChatThread) error {
	if _, ok := r.threads[t.ID]; ok {
		return &domain.ConflictError{Message: "thread exists", ResourceType: "thread", ResourceID: t.ID}
	}
	cp := *t
	r.threads[t.ID] = &cp
	return nil
}

func (r *fakeChatRepo) SelectThread(_ context.Context, id string) (*llmModels.ChatThread, error) {
	t, ok := r.threads[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (r *fakeChatRepo) SelectThreadsByUserID(_ context.Context, userID string) ([]llmModels.ChatThread, error) {
	out := []llmModels.ChatThread{}
	for _, t := range r.threads {
		if t.UserID == userID {
			out = append(out, *t)
		}
	}
	return out, nil
}

func (r *fakeChatRepo) DeleteThread(_ context.Context, id string) error {
	if _, ok := r.threads[id]; !ok {
		return domain.ErrNotFound
	}
	delete(r.threads, id)
	delete(r.messages, id)
	r.deleted = append(r.deleted, id)
	return nil
}

func (r *fakeChatRepo) UpsertMessage(_ context.Context, msg *llmModels.ChatMessage) (*llmModels.ChatMessage, error) {
	list := r.messages[msg.ThreadID]
	for i := range list {
		if list[i].ID == msg.ID {
			list[i] = *msg
			return msg, nil
		}
	}
	r.messages[msg.ThreadID] = append(list, *msg)
	return msg, nil
}

func (r *fakeChatRepo) SelectMessagesByThreadID(_ context.Context, id string) ([]llmModels.ChatMessage, error) {
	return append([]llmModels.ChatMessage{}, r.messages[id]...), nil
}

type fakeAgentRepo struct {
	agents map[string]*models.Agent
}

func (r *fakeAgentRepo) Insert(_ context.Context, a *models.Agent) error {
	if a.ID == "" {
		a.ID = "agent-new"
	}
	cp := *a
	r.agents[a.ID] = &cp
	return nil
}

func (r *fakeAgentRepo) SelectByID(_ context.Context, id string) (*models.Agent, error) {
	a, ok := r.agents[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *a
	return &cp, nil
}

func (r *fakeAgentRepo) SelectByUserID(_ context.Context, userID string) ([]models.Agent, error) {
	out := []models.Agent{}
	for _, a := range r.agents {
		if a.UserID == userID || a.Visibility != models.VisibilityPrivate {
			out = append(out, *a)
		}
	}
	return out, nil
}

func (r *fakeAgentRepo) Update(_ context.Context, a *models.Agent) error {
	cp := *a
	r.agents[a.ID] = &cp
	return nil
}

func (r *fakeAgentRepo) Delete(_ context.Context, id, userID string) error {
	a, ok := r.agents[id]
	if !ok || a.UserID != userID {
		return domain.ErrNotFound
	}
	delete(r.agents, id)
	return nil
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

type fakeUserRepo struct {
	users map[string]*models.User
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(context.Context, string) (*models.User, error) {
	return nil, domain.ErrNotFound
}

func (r *fakeUserRepo) Insert(_ context.Context, u *models.User) error {
	if _, ok := r.users[u.ID]; !ok {
		cp := *u
		r.users[u.ID] = &cp
	}
	return nil
}

func (r *fakeUserRepo) UpdatePreferences(_ context.Context, id string, prefs models.UserPreferences) error {
	u, ok := r.users[id]
	if !ok {
		return domain.ErrNotFound
	}
	u.Preferences = prefs
	return nil
}
