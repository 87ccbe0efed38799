package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/tmc/langchaingo/llms"

	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models"
	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	llmSvc "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services/llm"
	"github.com/nguyenngocdue/mcp-chatbot-sj/internal/service/llm/tools"
)

// Stream outcomes recorded in metrics.
const (
	outcomeOK      = "ok"
	outcomeError   = "error"
	outcomeAborted = "aborted"
)

// chatStream is one prepared completion.
type chatStream struct {
	svc       *Service
	req       *llmSvc.ChatRequest
	thread    *llmModels.ChatThread
	chatModel llmModels.ChatModel
	model     llms.Model
	messages  []llms.MessageContent
	toolset   *tools.ToolRegistry
	agent     *models.Agent
	messageID string
}

func (s *chatStream) MessageID() string { return s.messageID }

// Run streams the completion into w. Model and tool failures end the
// stream with an error chunk; a cancelled ctx ends it silently. The
// exchange is saved only when the model finishes normally, before the
// finish chunk is written.
func (s *chatStream) Run(ctx context.Context, w llmSvc.ChunkWriter) error {
	outcome := outcomeOK
	done := s.svc.metrics.StreamStarted(s.chatModel.Provider)
	defer func() { done(outcome) }()

	logger := s.svc.logger.With("thread_id", s.thread.ID, "message_id", s.messageID)
	rec := newRecorder(w)

	fail := func(err error) error {
		if ctx.Err() != nil {
			outcome = outcomeAborted
			logger.Info("chat stream aborted", "error", err)
			return ctx.Err()
		}
		outcome = outcomeError
		logger.Error("chat stream failed", "error", err)
		if werr := w.WriteChunk(llmModels.Chunk{Type: llmModels.ChunkError, ErrorText: err.Error()}); werr != nil {
			logger.Debug("write error chunk", "error", werr)
		}
		return err
	}

	if err := rec.WriteChunk(llmModels.Chunk{Type: llmModels.ChunkStart, MessageID: s.messageID}); err != nil {
		return fail(err)
	}

	var usage llmModels.Usage
	for step := 0; step < s.svc.cfg.MaxSteps; step++ {
		stepUsage, more, err := s.runStep(ctx, rec)
		usage.Add(stepUsage)
		if err != nil {
			return fail(err)
		}
		if !more {
			break
		}
	}

	md := s.metadata(usage)
	if err := s.persist(ctx, rec.Parts(), md); err != nil {
		return fail(fmt.Errorf("save messages: %w", err))
	}
	s.svc.metrics.AddTokens(s.chatModel.Provider, usage.InputTokens, usage.OutputTokens)

	if err := rec.WriteChunk(llmModels.Chunk{Type: llmModels.ChunkFinish, MessageMetadata: md}); err != nil {
		return fail(err)
	}
	logger.Info("chat stream finished",
		"input_tokens", usage.InputTokens,
		"output_tokens", usage.OutputTokens,
	)
	return nil
}

// runStep makes one model call and runs the tools it asks for. more is
// true when tool results were appended and the model should be called
// again.
func (s *chatStream) runStep(ctx context.Context, w llmSvc.ChunkWriter) (usage llmModels.Usage, more bool, err error) {
	if err := w.WriteChunk(llmModels.Chunk{Type: llmModels.ChunkStartStep}); err != nil {
		return usage, false, err
	}

	text := &textPart{w: w, id: uuid.NewString()}
	smooth := newSmoother(s.svc.cfg.SmoothDelay, text.delta)

	resp, err := s.generate(ctx, text, smooth)
	if err != nil {
		return usage, false, err
	}
	if err := smooth.Flush(); err != nil {
		return usage, false, err
	}

	content, calls := collectChoices(resp)
	if !text.started && content != "" {
		// The provider answered without streaming.
		if err := text.delta(content); err != nil {
			return usage, false, err
		}
	}
	if err := text.end(); err != nil {
		return usage, false, err
	}
	usage = usageFromResponse(resp)

	if len(calls) > 0 {
		if err := s.runTools(ctx, w, content, calls); err != nil {
			return usage, false, err
		}
	}

	if err := w.WriteChunk(llmModels.Chunk{Type: llmModels.ChunkFinishStep}); err != nil {
		return usage, false, err
	}
	return usage, len(calls) > 0, nil
}

// generate calls the model, retrying while nothing has reached the client.
func (s *chatStream) generate(ctx context.Context, text *textPart, smooth *smoother) (*llms.ContentResponse, error) {
	opts := []llms.CallOption{
		llms.WithTemperature(s.svc.cfg.Temperature),
		llms.WithStreamingFunc(func(ctx context.Context, chunk []byte) error {
			if isToolCallChunk(chunk) {
				return nil
			}
			return smooth.Push(ctx, string(chunk))
		}),
	}
	if s.toolset.Len() > 0 {
		opts = append(opts, llms.WithTools(s.toolset.Definitions()), llms.WithToolChoice("auto"))
	}

	var lastErr error
	for attempt := 0; attempt <= s.svc.cfg.MaxRetries; attempt++ {
		resp, err := s.model.GenerateContent(ctx, s.messages, opts...)
		if err == nil {
			return resp, nil
		}
		lastErr = err
		if ctx.Err() != nil || errors.Is(err, context.Canceled) || text.started || smooth.Pending() {
			break
		}
		s.svc.logger.Warn("model call failed, retrying",
			"provider", s.chatModel.Provider,
			"model", s.chatModel.Model,
			"attempt", attempt+1,
			"error", err,
		)
	}
	return nil, lastErr
}

// runTools announces each call, executes them in parallel and appends the
// assistant turn plus the tool results to the conversation.
func (s *chatStream) runTools(ctx context.Context, w llmSvc.ChunkWriter, content string, calls []llms.ToolCall) error {
	toolCalls := make([]tools.ToolCall, len(calls))
	for i, c := range calls {
		toolCalls[i] = tools.ToolCall{ID: c.ID, Name: c.FunctionCall.Name, Input: parseArguments(c.FunctionCall.Arguments)}
		if err := w.WriteChunk(llmModels.Chunk{
			Type:       llmModels.ChunkToolInputAvailable,
			ToolCallID: c.ID,
			ToolName:   c.FunctionCall.Name,
			Input:      toolCalls[i].Input,
		}); err != nil {
			return err
		}
	}

	results := s.toolset.ExecuteParallel(ctx, toolCalls)
	if err := ctx.Err(); err != nil {
		return err
	}

	ai := llms.MessageContent{Role: llms.ChatMessageTypeAI}
	if content != "" {
		ai.Parts = append(ai.Parts, llms.TextContent{Text: content})
	}
	for _, c := range calls {
		ai.Parts = append(ai.Parts, c)
	}
	s.messages = append(s.messages, ai)

	for _, r := range results {
		s.svc.metrics.ObserveTool(r.Name, r.IsError)
		chunk := llmModels.Chunk{Type: llmModels.ChunkToolOutputAvailable, ToolCallID: r.ID, Output: r.Result}
		reply := toolReply(r.Result)
		if r.IsError {
			s.svc.logger.Warn("tool failed", "tool", r.Name, "tool_call_id", r.ID, "error", r.Error)
			chunk = llmModels.Chunk{Type: llmModels.ChunkToolOutputError, ToolCallID: r.ID, ErrorText: r.Error.Error()}
			reply = "Error: " + r.Error.Error()
		}
		if err := w.WriteChunk(chunk); err != nil {
			return err
		}
		s.messages = append(s.messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeTool,
			Parts: []llms.ContentPart{llms.ToolCallResponse{ToolCallID: r.ID, Name: r.Name, Content: reply}},
		})
	}
	return nil
}

// collectChoices joins the text and tool calls of every choice. Some
// providers return one choice per content block.
func collectChoices(resp *llms.ContentResponse) (string, []llms.ToolCall) {
	var texts []string
	var calls []llms.ToolCall
	seen := map[string]bool{}
	for _, c := range resp.Choices {
		if c.Content != "" {
			texts = append(texts, c.Content)
		}
		for _, tc := range c.ToolCalls {
			if tc.FunctionCall == nil || seen[tc.ID] {
				continue
			}
			seen[tc.ID] = true
			if tc.ID == "" {
				tc.ID = uuid.NewString()
			}
			if tc.Type == "" {
				tc.Type = "function"
			}
			calls = append(calls, tc)
		}
	}
	return strings.Join(texts, ""), calls
}

func parseArguments(args string) map[string]any {
	input := map[string]any{}
	if strings.TrimSpace(args) == "" {
		return input
	}
	if err := json.Unmarshal([]byte(args), &input); err != nil {
		return map[string]any{}
	}
	return input
}

func toolReply(result any) string {
	if s, ok := result.(string); ok {
		return s
	}
	b, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprint(result)
	}
	return string(b)
}

// textPart writes the text-start, text-delta and text-end chunks of one
// step's text.
type textPart struct {
	w       llmSvc.ChunkWriter
	id      string
	started bool
}

func (t *textPart) delta(s string) error {
	if s == "" {
		return nil
	}
	if !t.started {
		t.started = true
		if err := t.w.WriteChunk(llmModels.Chunk{Type: llmModels.ChunkTextStart, ID: t.id}); err != nil {
			return err
		}
	}
	return t.w.WriteChunk(llmModels.Chunk{Type: llmModels.ChunkTextDelta, ID: t.id, Delta: s})
}

func (t *textPart) end() error {
	if !t.started {
		return nil
	}
	return t.w.WriteChunk(llmModels.Chunk{Type: llmModels.ChunkTextEnd, ID: t.id})
}
