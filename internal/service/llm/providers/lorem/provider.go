// Package lorem is a mock chat model that streams lorem ipsum text. It needs
// no API key and never calls tools.
package lorem

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	loremgen "github.com/bozaro/golorem"
	"github.com/tmc/langchaingo/llms"
)

// Model implements llms.Model.
type Model struct {
	name      string
	generator *loremgen.Lorem
	delay     time.Duration
}

type Option func(*Model)

// WithDelay overrides the per-word delay implied by the model name.
func WithDelay(d time.Duration) Option {
	return func(m *Model) { m.delay = d }
}

// New returns a lorem model. The name picks the word rate:
// lorem-slow 2 words/s, lorem-fast 30 words/s, otherwise 10 words/s.
func New(name string, opts ...Option) *Model {
	m := &Model{
		name:      name,
		generator: loremgen.New(),
		delay:     streamDelay(name),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

var _ llms.Model = (*Model)(nil)

// SupportsModel reports whether name is a lorem model.
func SupportsModel(name string) bool {
	return strings.HasPrefix(name, "lorem-")
}

func streamDelay(model string) time.Duration {
	switch {
	case strings.Contains(model, "slow"):
		return 500 * time.Millisecond
	case strings.Contains(model, "fast"):
		return 33 * time.Millisecond
	default:
		return 100 * time.Millisecond
	}
}

func (m *Model) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// GenerateContent produces one to three paragraphs, streaming them word by
// word when a streaming func is set. MaxTokens caps the word count.
func (m *Model) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	if !SupportsModel(m.name) {
		return nil, fmt.Errorf("model '%s' is not supported by lorem provider", m.name)
	}

	var opts llms.CallOptions
	for _, o := range options {
		o(&opts)
	}

	words := strings.Fields(m.text())
	if opts.MaxTokens > 0 && len(words) > opts.MaxTokens {
		words = words[:opts.MaxTokens]
	}

	var b strings.Builder
	for i, w := range words {
		if i > 0 {
			w = " " + w
		}
		if opts.StreamingFunc != nil {
			if err := m.wait(ctx); err != nil {
				return nil, err
			}
			if err := opts.StreamingFunc(ctx, []byte(w)); err != nil {
				return nil, err
			}
		}
		b.WriteString(w)
	}

	input := promptTokens(messages)
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{
			Content:    b.String(),
			StopReason: "stop",
			GenerationInfo: map[string]any{
				"PromptTokens":     input,
				"CompletionTokens": len(words),
				"TotalTokens":      input + len(words),
			},
		}},
	}, nil
}

func (m *Model) text() string {
	n := 1 + rand.IntN(3)
	paragraphs := make([]string, n)
	for i := range paragraphs {
		paragraphs[i] = m.generator.Paragraph(3, 5)
	}
	return strings.Join(paragraphs, "\n\n")
}

func (m *Model) wait(ctx context.Context) error {
	if m.delay <= 0 {
		return ctx.Err()
	}
	select {
	case <-time.After(m.delay):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// promptTokens approximates input tokens by word count.
func promptTokens(messages []llms.MessageContent) int {
	n := 0
	for _, msg := range messages {
		for _, p := range msg.Parts {
			if t, ok := p.(llms.TextContent); ok {
				n += len(strings.Fields(t.Text))
			}
		}
	}
	return n
}
