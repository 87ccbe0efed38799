// Package sse writes UI message stream chunks as Server-Sent Events.
package sse

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"

	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
)

// ErrStreamingUnsupported is returned when the ResponseWriter cannot flush.
var ErrStreamingUnsupported = errors.New("streaming unsupported")

// Writer serializes chunk writes and keep-alive pings onto one response.
type Writer struct {
	mu      sync.Mutex
	w       http.ResponseWriter
	flusher http.Flusher
	closed  bool
}

// NewWriter sets the event stream headers and the 200 status.
func NewWriter(w http.ResponseWriter) (*Writer, error) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil, ErrStreamingUnsupported
	}

	h := w.Header()
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
	h.Set("X-Accel-Buffering", "no") // Disable nginx buffering
	h.Set(llmModels.UIStreamHeader, "v1")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	return &Writer{w: w, flusher: flusher}, nil
}

// WriteChunk writes one "data: <json>" event and flushes it.
func (s *Writer) WriteChunk(chunk llmModels.Chunk) error {
	payload, err := json.Marshal(chunk)
	if err != nil {
		return fmt.Errorf("encode chunk: %w", err)
	}
	return s.write("data: %s\n\n", payload)
}

// WriteKeepAlive writes an SSE comment, which clients ignore.
func (s *Writer) WriteKeepAlive() error {
	return s.write(": keepalive\n\n")
}

// Done writes the [DONE] terminator. Later writes are dropped.
func (s *Writer) Done() error {
	if err := s.write("data: [DONE]\n\n"); err != nil {
		return err
	}
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	return nil
}

func (s *Writer) write(format string, args ...any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if _, err := fmt.Fprintf(s.w, format, args...); err != nil {
		return fmt.Errorf("write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}
