// Command chat is a terminal client for /api/ai-chat. Each line typed is
// sent as a user message on one thread and the streamed reply is printed.
package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	llmModels "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/models/llm"
	llmSvc "github.com/nguyenngocdue/mcp-chatbot-sj/internal/domain/services/llm"
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

type CLI struct {
	client   *http.Client
	endpoint string
	token    string
	threadID string
	model    *llmModels.ChatModel
	out      io.Writer
}

func main() {
	_ = godotenv.Load()

	server := flag.String("server", envOr("CHAT_SERVER", "http://localhost:8080"), "server base URL")
	provider := flag.String("provider", "", "model provider (empty uses the server default)")
	model := flag.String("model", "", "model name")
	thread := flag.String("thread", "", "thread id to continue (default: a new thread)")
	flag.Parse()

	cli := &CLI{
		client:   http.DefaultClient,
		endpoint: strings.TrimRight(*server, "/") + "/api/ai-chat",
		token:    os.Getenv("CHAT_TOKEN"),
		threadID: *thread,
		out:      os.Stdout,
	}
	if cli.threadID == "" {
		cli.threadID = uuid.NewString()
	}
	if *model != "" {
		cli.model = &llmModels.ChatModel{Provider: *provider, Model: *model}
	}

	fmt.Fprintf(cli.out, "%sthread %s (ctrl-D to quit)%s\n", colorCyan, cli.threadID, colorReset)

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Fprint(cli.out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(cli.out)
			return
		}
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		// Ctrl-C aborts the current reply, not the session.
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		if err := cli.Send(ctx, text); err != nil {
			fmt.Fprintf(cli.out, "%s%v%s\n", colorRed, err, colorReset)
		}
		stop()
	}
}

// Send posts one user message and renders the reply stream.
func (c *CLI) Send(ctx context.Context, text string) error {
	body, err := json.Marshal(llmSvc.ChatRequest{
		ThreadID:  c.threadID,
		ChatModel: c.model,
		Message: &llmModels.UIMessage{
			ID:    uuid.NewString(),
			Role:  llmModels.RoleUser,
			Parts: []llmModels.Part{{Type: llmModels.PartTypeText, Text: text}},
		},
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var e struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&e)
		return fmt.Errorf("%s: %s", resp.Status, e.Error)
	}

	return readStream(resp.Body, c.render)
}

func (c *CLI) render(chunk llmModels.Chunk) {
	switch chunk.Type {
	case llmModels.ChunkTextDelta:
		fmt.Fprint(c.out, chunk.Delta)
	case llmModels.ChunkTextEnd:
		fmt.Fprintln(c.out)
	case llmModels.ChunkToolInputAvailable:
		input, _ := json.Marshal(chunk.Input)
		fmt.Fprintf(c.out, "%s[tool] %s %s%s\n", colorYellow, chunk.ToolName, input, colorReset)
	case llmModels.ChunkToolOutputError:
		fmt.Fprintf(c.out, "%s[tool error] %s%s\n", colorRed, chunk.ErrorText, colorReset)
	case llmModels.ChunkError:
		fmt.Fprintf(c.out, "%s%s%s\n", colorRed, chunk.ErrorText, colorReset)
	case llmModels.ChunkFinish:
		if m := chunk.MessageMetadata; m != nil && m.Usage != nil {
			fmt.Fprintf(c.out, "%s(%d in / %d out tokens)%s\n", colorCyan, m.Usage.InputTokens, m.Usage.OutputTokens, colorReset)
		}
	}
}

// readStream decodes "data:" events until [DONE] or EOF. Comment lines are
// keep-alives and are skipped.
func readStream(r io.Reader, fn func(llmModels.Chunk)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		data, ok := strings.CutPrefix(line, "data: ")
		if !ok {
			continue
		}
		if data == "[DONE]" {
			return nil
		}
		var chunk llmModels.Chunk
		if err := json.Unmarshal([]byte(data), &chunk); err != nil {
			return fmt.Errorf("decode chunk: %w", err)
		}
		fn(chunk)
	}
	return scanner.Err()
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
