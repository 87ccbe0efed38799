package tools

import "context"

// ToolExecutor defines the interface for executing a tool.
// Implementations must be safe for concurrent use and respect context
// cancellation.
type ToolExecutor interface {
	// Execute runs the tool with the arguments the model produced. The
	// returned value must be JSON-serializable.
	Execute(ctx context.Context, input map[string]any) (any, error)
}

// ExecutorFunc adapts a function to ToolExecutor.
type ExecutorFunc func(ctx context.Context, input map[string]any) (any, error)

func (f ExecutorFunc) Execute(ctx context.Context, input map[string]any) (any, error) {
	return f(ctx, input)
}

// Tool is a tool definition the model can call plus its executor.
type Tool struct {
	Name        string
	Toolkit     string
	Description string
	// Parameters is the JSON schema of the input object.
	Parameters map[string]any
	Executor   ToolExecutor
}
