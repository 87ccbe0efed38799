package tools

import "time"

// ToolConfig centralizes limits shared by the app default tools.
type ToolConfig struct {
	// Web search tool configuration (external APIs)
	WebSearchDefaultLimit int
	WebSearchMaxLimit     int

	// webContent truncates each extracted page to this many characters
	MaxContentSize int

	// http tool
	HTTPTimeout      time.Duration
	HTTPMaxBodyBytes int64
}

// DefaultToolConfig returns the default tool configuration.
func DefaultToolConfig() *ToolConfig {
	return &ToolConfig{
		WebSearchDefaultLimit: 5,
		WebSearchMaxLimit:     10,

		MaxContentSize: 20000, // ~5k tokens

		HTTPTimeout:      30 * time.Second,
		HTTPMaxBodyBytes: 256 << 10,
	}
}
