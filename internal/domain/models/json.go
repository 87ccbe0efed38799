package models

// JSONMap holds free-form JSONB columns (icons, node configs, MCP configs).
type JSONMap map[string]any
