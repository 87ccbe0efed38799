package config

const (
	// MaxThreadTitleLength is the maximum length for thread titles derived
	// from the first message. Fits the VARCHAR(255) column.
	MaxThreadTitleLength = 100

	// MaxStaticModelNameLength matches static_models.name VARCHAR(128).
	MaxStaticModelNameLength = 128

	// MaxAgentNameLength is the maximum length for agent names.
	MaxAgentNameLength = 255

	// MaxArchiveNameLength is the maximum length for archive names.
	MaxArchiveNameLength = 255

	// MaxAPIKeyLength bounds stored API keys.
	MaxAPIKeyLength = 1024
)
