package capabilities

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed config/*.yaml
var configFiles embed.FS

// Registry answers capability questions about known models.
type Registry struct {
	providers map[string]*ProviderCapabilities
	mu        sync.RWMutex
}

// NewRegistry loads every embedded provider file.
func NewRegistry() (*Registry, error) {
	return newRegistryFromFS(configFiles, "config")
}

func newRegistryFromFS(fsys fs.FS, dir string) (*Registry, error) {
	r := &Registry{providers: make(map[string]*ProviderCapabilities)}

	files, err := fs.Glob(fsys, path.Join(dir, "*.yaml"))
	if err != nil {
		return nil, fmt.Errorf("list capability files: %w", err)
	}
	for _, f := range files {
		if err := r.loadProviderFile(fsys, f); err != nil {
			return nil, err
		}
	}
	return r, nil
}

func (r *Registry) loadProviderFile(fsys fs.FS, filename string) error {
	data, err := fs.ReadFile(fsys, filename)
	if err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}

	var caps ProviderCapabilities
	if err := yaml.Unmarshal(data, &caps); err != nil {
		return fmt.Errorf("unmarshal %s: %w", filename, err)
	}
	if caps.Provider == "" {
		caps.Provider = strings.TrimSuffix(path.Base(filename), ".yaml")
	}

	r.mu.Lock()
	r.providers[caps.Provider] = &caps
	r.mu.Unlock()
	return nil
}

// GetModelCapabilities returns capabilities for a specific model
func (r *Registry) GetModelCapabilities(provider, model string) (*ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	for i := range caps.Models {
		if caps.Models[i].ID == model {
			return &caps.Models[i], nil
		}
	}
	return nil, fmt.Errorf("unknown model %s for provider %s", model, provider)
}

// IsToolCallUnsupported reports whether the model is listed as unable to
// call tools. Unlisted models are assumed capable.
func (r *Registry) IsToolCallUnsupported(provider, model string) bool {
	m, err := r.GetModelCapabilities(provider, model)
	if err != nil {
		return false
	}
	return !m.SupportsTools
}

// ListProviderModels returns all models for a provider, in file order.
func (r *Registry) ListProviderModels(provider string) ([]ModelCapabilities, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	caps, ok := r.providers[provider]
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", provider)
	}
	return caps.Models, nil
}

// All returns every provider sorted by name.
func (r *Registry) All() []ProviderCapabilities {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]ProviderCapabilities, 0, len(r.providers))
	for _, p := range r.providers {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Provider < all[j].Provider })
	return all
}
