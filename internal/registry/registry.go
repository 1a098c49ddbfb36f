// Package registry is the Source Registry: the static, immutable table
// of configured listing portals, loaded once at process start.
package registry

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"gopkg.in/yaml.v2"
)

//go:embed sources.yaml
var defaultSources []byte

type sourcesFile struct {
	Sources []domain.SourceConfig `yaml:"sources"`
}

// Registry resolves source ids to their configuration. Pure lookups
// after construction; no I/O, no mutation.
type Registry struct {
	byID  map[string]domain.SourceConfig
	order []string
}

// New builds the registry from the embedded source table.
func New() (*Registry, error) {
	return parse(defaultSources)
}

// NewFromFile builds the registry from an external YAML file, for
// operational overrides and tests.
func NewFromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("registry: failed to read %s: %w", path, err)
	}
	return parse(data)
}

func parse(data []byte) (*Registry, error) {
	var file sourcesFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("registry: failed to parse source table: %w", err)
	}
	if len(file.Sources) == 0 {
		return nil, fmt.Errorf("registry: source table is empty")
	}

	byID := make(map[string]domain.SourceConfig, len(file.Sources))
	order := make([]string, 0, len(file.Sources))
	for _, src := range file.Sources {
		if src.ID == "" {
			return nil, fmt.Errorf("registry: source entry without id (name %q)", src.Name)
		}
		if _, dup := byID[src.ID]; dup {
			return nil, fmt.Errorf("registry: duplicate source id %q", src.ID)
		}
		if src.Pagination.MaxPages <= 0 {
			return nil, fmt.Errorf("registry: source %q: pagination.max_pages must be positive", src.ID)
		}
		if src.RateLimit.RequestsPerWindow > 0 && src.RateLimit.WindowMinutes <= 0 {
			return nil, fmt.Errorf("registry: source %q: rate_limit.window_minutes must be positive when a ceiling is set", src.ID)
		}
		byID[src.ID] = src
		order = append(order, src.ID)
	}
	return &Registry{byID: byID, order: order}, nil
}

// Get returns the configuration for id. ok is false for unknown ids so
// batch callers can skip a source instead of failing the whole run.
func (r *Registry) Get(id string) (domain.SourceConfig, bool) {
	src, ok := r.byID[id]
	return src, ok
}

// All returns every configured source in declaration order.
func (r *Registry) All() []domain.SourceConfig {
	out := make([]domain.SourceConfig, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}
