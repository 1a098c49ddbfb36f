package port

import "github.com/Oikion/mvp-sub003/internal/core/domain"

// SourceRegistryPort resolves source ids to their static configuration.
// Pure lookup: no I/O, no mutation. An unknown id reports ok=false so
// multi-source batch callers can skip instead of crash.
type SourceRegistryPort interface {
	Get(id string) (domain.SourceConfig, bool)
	All() []domain.SourceConfig
}
