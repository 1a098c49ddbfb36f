package usecases_port

import (
	"context"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
)

// CollectListingsPort is the engine's input contract: one call per
// source, batch callers aggregate.
type CollectListingsPort interface {
	Execute(ctx context.Context, sourceID string, filters domain.SearchFilters, maxPages int) ([]domain.RawListing, error)
}
