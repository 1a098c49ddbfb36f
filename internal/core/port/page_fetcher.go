package port

import (
	"context"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
)

// PageFetcherPort is one extraction strategy for a listings portal.
//
// FetchPage returns the listings extracted from the given results page,
// whether a "next page" signal was detected, and an error only for
// transport-level failures (timeout, non-success status, navigation
// failure). Extraction mismatches and no-results pages are not errors:
// they surface as zero listings with hasNext=false so the orchestrator
// can stop early or fall back to the other strategy.
type PageFetcherPort interface {
	// Name identifies the strategy in logs.
	Name() string
	FetchPage(ctx context.Context, source domain.SourceConfig, filters domain.SearchFilters, page int) ([]domain.RawListing, bool, error)
}
