package port

import (
	"context"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/google/uuid"
)

// ListingSinkPort is implemented by the persistence collaborator. The
// engine guarantees intra-run uniqueness by source listing id only;
// upsert and dedup against previously stored data happen behind this
// interface.
type ListingSinkPort interface {
	Save(ctx context.Context, sourceID string, runID uuid.UUID, listings []domain.RawListing) error
}
