package port

import (
	"time"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
)

// RateLimiterPort is the advisory per-source admission gate. A zero
// return means proceed now; a positive duration means the caller must
// wait that long and ask again. The limiter never blocks by itself.
type RateLimiterPort interface {
	Admit(sourceID string, limit domain.RateLimit) time.Duration
}
