// Package ratelimit implements the advisory per-source fixed-window
// admission gate. State lives for the process only; it is reset at
// start and never persisted across runs.
package ratelimit

import (
	"sync"
	"time"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
)

// fallbackDelay is the window length substituted when the configured
// geometry is unusable (e.g. an unconfigured window length); it also
// bounds the advised wait in that case.
const fallbackDelay = 30 * time.Second

type window struct {
	count int
	start time.Time
}

// Limiter tracks one fixed window per source id. Safe for concurrent
// use by goroutines scraping different sources; within one source the
// page loop is sequential by design, so there is no contention there.
type Limiter struct {
	mu      sync.Mutex
	windows map[string]*window
	now     func() time.Time // injectable for tests
}

func New() *Limiter {
	return &Limiter{
		windows: make(map[string]*window),
		now:     time.Now,
	}
}

// Admit reports whether a request to sourceID may proceed now. Zero
// means proceed (the request is counted); a positive duration is the
// advised wait, after which the caller asks again. Admit only advises;
// the waiting itself is on the caller.
func (l *Limiter) Admit(sourceID string, limit domain.RateLimit) time.Duration {
	if limit.RequestsPerWindow <= 0 {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	windowLen := time.Duration(limit.WindowMinutes) * time.Minute
	if windowLen <= 0 {
		// degraded geometry runs a fallback-length window so an
		// exhausted source recovers instead of waiting forever
		windowLen = fallbackDelay
	}

	w, ok := l.windows[sourceID]
	if !ok || now.Sub(w.start) >= windowLen {
		l.windows[sourceID] = &window{count: 1, start: now}
		return 0
	}

	if w.count >= limit.RequestsPerWindow {
		return w.start.Add(windowLen).Sub(now)
	}

	w.count++
	return 0
}
