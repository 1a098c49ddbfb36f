package ratelimit

import (
	"testing"
	"time"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmit_CeilingWithinWindow(t *testing.T) {
	current := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return current }

	limit := domain.RateLimit{RequestsPerWindow: 3, WindowMinutes: 5}

	for i := 0; i < 3; i++ {
		assert.Zero(t, l.Admit("spitogatos", limit), "admission %d", i+1)
	}

	wait := l.Admit("spitogatos", limit)
	require.Greater(t, wait, time.Duration(0), "fourth request must be advised to wait")
	assert.Equal(t, 5*time.Minute, wait, "full window remains when no time has passed")
}

func TestAdmit_WaitShrinksAsWindowElapses(t *testing.T) {
	current := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return current }

	limit := domain.RateLimit{RequestsPerWindow: 1, WindowMinutes: 5}
	require.Zero(t, l.Admit("xe", limit))

	current = current.Add(2 * time.Minute)
	assert.Equal(t, 3*time.Minute, l.Admit("xe", limit))
}

func TestAdmit_ResetsAfterWindow(t *testing.T) {
	current := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return current }

	limit := domain.RateLimit{RequestsPerWindow: 2, WindowMinutes: 5}
	require.Zero(t, l.Admit("plot", limit))
	require.Zero(t, l.Admit("plot", limit))
	require.Positive(t, l.Admit("plot", limit))

	// simulated clock: window elapses, counter resets to 1
	current = current.Add(5 * time.Minute)
	assert.Zero(t, l.Admit("plot", limit))
	assert.Zero(t, l.Admit("plot", limit))
	assert.Positive(t, l.Admit("plot", limit))
}

func TestAdmit_SourcesDoNotContend(t *testing.T) {
	current := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return current }

	limit := domain.RateLimit{RequestsPerWindow: 1, WindowMinutes: 5}
	assert.Zero(t, l.Admit("spitogatos", limit))
	assert.Zero(t, l.Admit("xe", limit), "a full window on one source must not delay another")
}

func TestAdmit_UnconfiguredWindowFallsBack(t *testing.T) {
	current := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return current }

	limit := domain.RateLimit{RequestsPerWindow: 1, WindowMinutes: 0}
	require.Zero(t, l.Admit("tospitimou", limit))
	assert.Equal(t, fallbackDelay, l.Admit("tospitimou", limit))
}

func TestAdmit_UnconfiguredWindowStillRecovers(t *testing.T) {
	current := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	l := New()
	l.now = func() time.Time { return current }

	limit := domain.RateLimit{RequestsPerWindow: 1, WindowMinutes: 0}
	require.Zero(t, l.Admit("tospitimou", limit))
	require.Equal(t, fallbackDelay, l.Admit("tospitimou", limit))

	// once the fallback window elapses, admission resumes instead of
	// advising the same wait forever
	current = current.Add(fallbackDelay)
	assert.Zero(t, l.Admit("tospitimou", limit))
	assert.Equal(t, fallbackDelay, l.Admit("tospitimou", limit))
}

func TestAdmit_ZeroCeilingDisablesLimiting(t *testing.T) {
	l := New()
	for i := 0; i < 10; i++ {
		assert.Zero(t, l.Admit("anything", domain.RateLimit{}))
	}
}
