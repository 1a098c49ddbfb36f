package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/Oikion/mvp-sub003/internal/core/port"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubPage struct {
	listings []domain.RawListing
	hasNext  bool
	err      error
}

// stubFetcher serves a scripted sequence of pages and records which
// page numbers were requested.
type stubFetcher struct {
	name  string
	pages []stubPage
	calls []int
}

func (s *stubFetcher) Name() string { return s.name }

func (s *stubFetcher) FetchPage(_ context.Context, _ domain.SourceConfig, _ domain.SearchFilters, page int) ([]domain.RawListing, bool, error) {
	s.calls = append(s.calls, page)
	if page > len(s.pages) {
		return nil, false, nil
	}
	p := s.pages[page-1]
	return p.listings, p.hasNext, p.err
}

type stubRegistry map[string]domain.SourceConfig

func (r stubRegistry) Get(id string) (domain.SourceConfig, bool) {
	cfg, ok := r[id]
	return cfg, ok
}

func (r stubRegistry) All() []domain.SourceConfig {
	out := make([]domain.SourceConfig, 0, len(r))
	for _, cfg := range r {
		out = append(out, cfg)
	}
	return out
}

// stubLimiter returns its scripted delays in order, then zero forever.
type stubLimiter struct {
	delays []time.Duration
	admits int
}

func (l *stubLimiter) Admit(string, domain.RateLimit) time.Duration {
	l.admits++
	if len(l.delays) == 0 {
		return 0
	}
	d := l.delays[0]
	l.delays = l.delays[1:]
	return d
}

func listings(ids ...string) []domain.RawListing {
	out := make([]domain.RawListing, 0, len(ids))
	for _, id := range ids {
		out = append(out, domain.RawListing{
			SourceListingID: id,
			SourceURL:       "https://example.gr/aggelia/" + id,
		})
	}
	return out
}

func staticSource(maxPages int) domain.SourceConfig {
	return domain.SourceConfig{
		ID:         "plot",
		BaseURL:    "https://www.plot.gr",
		Pagination: domain.Pagination{MaxPages: maxPages},
	}
}

func newUseCase(registry port.SourceRegistryPort, static, browser port.PageFetcherPort, strict bool) *CollectListingsUseCase {
	uc := NewCollectListingsUseCase(registry, static, browser, &stubLimiter{}, strict)
	uc.wait = func(context.Context, time.Duration) error { return nil }
	return uc
}

func TestExecute_PaginatesAndDedupes(t *testing.T) {
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: listings("1", "2", "3", "4"), hasNext: true},
		{listings: listings("4", "5", "6", "7"), hasNext: true},
		{listings: listings("7", "8", "9", "10"), hasNext: true},
	}}
	registry := stubRegistry{"plot": staticSource(10)}

	uc := newUseCase(registry, static, nil, false)
	result, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 3)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, static.calls, "budget of 3 pages, all attempted")
	require.Len(t, result, 10, "overlapping ids across pages collapse")
	assert.Equal(t, "1", result[0].SourceListingID)
	assert.Equal(t, "10", result[9].SourceListingID)
}

func TestExecute_DuplicateIDKeepsFirstSeenRecord(t *testing.T) {
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: []domain.RawListing{
			{SourceListingID: "42", SourceURL: "https://www.plot.gr/aggelia/42", Title: "Διαμέρισμα, πρώτη σελίδα"},
		}, hasNext: true},
		{listings: []domain.RawListing{
			{SourceListingID: "42", SourceURL: "https://www.plot.gr/aggelia/42", Title: "Διαμέρισμα, δεύτερη σελίδα"},
			{SourceListingID: "43", SourceURL: "https://www.plot.gr/aggelia/43", Title: "Μονοκατοικία"},
		}, hasNext: false},
	}}
	registry := stubRegistry{"plot": staticSource(10)}

	uc := newUseCase(registry, static, nil, false)
	result, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 5)
	require.NoError(t, err)

	require.Len(t, result, 2)
	assert.Equal(t, "42", result[0].SourceListingID)
	assert.Equal(t, "Διαμέρισμα, πρώτη σελίδα", result[0].Title,
		"the later duplicate is discarded whole, not merged or overwritten")
	assert.Equal(t, "43", result[1].SourceListingID)
}

func TestExecute_CancelledContextSkipsRemainingPages(t *testing.T) {
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: listings("1"), hasNext: true},
		{listings: listings("2"), hasNext: true},
	}}
	registry := stubRegistry{"plot": staticSource(10)}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	uc := newUseCase(registry, static, nil, false)
	_, err := uc.Execute(ctx, "plot", domain.SearchFilters{}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, static.calls, "no page is fetched after cancellation")
}

func TestExecute_BudgetClampedToSourceCeiling(t *testing.T) {
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: listings("1"), hasNext: true},
		{listings: listings("2"), hasNext: true},
		{listings: listings("3"), hasNext: true},
	}}
	registry := stubRegistry{"plot": staticSource(2)}

	uc := newUseCase(registry, static, nil, false)
	result, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 50)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, static.calls)
	assert.Len(t, result, 2)
}

func TestExecute_StopsWhenNoNextPage(t *testing.T) {
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: listings("1", "2"), hasNext: false},
	}}
	registry := stubRegistry{"plot": staticSource(10)}

	uc := newUseCase(registry, static, nil, false)
	result, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 5)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, static.calls, "missing next-page signal ends the run")
	assert.Len(t, result, 2)
}

func TestExecute_EmptyFirstPageStopsWithoutError(t *testing.T) {
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: nil, hasNext: false},
	}}
	registry := stubRegistry{"plot": staticSource(10)}

	uc := newUseCase(registry, static, nil, false)
	result, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 5)
	require.NoError(t, err)
	assert.Empty(t, result)
	assert.Equal(t, []int{1}, static.calls)
}

func TestExecute_FallsBackOnceWhenPrimaryYieldsNothing(t *testing.T) {
	source := staticSource(10)
	source.ScriptRendered = true
	registry := stubRegistry{"plot": source}

	browser := &stubFetcher{name: "browser-automation", pages: []stubPage{
		{listings: nil, hasNext: false},
	}}
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: listings("1", "2"), hasNext: true},
		{listings: listings("3"), hasNext: false},
	}}

	uc := newUseCase(registry, static, browser, false)
	result, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 5)
	require.NoError(t, err)

	assert.Equal(t, []int{1}, browser.calls, "script-rendered source leads with the browser")
	assert.Equal(t, []int{1, 2}, static.calls, "fallback restarts from page 1 with the full budget")
	assert.Len(t, result, 3)
}

func TestExecute_NoFallbackWhenPrimaryProduced(t *testing.T) {
	registry := stubRegistry{"plot": staticSource(10)}
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: listings("1"), hasNext: false},
	}}
	browser := &stubFetcher{name: "browser-automation"}

	uc := newUseCase(registry, static, browser, false)
	result, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 5)
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Empty(t, browser.calls)
}

func TestExecute_FallbackSharesTheDedupSet(t *testing.T) {
	source := staticSource(10)
	source.ScriptRendered = true
	registry := stubRegistry{"plot": source}

	browser := &stubFetcher{name: "browser-automation", pages: []stubPage{
		{listings: nil, hasNext: false},
	}}
	// the fallback itself repeats ids across its pages
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: listings("2", "9"), hasNext: true},
		{listings: listings("9", "11"), hasNext: false},
	}}

	uc := newUseCase(registry, static, browser, false)
	result, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 5)
	require.NoError(t, err)

	require.Len(t, result, 3)
	assert.Equal(t, "2", result[0].SourceListingID, "first-seen record wins")
	assert.Equal(t, "9", result[1].SourceListingID)
	assert.Equal(t, "11", result[2].SourceListingID)
}

func TestExecute_TransportErrorStopsStrategy(t *testing.T) {
	fetchErr := errors.New("status 503")
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: listings("1", "2"), hasNext: true},
		{err: fetchErr},
	}}
	registry := stubRegistry{"plot": staticSource(10)}

	uc := newUseCase(registry, static, nil, false)
	result, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 5)
	require.NoError(t, err, "partial results are kept when a later page fails")
	assert.Len(t, result, 2)
	assert.Equal(t, []int{1, 2}, static.calls)
}

func TestExecute_TransportErrorWithNothingCollectedPropagates(t *testing.T) {
	fetchErr := errors.New("connection refused")
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{err: fetchErr},
	}}
	registry := stubRegistry{"plot": staticSource(10)}

	uc := newUseCase(registry, static, nil, false)
	_, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 5)
	require.Error(t, err)
	assert.ErrorIs(t, err, fetchErr)
}

func TestExecute_UnknownSource(t *testing.T) {
	registry := stubRegistry{}
	static := &stubFetcher{name: "fetch-and-parse"}

	lax := newUseCase(registry, static, nil, false)
	result, err := lax.Execute(context.Background(), "ghost", domain.SearchFilters{}, 3)
	require.NoError(t, err)
	assert.Nil(t, result)
	assert.Empty(t, static.calls)

	strict := newUseCase(registry, static, nil, true)
	_, err = strict.Execute(context.Background(), "ghost", domain.SearchFilters{}, 3)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrSourceNotFound)
}

func TestExecute_WaitsOutTheLimiter(t *testing.T) {
	registry := stubRegistry{"plot": staticSource(10)}
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: listings("1"), hasNext: false},
	}}
	limiter := &stubLimiter{delays: []time.Duration{30 * time.Second, 0}}

	uc := NewCollectListingsUseCase(registry, static, nil, limiter, false)
	var waited []time.Duration
	uc.wait = func(_ context.Context, d time.Duration) error {
		waited = append(waited, d)
		return nil
	}

	_, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 1)
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{30 * time.Second}, waited)
	assert.Equal(t, 2, limiter.admits, "re-asks after the advised delay")
}

func TestExecute_CancelledWhileRateLimited(t *testing.T) {
	registry := stubRegistry{"plot": staticSource(10)}
	static := &stubFetcher{name: "fetch-and-parse"}
	limiter := &stubLimiter{delays: []time.Duration{time.Minute}}

	uc := NewCollectListingsUseCase(registry, static, nil, limiter, false)
	uc.wait = func(ctx context.Context, _ time.Duration) error {
		return fmt.Errorf("wait: %w", context.Canceled)
	}

	_, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, static.calls)
}

func TestExecute_ScriptRenderedWithoutBrowserUsesStatic(t *testing.T) {
	source := staticSource(10)
	source.ScriptRendered = true
	registry := stubRegistry{"plot": source}
	static := &stubFetcher{name: "fetch-and-parse", pages: []stubPage{
		{listings: listings("1"), hasNext: false},
	}}

	uc := newUseCase(registry, static, nil, false)
	result, err := uc.Execute(context.Background(), "plot", domain.SearchFilters{}, 3)
	require.NoError(t, err)
	assert.Len(t, result, 1)
	assert.Equal(t, []int{1}, static.calls)
}
