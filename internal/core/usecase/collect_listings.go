// Package usecase holds the application core: orchestration of the
// extraction strategies against a configured source, behind ports on
// both sides.
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/Oikion/mvp-sub003/internal/contextkeys"
	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/Oikion/mvp-sub003/internal/core/port"
)

// CollectListingsUseCase runs one collect pass for a source: resolve
// the source, pick the primary strategy, paginate under the rate
// limiter, dedup by source listing id and fall back to the other
// strategy when the primary yields nothing.
type CollectListingsUseCase struct {
	registry port.SourceRegistryPort
	static   port.PageFetcherPort
	browser  port.PageFetcherPort
	limiter  port.RateLimiterPort
	strict   bool

	// wait is the limiter sleep, injectable so tests run on a fake clock
	wait func(ctx context.Context, d time.Duration) error
}

// NewCollectListingsUseCase wires the engine. browser may be nil when
// browser automation is disabled; script-rendered sources then run on
// the static strategy alone. strict turns unknown source ids into
// errors instead of skips.
func NewCollectListingsUseCase(
	registry port.SourceRegistryPort,
	static port.PageFetcherPort,
	browser port.PageFetcherPort,
	limiter port.RateLimiterPort,
	strict bool,
) *CollectListingsUseCase {
	return &CollectListingsUseCase{
		registry: registry,
		static:   static,
		browser:  browser,
		limiter:  limiter,
		strict:   strict,
		wait:     sleepCtx,
	}
}

// Execute collects listings from one source. The returned slice is
// unique by source listing id; when both strategies ran, the record
// seen first wins.
func (u *CollectListingsUseCase) Execute(ctx context.Context, sourceID string, filters domain.SearchFilters, maxPages int) ([]domain.RawListing, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "CollectListingsUseCase",
		"source":    sourceID,
	})

	source, ok := u.registry.Get(sourceID)
	if !ok {
		if u.strict {
			return nil, fmt.Errorf("collect listings: %w: %s", domain.ErrSourceNotFound, sourceID)
		}
		logger.Warn("Unknown source id, skipping", nil)
		return nil, nil
	}

	filters = filters.Normalized()
	budget := pageBudget(maxPages, source)
	primary, fallback := u.strategies(source)

	logger.Info("Starting collection", port.Fields{
		"strategy":  primary.Name(),
		"max_pages": budget,
	})

	seen := make(map[string]struct{})
	var results []domain.RawListing

	primaryErr := u.runStrategy(ctx, logger, primary, source, filters, budget, seen, &results)

	if len(results) == 0 && fallback != nil {
		logger.Warn("Primary strategy yielded no listings, trying fallback", port.Fields{
			"fallback": fallback.Name(),
		})
		fallbackErr := u.runStrategy(ctx, logger, fallback, source, filters, budget, seen, &results)
		if len(results) == 0 {
			if primaryErr != nil {
				return nil, primaryErr
			}
			if fallbackErr != nil {
				return nil, fallbackErr
			}
		}
	} else if len(results) == 0 && primaryErr != nil {
		return nil, primaryErr
	}

	logger.Info("Collection finished", port.Fields{"listings": len(results)})
	return results, nil
}

// runStrategy paginates one strategy until the budget is spent, the
// source signals no next page, or a transport error stops it. Listings
// land in results through the shared seen set, so records collected by
// an earlier strategy are never overwritten.
func (u *CollectListingsUseCase) runStrategy(
	ctx context.Context,
	logger port.LoggerPort,
	fetcher port.PageFetcherPort,
	source domain.SourceConfig,
	filters domain.SearchFilters,
	budget int,
	seen map[string]struct{},
	results *[]domain.RawListing,
) error {
	strategyLogger := logger.WithFields(port.Fields{"strategy": fetcher.Name()})

	for page := 1; page <= budget; page++ {
		if err := ctx.Err(); err != nil {
			strategyLogger.Warn("Run cancelled, skipping remaining pages", port.Fields{"next_page": page})
			return err
		}

		if err := u.admit(ctx, strategyLogger, source); err != nil {
			return err
		}

		listings, hasNext, err := fetcher.FetchPage(ctx, source, filters, page)
		if err != nil {
			strategyLogger.Error("Page fetch failed, stopping pagination", err, port.Fields{"page": page})
			return err
		}

		added := 0
		for _, listing := range listings {
			if _, dup := seen[listing.SourceListingID]; dup {
				continue
			}
			seen[listing.SourceListingID] = struct{}{}
			*results = append(*results, listing)
			added++
		}
		strategyLogger.Debug("Page collected", port.Fields{
			"page":       page,
			"listings":   len(listings),
			"new":        added,
			"duplicates": len(listings) - added,
		})

		if !hasNext {
			break
		}
	}
	return nil
}

// admit blocks until the limiter clears the source or the context ends.
func (u *CollectListingsUseCase) admit(ctx context.Context, logger port.LoggerPort, source domain.SourceConfig) error {
	for {
		delay := u.limiter.Admit(source.ID, source.RateLimit)
		if delay <= 0 {
			return nil
		}
		logger.Info("Rate limit reached, waiting", port.Fields{"delay": delay.String()})
		if err := u.wait(ctx, delay); err != nil {
			return fmt.Errorf("collect listings: interrupted while rate limited: %w", err)
		}
	}
}

// strategies orders the two extraction paths for a source. The browser
// leads on script-rendered portals where static markup is an empty
// shell; everywhere else the cheaper static fetch leads.
func (u *CollectListingsUseCase) strategies(source domain.SourceConfig) (primary, fallback port.PageFetcherPort) {
	if source.ScriptRendered && u.browser != nil {
		return u.browser, u.static
	}
	return u.static, u.browser
}

// pageBudget clamps the caller's page request to the source ceiling.
func pageBudget(maxPages int, source domain.SourceConfig) int {
	budget := maxPages
	if budget <= 0 {
		budget = source.Pagination.MaxPages
	}
	if source.Pagination.MaxPages > 0 && budget > source.Pagination.MaxPages {
		budget = source.Pagination.MaxPages
	}
	if budget <= 0 {
		budget = 1
	}
	return budget
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
