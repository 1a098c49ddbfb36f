package browserfetcher

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/Oikion/mvp-sub003/internal/contextkeys"
	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/Oikion/mvp-sub003/internal/core/port"
	"github.com/Oikion/mvp-sub003/internal/normalize"
	"github.com/Oikion/mvp-sub003/internal/searchurl"
	"github.com/chromedp/chromedp"
)

// FetchPage renders one results page in the shared browser session and
// extracts its listings in-page. Navigation failures return an error;
// a page where no extraction routine matches returns zero listings,
// the caller decides whether to fall back.
func (a *BrowserFetcherAdapter) FetchPage(ctx context.Context, source domain.SourceConfig, filters domain.SearchFilters, page int) ([]domain.RawListing, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "BrowserFetcherAdapter",
		"source":    source.ID,
		"page":      page,
	})

	targetURL, err := searchurl.Build(source, filters, page)
	if err != nil {
		return nil, false, fmt.Errorf("browser fetcher: failed to build search URL: %w", err)
	}

	browserCtx, err := a.session()
	if err != nil {
		return nil, false, err
	}

	// pages after the first get a small randomized pause, matching the
	// pacing of the static path
	if page > 1 {
		select {
		case <-time.After(time.Duration(1+rand.Intn(3)) * time.Second):
		case <-ctx.Done():
			return nil, false, ctx.Err()
		}
	}

	pageCtx, cancel := context.WithTimeout(browserCtx, navigationTimeout)
	defer cancel()

	logger.Debug("Navigating to listings page", port.Fields{"url": targetURL})
	err = chromedp.Run(pageCtx,
		chromedp.Navigate(targetURL),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.Sleep(settleDelay),
	)
	if err != nil {
		return nil, false, fmt.Errorf("browser fetcher: failed to load %s: %w", targetURL, err)
	}

	dismissConsent(pageCtx, logger)
	if err := chromedp.Run(pageCtx, chromedp.Sleep(postConsentDelay)); err != nil {
		return nil, false, fmt.Errorf("browser fetcher: session lost on %s: %w", targetURL, err)
	}

	var noResults bool
	if err := chromedp.Run(pageCtx, chromedp.Evaluate(noResultsProbeScript(source), &noResults)); err == nil && noResults {
		logger.Info("No-results marker detected, stopping pagination", nil)
		return nil, false, nil
	}

	var matchedContainer string
	if err := chromedp.Run(pageCtx, chromedp.Evaluate(listingProbeScript(source), &matchedContainer)); err == nil && matchedContainer != "" {
		logger.Debug("Listing container matched", port.Fields{"selector": matchedContainer})
	}

	var extracted []browserListing
	if err := chromedp.Run(pageCtx, chromedp.Evaluate(extractionScript(source.ID), &extracted)); err != nil {
		// an extraction failure is a zero-yield page, not a transport
		// error; the orchestrator treats it as a fallback signal
		logger.Warn("In-page extraction failed", port.Fields{"error": err.Error()})
		return nil, false, nil
	}

	listings := make([]domain.RawListing, 0, len(extracted))
	for _, raw := range extracted {
		if listing, ok := mapBrowserListing(raw, source, filters); ok {
			listings = append(listings, listing)
		}
	}

	var hasNext bool
	if err := chromedp.Run(pageCtx, chromedp.Evaluate(nextPageProbeScript(source), &hasNext)); err != nil {
		hasNext = false
	}

	logger.Debug("Page extraction finished", port.Fields{
		"listings": len(listings),
		"has_next": hasNext,
	})
	return listings, hasNext, nil
}

// mapBrowserListing converts one serialized in-page record into a
// RawListing through the same normalization the static path uses, so a
// listing parses identically whichever strategy produced it.
func mapBrowserListing(raw browserListing, source domain.SourceConfig, filters domain.SearchFilters) (domain.RawListing, bool) {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = searchurl.ListingID(source, raw.URL)
	}
	if id == "" || raw.URL == "" {
		return domain.RawListing{}, false
	}

	filters = filters.Normalized()

	listing := domain.RawListing{
		SourceListingID: id,
		SourceURL:       raw.URL,
		Title:           strings.TrimSpace(raw.Title),
		PriceText:       strings.TrimSpace(raw.Price),
		TransactionType: string(filters.Transaction),
		Address:         strings.TrimSpace(raw.Location),
		Area:            normalize.ExtractAreaFromLocation(raw.Location),
		SizeSqm:         normalize.ParseSize(raw.Size),
		Bedrooms:        normalize.ParseRoomCount(raw.Rooms),
		Bathrooms:       normalize.ParseBathroomCount(raw.Rooms),
		AgencyName:      strings.TrimSpace(raw.Agency),
		Images:          raw.Images,
		RawData: map[string]interface{}{
			"extractor": "in-page-script",
		},
	}

	if source.PricePerSqm {
		total, rate, derived := normalize.PerSqmTotal(raw.Price, listing.SizeSqm)
		listing.Price = total
		listing.PriceDerived = derived
		if rate != nil {
			listing.RawData["price_per_sqm"] = *rate
		}
		return listing, true
	}
	listing.Price = normalize.ParsePrice(raw.Price)
	return listing, true
}
