package httpfetcher

import (
	"bytes"
	"context"
	"fmt"

	"github.com/Oikion/mvp-sub003/internal/contextkeys"
	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/Oikion/mvp-sub003/internal/core/port"
	"github.com/Oikion/mvp-sub003/internal/searchurl"
	"github.com/PuerkitoBio/goquery"
	"github.com/gocolly/colly/v2"
)

// FetchPage retrieves one results page and extracts its listings.
// Transport failures return an error; extraction mismatches and
// no-results pages return zero listings with hasNext=false.
func (a *HTTPFetcherAdapter) FetchPage(ctx context.Context, source domain.SourceConfig, filters domain.SearchFilters, page int) ([]domain.RawListing, bool, error) {
	logger := contextkeys.LoggerFromContext(ctx).WithFields(port.Fields{
		"component": "HTTPFetcherAdapter",
		"source":    source.ID,
		"page":      page,
	})

	targetURL, err := searchurl.Build(source, filters, page)
	if err != nil {
		return nil, false, fmt.Errorf("http fetcher: failed to build search URL: %w", err)
	}

	// One-shot clone for this request: inherits limits and identity,
	// carries its own handlers.
	collector := a.collector.Clone()

	var listings []domain.RawListing
	var hasNext bool
	var responseErr error

	collector.OnRequest(func(r *colly.Request) {
		logger.Debug("Requesting listings page", port.Fields{"url": r.URL.String()})
	})

	collector.OnResponse(func(r *colly.Response) {
		doc, parseErr := goquery.NewDocumentFromReader(bytes.NewReader(r.Body))
		if parseErr != nil {
			responseErr = fmt.Errorf("http fetcher: failed to parse page %s: %w", r.Request.URL, parseErr)
			return
		}
		if isNoResultsPage(doc, source) {
			logger.Info("No-results marker detected, stopping pagination", nil)
			return
		}
		listings = extractListings(doc, source, filters, r.Request.URL, logger)
		hasNext = detectNextPage(doc, source)
	})

	collector.OnError(func(r *colly.Response, err error) {
		logger.Error("Failed to fetch listings page", err, port.Fields{
			"url":    r.Request.URL.String(),
			"status": r.StatusCode,
		})
		responseErr = fmt.Errorf("http fetcher: request to %s failed with status %d: %w", r.Request.URL, r.StatusCode, err)
	})

	if visitErr := collector.Visit(targetURL); visitErr != nil {
		return nil, false, fmt.Errorf("http fetcher: failed to visit %s: %w", targetURL, visitErr)
	}
	collector.Wait()

	if responseErr != nil {
		return nil, false, responseErr
	}

	logger.Debug("Page extraction finished", port.Fields{
		"listings": len(listings),
		"has_next": hasNext,
	})
	return listings, hasNext, nil
}
