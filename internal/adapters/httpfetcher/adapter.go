// Package httpfetcher is the fetch-and-parse extraction strategy:
// direct HTTP retrieval plus HTML / structured-data extraction for
// sources that render listings server-side.
package httpfetcher

import (
	"fmt"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/gocolly/colly/v2/extensions"
)

const requestTimeout = 30 * time.Second

// HTTPFetcherAdapter owns a parent collector whose politeness rules and
// client identity are inherited by the per-request clones.
type HTTPFetcherAdapter struct {
	collector *colly.Collector
}

func NewHTTPFetcherAdapter() (*HTTPFetcherAdapter, error) {
	c := colly.NewCollector(colly.AllowURLRevisit())
	c.SetRequestTimeout(requestTimeout)

	// Serialized requests with human-pacing jitter. This is a fixed
	// policy independent of the per-source rate-limit window.
	err := c.Limit(&colly.LimitRule{
		DomainGlob:  "*",
		Parallelism: 1,
		RandomDelay: 3 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("HTTPFetcherAdapter: failed to set limit rule: %w", err)
	}

	// Rotated realistic User-Agent and an organic-looking Referer on
	// every request.
	extensions.RandomUserAgent(c)
	extensions.Referer(c)

	return &HTTPFetcherAdapter{collector: c}, nil
}

func (a *HTTPFetcherAdapter) Name() string { return "fetch-and-parse" }
