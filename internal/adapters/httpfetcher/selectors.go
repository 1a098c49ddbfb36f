package httpfetcher

import (
	"net/url"
	"strings"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/Oikion/mvp-sub003/internal/core/port"
	"github.com/Oikion/mvp-sub003/internal/searchurl"
	"github.com/PuerkitoBio/goquery"
)

// Generic candidate patterns, tried after the per-source hints. Ordered
// by specificity; extraction stops at the first pattern matching at
// least one element. Append new patterns, do not reorder.
var (
	genericListingSelectors = []string{
		"article[data-listing-id]",
		"div[data-listing-id]",
		"article.property-card",
		"div.property-card",
		"li.search-result",
		"div.listing-card",
		"article.listing",
	}

	genericTitleSelectors = []string{
		"h2 a", "h3 a", ".title a", "a.listing-link", "h2", "h3",
	}

	genericPriceSelectors = []string{
		".price", "[data-testid='price']", ".listing-price", "span.price", "strong.price",
	}

	genericLocationSelectors = []string{
		".location", ".area", "[data-testid='address']", ".address",
	}

	genericAgencySelectors = []string{
		".agency", ".agent-name", "[data-testid='agency']",
	}

	genericNextPageSelectors = []string{
		"a[rel='next']",
		"li.next a",
		"a.pagination__next",
		"a.pagination-next",
		"button[aria-label='Επόμενη σελίδα']",
	}

	genericNoResultsMarkers = []string{
		"δεν βρέθηκαν αποτελέσματα",
		"δεν υπάρχουν αγγελίες",
		"no results found",
	}
)

// cascade yields the hint selectors first, then the generic fallbacks.
func cascade(hints []string, generic []string) []string {
	out := make([]string, 0, len(hints)+len(generic))
	out = append(out, hints...)
	out = append(out, generic...)
	return out
}

// extractListings runs the extraction ladder on a parsed results page:
// structured data first (authoritative when present), then the selector
// cascade, then the anchor scan of listing-detail-shaped links.
func extractListings(doc *goquery.Document, source domain.SourceConfig, filters domain.SearchFilters, pageURL *url.URL, logger port.LoggerPort) []domain.RawListing {
	if listings := extractStructured(doc, source, filters, pageURL); len(listings) > 0 {
		logger.Debug("Extracted listings from structured data", port.Fields{"count": len(listings)})
		return listings
	}

	for _, sel := range cascade(source.Hints.ListingSelectors, genericListingSelectors) {
		nodes := doc.Find(sel)
		if nodes.Length() == 0 {
			continue
		}
		listings := make([]domain.RawListing, 0, nodes.Length())
		nodes.Each(func(_ int, node *goquery.Selection) {
			if l, ok := mapSelection(node, source, filters, pageURL, sel); ok {
				listings = append(listings, l)
			}
		})
		if len(listings) > 0 {
			logger.Debug("Extracted listings via selector cascade", port.Fields{
				"selector": sel,
				"count":    len(listings),
			})
			return listings
		}
	}

	listings := scanDetailAnchors(doc, source, filters, pageURL)
	if len(listings) > 0 {
		logger.Debug("Extracted listings via anchor scan", port.Fields{"count": len(listings)})
	} else {
		logger.Debug("No extraction pattern matched this page", nil)
	}
	return listings
}

// scanDetailAnchors is the last rung of the ladder: every hyperlink
// whose target matches the listing-detail URL shape becomes a record,
// with fields inferred from the text around the link.
func scanDetailAnchors(doc *goquery.Document, source domain.SourceConfig, filters domain.SearchFilters, pageURL *url.URL) []domain.RawListing {
	seen := map[string]bool{}
	var listings []domain.RawListing

	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !searchurl.MatchesDetailURL(source, href) {
			return
		}
		id := searchurl.ListingID(source, href)
		if seen[id] {
			return
		}
		seen[id] = true

		// the nearest block around the anchor usually carries the
		// price/size/location text of the card
		context := a.Parent()
		if context.Length() > 0 && len(strings.TrimSpace(context.Text())) < 20 {
			context = context.Parent()
		}

		if l, ok := mapAnchor(a, context, source, filters, pageURL); ok {
			listings = append(listings, l)
		}
	})
	return listings
}

// detectNextPage reports whether any next-page affordance is present.
func detectNextPage(doc *goquery.Document, source domain.SourceConfig) bool {
	for _, sel := range cascade(source.Hints.NextPageSelectors, genericNextPageSelectors) {
		if doc.Find(sel).Length() > 0 {
			return true
		}
	}
	return false
}

// isNoResultsPage checks the page body against the configured and
// generic no-results markers.
func isNoResultsPage(doc *goquery.Document, source domain.SourceConfig) bool {
	body := strings.ToLower(doc.Find("body").Text())
	for _, marker := range append(append([]string{}, source.Hints.NoResultsMarkers...), genericNoResultsMarkers...) {
		if marker != "" && strings.Contains(body, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
