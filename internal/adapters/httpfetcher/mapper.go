package httpfetcher

import (
	"net/url"
	"strings"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/Oikion/mvp-sub003/internal/normalize"
	"github.com/Oikion/mvp-sub003/internal/searchurl"
	"github.com/PuerkitoBio/goquery"
)

// mapSelection turns one listing card into a RawListing. ok is false
// when the card yields no usable id or URL, the two required fields;
// every other field is best effort.
func mapSelection(node *goquery.Selection, source domain.SourceConfig, filters domain.SearchFilters, pageURL *url.URL, matchedSelector string) (domain.RawListing, bool) {
	href := firstAttr(node, "a[href]", "href")
	detailURL := absoluteURL(pageURL, href)

	id, _ := node.Attr("data-listing-id")
	if id == "" {
		id, _ = node.Attr("data-id")
	}
	if id == "" {
		id = searchurl.ListingID(source, detailURL)
	}
	if id == "" || detailURL == "" {
		return domain.RawListing{}, false
	}

	cardText := node.Text()
	priceText := firstText(node, cascade([]string{source.Hints.PriceSelector}, genericPriceSelectors))
	if priceText == "" {
		priceText = euroSnippet(cardText)
	}
	sizeText := firstText(node, []string{source.Hints.SizeSelector})
	if sizeText == "" {
		sizeText = cardText
	}
	locationText := firstText(node, cascade([]string{source.Hints.LocationSelector}, genericLocationSelectors))

	listing := domain.RawListing{
		SourceListingID: id,
		SourceURL:       detailURL,
		Title:           firstText(node, cascade([]string{source.Hints.TitleSelector}, genericTitleSelectors)),
		PriceText:       strings.TrimSpace(priceText),
		TransactionType: string(filters.Transaction),
		Address:         strings.TrimSpace(locationText),
		Area:            normalize.ExtractAreaFromLocation(locationText),
		SizeSqm:         normalize.ParseSize(sizeText),
		Bedrooms:        normalize.ParseRoomCount(cardText),
		Bathrooms:       normalize.ParseBathroomCount(cardText),
		AgencyName:      firstText(node, genericAgencySelectors),
		Images:          collectImages(node, pageURL),
		RawData: map[string]interface{}{
			"extractor": "selector-cascade",
			"selector":  matchedSelector,
		},
	}
	applyPrice(&listing, source, priceText)
	return listing, true
}

// mapAnchor builds a record from a bare detail link and its surrounding
// text, for the anchor-scan fallback.
func mapAnchor(a *goquery.Selection, context *goquery.Selection, source domain.SourceConfig, filters domain.SearchFilters, pageURL *url.URL) (domain.RawListing, bool) {
	href, _ := a.Attr("href")
	detailURL := absoluteURL(pageURL, href)
	id := searchurl.ListingID(source, detailURL)
	if id == "" || detailURL == "" {
		return domain.RawListing{}, false
	}

	surrounding := context.Text()
	title := strings.TrimSpace(a.Text())
	if title == "" {
		title, _ = a.Attr("title")
	}

	listing := domain.RawListing{
		SourceListingID: id,
		SourceURL:       detailURL,
		Title:           title,
		PriceText:       strings.TrimSpace(euroSnippet(surrounding)),
		TransactionType: string(filters.Transaction),
		Area:            normalize.ExtractAreaFromLocation(firstText(context, genericLocationSelectors)),
		SizeSqm:         normalize.ParseSize(surrounding),
		Bedrooms:        normalize.ParseRoomCount(surrounding),
		Images:          collectImages(context, pageURL),
		RawData: map[string]interface{}{
			"extractor": "anchor-scan",
		},
	}
	applyPrice(&listing, source, listing.PriceText)
	return listing, true
}

// applyPrice sets Price from price text, handling the portals that only
// publish a per-m² rate: there the total is derived as rate × size and
// flagged so downstream consumers know its provenance. A rate without a
// known size leaves Price absent.
func applyPrice(listing *domain.RawListing, source domain.SourceConfig, priceText string) {
	if !source.PricePerSqm {
		listing.Price = normalize.ParsePrice(priceText)
		return
	}
	total, rate, derived := normalize.PerSqmTotal(priceText, listing.SizeSqm)
	listing.Price = total
	listing.PriceDerived = derived
	if rate != nil {
		listing.RawData["price_per_sqm"] = *rate
	}
}

// firstText returns the first non-empty trimmed text among candidate
// selectors; empty selectors in the cascade are skipped.
func firstText(node *goquery.Selection, selectors []string) string {
	for _, sel := range selectors {
		if sel == "" {
			continue
		}
		if text := strings.TrimSpace(node.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return ""
}

func firstAttr(node *goquery.Selection, selector, attr string) string {
	v, _ := node.Find(selector).First().Attr(attr)
	return v
}

func collectImages(node *goquery.Selection, pageURL *url.URL) []string {
	var images []string
	node.Find("img").Each(func(_ int, img *goquery.Selection) {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			// lazy-loaded cards keep the real URL in data-src
			src, _ = img.Attr("data-src")
		}
		if abs := absoluteURL(pageURL, src); abs != "" {
			images = append(images, abs)
		}
	})
	return images
}

func absoluteURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "javascript:") || strings.HasPrefix(href, "data:") {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base == nil {
		return ref.String()
	}
	return base.ResolveReference(ref).String()
}

// euroSnippet returns the text from the first € sign onward, so the
// numeric run the price parser sees is the price and not whatever
// number happens to precede it (sizes, floor ordinals).
func euroSnippet(text string) string {
	if i := strings.Index(text, "€"); i >= 0 {
		return text[i:]
	}
	return ""
}
