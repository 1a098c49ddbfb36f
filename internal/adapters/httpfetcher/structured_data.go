package httpfetcher

import (
	"encoding/json"
	"net/url"
	"strings"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/Oikion/mvp-sub003/internal/normalize"
	"github.com/Oikion/mvp-sub003/internal/searchurl"
	"github.com/PuerkitoBio/goquery"
)

// JSON-LD shapes the portals embed. Kept loose on purpose: upstream
// gives no schema guarantee, so unknown fields are ignored and broken
// blocks are skipped.
type ldDocument struct {
	Type            string            `json:"@type"`
	ItemListElement []json.RawMessage `json:"itemListElement"`
}

type ldListItem struct {
	Item json.RawMessage `json:"item"`
	URL  string          `json:"url"`
}

type ldListing struct {
	Type          string      `json:"@type"`
	Name          string      `json:"name"`
	URL           string      `json:"url"`
	Image         interface{} `json:"image"`
	NumberOfRooms interface{} `json:"numberOfRooms"`
	Offers        *ldOffer    `json:"offers"`
	Address       *ldAddress  `json:"address"`
	Geo           *ldGeo      `json:"geo"`
	FloorSize     *ldValue    `json:"floorSize"`
}

type ldOffer struct {
	Price    json.Number `json:"price"`
	Currency string      `json:"priceCurrency"`
}

type ldAddress struct {
	StreetAddress   string `json:"streetAddress"`
	AddressLocality string `json:"addressLocality"`
	AddressRegion   string `json:"addressRegion"`
	PostalCode      string `json:"postalCode"`
}

type ldGeo struct {
	Latitude  json.Number `json:"latitude"`
	Longitude json.Number `json:"longitude"`
}

type ldValue struct {
	Value json.Number `json:"value"`
}

// extractStructured pulls machine-readable listing data embedded in the
// page. When present it is treated as authoritative: typically more
// complete and already partially typed.
func extractStructured(doc *goquery.Document, source domain.SourceConfig, filters domain.SearchFilters, pageURL *url.URL) []domain.RawListing {
	var listings []domain.RawListing

	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, script *goquery.Selection) {
		var root ldDocument
		if err := json.Unmarshal([]byte(script.Text()), &root); err != nil {
			return
		}
		if !strings.EqualFold(root.Type, "ItemList") || len(root.ItemListElement) == 0 {
			return
		}
		for _, raw := range root.ItemListElement {
			var wrapper ldListItem
			if err := json.Unmarshal(raw, &wrapper); err != nil {
				continue
			}
			itemData := wrapper.Item
			if itemData == nil {
				itemData = raw
			}
			var item ldListing
			if err := json.Unmarshal(itemData, &item); err != nil {
				continue
			}
			if item.URL == "" {
				item.URL = wrapper.URL
			}
			if l, ok := mapStructured(item, source, filters, pageURL); ok {
				listings = append(listings, l)
			}
		}
	})
	return listings
}

func mapStructured(item ldListing, source domain.SourceConfig, filters domain.SearchFilters, pageURL *url.URL) (domain.RawListing, bool) {
	detailURL := absoluteURL(pageURL, item.URL)
	id := searchurl.ListingID(source, detailURL)
	if id == "" || detailURL == "" {
		return domain.RawListing{}, false
	}

	listing := domain.RawListing{
		SourceListingID: id,
		SourceURL:       detailURL,
		Title:           strings.TrimSpace(item.Name),
		TransactionType: string(filters.Transaction),
		Images:          structuredImages(item.Image, pageURL),
		RawData: map[string]interface{}{
			"extractor": "structured-data",
			"ld_type":   item.Type,
		},
	}

	if item.Offers != nil && item.Offers.Price != "" {
		priceText := item.Offers.Price.String()
		listing.PriceText = priceText
		if v, err := item.Offers.Price.Float64(); err == nil {
			price := int(v + 0.5)
			listing.Price = &price
		}
	}

	if item.FloorSize != nil {
		if v, err := item.FloorSize.Value.Float64(); err == nil {
			size := int(v + 0.5)
			listing.SizeSqm = &size
		}
	}

	switch rooms := item.NumberOfRooms.(type) {
	case float64:
		n := int(rooms)
		listing.Bedrooms = &n
	case string:
		listing.Bedrooms = normalize.ParseRoomCount(rooms + " rooms")
	}

	if item.Address != nil {
		listing.Address = strings.TrimSpace(strings.Trim(item.Address.StreetAddress+", "+item.Address.AddressLocality, ", "))
		listing.Area = normalize.ExtractAreaFromLocation(item.Address.AddressLocality)
		listing.Municipality = item.Address.AddressRegion
		listing.PostalCode = item.Address.PostalCode
	}

	if item.Geo != nil {
		if lat, err := item.Geo.Latitude.Float64(); err == nil {
			listing.Latitude = &lat
		}
		if lon, err := item.Geo.Longitude.Float64(); err == nil {
			listing.Longitude = &lon
		}
	}

	return listing, true
}

// structuredImages tolerates both the single-string and the list form
// of the image property.
func structuredImages(image interface{}, pageURL *url.URL) []string {
	switch v := image.(type) {
	case string:
		if abs := absoluteURL(pageURL, v); abs != "" {
			return []string{abs}
		}
	case []interface{}:
		var out []string
		for _, entry := range v {
			if s, ok := entry.(string); ok {
				if abs := absoluteURL(pageURL, s); abs != "" {
					out = append(out, abs)
				}
			}
		}
		return out
	}
	return nil
}
