// Package constants holds the static per-portal parameter tables the
// URL builder needs: transaction path segments, query parameter names
// and portal-internal location codes. Keys into the area tables are
// canonical area names (normalize.CanonicalArea).
package constants

import "github.com/Oikion/mvp-sub003/internal/core/domain"

// SearchPaths maps a source to its per-transaction search path. Sources
// absent here use SourceConfig.SearchPath for every transaction.
var SearchPaths = map[string]map[domain.TransactionType]string{
	"spitogatos": {
		domain.TransactionSale: "/pwliseis-katoikies",
		domain.TransactionRent: "/enoikiaseis-katoikies",
	},
	"xe": {
		domain.TransactionSale: "/property/results",
		domain.TransactionRent: "/property/results",
	},
	"plot": {
		domain.TransactionSale: "/aggelies/poliseis",
		domain.TransactionRent: "/aggelies/enoikiaseis",
	},
	"tospitimou": {
		domain.TransactionSale: "/poliseis-katoikion",
		domain.TransactionRent: "/enoikiaseis-katoikion",
	},
}

// QueryParams maps a source to the query parameter names it understands
// for each supported filter. Filters without a mapping are skipped for
// that source; collection stays best effort.
var QueryParams = map[string]map[string]string{
	"spitogatos": {
		"transaction": "listingType",
		"price_min":   "priceLow",
		"price_max":   "priceHigh",
		"size_min":    "livingAreaLow",
		"size_max":    "livingAreaHigh",
		"bedrooms":    "bedroomsFrom",
		"area":        "geoIds",
		"type":        "propertyCategory",
	},
	"xe": {
		"transaction": "transaction_name",
		"price_min":   "minimum_price",
		"price_max":   "maximum_price",
		"size_min":    "minimum_size",
		"size_max":    "maximum_size",
		"bedrooms":    "minimum_bedrooms",
		"area":        "geo_place_ids",
		"type":        "item_type",
	},
	"plot": {
		"price_min": "price_from",
		"price_max": "price_to",
		"size_min":  "sqm_from",
		"size_max":  "sqm_to",
		"bedrooms":  "bedrooms_min",
		"area":      "area",
		"type":      "category",
	},
	"tospitimou": {
		"price_min": "price-from",
		"price_max": "price-to",
		"size_min":  "size-from",
		"size_max":  "size-to",
		"bedrooms":  "bedrooms",
		"area":      "location",
	},
}

// TransactionValues maps the engine's transaction kind onto each
// portal's own vocabulary, for sources that take it as a query value
// rather than a path segment.
var TransactionValues = map[string]map[domain.TransactionType]string{
	"spitogatos": {
		domain.TransactionSale: "sale",
		domain.TransactionRent: "rent",
	},
	"xe": {
		domain.TransactionSale: "buy",
		domain.TransactionRent: "rent",
	},
}

// AreaCodes maps canonical area names to portal-internal location codes
// for the sources that reject plain-text area names. Sources absent
// here receive the caller's area text verbatim.
var AreaCodes = map[string]map[string]string{
	"spitogatos": {
		"ΑΘΗΝΑ":       "2001",
		"ΘΕΣΣΑΛΟΝΙΚΗ": "2103",
		"ΠΕΙΡΑΙΑΣ":    "2021",
		"ΓΛΥΦΑΔΑ":     "2039",
		"ΜΑΡΟΥΣΙ":     "2045",
		"ΧΑΛΑΝΔΡΙ":    "2054",
		"ΚΗΦΙΣΙΑ":     "2042",
		"ΝΕΑ ΣΜΥΡΝΗ":  "2048",
		"ΚΑΛΛΙΘΕΑ":    "2040",
		"ΗΡΑΚΛΕΙΟ":    "2401",
		"ΠΑΤΡΑ":       "2301",
	},
	"xe": {
		"ΑΘΗΝΑ":       "ChIJ8UNwBh-9oRQR3Y1mdkU1Nic",
		"ΘΕΣΣΑΛΟΝΙΚΗ": "ChIJ7eAoFPQ4qBQRqXTVuBXnugk",
		"ΓΛΥΦΑΔΑ":     "ChIJLYoCbSK-oRQRo0zMNAZR5_M",
		"ΜΑΡΟΥΣΙ":     "ChIJnXNyjYGYoRQRR8n0xVWE0Wo",
		"ΠΕΙΡΑΙΑΣ":    "ChIJUUCu5rG1oRQRnm5QVLUXGeY",
	},
}

// PropertyTypeValues maps the engine's property-type vocabulary onto
// each portal's parameter values.
var PropertyTypeValues = map[string]map[string]string{
	"spitogatos": {
		"apartment":  "residential_apartment_flat",
		"house":      "residential_detached_house",
		"maisonette": "residential_maisonette",
		"plot":       "land_plot",
	},
	"xe": {
		"apartment":  "re_residence",
		"house":      "re_residence",
		"plot":       "re_land",
		"commercial": "re_prof",
	},
	"plot": {
		"apartment": "diamerisma",
		"house":     "monokatoikia",
		"plot":      "oikopedo",
	},
}
