package domain

// RawListing is the engine's output unit for one discovered property
// listing. Created once per page-extraction pass and immutable afterward;
// duplicates across pages or strategies are discarded whole, never merged.
//
// SourceListingID and SourceURL are the only required fields; everything
// else is best effort and left zero when the source text does not parse.
type RawListing struct {
	SourceListingID string `json:"source_listing_id"`
	SourceURL       string `json:"source_url"`

	Title     string `json:"title,omitempty"`
	Price     *int   `json:"price,omitempty"`
	PriceText string `json:"price_text,omitempty"`
	// PriceDerived marks a price computed from a per-m² rate multiplied by
	// the listed size (some portals publish only the rate).
	PriceDerived bool `json:"price_derived,omitempty"`

	PropertyType    string `json:"property_type,omitempty"`
	TransactionType string `json:"transaction_type,omitempty"`

	Address      string `json:"address,omitempty"`
	Area         string `json:"area,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	PostalCode   string `json:"postal_code,omitempty"`

	SizeSqm   *int   `json:"size_sqm,omitempty"`
	Bedrooms  *int   `json:"bedrooms,omitempty"`
	Bathrooms *int   `json:"bathrooms,omitempty"`
	Floor     string `json:"floor,omitempty"`

	AgencyName string   `json:"agency_name,omitempty"`
	Images     []string `json:"images,omitempty"`

	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`

	// RawData keeps source-specific leftovers for debugging and future
	// re-parsing.
	RawData map[string]interface{} `json:"raw_data,omitempty"`
}
