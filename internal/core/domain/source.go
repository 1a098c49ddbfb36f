package domain

// PaginationStyle selects how a page number is encoded into a search URL.
type PaginationStyle string

const (
	PaginationQuery PaginationStyle = "query"
	PaginationPath  PaginationStyle = "path"
)

// RateLimit is the per-source request ceiling within a fixed window.
type RateLimit struct {
	RequestsPerWindow int `yaml:"requests_per_window" json:"requests_per_window"`
	WindowMinutes     int `yaml:"window_minutes" json:"window_minutes"`
}

type Pagination struct {
	Style         PaginationStyle `yaml:"style" json:"style"`
	ParameterName string          `yaml:"parameter_name" json:"parameter_name"`
	MaxPages      int             `yaml:"max_pages" json:"max_pages"`
}

// ExtractionHints are best-effort starting points for markup extraction.
// Every consumer must degrade gracefully when a hint no longer matches:
// portals change markup without notice.
type ExtractionHints struct {
	ListingSelectors  []string `yaml:"listing_selectors" json:"listing_selectors"`
	TitleSelector     string   `yaml:"title_selector" json:"title_selector"`
	PriceSelector     string   `yaml:"price_selector" json:"price_selector"`
	SizeSelector      string   `yaml:"size_selector" json:"size_selector"`
	LocationSelector  string   `yaml:"location_selector" json:"location_selector"`
	NextPageSelectors []string `yaml:"next_page_selectors" json:"next_page_selectors"`
	NoResultsMarkers  []string `yaml:"no_results_markers" json:"no_results_markers"`
	DetailURLPattern  string   `yaml:"detail_url_pattern" json:"detail_url_pattern"`
}

// SourceConfig is the static description of one external listings portal.
// Loaded once at process start; never mutated during a run. The ID is the
// only stable key other components use to reference a source.
type SourceConfig struct {
	ID             string          `yaml:"id" json:"id"`
	Name           string          `yaml:"name" json:"name"`
	BaseURL        string          `yaml:"base_url" json:"base_url"`
	SearchPath     string          `yaml:"search_path" json:"search_path"`
	ScriptRendered bool            `yaml:"script_rendered" json:"script_rendered"`
	PricePerSqm    bool            `yaml:"price_per_sqm" json:"price_per_sqm"`
	RateLimit      RateLimit       `yaml:"rate_limit" json:"rate_limit"`
	Pagination     Pagination      `yaml:"pagination" json:"pagination"`
	Hints          ExtractionHints `yaml:"hints" json:"hints"`
}
