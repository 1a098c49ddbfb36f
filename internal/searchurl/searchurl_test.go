package searchurl

import (
	"net/url"
	"testing"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func querySource() domain.SourceConfig {
	return domain.SourceConfig{
		ID:         "spitogatos",
		BaseURL:    "https://www.spitogatos.gr",
		SearchPath: "/pwliseis-katoikies",
		Pagination: domain.Pagination{Style: domain.PaginationQuery, ParameterName: "page", MaxPages: 10},
	}
}

func TestBuild_QueryPagination(t *testing.T) {
	raw, err := Build(querySource(), domain.SearchFilters{}, 3)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/pwliseis-katoikies", u.Path)
	assert.Equal(t, "3", u.Query().Get("page"))
}

func TestBuild_FirstPageHasNoPageParameter(t *testing.T) {
	raw, err := Build(querySource(), domain.SearchFilters{}, 1)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Empty(t, u.Query().Get("page"))
}

func TestBuild_PathPagination(t *testing.T) {
	src := domain.SourceConfig{
		ID:         "tospitimou",
		BaseURL:    "https://www.tospitimou.gr",
		SearchPath: "/poliseis-katoikion",
		Pagination: domain.Pagination{Style: domain.PaginationPath, ParameterName: "selida", MaxPages: 12},
	}

	raw, err := Build(src, domain.SearchFilters{}, 2)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/poliseis-katoikion/selida/2", u.Path)
}

func TestBuild_TransactionSwitchesSearchPath(t *testing.T) {
	raw, err := Build(querySource(), domain.SearchFilters{Transaction: domain.TransactionRent}, 1)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "/enoikiaseis-katoikies", u.Path)
}

func TestBuild_FilterParameters(t *testing.T) {
	filters := domain.SearchFilters{
		MinPrice:    intPtr(100000),
		MaxPrice:    intPtr(350000),
		MinSizeSqm:  intPtr(70),
		MinBedrooms: intPtr(2),
	}
	raw, err := Build(querySource(), filters, 1)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	q := u.Query()
	assert.Equal(t, "100000", q.Get("priceLow"))
	assert.Equal(t, "350000", q.Get("priceHigh"))
	assert.Equal(t, "70", q.Get("livingAreaLow"))
	assert.Equal(t, "2", q.Get("bedroomsFrom"))
}

func TestBuild_AreaNameMapsToLocationCode(t *testing.T) {
	raw, err := Build(querySource(), domain.SearchFilters{Areas: []string{"Γλυφάδα"}}, 1)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "2039", u.Query().Get("geoIds"), "portal wants its internal geo id, not the name")
}

func TestBuild_UnknownAreaPassesThrough(t *testing.T) {
	raw, err := Build(querySource(), domain.SearchFilters{Areas: []string{"Άγνωστη Περιοχή"}}, 1)
	require.NoError(t, err)

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "Άγνωστη Περιοχή", u.Query().Get("geoIds"))
}

func TestListingID(t *testing.T) {
	src := querySource()
	src.Hints.DetailURLPattern = `/aggelia/(\d+)`

	assert.Equal(t, "5417823", ListingID(src, "https://www.spitogatos.gr/aggelia/5417823"))
	assert.Equal(t, "5417823", ListingID(src, "/aggelia/5417823?ref=list"))
	assert.Empty(t, ListingID(src, "/about-us"))
}

func TestListingID_DefaultShape(t *testing.T) {
	src := domain.SourceConfig{ID: "whatever"}
	assert.Equal(t, "987654", ListingID(src, "https://example.gr/property/987654/nice-flat"))
	assert.Empty(t, ListingID(src, "https://example.gr/page/3"))
}

func TestMatchesDetailURL(t *testing.T) {
	src := querySource()
	src.Hints.DetailURLPattern = `/aggelia/(\d+)`
	assert.True(t, MatchesDetailURL(src, "/aggelia/123456"))
	assert.False(t, MatchesDetailURL(src, "/faq"))
}
