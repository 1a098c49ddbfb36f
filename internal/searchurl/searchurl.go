// Package searchurl builds portal search URLs from a filter set and a
// page number, and recovers listing ids from detail URLs. Both
// extraction strategies use it so a source is always queried the same
// way regardless of the path that fetches it.
package searchurl

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/Oikion/mvp-sub003/internal/constants"
	"github.com/Oikion/mvp-sub003/internal/core/domain"
	"github.com/Oikion/mvp-sub003/internal/normalize"
)

// Build constructs the search URL for one results page of a source.
func Build(source domain.SourceConfig, filters domain.SearchFilters, page int) (string, error) {
	u, err := url.Parse(source.BaseURL)
	if err != nil {
		return "", fmt.Errorf("searchurl: invalid base url for %s: %w", source.ID, err)
	}

	filters = filters.Normalized()

	searchPath := source.SearchPath
	if paths, ok := constants.SearchPaths[source.ID]; ok {
		if p, ok := paths[filters.Transaction]; ok {
			searchPath = p
		}
	}
	u.Path = strings.TrimRight(u.Path, "/") + searchPath

	q := u.Query()
	params := constants.QueryParams[source.ID]

	setIntParam(q, params, "price_min", filters.MinPrice)
	setIntParam(q, params, "price_max", filters.MaxPrice)
	setIntParam(q, params, "size_min", filters.MinSizeSqm)
	setIntParam(q, params, "size_max", filters.MaxSizeSqm)
	setIntParam(q, params, "bedrooms", filters.MinBedrooms)

	if name, ok := params["transaction"]; ok {
		if v, ok := constants.TransactionValues[source.ID][filters.Transaction]; ok {
			q.Set(name, v)
		}
	}

	if name, ok := params["area"]; ok && len(filters.Areas) > 0 {
		q.Set(name, strings.Join(areaValues(source.ID, filters.Areas), ","))
	}

	if name, ok := params["type"]; ok && len(filters.PropertyTypes) > 0 {
		values := make([]string, 0, len(filters.PropertyTypes))
		for _, pt := range filters.PropertyTypes {
			if v, ok := constants.PropertyTypeValues[source.ID][pt]; ok {
				values = append(values, v)
			}
		}
		if len(values) > 0 {
			q.Set(name, strings.Join(values, ","))
		}
	}

	if page > 1 {
		switch source.Pagination.Style {
		case domain.PaginationPath:
			u.Path = strings.TrimRight(u.Path, "/") + "/" + source.Pagination.ParameterName + "/" + strconv.Itoa(page)
		default:
			q.Set(source.Pagination.ParameterName, strconv.Itoa(page))
		}
	}

	u.RawQuery = q.Encode()
	return u.String(), nil
}

// areaValues maps caller-supplied area names onto portal location codes
// where the portal requires them, passing the raw name through when no
// code is known. Best effort: a miss narrows coverage, never fails.
func areaValues(sourceID string, areas []string) []string {
	codes := constants.AreaCodes[sourceID]
	out := make([]string, 0, len(areas))
	for _, area := range areas {
		if code, ok := codes[normalize.CanonicalArea(area)]; ok {
			out = append(out, code)
			continue
		}
		out = append(out, area)
	}
	return out
}

func setIntParam(q url.Values, params map[string]string, key string, value *int) {
	if value == nil {
		return
	}
	if name, ok := params[key]; ok {
		q.Set(name, strconv.Itoa(*value))
	}
}

// defaultDetailIDRe recognizes the common "…/123456…" detail URL shape
// when a source has no configured pattern.
var defaultDetailIDRe = regexp.MustCompile(`/(\d{5,})(?:[/?#]|$)`)

// ListingID extracts the source listing id from a detail URL, using the
// source's configured pattern first. Empty when nothing matches.
func ListingID(source domain.SourceConfig, detailURL string) string {
	if source.Hints.DetailURLPattern != "" {
		if re, err := regexp.Compile(source.Hints.DetailURLPattern); err == nil {
			if m := re.FindStringSubmatch(detailURL); len(m) > 1 {
				return m[1]
			}
		}
	}
	if m := defaultDetailIDRe.FindStringSubmatch(detailURL); len(m) > 1 {
		return m[1]
	}
	return ""
}

// MatchesDetailURL reports whether href looks like a listing detail
// link for the source, for the anchor-scan extraction fallback.
func MatchesDetailURL(source domain.SourceConfig, href string) bool {
	return ListingID(source, href) != ""
}
