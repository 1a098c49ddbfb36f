// Package normalize turns the free-text, Greek-locale field values the
// portals publish into typed values. All functions are pure and total:
// unparseable input yields nil, never a panic or an error. Both
// extraction paths share this package so identical source text always
// normalizes identically regardless of which path produced it.
package normalize

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	currencyRe = regexp.MustCompile(`(?i)(€|ευρώ|eur\b)`)

	// Greek convention: "." groups thousands, "," separates decimals.
	numericRunRe = regexp.MustCompile(`\d{1,3}(?:\.\d{3})+(?:,\d+)?|\d+(?:,\d+)?`)

	perSqmTokenRe  = regexp.MustCompile(`(?i)/\s*(?:τ\.?\s?μ\.?|m²|m2|sq\.?\s?m)`)
	groupedCommaRe = regexp.MustCompile(`,(\d{3})`)

	sizeRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:m²|m2|τ\.?\s?μ\.?|sq\.?\s?m)`)

	bedroomAfterRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:υ/δ|υπνοδωμ|δωμάτ|κρεβατοκάμαρ|bed(?:room)?s?\b|rooms?\b|bd\b)`)
	bedroomBeforeRe = regexp.MustCompile(`(?i)(?:υπνοδωμάτια|δωμάτια|bedrooms?|rooms?)\s*[:\-]?\s*(\d+)`)

	bathroomAfterRe  = regexp.MustCompile(`(?i)(\d+)\s*(?:μπάνι|λουτρ|wc\b|bath(?:room)?s?\b)`)
	bathroomBeforeRe = regexp.MustCompile(`(?i)(?:μπάνια|λουτρά|bathrooms?|wc)\s*[:\-]?\s*(\d+)`)
)

// greekUpper applies Greek casing rules, which also drop diacritics, so
// "Γλυφάδα" and "ΓΛΥΦΑΔΑ" canonicalize identically.
var greekUpper = cases.Upper(language.Greek)

// ParsePrice extracts a total price in whole euros from free text.
// "€ 320.000" and "320.000 €" both yield 320000. A per-m² rate such as
// "€2,577/sq.m." is NOT a total price; use ParsePerSqmRate and multiply
// by size for sources that only publish a rate.
func ParsePrice(s string) *int {
	cleaned := strings.TrimSpace(currencyRe.ReplaceAllString(s, ""))
	run := numericRunRe.FindString(cleaned)
	if run == "" {
		return nil
	}
	return parseGreekNumber(run)
}

// ParsePerSqmRate extracts a per-square-meter rate, returning nil when
// the text carries no per-area token. The portals that publish rates
// format them with grouping commas ("2,577"), not the Greek decimal
// comma, so grouping is stripped before the numeric parse.
func ParsePerSqmRate(s string) *int {
	if !perSqmTokenRe.MatchString(s) {
		return nil
	}
	cleaned := strings.TrimSpace(currencyRe.ReplaceAllString(s, ""))
	cleaned = groupedCommaRe.ReplaceAllString(cleaned, "$1")
	run := numericRunRe.FindString(cleaned)
	if run == "" {
		return nil
	}
	return parseGreekNumber(run)
}

// PerSqmTotal resolves the price for sources that publish per-m² rates.
// A rate multiplied by the listed size gives the total; a rate without
// a known size yields no price at all, since a per-area rate is not a
// total and must never be parsed as one. Text carrying no per-area
// token is an ordinary total.
func PerSqmTotal(s string, sizeSqm *int) (total *int, rate *int, derived bool) {
	r := ParsePerSqmRate(s)
	if r == nil {
		return ParsePrice(s), nil, false
	}
	if sizeSqm == nil {
		return nil, r, false
	}
	t := *r * *sizeSqm
	return &t, r, true
}

// ParseSize extracts a surface in m², accepting either decimal separator
// ("87,5 m²" and "87.5m2" both yield 88, half-up).
func ParseSize(s string) *int {
	m := sizeRe.FindStringSubmatch(s)
	if m == nil {
		return nil
	}
	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return nil
	}
	return roundHalfUp(v)
}

// ParseRoomCount extracts the first integer adjacent to a room token,
// Greek ("3 υπνοδωμάτια", "2 υ/δ") or English ("Bedrooms: 3").
func ParseRoomCount(s string) *int {
	return firstAdjacentInt(s, bedroomAfterRe, bedroomBeforeRe)
}

// ParseBathroomCount is ParseRoomCount for bathroom tokens.
func ParseBathroomCount(s string) *int {
	return firstAdjacentInt(s, bathroomAfterRe, bathroomBeforeRe)
}

// ExtractAreaFromLocation returns the first comma- or dash-delimited
// segment of a location string, trimmed; the whole trimmed string when
// no delimiter is present.
func ExtractAreaFromLocation(s string) string {
	trimmed := strings.TrimSpace(s)
	if i := strings.IndexAny(trimmed, ",-–"); i >= 0 {
		return strings.TrimSpace(trimmed[:i])
	}
	return trimmed
}

// CanonicalArea produces the lookup key used by the per-portal area-code
// tables: trimmed, Greek-rules uppercase (accents removed).
func CanonicalArea(s string) string {
	return greekUpper.String(strings.TrimSpace(s))
}

func parseGreekNumber(run string) *int {
	normalized := strings.ReplaceAll(run, ".", "")
	normalized = strings.Replace(normalized, ",", ".", 1)
	v, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return nil
	}
	return roundHalfUp(v)
}

func roundHalfUp(v float64) *int {
	n := int(math.Floor(v + 0.5))
	return &n
}

func firstAdjacentInt(s string, after, before *regexp.Regexp) *int {
	for _, re := range []*regexp.Regexp{after, before} {
		if m := re.FindStringSubmatch(s); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				return &n
			}
		}
	}
	return nil
}
