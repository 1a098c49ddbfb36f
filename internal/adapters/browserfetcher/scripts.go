package browserfetcher

import (
	"encoding/json"

	"github.com/Oikion/mvp-sub003/internal/core/domain"
)

// browserListing is the serialized record crossing the browser/host
// boundary. In-page scripts run in the browser's own execution context:
// only this flat, JSON-shaped data comes back, never references.
type browserListing struct {
	ID       string   `json:"id"`
	URL      string   `json:"url"`
	Title    string   `json:"title"`
	Price    string   `json:"price"`
	Size     string   `json:"size"`
	Location string   `json:"location"`
	Rooms    string   `json:"rooms"`
	Agency   string   `json:"agency"`
	Images   []string `json:"images"`
}

// Each source gets its own extraction routine: the markup differs too
// much for one generic script to be reliable. Adding a source means
// adding a script case here, nothing else changes.
func extractionScript(sourceID string) string {
	switch sourceID {
	case "spitogatos":
		return spitogatosExtractionScript
	case "xe":
		return xeExtractionScript
	default:
		return genericExtractionScript
	}
}

const spitogatosExtractionScript = `
(() => {
	const cards = Array.from(document.querySelectorAll('article[data-testid="property-ad"], div.tile--listing'));
	return cards.map(card => {
		const link = card.querySelector('a[href*="/aggelia/"]');
		const pick = sel => { const el = card.querySelector(sel); return el ? el.innerText.trim() : ''; };
		return {
			id: card.getAttribute('data-id') || '',
			url: link ? link.href : '',
			title: pick('h3.tile__title, [data-testid="property-ad-title"]'),
			price: pick('p.price__text, [data-testid="property-ad-price"]'),
			size: pick('div.tile__info, [data-testid="property-ad-sqm"]'),
			location: pick('h3.tile__location, [data-testid="property-ad-location"]'),
			rooms: pick('[data-testid="property-ad-bedrooms"]'),
			agency: pick('[data-testid="property-ad-agency"], .tile__agency'),
			images: Array.from(card.querySelectorAll('img')).map(i => i.src).filter(Boolean)
		};
	});
})()`

const xeExtractionScript = `
(() => {
	const cards = Array.from(document.querySelectorAll('div[data-testid="property-ad-card"], article.common-ad'));
	return cards.map(card => {
		const link = card.querySelector('a[href*="/property/d/"]');
		const pick = sel => { const el = card.querySelector(sel); return el ? el.innerText.trim() : ''; };
		return {
			id: card.getAttribute('data-ad-id') || '',
			url: link ? link.href : '',
			title: pick('div[data-testid="property-ad-title"], .common-property-ad-title'),
			price: pick('span[data-testid="property-ad-price"], .property-ad-price'),
			size: pick('div[data-testid="property-ad-title"]'),
			location: pick('div[data-testid="property-ad-address"], .common-property-ad-address'),
			rooms: pick('div[data-testid="property-ad-rooms"]'),
			agency: '',
			images: Array.from(card.querySelectorAll('img')).map(i => i.src).filter(Boolean)
		};
	});
})()`

// genericExtractionScript is the last-resort routine for sources
// without a bespoke one: listing-shaped anchors plus surrounding text.
const genericExtractionScript = `
(() => {
	const anchors = Array.from(document.querySelectorAll('a[href]'))
		.filter(a => /\/(\d{5,})([/?#]|$)/.test(a.getAttribute('href') || ''));
	const seen = new Set();
	const out = [];
	for (const a of anchors) {
		if (seen.has(a.href)) continue;
		seen.add(a.href);
		const card = a.closest('article, li, div') || a;
		out.push({
			id: '',
			url: a.href,
			title: a.innerText.trim(),
			price: (card.innerText.match(/€[^\n]*/) || [''])[0],
			size: card.innerText,
			location: '',
			rooms: card.innerText,
			agency: '',
			images: Array.from(card.querySelectorAll('img')).map(i => i.src).filter(Boolean)
		});
	}
	return out;
})()`

// listingProbeScript returns the first candidate pattern that matches a
// listing container, or "" when none do.
func listingProbeScript(source domain.SourceConfig) string {
	return probeScript(append(append([]string{}, source.Hints.ListingSelectors...),
		"article[data-listing-id]", "div.property-card", "li.search-result"))
}

// nextPageProbeScript evaluates to true when any next-page affordance
// is present and enabled.
func nextPageProbeScript(source domain.SourceConfig) string {
	selectors, _ := json.Marshal(append(append([]string{}, source.Hints.NextPageSelectors...),
		`a[rel="next"]`, "li.next a", "a.pagination-next"))
	return `(() => {
		const sels = ` + string(selectors) + `;
		return sels.some(s => { const el = document.querySelector(s); return !!el && !el.disabled; });
	})()`
}

// noResultsProbeScript evaluates to true when the page body carries a
// no-results marker.
func noResultsProbeScript(source domain.SourceConfig) string {
	markers, _ := json.Marshal(append(append([]string{}, source.Hints.NoResultsMarkers...),
		"δεν βρέθηκαν αποτελέσματα", "δεν υπάρχουν αγγελίες"))
	return `(() => {
		const markers = ` + string(markers) + `;
		const body = (document.body ? document.body.innerText : '').toLowerCase();
		return markers.some(m => m && body.includes(m.toLowerCase()));
	})()`
}

func probeScript(selectors []string) string {
	encoded, _ := json.Marshal(selectors)
	return `(() => {
		const sels = ` + string(encoded) + `;
		for (const s of sels) { try { if (document.querySelector(s)) return s; } catch (e) {} }
		return "";
	})()`
}
