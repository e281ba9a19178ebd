// Package extract turns one detail-page HTML document into field
// values. Every field is resolved through an ordered chain of
// strategies: a site-specific selector first, broader selectors next,
// regex mining over the page text last. The first non-empty valid
// result wins; a miss is an empty string, never an error.
package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"opcgsearch/cardscraper/internal/card"
)

// Strategy resolves one field from a document, returning "" on a miss.
type Strategy func(doc *goquery.Document) string

// Extractor holds the per-site tuning the strategies need.
type Extractor struct {
	// BaseURL is the site origin used to absolutize relative paths.
	BaseURL string
	// PriceFloor is the minimum plausible price in yen. Matches below
	// it are skipped as noise (counts, quantities, point balances).
	PriceFloor int
	// ThumbSegment/FullSegment rewrite thumbnail image paths to the
	// full-size variant when both are set.
	ThumbSegment string
	FullSegment  string
}

// Extract runs every field chain over the document. Link, set and
// scrape timestamp are owned by the caller and stay empty here.
func (e *Extractor) Extract(doc *goquery.Document) card.Record {
	return card.Record{
		Image:      e.Image(doc),
		Price:      e.Price(doc),
		Name:       e.Name(doc),
		CardNumber: e.CardNumber(doc),
		Color:      e.Color(doc),
		Rarity:     e.Rarity(doc),
	}
}

// first runs strategies in order and returns the first non-empty result.
func first(doc *goquery.Document, strategies ...Strategy) string {
	for _, strategy := range strategies {
		if v := strategy(doc); v != "" {
			return v
		}
	}
	return ""
}

// AbsoluteURL rewrites a relative site path against the origin.
func AbsoluteURL(baseURL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "http") {
		return href
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(href, "/")
}
