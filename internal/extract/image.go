package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// imageSelector targets the elements the site uses for card artwork.
const imageSelector = `img[src*="card"], img[class*="card"], img[alt*="OP"], .card-image img, .product-image img`

// lazyAttrs is the attribute fallback order for lazy-loaded images.
var lazyAttrs = []string{"src", "data-src", "data-lazy-src"}

// Image returns the absolute URL of the card image, preferring eager
// src over the lazy-load attributes, with the thumbnail path segment
// rewritten to the full-size variant.
func (e *Extractor) Image(doc *goquery.Document) string {
	sel := doc.Find(imageSelector).First()
	if sel.Length() == 0 {
		return ""
	}

	for _, attr := range lazyAttrs {
		if src, exists := sel.Attr(attr); exists && strings.TrimSpace(src) != "" {
			return e.fullSize(AbsoluteURL(e.BaseURL, src))
		}
	}
	return ""
}

// ImageAlt returns the alt text of the card image element, which
// carries the rarity code on this site.
func (e *Extractor) ImageAlt(doc *goquery.Document) string {
	alt, _ := doc.Find(imageSelector).First().Attr("alt")
	return strings.TrimSpace(alt)
}

func (e *Extractor) fullSize(url string) string {
	if e.ThumbSegment == "" || e.FullSegment == "" {
		return url
	}
	return strings.Replace(url, e.ThumbSegment, e.FullSegment, 1)
}
