package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"opcgsearch/cardscraper/internal/card"
)

// Badge selectors for the product code, the dedicated "pote" badge
// first, generic code/number classes second.
var numberBadgeSelectors = []string{
	`.pote, [class*="pote"]`,
	`.code, .number, [class*="code"], [class*="number"]`,
}

// productSectionSelector scopes the first text-mining pass to the
// product-details area before falling back to the whole page.
const productSectionSelector = `.product-detail, [class*="product"], [class*="detail"]`

// CardNumber resolves the card identifier. Badge text must validate
// against the known prefix family; badge text that fails validation
// falls through to regex mining. A page with no identifier anywhere
// yields "", and the merge stage turns that into the sentinel.
func (e *Extractor) CardNumber(doc *goquery.Document) string {
	for _, selector := range numberBadgeSelectors {
		text := strings.TrimSpace(doc.Find(selector).First().Text())
		if card.ValidNumber(text) {
			return text
		}
	}

	if section := doc.Find(productSectionSelector).First(); section.Length() > 0 {
		if m := card.FindNumber(section.Text()); m != "" {
			return m
		}
	}

	return card.FindNumber(doc.Find("body").Text())
}
