package extract

import (
	"github.com/PuerkitoBio/goquery"

	"opcgsearch/cardscraper/internal/card"
)

// Rarity resolves the rarity code from the card image's alt text.
// DON!! filler cards short-circuit to their dedicated value before the
// regular vocabulary is tried.
func (e *Extractor) Rarity(doc *goquery.Document) string {
	return card.RarityFromAlt(e.ImageAlt(doc))
}
