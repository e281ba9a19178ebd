// Package scrape wires the extraction pipeline together: list-page
// parsing, link dedup, batched detail fetches, field merging, and the
// final per-term filters.
package scrape

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"opcgsearch/cardscraper/internal/card"
	"opcgsearch/cardscraper/internal/extract"
)

// listSelectors is the container cascade tried in priority order;
// extraction stops at the first selector yielding any candidate.
var listSelectors = []string{
	`li[class*="card"]`,
	`div[class*="card"]`,
	".item-card",
	".product-item",
	"li.item",
	"div.item",
	`[class*="list-item"]`,
	"[data-product-id]",
	"article",
	"section > div",
}

// Path fragments identifying genuine item pages. Links missing both
// are navigation or carousel noise and never become records.
var admissibleLinkFragments = []string{"opc/card", "/promo"}

const (
	// cardProductAncestor scopes candidates on the vers[] page
	// template, which wraps real results in .card-product containers.
	cardProductAncestor = ".card-product"
	// carouselContainers holds the recommendation strips that repeat
	// cards from other sets and must not pollute results.
	carouselContainers = "#newestCardList, #recommendedItemList"

	listHeadingSelector = `.name, .title, h2, h3, h4, [class*="name"], [class*="title"]`
	listBadgeSelector   = `.pote, [class*="pote"], .code, .number, [class*="code"], [class*="number"]`
	listPriceSelector   = `.price, [class*="price"], [class*="cost"], [class*="yen"]`
)

// ListParser enumerates card candidates on a search-results page.
type ListParser struct {
	// BaseURL absolutizes relative image and link paths.
	BaseURL string
	// ScopeToCardProduct requires candidates to sit inside a
	// .card-product ancestor (vers[] page template only).
	ScopeToCardProduct bool
	// ExcludeCarousels drops candidates inside recommendation strips
	// (vers[] page template only).
	ExcludeCarousels bool
}

// Parse walks the selector cascade and returns the admissible
// candidates from the first selector that produces any, in document
// order. When the whole cascade misses it reconstructs candidates from
// bare images as a last resort.
func (p *ListParser) Parse(doc *goquery.Document) []card.Record {
	for _, selector := range listSelectors {
		candidates := p.collect(doc.Find(selector))
		if len(candidates) > 0 {
			return p.admissible(candidates)
		}
	}
	return p.admissible(p.collectFromImages(doc))
}

// collect extracts one candidate per element, dropping elements that
// have neither image nor name and, when configured, elements outside
// the result grid.
func (p *ListParser) collect(selections *goquery.Selection) []card.Record {
	var candidates []card.Record
	selections.Each(func(_ int, s *goquery.Selection) {
		if p.ScopeToCardProduct && s.Closest(cardProductAncestor).Length() == 0 {
			return
		}
		if p.ExcludeCarousels && s.Closest(carouselContainers).Length() > 0 {
			return
		}
		if candidate, ok := p.candidateFrom(s); ok {
			candidates = append(candidates, candidate)
		}
	})
	return candidates
}

// candidateFrom does the lightweight inline extraction available on a
// list view; detail-only fields stay empty.
func (p *ListParser) candidateFrom(s *goquery.Selection) (card.Record, bool) {
	img := s.Find("img").First()
	image := firstAttr(img, "src", "data-src", "data-lazy-src")

	name := strings.TrimSpace(s.Find(listHeadingSelector).First().Text())
	if name == "" {
		name = strings.TrimSpace(s.Find("a").First().Text())
	}

	number := strings.TrimSpace(s.Find(listBadgeSelector).First().Text())
	if number == "" {
		number = card.FindNumber(s.Text())
	}

	price := strings.TrimSpace(s.Find(listPriceSelector).First().Text())
	if price == "" {
		price = extract.FindListPrice(s.Text())
	}

	link, _ := s.Find("a").First().Attr("href")

	if image == "" && name == "" {
		return card.Record{}, false
	}
	return card.Record{
		Name:       name,
		CardNumber: number,
		Price:      price,
		Image:      extract.AbsoluteURL(p.BaseURL, image),
		Link:       extract.AbsoluteURL(p.BaseURL, link),
	}, true
}

// collectFromImages is the generic fallback: every plausible image
// becomes a candidate built from its nearest list-item ancestor.
func (p *ListParser) collectFromImages(doc *goquery.Document) []card.Record {
	var candidates []card.Record
	doc.Find("img").Each(func(_ int, img *goquery.Selection) {
		container := img.Closest("li, article, div")
		if container.Length() == 0 {
			return
		}
		if candidate, ok := p.candidateFrom(container); ok {
			candidates = append(candidates, candidate)
		}
	})
	return candidates
}

// admissible enforces the genuine-item-page invariant: a candidate
// survives only with a link carrying an allow-listed path fragment.
func (p *ListParser) admissible(candidates []card.Record) []card.Record {
	var admitted []card.Record
	for _, c := range candidates {
		if AdmissibleLink(c.Link) {
			admitted = append(admitted, c)
		}
	}
	return admitted
}

// AdmissibleLink reports whether a link points at a genuine item page.
func AdmissibleLink(link string) bool {
	link = strings.TrimSpace(link)
	if link == "" {
		return false
	}
	for _, fragment := range admissibleLinkFragments {
		if strings.Contains(link, fragment) {
			return true
		}
	}
	return false
}

func firstAttr(s *goquery.Selection, attrs ...string) string {
	for _, attr := range attrs {
		if v, exists := s.Attr(attr); exists && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
