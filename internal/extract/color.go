package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"opcgsearch/cardscraper/internal/card"
)

const colorLabel = "色"

// maxLabelCellLen bounds candidate cells so prose paragraphs that
// happen to mention 色 are never mistaken for the spec table.
const maxLabelCellLen = 100

var (
	colorInlineRe = regexp.MustCompile(colorLabel + `[：:]\s*([^\s\n]+)`)
	colorSpacedRe = regexp.MustCompile(colorLabel + `\s+([^\s\n]+)`)
)

// Color reads the card color out of the spec table: a short table cell
// carrying the 色 label, with the value either inline after a colon or
// in the next sibling cell. Only the closed color vocabulary is
// accepted.
func (e *Extractor) Color(doc *goquery.Document) string {
	color := ""
	doc.Find("tr, td, th").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if !strings.Contains(text, colorLabel) || len([]rune(text)) >= maxLabelCellLen {
			return true
		}

		if m := colorInlineRe.FindStringSubmatch(text); m != nil && card.ValidColor(m[1]) {
			color = strings.TrimSpace(m[1])
			return false
		}
		if m := colorSpacedRe.FindStringSubmatch(text); m != nil && card.ValidColor(m[1]) {
			color = strings.TrimSpace(m[1])
			return false
		}

		next := strings.TrimSpace(s.Next().Filter("td, th").Text())
		if card.ValidColor(next) {
			color = next
			return false
		}
		return true
	})
	return color
}
