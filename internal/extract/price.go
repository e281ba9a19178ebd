package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// priceClassSelector matches elements whose class hints at a price.
const priceClassSelector = `.price, [class*="price"], [class*="cost"], [class*="yen"]`

var (
	// yenRe matches a yen-suffixed amount, tolerating whitespace
	// between the digits and the currency marker.
	yenRe = regexp.MustCompile(`[\d,]+\s*円`)
	// yenPrefixRe matches the ¥-prefixed form used on list pages.
	yenPrefixRe = regexp.MustCompile(`¥[\d,]+`)

	nonPriceCharsRe = regexp.MustCompile(`[^\d,]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
)

// Price resolves the card's sell price. Strategy order: price-class
// elements whose text carries the yen marker, then every element
// carrying the marker, then the raw page text. Each stage only accepts
// amounts at or above the configured floor.
func (e *Extractor) Price(doc *goquery.Document) string {
	return first(doc,
		e.priceFromPriceElements,
		e.priceFromAnyElement,
		e.priceFromBodyText,
	)
}

func (e *Extractor) priceFromPriceElements(doc *goquery.Document) string {
	price := ""
	doc.Find(priceClassSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "円") {
			return true
		}
		if m := e.acceptablePrice(text); m != "" {
			price = m
			return false
		}
		return true
	})
	return price
}

func (e *Extractor) priceFromAnyElement(doc *goquery.Document) string {
	price := ""
	doc.Find("*").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "円") {
			return true
		}
		if m := e.acceptablePrice(text); m != "" {
			price = m
			return false
		}
		return true
	})
	return price
}

func (e *Extractor) priceFromBodyText(doc *goquery.Document) string {
	for _, m := range yenRe.FindAllString(doc.Find("body").Text(), -1) {
		if PriceValue(m) >= e.PriceFloor {
			return stripWhitespace(m)
		}
	}
	return ""
}

// acceptablePrice extracts the first yen amount from text and returns
// it whitespace-stripped when it clears the floor.
func (e *Extractor) acceptablePrice(text string) string {
	m := yenRe.FindString(text)
	if m == "" {
		return ""
	}
	if PriceValue(m) < e.PriceFloor {
		return ""
	}
	return stripWhitespace(m)
}

// PriceValue parses the numeric part of a price string. Returns -1
// when no digits remain after stripping.
func PriceValue(price string) int {
	numStr := strings.ReplaceAll(nonPriceCharsRe.ReplaceAllString(price, ""), ",", "")
	if numStr == "" {
		return -1
	}
	n, err := strconv.Atoi(numStr)
	if err != nil {
		return -1
	}
	return n
}

// FindListPrice does the lightweight inline price extraction used on
// list pages: yen-suffixed first, ¥-prefixed second, no floor check.
func FindListPrice(text string) string {
	if m := yenRe.FindString(text); m != "" {
		return stripWhitespace(m)
	}
	return yenPrefixRe.FindString(text)
}

func stripWhitespace(s string) string {
	return whitespaceRe.ReplaceAllString(s, "")
}
