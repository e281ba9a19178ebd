package extract

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// The product title lives in an h3 under the #power container on
// current detail pages. Older page revisions used the id or the class
// alone, so each is tried separately.
var nameAnchorSelectors = []string{
	"#power.power h3",
	"#power h3",
	".power h3",
}

// headingSelector is the broad fallback over title-bearing elements.
const headingSelector = `.name, .title, h1, h2, h3, h4, [class*="name"], [class*="title"]`

// Japanese-script runs, including the middle dot and exclamation marks
// that appear inside character names, with optional trailing
// parenthetical variant markers.
var (
	nameEnglishFirstRe  = regexp.MustCompile(`[A-Za-z]+(?:-[A-Za-z]+)?\s+[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}・！!]+(?:\([^)]*\))*`)
	nameDashFirstRe     = regexp.MustCompile(`-\s+[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}・！!]+(?:\([^)]*\))*`)
	nameJapaneseOnlyRe  = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}・！!]+(?:\([^)]*\))*`)
	japaneseScriptRe    = regexp.MustCompile(`[\x{3040}-\x{309F}\x{30A0}-\x{30FF}\x{4E00}-\x{9FAF}]`)
	tokenCardLabel      = "トークンカード"
	variantParenMarkers = []string{"(スーパーパラレル)", "(パラレル)"}
)

// Name resolves the display name: the site's title anchor first, then
// any heading containing Japanese script, then page metadata, then
// regex mining over the body text.
func (e *Extractor) Name(doc *goquery.Document) string {
	name := first(doc,
		nameFromAnchor,
		nameFromHeadings,
		nameFromMetadata,
		nameFromBodyText,
	)
	return CleanName(name)
}

func nameFromAnchor(doc *goquery.Document) string {
	for _, selector := range nameAnchorSelectors {
		if sel := doc.Find(selector).First(); sel.Length() > 0 {
			if name := strings.TrimSpace(sel.Text()); name != "" {
				return name
			}
		}
	}
	return ""
}

func nameFromHeadings(doc *goquery.Document) string {
	name := ""
	doc.Find(headingSelector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := strings.TrimSpace(s.Text())
		if text != "" && japaneseScriptRe.MatchString(text) {
			name = text
			return false
		}
		return true
	})
	return name
}

func nameFromMetadata(doc *goquery.Document) string {
	if og, exists := doc.Find(`meta[property="og:title"]`).Attr("content"); exists {
		if og = strings.TrimSpace(og); og != "" {
			return og
		}
	}
	return strings.TrimSpace(doc.Find("title").First().Text())
}

func nameFromBodyText(doc *goquery.Document) string {
	return NameFromText(doc.Find("body").Text())
}

// NameFromText mines a display name out of free text using three
// ordered patterns: Latin token + Japanese run, leading dash +
// Japanese run, bare Japanese run.
func NameFromText(text string) string {
	if m := nameEnglishFirstRe.FindString(text); m != "" {
		return m
	}
	if m := nameDashFirstRe.FindString(text); m != "" {
		return m
	}
	return nameJapaneseOnlyRe.FindString(text)
}

// CleanName strips the decorative token-card label and collapses
// competing parenthetical variant markers down to the most specific
// one (a super-parallel name never also says parallel).
func CleanName(name string) string {
	name = strings.ReplaceAll(name, tokenCardLabel, "")

	kept := false
	for _, marker := range variantParenMarkers {
		if !strings.Contains(name, marker) {
			continue
		}
		if kept {
			name = strings.ReplaceAll(name, marker, "")
		}
		kept = true
	}

	return strings.TrimSpace(name)
}
