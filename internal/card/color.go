package card

import "strings"

// colorNames maps the site's Japanese color tokens to English labels.
// The site sometimes writes the bare color and sometimes appends 色.
var colorNames = map[string]string{
	"赤": "Red",
	"青": "Blue",
	"緑": "Green",
	"黄": "Yellow",
	"紫": "Purple",
	"黒": "Black",
}

// ValidColor reports whether s is one of the closed set of color tokens.
func ValidColor(s string) bool {
	_, ok := colorNames[strings.TrimSuffix(strings.TrimSpace(s), "色")]
	return ok
}

// TranslateColor returns the English label for a scraped color token,
// or the input unchanged when it is not a known token.
func TranslateColor(s string) string {
	if name, ok := colorNames[strings.TrimSuffix(strings.TrimSpace(s), "色")]; ok {
		return name
	}
	return s
}
