package card

import "regexp"

// RarityDon marks the DON!! filler cards that ship in every product and
// have no collectible rarity of their own.
const RarityDon = "DON"

// donAltRe matches the alt-text marker the site uses for DON!! cards.
var donAltRe = regexp.MustCompile(`ドン[!！]{2}`)

// Rarity codes in display order, parallel variants first. Matching is
// two-stage with word boundaries so the bare "R" never fires inside
// "PRB" or "SR", and "P-SR" is preferred over its "SR" suffix.
var (
	rarityPrefixedRe = regexp.MustCompile(`\bP-(?:SEC|SP|SR|UC|L|R|C)\b`)
	rarityBareRe     = regexp.MustCompile(`\b(?:SEC|SP|SR|UC|L|R|C)\b`)
)

// RarityFromAlt extracts the rarity code from a card image's alt text.
// Returns "" when the text carries no recognizable code.
func RarityFromAlt(alt string) string {
	if alt == "" {
		return ""
	}
	if donAltRe.MatchString(alt) {
		return RarityDon
	}
	if m := rarityPrefixedRe.FindString(alt); m != "" {
		return m
	}
	return rarityBareRe.FindString(alt)
}
