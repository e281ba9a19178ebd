package card

import (
	"fmt"
	"strings"
)

// setNames maps search terms to the English expansion names shown by the
// UI. Unlisted terms fall back to the uppercased term itself.
var setNames = map[string]string{
	"OP01": "Romance Dawn",
	"OP02": "Paramount War",
	"OP03": "Pillars of Strength",
	"OP04": "Kingdoms of Intrigue",
	"OP05": "Awakening of the New Era",
	"OP06": "Wings of the Captain",
	"OP07": "500 Years in the Future",
	"OP08": "Two Legends",
	"OP09": "Emperors in the New World",
	"OP10": "Royal Blood",
	"OP11": "A Fist of Divine Speed",
	"OP12": "Legacy of the Master",
	"OP13": "Carrying On His Will",
	"EB01": "Memorial Collection",
	"EB02": "Anime 25th Collection",
	"ST01": "Straw Hat Crew",
	"ST02": "Worst Generation",
	"ST03": "The Seven Warlords of the Sea",
	"ST04": "Animal Kingdom Pirates",
	"ST05": "One Piece Film Edition",
	"ST06": "Absolute Justice",
	"ST07": "Big Mom Pirates",
	"ST08": "Monkey D. Luffy",
	"ST09": "Yamato",
	"ST10": "The Three Captains",
	"P-":   "Promotional Cards",
}

// SetName returns the expansion name assigned to a search term.
func SetName(term string) string {
	normalized := strings.ToUpper(strings.TrimSpace(term))
	if name, ok := setNames[normalized]; ok {
		return name
	}
	return normalized
}

// KnownSearchTerms enumerates every search term the scrape-all command
// covers: OP01..OP20, EB01..EB10, ST01..ST30 and the promo bucket.
func KnownSearchTerms() []string {
	terms := make([]string, 0, 61)
	for i := 1; i <= 20; i++ {
		terms = append(terms, fmt.Sprintf("OP%02d", i))
	}
	for i := 1; i <= 10; i++ {
		terms = append(terms, fmt.Sprintf("EB%02d", i))
	}
	for i := 1; i <= 30; i++ {
		terms = append(terms, fmt.Sprintf("ST%02d", i))
	}
	terms = append(terms, "P-")
	return terms
}
