package scrape

import (
	"strings"

	"opcgsearch/cardscraper/internal/card"
)

// NormalizeLink canonicalizes a link for identity comparison: trimmed,
// no trailing slash, lowercase. The empty link normalizes to "".
func NormalizeLink(link string) string {
	link = strings.TrimSpace(link)
	link = strings.TrimSuffix(link, "/")
	return strings.ToLower(link)
}

// Dedup keeps the first candidate per normalized link, preserving
// document order. Candidates without a link are kept as-is since they
// carry no identity to collide on.
func Dedup(candidates []card.Record) []card.Record {
	seen := make(map[string]bool, len(candidates))
	deduped := make([]card.Record, 0, len(candidates))
	for _, c := range candidates {
		key := NormalizeLink(c.Link)
		if key != "" {
			if seen[key] {
				continue
			}
			seen[key] = true
		}
		deduped = append(deduped, c)
	}
	return deduped
}

// MergeDetail folds a detail-page extraction over a list-page
// candidate. Detail values win whenever non-empty; the link always
// comes from the candidate since the detail page was fetched through
// it. The card number prefers a valid prefixed detail value, then a
// valid prefixed list value, then a bare numeric identifier from
// either, and otherwise degrades to the sentinel so the record is
// never silently dropped.
func MergeDetail(candidate, detail card.Record) card.Record {
	merged := candidate
	if detail.Name != "" {
		merged.Name = detail.Name
	}
	if detail.Price != "" {
		merged.Price = detail.Price
	}
	if detail.Image != "" {
		merged.Image = detail.Image
	}
	if detail.Color != "" {
		merged.Color = detail.Color
	}
	if detail.Rarity != "" {
		merged.Rarity = detail.Rarity
	}
	merged.CardNumber = mergeNumber(candidate.CardNumber, detail.CardNumber)
	return merged
}

func mergeNumber(listNumber, detailNumber string) string {
	if card.ValidNumber(detailNumber) {
		return detailNumber
	}
	if card.ValidNumber(listNumber) {
		return listNumber
	}
	if card.ValidBareNumber(detailNumber) {
		return detailNumber
	}
	if card.ValidBareNumber(listNumber) {
		return listNumber
	}
	return card.NoCardNumber
}

// FilterBySearchTerm drops records whose card number does not belong
// to the searched set, guarding against carousel spillover.
func FilterBySearchTerm(records []card.Record, term string) []card.Record {
	filtered := make([]card.Record, 0, len(records))
	for _, r := range records {
		if card.MatchesSearchTerm(r.CardNumber, term) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}
