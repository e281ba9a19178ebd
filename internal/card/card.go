// Package card defines the record types shared by the scrape pipeline,
// the cache store, and the serving layer, plus the small vocabularies
// (card numbers, colors, rarities, set names) used to validate them.
package card

// Record represents one scraped card listing. Every field is optional;
// empty string means the field could not be extracted. CardNumber uses
// the NoCardNumber sentinel for items that genuinely carry no identifier.
type Record struct {
	Name       string `json:"name,omitempty"`
	CardNumber string `json:"cardNumber,omitempty"`
	Price      string `json:"price,omitempty"`
	Image      string `json:"image,omitempty"`
	Link       string `json:"link,omitempty"`
	Color      string `json:"color,omitempty"`
	Rarity     string `json:"rarity,omitempty"`
	Set        string `json:"set,omitempty"`
	ScrapedAt  string `json:"scrapedAt,omitempty"`
}

// CacheEntry is the per-search-term unit stored in the cache document.
// Count always equals len(Results) at write time.
type CacheEntry struct {
	Results     []Record `json:"results"`
	LastScraped string   `json:"lastScraped"`
	Count       int      `json:"count"`
}

// Document is the whole cache file: search term to entry.
type Document map[string]CacheEntry
