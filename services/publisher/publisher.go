// Package publisher announces finished scrapes to downstream
// consumers. Publication is best-effort: a failed event never fails
// the scrape that produced it.
package publisher

import "opcgsearch/cardscraper/internal/card"

// Event is the summary published after a search term is saved.
type Event struct {
	SearchWord  string `json:"searchWord"`
	Count       int    `json:"count"`
	LastScraped string `json:"lastScraped"`
}

// EventFor builds the event for one saved cache entry.
func EventFor(term string, entry card.CacheEntry) Event {
	return Event{
		SearchWord:  term,
		Count:       entry.Count,
		LastScraped: entry.LastScraped,
	}
}

// Publisher represents a service for publishing scrape events
type Publisher interface {
	// Publish publishes a scrape-completion event
	Publish(event Event) error

	// TrimStream trims the stream to the configured maximum length
	TrimStream() error

	// Close closes the publisher connection
	Close() error
}
