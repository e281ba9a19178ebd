// Package worker runs scrapes over many search terms sequentially,
// persisting and publishing each term's results as it finishes.
package worker

import (
	"context"
	"math/rand/v2"
	"time"

	"opcgsearch/cardscraper/internal/card"
	"opcgsearch/cardscraper/logger"
	errs "opcgsearch/cardscraper/pkg/errors"
	"opcgsearch/cardscraper/services/publisher"
	"opcgsearch/cardscraper/services/store"
)

// TermScraper is the one pipeline operation the worker drives.
type TermScraper interface {
	Scrape(ctx context.Context, term string) ([]card.Record, error)
}

// TermScraperFunc adapts a function to TermScraper.
type TermScraperFunc func(ctx context.Context, term string) ([]card.Record, error)

// Scrape implements TermScraper.
func (f TermScraperFunc) Scrape(ctx context.Context, term string) ([]card.Record, error) {
	return f(ctx, term)
}

// Summary reports the outcome of a multi-term run.
type Summary struct {
	Succeeded []string
	Failed    []string
	Cards     int
}

// Worker scrapes a list of search terms one at a time with a jittered
// delay between terms. One term's failure does not stop the run, but a
// hard block from the site does since every later term would hit the
// same wall.
type Worker struct {
	scraper   TermScraper
	store     *store.FileStore
	publisher publisher.Publisher
	delayBase time.Duration
	delayJit  time.Duration
}

// NewWorker creates a worker. publisher may be nil to disable events.
func NewWorker(scraper TermScraper, st *store.FileStore, pub publisher.Publisher, delayBase, delayJit time.Duration) *Worker {
	return &Worker{
		scraper:   scraper,
		store:     st,
		publisher: pub,
		delayBase: delayBase,
		delayJit:  delayJit,
	}
}

// RunAll scrapes every known search term.
func (w *Worker) RunAll(ctx context.Context) (Summary, error) {
	return w.Run(ctx, card.KnownSearchTerms())
}

// Run scrapes the given terms in order and returns the run summary.
// The returned error is non-nil only when the run aborted early.
func (w *Worker) Run(ctx context.Context, terms []string) (Summary, error) {
	log := logger.ForWorker()
	summary := Summary{}

	for i, term := range terms {
		if i > 0 {
			if err := w.pause(ctx); err != nil {
				return summary, err
			}
		}

		log.Info().Str("term", term).Int("remaining", len(terms)-i-1).Msg("Scraping term")

		records, err := w.scrapeAndSave(ctx, term)
		if err != nil {
			if errs.IsBlocked(err) {
				log.Error().Err(err).Str("term", term).Msg("Site blocked the run, aborting")
				summary.Failed = append(summary.Failed, term)
				return summary, err
			}
			logger.LogError("worker", err, "Term %s failed, continuing", term)
			summary.Failed = append(summary.Failed, term)
			continue
		}

		summary.Succeeded = append(summary.Succeeded, term)
		summary.Cards += len(records)
	}

	log.Info().
		Int("succeeded", len(summary.Succeeded)).
		Int("failed", len(summary.Failed)).
		Int("cards", summary.Cards).
		Msg("Run finished")
	return summary, nil
}

// scrapeAndSave runs one term end to end: scrape, persist, announce.
func (w *Worker) scrapeAndSave(ctx context.Context, term string) ([]card.Record, error) {
	records, err := w.scraper.Scrape(ctx, term)
	if err != nil {
		return nil, err
	}

	if err := w.store.Put(term, records); err != nil {
		return nil, err
	}

	w.announce(term)
	return records, nil
}

// announce publishes the saved entry, best-effort.
func (w *Worker) announce(term string) {
	if w.publisher == nil {
		return
	}
	entry, ok := w.store.Entry(term)
	if !ok {
		return
	}
	if err := w.publisher.Publish(publisher.EventFor(store.NormalizeTerm(term), entry)); err != nil {
		logger.LogError("worker", err, "Failed to publish scrape event for %s", term)
		return
	}
	if err := w.publisher.TrimStream(); err != nil {
		logger.LogError("worker", err, "Failed to trim event stream")
	}
}

// pause sleeps the jittered inter-term delay, waking early on cancel.
func (w *Worker) pause(ctx context.Context) error {
	delay := w.delayBase
	if w.delayJit > 0 {
		delay += time.Duration(rand.Int64N(int64(w.delayJit)))
	}
	if delay <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(delay):
		return nil
	}
}
