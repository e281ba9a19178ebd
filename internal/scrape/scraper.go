package scrape

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/url"
	"time"

	"github.com/PuerkitoBio/goquery"

	"opcgsearch/cardscraper/config"
	"opcgsearch/cardscraper/helpers"
	"opcgsearch/cardscraper/internal/card"
	"opcgsearch/cardscraper/internal/extract"
	"opcgsearch/cardscraper/logger"
	errs "opcgsearch/cardscraper/pkg/errors"
	"opcgsearch/cardscraper/services/cache"
)

// Mode selects the search-URL convention and the page template the
// parser expects. Both modes share one pipeline.
type Mode int

const (
	// ModePlain searches by free-text set code (?search_word=).
	ModePlain Mode = iota
	// ModeVers searches by product-version code (?vers[]=), whose
	// result template wraps cards in .card-product containers.
	ModeVers
)

// cooldownKey marks a recent hard block in the cooldown cache.
const cooldownKey = "cardscraper:blocked"

// Scraper runs the full pipeline for one search term: list fetch,
// candidate parse, dedup, batched detail enrichment, and the final
// per-term filters.
type Scraper struct {
	cfg      config.Config
	fetcher  *helpers.Fetcher
	cooldown cache.CacheService
	metrics  *Metrics
}

// NewScraper assembles a scraper. cooldown and metrics may be nil,
// which disables block bookkeeping and instrumentation respectively.
func NewScraper(cfg config.Config, fetcher *helpers.Fetcher, cooldown cache.CacheService, metrics *Metrics) *Scraper {
	return &Scraper{
		cfg:      cfg,
		fetcher:  fetcher,
		cooldown: cooldown,
		metrics:  metrics,
	}
}

// SearchURL builds the search endpoint URL for a term in the given mode.
func (s *Scraper) SearchURL(term string, mode Mode) string {
	base := s.cfg.BaseURL + s.cfg.SearchPath
	if mode == ModeVers {
		return base + "?search_word=&vers%5B%5D=" + url.QueryEscape(term) + "&rare=&type=&kizu=0"
	}
	return base + "?search_word=" + url.QueryEscape(term)
}

// Scrape runs the pipeline for one term and returns finished records.
// A hard block from the site aborts the run with a fatal error and,
// when a cooldown cache is configured, arms a cooldown so immediate
// re-runs fail fast without touching the site.
func (s *Scraper) Scrape(ctx context.Context, term string, mode Mode) ([]card.Record, error) {
	log := logger.ForScraper(term)

	if err := s.checkCooldown(); err != nil {
		return nil, err
	}

	searchURL := s.SearchURL(term, mode)
	log.Info().Str("url", searchURL).Msg("Fetching search results")

	doc, err := s.fetchDocument(ctx, searchURL, "list")
	if err != nil {
		return nil, s.noteBlocked(err)
	}

	parser := &ListParser{
		BaseURL:            s.cfg.BaseURL,
		ScopeToCardProduct: mode == ModeVers,
		ExcludeCarousels:   mode == ModeVers,
	}
	candidates := Dedup(parser.Parse(doc))
	log.Info().Int("candidates", len(candidates)).Msg("Parsed list page")
	if len(candidates) == 0 {
		return []card.Record{}, nil
	}

	records, err := s.enrich(ctx, log, candidates, mode)
	if err != nil {
		return nil, s.noteBlocked(err)
	}

	if mode == ModePlain && s.cfg.EnforceSetPrefix {
		before := len(records)
		records = FilterBySearchTerm(records, term)
		if dropped := before - len(records); dropped > 0 {
			log.Debug().Int("dropped", dropped).Msg("Filtered records outside searched set")
		}
	}

	scrapedAt := time.Now().Format(time.RFC3339)
	setName := card.SetName(term)
	for i := range records {
		records[i].Set = setName
		records[i].ScrapedAt = scrapedAt
	}

	s.metrics.AddCards(len(records))
	log.Info().Int("cards", len(records)).Msg("Scrape finished")
	return records, nil
}

// enrich fetches each candidate's detail page in batches and folds the
// extracted fields over the list values. A failed detail fetch degrades
// to the list-only record rather than losing the card.
func (s *Scraper) enrich(ctx context.Context, log *logger.Logger, candidates []card.Record, mode Mode) ([]card.Record, error) {
	extractor := &extract.Extractor{
		BaseURL:      s.cfg.BaseURL,
		PriceFloor:   s.cfg.PriceFloor,
		ThumbSegment: "/90_126/",
		FullSegment:  "/front/",
	}
	scheduler := &BatchScheduler{
		BatchSize:    s.cfg.BatchSize,
		RequestDelay: s.cfg.RequestDelay,
		BatchDelay:   s.cfg.BatchDelay,
	}
	if mode == ModeVers {
		scheduler.BatchSize = s.cfg.VersBatchSize
	}

	results := make([]card.Record, len(candidates))
	err := scheduler.Run(ctx, len(candidates), func(ctx context.Context, i int) error {
		candidate := candidates[i]
		doc, err := s.fetchDocument(ctx, candidate.Link, "detail")
		if err != nil {
			if errs.IsBlocked(err) {
				return err
			}
			logger.LogError("scraper", err, "Detail fetch failed for %s, keeping list values", candidate.Link)
			results[i] = MergeDetail(candidate, card.Record{})
			return nil
		}
		results[i] = MergeDetail(candidate, extractor.Extract(doc))
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug().Int("records", len(results)).Msg("Detail enrichment complete")
	return results, nil
}

// fetchDocument fetches a URL and parses it into a goquery document,
// recording request metrics along the way.
func (s *Scraper) fetchDocument(ctx context.Context, pageURL, phase string) (*goquery.Document, error) {
	s.metrics.IncRequest(phase)
	start := time.Now()
	body, err := s.fetcher.Fetch(ctx, pageURL)
	s.metrics.ObserveDuration(time.Since(start))
	if err != nil {
		var scrapeErr *errs.ScrapeError
		if stderrors.As(err, &scrapeErr) {
			s.metrics.IncError(string(scrapeErr.Type))
		}
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(body)
	if err != nil {
		s.metrics.IncError(string(errs.ErrorTypeParsing))
		return nil, errs.NewParsing("scraper", "failed to parse HTML from "+pageURL, err)
	}
	return doc, nil
}

// checkCooldown fails fast when a previous run was hard-blocked and the
// cooldown has not expired yet.
func (s *Scraper) checkCooldown() error {
	if s.cooldown == nil {
		return nil
	}
	if _, err := s.cooldown.Get(cooldownKey); err == nil {
		return errs.New(errs.ErrorTypeBlocked, "cooldown",
			fmt.Sprintf("site blocked a previous run, cooling down for up to %s", s.cfg.BlockCooldown), nil)
	}
	return nil
}

// noteBlocked arms the cooldown when the error is a hard block, then
// passes the error through unchanged.
func (s *Scraper) noteBlocked(err error) error {
	if err == nil || !errs.IsBlocked(err) || s.cooldown == nil {
		return err
	}
	if cacheErr := s.cooldown.Set(cooldownKey, []byte(time.Now().Format(time.RFC3339)), s.cfg.BlockCooldown); cacheErr != nil {
		logger.LogError("scraper", cacheErr, "Failed to record block cooldown")
	}
	return err
}
