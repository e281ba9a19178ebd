package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"opcgsearch/cardscraper/config"
	"opcgsearch/cardscraper/helpers"
	"opcgsearch/cardscraper/internal/card"
	"opcgsearch/cardscraper/internal/scrape"
	"opcgsearch/cardscraper/logger"
	"opcgsearch/cardscraper/services/cache"
	"opcgsearch/cardscraper/services/publisher"
	"opcgsearch/cardscraper/services/server"
	"opcgsearch/cardscraper/services/store"
	"opcgsearch/cardscraper/services/worker"
)

// App carries the shared dependencies into the subcommands.
type App struct {
	ctx       context.Context
	cfg       config.Config
	metrics   *scrape.Metrics
	scraper   *scrape.Scraper
	store     *store.FileStore
	setsStore *store.FileStore
	publisher publisher.Publisher
}

// CLI is the command tree.
type CLI struct {
	Scrape    ScrapeCmd    `cmd:"" help:"Scrape one search term and cache the results"`
	ScrapeAll ScrapeAllCmd `cmd:"" name:"scrape-all" help:"Scrape every known set code"`
	Serve     ServeCmd     `cmd:"" help:"Serve cached card data over HTTP"`
}

// ScrapeCmd is the "scrape" subcommand.
type ScrapeCmd struct {
	Term string `arg:"" help:"Set code (OP01, EB01, ST01, P-) or, with --vers, a product-version code"`
	Vers bool   `help:"Search by product-version code instead of set code"`
}

// Run scrapes one term and saves it.
func (c *ScrapeCmd) Run(app *App) error {
	mode := scrape.ModePlain
	target := app.store
	if c.Vers {
		mode = scrape.ModeVers
		target = app.setsStore
	}

	records, err := app.scraper.Scrape(app.ctx, c.Term, mode)
	if err != nil {
		return err
	}
	if err := target.Put(c.Term, records); err != nil {
		return err
	}

	if app.publisher != nil {
		if entry, ok := target.Entry(c.Term); ok {
			if err := app.publisher.Publish(publisher.EventFor(store.NormalizeTerm(c.Term), entry)); err != nil {
				logger.LogError("main", err, "Failed to publish scrape event")
			}
		}
	}

	logger.Info("Scraped %d cards for %s into %s", len(records), c.Term, target.Path())
	return nil
}

// ScrapeAllCmd is the "scrape-all" subcommand.
type ScrapeAllCmd struct{}

// Run scrapes the full known-term enumeration.
func (c *ScrapeAllCmd) Run(app *App) error {
	termScraper := worker.TermScraperFunc(func(ctx context.Context, term string) ([]card.Record, error) {
		return app.scraper.Scrape(ctx, term, scrape.ModePlain)
	})
	w := worker.NewWorker(termScraper, app.store, app.publisher, app.cfg.TermDelayBase, app.cfg.TermDelayJit)

	summary, err := w.RunAll(app.ctx)
	logger.Info("Scrape-all finished: %d terms succeeded, %d failed, %d cards",
		len(summary.Succeeded), len(summary.Failed), summary.Cards)
	return err
}

// ServeCmd is the "serve" subcommand.
type ServeCmd struct {
	Addr string `help:"Listen address, overrides SERVER_ADDR"`
}

// Run serves the cache document until interrupted.
func (c *ServeCmd) Run(app *App) error {
	addr := c.Addr
	if addr == "" {
		addr = app.cfg.ServerAddr
	}
	srv := server.New(app.store, app.metrics.Registry)
	return srv.ListenAndServe(addr)
}

func main() {
	godotenv.Load()
	logger.Init()
	log := logger.Default

	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
		cancel()
	}()

	var cooldown cache.CacheService
	if cfg.MemcacheAddr != "" {
		cooldown = cache.NewMemcacheService(cfg.MemcacheAddr)
	}

	var pub publisher.Publisher
	if cfg.RedisAddr != "" {
		redisPub := publisher.NewRedisPublisher(ctx, cfg.RedisAddr, cfg.RedisDB, cfg.RedisStream, cfg.RedisStreamMaxLength)
		defer redisPub.Close()
		pub = redisPub
	}

	metrics := scrape.NewMetrics()
	fetcher := helpers.NewFetcher(cfg.RequestTimeout, cfg.BaseURL+"/")

	app := &App{
		ctx:       ctx,
		cfg:       cfg,
		metrics:   metrics,
		scraper:   scrape.NewScraper(cfg, fetcher, cooldown, metrics),
		store:     store.NewFileStore(cfg.DataFile),
		setsStore: store.NewFileStore(cfg.SetsFile),
		publisher: pub,
	}

	cli := &CLI{}
	kctx := kong.Parse(cli,
		kong.Name("cardscraper"),
		kong.Description("Scrapes trading-card listings and serves the cached results."),
		kong.Bind(app),
	)
	if err := kctx.Run(app); err != nil {
		log.Fatal().Err(err).Msg("Command failed")
	}
}
