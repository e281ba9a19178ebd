// Package server exposes the cache document over a small read-only
// HTTP API. No scraping happens at serve time; everything is answered
// from the last saved document.
package server

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"opcgsearch/cardscraper/internal/card"
	"opcgsearch/cardscraper/logger"
	"opcgsearch/cardscraper/services/store"
)

// searchResponse is the payload for a successful lookup. cached is
// always true: serve-time lookups never scrape.
type searchResponse struct {
	Results     []card.Record `json:"results"`
	Cached      bool          `json:"cached"`
	LastScraped string        `json:"lastScraped"`
	Count       int           `json:"count"`
}

type errorResponse struct {
	Error string `json:"error"`
	Hint  string `json:"hint,omitempty"`
}

type cachedEntrySummary struct {
	SearchWord  string `json:"searchWord"`
	Count       int    `json:"count"`
	LastScraped string `json:"lastScraped"`
}

// Server answers read-side lookups from a file store.
type Server struct {
	store    *store.FileStore
	registry *prometheus.Registry
	mux      *http.ServeMux
}

// New creates the server. registry may be nil to disable /metrics.
func New(st *store.FileStore, registry *prometheus.Registry) *Server {
	s := &Server{
		store:    st,
		registry: registry,
		mux:      http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	s.mux.HandleFunc("GET /api/cached", s.handleCached)
	s.mux.HandleFunc("GET /api/cached/{term}", s.handleCachedTerm)
	if registry != nil {
		s.mux.Handle("GET /metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}
	return s
}

// Handler returns the HTTP handler for mounting or testing.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe runs the server until it fails.
func (s *Server) ListenAndServe(addr string) error {
	logger.ForServer().Info().Str("addr", addr).Msg("Serving cached card data")
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return srv.ListenAndServe()
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	word := strings.TrimSpace(r.URL.Query().Get("search_word"))
	if word == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "search_word query parameter is required",
		})
		return
	}

	entry, ok := s.store.Query(word)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: "no cached data for " + word,
			Hint:  "run 'cardscraper scrape " + word + "' first",
		})
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results:     entry.Results,
		Cached:      true,
		LastScraped: entry.LastScraped,
		Count:       entry.Count,
	})
}

func (s *Server) handleCached(w http.ResponseWriter, _ *http.Request) {
	entries := s.store.Entries()
	summaries := make([]cachedEntrySummary, 0, len(entries))
	for term, entry := range entries {
		summaries = append(summaries, cachedEntrySummary{
			SearchWord:  term,
			Count:       entry.Count,
			LastScraped: entry.LastScraped,
		})
	}
	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].SearchWord < summaries[j].SearchWord
	})
	writeJSON(w, http.StatusOK, summaries)
}

func (s *Server) handleCachedTerm(w http.ResponseWriter, r *http.Request) {
	term := r.PathValue("term")
	entry, ok := s.store.Entry(term)
	if !ok {
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error: "no cached entry for " + term,
			Hint:  "run 'cardscraper scrape " + term + "' first",
		})
		return
	}

	writeJSON(w, http.StatusOK, searchResponse{
		Results:     entry.Results,
		Cached:      true,
		LastScraped: entry.LastScraped,
		Count:       entry.Count,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		logger.LogError("server", err, "Failed to encode response")
	}
}
