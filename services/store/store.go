// Package store persists scraped records in a flat JSON document on
// disk, one entry per search term, and answers read-side lookups over
// it. Writes are all-or-nothing: the document is rewritten to a temp
// file and renamed into place.
package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"opcgsearch/cardscraper/internal/card"
	"opcgsearch/cardscraper/logger"
	"opcgsearch/cardscraper/pkg/errors"
)

// FileStore reads and writes one cache document. The mutex serializes
// read-modify-write cycles within this process; the file itself is
// assumed single-writer.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore creates a store backed by the JSON document at path.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Path returns the backing file path.
func (s *FileStore) Path() string {
	return s.path
}

// Load reads the whole document. A missing or malformed file degrades
// to an empty document with a logged warning so neither reads nor
// writes ever crash on a bad file.
func (s *FileStore) Load() card.Document {
	log := logger.ForStore()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("file", s.path).Msg("Failed to read cache document, starting empty")
		}
		return card.Document{}
	}

	var doc card.Document
	if err := json.Unmarshal(data, &doc); err != nil {
		log.Warn().Err(err).Str("file", s.path).Msg("Cache document is malformed, starting empty")
		return card.Document{}
	}
	if doc == nil {
		return card.Document{}
	}
	return doc
}

// Save overwrites the whole document atomically.
func (s *FileStore) Save(doc card.Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.NewStore("store", "failed to encode cache document", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.NewStore("store", "failed to create data directory "+dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return errors.NewStore("store", "failed to create temp file", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return errors.NewStore("store", "failed to write temp file", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return errors.NewStore("store", "failed to close temp file", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return errors.NewStore("store", "failed to replace cache document", err)
	}
	return nil
}

// Put replaces the entry for one search term and persists the
// document. The term is stored uppercased so lookups are stable across
// input casing.
func (s *FileStore) Put(term string, records []card.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.Load()
	doc[NormalizeTerm(term)] = card.CacheEntry{
		Results:     records,
		LastScraped: lastScraped(records),
		Count:       len(records),
	}
	if err := s.Save(doc); err != nil {
		return err
	}

	logger.ForStore().Info().
		Str("term", NormalizeTerm(term)).
		Int("count", len(records)).
		Msg("Cache entry saved")
	return nil
}

// Query answers a read-side lookup: an exact entry hit first, then a
// linear scan of every cached record matching the word against
// cardNumber or name case-insensitively. Scan hits are aggregated
// across entries and stamped with the most recent contributing
// lastScraped.
func (s *FileStore) Query(word string) (card.CacheEntry, bool) {
	doc := s.Load()

	if entry, ok := doc[NormalizeTerm(word)]; ok {
		return entry, true
	}

	needle := strings.ToLower(strings.TrimSpace(word))
	if needle == "" {
		return card.CacheEntry{}, false
	}

	var matches []card.Record
	latest := ""
	for _, entry := range doc {
		contributed := false
		for _, r := range entry.Results {
			if matchesRecord(r, needle) {
				matches = append(matches, r)
				contributed = true
			}
		}
		if contributed && entry.LastScraped > latest {
			latest = entry.LastScraped
		}
	}

	if len(matches) == 0 {
		return card.CacheEntry{}, false
	}
	return card.CacheEntry{
		Results:     matches,
		LastScraped: latest,
		Count:       len(matches),
	}, true
}

// Entries lists every cached term with its count and freshness stamp,
// without the record payloads.
func (s *FileStore) Entries() map[string]card.CacheEntry {
	doc := s.Load()
	entries := make(map[string]card.CacheEntry, len(doc))
	for term, entry := range doc {
		entries[term] = card.CacheEntry{
			LastScraped: entry.LastScraped,
			Count:       entry.Count,
		}
	}
	return entries
}

// Entry fetches one exact entry.
func (s *FileStore) Entry(term string) (card.CacheEntry, bool) {
	doc := s.Load()
	entry, ok := doc[NormalizeTerm(term)]
	return entry, ok
}

// NormalizeTerm canonicalizes a search term for use as a document key.
func NormalizeTerm(term string) string {
	return strings.ToUpper(strings.TrimSpace(term))
}

func matchesRecord(r card.Record, needle string) bool {
	return strings.Contains(strings.ToLower(r.CardNumber), needle) ||
		strings.Contains(strings.ToLower(r.Name), needle)
}

func lastScraped(records []card.Record) string {
	latest := ""
	for _, r := range records {
		if r.ScrapedAt > latest {
			latest = r.ScrapedAt
		}
	}
	if latest == "" {
		latest = time.Now().Format(time.RFC3339)
	}
	return latest
}
