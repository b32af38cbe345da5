// Package store owns the canonical chapter-indexed document collection.
// A store is built once, from the first ingestion source that works, and
// lives for the process. It is an explicitly constructed instance handed to
// the components that need it, never ambient global state.
package store

import (
	"context"
	"strings"
	"sync"

	"github.com/FocuswithJustin/Lectern/core/cache"
	"github.com/FocuswithJustin/Lectern/core/canon"
	"github.com/FocuswithJustin/Lectern/core/errors"
	"github.com/FocuswithJustin/Lectern/core/normalize"
	"github.com/FocuswithJustin/Lectern/core/verse"
	"github.com/FocuswithJustin/Lectern/internal/logging"
)

// Mode selects the backing strategy, decided once at initialization.
type Mode int

const (
	// ModeSingle holds the whole corpus resident from one bulk payload.
	ModeSingle Mode = iota
	// ModeSplit fetches each document lazily on first access.
	ModeSplit
)

func (m Mode) String() string {
	if m == ModeSingle {
		return "single-source"
	}
	return "split-source"
}

// Fetcher abstracts the network boundary in front of ingestion.
type Fetcher interface {
	Get(ctx context.Context, url string) ([]byte, error)
}

// Config wires a store to its ingestion sources.
type Config struct {
	// Inline is an embedded payload needing no network access. Tried first.
	Inline []byte
	// BulkURL locates a single bulk remote payload. Tried second.
	BulkURL string
	// DocumentURL builds the per-document payload URL used in split mode.
	DocumentURL func(document string) string
	// Fetcher performs remote fetches. Required when BulkURL or
	// DocumentURL is set.
	Fetcher Fetcher
	// CacheSize bounds the chapter memo cache. Zero selects the default.
	CacheSize int
}

// Store is the canonical chapter-addressable document collection.
type Store struct {
	cfg Config

	mu         sync.RWMutex
	mode       Mode
	names      []string
	counts     map[string]int
	resident   map[verse.ChapterKey][]verse.Verse
	docsLoaded map[string]bool

	chapters *cache.ChapterCache
}

// New creates an uninitialized store. Call Initialize before use.
func New(cfg Config) *Store {
	size := cfg.CacheSize
	if size <= 0 {
		size = cache.DefaultChapterCacheSize
	}
	return &Store{
		cfg:        cfg,
		counts:     make(map[string]int),
		resident:   make(map[verse.ChapterKey][]verse.Verse),
		docsLoaded: make(map[string]bool),
		chapters:   cache.NewChapterCache(size),
	}
}

// Initialize builds the store from the first ingestion source that works,
// in strict priority order: inline payload, bulk remote payload, canon
// table metadata only. Source failures are logged and swallowed; total
// exhaustion degrades to canon metadata with lazy per-document fetch
// rather than failing, so Initialize never reports an error.
func (s *Store) Initialize(ctx context.Context) {
	if len(s.cfg.Inline) > 0 {
		corpus, err := normalize.Bulk("inline", s.cfg.Inline)
		logging.SourceAttempt("inline", err)
		if err == nil {
			s.adoptCorpus(corpus)
			return
		}
	}

	if s.cfg.BulkURL != "" && s.cfg.Fetcher != nil {
		corpus, err := s.fetchBulk(ctx)
		logging.SourceAttempt("bulk", err, "url", s.cfg.BulkURL)
		if err == nil {
			s.adoptCorpus(corpus)
			return
		}
	}

	// Canon fallback: names and counts only. Chapter content arrives
	// through lazy per-document fetches at query time.
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeSplit
	s.names = canon.Names()
	for _, b := range canon.Books() {
		s.counts[b.Name] = b.Chapters
	}
	logging.SourceAttempt("canon", nil, "documents", len(s.names))
}

func (s *Store) fetchBulk(ctx context.Context) (*normalize.Corpus, error) {
	data, err := s.cfg.Fetcher.Get(ctx, s.cfg.BulkURL)
	if err != nil {
		return nil, err
	}
	return normalize.Bulk("bulk", data)
}

func (s *Store) adoptCorpus(c *normalize.Corpus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mode = ModeSingle
	s.names = c.Documents
	s.counts = c.Counts
	s.resident = c.Chapters
}

// Mode reports which backing strategy initialization selected.
func (s *Store) Mode() Mode {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.mode
}

// HasDocument reports exact membership in the ordered document-name list.
func (s *Store) HasDocument(name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// ResolveDocumentName resolves a free-form document query: exact match
// ignoring case, spaces, and ordinal-prefix spelling first, then a
// case/space-insensitive prefix match. The first match in canonical order
// wins. Returns ok=false when nothing matches.
func (s *Store) ResolveDocumentName(query string) (string, bool) {
	q := foldDocName(query)
	if q == "" {
		return "", false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, name := range s.names {
		if foldDocName(name) == q {
			return name, true
		}
	}
	for _, name := range s.names {
		if strings.HasPrefix(foldDocName(name), q) {
			return name, true
		}
	}
	return "", false
}

// ordinalPrefixes maps spelled ordinal prefixes to the digit form used by
// canonical names ("First Samuel", "II Kings" -> "1 samuel", "2 kings").
var ordinalPrefixes = map[string]string{
	"first": "1", "second": "2", "third": "3",
	"1st": "1", "2nd": "2", "3rd": "3",
	"i": "1", "ii": "2", "iii": "3",
}

// foldDocName lowercases, normalizes a leading ordinal, and removes spaces.
func foldDocName(name string) string {
	s := strings.ToLower(strings.TrimSpace(name))
	if head, rest, ok := strings.Cut(s, " "); ok {
		if digit, isOrd := ordinalPrefixes[head]; isOrd {
			s = digit + " " + rest
		}
	}
	return strings.ReplaceAll(s, " ", "")
}

// ChapterCount returns the declared chapter count for a document, or 1 if
// unknown.
func (s *Store) ChapterCount(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if n, ok := s.counts[name]; ok && n > 0 {
		return n
	}
	return 1
}

// GetChapter returns the verse sequence for one chapter, memoized by
// (document, chapter).
//
// In single-source mode an absent chapter yields an empty sequence, not an
// error. In split-source mode the first access to a document fetches and
// normalizes its full payload; a document whose backing payload cannot be
// located at all fails with a MissingDocumentError, which is the only
// GetChapter failure that propagates.
func (s *Store) GetChapter(ctx context.Context, name string, chapter int) ([]verse.Verse, error) {
	key := verse.ChapterKey{Document: name, Chapter: chapter}
	if vs, ok := s.chapters.Get(key); ok {
		return verse.CopyVerses(vs), nil
	}

	s.mu.RLock()
	mode := s.mode
	loaded := s.docsLoaded[name]
	s.mu.RUnlock()

	if mode == ModeSplit && !loaded {
		if err := s.loadDocument(ctx, name); err != nil {
			return nil, err
		}
	}

	s.mu.RLock()
	vs := s.resident[key]
	s.mu.RUnlock()

	if len(vs) == 0 {
		// Absent chapters are not cached: junk keys must not be able to
		// evict real chapters, and the miss costs only a map lookup.
		return []verse.Verse{}, nil
	}
	s.chapters.Put(key, vs)
	return verse.CopyVerses(vs), nil
}

// loadDocument fetches and normalizes one document's full payload in split
// mode, updating the declared chapter count if it changed.
func (s *Store) loadDocument(ctx context.Context, name string) error {
	if s.cfg.DocumentURL == nil || s.cfg.Fetcher == nil {
		return errors.NewMissingDocument(name, nil)
	}

	data, err := s.cfg.Fetcher.Get(ctx, s.cfg.DocumentURL(name))
	if err != nil {
		return errors.NewMissingDocument(name, err)
	}

	s.mu.RLock()
	known := s.counts[name]
	s.mu.RUnlock()

	dc, err := normalize.Document(name, data, known)
	if err != nil {
		return errors.NewMissingDocument(name, err)
	}
	if len(dc.Chapters) == 0 {
		return errors.NewMissingDocument(name, errors.ErrEmptyPayload)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for n, vs := range dc.Chapters {
		s.resident[verse.ChapterKey{Document: name, Chapter: n}] = vs
	}
	if dc.Count != s.counts[name] {
		logging.Debug("chapter count updated", "document", name,
			"old", s.counts[name], "new", dc.Count)
		s.counts[name] = dc.Count
	}
	if !s.hasDocumentLocked(name) {
		s.names = append(s.names, name)
	}
	s.docsLoaded[name] = true
	return nil
}

func (s *Store) hasDocumentLocked(name string) bool {
	for _, n := range s.names {
		if n == name {
			return true
		}
	}
	return false
}

// IndexMetadata exports the minimal snapshot a remote searcher needs:
// parallel document names and chapter counts in canonical order. It is
// recomputed on every call and stays consistent with the store at the
// moment of export.
func (s *Store) IndexMetadata() verse.IndexMetadata {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m := verse.IndexMetadata{
		Documents:     make([]string, len(s.names)),
		ChapterCounts: make([]int, len(s.names)),
	}
	copy(m.Documents, s.names)
	for i, name := range s.names {
		if n, ok := s.counts[name]; ok && n > 0 {
			m.ChapterCounts[i] = n
		} else {
			m.ChapterCounts[i] = 1
		}
	}
	return m
}

// CacheStats exposes chapter memo cache statistics.
func (s *Store) CacheStats() cache.Stats {
	return s.chapters.Stats()
}
