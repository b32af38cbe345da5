// Package search implements the lazy full-text search engine. The engine
// runs in an isolated context with no access to the document store's
// memory: it holds only an index metadata snapshot received at session
// start and pulls chapter contents on demand through a ChapterSource.
package search

import (
	"context"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/Lectern/core/verse"
	"github.com/FocuswithJustin/Lectern/internal/logging"
)

// DefaultLimit caps results when the caller passes no limit.
const DefaultLimit = 100

// Hit identifies one matched verse plus its highlighted preview.
type Hit struct {
	Document string `json:"document"`
	Chapter  int    `json:"chapter"`
	Verse    int    `json:"verse"`
	Preview  string `json:"preview"`
}

// ChapterSource supplies chapter contents across the context boundary.
// Implementations suspend the caller until the owning context responds.
type ChapterSource interface {
	Chapter(ctx context.Context, document string, chapter int) ([]verse.Verse, error)
}

// Engine is one search session. It memoizes chapter responses locally so a
// chapter is never requested twice across queries in the same session.
//
// An engine belongs to a single logical worker and is not safe for
// concurrent Search calls.
type Engine struct {
	sessionID string
	meta      verse.IndexMetadata
	source    ChapterSource
	memo      map[verse.ChapterKey][]verse.Verse
}

// NewEngine starts a search session over an index metadata snapshot.
func NewEngine(meta verse.IndexMetadata, source ChapterSource) *Engine {
	return &Engine{
		sessionID: uuid.NewString(),
		meta:      meta,
		source:    source,
		memo:      make(map[verse.ChapterKey][]verse.Verse),
	}
}

// SessionID identifies this session on the transport, so responses
// belonging to a superseded session can be discarded.
func (e *Engine) SessionID() string {
	return e.sessionID
}

// Search scans every chapter of every document in metadata order and
// returns verses whose text contains every query token, capped at limit.
//
// Traversal is serial and depth-first: each chapter request suspends the
// scan until the owning context responds, and no chapter is requested
// ahead of consumption. Iteration stops immediately once limit hits are
// collected, even mid-chapter, so result order is exactly traversal order.
func (e *Engine) Search(ctx context.Context, query string, limit int) ([]Hit, error) {
	tokens := Tokenize(query)
	if len(tokens) == 0 {
		return nil, nil
	}
	if limit <= 0 {
		limit = DefaultLimit
	}

	var hits []Hit
	for i, doc := range e.meta.Documents {
		count := 1
		if i < len(e.meta.ChapterCounts) && e.meta.ChapterCounts[i] > 0 {
			count = e.meta.ChapterCounts[i]
		}
		for ch := 1; ch <= count; ch++ {
			verses, err := e.chapter(ctx, doc, ch)
			if err != nil {
				if ctx.Err() != nil {
					return hits, ctx.Err()
				}
				// A document whose backing payload is gone should not
				// sink the whole scan; skip to the next document.
				logging.Warn("search skipping document", "session_id", e.sessionID,
					"document", doc, "error", err.Error())
				break
			}
			for _, v := range verses {
				if !matches(v.Text, tokens) {
					continue
				}
				hits = append(hits, Hit{
					Document: v.Document,
					Chapter:  v.Chapter,
					Verse:    v.Number,
					Preview:  Highlight(v.Text, tokens),
				})
				if len(hits) == limit {
					logging.SearchSession(e.sessionID, query, len(hits), "truncated", true)
					return hits, nil
				}
			}
		}
	}

	logging.SearchSession(e.sessionID, query, len(hits))
	return hits, nil
}

// chapter returns one chapter's verses, from the session memo when
// possible. The source call is the suspension point of the traversal.
func (e *Engine) chapter(ctx context.Context, doc string, ch int) ([]verse.Verse, error) {
	key := verse.ChapterKey{Document: doc, Chapter: ch}
	if vs, ok := e.memo[key]; ok {
		return vs, nil
	}
	vs, err := e.source.Chapter(ctx, doc, ch)
	if err != nil {
		return nil, err
	}
	e.memo[key] = vs
	return vs, nil
}
