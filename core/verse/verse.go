// Package verse defines the canonical data model shared by the normalizer,
// the document store, and the search engine: a Verse is the atomic unit of
// text, addressed by (document, chapter, verse).
package verse

import "fmt"

// Verse is one normalized verse record.
// (Document, Chapter, Number) is unique within a store, and verse numbers
// within a chapter are ascending after normalization.
type Verse struct {
	Document string `json:"document"`
	Chapter  int    `json:"chapter"`
	Number   int    `json:"verse"`
	Text     string `json:"text"`
	// ParagraphStart marks that this verse opens a new rendering paragraph.
	// It is derived from leading markup stripped during normalization.
	ParagraphStart bool `json:"paragraph_start,omitempty"`
}

// ChapterKey addresses one chapter of one document.
type ChapterKey struct {
	Document string
	Chapter  int
}

// String returns the key in "Document.Chapter" form.
func (k ChapterKey) String() string {
	return fmt.Sprintf("%s.%d", k.Document, k.Chapter)
}

// IndexMetadata is the minimal description a remote searcher needs to plan
// its traversal: parallel slices of document names and chapter counts, in
// canonical order. It is a value object recomputed from the store and never
// mutated independently.
type IndexMetadata struct {
	Documents     []string `json:"documents"`
	ChapterCounts []int    `json:"chapter_counts"`
}

// Len returns the number of documents described.
func (m IndexMetadata) Len() int {
	return len(m.Documents)
}

// CopyVerses returns a defensive copy of a verse slice. Store and transport
// hand out copies so callers cannot corrupt cached chapters.
func CopyVerses(vs []Verse) []Verse {
	if vs == nil {
		return nil
	}
	out := make([]Verse, len(vs))
	copy(out, vs)
	return out
}
