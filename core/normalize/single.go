package normalize

import (
	"bytes"
	"encoding/json"
	"sort"

	"github.com/FocuswithJustin/Lectern/core/canon"
	"github.com/FocuswithJustin/Lectern/core/errors"
	"github.com/FocuswithJustin/Lectern/core/verse"
)

// bulkShape identifies which single-source encoding a payload uses.
// Detection happens once at entry; each shape has exactly one handler.
type bulkShape int

const (
	shapeRecordList   bulkShape = iota // payload itself is a record sequence
	shapeKeyedList                     // records under the first recognized container key
	shapeConcatenated                  // every sequence-valued field, concatenated
)

// Corpus is the result of single-source normalization: the full canonical
// verse set, chapter-indexed, with canonical document ordering.
type Corpus struct {
	// Documents is the ordered document-name list: canon-table books in
	// canonical order first, unknown books after in encounter order.
	Documents []string
	// Counts maps document name to its max observed chapter number.
	Counts map[string]int
	// Chapters maps (document, chapter) to its sorted verse sequence.
	Chapters map[verse.ChapterKey][]verse.Verse
}

// Bulk normalizes a single-source payload into a Corpus. The source string
// names where the payload came from and only feeds diagnostics.
//
// Records lacking a resolvable document, or carrying a non-finite chapter
// or verse number, are discarded rather than fatal. Only a payload from
// which zero verses survive fails, with the diagnostic distinguishing
// "no usable rows" from "rows used unrecognized field names".
func Bulk(source string, data []byte) (*Corpus, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return BulkOSIS(source, data)
	}

	var payload any
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, errors.NewMalformed(source, "JSON", err)
	}

	records, err := collectRecords(source, payload)
	if err != nil {
		return nil, err
	}

	sawTextField := false
	var verses []verse.Verse
	for _, raw := range records {
		rec, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if hasAnyKey(rec, textKeys) {
			sawTextField = true
		}
		v, ok := mapRecord(rec)
		if !ok {
			continue
		}
		verses = append(verses, v)
	}

	if len(verses) == 0 {
		if !sawTextField {
			return nil, errors.NewPayload(source, "JSON", "no usable rows")
		}
		return nil, errors.NewPayload(source, "JSON", "rows used unrecognized field names")
	}

	return buildCorpus(verses), nil
}

// collectRecords detects the bulk shape and returns its record sequence.
func collectRecords(source string, payload any) ([]any, error) {
	switch p := payload.(type) {
	case []any:
		// shapeRecordList
		return p, nil
	case map[string]any:
		for _, key := range listKeys {
			if seq, ok := p[key].([]any); ok {
				// shapeKeyedList
				return seq, nil
			}
		}
		// shapeConcatenated: every sequence-valued field, in sorted key
		// order so repeated ingestion is deterministic.
		keys := make([]string, 0, len(p))
		for k := range p {
			if _, ok := p[k].([]any); ok {
				keys = append(keys, k)
			}
		}
		if len(keys) == 0 {
			return nil, errors.NewPayload(source, "JSON", "no usable rows")
		}
		sort.Strings(keys)
		var records []any
		for _, k := range keys {
			records = append(records, p[k].([]any)...)
		}
		return records, nil
	default:
		return nil, errors.NewPayload(source, "JSON", "no usable rows")
	}
}

// mapRecord maps one decoded record to a Verse through the field alias
// tables. Returns ok=false when the document cannot be resolved or the
// chapter/verse numbers are unusable.
func mapRecord(rec map[string]any) (verse.Verse, bool) {
	doc, ok := firstString(rec, bookNameKeys)
	if !ok {
		id, idOK := firstNumber(rec, bookIDKeys)
		if !idOK {
			return verse.Verse{}, false
		}
		doc, idOK = canon.NameByNumber(id)
		if !idOK {
			return verse.Verse{}, false
		}
	}

	chapter, ok := firstNumber(rec, chapterKeys)
	if !ok || chapter < 1 {
		return verse.Verse{}, false
	}
	number, ok := firstNumber(rec, verseKeys)
	if !ok || number < 1 {
		return verse.Verse{}, false
	}
	text, ok := firstString(rec, textKeys)
	if !ok {
		return verse.Verse{}, false
	}

	text, para := stripMarkers(text)
	return verse.Verse{
		Document:       doc,
		Chapter:        chapter,
		Number:         number,
		Text:           text,
		ParagraphStart: para,
	}, true
}

// buildCorpus assembles sorted, deduplicated chapters and canonical document
// ordering from the surviving verse records.
func buildCorpus(verses []verse.Verse) *Corpus {
	c := &Corpus{
		Counts:   make(map[string]int),
		Chapters: make(map[verse.ChapterKey][]verse.Verse),
	}

	var encounter []string
	seen := make(map[string]bool)
	for _, v := range verses {
		if !seen[v.Document] {
			seen[v.Document] = true
			encounter = append(encounter, v.Document)
		}
		key := verse.ChapterKey{Document: v.Document, Chapter: v.Chapter}
		c.Chapters[key] = append(c.Chapters[key], v)
		if v.Chapter > c.Counts[v.Document] {
			c.Counts[v.Document] = v.Chapter
		}
	}

	for key, vs := range c.Chapters {
		c.Chapters[key] = SortChapter(vs)
	}

	c.Documents = orderDocuments(encounter)
	return c
}

// SortChapter sorts verses ascending by verse number and drops duplicate
// numbers, keeping the first occurrence. Gaps in the numbering are left as
// gaps, not padded.
func SortChapter(vs []verse.Verse) []verse.Verse {
	sort.SliceStable(vs, func(i, j int) bool { return vs[i].Number < vs[j].Number })
	out := vs[:0]
	last := 0
	for _, v := range vs {
		if v.Number == last {
			continue
		}
		last = v.Number
		out = append(out, v)
	}
	return out
}

// orderDocuments places canon-table books first in canonical order and
// appends unknown books in encounter order.
func orderDocuments(encounter []string) []string {
	var known, unknown []string
	for _, name := range encounter {
		if canon.IndexOf(name) >= 0 {
			known = append(known, name)
		} else {
			unknown = append(unknown, name)
		}
	}
	sort.SliceStable(known, func(i, j int) bool {
		return canon.IndexOf(known[i]) < canon.IndexOf(known[j])
	})
	return append(known, unknown...)
}
