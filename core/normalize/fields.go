// Package normalize turns heterogeneous ingestion payloads into canonical
// verse records. All per-shape field-name variance is isolated here: each
// canonical field has an ordered list of candidate names tried in sequence,
// and payload shapes are detected once at entry and handled as a tagged
// union rather than probed per record.
package normalize

import (
	"math"
	"strconv"
	"strings"
)

// Ordered candidate field names per canonical field. Earlier names win.
var (
	// bookNameKeys resolve the document by display name (string values only).
	bookNameKeys = []string{"book_name", "bookname", "book", "name", "b"}
	// bookIDKeys resolve the document by traditional 1..66 number
	// (numeric values only, mapped through the canon table).
	bookIDKeys = []string{"book_id", "bookid", "book_number", "book", "b", "bn"}
	// chapterKeys resolve the chapter number.
	chapterKeys = []string{"chapter", "chap", "ch", "c"}
	// verseKeys resolve the verse number.
	verseKeys = []string{"verse", "verse_number", "vs", "v"}
	// textKeys resolve the verse text.
	textKeys = []string{"text", "verse_text", "content", "t"}
	// listKeys are the recognized container fields for record sequences,
	// in detection priority order.
	listKeys = []string{"data", "verses", "items", "text"}
	// countKeys are recognized declared chapter-count fields in
	// split-source payloads.
	countKeys = []string{"chapter_count", "chapters", "count"}
)

// firstString returns the first non-empty string value among the candidate
// keys of a decoded record.
func firstString(rec map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok {
			continue
		}
		s, ok := v.(string)
		if !ok {
			continue
		}
		s = strings.TrimSpace(s)
		if s != "" {
			return s, true
		}
	}
	return "", false
}

// firstNumber returns the first finite integral numeric value among the
// candidate keys. JSON numbers decode as float64; numeric strings are
// accepted too since several source dumps quote their numbers.
func firstNumber(rec map[string]any, keys []string) (int, bool) {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok {
			continue
		}
		if n, ok := asInt(v); ok {
			return n, true
		}
	}
	return 0, false
}

// asInt converts a decoded JSON value to an int, rejecting non-finite and
// fractional numbers.
func asInt(v any) (int, bool) {
	switch n := v.(type) {
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) || n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case int:
		return n, true
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

// hasAnyKey reports whether the record carries any of the candidate keys,
// regardless of value type. Used for discard diagnostics.
func hasAnyKey(rec map[string]any, keys []string) bool {
	for _, k := range keys {
		if _, ok := rec[k]; ok {
			return true
		}
	}
	return false
}
