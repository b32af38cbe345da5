package normalize

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/Lectern/core/errors"
	"github.com/FocuswithJustin/Lectern/core/verse"
)

// DocumentChapters is the split-source normalization result: the full
// chapter map for one named document.
type DocumentChapters struct {
	Document string
	// Chapters maps chapter number to its sorted verse sequence.
	Chapters map[int][]verse.Verse
	// Count is the chapter count: observed chapter keys, falling back to a
	// declared chapter-count field, a previously known count, then 1.
	Count int
}

// Document normalizes a per-document payload. Two shapes are handled:
//
//	A: {"chapters": [{"chapter": 1, "verses": [{"verse": 1, "text": "...", "header": "..."}]}]}
//	B: {"1": {"1": "text", "2": "text"}, "2": {...}}
//
// knownCount is the chapter count already on record for this document, used
// as a fallback when the payload declares nothing.
func Document(name string, data []byte, knownCount int) (*DocumentChapters, error) {
	source := "document:" + name

	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, errors.NewMalformed(source, "JSON", err)
	}

	dc := &DocumentChapters{
		Document: name,
		Chapters: make(map[int][]verse.Verse),
	}

	if seq, ok := payload["chapters"].([]any); ok {
		dc.readChapterObjects(seq)
	} else {
		dc.readKeyedChapters(payload)
	}

	for n, vs := range dc.Chapters {
		dc.Chapters[n] = SortChapter(vs)
	}

	// Chapter count: observed chapter keys, then a declared count field,
	// then whatever was already on record, then 1. An empty chapter map is
	// not an error here; the store decides whether that means the document
	// resource is missing.
	switch {
	case len(dc.Chapters) > 0:
		dc.Count = len(dc.Chapters)
	default:
		if declared, ok := firstNumber(payload, countKeys); ok && declared > 0 {
			dc.Count = declared
		} else if knownCount > 0 {
			dc.Count = knownCount
		} else {
			dc.Count = 1
		}
	}
	return dc, nil
}

// readChapterObjects handles shape A: a sequence of chapter objects each
// holding a chapter number and a verse-object sequence.
func (dc *DocumentChapters) readChapterObjects(seq []any) {
	for _, raw := range seq {
		chObj, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		chNum, ok := firstNumber(chObj, append(chapterKeys, "number"))
		if !ok || chNum < 1 {
			continue
		}
		verses, ok := chObj["verses"].([]any)
		if !ok {
			continue
		}
		for _, rawV := range verses {
			vObj, ok := rawV.(map[string]any)
			if !ok {
				continue
			}
			num, ok := firstNumber(vObj, verseKeys)
			if !ok || num < 1 {
				continue
			}
			text, ok := firstString(vObj, textKeys)
			if !ok {
				continue
			}
			text, para := stripMarkers(text)
			// A heading attached to the verse also opens a paragraph.
			if h, ok := vObj["header"].(string); ok && strings.TrimSpace(h) != "" {
				para = true
			}
			dc.Chapters[chNum] = append(dc.Chapters[chNum], verse.Verse{
				Document:       dc.Document,
				Chapter:        chNum,
				Number:         num,
				Text:           text,
				ParagraphStart: para,
			})
		}
	}
}

// readKeyedChapters handles shape B: chapter-number-as-string keys mapping
// to verse-number-as-string keys mapping to raw text. Non-numeric keys are
// metadata, not chapters, and are skipped.
func (dc *DocumentChapters) readKeyedChapters(payload map[string]any) {
	for chKey, rawCh := range payload {
		chNum, err := strconv.Atoi(strings.TrimSpace(chKey))
		if err != nil || chNum < 1 {
			continue
		}
		verses, ok := rawCh.(map[string]any)
		if !ok {
			continue
		}
		for vKey, rawText := range verses {
			num, err := strconv.Atoi(strings.TrimSpace(vKey))
			if err != nil || num < 1 {
				continue
			}
			text, ok := rawText.(string)
			if !ok {
				continue
			}
			text, para := stripMarkers(text)
			dc.Chapters[chNum] = append(dc.Chapters[chNum], verse.Verse{
				Document:       dc.Document,
				Chapter:        chNum,
				Number:         num,
				Text:           text,
				ParagraphStart: para,
			})
		}
	}
}
