package normalize

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/FocuswithJustin/Lectern/core/canon"
	"github.com/FocuswithJustin/Lectern/core/errors"
	"github.com/FocuswithJustin/Lectern/core/verse"
)

// osisCodes lists the standard OSIS book abbreviations in canon order, so
// osisCodes[i] corresponds to canon book number i+1.
var osisCodes = []string{
	"Gen", "Exod", "Lev", "Num", "Deut", "Josh", "Judg", "Ruth",
	"1Sam", "2Sam", "1Kgs", "2Kgs", "1Chr", "2Chr", "Ezra", "Neh",
	"Esth", "Job", "Ps", "Prov", "Eccl", "Song", "Isa", "Jer",
	"Lam", "Ezek", "Dan", "Hos", "Joel", "Amos", "Obad", "Jonah",
	"Mic", "Nah", "Hab", "Zeph", "Hag", "Zech", "Mal", "Matt",
	"Mark", "Luke", "John", "Acts", "Rom", "1Cor", "2Cor", "Gal",
	"Eph", "Phil", "Col", "1Thess", "2Thess", "1Tim", "2Tim", "Titus",
	"Phlm", "Heb", "Jas", "1Pet", "2Pet", "1John", "2John", "3John",
	"Jude", "Rev",
}

// osisToName maps OSIS abbreviations to canonical document names.
var osisToName = func() map[string]string {
	m := make(map[string]string, len(osisCodes))
	for i, code := range osisCodes {
		name, ok := canon.NameByNumber(i + 1)
		if ok {
			m[code] = name
		}
	}
	return m
}()

// verseSelector matches OSIS verse elements carrying an osisID attribute.
var verseSelector = xpath.MustCompile("//verse[@osisID]")

// BulkOSIS normalizes an OSIS-style XML bulk payload. Verses are addressed
// by osisID attributes of the form "Gen.1.1"; elements with unknown book
// codes or unparseable IDs are discarded like any other bad record.
func BulkOSIS(source string, data []byte) (*Corpus, error) {
	doc, err := xmlquery.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewMalformed(source, "OSIS XML", err)
	}

	var verses []verse.Verse
	for _, node := range xmlquery.QuerySelectorAll(doc, verseSelector) {
		name, chapter, number, ok := splitOSISID(node.SelectAttr("osisID"))
		if !ok {
			continue
		}
		text, para := stripMarkers(strings.TrimSpace(node.InnerText()))
		if text == "" {
			continue
		}
		verses = append(verses, verse.Verse{
			Document:       name,
			Chapter:        chapter,
			Number:         number,
			Text:           text,
			ParagraphStart: para,
		})
	}

	if len(verses) == 0 {
		return nil, errors.NewPayload(source, "OSIS XML", "no usable rows")
	}
	return buildCorpus(verses), nil
}

// splitOSISID parses "Book.Chapter.Verse" and resolves the book code to a
// canonical document name.
func splitOSISID(id string) (name string, chapter, number int, ok bool) {
	parts := strings.Split(id, ".")
	if len(parts) != 3 {
		return "", 0, 0, false
	}
	name, ok = osisToName[parts[0]]
	if !ok {
		return "", 0, 0, false
	}
	chapter, err := strconv.Atoi(parts[1])
	if err != nil || chapter < 1 {
		return "", 0, 0, false
	}
	number, err = strconv.Atoi(parts[2])
	if err != nil || number < 1 {
		return "", 0, 0, false
	}
	return name, chapter, number, true
}
