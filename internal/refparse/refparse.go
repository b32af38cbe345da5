// Package refparse parses free-text scripture references of the form
// "<book-token> <chapter>[:<verse>]" into store addresses. Book tokens run
// through a small alias table and then the store's document-name resolver;
// chapter numbers are clamped into the document's valid range.
package refparse

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"

	"github.com/FocuswithJustin/Lectern/core/errors"
)

// Reference is a resolved scripture address.
type Reference struct {
	Document string
	Chapter  int
	Verse    int // 0 when the reference names no verse
}

// Resolver resolves book tokens and bounds chapters. *store.Store satisfies it.
type Resolver interface {
	ResolveDocumentName(query string) (string, bool)
	ChapterCount(name string) int
}

// rawRef is the participle grammar. Range tails ("1:1-5") are parsed so
// they do not fail the whole reference, but only the start point resolves.
type rawRef struct {
	Book       string `parser:"@Book"`
	Chapter    *int   `parser:"( @Number"`
	Verse      *int   `parser:"( ':' @Number )?"`
	EndChapter *int   `parser:"( '-' @Number"`
	EndVerse   *int   `parser:"( ':' @Number )? )? )?"`
}

// referenceLexer tokenizes scripture references.
var referenceLexer = lexer.MustSimple([]lexer.SimpleRule{
	// Book names: letters, optional leading ordinal digit, optional
	// trailing period. Examples: Genesis, Gen., 1John, 1 John, Song of Solomon
	{Name: "Book", Pattern: `(?:\d\s*)?[A-Za-z]+(?:\s+(?:of\s+)?[A-Za-z]+)*\.?`},
	// Numbers (chapter/verse)
	{Name: "Number", Pattern: `\d+`},
	// Separators
	{Name: "Colon", Pattern: `:`},
	{Name: "Dash", Pattern: `-`},
	// Whitespace
	{Name: "Whitespace", Pattern: `\s+`},
})

// referenceParser parses scripture references.
var referenceParser = participle.MustBuild[rawRef](
	participle.Lexer(referenceLexer),
	participle.Elide("Whitespace"),
)

// aliases maps common abbreviations (lowercase, space-folded) to a query
// the document-name resolver will land on. Anything absent here is handed
// to the resolver as typed.
var aliases = map[string]string{
	"gen": "Genesis", "ex": "Exodus", "exo": "Exodus", "exod": "Exodus",
	"lev": "Leviticus", "num": "Numbers", "deut": "Deuteronomy",
	"deu": "Deuteronomy", "josh": "Joshua", "judg": "Judges",
	"1sam": "1 Samuel", "2sam": "2 Samuel", "1kgs": "1 Kings",
	"2kgs": "2 Kings", "1chr": "1 Chronicles", "2chr": "2 Chronicles",
	"neh": "Nehemiah", "esth": "Esther", "ps": "Psalms", "psa": "Psalms",
	"psalm": "Psalms", "prov": "Proverbs", "eccl": "Ecclesiastes",
	"song": "Song of Solomon", "sos": "Song of Solomon",
	"songofsongs": "Song of Solomon", "canticles": "Song of Solomon",
	"isa": "Isaiah", "jer": "Jeremiah", "lam": "Lamentations",
	"ezek": "Ezekiel", "eze": "Ezekiel", "dan": "Daniel", "hos": "Hosea",
	"obad": "Obadiah", "jon": "Jonah", "mic": "Micah", "nah": "Nahum",
	"hab": "Habakkuk", "zeph": "Zephaniah", "hag": "Haggai",
	"zech": "Zechariah", "mal": "Malachi",
	"matt": "Matthew", "mat": "Matthew", "mt": "Matthew",
	"mk": "Mark", "mrk": "Mark", "lk": "Luke", "luk": "Luke",
	"jn": "John", "jhn": "John", "joh": "John",
	"rom": "Romans", "1cor": "1 Corinthians", "2cor": "2 Corinthians",
	"gal": "Galatians", "eph": "Ephesians", "phil": "Philippians",
	"col": "Colossians", "1thess": "1 Thessalonians",
	"2thess": "2 Thessalonians", "1tim": "1 Timothy", "2tim": "2 Timothy",
	"tit": "Titus", "phlm": "Philemon", "phm": "Philemon",
	"heb": "Hebrews", "jas": "James", "1pet": "1 Peter", "2pet": "2 Peter",
	"1jn": "1 John", "2jn": "2 John", "3jn": "3 John",
	"rev": "Revelation",
}

// Parse resolves a free-text reference against the resolver. Returns an
// UnresolvableReference error when the book token matches nothing; bad
// chapter/verse numbers clamp instead of failing.
func Parse(input string, r Resolver) (*Reference, error) {
	normalized := normalizeSeparators(strings.TrimSpace(input))
	if normalized == "" {
		return nil, errors.NewReference(input, "")
	}

	raw, err := referenceParser.ParseString("", normalized)
	if err != nil {
		return nil, errors.Wrap(errors.NewReference(input, ""), err.Error())
	}

	token := strings.TrimSuffix(strings.TrimSpace(raw.Book), ".")
	doc, ok := resolveBook(token, r)
	if !ok {
		return nil, errors.NewReference(input, token)
	}

	ref := &Reference{Document: doc, Chapter: 1}
	if raw.Chapter != nil {
		ref.Chapter = *raw.Chapter
	}
	if raw.Verse != nil && *raw.Verse >= 1 {
		ref.Verse = *raw.Verse
	}

	// Clamp the chapter into the document's valid range.
	if max := r.ChapterCount(doc); ref.Chapter > max {
		ref.Chapter = max
	}
	if ref.Chapter < 1 {
		ref.Chapter = 1
	}
	return ref, nil
}

// resolveBook runs the token through the alias table and the resolver.
func resolveBook(token string, r Resolver) (string, bool) {
	folded := strings.ToLower(strings.Join(strings.Fields(token), ""))
	if expansion, ok := aliases[folded]; ok {
		token = expansion
	}
	return r.ResolveDocumentName(token)
}

// normalizeSeparators converts dot separators to the standard form:
// "Gen.3.16" and "Gen 3.16" both become "Gen 3:16".
func normalizeSeparators(input string) string {
	parts := strings.Split(input, ".")
	if len(parts) < 2 {
		return input
	}

	rest := parts[1:]
	for _, p := range rest {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		for _, c := range p {
			if c < '0' || c > '9' {
				// A dot inside the book name ("Gen. 3:16"): not a
				// separator chain, leave the input alone.
				return input
			}
		}
	}

	if len(rest) == 1 {
		return parts[0] + " " + rest[0]
	}
	return parts[0] + " " + rest[0] + ":" + strings.Join(rest[1:], ":")
}
