package search

import "strings"

// htmlEscaper escapes the four HTML-sensitive characters in verse text
// before highlight markers are inserted.
var htmlEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
)

// Highlight builds the preview for a matched verse: the raw text is
// HTML-escaped, then every case-insensitive occurrence of every token is
// wrapped in <mark> markers. Tokens apply in original order; a token
// landing inside an earlier token's match produces nested marks, which is
// accepted and not deduplicated.
func Highlight(text string, tokens []string) string {
	marked := htmlEscaper.Replace(text)
	for _, tok := range tokens {
		if tok == "" {
			continue
		}
		marked = markToken(marked, tok)
	}
	return marked
}

// markToken wraps occurrences of one token in <mark> tags. Spans between
// '<' and '>' are copied verbatim so marks from earlier tokens stay intact.
func markToken(s, token string) string {
	folded := lowerASCII(s)
	tok := lowerASCII(token)

	var b strings.Builder
	i := 0
	for i < len(s) {
		if s[i] == '<' {
			end := strings.IndexByte(s[i:], '>')
			if end < 0 {
				b.WriteString(s[i:])
				return b.String()
			}
			b.WriteString(s[i : i+end+1])
			i += end + 1
			continue
		}
		if strings.HasPrefix(folded[i:], tok) {
			b.WriteString("<mark>")
			b.WriteString(s[i : i+len(tok)])
			b.WriteString("</mark>")
			i += len(tok)
			continue
		}
		b.WriteByte(s[i])
		i++
	}
	return b.String()
}
