package search

import "strings"

// maxQueryTokens caps how many query tokens participate in matching.
const maxQueryTokens = 5

// Tokenize splits a query into at most five whitespace-delimited tokens,
// case-folded exactly the way verse text is folded during matching so a
// token always matches its own spelling. An empty result means the query
// matches nothing.
func Tokenize(query string) []string {
	fields := strings.Fields(query)
	if len(fields) > maxQueryTokens {
		fields = fields[:maxQueryTokens]
	}
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		tokens = append(tokens, lowerASCII(f))
	}
	return tokens
}

// lowerASCII lowercases ASCII letters byte-wise, preserving byte offsets so
// match positions in the folded string map directly onto the original.
func lowerASCII(s string) string {
	hasUpper := false
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			hasUpper = true
			break
		}
	}
	if !hasUpper {
		return s
	}
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// matches reports whether every token occurs as a case-insensitive
// substring of the verse text. Conjunctive, order-independent, no stemming.
func matches(text string, tokens []string) bool {
	folded := lowerASCII(text)
	for _, tok := range tokens {
		if !strings.Contains(folded, lowerASCII(tok)) {
			return false
		}
	}
	return true
}
