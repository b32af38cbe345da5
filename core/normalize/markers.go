package normalize

import "strings"

// Leading markers stripped from verse text. A pilcrow marks a new paragraph
// in several source dumps; a hash marks a heading line folded into the verse.
const (
	pilcrow       = "¶"
	headingMarker = "#"
)

// stripMarkers removes leading paragraph/heading markup from verse text and
// reports whether the verse opens a new rendering paragraph.
func stripMarkers(text string) (string, bool) {
	s := strings.TrimSpace(text)
	para := false
	for {
		switch {
		case strings.HasPrefix(s, pilcrow):
			s = strings.TrimSpace(strings.TrimPrefix(s, pilcrow))
			para = true
		case strings.HasPrefix(s, headingMarker):
			s = strings.TrimSpace(strings.TrimLeft(s, headingMarker))
			para = true
		default:
			return s, para
		}
	}
}
