// Package embedded carries the inline sample corpus compiled into the
// binary. It is the first initialization source tried by the document
// store: a payload that needs no network access at all.
package embedded

import _ "embed"

//go:embed corpus.json
var corpus []byte

// Corpus returns a copy of the embedded bulk payload.
func Corpus() []byte {
	return append([]byte(nil), corpus...)
}
