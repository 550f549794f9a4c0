// Package slug is the identifier-normalisation seam. Every place the
// publisher needs to turn free text (a note title, an image name, a section
// heading) into a stable output identifier goes through a Func, so the
// normalisation policy can be swapped without touching the engine.
package slug

import (
	"strings"
	"unicode"

	goslug "github.com/goliatone/go-slug"
)

// Func turns arbitrary text into a slug. Implementations must be pure,
// deterministic, and total: any input, including empty or non-ASCII text,
// yields a result without error.
type Func func(string) string

// Default returns the normaliser used when configuration does not supply
// one. It delegates to go-slug and falls back to Basic on the rare input
// go-slug rejects.
func Default() Func {
	return func(s string) string {
		out, err := goslug.Normalize(s)
		if err != nil {
			return Basic(s)
		}
		return out
	}
}

// Basic lower-cases, maps runs of non-alphanumeric runes to single hyphens,
// and trims leading/trailing hyphens.
func Basic(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
			continue
		}
		if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}
