package transform

import (
	"strings"

	"github.com/mozillazg/go-unidecode"
)

// UnidecodeTransliterator is the default Transliterator. It maps any script
// to an ASCII approximation; ASCII input passes through unchanged.
type UnidecodeTransliterator struct{}

// Transliterate returns the ASCII transliteration of s. Unidecode can leave
// stray spacing around syllable boundaries, so runs of whitespace are
// collapsed and the result trimmed.
func (UnidecodeTransliterator) Transliterate(s string) string {
	out := unidecode.Unidecode(s)
	out = strings.Join(strings.Fields(out), " ")
	return out
}
