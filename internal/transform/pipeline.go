package transform

import (
	"fmt"
	"math"

	"github.com/kuwa72/rkbdb2xml/internal/model"
)

// Metadata is a track's effective metadata after applying the per-playlist
// transforms. It is always derived from the original Track snapshot, never
// from a previous Metadata, which is what makes re-application with the same
// options a no-op.
type Metadata struct {
	Title  string
	Artist string
	Album  string

	// BPM is carried through unchanged, 0 when the track has none.
	BPM float64
}

// Transliterator converts text to a Latin-script representation. The
// default implementation is UnidecodeTransliterator; callers may inject
// their own (tests use a marker implementation).
type Transliterator interface {
	Transliterate(s string) string
}

// Pipeline computes effective metadata for tracks.
//
// The transform order is fixed: romanization first, then the BPM title
// prefix, so a romanized title is what receives the prefix.
type Pipeline struct {
	translit Transliterator
}

// NewPipeline creates a Pipeline. A nil transliterator selects
// UnidecodeTransliterator.
func NewPipeline(translit Transliterator) *Pipeline {
	if translit == nil {
		translit = UnidecodeTransliterator{}
	}
	return &Pipeline{translit: translit}
}

// Apply computes the track's effective metadata under the given options.
//
// Romanization, where enabled, replaces the field with its transliterated
// form. The BPM prefix rewrites the title to "<rounded-bpm> - <title>" and
// is skipped when the track has no BPM.
func (p *Pipeline) Apply(track model.Track, opts model.ExportOptions) Metadata {
	meta := Metadata{
		Title:  track.Title,
		Artist: track.Artist,
		Album:  track.Album,
		BPM:    track.BPM,
	}

	if opts.RomanizeTitle {
		meta.Title = p.translit.Transliterate(meta.Title)
	}
	if opts.RomanizeArtist {
		meta.Artist = p.translit.Transliterate(meta.Artist)
	}
	if opts.RomanizeAlbum {
		meta.Album = p.translit.Transliterate(meta.Album)
	}

	if opts.AddBPMToTitle && track.BPM > 0 {
		meta.Title = fmt.Sprintf("%d - %s", int(math.Round(track.BPM)), meta.Title)
	}

	return meta
}
