package transform

import (
	"testing"

	"github.com/kuwa72/rkbdb2xml/internal/model"
)

// markerTransliterator wraps the input so tests can see exactly which fields
// were transliterated and how many times.
type markerTransliterator struct{}

func (markerTransliterator) Transliterate(s string) string {
	return "<" + s + ">"
}

func TestApply_RomanizeReplacesFields(t *testing.T) {
	p := NewPipeline(markerTransliterator{})
	track := model.Track{Title: "きのこ帝国", Artist: "タカオマサキ", Album: "TK-Sounds"}

	meta := p.Apply(track, model.ExportOptions{RomanizeTitle: true, RomanizeArtist: true})

	if meta.Title != "<きのこ帝国>" {
		t.Errorf("Title = %q, want transliterated form", meta.Title)
	}
	if meta.Artist != "<タカオマサキ>" {
		t.Errorf("Artist = %q, want transliterated form", meta.Artist)
	}
	// Album flag off: untouched.
	if meta.Album != "TK-Sounds" {
		t.Errorf("Album = %q, want original", meta.Album)
	}
}

func TestApply_BPMPrefix(t *testing.T) {
	p := NewPipeline(nil)

	tests := []struct {
		name  string
		track model.Track
		want  string
	}{
		{"rounded down", model.Track{Title: "Song", BPM: 128.2}, "128 - Song"},
		{"rounded up", model.Track{Title: "Song", BPM: 127.5}, "128 - Song"},
		{"no bpm is a no-op", model.Track{Title: "Song"}, "Song"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := p.Apply(tt.track, model.ExportOptions{AddBPMToTitle: true})
			if meta.Title != tt.want {
				t.Errorf("Title = %q, want %q", meta.Title, tt.want)
			}
		})
	}
}

func TestApply_RomanizeBeforeBPMPrefix(t *testing.T) {
	p := NewPipeline(markerTransliterator{})
	track := model.Track{Title: "曲", BPM: 90}

	meta := p.Apply(track, model.ExportOptions{RomanizeTitle: true, AddBPMToTitle: true})

	if meta.Title != "90 - <曲>" {
		t.Errorf("Title = %q, want prefix applied to the romanized title", meta.Title)
	}
}

func TestApply_IdempotentOnSnapshot(t *testing.T) {
	p := NewPipeline(markerTransliterator{})
	track := model.Track{Title: "曲", Artist: "歌手", BPM: 128}
	opts := model.ExportOptions{RomanizeTitle: true, RomanizeArtist: true, AddBPMToTitle: true}

	once := p.Apply(track, opts)
	twice := p.Apply(track, opts)

	if once != twice {
		t.Errorf("re-applying pipeline changed result: %+v vs %+v", once, twice)
	}
}

func TestApply_DoesNotMutateTrack(t *testing.T) {
	p := NewPipeline(markerTransliterator{})
	track := model.Track{Title: "曲", BPM: 128}

	p.Apply(track, model.ExportOptions{RomanizeTitle: true, AddBPMToTitle: true})

	if track.Title != "曲" {
		t.Errorf("Track snapshot mutated: %q", track.Title)
	}
}

func TestUnidecodeTransliterator(t *testing.T) {
	tr := UnidecodeTransliterator{}

	// ASCII passes through unchanged.
	if got := tr.Transliterate("TEST TRACK"); got != "TEST TRACK" {
		t.Errorf("ASCII input changed: %q", got)
	}

	// Non-Latin input comes back as ASCII.
	got := tr.Transliterate("きのこ帝国")
	for _, r := range got {
		if r > 127 {
			t.Fatalf("Transliterate left non-ASCII rune in %q", got)
		}
	}
	if got == "" {
		t.Error("Transliterate returned empty string")
	}
}
