package materialize

import (
	"github.com/bogem/id3v2"

	"github.com/kuwa72/rkbdb2xml/internal/transform"
)

// ID3Writer rewrites the title, artist and album frames of an MP3 file.
//
// Only the frames the transform pipeline touches are replaced; every other
// frame the file carries survives the rewrite.
type ID3Writer struct{}

// WriteTags updates the TIT2, TPE1 and TALB frames in place.
func (ID3Writer) WriteTags(path string, meta transform.Metadata) error {
	tag, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return err
	}
	defer tag.Close()

	tag.SetTitle(meta.Title)
	tag.SetArtist(meta.Artist)
	tag.SetAlbum(meta.Album)

	return tag.Save()
}
