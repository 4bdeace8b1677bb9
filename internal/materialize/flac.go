package materialize

import (
	"strings"

	"github.com/go-flac/flacvorbis"
	flac "github.com/go-flac/go-flac"

	"github.com/kuwa72/rkbdb2xml/internal/transform"
)

// FlacWriter rewrites the TITLE, ARTIST and ALBUM Vorbis comments of a FLAC
// file, preserving all other comments and metadata blocks.
type FlacWriter struct{}

// Comments rewritten from the effective metadata.
var managedComments = map[string]bool{
	"TITLE":  true,
	"ARTIST": true,
	"ALBUM":  true,
}

// WriteTags replaces the managed Vorbis comments in place.
func (FlacWriter) WriteTags(path string, meta transform.Metadata) error {
	flacFile, err := flac.ParseFile(path)
	if err != nil {
		return err
	}

	comment := flacvorbis.New()
	blocks := make([]*flac.MetaDataBlock, 0, len(flacFile.Meta))
	for _, block := range flacFile.Meta {
		if block.Type != flac.VorbisComment {
			blocks = append(blocks, block)
			continue
		}
		parsed, err := flacvorbis.ParseFromMetaDataBlock(*block)
		if err != nil {
			blocks = append(blocks, block)
			continue
		}
		comment.Vendor = parsed.Vendor
		for _, entry := range parsed.Comments {
			split := strings.SplitN(entry, "=", 2)
			if len(split) == 2 && managedComments[strings.ToUpper(split[0])] {
				continue
			}
			comment.Comments = append(comment.Comments, entry)
		}
	}

	if err := comment.Add(flacvorbis.FIELD_TITLE, meta.Title); err != nil {
		return err
	}
	if err := comment.Add(flacvorbis.FIELD_ARTIST, meta.Artist); err != nil {
		return err
	}
	if err := comment.Add(flacvorbis.FIELD_ALBUM, meta.Album); err != nil {
		return err
	}

	commentBlock := comment.Marshal()
	flacFile.Meta = append(blocks, &commentBlock)

	return flacFile.Save(path)
}
