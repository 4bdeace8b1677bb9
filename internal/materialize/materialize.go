package materialize

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	ioutils "github.com/kuwa72/rkbdb2xml/internal/io"
	"github.com/kuwa72/rkbdb2xml/internal/model"
	"github.com/kuwa72/rkbdb2xml/internal/transform"
)

// TagStatus describes what happened to a materialized file's embedded tags.
type TagStatus int

const (
	// TagUpdated means the file's tags were rewritten to the effective
	// metadata.
	TagUpdated TagStatus = iota

	// TagSkipped means the destination already existed and was reused
	// as-is.
	TagSkipped

	// TagUnsupported means the format has no tag writer; the file was
	// copied with its original tags.
	TagUnsupported

	// TagFailed means the copy succeeded but the tag rewrite did not.
	TagFailed
)

func (s TagStatus) String() string {
	switch s {
	case TagUpdated:
		return "updated"
	case TagSkipped:
		return "skipped"
	case TagUnsupported:
		return "unsupported"
	case TagFailed:
		return "failed"
	default:
		return fmt.Sprintf("TagStatus(%d)", int(s))
	}
}

// MaterializedFile describes one track's copy in the export directory.
type MaterializedFile struct {
	TrackID string

	// SourcePath is the library file the copy was made from.
	SourcePath string

	// Path is the destination file inside the export directory.
	Path string

	// ContentHash is the digest of the source location the destination
	// name is derived from.
	ContentHash string

	// Copied is false when an existing destination was reused.
	Copied bool

	TagStatus TagStatus

	// TagErr holds the tag rewrite failure when TagStatus is TagFailed.
	TagErr error
}

// TagWriter rewrites a file's embedded metadata in place.
type TagWriter interface {
	WriteTags(path string, meta transform.Metadata) error
}

// Materializer copies track files into a flat export directory and rewrites
// their tags to the effective metadata.
//
// Destination names are the SHA-256 digest of the source location plus the
// source extension, so re-running an export maps every track to the same
// file and already-present copies are skipped.
type Materializer struct {
	dir       string
	overwrite bool
	writers   map[string]TagWriter
}

// New returns a Materializer writing into dir. With overwrite set, existing
// destination files are recopied and retagged instead of reused.
func New(dir string, overwrite bool) *Materializer {
	return &Materializer{
		dir:       dir,
		overwrite: overwrite,
		writers: map[string]TagWriter{
			".mp3":  ID3Writer{},
			".flac": FlacWriter{},
			".m4a":  MP4Writer{},
		},
	}
}

// Dir returns the export directory.
func (m *Materializer) Dir() string {
	return m.dir
}

// Materialize copies one track into the export directory. A returned error
// means no usable copy exists for the track; tag rewrite problems are not
// errors and are reported through TagStatus instead, since the copied audio
// is still playable.
func (m *Materializer) Materialize(ctx context.Context, track model.Track, meta transform.Metadata) (MaterializedFile, error) {
	out := MaterializedFile{TrackID: track.ID, SourcePath: track.Location}

	if track.Location == "" {
		return out, fmt.Errorf("track %s has no source location", track.ID)
	}
	if !ioutils.FileExists(track.Location) {
		return out, fmt.Errorf("source file missing: %s", track.Location)
	}

	out.ContentHash = ioutils.HashString(track.Location)
	ext := strings.ToLower(filepath.Ext(track.Location))
	out.Path = filepath.Join(m.dir, out.ContentHash+ext)

	if !m.overwrite && ioutils.FileExists(out.Path) {
		out.TagStatus = TagSkipped
		return out, nil
	}

	if err := ioutils.EnsureDir(m.dir); err != nil {
		return out, fmt.Errorf("create export directory: %w", err)
	}
	if err := ioutils.CopyFile(ctx, track.Location, out.Path); err != nil {
		os.Remove(out.Path)
		return out, fmt.Errorf("copy %s: %w", track.Location, err)
	}
	out.Copied = true

	writer, ok := m.writers[ext]
	if !ok {
		out.TagStatus = TagUnsupported
		return out, nil
	}
	if err := writer.WriteTags(out.Path, meta); err != nil {
		out.TagStatus = TagFailed
		out.TagErr = err
		return out, nil
	}
	out.TagStatus = TagUpdated
	return out, nil
}
