package rekordbox

import (
	"context"

	"github.com/kuwa72/rkbdb2xml/internal/model"
)

// Source reads a DJ library: the playlist tree rows, the playlist-to-track
// listings and the track collection. The export orchestrator depends on this
// interface only, so tests substitute an in-memory implementation.
type Source interface {
	// Playlists returns every playlist and folder row, unordered tree
	// structure encoded through ParentID.
	Playlists(ctx context.Context) ([]model.PlaylistRow, error)

	// PlaylistEntries returns every playlist membership row.
	PlaylistEntries(ctx context.Context) ([]model.PlaylistEntryRow, error)

	// Tracks returns the full track collection with cue points and
	// beatgrid markers attached.
	Tracks(ctx context.Context) ([]model.Track, error)

	// Close releases the underlying resources.
	Close() error
}
