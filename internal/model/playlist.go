package model

// PlaylistRow is one flat playlist record as read from the data source.
//
// Rows reference their parent by ID rather than by structure; the library
// package reconstructs the folder/playlist forest from them. Seq is the
// position of the row among its siblings in the source and is the only
// ordering input the tree builder uses.
type PlaylistRow struct {
	// ID is the stable identifier of the playlist or folder.
	ID string

	// ParentID references the containing folder, or is empty for roots.
	ParentID string

	// Name is the display name. Names are not unique across the tree.
	Name string

	// IsFolder reports whether the row is a folder (no tracks of its own).
	IsFolder bool

	// Seq is the source ordering among siblings.
	Seq int
}

// PlaylistNode is a node in the reconstructed playlist forest.
//
// A node is either a folder (IsFolder true, Children populated, no TrackIDs)
// or a playlist (leaf holding an ordered list of track references). The
// forest is built once per export run and treated as read-only afterwards.
type PlaylistNode struct {
	// ID is the stable identifier carried over from the source row.
	ID string

	// Name is the display name.
	Name string

	// IsFolder reports whether this node is a folder.
	IsFolder bool

	// ParentID is the ID of the containing folder, empty for roots.
	ParentID string

	// Children are the child nodes in source order. Only folders have
	// children.
	Children []*PlaylistNode

	// TrackIDs are the ordered track references of a playlist. Folders
	// have none.
	TrackIDs []string
}

// PlaylistEntryRow is one flat playlist-membership record: a track's
// position within a playlist.
type PlaylistEntryRow struct {
	// PlaylistID references the owning playlist.
	PlaylistID string

	// TrackID references the track in the collection.
	TrackID string

	// Seq is the track's position within the playlist.
	Seq int
}
