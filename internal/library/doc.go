// Package library reconstructs the playlist/folder forest from the data
// source's flat rows and resolves user selections against it.
//
// # Tree building
//
// BuildTree turns flat (id, parent, name, folder, seq) rows into an ordered
// forest. Parent links are validated exactly once at build time: a chain
// that does not terminate within the row count is reported as a CycleError,
// and rows whose parent is missing are attached at root level instead of
// being dropped.
//
//	tree, err := library.BuildTree(rows)
//	if err != nil {
//	    var cycle *library.CycleError
//	    if errors.As(err, &cycle) { ... }
//	}
//	tree.AttachTracks(entries)
//
// # Selection
//
// Resolve maps selection tokens (numeric IDs, bare names, or slash-delimited
// paths such as "Party/March/EDM Hits") to the closed set of playlist IDs to
// export. Folders expand to their descendant playlists. Resolution is
// all-or-nothing and refuses to guess: ambiguous names fail with
// AmbiguousSelectionError, unknown tokens with UnknownPlaylistError.
package library
