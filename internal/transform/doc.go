// Package transform computes per-track effective metadata and playlist
// track ordering for the export.
//
// The Pipeline is pure: it takes an immutable Track snapshot plus an
// ExportOptions record and returns a new Metadata value. Because it never
// reads previously transformed output, applying it twice with the same
// options yields the same result as applying it once: titles are never
// double-prefixed and text is never double-transliterated.
//
// Sorting is deliberately separate from the pipeline: the orchestrator
// applies SortTracks when building each playlist's listing, so the same
// track can appear in differently ordered playlists.
package transform
