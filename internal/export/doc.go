// Package export orchestrates the full library-to-XML pipeline.
//
// The Manager walks a fixed phase sequence: loading the database,
// resolving the playlist selection, transforming metadata, optionally
// materializing file copies, then serializing the document. Progress is
// pushed through a callback so the CLI and the TUI render the same events
// their own way.
//
// Failure semantics are two-tier. Anything that would make the document
// wrong as a whole (an unreadable database, a bad selection token, an
// output conflict) fails the run before the file is written. Per-track
// problems during materialization only produce warnings: the track is
// dropped from the document and the export finishes.
package export
