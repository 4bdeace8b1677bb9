// Package model defines the core data structures shared across the
// rkbdb2xml export pipeline.
//
// # Flat rows and snapshots
//
// The data source exposes flat, parent-referencing rows (PlaylistRow,
// PlaylistEntryRow) plus Track snapshots with cue points and beatgrid
// markers already attached. The library package turns playlist rows into a
// PlaylistNode forest. Everything in this package is treated as an
// immutable snapshot for the duration of one export run.
//
// # Options
//
// ExportOptions carries the per-playlist export settings (sort order, BPM
// title prefix, romanization flags). Resolution against global defaults and
// force flags happens in the config package.
package model
