// Package materialize copies exported track files into a flat directory and
// rewrites their embedded tags to match the transformed metadata.
//
// Destination names are content-hash based: the SHA-256 digest of the
// source location plus the original extension. The mapping is stable, so a
// re-run skips files that are already present instead of copying them
// again.
//
// Tag rewriting is per-format: ID3v2 for MP3, Vorbis comments for FLAC and
// ilst items for M4A. Formats without a writer are copied unchanged and
// reported as unsupported rather than failing the track.
package materialize
