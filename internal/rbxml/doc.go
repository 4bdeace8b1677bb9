// Package rbxml assembles and serializes the vendor XML document.
//
// The document layout mirrors the XML the DJ application itself exports:
// DJ_PLAYLISTS wrapping a PRODUCT stamp, a flat COLLECTION of TRACK entries
// with TEMPO and POSITION_MARK children, and a PLAYLISTS tree of NODE
// elements referencing collection tracks by key.
//
// Serialization is deterministic: equal inputs produce byte-identical
// output. Numeric attributes use fixed precision (two decimals for tempo,
// three for second offsets) so repeated exports of an unchanged library
// diff clean.
package rbxml
