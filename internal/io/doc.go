// Package ioutils provides file system utilities.
//
// This package contains functions for:
//   - File copying
//   - Content hashing for stable destination names
//   - Directory creation
//
// # File Operations
//
//	// Copy a file
//	err := ioutils.CopyFile(ctx, "/library/file.mp3", "/export/files/ab12cd.mp3")
//
//	// Ensure directory exists
//	err := ioutils.EnsureDir("/export/files")
//
// # Hashing
//
// Use HashString to derive a stable destination name from a source path:
//
//	name := ioutils.HashString("/library/track.mp3") + ".mp3"
package ioutils
