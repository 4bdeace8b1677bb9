// Package config provides configuration management for the exporter.
//
// This package handles:
//   - Loading and saving settings from JSON files
//   - Default configuration values
//   - Per-playlist transform option resolution
//
// # Default Settings
//
// Use DefaultSettings() to get sensible defaults:
//
//	settings := config.DefaultSettings()
//	// Reads the rekordbox master.db from its standard location
//	// Writes rekordbox.xml next to the working directory
//	// File copying disabled
//
// # Loading from File
//
//	settings, err := config.Load("/path/to/config.json")
//	if err != nil {
//	    // Uses defaults if file doesn't exist
//	}
//
// # Saving Settings
//
//	settings.OutputPath = "/exports/library.xml"
//	err := settings.Save("/path/to/config.json")
//
// # Per-Playlist Options
//
// Transform options resolve per playlist: DefaultOptions applies everywhere,
// PlaylistOptions overrides it for named playlist IDs, and the force flags
// win over both:
//
//	opts := settings.OptionsFor("42")
package config
