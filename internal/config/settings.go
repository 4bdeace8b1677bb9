package config

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/kuwa72/rkbdb2xml/internal/model"
)

// Settings holds all configuration options.
type Settings struct {
	// Library settings
	DatabasePath string `json:"database_path"`

	// Output settings
	OutputPath string `json:"output_path"`
	Overwrite  bool   `json:"overwrite"`

	// File export settings
	CopyFiles           bool   `json:"copy_files"`
	FilesDir            string `json:"files_dir"`
	MaxConcurrentCopies int    `json:"max_concurrent_copies"`

	// XML settings
	ProductVersion string `json:"product_version"`

	// Playlist selection, comma-separated tokens. Empty exports everything.
	Playlists string `json:"playlists"`

	// Transform settings
	DefaultOptions  model.ExportOptions            `json:"default_options"`
	PlaylistOptions map[string]model.ExportOptions `json:"playlist_options,omitempty"`

	// Force flags override every per-playlist setting.
	ForceRomanize bool `json:"force_romanize"`
	ForceAddBPM   bool `json:"force_add_bpm"`
}

// DefaultSettings returns settings with default values.
func DefaultSettings() *Settings {
	homeDir, _ := os.UserHomeDir()
	return &Settings{
		DatabasePath: filepath.Join(homeDir, "Library", "Pioneer", "rekordbox", "master.db"),
		OutputPath:   "rekordbox.xml",
		Overwrite:    false,

		CopyFiles:           false,
		FilesDir:            "files",
		MaxConcurrentCopies: 4,

		ProductVersion: "6.8.0",
	}
}

// Load reads settings from a JSON file. A missing file yields the defaults.
func Load(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return DefaultSettings(), nil
		}
		return nil, err
	}

	settings := DefaultSettings()
	if err := json.Unmarshal(data, settings); err != nil {
		return nil, err
	}

	return settings, nil
}

// Save writes settings to a JSON file.
func (s *Settings) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// OptionsFor returns the effective transform options for one playlist.
//
// Precedence, lowest to highest: DefaultOptions, the playlist's entry in
// PlaylistOptions, then the force flags.
func (s *Settings) OptionsFor(playlistID string) model.ExportOptions {
	opts := s.DefaultOptions
	if per, ok := s.PlaylistOptions[playlistID]; ok {
		opts = per
	}
	if s.ForceRomanize {
		opts.RomanizeTitle = true
		opts.RomanizeArtist = true
		opts.RomanizeAlbum = true
	}
	if s.ForceAddBPM {
		opts.AddBPMToTitle = true
	}
	return opts
}
