package model

import "fmt"

// SortOrder determines how a playlist's track listing is ordered in the
// exported document.
type SortOrder int

const (
	// SortDefault preserves the playlist's source order.
	SortDefault SortOrder = iota

	// SortBpmAsc orders by ascending BPM; tracks without a BPM sort last.
	SortBpmAsc

	// SortBpmDesc orders by descending BPM; tracks without a BPM sort last.
	SortBpmDesc

	// SortTitle orders by title, case-insensitively.
	SortTitle

	// SortArtist orders by artist, case-insensitively.
	SortArtist
)

// String returns the settings-file spelling of the sort order.
func (s SortOrder) String() string {
	switch s {
	case SortBpmAsc:
		return "bpm"
	case SortBpmDesc:
		return "bpm-desc"
	case SortTitle:
		return "title"
	case SortArtist:
		return "artist"
	default:
		return "default"
	}
}

// ParseSortOrder parses the settings-file spelling of a sort order.
// The empty string means SortDefault.
func ParseSortOrder(s string) (SortOrder, error) {
	switch s {
	case "", "default":
		return SortDefault, nil
	case "bpm", "bpm-asc":
		return SortBpmAsc, nil
	case "bpm-desc":
		return SortBpmDesc, nil
	case "title":
		return SortTitle, nil
	case "artist":
		return SortArtist, nil
	default:
		return SortDefault, fmt.Errorf("unknown sort order %q", s)
	}
}

// MarshalJSON encodes the sort order as its settings-file spelling.
func (s SortOrder) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// UnmarshalJSON decodes the settings-file spelling of a sort order.
func (s *SortOrder) UnmarshalJSON(data []byte) error {
	str := string(data)
	if len(str) >= 2 && str[0] == '"' && str[len(str)-1] == '"' {
		str = str[1 : len(str)-1]
	}
	parsed, err := ParseSortOrder(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// ExportOptions are the per-playlist export settings.
//
// A playlist without its own record inherits the global default record, and
// the global force flags override both (see config.Settings.OptionsFor).
type ExportOptions struct {
	// SortOrder orders the playlist's track listing in the document.
	SortOrder SortOrder `json:"sort_order,omitempty"`

	// AddBPMToTitle prefixes each track title with its integer-rounded
	// BPM ("128 - Title"). Tracks without a BPM keep their title as is.
	AddBPMToTitle bool `json:"add_bpm_to_title,omitempty"`

	// RomanizeTitle, RomanizeArtist and RomanizeAlbum replace the field
	// with its transliterated form.
	RomanizeTitle  bool `json:"romanize_title,omitempty"`
	RomanizeArtist bool `json:"romanize_artist,omitempty"`
	RomanizeAlbum  bool `json:"romanize_album,omitempty"`
}
