package transform

import (
	"sort"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/kuwa72/rkbdb2xml/internal/model"
)

// SortTracks returns a new slice with the playlist's tracks in the given
// order. The input is never reordered in place.
//
// BpmAsc and BpmDesc compare numeric BPM with unknown BPM (0) sorting last
// in both directions; Title and Artist compare case-insensitively. All
// orders are stable: ties keep the playlist's source order.
func SortTracks(tracks []model.Track, order model.SortOrder) []model.Track {
	sorted := make([]model.Track, len(tracks))
	copy(sorted, tracks)

	switch order {
	case model.SortBpmAsc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return bpmLess(sorted[i].BPM, sorted[j].BPM, false)
		})
	case model.SortBpmDesc:
		sort.SliceStable(sorted, func(i, j int) bool {
			return bpmLess(sorted[i].BPM, sorted[j].BPM, true)
		})
	case model.SortTitle:
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Title, sorted[j].Title) < 0
		})
	case model.SortArtist:
		c := collate.New(language.Und, collate.IgnoreCase)
		sort.SliceStable(sorted, func(i, j int) bool {
			return c.CompareString(sorted[i].Artist, sorted[j].Artist) < 0
		})
	}

	return sorted
}

// bpmLess orders known BPMs numerically and pushes unknown (0) BPMs to the
// end regardless of direction.
func bpmLess(a, b float64, desc bool) bool {
	if a == 0 || b == 0 {
		return b == 0 && a != 0
	}
	if desc {
		return a > b
	}
	return a < b
}
