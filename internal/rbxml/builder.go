package rbxml

import (
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/kuwa72/rkbdb2xml/internal/library"
	"github.com/kuwa72/rkbdb2xml/internal/model"
	"github.com/kuwa72/rkbdb2xml/internal/transform"
)

// Vendor constants stamped into the PRODUCT element.
const (
	documentVersion = "1.0.0"
	productName     = "rekordbox"
	productCompany  = "AlphaTheta"

	// DefaultProductVersion is used when no version is configured.
	DefaultProductVersion = "6.8.0"
)

// BuildInput carries everything the builder needs to assemble a document.
// All ordering decisions are made upstream: Playlists is the selected
// playlist set in document order and Listings holds each playlist's final
// track order.
type BuildInput struct {
	Tree      *library.Tree
	Playlists []string
	Listings  map[string][]string

	// Tracks holds every track referenced by a listing, keyed by ID.
	Tracks map[string]model.Track

	// Meta holds the effective (transformed) metadata per track ID.
	Meta map[string]transform.Metadata

	// Locations optionally overrides a track's file location, keyed by
	// track ID. Tracks without an override keep their source location.
	Locations map[string]string
}

// Builder assembles Documents from resolved export state.
type Builder struct {
	productVersion string
}

// NewBuilder returns a Builder stamping the given product version into the
// output. An empty version falls back to DefaultProductVersion.
func NewBuilder(productVersion string) *Builder {
	if productVersion == "" {
		productVersion = DefaultProductVersion
	}
	return &Builder{productVersion: productVersion}
}

// Build assembles the document. The same input always yields the same
// document: the collection lists tracks in first-appearance order across the
// selected playlists, and the playlist tree mirrors the source tree with
// unselected playlists and emptied folders pruned.
func (b *Builder) Build(in BuildInput) *Document {
	doc := &Document{
		Version: documentVersion,
		Product: Product{
			Name:    productName,
			Version: b.productVersion,
			Company: productCompany,
		},
	}

	selected := make(map[string]bool, len(in.Playlists))
	for _, id := range in.Playlists {
		selected[id] = true
	}

	seen := make(map[string]bool)
	for _, id := range in.Playlists {
		for _, trackID := range in.Listings[id] {
			if seen[trackID] {
				continue
			}
			seen[trackID] = true
			tr, ok := in.Tracks[trackID]
			if !ok {
				continue
			}
			doc.Collection.Tracks = append(doc.Collection.Tracks, b.trackEntry(tr, in.Meta[trackID], in.Locations[trackID]))
		}
	}
	doc.Collection.Entries = len(doc.Collection.Tracks)

	root := Node{Name: "ROOT", Type: nodeTypeFolder}
	for _, n := range in.Tree.Roots {
		if child, ok := buildNode(n, selected, in.Listings); ok {
			root.Nodes = append(root.Nodes, child)
		}
	}
	root.Count = fmt.Sprintf("%d", len(root.Nodes))
	doc.Playlists.Root = root

	return doc
}

// buildNode converts one source tree node. Playlists outside the selection
// and folders left without any selected descendant report ok=false and are
// omitted from the document.
func buildNode(n *model.PlaylistNode, selected map[string]bool, listings map[string][]string) (Node, bool) {
	if n.IsFolder {
		out := Node{Name: n.Name, Type: nodeTypeFolder}
		for _, child := range n.Children {
			if c, ok := buildNode(child, selected, listings); ok {
				out.Nodes = append(out.Nodes, c)
			}
		}
		if len(out.Nodes) == 0 {
			return Node{}, false
		}
		out.Count = fmt.Sprintf("%d", len(out.Nodes))
		return out, true
	}

	if !selected[n.ID] {
		return Node{}, false
	}
	out := Node{
		Name:    n.Name,
		Type:    nodeTypePlaylist,
		KeyType: "0",
		Entries: fmt.Sprintf("%d", len(listings[n.ID])),
	}
	for _, trackID := range listings[n.ID] {
		out.Tracks = append(out.Tracks, TrackKey{Key: trackID})
	}
	return out, true
}

func (b *Builder) trackEntry(tr model.Track, meta transform.Metadata, location string) Track {
	if location == "" {
		location = tr.Location
	}
	out := Track{
		TrackID:     tr.ID,
		Name:        meta.Title,
		Artist:      meta.Artist,
		Composer:    tr.Composer,
		Album:       meta.Album,
		Grouping:    tr.Grouping,
		Genre:       tr.Genre,
		Kind:        tr.Kind,
		Size:        tr.Size,
		TotalTime:   tr.TotalTime,
		DiscNumber:  tr.DiscNumber,
		TrackNumber: tr.TrackNumber,
		Year:        tr.Year,
		DateAdded:   tr.DateAdded,
		BitRate:     tr.BitRate,
		SampleRate:  tr.SampleRate,
		Comments:    tr.Comments,
		PlayCount:   tr.PlayCount,
		Rating:      tr.Rating,
		Remixer:     tr.Remixer,
		Tonality:    tr.Tonality,
		Label:       tr.Label,
		Mix:         tr.Mix,
		Location:    FormatLocation(location),
	}
	if tr.BPM > 0 {
		out.AverageBpm = formatBpm(tr.BPM)
	}

	// Markers are emitted in ascending position order regardless of how the
	// source delivered them; ties keep source order.
	marks := append([]model.BeatMark(nil), tr.BeatGrid...)
	sort.SliceStable(marks, func(i, j int) bool {
		return marks[i].PositionMs < marks[j].PositionMs
	})
	for _, mark := range marks {
		out.Tempos = append(out.Tempos, Tempo{
			Inizio:  formatSeconds(mark.PositionMs),
			Bpm:     formatBpm(mark.BPM),
			Metro:   "4/4",
			Battito: mark.BeatNumber,
		})
	}

	cues := append([]model.CuePoint(nil), tr.CuePoints...)
	sort.SliceStable(cues, func(i, j int) bool {
		return cues[i].PositionMs < cues[j].PositionMs
	})
	for _, cue := range cues {
		out.PositionMarks = append(out.PositionMarks, PositionMark{
			Name:  cue.Comment,
			Type:  cue.Type,
			Start: formatSeconds(cue.PositionMs),
			Num:   cue.Num,
		})
	}
	return out
}

// FormatLocation renders a track's absolute file path as the vendor's
// file://localhost URL with percent-escaped path segments. Locations that
// are already file URLs pass through unchanged.
func FormatLocation(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	u := url.URL{Scheme: "file", Host: "localhost", Path: path}
	return u.String()
}

// formatBpm renders a tempo with exactly two decimals.
func formatBpm(bpm float64) string {
	return fmt.Sprintf("%.2f", bpm)
}

// formatSeconds renders a millisecond offset as seconds with exactly three
// decimals.
func formatSeconds(positionMs float64) string {
	return fmt.Sprintf("%.3f", positionMs/1000)
}
