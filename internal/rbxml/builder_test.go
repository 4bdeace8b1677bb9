package rbxml

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kuwa72/rkbdb2xml/internal/library"
	"github.com/kuwa72/rkbdb2xml/internal/model"
	"github.com/kuwa72/rkbdb2xml/internal/transform"
)

// buildInput assembles a small library: a "House" folder holding two
// playlists that share one track, plus an unselected playlist.
//
//	ROOT
//	├── House (folder)
//	│   ├── Warmup   (selected: t1, t2)
//	│   └── Peak     (selected: t2, t3)
//	└── Archive      (not selected)
func buildInput(t *testing.T) BuildInput {
	t.Helper()

	tree, err := library.BuildTree([]model.PlaylistRow{
		{ID: "10", Name: "House", IsFolder: true, Seq: 1},
		{ID: "11", ParentID: "10", Name: "Warmup", Seq: 1},
		{ID: "12", ParentID: "10", Name: "Peak", Seq: 2},
		{ID: "13", Name: "Archive", Seq: 2},
	})
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	tracks := map[string]model.Track{
		"t1": {
			ID:       "t1",
			Title:    "Opener",
			Artist:   "Some DJ",
			BPM:      122.5,
			Location: "/Users/dj/Music/opener.mp3",
			BeatGrid: []model.BeatMark{{PositionMs: 25, BPM: 122.5, BeatNumber: 1}},
			CuePoints: []model.CuePoint{
				{PositionMs: 1500, Type: 0, Num: -1, Comment: "drop"},
			},
		},
		"t2": {ID: "t2", Title: "Shared", Location: "/Users/dj/Music/shared.flac"},
		"t3": {ID: "t3", Title: "Closer", BPM: 126, Location: "/Users/dj/Music/closer.m4a"},
	}
	meta := make(map[string]transform.Metadata, len(tracks))
	for id, tr := range tracks {
		meta[id] = transform.Metadata{Title: tr.Title, Artist: tr.Artist, Album: tr.Album, BPM: tr.BPM}
	}

	return BuildInput{
		Tree:      tree,
		Playlists: []string{"11", "12"},
		Listings: map[string][]string{
			"11": {"t1", "t2"},
			"12": {"t2", "t3"},
		},
		Tracks: tracks,
		Meta:   meta,
	}
}

func TestBuild_Deterministic(t *testing.T) {
	b := NewBuilder("")

	first, err := Marshal(b.Build(buildInput(t)))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	second, err := Marshal(b.Build(buildInput(t)))
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Error("two builds of the same input serialized differently")
	}
}

func TestBuild_CollectionFirstAppearanceOrder(t *testing.T) {
	doc := NewBuilder("").Build(buildInput(t))

	if doc.Collection.Entries != 3 {
		t.Fatalf("Entries = %d, want 3", doc.Collection.Entries)
	}
	want := []string{"t1", "t2", "t3"}
	for i, tr := range doc.Collection.Tracks {
		if tr.TrackID != want[i] {
			t.Errorf("collection[%d] = %s, want %s", i, tr.TrackID, want[i])
		}
	}
}

func TestBuild_PlaylistTree(t *testing.T) {
	doc := NewBuilder("").Build(buildInput(t))

	root := doc.Playlists.Root
	if root.Name != "ROOT" || root.Count != "1" {
		t.Fatalf("root = %+v, want ROOT with one child", root)
	}

	// "Archive" is unselected, so only the House folder survives.
	house := root.Nodes[0]
	if house.Name != "House" || house.Type != nodeTypeFolder || house.Count != "2" {
		t.Fatalf("folder node = %+v", house)
	}

	warmup := house.Nodes[0]
	if warmup.Name != "Warmup" || warmup.Type != nodeTypePlaylist || warmup.Entries != "2" {
		t.Fatalf("playlist node = %+v", warmup)
	}
	if warmup.Tracks[0].Key != "t1" || warmup.Tracks[1].Key != "t2" {
		t.Errorf("playlist keys = %+v, want t1, t2", warmup.Tracks)
	}
}

func TestBuild_EmptyFolderOmitted(t *testing.T) {
	in := buildInput(t)
	// Deselect everything under House; the folder must disappear too.
	in.Playlists = nil

	doc := NewBuilder("").Build(in)

	if len(doc.Playlists.Root.Nodes) != 0 {
		t.Errorf("root children = %+v, want none", doc.Playlists.Root.Nodes)
	}
	if doc.Collection.Entries != 0 {
		t.Errorf("Entries = %d, want 0", doc.Collection.Entries)
	}
}

func TestBuild_TrackFormatting(t *testing.T) {
	doc := NewBuilder("7.0.1").Build(buildInput(t))

	if doc.Version != "1.0.0" {
		t.Errorf("document Version = %q", doc.Version)
	}
	if doc.Product.Name != "rekordbox" || doc.Product.Company != "AlphaTheta" || doc.Product.Version != "7.0.1" {
		t.Errorf("product = %+v", doc.Product)
	}

	t1 := doc.Collection.Tracks[0]
	if t1.AverageBpm != "122.50" {
		t.Errorf("AverageBpm = %q, want two decimals", t1.AverageBpm)
	}
	if t1.Location != "file://localhost/Users/dj/Music/opener.mp3" {
		t.Errorf("Location = %q", t1.Location)
	}

	tempo := t1.Tempos[0]
	if tempo.Inizio != "0.025" || tempo.Bpm != "122.50" || tempo.Metro != "4/4" || tempo.Battito != 1 {
		t.Errorf("tempo = %+v", tempo)
	}

	mark := t1.PositionMarks[0]
	if mark.Start != "1.500" || mark.Num != -1 || mark.Name != "drop" {
		t.Errorf("position mark = %+v", mark)
	}

	// No BPM: attribute omitted entirely, not rendered as 0.00.
	t2 := doc.Collection.Tracks[1]
	if t2.AverageBpm != "" {
		t.Errorf("AverageBpm for unknown tempo = %q, want empty", t2.AverageBpm)
	}
	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if strings.Contains(string(data), `AverageBpm=""`) {
		t.Error("empty AverageBpm attribute serialized")
	}
}

func TestBuild_MarkersSortedByPosition(t *testing.T) {
	in := buildInput(t)
	tr := in.Tracks["t1"]
	tr.CuePoints = []model.CuePoint{
		{PositionMs: 9000, Type: 0, Num: 0, Comment: "late"},
		{PositionMs: 1000, Type: 0, Num: -1, Comment: "early"},
	}
	tr.BeatGrid = []model.BeatMark{
		{PositionMs: 5000, BPM: 122.5, BeatNumber: 1},
		{PositionMs: 0, BPM: 122.5, BeatNumber: 1},
	}
	in.Tracks["t1"] = tr

	t1 := NewBuilder("").Build(in).Collection.Tracks[0]

	if t1.Tempos[0].Inizio != "0.000" || t1.Tempos[1].Inizio != "5.000" {
		t.Errorf("tempos = %+v, want ascending Inizio", t1.Tempos)
	}
	if t1.PositionMarks[0].Start != "1.000" || t1.PositionMarks[1].Start != "9.000" {
		t.Errorf("position marks = %+v, want ascending Start", t1.PositionMarks)
	}
	if t1.PositionMarks[0].Name != "early" || t1.PositionMarks[1].Name != "late" {
		t.Errorf("position mark names = %q, %q", t1.PositionMarks[0].Name, t1.PositionMarks[1].Name)
	}
}

func TestFormatLocation(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/Music/track.mp3", "file://localhost/Music/track.mp3"},
		{"/Music/My Set/track.mp3", "file://localhost/Music/My%20Set/track.mp3"},
		{"file://localhost/Music/kept.mp3", "file://localhost/Music/kept.mp3"},
	}
	for _, tt := range tests {
		if got := FormatLocation(tt.path); got != tt.want {
			t.Errorf("FormatLocation(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}
