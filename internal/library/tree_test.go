package library

import (
	"errors"
	"testing"

	"github.com/kuwa72/rkbdb2xml/internal/model"
)

func sampleRows() []model.PlaylistRow {
	return []model.PlaylistRow{
		{ID: "1", Name: "Party", IsFolder: true, Seq: 0},
		{ID: "2", ParentID: "1", Name: "March", IsFolder: true, Seq: 0},
		{ID: "3", ParentID: "2", Name: "EDM Hits", Seq: 0},
		{ID: "4", ParentID: "1", Name: "Warmup", Seq: 1},
		{ID: "5", Name: "Favorites", Seq: 1},
	}
}

func TestBuildTree_Structure(t *testing.T) {
	tree, err := BuildTree(sampleRows())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	if len(tree.Roots) != 2 {
		t.Fatalf("got %d roots, want 2", len(tree.Roots))
	}
	if tree.Roots[0].Name != "Party" || tree.Roots[1].Name != "Favorites" {
		t.Errorf("roots out of order: %s, %s", tree.Roots[0].Name, tree.Roots[1].Name)
	}

	party := tree.Node("1")
	if len(party.Children) != 2 {
		t.Fatalf("Party has %d children, want 2", len(party.Children))
	}
	if party.Children[0].Name != "March" || party.Children[1].Name != "Warmup" {
		t.Errorf("children not in source order: %s, %s", party.Children[0].Name, party.Children[1].Name)
	}
}

func TestBuildTree_PreOrderFlatten(t *testing.T) {
	tree, err := BuildTree(sampleRows())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	flat := tree.Flatten()
	wantNames := []string{"Party", "March", "EDM Hits", "Warmup", "Favorites"}
	wantDepths := []int{0, 1, 2, 1, 0}

	if len(flat) != len(wantNames) {
		t.Fatalf("got %d flat nodes, want %d", len(flat), len(wantNames))
	}
	for i, fn := range flat {
		if fn.Node.Name != wantNames[i] {
			t.Errorf("flat[%d].Name = %q, want %q", i, fn.Node.Name, wantNames[i])
		}
		if fn.Depth != wantDepths[i] {
			t.Errorf("flat[%d].Depth = %d, want %d", i, fn.Depth, wantDepths[i])
		}
	}
}

func TestBuildTree_OrphanAttachedAtRoot(t *testing.T) {
	rows := append(sampleRows(), model.PlaylistRow{ID: "9", ParentID: "404", Name: "Lost", Seq: 5})

	tree, err := BuildTree(rows)
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	var found bool
	for _, root := range tree.Roots {
		if root.ID == "9" {
			found = true
		}
	}
	if !found {
		t.Error("orphan row was dropped instead of attached at root level")
	}
}

func TestBuildTree_CycleError(t *testing.T) {
	rows := []model.PlaylistRow{
		{ID: "a", ParentID: "b", Name: "A", IsFolder: true},
		{ID: "b", ParentID: "a", Name: "B", IsFolder: true},
	}

	_, err := BuildTree(rows)
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("got %v, want CycleError", err)
	}
}

func TestBuildTree_SelfParentCycle(t *testing.T) {
	rows := []model.PlaylistRow{{ID: "a", ParentID: "a", Name: "A", IsFolder: true}}

	_, err := BuildTree(rows)
	var cycle *CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("got %v, want CycleError", err)
	}
}

func TestAttachTracks(t *testing.T) {
	tree, err := BuildTree(sampleRows())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	tree.AttachTracks([]model.PlaylistEntryRow{
		{PlaylistID: "3", TrackID: "t2", Seq: 1},
		{PlaylistID: "3", TrackID: "t1", Seq: 0},
		{PlaylistID: "1", TrackID: "t9", Seq: 0},   // folder, ignored
		{PlaylistID: "404", TrackID: "t9", Seq: 0}, // unknown, ignored
	})

	got := tree.Node("3").TrackIDs
	if len(got) != 2 || got[0] != "t1" || got[1] != "t2" {
		t.Errorf("TrackIDs = %v, want [t1 t2]", got)
	}
	if len(tree.Node("1").TrackIDs) != 0 {
		t.Error("folder received track entries")
	}
}

func TestPlaylists_ExcludesFolders(t *testing.T) {
	tree, err := BuildTree(sampleRows())
	if err != nil {
		t.Fatalf("BuildTree: %v", err)
	}

	playlists := tree.Playlists()
	if len(playlists) != 3 {
		t.Fatalf("got %d playlists, want 3", len(playlists))
	}
	for _, p := range playlists {
		if p.IsFolder {
			t.Errorf("Playlists() returned folder %s", p.Name)
		}
	}
}
