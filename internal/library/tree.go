package library

import (
	"fmt"
	"sort"

	"github.com/kuwa72/rkbdb2xml/internal/model"
)

// CycleError reports that following parent references from a playlist row
// never reaches a root, which means the source data is corrupt.
type CycleError struct {
	// NodeID is a node on or below the cycle.
	NodeID string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("playlist tree contains a cycle reachable from node %s", e.NodeID)
}

// Tree is the reconstructed playlist forest.
//
// Nodes are built once from the source rows and must be treated as read-only
// afterwards. Roots are ordered by source order; orphaned rows whose parent
// is missing from the snapshot are attached at root level so no playlist is
// silently lost.
type Tree struct {
	// Roots holds the top-level nodes in source order. This is the
	// synthetic root's child list: true roots and orphans both land here.
	Roots []*model.PlaylistNode

	byID map[string]*model.PlaylistNode
}

// FlatNode is one entry of a pre-order traversal, with its depth for
// indentation by display layers.
type FlatNode struct {
	Node  *model.PlaylistNode
	Depth int
}

// BuildTree reconstructs the playlist forest from flat parent-referencing
// rows.
//
// Children are ordered by their Seq within each parent, ties broken by ID so
// the result is deterministic for any input order. Rows whose parent chain
// does not terminate within the row count produce a CycleError; rows whose
// parent is absent from the snapshot become roots.
func BuildTree(rows []model.PlaylistRow) (*Tree, error) {
	nodes := make(map[string]*model.PlaylistNode, len(rows))
	for _, r := range rows {
		if _, dup := nodes[r.ID]; dup {
			continue
		}
		nodes[r.ID] = &model.PlaylistNode{
			ID:       r.ID,
			Name:     r.Name,
			IsFolder: r.IsFolder,
			ParentID: r.ParentID,
		}
	}

	// Parent links are validated once here; traversal below never follows
	// them again, so a cycle cannot survive into the built tree.
	for _, r := range rows {
		id := r.ParentID
		for steps := 0; id != ""; steps++ {
			if steps > len(rows) {
				return nil, &CycleError{NodeID: r.ID}
			}
			parent, ok := nodes[id]
			if !ok {
				break
			}
			id = parent.ParentID
		}
	}

	ordered := make([]model.PlaylistRow, 0, len(nodes))
	seen := make(map[string]bool, len(nodes))
	for _, r := range rows {
		if seen[r.ID] {
			continue
		}
		seen[r.ID] = true
		ordered = append(ordered, r)
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Seq != ordered[j].Seq {
			return ordered[i].Seq < ordered[j].Seq
		}
		return ordered[i].ID < ordered[j].ID
	})

	t := &Tree{byID: nodes}
	for _, r := range ordered {
		node := nodes[r.ID]
		parent, ok := nodes[r.ParentID]
		if r.ParentID == "" || !ok {
			t.Roots = append(t.Roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	return t, nil
}

// AttachTracks assigns playlist track listings from flat membership rows.
// Entries are ordered by Seq within each playlist; entries referencing
// folders or unknown playlists are ignored.
func (t *Tree) AttachTracks(entries []model.PlaylistEntryRow) {
	sorted := make([]model.PlaylistEntryRow, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].PlaylistID != sorted[j].PlaylistID {
			return sorted[i].PlaylistID < sorted[j].PlaylistID
		}
		return sorted[i].Seq < sorted[j].Seq
	})

	for _, e := range sorted {
		node, ok := t.byID[e.PlaylistID]
		if !ok || node.IsFolder {
			continue
		}
		node.TrackIDs = append(node.TrackIDs, e.TrackID)
	}
}

// Node returns the node with the given ID, or nil.
func (t *Tree) Node(id string) *model.PlaylistNode {
	return t.byID[id]
}

// Flatten returns the forest as a pre-order listing: each folder before its
// children, children in source order. Depth is 0 for roots.
func (t *Tree) Flatten() []FlatNode {
	var flat []FlatNode
	var walk func(n *model.PlaylistNode, depth int)
	walk = func(n *model.PlaylistNode, depth int) {
		flat = append(flat, FlatNode{Node: n, Depth: depth})
		for _, child := range n.Children {
			walk(child, depth+1)
		}
	}
	for _, root := range t.Roots {
		walk(root, 0)
	}
	return flat
}

// Playlists returns every non-folder node in pre-order.
func (t *Tree) Playlists() []*model.PlaylistNode {
	var playlists []*model.PlaylistNode
	for _, fn := range t.Flatten() {
		if !fn.Node.IsFolder {
			playlists = append(playlists, fn.Node)
		}
	}
	return playlists
}
