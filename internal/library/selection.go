package library

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/kuwa72/rkbdb2xml/internal/model"
)

// UnknownPlaylistError reports a selection token that did not resolve to any
// playlist or folder.
type UnknownPlaylistError struct {
	Token string
}

func (e *UnknownPlaylistError) Error() string {
	return fmt.Sprintf("unknown playlist %q", e.Token)
}

// AmbiguousSelectionError reports a selection token that matched more than
// one node, either as a bare name across the tree or as a path segment with
// same-named siblings.
type AmbiguousSelectionError struct {
	Token   string
	Matches int
}

func (e *AmbiguousSelectionError) Error() string {
	return fmt.Sprintf("selection %q is ambiguous (%d matches)", e.Token, e.Matches)
}

// ParseSpec normalizes selection input into tokens. Each value may carry
// several comma-separated tokens; surrounding whitespace is trimmed and
// empty tokens dropped, so the comma-delimited and repeated-flag forms
// resolve identically.
func ParseSpec(values []string) []string {
	var tokens []string
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part != "" {
				tokens = append(tokens, part)
			}
		}
	}
	return tokens
}

// Resolve maps selection tokens to the minimal closed set of playlist IDs.
//
// Per token, resolution tries in order: a numeric ID present in the tree, a
// slash-delimited path walked from a root, then an exact bare-name match
// across the whole tree. Folders expand to all descendant playlists.
// Resolution is all-or-nothing: any token that stays unresolved fails the
// whole selection, and ambiguous matches are an error rather than a guess.
//
// An empty token list selects every playlist. The returned IDs are in
// pre-order document order with duplicates removed.
func Resolve(t *Tree, tokens []string) ([]string, error) {
	if len(tokens) == 0 {
		ids := make([]string, 0)
		for _, p := range t.Playlists() {
			ids = append(ids, p.ID)
		}
		return ids, nil
	}

	selected := make(map[string]bool)
	for _, token := range tokens {
		node, err := resolveToken(t, token)
		if err != nil {
			return nil, err
		}
		for _, p := range descendantPlaylists(node) {
			selected[p.ID] = true
		}
	}

	var ids []string
	for _, p := range t.Playlists() {
		if selected[p.ID] {
			ids = append(ids, p.ID)
		}
	}
	return ids, nil
}

func resolveToken(t *Tree, token string) (*model.PlaylistNode, error) {
	if _, err := strconv.Atoi(token); err == nil {
		if node := t.Node(token); node != nil {
			return node, nil
		}
	}

	if strings.Contains(token, "/") {
		return resolvePath(t, token)
	}

	return resolveName(t, token)
}

// resolvePath walks a slash-delimited path from a root, requiring each
// segment to match a direct child by exact name.
func resolvePath(t *Tree, token string) (*model.PlaylistNode, error) {
	segments := strings.Split(token, "/")

	current, err := matchChild(t.Roots, segments[0], token)
	if err != nil {
		return nil, err
	}

	for _, segment := range segments[1:] {
		current, err = matchChild(current.Children, segment, token)
		if err != nil {
			return nil, err
		}
	}
	return current, nil
}

func matchChild(candidates []*model.PlaylistNode, name, token string) (*model.PlaylistNode, error) {
	var match *model.PlaylistNode
	matches := 0
	for _, c := range candidates {
		if c.Name == name {
			match = c
			matches++
		}
	}
	switch matches {
	case 0:
		return nil, &UnknownPlaylistError{Token: token}
	case 1:
		return match, nil
	default:
		return nil, &AmbiguousSelectionError{Token: token, Matches: matches}
	}
}

// resolveName matches a bare name anywhere in the tree and requires the
// match to be unique.
func resolveName(t *Tree, token string) (*model.PlaylistNode, error) {
	var match *model.PlaylistNode
	matches := 0
	for _, fn := range t.Flatten() {
		if fn.Node.Name == token {
			match = fn.Node
			matches++
		}
	}
	switch matches {
	case 0:
		return nil, &UnknownPlaylistError{Token: token}
	case 1:
		return match, nil
	default:
		return nil, &AmbiguousSelectionError{Token: token, Matches: matches}
	}
}

// descendantPlaylists expands a node to the playlists it contributes to the
// selection: itself if it is a playlist, otherwise every playlist below it.
func descendantPlaylists(n *model.PlaylistNode) []*model.PlaylistNode {
	if !n.IsFolder {
		return []*model.PlaylistNode{n}
	}
	var playlists []*model.PlaylistNode
	for _, child := range n.Children {
		playlists = append(playlists, descendantPlaylists(child)...)
	}
	return playlists
}
