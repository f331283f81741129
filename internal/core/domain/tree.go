package domain

import (
	"fmt"
	"sort"
	"strings"
)

// EntryKind distinguishes files from directories in the corpus tree.
type EntryKind string

const (
	// KindFile is a regular file.
	KindFile EntryKind = "file"
	// KindDirectory is a directory.
	KindDirectory EntryKind = "directory"
)

// RootPath is the path of the tree root, the corpus root itself.
const RootPath = "."

// Entry is one corpus path as reported by a corpus scan.
type Entry struct {
	// Path is the corpus-relative path using forward slashes.
	Path string

	// Kind is file or directory.
	Kind EntryKind

	// Fingerprint is the content/metadata signature computed by the scanner.
	Fingerprint string
}

// Node is one filesystem entry in the path trie. Nodes are owned by the Tree
// for the lifetime of one run; Parent is a back-reference only.
type Node struct {
	// Path is the corpus-relative path ("." for the root).
	Path string

	// Name is the final path segment.
	Name string

	// Kind is file or directory.
	Kind EntryKind

	// Fingerprint is the scanner-computed signature for this path.
	Fingerprint string

	// Description is the per-file description from the metadata index,
	// empty when none is known. Unused for directories.
	Description string

	// Parent is the owning directory, nil for the root.
	Parent *Node

	children map[string]*Node
}

// IsDir returns true for directory nodes.
func (n *Node) IsDir() bool {
	return n.Kind == KindDirectory
}

// Children returns the node's immediate children ordered by name.
func (n *Node) Children() []*Node {
	out := make([]*Node, 0, len(n.children))
	for _, c := range n.children {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// ChildDirs returns the node's immediate subdirectories ordered by name.
func (n *Node) ChildDirs() []*Node {
	var out []*Node
	for _, c := range n.Children() {
		if c.IsDir() {
			out = append(out, c)
		}
	}
	return out
}

// ChildFiles returns the node's immediate files ordered by name.
func (n *Node) ChildFiles() []*Node {
	var out []*Node
	for _, c := range n.Children() {
		if !c.IsDir() {
			out = append(out, c)
		}
	}
	return out
}

// DescendantFiles collects every file under the node in breadth-first order.
func (n *Node) DescendantFiles() []*Node {
	var out []*Node
	queue := []*Node{n}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, c := range cur.Children() {
			if c.IsDir() {
				queue = append(queue, c)
			} else {
				out = append(out, c)
			}
		}
	}
	return out
}

// TopLevel returns the node's top-level ancestor directory name, or the
// node's own name when it sits directly under the root.
func (n *Node) TopLevel() string {
	parts := strings.Split(n.Path, "/")
	return parts[0]
}

// Tree is the path trie over every corpus path in one run. It exclusively
// owns its nodes; lookups are by exact corpus-relative path.
type Tree struct {
	root  *Node
	nodes map[string]*Node
}

// NewTree creates an empty tree holding only the corpus root.
func NewTree() *Tree {
	root := &Node{Path: RootPath, Name: RootPath, Kind: KindDirectory, children: make(map[string]*Node)}
	return &Tree{
		root:  root,
		nodes: map[string]*Node{RootPath: root},
	}
}

// BuildTree constructs a tree from scan entries. Intermediate directories
// missing from the entry list are created implicitly without a fingerprint.
func BuildTree(entries []Entry) (*Tree, error) {
	t := NewTree()
	for _, e := range entries {
		if err := t.Insert(e); err != nil {
			return nil, err
		}
	}
	return t, nil
}

// Root returns the corpus root node.
func (t *Tree) Root() *Node {
	return t.root
}

// Node returns the node for a corpus-relative path, or nil if absent.
func (t *Tree) Node(path string) *Node {
	return t.nodes[path]
}

// Len returns the number of nodes excluding the root.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Files returns every file path in the tree, sorted.
func (t *Tree) Files() []*Node {
	var out []*Node
	for _, n := range t.nodes {
		if !n.IsDir() {
			out = append(out, n)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Path < out[j].Path })
	return out
}

// Insert adds one entry, creating intermediate directories as needed.
// Inserting the same path twice with conflicting kinds is an error; the trie
// must stay acyclic with exactly one parent per node.
func (t *Tree) Insert(e Entry) error {
	path := strings.Trim(strings.ReplaceAll(e.Path, "\\", "/"), "/")
	if path == "" || path == RootPath {
		return fmt.Errorf("%w: cannot insert root path", ErrInvalidInput)
	}

	parts := strings.Split(path, "/")
	cur := t.root
	for i, name := range parts {
		childPath := strings.Join(parts[:i+1], "/")
		last := i == len(parts)-1

		kind := KindDirectory
		if last {
			kind = e.Kind
		}

		child, ok := cur.children[name]
		if !ok {
			child = &Node{
				Path:     childPath,
				Name:     name,
				Kind:     kind,
				Parent:   cur,
				children: make(map[string]*Node),
			}
			cur.children[name] = child
			t.nodes[childPath] = child
		} else if last && child.Kind != kind {
			return fmt.Errorf("%w: %s is both %s and %s", ErrInvalidInput, childPath, child.Kind, kind)
		}

		if last {
			child.Fingerprint = e.Fingerprint
		}
		cur = child
	}
	return nil
}

// Ancestors returns the node's ancestor chain from the nearest parent up to
// (but excluding) the root.
func (t *Tree) Ancestors(n *Node) []*Node {
	var out []*Node
	for cur := n.Parent; cur != nil && cur.Path != RootPath; cur = cur.Parent {
		out = append(out, cur)
	}
	return out
}

// LivePaths returns the set of every path in the tree, used for stale-record
// detection against the classification store.
func (t *Tree) LivePaths() map[string]struct{} {
	out := make(map[string]struct{}, len(t.nodes))
	for p := range t.nodes {
		if p == RootPath {
			continue
		}
		out[p] = struct{}{}
	}
	return out
}
