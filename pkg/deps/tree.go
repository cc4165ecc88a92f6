package deps

import (
	"maps"
	"strings"
)

// Node is one position in a resolved dependency tree.
//
// The root node carries the resolved package identity. Child nodes
// additionally carry the version range their parent requested. Circular
// and Missing nodes are terminal markers and never have children.
type Node struct {
	ID       string  `json:"id"`
	Version  string  `json:"version,omitempty"`
	Range    string  `json:"range,omitempty"`
	Circular bool    `json:"circular,omitempty"`
	Missing  bool    `json:"missing,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

// Sink receives tree nodes as resolution discovers them. The presentation
// layer implements it to own node creation; [Node] is the default
// implementation.
type Sink interface {
	// Child appends a node under this one and returns the sink that
	// children of the new node should be appended to.
	Child(node Node) Sink
}

// Child appends a copy of node as a child and returns it.
func (n *Node) Child(node Node) Sink {
	c := node
	n.Children = append(n.Children, &c)
	return &c
}

// Count returns the number of nodes in the tree, including n itself.
func (n *Node) Count() int {
	total := 1
	for _, c := range n.Children {
		total += c.Count()
	}
	return total
}

// Visited tracks the "{id}@{version}" keys already expanded along one
// root-to-leaf path. Keys are case-insensitive, matching the registry.
type Visited map[string]struct{}

func pathKey(id, version string) string {
	return strings.ToLower(id) + "@" + strings.ToLower(version)
}

// Add records a package version as expanded on this path.
func (v Visited) Add(id, version string) {
	v[pathKey(id, version)] = struct{}{}
}

// Has reports whether a package version is already on this path.
func (v Visited) Has(id, version string) bool {
	_, ok := v[pathKey(id, version)]
	return ok
}

// Clone returns an independent copy for a sibling branch.
func (v Visited) Clone() Visited {
	return maps.Clone(v)
}
