package apicat

// NodeKind classifies a table of contents node.
type NodeKind string

// NodeKind values.
const (
	NodeFolder      NodeKind = "folder"
	NodeType        NodeKind = "type"
	NodeEnum        NodeKind = "enum"
	NodeMethod      NodeKind = "method"
	NodeProperty    NodeKind = "property"
	NodeConstructor NodeKind = "constructor"
	NodeGlobal      NodeKind = "global"
)

// IsTypeLike reports whether nodes of this kind own members.
func (k NodeKind) IsTypeLike() bool {
	return k == NodeType || k == NodeEnum
}

// RootID is the id of the synthetic root node.
const RootID = 0

// TOCNode is one entry of the table of contents.
type TOCNode struct {
	ID       int        `json:"id"`
	ParentID int        `json:"parentId"`
	Title    string     `json:"title"`
	Kind     NodeKind   `json:"kind"`
	Path     string     `json:"path,omitempty"` // page entry id; empty for folders
	Parent   *TOCNode   `json:"-"`              // nil only for the root
	Children []*TOCNode `json:"children,omitempty"`
}

// IsRoot reports whether n is the synthetic root.
func (n *TOCNode) IsRoot() bool {
	return n.Parent == nil
}

// TOC is the table of contents tree.
type TOC struct {
	Root  *TOCNode
	nodes map[int]*TOCNode
}

// NewTOC wraps a validated root node and indexes its descendants by id.
func NewTOC(root *TOCNode) *TOC {
	t := &TOC{Root: root, nodes: make(map[int]*TOCNode)}
	t.Walk(func(n *TOCNode, _ int) bool {
		t.nodes[n.ID] = n
		return true
	})
	return t
}

// Node returns the node with the given id, or nil.
func (t *TOC) Node(id int) *TOCNode {
	return t.nodes[id]
}

// Len returns the number of nodes, excluding the root.
func (t *TOC) Len() int {
	return len(t.nodes) - 1
}

// Walk visits nodes depth-first in child order, starting at the root with
// depth 0. Returning false from fn skips the node's children.
func (t *TOC) Walk(fn func(n *TOCNode, depth int) bool) {
	var walk func(n *TOCNode, depth int)
	walk = func(n *TOCNode, depth int) {
		if !fn(n, depth) {
			return
		}
		for _, c := range n.Children {
			walk(c, depth+1)
		}
	}
	if t.Root != nil {
		walk(t.Root, 0)
	}
}

// NearestTypeAncestor returns the closest ancestor of n whose kind owns
// members, or nil when n belongs to the global context.
func (n *TOCNode) NearestTypeAncestor() *TOCNode {
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Kind.IsTypeLike() {
			return p
		}
	}
	return nil
}
