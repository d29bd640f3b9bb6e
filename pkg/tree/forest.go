package tree

import (
	"errors"
	"fmt"

	"github.com/plantview/plantview-go/pkg/asset"
)

// Forest errors.
var (
	ErrNodeNotFound   = errors.New("node not found")
	ErrDuplicateID    = errors.New("duplicate node id")
	ErrParentNotFound = errors.New("parent not found")
	ErrKindMismatch   = errors.New("node kind not allowed under parent")
	ErrCycle          = errors.New("move would create a cycle")
	ErrMissingID      = errors.New("node has no id")
)

// Forest is an arena of nodes indexed by identifier.
// It owns the structural invariants of the asset hierarchy; all attach,
// detach, and reparent operations go through it.
//
// A Forest is not safe for concurrent use. The engine serializes access.
type Forest struct {
	nodes map[string]*asset.Node
	roots []string
}

// New creates an empty forest.
func New() *Forest {
	return &Forest{
		nodes: make(map[string]*asset.Node),
	}
}

// Len returns the total number of nodes in the forest.
func (f *Forest) Len() int {
	return len(f.nodes)
}

// Contains reports whether a node with the given id exists.
func (f *Forest) Contains(id string) bool {
	_, ok := f.nodes[id]
	return ok
}

// Node returns the node with the given id.
func (f *Forest) Node(id string) (*asset.Node, bool) {
	n, ok := f.nodes[id]
	return n, ok
}

// RootIDs returns the root node ids in insertion order.
func (f *Forest) RootIDs() []string {
	return append([]string(nil), f.roots...)
}

// Roots returns the root nodes in insertion order.
func (f *Forest) Roots() []*asset.Node {
	out := make([]*asset.Node, 0, len(f.roots))
	for _, id := range f.roots {
		out = append(out, f.nodes[id])
	}
	return out
}

// Children returns the direct children of the node with the given id,
// in insertion order.
func (f *Forest) Children(id string) []*asset.Node {
	n, ok := f.nodes[id]
	if !ok {
		return nil
	}
	out := make([]*asset.Node, 0, len(n.Children))
	for _, cid := range n.Children {
		if c, ok := f.nodes[cid]; ok {
			out = append(out, c)
		}
	}
	return out
}

// Add inserts a node into the forest and links it to its parent.
// The node's ParentID determines placement: empty means root (Locations
// only). The node is inserted as a leaf; descendants attach themselves
// with subsequent Add calls.
func (f *Forest) Add(n *asset.Node) error {
	if n.ID == "" {
		return ErrMissingID
	}
	if _, exists := f.nodes[n.ID]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, n.ID)
	}

	if n.ParentID == "" {
		if n.Kind != asset.KindLocation {
			return fmt.Errorf("%w: %s cannot be a root", ErrKindMismatch, n.Kind)
		}
		f.nodes[n.ID] = n
		f.roots = append(f.roots, n.ID)
		return nil
	}

	parent, ok := f.nodes[n.ParentID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrParentNotFound, n.ParentID)
	}
	want, ok := parent.Kind.ChildKind()
	if !ok || want != n.Kind {
		return fmt.Errorf("%w: %s under %s", ErrKindMismatch, n.Kind, parent.Kind)
	}

	f.nodes[n.ID] = n
	parent.Children = append(parent.Children, n.ID)
	return nil
}

// IsDescendant reports whether id lies in the subtree rooted at ancestorID,
// including ancestorID itself. It walks parent links upward from id.
func (f *Forest) IsDescendant(ancestorID, id string) bool {
	for cur := id; cur != ""; {
		if cur == ancestorID {
			return true
		}
		n, ok := f.nodes[cur]
		if !ok {
			return false
		}
		cur = n.ParentID
	}
	return false
}

// Reparent detaches the node from its current parent and appends it to the
// new parent's children, preserving the node's identity and subtree.
// It enforces the rank and acyclicity invariants but not move policy;
// policy (no-op moves, root moves) is the validator's concern.
func (f *Forest) Reparent(id, newParentID string) error {
	n, ok := f.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	target, ok := f.nodes[newParentID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrParentNotFound, newParentID)
	}
	want, ok := target.Kind.ChildKind()
	if !ok || want != n.Kind {
		return fmt.Errorf("%w: %s under %s", ErrKindMismatch, n.Kind, target.Kind)
	}
	if f.IsDescendant(id, newParentID) {
		return fmt.Errorf("%w: %q is inside %q", ErrCycle, newParentID, id)
	}

	f.detach(n)
	n.ParentID = newParentID
	target.Children = append(target.Children, id)
	return nil
}

// RestoreAt detaches the node from its current parent and re-inserts it
// under parentID at the given child index. Used to roll back an optimistic
// move to the exact pre-move position.
func (f *Forest) RestoreAt(id, parentID string, index int) error {
	n, ok := f.nodes[id]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNodeNotFound, id)
	}
	parent, ok := f.nodes[parentID]
	if !ok {
		return fmt.Errorf("%w: %q", ErrParentNotFound, parentID)
	}

	f.detach(n)
	n.ParentID = parentID

	if index < 0 || index > len(parent.Children) {
		index = len(parent.Children)
	}
	parent.Children = append(parent.Children, "")
	copy(parent.Children[index+1:], parent.Children[index:])
	parent.Children[index] = id
	return nil
}

// ChildIndex returns the position of id within its parent's child list,
// or -1 if the node is a root or absent.
func (f *Forest) ChildIndex(id string) int {
	n, ok := f.nodes[id]
	if !ok || n.ParentID == "" {
		return -1
	}
	parent, ok := f.nodes[n.ParentID]
	if !ok {
		return -1
	}
	for i, cid := range parent.Children {
		if cid == id {
			return i
		}
	}
	return -1
}

// detach removes the node from its current parent's child list (or from
// the root list). The node itself stays in the arena.
func (f *Forest) detach(n *asset.Node) {
	if n.ParentID == "" {
		f.roots = removeID(f.roots, n.ID)
		return
	}
	if parent, ok := f.nodes[n.ParentID]; ok {
		parent.Children = removeID(parent.Children, n.ID)
	}
}

func removeID(ids []string, id string) []string {
	for i, v := range ids {
		if v == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}

// Walk visits every node in depth-first pre-order, children in insertion
// order, roots first. The callback receives the node and its depth.
func (f *Forest) Walk(fn func(n *asset.Node, depth int)) {
	for _, id := range f.roots {
		f.walk(id, 0, fn)
	}
}

func (f *Forest) walk(id string, depth int, fn func(n *asset.Node, depth int)) {
	n, ok := f.nodes[id]
	if !ok {
		return
	}
	fn(n, depth)
	for _, cid := range n.Children {
		f.walk(cid, depth+1, fn)
	}
}

// Snapshot returns a nested read-only view of the forest, one NodeView per
// root. Views are deep copies; consumers may hold them across reloads.
func (f *Forest) Snapshot() []*asset.NodeView {
	out := make([]*asset.NodeView, 0, len(f.roots))
	for _, id := range f.roots {
		out = append(out, f.snapshot(id))
	}
	return out
}

func (f *Forest) snapshot(id string) *asset.NodeView {
	n := f.nodes[id]
	v := n.View()
	for _, cid := range n.Children {
		if _, ok := f.nodes[cid]; ok {
			v.Children = append(v.Children, f.snapshot(cid))
		}
	}
	return v
}

// Clone returns a deep copy of the forest.
func (f *Forest) Clone() *Forest {
	c := New()
	c.roots = append([]string(nil), f.roots...)
	for id, n := range f.nodes {
		c.nodes[id] = n.Clone()
	}
	return c
}

// Verify checks the structural invariants and returns a descriptive error
// for the first violation found.
func (f *Forest) Verify() error {
	seen := make(map[string]string, len(f.nodes)) // child id -> owning parent id

	for _, id := range f.roots {
		n, ok := f.nodes[id]
		if !ok {
			return fmt.Errorf("%w: root %q", ErrNodeNotFound, id)
		}
		if n.ParentID != "" {
			return fmt.Errorf("root %q has parent %q", id, n.ParentID)
		}
		if n.Kind != asset.KindLocation {
			return fmt.Errorf("%w: root %q is %s", ErrKindMismatch, id, n.Kind)
		}
	}

	for id, n := range f.nodes {
		if id != n.ID {
			return fmt.Errorf("node %q indexed under %q", n.ID, id)
		}
		for _, cid := range n.Children {
			child, ok := f.nodes[cid]
			if !ok {
				return fmt.Errorf("%w: child %q of %q", ErrNodeNotFound, cid, id)
			}
			if child.ParentID != id {
				return fmt.Errorf("child %q of %q claims parent %q", cid, id, child.ParentID)
			}
			want, ok := n.Kind.ChildKind()
			if !ok || want != child.Kind {
				return fmt.Errorf("%w: %s %q under %s %q", ErrKindMismatch, child.Kind, cid, n.Kind, id)
			}
			if owner, dup := seen[cid]; dup {
				return fmt.Errorf("node %q owned by both %q and %q", cid, owner, id)
			}
			seen[cid] = id
		}
	}

	// Every node must be reachable from a root exactly once; an unreachable
	// node or a revisit means a cycle or a detached subtree.
	visited := make(map[string]bool, len(f.nodes))
	var visit func(id string) error
	visit = func(id string) error {
		if visited[id] {
			return fmt.Errorf("%w: node %q visited twice", ErrCycle, id)
		}
		visited[id] = true
		for _, cid := range f.nodes[id].Children {
			if err := visit(cid); err != nil {
				return err
			}
		}
		return nil
	}
	for _, id := range f.roots {
		if err := visit(id); err != nil {
			return err
		}
	}
	if len(visited) != len(f.nodes) {
		return fmt.Errorf("%d of %d nodes unreachable from roots", len(f.nodes)-len(visited), len(f.nodes))
	}

	return nil
}
