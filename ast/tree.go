package ast

import (
	"shaderxc/token"
	"shaderxc/types"
)

// Tree is the arena owning every Node of one translation unit, plus
// the root-level function/global lists and feature flags. All nodes
// and types live until the Tree itself is discarded: destroying the
// AST releases everything in one step.
type Tree struct {
	Universe *types.Universe
	Types    *types.Registry

	nodes []Node

	FunctionList    []NodeID
	GlobalVars      []NodeID
	UnassignedNodes []NodeID
	EntryPoint      NodeID

	UsingDerivatives          bool
	UsingLODTextureSampling   bool
	UsingGradTextureSampling  bool

	typeUseHeads map[*types.Type]NodeID
}

// NewTree allocates an empty Tree sharing the given Universe (the
// process-wide scalar/vector/matrix singletons) and its own per-AST
// type Registry for arrays and structs.
func NewTree(universe *types.Universe) *Tree {
	return &Tree{
		Universe:     universe,
		Types:        types.NewRegistry(),
		nodes:        make([]Node, 1), // index 0 reserved for NoNode
		typeUseHeads: make(map[*types.Type]NodeID),
	}
}

// New allocates a fresh node of the given kind at the given location
// and returns its ID. The node starts detached (no parent, no
// siblings, no children).
func (t *Tree) New(kind Kind, loc token.Location) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, Node{Kind: kind, Loc: loc})
	return id
}

// Node returns a pointer into the arena for direct field access. The
// pointer is invalidated by any further call to New (the backing slice
// may reallocate); callers that need to retain access across a New
// call should re-fetch by ID.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Len returns the number of allocated node slots, including NoNode's
// reserved slot 0.
func (t *Tree) Len() int { return len(t.nodes) }

// AppendChild links child as the new last child of parent.
func (t *Tree) AppendChild(parent, child NodeID) {
	p := t.Node(parent)
	c := t.Node(child)
	c.Parent = parent
	c.PrevSibling = p.LastChild
	c.NextSibling = NoNode
	if p.LastChild != NoNode {
		t.Node(p.LastChild).NextSibling = child
	} else {
		p.FirstChild = child
	}
	p.LastChild = child
	p.ChildCount++
}

// Children returns the child IDs of parent in sibling order.
func (t *Tree) Children(parent NodeID) []NodeID {
	p := t.Node(parent)
	out := make([]NodeID, 0, p.ChildCount)
	for c := p.FirstChild; c != NoNode; c = t.Node(c).NextSibling {
		out = append(out, c)
	}
	return out
}

// SetReturnType assigns expr's ReturnType, linking it into typ's
// use-list. If expr already had a return type, it is first unlinked
// from that type's use-list, so SetReturnType also serves as an O(1)
// "retarget this expression's type" operation.
func (t *Tree) SetReturnType(expr NodeID, typ *types.Type) {
	n := t.Node(expr)
	if n.ReturnType != nil {
		t.unlinkTypeUse(expr)
	}
	n.ReturnType = typ
	if typ == nil {
		return
	}
	head := t.typeUseHeads[typ]
	n.TypeUsePrev = NoNode
	n.TypeUseNext = head
	if head != NoNode {
		t.Node(head).TypeUsePrev = expr
	}
	t.typeUseHeads[typ] = expr
}

func (t *Tree) unlinkTypeUse(expr NodeID) {
	n := t.Node(expr)
	if n.ReturnType == nil {
		return
	}
	if n.TypeUsePrev != NoNode {
		t.Node(n.TypeUsePrev).TypeUseNext = n.TypeUseNext
	} else {
		if t.typeUseHeads[n.ReturnType] == expr {
			t.typeUseHeads[n.ReturnType] = n.TypeUseNext
		}
	}
	if n.TypeUseNext != NoNode {
		t.Node(n.TypeUseNext).TypeUsePrev = n.TypeUsePrev
	}
	n.TypeUsePrev = NoNode
	n.TypeUseNext = NoNode
}

// TypeUses returns every expression node currently typed as typ, in
// use-list order. Used by tests verifying the use-list invariant:
// every expression with a non-null return type appears exactly once
// in that type's use-list.
func (t *Tree) TypeUses(typ *types.Type) []NodeID {
	var out []NodeID
	for id := t.typeUseHeads[typ]; id != NoNode; id = t.Node(id).TypeUseNext {
		out = append(out, id)
	}
	return out
}

// AppendReturnStmt threads ret onto fn's doubly-linked return-statement
// list.
func (t *Tree) AppendReturnStmt(fn, ret NodeID) {
	f := t.Node(fn)
	r := t.Node(ret)
	r.PrevReturnInFunc = f.LastReturnStmt
	r.NextReturnInFunc = NoNode
	if f.LastReturnStmt != NoNode {
		t.Node(f.LastReturnStmt).NextReturnInFunc = ret
	} else {
		f.FirstReturnStmt = ret
	}
	f.LastReturnStmt = ret
}

// RemoveReturnStmt detaches ret from fn's return-statement list.
func (t *Tree) RemoveReturnStmt(fn, ret NodeID) {
	f := t.Node(fn)
	r := t.Node(ret)
	if r.PrevReturnInFunc != NoNode {
		t.Node(r.PrevReturnInFunc).NextReturnInFunc = r.NextReturnInFunc
	} else if f.FirstReturnStmt == ret {
		f.FirstReturnStmt = r.NextReturnInFunc
	}
	if r.NextReturnInFunc != NoNode {
		t.Node(r.NextReturnInFunc).PrevReturnInFunc = r.PrevReturnInFunc
	} else if f.LastReturnStmt == ret {
		f.LastReturnStmt = r.PrevReturnInFunc
	}
	r.PrevReturnInFunc = NoNode
	r.NextReturnInFunc = NoNode
}

// ReturnStmts returns every ReturnStmt threaded onto fn, in insertion order.
func (t *Tree) ReturnStmts(fn NodeID) []NodeID {
	var out []NodeID
	for id := t.Node(fn).FirstReturnStmt; id != NoNode; id = t.Node(id).NextReturnInFunc {
		out = append(out, id)
	}
	return out
}

// Unlink detaches id from its parent's child list and, if id carries a
// return type or sits on a function's return-statement list, from
// those lists too — all before the node is considered destroyed.
// The node's arena slot is left in place (nothing else may reference
// its ID afterward) rather than reclaimed: the whole arena is freed at
// once when the owning Tree is discarded.
func (t *Tree) Unlink(id NodeID) {
	n := t.Node(id)

	if n.ReturnType != nil {
		t.unlinkTypeUse(id)
	}

	if n.Kind == KindReturnStmt {
		for fn := n.Parent; fn != NoNode; fn = t.Node(fn).Parent {
			if t.Node(fn).Kind == KindFunction {
				t.RemoveReturnStmt(fn, id)
				break
			}
		}
	}

	parent := n.Parent
	if parent != NoNode {
		p := t.Node(parent)
		if n.PrevSibling != NoNode {
			t.Node(n.PrevSibling).NextSibling = n.NextSibling
		} else {
			p.FirstChild = n.NextSibling
		}
		if n.NextSibling != NoNode {
			t.Node(n.NextSibling).PrevSibling = n.PrevSibling
		} else {
			p.LastChild = n.PrevSibling
		}
		p.ChildCount--
	}
	n.Parent = NoNode
	n.PrevSibling = NoNode
	n.NextSibling = NoNode
}

// Replace splices newID into the tree position currently occupied by
// oldID — same parent, same left/right siblings — and detaches oldID,
// unlinking its type-use-list link if it had one. This is the payoff
// of an ID-based arena over raw intrusive pointers: an optimizing pass
// like constant folding can build a whole new node and swap it in
// without touching any other node's fields by hand. newID must be
// detached (freshly allocated via New) before calling Replace.
func (t *Tree) Replace(oldID, newID NodeID) {
	old := t.Node(oldID)
	if old.ReturnType != nil {
		t.unlinkTypeUse(oldID)
	}
	parent, prev, next := old.Parent, old.PrevSibling, old.NextSibling

	nw := t.Node(newID)
	nw.Parent, nw.PrevSibling, nw.NextSibling = parent, prev, next

	if prev != NoNode {
		t.Node(prev).NextSibling = newID
	} else if parent != NoNode {
		t.Node(parent).FirstChild = newID
	}
	if next != NoNode {
		t.Node(next).PrevSibling = newID
	} else if parent != NoNode {
		t.Node(parent).LastChild = newID
	}

	old.Parent, old.PrevSibling, old.NextSibling = NoNode, NoNode, NoNode
}

// DeepClone copies the subtree rooted at id into fresh arena slots,
// yielding a subtree with distinct node identities but equal
// structure, literal values, and equal canonical type pointers. The
// clone starts detached; callers re-parent it explicitly.
func (t *Tree) DeepClone(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	orig := *t.Node(id) // copy by value before any further allocation
	clone := t.New(orig.Kind, orig.Loc)

	cp := orig
	cp.Parent = NoNode
	cp.PrevSibling = NoNode
	cp.NextSibling = NoNode
	cp.FirstChild = NoNode
	cp.LastChild = NoNode
	cp.ChildCount = 0
	cp.TypeUsePrev = NoNode
	cp.TypeUseNext = NoNode
	cp.FirstReturnStmt = NoNode
	cp.LastReturnStmt = NoNode
	cp.PrevReturnInFunc = NoNode
	cp.NextReturnInFunc = NoNode
	*t.Node(clone) = cp

	if orig.SwizzleIndices != nil {
		idx := make([]int, len(orig.SwizzleIndices))
		copy(idx, orig.SwizzleIndices)
		t.Node(clone).SwizzleIndices = idx
	}

	for c := orig.FirstChild; c != NoNode; c = t.Node(c).NextSibling {
		childClone := t.DeepClone(c)
		t.AppendChild(clone, childClone)
	}

	if orig.ReturnType != nil {
		t.SetReturnType(clone, orig.ReturnType)
	}

	return clone
}
