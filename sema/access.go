package sema

import (
	"shaderxc/ast"
	"shaderxc/types"
)

// varState is the per-variable write state live at one point in a
// function's control flow: a bitset of access points known to have
// been written on every path reaching that point.
type varState map[ast.NodeID]bitset

func cloneState(s varState) varState {
	out := make(varState, len(s))
	for id, bs := range s {
		out[id] = bs.clone()
	}
	return out
}

// mergeAND combines two states reaching a common point under the
// branch-merging rule: an access point is written after the merge
// only if it was written on both incoming paths. A variable present in
// only one state is treated as all-unwritten on the other path, so it
// drops out of the merged state entirely unless fully written on both.
func mergeAND(a, b varState) varState {
	out := make(varState, len(a))
	for id, abits := range a {
		if bbits, ok := b[id]; ok {
			out[id] = abits.and(bbits)
		}
	}
	return out
}

func markWritten(s varState, decl ast.NodeID, total int, indices []int) {
	bs, ok := s[decl]
	if !ok {
		bs = newBitset(total)
		s[decl] = bs
	}
	for _, i := range indices {
		bs.set(i)
	}
}

func markAllWritten(s varState, decl ast.NodeID, total int) {
	bs := newBitset(total)
	bs.setAll()
	s[decl] = bs
}

// resolveAccessPath walks a (possibly chained) member/index expression
// down to its root DeclRefExpr, returning the declaration and the
// absolute access-point indices the expression designates within that
// declaration's flattened layout. ok is false when the expression does
// not have a traceable variable root (e.g. a function call's result),
// in which case the caller cannot track partial writes/reads through it.
func resolveAccessPath(tree *ast.Tree, id ast.NodeID) (decl ast.NodeID, indices []int, ok bool) {
	n := tree.Node(id)
	switch n.Kind {
	case ast.KindDeclRefExpr:
		total := tree.Node(n.Decl).DeclType.TotalAccessPointCount
		indices = make([]int, total)
		for i := range indices {
			indices[i] = i
		}
		return n.Decl, indices, true

	case ast.KindMemberExpr:
		base := tree.Children(id)[0]
		baseDecl, baseIdx, ok := resolveAccessPath(tree, base)
		if !ok {
			return ast.NoNode, nil, false
		}
		if n.IsSwizzle {
			out := make([]int, len(n.SwizzleIndices))
			for i, si := range n.SwizzleIndices {
				out[i] = baseIdx[si]
			}
			return baseDecl, out, true
		}
		baseType := tree.Node(base).ReturnType
		off := types.MemberAccessOffset(baseType, n.MemberIndex)
		cnt := baseType.Members[n.MemberIndex].Type.TotalAccessPointCount
		return baseDecl, baseIdx[off : off+cnt], true

	case ast.KindIndexExpr:
		children := tree.Children(id)
		base, indexExpr := children[0], children[1]
		baseDecl, baseIdx, ok := resolveAccessPath(tree, base)
		if !ok {
			return ast.NoNode, nil, false
		}
		idxNode := tree.Node(indexExpr)
		if idxNode.Kind != ast.KindInt32Expr {
			// Dynamic index: conservatively treat as touching every
			// access point of the base rather than none of them.
			return baseDecl, baseIdx, true
		}
		baseType := tree.Node(base).ReturnType
		elemCount := baseType.SubType.TotalAccessPointCount
		if baseType.Kind == types.KindMatrix {
			elemCount = baseType.Cols
		}
		lo := int(idxNode.IntVal) * elemCount
		if lo < 0 || lo+elemCount > len(baseIdx) {
			return baseDecl, baseIdx, true
		}
		return baseDecl, baseIdx[lo : lo+elemCount], true

	case ast.KindCastExpr:
		return resolveAccessPath(tree, tree.Children(id)[0])

	default:
		return ast.NoNode, nil, false
	}
}
