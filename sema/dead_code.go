package sema

import (
	"shaderxc/ast"
	"shaderxc/token"
)

// RemoveUnusedFunctions marks every function and global variable
// reachable from the entry point via call edges and global
// references, then unlinks every function that was never reached.
func RemoveUnusedFunctions(tree *ast.Tree) {
	markUsed(tree)

	kept := tree.FunctionList[:0]
	for _, fn := range tree.FunctionList {
		if tree.Node(fn).IsUsed {
			kept = append(kept, fn)
		} else {
			tree.Unlink(fn)
		}
	}
	tree.FunctionList = kept
}

func markUsed(tree *ast.Tree) {
	if tree.EntryPoint == ast.NoNode {
		return
	}
	globals := make(map[ast.NodeID]bool, len(tree.GlobalVars))
	for _, g := range tree.GlobalVars {
		globals[g] = true
	}

	visitedFn := map[ast.NodeID]bool{}
	var visitFn func(fn ast.NodeID)
	var visitGlobal func(decl ast.NodeID)

	scan := func(root ast.NodeID) {
		ast.Walk(tree, root, ast.Visitor{Leave: func(t *ast.Tree, id ast.NodeID) {
			n := t.Node(id)
			switch n.Kind {
			case ast.KindOpExpr:
				if n.ResolvedFunc != ast.NoNode {
					visitFn(n.ResolvedFunc)
				}
			case ast.KindDeclRefExpr:
				if globals[n.Decl] {
					visitGlobal(n.Decl)
				}
			}
		}})
	}

	visitFn = func(fn ast.NodeID) {
		if visitedFn[fn] {
			return
		}
		visitedFn[fn] = true
		tree.Node(fn).IsUsed = true
		for _, c := range tree.Children(fn) {
			scan(c)
		}
	}

	visitGlobal = func(decl ast.NodeID) {
		n := tree.Node(decl)
		if n.IsVarUsed {
			return
		}
		n.IsVarUsed = true
		for _, c := range tree.Children(decl) {
			scan(c)
		}
	}

	visitFn(tree.EntryPoint)
}

// MarkUnusedVariables resets IsVarUsed on every local VarDecl in tree,
// then marks a VarDecl used the first time any of its access points is
// read by something other than an assignment to itself, or it carries
// an initializer that calls an already-used function (a side effect
// that must survive even if the variable's value is never read).
func MarkUnusedVariables(tree *ast.Tree) {
	for _, fn := range tree.FunctionList {
		markUnusedInFunction(tree, fn)
	}
}

// markUnusedInFunction processes one function body in a single
// pre-order pass: a VarDeclStmt's declarations start out unused
// (unless stage I/O or side-effecting), an ExprStmt is split into its
// write/read parts manually (so a plain assignment's LHS alone never
// marks the target used), and any DeclRefExpr reached any other way
// (conditions, return values, initializers, read arguments) marks its
// local used. Declarations always precede their uses in this AST's
// child order, so one top-to-bottom pass over the body is enough.
func markUnusedInFunction(tree *ast.Tree, fn ast.NodeID) {
	children := tree.Children(fn)
	if len(children) == 0 {
		return
	}
	params := children[:len(children)-1]
	body := children[len(children)-1]

	locals := map[ast.NodeID]bool{}
	for _, p := range params {
		tree.Node(p).IsVarUsed = true
	}

	ast.Walk(tree, body, ast.Visitor{Enter: func(t *ast.Tree, id ast.NodeID) bool {
		n := t.Node(id)
		switch n.Kind {
		case ast.KindVarDeclStmt:
			for _, v := range t.Children(id) {
				locals[v] = true
				vn := t.Node(v)
				vn.IsVarUsed = vn.Flags.Has(ast.AttrStageIO) || hasSideEffectingInit(t, v)
			}
			return true

		case ast.KindExprStmt:
			markStmtExprReads(t, t.Children(id)[0], locals)
			return false

		case ast.KindDeclRefExpr:
			if locals[n.Decl] {
				t.Node(n.Decl).IsVarUsed = true
			}
			return false
		}
		return true
	}})
}

// markReadsInExpr marks every local DeclRefExpr reached from id as
// used; id is assumed to be entirely in read position.
func markReadsInExpr(tree *ast.Tree, id ast.NodeID, locals map[ast.NodeID]bool) {
	if id == ast.NoNode {
		return
	}
	n := tree.Node(id)
	if n.Kind == ast.KindDeclRefExpr {
		if locals[n.Decl] {
			tree.Node(n.Decl).IsVarUsed = true
		}
		return
	}
	for _, c := range tree.Children(id) {
		markReadsInExpr(tree, c, locals)
	}
}

// markStmtExprReads mirrors VariableAccessValidator.processStmtExpr's
// write/read split: an assignment's LHS is a pure write and does not
// by itself mark the target used, a compound assignment's LHS is also
// read, and an increment/decrement's operand is both read and written.
func markStmtExprReads(tree *ast.Tree, id ast.NodeID, locals map[ast.NodeID]bool) {
	n := tree.Node(id)
	switch n.Kind {
	case ast.KindBinaryOpExpr:
		if token.IsAssignOp(n.Operator) {
			children := tree.Children(id)
			lhs, rhs := children[0], children[1]
			markReadsInExpr(tree, rhs, locals)
			if n.Operator != token.OpAssign {
				markReadsInExpr(tree, lhs, locals)
			}
			return
		}
	case ast.KindIncDecOpExpr:
		markReadsInExpr(tree, tree.Children(id)[0], locals)
		return
	case ast.KindOpExpr:
		if n.ResolvedFunc != ast.NoNode {
			markCallArgReads(tree, id, locals)
			return
		}
	}
	markReadsInExpr(tree, id, locals)
}

// markCallArgReads mirrors an out-only argument as a pure write (not a
// read of the local passed in), same as processCallArgs.
func markCallArgReads(tree *ast.Tree, id ast.NodeID, locals map[ast.NodeID]bool) {
	n := tree.Node(id)
	params := tree.Children(n.ResolvedFunc)
	if len(params) > 0 {
		params = params[:len(params)-1]
	}
	args := tree.Children(id)
	for i, arg := range args {
		var flags ast.VarFlags
		if i < len(params) {
			flags = tree.Node(params[i]).Flags
		}
		if flags.Has(ast.AttrOut) && !flags.Has(ast.AttrIn) {
			continue
		}
		markReadsInExpr(tree, arg, locals)
	}
}

func hasSideEffectingInit(tree *ast.Tree, decl ast.NodeID) bool {
	children := tree.Children(decl)
	if len(children) == 0 {
		return false
	}
	init := children[0]
	used := false
	ast.Walk(tree, init, ast.Visitor{Leave: func(t *ast.Tree, id ast.NodeID) {
		n := t.Node(id)
		if n.Kind == ast.KindOpExpr && n.ResolvedFunc != ast.NoNode && t.Node(n.ResolvedFunc).IsUsed {
			used = true
		}
	}})
	return used
}

// RemoveUnusedVariables deletes every local VarDeclStmt entry whose
// VarDecl was not marked used by MarkUnusedVariables.
func RemoveUnusedVariables(tree *ast.Tree) {
	for _, fn := range tree.FunctionList {
		removeUnusedInFunction(tree, fn)
	}
}

func removeUnusedInFunction(tree *ast.Tree, fn ast.NodeID) {
	children := tree.Children(fn)
	if len(children) == 0 {
		return
	}
	body := children[len(children)-1]

	ast.Walk(tree, body, ast.Visitor{Enter: func(t *ast.Tree, id ast.NodeID) bool {
		if t.Node(id).Kind != ast.KindVarDeclStmt {
			return true
		}
		for _, v := range t.Children(id) {
			if !t.Node(v).IsVarUsed {
				t.Unlink(v)
			}
		}
		return false
	}})
}
