package sema

import (
	"strings"

	"shaderxc/ast"
	"shaderxc/diag"
	"shaderxc/token"
	"shaderxc/types"
)

// VariableAccessValidator walks every function's body tracking, per
// access point, whether it has been written on every control-flow path
// reaching the current statement. Each variable gets its own bitset
// (access.go/bitset.go) rather than one flat array indexed by a
// running offset, since the arena has no single "current function's
// access point space" to index into directly.
type VariableAccessValidator struct {
	tree  *ast.Tree
	diags *diag.Bag

	// trackReturn/returnKey let processStmt record an entry point's
	// return value as an implicit stage output, keyed by the function's
	// own NodeID (never a VarDecl/param id, so it can't collide with a
	// real variable's entry in a varState map).
	trackReturn bool
	returnKey   ast.NodeID
}

// RunOnAST validates every function in tree, reporting dataflow
// diagnostics into diags.
func RunOnAST(tree *ast.Tree, diags *diag.Bag) {
	v := &VariableAccessValidator{tree: tree, diags: diags}
	for _, fn := range tree.FunctionList {
		v.validateFunction(fn)
	}
}

func (v *VariableAccessValidator) validateFunction(fn ast.NodeID) {
	fnNode := v.tree.Node(fn)
	children := v.tree.Children(fn)
	if len(children) == 0 {
		return
	}
	params := children[:len(children)-1]
	body := children[len(children)-1]

	state := varState{}
	for _, p := range params {
		pn := v.tree.Node(p)
		total := pn.DeclType.TotalAccessPointCount
		if pn.Flags.Has(ast.AttrIn) || !pn.Flags.Has(ast.AttrOut) {
			markAllWritten(state, p, total)
		} else {
			state[p] = newBitset(total)
		}
	}

	v.trackReturn = fnNode.IsEntryPoint && fnNode.FuncReturnType != nil && fnNode.FuncReturnType.Kind != types.KindVoid
	v.returnKey = fn
	if v.trackReturn {
		state[fn] = newBitset(fnNode.FuncReturnType.TotalAccessPointCount)
	}

	finalState, terminated, exits := v.processBlock(body, state)
	if !terminated {
		exits = append(exits, finalState)
	}

	for _, p := range params {
		pn := v.tree.Node(p)
		if !pn.Flags.Has(ast.AttrOut) {
			continue
		}
		for _, exit := range exits {
			v.checkOutputCoverage(fnNode.Loc, pn.Name, pn.SemanticName, pn.DeclType, exit[p])
		}
	}

	if v.trackReturn {
		for _, exit := range exits {
			v.checkOutputCoverage(fnNode.Loc, "return value", fnNode.ReturnSemantic, fnNode.FuncReturnType, exit[fn])
		}
	}
	v.trackReturn = false
}

func (v *VariableAccessValidator) checkOutputCoverage(loc token.Location, name, semantic string, declType *types.Type, written bitset) {
	var missing bitset
	if written.n == 0 {
		missing = newBitset(declType.TotalAccessPointCount)
	} else {
		missing = written
	}
	miss := missing.missing()
	if len(miss) == 0 {
		return
	}
	paths := types.AccessPointPathsForSemantic(declType, semantic)
	labels := make([]string, len(miss))
	for i, idx := range miss {
		labels[i] = paths[idx]
	}
	v.diags.Add(diag.Dataflow, loc, "output `%s` not written (%s)", name, strings.Join(labels, ", "))
}

// processBlock processes stmts in sequence, returning the state that
// continues past the block (valid only if terminated is false) plus
// every return/discard exit state reached along the way.
func (v *VariableAccessValidator) processBlock(block ast.NodeID, state varState) (varState, bool, []varState) {
	var exits []varState
	terminated := false
	for _, stmt := range v.tree.Children(block) {
		if terminated {
			break
		}
		var term bool
		state, term, exits = v.processStmt(stmt, state, exits)
		terminated = term
	}
	return state, terminated, exits
}

// processStmt advances state across one statement, appending any
// return-point states it passes through to exits, and reports whether
// control cannot fall through past this statement.
func (v *VariableAccessValidator) processStmt(id ast.NodeID, state varState, exits []varState) (varState, bool, []varState) {
	if id == ast.NoNode {
		return state, false, exits
	}
	n := v.tree.Node(id)
	switch n.Kind {
	case ast.KindBlockStmt:
		sub := cloneState(state)
		blockState, term, blockExits := v.processBlock(id, sub)
		exits = append(exits, blockExits...)
		return blockState, term, exits

	case ast.KindIfStmt:
		v.processRead(n.Cond, state)
		thenState, thenTerm, e1 := v.processStmt(n.Then, cloneState(state), nil)
		exits = append(exits, e1...)
		var elseState varState
		elseTerm := false
		if n.Else != ast.NoNode {
			var e2 []varState
			elseState, elseTerm, e2 = v.processStmt(n.Else, cloneState(state), nil)
			exits = append(exits, e2...)
		} else {
			elseState = state
		}
		switch {
		case thenTerm && elseTerm:
			return state, true, exits
		case thenTerm:
			return elseState, false, exits
		case elseTerm:
			return thenState, false, exits
		default:
			return mergeAND(thenState, elseState), false, exits
		}

	case ast.KindWhileStmt:
		v.processRead(n.Cond, state)
		_, _, e := v.processStmt(n.Then, cloneState(state), nil)
		exits = append(exits, e...)
		return state, false, exits

	case ast.KindDoWhileStmt:
		bodyState, term, e := v.processStmt(n.Then, cloneState(state), nil)
		exits = append(exits, e...)
		v.processRead(n.Cond, bodyState)
		if term {
			return state, true, exits
		}
		return bodyState, false, exits

	case ast.KindForStmt:
		s := cloneState(state)
		s, _, e0 := v.processStmt(n.ForInit, s, nil)
		exits = append(exits, e0...)
		if n.ForCond != ast.NoNode {
			v.processRead(n.ForCond, s)
		}
		bodyState, _, e := v.processStmt(n.ForBody, cloneState(s), nil)
		exits = append(exits, e...)
		if n.ForIncr != ast.NoNode {
			v.processRead(n.ForIncr, bodyState)
		}
		return s, false, exits

	case ast.KindReturnStmt:
		if n.ReturnValue != ast.NoNode {
			v.processRead(n.ReturnValue, state)
			if v.trackReturn {
				state = cloneState(state)
				markAllWritten(state, v.returnKey, v.tree.Node(v.returnKey).FuncReturnType.TotalAccessPointCount)
			}
		}
		exits = append(exits, state)
		return state, true, exits

	case ast.KindVarDeclStmt:
		for _, varID := range v.tree.Children(id) {
			v.processVarDecl(varID, state)
		}
		return state, false, exits

	case ast.KindExprStmt:
		v.processStmtExpr(v.tree.Children(id)[0], state)
		return state, false, exits

	case ast.KindDiscardStmt:
		return state, true, exits

	case ast.KindBreakStmt, ast.KindContinueStmt:
		return state, false, exits

	default:
		return state, false, exits
	}
}

func (v *VariableAccessValidator) processVarDecl(id ast.NodeID, state varState) {
	n := v.tree.Node(id)
	children := v.tree.Children(id)
	if len(children) > 0 {
		v.processRead(children[0], state)
		markAllWritten(state, id, n.DeclType.TotalAccessPointCount)
	} else {
		state[id] = newBitset(n.DeclType.TotalAccessPointCount)
	}
}

// processStmtExpr handles a bare expression statement: an assignment
// writes its target, an increment/decrement reads-then-writes its
// operand, and anything else (a call for its side effects) is a read
// of every subexpression it contains.
func (v *VariableAccessValidator) processStmtExpr(id ast.NodeID, state varState) {
	n := v.tree.Node(id)
	switch n.Kind {
	case ast.KindBinaryOpExpr:
		if token.IsAssignOp(n.Operator) {
			children := v.tree.Children(id)
			lhs, rhs := children[0], children[1]
			v.processRead(rhs, state)
			if n.Operator != token.OpAssign {
				v.processRead(lhs, state) // compound assignment also reads its target
			}
			v.processWrite(lhs, state)
			return
		}
	case ast.KindIncDecOpExpr:
		operand := v.tree.Children(id)[0]
		v.processRead(operand, state)
		v.processWrite(operand, state)
		return
	}
	v.processRead(id, state)
}

// processWrite marks the access points designated by id as written,
// without requiring them to already be initialized.
func (v *VariableAccessValidator) processWrite(id ast.NodeID, state varState) {
	decl, indices, ok := resolveAccessPath(v.tree, id)
	if !ok {
		return
	}
	total := v.tree.Node(decl).DeclType.TotalAccessPointCount
	markWritten(state, decl, total, indices)
}

// processRead recursively validates every DeclRefExpr reached from id
// that is not itself the target of an enclosing write, requiring all
// of its designated access points to already be written, and recurses
// into every child for nested reads (e.g. both operands of a binary
// expression, a call's arguments, an out-argument's base in addition
// to marking it written for user function calls).
func (v *VariableAccessValidator) processRead(id ast.NodeID, state varState) {
	if id == ast.NoNode {
		return
	}
	n := v.tree.Node(id)

	if n.Kind == ast.KindOpExpr && n.ResolvedFunc != ast.NoNode {
		v.processCallArgs(id, state)
		return
	}

	if n.Kind == ast.KindDeclRefExpr {
		decl, indices, ok := resolveAccessPath(v.tree, id)
		if !ok {
			return
		}
		total := v.tree.Node(decl).DeclType.TotalAccessPointCount
		bs, known := state[decl]
		if !known {
			bs = newBitset(total)
		}
		for _, i := range indices {
			if !bs.test(i) {
				v.diags.Add(diag.Dataflow, n.Loc, "use of uninitialized variable `%s`", v.tree.Node(decl).Name)
				return
			}
		}
		return
	}

	for _, c := range v.tree.Children(id) {
		v.processRead(c, state)
	}
}

// processCallArgs reads every argument of a resolved user function
// call, additionally marking an `out`/`inout` parameter's corresponding
// argument as written rather than read, mirroring the callee's
// parameter attributes onto the call site.
func (v *VariableAccessValidator) processCallArgs(id ast.NodeID, state varState) {
	n := v.tree.Node(id)
	params := v.tree.Children(n.ResolvedFunc)
	if len(params) > 0 {
		params = params[:len(params)-1]
	}
	args := v.tree.Children(id)
	for i, arg := range args {
		var flags ast.VarFlags
		if i < len(params) {
			flags = v.tree.Node(params[i]).Flags
		}
		if flags.Has(ast.AttrOut) {
			v.processWrite(arg, state)
			if flags.Has(ast.AttrIn) {
				v.processRead(arg, state)
			}
			continue
		}
		v.processRead(arg, state)
	}
}
