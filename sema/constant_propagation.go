package sema

import (
	"math"

	"shaderxc/ast"
	"shaderxc/token"
	"shaderxc/types"
)

// ConstantPropagation is a post-order walker that replaces any
// expression whose operands are all compile-time constants with a
// fresh literal node holding the computed value.
//
// There is no dedicated constant-vector/constant-matrix node kind, so
// a constant vector value is represented structurally: an InitListExpr
// whose every child has already been folded to a scalar literal. Only
// expressions whose own ReturnType is scalar are ever collapsed into a
// single BoolExpr/Int32Expr/Float32Expr node; a swizzle that narrows a
// constant vector still produces an InitListExpr (of the narrowed
// width, including width 1), since a one-component vector and a bare
// scalar remain distinct types here.
type ConstantPropagation struct{}

// RunOnAST folds every function body and global/cbuffer initializer in tree.
func (ConstantPropagation) RunOnAST(tree *ast.Tree) {
	v := ast.Visitor{Leave: fold}
	ast.WalkFunctions(tree, v)
	for _, g := range tree.GlobalVars {
		for _, c := range tree.Children(g) {
			ast.Walk(tree, c, v)
		}
	}
}

func isConstantLiteral(t *ast.Tree, id ast.NodeID) bool {
	switch t.Node(id).Kind {
	case ast.KindBoolExpr, ast.KindInt32Expr, ast.KindFloat32Expr:
		return true
	}
	return false
}

func isConstant(t *ast.Tree, id ast.NodeID) bool {
	if isConstantLiteral(t, id) {
		return true
	}
	n := t.Node(id)
	if n.Kind != ast.KindInitListExpr {
		return false
	}
	for _, c := range t.Children(id) {
		if !isConstant(t, c) {
			return false
		}
	}
	return true
}

func fold(t *ast.Tree, id ast.NodeID) {
	n := t.Node(id)
	var newID ast.NodeID
	var ok bool
	switch n.Kind {
	case ast.KindUnaryOpExpr:
		newID, ok = foldUnary(t, id)
	case ast.KindBinaryOpExpr:
		newID, ok = foldBinary(t, id)
	case ast.KindCastExpr:
		newID, ok = foldCast(t, id)
	case ast.KindMemberExpr:
		newID, ok = foldSwizzle(t, id)
	}
	if ok {
		t.Replace(id, newID)
	}
}

func foldUnary(t *ast.Tree, id ast.NodeID) (ast.NodeID, bool) {
	n := t.Node(id)
	operand := t.Children(id)[0]
	if !isConstantLiteral(t, operand) {
		return ast.NoNode, false
	}
	on := *t.Node(operand)

	newID := t.New(on.Kind, n.Loc)
	nn := t.Node(newID)
	switch n.Operator {
	case token.OpSub:
		switch on.ReturnType.Kind {
		case types.KindFloat32, types.KindFloat16:
			nn.FloatVal = -on.FloatVal
		default:
			nn.IntVal = -on.IntVal
		}
	case token.OpNot:
		nn.BoolVal = !on.BoolVal
	case token.OpInv:
		nn.IntVal = ^on.IntVal
	default:
		return ast.NoNode, false
	}
	t.SetReturnType(newID, n.ReturnType)
	return newID, true
}

func foldBinary(t *ast.Tree, id ast.NodeID) (ast.NodeID, bool) {
	n := t.Node(id)
	if token.IsAssignOp(n.Operator) {
		return ast.NoNode, false
	}
	children := t.Children(id)
	lhs, rhs := children[0], children[1]
	if !isConstantLiteral(t, lhs) || !isConstantLiteral(t, rhs) {
		return ast.NoNode, false
	}
	ln, rn := t.Node(lhs), t.Node(rhs)

	var newID ast.NodeID
	switch {
	case n.Operator == token.OpLogicalAnd || n.Operator == token.OpLogicalOr:
		newID = t.New(ast.KindBoolExpr, n.Loc)
		if n.Operator == token.OpLogicalAnd {
			t.Node(newID).BoolVal = ln.BoolVal && rn.BoolVal
		} else {
			t.Node(newID).BoolVal = ln.BoolVal || rn.BoolVal
		}

	case token.IsCompareOp(n.Operator):
		newID = t.New(ast.KindBoolExpr, n.Loc)
		t.Node(newID).BoolVal = evalCompare(n.Operator, ln, rn)

	default:
		switch ln.ReturnType.Kind {
		case types.KindFloat32, types.KindFloat16:
			res, ok := evalFloatOp(n.Operator, ln.FloatVal, rn.FloatVal)
			if !ok {
				return ast.NoNode, false
			}
			newID = t.New(ast.KindFloat32Expr, n.Loc)
			t.Node(newID).FloatVal = res
		case types.KindInt32, types.KindUInt32:
			res, ok := evalIntOp(n.Operator, ln.IntVal, rn.IntVal, ln.ReturnType.Kind == types.KindUInt32)
			if !ok {
				return ast.NoNode, false
			}
			newID = t.New(ast.KindInt32Expr, n.Loc)
			t.Node(newID).IntVal = res
		default:
			return ast.NoNode, false
		}
	}
	t.SetReturnType(newID, n.ReturnType)
	return newID, true
}

func evalCompare(op token.Kind, ln, rn *ast.Node) bool {
	switch ln.ReturnType.Kind {
	case types.KindBool:
		switch op {
		case token.OpEq:
			return ln.BoolVal == rn.BoolVal
		case token.OpNEq:
			return ln.BoolVal != rn.BoolVal
		}
		return false
	case types.KindFloat32, types.KindFloat16:
		a, b := ln.FloatVal, rn.FloatVal
		switch op {
		case token.OpEq:
			return a == b
		case token.OpNEq:
			return a != b
		case token.OpLess:
			return a < b
		case token.OpGreater:
			return a > b
		case token.OpLEq:
			return a <= b
		case token.OpGEq:
			return a >= b
		}
		return false
	case types.KindUInt32:
		a, b := uint32(ln.IntVal), uint32(rn.IntVal)
		switch op {
		case token.OpEq:
			return a == b
		case token.OpNEq:
			return a != b
		case token.OpLess:
			return a < b
		case token.OpGreater:
			return a > b
		case token.OpLEq:
			return a <= b
		case token.OpGEq:
			return a >= b
		}
		return false
	default:
		a, b := ln.IntVal, rn.IntVal
		switch op {
		case token.OpEq:
			return a == b
		case token.OpNEq:
			return a != b
		case token.OpLess:
			return a < b
		case token.OpGreater:
			return a > b
		case token.OpLEq:
			return a <= b
		case token.OpGEq:
			return a >= b
		}
		return false
	}
}

// evalFloatOp evaluates + - * / % in double precision; the result is
// rounded to the destination's precision (half vs single) when it is
// later read back out through FloatVal at half width elsewhere.
func evalFloatOp(op token.Kind, a, b float64) (float64, bool) {
	switch op {
	case token.OpAdd:
		return a + b, true
	case token.OpSub:
		return a - b, true
	case token.OpMul:
		return a * b, true
	case token.OpDiv:
		return a / b, true
	case token.OpMod:
		return math.Mod(a, b), true
	default:
		return 0, false
	}
}

func evalIntOp(op token.Kind, a, b int32, unsigned bool) (int32, bool) {
	switch op {
	case token.OpAdd:
		return a + b, true
	case token.OpSub:
		return a - b, true
	case token.OpMul:
		return a * b, true
	case token.OpDiv:
		if b == 0 {
			return 0, false
		}
		if unsigned {
			return int32(uint32(a) / uint32(b)), true
		}
		return a / b, true
	case token.OpMod:
		if b == 0 {
			return 0, false
		}
		if unsigned {
			return int32(uint32(a) % uint32(b)), true
		}
		return a % b, true
	case token.OpAnd:
		return a & b, true
	case token.OpOr:
		return a | b, true
	case token.OpXor:
		return a ^ b, true
	case token.OpLsh:
		return a << uint(b&31), true
	case token.OpRsh:
		if unsigned {
			return int32(uint32(a) >> uint(b&31)), true
		}
		return a >> uint(b&31), true
	default:
		return 0, false
	}
}

func foldCast(t *ast.Tree, id ast.NodeID) (ast.NodeID, bool) {
	n := t.Node(id)
	operand := t.Children(id)[0]
	if !isConstantLiteral(t, operand) || !n.ReturnType.Kind.IsScalar() {
		return ast.NoNode, false
	}
	on := t.Node(operand)

	var f float64
	switch on.ReturnType.Kind {
	case types.KindBool:
		if on.BoolVal {
			f = 1
		}
	case types.KindFloat32, types.KindFloat16:
		f = on.FloatVal
	case types.KindUInt32:
		f = float64(uint32(on.IntVal))
	default:
		f = float64(on.IntVal)
	}

	var newID ast.NodeID
	switch n.ReturnType.Kind {
	case types.KindBool:
		newID = t.New(ast.KindBoolExpr, n.Loc)
		t.Node(newID).BoolVal = f != 0
	case types.KindFloat32, types.KindFloat16:
		newID = t.New(ast.KindFloat32Expr, n.Loc)
		t.Node(newID).FloatVal = f
	case types.KindUInt32:
		newID = t.New(ast.KindInt32Expr, n.Loc)
		t.Node(newID).IntVal = int32(uint32(int64(f)))
	default:
		newID = t.New(ast.KindInt32Expr, n.Loc)
		t.Node(newID).IntVal = int32(f)
	}
	t.SetReturnType(newID, n.ReturnType)
	return newID, true
}

// foldSwizzle replaces a swizzle of an already-constant vector (an
// InitListExpr of literal components) with a narrower InitListExpr
// picking out just the selected, reordered components.
func foldSwizzle(t *ast.Tree, id ast.NodeID) (ast.NodeID, bool) {
	n := t.Node(id)
	if !n.IsSwizzle {
		return ast.NoNode, false
	}
	base := t.Children(id)[0]
	if t.Node(base).Kind != ast.KindInitListExpr {
		return ast.NoNode, false
	}
	baseChildren := t.Children(base)
	for _, c := range baseChildren {
		if !isConstantLiteral(t, c) {
			return ast.NoNode, false
		}
	}

	newID := t.New(ast.KindInitListExpr, n.Loc)
	for _, si := range n.SwizzleIndices {
		sn := *t.Node(baseChildren[si])
		lit := t.New(sn.Kind, sn.Loc)
		ln := t.Node(lit)
		ln.BoolVal, ln.IntVal, ln.FloatVal = sn.BoolVal, sn.IntVal, sn.FloatVal
		t.SetReturnType(lit, sn.ReturnType)
		t.AppendChild(newID, lit)
	}
	t.SetReturnType(newID, n.ReturnType)
	return newID, true
}
