package parser

import (
	"shaderxc/ast"
	"shaderxc/diag"
	"shaderxc/token"
	"shaderxc/types"
)

// userFuncParamTypes returns a function ASTNode's parameter types in
// declaration order (every child but the trailing body BlockStmt).
func (p *Parser) userFuncParamTypes(fn ast.NodeID) []*types.Type {
	children := p.tree.Children(fn)
	if len(children) == 0 {
		return nil
	}
	params := children[:len(children)-1]
	out := make([]*types.Type, len(params))
	for i, pid := range params {
		out[i] = p.tree.Node(pid).DeclType
	}
	return out
}

// calcOverloadMatchFactor sums each argument's CastCost against the
// corresponding parameter type (hlslparser.hpp's
// CalcOverloadMatchFactor), returning ok=false if arity mismatches or
// any argument has no implicit conversion to its parameter.
func calcOverloadMatchFactor(argTypes, paramTypes []*types.Type) (cost int, ok bool) {
	if len(argTypes) != len(paramTypes) {
		return 0, false
	}
	for i, at := range argTypes {
		c := types.CastCost(at, paramTypes[i])
		if c < 0 {
			return 0, false
		}
		cost += c
	}
	return cost, true
}

type overloadCandidate struct {
	isBuiltin  bool
	builtin    types.BuiltinSignature
	fn         ast.NodeID
	paramTypes []*types.Type
	cost       int
}

// resolveCall performs overload resolution against both built-in
// intrinsics and user-declared functions named name, builds the
// resulting OpExpr, and inserts implicit casts around arguments that
// need them.
func (p *Parser) resolveCall(name string, argIDs []ast.NodeID, loc token.Location) ast.NodeID {
	argTypes := make([]*types.Type, len(argIDs))
	for i, a := range argIDs {
		argTypes[i] = p.exprType(a)
	}

	var candidates []overloadCandidate
	for _, sig := range types.LookupBuiltins(name) {
		paramTypes := make([]*types.Type, sig.Arity)
		for i := range paramTypes {
			if i < len(argTypes) {
				paramTypes[i] = argTypes[i]
			} else {
				paramTypes[i] = p.tree.Universe.Void
			}
		}
		if cost, ok := calcOverloadMatchFactor(argTypes, paramTypes); ok {
			candidates = append(candidates, overloadCandidate{isBuiltin: true, builtin: sig, paramTypes: paramTypes, cost: cost})
		}
	}
	for _, fn := range p.functions[name] {
		paramTypes := p.userFuncParamTypes(fn)
		if cost, ok := calcOverloadMatchFactor(argTypes, paramTypes); ok {
			candidates = append(candidates, overloadCandidate{fn: fn, paramTypes: paramTypes, cost: cost})
		}
	}

	if len(candidates) == 0 {
		p.diags.Add(diag.Semantic, loc, "no matching overload for call to %q", name)
		id := p.tree.New(ast.KindOpExpr, loc)
		for _, a := range argIDs {
			p.tree.AppendChild(id, a)
		}
		p.tree.SetReturnType(id, p.tree.Universe.Void)
		return id
	}

	best := candidates[0]
	ambiguous := false
	for _, c := range candidates[1:] {
		switch {
		case c.cost < best.cost:
			best = c
			ambiguous = false
		case c.cost == best.cost:
			ambiguous = true
		}
	}
	if ambiguous {
		p.diags.Add(diag.Semantic, loc, "ambiguous call to %q", name)
	}

	for i, a := range argIDs {
		argIDs[i] = p.coerce(a, best.paramTypes[i])
	}

	id := p.tree.New(ast.KindOpExpr, loc)
	n := p.tree.Node(id)
	for _, a := range argIDs {
		p.tree.AppendChild(id, a)
	}
	if best.isBuiltin {
		n.IsBuiltin = true
		n.IntrinsicOp = best.builtin.Op
		p.tree.SetReturnType(id, p.builtinResultType(best.builtin, argIDs))
		switch {
		case best.builtin.Op.IsDerivative():
			p.tree.UsingDerivatives = true
		case best.builtin.Op.IsLODTextureSample():
			p.tree.UsingLODTextureSampling = true
		case best.builtin.Op.IsGradTextureSample():
			p.tree.UsingGradTextureSampling = true
		}
	} else {
		n.ResolvedFunc = best.fn
		n.IntrinsicOp = types.OpFCall
		p.tree.Node(best.fn).IsUsed = true
		p.tree.SetReturnType(id, p.tree.Node(best.fn).FuncReturnType)
	}
	return id
}

func (p *Parser) builtinResultType(sig types.BuiltinSignature, argIDs []ast.NodeID) *types.Type {
	u := p.tree.Universe
	arg0 := func() *types.Type {
		if len(argIDs) == 0 {
			return u.Void
		}
		return p.exprType(argIDs[0])
	}
	switch sig.Result {
	case types.ResultSameAsArg0:
		return arg0()
	case types.ResultScalarOfArg0:
		t := arg0()
		if t.Kind == types.KindVector {
			return t.SubType
		}
		return t
	case types.ResultBool:
		return u.Bool
	case types.ResultBoolVectorOfArg0:
		t := arg0()
		if t.Kind == types.KindVector {
			return u.GetVectorType(types.KindBool, t.Width)
		}
		return u.Bool
	case types.ResultTransposeShape:
		t := arg0()
		if t.Kind == types.KindMatrix {
			return u.GetMatrixType(t.SubType.Kind, t.Cols, t.Rows)
		}
		return t
	case types.ResultSampledVector4:
		return u.GetVectorType(types.KindFloat32, 4)
	case types.ResultCommonOpType:
		if len(argIDs) < 2 {
			return arg0()
		}
		common, ok := types.FindCommonOpType(p.exprType(argIDs[0]), p.exprType(argIDs[1]))
		if !ok {
			return arg0()
		}
		return common
	case types.ResultVoid:
		return u.Void
	default:
		return arg0()
	}
}

// buildConstructor handles a type-name call like `float3(a, b, c)`: a
// same-shape initializer-list expression rather than a function call.
func (p *Parser) buildConstructor(typ *types.Type, argIDs []ast.NodeID, loc token.Location) ast.NodeID {
	total := 0
	for _, a := range argIDs {
		total += constructorAccessPoints(p.exprType(a))
	}
	if total != typ.TotalAccessPointCount {
		p.diags.Add(diag.Semantic, loc, "constructor for %s expects %d component(s), got %d", typ, typ.TotalAccessPointCount, total)
	}
	elem := typ
	if typ.Kind == types.KindVector || typ.Kind == types.KindMatrix {
		elem = typ.SubType
	}
	id := p.tree.New(ast.KindInitListExpr, loc)
	for _, a := range argIDs {
		if p.exprType(a).Kind.IsScalar() && elem.Kind.IsScalar() {
			a = p.coerce(a, elem)
		}
		p.tree.AppendChild(id, a)
	}
	p.tree.SetReturnType(id, typ)
	return id
}

func constructorAccessPoints(t *types.Type) int {
	switch t.Kind {
	case types.KindVector:
		return t.Width
	case types.KindMatrix:
		return t.Rows * t.Cols
	default:
		return 1
	}
}
