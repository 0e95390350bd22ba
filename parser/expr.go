package parser

import (
	"math"

	"shaderxc/ast"
	"shaderxc/diag"
	"shaderxc/token"
	"shaderxc/types"
)

// parseExpression parses one expression ending at the next depth-0
// ';', ')'/']' or '}', consuming it from the cursor.
func (p *Parser) parseExpression() ast.NodeID {
	toks := p.readExpressionTokens(false)
	return p.parseExprRange(toks)
}

// precedenceScore ranks an operator from weakest-binding (1, tried as
// the split point first) to tightest-binding (12), mirroring
// hlslparser.hpp's GetSplitScore: the split with the lowest score
// becomes the root of the expression subtree, since it is evaluated
// last.
func precedenceScore(k token.Kind) int {
	switch k {
	case token.OpAssign, token.OpAddEq, token.OpSubEq, token.OpMulEq, token.OpDivEq,
		token.OpModEq, token.OpAndEq, token.OpOrEq, token.OpXorEq, token.OpLshEq, token.OpRshEq:
		return 1
	case token.OpTernary:
		return 2
	case token.OpLogicalOr:
		return 3
	case token.OpLogicalAnd:
		return 4
	case token.OpOr:
		return 5
	case token.OpXor:
		return 6
	case token.OpAnd:
		return 7
	case token.OpEq, token.OpNEq:
		return 8
	case token.OpLess, token.OpGreater, token.OpLEq, token.OpGEq:
		return 9
	case token.OpLsh, token.OpRsh:
		return 10
	case token.OpAdd, token.OpSub:
		return 11
	case token.OpMul, token.OpDiv, token.OpMod:
		return 12
	default:
		return math.MaxInt32
	}
}

func isRightAssoc(k token.Kind) bool {
	return k == token.OpTernary || token.IsAssignOp(k)
}

func isBinaryCandidate(k token.Kind) bool {
	return precedenceScore(k) != math.MaxInt32
}

// findBestSplit scans toks at bracket depth 0 for the operator that
// should become the root of the expression: the lowest-precedence
// operator, with ties broken toward the last
// occurrence for left-associative operators and the first occurrence
// for right-associative ones. A leading +/-/!/~/++/-- is recognized as
// a unary prefix (not a split candidate) via the expectOperand state
// machine: it only becomes a binary candidate once an operand has been
// seen.
func findBestSplit(toks []token.Token) (idx int, kind token.Kind, ok bool) {
	depth := 0
	ternDepth := 0
	expectOperand := true
	best := math.MaxInt32
	bestIdx := -1
	var bestKind token.Kind

	for i, tok := range toks {
		switch tok.Kind {
		case token.LParen, token.LBracket:
			depth++
			expectOperand = true
			continue
		case token.RParen, token.RBracket:
			depth--
			expectOperand = false
			continue
		}
		if depth > 0 {
			continue
		}

		if tok.Kind == token.OpTernary {
			if !expectOperand {
				sc := precedenceScore(tok.Kind)
				if sc < best {
					best, bestIdx, bestKind = sc, i, tok.Kind
				}
			}
			ternDepth++
			expectOperand = true
			continue
		}
		if tok.Kind == token.Colon {
			if ternDepth > 0 {
				ternDepth--
			}
			expectOperand = true
			continue
		}

		if isBinaryCandidate(tok.Kind) && !expectOperand {
			sc := precedenceScore(tok.Kind)
			if isRightAssoc(tok.Kind) {
				if sc < best {
					best, bestIdx, bestKind = sc, i, tok.Kind
				}
			} else {
				if sc <= best {
					best, bestIdx, bestKind = sc, i, tok.Kind
				}
			}
			expectOperand = true
			continue
		}

		switch tok.Kind {
		case token.Ident, token.IdentNoReplace, token.IntLit, token.FloatLit, token.BoolLit, token.StringLit:
			expectOperand = false
		case token.OpAdd, token.OpSub, token.OpNot, token.OpInv, token.OpInc, token.OpDec:
			// prefix context: expectOperand stays true
		}
	}
	return bestIdx, bestKind, bestIdx >= 0
}

// matchTernaryColon finds the ':' matching the '?' at toks[qIdx],
// skipping over nested ternaries and parenthesized/bracketed groups.
func matchTernaryColon(toks []token.Token, qIdx int) (int, bool) {
	depth := 0
	nest := 0
	for i := qIdx + 1; i < len(toks); i++ {
		switch toks[i].Kind {
		case token.LParen, token.LBracket:
			depth++
		case token.RParen, token.RBracket:
			depth--
		case token.OpTernary:
			if depth == 0 {
				nest++
			}
		case token.Colon:
			if depth == 0 {
				if nest == 0 {
					return i, true
				}
				nest--
			}
		}
	}
	return -1, false
}

// parseExprRange parses a complete expression out of a standalone
// token snapshot (as produced by readExpressionTokens or an argument
// split), type-checking every node as it is built.
func (p *Parser) parseExprRange(toks []token.Token) ast.NodeID {
	if len(toks) == 0 {
		loc := p.curLoc()
		p.diags.Add(diag.Syntactic, loc, "expected expression")
		return p.voidErrorExpr(loc)
	}

	idx, kind, ok := findBestSplit(toks)
	if !ok {
		return p.parsePrimaryRange(toks)
	}

	if kind == token.OpTernary {
		colon, found := matchTernaryColon(toks, idx)
		if !found {
			p.diags.Add(diag.Syntactic, toks[idx].Loc, "expected ':' to complete '?:' expression")
			return p.parsePrimaryRange(toks[:idx])
		}
		cond := p.parseExprRange(toks[:idx])
		thenID := p.parseExprRange(toks[idx+1 : colon])
		elseID := p.parseExprRange(toks[colon+1:])
		return p.buildTernary(toks[idx].Loc, cond, thenID, elseID)
	}

	lhs := p.parseExprRange(toks[:idx])
	rhs := p.parseExprRange(toks[idx+1:])
	return p.buildBinary(kind, toks[idx].Loc, lhs, rhs)
}

func (p *Parser) exprType(id ast.NodeID) *types.Type {
	t := p.tree.Node(id).ReturnType
	if t == nil {
		return p.tree.Universe.Void
	}
	return t
}

// coerce wraps expr in an implicit CastExpr to target if needed,
// diagnosing an error and returning expr unchanged if no cast exists.
func (p *Parser) coerce(id ast.NodeID, target *types.Type) ast.NodeID {
	from := p.exprType(id)
	if from == target {
		return id
	}
	if !types.CanCast(from, target, false) {
		p.diags.Add(diag.Semantic, p.tree.Node(id).Loc, "cannot implicitly convert %s to %s", from, target)
		return id
	}
	loc := p.tree.Node(id).Loc
	cast := p.tree.New(ast.KindCastExpr, loc)
	p.tree.AppendChild(cast, id)
	p.tree.SetReturnType(cast, target)
	return cast
}

func (p *Parser) buildTernary(loc token.Location, cond, thenID, elseID ast.NodeID) ast.NodeID {
	cond = p.coerce(cond, p.tree.Universe.Bool)
	common, ok := types.Promote(p.exprType(thenID), p.exprType(elseID))
	if !ok {
		p.diags.Add(diag.Semantic, loc, "ternary branches have incompatible types %s and %s", p.exprType(thenID), p.exprType(elseID))
		common = p.exprType(thenID)
	}
	thenID = p.coerce(thenID, common)
	elseID = p.coerce(elseID, common)
	id := p.tree.New(ast.KindTernaryOpExpr, loc)
	p.tree.AppendChild(id, cond)
	p.tree.AppendChild(id, thenID)
	p.tree.AppendChild(id, elseID)
	p.tree.SetReturnType(id, common)
	return id
}

func (p *Parser) buildBinary(op token.Kind, loc token.Location, lhs, rhs ast.NodeID) ast.NodeID {
	lt, rt := p.exprType(lhs), p.exprType(rhs)
	var result *types.Type

	switch {
	case token.IsAssignOp(op):
		result = lt
		rhs = p.coerce(rhs, lt)
	case token.IsCompareOp(op):
		common, ok := types.FindCommonOpType(lt, rt)
		if !ok {
			p.diags.Add(diag.Semantic, loc, "cannot compare %s and %s", lt, rt)
			common = lt
		}
		lhs = p.coerce(lhs, common)
		rhs = p.coerce(rhs, common)
		result = p.tree.Universe.Bool
	case op == token.OpLogicalAnd || op == token.OpLogicalOr:
		lhs = p.coerce(lhs, p.tree.Universe.Bool)
		rhs = p.coerce(rhs, p.tree.Universe.Bool)
		result = p.tree.Universe.Bool
	default:
		common, ok := types.FindCommonOpType(lt, rt)
		if !ok {
			p.diags.Add(diag.Semantic, loc, "incompatible operand types %s and %s for operator %s", lt, rt, op)
			common = lt
		}
		lhs = p.coerce(lhs, common)
		rhs = p.coerce(rhs, common)
		result = common
	}

	id := p.tree.New(ast.KindBinaryOpExpr, loc)
	p.tree.Node(id).Operator = op
	p.tree.AppendChild(id, lhs)
	p.tree.AppendChild(id, rhs)
	p.tree.SetReturnType(id, result)
	return id
}

func (p *Parser) buildUnary(op token.Kind, loc token.Location, operand ast.NodeID) ast.NodeID {
	t := p.exprType(operand)
	var result *types.Type
	switch op {
	case token.OpNot:
		operand = p.coerce(operand, p.tree.Universe.Bool)
		result = p.tree.Universe.Bool
	case token.OpSub, token.OpInv:
		result = t
	default:
		result = t
	}
	id := p.tree.New(ast.KindUnaryOpExpr, loc)
	p.tree.Node(id).Operator = op
	p.tree.AppendChild(id, operand)
	p.tree.SetReturnType(id, result)
	return id
}

func (p *Parser) buildIncDec(isIncrement, isPrefix bool, loc token.Location, operand ast.NodeID) ast.NodeID {
	id := p.tree.New(ast.KindIncDecOpExpr, loc)
	n := p.tree.Node(id)
	n.IsIncrement = isIncrement
	n.IsPrefix = isPrefix
	p.tree.AppendChild(id, operand)
	p.tree.SetReturnType(id, p.exprType(operand))
	return id
}

// parsePrimaryRange parses a unary-prefixed, postfix-chained primary
// expression that findBestSplit found no top-level binary/ternary
// operator within.
func (p *Parser) parsePrimaryRange(toks []token.Token) ast.NodeID {
	if len(toks) == 0 {
		loc := p.curLoc()
		p.diags.Add(diag.Syntactic, loc, "expected expression")
		return p.voidErrorExpr(loc)
	}

	switch toks[0].Kind {
	case token.OpAdd:
		return p.parsePrimaryRange(toks[1:])
	case token.OpSub, token.OpNot, token.OpInv:
		return p.buildUnary(toks[0].Kind, toks[0].Loc, p.parsePrimaryRange(toks[1:]))
	case token.OpInc, token.OpDec:
		isInc := toks[0].Kind == token.OpInc
		return p.buildIncDec(isInc, true, toks[0].Loc, p.parsePrimaryRange(toks[1:]))
	case token.LParen:
		if close, ok := matchParen(toks, 0); ok && close+1 < len(toks) {
			inner := toks[1:close]
			if typ, ok := p.typeNameFromTokens(inner); ok {
				operand := p.parsePrimaryRange(toks[close+1:])
				return p.buildCast(typ, operand, toks[0].Loc)
			}
		}
	}

	if last := toks[len(toks)-1]; last.Kind == token.OpInc || last.Kind == token.OpDec {
		base := p.parsePostfixChain(toks[:len(toks)-1])
		return p.buildIncDec(last.Kind == token.OpInc, false, last.Loc, base)
	}

	return p.parsePostfixChain(toks)
}

// typeNameFromTokens reports whether toks spells exactly one type
// name, used to recognize a C-style cast `(Type)expr`.
func (p *Parser) typeNameFromTokens(toks []token.Token) (*types.Type, bool) {
	if len(toks) != 1 || (toks[0].Kind != token.Ident && toks[0].Kind != token.IdentNoReplace) {
		return nil, false
	}
	typ := p.resolveTypeName(p.text(toks[0]))
	return typ, typ != nil
}

func (p *Parser) buildCast(typ *types.Type, operand ast.NodeID, loc token.Location) ast.NodeID {
	from := p.exprType(operand)
	if !types.CanCast(from, typ, true) {
		p.diags.Add(diag.Semantic, loc, "cannot cast %s to %s", from, typ)
	}
	id := p.tree.New(ast.KindCastExpr, loc)
	p.tree.AppendChild(id, operand)
	p.tree.SetReturnType(id, typ)
	return id
}

// parsePostfixChain parses a base atom followed by any number of
// `.member`/`[index]` suffixes.
func (p *Parser) parsePostfixChain(toks []token.Token) ast.NodeID {
	i := 0
	base := p.parseAtom(toks, &i)
	for i < len(toks) {
		switch toks[i].Kind {
		case token.OpMember:
			dotLoc := toks[i].Loc
			i++
			if i >= len(toks) || (toks[i].Kind != token.Ident && toks[i].Kind != token.IdentNoReplace) {
				p.diags.Add(diag.Syntactic, dotLoc, "expected member name after '.'")
				return base
			}
			name := p.text(toks[i])
			loc := toks[i].Loc
			i++
			base = p.buildMember(base, name, loc)
		case token.LBracket:
			loc := toks[i].Loc
			depth := 1
			start := i + 1
			j := start
			for j < len(toks) && depth > 0 {
				switch toks[j].Kind {
				case token.LBracket:
					depth++
				case token.RBracket:
					depth--
				}
				if depth > 0 {
					j++
				}
			}
			idxToks := toks[start:j]
			i = j + 1
			idxID := p.parseExprRange(idxToks)
			base = p.buildIndex(base, idxID, loc)
		default:
			p.diags.Add(diag.Syntactic, toks[i].Loc, "unexpected token %s in expression", toks[i].Kind)
			return base
		}
	}
	return base
}

// swizzleIndices returns the component indices for a swizzle name
// ("xyzw" or "rgba", not mixed, length 1-4), and whether name is a
// legal swizzle for a vector of the given width.
func swizzleIndices(name string, width int) ([]int, bool) {
	if len(name) < 1 || len(name) > 4 {
		return nil, false
	}
	sets := [2]string{"xyzw", "rgba"}
	for _, set := range sets {
		indices := make([]int, 0, len(name))
		ok := true
		for _, ch := range name {
			pos := -1
			for i, sc := range set {
				if sc == ch {
					pos = i
					break
				}
			}
			if pos < 0 || pos >= width {
				ok = false
				break
			}
			indices = append(indices, pos)
		}
		if ok {
			return indices, true
		}
	}
	return nil, false
}

func (p *Parser) buildMember(base ast.NodeID, name string, loc token.Location) ast.NodeID {
	baseType := p.exprType(base)
	id := p.tree.New(ast.KindMemberExpr, loc)
	p.tree.AppendChild(id, base)

	if baseType.Kind == types.KindVector {
		if indices, ok := swizzleIndices(name, baseType.Width); ok {
			n := p.tree.Node(id)
			n.IsSwizzle = true
			n.SwizzleIndices = indices
			p.tree.SetReturnType(id, p.tree.Universe.GetVectorType(baseType.SubType.Kind, len(indices)))
			return id
		}
		p.diags.Add(diag.Semantic, loc, "%q is not a valid swizzle of %s", name, baseType)
		p.tree.SetReturnType(id, p.tree.Universe.Void)
		return id
	}

	if baseType.Kind == types.KindStruct {
		for i, m := range baseType.Members {
			if m.Name == name {
				p.tree.Node(id).MemberIndex = i
				p.tree.SetReturnType(id, m.Type)
				return id
			}
		}
		p.diags.Add(diag.Semantic, loc, "type %s has no member %q", baseType, name)
		p.tree.SetReturnType(id, p.tree.Universe.Void)
		return id
	}

	p.diags.Add(diag.Semantic, loc, "type %s does not support member access", baseType)
	p.tree.SetReturnType(id, p.tree.Universe.Void)
	return id
}

func (p *Parser) buildIndex(base, indexExpr ast.NodeID, loc token.Location) ast.NodeID {
	baseType := p.exprType(base)
	id := p.tree.New(ast.KindIndexExpr, loc)
	p.tree.AppendChild(id, base)
	p.tree.AppendChild(id, indexExpr)

	if !baseType.IsIndexable() {
		p.diags.Add(diag.Semantic, loc, "type %s cannot be indexed", baseType)
		p.tree.SetReturnType(id, p.tree.Universe.Void)
		return id
	}

	var elem *types.Type
	switch baseType.Kind {
	case types.KindVector:
		elem = baseType.SubType
	case types.KindArray:
		elem = baseType.SubType
	case types.KindMatrix:
		elem = p.tree.Universe.GetVectorType(baseType.SubType.Kind, baseType.Cols)
	}
	p.tree.SetReturnType(id, elem)
	return id
}
