package preprocessor

import (
	"shaderxc/diag"
	"shaderxc/token"
)

// resolveDefined replaces every `defined(NAME)` or `defined NAME` in
// in with a literal 0/1, before ordinary macro expansion runs on the
// rest of the expression. `defined`'s operand is never macro-expanded.
func (p *Preprocessor) resolveDefined(in []token.Token) []token.Token {
	var out []token.Token
	i := 0
	for i < len(in) {
		if in[i].Kind == token.Ident && p.text(in[i]) == "defined" {
			loc := in[i].Loc
			i++
			hasParen := i < len(in) && in[i].Kind == token.LParen
			if hasParen {
				i++
			}
			v := int32(0)
			if i < len(in) && in[i].Kind == token.Ident {
				if _, defined := p.macros[p.text(in[i])]; defined {
					v = 1
				}
				i++
			} else {
				p.diags.Add(diag.Preprocessor, loc, "expected identifier after 'defined'")
			}
			if hasParen {
				if i < len(in) && in[i].Kind == token.RParen {
					i++
				} else {
					p.diags.Add(diag.Preprocessor, loc, "expected ')' after 'defined('")
				}
			}
			out = append(out, token.Token{Kind: token.IntLit, Loc: loc, IntVal: v})
			continue
		}
		out = append(out, in[i])
		i++
	}
	return out
}

// evalConstExpr evaluates a `#if`/`#elif` expression. Integer-only,
// with `defined` resolved first and macros expanded second, mirroring
// the standard preprocessor order of operations. Arithmetic wraps as
// 32-bit two's complement — Go's native int32 arithmetic already has
// this behavior, so no explicit masking is needed. An undefined
// identifier (one left over after macro expansion) evaluates to 0.
func (p *Preprocessor) evalConstExpr(exprToks []token.Token, loc token.Location) int32 {
	resolved := p.resolveDefined(exprToks)
	expanded := p.substituteAndRescan(resolved, map[string]bool{})
	if len(expanded) == 0 {
		p.diags.Add(diag.Preprocessor, loc, "empty constant expression")
		return 0
	}
	cp := &cexprParser{toks: expanded, pp: p, loc: loc}
	v := cp.parseExpr()
	if cp.pos < len(cp.toks) {
		p.diags.Add(diag.Preprocessor, cp.peek().Loc, "unexpected token in constant expression")
	}
	return v
}

// cexprParser is a small recursive-descent evaluator over the
// already-expanded token slice of a #if/#elif expression.
type cexprParser struct {
	toks []token.Token
	pos  int
	pp   *Preprocessor
	loc  token.Location
}

func (c *cexprParser) peek() token.Token {
	if c.pos >= len(c.toks) {
		return token.Token{Kind: token.EOF, Loc: c.loc}
	}
	return c.toks[c.pos]
}

func (c *cexprParser) advance() token.Token {
	tok := c.peek()
	c.pos++
	return tok
}

func (c *cexprParser) atEnd() bool { return c.pos >= len(c.toks) }

func b2i(v bool) int32 {
	if v {
		return 1
	}
	return 0
}

func (c *cexprParser) parseExpr() int32 { return c.parseLogicalOr() }

func (c *cexprParser) parseLogicalOr() int32 {
	v := c.parseLogicalAnd()
	for !c.atEnd() && c.peek().Kind == token.OpLogicalOr {
		c.advance()
		rhs := c.parseLogicalAnd()
		v = b2i(v != 0 || rhs != 0)
	}
	return v
}

func (c *cexprParser) parseLogicalAnd() int32 {
	v := c.parseBitOr()
	for !c.atEnd() && c.peek().Kind == token.OpLogicalAnd {
		c.advance()
		rhs := c.parseBitOr()
		v = b2i(v != 0 && rhs != 0)
	}
	return v
}

func (c *cexprParser) parseBitOr() int32 {
	v := c.parseBitXor()
	for !c.atEnd() && c.peek().Kind == token.OpOr {
		c.advance()
		v = v | c.parseBitXor()
	}
	return v
}

func (c *cexprParser) parseBitXor() int32 {
	v := c.parseBitAnd()
	for !c.atEnd() && c.peek().Kind == token.OpXor {
		c.advance()
		v = v ^ c.parseBitAnd()
	}
	return v
}

func (c *cexprParser) parseBitAnd() int32 {
	v := c.parseEquality()
	for !c.atEnd() && c.peek().Kind == token.OpAnd {
		c.advance()
		v = v & c.parseEquality()
	}
	return v
}

func (c *cexprParser) parseEquality() int32 {
	v := c.parseRelational()
	for !c.atEnd() && (c.peek().Kind == token.OpEq || c.peek().Kind == token.OpNEq) {
		op := c.advance().Kind
		rhs := c.parseRelational()
		if op == token.OpEq {
			v = b2i(v == rhs)
		} else {
			v = b2i(v != rhs)
		}
	}
	return v
}

func (c *cexprParser) parseRelational() int32 {
	v := c.parseShift()
	for !c.atEnd() {
		op := c.peek().Kind
		if op != token.OpLess && op != token.OpGreater && op != token.OpLEq && op != token.OpGEq {
			break
		}
		c.advance()
		rhs := c.parseShift()
		switch op {
		case token.OpLess:
			v = b2i(v < rhs)
		case token.OpGreater:
			v = b2i(v > rhs)
		case token.OpLEq:
			v = b2i(v <= rhs)
		case token.OpGEq:
			v = b2i(v >= rhs)
		}
	}
	return v
}

func (c *cexprParser) parseShift() int32 {
	v := c.parseAdditive()
	for !c.atEnd() && (c.peek().Kind == token.OpLsh || c.peek().Kind == token.OpRsh) {
		op := c.advance().Kind
		rhs := c.parseAdditive()
		if op == token.OpLsh {
			v = v << uint32(rhs)
		} else {
			v = v >> uint32(rhs)
		}
	}
	return v
}

func (c *cexprParser) parseAdditive() int32 {
	v := c.parseMultiplicative()
	for !c.atEnd() && (c.peek().Kind == token.OpAdd || c.peek().Kind == token.OpSub) {
		op := c.advance().Kind
		rhs := c.parseMultiplicative()
		if op == token.OpAdd {
			v = v + rhs
		} else {
			v = v - rhs
		}
	}
	return v
}

func (c *cexprParser) parseMultiplicative() int32 {
	v := c.parseUnary()
	for !c.atEnd() && (c.peek().Kind == token.OpMul || c.peek().Kind == token.OpDiv || c.peek().Kind == token.OpMod) {
		op := c.advance().Kind
		rhs := c.parseUnary()
		switch op {
		case token.OpMul:
			v = v * rhs
		case token.OpDiv:
			if rhs == 0 {
				c.pp.diags.Add(diag.Preprocessor, c.loc, "division by zero in constant expression")
				v = 0
			} else {
				v = v / rhs
			}
		case token.OpMod:
			if rhs == 0 {
				c.pp.diags.Add(diag.Preprocessor, c.loc, "modulo by zero in constant expression")
				v = 0
			} else {
				v = v % rhs
			}
		}
	}
	return v
}

func (c *cexprParser) parseUnary() int32 {
	switch c.peek().Kind {
	case token.OpSub:
		c.advance()
		return -c.parseUnary()
	case token.OpNot:
		c.advance()
		return b2i(c.parseUnary() == 0)
	case token.OpInv:
		c.advance()
		return ^c.parseUnary()
	default:
		return c.parsePrimary()
	}
}

func (c *cexprParser) parsePrimary() int32 {
	tok := c.peek()
	switch tok.Kind {
	case token.IntLit:
		c.advance()
		return tok.IntVal
	case token.BoolLit:
		c.advance()
		return b2i(tok.BoolVal)
	case token.FloatLit:
		c.advance()
		c.pp.diags.Add(diag.Preprocessor, tok.Loc, "floating-point literal not allowed in constant expression")
		return 0
	case token.Ident, token.IdentNoReplace:
		// Left over after macro expansion: an undefined identifier,
		// which evaluates to 0.
		c.advance()
		return 0
	case token.LParen:
		c.advance()
		v := c.parseExpr()
		if c.peek().Kind == token.RParen {
			c.advance()
		} else {
			c.pp.diags.Add(diag.Preprocessor, tok.Loc, "expected ')' in constant expression")
		}
		return v
	default:
		c.pp.diags.Add(diag.Preprocessor, tok.Loc, "unexpected token in constant expression")
		c.advance()
		return 0
	}
}
