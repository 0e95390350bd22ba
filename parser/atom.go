package parser

import (
	"shaderxc/ast"
	"shaderxc/diag"
	"shaderxc/token"
)

func (p *Parser) literalInt(tok token.Token) ast.NodeID {
	id := p.tree.New(ast.KindInt32Expr, tok.Loc)
	p.tree.Node(id).IntVal = tok.IntVal
	p.tree.SetReturnType(id, p.tree.Universe.Int32)
	return id
}

func (p *Parser) literalFloat(tok token.Token) ast.NodeID {
	id := p.tree.New(ast.KindFloat32Expr, tok.Loc)
	p.tree.Node(id).FloatVal = tok.FloatVal
	p.tree.SetReturnType(id, p.tree.Universe.Float32)
	return id
}

func (p *Parser) literalBool(tok token.Token) ast.NodeID {
	id := p.tree.New(ast.KindBoolExpr, tok.Loc)
	p.tree.Node(id).BoolVal = tok.BoolVal
	p.tree.SetReturnType(id, p.tree.Universe.Bool)
	return id
}

func (p *Parser) buildDeclRef(name string, loc token.Location) ast.NodeID {
	decl, ok := p.scopes.lookup(name)
	id := p.tree.New(ast.KindDeclRefExpr, loc)
	if !ok {
		p.diags.Add(diag.Semantic, loc, "undeclared identifier %q", name)
		p.tree.SetReturnType(id, p.tree.Universe.Void)
		return id
	}
	p.tree.Node(id).Decl = decl
	p.tree.SetReturnType(id, p.tree.Node(decl).DeclType)
	return id
}

// parseAtom parses one base expression atom at toks[*i] — a literal, a
// parenthesized subexpression, a bare identifier, or a call/constructor
// invocation — and advances *i past it.
func (p *Parser) parseAtom(toks []token.Token, i *int) ast.NodeID {
	if *i >= len(toks) {
		loc := p.curLoc()
		p.diags.Add(diag.Syntactic, loc, "expected expression")
		return p.voidErrorExpr(loc)
	}
	tok := toks[*i]
	switch tok.Kind {
	case token.IntLit:
		*i++
		return p.literalInt(tok)
	case token.FloatLit:
		*i++
		return p.literalFloat(tok)
	case token.BoolLit:
		*i++
		return p.literalBool(tok)
	case token.LParen:
		close, ok := matchParen(toks, *i)
		if !ok {
			p.diags.Add(diag.Syntactic, tok.Loc, "unmatched '('")
			*i = len(toks)
			return p.voidErrorExpr(tok.Loc)
		}
		inner := toks[*i+1 : close]
		*i = close + 1
		return p.parseExprRange(inner)
	case token.Ident, token.IdentNoReplace:
		name := p.text(tok)
		loc := tok.Loc
		*i++
		if *i < len(toks) && toks[*i].Kind == token.LParen {
			close, ok := matchParen(toks, *i)
			if !ok {
				p.diags.Add(diag.Syntactic, toks[*i].Loc, "unmatched '(' in call to %q", name)
				*i = len(toks)
				return p.voidErrorExpr(loc)
			}
			argToks := toks[*i+1 : close]
			*i = close + 1
			var argIDs []ast.NodeID
			for _, a := range splitArgs(argToks) {
				if len(a) == 0 {
					continue
				}
				argIDs = append(argIDs, p.parseExprRange(a))
			}
			if typ := p.resolveTypeName(name); typ != nil {
				return p.buildConstructor(typ, argIDs, loc)
			}
			return p.resolveCall(name, argIDs, loc)
		}
		return p.buildDeclRef(name, loc)
	default:
		p.diags.Add(diag.Syntactic, tok.Loc, "unexpected token %s in expression", tok.Kind)
		*i++
		return p.voidErrorExpr(tok.Loc)
	}
}
