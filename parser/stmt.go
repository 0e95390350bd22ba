package parser

import (
	"shaderxc/ast"
	"shaderxc/config"
	"shaderxc/diag"
	"shaderxc/token"
)

// parseBlockStmt parses `{ stmt* }`, pushing a fresh lexical scope.
func (p *Parser) parseBlockStmt() ast.NodeID {
	loc := p.expect(token.LBrace, "to open block").Loc
	id := p.tree.New(ast.KindBlockStmt, loc)
	p.scopes.push()
	for !p.check(token.RBrace) && !p.atEnd() {
		stmt := p.parseStatement()
		if stmt != ast.NoNode {
			p.tree.AppendChild(id, stmt)
		}
	}
	p.scopes.pop()
	p.expect(token.RBrace, "to close block")
	return id
}

func (p *Parser) parseStatement() ast.NodeID {
	switch p.peek().Kind {
	case token.LBrace:
		return p.parseBlockStmt()
	case token.KWIf:
		return p.parseIfStmt()
	case token.KWWhile:
		return p.parseWhileStmt()
	case token.KWDo:
		return p.parseDoWhileStmt()
	case token.KWFor:
		return p.parseForStmt()
	case token.KWReturn:
		return p.parseReturnStmt()
	case token.KWDiscard:
		return p.parseDiscardStmt()
	case token.KWBreak:
		return p.parseBreakStmt()
	case token.KWContinue:
		return p.parseContinueStmt()
	case token.Semicolon:
		p.advance()
		return ast.NoNode
	default:
		return p.parseVarDeclOrExprStmt()
	}
}

func (p *Parser) parseIfStmt() ast.NodeID {
	loc := p.advance().Loc // 'if'
	p.expect(token.LParen, "after 'if'")
	condToks := p.readExpressionTokens(false)
	// readExpressionTokens stops before the ')'; consume it explicitly.
	p.expect(token.RParen, "to close 'if' condition")
	cond := p.coerce(p.parseExprRange(condToks), p.tree.Universe.Bool)

	id := p.tree.New(ast.KindIfStmt, loc)
	thenID := p.parseStatement()
	p.tree.AppendChild(id, cond)
	if thenID != ast.NoNode {
		p.tree.AppendChild(id, thenID)
	}
	var elseID ast.NodeID = ast.NoNode
	if p.match(token.KWElse) {
		elseID = p.parseStatement()
		if elseID != ast.NoNode {
			p.tree.AppendChild(id, elseID)
		}
	}
	n := p.tree.Node(id)
	n.Cond, n.Then, n.Else = cond, thenID, elseID
	return id
}

func (p *Parser) parseWhileStmt() ast.NodeID {
	loc := p.advance().Loc // 'while'
	p.expect(token.LParen, "after 'while'")
	condToks := p.readExpressionTokens(false)
	p.expect(token.RParen, "to close 'while' condition")
	cond := p.coerce(p.parseExprRange(condToks), p.tree.Universe.Bool)

	id := p.tree.New(ast.KindWhileStmt, loc)
	p.tree.AppendChild(id, cond)
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	if body != ast.NoNode {
		p.tree.AppendChild(id, body)
	}
	n := p.tree.Node(id)
	n.Cond, n.Then = cond, body
	return id
}

func (p *Parser) parseDoWhileStmt() ast.NodeID {
	loc := p.advance().Loc // 'do'
	id := p.tree.New(ast.KindDoWhileStmt, loc)
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	if body != ast.NoNode {
		p.tree.AppendChild(id, body)
	}
	p.expect(token.KWWhile, "to close 'do' loop")
	p.expect(token.LParen, "after 'while'")
	condToks := p.readExpressionTokens(false)
	p.expect(token.RParen, "to close 'while' condition")
	p.expect(token.Semicolon, "after 'do ... while(...)'")
	cond := p.coerce(p.parseExprRange(condToks), p.tree.Universe.Bool)
	p.tree.AppendChild(id, cond)

	n := p.tree.Node(id)
	n.Then, n.Cond = body, cond
	return id
}

func (p *Parser) parseForStmt() ast.NodeID {
	loc := p.advance().Loc // 'for'
	p.expect(token.LParen, "after 'for'")

	id := p.tree.New(ast.KindForStmt, loc)
	p.scopes.push()

	var initID ast.NodeID = ast.NoNode
	if !p.check(token.Semicolon) {
		initID = p.parseVarDeclOrExprStmt()
	} else {
		p.advance()
	}

	var condID ast.NodeID = ast.NoNode
	if !p.check(token.Semicolon) {
		condToks := p.readExpressionTokens(false)
		condID = p.coerce(p.parseExprRange(condToks), p.tree.Universe.Bool)
	}
	p.expect(token.Semicolon, "after 'for' condition")

	var incrID ast.NodeID = ast.NoNode
	if !p.check(token.RParen) {
		incrToks := p.readExpressionTokens(false)
		incrID = p.parseExprRange(incrToks)
	}
	p.expect(token.RParen, "to close 'for' clauses")

	p.loopDepth++
	bodyID := p.parseStatement()
	p.loopDepth--
	p.scopes.pop()

	if initID != ast.NoNode {
		p.tree.AppendChild(id, initID)
	}
	if condID != ast.NoNode {
		p.tree.AppendChild(id, condID)
	}
	if incrID != ast.NoNode {
		p.tree.AppendChild(id, incrID)
	}
	if bodyID != ast.NoNode {
		p.tree.AppendChild(id, bodyID)
	}
	n := p.tree.Node(id)
	n.ForInit, n.ForCond, n.ForIncr, n.ForBody = initID, condID, incrID, bodyID
	return id
}

func (p *Parser) parseReturnStmt() ast.NodeID {
	loc := p.advance().Loc // 'return'
	id := p.tree.New(ast.KindReturnStmt, loc)

	var valueID ast.NodeID = ast.NoNode
	if !p.check(token.Semicolon) {
		toks := p.readExpressionTokens(false)
		valueID = p.parseExprRange(toks)
		if p.currentFunc != ast.NoNode {
			valueID = p.coerce(valueID, p.tree.Node(p.currentFunc).FuncReturnType)
		}
		p.tree.AppendChild(id, valueID)
	} else if p.currentFunc != ast.NoNode && p.tree.Node(p.currentFunc).FuncReturnType != p.tree.Universe.Void {
		p.diags.Add(diag.Semantic, loc, "non-void function must return a value")
	}
	p.expect(token.Semicolon, "after 'return'")

	p.tree.Node(id).ReturnValue = valueID
	if p.currentFunc != ast.NoNode {
		p.tree.AppendReturnStmt(p.currentFunc, id)
	}
	return id
}

func (p *Parser) parseDiscardStmt() ast.NodeID {
	loc := p.advance().Loc
	if p.cfg.Stage != config.StagePixel {
		p.diags.Add(diag.Semantic, loc, "'discard' is only legal in a pixel shader")
	}
	p.expect(token.Semicolon, "after 'discard'")
	return p.tree.New(ast.KindDiscardStmt, loc)
}

func (p *Parser) parseBreakStmt() ast.NodeID {
	loc := p.advance().Loc
	if p.loopDepth == 0 {
		p.diags.Add(diag.Semantic, loc, "'break' outside a loop")
	}
	p.expect(token.Semicolon, "after 'break'")
	return p.tree.New(ast.KindBreakStmt, loc)
}

func (p *Parser) parseContinueStmt() ast.NodeID {
	loc := p.advance().Loc
	if p.loopDepth == 0 {
		p.diags.Add(diag.Semantic, loc, "'continue' outside a loop")
	}
	p.expect(token.Semicolon, "after 'continue'")
	return p.tree.New(ast.KindContinueStmt, loc)
}

// parseVarDeclOrExprStmt disambiguates a local declaration from a bare
// expression statement by checking whether the next identifier names a
// type, via a lookahead over the token stream.
func (p *Parser) parseVarDeclOrExprStmt() ast.NodeID {
	if p.looksLikeLocalDecl() {
		return p.parseVarDeclStmt()
	}
	loc := p.curLoc()
	expr := p.parseExpression()
	p.expect(token.Semicolon, "after expression statement")
	id := p.tree.New(ast.KindExprStmt, loc)
	p.tree.AppendChild(id, expr)
	return id
}

func (p *Parser) looksLikeLocalDecl() bool {
	switch p.peek().Kind {
	case token.KWConst, token.KWStatic:
		return true
	}
	tok := p.peek()
	if tok.Kind != token.Ident && tok.Kind != token.IdentNoReplace {
		return false
	}
	return p.isTypeName(p.text(tok))
}

func (p *Parser) parseVarDeclStmt() ast.NodeID {
	loc := p.curLoc()
	flags := p.parseQualifiers()
	typ, ok := p.parseBaseType()
	if !ok {
		p.diags.Add(diag.Syntactic, p.curLoc(), "expected a type name in local declaration")
		p.skipToSemicolon()
		return ast.NoNode
	}

	id := p.tree.New(ast.KindVarDeclStmt, loc)
	for {
		nameTok := p.expect(token.Ident, "variable name")
		declType := p.parseArraySuffix(typ)
		varID := p.declareVar(nameTok.Loc, p.text(nameTok), declType, flags)
		p.tree.AppendChild(id, varID)
		if p.match(token.OpAssign) {
			init := p.coerce(p.parseInitializerExpr(), declType)
			p.tree.AppendChild(varID, init)
		}
		if !p.match(token.Comma) {
			break
		}
	}
	p.expect(token.Semicolon, "after local variable declaration")
	return id
}
