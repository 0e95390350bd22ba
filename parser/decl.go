package parser

import (
	"strings"

	"shaderxc/ast"
	"shaderxc/diag"
	"shaderxc/token"
	"shaderxc/types"
)

func (p *Parser) parseTopLevelDecl() {
	switch {
	case p.check(token.KWStruct):
		p.parseStructDecl()
	case p.check(token.KWCBuffer):
		p.parseCBufferDecl()
	default:
		p.parseGlobalOrFunction()
	}
}

func (p *Parser) parseQualifiers() ast.VarFlags {
	var flags ast.VarFlags
	for {
		switch p.peek().Kind {
		case token.KWIn:
			flags |= ast.AttrIn
			p.advance()
		case token.KWOut:
			flags |= ast.AttrOut
			p.advance()
		case token.KWInOut:
			flags |= ast.AttrIn | ast.AttrOut
			p.advance()
		case token.KWConst:
			flags |= ast.AttrConst
			p.advance()
		case token.KWStatic:
			flags |= ast.AttrStatic
			p.advance()
		case token.KWUniform:
			flags |= ast.AttrUniform
			p.advance()
		default:
			return flags
		}
	}
}

func (p *Parser) parseBaseType() (*types.Type, bool) {
	if !p.check(token.Ident) && !p.check(token.IdentNoReplace) {
		return nil, false
	}
	typ := p.resolveTypeName(p.text(p.peek()))
	if typ == nil {
		return nil, false
	}
	p.advance()
	return typ, true
}

func (p *Parser) parseArraySuffix(elem *types.Type) *types.Type {
	if !p.match(token.LBracket) {
		return elem
	}
	countTok := p.expect(token.IntLit, "array length")
	p.expect(token.RBracket, "to close array declarator")
	return p.tree.Types.GetArrayType(elem, int(countTok.IntVal))
}

// splitTrailingDigits separates a semantic/register spelling like
// "TEXCOORD0" or "c12" into its name prefix and numeric suffix (0 if
// there is none).
func splitTrailingDigits(s string) (string, int) {
	i := len(s)
	for i > 0 && s[i-1] >= '0' && s[i-1] <= '9' {
		i--
	}
	if i == len(s) {
		return s, 0
	}
	n := 0
	for _, c := range s[i:] {
		n = n*10 + int(c-'0')
	}
	return s[:i], n
}

func (p *Parser) parseSemantic() (string, int) {
	tok := p.expect(token.Ident, "semantic name")
	return splitTrailingDigits(p.text(tok))
}

func (p *Parser) parseRegister() int {
	p.advance() // 'register'
	p.expect(token.LParen, "after 'register'")
	tok := p.expect(token.Ident, "register specifier")
	_, idx := splitTrailingDigits(p.text(tok))
	p.expect(token.RParen, "to close 'register(...)'")
	return idx
}

func (p *Parser) parsePackOffset() int {
	p.advance() // 'packoffset'
	p.expect(token.LParen, "after 'packoffset'")
	tok := p.expect(token.Ident, "packoffset specifier")
	_, idx := splitTrailingDigits(p.text(tok))
	if p.match(token.OpMember) {
		p.expect(token.Ident, "packoffset component")
	}
	p.expect(token.RParen, "to close 'packoffset(...)'")
	return idx
}

func (p *Parser) skipToSemicolon() {
	for !p.atEnd() && !p.check(token.Semicolon) {
		p.advance()
	}
	p.match(token.Semicolon)
}

// declareVar allocates a VarDecl node, registers it in the current
// scope, and links its PrevScopeDecl to whatever it shadows.
func (p *Parser) declareVar(loc token.Location, name string, declType *types.Type, flags ast.VarFlags) ast.NodeID {
	id := p.tree.New(ast.KindVarDecl, loc)
	n := p.tree.Node(id)
	n.Name = name
	n.DeclType = declType
	n.Flags = flags
	if prev, had := p.scopes.declare(name, id); had {
		n.PrevScopeDecl = prev
	} else {
		n.PrevScopeDecl = ast.NoNode
	}
	return id
}

func (p *Parser) parseStructDecl() {
	p.advance() // 'struct'
	nameTok := p.expect(token.Ident, "struct name")
	name := p.text(nameTok)
	st := p.tree.Types.CreateStructType(name)
	p.structTypes[name] = st

	p.expect(token.LBrace, "to open struct body")
	for !p.check(token.RBrace) && !p.atEnd() {
		p.parseQualifiers() // storage qualifiers are meaningless on struct members; consumed and ignored
		typ, ok := p.parseBaseType()
		if !ok {
			p.diags.Add(diag.Syntactic, p.curLoc(), "expected a type name in struct member")
			p.skipToSemicolon()
			continue
		}
		for {
			memberNameTok := p.expect(token.Ident, "struct member name")
			memberType := p.parseArraySuffix(typ)
			if p.match(token.Colon) {
				p.parseSemantic()
			}
			st.Members = append(st.Members, types.StructMember{Name: p.text(memberNameTok), Type: memberType})
			if !p.match(token.Comma) {
				break
			}
		}
		p.expect(token.Semicolon, "after struct member")
	}
	p.expect(token.RBrace, "to close struct body")
	p.match(token.Semicolon)
	p.tree.Types.FinishStruct(st)
}

func (p *Parser) parseCBufferDecl() {
	loc := p.advance().Loc // 'cbuffer'
	nameTok := p.expect(token.Ident, "cbuffer name")
	id := p.tree.New(ast.KindCBufferDecl, loc)
	p.tree.Node(id).Name = p.text(nameTok)

	if p.match(token.Colon) {
		if p.check(token.KWRegister) {
			p.tree.Node(id).CBufferRegisterID = p.parseRegister()
		}
	}

	p.expect(token.LBrace, "to open cbuffer body")
	for !p.check(token.RBrace) && !p.atEnd() {
		flags := p.parseQualifiers() | ast.AttrUniform | ast.AttrGlobal
		typ, ok := p.parseBaseType()
		if !ok {
			p.diags.Add(diag.Syntactic, p.curLoc(), "expected a type name in cbuffer member")
			p.skipToSemicolon()
			continue
		}
		for {
			memberNameTok := p.expect(token.Ident, "cbuffer member name")
			memberType := p.parseArraySuffix(typ)
			regID, packOff := 0, 0
			if p.match(token.Colon) {
				if p.check(token.KWPackOffset) {
					packOff = p.parsePackOffset()
				} else {
					p.parseSemantic()
				}
			}
			if p.check(token.KWRegister) {
				regID = p.parseRegister()
			}
			varID := p.declareVar(memberNameTok.Loc, p.text(memberNameTok), memberType, flags)
			n := p.tree.Node(varID)
			n.RegisterID = regID
			n.PackOffset = packOff
			p.tree.AppendChild(id, varID)
			p.tree.GlobalVars = append(p.tree.GlobalVars, varID)
			if !p.match(token.Comma) {
				break
			}
		}
		p.expect(token.Semicolon, "after cbuffer member")
	}
	p.expect(token.RBrace, "to close cbuffer body")
	p.match(token.Semicolon)
}

func (p *Parser) parseGlobalOrFunction() {
	flags := p.parseQualifiers()
	typ, ok := p.parseBaseType()
	if !ok {
		tok := p.peek()
		p.diags.Add(diag.Syntactic, tok.Loc, "expected a type name, got %s", tok.Kind)
		p.skipToSemicolon()
		return
	}
	nameTok := p.expect(token.Ident, "declaration name")
	name := p.text(nameTok)

	if p.check(token.LParen) {
		p.parseFunctionDecl(typ, name, nameTok.Loc)
		return
	}
	p.parseGlobalVarTail(flags, typ, name, nameTok.Loc)
}

func (p *Parser) parseInitializerExpr() ast.NodeID {
	toks := p.readExpressionTokens(true)
	return p.parseExprRange(toks)
}

func (p *Parser) parseGlobalVarTail(flags ast.VarFlags, typ *types.Type, firstName string, firstLoc token.Location) {
	name, loc := firstName, firstLoc
	for {
		declType := p.parseArraySuffix(typ)
		regID, packOff := 0, 0
		if p.match(token.Colon) {
			if p.check(token.KWPackOffset) {
				packOff = p.parsePackOffset()
			} else {
				p.parseSemantic()
			}
		}
		if p.check(token.KWRegister) {
			regID = p.parseRegister()
		}
		varID := p.declareVar(loc, name, declType, flags|ast.AttrGlobal)
		n := p.tree.Node(varID)
		n.RegisterID = regID
		n.PackOffset = packOff
		if p.match(token.OpAssign) {
			init := p.coerce(p.parseInitializerExpr(), declType)
			p.tree.AppendChild(varID, init)
		}
		p.tree.GlobalVars = append(p.tree.GlobalVars, varID)
		if !p.match(token.Comma) {
			break
		}
		nameTok := p.expect(token.Ident, "declarator name")
		name, loc = p.text(nameTok), nameTok.Loc
	}
	p.expect(token.Semicolon, "after variable declaration")
}

func mangleFunctionName(name string, paramTypes []*types.Type) string {
	var sb strings.Builder
	sb.WriteString(name)
	for _, t := range paramTypes {
		sb.WriteByte('_')
		sb.WriteString(t.Mangling())
	}
	return sb.String()
}

func (p *Parser) parseFunctionDecl(returnType *types.Type, name string, loc token.Location) {
	fnID := p.tree.New(ast.KindFunction, loc)
	p.tree.Node(fnID).Name = name
	p.tree.Node(fnID).FuncReturnType = returnType
	p.functions[name] = append(p.functions[name], fnID)

	p.expect(token.LParen, "to open parameter list")
	p.scopes.push()
	var paramTypes []*types.Type
	if !p.check(token.RParen) {
		for {
			pflags := p.parseQualifiers()
			ptyp, ok := p.parseBaseType()
			if !ok {
				p.diags.Add(diag.Syntactic, p.curLoc(), "expected parameter type")
				break
			}
			pnameTok := p.expect(token.Ident, "parameter name")
			ptyp = p.parseArraySuffix(ptyp)
			var psem string
			var pidx int
			if p.match(token.Colon) {
				psem, pidx = p.parseSemantic()
			}
			if pflags == 0 {
				pflags = ast.AttrIn
			}
			pid := p.declareVar(pnameTok.Loc, p.text(pnameTok), ptyp, pflags)
			p.tree.Node(pid).SemanticName, p.tree.Node(pid).SemanticIndex = psem, pidx
			p.tree.AppendChild(fnID, pid)
			paramTypes = append(paramTypes, ptyp)
			if !p.match(token.Comma) {
				break
			}
		}
	}
	p.expect(token.RParen, "to close parameter list")

	fn := p.tree.Node(fnID)
	fn.MangledName = mangleFunctionName(name, paramTypes)

	if p.match(token.Colon) {
		fn.ReturnSemantic, _ = p.parseSemantic()
	}

	if name == p.cfg.EntryPoint {
		fn.IsEntryPoint = true
		fn.IsUsed = true
		p.tree.EntryPoint = fnID
	}

	outerFunc := p.currentFunc
	p.currentFunc = fnID
	bodyID := p.parseBlockStmt()
	p.currentFunc = outerFunc

	p.tree.AppendChild(fnID, bodyID)
	p.scopes.pop()
	p.tree.FunctionList = append(p.tree.FunctionList, fnID)
}
