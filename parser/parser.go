// Package parser builds a fully type-checked AST directly from a
// preprocessed token stream: there is no separate untyped-parse-tree
// stage. It uses peek/advance/isMatch-style recursive descent plus a
// precedence-climbing expression scanner, built around the arena
// ast.Tree instead of raw AST pointers.
package parser

import (
	"shaderxc/ast"
	"shaderxc/config"
	"shaderxc/diag"
	"shaderxc/lexer"
	"shaderxc/token"
	"shaderxc/types"
)

// Parser consumes an already-preprocessed token stream (see the
// preprocessor package) and produces an ast.Tree.
type Parser struct {
	toks     []token.Token
	pos      int
	interner *lexer.Interner
	tree     *ast.Tree
	diags    *diag.Bag
	cfg      config.Config

	scopes      *scopeStack
	structTypes map[string]*types.Type
	functions   map[string][]ast.NodeID

	// currentFunc is the enclosing function while parsing its body, so
	// ReturnStmt parsing can thread itself onto the function's
	// return-statement list and check the return type.
	currentFunc ast.NodeID

	// loopDepth tracks whether break/continue are currently legal.
	loopDepth int
}

// New creates a Parser over toks (the output of preprocessor.Process),
// sharing interner with the lexer/preprocessor that produced toks.
func New(toks []token.Token, interner *lexer.Interner, diags *diag.Bag, cfg config.Config) *Parser {
	return &Parser{
		toks:        toks,
		interner:    interner,
		tree:        ast.NewTree(types.NewUniverse()),
		diags:       diags,
		cfg:         cfg,
		scopes:      newScopeStack(),
		structTypes: make(map[string]*types.Type),
		functions:   make(map[string][]ast.NodeID),
	}
}

// Parse consumes the whole token stream and returns the resulting
// Tree. Callers should check diags.HasFatal() before trusting the
// result for further passes.
func (p *Parser) Parse() *ast.Tree {
	for !p.atEnd() && !p.diags.HasFatal() {
		p.parseTopLevelDecl()
	}
	if !p.diags.HasFatal() && p.tree.EntryPoint == ast.NoNode {
		p.diags.AddFatal(diag.Semantic, token.BadLocation, "no entry point function named %q", p.cfg.EntryPoint)
	}
	return p.tree
}

// ---- token cursor ----

func (p *Parser) atEnd() bool { return p.pos >= len(p.toks) || p.toks[p.pos].Kind == token.EOF }

func (p *Parser) peek() token.Token {
	if p.pos >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[p.pos]
}

func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return token.Token{Kind: token.EOF}
	}
	return p.toks[i]
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if p.pos < len(p.toks) {
		p.pos++
	}
	return tok
}

func (p *Parser) check(k token.Kind) bool { return p.peek().Kind == k }

func (p *Parser) match(k token.Kind) bool {
	if p.check(k) {
		p.advance()
		return true
	}
	return false
}

// expect consumes the next token if it matches k, otherwise reports a
// syntax diagnostic and returns the (wrong) token found, so callers can
// keep parsing in a best-effort way rather than aborting outright.
func (p *Parser) expect(k token.Kind, context string) token.Token {
	if p.check(k) {
		return p.advance()
	}
	tok := p.peek()
	p.diags.Add(diag.Syntactic, tok.Loc, "expected %s %s, got %s", k, context, tok.Kind)
	return tok
}

func (p *Parser) text(tok token.Token) string {
	if tok.Kind == token.Ident || tok.Kind == token.IdentNoReplace {
		return p.interner.String(tok.PayloadOff, tok.PayloadLen)
	}
	return ""
}

func (p *Parser) curLoc() token.Location { return p.peek().Loc }

// voidErrorExpr builds a placeholder expression of type void, used so
// a syntax or semantic error can be recovered from without introducing
// a nil ReturnType downstream.
func (p *Parser) voidErrorExpr(loc token.Location) ast.NodeID {
	id := p.tree.New(ast.KindVoidExpr, loc)
	p.tree.SetReturnType(id, p.tree.Universe.Void)
	return id
}

