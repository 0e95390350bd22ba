// Package preprocessor expands the token stream the lexer produces:
// directives, conditional compilation, and recursive macro expansion
// with token pasting.
package preprocessor

import (
	"shaderxc/diag"
	"shaderxc/lexer"
	"shaderxc/token"
)

// condFrame tracks one level of #if/#elif/#else/#endif nesting.
type condFrame struct {
	parentActive  bool // was the enclosing region active when this frame opened
	taken         bool // has any branch in this chain already been selected
	currentActive bool // is the CURRENT branch selected
	atLoc         token.Location
}

func (f condFrame) combinedActive() bool { return f.parentActive && f.currentActive }

// Preprocessor expands one translation unit's token stream in place,
// re-emitting an expanded, directive-free stream.
type Preprocessor struct {
	interner *lexer.Interner
	macros   map[string]*Macro
	diags    *diag.Bag
	loader   Includer

	nextFileIndex  int32
	includeChain   map[int32][]string // file index -> paths of the #includes open around it
}

// New creates a Preprocessor. interner must be the same Interner the
// lexer used, so identifier and string payloads resolve correctly.
// featureMacros are predefined as integer literal `1` before any
// source is processed.
func New(interner *lexer.Interner, diags *diag.Bag, loader Includer, startFileIndex int32, featureMacros []string) *Preprocessor {
	p := &Preprocessor{
		interner:       interner,
		macros:         make(map[string]*Macro),
		diags:          diags,
		loader:         loader,
		nextFileIndex:  startFileIndex,
		includeChain:   make(map[int32][]string),
	}
	for _, name := range featureMacros {
		p.macros[name] = &Macro{Name: name, Body: []token.Token{{Kind: token.IntLit, IntVal: 1}}}
	}
	return p
}

func (p *Preprocessor) text(tok token.Token) string {
	if tok.Kind == token.Ident || tok.Kind == token.IdentNoReplace {
		return p.interner.String(tok.PayloadOff, tok.PayloadLen)
	}
	return ""
}

func condActive(stack []condFrame) bool {
	if len(stack) == 0 {
		return true
	}
	for _, f := range stack {
		if !f.combinedActive() {
			return false
		}
	}
	return true
}

func (p *Preprocessor) isDirectiveStart(tokens []token.Token, i int) bool {
	if tokens[i].Kind != token.Hash {
		return false
	}
	if i == 0 {
		return true
	}
	return tokens[i-1].LogicalLine != tokens[i].LogicalLine || tokens[i-1].Loc.FileIndex != tokens[i].Loc.FileIndex
}

func directiveLineEnd(tokens []token.Token, hashIdx int) int {
	ll := tokens[hashIdx].LogicalLine
	j := hashIdx
	for j < len(tokens) && tokens[j].Kind != token.EOF && tokens[j].LogicalLine == ll {
		j++
	}
	return j
}

func directiveKeyword(p *Preprocessor, tok token.Token) string {
	switch tok.Kind {
	case token.KWIf:
		return "if"
	case token.KWElse:
		return "else"
	case token.Ident:
		return p.text(tok)
	default:
		return ""
	}
}

// Process expands tokens (as produced by the lexer, including its
// trailing EOF) into a directive-free stream, also terminated by EOF.
func (p *Preprocessor) Process(tokens []token.Token) []token.Token {
	var condStack []condFrame
	var out []token.Token

	i := 0
	for i < len(tokens) && tokens[i].Kind != token.EOF {
		if p.isDirectiveStart(tokens, i) {
			included, next := p.handleDirective(tokens, i, &condStack)
			if included != nil {
				tail := append([]token.Token{}, tokens[next:]...)
				tokens = append(tokens[:next:next], append(included, tail...)...)
			}
			i = next
			continue
		}

		start := i
		for i < len(tokens) && tokens[i].Kind != token.EOF && !p.isDirectiveStart(tokens, i) {
			i++
		}
		if condActive(condStack) {
			run := tokens[start:i]
			out = append(out, p.substituteAndRescan(run, map[string]bool{})...)
		}
	}

	if len(condStack) > 0 {
		top := condStack[len(condStack)-1]
		p.diags.AddFatal(diag.Preprocessor, top.atLoc, "unterminated conditional directive")
	}

	// No-replace markers are only meaningful while their rescan is in
	// flight; once the whole stream has been expanded, they revert to
	// plain identifiers.
	for i := range out {
		if out[i].Kind == token.IdentNoReplace {
			out[i].Kind = token.Ident
		}
	}

	out = append(out, token.Token{Kind: token.EOF})
	return out
}

// handleDirective processes the directive starting at tokens[hashIdx].
// It returns (includedTokens, nextIndex): includedTokens is non-nil
// only for a successful #include, in which case the caller splices
// those tokens into the stream at nextIndex before continuing.
func (p *Preprocessor) handleDirective(tokens []token.Token, hashIdx int, condStack *[]condFrame) ([]token.Token, int) {
	lineEnd := directiveLineEnd(tokens, hashIdx)
	line := tokens[hashIdx+1 : lineEnd]
	active := condActive(*condStack)
	loc := tokens[hashIdx].Loc

	if len(line) == 0 {
		if active {
			p.diags.Add(diag.Preprocessor, loc, "expected a directive name after '#'")
		}
		return nil, lineEnd
	}

	name := directiveKeyword(p, line[0])
	switch name {
	case "if":
		parentActive := active
		var branchActive bool
		if parentActive {
			branchActive = p.evalConstExpr(line[1:], loc) != 0
		}
		*condStack = append(*condStack, condFrame{parentActive: parentActive, taken: branchActive, currentActive: branchActive, atLoc: loc})

	case "ifdef", "ifndef":
		parentActive := active
		var branchActive bool
		if parentActive {
			if len(line) < 2 || line[1].Kind != token.Ident {
				p.diags.Add(diag.Preprocessor, loc, "expected macro name after '#%s'", name)
			} else {
				_, defined := p.macros[p.text(line[1])]
				if name == "ifndef" {
					defined = !defined
				}
				branchActive = defined
			}
		}
		*condStack = append(*condStack, condFrame{parentActive: parentActive, taken: branchActive, currentActive: branchActive, atLoc: loc})

	case "elif":
		if len(*condStack) == 0 {
			p.diags.Add(diag.Preprocessor, loc, "#elif without matching #if")
			break
		}
		top := &(*condStack)[len(*condStack)-1]
		switch {
		case !top.parentActive || top.taken:
			top.currentActive = false
		default:
			top.currentActive = p.evalConstExpr(line[1:], loc) != 0
			if top.currentActive {
				top.taken = true
			}
		}

	case "else":
		if len(*condStack) == 0 {
			p.diags.Add(diag.Preprocessor, loc, "#else without matching #if")
			break
		}
		top := &(*condStack)[len(*condStack)-1]
		switch {
		case !top.parentActive || top.taken:
			top.currentActive = false
		default:
			top.currentActive = true
			top.taken = true
		}

	case "endif":
		if len(*condStack) == 0 {
			p.diags.Add(diag.Preprocessor, loc, "#endif without matching #if")
			break
		}
		*condStack = (*condStack)[:len(*condStack)-1]

	case "define":
		if active {
			p.handleDefine(line[1:], loc)
		}

	case "undef":
		if active {
			if len(line) < 2 || line[1].Kind != token.Ident {
				p.diags.Add(diag.Preprocessor, loc, "expected macro name after '#undef'")
			} else {
				delete(p.macros, p.text(line[1]))
			}
		}

	case "include":
		if active {
			return p.handleInclude(line[1:], loc, lineEnd)
		}

	case "error":
		if active {
			p.diags.Add(diag.Preprocessor, loc, "#error: %s", renderTokens(p, line[1:]))
		}

	default:
		if active {
			p.diags.Add(diag.Preprocessor, loc, "unknown preprocessor directive '#%s'", name)
		}
	}

	return nil, lineEnd
}

func (p *Preprocessor) handleInclude(rest []token.Token, loc token.Location, lineEnd int) ([]token.Token, int) {
	if len(rest) == 0 || rest[0].Kind != token.StringLit {
		p.diags.Add(diag.Preprocessor, loc, "expected a \"path\" after '#include'")
		return nil, lineEnd
	}
	path := p.interner.String(rest[0].PayloadOff, rest[0].PayloadLen)
	chain := p.includeChain[loc.FileIndex]
	for _, open := range chain {
		if open == path {
			p.diags.Add(diag.Preprocessor, loc, "recursive #include of %q", path)
			return nil, lineEnd
		}
	}
	if p.loader == nil {
		p.diags.Add(diag.Preprocessor, loc, "cannot open include file %q: no include loader configured", path)
		return nil, lineEnd
	}
	text, ok := p.loader.Load(path)
	if !ok {
		p.diags.Add(diag.Preprocessor, loc, "cannot open include file %q", path)
		return nil, lineEnd
	}

	fileIndex := p.nextFileIndex
	p.nextFileIndex++
	p.includeChain[fileIndex] = append(append([]string(nil), chain...), path)
	sub := lexer.New(text, fileIndex, p.interner)
	subTokens, errs := sub.Scan()
	for _, err := range errs {
		p.diags.Add(diag.Lexical, loc, "in %q: %s", path, err.Error())
	}

	if len(subTokens) > 0 && subTokens[len(subTokens)-1].Kind == token.EOF {
		subTokens = subTokens[:len(subTokens)-1]
	}
	return subTokens, lineEnd
}

func renderTokens(p *Preprocessor, toks []token.Token) string {
	var out []byte
	for i, tok := range toks {
		if i > 0 {
			out = append(out, ' ')
		}
		out = append(out, lexer.TokenText(tok, p.interner)...)
	}
	return string(out)
}

func (p *Preprocessor) handleDefine(rest []token.Token, loc token.Location) {
	if len(rest) == 0 || rest[0].Kind != token.Ident {
		p.diags.Add(diag.Preprocessor, loc, "macro name must be an identifier")
		return
	}
	nameTok := rest[0]
	name := p.text(nameTok)
	m := &Macro{Name: name, DefinedAt: loc}
	body := rest[1:]

	functionLike := len(body) > 0 && body[0].Kind == token.LParen &&
		body[0].Loc.Line == nameTok.Loc.Line &&
		body[0].Loc.Column == nameTok.Loc.Column+int32(len(name))

	if functionLike {
		m.FunctionLike = true
		j := 1
		for j < len(body) && body[j].Kind != token.RParen {
			if body[j].Kind != token.Ident {
				p.diags.Add(diag.Preprocessor, loc, "expected parameter name in macro parameter list")
				break
			}
			m.Params = append(m.Params, p.text(body[j]))
			j++
			if j < len(body) && body[j].Kind == token.Comma {
				j++
			}
		}
		if j < len(body) && body[j].Kind == token.RParen {
			j++
		} else {
			p.diags.Add(diag.Preprocessor, loc, "expected ')' in macro parameter list")
		}
		m.Body = body[j:]

		params := make(map[string]bool, len(m.Params))
		for _, param := range m.Params {
			params[param] = true
		}
		for j := 0; j+1 < len(m.Body); j++ {
			if m.Body[j].Kind == token.Hash && m.Body[j+1].Kind == token.Ident && params[p.text(m.Body[j+1])] {
				p.diags.Add(diag.Preprocessor, loc, "stringification ('#%s') is not supported", p.text(m.Body[j+1]))
			}
		}
	} else {
		m.Body = body
	}

	p.macros[name] = m
}
